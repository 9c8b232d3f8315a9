package sync

import (
	"bytes"
	"fmt"
	"path"

	"github.com/dotsync-labs/dotsync/internal/fsutil"
	"github.com/dotsync-labs/dotsync/internal/jsondoc"
	"github.com/dotsync-labs/dotsync/internal/manifest"
	"github.com/dotsync-labs/dotsync/internal/patch"
	"github.com/dotsync-labs/dotsync/internal/platform"
	"github.com/dotsync-labs/dotsync/internal/syncerr"
)

// applyImmutable replaces the project's tree with the skeleton's. Locks do
// not apply. The swap is skipped when the content already matches, but the
// executable bits are always reapplied.
func (e *Engine) applyImmutable(rule manifest.Rule) (Outcome, error) {
	if err := e.requireSource(rule.Path); err != nil {
		return "", err
	}
	p := fsutil.Rooted(rule.Path)

	existed, err := fsutil.Exists(e.project, p)
	if err != nil {
		return "", ioFailure(rule.Path, err)
	}
	equal, err := fsutil.TreeEqual(e.skeleton, p, e.project, p)
	if err != nil {
		return "", ioFailure(rule.Path, fmt.Errorf("comparing trees: %w", err))
	}

	outcome := OutcomeUnchanged
	switch {
	case !existed:
		outcome = OutcomeCreated
	case !equal:
		outcome = OutcomeReplaced
	}
	if e.opts.DryRun {
		return outcome, nil
	}

	if outcome != OutcomeUnchanged {
		if err := fsutil.ReplaceTree(e.skeleton, p, e.project, p); err != nil {
			return "", ioFailure(rule.Path, err)
		}
	}
	for _, exe := range rule.Executables {
		rel := path.Join(rule.Path, exe)
		if err := platform.MarkExecutable(e.project, fsutil.Rooted(rel)); err != nil {
			return "", ioFailure(rel, fmt.Errorf("marking executable: %w", err))
		}
	}
	return outcome, nil
}

// applyMerge regenerates the file from the skeleton, carrying over the
// project's custom marker region.
func (e *Engine) applyMerge(rule manifest.Rule) (Outcome, error) {
	fresh, err := e.readSkeleton(rule.Path)
	if err != nil {
		return "", err
	}
	old, exists, err := fsutil.ReadFileIfExists(e.project, fsutil.Rooted(rule.Path))
	if err != nil {
		return "", ioFailure(rule.Path, err)
	}

	var oldText *string
	if exists {
		s := string(old)
		oldText = &s
	}
	merged := []byte(e.manifest.DelimitersFor(rule).Merge(oldText, string(fresh)))
	return e.writeIfChanged(rule.Path, old, exists, merged)
}

// applyAddOnly copies the file only when the project lacks it.
func (e *Engine) applyAddOnly(rule manifest.Rule) (Outcome, error) {
	exists, err := fsutil.Exists(e.project, fsutil.Rooted(rule.Path))
	if err != nil {
		return "", ioFailure(rule.Path, err)
	}
	if exists {
		return OutcomeKept, nil
	}
	data, err := e.readSkeleton(rule.Path)
	if err != nil {
		return "", err
	}
	if err := e.writeFile(rule.Path, data); err != nil {
		return "", err
	}
	return OutcomeCreated, nil
}

// applyJSONPatch seeds the document from the skeleton when the project
// lacks it, then applies the skeleton's patch document if there is one.
func (e *Engine) applyJSONPatch(rule manifest.Rule, canonical bool) (Outcome, error) {
	old, exists, err := fsutil.ReadFileIfExists(e.project, fsutil.Rooted(rule.Path))
	if err != nil {
		return "", ioFailure(rule.Path, err)
	}
	target := old
	if !exists {
		if target, err = e.readSkeleton(rule.Path); err != nil {
			return "", err
		}
	}
	if _, err := jsondoc.Parse(target); err != nil {
		return "", syncerr.New(syncerr.KindDocumentUnparsable, rule.Path, err)
	}

	patchPath := e.manifest.PatchPath(rule.Path)
	raw, ok, err := fsutil.ReadFileIfExists(e.skeleton, fsutil.Rooted(patchPath))
	if err != nil {
		return "", ioFailure(patchPath, err)
	}
	if ok {
		doc, err := patch.Parse(raw)
		if err != nil {
			return "", syncerr.New(syncerr.KindDocumentUnparsable, patchPath, err)
		}
		if target, err = patch.File(target, doc, canonical); err != nil {
			return "", syncerr.New(syncerr.KindDocumentUnparsable, rule.Path, err)
		}
	}
	return e.writeIfChanged(rule.Path, old, exists, target)
}

// applyRemove deletes a path the skeleton no longer ships.
func (e *Engine) applyRemove(rule manifest.Rule) (Outcome, error) {
	p := fsutil.Rooted(rule.Path)
	exists, err := fsutil.Exists(e.project, p)
	if err != nil {
		return "", ioFailure(rule.Path, err)
	}
	if !exists {
		return OutcomeAbsent, nil
	}
	if !e.opts.DryRun {
		if err := e.project.RemoveAll(p); err != nil {
			return "", ioFailure(rule.Path, fmt.Errorf("removing: %w", err))
		}
	}
	return OutcomeRemoved, nil
}

func (e *Engine) readSkeleton(rel string) ([]byte, error) {
	data, ok, err := fsutil.ReadFileIfExists(e.skeleton, fsutil.Rooted(rel))
	if err != nil {
		return nil, ioFailure(rel, err)
	}
	if !ok {
		return nil, syncerr.Newf(syncerr.KindIOFailure, rel, "not present in skeleton")
	}
	return data, nil
}

// writeIfChanged writes data unless the project already holds exactly it.
func (e *Engine) writeIfChanged(rel string, old []byte, exists bool, data []byte) (Outcome, error) {
	if exists && bytes.Equal(old, data) {
		return OutcomeUnchanged, nil
	}
	if err := e.writeFile(rel, data); err != nil {
		return "", err
	}
	if exists {
		return OutcomeUpdated, nil
	}
	return OutcomeCreated, nil
}
