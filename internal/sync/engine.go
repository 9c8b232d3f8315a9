package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/dotsync-labs/dotsync/internal/fsutil"
	"github.com/dotsync-labs/dotsync/internal/hooks"
	"github.com/dotsync-labs/dotsync/internal/lockset"
	"github.com/dotsync-labs/dotsync/internal/manifest"
	"github.com/dotsync-labs/dotsync/internal/project"
	"github.com/dotsync-labs/dotsync/internal/syncerr"
)

// Options configures an Engine.
type Options struct {
	// ProjectRoot and SkeletonRoot are directories on the OS filesystem.
	ProjectRoot  string
	SkeletonRoot string

	Manifest *manifest.Manifest

	// Version is the running dotsync version, checked against the
	// manifest's requires constraint.
	Version string

	Logger  *slog.Logger
	DryRun  bool
	NoHooks bool

	// Hooks replaces the hooks built from the manifest when non-nil.
	Hooks []hooks.Hook
}

// Engine orchestrates one sync run.
type Engine struct {
	opts     Options
	manifest *manifest.Manifest
	project  afero.Fs
	skeleton afero.Fs
	hooks    []hooks.Hook
	logger   *slog.Logger

	// locks is the lock set of the current run.
	locks *lockset.Set
}

// NewEngine creates an engine over the project and skeleton directories.
// Both roots are made absolute; the skeleton is opened read-only.
func NewEngine(opts Options) (*Engine, error) {
	if opts.ProjectRoot == "" || opts.SkeletonRoot == "" {
		return nil, errors.New("project and skeleton roots are required")
	}
	if opts.Manifest == nil {
		return nil, errors.New("manifest is required")
	}
	var err error
	if opts.ProjectRoot, err = filepath.Abs(opts.ProjectRoot); err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	if opts.SkeletonRoot, err = filepath.Abs(opts.SkeletonRoot); err != nil {
		return nil, fmt.Errorf("resolving skeleton root: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e := &Engine{
		opts:     opts,
		manifest: opts.Manifest,
		project:  afero.NewBasePathFs(afero.NewOsFs(), opts.ProjectRoot),
		skeleton: afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), opts.SkeletonRoot)),
		logger:   logger,
	}

	if opts.Hooks != nil {
		e.hooks = opts.Hooks
	} else {
		hs, err := hooks.Build(opts.Manifest.Hooks, hooks.Env{
			Fs:       e.project,
			Markers:  opts.Manifest.Markers,
			IsLocked: e.isLocked,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		e.hooks = hs
	}
	return e, nil
}

// Run executes the rule table and then the hooks. Metadata problems fail
// the run before anything in the project is touched.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	e.logger.Info("starting sync",
		"project", e.opts.ProjectRoot,
		"skeleton", e.opts.SkeletonRoot,
		"manifest", e.manifest.Source,
		"dry_run", e.opts.DryRun)

	if err := e.manifest.CheckVersion(e.opts.Version); err != nil {
		return nil, err
	}

	md, err := project.Load(e.opts.ProjectRoot)
	if err != nil {
		return nil, err
	}
	locks, err := lockset.New(e.opts.ProjectRoot, md.Locks)
	if err != nil {
		return nil, syncerr.New(syncerr.KindMetadataUnreadable, project.MetadataFile, err)
	}
	e.locks = locks
	canonical := md.IsRepo(e.manifest.Canonical)
	e.logger.Debug("project metadata loaded",
		"repository", md.Repository,
		"locks", locks.Len(),
		"canonical", canonical)

	report := &Report{DryRun: e.opts.DryRun, Canonical: canonical}

	for _, rule := range e.manifest.Rules {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if rule.Mode.Lockable() && locks.IsLocked(rule.Path) {
			e.logger.Info("path locked, skipping", "path", rule.Path, "mode", rule.Mode)
			report.add(rule, OutcomeLocked)
			continue
		}

		outcome, err := e.apply(rule, canonical)
		if err != nil {
			return report, err
		}
		e.logger.Debug("rule applied", "path", rule.Path, "mode", rule.Mode, "outcome", outcome)
		report.add(rule, outcome)
	}

	if e.opts.DryRun || e.opts.NoHooks {
		e.logger.Info("sync complete, hooks not run", "changed", report.Changed())
		return report, nil
	}

	for _, h := range e.hooks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		e.logger.Info("regenerating", "hook", h.Name())
		err := h.Regenerate(ctx, e.opts.ProjectRoot)
		switch {
		case errors.Is(err, hooks.ErrSkipped):
			e.logger.Info("hook skipped, source not present", "hook", h.Name())
			report.Hooks = append(report.Hooks, HookResult{Name: h.Name(), Skipped: true})
		case errors.Is(err, hooks.ErrLocked):
			e.logger.Info("hook target locked, skipping", "hook", h.Name())
			report.Hooks = append(report.Hooks, HookResult{Name: h.Name(), Locked: true})
		case err != nil:
			return report, syncerr.New(syncerr.KindHookFailure, h.Name(), err)
		default:
			report.Hooks = append(report.Hooks, HookResult{Name: h.Name()})
		}
	}

	e.logger.Info("sync complete", "changed", report.Changed(), "hooks", len(report.Hooks))
	return report, nil
}

// isLocked reports whether rel is locked in the current run.
func (e *Engine) isLocked(rel string) bool {
	return e.locks != nil && e.locks.IsLocked(rel)
}

func (e *Engine) apply(rule manifest.Rule, canonical bool) (Outcome, error) {
	switch rule.Mode {
	case manifest.ModeImmutable:
		return e.applyImmutable(rule)
	case manifest.ModeMerge:
		return e.applyMerge(rule)
	case manifest.ModeAddOnly:
		return e.applyAddOnly(rule)
	case manifest.ModeJSONPatch:
		return e.applyJSONPatch(rule, canonical)
	case manifest.ModeRemove:
		return e.applyRemove(rule)
	default:
		return "", syncerr.Newf(syncerr.KindManifestInvalid, rule.Path, "unknown mode %q", rule.Mode)
	}
}

// requireSource fails the run when the skeleton does not ship rel.
func (e *Engine) requireSource(rel string) error {
	ok, err := fsutil.Exists(e.skeleton, fsutil.Rooted(rel))
	if err != nil {
		return ioFailure(rel, err)
	}
	if !ok {
		return syncerr.Newf(syncerr.KindIOFailure, rel, "not present in skeleton")
	}
	return nil
}

func ioFailure(rel string, err error) error {
	return syncerr.New(syncerr.KindIOFailure, rel, err)
}

// writeFile writes a project file. A new file takes the mode of its
// skeleton counterpart; an existing one keeps its own.
func (e *Engine) writeFile(rel string, data []byte) error {
	if e.opts.DryRun {
		return nil
	}
	perm := os.FileMode(0o644)
	if info, err := e.skeleton.Stat(fsutil.Rooted(rel)); err == nil && info.Mode().IsRegular() {
		perm = info.Mode().Perm()
	}
	if err := fsutil.WriteFileAtomic(e.project, fsutil.Rooted(rel), data, perm); err != nil {
		return ioFailure(rel, fmt.Errorf("writing: %w", err))
	}
	return nil
}
