package hooks

import (
	"context"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/dotsync-labs/dotsync/internal/fsutil"
	"github.com/dotsync-labs/dotsync/internal/manifest"
)

// Catalog is an exclusions catalog: named groups of ignore patterns.
type Catalog struct {
	Groups []Group `yaml:"groups"`
}

// Group is one named block of patterns.
type Group struct {
	Name     string   `yaml:"name"`
	Comment  string   `yaml:"comment,omitempty"`
	Patterns []string `yaml:"patterns"`
}

type ignoreFile struct {
	spec manifest.HookSpec
	env  Env
}

func (h *ignoreFile) Name() string { return h.spec.Name }

func (h *ignoreFile) Regenerate(_ context.Context, _ string) error {
	if err := h.env.checkTarget(h.spec.Target); err != nil {
		return err
	}
	data, err := readSource(h.env, h.spec)
	if err != nil {
		return err
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return fmt.Errorf("parsing %s: %w", h.spec.Source, err)
	}
	groups, err := selectGroups(cat, h.spec.Groups)
	if err != nil {
		return err
	}
	fresh := h.render(groups)

	old, ok, err := fsutil.ReadFileIfExists(h.env.Fs, fsutil.Rooted(h.spec.Target))
	if err != nil {
		return fmt.Errorf("reading %s: %w", h.spec.Target, err)
	}
	var oldText *string
	if ok {
		s := string(old)
		oldText = &s
	}
	merged := h.env.Markers.Merge(oldText, fresh)
	return writeIfChanged(h.env, h.spec.Target, []byte(merged))
}

// selectGroups returns the named groups in the order requested, or every
// group when names is empty.
func selectGroups(cat Catalog, names []string) ([]Group, error) {
	if len(names) == 0 {
		return cat.Groups, nil
	}
	byName := make(map[string]Group, len(cat.Groups))
	for _, g := range cat.Groups {
		byName[g.Name] = g
	}
	out := make([]Group, 0, len(names))
	for _, n := range names {
		g, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("exclusions group %q not found", n)
		}
		out = append(out, g)
	}
	return out, nil
}

func (h *ignoreFile) render(groups []Group) string {
	var b strings.Builder

	header := h.spec.Header
	if header == "" {
		header = fmt.Sprintf("Generated from %s.\nEdit only between the custom markers below; the rest is rewritten on every sync.", h.spec.Source)
	}
	for _, line := range strings.Split(strings.TrimRight(header, "\n"), "\n") {
		writeComment(&b, line)
	}

	seen := make(map[string]bool)
	for _, g := range groups {
		b.WriteString("\n")
		writeComment(&b, g.Name)
		if g.Comment != "" {
			writeComment(&b, g.Comment)
		}
		for _, p := range g.Patterns {
			p = strings.TrimSpace(p)
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			b.WriteString(p)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	writeComment(&b, h.env.Markers.Start)
	b.WriteString("\n")
	writeComment(&b, h.env.Markers.End)
	return b.String()
}

func writeComment(b *strings.Builder, line string) {
	if line == "" {
		b.WriteString("#\n")
		return
	}
	b.WriteString("# ")
	b.WriteString(line)
	b.WriteString("\n")
}
