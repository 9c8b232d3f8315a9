package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/dotsync-labs/dotsync/internal/marker"
	"github.com/dotsync-labs/dotsync/internal/schema"
	"github.com/dotsync-labs/dotsync/internal/syncerr"
)

// FileName is the manifest file looked up at the skeleton root.
const FileName = "dotsync.yaml"

//go:embed schema/manifest.schema.json
var schemaBytes []byte

//go:embed default.yaml
var defaultManifest []byte

var (
	compiledSchema *schema.Schema
	compileOnce    sync.Once
	compileErr     error
)

func getSchema() (*schema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = schema.Compile("manifest.schema.json", schemaBytes)
	})
	return compiledSchema, compileErr
}

// Validate checks raw manifest YAML against the embedded schema.
func Validate(data []byte) (*schema.Result, error) {
	s, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	return s.ValidateYAML(data)
}

// Parse validates and decodes a manifest. source names it in errors.
func Parse(data []byte, source string) (*Manifest, error) {
	res, err := Validate(data)
	if err != nil {
		return nil, syncerr.New(syncerr.KindManifestInvalid, source, err)
	}
	if !res.Valid {
		return nil, syncerr.Newf(syncerr.KindManifestInvalid, source, "%s", res.Summary())
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, syncerr.New(syncerr.KindManifestInvalid, source, err)
	}
	m.Source = source

	if m.PatchesDir == "" {
		m.PatchesDir = DefaultPatchesDir
	}
	if m.Markers.Start == "" && m.Markers.End == "" {
		m.Markers = marker.Default()
	}

	if err := m.normalize(); err != nil {
		return nil, syncerr.New(syncerr.KindManifestInvalid, source, err)
	}
	return &m, nil
}

// Load reads and parses the manifest file at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, syncerr.New(syncerr.KindIOFailure, path, fmt.Errorf("reading manifest: %w", err))
	}
	return Parse(data, path)
}

// Default returns the manifest compiled into the binary.
func Default() (*Manifest, error) {
	return Parse(defaultManifest, "(built-in)")
}

// Resolve picks the manifest for a run: an explicit path wins, then the
// skeleton's own dotsync.yaml, then the built-in default.
func Resolve(explicit, skeletonRoot string) (*Manifest, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if skeletonRoot != "" {
		candidate := filepath.Join(skeletonRoot, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, syncerr.New(syncerr.KindIOFailure, candidate, err)
		}
	}
	return Default()
}

// normalize cleans rule and hook paths. Absolute or escaping paths,
// duplicate rule paths and duplicate hook names are rejected.
func (m *Manifest) normalize() error {
	seen := make(map[string]int, len(m.Rules))
	for i := range m.Rules {
		p, err := cleanRelative(m.Rules[i].Path)
		if err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
		if j, dup := seen[p]; dup {
			return fmt.Errorf("rules[%d]: path %q already declared by rules[%d]", i, p, j)
		}
		seen[p] = i
		m.Rules[i].Path = p

		for k, exe := range m.Rules[i].Executables {
			e, err := cleanRelative(exe)
			if err != nil {
				return fmt.Errorf("rules[%d].executables[%d]: %w", i, k, err)
			}
			m.Rules[i].Executables[k] = e
		}
		if len(m.Rules[i].Executables) > 0 && m.Rules[i].Mode != ModeImmutable {
			return fmt.Errorf("rules[%d]: executables only apply to %s rules", i, ModeImmutable)
		}
	}

	names := make(map[string]bool, len(m.Hooks))
	for i, h := range m.Hooks {
		if names[h.Name] {
			return fmt.Errorf("hooks[%d]: duplicate hook name %q", i, h.Name)
		}
		names[h.Name] = true

		if h.Target != "" {
			t, err := cleanRelative(h.Target)
			if err != nil {
				return fmt.Errorf("hooks[%d].target: %w", i, err)
			}
			m.Hooks[i].Target = t
		}
		if h.Source != "" {
			s, err := cleanRelative(h.Source)
			if err != nil {
				return fmt.Errorf("hooks[%d].source: %w", i, err)
			}
			m.Hooks[i].Source = s
		}
	}
	return nil
}

func cleanRelative(p string) (string, error) {
	p = filepath.ToSlash(strings.TrimSpace(p))
	if p == "" {
		return "", errors.New("empty path")
	}
	if path.IsAbs(p) || filepath.IsAbs(p) {
		return "", fmt.Errorf("path %q must be relative", p)
	}
	c := path.Clean(p)
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", fmt.Errorf("path %q escapes the project root", p)
	}
	return c, nil
}
