//go:build integration

package integration_test

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotsync-labs/dotsync/internal/manifest"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir     string // DOTSYNC_HOME, holds config.yaml
	SkeletonDir string // a synthetic skeleton repository
	ProjectDir  string // a downstream project
}

// setupTestEnv creates isolated temp directories and points DOTSYNC_HOME at
// one of them so no test reads the developer's real settings.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:     t.TempDir(),
		SkeletonDir: t.TempDir(),
		ProjectDir:  t.TempDir(),
	}
	t.Setenv("DOTSYNC_HOME", env.HomeDir)
	return env
}

// setupSkeleton fills skeletonDir with a source file for every rule of the
// built-in manifest, plus the exclusions catalog, wrangler settings and the
// package.json patch document. It returns the manifest.
func setupSkeleton(t *testing.T, skeletonDir string) *manifest.Manifest {
	t.Helper()

	m, err := manifest.Default()
	require.NoError(t, err, "loading built-in manifest")

	for _, r := range m.Rules {
		switch r.Mode {
		case manifest.ModeImmutable:
			for _, exe := range r.Executables {
				writeFile(t, filepath.Join(skeletonDir, r.Path, exe), "#!/usr/bin/env node\n")
			}
		case manifest.ModeMerge:
			writeFile(t, filepath.Join(skeletonDir, r.Path),
				fmt.Sprintf("// skeleton %s\n// <custom:start>\n\n// </custom:end>\n", r.Path))
		case manifest.ModeAddOnly:
			writeFile(t, filepath.Join(skeletonDir, r.Path), "skeleton "+r.Path+"\n")
		case manifest.ModeJSONPatch:
			writeFile(t, filepath.Join(skeletonDir, r.Path), "{\n  \"name\": \"skeleton\"\n}\n")
		}
	}

	writeFile(t, filepath.Join(skeletonDir, "dev/.files/exclusions.yaml"), `groups:
  - name: os
    patterns: [.DS_Store]
  - name: editors
    patterns: [/.idea]
  - name: vcs
    patterns: [/.git]
  - name: deps
    patterns: [/node_modules]
  - name: dev
    patterns: [/dev]
  - name: dist
    patterns: [/dist]
  - name: logs
    patterns: ["*.log"]
  - name: dotenv
    patterns: [/.env*]
  - name: tests
    patterns: [/coverage]
  - name: locks
    patterns: [/package-lock.json]
`)
	writeFile(t, filepath.Join(skeletonDir, "dev/.files/wrangler/settings.yaml"),
		"compatibility_date: \"2023-12-01\"\nmain: dist/index.js\n")
	writeFile(t, filepath.Join(skeletonDir, m.PatchPath("package.json")), `{
  "$defaults": {"type": "module", "license": "GPL-3.0-or-later"},
  "$overrides": {"engines": {"node": ">=20.9.0"}},
  "$unset": ["config.c10n.&.legacy"],
  "$unsetIfCanonical": ["devDependencies.@clevercanyon/dev-deps"]
}
`)
	return m
}

// writeFile creates parent directories and writes content to path.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "creating dir for %s", path)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing %s", path)
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "reading %s", path)
	return string(data)
}

// snapshot returns every regular file under root keyed by relative path.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil || !info.Mode().IsRegular() {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err, "snapshot of %s", root)
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
