package hooks

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotsync-labs/dotsync/internal/manifest"
	"github.com/dotsync-labs/dotsync/internal/marker"
)

const exclusions = `groups:
  - name: os
    patterns: [.DS_Store, Thumbs.db]
  - name: deps
    comment: Package manager output.
    patterns: [/node_modules, .DS_Store]
  - name: build
    patterns: [/dist]
`

func memEnv(t *testing.T, files map[string]string) Env {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, "/"+name, []byte(content), 0o644))
	}
	return Env{Fs: fsys, Markers: marker.Default()}
}

func read(t *testing.T, env Env, name string) string {
	t.Helper()
	data, err := afero.ReadFile(env.Fs, "/"+name)
	require.NoError(t, err)
	return string(data)
}

func TestBuild(t *testing.T) {
	specs := []manifest.HookSpec{
		{Name: "gitignore", Kind: KindIgnoreFile, Target: ".gitignore", Source: "x.yaml"},
		{Name: "wrangler", Kind: KindTOML, Target: "w.toml", Source: "w.yaml"},
		{Name: "types", Kind: KindExec, Command: []string{"true"}},
	}
	hs, err := Build(specs, Env{})
	require.NoError(t, err)
	require.Len(t, hs, 3)
	for i, h := range hs {
		assert.Equal(t, specs[i].Name, h.Name())
	}

	_, err = Build([]manifest.HookSpec{{Name: "x", Kind: "bogus"}}, Env{})
	assert.Error(t, err)

	_, err = Build([]manifest.HookSpec{{Name: "x", Kind: KindExec}}, Env{})
	assert.Error(t, err)
}

func TestIgnoreFileGeneratesAllGroups(t *testing.T) {
	env := memEnv(t, map[string]string{"exclusions.yaml": exclusions})
	h := &ignoreFile{spec: manifest.HookSpec{Name: "gitignore", Target: ".gitignore", Source: "exclusions.yaml"}, env: env}

	require.NoError(t, h.Regenerate(context.Background(), "/"))

	got := read(t, env, ".gitignore")
	assert.True(t, strings.HasPrefix(got, "# Generated from exclusions.yaml.\n"))
	assert.Contains(t, got, "# os\n.DS_Store\nThumbs.db\n")
	assert.Contains(t, got, "# deps\n# Package manager output.\n/node_modules\n")
	assert.Equal(t, 1, strings.Count(got, ".DS_Store"), "duplicate patterns are written once")
	assert.True(t, strings.HasSuffix(got, "# <custom:start>\n\n# </custom:end>\n"))
}

func TestIgnoreFileSelectsGroupsInOrder(t *testing.T) {
	env := memEnv(t, map[string]string{"exclusions.yaml": exclusions})
	h := &ignoreFile{spec: manifest.HookSpec{
		Target: ".npmignore", Source: "exclusions.yaml", Groups: []string{"build", "os"},
	}, env: env}

	require.NoError(t, h.Regenerate(context.Background(), "/"))

	got := read(t, env, ".npmignore")
	assert.NotContains(t, got, "node_modules")
	assert.Less(t, strings.Index(got, "/dist"), strings.Index(got, ".DS_Store"))

	h.spec.Groups = []string{"missing"}
	assert.Error(t, h.Regenerate(context.Background(), "/"))
}

func TestIgnoreFileKeepsCustomRegion(t *testing.T) {
	existing := "old generated\n# <custom:start>\n/local-only\n# </custom:end>\n"
	env := memEnv(t, map[string]string{"exclusions.yaml": exclusions, ".gitignore": existing})
	h := &ignoreFile{spec: manifest.HookSpec{Target: ".gitignore", Source: "exclusions.yaml"}, env: env}

	require.NoError(t, h.Regenerate(context.Background(), "/"))
	first := read(t, env, ".gitignore")
	assert.NotContains(t, first, "old generated")
	assert.Contains(t, first, "# <custom:start>\n/local-only\n# </custom:end>\n")

	require.NoError(t, h.Regenerate(context.Background(), "/"))
	assert.Equal(t, first, read(t, env, ".gitignore"))
}

func TestIgnoreFileMissingSource(t *testing.T) {
	env := memEnv(t, nil)
	h := &ignoreFile{spec: manifest.HookSpec{Target: ".gitignore", Source: "exclusions.yaml"}, env: env}
	err := h.Regenerate(context.Background(), "/")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSkipped)

	h.spec.Optional = true
	assert.ErrorIs(t, h.Regenerate(context.Background(), "/"), ErrSkipped)
}

func TestTOMLFile(t *testing.T) {
	settings := "name: api\ncompatibility_date: \"2023-12-01\"\nvars:\n  MINIFLARE: \"true\"\n"
	env := memEnv(t, map[string]string{"settings.yaml": settings})
	h := &tomlFile{spec: manifest.HookSpec{Target: "wrangler.toml", Source: "settings.yaml"}, env: env}

	require.NoError(t, h.Regenerate(context.Background(), "/"))

	got := read(t, env, "wrangler.toml")
	assert.True(t, strings.HasPrefix(got, "##\n# Auto-generated from settings.yaml.\n"))

	var decoded map[string]any
	require.NoError(t, toml.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, "api", decoded["name"])
	assert.Equal(t, map[string]any{"MINIFLARE": "true"}, decoded["vars"])

	require.NoError(t, h.Regenerate(context.Background(), "/"))
	assert.Equal(t, got, read(t, env, "wrangler.toml"))
}

func TestTOMLFileAcceptsJSON(t *testing.T) {
	env := memEnv(t, map[string]string{"settings.json": `{"main": "dist/index.js"}`})
	h := &tomlFile{spec: manifest.HookSpec{Target: "wrangler.toml", Source: "settings.json", Header: "# custom"}, env: env}

	require.NoError(t, h.Regenerate(context.Background(), "/"))
	got := read(t, env, "wrangler.toml")
	assert.True(t, strings.HasPrefix(got, "# custom\n\n"))
	assert.Contains(t, got, "dist/index.js")
}

func TestExecRunsInProjectRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	root := t.TempDir()
	env := Env{Fs: afero.NewBasePathFs(afero.NewOsFs(), root)}
	h := &command{spec: manifest.HookSpec{
		Name:    "env",
		Command: []string{"sh", "-c", `printf %s "$DOTSYNC_PROJECT_DIR" > out.txt`},
	}, env: env}

	require.NoError(t, h.Regenerate(context.Background(), root))

	data, err := os.ReadFile(filepath.Join(root, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, root, string(data))
}

func TestExecFailureIncludesStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	h := &command{spec: manifest.HookSpec{
		Name:    "fail",
		Command: []string{"sh", "-c", "echo boom >&2; exit 3"},
	}, env: Env{Fs: afero.NewMemMapFs()}}

	err := h.Regenerate(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestExecOptionalSkips(t *testing.T) {
	env := Env{Fs: afero.NewMemMapFs()}

	h := &command{spec: manifest.HookSpec{
		Command: []string{"dotsync-test-no-such-program"}, Optional: true,
	}, env: env}
	assert.ErrorIs(t, h.Regenerate(context.Background(), t.TempDir()), ErrSkipped)

	h = &command{spec: manifest.HookSpec{
		Command: []string{"sh"}, Source: "dev/.files/bin/types.mjs", Optional: true,
	}, env: env}
	assert.ErrorIs(t, h.Regenerate(context.Background(), t.TempDir()), ErrSkipped)
}

func TestLockedTargetIsNotWritten(t *testing.T) {
	env := memEnv(t, map[string]string{
		"exclusions.yaml": exclusions,
		"settings.yaml":   "name: api\n",
		".npmignore":      "my own\n",
	})
	env.IsLocked = func(rel string) bool { return rel == ".npmignore" || rel == "wrangler.toml" || rel == "out.txt" }

	hs := []Hook{
		&ignoreFile{spec: manifest.HookSpec{Name: "npmignore", Target: ".npmignore", Source: "exclusions.yaml"}, env: env},
		&tomlFile{spec: manifest.HookSpec{Name: "wrangler", Target: "wrangler.toml", Source: "settings.yaml"}, env: env},
		&command{spec: manifest.HookSpec{Name: "out", Target: "out.txt", Command: []string{"dotsync-test-no-such-program"}}, env: env},
	}
	for _, h := range hs {
		assert.ErrorIs(t, h.Regenerate(context.Background(), t.TempDir()), ErrLocked, h.Name())
	}

	assert.Equal(t, "my own\n", read(t, env, ".npmignore"))
	ok, err := afero.Exists(env.Fs, "/wrangler.toml")
	require.NoError(t, err)
	assert.False(t, ok)

	gitignore := &ignoreFile{spec: manifest.HookSpec{Name: "gitignore", Target: ".gitignore", Source: "exclusions.yaml"}, env: env}
	require.NoError(t, gitignore.Regenerate(context.Background(), "/"))
	assert.Contains(t, read(t, env, ".gitignore"), "/node_modules\n")
}
