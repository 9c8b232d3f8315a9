package lockset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLockedNormalizesPaths(t *testing.T) {
	s, err := New(t.TempDir(), []string{"./README.md", "docs/../.gitignore", ".github/workflows/ci.yml"})
	require.NoError(t, err)

	for _, p := range []string{"README.md", "./README.md", ".gitignore", "./.github/workflows/ci.yml", ".github//workflows/ci.yml"} {
		assert.True(t, s.IsLocked(p), "%s should be locked", p)
	}
	for _, p := range []string{"LICENSE.txt", "docs/.gitignore", "README.md.bak"} {
		assert.False(t, s.IsLocked(p), "%s should not be locked", p)
	}
}

func TestDirectoryLockDoesNotCoverChildren(t *testing.T) {
	s, err := New(t.TempDir(), []string{".vscode"})
	require.NoError(t, err)

	assert.True(t, s.IsLocked(".vscode"))
	assert.True(t, s.IsLocked("./.vscode/"))
	assert.False(t, s.IsLocked(".vscode/settings.json"))
}

func TestAbsoluteLockEntry(t *testing.T) {
	root := t.TempDir()
	s, err := New(root, nil)
	require.NoError(t, err)

	abs := filepath.Join(s.Root(), "package.json")
	s2, err := New(root, []string{abs})
	require.NoError(t, err)

	assert.True(t, s2.IsLocked("package.json"))
	assert.Equal(t, 1, s2.Len())
}

func TestEmptySet(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Paths())
	assert.False(t, s.IsLocked("anything"))

	var nilSet *Set
	assert.False(t, nilSet.IsLocked("anything"))
}

func TestPathsDeduplicated(t *testing.T) {
	s, err := New(t.TempDir(), []string{"a.txt", "./a.txt", "b.txt"})
	require.NoError(t, err)
	assert.Len(t, s.Paths(), 2)
}
