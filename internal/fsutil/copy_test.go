package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
}

func readFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err, "reading %s", path)
	return string(data)
}

func TestCopyTreeExcludesNames(t *testing.T) {
	src := afero.NewMemMapFs()
	writeFile(t, src, "skel/dev/a.txt", "a")
	writeFile(t, src, "skel/dev/sub/b.txt", "b")
	writeFile(t, src, "skel/dev/.DS_Store", "")
	writeFile(t, src, "skel/dev/node_modules/x/index.js", "x")
	writeFile(t, src, "skel/dev/.git/HEAD", "ref")

	dst := afero.NewMemMapFs()
	require.NoError(t, CopyTree(src, "skel/dev", dst, "proj/dev"))

	assert.Equal(t, "b", readFile(t, dst, "proj/dev/sub/b.txt"))
	for _, excluded := range []string{"proj/dev/.DS_Store", "proj/dev/node_modules", "proj/dev/.git"} {
		ok, _ := Exists(dst, excluded)
		assert.False(t, ok, "%s should not be copied", excluded)
	}
}

func TestCopyTreeSingleFile(t *testing.T) {
	src := afero.NewMemMapFs()
	writeFile(t, src, "LICENSE.txt", "MIT")
	dst := afero.NewMemMapFs()

	require.NoError(t, CopyTree(src, "LICENSE.txt", dst, "nested/LICENSE.txt"))
	assert.Equal(t, "MIT", readFile(t, dst, "nested/LICENSE.txt"))
}

func TestReplaceTreeOnDisk(t *testing.T) {
	skelDir, projDir := t.TempDir(), t.TempDir()
	src := afero.NewBasePathFs(afero.NewOsFs(), skelDir)
	dst := afero.NewBasePathFs(afero.NewOsFs(), projDir)

	writeFile(t, src, "dev/.files/new.txt", "new")
	writeFile(t, dst, "dev/.files/stale.txt", "stale")
	writeFile(t, dst, "dev/.files/new.txt", "old")

	require.NoError(t, ReplaceTree(src, "dev/.files", dst, "dev/.files"))

	assert.Equal(t, "new", readFile(t, dst, "dev/.files/new.txt"))
	assert.NoFileExists(t, filepath.Join(projDir, "dev", ".files", "stale.txt"))
	assert.NoDirExists(t, filepath.Join(projDir, "dev", "..files"+stageSuffix), "stage must not survive the swap")
}

func TestCopyTreeFollowsLinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	skelDir, projDir := t.TempDir(), t.TempDir()
	src := afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), skelDir))
	dst := afero.NewBasePathFs(afero.NewOsFs(), projDir)

	require.NoError(t, os.MkdirAll(filepath.Join(skelDir, "dev", "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(skelDir, "dev", "lib", "run.sh"), []byte("run"), 0o644))
	require.NoError(t, os.Symlink("lib/run.sh", filepath.Join(skelDir, "dev", "run")))
	require.NoError(t, os.Symlink("lib", filepath.Join(skelDir, "dev", "shared")))

	require.NoError(t, ReplaceTree(src, "/dev", dst, "/dev"))
	assert.Equal(t, "run", readFile(t, dst, "/dev/run"))
	assert.Equal(t, "run", readFile(t, dst, "/dev/shared/run.sh"))

	equal, err := TreeEqual(src, "/dev", dst, "/dev")
	require.NoError(t, err)
	assert.True(t, equal, "copied tree should equal its linked source")

	require.NoError(t, os.Symlink("missing.sh", filepath.Join(skelDir, "dev", "dangling")))
	assert.Error(t, CopyTree(src, "/dev", dst, "/again"), "dangling link")
}

func TestReplaceTreeMissingSource(t *testing.T) {
	projDir := t.TempDir()
	src := afero.NewBasePathFs(afero.NewOsFs(), t.TempDir())
	dst := afero.NewBasePathFs(afero.NewOsFs(), projDir)
	writeFile(t, dst, "dev/keep.txt", "keep")

	require.Error(t, ReplaceTree(src, "dev", dst, "dev"))
	assert.Equal(t, "keep", readFile(t, dst, "dev/keep.txt"), "existing tree must survive a failed stage")
}

func TestWriteFileAtomicKeepsPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on Windows")
	}
	dir := t.TempDir()
	fsys := afero.NewBasePathFs(afero.NewOsFs(), dir)

	path := filepath.Join(dir, "run.sh")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o700))
	require.NoError(t, WriteFileAtomic(fsys, "run.sh", []byte("new"), 0o644))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	assert.Equal(t, "new", readFile(t, fsys, "run.sh"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFileAtomicCreatesParents(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, WriteFileAtomic(fsys, ".github/workflows/ci.yml", []byte("on: push\n"), 0o644))
	assert.Equal(t, "on: push\n", readFile(t, fsys, ".github/workflows/ci.yml"))
}

func TestReadFileIfExists(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_, ok, err := ReadFileIfExists(fsys, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	writeFile(t, fsys, "present", "x")
	data, ok, err := ReadFileIfExists(fsys, "present")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", string(data))
}

func TestRooted(t *testing.T) {
	sep := string(filepath.Separator)
	assert.Equal(t, filepath.Join(sep, "dev", ".files", "bin"), Rooted("dev/.files/bin"))
	assert.Equal(t, filepath.Join(sep, "b"), Rooted("./a/../b"))
}
