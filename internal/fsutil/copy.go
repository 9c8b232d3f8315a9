package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// excludedNames are files/directories never copied out of the skeleton.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
}

// stageSuffix marks the sibling directory a tree is staged in before swap.
const stageSuffix = ".dotsync-stage"

// Exists reports whether path exists on fsys.
func Exists(fsys afero.Fs, path string) (bool, error) {
	_, err := fsys.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// ReadFileIfExists returns the file content and true, or nil and false when
// the file does not exist.
func ReadFileIfExists(fsys afero.Fs, path string) ([]byte, bool, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// CopyFile copies a single file between filesystems, creating parent
// directories and preserving permissions.
func CopyFile(src afero.Fs, srcPath string, dst afero.Fs, dstPath string) error {
	data, err := afero.ReadFile(src, srcPath)
	if err != nil {
		return err
	}
	info, err := src.Stat(srcPath)
	if err != nil {
		return err
	}
	if err := dst.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(dst, dstPath, data, info.Mode().Perm())
}

// CopyTree recursively copies srcPath to dstPath, excluding entries in
// excludedNames. srcPath may also be a single file. Symbolic links are
// dereferenced; a dangling link is an error.
func CopyTree(src afero.Fs, srcPath string, dst afero.Fs, dstPath string) error {
	info, err := src.Stat(srcPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return CopyFile(src, srcPath, dst, dstPath)
	}

	if err := dst.MkdirAll(dstPath, info.Mode().Perm()|0o700); err != nil {
		return err
	}

	entries, err := afero.ReadDir(src, srcPath)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if excludedNames[entry.Name()] {
			continue
		}

		s := filepath.Join(srcPath, entry.Name())
		d := filepath.Join(dstPath, entry.Name())

		switch {
		case entry.IsDir():
			if err := CopyTree(src, s, dst, d); err != nil {
				return err
			}
		case entry.Mode().IsRegular():
			if err := CopyFile(src, s, dst, d); err != nil {
				return err
			}
		case entry.Mode()&fs.ModeSymlink != 0:
			// Links are copied as what they point at.
			if err := CopyTree(src, s, dst, d); err != nil {
				return fmt.Errorf("following link %s: %w", s, err)
			}
		}
		// Other special files are skipped.
	}
	return nil
}

// ReplaceTree replaces dstPath with a copy of srcPath. The copy is staged
// in a sibling path first and renamed into place, so a crash leaves either
// the old tree or the new one, plus at worst a stale stage to clean up.
func ReplaceTree(src afero.Fs, srcPath string, dst afero.Fs, dstPath string) error {
	stage := filepath.Join(filepath.Dir(dstPath), "."+filepath.Base(dstPath)+stageSuffix)

	if err := dst.RemoveAll(stage); err != nil {
		return fmt.Errorf("clearing stage %s: %w", stage, err)
	}
	if err := CopyTree(src, srcPath, dst, stage); err != nil {
		_ = dst.RemoveAll(stage)
		return fmt.Errorf("staging %s: %w", srcPath, err)
	}
	if err := dst.RemoveAll(dstPath); err != nil {
		_ = dst.RemoveAll(stage)
		return fmt.Errorf("removing %s: %w", dstPath, err)
	}
	if err := dst.Rename(stage, dstPath); err != nil {
		return fmt.Errorf("moving stage into %s: %w", dstPath, err)
	}
	return nil
}

// WriteFileAtomic writes data to a temporary sibling and renames it over
// path. An existing file keeps its permissions; new files get perm.
func WriteFileAtomic(fsys afero.Fs, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if info, err := fsys.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := afero.TempFile(fsys, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = fsys.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(tmpName)
		return err
	}
	if err := fsys.Chmod(tmpName, perm); err != nil {
		_ = fsys.Remove(tmpName)
		return err
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		_ = fsys.Remove(tmpName)
		return err
	}
	return nil
}

// Rooted maps a slash-separated project-relative path to its name on a
// filesystem whose root is the project directory.
func Rooted(rel string) string {
	return filepath.Join(string(filepath.Separator), filepath.FromSlash(rel))
}
