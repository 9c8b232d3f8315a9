package fsutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// TreeEqual reports whether dstPath holds exactly what CopyTree would put
// there from srcPath: the same files with the same content. Links are
// compared by what they point at. Permissions are not compared.
func TreeEqual(src afero.Fs, srcPath string, dst afero.Fs, dstPath string) (bool, error) {
	ok, err := Exists(dst, dstPath)
	if err != nil || !ok {
		return false, err
	}

	want, err := digestTree(src, srcPath)
	if err != nil {
		return false, err
	}
	got, err := digestTree(dst, dstPath)
	if err != nil {
		return false, err
	}

	if len(want) != len(got) {
		return false, nil
	}
	for rel, h := range want {
		if got[rel] != h {
			return false, nil
		}
	}
	return true, nil
}

// digestTree maps every relative path under root to a content hash;
// directories map to "dir".
func digestTree(fsys afero.Fs, root string) (map[string]string, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		h, err := fileHash(fsys, root)
		if err != nil {
			return nil, err
		}
		return map[string]string{".": h}, nil
	}

	out := make(map[string]string)
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := afero.ReadDir(fsys, dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if excludedNames[entry.Name()] {
				continue
			}
			p := filepath.Join(dir, entry.Name())
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			mode := entry.Mode()
			if mode&fs.ModeSymlink != 0 {
				target, err := fsys.Stat(p)
				if err != nil {
					return err
				}
				mode = target.Mode()
			}
			switch {
			case mode.IsDir():
				out[rel] = "dir"
				if err := walk(p); err != nil {
					return err
				}
			case mode.IsRegular():
				h, err := fileHash(fsys, p)
				if err != nil {
					return err
				}
				out[rel] = h
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return out, nil
}

func fileHash(fsys afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
