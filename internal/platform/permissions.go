package platform

import (
	"os"
	"runtime"

	"github.com/spf13/afero"
)

// ExecutableMode is applied to files a rule marks as executable.
const ExecutableMode os.FileMode = 0o700

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(fsys afero.Fs, path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return fsys.Chmod(path, mode)
}

// MarkExecutable makes path executable by its owner only.
func MarkExecutable(fsys afero.Fs, path string) error {
	return Chmod(fsys, path, ExecutableMode)
}

// CaseInsensitive reports whether paths on the default filesystem compare
// without regard to case.
func CaseInsensitive() bool {
	switch runtime.GOOS {
	case "windows", "darwin":
		return true
	default:
		return false
	}
}
