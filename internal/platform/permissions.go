package platform

import (
	"fmt"
	"os"
	"runtime"
)

// EnsureMode sets the permission bits of path to mode when they differ and
// reports whether it changed anything. Windows has no Unix permission bits,
// so there it is a no-op.
func EnsureMode(path string, mode os.FileMode) (bool, error) {
	if runtime.GOOS == "windows" {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.Mode().Perm() == mode.Perm() {
		return false, nil
	}
	if err := os.Chmod(path, mode.Perm()); err != nil {
		return false, fmt.Errorf("chmod %s: %w", path, err)
	}
	return true, nil
}
