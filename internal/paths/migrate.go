package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/orchester-labs/orchester/internal/branding"
)

// MigrateLegacy moves a pre-rename home directory (~/.orch) to the current
// location when only the legacy one exists. It reports whether a move
// happened. A root relocated through ORCHESTER_HOME is never migrated into.
func MigrateLegacy(l Layout) (bool, error) {
	if l.Root != filepath.Join(l.Home, branding.HomeDir()) {
		return false, nil
	}

	legacy := filepath.Join(l.Home, branding.LegacyHomeDir())
	info, err := os.Stat(legacy)
	if err != nil || !info.IsDir() {
		return false, nil
	}
	if _, err := os.Lstat(l.Root); err == nil {
		return false, nil
	}

	if err := os.Rename(legacy, l.Root); err != nil {
		return false, fmt.Errorf("migrating %s to %s: %w", legacy, l.Root, err)
	}
	return true, nil
}
