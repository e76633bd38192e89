package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/orchester-labs/orchester/internal/branding"
)

// Directory and file names inside the orchester home.
const (
	ProfilesDir        = "profiles"
	VanillaDir         = "vanilla"
	FilesDir           = "files"
	StateFile          = "state.json"
	CustomRegistryFile = "custom-registry.json"
	HistoryFile        = "history.db"
	ConfigFile         = "config.yaml"
)

// Permission constants.
const (
	FilePermSecure os.FileMode = 0600
	DirPermNormal  os.FileMode = 0755
)

// Layout is the resolved set of roots every component works against.
// Home and Project are the values substituted for $HOME and $PROJECT in
// link targets.
type Layout struct {
	Root    string
	Home    string
	Project string
}

// Resolve builds the layout for the current user. Root honours
// ORCHESTER_HOME, Project honours ORCHESTER_PROJECT_DIR and otherwise
// falls back to the working directory.
func Resolve() (Layout, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Layout{}, fmt.Errorf("resolving home directory: %w", err)
	}

	root := filepath.Join(home, branding.HomeDir())
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		root = v
	}

	project := os.Getenv(branding.EnvVar("PROJECT_DIR"))
	if project == "" {
		project, err = os.Getwd()
		if err != nil {
			return Layout{}, fmt.Errorf("resolving working directory: %w", err)
		}
	}

	return Layout{Root: root, Home: home, Project: project}, nil
}

// ProfilesDir returns ~/.orchester/profiles.
func (l Layout) ProfilesDir() string { return filepath.Join(l.Root, ProfilesDir) }

// ProfileDir returns the file root of a single installed profile.
func (l Layout) ProfileDir(name string) string { return filepath.Join(l.ProfilesDir(), name) }

// VanillaDir returns ~/.orchester/vanilla.
func (l Layout) VanillaDir() string { return filepath.Join(l.Root, VanillaDir) }

// StatePath returns ~/.orchester/state.json.
func (l Layout) StatePath() string { return filepath.Join(l.Root, StateFile) }

// CustomRegistryPath returns ~/.orchester/custom-registry.json.
func (l Layout) CustomRegistryPath() string { return filepath.Join(l.Root, CustomRegistryFile) }

// HistoryPath returns ~/.orchester/history.db.
func (l Layout) HistoryPath() string { return filepath.Join(l.Root, HistoryFile) }

// ConfigPath returns ~/.orchester/config.yaml.
func (l Layout) ConfigPath() string { return filepath.Join(l.Root, ConfigFile) }
