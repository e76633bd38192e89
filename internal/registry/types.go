package registry

import "github.com/orchester-labs/orchester/internal/manifest"

// Entry describes an installable profile.
type Entry struct {
	Name        string               `yaml:"name" json:"name"`
	Description string               `yaml:"description" json:"description"`
	Repo        string               `yaml:"repo" json:"repo"`
	Tags        []string             `yaml:"tags" json:"tags"`
	Focus       []string             `yaml:"focus,omitempty" json:"focus,omitempty"`
	Stars       string               `yaml:"stars" json:"stars"`
	ProfileDir  string               `yaml:"profileDir" json:"profileDir"`
	InstallType manifest.InstallType `yaml:"installType,omitempty" json:"installType,omitempty"`
	Version     string               `yaml:"version,omitempty" json:"version,omitempty"`
	// Manifest is the template written when discovery derives no links.
	Manifest manifest.Profile `yaml:"manifest" json:"manifest"`
}

// Dir returns the profile directory name, defaulting to Name.
func (e Entry) Dir() string {
	if e.ProfileDir != "" {
		return e.ProfileDir
	}
	return e.Name
}

// Status is an entry annotated with local install state.
type Status struct {
	Entry
	Installed        bool   `json:"installed"`
	Custom           bool   `json:"custom"`
	InstalledVersion string `json:"installedVersion,omitempty"`
	UpdateAvailable  bool   `json:"updateAvailable"`
}

// Result describes a finished install.
type Result struct {
	Entry      Entry              `json:"entry"`
	ProfileDir string             `json:"profileDir"`
	Items      []string           `json:"items"`
	Links      []manifest.LinkDef `json:"links"`
}

// UninstallResult reports what Uninstall removed.
type UninstallResult struct {
	Removed   bool `json:"removed"`
	WasCustom bool `json:"wasCustom"`
}

// ProgressFunc receives human-readable progress lines during install.
type ProgressFunc func(msg string)
