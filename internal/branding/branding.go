// Package branding provides compile-time identity values for the CLI.
//
// The identity lives in branding.yaml next to this file and is baked into
// the binary with //go:embed. Hard defaults cover a missing or empty file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName       string `yaml:"cli_name"`
	DisplayName   string `yaml:"display_name"`
	Description   string `yaml:"description"`
	HomeDir       string `yaml:"home_dir"`
	LegacyHomeDir string `yaml:"legacy_home_dir"`
	EnvPrefix     string `yaml:"env_prefix"`
	GitHubRepo    string `yaml:"github_repo"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:       "orchester",
			DisplayName:   "Orchester",
			Description:   "Profile switcher for AI coding tool orchestrations",
			HomeDir:       ".orchester",
			LegacyHomeDir: ".orch",
			EnvPrefix:     "ORCHESTER",
			GitHubRepo:    "orchester-labs/orchester",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "orchester").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".orchester").
func HomeDir() string { load(); return defaults.HomeDir }

// LegacyHomeDir returns the dot-directory used by releases before the
// rename (e.g., ".orch"). Its contents are migrated on first run.
func LegacyHomeDir() string { load(); return defaults.LegacyHomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "ORCHESTER").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GitHubRepo returns the "owner/repo" string.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "ORCHESTER_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
