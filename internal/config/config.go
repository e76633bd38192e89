package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/orchester-labs/orchester/internal/branding"
	"github.com/orchester-labs/orchester/internal/paths"
	"github.com/orchester-labs/orchester/internal/tools"
)

const fileType = "yaml"

// Recognised keys.
const (
	KeyDefaultTools    = "default_tools"
	KeyProjectDir      = "project_dir"
	KeyRegistryTimeout = "registry_timeout"
)

const defaultRegistryTimeout = 120 * time.Second

var v = newViper("")

// Keys returns every recognised key in display order.
func Keys() []string {
	return []string{KeyDefaultTools, KeyProjectDir, KeyRegistryTimeout}
}

// IsKey reports whether key is a recognised setting.
func IsKey(key string) bool { return slices.Contains(Keys(), key) }

// Dir returns the orchester home (~/.orchester/), honouring ORCHESTER_HOME.
func Dir() string {
	if d := os.Getenv(branding.EnvVar("HOME")); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the path of the config file in use.
func FilePath() string {
	if f := v.ConfigFileUsed(); f != "" {
		return f
	}
	return filepath.Join(Dir(), paths.ConfigFile)
}

// Load initializes settings from path and the environment. An empty path
// means the default location. A missing file is not an error.
func Load(path string) error {
	if path == "" {
		path = filepath.Join(Dir(), paths.ConfigFile)
	}
	v = newViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

func newViper(path string) *viper.Viper {
	nv := viper.New()
	if path != "" {
		nv.SetConfigFile(path)
	}
	nv.SetConfigType(fileType)
	nv.SetEnvPrefix(branding.EnvPrefix())
	nv.AutomaticEnv()
	nv.SetDefault(KeyDefaultTools, []string{string(tools.Primary)})
	nv.SetDefault(KeyRegistryTimeout, defaultRegistryTimeout)
	return nv
}

// Get returns a config value rendered as a string. Returns empty string if
// not set.
func Get(key string) string {
	if key == KeyDefaultTools {
		return strings.Join(tools.Strings(DefaultTools()), ",")
	}
	return v.GetString(key)
}

// Set writes a config key-value pair and saves the config file. List
// values are comma separated.
func Set(key, value string) error {
	if !IsKey(key) {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}

	switch key {
	case KeyDefaultTools:
		ids, err := tools.ParseAll(splitList(value))
		if err != nil {
			return err
		}
		v.Set(key, tools.Strings(ids))
	case KeyRegistryTimeout:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
		v.Set(key, d.String())
	default:
		v.Set(key, value)
	}

	configFile := FilePath()
	if err := os.MkdirAll(filepath.Dir(configFile), paths.DirPermNormal); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// DefaultTools returns the tools a switch applies to when none are given.
func DefaultTools() []tools.ID {
	var raw []string
	for _, item := range v.GetStringSlice(KeyDefaultTools) {
		raw = append(raw, splitList(item)...)
	}
	return tools.OrPrimary(tools.NormalizeAll(raw))
}

// ProjectDir returns the configured project directory, or "".
func ProjectDir() string {
	return tools.ExpandTilde(v.GetString(KeyProjectDir), homeDir())
}

// RegistryTimeout returns the clone timeout for registry installs.
func RegistryTimeout() time.Duration {
	if d := v.GetDuration(KeyRegistryTimeout); d > 0 {
		return d
	}
	return defaultRegistryTimeout
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func homeDir() string {
	home, _ := os.UserHomeDir()
	return home
}
