package manifest

import "github.com/orchester-labs/orchester/internal/tools"

// FileName is the descriptor file every profile directory carries.
const FileName = "manifest.yaml"

// DefaultTool is the declared tool assumed when a manifest names none.
const DefaultTool = "claude-code"

// InstallType says how a profile or link is activated.
type InstallType string

const (
	InstallSymlink InstallType = "symlink"
	InstallPlugin  InstallType = "plugin"
	InstallHybrid  InstallType = "hybrid"
)

// LinkDef is one declared source → target association.
type LinkDef struct {
	Source        string      `yaml:"source" json:"source"`
	Target        string      `yaml:"target" json:"target"`
	InstallType   InstallType `yaml:"installType,omitempty" json:"installType,omitempty"`
	PluginCommand string      `yaml:"pluginCommand,omitempty" json:"pluginCommand,omitempty"`
	PluginLabel   string      `yaml:"pluginLabel,omitempty" json:"pluginLabel,omitempty"`
}

// IsPlugin reports whether the link is activated by a user-run command
// rather than a symlink.
func (l LinkDef) IsPlugin() bool { return l.InstallType == InstallPlugin }

// Profile is a parsed manifest.
type Profile struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	Tags        []string    `yaml:"tags" json:"tags"`
	Focus       []string    `yaml:"focus,omitempty" json:"focus,omitempty"`
	Tool        tools.ID    `yaml:"tool" json:"tool"`
	InstallType InstallType `yaml:"installType,omitempty" json:"installType,omitempty"`
	Version     string      `yaml:"version,omitempty" json:"version,omitempty"`
	Links       []LinkDef   `yaml:"links" json:"links"`
}

// SymlinkCount returns the number of non-plugin links.
func (p *Profile) SymlinkCount() int {
	n := 0
	for _, l := range p.Links {
		if !l.IsPlugin() {
			n++
		}
	}
	return n
}

// ListItem is the summary shown when listing installed profiles.
type ListItem struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Tags        []string    `json:"tags"`
	Focus       []string    `json:"focus,omitempty"`
	Active      bool        `json:"active"`
	InstallType InstallType `json:"installType,omitempty"`
	Tool        tools.ID    `json:"tool"`
	Links       int         `json:"links"`
}
