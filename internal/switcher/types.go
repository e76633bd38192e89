package switcher

import (
	"github.com/orchester-labs/orchester/internal/manifest"
	"github.com/orchester-labs/orchester/internal/tools"
)

// Phase is a state of the switch state machine.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseValidating   Phase = "validating"
	PhaseDeactivating Phase = "deactivating"
	PhaseActivating   Phase = "activating"
	PhaseDone         Phase = "done"
	PhaseRollingBack  Phase = "rolling-back"
	PhaseFailed       Phase = "failed"
)

// ItemType says whether a diff item removes or adds a link.
type ItemType string

const (
	ItemAdd    ItemType = "add"
	ItemRemove ItemType = "remove"
)

// Item is one planned link operation. Symlink items are per tool; plugin
// items have no tool.
type Item struct {
	Type           ItemType             `json:"type"`
	Profile        string               `json:"profile"`
	Source         string               `json:"source"`
	Target         string               `json:"target"`
	Tool           tools.ID             `json:"tool,omitempty"`
	ResolvedTarget string               `json:"resolvedTarget"`
	ResolvedSource string               `json:"resolvedSource,omitempty"`
	InstallType    manifest.InstallType `json:"installType"`
	PluginCommand  string               `json:"pluginCommand,omitempty"`
	PluginLabel    string               `json:"pluginLabel,omitempty"`
}

// IsPlugin reports whether the item is a user-run plugin command.
func (i Item) IsPlugin() bool { return i.InstallType == manifest.InstallPlugin }

// Diff is the ordered plan between two activations. Empty From or To means
// vanilla.
type Diff struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Items []Item `json:"items"`
}

// Count returns the number of add and remove items.
func (d Diff) Count() (adds, removes int) {
	for _, it := range d.Items {
		if it.Type == ItemAdd {
			adds++
		} else {
			removes++
		}
	}
	return adds, removes
}

// Plugin command actions.
const (
	ActionInstall   = "install"
	ActionUninstall = "uninstall"
)

// PluginCommand is a command the user must run by hand.
type PluginCommand struct {
	Command string `json:"command"`
	Label   string `json:"label"`
	Action  string `json:"action"`
}

// SwitchResult reports the outcome of one switch attempt.
type SwitchResult struct {
	Success        bool            `json:"success"`
	LinksCreated   int             `json:"linksCreated"`
	LinksRemoved   int             `json:"linksRemoved"`
	CreatedLinks   []Item          `json:"createdLinks"`
	RemovedLinks   []Item          `json:"removedLinks"`
	PluginCommands []PluginCommand `json:"pluginCommands"`
	Error          string          `json:"error,omitempty"`
	Phase          Phase           `json:"phase"`
	FailedPhase    Phase           `json:"failedPhase,omitempty"`
}
