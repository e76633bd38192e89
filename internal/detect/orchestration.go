package detect

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Orchestration is an orchestration layer that appears to be installed,
// with the evidence found for it.
type Orchestration struct {
	Name     string   `json:"name"`
	Evidence []string `json:"evidence"`
}

// Plugin is one entry of Claude's installed_plugins.json.
type Plugin struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	InstallPath string `json:"installPath"`
}

// omxMarkers identify oh-my-codex configuration in ~/.codex/config.toml.
var omxMarkers = []string{"oh-my-codex", "omx_state"}

// ActiveOrchestrations inspects plugin records, agent names and tool
// configuration for signs of known orchestration layers.
func (d *Detector) ActiveOrchestrations() []Orchestration {
	plugins := d.InstalledPlugins()
	agentsDir := filepath.Join(d.Home, ".claude", "agents")
	commandsDir := filepath.Join(d.Home, ".claude", "commands")
	codexDir := filepath.Join(d.Home, ".codex")
	opencodeDir := filepath.Join(d.Home, ".config", "opencode")

	var results []Orchestration
	add := func(name string, evidence []string) {
		if len(evidence) > 0 {
			results = append(results, Orchestration{Name: name, Evidence: evidence})
		}
	}

	// bkit
	var ev []string
	if p, ok := findPlugin(plugins, "bkit"); ok {
		ev = append(ev, fmt.Sprintf("plugin: bkit v%s (%s)", p.Version, p.InstallPath))
	}
	if n := len(matchEntries(agentsDir, "bkit")); n > 0 {
		ev = append(ev, fmt.Sprintf("~/.claude/agents/ (%d bkit agents)", n))
	}
	add("bkit", ev)

	// oh-my-claudecode
	ev = nil
	if p, ok := findPlugin(plugins, "omc", "oh-my-claudecode"); ok {
		ev = append(ev, fmt.Sprintf("plugin: %s v%s", p.Name, p.Version))
	}
	if n := len(matchEntries(agentsDir, "omc", "oh-my", "autopilot", "swarm")); n > 0 {
		ev = append(ev, fmt.Sprintf("~/.claude/agents/ (%d omc-style agents)", n))
	}
	add("omc", ev)

	// everything-claude-code
	ev = nil
	if p, ok := findPlugin(plugins, "ecc", "everything-claude-code"); ok {
		ev = append(ev, fmt.Sprintf("plugin: %s v%s", p.Name, p.Version))
	}
	if n := countEntries(commandsDir); n > 5 {
		ev = append(ev, fmt.Sprintf("~/.claude/commands/ (%d commands)", n))
	}
	if n := countEntries(agentsDir); n > 20 {
		ev = append(ev, fmt.Sprintf("~/.claude/agents/ (%d agents, large collection)", n))
	}
	add("ecc", ev)

	// oh-my-codex
	ev = nil
	if isDir(filepath.Join(codexDir, ".omx")) {
		ev = append(ev, "~/.codex/.omx/ directory")
	}
	if path, err := d.lookPath("oh-my-codex"); err == nil {
		ev = append(ev, "binary: "+path)
	}
	if d.codexConfigHasOMX(filepath.Join(codexDir, "config.toml")) {
		ev = append(ev, "config.toml contains omx config")
	}
	if n := countEntries(filepath.Join(codexDir, "prompts")); n >= 5 {
		ev = append(ev, fmt.Sprintf("~/.codex/prompts/ (%d prompts)", n))
	}
	add("oh-my-codex", ev)

	// oh-my-opencode
	ev = nil
	if n := len(matchEntries(filepath.Join(opencodeDir, "agents"), "sisyphus", "prometheus", "metis", "oh-my")); n > 0 {
		ev = append(ev, fmt.Sprintf("~/.config/opencode/agents/ (%d omoc agents)", n))
	}
	if path, err := d.lookPath("oh-my-opencode"); err == nil {
		ev = append(ev, "binary: "+path)
	}
	if n := countEntries(filepath.Join(opencodeDir, "hooks")); n >= 10 {
		ev = append(ev, fmt.Sprintf("~/.config/opencode/hooks/ (%d hooks)", n))
	}
	add("oh-my-opencode", ev)

	// wshobson/agents
	if p, ok := findPlugin(plugins, "wshobson-agents", "agents"); ok {
		add("wshobson-agents", []string{fmt.Sprintf("plugin: %s v%s", p.Name, p.Version)})
	}

	// Remaining plugins without a dedicated check.
	for _, p := range plugins {
		if slices.ContainsFunc(results, func(o Orchestration) bool { return o.Name == p.Name }) {
			continue
		}
		if slices.Contains([]string{"oh-my-claudecode", "everything-claude-code", "agents"}, p.Name) {
			continue
		}
		add(p.Name, []string{fmt.Sprintf("plugin: %s v%s", p.Name, p.Version)})
	}
	return results
}

// InstalledPlugins reads ~/.claude/plugins/installed_plugins.json. Keys
// look like "bkit@bkit-marketplace"; the part before "@" is the name.
func (d *Detector) InstalledPlugins() []Plugin {
	data, err := os.ReadFile(filepath.Join(d.Home, ".claude", "plugins", "installed_plugins.json"))
	if err != nil {
		return nil
	}
	var doc struct {
		Plugins map[string][]struct {
			Version     string `json:"version"`
			InstallPath string `json:"installPath"`
		} `json:"plugins"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		d.log.Debug().Err(err).Msg("Ignoring unreadable installed_plugins.json")
		return nil
	}

	keys := make([]string, 0, len(doc.Plugins))
	for k := range doc.Plugins {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var out []Plugin
	for _, key := range keys {
		name, _, _ := strings.Cut(key, "@")
		for _, inst := range doc.Plugins[key] {
			v := inst.Version
			if v == "" {
				v = "unknown"
			}
			out = append(out, Plugin{Name: name, Version: v, InstallPath: inst.InstallPath})
		}
	}
	return out
}

// codexConfigHasOMX reports whether any key or string value of the Codex
// config mentions an oh-my-codex marker. Unparseable files are searched as
// plain text.
func (d *Detector) codexConfigHasOMX(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		d.log.Debug().Err(err).Str("path", path).Msg("Codex config is not valid TOML, scanning text")
		return containsMarker(string(data))
	}
	return walkTOML(doc)
}

func walkTOML(v any) bool {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if containsMarker(k) || walkTOML(child) {
				return true
			}
		}
	case []any:
		for _, child := range t {
			if walkTOML(child) {
				return true
			}
		}
	case string:
		return containsMarker(t)
	}
	return false
}

func containsMarker(s string) bool {
	for _, m := range omxMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func findPlugin(plugins []Plugin, names ...string) (Plugin, bool) {
	for _, p := range plugins {
		if slices.Contains(names, p.Name) {
			return p, true
		}
	}
	return Plugin{}, false
}

// matchEntries returns the entries of dir whose lowercased name contains
// any pattern.
func matchEntries(dir string, patterns ...string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		lower := strings.ToLower(e.Name())
		for _, p := range patterns {
			if strings.Contains(lower, p) {
				out = append(out, e.Name())
				break
			}
		}
	}
	return out
}
