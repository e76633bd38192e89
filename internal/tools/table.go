package tools

import (
	"path"
	"strings"
)

// Directory kinds a link target can end in.
const (
	KindAgents     = "agents"
	KindSkills     = "skills"
	KindHooks      = "hooks"
	KindPlugins    = "plugins"
	KindCommands   = "commands"
	KindPrompts    = "prompts"
	KindRules      = "rules"
	KindDocs       = "docs"
	KindExtensions = "extensions"
)

type toolSpec struct {
	configDir string
	kinds     []string
	dirs      map[string]string
}

// table holds each tool's directory templates. Kinds are listed separately
// so iteration order is stable.
var table = map[ID]toolSpec{
	Claude: {
		configDir: "$HOME/.claude",
		kinds:     []string{KindAgents, KindSkills, KindHooks, KindPlugins, KindCommands, KindPrompts},
		dirs: map[string]string{
			KindAgents:   "$HOME/.claude/agents/",
			KindSkills:   "$HOME/.claude/skills/",
			KindHooks:    "$HOME/.claude/hooks/",
			KindPlugins:  "$HOME/.claude/plugins/",
			KindCommands: "$HOME/.claude/commands/",
			KindPrompts:  "$HOME/.claude/prompts/",
		},
	},
	Codex: {
		configDir: "$HOME/.codex",
		kinds:     []string{KindAgents, KindSkills, KindHooks, KindCommands, KindPrompts},
		dirs: map[string]string{
			KindAgents:   "$HOME/.codex/agents/",
			KindSkills:   "$HOME/.codex/skills/",
			KindHooks:    "$HOME/.codex/hooks/",
			KindCommands: "$HOME/.codex/commands/",
			KindPrompts:  "$HOME/.codex/prompts/",
		},
	},
	Gemini: {
		configDir: "$HOME/.gemini",
		kinds:     []string{KindAgents, KindSkills, KindHooks, KindCommands},
		dirs: map[string]string{
			KindAgents:   "$HOME/.gemini/agents/",
			KindSkills:   "$HOME/.gemini/skills/",
			KindHooks:    "$HOME/.gemini/hooks/",
			KindCommands: "$HOME/.gemini/commands/",
		},
	},
	Cursor: {
		configDir: "$HOME/.cursor",
		kinds:     []string{KindSkills, KindRules, KindDocs},
		dirs: map[string]string{
			KindSkills: "$HOME/.cursor/skills/",
			KindRules:  "$HOME/.cursor/rules/",
			KindDocs:   "$HOME/.cursor/docs/",
		},
	},
	Antigravity: {
		configDir: "$HOME/.antigravity",
		kinds:     []string{KindAgents, KindSkills, KindExtensions},
		dirs: map[string]string{
			KindAgents:     "$HOME/.antigravity/agents/",
			KindSkills:     "$HOME/.gemini/antigravity/skills/",
			KindExtensions: "$HOME/.antigravity/extensions/",
		},
	},
	OpenCode: {
		configDir: "$HOME/.config/opencode",
		kinds:     []string{KindAgents, KindSkills, KindHooks, KindCommands},
		dirs: map[string]string{
			KindAgents:   "$HOME/.config/opencode/agents/",
			KindSkills:   "$HOME/.config/opencode/skills/",
			KindHooks:    "$HOME/.config/opencode/hooks/",
			KindCommands: "$HOME/.config/opencode/commands/",
		},
	},
}

// Dir returns the directory template for kind, or false when the tool has
// no such directory.
func Dir(id ID, kind string) (string, bool) {
	spec, ok := table[id]
	if !ok {
		return "", false
	}
	d, ok := spec.dirs[kind]
	return d, ok
}

// Kinds returns the directory kinds a tool supports, in table order.
func Kinds(id ID) []string {
	return append([]string(nil), table[id].kinds...)
}

// ConfigDir returns the template of the tool's root configuration
// directory (e.g. "$HOME/.claude").
func ConfigDir(id ID) string {
	return table[id].configDir
}

// KindOf returns the trailing path segment of a target, which names the
// directory kind for tool-directory targets ("$HOME/.claude/agents/" →
// "agents").
func KindOf(target string) string {
	t := strings.TrimRight(target, "/")
	if t == "" {
		return ""
	}
	return path.Base(t)
}

// ResolveTarget rewrites an abstract link target for a specific tool.
// When the tool has a directory for the target's kind, that directory is
// returned; otherwise the target is returned unchanged so project-relative
// targets such as $PROJECT/CLAUDE.md pass through untouched.
func ResolveTarget(abstract string, id ID) string {
	if d, ok := Dir(id, KindOf(abstract)); ok {
		return d
	}
	return abstract
}
