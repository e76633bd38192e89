package tools

import (
	"fmt"
	"strings"
)

// ID is a canonical tool identifier.
type ID string

const (
	Claude      ID = "claude"
	Codex       ID = "codex"
	Gemini      ID = "gemini"
	Cursor      ID = "cursor"
	Antigravity ID = "antigravity"
	OpenCode    ID = "opencode"
)

// Primary is the tool assumed whenever none is given.
const Primary = Claude

// All returns every supported tool in display order.
func All() []ID {
	return []ID{Claude, Codex, Gemini, Cursor, Antigravity, OpenCode}
}

// aliases maps lower-cased spellings to canonical ids.
var aliases = map[string]ID{
	"claude":      Claude,
	"claude-code": Claude,
	"codex":       Codex,
	"codex-cli":   Codex,
	"gemini":      Gemini,
	"gemini-cli":  Gemini,
	"cursor":      Cursor,
	"antigravity": Antigravity,
	"opencode":    OpenCode,
}

var displayNames = map[ID]string{
	Claude:      "Claude Code",
	Codex:       "Codex CLI",
	Gemini:      "Gemini CLI",
	Cursor:      "Cursor",
	Antigravity: "Antigravity",
	OpenCode:    "OpenCode",
}

// Normalize maps a loosely spelled tool name to its canonical id.
// Unrecognized input falls back to Primary.
func Normalize(raw string) ID {
	if id, ok := aliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return id
	}
	return Primary
}

// Parse is the strict form of Normalize for user-typed input.
func Parse(raw string) (ID, error) {
	if id, ok := aliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return id, nil
	}
	return "", fmt.Errorf("unknown tool %q (supported: %s)", raw, strings.Join(Strings(All()), ", "))
}

// ParseAll parses a list of tool names, dropping duplicates while keeping
// first-seen order.
func ParseAll(raw []string) ([]ID, error) {
	var ids []ID
	seen := make(map[ID]bool)
	for _, r := range raw {
		id, err := Parse(r)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// NormalizeAll normalizes a list, dropping duplicates.
func NormalizeAll(raw []string) []ID {
	var ids []ID
	seen := make(map[ID]bool)
	for _, r := range raw {
		id := Normalize(r)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// OrPrimary returns ids, or a single-element list holding Primary when
// ids is empty.
func OrPrimary(ids []ID) []ID {
	if len(ids) == 0 {
		return []ID{Primary}
	}
	return ids
}

// Strings converts ids to plain strings.
func Strings(ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// Name returns the human-readable product name.
func (id ID) Name() string {
	if n, ok := displayNames[id]; ok {
		return n
	}
	return string(id)
}

func (id ID) String() string { return string(id) }
