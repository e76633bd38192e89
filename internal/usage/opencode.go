package usage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/orchester-labs/orchester/internal/tools"
)

// OpenCode counts session files under ~/.local/share/opencode/sessions.
// OpenCode keeps no token totals locally.
func (r *Reader) OpenCode() RuntimeUsage {
	u := newUsage(tools.OpenCode)
	configDir := filepath.Join(r.Home, ".config", "opencode")
	sessions := filepath.Join(r.Home, ".local", "share", "opencode", "sessions")

	hasConfig := isDir(configDir)
	if !isDir(sessions) {
		if !hasConfig {
			u.Note = "OpenCode not installed"
			return u
		}
		u.Available = true
		u.Note = "No session data found. Check opencode.ai dashboard."
		return u
	}

	u.Available = true
	entries, err := os.ReadDir(sessions)
	if err != nil {
		u.Note = "Failed to read OpenCode data"
		return u
	}
	for _, e := range entries {
		if name := e.Name(); strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".jsonl") {
			u.Sessions++
		}
	}
	if u.Sessions == 0 {
		u.Note = "No session data found."
	}
	return u
}
