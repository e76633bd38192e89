package tools

import (
	"path/filepath"
	"strings"
)

// Expander substitutes the $HOME and $PROJECT placeholders and a leading
// "~" in link targets.
type Expander struct {
	Home    string
	Project string
}

// Expand returns p with placeholders replaced.
func (e Expander) Expand(p string) string {
	p = strings.ReplaceAll(p, "$HOME", e.Home)
	p = strings.ReplaceAll(p, "$PROJECT", e.Project)
	return ExpandTilde(p, e.Home)
}

// ExpandTilde replaces a leading "~" or "~/" with home.
func ExpandTilde(p, home string) string {
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	return p
}
