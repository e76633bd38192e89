package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/orchester-labs/orchester/internal/manifest"
	"github.com/orchester-labs/orchester/internal/switcher"
)

// Adaptive palette shared by every view.
var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#1F8A3B", Dark: "#5FD068"}
	colorWarn    = lipgloss.AdaptiveColor{Light: "#B7791F", Dark: "#F6C26B"}
	colorError   = lipgloss.AdaptiveColor{Light: "#C53030", Dark: "#FC8181"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#718096", Dark: "#A0AEC0"}
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarn)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
)

func label(profile string) string {
	if profile == "" {
		return "(none)"
	}
	return profile
}

// renderDiff prints the plan of a switch: removals first, then additions.
func renderDiff(w io.Writer, d switcher.Diff) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Switch: %s → %s", label(d.From), label(d.To))))
	if len(d.Items) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  No changes."))
		return
	}
	for _, it := range d.Items {
		sign, style := "+", successStyle
		if it.Type == switcher.ItemRemove {
			sign, style = "-", errorStyle
		}
		if it.IsPlugin() {
			fmt.Fprintf(w, "  %s %s %s\n", style.Render(sign), it.Source, mutedStyle.Render("[plugin] "+it.PluginLabel))
			continue
		}
		fmt.Fprintf(w, "  %s %s → %s %s\n", style.Render(sign), it.Source, it.ResolvedTarget, mutedStyle.Render("("+string(it.Tool)+")"))
	}
	adds, removes := d.Count()
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("  %d to add, %d to remove", adds, removes)))
}

// renderResult prints the outcome of a switch and any plugin commands the
// user still has to run.
func renderResult(w io.Writer, to string, res switcher.SwitchResult) {
	if !res.Success {
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("✗ Switch failed during %s: %s", res.FailedPhase, res.Error)))
		fmt.Fprintln(w, warnStyle.Render("  Rolled back to the vanilla configuration."))
	} else if to == "" {
		fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("✓ Restored vanilla configuration (%d links removed)", res.LinksRemoved)))
	} else {
		fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("✓ Switched to %s (%d links created, %d removed)", to, res.LinksCreated, res.LinksRemoved)))
	}

	if len(res.PluginCommands) == 0 {
		return
	}
	fmt.Fprintln(w, warnStyle.Render("Run these plugin commands manually:"))
	for _, pc := range res.PluginCommands {
		fmt.Fprintf(w, "  %s  %s\n", pc.Command, mutedStyle.Render("# "+pc.Label))
	}
}

// renderProfiles prints installed profiles, marking the active one.
func renderProfiles(w io.Writer, items []manifest.ListItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No profiles installed yet.")
		return
	}
	width := 0
	for _, it := range items {
		width = max(width, len(it.Name))
	}
	for _, it := range items {
		marker := "  "
		name := fmt.Sprintf("%-*s", width, it.Name)
		if it.Active {
			marker = activeStyle.Render("● ")
			name = activeStyle.Render(name)
		}
		tags := ""
		if len(it.Tags) > 0 {
			tags = mutedStyle.Render(" [" + strings.Join(it.Tags, ", ") + "]")
		}
		fmt.Fprintf(w, "%s%s  %s%s\n", marker, name, it.Description, tags)
	}
}
