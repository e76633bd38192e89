package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/orchester-labs/orchester/internal/usage"
)

var usageJSON bool

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show local token and session usage per tool",
	Long: `Summarize the usage statistics AI coding tools keep on disk: Claude Code's
stats cache and Codex session logs, with daily activity for the last seven
days. Tools that keep no local data point to their dashboards.`,
	Args: cobra.NoArgs,
	RunE: runUsage,
}

func init() {
	usageCmd.Flags().BoolVar(&usageJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(usageCmd)
}

func runUsage(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	all := usage.All(e.layout.Home)
	if usageJSON {
		return writeJSON(cmd, all)
	}
	w := cmd.OutOrStdout()
	for _, u := range all {
		renderUsage(w, u)
	}
	return nil
}

func renderUsage(w io.Writer, u usage.RuntimeUsage) {
	fmt.Fprintln(w, titleStyle.Render(u.Name))
	if !u.Available || (u.TotalTokens == 0 && u.Sessions == 0) {
		if u.Note != "" {
			fmt.Fprintf(w, "  %s\n", mutedStyle.Render(u.Note))
		}
		return
	}
	fmt.Fprintf(w, "  Tokens: %s (in %s, out %s, cache %s)\n",
		usage.FormatTokens(u.TotalTokens), usage.FormatTokens(u.InputTokens),
		usage.FormatTokens(u.OutputTokens), usage.FormatTokens(u.CacheTokens))
	fmt.Fprintf(w, "  Sessions: %d  Messages: %d\n", u.Sessions, u.Messages)

	var peak int64
	for _, d := range u.Daily {
		peak = max(peak, d.Tokens)
	}
	for _, d := range u.Daily {
		fmt.Fprintf(w, "  %s %s %s\n", d.Date, successStyle.Render(usage.Bar(d.Tokens, peak, 20)), usage.FormatTokens(d.Tokens))
	}
	if u.Note != "" {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render(u.Note))
	}
}
