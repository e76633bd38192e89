package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/orchester-labs/orchester/internal/history"
	"github.com/orchester-labs/orchester/internal/tools"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent profile switches",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	h, err := history.Open(cmd.Context(), e.layout.HistoryPath())
	if err != nil {
		return err
	}
	defer h.Close()

	entries, err := h.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if historyJSON {
		if entries == nil {
			entries = []history.Entry{}
		}
		return writeJSON(cmd, entries)
	}

	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No switches recorded yet.")
		return nil
	}
	for _, en := range entries {
		mark := successStyle.Render("✓")
		if !en.Success {
			mark = errorStyle.Render("✗")
		}
		fmt.Fprintf(w, "%s %s  %s → %s  %s  +%d -%d\n",
			mark, en.SwitchedAt.Local().Format(time.DateTime), label(en.From), label(en.To),
			mutedStyle.Render("["+strings.Join(tools.Strings(en.Tools), ",")+"]"),
			en.LinksCreated, en.LinksRemoved)
		if en.Error != "" {
			fmt.Fprintf(w, "    %s\n", errorStyle.Render(en.Error))
		}
	}
	return nil
}
