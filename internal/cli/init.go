package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orchester-labs/orchester/internal/paths"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the orchester home and snapshot the current configuration",
	Long: `Create ~/.orchester with its profile store and a default config file, then
copy the existing agents, skills, hooks and project CLAUDE.md into the
vanilla snapshot so they can be restored later. Running init again keeps
existing files and the existing snapshot.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if err := paths.Init(w, e.layout); err != nil {
		return err
	}

	fmt.Fprintln(w, titleStyle.Render("Existing configuration:"))
	found := 0
	for c := range e.vanilla.Detect() {
		if !c.Exists {
			continue
		}
		found++
		kind := "user"
		if e.links.IsOrchSymlink(c.Path) {
			kind = "profile link"
		}
		fmt.Fprintf(w, "  %s %s\n", c.Label, mutedStyle.Render("("+kind+")"))
	}
	if found == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  none found"))
	}

	if e.vanilla.HasVanilla() {
		fmt.Fprintln(w, "  [SKIP] vanilla snapshot already exists")
		return nil
	}
	saved, err := e.vanilla.CreateSnapshot()
	if err != nil {
		return fmt.Errorf("snapshotting vanilla configuration: %w", err)
	}
	fmt.Fprintf(w, "  [ OK ] Snapshotted %d entries to %s\n", len(saved), e.layout.VanillaDir())
	return nil
}
