package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orchester-labs/orchester/internal/manifest"
	"github.com/orchester-labs/orchester/internal/orcherr"
)

var (
	useTools []string
	useYes   bool
	useJSON  bool
)

var useCmd = &cobra.Command{
	Use:   "use <profile|none>",
	Short: "Switch to a profile",
	Long: `Deactivate the active profile and activate the given one for each target
tool. "none" removes every profile link and restores the vanilla
configuration. The planned changes are shown first and confirmed
interactively unless --yes is given. On failure all links created by the
attempt are removed and the vanilla configuration is restored.`,
	Args: cobra.ExactArgs(1),
	RunE: runUse,
}

func init() {
	useCmd.Flags().StringSliceVarP(&useTools, "tool", "t", nil, "Tool to apply the profile to (repeatable, default from config)")
	useCmd.Flags().BoolVarP(&useYes, "yes", "y", false, "Switch without asking for confirmation")
	useCmd.Flags().BoolVar(&useJSON, "json", false, "Print the switch result as JSON")
	rootCmd.AddCommand(useCmd)
}

func runUse(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	target, err := targetTools(useTools)
	if err != nil {
		return err
	}

	to := profileArg(args[0])
	if to != "" {
		if _, err := os.Stat(manifest.Path(e.layout.ProfileDir(to))); err != nil {
			return orcherr.Newf(orcherr.ProfileNotFound, "profile %q is not installed (see '%s list')", to, rootCmd.Name())
		}
	}
	from := e.state.Load().ActiveName()

	eng, release := e.engine(cmd.Context())
	defer release()

	out := cmd.OutOrStdout()
	if !useJSON {
		renderDiff(out, eng.BuildDiffPreview(from, to, target))
	}
	if !useYes {
		if !isInteractive() {
			return errors.New("refusing to switch without confirmation; pass --yes when not running in a terminal")
		}
		if !confirm(cmd.InOrStdin(), out, "Proceed?") {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	if from == "" && to != "" && !e.vanilla.HasVanilla() {
		saved, err := e.vanilla.CreateSnapshot()
		if err != nil {
			return fmt.Errorf("snapshotting vanilla configuration: %w", err)
		}
		if len(saved) > 0 && !useJSON {
			fmt.Fprintf(out, "Saved vanilla snapshot of %d entries.\n", len(saved))
		}
	}

	res := eng.Switch(from, to, target)
	if useJSON {
		if err := writeJSON(cmd, res); err != nil {
			return err
		}
	} else {
		renderResult(out, to, res)
	}
	if !res.Success {
		return fmt.Errorf("switch to %s failed", label(to))
	}
	return nil
}
