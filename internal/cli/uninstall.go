package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orchester-labs/orchester/internal/orcherr"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <profile>",
	Short: "Remove an installed profile",
	Long: `Remove a profile directory from ~/.orchester/profiles. If the profile is
active, the vanilla configuration is restored first. Profiles installed from
a URL are also dropped from the custom registry.`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	name := args[0]
	w := cmd.OutOrStdout()

	st := e.state.Load()
	if st.ActiveName() == name {
		eng, release := e.engine(cmd.Context())
		res := eng.Switch(name, "", st.ActiveTools)
		release()
		renderResult(w, "", res)
		if !res.Success {
			return fmt.Errorf("deactivating %s before uninstall failed", name)
		}
	}

	res, err := e.installer().Uninstall(name)
	if err != nil {
		return fmt.Errorf("uninstalling %s: %w", name, err)
	}
	if !res.Removed && !res.WasCustom {
		return orcherr.Newf(orcherr.ProfileNotFound, "profile %q is not installed", name)
	}
	msg := fmt.Sprintf("✓ Uninstalled %s", name)
	if res.WasCustom {
		msg += " (removed from custom registry)"
	}
	fmt.Fprintln(w, successStyle.Render(msg))
	return nil
}
