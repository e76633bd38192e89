package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var registryJSON bool

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "List installable profiles",
	Long:  `List built-in and custom registry entries with their install state.`,
	Args:  cobra.NoArgs,
	RunE:  runRegistry,
}

func init() {
	registryCmd.Flags().BoolVar(&registryJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(registryCmd)
}

func runRegistry(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	entries := e.catalog.WithStatus()
	if registryJSON {
		return writeJSON(cmd, entries)
	}

	w := cmd.OutOrStdout()
	for _, s := range entries {
		state := mutedStyle.Render("available")
		switch {
		case s.UpdateAvailable:
			state = warnStyle.Render(fmt.Sprintf("update available (%s → %s)", s.InstalledVersion, s.Version))
		case s.Installed:
			state = successStyle.Render("installed")
		}
		name := s.Name
		if s.Custom {
			name += " (custom)"
		}
		fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(name), state)
		fmt.Fprintf(w, "  %s\n", s.Description)
		if s.Repo != "" {
			fmt.Fprintf(w, "  %s", mutedStyle.Render(s.Repo))
			if s.Stars != "" && s.Stars != "-" {
				fmt.Fprintf(w, "  %s", mutedStyle.Render("★ "+s.Stars))
			}
			fmt.Fprintln(w)
		}
		if len(s.Tags) > 0 {
			fmt.Fprintf(w, "  %s\n", mutedStyle.Render("tags: "+strings.Join(s.Tags, ", ")))
		}
	}
	return nil
}
