package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orchester-labs/orchester/internal/manifest"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed profiles",
	Long:  `List all profiles installed in ~/.orchester/profiles/, marking the active one.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	items := manifest.ListProfiles(e.layout.ProfilesDir(), e.state.Load().ActiveName())
	if listJSON {
		if items == nil {
			items = []manifest.ListItem{}
		}
		return writeJSON(cmd, items)
	}
	renderProfiles(cmd.OutOrStdout(), items)
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
