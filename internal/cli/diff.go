package cli

import (
	"github.com/spf13/cobra"
)

var (
	diffFrom  string
	diffTools []string
	diffJSON  bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <profile|none>",
	Short: "Preview the link changes of a switch",
	Long: `Show which links a switch to the given profile would remove and create,
without touching the filesystem. "none" previews a return to the vanilla
configuration.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffFrom, "from", "", "Profile to diff from (default: the active profile)")
	diffCmd.Flags().StringSliceVarP(&diffTools, "tool", "t", nil, "Tool to apply the profile to (repeatable)")
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	target, err := targetTools(diffTools)
	if err != nil {
		return err
	}

	from := e.state.Load().ActiveName()
	if cmd.Flags().Changed("from") {
		from = profileArg(diffFrom)
	}

	d := e.preview().BuildDiffPreview(from, profileArg(args[0]), target)
	if diffJSON {
		return writeJSON(cmd, d)
	}
	renderDiff(cmd.OutOrStdout(), d)
	return nil
}

// profileArg maps the user-facing names of the vanilla configuration to
// the empty profile.
func profileArg(s string) string {
	switch s {
	case "none", "vanilla", "-":
		return ""
	}
	return s
}
