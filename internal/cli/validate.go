package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orchester-labs/orchester/internal/manifest"
)

var validateCmd = &cobra.Command{
	Use:   "validate [profile|path]",
	Short: "Validate profile manifests",
	Long: `Validate a manifest against the manifest schema and check that every
symlink source exists inside the profile. The argument may be an installed
profile name, a profile directory or a manifest file. Without an argument
every installed profile is validated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if len(args) == 0 {
		if bad := printProfileChecks(w, e.layout.ProfilesDir()); bad > 0 {
			return fmt.Errorf("%d profile(s) failed validation", bad)
		}
		return nil
	}

	target := args[0]
	var result *manifest.ValidationResult
	switch info, statErr := os.Stat(target); {
	case statErr == nil && info.IsDir():
		result, err = manifest.Check(target)
	case statErr == nil:
		result, err = manifest.ValidateFile(target)
	default:
		target = e.layout.ProfileDir(target)
		result, err = manifest.Check(target)
	}
	if err != nil {
		return err
	}

	if result.Valid {
		fmt.Fprintln(w, successStyle.Render("✓ "+args[0]+" is valid"))
		return nil
	}
	fmt.Fprintln(w, errorStyle.Render("✗ "+args[0]))
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "  %s\n", issue)
	}
	return fmt.Errorf("%d validation issue(s)", len(result.Issues))
}
