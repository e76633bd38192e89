package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orchester-labs/orchester/internal/detect"
	"github.com/orchester-labs/orchester/internal/manifest"
	"github.com/orchester-labs/orchester/internal/platform"
)

var (
	checkRuntime       bool
	checkOrchestration bool
	checkProfiles      bool
)

func init() {
	doctorCmd.Flags().BoolVar(&checkRuntime, "check-runtime", false, "Detect installed AI coding tools")
	doctorCmd.Flags().BoolVar(&checkOrchestration, "check-orchestration", false, "Detect orchestration layers installed outside orchester")
	doctorCmd.Flags().BoolVar(&checkProfiles, "check-profiles", false, "Validate installed profile manifests")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for tools, orchestrations and profiles",
	Long:  `Run diagnostic checks on the installed AI coding tools and orchester profiles.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		all := !checkRuntime && !checkOrchestration && !checkProfiles
		w := cmd.OutOrStdout()
		d := detect.New(e.layout.Home)

		if all || checkRuntime {
			printRuntimes(cmd, w, d)
		}
		if all || checkOrchestration {
			printOrchestrations(w, d)
		}
		problems := 0
		if all || checkProfiles {
			problems = printProfileChecks(w, e.layout.ProfilesDir())
		}
		if all && !platform.IsSymlinkSupported() {
			fmt.Fprintln(w, warnStyle.Render("Symbolic links are not supported on this system; switching will fail."))
			problems++
		}
		if problems > 0 {
			return fmt.Errorf("%d problem(s) found", problems)
		}
		return nil
	},
}

func printRuntimes(cmd *cobra.Command, w io.Writer, d *detect.Detector) {
	fmt.Fprintln(w, titleStyle.Render("AI coding tools"))
	for _, rt := range d.Runtimes(cmd.Context()) {
		if !rt.Installed {
			fmt.Fprintf(w, "  %s %s\n", mutedStyle.Render("○"), mutedStyle.Render(rt.Name+" not found"))
			continue
		}
		detail := rt.Version
		if detail == "" {
			detail = rt.ConfigDir
		}
		fmt.Fprintf(w, "  %s %s %s\n", successStyle.Render("●"), rt.Name, mutedStyle.Render(detail))
	}

	configs := d.ExistingConfigs()
	if len(configs) == 0 {
		return
	}
	fmt.Fprintln(w, titleStyle.Render("Existing tool directories"))
	for _, c := range configs {
		fmt.Fprintf(w, "  %-12s %-10s %3d entries  %s\n", c.Tool, c.Kind, c.Count, mutedStyle.Render(c.Location))
	}
}

func printOrchestrations(w io.Writer, d *detect.Detector) {
	fmt.Fprintln(w, titleStyle.Render("Orchestration layers"))
	found := d.ActiveOrchestrations()
	if len(found) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  none detected"))
		return
	}
	for _, o := range found {
		fmt.Fprintf(w, "  %s %s %s\n", warnStyle.Render("●"), o.Name, mutedStyle.Render(strings.Join(o.Evidence, "; ")))
	}
}

// printProfileChecks validates every installed profile and returns the
// number of profiles with issues.
func printProfileChecks(w io.Writer, profilesRoot string) int {
	fmt.Fprintln(w, titleStyle.Render("Profiles"))
	bad, seen := 0, 0
	for name := range manifest.ListProfileDirs(profilesRoot) {
		seen++
		result, err := manifest.Check(filepath.Join(profilesRoot, name))
		if err != nil {
			bad++
			fmt.Fprintf(w, "  %s %s: %v\n", errorStyle.Render("✗"), name, err)
			continue
		}
		if result.Valid {
			fmt.Fprintf(w, "  %s %s\n", successStyle.Render("✓"), name)
			continue
		}
		bad++
		fmt.Fprintf(w, "  %s %s\n", errorStyle.Render("✗"), name)
		for _, issue := range result.Issues {
			fmt.Fprintf(w, "      %s\n", issue)
		}
	}
	if seen == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  no profiles installed"))
	}
	return bad
}
