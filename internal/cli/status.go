package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/orchester-labs/orchester/internal/linker"
	"github.com/orchester-labs/orchester/internal/tools"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active profile and its links",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(statusCmd)
}

type statusView struct {
	ActiveProfile *string       `json:"activeProfile"`
	LastSwitched  *time.Time    `json:"lastSwitched"`
	ActiveTools   []tools.ID    `json:"activeTools"`
	Links         []linker.Link `json:"links"`
	HasVanilla    bool          `json:"hasVanilla"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	st := e.state.Load()
	v := statusView{
		ActiveProfile: st.ActiveProfile,
		LastSwitched:  st.LastSwitched,
		ActiveTools:   st.ActiveTools,
		Links:         e.links.ListActiveLinks(e.linkCandidates()),
		HasVanilla:    e.vanilla.HasVanilla(),
	}
	if v.Links == nil {
		v.Links = []linker.Link{}
	}
	if statusJSON {
		return writeJSON(cmd, v)
	}

	w := cmd.OutOrStdout()
	name, ok := st.Active()
	if !ok {
		fmt.Fprintln(w, titleStyle.Render("Active profile: ")+mutedStyle.Render("(none, vanilla configuration)"))
	} else {
		fmt.Fprintln(w, titleStyle.Render("Active profile: ")+activeStyle.Render(name))
		fmt.Fprintf(w, "Tools: %s\n", strings.Join(tools.Strings(st.ActiveTools), ", "))
	}
	if st.LastSwitched != nil {
		fmt.Fprintf(w, "Last switched: %s\n", st.LastSwitched.Local().Format(time.RFC1123))
	}
	snapshot := "missing (run init)"
	if v.HasVanilla {
		snapshot = "present"
	}
	fmt.Fprintf(w, "Vanilla snapshot: %s\n", snapshot)

	if len(v.Links) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No active links."))
		return nil
	}
	fmt.Fprintf(w, "Active links (%d):\n", len(v.Links))
	for _, l := range v.Links {
		fmt.Fprintf(w, "  %s → %s\n", l.Target, l.Source)
	}
	return nil
}
