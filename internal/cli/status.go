package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/andywolf/skillsctl/internal/reconcile"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current bootstrap and selection status",
	Long: `Show whether the project has a skills config, submodule and manifest,
which skills are selected, and whether .codex/skills has local changes.

Examples:
  skillsctl status
  skillsctl status --json`,
	Args: cobra.NoArgs,
	RunE: checkStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	addOutputFlags(statusCmd)
}

func checkStatus(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	s, err := newSession(cmd.Context(), true)
	if err != nil {
		return err
	}

	report, err := s.engine.Status(cmd.Context())
	if err != nil {
		return err
	}

	if format != formatText {
		return writeMachine(cmd.OutOrStdout(), format, report)
	}
	printStatus(cmd.OutOrStdout(), report)
	return nil
}

func printStatus(w io.Writer, r *reconcile.StatusReport) {
	st := newStyles(w)

	fmt.Fprintf(w, "repo: %s\n", r.RepoRoot)
	fmt.Fprintf(w, "config: %s\n", presence(r.ConfigPresent))
	if r.ConfigPresent {
		fmt.Fprintf(w, "  repo_url: %s\n", r.RepoURL)
		fmt.Fprintf(w, "  branch: %s\n", r.Branch)
	}
	fmt.Fprintf(w, "submodule: %s\n", presence(r.SubmodulePresent))
	if r.SubmodulePresent {
		dirty := fmt.Sprintf("%t", r.SubmoduleDirty)
		if r.SubmoduleDirty {
			dirty = st.warn.Render(dirty)
		}
		fmt.Fprintf(w, "  dirty: %s\n", dirty)
		if len(r.SparsePaths) > 0 {
			fmt.Fprintf(w, "  sparse: %s\n", strings.Join(r.SparsePaths, ", "))
		}
	}
	fmt.Fprintf(w, "manifest: %s (%d selected)\n", presence(r.ManifestPresent), len(r.ManifestIDs))
	for _, id := range r.ManifestIDs {
		fmt.Fprintf(w, "  - %s\n", st.id.Render(id))
	}
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "missing"
}
