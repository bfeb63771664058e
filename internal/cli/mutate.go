package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/andywolf/skillsctl/internal/cli/wizard"
	"github.com/andywolf/skillsctl/internal/reconcile"
	"github.com/spf13/cobra"
)

// confirmDeselect is swapped in tests.
var confirmDeselect = wizard.ConfirmDeselect

// addRepoFlags registers the flags shared by every mutating command.
func addRepoFlags(cmd *cobra.Command) {
	cmd.Flags().String("repo-url", "", "Skills repo URL (defaults: config, .gitmodules, SKILLS_REPO_URL, built-in)")
	cmd.Flags().String("branch", "", "Skills repo branch (default: main)")
	cmd.Flags().Bool("stage", false, "Stage project file changes (git add)")
	cmd.Flags().BoolP("yes", "y", false, "Do not ask before removing installed skills")
}

func repoOptions(cmd *cobra.Command) reconcile.Options {
	url, _ := cmd.Flags().GetString("repo-url")
	branch, _ := cmd.Flags().GetString("branch")
	stage, _ := cmd.Flags().GetBool("stage")
	return reconcile.Options{RepoURL: url, Branch: branch, Stage: stage}
}

// needsConfirmation reports whether the operator must approve plan before
// it is applied.
func needsConfirmation(plan *reconcile.Plan, yes, interactive bool) bool {
	return len(plan.Removed) > 0 && !yes && interactive
}

// runMutation plans op, confirms removals on a terminal, and applies it.
// It returns nil result when the operator declines.
func runMutation(cmd *cobra.Command, op reconcile.Op, ids []string) (*reconcile.Plan, *reconcile.Result, error) {
	ctx := cmd.Context()
	s, err := newSession(ctx, true)
	if err != nil {
		return nil, nil, err
	}

	plan, err := s.engine.Plan(op, ids)
	if err != nil {
		return nil, nil, err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if needsConfirmation(plan, yes, isTerminal(os.Stdin) && isTerminal(cmd.OutOrStdout())) {
		ok, err := confirmDeselect(string(op), plan.Removed)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted; selection unchanged.")
			return plan, nil, nil
		}
	}

	res, err := s.engine.Run(ctx, plan, repoOptions(cmd))
	if err != nil {
		return nil, nil, err
	}
	return plan, res, nil
}

// reportStaged lists staged artifacts after a successful --stage run.
func reportStaged(w io.Writer, res *reconcile.Result) {
	if len(res.Staged) == 0 {
		return
	}
	st := newStyles(w)
	for _, p := range res.Staged {
		fmt.Fprintf(w, "  %s %s\n", st.dim.Render("staged"), p)
	}
}

func okLine(w io.Writer, format string, args ...any) {
	st := newStyles(w)
	fmt.Fprintf(w, "%s %s\n", st.ok.Render("[OK]"), fmt.Sprintf(format, args...))
}
