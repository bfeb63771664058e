package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/andywolf/skillsctl/internal/reconcile"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run environment and project checks",
	Long: `Check git, the project layout and the skills selection, and list the
recommended next steps. Output is machine-readable JSON unless --human is
given. Works outside a git repository, where it recommends git init.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().Bool("human", false, "human-readable output")
	doctorCmd.Flags().StringP("output", "o", formatJSON, "machine output format (json, yaml)")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context(), false)
	if err != nil {
		return err
	}
	report := s.engine.Doctor(cmd.Context(), s.gitRepo)

	if human, _ := cmd.Flags().GetBool("human"); human {
		printDoctor(cmd.OutOrStdout(), report)
		return nil
	}
	format, _ := cmd.Flags().GetString("output")
	if format != formatYAML {
		format = formatJSON
	}
	return writeMachine(cmd.OutOrStdout(), format, report)
}

func printDoctor(w io.Writer, r *reconcile.DoctorReport) {
	st := newStyles(w)

	gitVersion := "missing"
	if r.GitVersion != nil {
		gitVersion = *r.GitVersion
	}
	fmt.Fprintf(w, "repo_root: %s\n", r.RepoRoot)
	fmt.Fprintf(w, "git_repo: %t\n", r.GitRepo)
	fmt.Fprintf(w, "git: %s\n", gitVersion)
	fmt.Fprintf(w, "codex skills: %s\n", presence(r.SkillsRegistered))
	if r.SkillsDirty != nil && *r.SkillsDirty {
		fmt.Fprintf(w, "  %s\n", st.warn.Render("dirty: true"))
	}
	fmt.Fprintf(w, "manifest: %s (%d selected)\n", presence(r.ManifestPresent), len(r.ManifestIDs))
	if len(r.SuggestSkills) > 0 {
		fmt.Fprintf(w, "suggested: %s\n", strings.Join(r.SuggestSkills, ", "))
	}
	if len(r.NextSteps) > 0 {
		fmt.Fprintf(w, "next_steps: %s\n", strings.Join(r.NextSteps, ", "))
	}
}
