package cli

import (
	"github.com/andywolf/skillsctl/internal/reconcile"
	"github.com/spf13/cobra"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Initialize the .codex/skills submodule with a sparse catalog checkout",
	Long: `Register the skills repository as a git submodule at .codex/skills,
check it out with depth 1, write .codex/skills.config.json and an empty
manifest, and narrow the sparse checkout to the catalog.

Running bootstrap again keeps the existing selection and re-applies it.

Example:
  skillsctl bootstrap
  skillsctl bootstrap --repo-url git@github.com:org/skills.git --branch main --stage`,
	Args: cobra.NoArgs,
	RunE: runBootstrap,
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
	addRepoFlags(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	_, res, err := runMutation(cmd, reconcile.OpBootstrap, nil)
	if err != nil || res == nil {
		return err
	}
	w := cmd.OutOrStdout()
	okLine(w, "Bootstrapped .codex/skills (submodule + sparse-checkout catalog).")
	reportStaged(w, res)
	return nil
}
