package cli

import (
	"github.com/andywolf/skillsctl/internal/reconcile"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Re-apply the committed manifest to .codex/skills",
	Long: `Make the submodule and its sparse checkout match .codex/skills.manifest.
Use after cloning a project or when .codex/skills was deleted.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	addRepoFlags(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	_, res, err := runMutation(cmd, reconcile.OpSync, nil)
	if err != nil || res == nil {
		return err
	}
	w := cmd.OutOrStdout()
	okLine(w, "Synced .codex/skills to manifest (%d skill(s)).", len(res.IDs))
	reportStaged(w, res)
	return nil
}
