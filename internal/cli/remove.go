package cli

import (
	"github.com/andywolf/skillsctl/internal/reconcile"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id>...",
	Aliases: []string{"rm"},
	Short:   "Remove skills from the manifest and update the sparse checkout",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
	addRepoFlags(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	plan, res, err := runMutation(cmd, reconcile.OpRemove, args)
	if err != nil || res == nil {
		return err
	}
	w := cmd.OutOrStdout()
	okLine(w, "Removed %d skill(s). Selected total: %d.", len(plan.Removed), len(res.IDs))
	reportStaged(w, res)
	return nil
}
