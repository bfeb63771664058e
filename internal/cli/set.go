package cli

import (
	"github.com/andywolf/skillsctl/internal/reconcile"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set [id]...",
	Short: "Replace the selection with exactly the given skills",
	Long: `Replace the manifest selection with the given skill ids.
With no ids the selection is cleared and only the catalog stays checked out.`,
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
	addRepoFlags(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	_, res, err := runMutation(cmd, reconcile.OpSet, args)
	if err != nil || res == nil {
		return err
	}
	w := cmd.OutOrStdout()
	okLine(w, "Set selection to %d skill(s).", len(res.IDs))
	reportStaged(w, res)
	return nil
}
