package cli

import (
	"github.com/andywolf/skillsctl/internal/reconcile"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <id>...",
	Short: "Add skills to the manifest and update the sparse checkout",
	Example: `  skillsctl install vi-prek
  skillsctl install vi-prek vi-beads --stage`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
	addRepoFlags(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	plan, res, err := runMutation(cmd, reconcile.OpInstall, args)
	if err != nil || res == nil {
		return err
	}
	w := cmd.OutOrStdout()
	okLine(w, "Installed %d skill(s). Selected total: %d.", len(plan.Added), len(res.IDs))
	reportStaged(w, res)
	return nil
}
