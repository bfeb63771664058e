package cli

import (
	"fmt"

	"github.com/andywolf/skillsctl/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including commit hash and build date.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		if format != formatText {
			return writeMachine(cmd.OutOrStdout(), format, version.Get())
		}
		if full, _ := cmd.Flags().GetBool("full"); full {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("full", false, "print verbose version information")
	addOutputFlags(versionCmd)
	rootCmd.AddCommand(versionCmd)
}
