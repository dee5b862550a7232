package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Bootstrap the workspace: directories, default config, seed data and an empty games database.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exit(service().Setup(cmd.Context()))
	},
}
