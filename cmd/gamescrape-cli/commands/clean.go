package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete generated output files and logs. Missing files are not errors.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exit(service().Clean(cmd.Context()))
	},
}
