package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the full scrape in the foreground.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exit(service().Start(cmd.Context()))
	},
}
