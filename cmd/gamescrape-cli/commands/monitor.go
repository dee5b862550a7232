package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(monitorCmd)
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Follow the scraper log until interrupted.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exit(service().Monitor(cmd.Context()))
	},
}
