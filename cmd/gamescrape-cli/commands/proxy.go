package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(proxyCmd)
}

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Refresh the proxy list from public sources.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exit(service().Proxy(cmd.Context()))
	},
}
