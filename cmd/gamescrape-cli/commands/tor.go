package commands

import (
	"fmt"

	"gamescrape/services/manager"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(torCmd)
}

var torCmd = &cobra.Command{
	Use:   "tor {start|stop|restart|status}",
	Short: "Control the anonymizing relay service.",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Fprintln(cmd.OutOrStdout(), manager.TorUsage)
			return
		}
		exit(service().Tor(cmd.Context(), args[0]))
	},
}
