package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export {json|csv|sql}",
	Short: "Export the games database to another format.",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Fprintln(cmd.OutOrStdout(), "usage: gamescrape-cli export {json|csv|sql}")
			return
		}
		exit(service().Export(cmd.Context(), args[0]))
	},
}
