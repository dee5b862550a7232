package commands

import (
	"context"
	"fmt"
	"os"

	"gamescrape/lib/launcher"
	"gamescrape/lib/serviceutil"
	"gamescrape/lib/workspace"
	"gamescrape/services/manager"

	"github.com/spf13/cobra"
	input "github.com/tcnksm/go-input"
)

var rootCmd = &cobra.Command{
	Use:   "gamescrape-cli",
	Short: "gamescrape-cli manages the game scraping workspace and its collaborator processes.",
	// unknown subcommands fall through to here so they print usage and
	// exit 0 instead of failing the calling shell
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "unknown command: %s\n\n", args[0])
		}
		cmd.Help()
	},
}

func service() manager.Service {
	layout, err := workspace.Discover()
	if err != nil {
		serviceutil.Fatal("failed to locate workspace", err)
	}
	return manager.Service{
		Launcher: launcher.ExecLauncher{},
		Layout:   layout,
		Out:      os.Stdout,
		Prompt:   input.DefaultUI(),
	}
}

func exit(code int) {
	if code != 0 {
		os.Exit(code)
	}
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
