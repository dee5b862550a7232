package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gamescrape/lib/osutil"
	"gamescrape/lib/serviceutil"
	"gamescrape/lib/telemetry"
	"gamescrape/lib/workspace"
	"gamescrape/services/export"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	telemetry.InitSlog(false)

	if len(os.Args) != 2 || !export.ValidFormat(os.Args[1]) {
		fmt.Fprintf(os.Stderr, "usage: export {%s}\n", strings.Join(export.Formats, "|"))
		os.Exit(2)
	}
	format := os.Args[1]

	layout, err := workspace.Discover()
	if err != nil {
		serviceutil.Fatal("failed to locate workspace", err)
	}

	ctx := osutil.SignalContext()
	tel, err := telemetry.SetupFromEnv(ctx, "export")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())

	dest, err := export.NewService(layout).Run(ctx, format)
	if err != nil {
		serviceutil.Fatal("export failed", err)
	}
	slog.Info("exported games", "file", dest)
}
