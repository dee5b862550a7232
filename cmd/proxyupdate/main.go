package main

import (
	"context"
	"log/slog"
	"os"

	"gamescrape/lib/configutil"
	"gamescrape/lib/osutil"
	"gamescrape/lib/serviceutil"
	"gamescrape/lib/telemetry"
	"gamescrape/lib/workspace"
	"gamescrape/services/proxyupdate"

	"github.com/joho/godotenv"
)

type fileConfig struct {
	ProxyUpdate proxyupdate.Config `json:"proxy_update"`
}

func main() {
	godotenv.Load()
	telemetry.InitSlog(false)

	layout, err := workspace.Discover()
	if err != nil {
		serviceutil.Fatal("failed to locate workspace", err)
	}

	ctx := osutil.SignalContext()
	tel, err := telemetry.SetupFromEnv(ctx, "proxyupdate")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())

	cfg, err := configutil.ReadConfig[fileConfig](layout.Config())
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}
	if len(cfg.ProxyUpdate.Sources) == 0 {
		cfg.ProxyUpdate = proxyupdate.DefaultConfig()
	}

	svc := proxyupdate.NewService(layout, cfg.ProxyUpdate)
	if err := svc.Run(ctx); err != nil {
		serviceutil.Fatal("proxy update failed", err)
	}
	slog.Info("proxy list updated", "file", layout.Proxies())
}
