package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"gamescrape/lib/configutil"
	"gamescrape/lib/osutil"
	"gamescrape/lib/serviceutil"
	"gamescrape/lib/telemetry"
	"gamescrape/lib/workspace"
	"gamescrape/services/scraper"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	cronSpec := flag.String("cron", "", "re-run the scrape on this cron schedule instead of scraping once")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	godotenv.Load()

	layout, err := workspace.Discover()
	if err != nil {
		serviceutil.Fatal("failed to locate workspace", err)
	}
	err = telemetry.InitSlogWithFile(*verbose, layout.Log())
	if err != nil {
		serviceutil.Fatal("failed to open log file", err)
	}

	ctx := osutil.SignalContext()
	tel, err := telemetry.SetupFromEnv(ctx, "scraper")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	cfg, err := configutil.ReadConfig[scraper.Config](layout.Config())
	if os.IsNotExist(err) {
		slog.Warn("no config found, using defaults", "path", layout.Config())
		cfg = scraper.DefaultConfig()
	} else if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	schedule := cfg.Schedule
	if *cronSpec != "" {
		schedule = *cronSpec
	}

	svc, err := scraper.NewService(layout, cfg)
	if err != nil {
		serviceutil.Fatal("failed to initialize scraper", err)
	}

	run := func() bool {
		results, err := svc.Run(ctx)
		if err != nil {
			slog.Error("scrape failed", "err", err.Error())
			return false
		}
		slog.Info("scrape finished",
			"games", results.Stats.TotalGames,
			"seconds", results.Duration.Seconds(),
		)
		return true
	}

	if schedule == "" {
		if !run() {
			os.Exit(1)
		}
		return
	}

	run()
	cronner := cron.New()
	_, err = cronner.AddFunc(schedule, func() { run() })
	if err != nil {
		serviceutil.Fatal("invalid cron schedule", err)
	}
	slog.Info("scraping on schedule", "cron", schedule)
	cronner.Start()
	<-ctx.Done()
	cronner.Stop()
}
