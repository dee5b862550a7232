package scraper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gamescrape/lib/proxies"
	"gamescrape/lib/workspace"
	"gamescrape/services/scraper/sources"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/scraper")

// Stats is the statistics record other tools read back from stats.json. The
// key names are a stable contract.
type Stats struct {
	TotalGames int            `json:"total_games"`
	ScrapedAt  string         `json:"scraped_at"`
	Sources    map[string]int `json:"sources"`
}

type Results struct {
	Games    []sources.Game
	Stats    Stats
	Duration time.Duration
}

type Service struct {
	layout  workspace.Layout
	config  Config
	sources []sources.Source
}

func NewService(layout workspace.Layout, config Config) (Service, error) {
	pool, err := proxies.Load(layout.Proxies())
	if err != nil {
		return Service{}, err
	}
	if !config.Scraping.UseProxies {
		pool = &proxies.Pool{}
	}

	opts := sources.ClientOptions{
		Timeout: time.Duration(config.Scraping.RequestTimeoutSeconds) * time.Second,
		Proxies: pool,
		UseTor:  config.Scraping.UseTor,
	}
	if len(config.Scraping.DelayRangeMs) == 2 {
		opts.DelayMin = time.Duration(config.Scraping.DelayRangeMs[0]) * time.Millisecond
		opts.DelayMax = time.Duration(config.Scraping.DelayRangeMs[1]) * time.Millisecond
	}
	factory := func() *resty.Client {
		return sources.NewClient(opts)
	}

	srcs, err := config.buildSources(factory)
	if err != nil {
		return Service{}, err
	}

	return Service{
		layout:  layout,
		config:  config,
		sources: srcs,
	}, nil
}

// Run scrapes every enabled source on a bounded worker pool, deduplicates
// the union and persists all artifacts under the workspace layout.
func (s Service) Run(ctx context.Context) (Results, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	start := time.Now()
	games, stats := s.scrapeAll(ctx)

	before := len(games)
	games = Deduplicate(games, s.config.DedupeSimilarity)
	slog.Info("deduplicated games", "removed", before-len(games), "kept", len(games))

	results := Results{
		Games: games,
		Stats: Stats{
			TotalGames: len(games),
			ScrapedAt:  time.Now().Format(time.RFC3339),
			Sources:    stats,
		},
		Duration: time.Since(start),
	}

	if err := s.save(ctx, results); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist results")
		return results, err
	}

	s.printStats(results)

	if len(s.config.Report.To) > 0 {
		if err := s.sendReport(ctx, results); err != nil {
			slog.Warn("failed to send report email", "err", err.Error())
		}
	}

	return results, nil
}

func (s Service) scrapeAll(ctx context.Context) ([]sources.Game, map[string]int) {
	ctx, span := tracer.Start(ctx, "scrapeAll")
	defer span.End()

	workers := s.config.Scraping.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	sourceTimeout := time.Duration(s.config.Scraping.SourceTimeoutMinutes) * time.Minute
	if sourceTimeout <= 0 {
		sourceTimeout = time.Minute * 10
	}

	queue := make(chan sources.Source)
	var mu sync.Mutex
	var all []sources.Game
	stats := map[string]int{}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for source := range queue {
				games := s.scrapeOne(ctx, source, sourceTimeout)

				mu.Lock()
				all = append(all, games...)
				stats[source.Name()] = len(games)
				mu.Unlock()
			}
		}()
	}

	for _, source := range s.sources {
		queue <- source
	}
	close(queue)
	wg.Wait()

	return all, stats
}

func (s Service) scrapeOne(ctx context.Context, source sources.Source, timeout time.Duration) []sources.Game {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "scrapeOne")
	span.SetAttributes(attribute.String("source", source.Name()))
	defer span.End()

	slog.Info("scraping source", "source", source.Name())
	games, err := source.Scrape(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "source failed")
		slog.Error("source failed", "source", source.Name(), "err", err.Error())
		return nil
	}

	slog.Info("source done", "source", source.Name(), "games", len(games))
	return games
}
