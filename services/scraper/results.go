package scraper

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gamescrape/services/scraper/db"
	"gamescrape/services/scraper/sources"

	"github.com/jedib0t/go-pretty/v6/table"
	_ "modernc.org/sqlite"
)

type collection struct {
	Metadata Stats          `json:"metadata"`
	Games    []sources.Game `json:"games"`
}

func (s Service) save(ctx context.Context, results Results) error {
	ctx, span := tracer.Start(ctx, "save")
	defer span.End()

	if err := os.MkdirAll(s.layout.Output(), 0777); err != nil {
		return err
	}
	if err := s.writeCollection(results); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	if err := s.writeSummary(results); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if err := s.writeDatabase(ctx, results); err != nil {
		return fmt.Errorf("write database: %w", err)
	}
	if err := s.writeStats(results); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	if err := s.writeBrowser(results); err != nil {
		return fmt.Errorf("write browser: %w", err)
	}
	return nil
}

func (s Service) writeCollection(results Results) error {
	contents, err := json.MarshalIndent(collection{
		Metadata: results.Stats,
		Games:    results.Games,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.layout.Collection(), contents, 0666)
}

func (s Service) writeSummary(results Results) error {
	f, err := os.Create(s.layout.Summary())
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"name", "url", "source", "has_embed"}); err != nil {
		return err
	}
	for _, game := range results.Games {
		err := w.Write([]string{
			game.Name,
			game.Url,
			game.Source,
			strconv.FormatBool(game.HasEmbed()),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (s Service) writeStats(results Results) error {
	contents, err := json.MarshalIndent(results.Stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.layout.Stats(), contents, 0666)
}

func (s Service) writeDatabase(ctx context.Context, results Results) error {
	sqlite, err := sql.Open("sqlite", s.layout.Database())
	if err != nil {
		return err
	}
	defer sqlite.Close()

	_, err = sqlite.ExecContext(ctx, db.Schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return err
	}

	return UpsertGames(ctx, sqlite, results)
}

// UpsertGames writes a scrape's games into an open games database, replacing
// rows for urls seen before, and records the run.
func UpsertGames(ctx context.Context, sqlite *sql.DB, results Results) error {
	tx, err := sqlite.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO games (url, name, source, embed_url, image_url, description, category, tags, date_scraped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			name = excluded.name,
			source = excluded.source,
			embed_url = excluded.embed_url,
			image_url = excluded.image_url,
			description = excluded.description,
			category = excluded.category,
			tags = excluded.tags,
			date_scraped = excluded.date_scraped
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, game := range results.Games {
		_, err := stmt.ExecContext(
			ctx,
			game.Url,
			game.Name,
			game.Source,
			game.EmbedUrl,
			game.ImageUrl,
			game.Description,
			game.Category,
			strings.Join(game.Tags, ","),
			game.DateScraped,
		)
		if err != nil {
			return err
		}
	}

	started := results.Stats.ScrapedAt
	if started == "" {
		started = time.Now().Format(time.RFC3339)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO scrape_runs (started_at, finished_at, total_games)
		VALUES (?, ?, ?)
	`, started, time.Now().Format(time.RFC3339), results.Stats.TotalGames)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s Service) printStats(results Results) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"source", "games"})

	names := make([]string, 0, len(results.Stats.Sources))
	for name := range results.Stats.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t.AppendRow(table.Row{name, results.Stats.Sources[name]})
	}
	t.AppendFooter(table.Row{"total (unique)", results.Stats.TotalGames})
	t.Render()

	embeds := 0
	for _, game := range results.Games {
		if game.HasEmbed() {
			embeds++
		}
	}
	fmt.Printf("games with embed code: %d\n", embeds)
	fmt.Printf("scraping time: %.1fs\n", results.Duration.Seconds())
}
