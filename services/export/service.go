package export

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gamescrape/lib/workspace"
	"gamescrape/services/scraper/sources"

	"go.opentelemetry.io/otel"
	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("services/export")

// Formats lists the supported export formats, in the order usage text shows
// them.
var Formats = []string{"json", "csv", "sql"}

func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

type Service struct {
	layout workspace.Layout
}

func NewService(layout workspace.Layout) Service {
	return Service{layout: layout}
}

// Run reads the games database and writes output/export.<format>. The
// database missing or empty is an error: there is nothing to export until a
// scrape has run.
func (s Service) Run(ctx context.Context, format string) (string, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	if !ValidFormat(format) {
		return "", fmt.Errorf("unknown format %q, expected one of: %s", format, strings.Join(Formats, ", "))
	}

	if _, err := os.Stat(s.layout.Database()); os.IsNotExist(err) {
		return "", fmt.Errorf("no games database at %s, run a scrape first", s.layout.Database())
	}

	games, err := s.readGames(ctx)
	if err != nil {
		return "", err
	}
	if len(games) == 0 {
		return "", fmt.Errorf("games database is empty, run a scrape first")
	}

	dest := filepath.Join(s.layout.Output(), "export."+format)
	switch format {
	case "json":
		err = writeJson(dest, games)
	case "csv":
		err = writeCsv(dest, games)
	case "sql":
		err = writeSql(dest, games)
	}
	if err != nil {
		return "", err
	}
	return dest, nil
}

func (s Service) readGames(ctx context.Context) ([]sources.Game, error) {
	sqlite, err := sql.Open("sqlite", s.layout.Database())
	if err != nil {
		return nil, err
	}
	defer sqlite.Close()

	rows, err := sqlite.QueryContext(ctx, `
		SELECT url, name, source, embed_url, image_url, description, category, tags, date_scraped
		FROM games ORDER BY source, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []sources.Game
	for rows.Next() {
		var game sources.Game
		var tags string
		err := rows.Scan(
			&game.Url,
			&game.Name,
			&game.Source,
			&game.EmbedUrl,
			&game.ImageUrl,
			&game.Description,
			&game.Category,
			&tags,
			&game.DateScraped,
		)
		if err != nil {
			return nil, err
		}
		if tags != "" {
			game.Tags = strings.Split(tags, ",")
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func writeJson(dest string, games []sources.Game) error {
	contents, err := json.MarshalIndent(games, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(dest, contents, 0666)
}

func writeCsv(dest string, games []sources.Game) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"name", "url", "source", "has_embed"}); err != nil {
		return err
	}
	for _, game := range games {
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

func writeSql(dest string, games []sources.Game) error {
	var out strings.Builder
	out.WriteString(`CREATE TABLE IF NOT EXISTS games (
    url TEXT NOT NULL PRIMARY KEY,
    name TEXT NOT NULL,
    source TEXT NOT NULL,
    embed_url TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '',
    date_scraped TEXT NOT NULL
);
`)
	for _, game := range games {
		fmt.Fprintf(
			&out,
			"INSERT INTO games VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s);\n",
			quoteSql(game.Url),
			quoteSql(game.Name),
			quoteSql(game.Source),
			quoteSql(game.EmbedUrl),
			quoteSql(game.ImageUrl),
			quoteSql(game.Description),
			quoteSql(game.Category),
			quoteSql(strings.Join(game.Tags, ",")),
			quoteSql(game.DateScraped),
		)
	}
	return os.WriteFile(dest, []byte(out.String()), 0666)
}

func quoteSql(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
