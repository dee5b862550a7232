package scraper

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"testing"
	"time"

	"gamescrape/lib/testutil"
	"gamescrape/lib/workspace"
	"gamescrape/services/scraper/db"
	"gamescrape/services/scraper/sources"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func testResults() Results {
	return Results{
		Games: []sources.Game{
			{
				Name:        "Moto X3M",
				Url:         "https://a.example.com/moto",
				Source:      "a",
				EmbedUrl:    "https://a.example.com/embed/moto",
				Tags:        []string{"bike", "racing"},
				DateScraped: "2024-01-01T00:00:00Z",
			},
			{
				Name:        "Slope",
				Url:         "https://b.example.com/slope",
				Source:      "b",
				DateScraped: "2024-01-01T00:00:00Z",
			},
		},
		Stats: Stats{
			TotalGames: 2,
			ScrapedAt:  "2024-01-01T00:00:00Z",
			Sources:    map[string]int{"a": 1, "b": 1},
		},
		Duration: time.Second,
	}
}

func TestSaveWritesAllArtifacts(t *testing.T) {
	layout := workspace.Layout{Root: t.TempDir()}
	service := Service{layout: layout, config: DefaultConfig()}

	require.NoError(t, service.save(context.Background(), testResults()))

	for _, path := range []string{
		layout.Collection(),
		layout.Summary(),
		layout.Database(),
		layout.Stats(),
		layout.Browser(),
	} {
		_, err := os.Stat(path)
		require.NoError(t, err, path)
	}

	contents, err := os.ReadFile(layout.Collection())
	require.NoError(t, err)

	var saved collection
	require.NoError(t, json.Unmarshal(contents, &saved))
	require.Equal(t, 2, saved.Metadata.TotalGames)
	require.Len(t, saved.Games, 2)
}

func TestUpsertGamesRecordsRun(t *testing.T) {
	setup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "scraper",
		DbSchema: db.Schema,
	})
	ctx := context.Background()

	require.NoError(t, UpsertGames(ctx, setup.DB, testResults()))

	var count, total int
	require.NoError(t, setup.DB.QueryRow("SELECT COUNT(*) FROM games").Scan(&count))
	require.Equal(t, 2, count)
	require.NoError(t, setup.DB.QueryRow("SELECT total_games FROM scrape_runs").Scan(&total))
	require.Equal(t, 2, total)
}

func TestSaveUpsertsExistingRows(t *testing.T) {
	layout := workspace.Layout{Root: t.TempDir()}
	service := Service{layout: layout, config: DefaultConfig()}
	ctx := context.Background()

	require.NoError(t, service.save(ctx, testResults()))

	updated := testResults()
	updated.Games[0].Name = "Moto X3M Winter"
	require.NoError(t, service.save(ctx, updated))

	sqlite, err := sql.Open("sqlite", layout.Database())
	require.NoError(t, err)
	defer sqlite.Close()

	var count int
	require.NoError(t, sqlite.QueryRow("SELECT COUNT(*) FROM games").Scan(&count))
	require.Equal(t, 2, count)

	var name, tags string
	require.NoError(t, sqlite.QueryRow(
		"SELECT name, tags FROM games WHERE url = ?",
		"https://a.example.com/moto",
	).Scan(&name, &tags))
	require.Equal(t, "Moto X3M Winter", name)
	require.Equal(t, "bike,racing", tags)

	var runs int
	require.NoError(t, sqlite.QueryRow("SELECT COUNT(*) FROM scrape_runs").Scan(&runs))
	require.Equal(t, 2, runs)
}
