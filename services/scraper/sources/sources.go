package sources

import (
	"context"
	"time"
)

// Game is the unit of scraped content. Url doubles as the identity key during
// deduplication.
type Game struct {
	Name        string   `json:"name"`
	Url         string   `json:"url"`
	Source      string   `json:"source"`
	EmbedUrl    string   `json:"embed_url"`
	ImageUrl    string   `json:"image_url"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	DateScraped string   `json:"date_scraped"`
}

func (g Game) HasEmbed() bool {
	return g.EmbedUrl != ""
}

type Source interface {
	Name() string
	Scrape(ctx context.Context) ([]Game, error)
}

func stamp(games []Game, source string) []Game {
	now := time.Now().Format(time.RFC3339)
	for i := range games {
		games[i].Source = source
		if games[i].DateScraped == "" {
			games[i].DateScraped = now
		}
	}
	return games
}
