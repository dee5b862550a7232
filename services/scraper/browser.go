package scraper

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"os"
)

//go:embed browser.html.tmpl
var browserTemplate string

type browserData struct {
	Stats     Stats
	GamesJson template.JS
}

// writeBrowser renders the static game browser artifact. It is a plain html
// file so `web` can hand it straight to the system viewer without running a
// server.
func (s Service) writeBrowser(results Results) error {
	tmpl, err := template.New("browser").Parse(browserTemplate)
	if err != nil {
		return err
	}

	gamesJson, err := json.Marshal(results.Games)
	if err != nil {
		return err
	}

	f, err := os.Create(s.layout.Browser())
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, browserData{
		Stats:     results.Stats,
		GamesJson: template.JS(gamesJson),
	})
}
