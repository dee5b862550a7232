package scraper

import (
	"fmt"

	"gamescrape/services/scraper/sources"

	"github.com/go-resty/resty/v2"
)

// clientFactory hands every source its own http client so per-source cookie
// jars and proxies don't bleed into each other.
type clientFactory func() *resty.Client

func buildSource(client clientFactory, sc SourceConfig) (sources.Source, error) {
	switch sc.Type {
	case "portal":
		return sources.NewPortal(client(), sources.PortalOptions{
			Name:           sc.Name,
			BaseUrl:        sc.Url,
			GamePathPrefix: sc.GamePathPrefix,
			FetchEmbeds:    sc.FetchEmbeds,
			MaxGames:       sc.MaxGames,
		})
	case "api":
		return sources.NewApi(client(), sources.ApiOptions{
			Name:             sc.Name,
			ApiUrl:           sc.ApiUrl,
			Pages:            sc.Pages,
			ListKey:          sc.ListKey,
			NameField:        sc.NameField,
			UrlField:         sc.UrlField,
			EmbedField:       sc.EmbedField,
			ImageField:       sc.ImageField,
			DescriptionField: sc.DescriptionField,
			CategoryField:    sc.CategoryField,
			BaseUrl:          sc.Url,
			MaxGames:         sc.MaxGames,
		})
	case "rss":
		return sources.NewRss(client(), sources.RssOptions{
			Name:     sc.Name,
			FeedUrl:  sc.FeedUrl,
			Category: sc.Category,
			MaxGames: sc.MaxGames,
		}), nil
	}
	return nil, fmt.Errorf("source %s: unknown type %q", sc.Name, sc.Type)
}
