package sources

import (
	"context"
	"encoding/xml"
	"fmt"

	"gamescrape/lib/htmlutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

type RssOptions struct {
	Name     string
	FeedUrl  string
	Category string
	MaxGames int
}

// Rss scrapes sites that publish their game catalog as an RSS feed.
type Rss struct {
	opts RssOptions
	http *resty.Client
}

func NewRss(client *resty.Client, opts RssOptions) *Rss {
	return &Rss{opts: opts, http: client}
}

func (r *Rss) Name() string {
	return r.opts.Name
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Enclosure   struct {
		Url string `xml:"url,attr"`
	} `xml:"enclosure"`
}

func (r *Rss) Scrape(ctx context.Context) ([]Game, error) {
	ctx, span := tracer.Start(ctx, "Rss.Scrape")
	defer span.End()

	res, err := r.http.R().SetContext(ctx).Get(r.opts.FeedUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch feed")
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("%s: feed returned %s", r.opts.Name, res.Status())
	}

	var feed rssFeed
	if err := xml.Unmarshal(res.Body(), &feed); err != nil {
		return nil, err
	}

	var games []Game
	for _, item := range feed.Channel.Items {
		if r.opts.MaxGames > 0 && len(games) >= r.opts.MaxGames {
			break
		}
		name := htmlutil.CleanText(item.Title)
		if name == "" || item.Link == "" {
			continue
		}
		games = append(games, Game{
			Name:        name,
			Url:         item.Link,
			ImageUrl:    item.Enclosure.Url,
			Description: htmlutil.CleanText(item.Description),
			Category:    r.opts.Category,
		})
	}

	return stamp(games, r.opts.Name), nil
}
