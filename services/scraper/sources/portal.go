package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"gamescrape/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scraper/sources")

type PortalOptions struct {
	Name string
	// BaseUrl is the portal landing page games are linked from.
	BaseUrl string
	// GamePathPrefix filters anchors down to game detail pages, e.g.
	// "/en/g/" on poki or "/0-" on coolmath.
	GamePathPrefix string
	// FetchEmbeds visits each game page looking for the playable iframe.
	// Costs one request per game, so sources cap it with MaxGames.
	FetchEmbeds bool
	MaxGames    int
}

// Portal scrapes classic game listing sites: a landing page full of anchors
// to game detail pages, the detail page embedding the game in an iframe.
type Portal struct {
	opts PortalOptions
	http *resty.Client
	base *url.URL
}

func NewPortal(client *resty.Client, opts PortalOptions) (*Portal, error) {
	base, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("portal %s: %w", opts.Name, err)
	}
	return &Portal{opts: opts, http: client, base: base}, nil
}

func (p *Portal) Name() string {
	return p.opts.Name
}

func (p *Portal) Scrape(ctx context.Context) ([]Game, error) {
	ctx, span := tracer.Start(ctx, "Portal.Scrape")
	defer span.End()

	res, err := p.http.R().SetContext(ctx).Get(p.opts.BaseUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch landing page")
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("%s: landing page returned %s", p.opts.Name, res.Status())
		span.RecordError(err)
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, err
	}

	anchors := htmlutil.GetAnchors(ctx, doc.Find("a"))
	seen := map[string]bool{}
	var games []Game
	for _, a := range anchors {
		if p.opts.MaxGames > 0 && len(games) >= p.opts.MaxGames {
			break
		}
		link, ok := p.gameLink(a.Href)
		if !ok || seen[link] {
			continue
		}
		seen[link] = true

		game := Game{
			Name: a.Name,
			Url:  link,
		}
		if game.Name == "" {
			game.Name = nameFromPath(link)
		}
		if game.Name == "" {
			continue
		}
		if p.opts.FetchEmbeds {
			game.EmbedUrl = p.fetchEmbed(ctx, link)
		}
		games = append(games, game)
	}

	return stamp(games, p.opts.Name), nil
}

func (p *Portal) gameLink(href string) (string, bool) {
	link, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := p.base.ResolveReference(link)
	if resolved.Hostname() != p.base.Hostname() {
		return "", false
	}
	if !strings.HasPrefix(resolved.Path, p.opts.GamePathPrefix) {
		return "", false
	}
	if resolved.Path == p.opts.GamePathPrefix {
		return "", false
	}
	resolved.Fragment = ""
	resolved.RawQuery = ""
	return resolved.String(), true
}

func (p *Portal) fetchEmbed(ctx context.Context, gameUrl string) string {
	ctx, span := tracer.Start(ctx, "Portal.fetchEmbed")
	defer span.End()

	res, err := p.http.R().SetContext(ctx).Get(gameUrl)
	if err != nil || res.IsError() {
		if err != nil {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, "failed to fetch game page")
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return ""
	}
	iframes := htmlutil.GetIframeSources(doc, p.base)
	if len(iframes) == 0 {
		return ""
	}
	return iframes[0]
}

func nameFromPath(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	last := segments[len(segments)-1]
	last = strings.NewReplacer("-", " ", "_", " ").Replace(last)
	return htmlutil.CleanText(last)
}
