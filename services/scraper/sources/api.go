package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

type ApiOptions struct {
	Name string
	// ApiUrl may contain a `{page}` placeholder; Pages controls how many
	// times it gets expanded (1-indexed).
	ApiUrl string
	Pages  int
	// ListKey is the top level object key holding the game array. Empty
	// means the response body is the array itself.
	ListKey string
	// Field names inside each game object.
	NameField        string
	UrlField         string
	EmbedField       string
	ImageField       string
	DescriptionField string
	CategoryField    string
	// BaseUrl resolves relative game urls.
	BaseUrl  string
	MaxGames int
}

// Api scrapes sites that expose their catalog as a JSON endpoint, which is
// both faster and less brittle than parsing their markup.
type Api struct {
	opts ApiOptions
	http *resty.Client
	base *url.URL
}

func NewApi(client *resty.Client, opts ApiOptions) (*Api, error) {
	var base *url.URL
	if opts.BaseUrl != "" {
		var err error
		base, err = url.Parse(opts.BaseUrl)
		if err != nil {
			return nil, fmt.Errorf("api %s: %w", opts.Name, err)
		}
	}
	return &Api{opts: opts, http: client, base: base}, nil
}

func (a *Api) Name() string {
	return a.opts.Name
}

func (a *Api) Scrape(ctx context.Context) ([]Game, error) {
	ctx, span := tracer.Start(ctx, "Api.Scrape")
	defer span.End()

	pages := a.opts.Pages
	if pages < 1 || !strings.Contains(a.opts.ApiUrl, "{page}") {
		pages = 1
	}

	var games []Game
	for page := 1; page <= pages; page++ {
		if a.opts.MaxGames > 0 && len(games) >= a.opts.MaxGames {
			break
		}
		pageUrl := strings.ReplaceAll(a.opts.ApiUrl, "{page}", fmt.Sprint(page))
		batch, err := a.scrapePage(ctx, pageUrl)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch api page")
			if page == 1 {
				return nil, err
			}
			// later pages failing just truncates the catalog
			break
		}
		if len(batch) == 0 {
			break
		}
		games = append(games, batch...)
	}

	if a.opts.MaxGames > 0 && len(games) > a.opts.MaxGames {
		games = games[:a.opts.MaxGames]
	}
	return stamp(games, a.opts.Name), nil
}

func (a *Api) scrapePage(ctx context.Context, pageUrl string) ([]Game, error) {
	res, err := a.http.R().SetContext(ctx).Get(pageUrl)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("%s: api returned %s", a.opts.Name, res.Status())
	}

	var items []map[string]any
	if a.opts.ListKey == "" {
		if err := json.Unmarshal(res.Body(), &items); err != nil {
			return nil, err
		}
	} else {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(res.Body(), &wrapper); err != nil {
			return nil, err
		}
		raw, ok := wrapper[a.opts.ListKey]
		if !ok {
			return nil, fmt.Errorf("%s: response has no %q key", a.opts.Name, a.opts.ListKey)
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
	}

	var games []Game
	for _, item := range items {
		game := Game{
			Name:        stringField(item, a.opts.NameField),
			Url:         a.resolve(stringField(item, a.opts.UrlField)),
			EmbedUrl:    a.resolve(stringField(item, a.opts.EmbedField)),
			ImageUrl:    a.resolve(stringField(item, a.opts.ImageField)),
			Description: stringField(item, a.opts.DescriptionField),
			Category:    stringField(item, a.opts.CategoryField),
		}
		if game.Name == "" || game.Url == "" {
			continue
		}
		games = append(games, game)
	}
	return games, nil
}

func (a *Api) resolve(link string) string {
	if link == "" || a.base == nil {
		return link
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return a.base.ResolveReference(parsed).String()
}

func stringField(item map[string]any, field string) string {
	if field == "" {
		return ""
	}
	value, ok := item[field]
	if !ok {
		return ""
	}
	str, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(str)
}
