package scraper

import "gamescrape/services/scraper/sources"

type ScrapingConfig struct {
	MaxWorkers            int   `json:"max_workers"`
	RequestTimeoutSeconds int   `json:"request_timeout_seconds"`
	SourceTimeoutMinutes  int   `json:"source_timeout_minutes"`
	DelayRangeMs          []int `json:"delay_range_ms"`
	UseTor                bool  `json:"use_tor"`
	UseProxies            bool  `json:"use_proxies"`
}

type SourceConfig struct {
	Name    string `json:"name"`
	Enabled *bool  `json:"enabled"`
	// Type is one of "portal", "api", "rss".
	Type     string `json:"type"`
	Url      string `json:"url"`
	MaxGames int    `json:"max_games"`

	// portal
	GamePathPrefix string `json:"game_path_prefix"`
	FetchEmbeds    bool   `json:"fetch_embeds"`

	// api
	ApiUrl           string `json:"api_url"`
	Pages            int    `json:"pages"`
	ListKey          string `json:"list_key"`
	NameField        string `json:"name_field"`
	UrlField         string `json:"url_field"`
	EmbedField       string `json:"embed_field"`
	ImageField       string `json:"image_field"`
	DescriptionField string `json:"description_field"`
	CategoryField    string `json:"category_field"`

	// rss
	FeedUrl  string `json:"feed_url"`
	Category string `json:"category"`
}

func (c SourceConfig) enabled() bool {
	return c.Enabled == nil || *c.Enabled
}

type ReportConfig struct {
	Smtp struct {
		Server       string `json:"server"`
		Port         int    `json:"port"`
		EmailAddress string `json:"email_address"`
		Password     string `json:"password"`
	} `json:"smtp"`
	To []string `json:"to"`
}

type Config struct {
	Scraping ScrapingConfig `json:"scraping"`
	Sources  []SourceConfig `json:"sources"`
	// DedupeSimilarity is the Jaro-Winkler threshold above which two game
	// names from the same source collapse into one. <= 0 disables the
	// fuzzy pass.
	DedupeSimilarity float64      `json:"dedupe_similarity"`
	Report           ReportConfig `json:"report"`
	// Schedule is a cron spec; empty means scrape once and exit.
	Schedule string `json:"schedule"`
}

// DefaultConfig is what `setup` writes into config.json5 on a fresh
// workspace. Selectors and endpoints are data so operators can retune them
// without recompiling when a site changes.
func DefaultConfig() Config {
	cfg := Config{
		Scraping: ScrapingConfig{
			MaxWorkers:            3,
			RequestTimeoutSeconds: 30,
			SourceTimeoutMinutes:  10,
			DelayRangeMs:          []int{1000, 3000},
		},
		DedupeSimilarity: 0.97,
		Sources: []SourceConfig{
			{
				Name:           "poki",
				Type:           "portal",
				Url:            "https://poki.com",
				GamePathPrefix: "/en/g/",
				MaxGames:       200,
			},
			{
				Name:           "coolmath",
				Type:           "portal",
				Url:            "https://www.coolmathgames.com",
				GamePathPrefix: "/0-",
				MaxGames:       200,
			},
			{
				Name:       "kongregate",
				Type:       "api",
				ApiUrl:     "https://www.kongregate.com/games.json?page={page}",
				Pages:      10,
				ListKey:    "games",
				NameField:  "title",
				UrlField:   "url",
				ImageField: "thumbnail_url",
				Url:        "https://www.kongregate.com",
				MaxGames:   500,
			},
			{
				Name:             "gamepix",
				Type:             "api",
				ApiUrl:           "https://api.gamepix.com/games",
				ListKey:          "items",
				NameField:        "title",
				UrlField:         "url",
				EmbedField:       "embed_url",
				ImageField:       "image",
				DescriptionField: "description",
				CategoryField:    "category",
				Url:              "https://www.gamepix.com",
				MaxGames:         500,
			},
			{
				Name:     "y8",
				Type:     "rss",
				FeedUrl:  "https://www.y8.com/games/rss",
				Category: "arcade",
				MaxGames: 300,
			},
		},
	}
	return cfg
}

func (c Config) buildSources(client clientFactory) ([]sources.Source, error) {
	var out []sources.Source
	for _, sc := range c.Sources {
		if !sc.enabled() {
			continue
		}
		source, err := buildSource(client, sc)
		if err != nil {
			return nil, err
		}
		out = append(out, source)
	}
	return out, nil
}
