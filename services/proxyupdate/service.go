package proxyupdate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gamescrape/lib/proxies"
	"gamescrape/lib/workspace"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/proxyupdate")

type SourceConfig struct {
	Url string `json:"url"`
	// Scheme prefixes bare host:port lines, e.g. "http", "socks5".
	Scheme string `json:"scheme"`
}

type Config struct {
	Sources []SourceConfig `json:"sources"`
	// TestUrl is fetched through each candidate to decide if it works.
	TestUrl string `json:"test_url"`
	// MaxTested caps how many candidates get probed; free lists run into
	// the thousands and probing all of them takes too long.
	MaxTested          int `json:"max_tested"`
	FetchWorkers       int `json:"fetch_workers"`
	TestWorkers        int `json:"test_workers"`
	TestTimeoutSeconds int `json:"test_timeout_seconds"`
}

func DefaultConfig() Config {
	return Config{
		Sources: []SourceConfig{
			{Url: "https://api.proxyscrape.com/v2/?request=getproxies&protocol=http&timeout=10000&country=all&ssl=all&anonymity=all", Scheme: "http"},
			{Url: "https://www.proxy-list.download/api/v1/get?type=http", Scheme: "http"},
			{Url: "https://raw.githubusercontent.com/TheSpeedX/PROXY-List/master/http.txt", Scheme: "http"},
			{Url: "https://api.proxyscrape.com/v2/?request=getproxies&protocol=socks4&timeout=10000&country=all", Scheme: "socks4"},
			{Url: "https://api.proxyscrape.com/v2/?request=getproxies&protocol=socks5&timeout=10000&country=all", Scheme: "socks5"},
			{Url: "https://raw.githubusercontent.com/TheSpeedX/PROXY-List/master/socks4.txt", Scheme: "socks4"},
			{Url: "https://raw.githubusercontent.com/TheSpeedX/PROXY-List/master/socks5.txt", Scheme: "socks5"},
		},
		TestUrl:            "http://httpbin.org/ip",
		MaxTested:          100,
		FetchWorkers:       10,
		TestWorkers:        20,
		TestTimeoutSeconds: 5,
	}
}

type Service struct {
	layout workspace.Layout
	config Config
	http   *resty.Client
}

func NewService(layout workspace.Layout, config Config) Service {
	client := resty.New()
	client.SetTimeout(time.Second * 10)
	return Service{layout: layout, config: config, http: client}
}

// Run refreshes data/proxies.txt with proxies that pass a probe, and
// data/all_proxies.txt with everything found. It fails only when no source
// was reachable or the files cannot be written.
func (s Service) Run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	all := s.fetchAll(ctx)
	if len(all) == 0 {
		err := fmt.Errorf("no proxies found from %d sources", len(s.config.Sources))
		span.RecordError(err)
		span.SetStatus(codes.Error, "no proxies found")
		return err
	}
	slog.Info("found unique proxies", "count", len(all))

	sample := all
	if s.config.MaxTested > 0 && len(sample) > s.config.MaxTested {
		sample = sample[:s.config.MaxTested]
	}
	working := s.testAll(ctx, sample)
	slog.Info("probe finished", "working", len(working), "tested", len(sample))

	if err := os.MkdirAll(s.layout.Data(), 0777); err != nil {
		return err
	}
	if err := writeList(s.layout.Proxies(), "working", working); err != nil {
		return err
	}
	return writeList(s.layout.AllProxies(), "all", all)
}

func (s Service) fetchAll(ctx context.Context) []string {
	ctx, span := tracer.Start(ctx, "fetchAll")
	defer span.End()

	workers := s.config.FetchWorkers
	if workers < 1 {
		workers = 1
	}
	queue := make(chan SourceConfig)
	var mu sync.Mutex
	set := map[string]bool{}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for source := range queue {
				list, err := s.fetchSource(ctx, source)
				if err != nil {
					slog.Warn("proxy source failed", "url", source.Url, "err", err.Error())
					continue
				}
				mu.Lock()
				for _, proxy := range list {
					set[proxy] = true
				}
				mu.Unlock()
			}
		}()
	}
	for _, source := range s.config.Sources {
		queue <- source
	}
	close(queue)
	wg.Wait()

	all := make([]string, 0, len(set))
	for proxy := range set {
		all = append(all, proxy)
	}
	sort.Strings(all)
	return all
}

func (s Service) fetchSource(ctx context.Context, source SourceConfig) ([]string, error) {
	res, err := s.http.R().SetContext(ctx).Get(source.Url)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("source returned %s", res.Status())
	}

	var list []string
	for _, line := range strings.Split(res.String(), "\n") {
		proxy, ok := proxies.Normalize(line, source.Scheme)
		if !ok {
			continue
		}
		list = append(list, proxy)
	}
	return list, nil
}

func (s Service) testAll(ctx context.Context, candidates []string) []string {
	ctx, span := tracer.Start(ctx, "testAll")
	defer span.End()

	workers := s.config.TestWorkers
	if workers < 1 {
		workers = 1
	}
	timeout := time.Duration(s.config.TestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Second * 5
	}

	queue := make(chan string)
	var mu sync.Mutex
	var working []string

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for proxy := range queue {
				if !s.testProxy(ctx, proxy, timeout) {
					continue
				}
				slog.Debug("working proxy", "proxy", proxy)
				mu.Lock()
				working = append(working, proxy)
				mu.Unlock()
			}
		}()
	}
	for _, proxy := range candidates {
		queue <- proxy
	}
	close(queue)
	wg.Wait()

	sort.Strings(working)
	return working
}

func (s Service) testProxy(ctx context.Context, proxy string, timeout time.Duration) bool {
	proxyUrl, err := url.Parse(proxy)
	if err != nil {
		return false
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.GetClient().Transport = &http.Transport{Proxy: http.ProxyURL(proxyUrl)}

	res, err := client.R().SetContext(ctx).Get(s.config.TestUrl)
	return err == nil && res.IsSuccess()
}

func writeList(path, kind string, list []string) error {
	var contents strings.Builder
	fmt.Fprintf(&contents, "# Updated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&contents, "# Total %s proxies: %d\n\n", kind, len(list))
	for _, proxy := range list {
		contents.WriteString(proxy)
		contents.WriteString("\n")
	}
	return os.WriteFile(path, []byte(contents.String()), 0666)
}
