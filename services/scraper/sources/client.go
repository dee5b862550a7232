package sources

import (
	"net/http/cookiejar"
	"time"

	"gamescrape/lib/proxies"
	"gamescrape/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
)

type ClientOptions struct {
	// Timeout bounds a single request, not a whole source scrape.
	Timeout time.Duration
	// DelayMin/DelayMax bound the randomized pause inserted before each
	// request. Zero values disable the pause.
	DelayMin time.Duration
	DelayMax time.Duration
	// Proxies is consulted per request when non-empty.
	Proxies *proxies.Pool
	// UseTor routes everything through the local relay entrypoint and
	// takes precedence over Proxies.
	UseTor bool
}

// NewClient builds the shared anti-detection http client: cloudflare bypass
// transport, a rotating desktop user agent, optional proxying and a random
// inter-request delay.
func NewClient(opts ClientOptions) *resty.Client {
	client := resty.New()

	jar, err := cookiejar.New(nil)
	if err == nil {
		client.SetCookieJar(jar)
	}
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}
	client.SetTimeout(timeout)
	client.SetHeader("user-agent", browser.Computer())

	if opts.UseTor {
		client.SetProxy(proxies.TorProxy)
	} else if opts.Proxies != nil && opts.Proxies.Len() > 0 {
		client.SetProxy(opts.Proxies.Random())
	}

	client.OnBeforeRequest(func(cli *resty.Client, req *resty.Request) error {
		req.SetHeader("user-agent", browser.Computer())
		sleepJitter(opts.DelayMin, opts.DelayMax)
		return nil
	})

	telemetry.InstrumentResty(client, "scraper/http")
	return client
}

func sleepJitter(min, max time.Duration) {
	if max <= 0 || max < min {
		return
	}
	ms, err := random.IntRange(int(min.Milliseconds()), int(max.Milliseconds())+1)
	if err != nil {
		ms = int(min.Milliseconds())
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}
