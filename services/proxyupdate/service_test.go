package proxyupdate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"gamescrape/lib/workspace"

	"github.com/stretchr/testify/require"
)

func TestRunWritesProxyLists(t *testing.T) {
	// The server plays three roles: two proxy list sources, the probe
	// target, and (via transport proxying to itself) the proxy under test.
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	hostPort := strings.TrimPrefix(server.URL, "http://")
	mux.HandleFunc("/list-a", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s\n\n# comment line\n%s\n", hostPort, hostPort)
	})
	mux.HandleFunc("/list-b", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "not-a-proxy\nsocks5://10.0.0.1:1080\n")
	})
	mux.HandleFunc("/ip", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"origin": "127.0.0.1"}`)
	})

	layout := workspace.Layout{Root: t.TempDir()}
	service := NewService(layout, Config{
		Sources: []SourceConfig{
			{Url: server.URL + "/list-a", Scheme: "http"},
			{Url: server.URL + "/list-b", Scheme: "socks5"},
		},
		TestUrl:            server.URL + "/ip",
		MaxTested:          1,
		FetchWorkers:       2,
		TestWorkers:        2,
		TestTimeoutSeconds: 2,
	})

	require.NoError(t, service.Run(context.Background()))

	all, err := os.ReadFile(layout.AllProxies())
	require.NoError(t, err)
	require.Contains(t, string(all), "# Total all proxies: 2")
	require.Contains(t, string(all), "http://"+hostPort)
	require.Contains(t, string(all), "socks5://10.0.0.1:1080")

	working, err := os.ReadFile(layout.Proxies())
	require.NoError(t, err)
	require.Contains(t, string(working), "# Total working proxies: 1")
	require.Contains(t, string(working), "http://"+hostPort)
}

func TestRunFailsWhenNoSourceReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	layout := workspace.Layout{Root: t.TempDir()}
	service := NewService(layout, Config{
		Sources: []SourceConfig{{Url: server.URL, Scheme: "http"}},
		TestUrl: server.URL,
	})

	err := service.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "no proxies found")
}
