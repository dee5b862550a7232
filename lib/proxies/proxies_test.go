package proxies

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	for _, tc := range []struct {
		line   string
		scheme string
		want   string
		ok     bool
	}{
		{"1.2.3.4:8080", "http", "http://1.2.3.4:8080", true},
		{"  1.2.3.4:1080  ", "socks5", "socks5://1.2.3.4:1080", true},
		{"socks5://127.0.0.1:9050", "http", "socks5://127.0.0.1:9050", true},
		{"# comment", "http", "", false},
		{"", "http", "", false},
		{"no-port", "http", "", false},
	} {
		got, ok := Normalize(tc.line, tc.scheme)
		require.Equal(t, tc.ok, ok, "line %q", tc.line)
		require.Equal(t, tc.want, got, "line %q", tc.line)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxies.txt")
	contents := `# Updated: 2024-01-01
# Total working proxies: 2

http://1.2.3.4:8080
5.6.7.8:3128
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0666))

	pool, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, pool.Len())

	proxy := pool.Random()
	require.Contains(t, []string{"http://1.2.3.4:8080", "http://5.6.7.8:3128"}, proxy)
}

func TestLoadMissingFile(t *testing.T) {
	pool, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	require.Equal(t, 0, pool.Len())
	require.Equal(t, "", pool.Random())
}
