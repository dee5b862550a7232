package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLayoutPaths(t *testing.T) {
	l := Layout{Root: "/srv/scrape"}

	require.Equal(t, "/srv/scrape/config.json5", l.Config())
	require.Equal(t, "/srv/scrape/output/stats.json", l.Stats())
	require.Equal(t, "/srv/scrape/output/game_browser.html", l.Browser())
	require.Equal(t, "/srv/scrape/logs/scraper.log", l.Log())
	require.Equal(t, "/srv/scrape/data/proxies.txt", l.Proxies())
}

func TestIsWorkspaceRoot(t *testing.T) {
	dir := t.TempDir()
	require.False(t, isWorkspaceRoot(dir))

	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "go.mod"),
		[]byte("module gamescrape\n\ngo 1.22.2\n"), 0666,
	))
	require.True(t, isWorkspaceRoot(dir))

	other := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(other, "go.mod"),
		[]byte("module something-else\n"), 0666,
	))
	require.False(t, isWorkspaceRoot(other))
}
