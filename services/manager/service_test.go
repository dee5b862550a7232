package manager

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"gamescrape/lib/launcher"
	"gamescrape/lib/workspace"

	"github.com/stretchr/testify/require"
)

type fakeLauncher struct {
	calls []launcher.Command
	err   error
}

func (f *fakeLauncher) Run(ctx context.Context, cmd launcher.Command) error {
	f.calls = append(f.calls, cmd)
	return f.err
}

// exitError produces a real *exec.ExitError carrying the given status so
// exit code forwarding can be tested end to end.
func exitError(t *testing.T, code int) error {
	t.Helper()
	err := exec.Command("sh", "-c", "exit "+strconv.Itoa(code)).Run()
	require.Error(t, err)
	return err
}

func setupService(t *testing.T) (Service, *fakeLauncher, *bytes.Buffer) {
	t.Helper()
	fake := &fakeLauncher{}
	out := &bytes.Buffer{}
	svc := Service{
		Launcher: fake,
		Layout:   workspace.Layout{Root: t.TempDir()},
		Out:      out,
	}
	return svc, fake, out
}

func TestExportForwardsFormatAndExitCode(t *testing.T) {
	svc, fake, _ := setupService(t)

	code := svc.Export(context.Background(), "csv")
	require.Equal(t, 0, code)
	require.Len(t, fake.calls, 1)
	require.Equal(t, []string{"csv"}, fake.calls[0].Args)

	fake.err = exitError(t, 3)
	code = svc.Export(context.Background(), "csv")
	require.Equal(t, 3, code)
}

func TestStartPropagatesChildExit(t *testing.T) {
	svc, fake, _ := setupService(t)

	require.Equal(t, 0, svc.Start(context.Background()))
	require.Len(t, fake.calls, 1)

	fake.err = exitError(t, 2)
	require.Equal(t, 2, svc.Start(context.Background()))
}

func TestTorUnknownActionSkipsServiceManager(t *testing.T) {
	svc, fake, out := setupService(t)

	code := svc.Tor(context.Background(), "badaction")
	require.Equal(t, 0, code)
	require.Empty(t, fake.calls)
	require.Contains(t, out.String(), TorUsage)
}

func TestTorForwardsKnownActions(t *testing.T) {
	svc, fake, _ := setupService(t)

	code := svc.Tor(context.Background(), "restart")
	require.Equal(t, 0, code)
	require.Len(t, fake.calls, 1)
	require.Equal(t, "systemctl", fake.calls[0].Name)
	require.Equal(t, []string{"restart", "tor"}, fake.calls[0].Args)
}

func TestCleanEmptyWorkspace(t *testing.T) {
	svc, _, out := setupService(t)

	code := svc.Clean(context.Background())
	require.Equal(t, 0, code)
	require.Contains(t, out.String(), "removed 0")
}

func TestCleanRemovesGeneratedFiles(t *testing.T) {
	svc, _, _ := setupService(t)
	require.NoError(t, os.MkdirAll(svc.Layout.Output(), 0777))
	require.NoError(t, os.MkdirAll(svc.Layout.Logs(), 0777))
	require.NoError(t, os.WriteFile(svc.Layout.Stats(), []byte("{}"), 0666))
	require.NoError(t, os.WriteFile(svc.Layout.Summary(), []byte("a,b"), 0666))
	require.NoError(t, os.WriteFile(svc.Layout.Log(), []byte("log"), 0666))
	keep := filepath.Join(svc.Layout.Output(), "games.db")
	require.NoError(t, os.WriteFile(keep, []byte("db"), 0666))

	code := svc.Clean(context.Background())
	require.Equal(t, 0, code)

	require.NoFileExists(t, svc.Layout.Stats())
	require.NoFileExists(t, svc.Layout.Summary())
	require.NoFileExists(t, svc.Layout.Log())
	// the database itself survives cleaning
	require.FileExists(t, keep)
}

func TestCleanThenStats(t *testing.T) {
	svc, _, out := setupService(t)

	require.Equal(t, 0, svc.Clean(context.Background()))
	require.Equal(t, 0, svc.Stats(context.Background()))
	require.Contains(t, out.String(), "no statistics found")
}

func TestStatsRendersSummary(t *testing.T) {
	svc, _, out := setupService(t)
	require.NoError(t, os.MkdirAll(svc.Layout.Output(), 0777))
	record := `{"total_games": 42, "scraped_at": "2024-01-01", "sources": {"siteA": 10, "siteB": 32}}`
	require.NoError(t, os.WriteFile(svc.Layout.Stats(), []byte(record), 0666))

	code := svc.Stats(context.Background())
	require.Equal(t, 0, code)

	rendered := out.String()
	require.Contains(t, rendered, "Total Games: 42")
	require.Contains(t, rendered, "Date: 2024-01-01")
	require.Contains(t, rendered, "siteA")
	require.Contains(t, rendered, "10")
	require.Contains(t, rendered, "siteB")
	require.Contains(t, rendered, "32")
}

func TestStatsMalformedFile(t *testing.T) {
	svc, _, out := setupService(t)
	require.NoError(t, os.MkdirAll(svc.Layout.Output(), 0777))
	require.NoError(t, os.WriteFile(svc.Layout.Stats(), []byte("{not json"), 0666))

	require.Equal(t, 0, svc.Stats(context.Background()))
	require.Contains(t, out.String(), "malformed")
}

func TestWebWithoutArtifact(t *testing.T) {
	svc, fake, out := setupService(t)

	code := svc.Web(context.Background())
	require.Equal(t, 0, code)
	require.Empty(t, fake.calls)
	require.Contains(t, out.String(), svc.Layout.Browser())
}

func TestWebOpensArtifact(t *testing.T) {
	svc, fake, _ := setupService(t)
	require.NoError(t, os.MkdirAll(svc.Layout.Output(), 0777))
	require.NoError(t, os.WriteFile(svc.Layout.Browser(), []byte("<html></html>"), 0666))

	code := svc.Web(context.Background())
	require.Equal(t, 0, code)
	require.Len(t, fake.calls, 1)
	require.Equal(t, []string{svc.Layout.Browser()}, fake.calls[0].Args)
}

func TestSetupBootstrapsWorkspace(t *testing.T) {
	svc, _, _ := setupService(t)

	code := svc.Setup(context.Background())
	require.Equal(t, 0, code)

	require.DirExists(t, svc.Layout.Output())
	require.DirExists(t, svc.Layout.Logs())
	require.DirExists(t, svc.Layout.Data())
	require.FileExists(t, svc.Layout.Config())
	require.FileExists(t, svc.Layout.UserAgents())
	require.FileExists(t, svc.Layout.Database())
}

func TestSetupKeepsExistingConfig(t *testing.T) {
	svc, _, out := setupService(t)

	require.Equal(t, 0, svc.Setup(context.Background()))
	custom := []byte(`{"dedupe_similarity": 0.5}`)
	require.NoError(t, os.WriteFile(svc.Layout.Config(), custom, 0666))

	// no Prompt configured, so the second run must not clobber the config
	require.Equal(t, 0, svc.Setup(context.Background()))
	require.Contains(t, out.String(), "already exists")

	contents, err := os.ReadFile(svc.Layout.Config())
	require.NoError(t, err)
	require.Equal(t, custom, contents)
}

func TestUpdateWarnsOutsideCheckout(t *testing.T) {
	svc, fake, out := setupService(t)

	code := svc.Update(context.Background())
	require.Equal(t, 0, code)
	require.Empty(t, fake.calls)
	require.Contains(t, out.String(), "not a git checkout")
	require.Contains(t, out.String(), "no go.mod")
}

func TestMonitorFollowsAppendedLines(t *testing.T) {
	svc, _, out := setupService(t)
	require.NoError(t, os.MkdirAll(svc.Layout.Logs(), 0777))
	require.NoError(t, os.WriteFile(svc.Layout.Log(), []byte("old line\n"), 0666))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int)
	go func() {
		done <- svc.Monitor(ctx)
	}()

	// give the follower time to seek past the backlog, then append
	time.Sleep(tailPollInterval * 3)
	f, err := os.OpenFile(svc.Layout.Log(), os.O_APPEND|os.O_WRONLY, 0666)
	require.NoError(t, err)
	_, err = f.WriteString("new line\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	time.Sleep(tailPollInterval * 3)
	cancel()
	require.Equal(t, 0, <-done)

	require.Contains(t, out.String(), "new line")
	require.NotContains(t, out.String(), "old line")
}
