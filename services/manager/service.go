// Package manager implements the command dispatch layer behind the
// gamescrape-cli binary. Each subcommand maps to exactly one handler; every
// handler is stateless, safe to re-invoke in any order and reports through
// its exit status and printed text only.
package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"gamescrape/lib/launcher"
	"gamescrape/lib/workspace"
	"gamescrape/services/proxyupdate"
	"gamescrape/services/scraper"

	"github.com/jedib0t/go-pretty/v6/table"
	input "github.com/tcnksm/go-input"
)

// Binary names of the collaborator processes, resolved next to the manager's
// own executable.
const (
	ScraperBinary     = "scraper"
	ProxyUpdateBinary = "proxyupdate"
	ExportBinary      = "export"
)

type Service struct {
	Launcher launcher.Launcher
	Layout   workspace.Layout
	Out      io.Writer
	// Prompt confirms destructive setup steps. nil skips confirmation and
	// keeps existing files.
	Prompt *input.UI
}

// Start launches the scrape workload in the foreground and forwards its exit
// code unchanged.
func (s Service) Start(ctx context.Context) int {
	err := s.Launcher.Run(ctx, launcher.Command{
		Name: launcher.Sibling(ScraperBinary),
		Dir:  s.Layout.Root,
	})
	return launcher.ExitCode(err)
}

// Proxy launches the proxy-list updater and forwards its exit code.
func (s Service) Proxy(ctx context.Context) int {
	err := s.Launcher.Run(ctx, launcher.Command{
		Name: launcher.Sibling(ProxyUpdateBinary),
		Dir:  s.Layout.Root,
	})
	return launcher.ExitCode(err)
}

// Export launches the export process with the format as its sole argument
// and forwards its exit code unchanged. Format validation belongs to the
// child.
func (s Service) Export(ctx context.Context, format string) int {
	err := s.Launcher.Run(ctx, launcher.Command{
		Name: launcher.Sibling(ExportBinary),
		Args: []string{format},
		Dir:  s.Layout.Root,
	})
	return launcher.ExitCode(err)
}

var torActions = map[string]bool{
	"start":   true,
	"stop":    true,
	"restart": true,
	"status":  true,
}

const TorUsage = "usage: gamescrape-cli tor {start|stop|restart|status}"

// Tor forwards one of the four known verbs to the service manager. Unknown
// verbs print usage without touching the service. Always exits 0; the relay
// being optional means its service state never fails the manager.
func (s Service) Tor(ctx context.Context, action string) int {
	if !torActions[action] {
		fmt.Fprintln(s.Out, TorUsage)
		return 0
	}
	err := s.Launcher.Run(ctx, launcher.Command{
		Name: "systemctl",
		Args: []string{action, "tor"},
	})
	if err != nil {
		fmt.Fprintf(s.Out, "warning: systemctl %s tor failed: %v\n", action, err)
	}
	return 0
}

// combined shape of the config.json5 `setup` writes: the scraper config at
// the top level plus a section per collaborator.
type workspaceConfig struct {
	scraper.Config
	ProxyUpdate proxyupdate.Config `json:"proxy_update"`
}

var seedUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0",
}

// Setup bootstraps a fresh workspace: directory layout, default config,
// seed data files and an empty games database. Re-running it is safe; an
// existing config is only replaced after an interactive confirmation.
func (s Service) Setup(ctx context.Context) int {
	for _, dir := range []string{s.Layout.Output(), s.Layout.Logs(), s.Layout.Data()} {
		if err := os.MkdirAll(dir, 0777); err != nil {
			fmt.Fprintf(s.Out, "failed to create %s: %v\n", dir, err)
			return 1
		}
	}

	if err := s.writeDefaultConfig(); err != nil {
		fmt.Fprintf(s.Out, "failed to write config: %v\n", err)
		return 1
	}

	if _, err := os.Stat(s.Layout.UserAgents()); os.IsNotExist(err) {
		contents := strings.Join(seedUserAgents, "\n") + "\n"
		if err := os.WriteFile(s.Layout.UserAgents(), []byte(contents), 0666); err != nil {
			fmt.Fprintf(s.Out, "failed to seed user agents: %v\n", err)
			return 1
		}
	}

	if err := createDb(s.Layout.Database()); err != nil {
		fmt.Fprintf(s.Out, "failed to create games database: %v\n", err)
		return 1
	}

	fmt.Fprintln(s.Out, "workspace ready at", s.Layout.Root)
	return 0
}

func (s Service) writeDefaultConfig() error {
	path := s.Layout.Config()
	if _, err := os.Stat(path); err == nil {
		if s.Prompt == nil {
			fmt.Fprintln(s.Out, "config already exists at", path)
			return nil
		}
		answer, err := s.Prompt.Ask(
			fmt.Sprintf("%s already exists, overwrite? (y/n)", path),
			&input.Options{Default: "n", Loop: true},
		)
		if err != nil || strings.ToLower(answer) != "y" {
			fmt.Fprintln(s.Out, "keeping existing config")
			return nil
		}
	}

	cfg := workspaceConfig{
		Config:      scraper.DefaultConfig(),
		ProxyUpdate: proxyupdate.DefaultConfig(),
	}
	contents, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0666)
}

// Update pulls the latest source and refreshes dependencies. Missing version
// control or a missing module manifest degrades to a warning; this command
// never fails.
func (s Service) Update(ctx context.Context) int {
	if _, err := os.Stat(filepath.Join(s.Layout.Root, ".git")); os.IsNotExist(err) {
		fmt.Fprintln(s.Out, "warning: not a git checkout, skipping pull")
	} else {
		err := s.Launcher.Run(ctx, launcher.Command{
			Name: "git",
			Args: []string{"pull", "--ff-only"},
			Dir:  s.Layout.Root,
		})
		if err != nil {
			fmt.Fprintf(s.Out, "warning: git pull failed: %v\n", err)
		}
	}

	if _, err := os.Stat(filepath.Join(s.Layout.Root, "go.mod")); os.IsNotExist(err) {
		fmt.Fprintln(s.Out, "warning: no go.mod found, skipping dependency refresh")
	} else {
		err := s.Launcher.Run(ctx, launcher.Command{
			Name: "go",
			Args: []string{"mod", "download"},
			Dir:  s.Layout.Root,
		})
		if err != nil {
			fmt.Fprintf(s.Out, "warning: go mod download failed: %v\n", err)
		}
	}

	return 0
}

// Clean deletes generated artifacts: output json/csv, logs and sqlite side
// files. Missing files are fine; cleaning an empty workspace is a no-op.
func (s Service) Clean(ctx context.Context) int {
	patterns := []string{
		filepath.Join(s.Layout.Output(), "*.json"),
		filepath.Join(s.Layout.Output(), "*.csv"),
		filepath.Join(s.Layout.Output(), "*.sql"),
		filepath.Join(s.Layout.Output(), "*.html"),
		filepath.Join(s.Layout.Output(), "*.db-journal"),
		filepath.Join(s.Layout.Output(), "*.db-wal"),
		filepath.Join(s.Layout.Output(), "*.db-shm"),
		filepath.Join(s.Layout.Logs(), "*.log"),
	}

	removed := 0
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, match := range matches {
			if err := os.Remove(match); err != nil {
				slog.Warn("failed to remove", "path", match, "err", err.Error())
				continue
			}
			removed++
		}
	}

	fmt.Fprintf(s.Out, "removed %d generated files\n", removed)
	return 0
}

// Stats reads the statistics record a scrape leaves behind and renders a
// summary. Absence is guidance, not an error.
func (s Service) Stats(ctx context.Context) int {
	contents, err := os.ReadFile(s.Layout.Stats())
	if os.IsNotExist(err) {
		fmt.Fprintln(s.Out, "no statistics found, run 'gamescrape-cli start' to scrape first")
		return 0
	}
	if err != nil {
		fmt.Fprintf(s.Out, "failed to read %s: %v\n", s.Layout.Stats(), err)
		return 0
	}

	var stats scraper.Stats
	if err := json.Unmarshal(contents, &stats); err != nil {
		fmt.Fprintf(s.Out, "statistics file %s is malformed: %v\n", s.Layout.Stats(), err)
		return 0
	}

	fmt.Fprintf(s.Out, "Total Games: %d\n", stats.TotalGames)
	fmt.Fprintf(s.Out, "Date: %s\n", stats.ScrapedAt)

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(s.Out)
	t.AppendHeader(table.Row{"source", "games"})
	for _, name := range sortedKeys(stats.Sources) {
		t.AppendRow(table.Row{name, stats.Sources[name]})
	}
	t.Render()
	return 0
}

// Web opens the game browser artifact in the system viewer when present,
// otherwise prints where a scrape would put it.
func (s Service) Web(ctx context.Context) int {
	path := s.Layout.Browser()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(s.Out, "no game browser found, expected at %s (run a scrape first)\n", path)
		return 0
	}

	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}
	err := s.Launcher.Run(ctx, launcher.Command{
		Name: opener,
		Args: []string{path},
	})
	if err != nil {
		fmt.Fprintf(s.Out, "failed to open viewer, open %s manually\n", path)
	}
	return 0
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
