package workspace

import (
	"os"
	"path/filepath"
	"regexp"
)

// Layout is the filesystem contract shared between the manager CLI and the
// collaborator processes it spawns. All paths are relative to Root; the
// relative locations are stable and must not change without updating every
// collaborator.
type Layout struct {
	Root string
}

const (
	ConfigFile     = "config.json5"
	OutputDir      = "output"
	LogDir         = "logs"
	DataDir        = "data"
	CollectionFile = "output/games_collection.json"
	SummaryFile    = "output/games_summary.csv"
	DatabaseFile   = "output/games.db"
	StatsFile      = "output/stats.json"
	BrowserFile    = "output/game_browser.html"
	LogFile        = "logs/scraper.log"
	ProxiesFile    = "data/proxies.txt"
	AllProxiesFile = "data/all_proxies.txt"
	UserAgentsFile = "data/user_agents.txt"
)

func (l Layout) Config() string     { return filepath.Join(l.Root, ConfigFile) }
func (l Layout) Output() string     { return filepath.Join(l.Root, OutputDir) }
func (l Layout) Logs() string       { return filepath.Join(l.Root, LogDir) }
func (l Layout) Data() string       { return filepath.Join(l.Root, DataDir) }
func (l Layout) Collection() string { return filepath.Join(l.Root, CollectionFile) }
func (l Layout) Summary() string    { return filepath.Join(l.Root, SummaryFile) }
func (l Layout) Database() string   { return filepath.Join(l.Root, DatabaseFile) }
func (l Layout) Stats() string      { return filepath.Join(l.Root, StatsFile) }
func (l Layout) Browser() string    { return filepath.Join(l.Root, BrowserFile) }
func (l Layout) Log() string        { return filepath.Join(l.Root, LogFile) }
func (l Layout) Proxies() string    { return filepath.Join(l.Root, ProxiesFile) }
func (l Layout) AllProxies() string { return filepath.Join(l.Root, AllProxiesFile) }
func (l Layout) UserAgents() string { return filepath.Join(l.Root, UserAgentsFile) }

var modName = regexp.MustCompile(`(?m)^module *([\w\-_./]+)$`)

func isWorkspaceRoot(currentdir string) bool {
	mod, err := os.ReadFile(filepath.Join(currentdir, "go.mod"))
	if err != nil {
		return false
	}
	matches := modName.FindSubmatch(mod)
	return len(matches) >= 2 && string(matches[1]) == "gamescrape"
}

// Discover walks up from the cwd looking for the repository root. When the
// binary runs outside a checkout (an installed release) it falls back to the
// cwd, which then acts as the workspace root.
func Discover() (Layout, error) {
	currentdir, err := filepath.Abs(".")
	if err != nil {
		return Layout{}, err
	}
	root, err := filepath.Abs("/")
	if err != nil {
		return Layout{}, err
	}

	cwd := currentdir
	for currentdir != root {
		if isWorkspaceRoot(currentdir) {
			return Layout{Root: currentdir}, nil
		}
		currentdir = filepath.Join(currentdir, "..")
	}
	return Layout{Root: cwd}, nil
}
