package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/kylescorner/corner/internal/config"
	"github.com/kylescorner/corner/internal/db"
	"github.com/kylescorner/corner/internal/music"
	"github.com/kylescorner/corner/internal/restaurants"
	"github.com/kylescorner/corner/internal/sharelog"
)

const historyDBFile = "corner.db"

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `corner init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func loadRegistry(cfg *config.Config) (*restaurants.Registry, error) {
	reg, err := restaurants.LoadCSV(cfg.Resolve(cfg.RestaurantsCSV))
	if err != nil {
		return nil, fmt.Errorf("loading restaurants: %w", err)
	}
	return reg, nil
}

// loadCatalog returns nil when the music directory does not exist.
func loadCatalog(cfg *config.Config) (*music.Catalog, error) {
	dir := cfg.Resolve(cfg.MusicDir)
	if _, err := os.Stat(dir); err != nil {
		slog.Warn("music directory not found, music search disabled", "dir", dir)
		return nil, nil
	}
	cat, err := music.LoadCatalog(dir, cfg.Music.Years)
	if err != nil {
		return nil, fmt.Errorf("loading music: %w", err)
	}
	return cat, nil
}

// openHistory opens the share history database under the data dir.
func openHistory(cfg *config.Config) (*db.DB, *sharelog.Store, error) {
	dataDir := cfg.Resolve(cfg.Server.DataDir)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating data dir: %w", err)
	}
	database, err := db.Open(filepath.Join(dataDir, historyDBFile))
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return database, sharelog.NewStore(database), nil
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
