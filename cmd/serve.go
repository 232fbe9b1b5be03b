package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kylescorner/corner/internal/config"
	"github.com/kylescorner/corner/internal/server"
	"github.com/kylescorner/corner/internal/sharelog"
	"github.com/kylescorner/corner/internal/site"
	"github.com/kylescorner/corner/internal/statecodec"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the built site and the share API",
	Long:  `Serves the generated site from output_dir together with the restaurant, share and music search API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		port, _ := cmd.Flags().GetInt("port")
		open, _ := cmd.Flags().GetBool("open")
		return runServer(cfg, cfg.Resolve(cfg.OutputDir), port, open)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (defaults to server.port)")
	serveCmd.Flags().Bool("open", false, "open browser automatically")
	rootCmd.AddCommand(serveCmd)
}

func runServer(cfg *config.Config, siteDir string, port int, open bool) error {
	if port == 0 {
		port = cfg.Server.Port
	}

	if _, err := os.Stat(siteDir); os.IsNotExist(err) {
		return fmt.Errorf("site directory not found at %s\nRun `corner build` first", siteDir)
	}
	if m, err := site.ReadManifest(filepath.Join(siteDir, site.ManifestFile)); err == nil {
		slog.Debug("serving build", "project", m.Project, "pages", len(m.Pages), "restaurants", m.Restaurants)
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	var history *sharelog.Store
	if cfg.Share.History {
		database, store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		history = store
	}

	srv := server.New(server.Config{
		Port:           port,
		SiteDir:        siteDir,
		SharePage:      cfg.SharePage(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}, server.Deps{
		Registry: reg,
		Catalog:  cat,
		Codec:    statecodec.New(cfg.StalePolicy(), nil, slog.Default()),
		History:  history,
		Logger:   slog.Default(),
	})

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	addr := fmt.Sprintf("http://localhost:%d", port)
	fmt.Printf("Serving %s at %s (press Ctrl+C to stop)\n", siteDir, addr)
	if open {
		openBrowser(addr)
	}

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving site: %w", err)
	}
	return nil
}
