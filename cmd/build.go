package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kylescorner/corner/internal/music"
	"github.com/kylescorner/corner/internal/progress"
	"github.com/kylescorner/corner/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the static website",
	Long:  `Generates the static site from the pages directory, the restaurant CSV and the yearly music lists.`,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().Bool("serve", false, "start a local HTTP server after generating")
	buildCmd.Flags().Int("port", 0, "port for the local server (defaults to server.port)")
	buildCmd.Flags().Bool("open", false, "open browser automatically when serving")
	buildCmd.Flags().String("output", "", "override output directory (defaults to output_dir)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.Resolve(cfg.OutputDir)
	} else if err := cfg.CheckOutputDir(outputDir); err != nil {
		return fmt.Errorf("--output: %w", err)
	}

	generator := site.NewGenerator(cfg.SiteDir, outputDir, cfg.ProjectName)
	generator.RestaurantsCSV = cfg.Resolve(cfg.RestaurantsCSV)
	generator.MusicDir = cfg.Resolve(cfg.MusicDir)
	generator.Years = cfg.Music.Years
	generator.Playlists = music.Playlists(cfg.Music.Playlists)
	generator.Include = cfg.Include
	generator.Exclude = cfg.Exclude
	generator.Reporter = progress.NewReporter()
	generator.Logger = slog.Default()

	pageCount, err := generator.Generate()
	if err != nil {
		return fmt.Errorf("generating site: %w", err)
	}
	fmt.Printf("Static site generated: %s (%d pages)\n", outputDir, pageCount)

	serve, _ := cmd.Flags().GetBool("serve")
	if !serve {
		return nil
	}
	port, _ := cmd.Flags().GetInt("port")
	open, _ := cmd.Flags().GetBool("open")
	return runServer(cfg, outputDir, port, open)
}
