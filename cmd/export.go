package cmd

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kylescorner/corner/internal/restaurants"
	"github.com/kylescorner/corner/internal/statecodec"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the restaurant list to Excel or CSV",
	Long: `Writes the restaurant list with its map marker class. The format follows
the --out extension (.xlsx or .csv). With --from, only the restaurants a
share link shows are exported.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("out", "restaurants.xlsx", "output file (.xlsx or .csv)")
	exportCmd.Flags().String("from", "", "share link whose shown restaurants are exported")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	from, _ := cmd.Flags().GetString("from")

	items, err := exportItems(reg, from, cfg.StalePolicy())
	if err != nil {
		return err
	}
	if err := writeExport(out, items); err != nil {
		return err
	}
	fmt.Printf("Exported %d restaurants to %s\n", len(items), out)
	return nil
}

// exportItems returns the whole registry, or the restaurants shown after
// applying the share link's state.
func exportItems(reg *restaurants.Registry, link string, policy statecodec.Policy) ([]restaurants.Restaurant, error) {
	if link == "" {
		return reg.Items(), nil
	}
	u, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("parsing share link: %w", err)
	}

	board := restaurants.NewBoard(reg)
	statecodec.New(policy, nil, slog.Default()).ApplyURLState(u.Query(), board)

	var items []restaurants.Restaurant
	for _, i := range board.ShownIndices() {
		items = append(items, reg.At(i))
	}
	return items, nil
}

func writeExport(path string, items []restaurants.Restaurant) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return restaurants.WriteXLSX(path, items)
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return restaurants.WriteCSV(f, items)
	default:
		return fmt.Errorf("unsupported export format %q: use .xlsx or .csv", filepath.Ext(path))
	}
}
