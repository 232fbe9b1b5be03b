package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kylescorner/corner/internal/clipboard"
	"github.com/kylescorner/corner/internal/restaurants"
	"github.com/kylescorner/corner/internal/sharelog"
	"github.com/kylescorner/corner/internal/statecodec"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Compose and decode restaurant share links",
}

var shareEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Compose a share link for a restaurant map state",
	Long: `Builds the restaurant map state from flags and prints its share link.
The link is copied to the clipboard unless --no-copy is given or share.copy
is false.`,
	Example: `  corner share encode --manual 2,5
  corner share encode --filters 01111111111 --random 3
  corner share encode --select "Pho Place" --no-copy`,
	RunE: runShareEncode,
}

var shareDecodeCmd = &cobra.Command{
	Use:   "decode <url>",
	Short: "Show the restaurant map state a share link restores",
	Args:  cobra.ExactArgs(1),
	RunE:  runShareDecode,
}

var shareHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently composed share links",
	RunE:  runShareHistory,
}

// stateFlags is the board state given on the command line.
type stateFlags struct {
	Filters string
	Manual  string
	Select  []string
	Random  int
}

var (
	encodeFlags stateFlags
	noCopy      bool
)

func init() {
	shareEncodeCmd.Flags().StringVar(&encodeFlags.Filters, "filters", "", "filter checkbox states as a 0/1 string, in menu order")
	shareEncodeCmd.Flags().StringVar(&encodeFlags.Manual, "manual", "", "comma-separated restaurant positions to toggle")
	shareEncodeCmd.Flags().StringArrayVar(&encodeFlags.Select, "select", nil, "restaurant name to toggle (repeatable)")
	shareEncodeCmd.Flags().IntVar(&encodeFlags.Random, "random", -1, "restaurant position to highlight as the random pick")
	shareEncodeCmd.Flags().BoolVar(&noCopy, "no-copy", false, "do not copy the link to the clipboard")

	shareHistoryCmd.Flags().Int("limit", sharelog.DefaultLimit, "number of entries to show")
	shareHistoryCmd.Flags().String("source", "", "only show links composed from cli or api")

	shareCmd.AddCommand(shareEncodeCmd, shareDecodeCmd, shareHistoryCmd)
	rootCmd.AddCommand(shareCmd)
}

func runShareEncode(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	board, err := buildBoard(reg, encodeFlags)
	if err != nil {
		return err
	}

	var clip statecodec.Clipboard
	if cfg.Share.Copy && !noCopy {
		clip = clipboard.New()
	}
	codec := statecodec.New(cfg.StalePolicy(), clip, slog.Default())

	res, err := codec.ComposeShareURL(cmd.Context(), cfg.SharePage(), board)
	if err != nil {
		return fmt.Errorf("composing share link: %w", err)
	}

	fmt.Println(res.URL)
	if res.Copied {
		fmt.Fprintln(os.Stderr, "Copied to clipboard")
	} else if res.CopyErr != nil {
		fmt.Fprintf(os.Stderr, "Not copied: %v\n", res.CopyErr)
	}

	if cfg.Share.History {
		database, store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		if _, err := store.Record(cmd.Context(), sharelog.EntryFromResult(res, reg.Len(), sharelog.SourceCLI)); err != nil {
			return fmt.Errorf("recording share link: %w", err)
		}
	}
	return nil
}

func runShareDecode(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	u, err := url.Parse(args[0])
	if err != nil {
		return fmt.Errorf("parsing share link: %w", err)
	}

	board := restaurants.NewBoard(reg)
	report := statecodec.New(cfg.StalePolicy(), nil, slog.Default()).ApplyURLState(u.Query(), board)
	describeBoard(os.Stdout, board, report)
	return nil
}

func runShareHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	source, _ := cmd.Flags().GetString("source")
	entries, err := store.List(cmd.Context(), sharelog.ListFilter{Source: sharelog.Source(source), Limit: limit})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No share links recorded yet")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tSOURCE\tCOPIED\tURL")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Source, e.Copied, e.URL)
	}
	return tw.Flush()
}

// buildBoard applies the flags in decode order: filters, manual toggles,
// then the random pick.
func buildBoard(reg *restaurants.Registry, f stateFlags) (*restaurants.Board, error) {
	board := restaurants.NewBoard(reg)

	if f.Filters != "" {
		flags, err := parseBits(f.Filters)
		if err != nil {
			return nil, err
		}
		if want := board.Filters().Len(); len(flags) != want {
			return nil, fmt.Errorf("--filters has %d states, the page has %d checkboxes", len(flags), want)
		}
		board.ApplyFilterStates(flags)
	}

	toggles, err := parseIndices(f.Manual)
	if err != nil {
		return nil, err
	}
	for _, name := range f.Select {
		idx, ok := reg.IndexOf(name)
		if !ok {
			return nil, fmt.Errorf("no restaurant named %q", name)
		}
		toggles = append(toggles, idx)
	}
	for _, idx := range toggles {
		if err := board.ToggleManual(idx); err != nil {
			return nil, err
		}
	}

	if f.Random >= 0 {
		if f.Random >= reg.Len() {
			return nil, fmt.Errorf("--random %d out of range for %d restaurants", f.Random, reg.Len())
		}
		board.HighlightRandom(f.Random)
	}
	return board, nil
}

func parseBits(s string) ([]bool, error) {
	out := make([]bool, len(s))
	for i, c := range s {
		switch c {
		case '0':
		case '1':
			out[i] = true
		default:
			return nil, fmt.Errorf("--filters must contain only 0 and 1, got %q", s)
		}
	}
	return out, nil
}

func parseIndices(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid restaurant position %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

// describeBoard prints the checked filters, the shown restaurants and any
// parameters that were skipped while decoding.
func describeBoard(w io.Writer, board *restaurants.Board, report statecodec.ApplyReport) {
	reg := board.Registry()

	fmt.Fprintln(w, "Filters:")
	for _, m := range board.Filters().Menus() {
		var checked []string
		for _, o := range m.Options {
			if o.Checked {
				checked = append(checked, o.Label)
			}
		}
		if len(checked) == 0 {
			checked = []string{"(none)"}
		}
		fmt.Fprintf(w, "  %s: %s\n", m.Name, strings.Join(checked, ", "))
	}

	shown := board.ShownIndices()
	fmt.Fprintf(w, "Shown (%d of %d):\n", len(shown), reg.Len())
	for _, i := range shown {
		fmt.Fprintf(w, "  [%d] %s\n", i, reg.At(i).Name)
	}

	if manual := board.Manual(); len(manual) > 0 {
		names := make([]string, len(manual))
		for i, idx := range manual {
			names[i] = reg.At(idx).Name
		}
		fmt.Fprintf(w, "Toggled by hand: %s\n", strings.Join(names, ", "))
	}
	if idx, ok := board.Random(); ok {
		fmt.Fprintf(w, "Random pick: [%d] %s\n", idx, reg.At(idx).Name)
	}
	for _, err := range report.Skipped {
		fmt.Fprintf(w, "Skipped: %v\n", err)
	}
}
