package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

// Stage is one phase of a site build.
type Stage string

const (
	StageAssets Stage = "assets"
	StagePages  Stage = "pages"
)

func (s Stage) verb() string {
	switch s {
	case StageAssets:
		return "Copying"
	case StagePages:
		return "Writing"
	}
	return "Processing"
}

// Summary is what a finished build produced.
type Summary struct {
	Pages       int
	Assets      int
	AssetBytes  int64
	Restaurants int
	MusicYears  int
}

// String renders the summary as a single line.
func (s Summary) String() string {
	line := fmt.Sprintf("%d pages, %d assets (%s), %d restaurants",
		s.Pages, s.Assets, humanize.Bytes(uint64(s.AssetBytes)), s.Restaurants)
	if s.MusicYears > 0 {
		line += fmt.Sprintf(", %d music years", s.MusicYears)
	}
	return line
}

// Reporter follows a site build stage by stage.
type Reporter interface {
	// Begin starts a stage of total items.
	Begin(stage Stage, total int)
	// Step marks one item of the current stage done.
	Step(item string)
	// Done ends the build.
	Done(Summary)
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{Out: os.Stderr}
	}
	return &TerminalReporter{}
}

// TerminalReporter shows one progress bar per stage.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Begin(stage Stage, total int) {
	r.finishBar()
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(fmt.Sprintf("%s %s", stage.verb(), stage)),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Step(item string) {
	if r.bar != nil {
		r.bar.Describe(item)
		_ = r.bar.Add(1)
	}
}

func (r *TerminalReporter) Done(s Summary) {
	r.finishBar()
	fmt.Fprintf(os.Stderr, "Built %s\n", s)
}

func (r *TerminalReporter) finishBar() {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	Out     io.Writer
	stage   Stage
	total   int
	current int
}

func (r *CIReporter) Begin(stage Stage, total int) {
	r.stage, r.total, r.current = stage, total, 0
	fmt.Fprintf(r.out(), "%s %d %s\n", stage.verb(), total, stage)
}

func (r *CIReporter) Step(item string) {
	r.current++
	fmt.Fprintf(r.out(), "[%s %d/%d] %s\n", r.stage, r.current, r.total, item)
}

func (r *CIReporter) Done(s Summary) {
	fmt.Fprintf(r.out(), "Site build complete: %s\n", s)
}

func (r *CIReporter) out() io.Writer {
	if r.Out == nil {
		return os.Stderr
	}
	return r.Out
}

// Nop discards all progress.
type Nop struct{}

func (Nop) Begin(Stage, int) {}
func (Nop) Step(string)      {}
func (Nop) Done(Summary)     {}
