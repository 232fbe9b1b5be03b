package music

import (
	"fmt"
	"strings"
)

// List names used by the list selector and playlist keys.
const (
	ListAlbums = "Albums"
	ListSongs  = "Songs"
)

// windowSize is the number of year buttons shown at once.
const windowSize = 5

// Playlists maps "<List> <Year>" to a playlist URL.
type Playlists map[string]string

// PlaylistKey returns the lookup key for a list and year.
func PlaylistKey(list string, year int) string {
	return fmt.Sprintf("%s %d", list, year)
}

// Link returns the playlist URL for a list and year.
func (p Playlists) Link(list string, year int) (string, bool) {
	u, ok := p[PlaylistKey(list, year)]
	return u, ok && strings.TrimSpace(u) != ""
}

// Available reports whether a playlist exists for the list and year.
func (p Playlists) Available(list string, year int) bool {
	_, ok := p.Link(list, year)
	return ok
}

// YearButton is one button of the year selector.
type YearButton struct {
	Year     int  `json:"year"`
	Active   bool `json:"active"`
	Disabled bool `json:"disabled"`
}

// YearWindow is the row of year buttons. Shifting moves every button by the
// window size.
type YearWindow struct {
	first  int
	oldest int
	newest int
}

// NewYearWindow returns a window whose last button is newest.
func NewYearWindow(oldest, newest int) *YearWindow {
	return &YearWindow{first: newest - windowSize + 1, oldest: oldest, newest: newest}
}

// Years returns the years currently on the buttons, ascending.
func (w *YearWindow) Years() []int {
	out := make([]int, windowSize)
	for i := range out {
		out[i] = w.first + i
	}
	return out
}

// CanDecrease reports whether the window can move to older years.
func (w *YearWindow) CanDecrease() bool { return w.first > w.oldest }

// CanIncrease reports whether the window can move to newer years.
func (w *YearWindow) CanIncrease() bool { return w.first+windowSize-1 < w.newest }

// Shift moves the window by one page; sign is +1 or -1. It reports whether
// the window moved.
func (w *YearWindow) Shift(sign int) bool {
	switch {
	case sign > 0 && w.CanIncrease():
		w.first += windowSize
	case sign < 0 && w.CanDecrease():
		w.first -= windowSize
	default:
		return false
	}
	return true
}

// Buttons returns the button states for the current list and year. A
// button is disabled when no playlist exists for it. While searching, the
// album list decides which years are enabled and no button is active.
func (w *YearWindow) Buttons(list string, current int, searching bool, p Playlists) []YearButton {
	ref := list
	if searching {
		ref = ListAlbums
	}
	years := w.Years()
	out := make([]YearButton, len(years))
	for i, y := range years {
		out[i] = YearButton{
			Year:     y,
			Active:   !searching && y == current,
			Disabled: !p.Available(ref, y),
		}
	}
	return out
}
