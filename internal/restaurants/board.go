package restaurants

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"

	"github.com/kylescorner/corner/internal/statecodec"
)

// ErrNothingShown is returned by PickRandom when every restaurant is hidden.
var ErrNothingShown = errors.New("no restaurants are shown")

// Sort columns accepted by Board.Sorted.
const (
	ColumnName    = "name"
	ColumnCuisine = "cuisine"
	ColumnVisited = "visited"
	ColumnShown   = "shown"
)

// Board is the interactive state of the restaurant page: which filters are
// checked, which rows are shown, which rows were toggled by hand, and the
// current random pick.
type Board struct {
	reg     *Registry
	filters *FilterSet
	shown   []bool
	manual  []int
	random  int
	hasRand bool
}

// NewBoard returns a board over reg with every filter checked.
func NewBoard(reg *Registry) *Board {
	b := &Board{
		reg:     reg,
		filters: NewFilterSet(reg.Cuisines()),
		shown:   make([]bool, reg.Len()),
	}
	b.ApplyFilters()
	return b
}

// Registry returns the board's registry.
func (b *Board) Registry() *Registry { return b.reg }

// Filters returns the live filter set. Call ApplyFilters after changing it.
func (b *Board) Filters() *FilterSet { return b.filters }

// ApplyFilters recomputes which restaurants are shown. Manual selections and
// the random pick are cleared.
func (b *Board) ApplyFilters() {
	b.manual = nil
	b.hasRand = false
	b.random = 0
	for i := range b.shown {
		b.shown[i] = b.filters.Passes(b.reg.At(i))
	}
}

// ToggleFilter toggles one filter checkbox and re-applies the filters.
func (b *Board) ToggleFilter(menu, option string) error {
	if err := b.filters.Toggle(menu, option); err != nil {
		return err
	}
	b.ApplyFilters()
	return nil
}

// ToggleManual flips the shown state of restaurant i. Toggling the same
// restaurant twice undoes the manual selection.
func (b *Board) ToggleManual(i int) error {
	if !b.inRange(i) {
		return fmt.Errorf("restaurant index %d out of range [0,%d)", i, len(b.shown))
	}
	b.shown[i] = !b.shown[i]
	b.recordManual(i)
	return nil
}

// recordManual adds i to the manual list, or removes it when it is already
// there.
func (b *Board) recordManual(i int) {
	for pos, idx := range b.manual {
		if idx == i {
			b.manual = append(b.manual[:pos], b.manual[pos+1:]...)
			return
		}
	}
	b.manual = append(b.manual, i)
}

// Shown reports whether restaurant i is shown.
func (b *Board) Shown(i int) bool { return b.shown[i] }

// ShownIndices returns the positions of every shown restaurant.
func (b *Board) ShownIndices() []int {
	var out []int
	for i, s := range b.shown {
		if s {
			out = append(out, i)
		}
	}
	return out
}

// Manual returns the manually toggled positions in toggle order.
func (b *Board) Manual() []int { return append([]int(nil), b.manual...) }

// Random returns the current random pick.
func (b *Board) Random() (int, bool) { return b.random, b.hasRand }

// PickRandom chooses a random shown restaurant and makes it the current pick.
func (b *Board) PickRandom(rng *rand.Rand) (int, error) {
	shown := b.ShownIndices()
	if len(shown) == 0 {
		return 0, ErrNothingShown
	}
	idx := shown[rng.Intn(len(shown))]
	b.random, b.hasRand = idx, true
	return idx, nil
}

// ClearRandom drops the current random pick.
func (b *Board) ClearRandom() {
	b.random, b.hasRand = 0, false
}

// Sorted returns restaurant positions ordered by column. The registry is not
// reordered, so positions stay valid for share URLs.
func (b *Board) Sorted(column string, reverse bool) ([]int, error) {
	var key func(i int) string
	switch column {
	case ColumnName:
		key = func(i int) string { return strings.ToLower(b.reg.At(i).Name) }
	case ColumnCuisine:
		key = func(i int) string { return strings.ToLower(b.reg.At(i).Cuisine) }
	case ColumnVisited:
		key = func(i int) string { return strings.ToLower(b.reg.At(i).Visited) }
	case ColumnShown:
		key = func(i int) string {
			if b.shown[i] {
				return "0"
			}
			return "1"
		}
	default:
		return nil, fmt.Errorf("unknown sort column %q", column)
	}

	order := make([]int, b.reg.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		kx, ky := key(order[x]), key(order[y])
		if reverse {
			return kx > ky
		}
		return kx < ky
	})
	return order, nil
}

// ShareSnapshot implements statecodec.Source.
func (b *Board) ShareSnapshot() statecodec.Snapshot {
	return statecodec.Snapshot{
		Filters:      b.filters.Flags(),
		Manual:       b.Manual(),
		Random:       b.random,
		HasRandom:    b.hasRand,
		RegistrySize: b.reg.Len(),
	}
}

// Dimensions implements statecodec.Target.
func (b *Board) Dimensions() statecodec.Dimensions {
	return statecodec.Dimensions{Filters: b.filters.Len(), Items: b.reg.Len()}
}

// ApplyFilterStates implements statecodec.Target.
func (b *Board) ApplyFilterStates(states []bool) {
	b.filters.SetFlags(states)
	b.ApplyFilters()
}

// ToggleShown implements statecodec.Target. Out-of-range positions are
// logged and ignored.
func (b *Board) ToggleShown(index int) {
	if !b.inRange(index) {
		slog.Debug("ignoring manual toggle outside registry", "index", index, "size", b.reg.Len())
		return
	}
	b.shown[index] = !b.shown[index]
	b.recordManual(index)
}

// HighlightRandom implements statecodec.Target. Out-of-range positions are
// logged and ignored.
func (b *Board) HighlightRandom(index int) {
	if !b.inRange(index) {
		slog.Debug("ignoring random pick outside registry", "index", index, "size", b.reg.Len())
		return
	}
	b.random, b.hasRand = index, true
}

func (b *Board) inRange(i int) bool { return i >= 0 && i < len(b.shown) }
