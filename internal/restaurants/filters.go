package restaurants

import (
	"fmt"
	"strings"
)

// Filter menu names, in enumeration order.
const (
	MenuVisited = "visited"
	MenuCuisine = "cuisine"
	MenuRating  = "rating"
)

// AnyOption is the first option of every menu.
const AnyOption = "any"

// Option is one checkbox in a filter menu.
type Option struct {
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// Menu is a multi-select filter menu. Options[0] is always "any".
type Menu struct {
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

// FilterSet holds every filter checkbox in a fixed order. The flattened
// order of Flags is the bit order of the share URL's filter parameter.
type FilterSet struct {
	menus []Menu
}

// NewFilterSet builds the visited, cuisine and rating menus for the given
// cuisines. Every checkbox starts checked.
func NewFilterSet(cuisines []string) *FilterSet {
	build := func(name string, labels ...string) Menu {
		m := Menu{Name: name, Options: []Option{{Label: AnyOption, Checked: true}}}
		for _, l := range labels {
			m.Options = append(m.Options, Option{Label: l, Checked: true})
		}
		return m
	}
	return &FilterSet{menus: []Menu{
		build(MenuVisited, "visited", "unvisited"),
		build(MenuCuisine, cuisines...),
		build(MenuRating, RatingHigh, RatingMedium, RatingLow),
	}}
}

// Menus returns a deep copy of the menus.
func (f *FilterSet) Menus() []Menu {
	out := make([]Menu, len(f.menus))
	for i, m := range f.menus {
		out[i] = Menu{Name: m.Name, Options: append([]Option(nil), m.Options...)}
	}
	return out
}

// Len returns the total number of checkboxes.
func (f *FilterSet) Len() int {
	n := 0
	for _, m := range f.menus {
		n += len(m.Options)
	}
	return n
}

// Flags returns every checkbox state in enumeration order.
func (f *FilterSet) Flags() []bool {
	flags := make([]bool, 0, f.Len())
	for _, m := range f.menus {
		for _, o := range m.Options {
			flags = append(flags, o.Checked)
		}
	}
	return flags
}

// SetFlags assigns checkbox states in enumeration order. Missing flags leave
// the remaining checkboxes unchecked; extra flags are ignored.
func (f *FilterSet) SetFlags(flags []bool) {
	i := 0
	for mi := range f.menus {
		for oi := range f.menus[mi].Options {
			f.menus[mi].Options[oi].Checked = i < len(flags) && flags[i]
			i++
		}
	}
}

// Clone returns an independent copy.
func (f *FilterSet) Clone() *FilterSet {
	return &FilterSet{menus: f.Menus()}
}

// Toggle flips one checkbox and keeps the menu's "any" option consistent:
// checking "any" checks the whole menu, unchecking "any" while every option
// is checked clears the menu, unchecking an option clears "any", and
// checking the last unchecked option sets "any".
func (f *FilterSet) Toggle(menu, label string) error {
	m, err := f.menu(menu)
	if err != nil {
		return err
	}
	pos := -1
	for i, o := range m.Options {
		if strings.EqualFold(o.Label, label) {
			pos = i
			break
		}
	}
	if pos < 0 {
		return fmt.Errorf("menu %s has no option %q", menu, label)
	}

	m.Options[pos].Checked = !m.Options[pos].Checked
	any := &m.Options[0]

	if pos == 0 {
		switch {
		case any.Checked:
			setAll(m, true)
		case allOptionsChecked(m):
			setAll(m, false)
		}
		return nil
	}

	switch {
	case !m.Options[pos].Checked && any.Checked:
		any.Checked = false
	case allOptionsChecked(m):
		any.Checked = true
	}
	return nil
}

// Passes reports whether r satisfies every menu.
func (f *FilterSet) Passes(r Restaurant) bool {
	for i := range f.menus {
		m := &f.menus[i]
		if m.Options[0].Checked {
			continue
		}
		if !menuMatches(m, r) {
			return false
		}
	}
	return true
}

func menuMatches(m *Menu, r Restaurant) bool {
	checked := func(label string) bool {
		for _, o := range m.Options[1:] {
			if o.Checked && strings.EqualFold(o.Label, label) {
				return true
			}
		}
		return false
	}

	switch m.Name {
	case MenuVisited:
		if r.IsVisited() {
			return checked("visited")
		}
		return checked("unvisited")
	case MenuCuisine:
		for _, c := range r.Cuisines() {
			if checked(c) {
				return true
			}
		}
		return false
	case MenuRating:
		return checked(r.Rating)
	}
	return false
}

func (f *FilterSet) menu(name string) (*Menu, error) {
	for i := range f.menus {
		if f.menus[i].Name == name {
			return &f.menus[i], nil
		}
	}
	return nil, fmt.Errorf("unknown filter menu %q", name)
}

func setAll(m *Menu, v bool) {
	for i := range m.Options {
		m.Options[i].Checked = v
	}
}

func allOptionsChecked(m *Menu) bool {
	for _, o := range m.Options[1:] {
		if !o.Checked {
			return false
		}
	}
	return true
}
