package restaurants

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrDuplicateRestaurant is returned when two rows normalize to the same key.
var ErrDuplicateRestaurant = errors.New("duplicate restaurant")

// Registry is the ordered, read-only list of restaurants. Positional indices
// into it are what share URLs carry, so its order is fixed at construction.
type Registry struct {
	items []Restaurant
	index map[string]int
}

// NewRegistry builds a registry in the given order.
func NewRegistry(items []Restaurant) (*Registry, error) {
	reg := &Registry{
		items: make([]Restaurant, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for _, r := range items {
		key := r.Key()
		if key == "" {
			return nil, fmt.Errorf("restaurant %q has an empty normalized name", r.Name)
		}
		if prev, ok := reg.index[key]; ok {
			return nil, fmt.Errorf("%w: %q collides with %q", ErrDuplicateRestaurant, r.Name, reg.items[prev].Name)
		}
		reg.index[key] = len(reg.items)
		reg.items = append(reg.items, r)
	}
	return reg, nil
}

// Len returns the number of restaurants.
func (g *Registry) Len() int { return len(g.items) }

// At returns the restaurant at position i.
func (g *Registry) At(i int) Restaurant { return g.items[i] }

// IndexOf returns the position of the restaurant with the given normalized
// key.
func (g *Registry) IndexOf(key string) (int, bool) {
	i, ok := g.index[NormalizeName(key)]
	return i, ok
}

// Items returns a copy of the restaurants in registry order.
func (g *Registry) Items() []Restaurant {
	out := make([]Restaurant, len(g.items))
	copy(out, g.items)
	return out
}

// Cuisines returns every distinct cuisine, sorted.
func (g *Registry) Cuisines() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range g.items {
		for _, c := range r.Cuisines() {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// LoadCSV reads the restaurant list from a CSV file with a header row.
func LoadCSV(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reg, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// ReadCSV parses restaurant rows from r. Columns are matched by header name,
// case-insensitively; only "name" is required.
func ReadCSV(r io.Reader) (*Registry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no rows")
	}

	headers := map[string]int{}
	for i, h := range records[0] {
		headers[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := headers["name"]; !ok {
		return nil, fmt.Errorf("missing required column: name")
	}

	cell := func(row []string, name string) string {
		i, ok := headers[strings.ToLower(name)]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var items []Restaurant
	for _, row := range records[1:] {
		name := cell(row, "name")
		if name == "" {
			continue
		}
		items = append(items, Restaurant{
			Name:        name,
			Cuisine:     cell(row, "cuisine"),
			Visited:     cell(row, "visited"),
			Rating:      strings.ToLower(cell(row, "rating")),
			Notes:       cell(row, "notes"),
			GPS:         cell(row, "gps"),
			OriginalURL: cell(row, "originalUrl"),
		})
	}
	return NewRegistry(items)
}
