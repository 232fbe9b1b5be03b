package restaurants

import (
	"fmt"
	"strconv"
	"strings"
)

// Rating values recognised by the rating filter and marker colours.
const (
	RatingHigh   = "high"
	RatingMedium = "medium"
	RatingLow    = "low"
)

// cuisineSeparator splits multi-cuisine cells such as "Thai / Vietnamese".
const cuisineSeparator = " / "

// Restaurant is one row of the restaurant list.
type Restaurant struct {
	Name        string `json:"name"`
	Cuisine     string `json:"cuisine"`
	Visited     string `json:"visited"` // free text; empty means not visited
	Rating      string `json:"rating"`
	Notes       string `json:"notes"`
	GPS         string `json:"gps"`
	OriginalURL string `json:"original_url"`
}

// Key returns the normalized registry key for the restaurant.
func (r Restaurant) Key() string { return NormalizeName(r.Name) }

// IsVisited reports whether the visited column is filled in.
func (r Restaurant) IsVisited() bool { return strings.TrimSpace(r.Visited) != "" }

// Cuisines splits the cuisine column into its individual cuisines.
func (r Restaurant) Cuisines() []string {
	var out []string
	for _, c := range strings.Split(r.Cuisine, cuisineSeparator) {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// NormalizeName strips every non-alphanumeric ASCII character and lower-cases
// the rest.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}

// MarkerClass returns the CSS class used to colour a restaurant's map marker.
// Unknown ratings fall back to low.
func MarkerClass(r Restaurant) string {
	prefix := "unvisited-"
	if r.IsVisited() {
		prefix = "visited-"
	}
	switch strings.ToLower(strings.TrimSpace(r.Rating)) {
	case RatingHigh:
		return prefix + RatingHigh
	case RatingMedium:
		return prefix + RatingMedium
	default:
		return prefix + RatingLow
	}
}

// ParseGPS parses a "lat,lng" pair.
func ParseGPS(gps string) (lat, lng float64, err error) {
	parts := strings.Split(gps, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("gps %q: expected \"lat,lng\"", gps)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("gps %q: latitude: %w", gps, err)
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("gps %q: longitude: %w", gps, err)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, fmt.Errorf("gps %q: out of range", gps)
	}
	return lat, lng, nil
}
