// Package music loads the yearly album and song lists and answers the
// queries the music page needs: medals, playlists, year navigation and
// search.
package music

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// Default year bounds for the catalog.
const (
	OldestAlbumYear = 2018
	OldestSongYear  = 2022
	NewestYear      = 2025
)

// YearRange bounds which yearly files are loaded.
type YearRange struct {
	OldestAlbum int `koanf:"oldest_album" yaml:"oldest_album"`
	OldestSong  int `koanf:"oldest_song" yaml:"oldest_song"`
	Newest      int `koanf:"newest" yaml:"newest"`
}

// DefaultYears returns the default catalog bounds.
func DefaultYears() YearRange {
	return YearRange{OldestAlbum: OldestAlbumYear, OldestSong: OldestSongYear, Newest: NewestYear}
}

// Validate checks the range is ordered.
func (y YearRange) Validate() error {
	if y.Newest < y.OldestAlbum || y.Newest < y.OldestSong {
		return fmt.Errorf("music years: newest (%d) precedes oldest album (%d) or song (%d) year", y.Newest, y.OldestAlbum, y.OldestSong)
	}
	return nil
}

// Album is one row of a yearly album list.
type Album struct {
	Year          int     `json:"year"`
	Title         string  `json:"title"`
	Artist        string  `json:"artist"`
	Genre         string  `json:"genre"`
	Rating        float64 `json:"rating"`
	FavoriteSongs string  `json:"favorite_songs,omitempty"`
}

// Medal returns gold, silver or bronze for highly rated albums, or "".
func (a Album) Medal() string {
	switch {
	case a.Rating >= 9:
		return "gold"
	case a.Rating >= 8:
		return "silver"
	case a.Rating >= 7:
		return "bronze"
	}
	return ""
}

// ImagePath returns the cover image path relative to the site root. Only the
// first credited artist is used.
func (a Album) ImagePath() string {
	artist, _, _ := strings.Cut(a.Artist, ",")
	return fmt.Sprintf("images/music/%d/%s_%s.jpg", a.Year, normalize(artist), normalize(a.Title))
}

// Song is one row of a yearly song list.
type Song struct {
	Year   int    `json:"year"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Genre  string `json:"genre"`
}

// Catalog holds every loaded album and song, newest year first, each year in
// file order.
type Catalog struct {
	Years  YearRange
	Albums []Album
	Songs  []Song
}

// AlbumsIn returns the albums of one year.
func (c *Catalog) AlbumsIn(year int) []Album {
	var out []Album
	for _, a := range c.Albums {
		if a.Year == year {
			out = append(out, a)
		}
	}
	return out
}

// SongsIn returns the songs of one year.
func (c *Catalog) SongsIn(year int) []Song {
	var out []Song
	for _, s := range c.Songs {
		if s.Year == year {
			out = append(out, s)
		}
	}
	return out
}

// LoadCatalog reads <year>.csv album files and <year>_songs.csv song files
// from dir for every year in years.
func LoadCatalog(dir string, years YearRange) (*Catalog, error) {
	if err := years.Validate(); err != nil {
		return nil, err
	}
	cat := &Catalog{Years: years}

	for year := years.Newest; year >= years.OldestAlbum; year-- {
		rows, err := readRows(filepath.Join(dir, fmt.Sprintf("%d.csv", year)))
		if err != nil {
			return nil, fmt.Errorf("albums %d: %w", year, err)
		}
		for i, row := range rows {
			rating, err := strconv.ParseFloat(row["rating"], 64)
			if err != nil {
				return nil, fmt.Errorf("albums %d row %d: rating %q: %w", year, i+2, row["rating"], err)
			}
			cat.Albums = append(cat.Albums, Album{
				Year:          year,
				Title:         row["album"],
				Artist:        row["artist"],
				Genre:         row["genre"],
				Rating:        rating,
				FavoriteSongs: row["favorite songs"],
			})
		}
	}

	for year := years.Newest; year >= years.OldestSong; year-- {
		rows, err := readRows(filepath.Join(dir, fmt.Sprintf("%d_songs.csv", year)))
		if err != nil {
			return nil, fmt.Errorf("songs %d: %w", year, err)
		}
		for _, row := range rows {
			cat.Songs = append(cat.Songs, Song{
				Year:   year,
				Name:   row["song"],
				Artist: row["artist"],
				Album:  row["album"],
				Genre:  row["genre"],
			})
		}
	}

	return cat, nil
}

// readRows returns each data row keyed by lower-cased header.
func readRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
