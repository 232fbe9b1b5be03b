package music

import (
	"html"
	"strings"
)

// AlbumMatch is an album whose title, artist or genre matched a query.
// The Highlighted map holds HTML for every matching field.
type AlbumMatch struct {
	Album       Album             `json:"album"`
	Highlighted map[string]string `json:"highlighted"`
}

// SongMatch is a song whose name, artist, album or genre matched a query.
type SongMatch struct {
	Song        Song              `json:"song"`
	Highlighted map[string]string `json:"highlighted"`
}

// Results holds every match of a search, in catalog order.
type Results struct {
	Query  string       `json:"query"`
	Albums []AlbumMatch `json:"albums"`
	Songs  []SongMatch  `json:"songs"`
}

// Search finds albums and songs containing query, case-insensitively. A
// blank query matches nothing.
func (c *Catalog) Search(query string) Results {
	res := Results{Query: query}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return res
	}

	for _, a := range c.Albums {
		hl := matchFields(q, map[string]string{
			"title":  a.Title,
			"artist": a.Artist,
			"genre":  a.Genre,
		})
		if len(hl) > 0 {
			res.Albums = append(res.Albums, AlbumMatch{Album: a, Highlighted: hl})
		}
	}

	for _, s := range c.Songs {
		hl := matchFields(q, map[string]string{
			"name":   s.Name,
			"artist": s.Artist,
			"album":  s.Album,
			"genre":  s.Genre,
		})
		if len(hl) > 0 {
			res.Songs = append(res.Songs, SongMatch{Song: s, Highlighted: hl})
		}
	}
	return res
}

func matchFields(q string, fields map[string]string) map[string]string {
	var out map[string]string
	for name, text := range fields {
		if !strings.Contains(strings.ToLower(text), q) {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[name] = Highlight(text, q)
	}
	return out
}

// Highlight HTML-escapes text and wraps every case-insensitive occurrence of
// q in a highlight span.
func Highlight(text, q string) string {
	lower := strings.ToLower(text)
	q = strings.ToLower(q)
	if q == "" || len(lower) != len(text) {
		// Lower-casing changed byte offsets; fall back to plain text.
		return html.EscapeString(text)
	}

	var b strings.Builder
	for {
		i := strings.Index(lower, q)
		if i < 0 {
			b.WriteString(html.EscapeString(text))
			break
		}
		b.WriteString(html.EscapeString(text[:i]))
		b.WriteString(`<span class="highlight">`)
		b.WriteString(html.EscapeString(text[i : i+len(q)]))
		b.WriteString(`</span>`)
		text, lower = text[i+len(q):], lower[i+len(q):]
	}
	return b.String()
}
