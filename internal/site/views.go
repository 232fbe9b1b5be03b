package site

import (
	"html/template"
	"sort"
	"strings"

	"github.com/kylescorner/corner/internal/music"
	"github.com/kylescorner/corner/internal/restaurants"
)

// optionView is one filter checkbox. Bit is its position in the share URL's
// filter bit string.
type optionView struct {
	Label   string
	Bit     int
	Checked bool
	IsAny   bool
}

type menuView struct {
	Name    string
	Title   string
	Options []optionView
}

type rowView struct {
	Index   int
	Key     string
	Name    string
	URL     string
	Cuisine string
	Visited string
	Rating  string
	Marker  string
	Notes   template.HTML
	Shown   bool
	HasGPS  bool
	Lat     float64
	Lng     float64
}

type restaurantsView struct {
	Intro       template.HTML
	Size        int
	FilterCount int
	Menus       []menuView
	Rows        []rowView
}

// buildRestaurantsView lays out a fresh board: every filter checked and
// every restaurant shown, in registry order.
func buildRestaurantsView(reg *restaurants.Registry, r *Renderer, intro template.HTML) (restaurantsView, []string, error) {
	board := restaurants.NewBoard(reg)
	view := restaurantsView{
		Intro:       intro,
		Size:        reg.Len(),
		FilterCount: board.Filters().Len(),
	}

	bit := 0
	for _, m := range board.Filters().Menus() {
		mv := menuView{Name: m.Name, Title: titleCase(m.Name)}
		for i, o := range m.Options {
			mv.Options = append(mv.Options, optionView{Label: o.Label, Bit: bit, Checked: o.Checked, IsAny: i == 0})
			bit++
		}
		view.Menus = append(view.Menus, mv)
	}

	var warnings []string
	for i, item := range reg.Items() {
		notes, err := r.RenderInline(item.Notes)
		if err != nil {
			return restaurantsView{}, nil, err
		}
		row := rowView{
			Index:   i,
			Key:     item.Key(),
			Name:    item.Name,
			URL:     item.OriginalURL,
			Cuisine: item.Cuisine,
			Visited: item.Visited,
			Rating:  item.Rating,
			Marker:  restaurants.MarkerClass(item),
			Notes:   notes,
			Shown:   board.Shown(i),
		}
		if item.GPS != "" {
			lat, lng, err := restaurants.ParseGPS(item.GPS)
			if err != nil {
				warnings = append(warnings, item.Name+": "+err.Error())
			} else {
				row.HasGPS, row.Lat, row.Lng = true, lat, lng
			}
		}
		view.Rows = append(view.Rows, row)
	}
	return view, warnings, nil
}

type yearView struct {
	Year    int
	Current bool
	Albums  []music.Album
	Songs   []music.Song
}

type playlistView struct {
	List string
	Year int
	URL  string
}

type musicView struct {
	Current     int
	CanDecrease bool
	CanIncrease bool
	Buttons     []music.YearButton
	Years       []yearView
	Playlists   []playlistView
}

func buildMusicView(cat *music.Catalog, playlists music.Playlists) musicView {
	window := music.NewYearWindow(cat.Years.OldestAlbum, cat.Years.Newest)
	current := cat.Years.Newest

	view := musicView{
		Current:     current,
		CanDecrease: window.CanDecrease(),
		CanIncrease: window.CanIncrease(),
		Buttons:     window.Buttons(music.ListAlbums, current, false, playlists),
	}
	for y := cat.Years.Newest; y >= cat.Years.OldestAlbum; y-- {
		view.Years = append(view.Years, yearView{
			Year:    y,
			Current: y == current,
			Albums:  cat.AlbumsIn(y),
			Songs:   cat.SongsIn(y),
		})
	}

	for _, list := range []string{music.ListAlbums, music.ListSongs} {
		for y := cat.Years.Newest; y >= cat.Years.OldestAlbum; y-- {
			if u, ok := playlists.Link(list, y); ok {
				view.Playlists = append(view.Playlists, playlistView{List: list, Year: y, URL: u})
			}
		}
	}
	return view
}

// navItem is one tab of the site navigation.
type navItem struct {
	Name   string
	Title  string
	Href   string
	Active bool
}

// buildNav orders pages with home first and the rest alphabetically.
func buildNav(names []string, active string) []navItem {
	sorted := append([]string(nil), names...)
	sort.Slice(sorted, func(i, j int) bool {
		if (sorted[i] == homePage) != (sorted[j] == homePage) {
			return sorted[i] == homePage
		}
		return sorted[i] < sorted[j]
	})

	items := make([]navItem, len(sorted))
	for i, n := range sorted {
		items[i] = navItem{Name: n, Title: titleCase(n), Href: n + ".html", Active: n == active}
	}
	return items
}

// titleCase turns a page or menu name such as "photo-book" into "Photo Book".
func titleCase(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
