package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/kylescorner/corner/internal/db"
	"github.com/kylescorner/corner/internal/music"
	"github.com/kylescorner/corner/internal/restaurants"
	"github.com/kylescorner/corner/internal/sharelog"
	"github.com/kylescorner/corner/internal/statecodec"
)

const testCSV = `Name,Cuisine,Visited,Rating,Notes,GPS,originalUrl
Pho Place,Vietnamese,2023,high,,,
Taco Stand,Mexican,,medium,,,
Noodle Bar,Thai / Vietnamese,yes,low,,,
`

const testSharePage = "http://example.test/restaurants.html"

func setupTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	reg, err := restaurants.ReadCSV(strings.NewReader(testCSV))
	require.NoError(t, err)

	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	if cfg.SharePage == "" {
		cfg.SharePage = testSharePage
	}
	return New(cfg, Deps{
		Registry: reg,
		Catalog: &music.Catalog{
			Years:  music.YearRange{OldestAlbum: 2025, OldestSong: 2025, Newest: 2025},
			Albums: []music.Album{{Year: 2025, Title: "GNX", Artist: "Kendrick Lamar", Genre: "Hip-Hop", Rating: 9.2}},
			Songs:  []music.Song{{Year: 2025, Name: "luther", Artist: "Kendrick Lamar", Album: "GNX", Genre: "Hip-Hop"}},
		},
		Codec:   statecodec.New(statecodec.PolicyReject, nil, nil),
		History: sharelog.NewStore(database),
	})
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	srv := setupTestServer(t, Config{})

	w := do(t, srv, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody[map[string]string](t, w)
	require.Equal(t, "ok", body["status"])
}

func TestCORSHeaders(t *testing.T) {
	srv := setupTestServer(t, Config{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodOptions, "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	require.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestFilters(t *testing.T) {
	srv := setupTestServer(t, Config{})

	w := do(t, srv, http.MethodGet, "/api/filters", "")
	require.Equal(t, http.StatusOK, w.Code)
	menus := decodeBody[[]menuJSON](t, w)
	require.Len(t, menus, 3)
	require.Equal(t, restaurants.MenuCuisine, menus[1].Name)

	cuisine := menus[1].Options
	require.Len(t, cuisine, 4)
	require.Equal(t, optionJSON{Bit: 3, Label: "any", Checked: true}, cuisine[0])
	require.Equal(t, "Mexican", cuisine[1].Label)
	require.Equal(t, 10, menus[2].Options[3].Bit)
}

func TestRestaurants(t *testing.T) {
	srv := setupTestServer(t, Config{})

	w := do(t, srv, http.MethodGet, "/api/restaurants", "")
	require.Equal(t, http.StatusOK, w.Code)
	items := decodeBody[[]restaurantJSON](t, w)
	require.Len(t, items, 3)
	require.Equal(t, "phoplace", items[0].Key)
	require.Equal(t, "Pho Place", items[0].Name)
	require.True(t, items[0].Shown)

	w = do(t, srv, http.MethodGet, "/api/restaurants?sort=name", "")
	require.Equal(t, http.StatusOK, w.Code)
	items = decodeBody[[]restaurantJSON](t, w)
	require.Equal(t, []int{2, 0, 1}, []int{items[0].Index, items[1].Index, items[2].Index})

	w = do(t, srv, http.MethodGet, "/api/restaurants?sort=rating", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShareAndDecode(t *testing.T) {
	srv := setupTestServer(t, Config{})

	w := do(t, srv, http.MethodPost, "/api/share", `{"manual":[2]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	share := decodeBody[shareResponse](t, w)
	require.Equal(t, "G", share.Manual)
	require.NotEmpty(t, share.Filters)
	require.Empty(t, share.Random)
	require.NotEmpty(t, share.ID)
	require.True(t, strings.HasPrefix(share.URL, testSharePage+"?"))

	w = do(t, srv, http.MethodGet, "/api/state?url="+url.QueryEscape(share.URL), "")
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeBody[stateResponse](t, w)
	require.Equal(t, []int{2}, state.Manual)
	require.Equal(t, []int{0, 1}, state.Shown)
	require.Nil(t, state.Random)
	require.Empty(t, state.Skipped)

	w = do(t, srv, http.MethodGet, "/api/share/history/", "")
	require.Equal(t, http.StatusOK, w.Code)
	entries := decodeBody[[]sharelog.Entry](t, w)
	require.Len(t, entries, 1)
	require.Equal(t, share.ID, entries[0].ID)
	require.Equal(t, sharelog.SourceAPI, entries[0].Source)
}

func TestShareRandomAndFilters(t *testing.T) {
	srv := setupTestServer(t, Config{})

	// Only the "visited" checkbox of the visited menu stays checked.
	filters := `[false,true,false,true,true,true,true,true,true,true,true]`
	w := do(t, srv, http.MethodPost, "/api/share", `{"filters":`+filters+`,"random":0}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	share := decodeBody[shareResponse](t, w)
	require.NotEmpty(t, share.Random)

	q := url.Values{}
	q.Set(statecodec.ParamFilters, share.Filters)
	q.Set(statecodec.ParamRandom, share.Random)
	w = do(t, srv, http.MethodGet, "/api/state?"+q.Encode(), "")
	state := decodeBody[stateResponse](t, w)
	require.Equal(t, []int{0, 2}, state.Shown)
	require.NotNil(t, state.Random)
	require.Equal(t, 0, *state.Random)
}

func TestShareRejectsBadState(t *testing.T) {
	srv := setupTestServer(t, Config{})

	tests := map[string]string{
		"short filters": `{"filters":[true]}`,
		"manual range":  `{"manual":[3]}`,
		"random range":  `{"random":-1}`,
		"bad json":      `{`,
	}
	for name, body := range tests {
		w := do(t, srv, http.MethodPost, "/api/share", body)
		require.Equal(t, http.StatusBadRequest, w.Code, name)
		require.Contains(t, w.Body.String(), `"error"`, name)
	}
}

func TestStateSkipsInvalidParams(t *testing.T) {
	srv := setupTestServer(t, Config{})

	w := do(t, srv, http.MethodGet, "/api/state?m=G&f=**", "")
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeBody[stateResponse](t, w)
	require.Len(t, state.Skipped, 1)
	require.Contains(t, state.Skipped[0], "param f")
	require.Equal(t, []int{2}, state.Manual)
	require.Len(t, state.Filters, 11)
}

func TestStateReportsEmptyParams(t *testing.T) {
	srv := setupTestServer(t, Config{})

	w := do(t, srv, http.MethodGet, "/api/state?f=&m=&r=", "")
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeBody[stateResponse](t, w)
	require.Len(t, state.Skipped, 3)
	for _, msg := range state.Skipped {
		require.Contains(t, msg, "empty value")
	}
	require.Equal(t, []int{0, 1, 2}, state.Shown)
	require.Nil(t, state.Random)
}

func TestRandom(t *testing.T) {
	srv := setupTestServer(t, Config{})

	w := do(t, srv, http.MethodPost, "/api/random", `{"manual":[0,1]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	pick := decodeBody[restaurantJSON](t, w)
	require.Equal(t, 2, pick.Index)
	require.Equal(t, "noodlebar", pick.Key)

	none := `{"filters":[false,false,false,false,false,false,false,false,false,false,false]}`
	w = do(t, srv, http.MethodPost, "/api/random", none)
	require.Equal(t, http.StatusConflict, w.Code)

	w = do(t, srv, http.MethodPost, "/api/random", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMusicSearch(t *testing.T) {
	srv := setupTestServer(t, Config{})

	w := do(t, srv, http.MethodGet, "/api/music/search?q=gnx", "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeBody[music.Results](t, w)
	require.Len(t, res.Albums, 1)
	require.Len(t, res.Songs, 1)
	require.Contains(t, res.Albums[0].Highlighted["title"], `<span class="highlight">GNX</span>`)

	empty := New(Config{}, Deps{Registry: srv.deps.Registry})
	w = do(t, empty, http.MethodGet, "/api/music/search?q=gnx", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaticSite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(`<html><body><h1 id="title">Corner</h1></body></html>`), 0o644))
	srv := setupTestServer(t, Config{SiteDir: dir})

	w := do(t, srv, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	require.Equal(t, "Corner", doc.Find("#title").Text())

	w = do(t, srv, http.MethodGet, "/missing.html", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}
