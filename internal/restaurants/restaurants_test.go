package restaurants

import (
	"bytes"
	"context"
	"math/rand"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kylescorner/corner/internal/statecodec"
)

const sampleCSV = `Name,Cuisine,Visited,Rating,Notes,GPS,originalUrl
Pho Place,Vietnamese,2023,high,Great broth,"40.1,-74.2",https://maps.example/pho
Taco Stand,Mexican,,medium,,,
Noodle Bar,Thai / Vietnamese,yes,low,,,
,Italian,,,,,
`

func setupTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return reg
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"Pho Place":     "phoplace",
		"Joe's Café #1": "joescaf1",
		"A&W":           "aw",
		"   ":           "",
	}
	for in, want := range tests {
		require.Equal(t, want, NormalizeName(in), "NormalizeName(%q)", in)
	}
}

func TestReadCSV(t *testing.T) {
	reg := setupTestRegistry(t)
	require.Equal(t, 3, reg.Len())
	require.Equal(t, "Pho Place", reg.At(0).Name)
	require.Equal(t, "40.1,-74.2", reg.At(0).GPS)
	require.Equal(t, "https://maps.example/pho", reg.At(0).OriginalURL)

	idx, ok := reg.IndexOf("Noodle Bar")
	require.True(t, ok)
	require.Equal(t, 2, idx)

	require.Equal(t, []string{"Mexican", "Thai", "Vietnamese"}, reg.Cuisines())
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("cuisine,rating\nThai,high\n"))
	require.ErrorContains(t, err, "name")

	_, err = ReadCSV(strings.NewReader("name\nPho Place\npho-place\n"))
	require.ErrorIs(t, err, ErrDuplicateRestaurant)

	_, err = ReadCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restaurants.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	reg, err := LoadCSV(path)
	require.NoError(t, err)
	require.Equal(t, 3, reg.Len())

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestMarkerClass(t *testing.T) {
	require.Equal(t, "visited-high", MarkerClass(Restaurant{Visited: "2023", Rating: "high"}))
	require.Equal(t, "unvisited-medium", MarkerClass(Restaurant{Rating: "Medium"}))
	require.Equal(t, "unvisited-low", MarkerClass(Restaurant{Rating: "amazing"}))
}

func TestParseGPS(t *testing.T) {
	lat, lng, err := ParseGPS("40.1, -74.2")
	require.NoError(t, err)
	require.InDelta(t, 40.1, lat, 1e-9)
	require.InDelta(t, -74.2, lng, 1e-9)

	for _, bad := range []string{"", "40.1", "north,south", "91,0", "0,181"} {
		_, _, err := ParseGPS(bad)
		require.Error(t, err, "ParseGPS(%q)", bad)
	}
}

func TestFilterSetLayout(t *testing.T) {
	fs := NewFilterSet([]string{"Mexican", "Thai"})
	// visited(3) + cuisine(1+2) + rating(4)
	require.Equal(t, 10, fs.Len())
	for _, f := range fs.Flags() {
		require.True(t, f)
	}

	menus := fs.Menus()
	require.Equal(t, MenuVisited, menus[0].Name)
	require.Equal(t, MenuCuisine, menus[1].Name)
	require.Equal(t, "Mexican", menus[1].Options[1].Label)
	require.Equal(t, MenuRating, menus[2].Name)
}

func TestFilterToggleAnyLogic(t *testing.T) {
	fs := NewFilterSet(nil)

	require.NoError(t, fs.Toggle(MenuRating, RatingHigh))
	menus := fs.Menus()
	require.False(t, menus[2].Options[0].Checked, "unchecking an option clears any")
	require.False(t, menus[2].Options[1].Checked)

	require.NoError(t, fs.Toggle(MenuRating, RatingHigh))
	require.True(t, fs.Menus()[2].Options[0].Checked, "checking the last option sets any")

	require.NoError(t, fs.Toggle(MenuRating, AnyOption))
	for _, o := range fs.Menus()[2].Options {
		require.False(t, o.Checked, "unchecking any with all checked clears the menu")
	}

	require.NoError(t, fs.Toggle(MenuRating, AnyOption))
	for _, o := range fs.Menus()[2].Options {
		require.True(t, o.Checked, "checking any checks the menu")
	}

	require.Error(t, fs.Toggle("distance", AnyOption))
	require.Error(t, fs.Toggle(MenuRating, "superb"))
}

func TestFilterPasses(t *testing.T) {
	reg := setupTestRegistry(t)
	fs := NewFilterSet(reg.Cuisines())

	require.NoError(t, fs.Toggle(MenuCuisine, "Vietnamese"))
	require.False(t, fs.Passes(reg.At(0)))
	require.True(t, fs.Passes(reg.At(1)))
	require.True(t, fs.Passes(reg.At(2)), "Thai still matches")

	require.NoError(t, fs.Toggle(MenuVisited, "unvisited"))
	require.False(t, fs.Passes(reg.At(1)))
	require.True(t, fs.Passes(reg.At(2)))
}

func TestBoardToggleManual(t *testing.T) {
	b := NewBoard(setupTestRegistry(t))
	require.Equal(t, []int{0, 1, 2}, b.ShownIndices())

	require.NoError(t, b.ToggleManual(1))
	require.False(t, b.Shown(1))
	require.Equal(t, []int{1}, b.Manual())

	require.NoError(t, b.ToggleManual(1))
	require.True(t, b.Shown(1))
	require.Empty(t, b.Manual())

	require.Error(t, b.ToggleManual(3))
}

func TestBoardTargetIgnoresOutOfRange(t *testing.T) {
	b := NewBoard(setupTestRegistry(t))

	b.ToggleShown(-1)
	b.ToggleShown(3)
	b.HighlightRandom(3)
	require.Equal(t, []int{0, 1, 2}, b.ShownIndices())
	require.Empty(t, b.Manual())
	_, ok := b.Random()
	require.False(t, ok)

	b.ToggleShown(2)
	require.Equal(t, []int{0, 1}, b.ShownIndices())
	require.Equal(t, []int{2}, b.Manual())
}

func TestBoardApplyFiltersClearsSelections(t *testing.T) {
	b := NewBoard(setupTestRegistry(t))
	require.NoError(t, b.ToggleManual(0))
	_, err := b.PickRandom(rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	require.NoError(t, b.ToggleFilter(MenuRating, RatingLow))
	require.Empty(t, b.Manual())
	_, ok := b.Random()
	require.False(t, ok)
	require.Equal(t, []int{0, 1}, b.ShownIndices())
}

func TestBoardPickRandom(t *testing.T) {
	b := NewBoard(setupTestRegistry(t))
	require.NoError(t, b.ToggleManual(0))
	require.NoError(t, b.ToggleManual(2))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		idx, err := b.PickRandom(rng)
		require.NoError(t, err)
		require.Equal(t, 1, idx)
	}

	b.ClearRandom()
	_, ok := b.Random()
	require.False(t, ok)

	b.ApplyFilterStates(make([]bool, b.Filters().Len()))
	_, err := b.PickRandom(rng)
	require.ErrorIs(t, err, ErrNothingShown)
}

func TestBoardSorted(t *testing.T) {
	b := NewBoard(setupTestRegistry(t))

	order, err := b.Sorted(ColumnName, false)
	require.NoError(t, err)
	require.Equal(t, []int{2, 0, 1}, order)

	order, err = b.Sorted(ColumnName, true)
	require.NoError(t, err)
	require.Equal(t, []int{1, 0, 2}, order)

	require.NoError(t, b.ToggleManual(1))
	order, err = b.Sorted(ColumnShown, false)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 1}, order)
	require.Equal(t, "Pho Place", b.Registry().At(0).Name, "registry order is untouched")

	_, err = b.Sorted("rating", false)
	require.Error(t, err)
}

func TestBoardShareRoundTrip(t *testing.T) {
	reg := setupTestRegistry(t)
	src := NewBoard(reg)
	require.NoError(t, src.ToggleFilter(MenuRating, RatingMedium))
	require.NoError(t, src.ToggleManual(1))
	require.NoError(t, src.ToggleManual(0))
	src.HighlightRandom(2)

	codec := statecodec.New(statecodec.PolicyReject, nil, nil)
	res, err := codec.ComposeShareURL(context.Background(), "/restaurants.html", src)
	require.NoError(t, err)

	u, err := url.Parse(res.URL)
	require.NoError(t, err)

	dst := NewBoard(reg)
	report := codec.ApplyURLState(u.Query(), dst)
	require.Empty(t, report.Skipped)
	require.Equal(t, src.ShownIndices(), dst.ShownIndices())
	require.Equal(t, src.Manual(), dst.Manual())
	require.Equal(t, src.Filters().Flags(), dst.Filters().Flags())
	idx, ok := dst.Random()
	require.True(t, ok)
	require.Equal(t, 2, idx)
}

func TestExportCSVRoundTrip(t *testing.T) {
	reg := setupTestRegistry(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, reg.Items()))
	require.Contains(t, buf.String(), "visited-high")

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Equal(t, reg.Items(), back.Items())
}

func TestExportXLSX(t *testing.T) {
	reg := setupTestRegistry(t)
	path := filepath.Join(t.TempDir(), "restaurants.xlsx")
	require.NoError(t, WriteXLSX(path, reg.Items()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, "name", rows[0][0])
	require.Equal(t, "Pho Place", rows[1][0])
	require.Equal(t, "Noodle Bar", rows[3][0])
}
