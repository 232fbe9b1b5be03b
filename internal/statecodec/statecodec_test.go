package statecodec

import (
	"context"
	"errors"
	"math/rand"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeBitsBoundaries(t *testing.T) {
	tests := []struct {
		bits string
		want string
	}{
		{"", "A"},
		{"0", "A"},
		{"0000", "A"},
		{"1", "B"},
		{"110", "G"},
		{"111101", "9"},
		{"111110", "BA"},
		{"10001", "R"},
	}
	for _, tt := range tests {
		got, err := EncodeBits(tt.bits)
		require.NoError(t, err, "EncodeBits(%q)", tt.bits)
		require.Equal(t, tt.want, got, "EncodeBits(%q)", tt.bits)
	}
}

func TestDecodeBits(t *testing.T) {
	got, err := DecodeBits("A")
	require.NoError(t, err)
	require.Equal(t, "0", got)

	got, err = DecodeBits("BA")
	require.NoError(t, err)
	require.Equal(t, "111110", got)

	got, err = DecodeBits("G")
	require.NoError(t, err)
	require.Equal(t, "110", got)
}

func TestDecodeBitsRejectsForeignCharacters(t *testing.T) {
	for _, in := range []string{"", "AB-C", "ab c", "A+", "é"} {
		_, err := DecodeBits(in)
		require.ErrorIs(t, err, ErrInvalidEncoding, "DecodeBits(%q)", in)
	}
}

func TestEncodeBitsRejectsNonBinary(t *testing.T) {
	_, err := EncodeBits("1021")
	require.ErrorIs(t, err, ErrInvalidBits)

	_, err = Wrap("x")
	require.ErrorIs(t, err, ErrInvalidBits)
}

func TestLongBitStrings(t *testing.T) {
	bits := "1" + strings.Repeat("01", 300)
	enc, err := EncodeBits(bits)
	require.NoError(t, err)

	back, err := DecodeBits(enc)
	require.NoError(t, err)
	require.Equal(t, bits, back)
}

func TestGuardBitPreservesLeadingZeros(t *testing.T) {
	enc, err := Wrap("0001")
	require.NoError(t, err)
	require.Equal(t, "R", enc)

	bits, err := Unwrap(enc)
	require.NoError(t, err)
	require.Equal(t, "0001", bits)

	for n := 0; n <= 130; n++ {
		zeros := strings.Repeat("0", n)
		enc, err := Wrap(zeros)
		require.NoError(t, err)
		back, err := Unwrap(enc)
		require.NoError(t, err)
		require.Equal(t, zeros, back, "length %d", n)
	}
}

func TestUnwrapWithoutGuard(t *testing.T) {
	// "A" decodes to "0", which carries no guard bit.
	_, err := Unwrap("A")
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestIndexWidth(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{0, 1}, {1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {10, 4}, {16, 4}, {17, 5}, {300, 9},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, IndexWidth(tt.size), "IndexWidth(%d)", tt.size)
	}
}

func TestEncodeIndicesWidth(t *testing.T) {
	got, err := EncodeIndices([]int{9}, 10)
	require.NoError(t, err)
	require.Equal(t, "1001", got)

	got, err = EncodeIndices([]int{0}, 10)
	require.NoError(t, err)
	require.Equal(t, "0000", got)

	got, err = EncodeIndices([]int{3, 0, 9}, 10)
	require.NoError(t, err)
	require.Equal(t, "001100001001", got)

	_, err = EncodeIndices([]int{10}, 10)
	require.ErrorIs(t, err, ErrStaleReference)
}

func TestManualSelectionScenario(t *testing.T) {
	// Three items, only the one at position 2 selected.
	bits, err := EncodeIndices([]int{2}, 3)
	require.NoError(t, err)
	require.Equal(t, "10", bits)

	enc, err := Wrap(bits)
	require.NoError(t, err)
	require.Equal(t, "G", enc)

	q, err := Encode(Snapshot{Manual: []int{2}, RegistrySize: 3})
	require.NoError(t, err)
	require.Equal(t, "m=G", q.Encode())
}

func TestFilterRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		n := rng.Intn(120) + 1
		flags := make([]bool, n)
		for j := range flags {
			flags[j] = rng.Intn(2) == 1
		}

		enc, err := Wrap(EncodeFilters(flags))
		require.NoError(t, err)
		bits, err := Unwrap(enc)
		require.NoError(t, err)
		got, err := DecodeFilters(bits, n, PolicyReject)
		require.NoError(t, err)
		require.Equal(t, flags, got)
	}
}

func TestDecodeFiltersLengthMismatch(t *testing.T) {
	_, err := DecodeFilters("101", 4, PolicyReject)
	require.ErrorIs(t, err, ErrStaleReference)

	got, err := DecodeFilters("101", 4, PolicyLenient)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, true, false}, got)

	got, err = DecodeFilters("11011", 3, PolicyLenient)
	require.NoError(t, err)
	require.Equal(t, []bool{true, true, false}, got)
}

func TestManualRoundTripAsSet(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		size := rng.Intn(70) + 1
		var subset []int
		for idx := 0; idx < size; idx++ {
			if rng.Intn(3) == 0 {
				subset = append(subset, idx)
			}
		}
		rng.Shuffle(len(subset), func(a, b int) { subset[a], subset[b] = subset[b], subset[a] })

		bits, err := EncodeIndices(subset, size)
		require.NoError(t, err)
		if len(subset) == 0 {
			require.Empty(t, bits)
			continue
		}
		enc, err := Wrap(bits)
		require.NoError(t, err)
		back, err := Unwrap(enc)
		require.NoError(t, err)
		got, err := DecodeIndices(back, size)
		require.NoError(t, err)

		want := append([]int(nil), subset...)
		sort.Ints(want)
		sort.Ints(got)
		require.Equal(t, want, got)
	}
}

func TestDecodeIndicesMisaligned(t *testing.T) {
	_, err := DecodeIndices("10101", 10)
	require.ErrorIs(t, err, ErrStaleReference)
}

func TestDecodeRandom(t *testing.T) {
	idx, err := DecodeRandom("0111", 10)
	require.NoError(t, err)
	require.Equal(t, 7, idx)

	_, err = DecodeRandom("01110111", 10)
	require.ErrorIs(t, err, ErrStaleReference)

	_, err = DecodeRandom("1111", 10)
	require.ErrorIs(t, err, ErrStaleReference)

	bits, err := EncodeRandom(0, false, 10)
	require.NoError(t, err)
	require.Empty(t, bits)
}

func TestEncodeOmitsEmptyParams(t *testing.T) {
	q, err := Encode(Snapshot{RegistrySize: 5})
	require.NoError(t, err)
	require.Empty(t, q)

	q, err = Encode(Snapshot{
		Filters:      []bool{true, true, false},
		Manual:       []int{1},
		Random:       4,
		HasRandom:    true,
		RegistrySize: 5,
	})
	require.NoError(t, err)
	require.Equal(t, "O", q.Get(ParamFilters)) // 1110
	require.Equal(t, "J", q.Get(ParamManual))  // 1001
	require.Equal(t, "M", q.Get(ParamRandom))  // 1100
}

func TestDecodeSkipsBadParamsIndependently(t *testing.T) {
	q := url.Values{}
	q.Set(ParamFilters, "O")   // three bits, four filters expected
	q.Set(ParamManual, "J")    // index 1
	q.Set(ParamRandom, "bad!") // not base62

	got, errs := Decode(q, Dimensions{Filters: 4, Items: 5}, PolicyReject)
	require.Len(t, errs, 2)
	require.Nil(t, got.Filters)
	require.Equal(t, []int{1}, got.Manual)
	require.False(t, got.HasRandom)

	var pe *ParamError
	require.True(t, errors.As(errs[0], &pe))
	require.Equal(t, ParamFilters, pe.Param)
	require.ErrorIs(t, errs[0], ErrStaleReference)
	require.ErrorIs(t, errs[1], ErrInvalidEncoding)
}

func TestDecodeReportsEmptyParams(t *testing.T) {
	q, err := url.ParseQuery("f=&m=&r=")
	require.NoError(t, err)

	got, errs := Decode(q, Dimensions{Filters: 4, Items: 5}, PolicyReject)
	require.Equal(t, Decoded{}, got)
	require.Len(t, errs, 3)

	var params []string
	for _, e := range errs {
		require.ErrorIs(t, e, ErrInvalidEncoding)
		var pe *ParamError
		require.True(t, errors.As(e, &pe))
		params = append(params, pe.Param)
	}
	require.Equal(t, []string{ParamFilters, ParamManual, ParamRandom}, params)

	_, errs = Decode(url.Values{}, Dimensions{Filters: 4, Items: 5}, PolicyReject)
	require.Empty(t, errs)
}

func TestDecodeDropsOutOfRangeManualIndices(t *testing.T) {
	// Width 3 for 5 items: indices 1 and 7; 7 is stale.
	enc, err := Wrap("001111")
	require.NoError(t, err)

	got, errs := Decode(url.Values{ParamManual: {enc}}, Dimensions{Items: 5}, PolicyReject)
	require.Equal(t, []int{1}, got.Manual)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrStaleReference)
}

func TestComposeURL(t *testing.T) {
	q := url.Values{}
	q.Set(ParamRandom, "M")
	q.Set(ParamFilters, "O")
	got, err := ComposeURL("https://example.com/restaurants.html?old=1#map", q)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/restaurants.html?f=O&r=M", got)
}

// fakeBoard records calls in order so tests can check sequencing.
type fakeBoard struct {
	dims    Dimensions
	filters []bool
	manual  []int
	random  int
	hasRand bool
	calls   []string
}

func (f *fakeBoard) ShareSnapshot() Snapshot {
	return Snapshot{
		Filters:      f.filters,
		Manual:       f.manual,
		Random:       f.random,
		HasRandom:    f.hasRand,
		RegistrySize: f.dims.Items,
	}
}

func (f *fakeBoard) Dimensions() Dimensions { return f.dims }

func (f *fakeBoard) ApplyFilterStates(states []bool) {
	f.calls = append(f.calls, "filters")
	f.filters = states
	f.manual = nil
	f.hasRand = false
}

func (f *fakeBoard) ToggleShown(index int) {
	f.calls = append(f.calls, "toggle")
	f.manual = append(f.manual, index)
}

func (f *fakeBoard) HighlightRandom(index int) {
	f.calls = append(f.calls, "random")
	f.random = index
	f.hasRand = true
}

type failingClipboard struct{}

func (failingClipboard) WriteText(context.Context, string) error {
	return errors.New("no display")
}

type recordingClipboard struct{ text string }

func (r *recordingClipboard) WriteText(_ context.Context, text string) error {
	r.text = text
	return nil
}

func TestComposeAndApplyRoundTrip(t *testing.T) {
	src := &fakeBoard{
		dims:    Dimensions{Filters: 6, Items: 12},
		filters: []bool{true, false, false, true, true, false},
		manual:  []int{11, 0, 5},
		random:  7,
		hasRand: true,
	}
	clip := &recordingClipboard{}
	codec := New(PolicyReject, clip, nil)

	res, err := codec.ComposeShareURL(context.Background(), "http://localhost:8080/restaurants.html", src)
	require.NoError(t, err)
	require.True(t, res.Copied)
	require.Equal(t, res.URL, clip.text)

	u, err := url.Parse(res.URL)
	require.NoError(t, err)

	dst := &fakeBoard{dims: src.dims}
	report := codec.ApplyURLState(u.Query(), dst)
	require.Empty(t, report.Skipped)
	require.Equal(t, []string{"filters", "toggle", "toggle", "toggle", "random"}, dst.calls)
	require.Equal(t, src.filters, dst.filters)
	require.Equal(t, src.manual, dst.manual)
	require.Equal(t, 7, dst.random)

	// Re-encoding the applied state reproduces the same parameters.
	again, err := codec.ComposeShareURL(context.Background(), "http://localhost:8080/restaurants.html", dst)
	require.NoError(t, err)
	require.Equal(t, res.URL, again.URL)
}

func TestComposeSurvivesClipboardFailure(t *testing.T) {
	src := &fakeBoard{dims: Dimensions{Filters: 2, Items: 3}, filters: []bool{true, true}}
	codec := New(PolicyReject, failingClipboard{}, nil)

	res, err := codec.ComposeShareURL(context.Background(), "/restaurants.html", src)
	require.NoError(t, err)
	require.False(t, res.Copied)
	require.ErrorIs(t, res.CopyErr, ErrClipboardUnavailable)
	require.Equal(t, "/restaurants.html?f=H", res.URL)
}

func TestNewDefaultsUnknownPolicy(t *testing.T) {
	require.Equal(t, PolicyReject, New("strict", nil, nil).Policy())
	require.Equal(t, PolicyLenient, New(PolicyLenient, nil, nil).Policy())
}
