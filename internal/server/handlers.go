package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kylescorner/corner/internal/restaurants"
	"github.com/kylescorner/corner/internal/sharelog"
	"github.com/kylescorner/corner/internal/statecodec"
)

// stateRequest is the board state posted to /api/share and /api/random.
// Absent filters keep every checkbox checked.
type stateRequest struct {
	Filters []bool `json:"filters"`
	Manual  []int  `json:"manual"`
	Random  *int   `json:"random"`
}

type restaurantJSON struct {
	Index  int    `json:"index"`
	Key    string `json:"key"`
	Shown  bool   `json:"shown"`
	Marker string `json:"marker"`
	restaurants.Restaurant
}

type optionJSON struct {
	Bit     int    `json:"bit"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

type menuJSON struct {
	Name    string       `json:"name"`
	Options []optionJSON `json:"options"`
}

type stateResponse struct {
	Filters []bool   `json:"filters"`
	Shown   []int    `json:"shown"`
	Manual  []int    `json:"manual"`
	Random  *int     `json:"random"`
	Skipped []string `json:"skipped"`
}

type shareResponse struct {
	ID      string `json:"id,omitempty"`
	URL     string `json:"url"`
	Filters string `json:"f,omitempty"`
	Manual  string `json:"m,omitempty"`
	Random  string `json:"r,omitempty"`
}

// writeError writes err as a JSON error body.
func writeError(w http.ResponseWriter, msg string, code int) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	http.Error(w, string(body), code)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// boardFrom builds a fresh board and applies req in decode order: filters,
// then manual toggles, then the random pick.
func (s *Server) boardFrom(req stateRequest) (*restaurants.Board, error) {
	b := restaurants.NewBoard(s.deps.Registry)
	if req.Filters != nil {
		if want := b.Filters().Len(); len(req.Filters) != want {
			return nil, fmt.Errorf("filters: got %d states, want %d", len(req.Filters), want)
		}
		b.ApplyFilterStates(req.Filters)
	}
	for _, idx := range req.Manual {
		if err := b.ToggleManual(idx); err != nil {
			return nil, err
		}
	}
	if req.Random != nil {
		if *req.Random < 0 || *req.Random >= s.deps.Registry.Len() {
			return nil, fmt.Errorf("random: index %d out of range", *req.Random)
		}
		b.HighlightRandom(*req.Random)
	}
	return b, nil
}

func decodeState(r *http.Request) (stateRequest, error) {
	var req stateRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if errors.Is(err, io.EOF) {
		return req, nil
	}
	if err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}
	return req, nil
}

// handleRestaurants lists the registry with every filter checked. The
// optional sort and reverse parameters order the list without changing
// the reported indices.
func (s *Server) handleRestaurants(w http.ResponseWriter, r *http.Request) {
	b := restaurants.NewBoard(s.deps.Registry)

	order := make([]int, s.deps.Registry.Len())
	for i := range order {
		order[i] = i
	}
	if col := r.URL.Query().Get("sort"); col != "" {
		reverse, _ := strconv.ParseBool(r.URL.Query().Get("reverse"))
		sorted, err := b.Sorted(col, reverse)
		if err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		order = sorted
	}

	out := make([]restaurantJSON, 0, len(order))
	for _, i := range order {
		item := s.deps.Registry.At(i)
		out = append(out, restaurantJSON{
			Index:      i,
			Key:        item.Key(),
			Shown:      b.Shown(i),
			Marker:     restaurants.MarkerClass(item),
			Restaurant: item,
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	b := restaurants.NewBoard(s.deps.Registry)

	var out []menuJSON
	bit := 0
	for _, m := range b.Filters().Menus() {
		mj := menuJSON{Name: m.Name}
		for _, o := range m.Options {
			mj.Options = append(mj.Options, optionJSON{Bit: bit, Label: o.Label, Checked: o.Checked})
			bit++
		}
		out = append(out, mj)
	}
	writeJSON(w, out)
}

// handleState decodes f, m and r onto a fresh board. A full share link may
// be passed as ?url= instead.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if raw := q.Get("url"); raw != "" {
		u, err := url.Parse(raw)
		if err != nil {
			writeError(w, "invalid url: "+err.Error(), http.StatusBadRequest)
			return
		}
		q = u.Query()
	}

	b := restaurants.NewBoard(s.deps.Registry)
	report := s.deps.Codec.ApplyURLState(q, b)

	resp := stateResponse{
		Filters: b.Filters().Flags(),
		Shown:   b.ShownIndices(),
		Manual:  b.Manual(),
		Skipped: []string{},
	}
	if idx, ok := b.Random(); ok {
		resp.Random = &idx
	}
	if resp.Shown == nil {
		resp.Shown = []int{}
	}
	if resp.Manual == nil {
		resp.Manual = []int{}
	}
	for _, err := range report.Skipped {
		resp.Skipped = append(resp.Skipped, err.Error())
	}
	writeJSON(w, resp)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	req, err := decodeState(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	b, err := s.boardFrom(req)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := s.deps.Codec.ComposeShareURL(r.Context(), s.cfg.SharePage, b)
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := shareResponse{
		URL:     res.URL,
		Filters: res.Query.Get(statecodec.ParamFilters),
		Manual:  res.Query.Get(statecodec.ParamManual),
		Random:  res.Query.Get(statecodec.ParamRandom),
	}
	if s.deps.History != nil {
		e, err := s.deps.History.Record(r.Context(), sharelog.EntryFromResult(res, s.deps.Registry.Len(), sharelog.SourceAPI))
		if err != nil {
			writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp.ID = e.ID
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	req, err := decodeState(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	b, err := s.boardFrom(req)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	idx, err := s.pickRandom(b)
	if errors.Is(err, restaurants.ErrNothingShown) {
		writeError(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	item := s.deps.Registry.At(idx)
	writeJSON(w, restaurantJSON{
		Index:      idx,
		Key:        item.Key(),
		Shown:      true,
		Marker:     restaurants.MarkerClass(item),
		Restaurant: item,
	})
}

func (s *Server) handleMusicSearch(w http.ResponseWriter, r *http.Request) {
	if s.deps.Catalog == nil {
		writeError(w, "music catalog not loaded", http.StatusNotFound)
		return
	}
	writeJSON(w, s.deps.Catalog.Search(r.URL.Query().Get("q")))
}
