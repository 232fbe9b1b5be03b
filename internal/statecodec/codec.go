package statecodec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"
)

// Query parameter names carried in a share URL.
const (
	ParamFilters = "f"
	ParamManual  = "m"
	ParamRandom  = "r"
)

// clipboardTimeout bounds the only external call made while sharing.
const clipboardTimeout = 2 * time.Second

// Snapshot is an immutable copy of the shareable state.
type Snapshot struct {
	Filters      []bool
	Manual       []int
	Random       int
	HasRandom    bool
	RegistrySize int
}

// Dimensions describes the shape decoded state must fit.
type Dimensions struct {
	Filters int
	Items   int
}

// Source supplies the current state when composing a share URL.
type Source interface {
	ShareSnapshot() Snapshot
}

// Target receives decoded state. Calls arrive in order: filters, then manual
// toggles, then the random pick.
type Target interface {
	Dimensions() Dimensions
	ApplyFilterStates(states []bool)
	ToggleShown(index int)
	HighlightRandom(index int)
}

// Clipboard copies text to the system clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// ParamError ties a decoding failure to the query parameter it came from.
type ParamError struct {
	Param string
	Err   error
}

func (e *ParamError) Error() string { return fmt.Sprintf("param %s: %v", e.Param, e.Err) }

func (e *ParamError) Unwrap() error { return e.Err }

// Encode converts a snapshot into query parameters. A parameter is present
// only when its state is non-empty.
func Encode(s Snapshot) (url.Values, error) {
	q := url.Values{}

	if bits := EncodeFilters(s.Filters); bits != "" {
		enc, err := Wrap(bits)
		if err != nil {
			return nil, fmt.Errorf("encoding filters: %w", err)
		}
		q.Set(ParamFilters, enc)
	}

	manual, err := EncodeIndices(s.Manual, s.RegistrySize)
	if err != nil {
		return nil, fmt.Errorf("encoding manual selections: %w", err)
	}
	if manual != "" {
		enc, err := Wrap(manual)
		if err != nil {
			return nil, fmt.Errorf("encoding manual selections: %w", err)
		}
		q.Set(ParamManual, enc)
	}

	random, err := EncodeRandom(s.Random, s.HasRandom, s.RegistrySize)
	if err != nil {
		return nil, fmt.Errorf("encoding random pick: %w", err)
	}
	if random != "" {
		enc, err := Wrap(random)
		if err != nil {
			return nil, fmt.Errorf("encoding random pick: %w", err)
		}
		q.Set(ParamRandom, enc)
	}

	return q, nil
}

// Decoded holds state recovered from a query string. Nil Filters means the
// parameter was absent or skipped.
type Decoded struct {
	Filters   []bool
	Manual    []int
	Random    int
	HasRandom bool
}

// Decode recovers state from query parameters. A parameter that is present
// but empty is an ErrInvalidEncoding failure. Every parameter fails
// independently; failures are returned as *ParamError values and leave that
// piece of state at its default. Out-of-range manual indices are dropped
// individually.
func Decode(q url.Values, dims Dimensions, policy Policy) (Decoded, []error) {
	var (
		out  Decoded
		errs []error
	)

	if q.Has(ParamFilters) {
		raw := q.Get(ParamFilters)
		flags, err := decodeFilterParam(raw, dims.Filters, policy)
		if err != nil {
			errs = append(errs, &ParamError{Param: ParamFilters, Err: err})
		} else {
			out.Filters = flags
		}
	}

	if q.Has(ParamManual) {
		raw := q.Get(ParamManual)
		indices, err := decodeIndexParam(raw, dims.Items)
		if err != nil {
			errs = append(errs, &ParamError{Param: ParamManual, Err: err})
		}
		for _, idx := range indices {
			if idx >= dims.Items {
				errs = append(errs, &ParamError{
					Param: ParamManual,
					Err:   fmt.Errorf("%w: index %d outside registry of %d items", ErrStaleReference, idx, dims.Items),
				})
				continue
			}
			out.Manual = append(out.Manual, idx)
		}
	}

	if q.Has(ParamRandom) {
		raw := q.Get(ParamRandom)
		bits, err := Unwrap(raw)
		if err == nil {
			out.Random, err = DecodeRandom(bits, dims.Items)
		}
		if err != nil {
			errs = append(errs, &ParamError{Param: ParamRandom, Err: err})
		} else {
			out.HasRandom = true
		}
	}

	return out, errs
}

func decodeFilterParam(raw string, want int, policy Policy) ([]bool, error) {
	bits, err := Unwrap(raw)
	if err != nil {
		return nil, err
	}
	return DecodeFilters(bits, want, policy)
}

func decodeIndexParam(raw string, size int) ([]int, error) {
	bits, err := Unwrap(raw)
	if err != nil {
		return nil, err
	}
	return DecodeIndices(bits, size)
}

// ComposeURL returns page with its query replaced by q and its fragment
// dropped.
func ComposeURL(page string, q url.Values) (string, error) {
	u, err := url.Parse(page)
	if err != nil {
		return "", fmt.Errorf("parsing page url: %w", err)
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String(), nil
}

// Codec composes share URLs from a Source and applies URL state to a Target.
type Codec struct {
	policy    Policy
	clipboard Clipboard
	logger    *slog.Logger
}

// New creates a Codec. clipboard may be nil, in which case URLs are never
// copied. logger may be nil.
func New(policy Policy, clipboard Clipboard, logger *slog.Logger) *Codec {
	if !policy.Valid() {
		policy = PolicyReject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{policy: policy, clipboard: clipboard, logger: logger}
}

// Policy returns the stale-filter policy in effect.
func (c *Codec) Policy() Policy { return c.policy }

// ShareResult is the outcome of ComposeShareURL. CopyErr is set, and Copied
// false, when the clipboard write failed; URL is valid either way.
type ShareResult struct {
	URL     string
	Query   url.Values
	Copied  bool
	CopyErr error
}

// ComposeShareURL encodes the source's current state onto page and copies
// the resulting URL to the clipboard.
func (c *Codec) ComposeShareURL(ctx context.Context, page string, src Source) (ShareResult, error) {
	q, err := Encode(src.ShareSnapshot())
	if err != nil {
		return ShareResult{}, err
	}
	shareURL, err := ComposeURL(page, q)
	if err != nil {
		return ShareResult{}, err
	}

	res := ShareResult{URL: shareURL, Query: q}
	if c.clipboard == nil {
		return res, nil
	}

	copyCtx, cancel := context.WithTimeout(ctx, clipboardTimeout)
	defer cancel()
	if err := c.clipboard.WriteText(copyCtx, shareURL); err != nil {
		if !errors.Is(err, ErrClipboardUnavailable) {
			err = fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
		}
		c.logger.Warn("share url not copied", "url", shareURL, "err", err)
		res.CopyErr = err
		return res, nil
	}
	res.Copied = true
	c.logger.Debug("share url copied", "url", shareURL)
	return res, nil
}

// ApplyReport summarizes what ApplyURLState changed.
type ApplyReport struct {
	Filters   bool
	Toggled   []int
	Random    int
	HasRandom bool
	Skipped   []error
}

// ApplyURLState decodes q and applies it to dst: filters first, then manual
// toggles on top of the filtered baseline, then the random pick.
func (c *Codec) ApplyURLState(q url.Values, dst Target) ApplyReport {
	decoded, errs := Decode(q, dst.Dimensions(), c.policy)

	report := ApplyReport{Skipped: errs}
	for _, err := range errs {
		c.logger.Warn("url state skipped", "err", err)
	}

	if decoded.Filters != nil {
		dst.ApplyFilterStates(decoded.Filters)
		report.Filters = true
	}
	for _, idx := range decoded.Manual {
		dst.ToggleShown(idx)
		report.Toggled = append(report.Toggled, idx)
	}
	if decoded.HasRandom {
		dst.HighlightRandom(decoded.Random)
		report.Random = decoded.Random
		report.HasRandom = true
	}

	c.logger.Debug("url state applied",
		"filters", report.Filters,
		"toggled", len(report.Toggled),
		"random", report.HasRandom,
		"skipped", len(report.Skipped))
	return report
}
