package statecodec

import "errors"

var (
	// ErrInvalidEncoding is returned for values that are not valid
	// guard-prefixed base62 strings.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrInvalidBits is returned when a bit string contains characters other
	// than '0' and '1'.
	ErrInvalidBits = errors.New("invalid bit string")

	// ErrStaleReference is returned when decoded state does not fit the
	// current filter set or registry, usually because the data changed after
	// the URL was shared.
	ErrStaleReference = errors.New("stale reference")

	// ErrClipboardUnavailable reports that a composed URL could not be copied.
	// It never invalidates the URL itself.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
)
