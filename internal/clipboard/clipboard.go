// Package clipboard writes share links to the desktop clipboard.
package clipboard

import (
	"context"
	"fmt"

	atotto "github.com/atotto/clipboard"

	"github.com/kylescorner/corner/internal/statecodec"
)

// System copies text to the desktop clipboard.
type System struct {
	write       func(string) error
	unsupported bool
}

// New returns a System backed by the platform clipboard: pbcopy on macOS,
// the Windows clipboard API, and xclip, xsel or wl-copy elsewhere.
func New() *System {
	return &System{write: atotto.WriteAll, unsupported: atotto.Unsupported}
}

// WriteText implements statecodec.Clipboard. Every failure wraps
// statecodec.ErrClipboardUnavailable. The copy is abandoned, not killed,
// when ctx ends first.
func (s *System) WriteText(ctx context.Context, text string) error {
	if s.unsupported || s.write == nil {
		return fmt.Errorf("%w: no clipboard utility found", statecodec.ErrClipboardUnavailable)
	}

	done := make(chan error, 1)
	go func() { done <- s.write(text) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", statecodec.ErrClipboardUnavailable, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", statecodec.ErrClipboardUnavailable, ctx.Err())
	}
}
