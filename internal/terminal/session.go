package terminal

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

// Session owns the terminal in raw mode for one chart.
// Open acquires it; Close restores it and must run on every exit path.
type Session struct {
	in      *os.File
	out     *os.File
	state   *term.State
	surface *Surface
	parkRow int
	closed  bool
}

// Open switches in to raw mode, clears out and hides the cursor.
func Open(in, out *os.File) (*Session, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	s := &Session{
		in:      in,
		out:     out,
		state:   state,
		surface: NewSurface(out),
	}
	if err := s.surface.Clear(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to clear screen: %w", err)
	}
	if err := s.surface.SetCursorVisible(false); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to hide cursor: %w", err)
	}
	return s, nil
}

// Surface returns the drawing surface bound to the session output.
func (s *Session) Surface() *Surface {
	return s.surface
}

// ParkAt sets the 0-based row the cursor is left on when the session closes.
func (s *Session) ParkAt(row int) {
	s.parkRow = row
}

// Close shows the cursor, parks it below the chart and restores the terminal mode.
// It is safe to call more than once; the mode is restored even when the output is broken.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var firstErr error
	if err := s.surface.MoveCursor(0, s.parkRow); err != nil {
		firstErr = err
	}
	if err := s.surface.SetCursorVisible(true); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := term.Restore(int(s.in.Fd()), s.state); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to restore terminal: %w", err)
	}
	return firstErr
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Size returns the terminal size of f, or 80x24 when it cannot be read.
func Size(f *os.File) (width, height int) {
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return fallbackWidth, fallbackHeight
	}
	return w, h
}
