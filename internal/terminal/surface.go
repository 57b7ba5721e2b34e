// Package terminal draws charts on an interactive terminal and reads the keys that end a session.
package terminal

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/x/ansi"
)

// Surface writes chart instructions as ANSI cursor moves and plain text.
// Every call is flushed so a broken output is reported by the call that hit it.
type Surface struct {
	w         *bufio.Writer
	originCol int
	originRow int
}

// NewSurface returns a Surface drawing at the top-left corner of w.
func NewSurface(w io.Writer) *Surface {
	return &Surface{w: bufio.NewWriter(w)}
}

// SetOrigin offsets every later cursor move by the given 0-based cell position.
func (s *Surface) SetOrigin(col, row int) {
	s.originCol = col
	s.originRow = row
}

// MoveCursor positions the cursor at a 0-based cell relative to the origin.
func (s *Surface) MoveCursor(col, row int) error {
	if col < 0 || row < 0 {
		return fmt.Errorf("cursor position (%d,%d) is negative", col, row)
	}
	// CUP is 1-based.
	return s.emit(ansi.CursorPosition(s.originCol+col+1, s.originRow+row+1))
}

// WriteText writes text at the current cursor position.
func (s *Surface) WriteText(text string) error {
	return s.emit(text)
}

// Clear erases the screen and homes the cursor.
func (s *Surface) Clear() error {
	return s.emit(ansi.EraseEntireScreen + ansi.CursorHomePosition)
}

// SetCursorVisible shows or hides the terminal cursor.
func (s *Surface) SetCursorVisible(visible bool) error {
	if visible {
		return s.emit(ansi.ShowCursor)
	}
	return s.emit(ansi.HideCursor)
}

func (s *Surface) emit(seq string) error {
	if _, err := s.w.WriteString(seq); err != nil {
		return err
	}
	return s.w.Flush()
}
