// Package chart lays out a two-axis point chart on a character grid.
package chart

import (
	"errors"
	"strconv"
)

// DataPoint is a single labelled value on the X series.
type DataPoint struct {
	Value int
	Label string
}

// Scale lists Y-axis tick values from the top (largest) to the bottom.
type Scale []int

// Max returns the normalization maximum, the first scale value.
func (s Scale) Max() int {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

// Bands returns how many tick bands subdivide the plot height.
// A single-value scale is one band spanning the full height.
func (s Scale) Bands() int {
	if len(s) <= 1 {
		return 1
	}
	return len(s) - 1
}

// Dimensions is the plotting area in cells, excluding the gutter and label row.
type Dimensions struct {
	Width  int
	Height int
}

// Glyphs holds the text drawn for ticks, the axis line and markers.
type Glyphs struct {
	Tick   string
	Axis   string
	Marker string
}

// Glyphs used when none is configured.
const (
	DefaultTick   = "|"
	DefaultAxis   = "-"
	DefaultMarker = "◯"
)

// DefaultGlyphs returns the glyph set used when none is configured.
func DefaultGlyphs() Glyphs {
	return Glyphs{Tick: DefaultTick, Axis: DefaultAxis, Marker: DefaultMarker}
}

func (g Glyphs) withDefaults() Glyphs {
	def := DefaultGlyphs()
	if g.Tick == "" {
		g.Tick = def.Tick
	}
	if g.Axis == "" {
		g.Axis = def.Axis
	}
	if g.Marker == "" {
		g.Marker = def.Marker
	}
	return g
}

// Op identifies a draw instruction kind.
type Op int

const (
	OpMove Op = iota
	OpWrite
)

// Instruction is one step of the draw sequence.
type Instruction struct {
	Op   Op
	Col  int
	Row  int
	Text string
}

// Move returns a cursor move instruction.
func Move(col, row int) Instruction {
	return Instruction{Op: OpMove, Col: col, Row: row}
}

// Write returns a text write instruction.
func Write(text string) Instruction {
	return Instruction{Op: OpWrite, Text: text}
}

func (in Instruction) String() string {
	if in.Op == OpMove {
		return "move(" + strconv.Itoa(in.Col) + "," + strconv.Itoa(in.Row) + ")"
	}
	return "write(" + strconv.Quote(in.Text) + ")"
}

// Cursor is the position handed from the Y-axis pass to the X-axis pass.
type Cursor struct {
	Col int
	Row int
}

var (
	ErrEmptyScale        = errors.New("scale must contain at least one value")
	ErrNonPositiveMax    = errors.New("first scale value must be greater than zero")
	ErrInvalidDimensions = errors.New("width and height must be greater than zero")
	ErrNoPoints          = errors.New("at least one data point is required")
)
