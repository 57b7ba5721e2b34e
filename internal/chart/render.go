package chart

import (
	"fmt"
	"strconv"
	"strings"
)

// Renderer draws one chart. It owns copies of its inputs and keeps no state between renders.
type Renderer struct {
	points []DataPoint
	scale  Scale
	dims   Dimensions
	glyphs Glyphs
}

// New validates the inputs and returns a renderer using the default glyphs.
func New(points []DataPoint, scale Scale, dims Dimensions) (*Renderer, error) {
	return NewWithGlyphs(points, scale, dims, DefaultGlyphs())
}

// NewWithGlyphs is New with a custom glyph set. Empty glyphs fall back to the defaults.
func NewWithGlyphs(points []DataPoint, scale Scale, dims Dimensions, glyphs Glyphs) (*Renderer, error) {
	if len(scale) == 0 {
		return nil, ErrEmptyScale
	}
	if scale.Max() <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNonPositiveMax, scale.Max())
	}
	if dims.Width <= 0 || dims.Height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, dims.Width, dims.Height)
	}
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	return &Renderer{
		points: append([]DataPoint(nil), points...),
		scale:  append(Scale(nil), scale...),
		dims:   dims,
		glyphs: glyphs.withDefaults(),
	}, nil
}

// Dimensions returns the plot area the renderer was built with.
func (r *Renderer) Dimensions() Dimensions {
	return r.dims
}

// Bounds returns the number of columns and rows the full chart may occupy,
// including the gutter, the label row and the text trailing the last point.
func (r *Renderer) Bounds() (cols, rows int) {
	gutter := GutterWidth(r.scale)
	cols = gutter + r.dims.Width
	placed := PointColumns(r.dims.Width, len(r.points))
	for i, col := range placed {
		p := r.points[i]
		end := gutter + col + maxInt(textWidth(p.Label), textWidth(r.glyphs.Marker)+textWidth(strconv.Itoa(p.Value)))
		if end > cols {
			cols = end
		}
	}
	return cols, r.dims.Height + 2
}

// Render draws the Y axis then the X axis and data points. The first surface error aborts the pass.
func (r *Renderer) Render(s Surface) error {
	cursor, err := r.renderYAxis(s)
	if err != nil {
		return err
	}
	return r.renderXAxis(s, cursor)
}

// Plan returns the instruction sequence Render would emit.
func (r *Renderer) Plan() []Instruction {
	var rec Recorder
	// Recorder never fails.
	_ = r.Render(&rec)
	return rec.Instructions
}

func (r *Renderer) renderYAxis(s Surface) (Cursor, error) {
	tickCol := GutterWidth(r.scale) - 1
	counts := TickCounts(r.scale, r.dims.Height)
	row := 0
	for i, value := range r.scale {
		if err := draw(s, 0, row, strconv.Itoa(value)); err != nil {
			return Cursor{}, err
		}
		for t := 0; t < counts[i]; t++ {
			if err := draw(s, tickCol, row, r.glyphs.Tick); err != nil {
				return Cursor{}, err
			}
			row++
		}
	}
	return Cursor{Col: tickCol, Row: row}, nil
}

func (r *Renderer) renderXAxis(s Surface, cursor Cursor) error {
	left := cursor.Col + 1
	axisRow := cursor.Row
	labelRow := axisRow + 1
	if err := draw(s, left, axisRow, strings.Repeat(r.glyphs.Axis, r.dims.Width)); err != nil {
		return err
	}

	maxValue := r.scale.Max()
	for i, tick := range PointColumns(r.dims.Width, len(r.points)) {
		p := r.points[i]
		col := left + tick
		if err := draw(s, col, labelRow, p.Label); err != nil {
			return err
		}
		if err := draw(s, col, MarkerRow(p.Value, maxValue, r.dims.Height), r.glyphs.Marker, strconv.Itoa(p.Value)); err != nil {
			return err
		}
		if err := s.MoveCursor(col, labelRow); err != nil {
			return fmt.Errorf("failed to move cursor to (%d,%d): %w", col, labelRow, err)
		}
	}
	return nil
}

func draw(s Surface, col, row int, texts ...string) error {
	if err := s.MoveCursor(col, row); err != nil {
		return fmt.Errorf("failed to move cursor to (%d,%d): %w", col, row, err)
	}
	for _, text := range texts {
		if err := s.WriteText(text); err != nil {
			return fmt.Errorf("failed to write %q at (%d,%d): %w", text, col, row, err)
		}
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
