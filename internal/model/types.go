// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/termplot/internal/chart"
)

// Dataset is a chart input: ordered points, a Y scale and an optional plot size.
// Zero Width or Height means the size is resolved at render time.
type Dataset struct {
	Name      string
	Points    []chart.DataPoint
	Scale     chart.Scale
	Width     int
	Height    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Values returns the point values in series order.
func (d Dataset) Values() []int {
	out := make([]int, len(d.Points))
	for i, p := range d.Points {
		out[i] = p.Value
	}
	return out
}

// ChartConfig defines how a dataset is drawn.
type ChartConfig struct {
	Width  int
	Height int
	Bands  int
	Glyphs chart.Glyphs
}
