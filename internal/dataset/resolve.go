package dataset

import (
	"github.com/verte-zerg/termplot/internal/chart"
	"github.com/verte-zerg/termplot/internal/model"
)

const (
	defaultBands = 2
	minPlotSize  = 1
	// Room kept right of the plot for the value text of the last point.
	trailingWidth = 4
	// Axis row, label row and the line the cursor parks on.
	footerRows = 3
)

// FitDimensions computes a plot size that fits a screen area of totalWidth x totalHeight cells.
func FitDimensions(totalWidth, totalHeight int, scale chart.Scale) chart.Dimensions {
	width := totalWidth - chart.GutterWidth(scale) - trailingWidth
	if width < minPlotSize {
		width = minPlotSize
	}
	height := totalHeight - footerRows
	if height < minPlotSize {
		height = minPlotSize
	}
	return chart.Dimensions{Width: width, Height: height}
}

// ResolveScale returns the dataset scale, or an automatic one when the dataset has none.
func ResolveScale(ds model.Dataset, bands int) chart.Scale {
	if len(ds.Scale) > 0 {
		return ds.Scale
	}
	if bands <= 0 {
		bands = defaultBands
	}
	return AutoScale(ds.Points, bands)
}

// NewRenderer builds a renderer for ds. Dataset sizes win over cfg sizes.
func NewRenderer(ds model.Dataset, cfg model.ChartConfig) (*chart.Renderer, error) {
	dims := chart.Dimensions{Width: cfg.Width, Height: cfg.Height}
	if ds.Width > 0 {
		dims.Width = ds.Width
	}
	if ds.Height > 0 {
		dims.Height = ds.Height
	}
	return chart.NewWithGlyphs(ds.Points, ResolveScale(ds, cfg.Bands), dims, cfg.Glyphs)
}
