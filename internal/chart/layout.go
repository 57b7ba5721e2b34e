package chart

import (
	"math/bits"
	"strconv"

	"github.com/mattn/go-runewidth"
)

const minGutterWidth = 4

// GutterWidth returns the width reserved left of the plot for scale labels and ticks.
// The tick column is the last gutter column, so labels never touch the ticks.
func GutterWidth(scale Scale) int {
	width := minGutterWidth
	for _, v := range scale {
		if w := runewidth.StringWidth(strconv.Itoa(v)) + 1; w > width {
			width = w
		}
	}
	return width
}

// TickCounts returns how many ticks are drawn below each scale value.
// Every band gets height/bands ticks and the last band takes the remainder,
// so the counts always sum to height. Values past the last band get none.
// With more bands than rows, the first height bands get one tick each.
func TickCounts(scale Scale, height int) []int {
	counts := make([]int, len(scale))
	if len(scale) == 0 || height <= 0 {
		return counts
	}
	bands := scale.Bands()
	perBand := height / bands
	if perBand == 0 {
		for i := 0; i < height; i++ {
			counts[i] = 1
		}
		return counts
	}
	for i := 0; i < bands; i++ {
		counts[i] = perBand
	}
	counts[bands-1] += height - perBand*bands
	return counts
}

// Spacing returns the column interval between consecutive points.
func Spacing(width, points int) int {
	intervals := points - 1
	if intervals < 1 {
		intervals = 1
	}
	spacing := width / intervals
	if spacing < 1 {
		spacing = 1
	}
	return spacing
}

// PointColumns returns the plot-relative column of each point that fits within width.
// Points past column width are omitted.
func PointColumns(width, points int) []int {
	if width < 0 || points <= 0 {
		return nil
	}
	spacing := Spacing(width, points)
	cols := make([]int, 0, points)
	for tick := 0; tick <= width && len(cols) < points; tick++ {
		if tick%spacing == 0 {
			cols = append(cols, tick)
		}
	}
	return cols
}

// MarkerRow maps a value to a plot row: maxValue lands on row 0 and zero on row height.
// Fractional rows round toward the axis, matching floor(height - value*height/maxValue).
// Values above maxValue clamp to row 0 and values below zero to row height.
func MarkerRow(value, maxValue, height int) int {
	if maxValue <= 0 || height <= 0 || value <= 0 {
		return height
	}
	if value >= maxValue {
		return 0
	}
	// 0 < value < maxValue, so the 128-bit product divided by maxValue is below height.
	hi, lo := bits.Mul64(uint64(value), uint64(height))
	rows, rem := bits.Div64(hi, lo, uint64(maxValue))
	if rem != 0 {
		rows++
	}
	return height - int(rows)
}
