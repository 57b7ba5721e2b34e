package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	columnGap = "  "
	ellipsis  = "…"
)

type column struct {
	title string
	right bool
	// Cells wider than limit are cut with an ellipsis. Zero means unlimited.
	limit int
}

// formatTable lays rows out under cols, sized by terminal cell width.
func formatTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	cells := make([][]string, 0, len(rows)+1)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.title
	}
	cells = append(cells, header)
	for _, row := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			if i < len(row) {
				line[i] = clip(row[i], c.limit)
			}
		}
		cells = append(cells, line)
	}

	widths := make([]int, len(cols))
	for _, line := range cells {
		for i, cell := range line {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	lines := make([]string, 0, len(cells))
	for _, line := range cells {
		parts := make([]string, len(cols))
		for i, cell := range line {
			if cols[i].right {
				parts[i] = runewidth.FillLeft(cell, widths[i])
			} else {
				parts[i] = runewidth.FillRight(cell, widths[i])
			}
		}
		lines = append(lines, strings.TrimRight(strings.Join(parts, columnGap), " "))
	}
	return lines
}

func clip(value string, limit int) string {
	if limit <= 0 || runewidth.StringWidth(value) <= limit {
		return value
	}
	return runewidth.Truncate(value, limit, ellipsis)
}
