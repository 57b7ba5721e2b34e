package chart

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

type gridCell struct {
	text string
	// cont marks the trailing half of a wide rune.
	cont bool
}

// Grid is an in-memory Surface. It grows as text is written and renders to plain lines,
// which is how charts are printed when no interactive terminal is available.
type Grid struct {
	cells [][]gridCell
	col   int
	row   int
}

// NewGrid returns an empty grid with the cursor at the origin.
func NewGrid() *Grid {
	return &Grid{}
}

// MoveCursor implements Surface.
func (g *Grid) MoveCursor(col, row int) error {
	if col < 0 || row < 0 {
		return fmt.Errorf("cursor position (%d,%d) is outside the grid", col, row)
	}
	g.col = col
	g.row = row
	return nil
}

// WriteText implements Surface. Wide runes take two cells; zero-width runes attach to the previous cell.
func (g *Grid) WriteText(text string) error {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			if g.col > 0 {
				prev := g.cell(g.col-1, g.row)
				prev.text += string(r)
			}
			continue
		}
		g.put(g.col, g.row, gridCell{text: string(r)})
		if w == 2 {
			g.put(g.col+1, g.row, gridCell{cont: true})
		}
		g.col += w
	}
	return nil
}

// Cell returns the text at a cell, or a space when nothing was drawn there.
func (g *Grid) Cell(col, row int) string {
	if row < 0 || row >= len(g.cells) || col < 0 || col >= len(g.cells[row]) {
		return " "
	}
	c := g.cells[row][col]
	if c.cont {
		return ""
	}
	if c.text == "" {
		return " "
	}
	return c.text
}

// Lines returns each row with trailing blanks trimmed.
func (g *Grid) Lines() []string {
	lines := make([]string, len(g.cells))
	for y, row := range g.cells {
		var b strings.Builder
		for x := range row {
			b.WriteString(g.Cell(x, y))
		}
		lines[y] = strings.TrimRight(b.String(), " ")
	}
	return lines
}

// String joins Lines with newlines.
func (g *Grid) String() string {
	return strings.Join(g.Lines(), "\n")
}

// put stores c, blanking what is left of any wide rune it splits.
func (g *Grid) put(col, row int, c gridCell) {
	cur := *g.cell(col, row)
	if cur.cont && col > 0 {
		g.cells[row][col-1] = gridCell{}
	}
	if !cur.cont && col+1 < len(g.cells[row]) && g.cells[row][col+1].cont {
		g.cells[row][col+1] = gridCell{}
	}
	g.cells[row][col] = c
}

func (g *Grid) cell(col, row int) *gridCell {
	for len(g.cells) <= row {
		g.cells = append(g.cells, nil)
	}
	for len(g.cells[row]) <= col {
		g.cells[row] = append(g.cells[row], gridCell{})
	}
	return &g.cells[row][col]
}

func textWidth(s string) int {
	return runewidth.StringWidth(s)
}
