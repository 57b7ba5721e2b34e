package chart

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type placed struct {
	col  int
	row  int
	text string
}

// placements folds each move and the writes following it into one positioned text.
func placements(instrs []Instruction) []placed {
	var out []placed
	col, row := 0, 0
	pending := false
	var text strings.Builder
	flush := func() {
		if pending && text.Len() > 0 {
			out = append(out, placed{col: col, row: row, text: text.String()})
		}
		text.Reset()
	}
	for _, in := range instrs {
		switch in.Op {
		case OpMove:
			flush()
			col, row = in.Col, in.Row
			pending = true
		case OpWrite:
			text.WriteString(in.Text)
		}
	}
	flush()
	return out
}

func monthPoints() []DataPoint {
	return []DataPoint{{Value: 10, Label: "Jan"}, {Value: 50, Label: "Feb"}, {Value: 90, Label: "Mar"}}
}

func mustRenderer(t *testing.T, points []DataPoint, scale Scale, dims Dimensions) *Renderer {
	t.Helper()
	r, err := New(points, scale, dims)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func TestRenderYAxisExample(t *testing.T) {
	r := mustRenderer(t, []DataPoint{{Value: 5, Label: "a"}}, Scale{100, 50, 0}, Dimensions{Width: 10, Height: 10})
	var rec Recorder
	cursor, err := r.renderYAxis(&rec)
	if err != nil {
		t.Fatalf("renderYAxis failed: %v", err)
	}
	if cursor != (Cursor{Col: 3, Row: 10}) {
		t.Fatalf("unexpected cursor after y axis: %+v", cursor)
	}

	ticksPerLabel := map[string]int{}
	current := ""
	for _, p := range placements(rec.Instructions) {
		if p.text == "|" {
			if p.col != 3 {
				t.Fatalf("expected tick at column 3, got %d", p.col)
			}
			ticksPerLabel[current]++
			continue
		}
		if p.col != 0 {
			t.Fatalf("expected label %q at column 0, got %d", p.text, p.col)
		}
		current = p.text
	}
	expected := map[string]int{"100": 5, "50": 5}
	if !reflect.DeepEqual(ticksPerLabel, expected) {
		t.Fatalf("unexpected ticks per label: %v", ticksPerLabel)
	}
}

func TestTickCountEqualsHeight(t *testing.T) {
	scales := []Scale{{100, 50, 0}, {90, 60, 30, 0}, {7, 0}, {1000, 500, 250, 125, 0}, {9, 8, 7, 6, 5, 4, 3, 2, 1, 0}}
	for _, scale := range scales {
		for height := 1; height <= 23; height++ {
			r := mustRenderer(t, monthPoints(), scale, Dimensions{Width: 20, Height: height})
			ticks := 0
			for _, p := range placements(r.Plan()) {
				if p.text == "|" {
					ticks++
				}
			}
			if ticks != height {
				t.Fatalf("scale %v height %d: expected %d ticks, got %d", scale, height, height, ticks)
			}
		}
	}
}

func TestRenderMonthsExample(t *testing.T) {
	r := mustRenderer(t, monthPoints(), Scale{100, 50, 0}, Dimensions{Width: 20, Height: 10})
	got := placements(r.Plan())

	var axis placed
	var labels, markers []placed
	for _, p := range got {
		switch {
		case strings.HasPrefix(p.text, "-"):
			axis = p
		case strings.HasPrefix(p.text, "◯"):
			markers = append(markers, p)
		case p.row == 11:
			labels = append(labels, p)
		}
	}
	if axis.text != strings.Repeat("-", 20) || axis.col != 4 || axis.row != 10 {
		t.Fatalf("unexpected axis placement: %+v", axis)
	}
	expectedLabels := []placed{{4, 11, "Jan"}, {14, 11, "Feb"}, {24, 11, "Mar"}}
	if !reflect.DeepEqual(labels, expectedLabels) {
		t.Fatalf("unexpected labels: %+v", labels)
	}
	expectedMarkers := []placed{{4, 9, "◯10"}, {14, 5, "◯50"}, {24, 1, "◯90"}}
	if !reflect.DeepEqual(markers, expectedMarkers) {
		t.Fatalf("unexpected markers: %+v", markers)
	}
}

func TestMarkerRestoresLabelRow(t *testing.T) {
	r := mustRenderer(t, monthPoints(), Scale{100, 50, 0}, Dimensions{Width: 20, Height: 10})
	instrs := r.Plan()
	last := instrs[len(instrs)-1]
	if last != Move(24, 11) {
		t.Fatalf("expected final move back to label row, got %v", last)
	}
}

func TestPointColumnsPlacement(t *testing.T) {
	for n := 1; n <= 12; n++ {
		for width := n - 1; width <= 40; width++ {
			if width == 0 {
				continue
			}
			cols := PointColumns(width, n)
			if len(cols) != n {
				t.Fatalf("n=%d width=%d: expected %d columns, got %v", n, width, n, cols)
			}
			intervals := n - 1
			if intervals < 1 {
				intervals = 1
			}
			for i, col := range cols {
				if col != i*(width/intervals) {
					t.Fatalf("n=%d width=%d: point %d at %d, want %d", n, width, i, col, i*(width/intervals))
				}
			}
		}
	}
}

func TestNarrowWidthOmitsPoints(t *testing.T) {
	points := make([]DataPoint, 10)
	for i := range points {
		points[i] = DataPoint{Value: i, Label: "x"}
	}
	r := mustRenderer(t, points, Scale{10, 0}, Dimensions{Width: 4, Height: 5})
	markers := 0
	for _, p := range placements(r.Plan()) {
		if strings.HasPrefix(p.text, "◯") {
			markers++
		}
	}
	if markers != 5 {
		t.Fatalf("expected 5 markers for width 4, got %d", markers)
	}
}

func TestSinglePointAtOrigin(t *testing.T) {
	r := mustRenderer(t, []DataPoint{{Value: 40, Label: "only"}}, Scale{80, 0}, Dimensions{Width: 12, Height: 8})
	var markers []placed
	for _, p := range placements(r.Plan()) {
		if strings.HasPrefix(p.text, "◯") {
			markers = append(markers, p)
		}
	}
	if len(markers) != 1 || markers[0].col != 4 || markers[0].row != 4 {
		t.Fatalf("unexpected single point marker: %+v", markers)
	}
}

func TestMarkerRowMonotonic(t *testing.T) {
	for _, height := range []int{1, 3, 7, 10, 24} {
		prev := MarkerRow(0, 97, height)
		if prev != height {
			t.Fatalf("expected zero on row %d, got %d", height, prev)
		}
		for v := 1; v <= 97; v++ {
			row := MarkerRow(v, 97, height)
			if row > prev {
				t.Fatalf("height %d: value %d row %d is below value %d row %d", height, v, row, v-1, prev)
			}
			prev = row
		}
		if prev != 0 {
			t.Fatalf("expected max on row 0, got %d", prev)
		}
	}
}

func TestMarkerRowClamps(t *testing.T) {
	if row := MarkerRow(500, 100, 10); row != 0 {
		t.Fatalf("expected values above max to clamp to row 0, got %d", row)
	}
	if row := MarkerRow(-20, 100, 10); row != 10 {
		t.Fatalf("expected negative values to clamp to the axis row, got %d", row)
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	first := mustRenderer(t, monthPoints(), Scale{100, 50, 0}, Dimensions{Width: 20, Height: 10}).Plan()
	second := mustRenderer(t, monthPoints(), Scale{100, 50, 0}, Dimensions{Width: 20, Height: 10}).Plan()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical instruction sequences")
	}
	r := mustRenderer(t, monthPoints(), Scale{100, 50, 0}, Dimensions{Width: 20, Height: 10})
	if !reflect.DeepEqual(r.Plan(), r.Plan()) {
		t.Fatalf("expected repeated renders to match")
	}
}

func TestSingleValueScaleSpansHeight(t *testing.T) {
	r := mustRenderer(t, monthPoints(), Scale{100}, Dimensions{Width: 20, Height: 6})
	var rec Recorder
	cursor, err := r.renderYAxis(&rec)
	if err != nil {
		t.Fatalf("renderYAxis failed: %v", err)
	}
	if cursor.Row != 6 {
		t.Fatalf("expected axis row 6, got %d", cursor.Row)
	}
	ticks := 0
	for _, p := range placements(rec.Instructions) {
		if p.text == "|" {
			ticks++
		}
	}
	if ticks != 6 {
		t.Fatalf("expected 6 ticks, got %d", ticks)
	}
}

func TestWideLabelsWidenGutter(t *testing.T) {
	r := mustRenderer(t, monthPoints(), Scale{10000, 0}, Dimensions{Width: 20, Height: 4})
	for _, p := range placements(r.Plan()) {
		if p.text == "|" && p.col != 5 {
			t.Fatalf("expected tick column 5 for a 5-digit label, got %d", p.col)
		}
	}
}

func TestNewValidates(t *testing.T) {
	cases := []struct {
		name   string
		points []DataPoint
		scale  Scale
		dims   Dimensions
		want   error
	}{
		{"empty scale", monthPoints(), nil, Dimensions{Width: 1, Height: 1}, ErrEmptyScale},
		{"zero max", monthPoints(), Scale{0}, Dimensions{Width: 1, Height: 1}, ErrNonPositiveMax},
		{"zero width", monthPoints(), Scale{10}, Dimensions{Width: 0, Height: 1}, ErrInvalidDimensions},
		{"zero height", monthPoints(), Scale{10}, Dimensions{Width: 1, Height: 0}, ErrInvalidDimensions},
		{"no points", nil, Scale{10}, Dimensions{Width: 1, Height: 1}, ErrNoPoints},
	}
	for _, tc := range cases {
		if _, err := New(tc.points, tc.scale, tc.dims); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestNewCopiesInputs(t *testing.T) {
	points := monthPoints()
	scale := Scale{100, 50, 0}
	r := mustRenderer(t, points, scale, Dimensions{Width: 20, Height: 10})
	before := r.Plan()
	points[0].Label = "changed"
	scale[0] = 1
	if !reflect.DeepEqual(before, r.Plan()) {
		t.Fatalf("renderer output changed after caller mutated its inputs")
	}
}

type failingSurface struct {
	okOps int
	ops   int
}

var errClosed = errors.New("output closed")

func (f *failingSurface) step() error {
	f.ops++
	if f.ops > f.okOps {
		return errClosed
	}
	return nil
}

func (f *failingSurface) MoveCursor(int, int) error { return f.step() }
func (f *failingSurface) WriteText(string) error    { return f.step() }

func TestRenderStopsOnSurfaceError(t *testing.T) {
	r := mustRenderer(t, monthPoints(), Scale{100, 50, 0}, Dimensions{Width: 20, Height: 10})
	total := len(r.Plan())
	for _, ok := range []int{0, 1, 5, total / 2, total - 1} {
		s := &failingSurface{okOps: ok}
		err := r.Render(s)
		if !errors.Is(err, errClosed) {
			t.Fatalf("okOps=%d: expected surface error, got %v", ok, err)
		}
		if s.ops != ok+1 {
			t.Fatalf("okOps=%d: expected render to stop after %d ops, got %d", ok, ok+1, s.ops)
		}
	}
	if err := r.Render(&failingSurface{okOps: total}); err != nil {
		t.Fatalf("expected full render to succeed, got %v", err)
	}
}
