package browse

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/termplot/internal/chart"
	"github.com/verte-zerg/termplot/internal/model"
)

type fakeLister struct {
	datasets []model.Dataset
	err      error
	calls    int
}

func (f *fakeLister) ListDatasets(context.Context) ([]model.Dataset, error) {
	f.calls++
	return f.datasets, f.err
}

func sampleDatasets() []model.Dataset {
	return []model.Dataset{
		{
			Name:   "months",
			Scale:  chart.Scale{100, 50, 0},
			Points: []chart.DataPoint{{Value: 10, Label: "Jan"}, {Value: 50, Label: "Feb"}, {Value: 90, Label: "Mar"}},
		},
		{
			Name:   "weeks",
			Points: []chart.DataPoint{{Value: 3, Label: "W1"}, {Value: 7, Label: "W2"}},
		},
	}
}

func sizedModel(t *testing.T, st Lister) *Model {
	t.Helper()
	m := NewModel(st, model.ChartConfig{Bands: 2, Glyphs: chart.Glyphs{Marker: "o"}})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestViewShowsSelectedDataset(t *testing.T) {
	m := sizedModel(t, &fakeLister{datasets: sampleDatasets()})
	view := m.View()
	for _, want := range []string{"Saved datasets", "months", "weeks", "Jan", "Mar", "Points: 3"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestMovingSelectionRendersOtherDataset(t *testing.T) {
	m := sizedModel(t, &fakeLister{datasets: sampleDatasets()})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	ds, ok := m.selected()
	if !ok || ds.Name != "weeks" {
		t.Fatalf("expected weeks selected, got %+v", ds)
	}
	view := m.View()
	if !strings.Contains(view, "W2") || !strings.Contains(view, "Points: 2") {
		t.Fatalf("expected weeks preview in view:\n%s", view)
	}
}

func TestQuitKeys(t *testing.T) {
	m := sizedModel(t, &fakeLister{})
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("expected quit command for %q", msg.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg for %q", msg.String())
		}
	}
}

func TestReloadAndErrors(t *testing.T) {
	st := &fakeLister{err: errors.New("disk gone")}
	m := sizedModel(t, st)
	if !strings.Contains(m.View(), "disk gone") {
		t.Fatalf("expected load error in view:\n%s", m.View())
	}
	st.err = nil
	st.datasets = sampleDatasets()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if st.calls != 2 {
		t.Fatalf("expected two loads, got %d", st.calls)
	}
	if strings.Contains(m.View(), "disk gone") || !strings.Contains(m.View(), "months") {
		t.Fatalf("expected reloaded datasets in view:\n%s", m.View())
	}
}

func TestRenderDatasetFitsPane(t *testing.T) {
	out := renderDataset(sampleDatasets()[0], model.ChartConfig{Bands: 2}, 40, 12)
	lines := strings.Split(out, "\n")
	if len(lines) > 12 {
		t.Fatalf("expected at most 12 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "100|") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
}

func TestRenderDatasetReportsInvalidData(t *testing.T) {
	ds := model.Dataset{Name: "broken", Scale: chart.Scale{0}, Points: []chart.DataPoint{{Value: 1, Label: "a"}}}
	out := renderDataset(ds, model.ChartConfig{Bands: 2}, 40, 12)
	if !strings.Contains(out, "Cannot draw broken") {
		t.Fatalf("unexpected output %q", out)
	}
}
