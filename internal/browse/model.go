// Package browse provides the Bubble Tea browser for saved datasets.
package browse

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/termplot/internal/chart"
	"github.com/verte-zerg/termplot/internal/dataset"
	"github.com/verte-zerg/termplot/internal/model"
	"github.com/verte-zerg/termplot/internal/stats"
)

// Lister is the part of the store the browser reads from.
type Lister interface {
	ListDatasets(ctx context.Context) ([]model.Dataset, error)
}

const (
	listWidth  = 30
	paneGap    = 2
	headerRows = 2
	footerRows = 1
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	paneStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// Model implements the Bubble Tea dataset browser.
type Model struct {
	store Lister
	cfg   model.ChartConfig

	datasets []model.Dataset
	errMsg   string

	list    table.Model
	preview viewport.Model

	width  int
	height int
}

// NewModel constructs a browser model and loads the saved datasets.
func NewModel(st Lister, cfg model.ChartConfig) *Model {
	m := &Model{
		store:   st,
		cfg:     cfg,
		list:    buildList(nil, 1),
		preview: viewport.New(0, 0),
	}
	m.list.Focus()
	m.reload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderPreview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "r":
			m.reload()
			return m, nil
		case "pgdown", "J":
			m.preview.ScrollDown(1)
			return m, nil
		case "pgup", "K":
			m.preview.ScrollUp(1)
			return m, nil
		}
		before := m.list.Cursor()
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		if m.list.Cursor() != before {
			m.renderPreview()
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := titleStyle.Render("Saved datasets") + "\n" + headerStyle.Render(m.selectedTitle())
	left := paneStyle.Render(m.list.View())
	right := paneStyle.Render(m.preview.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", paneGap), right)
	footer := headerStyle.Render("Select: up/down  Scroll: pgup/pgdn  Reload: r  Quit: q")
	if m.errMsg != "" {
		footer = errorStyle.Render(m.errMsg)
	}
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) reload() {
	datasets, err := m.store.ListDatasets(context.Background())
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load datasets: %v", err)
		m.datasets = nil
	} else {
		m.errMsg = ""
		m.datasets = datasets
	}
	m.list.SetRows(listRows(m.datasets))
	if m.list.Cursor() >= len(m.datasets) {
		m.list.SetCursor(0)
	}
	m.renderPreview()
}

func (m *Model) updateLayout() {
	_, bodyHeight := m.paneSize()
	m.list.SetHeight(maxInt(1, bodyHeight-1))
	m.list.SetWidth(listWidth)
	previewWidth, previewHeight := m.previewSize()
	m.preview.Width = previewWidth
	m.preview.Height = previewHeight
}

// paneSize returns the inner size available to both panes.
func (m *Model) paneSize() (width, height int) {
	frameW, frameH := paneStyle.GetFrameSize()
	height = m.height - headerRows - footerRows - frameH
	width = m.width - frameW
	return maxInt(1, width), maxInt(1, height)
}

func (m *Model) previewSize() (width, height int) {
	frameW, _ := paneStyle.GetFrameSize()
	_, height = m.paneSize()
	width = m.width - listWidth - 2*frameW - paneGap
	return maxInt(1, width), height
}

func (m *Model) selected() (model.Dataset, bool) {
	idx := m.list.Cursor()
	if idx < 0 || idx >= len(m.datasets) {
		return model.Dataset{}, false
	}
	return m.datasets[idx], true
}

func (m *Model) selectedTitle() string {
	ds, ok := m.selected()
	if !ok {
		return "No dataset selected."
	}
	return fmt.Sprintf("%s  scale=%s  updated=%s", ds.Name, stats.FormatScale(ds.Scale), ds.UpdatedAt.Local().Format("2006-01-02 15:04"))
}

func (m *Model) renderPreview() {
	ds, ok := m.selected()
	if !ok {
		m.preview.SetContent("No saved datasets. Save one with: termplot save NAME --file data.toml")
		return
	}
	width, height := m.previewSize()
	m.preview.SetContent(renderDataset(ds, m.cfg, width, height))
	m.preview.GotoTop()
}

// renderDataset draws ds on a grid sized to the preview pane unless the dataset fixes its own size.
func renderDataset(ds model.Dataset, cfg model.ChartConfig, width, height int) string {
	// One line is kept for the summary.
	fit := dataset.FitDimensions(width, height-1, dataset.ResolveScale(ds, cfg.Bands))
	cfg.Width = fit.Width
	cfg.Height = fit.Height
	r, err := dataset.NewRenderer(ds, cfg)
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("Cannot draw %s: %v", ds.Name, err))
	}
	grid := chart.NewGrid()
	if err := r.Render(grid); err != nil {
		return errorStyle.Render(fmt.Sprintf("Failed to draw %s: %v", ds.Name, err))
	}
	var buf bytes.Buffer
	if err := stats.RenderSummary(&buf, ds); err != nil {
		return grid.String()
	}
	return grid.String() + "\n" + strings.TrimRight(buf.String(), "\n")
}

func buildList(datasets []model.Dataset, height int) table.Model {
	t := table.New(
		table.WithColumns(listColumns()),
		table.WithRows(listRows(datasets)),
		table.WithHeight(height),
	)
	t.SetWidth(listWidth)
	t.SetStyles(listStyles())
	return t
}

func listColumns() []table.Column {
	return []table.Column{
		{Title: "Name", Width: 18},
		{Title: "Points", Width: 8},
	}
}

func listRows(datasets []model.Dataset) []table.Row {
	rows := make([]table.Row, 0, len(datasets))
	for _, ds := range datasets {
		rows = append(rows, table.Row{ds.Name, strconv.Itoa(len(ds.Points))})
	}
	return rows
}

func listStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#C89A3A")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
