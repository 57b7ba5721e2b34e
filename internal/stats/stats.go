// Package stats summarizes datasets and formats dataset listings.
package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/termplot/internal/model"
)

const (
	sparkChars    = " .:-=+*#%@"
	maxNameWidth  = 24
	maxTrendWidth = 32
)

// Summary describes the values of a dataset.
type Summary struct {
	Count int
	Min   int
	Max   int
	Mean  float64
}

// Summarize computes count, min, max and mean of values.
func Summarize(values []int) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{Count: len(values), Min: values[0], Max: values[0]}
	var sum float64
	for _, v := range values {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		sum += float64(v)
	}
	s.Mean = sum / float64(len(values))
	return s
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []int) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := float64(v-minVal) / float64(maxVal-minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a one-line summary for a dataset.
func RenderSummary(w io.Writer, ds model.Dataset) error {
	s := Summarize(ds.Values())
	if s.Count == 0 {
		_, err := fmt.Fprintln(w, "No points.")
		return err
	}
	_, err := fmt.Fprintf(w, "Points: %d  Min: %d  Max: %d  Mean: %.2f\n", s.Count, s.Min, s.Max, s.Mean)
	return err
}

// RenderList prints a table of saved datasets.
func RenderList(w io.Writer, datasets []model.Dataset) error {
	if len(datasets) == 0 {
		_, err := fmt.Fprintln(w, "No saved datasets.")
		return err
	}
	cols := []column{
		{title: "Name", limit: maxNameWidth},
		{title: "Points", right: true},
		{title: "Min", right: true},
		{title: "Max", right: true},
		{title: "Mean", right: true},
		{title: "Scale"},
		{title: "Trend", limit: maxTrendWidth},
		{title: "Updated"},
	}
	rows := make([][]string, 0, len(datasets))
	for _, ds := range datasets {
		s := Summarize(ds.Values())
		rows = append(rows, []string{
			ds.Name,
			strconv.Itoa(s.Count),
			strconv.Itoa(s.Min),
			strconv.Itoa(s.Max),
			fmt.Sprintf("%.2f", s.Mean),
			FormatScale(ds.Scale),
			Sparkline(ds.Values()),
			ds.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	for _, line := range formatTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatScale joins scale values with commas, or "auto" when there are none.
func FormatScale(scale []int) string {
	if len(scale) == 0 {
		return "auto"
	}
	parts := make([]string, len(scale))
	for i, v := range scale {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
