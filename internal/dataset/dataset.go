// Package dataset loads chart inputs from files and command-line arguments.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/termplot/internal/chart"
	"github.com/verte-zerg/termplot/internal/model"
)

type fileDataset struct {
	Name   string      `toml:"name"`
	Scale  []int       `toml:"scale"`
	Width  int         `toml:"width"`
	Height int         `toml:"height"`
	Points []filePoint `toml:"points"`
}

type filePoint struct {
	Label string `toml:"label"`
	Value int    `toml:"value"`
}

// LoadFile reads a dataset. Files ending in .toml are decoded as TOML,
// anything else as one "label value" pair per line.
func LoadFile(path string) (model.Dataset, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return LoadTOML(path)
	}
	file, err := os.Open(path)
	if err != nil {
		return model.Dataset{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only dataset.
			_ = cerr
		}
	}()
	ds, err := ReadLines(file)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	ds.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ds, nil
}

// LoadTOML decodes a TOML dataset file.
func LoadTOML(path string) (model.Dataset, error) {
	var raw fileDataset
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return model.Dataset{}, fmt.Errorf("failed to decode dataset: %w", err)
	}
	if len(raw.Points) == 0 {
		return model.Dataset{}, fmt.Errorf("%s: dataset has no points", path)
	}
	ds := model.Dataset{
		Name:   raw.Name,
		Scale:  chart.Scale(raw.Scale),
		Width:  raw.Width,
		Height: raw.Height,
		Points: make([]chart.DataPoint, 0, len(raw.Points)),
	}
	if ds.Name == "" {
		ds.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	for _, p := range raw.Points {
		ds.Points = append(ds.Points, chart.DataPoint{Value: p.Value, Label: p.Label})
	}
	return ds, nil
}

// ReadLines parses one point per line. The last field is the value and the rest is the label.
// Blank lines and lines starting with # are skipped.
func ReadLines(r io.Reader) (model.Dataset, error) {
	var ds model.Dataset
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return model.Dataset{}, fmt.Errorf("line %d: expected \"label value\", got %q", lineNo, line)
		}
		value, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			return model.Dataset{}, fmt.Errorf("line %d: invalid value %q", lineNo, fields[len(fields)-1])
		}
		ds.Points = append(ds.Points, chart.DataPoint{
			Value: value,
			Label: strings.Join(fields[:len(fields)-1], " "),
		})
	}
	if err := scanner.Err(); err != nil {
		return model.Dataset{}, err
	}
	if len(ds.Points) == 0 {
		return model.Dataset{}, fmt.Errorf("dataset has no points")
	}
	return ds, nil
}

// ParseArgs parses "label=value" arguments in order.
func ParseArgs(args []string) ([]chart.DataPoint, error) {
	points := make([]chart.DataPoint, 0, len(args))
	for _, arg := range args {
		idx := strings.LastIndex(arg, "=")
		if idx < 0 {
			return nil, fmt.Errorf("invalid point %q (expected label=value)", arg)
		}
		value, err := strconv.Atoi(strings.TrimSpace(arg[idx+1:]))
		if err != nil {
			return nil, fmt.Errorf("invalid value in %q: %w", arg, err)
		}
		points = append(points, chart.DataPoint{Value: value, Label: strings.TrimSpace(arg[:idx])})
	}
	return points, nil
}

// AutoScale builds an evenly spaced scale from the largest value down to zero.
// The top is rounded up so every band covers the same whole number of units.
func AutoScale(points []chart.DataPoint, bands int) chart.Scale {
	if bands <= 0 {
		bands = 2
	}
	maxValue := 0
	for _, p := range points {
		if p.Value > maxValue {
			maxValue = p.Value
		}
	}
	step := (maxValue + bands - 1) / bands
	if step < 1 {
		step = 1
	}
	scale := make(chart.Scale, 0, bands+1)
	for i := bands; i >= 0; i-- {
		scale = append(scale, i*step)
	}
	return scale
}
