// Package generator builds sample datasets for demos.
package generator

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/verte-zerg/termplot/internal/chart"
)

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Generator produces randomized sample series.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator whose output is fixed by seed.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate returns count points labelled by month, following a random walk within [0, maxValue].
func (g *Generator) Generate(count, maxValue int) []chart.DataPoint {
	if count <= 0 || maxValue <= 0 {
		return nil
	}
	step := maxValue / 4
	if step < 1 {
		step = 1
	}
	value := g.rnd.Intn(maxValue + 1)
	result := make([]chart.DataPoint, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, chart.DataPoint{Value: value, Label: MonthLabel(i)})
		value = clamp(value+g.rnd.Intn(2*step+1)-step, 0, maxValue)
	}
	return result
}

// MonthLabel names the i-th point: Jan..Dec, then Jan2..Dec2 and so on.
func MonthLabel(i int) string {
	name := monthNames[i%len(monthNames)]
	if cycle := i / len(monthNames); cycle > 0 {
		return name + strconv.Itoa(cycle+1)
	}
	return name
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
