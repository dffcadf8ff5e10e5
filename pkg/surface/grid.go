// Package surface provides scalar grid storage and loading for the relief renderer.
package surface

import (
	"fmt"
	"math"
)

// DegenerateRange is the threshold below which a display range is treated
// as collapsed and replaced by a unit range during normalization.
const DegenerateRange = 1e-12

// Grid is a rectangular rows × cols scalar field, stored row-major.
// A cell may hold NaN or ±Inf, meaning "no data"; missing cells are a
// normal state of the grid, not an error.
type Grid struct {
	rows, cols int
	values     []float64
}

// New creates a rows × cols grid with every cell set to NaN (missing).
func New(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	values := make([]float64, rows*cols)
	for i := range values {
		values[i] = math.NaN()
	}
	return &Grid{rows: rows, cols: cols, values: values}
}

// FromRows builds a grid from row slices. Every row must have the same
// length; ragged input is rejected since rectangularity is an invariant
// every consumer of the grid relies on.
func FromRows(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 {
		return New(0, 0), nil
	}
	cols := len(rows[0])
	g := &Grid{
		rows:   len(rows),
		cols:   cols,
		values: make([]float64, 0, len(rows)*cols),
	}
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(row), cols)
		}
		g.values = append(g.values, row...)
	}
	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Value returns the scalar at (row, col). Out-of-range cells read as NaN.
func (g *Grid) Value(row, col int) float64 {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return math.NaN()
	}
	return g.values[row*g.cols+col]
}

// SetValue stores a scalar at (row, col). Out-of-range writes are ignored.
func (g *Grid) SetValue(row, col int, v float64) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	g.values[row*g.cols+col] = v
}

// MinMax returns the smallest and largest finite values in the grid.
// ok is false when no cell holds a finite value.
func (g *Grid) MinMax() (minV, maxV float64, ok bool) {
	minV, maxV = math.Inf(1), math.Inf(-1)
	for _, v := range g.values {
		if !isFinite(v) {
			continue
		}
		ok = true
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if !ok {
		return 0, 0, false
	}
	return minV, maxV, true
}

// Normalize maps v into [0, 1] relative to the display range. ok is false
// for non-finite v, which propagates through the pipeline as a missing
// cell. A collapsed range (|max-min| < DegenerateRange) behaves as if it
// had width 1 so the division is always safe.
func Normalize(v, minValue, maxValue float64) (t float64, ok bool) {
	if !isFinite(v) {
		return 0, false
	}
	span := maxValue - minValue
	if math.Abs(span) < DegenerateRange {
		span = 1.0
	}
	t = (v - minValue) / span
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
