package iso

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestProjectorOrigin(t *testing.T) {
	p := NewProjector(2, 2, 100, 100)
	pt := p.Point(0, 0, 0)
	if !near(pt.X, 50) || !near(pt.Y, 20) {
		t.Errorf("Point(0,0,0) = (%v, %v), want (50, 20)", pt.X, pt.Y)
	}
}

func TestProjectorSteps(t *testing.T) {
	p := NewProjector(2, 2, 100, 100)
	cell := 100.0 / 6.0
	origin := p.Point(0, 0, 0)

	// A column step moves right and down by one projected cell.
	c := p.Point(0, 1, 0)
	if !near(c.X-origin.X, cell*cos30) || !near(c.Y-origin.Y, cell*0.5) {
		t.Errorf("col step = (%v, %v), want (%v, %v)",
			c.X-origin.X, c.Y-origin.Y, cell*cos30, cell*0.5)
	}

	// A row step mirrors it: left and down.
	r := p.Point(1, 0, 0)
	if !near(r.X-origin.X, -cell*cos30) || !near(r.Y-origin.Y, cell*0.5) {
		t.Errorf("row step = (%v, %v), want (%v, %v)",
			r.X-origin.X, r.Y-origin.Y, -cell*cos30, cell*0.5)
	}

	// Height lifts straight up by one cell per unit of t.
	h := p.Point(0, 0, 1)
	if !near(h.X, origin.X) || !near(origin.Y-h.Y, cell) {
		t.Errorf("height lift = (%v, %v), want (0, %v)", h.X-origin.X, origin.Y-h.Y, cell)
	}
}

func TestProjectorDiamondFitsWidth(t *testing.T) {
	const rows, cols = 10, 15
	const width, height = 640.0, 480.0
	p := NewProjector(rows, cols, width, height)

	left := p.Point(rows-1, 0, 0)
	right := p.Point(0, cols-1, 0)
	if left.X < 0 || right.X > width {
		t.Errorf("diamond extremes (%v, %v) spill outside [0, %v]", left.X, right.X, width)
	}
}
