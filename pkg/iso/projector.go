// Package iso renders a scalar grid as a shaded isometric surface.
//
// The pipeline is a pure function of its inputs: normalize the grid into
// [0,1] heights, project each cell onto the canvas under a fixed
// isometric transform, split every quad into two triangles, shade each
// triangle against a fixed light, depth-sort back to front and emit the
// ordered draw primitives (filled pass, then wireframe pass).
package iso

import (
	"math"

	"github.com/taigrr/relief/pkg/math3d"
)

// cos30 is the horizontal spread of one isometric cell step.
var cos30 = math.Cos(30 * math.Pi / 180)

// Projector maps (row, col, normalized height) grid coordinates to
// screen positions under a fixed isometric transform. Column steps move
// right-and-down, row steps move left-and-down, and height lifts the
// point toward the top of the canvas.
type Projector struct {
	originX, originY float64
	cellX, cellY     float64
	heightScale      float64
}

// NewProjector sizes the transform so that the full diamond footprint of
// a rows × cols grid fits within the canvas width. The mesh is anchored
// at the horizontal center, a fifth of the way down the canvas.
func NewProjector(rows, cols int, width, height float64) Projector {
	cell := width / float64(cols+rows+2)
	return Projector{
		originX:     width * 0.5,
		originY:     height * 0.2,
		cellX:       cell * cos30,
		cellY:       cell * 0.5,
		heightScale: cell,
	}
}

// Point projects the cell at (row, col) with normalized height t.
func (p Projector) Point(row, col int, t float64) math3d.Vec2 {
	return math3d.Vec2{
		X: p.originX + float64(col-row)*p.cellX,
		Y: p.originY + float64(col+row)*p.cellY - t*p.heightScale,
	}
}
