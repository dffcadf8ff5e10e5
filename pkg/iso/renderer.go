package iso

import (
	"cmp"
	"image/color"
	"math"
	"slices"

	"github.com/taigrr/relief/pkg/colormap"
	"github.com/taigrr/relief/pkg/math3d"
	"github.com/taigrr/relief/pkg/surface"
)

// PrimitiveKind distinguishes the two draw passes.
type PrimitiveKind uint8

const (
	// KindFill is a solid shaded triangle.
	KindFill PrimitiveKind = iota
	// KindStroke is a triangle outline from the wireframe overlay.
	KindStroke
)

// Primitive is one ordered draw command for the host's 2D surface.
type Primitive struct {
	Kind  PrimitiveKind
	V     [3]math3d.Vec2
	Color color.RGBA
	Width float64
}

// Frame carries every input of one render call. The dark-mode flag is
// an explicit parameter rather than ambient theme state so two frames
// with equal fields always produce equal output.
type Frame struct {
	Grid               *surface.Grid
	MinValue, MaxValue float64
	Label              string
	Width, Height      float64
	DarkMode           bool
}

// Wireframe stroke styling for the overlay pass.
const strokeWidth = 1.0

var (
	strokeOnLight = color.RGBA{R: 0, G: 0, B: 0, A: 48}
	strokeOnDark  = color.RGBA{R: 255, G: 255, B: 255, A: 48}
)

// Renderer converts frames into ordered draw primitives. It keeps only
// reusable scratch buffers between calls; every render recomputes the
// full pipeline from the frame alone, so calls with identical frames
// yield identical primitive lists.
type Renderer struct {
	mapper colormap.Func

	cells []cell
	tris  []Triangle
}

// NewRenderer creates a renderer around the injected color mapper.
func NewRenderer(mapper colormap.Func) *Renderer {
	return &Renderer{mapper: mapper}
}

// Render runs the full pipeline for one frame and returns the ordered
// primitive list: all filled triangles back to front, then the
// wireframe overlay in the same order. An empty grid or a non-positive
// canvas dimension yields an empty list, never an error.
func (r *Renderer) Render(f Frame) []Primitive {
	if f.Grid == nil || f.Grid.Rows() == 0 || f.Grid.Cols() == 0 ||
		f.Width <= 0 || f.Height <= 0 {
		return nil
	}

	rows, cols := f.Grid.Rows(), f.Grid.Cols()
	if math.Abs(f.MaxValue-f.MinValue) < surface.DegenerateRange {
		Logger().Debug("degenerate display range, using unit span",
			"min", f.MinValue, "max", f.MaxValue)
	}

	// Normalize and project every cell in one sweep.
	proj := NewProjector(rows, cols, f.Width, f.Height)
	r.cells = resize(r.cells, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			t, ok := surface.Normalize(f.Grid.Value(row, col), f.MinValue, f.MaxValue)
			cl := cell{t: t, ok: ok}
			if ok {
				cl.pt = proj.Point(row, col, t)
			}
			r.cells[row*cols+col] = cl
		}
	}

	var dropped int
	r.tris, dropped = buildMesh(r.tris[:0], f.Grid, r.cells, cols)
	if dropped > 0 {
		Logger().Debug("triangles dropped over missing cells",
			"dropped", dropped, "kept", len(r.tris))
	}

	// Painter's algorithm: back to front by depth key. The sort is
	// stable so the row-major build order breaks any remaining ties.
	slices.SortStableFunc(r.tris, func(a, b Triangle) int {
		return cmp.Compare(a.Depth, b.Depth)
	})

	stroke := strokeOnLight
	if f.DarkMode {
		stroke = strokeOnDark
	}

	prims := make([]Primitive, 0, 2*len(r.tris))
	for _, tri := range r.tris {
		prims = append(prims, Primitive{
			Kind:  KindFill,
			V:     tri.V,
			Color: shadedColor(r.mapper(tri.Value, f.MinValue, f.MaxValue, f.Label), tri.Shade),
		})
	}
	for _, tri := range r.tris {
		prims = append(prims, Primitive{
			Kind:  KindStroke,
			V:     tri.V,
			Color: stroke,
			Width: strokeWidth,
		})
	}
	return prims
}

// shadedColor scales the base color's R/G/B channels by the shade
// factor, clamped to [0, 255]. Alpha passes through untouched.
func shadedColor(base color.RGBA, shade float64) color.RGBA {
	return color.RGBA{
		R: clamp255(float64(base.R) * shade),
		G: clamp255(float64(base.G) * shade),
		B: clamp255(float64(base.B) * shade),
		A: base.A,
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func resize(s []cell, n int) []cell {
	if cap(s) < n {
		return make([]cell, n)
	}
	return s[:n]
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
