package iso

import (
	"image/color"
	"math"

	"github.com/taigrr/relief/pkg/math3d"
)

// Rasterize draws an ordered primitive list onto the framebuffer. The
// list is already depth-sorted, so primitives are simply executed in
// sequence: later draws paint over earlier ones.
func Rasterize(fb *Framebuffer, prims []Primitive) {
	for _, p := range prims {
		switch p.Kind {
		case KindFill:
			fb.FillTriangle(p.V[0], p.V[1], p.V[2], p.Color)
		case KindStroke:
			strokeTriangle(fb, p.V, p.Color)
		}
	}
}

func strokeTriangle(fb *Framebuffer, v [3]math3d.Vec2, c color.RGBA) {
	fb.DrawLine(int(v[0].X), int(v[0].Y), int(v[1].X), int(v[1].Y), c)
	fb.DrawLine(int(v[1].X), int(v[1].Y), int(v[2].X), int(v[2].Y), c)
	fb.DrawLine(int(v[2].X), int(v[2].Y), int(v[0].X), int(v[0].Y), c)
}

// edgeCoeffs returns the A, B, C coefficients of the edge function
// edge(x,y) = A*x + B*y + C for the directed edge (x0,y0)->(x1,y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (a, b, c float64) {
	a = y0 - y1
	b = x1 - x0
	c = x0*y1 - x1*y0
	return
}

// FillTriangle fills a solid triangle using incremental edge functions.
// There is no winding convention: either orientation fills, since the
// painter's ordering already decided visibility.
func (fb *Framebuffer) FillTriangle(v0, v1, v2 math3d.Vec2, c color.RGBA) {
	// Force counter-clockwise orientation so all edge functions are
	// non-negative inside.
	area2 := (v1.X-v0.X)*(v2.Y-v0.Y) - (v1.Y-v0.Y)*(v2.X-v0.X)
	if area2 == 0 {
		return
	}
	if area2 < 0 {
		v1, v2 = v2, v1
	}

	minX := int(math.Max(0, math.Floor(min3(v0.X, v1.X, v2.X))))
	maxX := int(math.Min(float64(fb.Width-1), math.Ceil(max3(v0.X, v1.X, v2.X))))
	minY := int(math.Max(0, math.Floor(min3(v0.Y, v1.Y, v2.Y))))
	maxY := int(math.Min(float64(fb.Height-1), math.Ceil(max3(v0.Y, v1.Y, v2.Y))))
	if minX > maxX || minY > maxY {
		return
	}

	a0, b0, c0 := edgeCoeffs(v1.X, v1.Y, v2.X, v2.Y)
	a1, b1, c1 := edgeCoeffs(v2.X, v2.Y, v0.X, v0.Y)
	a2, b2, c2 := edgeCoeffs(v0.X, v0.Y, v1.X, v1.Y)

	// Evaluate edge functions at the top-left sample of the bounding
	// box, then step incrementally across the raster.
	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := a0*px + b0*py + c0
	w1Row := a1*px + b1*py + c1
	w2Row := a2*px + b2*py + c2

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				fb.BlendPixel(x, y, c)
			}
			w0 += a0
			w1 += a1
			w2 += a2
		}
		w0Row += b0
		w1Row += b1
		w2Row += b2
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
