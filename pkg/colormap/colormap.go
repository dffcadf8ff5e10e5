// Package colormap provides value-to-color mapping policies for the
// relief renderer. The renderer takes a Func by injection; any mapping
// with the same shape can be plugged in, the palettes here are just the
// built-in choices.
package colormap

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Func maps a cell value within a display range to a base color. The
// label is the opaque metric name the host passed into the render call;
// built-in palettes ignore it, custom mappers may key color schemes off
// of it. Implementations must be pure: same inputs, same color.
type Func func(value, minValue, maxValue float64, label string) color.RGBA

// stop anchors a color at a position in [0, 1].
type stop struct {
	pos float64
	col colorful.Color
}

// gradient is a sequence of stops ordered by position.
type gradient []stop

// at returns the gradient color for t in [0, 1], blending between the
// surrounding stops in Luv space for perceptually even transitions.
func (g gradient) at(t float64) colorful.Color {
	for i := 0; i < len(g)-1; i++ {
		c1, c2 := g[i], g[i+1]
		if c1.pos <= t && t <= c2.pos {
			span := c2.pos - c1.pos
			if span <= 0 {
				return c2.col
			}
			return c1.col.BlendLuv(c2.col, (t-c1.pos)/span).Clamped()
		}
	}
	return g[len(g)-1].col
}

// fromGradient wraps a gradient as a Func. Missing (non-finite) values
// never reach a mapper in the fill pass, but a defined fallback keeps
// the Func total: they map to the low end of the gradient.
func fromGradient(g gradient) Func {
	return func(value, minValue, maxValue float64, _ string) color.RGBA {
		r, gr, b := g.at(normalize(value, minValue, maxValue)).RGB255()
		return color.RGBA{R: r, G: gr, B: b, A: 255}
	}
}

// normalize mirrors the renderer's range mapping: clamp into [0, 1],
// treat a collapsed range as width 1 and send non-finite values to the
// low end. Kept local so the package stays a leaf; the grid types
// depend on colormap for export coloring, not the other way around.
func normalize(v, minValue, maxValue float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	span := maxValue - minValue
	if math.Abs(span) < 1e-12 {
		span = 1
	}
	t := (v - minValue) / span
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Thermal is the classic cold-to-hot ramp: blue through green and
// yellow up to red.
var Thermal = fromGradient(gradient{
	{0.00, mustHex("#0000b0")},
	{0.25, mustHex("#00b0b0")},
	{0.50, mustHex("#00c000")},
	{0.75, mustHex("#e0e000")},
	{1.00, mustHex("#d00000")},
})

// Viridis approximates the matplotlib viridis ramp, readable for most
// forms of color blindness.
var Viridis = fromGradient(gradient{
	{0.00, mustHex("#440154")},
	{0.25, mustHex("#3b528b")},
	{0.50, mustHex("#21918c")},
	{0.75, mustHex("#5ec962")},
	{1.00, mustHex("#fde725")},
})

// Grayscale maps low values to dark gray and high values to white.
var Grayscale = fromGradient(gradient{
	{0.00, mustHex("#202020")},
	{1.00, mustHex("#ffffff")},
})

// names lists the built-in palettes in cycling order.
var names = []string{"thermal", "viridis", "grayscale"}

var byName = map[string]Func{
	"thermal":   Thermal,
	"viridis":   Viridis,
	"grayscale": Grayscale,
}

// Names returns the built-in palette names in a stable order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Named returns the built-in palette with the given name, or (nil, false)
// if there is none.
func Named(name string) (Func, bool) {
	f, ok := byName[name]
	return f, ok
}
