package iso

import (
	"image/color"
	"math"
	"slices"
	"testing"

	"github.com/taigrr/relief/pkg/colormap"
	"github.com/taigrr/relief/pkg/surface"
)

// mockMapper returns a fixed base color and records the values it saw.
type mockMapper struct {
	base   color.RGBA
	values []float64
	labels []string
}

func (m *mockMapper) mapValue(value, minValue, maxValue float64, label string) color.RGBA {
	m.values = append(m.values, value)
	m.labels = append(m.labels, label)
	return m.base
}

func testFrame(g *surface.Grid) Frame {
	return Frame{
		Grid:     g,
		MinValue: 0,
		MaxValue: 1,
		Label:    "temperature",
		Width:    100,
		Height:   100,
	}
}

func TestRenderSingleQuad(t *testing.T) {
	g, _ := surface.FromRows([][]float64{
		{0, 1},
		{1, 0},
	})
	m := &mockMapper{base: color.RGBA{R: 100, G: 100, B: 100, A: 255}}
	prims := NewRenderer(m.mapValue).Render(testFrame(g))

	// Two triangles, each drawn twice: fill pass then stroke pass.
	if len(prims) != 4 {
		t.Fatalf("primitives = %d, want 4", len(prims))
	}
	for i, p := range prims[:2] {
		if p.Kind != KindFill {
			t.Errorf("primitive %d kind = %v, want fill", i, p.Kind)
		}
	}
	for i, p := range prims[2:] {
		if p.Kind != KindStroke {
			t.Errorf("primitive %d kind = %v, want stroke", i+2, p.Kind)
		}
		if p.Width != strokeWidth {
			t.Errorf("stroke width = %v, want %v", p.Width, strokeWidth)
		}
	}
	// Stroke pass revisits the fills in the same depth order.
	if prims[0].V != prims[2].V || prims[1].V != prims[3].V {
		t.Error("stroke vertices do not match fill vertices in order")
	}
	for _, label := range m.labels {
		if label != "temperature" {
			t.Errorf("mapper saw label %q", label)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	g, _ := surface.FromRows([][]float64{
		{0, 2, 1},
		{3, math.NaN(), 2},
		{1, 4, 0},
	})
	f := Frame{Grid: g, MinValue: 0, MaxValue: 4, Label: "h", Width: 320, Height: 240}

	r := NewRenderer(colormap.Thermal)
	a := r.Render(f)
	b := r.Render(f)
	if !slices.Equal(a, b) {
		t.Error("identical frames produced different primitive lists")
	}

	// A fresh renderer agrees too; nothing leaks between instances.
	c := NewRenderer(colormap.Thermal).Render(f)
	if !slices.Equal(a, c) {
		t.Error("renderer instances disagree on identical frames")
	}
}

func TestRenderDepthOrder(t *testing.T) {
	g := surface.New(4, 4)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			g.SetValue(r, c, float64((r+c)%3))
		}
	}
	m := &mockMapper{base: color.RGBA{R: 128, G: 128, B: 128, A: 255}}
	r := NewRenderer(m.mapValue)
	r.Render(Frame{Grid: g, MinValue: 0, MaxValue: 2, Width: 200, Height: 200})

	for i := 1; i < len(r.tris); i++ {
		if r.tris[i].Depth < r.tris[i-1].Depth {
			t.Fatalf("depth order violated at %d: %v after %v", i, r.tris[i].Depth, r.tris[i-1].Depth)
		}
	}
}

func TestRenderEmptyInputs(t *testing.T) {
	g, _ := surface.FromRows([][]float64{{0, 1}, {1, 0}})
	tests := []struct {
		name string
		f    Frame
	}{
		{"nil grid", Frame{Width: 100, Height: 100}},
		{"empty grid", Frame{Grid: surface.New(0, 0), Width: 100, Height: 100}},
		{"zero width", Frame{Grid: g, MaxValue: 1, Width: 0, Height: 100}},
		{"negative height", Frame{Grid: g, MaxValue: 1, Width: 100, Height: -5}},
	}
	r := NewRenderer(colormap.Thermal)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if prims := r.Render(tc.f); len(prims) != 0 {
				t.Errorf("primitives = %d, want 0", len(prims))
			}
		})
	}
}

func TestRenderSingleCellGrid(t *testing.T) {
	g, _ := surface.FromRows([][]float64{{5}})
	prims := NewRenderer(colormap.Thermal).Render(testFrame(g))
	if len(prims) != 0 {
		t.Errorf("1x1 grid has no quads, got %d primitives", len(prims))
	}
}

func TestRenderAllMissingGrid(t *testing.T) {
	prims := NewRenderer(colormap.Thermal).Render(testFrame(surface.New(3, 3)))
	if len(prims) != 0 {
		t.Errorf("all-NaN grid rendered %d primitives", len(prims))
	}
}

func TestRenderShadingDarkensFill(t *testing.T) {
	g, _ := surface.FromRows([][]float64{
		{0, 1},
		{1, 0},
	})
	m := &mockMapper{base: color.RGBA{R: 200, G: 100, B: 40, A: 255}}
	prims := NewRenderer(m.mapValue).Render(testFrame(g))

	for _, p := range prims {
		if p.Kind != KindFill {
			continue
		}
		if p.Color.A != 255 {
			t.Errorf("fill alpha = %d, want base alpha 255", p.Color.A)
		}
		// Shade can only dim the base, never brighten past it.
		if p.Color.R > 200 || p.Color.G > 100 || p.Color.B > 40 {
			t.Errorf("fill %v brighter than base", p.Color)
		}
		// And never below the floor.
		if float64(p.Color.R) < 200*shadeFloor-1 {
			t.Errorf("fill red %d below shade floor", p.Color.R)
		}
	}
}

func TestRenderStrokeTheme(t *testing.T) {
	g, _ := surface.FromRows([][]float64{
		{0, 1},
		{1, 0},
	})
	r := NewRenderer(colormap.Grayscale)

	f := testFrame(g)
	for _, p := range r.Render(f) {
		if p.Kind == KindStroke && p.Color != strokeOnLight {
			t.Errorf("light stroke = %v, want %v", p.Color, strokeOnLight)
		}
	}
	f.DarkMode = true
	for _, p := range r.Render(f) {
		if p.Kind == KindStroke && p.Color != strokeOnDark {
			t.Errorf("dark stroke = %v, want %v", p.Color, strokeOnDark)
		}
	}
}

func TestRenderDegenerateRange(t *testing.T) {
	g, _ := surface.FromRows([][]float64{
		{5, 5},
		{5, 5},
	})
	f := Frame{Grid: g, MinValue: 5, MaxValue: 5, Width: 100, Height: 100}
	prims := NewRenderer(colormap.Thermal).Render(f)

	if len(prims) != 4 {
		t.Fatalf("primitives = %d, want 4", len(prims))
	}
	for _, p := range prims {
		for _, v := range p.V {
			if math.IsNaN(v.X) || math.IsNaN(v.Y) {
				t.Fatal("degenerate range produced NaN vertex")
			}
		}
	}
}

func TestShadedColor(t *testing.T) {
	tests := []struct {
		name     string
		base     color.RGBA
		shade    float64
		expected color.RGBA
	}{
		{"full shade", color.RGBA{200, 100, 40, 255}, 1.0, color.RGBA{200, 100, 40, 255}},
		{"half shade", color.RGBA{200, 100, 40, 255}, 0.5, color.RGBA{100, 50, 20, 255}},
		{"alpha preserved", color.RGBA{200, 100, 40, 128}, 0.75, color.RGBA{150, 75, 30, 128}},
		{"overflow clamps", color.RGBA{255, 255, 255, 255}, 2.0, color.RGBA{255, 255, 255, 255}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := shadedColor(tc.base, tc.shade); got != tc.expected {
				t.Errorf("shadedColor(%v, %v) = %v, want %v", tc.base, tc.shade, got, tc.expected)
			}
		})
	}
}

func BenchmarkRender(b *testing.B) {
	const n = 64
	g := surface.New(n, n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			g.SetValue(r, c, math.Sin(float64(r)/5)*math.Cos(float64(c)/5))
		}
	}
	f := Frame{Grid: g, MinValue: -1, MaxValue: 1, Width: 1024, Height: 768}
	r := NewRenderer(colormap.Thermal)

	b.ReportAllocs()
	for b.Loop() {
		r.Render(f)
	}
}
