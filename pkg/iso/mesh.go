package iso

import (
	"github.com/taigrr/relief/pkg/math3d"
	"github.com/taigrr/relief/pkg/surface"
)

// Triangle is one face of the isometric surface mesh: projected screen
// vertices, the representative scalar value used for coloring, the flat
// shade factor and the painter's-algorithm depth key.
type Triangle struct {
	V     [3]math3d.Vec2
	Value float64
	Shade float64
	Depth float64
}

// cell holds the per-cell intermediate state of one render pass.
type cell struct {
	t  float64
	pt math3d.Vec2
	ok bool
}

// lowerDepthBias pushes a quad's lower triangle behind its upper one so
// the two faces of a quad never tie in the depth sort.
const lowerDepthBias = 0.2

// buildMesh splits every grid quad into two triangles along a fixed
// diagonal and appends the renderable ones to tris. A triangle is kept
// only when all three of its screen positions are defined; its value is
// the mean of the finite subset of the three source values. Returns the
// extended slice and the number of candidates dropped over missing data.
func buildMesh(tris []Triangle, g *surface.Grid, cells []cell, cols int) ([]Triangle, int) {
	rows := len(cells) / cols
	dropped := 0

	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			// Upper triangle: (r,c), (r,c+1), (r+1,c).
			tri, ok := makeTriangle(g, cells, cols,
				[3][2]int{{r, c}, {r, c + 1}, {r + 1, c}},
				float64(r+c))
			if ok {
				tris = append(tris, tri)
			} else {
				dropped++
			}

			// Lower triangle: (r+1,c+1), (r+1,c), (r,c+1).
			tri, ok = makeTriangle(g, cells, cols,
				[3][2]int{{r + 1, c + 1}, {r + 1, c}, {r, c + 1}},
				float64(r+c)+lowerDepthBias)
			if ok {
				tris = append(tris, tri)
			} else {
				dropped++
			}
		}
	}

	return tris, dropped
}

// makeTriangle assembles one candidate triangle from three grid cells.
func makeTriangle(g *surface.Grid, cells []cell, cols int, corners [3][2]int, depth float64) (Triangle, bool) {
	var tri Triangle
	var logical [3]math3d.Vec3
	sum := 0.0
	finite := 0

	for i, rc := range corners {
		cl := cells[rc[0]*cols+rc[1]]
		if !cl.ok {
			return Triangle{}, false
		}
		tri.V[i] = cl.pt
		logical[i] = math3d.V3(float64(rc[1]), cl.t, float64(rc[0]))

		if v := g.Value(rc[0], rc[1]); isFinite(v) {
			sum += v
			finite++
		}
	}
	if finite == 0 {
		return Triangle{}, false
	}

	tri.Value = sum / float64(finite)
	tri.Shade = shadeFactor(logical[0], logical[1], logical[2])
	tri.Depth = depth
	return tri, true
}
