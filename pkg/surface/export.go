package surface

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/relief/pkg/colormap"
)

// ExportGLB writes the grid's height mesh as a binary glTF asset for
// inspection in external 3D viewers. Vertices live in the renderer's
// logical space (x=column, y=normalized height, z=row) and carry the
// mapper's base color; quads touching a missing cell are skipped, the
// same rule the on-screen mesh uses.
func ExportGLB(path string, g *Grid, minValue, maxValue float64, label string, mapper colormap.Func) error {
	if mapper == nil {
		return fmt.Errorf("export %s: nil color mapper", path)
	}

	positions, colors, indices := buildHeightMesh(g, minValue, maxValue, label, mapper)
	if len(indices) == 0 {
		return fmt.Errorf("export %s: grid has no renderable cells", path)
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "relief"

	posIdx := modeler.WritePosition(doc, positions)
	colIdx := modeler.WriteColor(doc, colors)
	idxIdx := modeler.WriteIndices(doc, indices)

	doc.Meshes = []*gltf.Mesh{{
		Name: label,
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(idxIdx),
			Attributes: map[string]int{
				gltf.POSITION: posIdx,
				gltf.COLOR_0:  colIdx,
			},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "surface", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

// buildHeightMesh assembles one vertex per defined cell and two
// triangles per fully defined quad, split on the same fixed diagonal
// the renderer uses. Winding is counter-clockwise seen from +Y, the
// glTF front face.
func buildHeightMesh(g *Grid, minValue, maxValue float64, label string, mapper colormap.Func) ([][3]float32, [][4]uint8, []uint32) {
	rows, cols := g.Rows(), g.Cols()

	var positions [][3]float32
	var colors [][4]uint8
	vertexAt := make([]int, rows*cols)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			t, ok := Normalize(g.Value(r, c), minValue, maxValue)
			if !ok {
				vertexAt[r*cols+c] = -1
				continue
			}
			vertexAt[r*cols+c] = len(positions)
			positions = append(positions, [3]float32{float32(c), float32(t), float32(r)})
			base := mapper(g.Value(r, c), minValue, maxValue, label)
			colors = append(colors, [4]uint8{base.R, base.G, base.B, base.A})
		}
	}

	var indices []uint32
	emit := func(a, b, c int) {
		if a < 0 || b < 0 || c < 0 {
			return
		}
		indices = append(indices, uint32(a), uint32(b), uint32(c))
	}
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			v00 := vertexAt[r*cols+c]
			v01 := vertexAt[r*cols+c+1]
			v10 := vertexAt[(r+1)*cols+c]
			v11 := vertexAt[(r+1)*cols+c+1]
			emit(v00, v10, v01)
			emit(v11, v01, v10)
		}
	}

	return positions, colors, indices
}
