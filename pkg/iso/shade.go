package iso

import "github.com/taigrr/relief/pkg/math3d"

// lightDir is the fixed directional light the whole surface is shaded
// against, normalized once at startup.
var lightDir = math3d.V3(1, 1.8, 0.8).Normalize()

// Shading bounds: a floor of 0.75 keeps every face readable no matter
// how steeply it turns away from the light.
const (
	shadeFloor = 0.75
	shadeSpan  = 0.25
)

// shadeFactor computes the flat Lambertian shade for a triangle whose
// vertices are given in logical space (column, normalized height, row).
// The guarded Normalize means a degenerate triangle yields a near-zero
// normal, a diffuse term of ~0 and the floor shade, never NaN.
func shadeFactor(v1, v2, v3 math3d.Vec3) float64 {
	n := v2.Sub(v1).Cross(v3.Sub(v1)).Normalize()
	d := n.Dot(lightDir)
	if d < 0 {
		d = 0
	} else if d > 1 {
		d = 1
	}
	return shadeFloor + shadeSpan*d
}
