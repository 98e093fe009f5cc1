package blockade

import (
	"math"

	"github.com/gekko3d/blockade/vmath"
)

// Aabb is an axis-aligned box given by its center and half-extents.
type Aabb struct {
	Center      vmath.Vec3
	HalfExtents vmath.Vec3
}

// NewAabb builds a box from its center and full size.
func NewAabb(center, size vmath.Vec3) Aabb {
	return Aabb{Center: center, HalfExtents: size.Mul(0.5)}
}

func (a Aabb) Min() vmath.Vec3 { return a.Center.Sub(a.HalfExtents) }
func (a Aabb) Max() vmath.Vec3 { return a.Center.Add(a.HalfExtents) }

// Intersection returns the axis of least penetration between a and other and
// the penetration depth along it. The normal points from a towards other.
// Disjoint boxes yield a zero normal and depth 0. On equal depths the earlier
// axis (X, then Y, then Z) wins.
func (a Aabb) Intersection(other Aabb) (vmath.Vec3, float32) {
	aMin, aMax := a.Min(), a.Max()
	bMin, bMax := other.Min(), other.Max()

	axis := -1
	depth := float32(math.MaxFloat32)
	for i := range 3 {
		if aMax[i] < bMin[i] || bMax[i] < aMin[i] {
			return vmath.Vec3{}, 0
		}
		d := min(bMax[i]-aMin[i], aMax[i]-bMin[i])
		if d < depth {
			depth = d
			axis = i
		}
	}

	var normal vmath.Vec3
	normal[axis] = 1
	if other.Center.Sub(a.Center).Dot(normal) < 0 {
		normal = normal.Mul(-1)
	}
	return normal, depth
}
