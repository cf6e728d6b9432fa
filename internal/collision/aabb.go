package collision

import (
	"github.com/curtisalleynesr/reactphysics3d/internal/body"
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
)

// AABB is a world-space axis-aligned bounding box.
type AABB struct {
	Min, Max scalar.Vec3
}

var axes = [3]scalar.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// BoundsOf computes a body's bounds from six support queries on its rounded
// boundary, so it works for every shape that satisfies the support contract.
func BoundsOf(rb *body.RigidBody) AABB {
	var box AABB
	for i, axis := range axes {
		box.Max[i] = rb.SupportWorld(axis)[i]
		box.Min[i] = rb.SupportWorld(axis.Mul(-1))[i]
	}
	return box
}

// Overlaps reports whether two boxes intersect, boundaries included.
func (a AABB) Overlaps(b AABB) bool {
	for i := 0; i < 3; i++ {
		if a.Max[i] < b.Min[i] || b.Max[i] < a.Min[i] {
			return false
		}
	}
	return true
}
