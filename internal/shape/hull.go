package shape

import "github.com/curtisalleynesr/reactphysics3d/internal/scalar"

// ConvexHull is an arbitrary convex vertex cloud rounded by [DefaultMargin].
// Callers are expected to pass vertices that already form a convex set; the
// support mapping only ever sees extreme points, so interior vertices are
// harmless but wasted.
type ConvexHull struct {
	vertices []scalar.Vec3
	margin   scalar.Real
	// local bounds, used for the inertia approximation
	min, max scalar.Vec3
}

// NewConvexHull copies the vertex set. At least 4 vertices are required to
// enclose a volume.
func NewConvexHull(vertices []scalar.Vec3) (*ConvexHull, error) {
	if len(vertices) < 4 {
		return nil, ErrDegenerateHull
	}
	h := &ConvexHull{
		vertices: append([]scalar.Vec3(nil), vertices...),
		margin:   DefaultMargin,
		min:      vertices[0],
		max:      vertices[0],
	}
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			h.min[i] = scalar.Min(h.min[i], v[i])
			h.max[i] = scalar.Max(h.max[i], v[i])
		}
	}
	return h, nil
}

func (h *ConvexHull) Type() Type          { return TypeConvexHull }
func (h *ConvexHull) Margin() scalar.Real { return h.margin }

// VertexCount returns the number of stored vertices.
func (h *ConvexHull) VertexCount() int { return len(h.vertices) }

// SupportWithoutMargin scans the vertex set for the maximum dot product.
// Ties keep the earliest vertex, so the result is stable for a given
// construction order.
func (h *ConvexHull) SupportWithoutMargin(dir scalar.Vec3) scalar.Vec3 {
	best := h.vertices[0]
	bestDot := best.Dot(dir)
	for _, v := range h.vertices[1:] {
		if d := v.Dot(dir); d > bestDot {
			best, bestDot = v, d
		}
	}
	return best
}

func (h *ConvexHull) SupportWithMargin(dir scalar.Vec3) scalar.Vec3 {
	core := h.SupportWithoutMargin(dir)
	unit := scalar.SafeNormalize(dir, scalar.Vec3{0, 1, 0})
	return core.Add(unit.Mul(h.margin))
}

// LocalInertiaTensor approximates the hull by its local bounding box, which
// keeps the tensor diagonal and strictly positive for any valid hull.
func (h *ConvexHull) LocalInertiaTensor(mass scalar.Real) scalar.Mat3 {
	ex := (h.max.X()-h.min.X())*0.5 + h.margin
	ey := (h.max.Y()-h.min.Y())*0.5 + h.margin
	ez := (h.max.Z()-h.min.Z())*0.5 + h.margin
	f := mass / 3
	return scalar.Diag3(scalar.Vec3{
		f * (ey*ey + ez*ez),
		f * (ex*ex + ez*ez),
		f * (ex*ex + ey*ey),
	})
}
