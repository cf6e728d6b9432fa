package shape

import (
	"errors"

	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
)

// DefaultMargin is the rounding margin applied to sharp-cornered shapes
// (boxes, convex hulls). Round shapes use their radius as the margin.
const DefaultMargin scalar.Real = 0.04

var (
	// ErrInvalidRadius indicates a non-positive radius at construction.
	ErrInvalidRadius = errors.New("shape: radius must be positive")

	// ErrInvalidHeight indicates a non-positive height at construction.
	ErrInvalidHeight = errors.New("shape: height must be positive")

	// ErrInvalidExtent indicates a non-positive box half-extent.
	ErrInvalidExtent = errors.New("shape: half-extents must be positive")

	// ErrDegenerateHull indicates a vertex set too small to enclose a volume.
	ErrDegenerateHull = errors.New("shape: convex hull needs at least 4 vertices")
)

// Type discriminates the closed set of collision shape variants.
type Type int

const (
	TypeSphere Type = iota
	TypeCapsule
	TypeBox
	TypeConvexHull
)

func (t Type) String() string {
	switch t {
	case TypeSphere:
		return "sphere"
	case TypeCapsule:
		return "capsule"
	case TypeBox:
		return "box"
	case TypeConvexHull:
		return "hull"
	}
	return "unknown"
}

// Shape is the support-mapping contract every convex collision shape
// implements. SupportWithMargin returns the farthest point of the rounded
// boundary along dir; SupportWithoutMargin returns the farthest point of the
// un-rounded core, used by margin-aware narrow-phase code that accounts for
// the margin separately. Directions need not be normalized. Shapes are
// immutable once constructed.
type Shape interface {
	Type() Type
	Margin() scalar.Real
	SupportWithMargin(dir scalar.Vec3) scalar.Vec3
	SupportWithoutMargin(dir scalar.Vec3) scalar.Vec3
	LocalInertiaTensor(mass scalar.Real) scalar.Mat3
}

// degenerateSupport is the deterministic boundary point returned by round
// shapes when the query direction is (near) zero.
func degenerateSupport(margin scalar.Real) scalar.Vec3 {
	return scalar.Vec3{0, margin, 0}
}
