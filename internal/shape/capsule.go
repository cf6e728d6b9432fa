package shape

import "github.com/curtisalleynesr/reactphysics3d/internal/scalar"

// Capsule is the convex hull of two spheres of equal radius centered at
// (0, +h, 0) and (0, -h, 0) in the local frame, where h is half the segment
// height. The core geometry is the segment; the margin is the radius.
type Capsule struct {
	radius     scalar.Real
	halfHeight scalar.Real
}

// NewCapsule builds a capsule from its radius and the full height of the
// inner segment. Both must be strictly positive.
func NewCapsule(radius, height scalar.Real) (*Capsule, error) {
	if radius <= 0 {
		return nil, ErrInvalidRadius
	}
	if height <= 0 {
		return nil, ErrInvalidHeight
	}
	return &Capsule{radius: radius, halfHeight: height * 0.5}, nil
}

func (c *Capsule) Type() Type          { return TypeCapsule }
func (c *Capsule) Margin() scalar.Real { return c.radius }

// Radius returns the capsule radius.
func (c *Capsule) Radius() scalar.Real { return c.radius }

// Height returns the full height of the inner segment.
func (c *Capsule) Height() scalar.Real { return 2 * c.halfHeight }

// SupportWithMargin evaluates the support of both end spheres and keeps the
// one farthest along dir. An exact tie keeps the top sphere, and a (near)
// zero direction maps to the fixed boundary point (0, radius, 0); both rules
// are part of the determinism contract.
func (c *Capsule) SupportWithMargin(dir scalar.Vec3) scalar.Vec3 {
	if dir.Dot(dir) < scalar.Epsilon*scalar.Epsilon {
		return degenerateSupport(c.radius)
	}

	unit := dir.Mul(1 / scalar.Sqrt(dir.Dot(dir)))

	top := scalar.Vec3{0, c.halfHeight, 0}.Add(unit.Mul(c.radius))
	bottom := scalar.Vec3{0, -c.halfHeight, 0}.Add(unit.Mul(c.radius))

	if top.Dot(dir) >= bottom.Dot(dir) {
		return top
	}
	return bottom
}

// SupportWithoutMargin selects between the two segment endpoints on the sign
// of dir's Y component. No normalization is involved.
func (c *Capsule) SupportWithoutMargin(dir scalar.Vec3) scalar.Vec3 {
	if dir.Y() > 0 {
		return scalar.Vec3{0, c.halfHeight, 0}
	}
	return scalar.Vec3{0, -c.halfHeight, 0}
}

// LocalInertiaTensor treats the capsule as a cylinder of height 2h plus two
// hemispherical caps, apportioning the mass between the two components.
// Formula from Game Engine Gems, Volume 1.
func (c *Capsule) LocalInertiaTensor(mass scalar.Real) scalar.Mat3 {
	height := c.halfHeight + c.halfHeight
	radiusSq := c.radius * c.radius
	heightSq := height * height
	radiusSqDouble := radiusSq + radiusSq

	factor1 := 2 * c.radius / (4*c.radius + 3*height)
	factor2 := 3 * height / (4*c.radius + 3*height)

	sum1 := 0.4 * radiusSqDouble
	sum2 := 0.75*height*c.radius + 0.5*heightSq
	sum3 := 0.25*radiusSq + heightSq/12

	ixx := factor1*mass*(sum1+sum2) + factor2*mass*sum3
	iyy := factor1*mass*sum1 + factor2*mass*0.25*radiusSqDouble

	return scalar.Diag3(scalar.Vec3{ixx, iyy, ixx})
}
