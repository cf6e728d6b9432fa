package shape

import "github.com/curtisalleynesr/reactphysics3d/internal/scalar"

// Box is an axis-aligned box in its local frame, described by half-extents
// and rounded by [DefaultMargin].
type Box struct {
	halfExtents scalar.Vec3
	margin      scalar.Real
}

// NewBox builds a box from strictly positive half-extents.
func NewBox(halfExtents scalar.Vec3) (*Box, error) {
	if halfExtents.X() <= 0 || halfExtents.Y() <= 0 || halfExtents.Z() <= 0 {
		return nil, ErrInvalidExtent
	}
	return &Box{halfExtents: halfExtents, margin: DefaultMargin}, nil
}

func (b *Box) Type() Type               { return TypeBox }
func (b *Box) Margin() scalar.Real      { return b.margin }
func (b *Box) HalfExtents() scalar.Vec3 { return b.halfExtents }

// SupportWithoutMargin sign-selects a corner of the core box. A zero
// component selects the negative face, mirroring the capsule's strict
// positivity test.
func (b *Box) SupportWithoutMargin(dir scalar.Vec3) scalar.Vec3 {
	var p scalar.Vec3
	for i := 0; i < 3; i++ {
		if dir[i] > 0 {
			p[i] = b.halfExtents[i]
		} else {
			p[i] = -b.halfExtents[i]
		}
	}
	return p
}

func (b *Box) SupportWithMargin(dir scalar.Vec3) scalar.Vec3 {
	core := b.SupportWithoutMargin(dir)
	unit := scalar.SafeNormalize(dir, scalar.Vec3{0, 1, 0})
	return core.Add(unit.Mul(b.margin))
}

func (b *Box) LocalInertiaTensor(mass scalar.Real) scalar.Mat3 {
	ex := b.halfExtents.X() + b.margin
	ey := b.halfExtents.Y() + b.margin
	ez := b.halfExtents.Z() + b.margin
	f := mass / 3
	return scalar.Diag3(scalar.Vec3{
		f * (ey*ey + ez*ez),
		f * (ex*ex + ez*ez),
		f * (ex*ex + ey*ey),
	})
}
