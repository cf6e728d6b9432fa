package shape

import "github.com/curtisalleynesr/reactphysics3d/internal/scalar"

// Sphere has a point core at the local origin; the margin is the radius, so
// the rounded boundary is the whole sphere surface.
type Sphere struct {
	radius scalar.Real
}

// NewSphere builds a sphere of strictly positive radius.
func NewSphere(radius scalar.Real) (*Sphere, error) {
	if radius <= 0 {
		return nil, ErrInvalidRadius
	}
	return &Sphere{radius: radius}, nil
}

func (s *Sphere) Type() Type          { return TypeSphere }
func (s *Sphere) Margin() scalar.Real { return s.radius }
func (s *Sphere) Radius() scalar.Real { return s.radius }

func (s *Sphere) SupportWithMargin(dir scalar.Vec3) scalar.Vec3 {
	unit := scalar.SafeNormalize(dir, scalar.Vec3{0, 1, 0})
	return unit.Mul(s.radius)
}

func (s *Sphere) SupportWithoutMargin(dir scalar.Vec3) scalar.Vec3 {
	return scalar.Vec3{}
}

func (s *Sphere) LocalInertiaTensor(mass scalar.Real) scalar.Mat3 {
	i := 0.4 * mass * s.radius * s.radius
	return scalar.Diag3(scalar.Vec3{i, i, i})
}
