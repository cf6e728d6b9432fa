package solver

import (
	"github.com/curtisalleynesr/reactphysics3d/internal/body"
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
)

// Config carries the solver settings for one step.
type Config struct {
	Iterations       int
	SplitImpulse     bool
	FrictionAtCenter bool
	ErrorCorrection  bool
	Timestep         scalar.Real
}

// BodyInfo is the read-only view of one constrained body, indexed densely
// alongside [Velocities].
type BodyInfo struct {
	Transform   body.Transform
	InvMass     scalar.Real
	InvInertia  scalar.Mat3 // world space
	Restitution scalar.Real
	Friction    scalar.Real
}

// Velocities is the constrained-velocity scratch for one step: the solvers
// read and write these dense arrays, and the world copies the result back
// into the bodies at integration time. The split channel only ever feeds
// position correction.
type Velocities struct {
	Linear  []scalar.Vec3
	Angular []scalar.Vec3

	SplitLinear  []scalar.Vec3
	SplitAngular []scalar.Vec3
}

// Reset resizes the arrays for n bodies and zeroes the split channel. The
// backing storage is reused across steps.
func (v *Velocities) Reset(n int) {
	if cap(v.Linear) < n {
		v.Linear = make([]scalar.Vec3, n)
		v.Angular = make([]scalar.Vec3, n)
		v.SplitLinear = make([]scalar.Vec3, n)
		v.SplitAngular = make([]scalar.Vec3, n)
	}
	v.Linear = v.Linear[:n]
	v.Angular = v.Angular[:n]
	v.SplitLinear = v.SplitLinear[:n]
	v.SplitAngular = v.SplitAngular[:n]
	for i := 0; i < n; i++ {
		v.SplitLinear[i] = scalar.Vec3{}
		v.SplitAngular[i] = scalar.Vec3{}
	}
}

// tangentBasis builds a deterministic orthonormal frame around a unit
// normal.
func tangentBasis(n scalar.Vec3) (t1, t2 scalar.Vec3) {
	axis := scalar.Vec3{1, 0, 0}
	if scalar.Abs(n.X()) > 0.9 {
		axis = scalar.Vec3{0, 1, 0}
	}
	t1 = scalar.SafeNormalize(axis.Cross(n), scalar.Vec3{0, 0, 1})
	t2 = n.Cross(t1)
	return t1, t2
}
