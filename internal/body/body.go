package body

import (
	"errors"

	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
	"github.com/curtisalleynesr/reactphysics3d/internal/shape"
)

// ErrInvalidMass indicates a non-positive mass at construction.
var ErrInvalidMass = errors.New("body: mass must be positive")

// Handle is a stable reference to a body slot in the world arena. The
// generation counter detects use of handles whose slot has been recycled.
type Handle struct {
	Index      uint32
	Generation uint32
}

// Transform is a rigid placement: rotation followed by translation.
type Transform struct {
	Position    scalar.Vec3
	Orientation scalar.Quat
}

// IdentityTransform returns the origin placement with no rotation.
func IdentityTransform() Transform {
	return Transform{Orientation: scalar.QuatIdent()}
}

// NewTransform builds a transform from a position and an orientation; the
// orientation is normalized so integration drift cannot leak in through the
// public surface.
func NewTransform(position scalar.Vec3, orientation scalar.Quat) Transform {
	return Transform{Position: position, Orientation: orientation.Normalize()}
}

// Apply maps a local point to world space.
func (t Transform) Apply(p scalar.Vec3) scalar.Vec3 {
	return t.Orientation.Rotate(p).Add(t.Position)
}

// ApplyInverse maps a world point to local space.
func (t Transform) ApplyInverse(p scalar.Vec3) scalar.Vec3 {
	return t.Orientation.Conjugate().Rotate(p.Sub(t.Position))
}

// RigidBody holds the simulation state of one rigid body. Bodies are owned
// by the world arena and referenced everywhere else through [Handle]; the
// solver never touches these fields directly, it works on the world's
// constrained-velocity scratch arrays instead.
type RigidBody struct {
	Transform       Transform
	LinearVelocity  scalar.Vec3
	AngularVelocity scalar.Vec3

	Mass                scalar.Real
	InverseMass         scalar.Real
	InertiaLocalInverse scalar.Mat3

	Shape       shape.Shape
	Restitution scalar.Real
	Friction    scalar.Real

	// MotionEnabled false makes the body immovable: it still collides but
	// the solver and integrator treat its inverse mass and inertia as zero.
	MotionEnabled bool

	IsSleeping bool
	SleepTime  scalar.Real
	HasMoved   bool
}

// New builds a rigid body from a placement, a strictly positive mass, the
// local inertia tensor and an immutable collision shape.
func New(transform Transform, mass scalar.Real, inertiaLocal scalar.Mat3, s shape.Shape) (*RigidBody, error) {
	if mass <= 0 {
		return nil, ErrInvalidMass
	}
	return &RigidBody{
		Transform:           transform,
		Mass:                mass,
		InverseMass:         1 / mass,
		InertiaLocalInverse: inertiaLocal.Inv(),
		Shape:               s,
		Restitution:         0,
		Friction:            0.3,
		MotionEnabled:       true,
		// a fresh body counts as moved so its first narrow phase runs even
		// if it was created at rest
		HasMoved: true,
	}, nil
}

// EffectiveInverseMass is the inverse mass the solver sees: zero for
// immovable bodies.
func (rb *RigidBody) EffectiveInverseMass() scalar.Real {
	if !rb.MotionEnabled {
		return 0
	}
	return rb.InverseMass
}

// WorldInverseInertia returns R * I_local^-1 * R^T, or the zero matrix for
// immovable bodies.
func (rb *RigidBody) WorldInverseInertia() scalar.Mat3 {
	if !rb.MotionEnabled {
		return scalar.Mat3{}
	}
	r := rb.Transform.Orientation.Mat4().Mat3()
	return r.Mul3(rb.InertiaLocalInverse).Mul3(r.Transpose())
}

// SupportWorld evaluates the shape's rounded support mapping in world space.
func (rb *RigidBody) SupportWorld(dir scalar.Vec3) scalar.Vec3 {
	localDir := rb.Transform.Orientation.Conjugate().Rotate(dir)
	localSupport := rb.Shape.SupportWithMargin(localDir)
	return rb.Transform.Apply(localSupport)
}

// Wake clears the sleep state and restarts the low-motion accumulator.
func (rb *RigidBody) Wake() {
	rb.IsSleeping = false
	rb.SleepTime = 0
}

// Sleep zeroes the velocities and marks the body asleep.
func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTime = 0
	rb.LinearVelocity = scalar.Vec3{}
	rb.AngularVelocity = scalar.Vec3{}
}

// AccumulateSleepTime advances the low-motion accumulator and puts the body
// to sleep once it has stayed under both velocity thresholds for duration.
func (rb *RigidBody) AccumulateSleepTime(dt, linearThreshold, angularThreshold, duration scalar.Real) {
	if !rb.MotionEnabled || rb.IsSleeping {
		return
	}
	if rb.LinearVelocity.Len() < linearThreshold && rb.AngularVelocity.Len() < angularThreshold {
		rb.SleepTime += dt
		if rb.SleepTime >= duration {
			rb.Sleep()
		}
	} else {
		rb.SleepTime = 0
	}
}

// ApplyImpulse changes the velocities instantaneously by an impulse applied
// at a world point, waking the body.
func (rb *RigidBody) ApplyImpulse(impulse, worldPoint scalar.Vec3) {
	if !rb.MotionEnabled {
		return
	}
	rb.Wake()
	rb.LinearVelocity = rb.LinearVelocity.Add(impulse.Mul(rb.InverseMass))
	r := worldPoint.Sub(rb.Transform.Position)
	rb.AngularVelocity = rb.AngularVelocity.Add(rb.WorldInverseInertia().Mul3x1(r.Cross(impulse)))
}

// IntegrateTransform advances the placement by dt under the current
// velocities, using the small-angle quaternion derivative for rotation.
// Returns whether the net motion exceeded eps.
func (rb *RigidBody) IntegrateTransform(dt, eps scalar.Real) bool {
	if !rb.MotionEnabled || rb.IsSleeping {
		return false
	}

	delta := rb.LinearVelocity.Mul(dt)
	rb.Transform.Position = rb.Transform.Position.Add(delta)

	w := rb.AngularVelocity
	omega := scalar.Quat{W: 0, V: w}
	qDot := omega.Mul(rb.Transform.Orientation).Scale(0.5)
	rb.Transform.Orientation = rb.Transform.Orientation.Add(qDot.Scale(dt)).Normalize()

	moved := delta.Len() > eps || w.Len()*dt > eps
	if moved {
		rb.HasMoved = true
	}
	return moved
}
