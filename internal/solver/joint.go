package solver

import (
	"errors"
	"math"

	"github.com/curtisalleynesr/reactphysics3d/internal/body"
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
)

// ErrInvalidLength is returned for a distance joint with a non-positive
// rest length.
var ErrInvalidLength = errors.New("solver: joint length must be positive")

var (
	noLowerLimit = scalar.Real(math.Inf(-1))
	noUpperLimit = scalar.Real(math.Inf(1))
)

// Row is one scalar velocity constraint J·v + bias = 0. The Jacobian is
// stored as four blocks, one linear and one angular per body. Impulse is
// the accumulated magnitude and persists across steps for warm starting;
// the solver clamps it to [Lower, Upper].
type Row struct {
	LinA, AngA scalar.Vec3
	LinB, AngB scalar.Vec3
	Bias       scalar.Real
	Lower      scalar.Real
	Upper      scalar.Real
	Impulse    scalar.Real

	mass scalar.Real
}

// Joint constrains two bodies through one or more rows. Implementations own
// their row storage so accumulated impulses survive between steps; the
// solver only recomputes effective masses and iterates.
type Joint interface {
	// Bodies returns the constrained pair.
	Bodies() (a, b body.Handle)

	// UpdateRows refreshes the Jacobians and bias terms for the current
	// body states and returns the joint's rows. The returned slice aliases
	// the joint's own storage.
	UpdateRows(a, b BodyInfo, cfg Config) []Row
}

// BallSocketJoint pins an anchor point of body A to an anchor point of
// body B, removing the three relative translations.
type BallSocketJoint struct {
	bodyA, bodyB   body.Handle
	localA, localB scalar.Vec3
	rows           [3]Row
}

// NewBallSocketJoint builds the joint from the anchor expressed in each
// body's local frame.
func NewBallSocketJoint(a, b body.Handle, localA, localB scalar.Vec3) *BallSocketJoint {
	j := &BallSocketJoint{bodyA: a, bodyB: b, localA: localA, localB: localB}
	for i := range j.rows {
		j.rows[i].Lower = noLowerLimit
		j.rows[i].Upper = noUpperLimit
	}
	return j
}

func (j *BallSocketJoint) Bodies() (body.Handle, body.Handle) {
	return j.bodyA, j.bodyB
}

func (j *BallSocketJoint) UpdateRows(a, b BodyInfo, cfg Config) []Row {
	rA := a.Transform.Orientation.Rotate(j.localA)
	rB := b.Transform.Orientation.Rotate(j.localB)
	err := b.Transform.Position.Add(rB).Sub(a.Transform.Position.Add(rA))

	axes := [3]scalar.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for i, axis := range axes {
		r := &j.rows[i]
		r.LinA = axis.Mul(-1)
		r.AngA = rA.Cross(axis).Mul(-1)
		r.LinB = axis
		r.AngB = rB.Cross(axis)
		r.Bias = baumgarte / cfg.Timestep * err.Dot(axis)
	}
	return j.rows[:]
}

// DistanceJoint keeps the two anchor points at a fixed distance, like a
// rigid massless rod.
type DistanceJoint struct {
	bodyA, bodyB   body.Handle
	localA, localB scalar.Vec3
	length         scalar.Real
	rows           [1]Row
}

// NewDistanceJoint builds the joint; length is the rest distance between
// the anchors and must be positive.
func NewDistanceJoint(a, b body.Handle, localA, localB scalar.Vec3, length scalar.Real) (*DistanceJoint, error) {
	if length <= 0 {
		return nil, ErrInvalidLength
	}
	j := &DistanceJoint{bodyA: a, bodyB: b, localA: localA, localB: localB, length: length}
	j.rows[0].Lower = noLowerLimit
	j.rows[0].Upper = noUpperLimit
	return j, nil
}

func (j *DistanceJoint) Bodies() (body.Handle, body.Handle) {
	return j.bodyA, j.bodyB
}

func (j *DistanceJoint) UpdateRows(a, b BodyInfo, cfg Config) []Row {
	rA := a.Transform.Orientation.Rotate(j.localA)
	rB := b.Transform.Orientation.Rotate(j.localB)
	d := b.Transform.Position.Add(rB).Sub(a.Transform.Position.Add(rA))
	n := scalar.SafeNormalize(d, scalar.Vec3{0, 1, 0})

	r := &j.rows[0]
	r.LinA = n.Mul(-1)
	r.AngA = rA.Cross(n).Mul(-1)
	r.LinB = n
	r.AngB = rB.Cross(n)
	r.Bias = baumgarte / cfg.Timestep * (d.Len() - j.length)
	return j.rows[:]
}
