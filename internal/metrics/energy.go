package metrics

import (
	"github.com/curtisalleynesr/reactphysics3d/internal/body"
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
	"github.com/curtisalleynesr/reactphysics3d/internal/world"
)

// KineticEnergy sums the translational and rotational kinetic energy over
// all movable bodies.
type KineticEnergy struct {
	latest scalar.Real
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(w *world.World, step uint64, t scalar.Real) {
	var total scalar.Real
	w.ForEachBody(func(h body.Handle, rb body.RigidBody) {
		if !rb.MotionEnabled {
			return
		}
		v := rb.LinearVelocity
		total += 0.5 * rb.Mass * v.Dot(v)

		omega := rb.AngularVelocity
		if omega == (scalar.Vec3{}) {
			return
		}
		r := rb.Transform.Orientation.Mat4().Mat3()
		inertiaWorld := r.Mul3(rb.InertiaLocalInverse.Inv()).Mul3(r.Transpose())
		total += 0.5 * omega.Dot(inertiaWorld.Mul3x1(omega))
	})
	k.latest = total
}

func (k *KineticEnergy) Value() scalar.Real { return k.latest }
func (k *KineticEnergy) Reset()             { k.latest = 0 }
