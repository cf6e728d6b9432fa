package solver

import "github.com/curtisalleynesr/reactphysics3d/internal/scalar"

// JointEntry binds a joint to the dense indices of its two bodies.
type JointEntry struct {
	Joint          Joint
	IndexA, IndexB int
}

type jointConstraint struct {
	rows           []Row
	indexA, indexB int
}

// ConstraintSolver resolves joint rows with the same clamped Gauss-Seidel
// scheme the contact solver uses. Create one per world and reuse it.
type ConstraintSolver struct {
	constraints []jointConstraint
}

// NewConstraintSolver returns an empty solver.
func NewConstraintSolver() *ConstraintSolver {
	return &ConstraintSolver{}
}

// Build refreshes every joint's rows and computes their effective masses.
// Must be called once per step before WarmStart and Iterate.
func (s *ConstraintSolver) Build(entries []JointEntry, infos []BodyInfo, cfg Config) {
	s.constraints = s.constraints[:0]
	for _, e := range entries {
		rows := e.Joint.UpdateRows(infos[e.IndexA], infos[e.IndexB], cfg)
		for i := range rows {
			rows[i].mass = rowMass(&rows[i], infos[e.IndexA], infos[e.IndexB])
		}
		s.constraints = append(s.constraints, jointConstraint{
			rows:   rows,
			indexA: e.IndexA,
			indexB: e.IndexB,
		})
	}
}

// WarmStart re-applies each row's accumulated impulse from the previous
// step.
func (s *ConstraintSolver) WarmStart(infos []BodyInfo, vel *Velocities) {
	for ci := range s.constraints {
		c := &s.constraints[ci]
		for i := range c.rows {
			applyRowImpulse(vel, infos, c.indexA, c.indexB, &c.rows[i], c.rows[i].Impulse)
		}
	}
}

// Iterate runs the configured number of Gauss-Seidel passes over all rows.
func (s *ConstraintSolver) Iterate(infos []BodyInfo, vel *Velocities, cfg Config) {
	for it := 0; it < cfg.Iterations; it++ {
		for ci := range s.constraints {
			c := &s.constraints[ci]
			for i := range c.rows {
				r := &c.rows[i]
				jv := r.LinA.Dot(vel.Linear[c.indexA]) +
					r.AngA.Dot(vel.Angular[c.indexA]) +
					r.LinB.Dot(vel.Linear[c.indexB]) +
					r.AngB.Dot(vel.Angular[c.indexB])
				lambda := -r.mass * (jv + r.Bias)
				newImpulse := scalar.Clamp(r.Impulse+lambda, r.Lower, r.Upper)
				applyRowImpulse(vel, infos, c.indexA, c.indexB, r, newImpulse-r.Impulse)
				r.Impulse = newImpulse
			}
		}
	}
}

func rowMass(r *Row, a, b BodyInfo) scalar.Real {
	k := a.InvMass*r.LinA.Dot(r.LinA) +
		r.AngA.Dot(a.InvInertia.Mul3x1(r.AngA)) +
		b.InvMass*r.LinB.Dot(r.LinB) +
		r.AngB.Dot(b.InvInertia.Mul3x1(r.AngB))
	if k <= 0 {
		return 0
	}
	return 1 / k
}

func applyRowImpulse(vel *Velocities, infos []BodyInfo, ia, ib int, r *Row, lambda scalar.Real) {
	vel.Linear[ia] = vel.Linear[ia].Add(r.LinA.Mul(infos[ia].InvMass * lambda))
	vel.Angular[ia] = vel.Angular[ia].Add(infos[ia].InvInertia.Mul3x1(r.AngA.Mul(lambda)))
	vel.Linear[ib] = vel.Linear[ib].Add(r.LinB.Mul(infos[ib].InvMass * lambda))
	vel.Angular[ib] = vel.Angular[ib].Add(infos[ib].InvInertia.Mul3x1(r.AngB.Mul(lambda)))
}
