package solver

import (
	"github.com/curtisalleynesr/reactphysics3d/internal/collision"
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
)

const (
	// restitutionThreshold is the approach speed below which restitution is
	// suppressed, so resting contacts do not bounce on numerical noise.
	restitutionThreshold scalar.Real = 1.0

	// baumgarte is the error-correction gain when penetration is fed back
	// through the velocity bias instead of the split channel.
	baumgarte scalar.Real = 0.2

	// penetrationSlop is the penetration tolerated without correction.
	penetrationSlop scalar.Real = 0.01
)

type pointConstraint struct {
	rA, rB       scalar.Vec3
	normalMass   scalar.Real
	tangentMass1 scalar.Real
	tangentMass2 scalar.Real
	// restitutionBias is the target normal velocity from restitution;
	// correctionBias carries Baumgarte feedback when split impulses are off.
	restitutionBias scalar.Real
	correctionBias  scalar.Real
	penetration     scalar.Real

	normalImpulse   scalar.Real
	tangentImpulse1 scalar.Real
	tangentImpulse2 scalar.Real
	splitImpulse    scalar.Real
}

type manifoldConstraint struct {
	manifold       *collision.Manifold
	indexA, indexB int
	friction       scalar.Real
	normal         scalar.Vec3
	tangent1       scalar.Vec3
	tangent2       scalar.Vec3
	points         [collision.MaxManifoldPoints]pointConstraint
	n              int

	// friction-at-center state
	centerRA, centerRB scalar.Vec3
	centerMass1        scalar.Real
	centerMass2        scalar.Real
	centerImpulse1     scalar.Real
	centerImpulse2     scalar.Real
}

// ContactSolver resolves non-penetration and friction over all manifolds of
// one step. Create one per world and reuse it; the constraint scratch is
// recycled between steps.
type ContactSolver struct {
	constraints []manifoldConstraint
}

// NewContactSolver returns an empty solver.
func NewContactSolver() *ContactSolver {
	return &ContactSolver{}
}

// Entry binds a manifold to the dense indices of its two bodies.
type Entry struct {
	Manifold       *collision.Manifold
	IndexA, IndexB int
}

// Build computes effective masses and bias terms for every active contact
// point. Must be called once per step before WarmStart and Iterate.
func (s *ContactSolver) Build(entries []Entry, infos []BodyInfo, vel *Velocities, cfg Config) {
	s.constraints = s.constraints[:0]

	for _, e := range entries {
		m := e.Manifold
		if m.Count == 0 {
			continue
		}
		infoA, infoB := infos[e.IndexA], infos[e.IndexB]

		mc := manifoldConstraint{
			manifold: m,
			indexA:   e.IndexA,
			indexB:   e.IndexB,
			friction: scalar.Sqrt(infoA.Friction * infoB.Friction),
			normal:   m.Points[0].Normal,
			n:        m.Count,
		}
		mc.tangent1, mc.tangent2 = tangentBasis(mc.normal)
		restitution := scalar.Max(infoA.Restitution, infoB.Restitution)

		for j := 0; j < m.Count; j++ {
			cp := &m.Points[j]
			p := &mc.points[j]

			// the contact acts at the midpoint of the two witnesses
			contact := cp.WorldA.Add(cp.WorldB).Mul(0.5)
			p.rA = contact.Sub(infoA.Transform.Position)
			p.rB = contact.Sub(infoB.Transform.Position)
			p.penetration = cp.Penetration

			p.normalMass = effectiveMass(mc.normal, p.rA, p.rB, infoA, infoB)
			p.tangentMass1 = effectiveMass(mc.tangent1, p.rA, p.rB, infoA, infoB)
			p.tangentMass2 = effectiveMass(mc.tangent2, p.rA, p.rB, infoA, infoB)

			vRel := relativeVelocity(vel, e.IndexA, e.IndexB, p.rA, p.rB).Dot(mc.normal)
			if vRel < -restitutionThreshold {
				p.restitutionBias = -restitution * vRel
			}
			if cfg.ErrorCorrection && !cfg.SplitImpulse {
				depth := scalar.Max(p.penetration-penetrationSlop, 0)
				p.correctionBias = baumgarte / cfg.Timestep * depth
			}

			p.normalImpulse = cp.NormalImpulse
			p.tangentImpulse1 = cp.TangentImpulse1
			p.tangentImpulse2 = cp.TangentImpulse2
			p.splitImpulse = cp.SplitImpulse
		}

		if cfg.FrictionAtCenter {
			center := m.Center()
			mc.centerRA = center.Sub(infoA.Transform.Position)
			mc.centerRB = center.Sub(infoB.Transform.Position)
			mc.centerMass1 = effectiveMass(mc.tangent1, mc.centerRA, mc.centerRB, infoA, infoB)
			mc.centerMass2 = effectiveMass(mc.tangent2, mc.centerRA, mc.centerRB, infoA, infoB)
			mc.centerImpulse1 = m.FrictionImpulse1
			mc.centerImpulse2 = m.FrictionImpulse2
		}

		s.constraints = append(s.constraints, mc)
	}
}

// WarmStart applies the impulses carried over from the previous step so the
// first iteration starts from a near-converged state.
func (s *ContactSolver) WarmStart(infos []BodyInfo, vel *Velocities, cfg Config) {
	for ci := range s.constraints {
		mc := &s.constraints[ci]
		for j := 0; j < mc.n; j++ {
			p := &mc.points[j]
			impulse := mc.normal.Mul(p.normalImpulse)
			if !cfg.FrictionAtCenter {
				impulse = impulse.
					Add(mc.tangent1.Mul(p.tangentImpulse1)).
					Add(mc.tangent2.Mul(p.tangentImpulse2))
			}
			applyImpulse(vel, infos, mc.indexA, mc.indexB, p.rA, p.rB, impulse)
		}
		if cfg.FrictionAtCenter {
			impulse := mc.tangent1.Mul(mc.centerImpulse1).Add(mc.tangent2.Mul(mc.centerImpulse2))
			applyImpulse(vel, infos, mc.indexA, mc.indexB, mc.centerRA, mc.centerRB, impulse)
		}
	}
}

// Iterate runs the configured number of Gauss-Seidel passes over all rows.
func (s *ContactSolver) Iterate(infos []BodyInfo, vel *Velocities, cfg Config) {
	for it := 0; it < cfg.Iterations; it++ {
		for ci := range s.constraints {
			s.solveConstraint(&s.constraints[ci], infos, vel, cfg)
		}
	}
	if cfg.SplitImpulse {
		for it := 0; it < cfg.Iterations; it++ {
			for ci := range s.constraints {
				s.solveSplit(&s.constraints[ci], infos, vel)
			}
		}
	}
}

func (s *ContactSolver) solveConstraint(mc *manifoldConstraint, infos []BodyInfo, vel *Velocities, cfg Config) {
	// friction first: the final normal pass then dominates, non-penetration
	// being the harder requirement
	if cfg.FrictionAtCenter {
		var total scalar.Real
		for j := 0; j < mc.n; j++ {
			total += mc.points[j].normalImpulse
		}
		maxFriction := mc.friction * total

		dv := relativeVelocity(vel, mc.indexA, mc.indexB, mc.centerRA, mc.centerRB)
		l1 := -dv.Dot(mc.tangent1) * mc.centerMass1
		newI1 := scalar.Clamp(mc.centerImpulse1+l1, -maxFriction, maxFriction)
		applyImpulse(vel, infos, mc.indexA, mc.indexB, mc.centerRA, mc.centerRB, mc.tangent1.Mul(newI1-mc.centerImpulse1))
		mc.centerImpulse1 = newI1

		dv = relativeVelocity(vel, mc.indexA, mc.indexB, mc.centerRA, mc.centerRB)
		l2 := -dv.Dot(mc.tangent2) * mc.centerMass2
		newI2 := scalar.Clamp(mc.centerImpulse2+l2, -maxFriction, maxFriction)
		applyImpulse(vel, infos, mc.indexA, mc.indexB, mc.centerRA, mc.centerRB, mc.tangent2.Mul(newI2-mc.centerImpulse2))
		mc.centerImpulse2 = newI2
	} else {
		for j := 0; j < mc.n; j++ {
			p := &mc.points[j]
			maxFriction := mc.friction * p.normalImpulse

			dv := relativeVelocity(vel, mc.indexA, mc.indexB, p.rA, p.rB)
			l1 := -dv.Dot(mc.tangent1) * p.tangentMass1
			newI1 := scalar.Clamp(p.tangentImpulse1+l1, -maxFriction, maxFriction)
			applyImpulse(vel, infos, mc.indexA, mc.indexB, p.rA, p.rB, mc.tangent1.Mul(newI1-p.tangentImpulse1))
			p.tangentImpulse1 = newI1

			dv = relativeVelocity(vel, mc.indexA, mc.indexB, p.rA, p.rB)
			l2 := -dv.Dot(mc.tangent2) * p.tangentMass2
			newI2 := scalar.Clamp(p.tangentImpulse2+l2, -maxFriction, maxFriction)
			applyImpulse(vel, infos, mc.indexA, mc.indexB, p.rA, p.rB, mc.tangent2.Mul(newI2-p.tangentImpulse2))
			p.tangentImpulse2 = newI2
		}
	}

	// non-penetration: accumulated impulse clamped to stay non-negative
	for j := 0; j < mc.n; j++ {
		p := &mc.points[j]
		vn := relativeVelocity(vel, mc.indexA, mc.indexB, p.rA, p.rB).Dot(mc.normal)
		lambda := -p.normalMass * (vn - p.restitutionBias - p.correctionBias)
		newImpulse := scalar.Max(p.normalImpulse+lambda, 0)
		applyImpulse(vel, infos, mc.indexA, mc.indexB, p.rA, p.rB, mc.normal.Mul(newImpulse-p.normalImpulse))
		p.normalImpulse = newImpulse
	}
}

// solveSplit drives the split-velocity channel toward zero penetration. The
// physical velocities never see these impulses.
func (s *ContactSolver) solveSplit(mc *manifoldConstraint, infos []BodyInfo, vel *Velocities) {
	for j := 0; j < mc.n; j++ {
		p := &mc.points[j]
		depth := scalar.Max(p.penetration-penetrationSlop, 0)
		if depth == 0 && p.splitImpulse == 0 {
			continue
		}

		dv := splitRelativeVelocity(vel, mc.indexA, mc.indexB, p.rA, p.rB)
		vn := dv.Dot(mc.normal)
		lambda := -p.normalMass * (vn - baumgarte*depth)
		newImpulse := scalar.Max(p.splitImpulse+lambda, 0)
		applySplitImpulse(vel, infos, mc.indexA, mc.indexB, p.rA, p.rB, mc.normal.Mul(newImpulse-p.splitImpulse))
		p.splitImpulse = newImpulse
	}
}

// Store writes the accumulated impulses back into the manifolds for the
// next step's warm start.
func (s *ContactSolver) Store() {
	for ci := range s.constraints {
		mc := &s.constraints[ci]
		for j := 0; j < mc.n; j++ {
			cp := &mc.manifold.Points[j]
			p := &mc.points[j]
			cp.NormalImpulse = p.normalImpulse
			cp.TangentImpulse1 = p.tangentImpulse1
			cp.TangentImpulse2 = p.tangentImpulse2
			cp.SplitImpulse = p.splitImpulse
		}
		mc.manifold.FrictionImpulse1 = mc.centerImpulse1
		mc.manifold.FrictionImpulse2 = mc.centerImpulse2
	}
}

func effectiveMass(dir, rA, rB scalar.Vec3, a, b BodyInfo) scalar.Real {
	rnA := rA.Cross(dir)
	rnB := rB.Cross(dir)
	k := a.InvMass + b.InvMass +
		a.InvInertia.Mul3x1(rnA).Dot(rnA) +
		b.InvInertia.Mul3x1(rnB).Dot(rnB)
	if k <= 0 {
		return 0
	}
	return 1 / k
}

// relativeVelocity is the contact-point velocity of B relative to A. With
// the normal pointing from A to B, a positive normal component means the
// bodies are separating.
func relativeVelocity(vel *Velocities, ia, ib int, rA, rB scalar.Vec3) scalar.Vec3 {
	vA := vel.Linear[ia].Add(vel.Angular[ia].Cross(rA))
	vB := vel.Linear[ib].Add(vel.Angular[ib].Cross(rB))
	return vB.Sub(vA)
}

func splitRelativeVelocity(vel *Velocities, ia, ib int, rA, rB scalar.Vec3) scalar.Vec3 {
	vA := vel.SplitLinear[ia].Add(vel.SplitAngular[ia].Cross(rA))
	vB := vel.SplitLinear[ib].Add(vel.SplitAngular[ib].Cross(rB))
	return vB.Sub(vA)
}

// applyImpulse pushes body B along impulse and body A against it.
func applyImpulse(vel *Velocities, infos []BodyInfo, ia, ib int, rA, rB, impulse scalar.Vec3) {
	vel.Linear[ia] = vel.Linear[ia].Sub(impulse.Mul(infos[ia].InvMass))
	vel.Angular[ia] = vel.Angular[ia].Sub(infos[ia].InvInertia.Mul3x1(rA.Cross(impulse)))
	vel.Linear[ib] = vel.Linear[ib].Add(impulse.Mul(infos[ib].InvMass))
	vel.Angular[ib] = vel.Angular[ib].Add(infos[ib].InvInertia.Mul3x1(rB.Cross(impulse)))
}

func applySplitImpulse(vel *Velocities, infos []BodyInfo, ia, ib int, rA, rB, impulse scalar.Vec3) {
	vel.SplitLinear[ia] = vel.SplitLinear[ia].Sub(impulse.Mul(infos[ia].InvMass))
	vel.SplitAngular[ia] = vel.SplitAngular[ia].Sub(infos[ia].InvInertia.Mul3x1(rA.Cross(impulse)))
	vel.SplitLinear[ib] = vel.SplitLinear[ib].Add(impulse.Mul(infos[ib].InvMass))
	vel.SplitAngular[ib] = vel.SplitAngular[ib].Add(infos[ib].InvInertia.Mul3x1(rB.Cross(impulse)))
}
