package collision

import (
	"github.com/curtisalleynesr/reactphysics3d/internal/body"
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
)

const gjkMaxIterations = 32

// Contact is one narrow-phase contact candidate. The normal is unit length
// and points from body A toward body B; PointA and PointB are the world
// witness points on each body's rounded boundary, with
// (PointA - PointB)·Normal == Penetration while the bodies overlap.
type Contact struct {
	Normal         scalar.Vec3
	Penetration    scalar.Real
	PointA, PointB scalar.Vec3
}

// MakeContactPoint anchors a contact candidate on both bodies and derives
// its feature id from the quantized local anchors.
func MakeContactPoint(c Contact, ta, tb body.Transform) ContactPoint {
	localA := ta.ApplyInverse(c.PointA)
	localB := tb.ApplyInverse(c.PointB)
	return ContactPoint{
		LocalA:      localA,
		LocalB:      localB,
		WorldA:      c.PointA,
		WorldB:      c.PointB,
		Normal:      c.Normal,
		Penetration: c.Penetration,
		FeatureID:   featureID(localA, localB),
	}
}

// supportPoint is one vertex of the Minkowski difference A - B, keeping the
// witness points on both bodies so EPA can reconstruct contact positions.
type supportPoint struct {
	w    scalar.Vec3 // a - b
	a, b scalar.Vec3
}

func minkowskiSupport(a, b *body.RigidBody, dir scalar.Vec3) supportPoint {
	pa := a.SupportWorld(dir)
	pb := b.SupportWorld(dir.Mul(-1))
	return supportPoint{w: pa.Sub(pb), a: pa, b: pb}
}

type simplex struct {
	pts [4]supportPoint
	n   int
}

// TestOverlap runs GJK over the margin-inflated support mappings of two
// bodies and, on intersection, EPA for the penetration normal and depth.
// It returns one contact candidate; the persistent manifold accumulates
// these into a stable contact set over consecutive steps.
func TestOverlap(a, b *body.RigidBody) (Contact, bool) {
	var sim simplex
	if !gjkIntersects(a, b, &sim) {
		return Contact{}, false
	}
	if sim.n < 4 {
		return degenerateContact(a, b), true
	}
	if c, ok := epaPenetration(a, b, &sim); ok {
		return c, true
	}
	return degenerateContact(a, b), true
}

// gjkIntersects reports whether the Minkowski difference contains the
// origin, refining sim toward the origin one support point at a time.
func gjkIntersects(a, b *body.RigidBody, sim *simplex) bool {
	dir := b.Transform.Position.Sub(a.Transform.Position)
	if dir.Dot(dir) < 1e-8 {
		dir = scalar.Vec3{1, 0, 0}
	}

	sim.pts[0] = minkowskiSupport(a, b, dir)
	sim.n = 1

	dir = sim.pts[0].w.Mul(-1)
	if dir.Dot(dir) < 1e-16 {
		// first support point is the origin: boundaries touch
		return true
	}

	for i := 0; i < gjkMaxIterations; i++ {
		p := minkowskiSupport(a, b, dir)

		// the new point not passing the origin proves separation
		if p.w.Dot(dir) <= 0 {
			return false
		}

		sim.pts[sim.n] = p
		sim.n++

		if nextSimplex(sim, &dir) {
			return true
		}
	}
	return false
}

func nextSimplex(sim *simplex, dir *scalar.Vec3) bool {
	switch sim.n {
	case 2:
		return lineCase(sim, dir)
	case 3:
		return triangleCase(sim, dir)
	case 4:
		return tetrahedronCase(sim, dir)
	}
	return false
}

func lineCase(sim *simplex, dir *scalar.Vec3) bool {
	a := sim.pts[1]
	b := sim.pts[0]
	ab := b.w.Sub(a.w)
	ao := a.w.Mul(-1)

	if ab.Dot(ab) < 1e-8 {
		if ao.Dot(ao) < 1e-8 {
			return true
		}
		sim.pts[0] = a
		sim.n = 1
		*dir = ao
		return false
	}

	if ab.Dot(ao) <= 0 {
		sim.pts[0] = a
		sim.n = 1
		*dir = ao
		return false
	}

	perp := ab.Cross(ao).Cross(ab)
	if perp.Dot(perp) < 1e-8 {
		// origin lies on the segment
		return true
	}
	*dir = perp
	return false
}

func triangleCase(sim *simplex, dir *scalar.Vec3) bool {
	a := sim.pts[2]
	b := sim.pts[1]
	c := sim.pts[0]

	ab := b.w.Sub(a.w)
	ac := c.w.Sub(a.w)
	ao := a.w.Mul(-1)
	abc := ab.Cross(ac)

	if abc.Dot(abc) < 1e-10 {
		// collinear points, fall back to the most recent edge
		sim.pts[0] = b
		sim.pts[1] = a
		sim.n = 2
		return lineCase(sim, dir)
	}

	if ab.Cross(abc).Dot(ao) > 0 {
		sim.pts[0] = b
		sim.pts[1] = a
		sim.n = 2
		*dir = ab.Cross(ao).Cross(ab)
		return false
	}
	if abc.Cross(ac).Dot(ao) > 0 {
		sim.pts[0] = c
		sim.pts[1] = a
		sim.n = 2
		*dir = ac.Cross(ao).Cross(ac)
		return false
	}

	if abc.Dot(ao) > 0 {
		*dir = abc
	} else {
		sim.pts[0] = a
		sim.pts[1] = c
		sim.pts[2] = b
		sim.n = 3
		*dir = abc.Mul(-1)
	}
	return false
}

func tetrahedronCase(sim *simplex, dir *scalar.Vec3) bool {
	a := sim.pts[3]
	b := sim.pts[2]
	c := sim.pts[1]
	d := sim.pts[0]

	ab := b.w.Sub(a.w)
	ac := c.w.Sub(a.w)
	ad := d.w.Sub(a.w)
	ao := a.w.Mul(-1)

	// face normals oriented away from the opposite vertex
	abc := ab.Cross(ac)
	if abc.Dot(ad) > 0 {
		abc = abc.Mul(-1)
	}
	acd := ac.Cross(ad)
	if acd.Dot(ab) > 0 {
		acd = acd.Mul(-1)
	}
	adb := ad.Cross(ab)
	if adb.Dot(ac) > 0 {
		adb = adb.Mul(-1)
	}

	if abc.Dot(abc) < 1e-10 || acd.Dot(acd) < 1e-10 || adb.Dot(adb) < 1e-10 {
		sim.pts[0] = c
		sim.pts[1] = b
		sim.pts[2] = a
		sim.n = 3
		return triangleCase(sim, dir)
	}

	if abc.Dot(ao) > 0 {
		sim.pts[0] = c
		sim.pts[1] = b
		sim.pts[2] = a
		sim.n = 3
		return triangleCase(sim, dir)
	}
	if acd.Dot(ao) > 0 {
		sim.pts[0] = d
		sim.pts[1] = c
		sim.pts[2] = a
		sim.n = 3
		return triangleCase(sim, dir)
	}
	if adb.Dot(ao) > 0 {
		sim.pts[0] = b
		sim.pts[1] = d
		sim.pts[2] = a
		sim.n = 3
		return triangleCase(sim, dir)
	}
	return true
}

// degenerateContact builds an approximate contact when GJK terminates with
// a simplex too flat for EPA. The normal comes from the center separation
// and the witnesses from one support query per body.
func degenerateContact(a, b *body.RigidBody) Contact {
	n := scalar.SafeNormalize(
		b.Transform.Position.Sub(a.Transform.Position),
		scalar.Vec3{0, 1, 0},
	)
	pa := a.SupportWorld(n)
	pb := b.SupportWorld(n.Mul(-1))
	pen := pa.Sub(pb).Dot(n)
	if pen < 0 {
		pen = 0
	}
	return Contact{Normal: n, Penetration: pen, PointA: pa, PointB: pb}
}
