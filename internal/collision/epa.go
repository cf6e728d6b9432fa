package collision

import (
	"github.com/curtisalleynesr/reactphysics3d/internal/body"
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
)

const (
	epaMaxIterations = 32
	epaTolerance     = 1e-4
	epaMinFaceDist   = 1e-6
)

// epaFace is one triangular face of the expanding polytope, referencing the
// shared vertex list so witness points survive every rebuild.
type epaFace struct {
	v      [3]int
	normal scalar.Vec3
	dist   scalar.Real
}

// newEPAFace orients the face normal away from the polytope interior, using
// interior as the reference point.
func newEPAFace(verts []supportPoint, i0, i1, i2 int, interior scalar.Vec3) (epaFace, bool) {
	a, b, c := verts[i0].w, verts[i1].w, verts[i2].w
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Dot(n) < 1e-12 {
		return epaFace{}, false
	}
	n = n.Mul(1 / scalar.Sqrt(n.Dot(n)))
	if n.Dot(a.Sub(interior)) < 0 {
		n = n.Mul(-1)
	}
	return epaFace{v: [3]int{i0, i1, i2}, normal: n, dist: a.Dot(n)}, true
}

// epaPenetration expands the polytope seeded by GJK's tetrahedron until the
// face closest to the origin stops improving, then reconstructs the witness
// points barycentrically on that face.
func epaPenetration(a, b *body.RigidBody, sim *simplex) (Contact, bool) {
	verts := append([]supportPoint(nil), sim.pts[:4]...)
	interior := verts[0].w.Add(verts[1].w).Add(verts[2].w).Add(verts[3].w).Mul(0.25)

	faces := make([]epaFace, 0, 16)
	for _, tri := range [][3]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}} {
		f, ok := newEPAFace(verts, tri[0], tri[1], tri[2], interior)
		if !ok {
			return Contact{}, false
		}
		faces = append(faces, f)
	}

	for iter := 0; iter < epaMaxIterations; iter++ {
		closest := closestFace(faces)
		if closest < 0 {
			return Contact{}, false
		}
		face := faces[closest]

		sp := minkowskiSupport(a, b, face.normal)
		growth := sp.w.Dot(face.normal) - face.dist
		if growth < epaTolerance {
			return contactFromFace(verts, face), true
		}

		faces = expandPolytope(faces, &verts, sp, interior)
		if len(faces) == 0 {
			return Contact{}, false
		}
	}

	// out of iterations: the current closest face is still a usable answer
	closest := closestFace(faces)
	if closest < 0 {
		return Contact{}, false
	}
	return contactFromFace(verts, faces[closest]), true
}

// closestFace returns the index of the face nearest the origin, skipping
// degenerate faces behind it. Ties keep the lowest index.
func closestFace(faces []epaFace) int {
	best := -1
	bestDist := scalar.MaxReal
	for i, f := range faces {
		if f.dist < epaMinFaceDist {
			continue
		}
		if f.dist < bestDist {
			best, bestDist = i, f.dist
		}
	}
	if best < 0 && len(faces) > 0 {
		// all faces nearly touch the origin; take the first
		return 0
	}
	return best
}

// expandPolytope removes every face visible from the new support point and
// stitches new faces along the silhouette boundary. Edges are collected in
// slice order, so the rebuilt face list is deterministic.
func expandPolytope(faces []epaFace, verts *[]supportPoint, sp supportPoint, interior scalar.Vec3) []epaFace {
	type edge struct{ a, b int }

	var boundary []edge
	addEdge := func(a, b int) {
		for i, e := range boundary {
			if (e.a == a && e.b == b) || (e.a == b && e.b == a) {
				// shared by two visible faces: interior edge
				boundary = append(boundary[:i], boundary[i+1:]...)
				return
			}
		}
		boundary = append(boundary, edge{a, b})
	}

	kept := faces[:0]
	anyVisible := false
	for _, f := range faces {
		visible := sp.w.Sub((*verts)[f.v[0]].w).Dot(f.normal) > 0
		if visible {
			anyVisible = true
			addEdge(f.v[0], f.v[1])
			addEdge(f.v[1], f.v[2])
			addEdge(f.v[2], f.v[0])
		} else {
			kept = append(kept, f)
		}
	}
	if !anyVisible {
		return kept
	}

	*verts = append(*verts, sp)
	newIdx := len(*verts) - 1
	for _, e := range boundary {
		if f, ok := newEPAFace(*verts, e.a, e.b, newIdx, interior); ok {
			kept = append(kept, f)
		}
	}
	return kept
}

// contactFromFace projects the origin onto the face plane and interpolates
// the witness points with the projection's barycentric coordinates.
func contactFromFace(verts []supportPoint, f epaFace) Contact {
	p0, p1, p2 := verts[f.v[0]], verts[f.v[1]], verts[f.v[2]]
	proj := f.normal.Mul(f.dist)

	l0, l1, l2 := barycentric(proj, p0.w, p1.w, p2.w)

	pa := p0.a.Mul(l0).Add(p1.a.Mul(l1)).Add(p2.a.Mul(l2))
	pb := p0.b.Mul(l0).Add(p1.b.Mul(l1)).Add(p2.b.Mul(l2))

	return Contact{
		Normal:      f.normal,
		Penetration: f.dist,
		PointA:      pa,
		PointB:      pb,
	}
}

// barycentric returns the coordinates of p with respect to triangle (a,b,c),
// or equal weights when the triangle is degenerate.
func barycentric(p, a, b, c scalar.Vec3) (scalar.Real, scalar.Real, scalar.Real) {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := p.Sub(a)

	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)

	denom := d00*d11 - d01*d01
	if scalar.Abs(denom) < 1e-12 {
		third := scalar.Real(1) / 3
		return third, third, third
	}
	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	return 1 - v - w, v, w
}
