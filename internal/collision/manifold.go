package collision

import (
	"github.com/curtisalleynesr/reactphysics3d/internal/body"
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
)

// MaxManifoldPoints bounds the number of cached contact points per body
// pair. Four points are enough to stabilize a resting box.
const MaxManifoldPoints = 4

// driftThreshold is how far a cached point may slide tangentially before it
// stops describing the same surface feature and is dropped.
const driftThreshold scalar.Real = 0.02

// ContactPoint is one persistent contact between two bodies. Local positions
// anchor the point on each body so it can be refreshed as the bodies move;
// the accumulated impulses are the warm-start state carried across steps.
type ContactPoint struct {
	LocalA, LocalB scalar.Vec3
	WorldA, WorldB scalar.Vec3
	Normal         scalar.Vec3
	Penetration    scalar.Real
	FeatureID      uint32

	NormalImpulse   scalar.Real
	TangentImpulse1 scalar.Real
	TangentImpulse2 scalar.Real
	SplitImpulse    scalar.Real
}

// Manifold caches up to [MaxManifoldPoints] contact points for one body
// pair. It is owned by the pair for the pair's whole lifetime.
type Manifold struct {
	Points [MaxManifoldPoints]ContactPoint
	Count  int

	// Accumulated friction impulses at the manifold center, carried across
	// steps when friction is solved once per manifold instead of per point.
	FrictionImpulse1 scalar.Real
	FrictionImpulse2 scalar.Real
}

// NewManifold creates an empty manifold.
func NewManifold() *Manifold {
	return &Manifold{}
}

// Add merges a new contact candidate into the cache. A point with a matching
// feature id replaces the old geometry but keeps the accumulated impulses;
// an unmatched point enters with zero impulses, evicting the shallowest
// cached point when the manifold is full.
func (m *Manifold) Add(p ContactPoint) {
	for i := 0; i < m.Count; i++ {
		if m.Points[i].FeatureID == p.FeatureID {
			p.NormalImpulse = m.Points[i].NormalImpulse
			p.TangentImpulse1 = m.Points[i].TangentImpulse1
			p.TangentImpulse2 = m.Points[i].TangentImpulse2
			p.SplitImpulse = m.Points[i].SplitImpulse
			m.Points[i] = p
			return
		}
	}

	if m.Count < MaxManifoldPoints {
		m.Points[m.Count] = p
		m.Count++
		return
	}

	shallowest := 0
	for i := 1; i < m.Count; i++ {
		if m.Points[i].Penetration < m.Points[shallowest].Penetration {
			shallowest = i
		}
	}
	if p.Penetration > m.Points[shallowest].Penetration {
		m.Points[shallowest] = p
	}
}

// Refresh recomputes world geometry from the bodies' current transforms and
// drops points that separated along the normal or slid apart tangentially.
func (m *Manifold) Refresh(ta, tb body.Transform) {
	kept := 0
	for i := 0; i < m.Count; i++ {
		p := m.Points[i]
		p.WorldA = ta.Apply(p.LocalA)
		p.WorldB = tb.Apply(p.LocalB)
		p.Penetration = p.WorldA.Sub(p.WorldB).Dot(p.Normal)

		if p.Penetration < 0 {
			continue
		}
		gap := p.WorldA.Sub(p.WorldB)
		tangential := gap.Sub(p.Normal.Mul(gap.Dot(p.Normal)))
		if tangential.Dot(tangential) > driftThreshold*driftThreshold {
			continue
		}

		m.Points[kept] = p
		kept++
	}
	m.Count = kept
}

// Center returns the centroid of the cached world points on body B, used
// when friction is solved once per manifold instead of per point.
func (m *Manifold) Center() scalar.Vec3 {
	var c scalar.Vec3
	if m.Count == 0 {
		return c
	}
	for i := 0; i < m.Count; i++ {
		c = c.Add(m.Points[i].WorldB)
	}
	return c.Mul(1 / scalar.Real(m.Count))
}

// featureID quantizes the local anchor points into a stable identifier so a
// resting contact regenerated next step maps onto the same cached point.
func featureID(localA, localB scalar.Vec3) uint32 {
	const cell = 0.01
	h := uint32(2166136261)
	mix := func(v scalar.Vec3) {
		for i := 0; i < 3; i++ {
			q := int32(v[i] / cell)
			h ^= uint32(q)
			h *= 16777619
		}
	}
	mix(localA)
	mix(localB)
	return h
}
