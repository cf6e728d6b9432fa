package collision

import "sort"

// PairObserver receives broad-phase pair lifecycle notifications. The world
// implements it to create and destroy overlapping pairs in lock-step with
// the broad phase.
type PairObserver interface {
	OnPairAdded(key PairKey)
	OnPairRemoved(key PairKey)
}

type proxy struct {
	index uint32
	box   AABB
}

// SweepPrune is a single-axis sweep-and-prune broad phase over body bounds.
// Proxies are sorted along X, candidate pairs are confirmed on the remaining
// axes, and the persistent pair set is diffed against the previous step to
// emit added/removed notifications in deterministic key order.
type SweepPrune struct {
	proxies map[uint32]AABB
	pairs   map[PairKey]struct{}

	// scratch reused across steps
	sorted  []proxy
	current []PairKey
	removed []PairKey
}

// NewSweepPrune returns an empty broad phase.
func NewSweepPrune() *SweepPrune {
	return &SweepPrune{
		proxies: make(map[uint32]AABB),
		pairs:   make(map[PairKey]struct{}),
	}
}

// UpdateProxy inserts or moves a body's bounds.
func (sp *SweepPrune) UpdateProxy(index uint32, box AABB) {
	sp.proxies[index] = box
}

// RemoveProxy forgets a destroyed body and immediately ends every pair the
// body was part of, reporting each through obs in deterministic key order.
// Waiting for the next sweep would let a slot recycled before then inherit a
// pair, and with it the old body's manifold.
func (sp *SweepPrune) RemoveProxy(index uint32, obs PairObserver) {
	delete(sp.proxies, index)

	sp.removed = sp.removed[:0]
	for key := range sp.pairs {
		if key.A == index || key.B == index {
			sp.removed = append(sp.removed, key)
		}
	}
	sort.Slice(sp.removed, func(i, j int) bool { return sp.removed[i].Less(sp.removed[j]) })
	for _, key := range sp.removed {
		delete(sp.pairs, key)
		obs.OnPairRemoved(key)
	}
}

// ComputePairs sweeps the current proxies and notifies obs about pairs that
// started or stopped overlapping since the previous call.
func (sp *SweepPrune) ComputePairs(obs PairObserver) {
	sp.sorted = sp.sorted[:0]
	for index, box := range sp.proxies {
		sp.sorted = append(sp.sorted, proxy{index: index, box: box})
	}
	sort.Slice(sp.sorted, func(i, j int) bool {
		a, b := sp.sorted[i], sp.sorted[j]
		if a.box.Min.X() != b.box.Min.X() {
			return a.box.Min.X() < b.box.Min.X()
		}
		return a.index < b.index
	})

	sp.current = sp.current[:0]
	for i := 0; i < len(sp.sorted); i++ {
		for j := i + 1; j < len(sp.sorted); j++ {
			if sp.sorted[j].box.Min.X() > sp.sorted[i].box.Max.X() {
				break
			}
			if sp.sorted[i].box.Overlaps(sp.sorted[j].box) {
				sp.current = append(sp.current, MakePairKey(sp.sorted[i].index, sp.sorted[j].index))
			}
		}
	}
	sort.Slice(sp.current, func(i, j int) bool { return sp.current[i].Less(sp.current[j]) })

	for _, key := range sp.current {
		if _, ok := sp.pairs[key]; !ok {
			sp.pairs[key] = struct{}{}
			obs.OnPairAdded(key)
		}
	}

	sp.removed = sp.removed[:0]
	currentSet := make(map[PairKey]struct{}, len(sp.current))
	for _, key := range sp.current {
		currentSet[key] = struct{}{}
	}
	for key := range sp.pairs {
		if _, ok := currentSet[key]; !ok {
			sp.removed = append(sp.removed, key)
		}
	}
	sort.Slice(sp.removed, func(i, j int) bool { return sp.removed[i].Less(sp.removed[j]) })
	for _, key := range sp.removed {
		delete(sp.pairs, key)
		obs.OnPairRemoved(key)
	}
}
