package collision

// PairKey orders two body slot indices so each body pair has exactly one
// key regardless of discovery order.
type PairKey struct {
	A, B uint32
}

// MakePairKey builds the ordered key for two body slot indices.
func MakePairKey(i, j uint32) PairKey {
	if i < j {
		return PairKey{A: i, B: j}
	}
	return PairKey{A: j, B: i}
}

// Less gives pairs a total order for deterministic traversal.
func (k PairKey) Less(o PairKey) bool {
	if k.A != o.A {
		return k.A < o.A
	}
	return k.B < o.B
}

// Pair is one broad-phase overlap. It owns its manifold from first overlap
// to overlap end.
type Pair struct {
	Key      PairKey
	Manifold *Manifold
}

// NewPair creates a pair with a fresh manifold.
func NewPair(key PairKey) *Pair {
	return &Pair{Key: key, Manifold: NewManifold()}
}
