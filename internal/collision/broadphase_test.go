package collision

import (
	"testing"

	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
)

type recordingObserver struct {
	added   []PairKey
	removed []PairKey
}

func (r *recordingObserver) OnPairAdded(k PairKey)   { r.added = append(r.added, k) }
func (r *recordingObserver) OnPairRemoved(k PairKey) { r.removed = append(r.removed, k) }

func box(min, max scalar.Vec3) AABB { return AABB{Min: min, Max: max} }

func TestSweepPrunePairLifecycle(t *testing.T) {
	sp := NewSweepPrune()
	obs := &recordingObserver{}

	sp.UpdateProxy(0, box(scalar.Vec3{0, 0, 0}, scalar.Vec3{1, 1, 1}))
	sp.UpdateProxy(1, box(scalar.Vec3{0.5, 0, 0}, scalar.Vec3{1.5, 1, 1}))
	sp.UpdateProxy(2, box(scalar.Vec3{10, 0, 0}, scalar.Vec3{11, 1, 1}))

	sp.ComputePairs(obs)
	if len(obs.added) != 1 || obs.added[0] != (PairKey{A: 0, B: 1}) {
		t.Fatalf("added = %v, want [{0 1}]", obs.added)
	}

	// no change: no new notifications
	obs.added = nil
	sp.ComputePairs(obs)
	if len(obs.added) != 0 || len(obs.removed) != 0 {
		t.Fatalf("steady state notified: added=%v removed=%v", obs.added, obs.removed)
	}

	// proxy 1 moves away: pair ends
	sp.UpdateProxy(1, box(scalar.Vec3{5, 0, 0}, scalar.Vec3{6, 1, 1}))
	sp.ComputePairs(obs)
	if len(obs.removed) != 1 || obs.removed[0] != (PairKey{A: 0, B: 1}) {
		t.Fatalf("removed = %v, want [{0 1}]", obs.removed)
	}
}

func TestSweepPruneAxisOverlapIsNotEnough(t *testing.T) {
	sp := NewSweepPrune()
	obs := &recordingObserver{}

	// overlap on X only
	sp.UpdateProxy(0, box(scalar.Vec3{0, 0, 0}, scalar.Vec3{1, 1, 1}))
	sp.UpdateProxy(1, box(scalar.Vec3{0.5, 5, 0}, scalar.Vec3{1.5, 6, 1}))
	sp.ComputePairs(obs)
	if len(obs.added) != 0 {
		t.Fatalf("added = %v, want none", obs.added)
	}
}

func TestSweepPruneRemoveProxyEndsPairs(t *testing.T) {
	sp := NewSweepPrune()
	obs := &recordingObserver{}

	sp.UpdateProxy(0, box(scalar.Vec3{0, 0, 0}, scalar.Vec3{1, 1, 1}))
	sp.UpdateProxy(1, box(scalar.Vec3{0.5, 0, 0}, scalar.Vec3{1.5, 1, 1}))
	sp.ComputePairs(obs)

	sp.RemoveProxy(1, obs)
	if len(obs.removed) != 1 || obs.removed[0] != (PairKey{A: 0, B: 1}) {
		t.Fatalf("removed = %v, want the destroyed body's pair", obs.removed)
	}

	// the pair is gone before any sweep, so a later sweep has nothing to end
	obs.removed = nil
	sp.ComputePairs(obs)
	if len(obs.removed) != 0 {
		t.Fatalf("pair reported removed twice: %v", obs.removed)
	}
}

func TestMakePairKeyOrders(t *testing.T) {
	if MakePairKey(5, 2) != (PairKey{A: 2, B: 5}) {
		t.Error("key must order its indices")
	}
	if MakePairKey(2, 5) != MakePairKey(5, 2) {
		t.Error("key must be symmetric")
	}
}
