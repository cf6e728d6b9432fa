package metrics

import (
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
	"github.com/curtisalleynesr/reactphysics3d/internal/world"
)

// MaxPenetration tracks the deepest contact penetration seen over the run,
// a cheap proxy for solver stress.
type MaxPenetration struct {
	deepest scalar.Real
}

func NewMaxPenetration() *MaxPenetration { return &MaxPenetration{} }

func (m *MaxPenetration) Name() string { return "max_penetration" }

func (m *MaxPenetration) Observe(w *world.World, step uint64, t scalar.Real) {
	m.deepest = scalar.Max(m.deepest, w.MaxPenetration())
}

func (m *MaxPenetration) Value() scalar.Real { return m.deepest }
func (m *MaxPenetration) Reset()             { m.deepest = 0 }
