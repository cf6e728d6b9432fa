package metrics

import (
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
	"github.com/curtisalleynesr/reactphysics3d/internal/world"
)

// AwakeBodies reports how many bodies are currently awake; a settled scene
// trends toward zero.
type AwakeBodies struct {
	count scalar.Real
}

func NewAwakeBodies() *AwakeBodies { return &AwakeBodies{} }

func (a *AwakeBodies) Name() string { return "awake_bodies" }

func (a *AwakeBodies) Observe(w *world.World, step uint64, t scalar.Real) {
	a.count = scalar.Real(w.AwakeBodyCount())
}

func (a *AwakeBodies) Value() scalar.Real { return a.count }
func (a *AwakeBodies) Reset()             { a.count = 0 }
