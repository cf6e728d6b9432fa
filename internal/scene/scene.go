// Package scene builds ready-to-run demo worlds from a configuration.
package scene

import (
	"errors"
	"sort"

	"github.com/curtisalleynesr/reactphysics3d/internal/body"
	"github.com/curtisalleynesr/reactphysics3d/internal/config"
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
	"github.com/curtisalleynesr/reactphysics3d/internal/shape"
	"github.com/curtisalleynesr/reactphysics3d/internal/solver"
	"github.com/curtisalleynesr/reactphysics3d/internal/world"
)

// ErrUnknownScene names a scene with no builder.
var ErrUnknownScene = errors.New("scene: unknown scene")

// BuildFunc constructs a world plus the handles of the bodies worth
// tracing, in creation order.
type BuildFunc func(cfg *config.Config) (*world.World, []body.Handle, error)

var scenes = map[string]BuildFunc{
	"drop":     Drop,
	"stack":    Stack,
	"pendulum": Pendulum,
}

// Names lists the available scenes in sorted order.
func Names() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the named scene.
func Build(name string, cfg *config.Config) (*world.World, []body.Handle, error) {
	fn, ok := scenes[name]
	if !ok {
		return nil, nil, ErrUnknownScene
	}
	return fn(cfg)
}

func at(p scalar.Vec3) body.Transform {
	return body.NewTransform(p, scalar.QuatIdent())
}

func groundedWorld(cfg *config.Config) (*world.World, error) {
	w, err := world.New(cfg.WorldSettings())
	if err != nil {
		return nil, err
	}
	ground, err := shape.NewBox(scalar.Vec3{20, 0.5, 20})
	if err != nil {
		return nil, err
	}
	// rounded top face at y = 0
	center := scalar.Vec3{0, -0.5 - shape.DefaultMargin, 0}
	if _, err := w.CreateStaticBody(at(center), ground); err != nil {
		return nil, err
	}
	return w, nil
}

// Drop rains spheres onto a static floor from staggered heights.
func Drop(cfg *config.Config) (*world.World, []body.Handle, error) {
	w, err := groundedWorld(cfg)
	if err != nil {
		return nil, nil, err
	}

	n := cfg.Params.Bodies
	if n <= 0 {
		n = 1
	}
	spacing := scalar.Real(cfg.Params.Spacing)
	if spacing <= 0 {
		spacing = 1.2
	}

	handles := make([]body.Handle, 0, n)
	for i := 0; i < n; i++ {
		s, err := shape.NewSphere(0.5)
		if err != nil {
			return nil, nil, err
		}
		p := scalar.Vec3{
			scalar.Real(i%3) * spacing,
			scalar.Real(cfg.Params.DropHeight) + scalar.Real(i)*spacing,
			scalar.Real(i/3) * spacing,
		}
		h, err := w.CreateBody(at(p), 1, s)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Params.Restitution > 0 {
			if err := w.SetRestitution(h, scalar.Real(cfg.Params.Restitution)); err != nil {
				return nil, nil, err
			}
		}
		handles = append(handles, h)
	}
	return w, handles, nil
}

// Stack piles boxes on a static floor, each slightly above the previous so
// the solver has to settle the column.
func Stack(cfg *config.Config) (*world.World, []body.Handle, error) {
	w, err := groundedWorld(cfg)
	if err != nil {
		return nil, nil, err
	}

	n := cfg.Params.Bodies
	if n <= 0 {
		n = 3
	}
	spacing := scalar.Real(cfg.Params.Spacing)
	if spacing <= 0 {
		spacing = 1.05
	}

	half := scalar.Vec3{0.5, 0.5, 0.5}
	height := half.Y() + shape.DefaultMargin
	handles := make([]body.Handle, 0, n)
	for i := 0; i < n; i++ {
		box, err := shape.NewBox(half)
		if err != nil {
			return nil, nil, err
		}
		y := height + scalar.Real(i)*2*height*spacing
		h, err := w.CreateBody(at(scalar.Vec3{0, y, 0}), 1, box)
		if err != nil {
			return nil, nil, err
		}
		handles = append(handles, h)
	}
	return w, handles, nil
}

// Pendulum hangs a capsule bob from a static anchor on a distance joint
// and starts it horizontal.
func Pendulum(cfg *config.Config) (*world.World, []body.Handle, error) {
	w, err := world.New(cfg.WorldSettings())
	if err != nil {
		return nil, nil, err
	}

	length := scalar.Real(cfg.Params.RodLength)
	if length <= 0 {
		length = 1
	}

	anchorShape, err := shape.NewSphere(0.1)
	if err != nil {
		return nil, nil, err
	}
	anchor, err := w.CreateStaticBody(at(scalar.Vec3{0, 0, 0}), anchorShape)
	if err != nil {
		return nil, nil, err
	}

	bobShape, err := shape.NewCapsule(0.1, 0.3)
	if err != nil {
		return nil, nil, err
	}
	bob, err := w.CreateBody(at(scalar.Vec3{length, 0, 0}), 1, bobShape)
	if err != nil {
		return nil, nil, err
	}

	rod, err := solver.NewDistanceJoint(anchor, bob, scalar.Vec3{}, scalar.Vec3{}, length)
	if err != nil {
		return nil, nil, err
	}
	if _, err := w.CreateJoint(rod); err != nil {
		return nil, nil, err
	}
	return w, []body.Handle{bob}, nil
}
