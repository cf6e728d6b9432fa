package viz

import (
	"github.com/curtisalleynesr/reactphysics3d/internal/body"
	"github.com/curtisalleynesr/reactphysics3d/internal/shape"
	"github.com/curtisalleynesr/reactphysics3d/internal/world"
)

// Frame renders a side view (x right, y up, z flattened) of every body in
// the world onto a fresh canvas.
func Frame(w *world.World, width, height int) string {
	c := NewCanvas(width, height)
	subW := width * 2
	subH := height * 4

	// view window: 20 m wide, ground line one meter above the bottom
	scale := float64(subW) / 20.0
	groundRow := subH - int(1.0*scale)

	toCanvas := func(x, y float64) (int, int) {
		cx := subW/2 + int(x*scale)
		cy := groundRow - int(y*scale)
		return cx, cy
	}

	gx0, gy := toCanvas(-10, 0)
	gx1, _ := toCanvas(10, 0)
	c.DrawLine(gx0, gy, gx1, gy)

	w.ForEachBody(func(h body.Handle, rb body.RigidBody) {
		if !rb.MotionEnabled {
			return
		}
		cx, cy := toCanvas(float64(rb.Transform.Position.X()), float64(rb.Transform.Position.Y()))
		r := int(drawRadius(rb.Shape) * scale)
		c.DrawCircle(cx, cy, r)
	})

	return c.String()
}

// drawRadius flattens a shape to a representative circle radius for the
// side view.
func drawRadius(s shape.Shape) float64 {
	switch t := s.(type) {
	case *shape.Sphere:
		return float64(t.Radius())
	case *shape.Capsule:
		return float64(t.Radius() + t.Height()/2)
	case *shape.Box:
		e := t.HalfExtents()
		return float64((e.X() + e.Y()) / 2)
	default:
		return 0.5
	}
}
