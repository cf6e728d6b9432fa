package collision

import (
	"testing"

	"github.com/curtisalleynesr/reactphysics3d/internal/body"
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
	"github.com/curtisalleynesr/reactphysics3d/internal/shape"
)

func sphereBody(t *testing.T, radius scalar.Real, pos scalar.Vec3) *body.RigidBody {
	t.Helper()
	s, err := shape.NewSphere(radius)
	if err != nil {
		t.Fatalf("shape: %v", err)
	}
	rb, err := body.New(body.NewTransform(pos, scalar.QuatIdent()), 1, s.LocalInertiaTensor(1), s)
	if err != nil {
		t.Fatalf("body: %v", err)
	}
	return rb
}

func TestOverlapSeparatedSpheres(t *testing.T) {
	a := sphereBody(t, 1, scalar.Vec3{0, 0, 0})
	b := sphereBody(t, 1, scalar.Vec3{2.5, 0, 0})

	if _, hit := TestOverlap(a, b); hit {
		t.Error("spheres with a 0.5 gap must not collide")
	}
}

func TestOverlapPenetratingSpheres(t *testing.T) {
	a := sphereBody(t, 1, scalar.Vec3{0, 0, 0})
	b := sphereBody(t, 1, scalar.Vec3{1.5, 0, 0})

	c, hit := TestOverlap(a, b)
	if !hit {
		t.Fatal("spheres overlapping by 0.5 must collide")
	}
	if scalar.Abs(c.Penetration-0.5) > 5e-3 {
		t.Errorf("penetration = %v, want 0.5", c.Penetration)
	}
	if scalar.Abs(c.Normal.X()-1) > 5e-3 {
		t.Errorf("normal = %v, want (1, 0, 0)", c.Normal)
	}
	// witnesses sit on each boundary, separated by the penetration
	if got := c.PointA.Sub(c.PointB).Dot(c.Normal); scalar.Abs(got-c.Penetration) > 1e-6 {
		t.Errorf("(PointA-PointB)·n = %v, want %v", got, c.Penetration)
	}
}

func TestOverlapCapsuleOnGround(t *testing.T) {
	groundShape, _ := shape.NewBox(scalar.Vec3{5, 0.5, 5})
	ground, err := body.New(body.IdentityTransform(), 1, groundShape.LocalInertiaTensor(1), groundShape)
	if err != nil {
		t.Fatalf("body: %v", err)
	}
	ground.MotionEnabled = false

	capShape, _ := shape.NewCapsule(0.5, 1)
	capsule, err := body.New(
		body.NewTransform(scalar.Vec3{0, 1, 0}, scalar.QuatIdent()),
		1, capShape.LocalInertiaTensor(1), capShape,
	)
	if err != nil {
		t.Fatalf("body: %v", err)
	}

	c, hit := TestOverlap(ground, capsule)
	if !hit {
		t.Fatal("capsule resting into the ground must collide")
	}
	if c.Normal.Y() < 0.95 {
		t.Errorf("normal = %v, want close to (0, 1, 0)", c.Normal)
	}
	if c.Penetration <= 0 {
		t.Errorf("penetration = %v, want > 0", c.Penetration)
	}
}

func TestOverlapIsDeterministic(t *testing.T) {
	a1 := sphereBody(t, 1, scalar.Vec3{0.1, 0.2, 0.3})
	b1 := sphereBody(t, 1, scalar.Vec3{1.2, 0.9, 0.4})
	a2 := sphereBody(t, 1, scalar.Vec3{0.1, 0.2, 0.3})
	b2 := sphereBody(t, 1, scalar.Vec3{1.2, 0.9, 0.4})

	c1, hit1 := TestOverlap(a1, b1)
	c2, hit2 := TestOverlap(a2, b2)
	if hit1 != hit2 || c1 != c2 {
		t.Errorf("identical inputs gave different contacts: %+v vs %+v", c1, c2)
	}
}
