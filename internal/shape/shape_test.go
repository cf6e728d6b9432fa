package shape

import (
	"testing"

	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
)

func TestSphereSupport(t *testing.T) {
	s, err := NewSphere(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := s.SupportWithoutMargin(scalar.Vec3{1, 2, 3}); got != (scalar.Vec3{}) {
		t.Errorf("core support should be the origin, got %v", got)
	}
	if got := s.SupportWithMargin(scalar.Vec3{3, 0, 0}); !vecClose(got, scalar.Vec3{2, 0, 0}, tol) {
		t.Errorf("got %v, want (2, 0, 0)", got)
	}
	if got := s.SupportWithMargin(scalar.Vec3{}); got != (scalar.Vec3{0, 2, 0}) {
		t.Errorf("degenerate direction: got %v, want (0, 2, 0)", got)
	}

	if _, err := NewSphere(0); err != ErrInvalidRadius {
		t.Errorf("expected ErrInvalidRadius, got %v", err)
	}
}

func TestBoxSupport(t *testing.T) {
	b, err := NewBox(scalar.Vec3{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := b.SupportWithoutMargin(scalar.Vec3{1, -1, 1}); got != (scalar.Vec3{1, -2, 3}) {
		t.Errorf("got %v, want (1, -2, 3)", got)
	}
	// zero component falls to the negative face
	if got := b.SupportWithoutMargin(scalar.Vec3{0, 1, 0}); got != (scalar.Vec3{-1, 2, -3}) {
		t.Errorf("got %v, want (-1, 2, -3)", got)
	}
	got := b.SupportWithMargin(scalar.Vec3{1, 0, 0})
	want := scalar.Vec3{1 + DefaultMargin, -2, -3}
	if !vecClose(got, want, tol) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := NewBox(scalar.Vec3{1, 0, 1}); err != ErrInvalidExtent {
		t.Errorf("expected ErrInvalidExtent, got %v", err)
	}
}

func TestConvexHullSupport(t *testing.T) {
	verts := []scalar.Vec3{
		{1, 1, 1}, {-1, 1, -1}, {1, -1, -1}, {-1, -1, 1},
	}
	h, err := NewConvexHull(verts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := h.SupportWithoutMargin(scalar.Vec3{1, 1, 1}); got != (scalar.Vec3{1, 1, 1}) {
		t.Errorf("got %v, want (1, 1, 1)", got)
	}
	// a tie keeps the earliest vertex
	if got := h.SupportWithoutMargin(scalar.Vec3{0, 1, 0}); got != (scalar.Vec3{1, 1, 1}) {
		t.Errorf("tie: got %v, want first vertex (1, 1, 1)", got)
	}

	if _, err := NewConvexHull(verts[:3]); err != ErrDegenerateHull {
		t.Errorf("expected ErrDegenerateHull, got %v", err)
	}
}

func TestInertiaTensorsPositiveDiagonal(t *testing.T) {
	sphere, _ := NewSphere(1)
	box, _ := NewBox(scalar.Vec3{1, 1, 1})
	hull, _ := NewConvexHull([]scalar.Vec3{{1, 1, 1}, {-1, 1, -1}, {1, -1, -1}, {-1, -1, 1}})

	for _, s := range []Shape{sphere, box, hull} {
		m := s.LocalInertiaTensor(3)
		for i := 0; i < 3; i++ {
			if m.At(i, i) <= 0 {
				t.Errorf("%v: diagonal entry %d is %v, want > 0", s.Type(), i, m.At(i, i))
			}
		}
	}
}
