package shape

import (
	"testing"

	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
)

const tol = 1e-9

func vecClose(a, b scalar.Vec3, eps scalar.Real) bool {
	return scalar.Abs(a.X()-b.X()) <= eps &&
		scalar.Abs(a.Y()-b.Y()) <= eps &&
		scalar.Abs(a.Z()-b.Z()) <= eps
}

func TestCapsuleConstruction(t *testing.T) {
	if _, err := NewCapsule(0, 1); err != ErrInvalidRadius {
		t.Errorf("expected ErrInvalidRadius, got %v", err)
	}
	if _, err := NewCapsule(-0.5, 1); err != ErrInvalidRadius {
		t.Errorf("expected ErrInvalidRadius, got %v", err)
	}
	if _, err := NewCapsule(0.5, 0); err != ErrInvalidHeight {
		t.Errorf("expected ErrInvalidHeight, got %v", err)
	}
	c, err := NewCapsule(0.5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Radius() != 0.5 || c.Height() != 2 {
		t.Errorf("got radius=%v height=%v", c.Radius(), c.Height())
	}
}

func TestCapsuleSupportWorkedExample(t *testing.T) {
	c, _ := NewCapsule(0.5, 2)

	tests := []struct {
		name   string
		dir    scalar.Vec3
		margin bool
		want   scalar.Vec3
	}{
		{"up with margin", scalar.Vec3{0, 1, 0}, true, scalar.Vec3{0, 1.5, 0}},
		{"down with margin", scalar.Vec3{0, -1, 0}, true, scalar.Vec3{0, -1.5, 0}},
		{"up without margin", scalar.Vec3{0, 1, 0}, false, scalar.Vec3{0, 1, 0}},
		{"down without margin", scalar.Vec3{0, -1, 0}, false, scalar.Vec3{0, -1, 0}},
		{"sideways without margin picks bottom", scalar.Vec3{1, 0, 0}, false, scalar.Vec3{0, -1, 0}},
	}

	for _, tt := range tests {
		var got scalar.Vec3
		if tt.margin {
			got = c.SupportWithMargin(tt.dir)
		} else {
			got = c.SupportWithoutMargin(tt.dir)
		}
		if !vecClose(got, tt.want, tol) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCapsuleSupportDegenerateDirection(t *testing.T) {
	c, _ := NewCapsule(0.5, 2)

	got := c.SupportWithMargin(scalar.Vec3{})
	if got != (scalar.Vec3{0, 0.5, 0}) {
		t.Errorf("zero direction: got %v, want (0, 0.5, 0)", got)
	}
}

// For any direction, the margin support point must be at distance exactly
// radius from the nearer segment endpoint, and must equal the core support
// plus radius along the unit direction when both pick the same endpoint.
func TestCapsuleSupportDistanceInvariant(t *testing.T) {
	c, _ := NewCapsule(0.35, 1.4)

	dirs := []scalar.Vec3{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {-1, 0, 0},
		{1, 2, 3}, {-0.2, 0.9, 0.1}, {5, -5, 5}, {0.001, -1, 0.001},
	}
	for _, d := range dirs {
		p := c.SupportWithMargin(d)

		top := scalar.Vec3{0, 0.7, 0}
		bottom := scalar.Vec3{0, -0.7, 0}
		dTop := p.Sub(top).Len()
		dBottom := p.Sub(bottom).Len()
		nearest := scalar.Min(dTop, dBottom)
		if scalar.Abs(nearest-0.35) > 1e-9 {
			t.Errorf("dir %v: support %v is at distance %v from nearest endpoint, want 0.35", d, p, nearest)
		}

		core := c.SupportWithoutMargin(d)
		sameEndpoint := (dTop <= dBottom) == (core.Y() > 0)
		if sameEndpoint {
			unit := d.Mul(1 / d.Len())
			want := core.Add(unit.Mul(0.35))
			if !vecClose(p, want, 1e-9) {
				t.Errorf("dir %v: got %v, want core+r*unit = %v", d, p, want)
			}
		}
	}
}

// An exact tie between the two end spheres must keep the top sphere.
func TestCapsuleSupportTieBreak(t *testing.T) {
	c, _ := NewCapsule(0.5, 2)

	p := c.SupportWithMargin(scalar.Vec3{1, 0, 0})
	if !vecClose(p, scalar.Vec3{0.5, 1, 0}, tol) {
		t.Errorf("horizontal tie: got %v, want (0.5, 1, 0)", p)
	}
}

func TestCapsuleInertiaTensor(t *testing.T) {
	cases := []struct {
		radius, height, mass scalar.Real
	}{
		{0.5, 2, 1},
		{0.1, 0.3, 2.5},
		{1.5, 4, 10},
	}
	for _, tc := range cases {
		c, err := NewCapsule(tc.radius, tc.height)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		m := c.LocalInertiaTensor(tc.mass)

		ixx, iyy, izz := m.At(0, 0), m.At(1, 1), m.At(2, 2)
		if ixx != izz {
			t.Errorf("r=%v h=%v: Ixx=%v != Izz=%v", tc.radius, tc.height, ixx, izz)
		}
		if ixx <= 0 || iyy <= 0 || izz <= 0 {
			t.Errorf("r=%v h=%v: non-positive diagonal %v %v %v", tc.radius, tc.height, ixx, iyy, izz)
		}
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				if row != col && m.At(row, col) != 0 {
					t.Errorf("off-diagonal (%d,%d) = %v, want 0", row, col, m.At(row, col))
				}
			}
		}
	}
}
