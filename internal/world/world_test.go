package world

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/curtisalleynesr/reactphysics3d/internal/body"
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
	"github.com/curtisalleynesr/reactphysics3d/internal/shape"
	"github.com/curtisalleynesr/reactphysics3d/internal/solver"
)

func newSphere(t *testing.T, r scalar.Real) shape.Shape {
	t.Helper()
	s, err := shape.NewSphere(r)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func newBox(t *testing.T, extents scalar.Vec3) shape.Shape {
	t.Helper()
	s, err := shape.NewBox(extents)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func at(p scalar.Vec3) body.Transform {
	return body.NewTransform(p, scalar.QuatIdent())
}

// groundedWorld builds a wide immovable floor whose rounded top surface
// sits at y = 0, plus a unit-mass ball of radius 0.5 resting just inside
// the contact slop.
func groundedWorld(t *testing.T) (*World, body.Handle) {
	t.Helper()
	w, err := New(DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.CreateStaticBody(at(scalar.Vec3{0, -0.5 - shape.DefaultMargin, 0}), newBox(t, scalar.Vec3{5, 0.5, 5})); err != nil {
		t.Fatal(err)
	}
	ball, err := w.CreateBody(at(scalar.Vec3{0, 0.495, 0}), 1, newSphere(t, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	return w, ball
}

func TestUpdateStoppedIsNoOp(t *testing.T) {
	w, ball := groundedWorld(t)

	before, _ := w.Transform(ball)
	for i := 0; i < 10; i++ {
		if err := w.Update(); err != nil {
			t.Fatal(err)
		}
	}
	after, _ := w.Transform(ball)
	if before != after {
		t.Errorf("stopped world moved a body: %v -> %v", before.Position, after.Position)
	}
	if w.Steps() != 0 {
		t.Errorf("stopped world counted %d steps", w.Steps())
	}
}

func TestFreeFall(t *testing.T) {
	w, err := New(DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	ball, err := w.CreateBody(at(scalar.Vec3{0, 100, 0}), 1, newSphere(t, 0.5))
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 60; i++ {
		if err := w.Update(); err != nil {
			t.Fatal(err)
		}
	}

	lin, _, err := w.Velocity(ball)
	if err != nil {
		t.Fatal(err)
	}
	// v = g t after one second of free fall
	if got, want := lin.Y(), scalar.Real(-9.81); scalar.Abs(got-want) > 1e-6 {
		t.Errorf("velocity after 1s = %v, want %v", got, want)
	}
	tr, _ := w.Transform(ball)
	if tr.Position.Y() >= 100 {
		t.Errorf("body did not fall: y = %v", tr.Position.Y())
	}
}

func TestRestingBallStaysOnFloor(t *testing.T) {
	w, ball := groundedWorld(t)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 120; i++ {
		if err := w.Update(); err != nil {
			t.Fatal(err)
		}
	}

	tr, _ := w.Transform(ball)
	if y := tr.Position.Y(); y < 0.4 || y > 0.6 {
		t.Errorf("resting ball drifted to y = %v", y)
	}
	if w.ManifoldCount() == 0 {
		t.Error("resting contact lost its manifold")
	}
}

func TestRestingBodiesFallAsleepAndStayPut(t *testing.T) {
	w, ball := groundedWorld(t)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}

	// stay well past TimeBeforeSleep
	for i := 0; i < 180; i++ {
		if err := w.Update(); err != nil {
			t.Fatal(err)
		}
	}
	asleep, err := w.Sleeping(ball)
	if err != nil {
		t.Fatal(err)
	}
	if !asleep {
		t.Fatal("resting ball never fell asleep")
	}

	before, _ := w.Transform(ball)
	for i := 0; i < 30; i++ {
		if err := w.Update(); err != nil {
			t.Fatal(err)
		}
	}
	after, _ := w.Transform(ball)
	if before != after {
		t.Errorf("sleeping ball moved: %v -> %v", before.Position, after.Position)
	}

	if err := w.ApplyImpulse(ball, scalar.Vec3{0, 5, 0}, after.Position); err != nil {
		t.Fatal(err)
	}
	asleep, _ = w.Sleeping(ball)
	if asleep {
		t.Error("impulse did not wake the ball")
	}
}

func snapshot(w *World) string {
	var sb strings.Builder
	w.ForEachBody(func(h body.Handle, rb body.RigidBody) {
		fmt.Fprintf(&sb, "%d p=%.17g %.17g %.17g v=%.17g %.17g %.17g\n",
			h.Index,
			rb.Transform.Position.X(), rb.Transform.Position.Y(), rb.Transform.Position.Z(),
			rb.LinearVelocity.X(), rb.LinearVelocity.Y(), rb.LinearVelocity.Z())
	})
	return sb.String()
}

func TestStepDeterminism(t *testing.T) {
	build := func() *World {
		w, err := New(DefaultSettings())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.CreateStaticBody(at(scalar.Vec3{0, -0.5 - shape.DefaultMargin, 0}), newBox(t, scalar.Vec3{10, 0.5, 10})); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 4; i++ {
			p := scalar.Vec3{scalar.Real(i) * 0.3, 2 + scalar.Real(i)*1.1, scalar.Real(i) * -0.2}
			if _, err := w.CreateBody(at(p), 1, newSphere(t, 0.5)); err != nil {
				t.Fatal(err)
			}
		}
		if err := w.Start(); err != nil {
			t.Fatal(err)
		}
		return w
	}

	w1, w2 := build(), build()
	for i := 0; i < 240; i++ {
		if err := w1.Update(); err != nil {
			t.Fatal(err)
		}
		if err := w2.Update(); err != nil {
			t.Fatal(err)
		}
	}

	s1, s2 := snapshot(w1), snapshot(w2)
	if s1 != s2 {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(s1),
			B:        difflib.SplitLines(s2),
			FromFile: "world 1",
			ToFile:   "world 2",
			Context:  2,
		})
		t.Errorf("identical worlds diverged:\n%s", diff)
	}
}

func TestPendulumKeepsRodLength(t *testing.T) {
	w, err := New(DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	anchor, err := w.CreateStaticBody(at(scalar.Vec3{0, 0, 0}), newSphere(t, 0.1))
	if err != nil {
		t.Fatal(err)
	}
	bob, err := w.CreateBody(at(scalar.Vec3{1, 0, 0}), 1, newSphere(t, 0.1))
	if err != nil {
		t.Fatal(err)
	}
	rod, err := solver.NewDistanceJoint(anchor, bob, scalar.Vec3{}, scalar.Vec3{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.CreateJoint(rod); err != nil {
		t.Fatal(err)
	}

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 120; i++ {
		if err := w.Update(); err != nil {
			t.Fatal(err)
		}
	}

	tr, _ := w.Transform(bob)
	if got := tr.Position.Len(); scalar.Abs(got-1) > 0.05 {
		t.Errorf("rod length after swing = %v, want 1", got)
	}
	if tr.Position.Y() >= 0 {
		t.Errorf("bob did not swing down: %v", tr.Position)
	}
}

func TestHandleMisuse(t *testing.T) {
	w, ball := groundedWorld(t)

	if err := w.DestroyBody(ball); err != nil {
		t.Fatal(err)
	}
	if err := w.DestroyBody(ball); err != ErrDestroyedHandle {
		t.Errorf("double destroy: got %v, want ErrDestroyedHandle", err)
	}
	if _, err := w.Transform(ball); err != ErrDestroyedHandle {
		t.Errorf("query after destroy: got %v, want ErrDestroyedHandle", err)
	}

	// recycling the slot bumps the generation and invalidates old handles
	fresh, err := w.CreateBody(at(scalar.Vec3{0, 3, 0}), 1, newSphere(t, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Index != ball.Index {
		t.Fatalf("expected slot reuse, got index %d vs %d", fresh.Index, ball.Index)
	}
	if _, err := w.Transform(ball); err != ErrInvalidHandle {
		t.Errorf("stale handle after reuse: got %v, want ErrInvalidHandle", err)
	}

	bogus := body.Handle{Index: 999}
	if _, err := w.Transform(bogus); err != ErrInvalidHandle {
		t.Errorf("out-of-range handle: got %v, want ErrInvalidHandle", err)
	}
}

type mutatingObserver struct {
	w    *World
	errs []error
}

func (o *mutatingObserver) OnStep(w *World, step uint64, t scalar.Real) {
	_, err := o.w.CreateBody(at(scalar.Vec3{0, 10, 0}), 1, o.nextShape())
	o.errs = append(o.errs, err)
}

func (o *mutatingObserver) nextShape() shape.Shape {
	s, _ := shape.NewSphere(0.5)
	return s
}

func TestMutationDuringStepRejected(t *testing.T) {
	w, _ := groundedWorld(t)
	obs := &mutatingObserver{w: w}
	w.AddObserver(obs)

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if err := w.Update(); err != nil {
		t.Fatal(err)
	}

	if len(obs.errs) != 1 || obs.errs[0] != ErrWorldLocked {
		t.Errorf("mutation from observer: got %v, want ErrWorldLocked", obs.errs)
	}
}

func TestDestroyBodyEndsItsPairs(t *testing.T) {
	w, ball := groundedWorld(t)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 30; i++ {
		if err := w.Update(); err != nil {
			t.Fatal(err)
		}
	}

	var carried scalar.Real
	for _, p := range w.pairs {
		for i := 0; i < p.Manifold.Count; i++ {
			carried += scalar.Abs(p.Manifold.Points[i].NormalImpulse)
		}
	}
	if carried == 0 {
		t.Fatal("resting contact accumulated no impulse")
	}

	if err := w.DestroyBody(ball); err != nil {
		t.Fatal(err)
	}
	if len(w.pairs) != 0 {
		t.Fatalf("destroyed body's pairs survived: %d", len(w.pairs))
	}

	// a body created into the recycled slot before the next step must not
	// inherit the destroyed body's manifold or its warm-start impulses
	fresh, err := w.CreateBody(at(scalar.Vec3{0, 0.495, 0}), 1, newSphere(t, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Index != ball.Index {
		t.Fatalf("expected slot reuse, got index %d vs %d", fresh.Index, ball.Index)
	}
	if len(w.pairs) != 0 {
		t.Fatal("new body inherited a pair before its first step")
	}

	if err := w.Update(); err != nil {
		t.Fatal(err)
	}
	if w.ManifoldCount() != 1 {
		t.Fatalf("fresh contact not rebuilt: %d manifolds", w.ManifoldCount())
	}
}

func TestGravityToggle(t *testing.T) {
	w, err := New(DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	ball, err := w.CreateBody(at(scalar.Vec3{0, 50, 0}), 1, newSphere(t, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.SetGravityEnabled(false); err != nil {
		t.Fatal(err)
	}
	if w.GravityEnabled() {
		t.Fatal("gravity still reported enabled")
	}

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if err := w.Update(); err != nil {
			t.Fatal(err)
		}
	}
	lin, _, _ := w.Velocity(ball)
	if lin != (scalar.Vec3{}) {
		t.Errorf("body accelerated with gravity off: %v", lin)
	}

	if err := w.SetGravityEnabled(true); err != nil {
		t.Fatal(err)
	}
	if err := w.Update(); err != nil {
		t.Fatal(err)
	}
	lin, _, _ = w.Velocity(ball)
	if got, want := lin.Y(), -9.81*w.Timestep(); scalar.Abs(got-want) > 1e-9 {
		t.Errorf("velocity after re-enabling gravity = %v, want %v", got, want)
	}
}

type flagObserver struct {
	w    *World
	errs []error
}

func (o *flagObserver) OnStep(w *World, step uint64, t scalar.Real) {
	o.errs = append(o.errs,
		o.w.SetGravityEnabled(false),
		o.w.SetSplitImpulse(false),
		o.w.SetFrictionAtCenter(true),
		o.w.SetErrorCorrection(false),
	)
}

func TestFlagSettersLockedDuringStep(t *testing.T) {
	w, _ := groundedWorld(t)
	obs := &flagObserver{w: w}
	w.AddObserver(obs)

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if err := w.Update(); err != nil {
		t.Fatal(err)
	}

	if len(obs.errs) != 4 {
		t.Fatalf("observer recorded %d results, want 4", len(obs.errs))
	}
	for i, err := range obs.errs {
		if err != ErrWorldLocked {
			t.Errorf("flag setter %d during step: got %v, want ErrWorldLocked", i, err)
		}
	}

	// outside a step the same setters succeed
	if err := w.SetSplitImpulse(false); err != nil {
		t.Errorf("SetSplitImpulse between steps: %v", err)
	}
	if err := w.SetFrictionAtCenter(true); err != nil {
		t.Errorf("SetFrictionAtCenter between steps: %v", err)
	}
	if err := w.SetErrorCorrection(false); err != nil {
		t.Errorf("SetErrorCorrection between steps: %v", err)
	}
}

// kinetic sums the kinetic energy of every movable body.
func kinetic(w *World) scalar.Real {
	var total scalar.Real
	w.ForEachBody(func(_ body.Handle, rb body.RigidBody) {
		if !rb.MotionEnabled {
			return
		}
		total += 0.5 * rb.Mass * rb.LinearVelocity.Dot(rb.LinearVelocity)
		r := rb.Transform.Orientation.Mat4().Mat3()
		inertia := r.Mul3(rb.InertiaLocalInverse.Inv()).Mul3(r.Transpose())
		total += 0.5 * rb.AngularVelocity.Dot(inertia.Mul3x1(rb.AngularVelocity))
	})
	return total
}

func TestRestingContactAddsNoEnergy(t *testing.T) {
	w, _ := groundedWorld(t)
	// sleeping would zero the velocities and hide an energy injection
	if err := w.SetSleepEnabled(false); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 60; i++ {
		if err := w.Update(); err != nil {
			t.Fatal(err)
		}
	}

	// with gravity off, the warm-started contact must keep the ball at rest
	if err := w.SetGravityEnabled(false); err != nil {
		t.Fatal(err)
	}
	before := kinetic(w)
	for i := 0; i < 2; i++ {
		if err := w.Update(); err != nil {
			t.Fatal(err)
		}
		after := kinetic(w)
		if after > before+1e-9 {
			t.Fatalf("step %d raised kinetic energy %v -> %v", i, before, after)
		}
		before = after
	}
}

func TestCreateBodyWithInertia(t *testing.T) {
	w, err := New(DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	std, err := w.CreateBody(at(scalar.Vec3{0, 5, 0}), 1, newSphere(t, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	heavy, err := w.CreateBodyWithInertia(at(scalar.Vec3{5, 5, 0}), 1,
		scalar.Diag3(scalar.Vec3{100, 100, 100}), newSphere(t, 0.5))
	if err != nil {
		t.Fatal(err)
	}

	// same off-center impulse: the explicit heavy tensor spins far slower
	if err := w.ApplyImpulse(std, scalar.Vec3{0, 0, 1}, scalar.Vec3{0.5, 5, 0}); err != nil {
		t.Fatal(err)
	}
	if err := w.ApplyImpulse(heavy, scalar.Vec3{0, 0, 1}, scalar.Vec3{5.5, 5, 0}); err != nil {
		t.Fatal(err)
	}
	_, wStd, _ := w.Velocity(std)
	_, wHeavy, _ := w.Velocity(heavy)
	if wStd.Len() == 0 {
		t.Fatal("off-center impulse produced no spin")
	}
	if wHeavy.Len() >= wStd.Len() {
		t.Errorf("heavy tensor spun %v, want less than %v", wHeavy.Len(), wStd.Len())
	}
}

func TestSettingsValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Settings)
		want   error
	}{
		{"zero timestep", func(s *Settings) { s.Timestep = 0 }, ErrInvalidTimestep},
		{"zero iterations", func(s *Settings) { s.Iterations = 0 }, ErrInvalidIterations},
		{"nan gravity", func(s *Settings) { s.Gravity = scalar.Vec3{scalar.Real(math.NaN()), 0, 0} }, ErrInvalidGravity},
		{"bad sleep threshold", func(s *Settings) { s.SleepLinearVelocity = 0 }, ErrInvalidSleepLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			tc.mutate(&s)
			if _, err := New(s); err != tc.want {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSetterValidation(t *testing.T) {
	w, _ := groundedWorld(t)
	if err := w.SetIterations(0); err != ErrInvalidIterations {
		t.Errorf("SetIterations(0): got %v", err)
	}
	if err := w.SetGravity(scalar.Vec3{0, scalar.Real(math.NaN()), 0}); err != ErrInvalidGravity {
		t.Errorf("SetGravity(NaN): got %v", err)
	}
	if err := w.SetGravity(scalar.Vec3{0, -1.62, 0}); err != nil {
		t.Errorf("SetGravity(moon): got %v", err)
	}
	if got := w.Gravity(); got != (scalar.Vec3{0, -1.62, 0}) {
		t.Errorf("gravity not applied: %v", got)
	}
}
