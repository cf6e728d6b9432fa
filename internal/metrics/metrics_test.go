package metrics

import (
	"testing"

	"github.com/curtisalleynesr/reactphysics3d/internal/body"
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
	"github.com/curtisalleynesr/reactphysics3d/internal/shape"
	"github.com/curtisalleynesr/reactphysics3d/internal/world"
)

func fallingBallWorld(t *testing.T) (*world.World, body.Handle) {
	t.Helper()
	w, err := world.New(world.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	s, err := shape.NewSphere(0.5)
	if err != nil {
		t.Fatal(err)
	}
	h, err := w.CreateBody(body.NewTransform(scalar.Vec3{0, 50, 0}, scalar.QuatIdent()), 2, s)
	if err != nil {
		t.Fatal(err)
	}
	return w, h
}

func TestKineticEnergyOfFreeFall(t *testing.T) {
	w, _ := fallingBallWorld(t)
	ke := NewKineticEnergy()
	rec := NewRecorder(ke)
	w.AddObserver(rec)

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 60; i++ {
		if err := w.Update(); err != nil {
			t.Fatal(err)
		}
	}

	// after 1 s: v = g, KE = 1/2 m v^2
	want := 0.5 * 2 * 9.81 * 9.81
	if got := ke.Value(); scalar.Abs(got-scalar.Real(want)) > 1e-6 {
		t.Errorf("kinetic energy = %v, want %v", got, want)
	}
	if got := len(rec.Series("kinetic_energy")); got != 60 {
		t.Errorf("series length = %d, want 60", got)
	}
	// energy grows monotonically in free fall
	series := rec.Series("kinetic_energy")
	for i := 1; i < len(series); i++ {
		if series[i] <= series[i-1] {
			t.Fatalf("free-fall energy dipped at step %d: %v <= %v", i, series[i], series[i-1])
		}
	}
}

func TestAwakeBodiesCountsMovables(t *testing.T) {
	w, _ := fallingBallWorld(t)
	awake := NewAwakeBodies()
	rec := NewRecorder(awake)
	w.AddObserver(rec)

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if err := w.Update(); err != nil {
		t.Fatal(err)
	}
	if got := awake.Value(); got != 1 {
		t.Errorf("awake bodies = %v, want 1", got)
	}
}

func TestRecorderReset(t *testing.T) {
	w, _ := fallingBallWorld(t)
	ke := NewKineticEnergy()
	rec := NewRecorder(ke)
	w.AddObserver(rec)

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if err := w.Update(); err != nil {
		t.Fatal(err)
	}
	rec.Reset()
	if got := len(rec.Series("kinetic_energy")); got != 0 {
		t.Errorf("series survived reset: %d entries", got)
	}
	if got := ke.Value(); got != 0 {
		t.Errorf("metric survived reset: %v", got)
	}
}
