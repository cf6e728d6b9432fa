package world

import "github.com/curtisalleynesr/reactphysics3d/internal/scalar"

// Settings fixes the timestep and solver behavior of a world at
// construction time. Individual fields can later be adjusted through the
// world's setters, which validate the same way [Settings.Validate] does.
type Settings struct {
	Gravity    scalar.Vec3
	Timestep   scalar.Real
	Iterations int

	GravityEnabled   bool
	SleepEnabled     bool
	SplitImpulse     bool
	FrictionAtCenter bool
	ErrorCorrection  bool

	// Bodies under both velocity thresholds for TimeBeforeSleep seconds
	// are put to sleep.
	SleepLinearVelocity  scalar.Real
	SleepAngularVelocity scalar.Real
	TimeBeforeSleep      scalar.Real
}

// DefaultSettings returns the stock configuration: 60 Hz, ten solver
// iterations, split-impulse position correction and sleeping enabled.
func DefaultSettings() Settings {
	return Settings{
		Gravity:              scalar.Vec3{0, -9.81, 0},
		Timestep:             1.0 / 60.0,
		Iterations:           10,
		GravityEnabled:       true,
		SleepEnabled:         true,
		SplitImpulse:         true,
		ErrorCorrection:      true,
		SleepLinearVelocity:  0.02,
		SleepAngularVelocity: 0.05,
		TimeBeforeSleep:      1.0,
	}
}

// Validate reports the first invalid field.
func (s Settings) Validate() error {
	if s.Timestep <= 0 {
		return ErrInvalidTimestep
	}
	if s.Iterations <= 0 {
		return ErrInvalidIterations
	}
	if !finiteVec(s.Gravity) {
		return ErrInvalidGravity
	}
	if s.SleepEnabled {
		if s.SleepLinearVelocity <= 0 || s.SleepAngularVelocity <= 0 || s.TimeBeforeSleep <= 0 {
			return ErrInvalidSleepLimit
		}
	}
	return nil
}

func finiteVec(v scalar.Vec3) bool {
	for i := 0; i < 3; i++ {
		if scalar.IsNaN(v[i]) || scalar.IsInf(v[i]) {
			return false
		}
	}
	return true
}
