package world

import "errors"

var (
	// ErrInvalidHandle indicates a handle that never referenced a live
	// object, or whose slot has since been recycled.
	ErrInvalidHandle = errors.New("world: invalid handle")

	// ErrDestroyedHandle indicates a handle whose object was explicitly
	// destroyed.
	ErrDestroyedHandle = errors.New("world: handle references a destroyed object")

	// ErrWorldLocked is returned by mutating entry points called while a
	// step is in progress, including from observer callbacks.
	ErrWorldLocked = errors.New("world: mutation during a step")

	ErrInvalidIterations = errors.New("world: solver iterations must be positive")
	ErrInvalidTimestep   = errors.New("world: timestep must be positive")
	ErrInvalidGravity    = errors.New("world: gravity must be finite")
	ErrInvalidSleepLimit = errors.New("world: sleep thresholds must be positive")
)
