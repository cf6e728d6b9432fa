// Package world owns the simulation: bodies and joints live in
// generational-handle arenas, broad-phase pairs carry persistent contact
// manifolds, and Update advances everything by one fixed timestep.
//
// A step runs, in order: broad-phase pair maintenance, narrow-phase
// contact generation per pair in sorted key order, gravity, the contact
// and joint solvers over dense scratch arrays, integration, and the
// deactivation pass. The traversal order is fixed, so identical worlds
// stepped identically produce identical states.
//
// The world is single threaded. Mutating entry points called while a step
// is in progress, observer callbacks included, fail with ErrWorldLocked.
package world
