// Package scalar selects the floating-point precision used by the whole
// engine at build time.
//
// The default build aliases [Real], [Vec3], [Mat3] and [Quat] onto float64
// and mathgl's mgl64 types. Building with the "f32" tag switches every
// geometry, mass and time quantity to float32 backed by mgl32 and math32.
//
// All engine packages import their numeric types from here; none of them
// reference mgl64 or mgl32 directly. Precision is a compile-time decision,
// never a per-call parameter.
package scalar
