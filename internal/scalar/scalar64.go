//go:build !f32

package scalar

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Real is the engine-wide floating-point scalar type.
type Real = float64

type (
	Vec3 = mgl64.Vec3
	Mat3 = mgl64.Mat3
	Quat = mgl64.Quat
)

const (
	// Epsilon is the machine epsilon for the selected precision.
	Epsilon Real = 2.220446049250313e-16

	// MaxReal is the largest finite value representable by Real.
	MaxReal Real = math.MaxFloat64

	Pi Real = math.Pi
)

func Sqrt(x Real) Real  { return math.Sqrt(x) }
func Abs(x Real) Real   { return math.Abs(x) }
func IsNaN(x Real) bool { return math.IsNaN(x) }
func IsInf(x Real) bool { return math.IsInf(x, 0) }

// Ident3 returns the 3x3 identity matrix.
func Ident3() Mat3 { return mgl64.Ident3() }

// Diag3 returns a diagonal matrix with the entries of v.
func Diag3(v Vec3) Mat3 { return mgl64.Diag3(v) }

// QuatIdent returns the identity orientation.
func QuatIdent() Quat { return mgl64.QuatIdent() }
