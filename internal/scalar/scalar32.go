//go:build f32

package scalar

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Real is the engine-wide floating-point scalar type.
type Real = float32

type (
	Vec3 = mgl32.Vec3
	Mat3 = mgl32.Mat3
	Quat = mgl32.Quat
)

const (
	// Epsilon is the machine epsilon for the selected precision.
	Epsilon Real = 1.1920929e-7

	// MaxReal is the largest finite value representable by Real.
	MaxReal Real = math32.MaxFloat32

	Pi Real = math32.Pi
)

func Sqrt(x Real) Real  { return math32.Sqrt(x) }
func Abs(x Real) Real   { return math32.Abs(x) }
func IsNaN(x Real) bool { return math32.IsNaN(x) }
func IsInf(x Real) bool { return math32.IsInf(x, 0) }

// Ident3 returns the 3x3 identity matrix.
func Ident3() Mat3 { return mgl32.Ident3() }

// Diag3 returns a diagonal matrix with the entries of v.
func Diag3(v Vec3) Mat3 { return mgl32.Diag3(v) }

// QuatIdent returns the identity orientation.
func QuatIdent() Quat { return mgl32.QuatIdent() }
