package scalar

// Clamp limits x to the interval [lo, hi].
func Clamp(x, lo, hi Real) Real {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func Min(a, b Real) Real {
	if a < b {
		return a
	}
	return b
}

func Max(a, b Real) Real {
	if a > b {
		return a
	}
	return b
}

// SafeNormalize returns dir scaled to unit length, or fallback when dir is
// shorter than the machine epsilon. Degenerate directions must map to a
// deterministic result, so callers pass an explicit fallback instead of
// relying on whatever a zero division produces.
func SafeNormalize(dir, fallback Vec3) Vec3 {
	lenSq := dir.Dot(dir)
	if lenSq < Epsilon*Epsilon {
		return fallback
	}
	return dir.Mul(1 / Sqrt(lenSq))
}
