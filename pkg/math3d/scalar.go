package math3d

import "math"

// Clamp limits x to the closed range [lo, hi]. NaN passes through.
func Clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}

// ClampInt limits x to the closed range [lo, hi].
func ClampInt(x, lo, hi int) int {
	return min(max(x, lo), hi)
}

// Finite reports whether f is neither NaN nor an infinity.
func Finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// WrapAngle maps an angle in radians into [0, 2π).
func WrapAngle(a float64) float64 {
	const tau = 2 * math.Pi
	a = math.Mod(a, tau)
	if a < 0 {
		a += tau
	}
	// a tiny negative input rounds up to exactly tau after the shift
	if a >= tau {
		a = 0
	}
	return a
}
