package core

import (
	"math"

	"gonum.org/v1/gonum/integrate"
)

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// IsSortedStrict reports whether x is strictly increasing.
func IsSortedStrict(x []float64) bool {
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return false
		}
	}

	return true
}

// Trapezoid integrates y over the abscissae x with the trapezoidal rule.
// Returns 0 when fewer than two points are given or the lengths differ.
func Trapezoid(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}

	return integrate.Trapezoidal(x, y)
}

// CumTrapezoid returns the running trapezoidal integral of y over x.
// out[0] is always 0; out has the same length as x.
func CumTrapezoid(x, y []float64) []float64 {
	if len(x) == 0 || len(x) != len(y) {
		return nil
	}

	out := make([]float64, len(x))
	for i := 1; i < len(x); i++ {
		out[i] = out[i-1] + 0.5*(y[i]+y[i-1])*(x[i]-x[i-1])
	}

	return out
}
