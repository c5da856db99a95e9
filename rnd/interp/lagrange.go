package interp

// LagrangeInterpolator provides fractional interpolation on uniform grids.
type LagrangeInterpolator struct {
	order int
}

// NewLagrangeInterpolator creates an interpolator.
// order: 1 = linear, 3 = cubic (Hermite-style 4-point interpolation).
func NewLagrangeInterpolator(order int) *LagrangeInterpolator {
	return &LagrangeInterpolator{order: order}
}

// Interpolate interpolates around frac in [0,1].
// For order 3, samples must contain 4 values and the result lies between
// samples[1] and samples[2]; shorter inputs fall back to linear.
func (l *LagrangeInterpolator) Interpolate(samples []float64, frac float64) float64 {
	switch {
	case len(samples) == 0:
		return 0
	case len(samples) == 1:
		return samples[0]
	case l.order == 3 && len(samples) >= 4:
		return Hermite4(frac, samples[0], samples[1], samples[2], samples[3])
	default:
		return samples[0] + frac*(samples[1]-samples[0])
	}
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

var (
	linear = NewLagrangeInterpolator(1)
	cubic  = NewLagrangeInterpolator(3)
)

// UniformAt evaluates samples taken at x0, x0+dx, ... at position x using
// Hermite4 in the interior and linear interpolation in the outer cells.
// Positions outside the grid clamp to the end samples.
func UniformAt(samples []float64, x0, dx, x float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	if n == 1 || dx <= 0 {
		return samples[0]
	}

	pos := (x - x0) / dx
	if pos <= 0 {
		return samples[0]
	}
	if pos >= float64(n-1) {
		return samples[n-1]
	}

	i := int(pos)
	frac := pos - float64(i)
	if i == 0 || i >= n-2 {
		return linear.Interpolate(samples[i:i+2], frac)
	}
	return cubic.Interpolate(samples[i-1:i+3], frac)
}
