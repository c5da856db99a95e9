package interp

import "github.com/cwbudde/algo-rnd/rnd/core"

// NaturalSpline is a C2 cubic spline with zero curvature at both ends.
type NaturalSpline struct {
	x, y []float64
	m    []float64 // second derivatives at the knots
}

// NewNaturalSpline fits a natural cubic spline through at least two points.
func NewNaturalSpline(x, y []float64) (*NaturalSpline, error) {
	if err := validate(x, y, 2); err != nil {
		return nil, err
	}

	n := len(x)
	s := &NaturalSpline{x: clone(x), y: clone(y), m: make([]float64, n)}
	if n < 3 {
		return s, nil
	}

	// Thomas algorithm on the interior knots.
	sub := make([]float64, n)
	diag := make([]float64, n)
	rhs := make([]float64, n)
	for i := 1; i < n-1; i++ {
		h0 := x[i] - x[i-1]
		h1 := x[i+1] - x[i]
		sub[i] = h0
		diag[i] = 2 * (h0 + h1)
		rhs[i] = 6 * ((y[i+1]-y[i])/h1 - (y[i]-y[i-1])/h0)
	}

	for i := 2; i < n-1; i++ {
		w := sub[i] / diag[i-1]
		diag[i] -= w * (x[i] - x[i-1])
		rhs[i] -= w * rhs[i-1]
	}

	s.m[n-2] = rhs[n-2] / diag[n-2]
	for i := n - 3; i >= 1; i-- {
		s.m[i] = (rhs[i] - (x[i+1]-x[i])*s.m[i+1]) / diag[i]
	}

	return s, nil
}

// Domain returns the first and last knot.
func (s *NaturalSpline) Domain() (lo, hi float64) { return core.Span(s.x) }

func (s *NaturalSpline) locate(v float64) (i int, h, a, b float64) {
	i = segment(s.x, v)
	h = s.x[i+1] - s.x[i]
	a = s.x[i+1] - v
	b = v - s.x[i]
	return i, h, a, b
}

// Eval returns the spline value.
func (s *NaturalSpline) Eval(v float64) float64 {
	lo, hi := s.Domain()
	if v <= lo {
		return s.y[0]
	}
	if v >= hi {
		return s.y[len(s.y)-1]
	}

	i, h, a, b := s.locate(v)
	return s.m[i]*a*a*a/(6*h) + s.m[i+1]*b*b*b/(6*h) +
		(s.y[i]/h-s.m[i]*h/6)*a + (s.y[i+1]/h-s.m[i+1]*h/6)*b
}

// Deriv returns the first derivative.
func (s *NaturalSpline) Deriv(v float64) float64 {
	lo, hi := s.Domain()
	if v < lo || v > hi {
		return 0
	}

	i, h, a, b := s.locate(v)
	return -s.m[i]*a*a/(2*h) + s.m[i+1]*b*b/(2*h) -
		(s.y[i]/h - s.m[i]*h/6) + (s.y[i+1]/h - s.m[i+1]*h/6)
}

// Deriv2 returns the second derivative.
func (s *NaturalSpline) Deriv2(v float64) float64 {
	lo, hi := s.Domain()
	if v < lo || v > hi {
		return 0
	}

	i, h, a, b := s.locate(v)
	return (s.m[i]*a + s.m[i+1]*b) / h
}
