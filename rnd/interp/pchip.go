package interp

import (
	"math"

	"github.com/cwbudde/algo-rnd/rnd/core"
)

// PCHIP is a shape-preserving piecewise cubic Hermite curve
// (Fritsch-Carlson slopes). It never overshoots the data, which keeps
// interpolated implied volatilities inside the quoted range.
type PCHIP struct {
	x, y, d []float64
}

// NewPCHIP fits a monotone cubic through at least two points.
func NewPCHIP(x, y []float64) (*PCHIP, error) {
	if err := validate(x, y, 2); err != nil {
		return nil, err
	}

	n := len(x)
	p := &PCHIP{x: clone(x), y: clone(y), d: make([]float64, n)}

	h := make([]float64, n-1)
	delta := make([]float64, n-1)
	for i := range h {
		h[i] = x[i+1] - x[i]
		delta[i] = (y[i+1] - y[i]) / h[i]
	}

	if n == 2 {
		p.d[0], p.d[1] = delta[0], delta[0]
		return p, nil
	}

	for i := 1; i < n-1; i++ {
		if delta[i-1]*delta[i] <= 0 {
			continue
		}
		w1 := 2*h[i] + h[i-1]
		w2 := h[i] + 2*h[i-1]
		p.d[i] = (w1 + w2) / (w1/delta[i-1] + w2/delta[i])
	}

	p.d[0] = edgeSlope(h[0], h[1], delta[0], delta[1])
	p.d[n-1] = edgeSlope(h[n-2], h[n-3], delta[n-2], delta[n-3])

	return p, nil
}

func edgeSlope(h0, h1, d0, d1 float64) float64 {
	d := ((2*h0+h1)*d0 - h0*d1) / (h0 + h1)
	switch {
	case math.Signbit(d) != math.Signbit(d0) || d0 == 0:
		return 0
	case math.Signbit(d0) != math.Signbit(d1) && math.Abs(d) > 3*math.Abs(d0):
		return 3 * d0
	default:
		return d
	}
}

// Domain returns the first and last knot.
func (p *PCHIP) Domain() (lo, hi float64) { return core.Span(p.x) }

func (p *PCHIP) locate(v float64) (i int, h, t float64) {
	i = segment(p.x, v)
	h = p.x[i+1] - p.x[i]
	return i, h, (v - p.x[i]) / h
}

// Eval returns the curve value.
func (p *PCHIP) Eval(v float64) float64 {
	lo, hi := p.Domain()
	if v <= lo {
		return p.y[0]
	}
	if v >= hi {
		return p.y[len(p.y)-1]
	}

	i, h, t := p.locate(v)
	t2, t3 := t*t, t*t*t
	return (2*t3-3*t2+1)*p.y[i] + (t3-2*t2+t)*h*p.d[i] +
		(-2*t3+3*t2)*p.y[i+1] + (t3-t2)*h*p.d[i+1]
}

// Deriv returns the first derivative.
func (p *PCHIP) Deriv(v float64) float64 {
	lo, hi := p.Domain()
	if v < lo || v > hi {
		return 0
	}

	i, h, t := p.locate(v)
	t2 := t * t
	return (6*t2-6*t)/h*p.y[i] + (3*t2-4*t+1)*p.d[i] +
		(-6*t2+6*t)/h*p.y[i+1] + (3*t2-2*t)*p.d[i+1]
}

// Deriv2 returns the second derivative.
func (p *PCHIP) Deriv2(v float64) float64 {
	lo, hi := p.Domain()
	if v < lo || v > hi {
		return 0
	}

	i, h, t := p.locate(v)
	return (12*t-6)/(h*h)*p.y[i] + (6*t-4)/h*p.d[i] +
		(-12*t+6)/(h*h)*p.y[i+1] + (6*t-2)/h*p.d[i+1]
}
