package interp

import (
	"errors"
	"sort"

	"github.com/cwbudde/algo-rnd/rnd/core"
)

// Errors returned by curve constructors.
var (
	ErrTooFewPoints   = errors.New("interp: too few points")
	ErrLengthMismatch = errors.New("interp: x and y must have the same length")
	ErrNotIncreasing  = errors.New("interp: x must be strictly increasing")
	ErrDegree         = errors.New("interp: polynomial degree must be >= 0")
)

// Curve is a one-dimensional function fitted to samples.
// Outside [lo, hi] a curve is flat: Eval returns the boundary value and both
// derivatives are zero.
type Curve interface {
	Eval(x float64) float64
	Deriv(x float64) float64
	Deriv2(x float64) float64
	Domain() (lo, hi float64)
}

// Kind selects a curve family by name.
type Kind string

const (
	KindLinear    Kind = "linear"
	KindSpline    Kind = "spline"
	KindPCHIP     Kind = "pchip"
	KindQuadratic Kind = "quadratic"
)

// Fit builds a curve of the given kind.
func Fit(kind Kind, x, y []float64) (Curve, error) {
	switch kind {
	case KindLinear:
		return NewLinear(x, y)
	case KindSpline:
		return NewNaturalSpline(x, y)
	case KindPCHIP:
		return NewPCHIP(x, y)
	case KindQuadratic:
		return FitPolynomial(x, y, 2)
	default:
		return nil, errors.New("interp: unknown curve kind " + string(kind))
	}
}

func validate(x, y []float64, minPoints int) error {
	if len(x) != len(y) {
		return ErrLengthMismatch
	}
	if len(x) < minPoints {
		return ErrTooFewPoints
	}
	if !core.IsSortedStrict(x) {
		return ErrNotIncreasing
	}
	return nil
}

// segment returns i with x[i] <= v < x[i+1], clamped to [0, len(x)-2].
func segment(x []float64, v float64) int {
	i := sort.SearchFloat64s(x, v) - 1
	if i < 0 {
		return 0
	}
	if i > len(x)-2 {
		return len(x) - 2
	}
	return i
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}

// Linear is a piecewise linear curve.
type Linear struct {
	x, y []float64
}

// NewLinear builds a piecewise linear curve through at least two points.
func NewLinear(x, y []float64) (*Linear, error) {
	if err := validate(x, y, 2); err != nil {
		return nil, err
	}
	return &Linear{x: clone(x), y: clone(y)}, nil
}

// Domain returns the first and last knot.
func (l *Linear) Domain() (lo, hi float64) { return core.Span(l.x) }

// Eval returns the interpolated value.
func (l *Linear) Eval(v float64) float64 {
	lo, hi := l.Domain()
	if v <= lo {
		return l.y[0]
	}
	if v >= hi {
		return l.y[len(l.y)-1]
	}
	i := segment(l.x, v)
	t := (v - l.x[i]) / (l.x[i+1] - l.x[i])
	return l.y[i] + t*(l.y[i+1]-l.y[i])
}

// Deriv returns the slope of the containing segment.
func (l *Linear) Deriv(v float64) float64 {
	lo, hi := l.Domain()
	if v < lo || v > hi {
		return 0
	}
	i := segment(l.x, v)
	return (l.y[i+1] - l.y[i]) / (l.x[i+1] - l.x[i])
}

// Deriv2 is zero everywhere except at knots, where it is undefined.
func (l *Linear) Deriv2(float64) float64 { return 0 }
