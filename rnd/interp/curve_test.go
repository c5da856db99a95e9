package interp

import (
	"errors"
	"math"
	"testing"
)

func sampleCurve(fn func(float64) float64, lo, hi float64, n int) ([]float64, []float64) {
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = lo + (hi-lo)*float64(i)/float64(n-1)
		y[i] = fn(x[i])
	}
	return x, y
}

func TestCurvesPassThroughKnots(t *testing.T) {
	x := []float64{70, 80, 95, 100, 110, 130}
	y := []float64{0.32, 0.27, 0.22, 0.2, 0.19, 0.21}

	for _, kind := range []Kind{KindLinear, KindSpline, KindPCHIP} {
		t.Run(string(kind), func(t *testing.T) {
			c, err := Fit(kind, x, y)
			if err != nil {
				t.Fatalf("Fit: %v", err)
			}
			for i := range x {
				if got := c.Eval(x[i]); math.Abs(got-y[i]) > 1e-12 {
					t.Fatalf("Eval(%v) = %v, want %v", x[i], got, y[i])
				}
			}
		})
	}
}

func TestCurvesFlatExtrapolation(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{4, 1, 0.5, 2}

	for _, kind := range []Kind{KindLinear, KindSpline, KindPCHIP, KindQuadratic} {
		c, err := Fit(kind, x, y)
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if got, want := c.Eval(-10), c.Eval(1); got != want {
			t.Fatalf("%s: left Eval = %v, want %v", kind, got, want)
		}
		if got, want := c.Eval(10), c.Eval(4); got != want {
			t.Fatalf("%s: right Eval = %v, want %v", kind, got, want)
		}
		if c.Deriv(10) != 0 || c.Deriv2(-10) != 0 {
			t.Fatalf("%s: derivatives outside domain must vanish", kind)
		}
		lo, hi := c.Domain()
		if lo != 1 || hi != 4 {
			t.Fatalf("%s: Domain = (%v, %v)", kind, lo, hi)
		}
	}
}

func TestNaturalSplineDerivatives(t *testing.T) {
	x, y := sampleCurve(math.Sin, 0, math.Pi, 41)
	s, err := NewNaturalSpline(x, y)
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range []float64{0.5, 1.2, 2.0, 2.7} {
		if got := s.Eval(v); math.Abs(got-math.Sin(v)) > 1e-5 {
			t.Fatalf("Eval(%v) = %v, want %v", v, got, math.Sin(v))
		}
		if got := s.Deriv(v); math.Abs(got-math.Cos(v)) > 1e-3 {
			t.Fatalf("Deriv(%v) = %v, want %v", v, got, math.Cos(v))
		}
		if got := s.Deriv2(v); math.Abs(got+math.Sin(v)) > 1e-2 {
			t.Fatalf("Deriv2(%v) = %v, want %v", v, got, -math.Sin(v))
		}
	}

	// Natural boundary conditions.
	if math.Abs(s.Deriv2(0)) > 1e-12 || math.Abs(s.Deriv2(math.Pi)) > 1e-12 {
		t.Fatal("natural spline must have zero curvature at the ends")
	}
}

func TestPCHIPIsMonotone(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{0, 0.1, 0.1, 3, 3.05, 10}

	p, err := NewPCHIP(x, y)
	if err != nil {
		t.Fatal(err)
	}

	prev := p.Eval(0)
	for v := 0.01; v <= 5; v += 0.01 {
		cur := p.Eval(v)
		if cur < prev-1e-12 {
			t.Fatalf("not monotone at %v: %v < %v", v, cur, prev)
		}
		if p.Deriv(v) < -1e-12 {
			t.Fatalf("negative slope at %v", v)
		}
		prev = cur
	}

	// Flat data stays flat between equal knots.
	if got := p.Eval(1.5); math.Abs(got-0.1) > 1e-12 {
		t.Fatalf("Eval(1.5) = %v, want 0.1", got)
	}
}

func TestPCHIPDerivativeMatchesDifference(t *testing.T) {
	x, y := sampleCurve(func(v float64) float64 { return v * v * v }, 0, 2, 9)
	p, err := NewPCHIP(x, y)
	if err != nil {
		t.Fatal(err)
	}

	const h = 1e-6
	for _, v := range []float64{0.3, 0.9, 1.4} {
		fd := (p.Eval(v+h) - p.Eval(v-h)) / (2 * h)
		if math.Abs(p.Deriv(v)-fd) > 1e-5 {
			t.Fatalf("Deriv(%v) = %v, finite difference %v", v, p.Deriv(v), fd)
		}
		fd2 := (p.Deriv(v+h) - p.Deriv(v-h)) / (2 * h)
		if math.Abs(p.Deriv2(v)-fd2) > 1e-4 {
			t.Fatalf("Deriv2(%v) = %v, finite difference %v", v, p.Deriv2(v), fd2)
		}
	}
}

func TestFitPolynomialRecoversQuadratic(t *testing.T) {
	fn := func(k float64) float64 { return 0.2 - 0.002*(k-100) + 0.00004*(k-100)*(k-100) }
	x, y := sampleCurve(fn, 60, 140, 17)

	p, err := FitPolynomial(x, y, 2)
	if err != nil {
		t.Fatal(err)
	}

	for _, k := range []float64{65, 100, 133} {
		if got := p.Eval(k); math.Abs(got-fn(k)) > 1e-12 {
			t.Fatalf("Eval(%v) = %v, want %v", k, got, fn(k))
		}
		wantD := -0.002 + 0.00008*(k-100)
		if got := p.Deriv(k); math.Abs(got-wantD) > 1e-12 {
			t.Fatalf("Deriv(%v) = %v, want %v", k, got, wantD)
		}
		if got := p.Deriv2(k); math.Abs(got-0.00008) > 1e-12 {
			t.Fatalf("Deriv2(%v) = %v, want 8e-5", k, got)
		}
	}

	if len(p.Coefficients()) != 3 {
		t.Fatalf("coefficients = %v", p.Coefficients())
	}
}

func TestCurveValidation(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		err  error
	}{
		{name: "mismatch", x: []float64{1, 2}, y: []float64{1}, err: ErrLengthMismatch},
		{name: "few", x: []float64{1}, y: []float64{1}, err: ErrTooFewPoints},
		{name: "unsorted", x: []float64{1, 3, 2}, y: []float64{1, 2, 3}, err: ErrNotIncreasing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, kind := range []Kind{KindLinear, KindSpline, KindPCHIP} {
				if _, err := Fit(kind, tt.x, tt.y); !errors.Is(err, tt.err) {
					t.Fatalf("%s: err = %v, want %v", kind, err, tt.err)
				}
			}
		})
	}

	if _, err := FitPolynomial([]float64{1, 2}, []float64{1, 2}, -1); !errors.Is(err, ErrDegree) {
		t.Fatalf("negative degree: err = %v", err)
	}
	if _, err := FitPolynomial([]float64{1, 2}, []float64{1, 2}, 2); !errors.Is(err, ErrTooFewPoints) {
		t.Fatalf("underdetermined: err = %v", err)
	}
	if _, err := Fit("cubic-b", []float64{1, 2}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
