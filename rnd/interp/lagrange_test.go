package interp

import (
	"math"
	"testing"
)

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := Hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestLagrangeInterpolator(t *testing.T) {
	l1 := NewLagrangeInterpolator(1)
	if got := l1.Interpolate([]float64{2, 4}, 0.25); got != 2.5 {
		t.Fatalf("order1 got %v want 2.5", got)
	}

	l3 := NewLagrangeInterpolator(3)
	got := l3.Interpolate([]float64{0, 1, 2, 3}, 0.5)
	if diff := got - 1.5; diff < -1e-12 || diff > 1e-12 {
		t.Fatalf("order3 got %v want 1.5", got)
	}

	if got := l3.Interpolate([]float64{7}, 0.5); got != 7 {
		t.Fatalf("single sample got %v want 7", got)
	}
}

func TestUniformAtSmoothCurve(t *testing.T) {
	x0, dx := 0.0, 0.01
	samples := make([]float64, 201)
	for i := range samples {
		x := x0 + dx*float64(i)
		samples[i] = math.Sin(x)
	}

	for _, x := range []float64{0.123, 0.5, 1.337, 1.99} {
		if got := UniformAt(samples, x0, dx, x); math.Abs(got-math.Sin(x)) > 1e-6 {
			t.Fatalf("UniformAt(%v) = %v, want %v", x, got, math.Sin(x))
		}
	}

	if got := UniformAt(samples, x0, dx, -1); got != samples[0] {
		t.Fatalf("left clamp = %v", got)
	}
	if got := UniformAt(samples, x0, dx, 5); got != samples[200] {
		t.Fatalf("right clamp = %v", got)
	}
}

func TestUniformAtUsesInterpolatorWindows(t *testing.T) {
	samples := []float64{0, 1, 4, 9, 16, 25}
	l1 := NewLagrangeInterpolator(1)
	l3 := NewLagrangeInterpolator(3)

	if got, want := UniformAt(samples, 0, 1, 2.5), l3.Interpolate(samples[1:5], 0.5); got != want {
		t.Fatalf("interior got %v want %v", got, want)
	}
	if got, want := UniformAt(samples, 0, 1, 0.25), l1.Interpolate(samples[0:2], 0.25); got != want {
		t.Fatalf("left cell got %v want %v", got, want)
	}
	if got, want := UniformAt(samples, 0, 1, 4.75), l1.Interpolate(samples[4:6], 0.75); got != want {
		t.Fatalf("right cell got %v want %v", got, want)
	}
}
