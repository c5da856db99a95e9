package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestIsSortedStrict(t *testing.T) {
	if !IsSortedStrict([]float64{1, 2, 3}) {
		t.Fatal("expected strictly increasing")
	}
	if IsSortedStrict([]float64{1, 2, 2}) {
		t.Fatal("duplicates must not count as strictly increasing")
	}
	if IsSortedStrict([]float64{1, math.NaN(), 3}) {
		t.Fatal("NaN must break ordering")
	}
}

func TestTrapezoid(t *testing.T) {
	x := Linspace(0, 1, 101)
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2 * v
	}

	if got := Trapezoid(x, y); !NearlyEqual(got, 1, 1e-12) {
		t.Fatalf("Trapezoid = %v, want 1", got)
	}
	if got := Trapezoid([]float64{1}, []float64{1}); got != 0 {
		t.Fatalf("Trapezoid(single) = %v, want 0", got)
	}

	cum := CumTrapezoid(x, y)
	if cum[0] != 0 {
		t.Fatalf("cum[0] = %v, want 0", cum[0])
	}
	if !NearlyEqual(cum[len(cum)-1], 1, 1e-12) {
		t.Fatalf("cum[last] = %v, want 1", cum[len(cum)-1])
	}
	if !NearlyEqual(cum[50], 0.25, 1e-12) {
		t.Fatalf("cum[50] = %v, want 0.25", cum[50])
	}
}

func TestIsFinite(t *testing.T) {
	if IsFinite(math.Inf(1)) || IsFinite(math.NaN()) || !IsFinite(1) {
		t.Fatal("IsFinite misclassified a value")
	}
}
