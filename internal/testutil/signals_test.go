package testutil

import (
	"math"
	"testing"
)

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
		if a[i] < -1 || a[i] >= 1 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
	}
}

func TestDeterministicNoiseDifferentSeeds(t *testing.T) {
	a := DeterministicNoise(1, 1.0, 16)
	b := DeterministicNoise(2, 1.0, 16)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestDC(t *testing.T) {
	d := DC(0.5, 4)
	for i, v := range d {
		if v != 0.5 {
			t.Fatalf("DC[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestLognormalPDF(t *testing.T) {
	mu := LognormalMu(100, 0.2, 1)
	// Mode of a lognormal is exp(mu - sigma^2).
	mode := math.Exp(mu - 0.04)
	if LognormalPDF(mode, mu, 0.2) <= LognormalPDF(mode*1.01, mu, 0.2) {
		t.Fatal("density should peak at the mode")
	}
	if LognormalPDF(0, mu, 0.2) != 0 {
		t.Fatal("density at zero must vanish")
	}

	// Crude mass check.
	sum := 0.0
	for x := 1.0; x < 400; x += 0.01 {
		sum += LognormalPDF(x, mu, 0.2) * 0.01
	}
	if math.Abs(sum-1) > 1e-3 {
		t.Fatalf("mass = %v, want 1", sum)
	}
}
