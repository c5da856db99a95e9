package arbitrage

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-rnd/rnd/bsm"
	"github.com/cwbudde/algo-rnd/rnd/core"
)

func TestCheckCleanCurve(t *testing.T) {
	strikes := core.Linspace(60, 160, 41)
	calls := make([]float64, len(strikes))
	df := math.Exp(-0.03)
	for i, K := range strikes {
		calls[i] = bsm.Black(bsm.Call, 100, K, 1, df, 0.25)
	}

	vs, err := Check(strikes, calls, df)
	if err != nil {
		t.Fatal(err)
	}
	if len(vs) != 0 {
		t.Fatalf("unexpected violations: %+v", vs)
	}
}

func TestCheckViolations(t *testing.T) {
	tests := []struct {
		name    string
		strikes []float64
		calls   []float64
		df      float64
		want    []Violation
	}{
		{
			name:    "increasing price",
			strikes: []float64{90, 100, 110},
			calls:   []float64{10, 10.5, 11},
			df:      1,
			want: []Violation{
				{Kind: Monotonicity, Index: 1, Strike: 100, Amount: 0.5},
				{Kind: Monotonicity, Index: 2, Strike: 110, Amount: 0.5},
			},
		},
		{
			name:    "steep drop",
			strikes: []float64{90, 100, 110},
			calls:   []float64{20, 8, 0},
			df:      0.9,
			want: []Violation{
				{Kind: Slope, Index: 1, Strike: 100, Amount: 3},
			},
		},
		{
			name:    "concave kink",
			strikes: []float64{90, 100, 120},
			calls:   []float64{12, 10, 4},
			df:      1,
			want: []Violation{
				{Kind: Convexity, Index: 1, Strike: 100, Amount: 10 - (20*12+10*4)/30.0},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Check(tt.strikes, tt.calls, tt.df)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
			for i := range got {
				g, w := got[i], tt.want[i]
				if g.Kind != w.Kind || g.Index != w.Index || g.Strike != w.Strike || math.Abs(g.Amount-w.Amount) > 1e-12 {
					t.Fatalf("violation %d: got %+v, want %+v", i, g, w)
				}
			}
		})
	}
}

func TestCheckTolerance(t *testing.T) {
	strikes := []float64{90, 100, 110}
	calls := []float64{10, 10.001, 9}

	vs, _ := Check(strikes, calls, 1)
	if Count(vs, Monotonicity) != 1 {
		t.Fatalf("violations = %+v", vs)
	}
	vs, _ = Check(strikes, calls, 1, WithTolerance(0.01))
	if Count(vs, Monotonicity) != 0 {
		t.Fatalf("tolerance ignored: %+v", vs)
	}
}

func TestCheckErrors(t *testing.T) {
	if _, err := Check([]float64{1, 2}, []float64{1}, 1); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v", err)
	}
	if _, err := Check([]float64{2, 1}, []float64{1, 1}, 1); !errors.Is(err, ErrNotIncreasing) {
		t.Fatalf("err = %v", err)
	}
	if _, err := Check([]float64{1, 2}, []float64{1, 1}, 0); !errors.Is(err, ErrInvalidDiscount) {
		t.Fatalf("err = %v", err)
	}
	if vs, err := Check(nil, nil, 1); err != nil || len(vs) != 0 {
		t.Fatalf("empty input: %v %v", vs, err)
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{Monotonicity: "monotonicity", Slope: "slope", Convexity: "convexity", Kind(9): "Kind(9)"} {
		if got := k.String(); got != want {
			t.Errorf("%d: got %q, want %q", int(k), got, want)
		}
	}
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{Monotonicity, Slope, Convexity} {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Kind
		if err := got.UnmarshalText(text); err != nil || got != k {
			t.Fatalf("round trip %v: got %v, err %v", k, got, err)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("calendar")); err == nil {
		t.Fatal("expected error")
	}
}
