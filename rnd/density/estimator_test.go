package density

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-rnd/internal/testutil"
	"github.com/cwbudde/algo-rnd/rnd/bsm"
	"github.com/cwbudde/algo-rnd/rnd/chain"
	"github.com/cwbudde/algo-rnd/rnd/core"
	"github.com/cwbudde/algo-rnd/rnd/fourier"
	"github.com/cwbudde/algo-rnd/rnd/interp"
	"github.com/cwbudde/algo-rnd/rnd/smooth"
	"github.com/cwbudde/algo-rnd/rnd/synth"
)

const testSigma = 0.2

func testModel(maturity float64) fourier.BlackScholes {
	m := core.ApplyMarketOptions(core.WithRate(0.01), core.WithMaturity(maturity))
	return fourier.BlackScholes{Market: m, Sigma: testSigma}
}

func lognormalChain(t *testing.T, maturity float64, opts ...synth.Option) (*chain.Chain, fourier.BlackScholes) {
	t.Helper()
	model := testModel(maturity)
	c, err := synth.Generate(model, model.Market, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c, model
}

// requireLognormal compares d with the exact Black-Scholes density on
// strikes within 30% of the forward.
func requireLognormal(t *testing.T, d *Density, model fourier.BlackScholes, tol float64) {
	t.Helper()
	testutil.RequireFinite(t, d.PDF)
	F := model.Forward()
	s := model.Sigma * math.Sqrt(model.Maturity)
	mu := testutil.LognormalMu(F, s, 1)

	checked := 0
	for _, K := range core.Linspace(0.7*F, 1.3*F, 25) {
		want := testutil.LognormalPDF(K, mu, s)
		if got := d.At(K); math.Abs(got-want) > tol {
			t.Fatalf("%s: pdf(%.2f) = %v, want %v", d.Method, K, got, want)
		}
		checked++
	}
	if checked == 0 {
		t.Fatal("no strikes checked")
	}
}

func TestDirectRecoversLognormal(t *testing.T) {
	c, model := lognormalChain(t, 1)
	est, err := NewDirect()
	if err != nil {
		t.Fatal(err)
	}

	d, err := est.Estimate(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	if d.Method != "direct" {
		t.Fatalf("Method = %q", d.Method)
	}
	testutil.RequireNearlyEqual(t, "forward", d.Forward, model.Forward(), 1e-4)
	testutil.RequireNearlyEqual(t, "discount", d.Discount, model.Discount(), 1e-6)
	if d.Len() != c.Len()-2 {
		t.Fatalf("Len = %d, want %d", d.Len(), c.Len()-2)
	}

	if mass := d.Mass(); mass < 0.97 || mass > 1.001 {
		t.Fatalf("mass = %v", mass)
	}
	requireLognormal(t, d, model, 2e-4)
}

func TestSmileRecoversLognormal(t *testing.T) {
	c, model := lognormalChain(t, 1)

	for _, kind := range []interp.Kind{interp.KindSpline, interp.KindPCHIP, interp.KindQuadratic} {
		t.Run(string(kind), func(t *testing.T) {
			est, err := NewSmile(kind)
			if err != nil {
				t.Fatal(err)
			}

			fit, err := est.Fit(context.Background(), c)
			if err != nil {
				t.Fatal(err)
			}
			for i, v := range fit.Vols {
				if math.Abs(v-testSigma) > 1e-3 {
					t.Fatalf("vol at %v = %v", fit.Strikes[i], v)
				}
			}
			testutil.RequireNearlyEqual(t, "flat wing", fit.Vol(10), fit.Vols[0], 1e-3)

			d, err := est.Estimate(context.Background(), c)
			if err != nil {
				t.Fatal(err)
			}
			if d.Len() != defaultGridPoints {
				t.Fatalf("Len = %d", d.Len())
			}
			testutil.RequireNearlyEqual(t, "mass", d.Mass(), 1, 5e-3)
			testutil.RequireNearlyEqual(t, "mean", d.Mean(), model.Forward(), 0.5)
			requireLognormal(t, d, model, 5e-4)
		})
	}
}

func TestEstimatorsHonourGridPoints(t *testing.T) {
	c, _ := lognormalChain(t, 1)

	for _, n := range []int{5, 101, 401} {
		for _, name := range []string{"spline", "pchip", "quadratic", "mixture"} {
			est, err := New(name, WithGridPoints(n))
			if err != nil {
				t.Fatal(err)
			}
			d, err := est.Estimate(context.Background(), c)
			if err != nil {
				t.Fatalf("%s n=%d: %v", name, n, err)
			}
			if d.Len() != n {
				t.Fatalf("%s: Len = %d, want %d", name, d.Len(), n)
			}
			if !core.IsSortedStrict(d.Strikes) {
				t.Fatalf("%s: strikes not increasing", name)
			}
		}
	}
}

func TestSmileNormalize(t *testing.T) {
	c, _ := lognormalChain(t, 0.5)
	est, err := NewSmile(interp.KindSpline, WithNormalize(true), WithGridPoints(201), WithExtrapolation(0.2))
	if err != nil {
		t.Fatal(err)
	}
	d, err := est.Estimate(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 201 {
		t.Fatalf("Len = %d", d.Len())
	}
	testutil.RequireNearlyEqual(t, "mass", d.Mass(), 1, 1e-12)
}

func TestSmileNoVolatilities(t *testing.T) {
	c := chain.New("X", core.DefaultMarket())
	for _, K := range []float64{90, 100, 110} {
		if err := c.Add(chain.Quote{Kind: bsm.Call, Strike: K, Bid: 200, Ask: 201}); err != nil {
			t.Fatal(err)
		}
	}
	est, _ := NewSmile(interp.KindPCHIP)
	if _, err := est.Estimate(context.Background(), c); !errors.Is(err, ErrNoVolatilities) {
		t.Fatalf("err = %v, want ErrNoVolatilities", err)
	}
}

func TestMixtureRecoversLognormal(t *testing.T) {
	c, model := lognormalChain(t, 1)
	est, err := NewMixture()
	if err != nil {
		t.Fatal(err)
	}

	fit, err := est.Fit(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	if fit.RMSE > 0.05 {
		t.Fatalf("RMSE = %v, fit %+v", fit.RMSE, fit)
	}
	testutil.RequireNearlyEqual(t, "fit mean", fit.Mean(), model.Forward(), 0.5)

	d, err := est.Estimate(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	s := d.Summary()
	F := model.Forward()
	wantSD := F * math.Sqrt(math.Exp(testSigma*testSigma)-1)

	testutil.RequireNearlyEqual(t, "mass", s.Mass, 1, 1e-3)
	testutil.RequireNearlyEqual(t, "mean", s.Mean, F, 1)
	if math.Abs(s.StdDev-wantSD)/wantSD > 0.05 {
		t.Fatalf("stddev = %v, want %v", s.StdDev, wantSD)
	}
}

func TestFourierEstimator(t *testing.T) {
	model := testModel(1)
	est, err := NewFourier(model)
	if err != nil {
		t.Fatal(err)
	}
	d, err := est.Estimate(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if est.Name() != "fourier" {
		t.Fatalf("Name = %q", est.Name())
	}
	testutil.RequireNearlyEqual(t, "mass", d.Mass(), 1, 1e-3)
	testutil.RequireNearlyEqual(t, "mean", d.Mean(), model.Forward(), 0.05)
	requireLognormal(t, d, model, 1e-5)

	if _, err := NewFourier(nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v", err)
	}
	if _, err := NewFourier(fourier.BlackScholes{Market: core.DefaultMarket()}); !errors.Is(err, fourier.ErrInvalidParams) {
		t.Fatalf("err = %v", err)
	}
}

func TestSmoothingReducesRoughness(t *testing.T) {
	c, _ := lognormalChain(t, 1, synth.WithNoise(0.02), synth.WithSeed(3))

	roughness := func(pdf []float64) float64 {
		r := 0.0
		for i := 1; i < len(pdf)-1; i++ {
			d2 := pdf[i-1] - 2*pdf[i] + pdf[i+1]
			r += d2 * d2
		}
		return r
	}

	raw, _ := NewDirect(WithClipNegative(false))
	smoothed, _ := NewDirect(WithClipNegative(false), WithSmoothing(smooth.Gaussian, 5))

	dr, err := raw.Estimate(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	ds, err := smoothed.Estimate(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != dr.Len() {
		t.Fatalf("smoothing changed length: %d vs %d", ds.Len(), dr.Len())
	}
	if !(roughness(ds.PDF) < roughness(dr.PDF)) {
		t.Fatalf("roughness %v not below %v", roughness(ds.PDF), roughness(dr.PDF))
	}
}

func TestSmoothingOnNonUniformGrid(t *testing.T) {
	const n, width = 401, 41
	bump := func(k float64) float64 { return math.Exp(-0.5 * (k - 100) * (k - 100) / 25) }

	x := make([]float64, n)
	pdf := make([]float64, n)
	for i, u := range core.Linspace(0, 1, n) {
		x[i] = 50 + 100*math.Pow(u, 1.3)
		pdf[i] = bump(x[i])
	}

	u := core.Linspace(50, 150, n)
	ref := make([]float64, n)
	for i, k := range u {
		ref[i] = bump(k)
	}
	refSmoothed, err := smooth.Apply(ref, smooth.Gaussian, width)
	if err != nil {
		t.Fatal(err)
	}
	lin, err := interp.NewLinear(u, refSmoothed)
	if err != nil {
		t.Fatal(err)
	}
	want := make([]float64, n)
	for i, k := range x {
		want[i] = lin.Eval(k)
	}

	got, err := smoothOnGrid(x, pdf, smooth.Gaussian, width)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 2e-3)

	byIndex, err := smooth.Apply(pdf, smooth.Gaussian, width)
	if err != nil {
		t.Fatal(err)
	}
	diff, err := testutil.MaxAbsDiff(byIndex, want)
	if err != nil {
		t.Fatal(err)
	}
	if diff < 5e-3 {
		t.Fatalf("index-space smoothing unexpectedly close to strike-space result: %v", diff)
	}
}

func TestClipNegativeDefault(t *testing.T) {
	c, _ := lognormalChain(t, 1, synth.WithNoise(0.05), synth.WithSeed(11))
	est, _ := NewDirect()
	d, err := est.Estimate(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range d.PDF {
		if v < 0 {
			t.Fatalf("negative density %v at %v", v, d.Strikes[i])
		}
	}
}

func TestEstimatorErrors(t *testing.T) {
	ctx := context.Background()
	est, _ := NewDirect()

	if _, err := est.Estimate(ctx, nil); !errors.Is(err, chain.ErrEmptyChain) {
		t.Fatalf("nil chain: %v", err)
	}

	short := chain.New("X", core.DefaultMarket())
	_ = short.Add(chain.Quote{Kind: bsm.Call, Strike: 100, Bid: 8, Ask: 9})
	_ = short.Add(chain.Quote{Kind: bsm.Call, Strike: 110, Bid: 4, Ask: 5})
	if _, err := est.Estimate(ctx, short); !errors.Is(err, ErrTooFewStrikes) {
		t.Fatalf("short chain: %v", err)
	}

	c, _ := lognormalChain(t, 1)
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	for _, name := range Names() {
		e, err := New(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := e.Estimate(cancelled, c); !errors.Is(err, context.Canceled) {
			t.Fatalf("%s: err = %v, want context.Canceled", name, err)
		}
	}
}

func TestOptionErrors(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"grid points", WithGridPoints(2)},
		{"negative extrapolation", WithExtrapolation(-1)},
		{"nan extrapolation", WithExtrapolation(math.NaN())},
		{"even kernel", WithSmoothing(smooth.Gaussian, 4)},
		{"unknown kernel", WithSmoothing(smooth.Shape(42), 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewDirect(tt.opt); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := NewSmile(interp.Kind("cubic")); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("err = %v", err)
	}
}
