package density

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/algo-rnd/rnd/bsm"
	"github.com/cwbudde/algo-rnd/rnd/chain"
	"github.com/cwbudde/algo-rnd/rnd/core"
)

const (
	mixtureMinSigma = 1e-3
	mixtureMaxSigma = 5.0
	mixtureTailSD   = 6.0
)

// MixtureFit is a two-component lognormal mixture of the terminal price.
// Each component i has mean Forward_i and log standard deviation Sigma_i
// (total volatility over the life of the option).
type MixtureFit struct {
	Weight   float64 // weight of the first component
	Forward1 float64
	Forward2 float64
	Sigma1   float64
	Sigma2   float64
	Discount float64
	RMSE     float64 // price error at the fitted strikes
	Status   optimize.Status
}

// Mean returns the mixture mean.
func (f MixtureFit) Mean() float64 {
	return f.Weight*f.Forward1 + (1-f.Weight)*f.Forward2
}

// Call prices a call as the weighted sum of two Black-76 prices.
func (f MixtureFit) Call(K float64) float64 {
	return f.Weight*bsm.Black(bsm.Call, f.Forward1, K, 1, f.Discount, f.Sigma1) +
		(1-f.Weight)*bsm.Black(bsm.Call, f.Forward2, K, 1, f.Discount, f.Sigma2)
}

func (f MixtureFit) components() (a, b distuv.LogNormal) {
	a = distuv.LogNormal{Mu: math.Log(f.Forward1) - 0.5*f.Sigma1*f.Sigma1, Sigma: f.Sigma1}
	b = distuv.LogNormal{Mu: math.Log(f.Forward2) - 0.5*f.Sigma2*f.Sigma2, Sigma: f.Sigma2}
	return a, b
}

// PDF returns the mixture density at x.
func (f MixtureFit) PDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	a, b := f.components()
	return f.Weight*a.Prob(x) + (1-f.Weight)*b.Prob(x)
}

// Support returns a strike range holding all but a negligible tail of both
// components.
func (f MixtureFit) Support() (lo, hi float64) {
	a, b := f.components()
	lo = math.Min(math.Exp(a.Mu-mixtureTailSD*a.Sigma), math.Exp(b.Mu-mixtureTailSD*b.Sigma))
	hi = math.Max(math.Exp(a.Mu+mixtureTailSD*a.Sigma), math.Exp(b.Mu+mixtureTailSD*b.Sigma))
	return lo, hi
}

// Mixture fits a two-lognormal mixture to the out-of-the-money call curve
// with Nelder-Mead. A penalty keeps the mixture mean on the parity forward.
type Mixture struct {
	cfg config
}

// NewMixture returns a mixture estimator.
func NewMixture(opts ...Option) (*Mixture, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Mixture{cfg: cfg}, nil
}

// Name returns "mixture".
func (e *Mixture) Name() string { return "mixture" }

func atmTotalVol(cv curve) float64 {
	best := 0
	for i, K := range cv.strikes {
		if math.Abs(K-cv.forward) < math.Abs(cv.strikes[best]-cv.forward) {
			best = i
		}
	}
	v, err := bsm.ImpliedVol(bsm.Call, cv.calls[best], cv.forward, cv.strikes[best], cv.maturity, cv.discount)
	if err != nil {
		v = 0.2
	}
	return v * math.Sqrt(cv.maturity)
}

func decodeMixture(p []float64, df float64) (MixtureFit, bool) {
	f := MixtureFit{
		Weight:   1 / (1 + math.Exp(-p[0])),
		Forward1: math.Exp(p[1]),
		Forward2: math.Exp(p[2]),
		Sigma1:   math.Exp(p[3]),
		Sigma2:   math.Exp(p[4]),
		Discount: df,
	}
	ok := f.Sigma1 >= mixtureMinSigma && f.Sigma1 <= mixtureMaxSigma &&
		f.Sigma2 >= mixtureMinSigma && f.Sigma2 <= mixtureMaxSigma &&
		core.IsFinite(f.Forward1) && core.IsFinite(f.Forward2)
	return f, ok
}

// Fit calibrates the mixture to a chain.
func (e *Mixture) Fit(ctx context.Context, c *chain.Chain) (*MixtureFit, error) {
	cv, err := prepare(ctx, c)
	if err != nil {
		return nil, err
	}
	return fitMixture(cv)
}

func fitMixture(cv curve) (*MixtureFit, error) {
	F := cv.forward
	s0 := atmTotalVol(cv)
	penalty := float64(len(cv.strikes))

	objective := func(p []float64) float64 {
		f, ok := decodeMixture(p, cv.discount)
		if !ok {
			return math.Inf(1)
		}
		sum := 0.0
		for i, K := range cv.strikes {
			r := (f.Call(K) - cv.calls[i]) / F
			sum += r * r
		}
		m := (f.Mean() - F) / F
		return sum + penalty*m*m
	}

	x0 := []float64{
		0,
		math.Log(F) - 0.1*s0,
		math.Log(F) + 0.1*s0,
		math.Log(1.2 * s0),
		math.Log(0.8 * s0),
	}
	settings := &optimize.Settings{
		MajorIterations: 5000,
		FuncEvaluations: 20000,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-16,
			Relative:   1e-12,
			Iterations: 200,
		},
	}

	res, err := optimize.Minimize(optimize.Problem{Func: objective}, x0, settings, &optimize.NelderMead{})
	if res == nil {
		return nil, fmt.Errorf("%w: %v", ErrFitFailed, err)
	}
	fit, ok := decodeMixture(res.X, cv.discount)
	if !ok || math.IsInf(res.F, 0) || math.IsNaN(res.F) {
		return nil, fmt.Errorf("%w: objective %v", ErrFitFailed, res.F)
	}
	fit.Status = res.Status

	sum := 0.0
	for i, K := range cv.strikes {
		r := fit.Call(K) - cv.calls[i]
		sum += r * r
	}
	fit.RMSE = math.Sqrt(sum / float64(len(cv.strikes)))
	return &fit, nil
}

// Estimate fits the mixture and samples its density on a uniform grid that
// spans the quoted strikes and the bulk of both components.
func (e *Mixture) Estimate(ctx context.Context, c *chain.Chain) (*Density, error) {
	cv, err := prepare(ctx, c)
	if err != nil {
		return nil, err
	}
	fit, err := fitMixture(cv)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lo, hi := fit.Support()
	qlo, qhi := core.Span(cv.strikes)
	lo, hi = math.Min(lo, qlo), math.Max(hi, qhi)

	x := core.Linspace(lo, hi, e.cfg.gridPoints)
	pdf := make([]float64, len(x))
	for i, K := range x {
		pdf[i] = fit.PDF(K)
	}
	return finish(e.cfg, e.Name(), x, pdf, cv.forward, cv.discount)
}
