package density

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-rnd/rnd/bsm"
	"github.com/cwbudde/algo-rnd/rnd/chain"
	"github.com/cwbudde/algo-rnd/rnd/core"
	"github.com/cwbudde/algo-rnd/rnd/interp"
)

const (
	smileMinVol = 1e-4
	smileMaxVol = 5.0
)

// SmileFit is a volatility curve fitted to one expiry.
type SmileFit struct {
	Kind     interp.Kind
	Forward  float64
	Discount float64
	Maturity float64
	Strikes  []float64 // strikes with a valid implied volatility
	Vols     []float64 // market implied volatilities
	Curve    interp.Curve
}

// Vol returns the fitted volatility at K, flat beyond the quoted strikes.
func (f *SmileFit) Vol(K float64) float64 {
	return core.Clamp(f.Curve.Eval(K), smileMinVol, smileMaxVol)
}

// Call prices a call with Black-76 at the fitted volatility.
func (f *SmileFit) Call(K float64) float64 {
	return bsm.Black(bsm.Call, f.Forward, K, f.Maturity, f.Discount, f.Vol(K))
}

// ImpliedVols inverts Black-76 at every strike of a call curve and returns
// the strikes at which inversion succeeded together with their volatilities.
func ImpliedVols(strikes, calls []float64, forward, discount, maturity float64) (ks, vols []float64) {
	for i, K := range strikes {
		v, err := bsm.ImpliedVol(bsm.Call, calls[i], forward, K, maturity, discount)
		if err != nil {
			continue
		}
		ks = append(ks, K)
		vols = append(vols, v)
	}
	return ks, vols
}

// Smile fits implied volatilities, reprices calls on a uniform grid and
// differentiates the repriced curve. The quadratic kind is Shimko's method.
type Smile struct {
	kind interp.Kind
	cfg  config
}

// NewSmile returns a smile estimator for a curve kind of interp.KindSpline,
// interp.KindPCHIP or interp.KindQuadratic.
func NewSmile(kind interp.Kind, opts ...Option) (*Smile, error) {
	switch kind {
	case interp.KindSpline, interp.KindPCHIP, interp.KindQuadratic, interp.KindLinear:
	default:
		return nil, fmt.Errorf("%w: smile kind %q", ErrUnknownMethod, kind)
	}
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Smile{kind: kind, cfg: cfg}, nil
}

// Name returns the curve kind.
func (e *Smile) Name() string { return string(e.kind) }

// Fit computes the market smile of a chain and fits the curve to it.
func (e *Smile) Fit(ctx context.Context, c *chain.Chain) (*SmileFit, error) {
	cv, err := prepare(ctx, c)
	if err != nil {
		return nil, err
	}

	ks, vols := ImpliedVols(cv.strikes, cv.calls, cv.forward, cv.discount, cv.maturity)
	if len(ks) < 3 {
		return nil, fmt.Errorf("%w: %d of %d strikes", ErrNoVolatilities, len(ks), len(cv.strikes))
	}

	curve, err := interp.Fit(e.kind, ks, vols)
	if err != nil {
		return nil, fmt.Errorf("density: smile fit: %w", err)
	}

	return &SmileFit{
		Kind:     e.kind,
		Forward:  cv.forward,
		Discount: cv.discount,
		Maturity: cv.maturity,
		Strikes:  ks,
		Vols:     vols,
		Curve:    curve,
	}, nil
}

// Estimate fits the smile and returns the density of the repriced calls.
func (e *Smile) Estimate(ctx context.Context, c *chain.Chain) (*Density, error) {
	fit, err := e.Fit(ctx, c)
	if err != nil {
		return nil, err
	}

	lo, hi := core.Span(fit.Strikes)
	width := hi - lo
	lo = math.Max(lo-e.cfg.extrapolation*width, 0.05*lo)
	hi += e.cfg.extrapolation * width

	// Two extra nodes: the second difference drops the end points.
	grid := core.Linspace(lo, hi, e.cfg.gridPoints+2)
	calls := make([]float64, len(grid))
	for i, K := range grid {
		calls[i] = fit.Call(K)
	}

	x, pdf, err := BreedenLitzenberger(grid, calls, fit.Discount)
	if err != nil {
		return nil, err
	}
	return finish(e.cfg, e.Name(), x, pdf, fit.Forward, fit.Discount)
}
