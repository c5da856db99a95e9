package density

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-rnd/rnd/chain"
	"github.com/cwbudde/algo-rnd/rnd/core"
	"github.com/cwbudde/algo-rnd/rnd/interp"
	"github.com/cwbudde/algo-rnd/rnd/smooth"
)

// Estimator turns the quotes of one expiry into a density.
type Estimator interface {
	Name() string
	Estimate(ctx context.Context, c *chain.Chain) (*Density, error)
}

// curve is the parity-consistent call curve shared by the chain-based estimators.
type curve struct {
	strikes  []float64
	calls    []float64
	forward  float64
	discount float64
	maturity float64
}

func prepare(ctx context.Context, c *chain.Chain) (curve, error) {
	if err := ctx.Err(); err != nil {
		return curve{}, err
	}
	if c == nil || c.Len() == 0 {
		return curve{}, chain.ErrEmptyChain
	}

	F, df, err := c.ImpliedForward()
	if err != nil {
		return curve{}, fmt.Errorf("density: forward: %w", err)
	}

	ks, cs := c.OTMCalls(F, df)
	if len(ks) < 3 {
		return curve{}, fmt.Errorf("%w: %d usable strikes", ErrTooFewStrikes, len(ks))
	}
	return curve{strikes: ks, calls: cs, forward: F, discount: df, maturity: c.Market.Maturity}, nil
}

// finish applies the configured post-processing and wraps the result.
func finish(cfg config, method string, x, pdf []float64, forward, discount float64) (*Density, error) {
	if cfg.smoothWidth > 1 {
		smoothed, err := smoothOnGrid(x, pdf, cfg.smoothShape, cfg.smoothWidth)
		if err != nil {
			return nil, fmt.Errorf("density: smoothing: %w", err)
		}
		pdf = smoothed
	}

	d := &Density{
		Method:   method,
		Strikes:  x,
		PDF:      pdf,
		Forward:  forward,
		Discount: discount,
	}
	if cfg.clipNegative {
		d.ClipNegative()
	}
	if cfg.normalize {
		if err := d.Normalize(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// smoothOnGrid smooths pdf sampled at x. A non-uniform grid is resampled
// onto an equally spaced one of the same length, smoothed there and mapped
// back, so the kernel spans a fixed strike width.
func smoothOnGrid(x, pdf []float64, s smooth.Shape, width int) ([]float64, error) {
	if len(x) < 3 || uniform(x) {
		return smooth.Apply(pdf, s, width)
	}

	lin, err := interp.NewLinear(x, pdf)
	if err != nil {
		return nil, err
	}
	lo, hi := core.Span(x)
	u := core.Linspace(lo, hi, len(x))
	resampled := make([]float64, len(u))
	for i, v := range u {
		resampled[i] = lin.Eval(v)
	}

	smoothed, err := smooth.Apply(resampled, s, width)
	if err != nil {
		return nil, err
	}
	dx := u[1] - u[0]
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = interp.UniformAt(smoothed, lo, dx, v)
	}
	return out, nil
}

func uniform(x []float64) bool {
	h := (x[len(x)-1] - x[0]) / float64(len(x)-1)
	for i := 1; i < len(x); i++ {
		if math.Abs(x[i]-x[i-1]-h) > 1e-9*math.Abs(h) {
			return false
		}
	}
	return true
}

// Direct applies Breeden-Litzenberger to the quoted out-of-the-money call
// curve without any fitting.
type Direct struct {
	cfg config
}

// NewDirect returns a direct estimator.
func NewDirect(opts ...Option) (*Direct, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Direct{cfg: cfg}, nil
}

// Name returns "direct".
func (e *Direct) Name() string { return "direct" }

// Estimate differentiates the chain's call curve at the quoted strikes.
func (e *Direct) Estimate(ctx context.Context, c *chain.Chain) (*Density, error) {
	cv, err := prepare(ctx, c)
	if err != nil {
		return nil, err
	}
	x, pdf, err := BreedenLitzenberger(cv.strikes, cv.calls, cv.discount)
	if err != nil {
		return nil, err
	}
	return finish(e.cfg, e.Name(), x, pdf, cv.forward, cv.discount)
}
