package density

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-rnd/rnd/chain"
	"github.com/cwbudde/algo-rnd/rnd/fourier"
)

// Fourier returns the density implied by a pricing model and ignores the
// quotes it is given. It provides the reference density for chains
// generated from the same model.
type Fourier struct {
	model fourier.Model
	cfg   config
}

// NewFourier returns an estimator for a validated model.
func NewFourier(model fourier.Model, opts ...Option) (*Fourier, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil model", ErrInvalidInput)
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Fourier{model: model, cfg: cfg}, nil
}

// Name returns "fourier".
func (e *Fourier) Name() string { return "fourier" }

// Estimate inverts the model's characteristic function. The chain may be nil.
func (e *Fourier) Estimate(ctx context.Context, _ *chain.Chain) (*Density, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	x, pdf, err := fourier.Density(e.model, e.cfg.fourierOpts...)
	if err != nil {
		return nil, err
	}
	return finish(e.cfg, e.Name(), x, pdf, e.model.Forward(), e.model.Discount())
}
