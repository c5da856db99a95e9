package density

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rnd/rnd/fourier"
	"github.com/cwbudde/algo-rnd/rnd/smooth"
)

const (
	defaultGridPoints    = 401
	defaultExtrapolation = 0.5
	minGridPoints        = 5
)

type config struct {
	gridPoints    int
	extrapolation float64
	smoothShape   smooth.Shape
	smoothWidth   int
	clipNegative  bool
	normalize     bool
	fourierOpts   []fourier.Option
}

func defaultConfig() config {
	return config{
		gridPoints:    defaultGridPoints,
		extrapolation: defaultExtrapolation,
		smoothShape:   smooth.Gaussian,
		clipNegative:  true,
	}
}

// Option configures an estimator.
type Option func(*config) error

// WithGridPoints sets the number of strikes on which fitted estimators
// evaluate the density (default 401, at least 5).
func WithGridPoints(n int) Option {
	return func(cfg *config) error {
		if n < minGridPoints {
			return fmt.Errorf("density: grid points must be >= %d: %d", minGridPoints, n)
		}
		cfg.gridPoints = n
		return nil
	}
}

// WithExtrapolation widens the evaluation grid of fitted estimators by
// factor times the quoted strike range on each side (default 0.5). Smile
// estimators hold the volatility flat beyond the quotes.
func WithExtrapolation(factor float64) Option {
	return func(cfg *config) error {
		if factor < 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
			return fmt.Errorf("density: extrapolation factor must be >= 0 and finite: %v", factor)
		}
		cfg.extrapolation = factor
		return nil
	}
}

// WithSmoothing convolves the estimated density with a kernel of the given
// shape and odd width. The width counts grid points; a non-uniform grid,
// such as the quoted strikes Direct works on, is smoothed on an equally
// spaced grid of the same length spanning the same strikes. A width of 1
// disables smoothing (the default).
func WithSmoothing(shape smooth.Shape, width int) Option {
	return func(cfg *config) error {
		if _, err := smooth.Kernel(shape, width); err != nil {
			return fmt.Errorf("density: %w", err)
		}
		cfg.smoothShape, cfg.smoothWidth = shape, width
		return nil
	}
}

// WithClipNegative enables or disables zeroing negative density values
// (default true).
func WithClipNegative(enabled bool) Option {
	return func(cfg *config) error {
		cfg.clipNegative = enabled
		return nil
	}
}

// WithNormalize enables or disables rescaling to unit mass (default false).
func WithNormalize(enabled bool) Option {
	return func(cfg *config) error {
		cfg.normalize = enabled
		return nil
	}
}

// WithFourierOptions passes FFT settings to the Fourier estimator.
func WithFourierOptions(opts ...fourier.Option) Option {
	return func(cfg *config) error {
		cfg.fourierOpts = append(cfg.fourierOpts, opts...)
		return nil
	}
}

func applyOptions(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}
	return cfg, nil
}
