package fourier

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-rnd/rnd/interp"
)

// ErrInvalidPoints is returned when the FFT size is not a power of two >= 16.
var ErrInvalidPoints = errors.New("fourier: FFT size must be a power of two >= 16")

// Option configures the FFT layout.
type Option func(*config)

type config struct {
	points int
	eta    float64
	alpha  float64
	floor  float64
}

func defaultConfig() config {
	return config{
		points: 4096,
		eta:    0.25,
		alpha:  1.5,
		floor:  1e-10,
	}
}

// WithPoints sets the FFT size.
func WithPoints(n int) Option {
	return func(c *config) {
		c.points = n
	}
}

// WithEta sets the frequency step.
func WithEta(eta float64) Option {
	return func(c *config) {
		if eta > 0 {
			c.eta = eta
		}
	}
}

// WithAlpha sets the Carr-Madan damping exponent.
func WithAlpha(alpha float64) Option {
	return func(c *config) {
		if alpha > 0 {
			c.alpha = alpha
		}
	}
}

// WithDensityFloor sets the relative level below which [Density] trims the
// tails of the recovered density.
func WithDensityFloor(floor float64) Option {
	return func(c *config) {
		if floor >= 0 {
			c.floor = floor
		}
	}
}

func applyOptions(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.points < 16 || cfg.points&(cfg.points-1) != 0 {
		return cfg, fmt.Errorf("%w: %d", ErrInvalidPoints, cfg.points)
	}
	return cfg, nil
}

// Grid holds values on a uniform log-strike grid k_j = K0 + j*Dk.
type Grid struct {
	K0     float64
	Dk     float64
	Values []float64
}

// Strike returns exp(k_j).
func (g Grid) Strike(j int) float64 {
	return math.Exp(g.K0 + g.Dk*float64(j))
}

// At interpolates the grid at strike K.
func (g Grid) At(K float64) float64 {
	return interp.UniformAt(g.Values, g.K0, g.Dk, math.Log(K))
}

func trapezoid(j int) float64 {
	if j == 0 {
		return 0.5
	}
	return 1
}

func simpson(j int) float64 {
	switch {
	case j == 0:
		return 1.0 / 3
	case j%2 == 1:
		return 4.0 / 3
	default:
		return 2.0 / 3
	}
}

// transform evaluates sum_j exp(-i*v_j*(k_u - center)) * f(v_j) * eta * w_j
// for v_j = j*eta and returns the FFT output together with the grid origin
// and spacing. f must already carry the exp(-i*v*center) phase.
func transform(cfg config, center float64, f func(v float64) complex128, weight func(int) float64) ([]complex128, float64, float64, error) {
	n := cfg.points
	lambda := 2 * math.Pi / (float64(n) * cfg.eta)
	b := 0.5 * float64(n) * lambda

	in := make([]complex128, n)
	for j := range in {
		v := float64(j) * cfg.eta
		in[j] = cmplx.Exp(complex(0, v*b)) * f(v) * complex(cfg.eta*weight(j), 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("fourier: failed to create FFT plan: %w", err)
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, 0, 0, err
	}

	return out, center - b, lambda, nil
}

// CarrMadan prices calls on a uniform log-strike grid centred on ln F.
func CarrMadan(m Model, opts ...Option) (Grid, error) {
	if err := m.Validate(); err != nil {
		return Grid{}, err
	}
	cfg, err := applyOptions(opts)
	if err != nil {
		return Grid{}, err
	}

	alpha := cfg.alpha
	df := m.Discount()
	center := math.Log(m.Forward())

	psi := func(v float64) complex128 {
		u := complex(v, -(alpha + 1))
		den := complex(alpha*alpha+alpha-v*v, (2*alpha+1)*v)
		// Shift the phase so the transform is centred on ln F.
		return complex(df, 0) * m.CharFunc(u) / den * cmplx.Exp(complex(0, -v*center))
	}

	out, k0, dk, err := transform(cfg, center, psi, simpson)
	if err != nil {
		return Grid{}, err
	}

	values := make([]float64, len(out))
	for j := range values {
		k := k0 + dk*float64(j)
		values[j] = math.Exp(-alpha*k) / math.Pi * real(out[j])
	}

	return Grid{K0: k0, Dk: dk, Values: values}, nil
}

// CallPrices prices calls at arbitrary strikes by interpolating the
// Carr-Madan grid in log strike.
func CallPrices(m Model, strikes []float64, opts ...Option) ([]float64, error) {
	g, err := CarrMadan(m, opts...)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(strikes))
	for i, K := range strikes {
		if K <= 0 {
			out[i] = m.Discount() * m.Forward()
			continue
		}
		out[i] = math.Max(g.At(K), 0)
	}
	return out, nil
}

// LogDensity recovers the density of ln S_T on the uniform FFT grid.
// The inversion uses trapezoid weights: Simpson's alternating weights alias
// a scaled copy of the density half a period away onto the grid edges.
func LogDensity(m Model, opts ...Option) (Grid, error) {
	if err := m.Validate(); err != nil {
		return Grid{}, err
	}
	cfg, err := applyOptions(opts)
	if err != nil {
		return Grid{}, err
	}

	center := math.Log(m.Forward())
	phi := func(v float64) complex128 {
		return m.CharFunc(complex(v, 0)) * cmplx.Exp(complex(0, -v*center))
	}

	out, k0, dk, err := transform(cfg, center, phi, trapezoid)
	if err != nil {
		return Grid{}, err
	}

	values := make([]float64, len(out))
	for j := range values {
		values[j] = real(out[j]) / math.Pi
	}
	return Grid{K0: k0, Dk: dk, Values: values}, nil
}

// Density recovers the terminal price density f(S) = f_log(ln S)/S.
// Tails whose log density falls below the configured floor relative to the
// peak are trimmed, so the returned strikes cover the economically relevant
// region only.
func Density(m Model, opts ...Option) (strikes, pdf []float64, err error) {
	g, err := LogDensity(m, opts...)
	if err != nil {
		return nil, nil, err
	}
	cfg, _ := applyOptions(opts)

	peak := 0.0
	for _, v := range g.Values {
		peak = math.Max(peak, v)
	}
	cut := cfg.floor * peak

	first, last := -1, -1
	for j, v := range g.Values {
		if v > cut {
			if first < 0 {
				first = j
			}
			last = j
		}
	}
	if first < 0 {
		return nil, nil, fmt.Errorf("%w: characteristic function produced no density", ErrInvalidParams)
	}

	strikes = make([]float64, 0, last-first+1)
	pdf = make([]float64, 0, last-first+1)
	for j := first; j <= last; j++ {
		S := g.Strike(j)
		strikes = append(strikes, S)
		pdf = append(pdf, math.Max(g.Values[j], 0)/S)
	}
	return strikes, pdf, nil
}
