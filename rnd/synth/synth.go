// Package synth generates option chains priced by a Fourier model, for
// tests, demos and estimator comparisons.
package synth

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/cwbudde/algo-rnd/rnd/bsm"
	"github.com/cwbudde/algo-rnd/rnd/chain"
	"github.com/cwbudde/algo-rnd/rnd/core"
	"github.com/cwbudde/algo-rnd/rnd/fourier"
)

// Model names accepted by NewModel.
const (
	ModelBlackScholes = "bsm"
	ModelHeston       = "heston"
	ModelMerton       = "merton"
)

// ModelNames lists the models NewModel knows.
func ModelNames() []string {
	return []string{ModelBlackScholes, ModelHeston, ModelMerton}
}

// NewModel returns a model with typical equity-index parameters.
func NewModel(name string, m core.Market) (fourier.Model, error) {
	switch strings.ToLower(name) {
	case ModelBlackScholes, "bs", "blackscholes":
		return fourier.BlackScholes{Market: m, Sigma: 0.2}, nil
	case ModelHeston:
		return fourier.Heston{Market: m, V0: 0.04, Kappa: 1.5, Theta: 0.04, Xi: 0.5, Rho: -0.7}, nil
	case ModelMerton:
		return fourier.Merton{Market: m, Sigma: 0.15, Lambda: 0.5, MuJ: -0.1, SigmaJ: 0.15}, nil
	default:
		return nil, fmt.Errorf("synth: unknown model %q", name)
	}
}

// Option configures Generate.
type Option func(*config)

type config struct {
	lo, hi     float64 // moneyness band around the forward
	n          int
	spread     float64
	noise      float64
	seed       int64
	minPrice   float64
	underlying string
}

func defaultConfig() config {
	return config{
		lo:         0.5,
		hi:         1.6,
		n:          45,
		spread:     0.02,
		seed:       1,
		minPrice:   1e-3,
		underlying: "SYNTH",
	}
}

// WithStrikes lists n strikes evenly between lo*F and hi*F.
func WithStrikes(lo, hi float64, n int) Option {
	return func(c *config) {
		if lo > 0 && hi > lo && n >= 2 {
			c.lo, c.hi, c.n = lo, hi, n
		}
	}
}

// WithSpread sets the relative half spread around the model price.
func WithSpread(rel float64) Option {
	return func(c *config) {
		if rel >= 0 {
			c.spread = rel
		}
	}
}

// WithNoise widens each side of the market by up to amp times the price,
// drawn independently per side so that mids deviate from the model.
func WithNoise(amp float64) Option {
	return func(c *config) {
		if amp >= 0 {
			c.noise = amp
		}
	}
}

// WithSeed fixes the noise and size generator.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithMinPrice drops quotes priced below p.
func WithMinPrice(p float64) Option {
	return func(c *config) {
		if p >= 0 {
			c.minPrice = p
		}
	}
}

// WithUnderlying names the generated chain.
func WithUnderlying(name string) Option {
	return func(c *config) {
		if name != "" {
			c.underlying = name
		}
	}
}

// Generate prices a call and a put at each strike with the model and
// quotes them around the model price. m is recorded as the chain's market
// and should match the model's. Puts follow from put-call parity, so
// without noise every mid equals the model price.
func Generate(model fourier.Model, m core.Market, opts ...Option) (*chain.Chain, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	F, df := model.Forward(), model.Discount()
	strikes := core.Linspace(cfg.lo*F, cfg.hi*F, cfg.n)
	calls, err := fourier.CallPrices(model, strikes)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.seed))
	c := chain.New(cfg.underlying, m)
	for i, K := range strikes {
		prices := map[bsm.Kind]float64{
			bsm.Call: calls[i],
			bsm.Put:  math.Max(calls[i]-df*(F-K), 0),
		}
		for _, kind := range []bsm.Kind{bsm.Call, bsm.Put} {
			p := prices[kind]
			u1, u2 := rng.Float64(), rng.Float64()
			vol := int64(1 + rng.Intn(500))
			oi := vol * int64(2+rng.Intn(20))
			if p < cfg.minPrice {
				continue
			}

			h := cfg.spread * p
			q := chain.Quote{
				Kind:         kind,
				Strike:       K,
				Bid:          math.Max(p-h-cfg.noise*p*u1, 0),
				Ask:          p + h + cfg.noise*p*u2,
				Last:         p,
				Volume:       vol,
				OpenInterest: oi,
			}
			if err := c.Add(q); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}
