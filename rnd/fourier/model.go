package fourier

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-rnd/rnd/core"
)

// ErrInvalidParams is returned for model parameters outside their domain.
var ErrInvalidParams = errors.New("fourier: invalid model parameters")

// Model is a risk-neutral model for the log of the terminal price.
type Model interface {
	// CharFunc returns E[exp(i*u*ln S_T)].
	CharFunc(u complex128) complex128
	Forward() float64
	Discount() float64
	Validate() error
}

// BlackScholes is geometric Brownian motion with constant volatility.
type BlackScholes struct {
	core.Market
	Sigma float64
}

// Validate checks the market and volatility.
func (m BlackScholes) Validate() error {
	if err := m.Market.Validate(); err != nil {
		return err
	}
	if !(m.Sigma > 0) {
		return fmt.Errorf("%w: sigma must be positive: %v", ErrInvalidParams, m.Sigma)
	}
	return nil
}

// CharFunc returns the lognormal characteristic function.
func (m BlackScholes) CharFunc(u complex128) complex128 {
	T := m.Maturity
	v := m.Sigma * m.Sigma * T
	mean := math.Log(m.Spot) + (m.Rate-m.DividendYield)*T - 0.5*v
	return cmplx.Exp(1i*u*complex(mean, 0) - complex(0.5*v, 0)*u*u)
}

// Heston is the square-root stochastic variance model.
type Heston struct {
	core.Market
	V0    float64 // initial variance
	Kappa float64 // mean reversion speed
	Theta float64 // long-run variance
	Xi    float64 // volatility of variance
	Rho   float64 // spot/variance correlation
}

// Validate checks the market and the variance process parameters.
func (m Heston) Validate() error {
	if err := m.Market.Validate(); err != nil {
		return err
	}
	switch {
	case m.V0 < 0, m.Theta < 0:
		return fmt.Errorf("%w: variances must be non-negative", ErrInvalidParams)
	case !(m.Kappa > 0), !(m.Xi > 0):
		return fmt.Errorf("%w: kappa and xi must be positive", ErrInvalidParams)
	case m.Rho < -1 || m.Rho > 1:
		return fmt.Errorf("%w: rho must lie in [-1, 1]: %v", ErrInvalidParams, m.Rho)
	}
	return nil
}

// CharFunc uses the "little trap" formulation, which stays on the principal
// branch of the complex logarithm for long maturities.
func (m Heston) CharFunc(u complex128) complex128 {
	T := complex(m.Maturity, 0)
	kappa := complex(m.Kappa, 0)
	xi := complex(m.Xi, 0)
	rho := complex(m.Rho, 0)

	b := kappa - rho*xi*1i*u
	d := cmplx.Sqrt(b*b + xi*xi*(1i*u+u*u))
	g := (b - d) / (b + d)
	e := cmplx.Exp(-d * T)

	drift := complex(math.Log(m.Spot)+(m.Rate-m.DividendYield)*m.Maturity, 0)
	c := complex(m.Kappa*m.Theta, 0) / (xi * xi) * ((b-d)*T - 2*cmplx.Log((1-g*e)/(1-g)))
	dd := (b - d) / (xi * xi) * (1 - e) / (1 - g*e)

	return cmplx.Exp(1i*u*drift + c + dd*complex(m.V0, 0))
}

// Merton is lognormal diffusion with compound Poisson lognormal jumps.
type Merton struct {
	core.Market
	Sigma  float64 // diffusion volatility
	Lambda float64 // jump intensity per year
	MuJ    float64 // mean log jump size
	SigmaJ float64 // log jump volatility
}

// Validate checks the market and the jump parameters.
func (m Merton) Validate() error {
	if err := m.Market.Validate(); err != nil {
		return err
	}
	if !(m.Sigma > 0) || m.Lambda < 0 || m.SigmaJ < 0 {
		return fmt.Errorf("%w: sigma > 0, lambda >= 0, sigmaJ >= 0 required", ErrInvalidParams)
	}
	return nil
}

// CharFunc returns the jump-diffusion characteristic function with the
// drift compensated so that the forward is martingale-consistent.
func (m Merton) CharFunc(u complex128) complex128 {
	T := m.Maturity
	k := math.Exp(m.MuJ+0.5*m.SigmaJ*m.SigmaJ) - 1
	v := m.Sigma * m.Sigma * T
	mean := math.Log(m.Spot) + (m.Rate-m.DividendYield-m.Lambda*k)*T - 0.5*v

	jump := cmplx.Exp(1i*u*complex(m.MuJ, 0)-complex(0.5*m.SigmaJ*m.SigmaJ, 0)*u*u) - 1
	return cmplx.Exp(1i*u*complex(mean, 0) - complex(0.5*v, 0)*u*u + complex(m.Lambda*T, 0)*jump)
}
