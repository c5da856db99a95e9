package bsm

import (
	"errors"
	"math"
)

// Errors returned by implied volatility inversion.
var (
	ErrPriceOutOfBounds = errors.New("bsm: price outside no-arbitrage bounds")
	ErrNoConvergence    = errors.New("bsm: implied volatility did not converge")
	ErrInvalidInput     = errors.New("bsm: forward, strike and maturity must be positive")
)

const (
	minVol        = 1e-6
	maxVol        = 5.0
	maxIterations = 100
	priceTol      = 1e-12
)

// ImpliedVol inverts Black-76 for sigma. The price must lie strictly between
// the discounted intrinsic value and the trivial upper bound (df*F for calls,
// df*K for puts).
//
// Newton steps on vega are used while they stay inside the current bracket;
// otherwise the bracket is bisected.
func ImpliedVol(kind Kind, price, F, K, T, df float64) (float64, error) {
	if !(F > 0) || !(K > 0) || !(T > 0) || !(df > 0) {
		return 0, ErrInvalidInput
	}

	var lower, upper float64
	if kind == Call {
		lower, upper = df*math.Max(F-K, 0), df*F
	} else {
		lower, upper = df*math.Max(K-F, 0), df*K
	}
	if math.IsNaN(price) || price <= lower || price >= upper {
		return 0, ErrPriceOutOfBounds
	}

	lo, hi := minVol, maxVol
	if Black(kind, F, K, T, df, hi) < price {
		return 0, ErrNoConvergence
	}
	if Black(kind, F, K, T, df, lo) > price {
		return lo, nil
	}

	// Brenner-Subrahmanyam seed, accurate near the money.
	sigma := math.Sqrt(2*math.Pi/T) * price / (df * F)
	if !(sigma > lo && sigma < hi) {
		sigma = 0.5 * (lo + hi)
	}

	tol := priceTol * math.Max(1, price)
	for range maxIterations {
		diff := Black(kind, F, K, T, df, sigma) - price
		if math.Abs(diff) <= tol {
			return sigma, nil
		}

		if diff > 0 {
			hi = sigma
		} else {
			lo = sigma
		}

		vega := BlackVega(F, K, T, df, sigma)
		next := sigma - diff/vega
		if vega <= 1e-14 || !(next > lo && next < hi) {
			next = 0.5 * (lo + hi)
		}

		if math.Abs(next-sigma) <= 1e-14*math.Max(1, sigma) {
			return next, nil
		}
		sigma = next
	}

	return 0, ErrNoConvergence
}
