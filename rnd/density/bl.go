package density

import (
	"fmt"

	"github.com/cwbudde/algo-rnd/rnd/core"
)

// BreedenLitzenberger differentiates a call-price curve twice and returns
// the density f = C''/df at the interior strikes. The grid may be
// non-uniform; the second difference at strike i is
//
//	C'' = 2 * (h2*C[i-1] - (h1+h2)*C[i] + h1*C[i+1]) / (h1*h2*(h1+h2))
//
// with h1 = K[i]-K[i-1] and h2 = K[i+1]-K[i]. Negative values are kept.
func BreedenLitzenberger(strikes, calls []float64, df float64) (x, pdf []float64, err error) {
	n := len(strikes)
	switch {
	case n != len(calls):
		return nil, nil, fmt.Errorf("%w: %d strikes, %d prices", ErrInvalidInput, n, len(calls))
	case n < 3:
		return nil, nil, ErrTooFewStrikes
	case !(df > 0):
		return nil, nil, fmt.Errorf("%w: discount factor %v", ErrInvalidInput, df)
	case !core.IsSortedStrict(strikes):
		return nil, nil, fmt.Errorf("%w: strikes must be strictly increasing", ErrInvalidInput)
	}

	x = make([]float64, n-2)
	pdf = make([]float64, n-2)
	for i := 1; i < n-1; i++ {
		h1 := strikes[i] - strikes[i-1]
		h2 := strikes[i+1] - strikes[i]
		c2 := 2 * (h2*calls[i-1] - (h1+h2)*calls[i] + h1*calls[i+1]) / (h1 * h2 * (h1 + h2))
		x[i-1] = strikes[i]
		pdf[i-1] = c2 / df
	}
	return x, pdf, nil
}
