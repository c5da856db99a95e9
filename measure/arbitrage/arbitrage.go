package arbitrage

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by Check.
var (
	ErrLengthMismatch  = errors.New("arbitrage: strikes and prices must have the same length")
	ErrNotIncreasing   = errors.New("arbitrage: strikes must be strictly increasing")
	ErrInvalidDiscount = errors.New("arbitrage: discount factor must be positive")
)

// Kind classifies a violation.
type Kind int

const (
	Monotonicity Kind = iota
	Slope
	Convexity
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Monotonicity:
		return "monotonicity"
	case Slope:
		return "slope"
	case Convexity:
		return "convexity"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	for _, c := range []Kind{Monotonicity, Slope, Convexity} {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("arbitrage: unknown violation kind %q", text)
}

// Violation is one failed condition. Index and Strike refer to the upper
// strike of a pair or the centre of a butterfly. Amount is the size of the
// breach in price units and is always positive.
type Violation struct {
	Kind   Kind    `json:"kind" yaml:"kind" toml:"kind"`
	Index  int     `json:"index" yaml:"index" toml:"index"`
	Strike float64 `json:"strike" yaml:"strike" toml:"strike"`
	Amount float64 `json:"amount" yaml:"amount" toml:"amount"`
}

// Option configures Check.
type Option func(*config)

type config struct {
	tol float64
}

// WithTolerance ignores breaches up to tol in price units (default 1e-8).
func WithTolerance(tol float64) Option {
	return func(c *config) {
		if tol >= 0 && !math.IsNaN(tol) {
			c.tol = tol
		}
	}
}

// Check returns every violation on the curve, ordered by strike and then
// by kind.
func Check(strikes, calls []float64, df float64, opts ...Option) ([]Violation, error) {
	cfg := config{tol: 1e-8}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	n := len(strikes)
	if n != len(calls) {
		return nil, ErrLengthMismatch
	}
	if !(df > 0) {
		return nil, ErrInvalidDiscount
	}
	for i := 1; i < n; i++ {
		if !(strikes[i] > strikes[i-1]) {
			return nil, ErrNotIncreasing
		}
	}

	var out []Violation
	for i := 1; i < n; i++ {
		h1 := strikes[i] - strikes[i-1]
		drop := calls[i-1] - calls[i]

		if -drop > cfg.tol {
			out = append(out, Violation{Kind: Monotonicity, Index: i, Strike: strikes[i], Amount: -drop})
		}
		if excess := drop - df*h1; excess > cfg.tol {
			out = append(out, Violation{Kind: Slope, Index: i, Strike: strikes[i], Amount: excess})
		}

		if i+1 < n {
			h2 := strikes[i+1] - strikes[i]
			// Value of the butterfly that is long the wings and short one
			// unit at strikes[i], weighted so that its payoff peaks at one.
			fly := (h2*calls[i-1]+h1*calls[i+1])/(h1+h2) - calls[i]
			if -fly > cfg.tol {
				out = append(out, Violation{Kind: Convexity, Index: i, Strike: strikes[i], Amount: -fly})
			}
		}
	}
	return out, nil
}

// Count returns the number of violations of one kind.
func Count(vs []Violation, kind Kind) int {
	n := 0
	for _, v := range vs {
		if v.Kind == kind {
			n++
		}
	}
	return n
}
