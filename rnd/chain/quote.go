package chain

import (
	"math"

	"github.com/pkg/errors"

	"github.com/cwbudde/algo-rnd/rnd/bsm"
	"github.com/cwbudde/algo-rnd/rnd/core"
)

// Errors returned by chain construction and loading.
var (
	ErrInvalidQuote  = errors.New("chain: invalid quote")
	ErrEmptyChain    = errors.New("chain: no usable quotes")
	ErrMissingColumn = errors.New("chain: missing required column")
	ErrInvalidJSON   = errors.New("chain: invalid JSON document")
	ErrParity        = errors.New("chain: put-call parity regression is inconsistent")
)

// Quote is one listed option.
type Quote struct {
	Kind         bsm.Kind `json:"kind"`
	Strike       float64  `json:"strike"`
	Bid          float64  `json:"bid"`
	Ask          float64  `json:"ask"`
	Last         float64  `json:"last"`
	Volume       int64    `json:"volume"`
	OpenInterest int64    `json:"open_interest"`
}

// Mid returns the bid/ask midpoint when both sides are quoted, the last
// trade otherwise, and half the ask for one-sided zero-bid markets.
func (q Quote) Mid() float64 {
	switch {
	case q.Bid > 0 && q.Ask > 0:
		return 0.5 * (q.Bid + q.Ask)
	case q.Last > 0:
		return q.Last
	case q.Ask > 0:
		return 0.5 * q.Ask
	default:
		return 0
	}
}

// RelativeSpread returns (ask-bid)/mid, or +Inf without a two-sided market.
func (q Quote) RelativeSpread() float64 {
	if !(q.Bid > 0 && q.Ask > 0) {
		return math.Inf(1)
	}
	return (q.Ask - q.Bid) / q.Mid()
}

// Validate checks strike and price sanity.
func (q Quote) Validate() error {
	switch {
	case q.Kind != bsm.Call && q.Kind != bsm.Put:
		return errors.Wrapf(ErrInvalidQuote, "kind %d", int(q.Kind))
	case !(q.Strike > 0) || !core.IsFinite(q.Strike):
		return errors.Wrapf(ErrInvalidQuote, "strike %v", q.Strike)
	case q.Bid < 0 || q.Ask < 0 || q.Last < 0 ||
		!core.IsFinite(q.Bid) || !core.IsFinite(q.Ask) || !core.IsFinite(q.Last):
		return errors.Wrapf(ErrInvalidQuote, "negative or non-finite price at strike %v", q.Strike)
	case q.Bid > 0 && q.Ask > 0 && q.Ask < q.Bid:
		return errors.Wrapf(ErrInvalidQuote, "crossed market %v/%v at strike %v", q.Bid, q.Ask, q.Strike)
	case q.Volume < 0 || q.OpenInterest < 0:
		return errors.Wrapf(ErrInvalidQuote, "negative size at strike %v", q.Strike)
	}
	return nil
}
