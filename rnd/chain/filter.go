package chain

import "math"

// FilterOption configures Filter.
type FilterOption func(*filterConfig)

type filterConfig struct {
	minVolume       int64
	minOpenInterest int64
	maxSpread       float64
	moneyLo         float64
	moneyHi         float64
	dropZeroBid     bool
}

func defaultFilterConfig() filterConfig {
	return filterConfig{
		maxSpread: math.Inf(1),
		moneyLo:   0,
		moneyHi:   math.Inf(1),
	}
}

// WithMinVolume drops quotes that traded fewer than n contracts.
func WithMinVolume(n int64) FilterOption {
	return func(c *filterConfig) {
		if n > 0 {
			c.minVolume = n
		}
	}
}

// WithMinOpenInterest drops quotes with open interest below n.
func WithMinOpenInterest(n int64) FilterOption {
	return func(c *filterConfig) {
		if n > 0 {
			c.minOpenInterest = n
		}
	}
}

// WithMaxRelativeSpread drops quotes whose (ask-bid)/mid exceeds s.
// One-sided markets have an infinite spread and are dropped as well.
func WithMaxRelativeSpread(s float64) FilterOption {
	return func(c *filterConfig) {
		if s > 0 {
			c.maxSpread = s
		}
	}
}

// WithMoneyness keeps strikes with lo <= K/F <= hi, F being the market forward.
func WithMoneyness(lo, hi float64) FilterOption {
	return func(c *filterConfig) {
		if lo >= 0 && hi > lo {
			c.moneyLo, c.moneyHi = lo, hi
		}
	}
}

// WithDropZeroBid drops quotes without a bid.
func WithDropZeroBid() FilterOption {
	return func(c *filterConfig) {
		c.dropZeroBid = true
	}
}

func (f filterConfig) keep(q *Quote) bool {
	switch {
	case q == nil:
		return false
	case q.Mid() <= 0:
		return false
	case f.dropZeroBid && q.Bid <= 0:
		return false
	case q.Volume < f.minVolume, q.OpenInterest < f.minOpenInterest:
		return false
	case !math.IsInf(f.maxSpread, 1) && q.RelativeSpread() > f.maxSpread:
		return false
	}
	return true
}

// Filter returns a new chain keeping the quotes that pass every option.
// Quotes without a positive mid are always dropped, as are rows left empty.
func (c *Chain) Filter(opts ...FilterOption) *Chain {
	cfg := defaultFilterConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	F := c.Market.Forward()
	out := New(c.Underlying, c.Market)
	c.book.Ascend(nil, func(item interface{}) bool {
		row := item.(*Row)
		m := row.Strike / F
		if m < cfg.moneyLo || m > cfg.moneyHi {
			return true
		}
		for _, q := range []*Quote{row.Call, row.Put} {
			if cfg.keep(q) {
				_ = out.Add(*q)
			}
		}
		return true
	})
	return out
}
