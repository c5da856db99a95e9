package chain

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/tidwall/btree"

	"github.com/cwbudde/algo-rnd/rnd/bsm"
	"github.com/cwbudde/algo-rnd/rnd/core"
)

// Row groups the call and put listed at one strike.
type Row struct {
	Strike float64
	Call   *Quote
	Put    *Quote
}

// Quote returns the row's quote of the given kind, or nil.
func (r Row) Quote(kind bsm.Kind) *Quote {
	if kind == bsm.Call {
		return r.Call
	}
	return r.Put
}

// Chain is the strike-ordered quote book of one underlying and expiry.
// A Chain is not safe for concurrent mutation.
type Chain struct {
	Underlying string
	Market     core.Market
	book       *btree.BTree
}

func byStrike(a, b interface{}) bool {
	return a.(*Row).Strike < b.(*Row).Strike
}

// New returns an empty chain.
func New(underlying string, m core.Market) *Chain {
	return &Chain{
		Underlying: underlying,
		Market:     m,
		book:       btree.NewNonConcurrent(byStrike),
	}
}

// Add inserts q, replacing any existing quote of the same kind and strike.
func (c *Chain) Add(q Quote) error {
	if err := q.Validate(); err != nil {
		return err
	}

	qq := q
	if found := c.book.Get(&Row{Strike: q.Strike}); found != nil {
		row := found.(*Row)
		if q.Kind == bsm.Call {
			row.Call = &qq
		} else {
			row.Put = &qq
		}
		return nil
	}

	row := &Row{Strike: q.Strike}
	if q.Kind == bsm.Call {
		row.Call = &qq
	} else {
		row.Put = &qq
	}
	c.book.Set(row)
	return nil
}

// Len returns the number of strikes.
func (c *Chain) Len() int {
	return c.book.Len()
}

// Quotes returns the number of individual quotes.
func (c *Chain) Quotes() int {
	n := 0
	c.book.Ascend(nil, func(item interface{}) bool {
		row := item.(*Row)
		if row.Call != nil {
			n++
		}
		if row.Put != nil {
			n++
		}
		return true
	})
	return n
}

// Rows returns the rows in ascending strike order.
func (c *Chain) Rows() []Row {
	rows := make([]Row, 0, c.book.Len())
	c.book.Ascend(nil, func(item interface{}) bool {
		rows = append(rows, *item.(*Row))
		return true
	})
	return rows
}

// Strikes returns all strikes in ascending order.
func (c *Chain) Strikes() []float64 {
	out := make([]float64, 0, c.book.Len())
	c.book.Ascend(nil, func(item interface{}) bool {
		out = append(out, item.(*Row).Strike)
		return true
	})
	return out
}

// Row returns the row at strike.
func (c *Chain) Row(strike float64) (Row, bool) {
	found := c.book.Get(&Row{Strike: strike})
	if found == nil {
		return Row{}, false
	}
	return *found.(*Row), true
}

// Range calls fn for every row with lo <= strike <= hi in ascending order
// until fn returns false.
func (c *Chain) Range(lo, hi float64, fn func(Row) bool) {
	c.book.Ascend(&Row{Strike: lo}, func(item interface{}) bool {
		row := item.(*Row)
		if row.Strike > hi {
			return false
		}
		return fn(*row)
	})
}

// Prices returns strikes and mid prices of all quotes of one kind with a
// positive mid.
func (c *Chain) Prices(kind bsm.Kind) (strikes, mids []float64) {
	c.book.Ascend(nil, func(item interface{}) bool {
		row := item.(*Row)
		if q := row.Quote(kind); q != nil && q.Mid() > 0 {
			strikes = append(strikes, row.Strike)
			mids = append(mids, q.Mid())
		}
		return true
	})
	return strikes, mids
}

// Clone returns a deep copy that shares no quotes with c.
func (c *Chain) Clone() (*Chain, error) {
	out := New(c.Underlying, c.Market)
	for _, row := range c.Rows() {
		for _, src := range []*Quote{row.Call, row.Put} {
			if src == nil {
				continue
			}
			var q Quote
			if err := copier.Copy(&q, src); err != nil {
				return nil, errors.Wrapf(err, "chain: clone strike %v", row.Strike)
			}
			if err := out.Add(q); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Fingerprint hashes the market inputs and every quote so that reports can
// be matched to the exact data they were computed from.
func (c *Chain) Fingerprint() uint64 {
	d := xxhash.New()
	f := func(v float64) { _, _ = d.WriteString(strconv.FormatFloat(v, 'g', -1, 64) + "|") }
	n := func(v int64) { _, _ = d.WriteString(strconv.FormatInt(v, 10) + "|") }

	_, _ = d.WriteString(c.Underlying + "|")
	f(c.Market.Spot)
	f(c.Market.Rate)
	f(c.Market.DividendYield)
	f(c.Market.Maturity)

	c.book.Ascend(nil, func(item interface{}) bool {
		row := item.(*Row)
		for _, q := range []*Quote{row.Call, row.Put} {
			if q == nil {
				_, _ = d.WriteString("-|")
				continue
			}
			n(int64(q.Kind))
			f(q.Strike)
			f(q.Bid)
			f(q.Ask)
			f(q.Last)
			n(q.Volume)
			n(q.OpenInterest)
		}
		return true
	})
	return d.Sum64()
}
