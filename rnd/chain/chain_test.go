package chain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-rnd/rnd/bsm"
	"github.com/cwbudde/algo-rnd/rnd/core"
)

func testMarket() core.Market {
	return core.ApplyMarketOptions(core.WithSpot(100), core.WithRate(0.02), core.WithMaturity(1))
}

// bsChain lists a call and a put at each strike priced with Black-Scholes
// at flat volatility, quoted one cent either side of the model price.
func bsChain(t *testing.T, m core.Market, sigma float64, strikes ...float64) *Chain {
	t.Helper()
	c := New("TEST", m)
	for _, K := range strikes {
		for _, kind := range []bsm.Kind{bsm.Call, bsm.Put} {
			p := bsm.Price(kind, m.Spot, K, m.Maturity, m.Rate, m.DividendYield, sigma)
			require.NoError(t, c.Add(Quote{
				Kind: kind, Strike: K, Bid: math.Max(p-0.01, 0), Ask: p + 0.01,
				Volume: 10, OpenInterest: 100,
			}))
		}
	}
	return c
}

func TestQuoteMid(t *testing.T) {
	tests := []struct {
		name string
		q    Quote
		want float64
	}{
		{"two sided", Quote{Bid: 1, Ask: 2}, 1.5},
		{"last only", Quote{Last: 3}, 3},
		{"ask only", Quote{Ask: 0.2}, 0.1},
		{"empty", Quote{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.q.Mid(), 1e-12)
		})
	}
}

func TestQuoteRelativeSpread(t *testing.T) {
	assert.InDelta(t, 0.2, Quote{Bid: 0.9, Ask: 1.1}.RelativeSpread(), 1e-12)
	assert.True(t, math.IsInf(Quote{Ask: 1}.RelativeSpread(), 1))
}

func TestQuoteValidate(t *testing.T) {
	bad := []Quote{
		{Kind: bsm.Kind(7), Strike: 100},
		{Kind: bsm.Call, Strike: 0},
		{Kind: bsm.Call, Strike: math.NaN()},
		{Kind: bsm.Put, Strike: 100, Bid: -1},
		{Kind: bsm.Put, Strike: 100, Bid: 2, Ask: 1},
		{Kind: bsm.Call, Strike: 100, Volume: -1},
	}
	for _, q := range bad {
		assert.ErrorIs(t, q.Validate(), ErrInvalidQuote, "%+v", q)
	}
	assert.NoError(t, Quote{Kind: bsm.Call, Strike: 100, Bid: 1, Ask: 1.1}.Validate())
}

func TestChainOrderingAndReplace(t *testing.T) {
	c := New("X", testMarket())
	for _, K := range []float64{110, 90, 100} {
		require.NoError(t, c.Add(Quote{Kind: bsm.Call, Strike: K, Bid: 1, Ask: 2}))
	}
	require.NoError(t, c.Add(Quote{Kind: bsm.Put, Strike: 100, Bid: 3, Ask: 4}))
	require.NoError(t, c.Add(Quote{Kind: bsm.Call, Strike: 100, Bid: 5, Ask: 6}))

	assert.Equal(t, []float64{90, 100, 110}, c.Strikes())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 4, c.Quotes())

	row, ok := c.Row(100)
	require.True(t, ok)
	assert.InDelta(t, 5.5, row.Call.Mid(), 1e-12)
	assert.InDelta(t, 3.5, row.Quote(bsm.Put).Mid(), 1e-12)

	_, ok = c.Row(95)
	assert.False(t, ok)

	assert.Error(t, c.Add(Quote{Kind: bsm.Call, Strike: -1}))
	assert.Equal(t, 3, c.Len())
}

func TestChainRange(t *testing.T) {
	c := bsChain(t, testMarket(), 0.2, 80, 90, 100, 110, 120)

	var got []float64
	c.Range(85, 110, func(r Row) bool {
		got = append(got, r.Strike)
		return true
	})
	assert.Equal(t, []float64{90, 100, 110}, got)

	got = got[:0]
	c.Range(0, 1000, func(r Row) bool {
		got = append(got, r.Strike)
		return len(got) < 2
	})
	assert.Equal(t, []float64{80, 90}, got)
}

func TestChainPrices(t *testing.T) {
	c := New("X", testMarket())
	require.NoError(t, c.Add(Quote{Kind: bsm.Call, Strike: 90, Bid: 11, Ask: 12}))
	require.NoError(t, c.Add(Quote{Kind: bsm.Call, Strike: 100}))
	require.NoError(t, c.Add(Quote{Kind: bsm.Put, Strike: 100, Last: 2}))

	ks, mids := c.Prices(bsm.Call)
	assert.Equal(t, []float64{90}, ks)
	assert.Equal(t, []float64{11.5}, mids)

	ks, mids = c.Prices(bsm.Put)
	assert.Equal(t, []float64{100}, ks)
	assert.Equal(t, []float64{2.0}, mids)
}

func TestChainClone(t *testing.T) {
	c := New("X", testMarket())
	require.NoError(t, c.Add(Quote{Kind: bsm.Call, Strike: 100, Bid: 1, Ask: 2}))
	require.NoError(t, c.Add(Quote{Kind: bsm.Put, Strike: 90, Bid: 1, Ask: 2}))

	cl, err := c.Clone()
	require.NoError(t, err)
	assert.Equal(t, c.Fingerprint(), cl.Fingerprint())

	row, ok := cl.Row(100)
	require.True(t, ok)
	assert.Nil(t, row.Put)
	row.Call.Bid = 1.5

	orig, _ := c.Row(100)
	assert.InDelta(t, 1.0, orig.Call.Bid, 0)
	assert.NotEqual(t, c.Fingerprint(), cl.Fingerprint())
}

func TestChainFingerprint(t *testing.T) {
	a := bsChain(t, testMarket(), 0.2, 90, 100, 110)
	b := bsChain(t, testMarket(), 0.2, 110, 100, 90)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	m := testMarket()
	m.Rate = 0.03
	c := bsChain(t, m, 0.2, 90, 100, 110)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
