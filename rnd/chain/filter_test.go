package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-rnd/rnd/bsm"
)

func TestFilter(t *testing.T) {
	c := New("X", testMarket())
	add := func(q Quote) { require.NoError(t, c.Add(q)) }

	add(Quote{Kind: bsm.Call, Strike: 50, Bid: 50, Ask: 51, Volume: 10, OpenInterest: 10})
	add(Quote{Kind: bsm.Call, Strike: 100, Bid: 8, Ask: 8.2, Volume: 10, OpenInterest: 10})
	add(Quote{Kind: bsm.Put, Strike: 100, Bid: 6, Ask: 6.2, Volume: 1, OpenInterest: 10})
	add(Quote{Kind: bsm.Call, Strike: 110, Ask: 0.4, Volume: 10, OpenInterest: 10})
	add(Quote{Kind: bsm.Put, Strike: 110, Bid: 9, Ask: 12, Volume: 10, OpenInterest: 1})
	add(Quote{Kind: bsm.Call, Strike: 120, Volume: 10, OpenInterest: 10})

	tests := []struct {
		name   string
		opts   []FilterOption
		quotes int
		rows   []float64
	}{
		{"defaults drop empty mids", nil, 5, []float64{50, 100, 110}},
		{"moneyness", []FilterOption{WithMoneyness(0.8, 1.2)}, 4, []float64{100, 110}},
		{"volume", []FilterOption{WithMinVolume(5)}, 4, []float64{50, 100, 110}},
		{"open interest", []FilterOption{WithMinOpenInterest(5)}, 4, []float64{50, 100, 110}},
		{"zero bid", []FilterOption{WithDropZeroBid()}, 4, []float64{50, 100, 110}},
		{"spread", []FilterOption{WithMaxRelativeSpread(0.1)}, 3, []float64{50, 100}},
		{"combined", []FilterOption{WithMoneyness(0.8, 1.2), WithMinVolume(5), WithMaxRelativeSpread(0.1)}, 1, []float64{100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := c.Filter(tt.opts...)
			assert.Equal(t, tt.quotes, f.Quotes())
			assert.Equal(t, tt.rows, f.Strikes())
			assert.Equal(t, c.Market, f.Market)
		})
	}

	assert.Equal(t, 6, c.Quotes(), "source chain untouched")
}
