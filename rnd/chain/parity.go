package chain

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// ImpliedForward estimates the forward and discount factor from put-call
// parity, C - P = df*(F - K), by weighted least squares over strikes quoting
// both sides. Weights decay away from the market forward. With fewer than
// two pairs the market's own forward and discount factor are returned.
func (c *Chain) ImpliedForward() (forward, discount float64, err error) {
	F0 := c.Market.Forward()

	var ks, diffs, weights []float64
	c.book.Ascend(nil, func(item interface{}) bool {
		row := item.(*Row)
		if row.Call == nil || row.Put == nil {
			return true
		}
		cm, pm := row.Call.Mid(), row.Put.Mid()
		if cm <= 0 || pm <= 0 {
			return true
		}
		z := (row.Strike - F0) / (0.1 * F0)
		ks = append(ks, row.Strike)
		diffs = append(diffs, cm-pm)
		weights = append(weights, 1/(1+z*z))
		return true
	})

	if len(ks) < 2 {
		return F0, c.Market.Discount(), nil
	}

	alpha, beta := stat.LinearRegression(ks, diffs, weights, false)
	discount = -beta
	if !(discount > 0) || discount > 1.5 || math.IsNaN(alpha) {
		return 0, 0, errors.Wrapf(ErrParity, "slope %v", beta)
	}
	forward = alpha / discount
	if !(forward > 0) {
		return 0, 0, errors.Wrapf(ErrParity, "forward %v", forward)
	}
	return forward, discount, nil
}

// OTMCalls builds a call-price curve from out-of-the-money quotes: puts
// below the forward are converted with C = P + df*(F-K), calls at or above
// it are used as quoted. When the preferred side is missing the other side
// is used instead. Strikes are strictly increasing.
func (c *Chain) OTMCalls(forward, discount float64) (strikes, calls []float64) {
	c.book.Ascend(nil, func(item interface{}) bool {
		row := item.(*Row)
		K := row.Strike

		fromPut := func() (float64, bool) {
			if row.Put == nil || row.Put.Mid() <= 0 {
				return 0, false
			}
			return row.Put.Mid() + discount*(forward-K), true
		}
		fromCall := func() (float64, bool) {
			if row.Call == nil || row.Call.Mid() <= 0 {
				return 0, false
			}
			return row.Call.Mid(), true
		}

		first, second := fromCall, fromPut
		if K < forward {
			first, second = fromPut, fromCall
		}

		price, ok := first()
		if !ok {
			price, ok = second()
		}
		if ok && price > 0 {
			strikes = append(strikes, K)
			calls = append(calls, price)
		}
		return true
	})
	return strikes, calls
}
