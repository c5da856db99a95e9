// Package chain holds option chains for a single expiry and turns raw
// quotes into the call-price curve that density estimators consume.
//
// A [Chain] is a strike-ordered book: each [Row] carries at most one call
// and one put. Typical use:
//
//	chains, err := chain.ReadCSV(f, market)
//	c := chains[0].Filter(chain.WithDropZeroBid(), chain.WithMaxRelativeSpread(0.5))
//	F, df, err := c.ImpliedForward()
//	strikes, calls := c.OTMCalls(F, df)
//
// OTMCalls prefers out-of-the-money quotes on each side of the forward and
// maps puts to calls through put-call parity, since in-the-money quotes are
// usually stale and wide.
package chain
