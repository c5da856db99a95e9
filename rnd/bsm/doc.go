// Package bsm prices European options under Black-Scholes-Merton and Black-76
// and inverts prices to implied volatilities.
//
// All rates are continuously compounded. Black-76 functions take the forward
// F and the discount factor df directly so that callers can feed the values
// implied from put-call parity instead of a modelled carry.
package bsm
