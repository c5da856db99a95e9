// Package rnd is the root of the risk-neutral density toolkit.
//
// The subpackages split the work the way a desk analyst would:
//
//   - [github.com/cwbudde/algo-rnd/rnd/core]: market inputs and numeric helpers
//   - [github.com/cwbudde/algo-rnd/rnd/bsm]: Black-Scholes-Merton / Black-76 pricing and implied volatility
//   - [github.com/cwbudde/algo-rnd/rnd/chain]: option chains, filtering, put-call parity, CSV/JSON loaders
//   - [github.com/cwbudde/algo-rnd/rnd/interp]: smile interpolation curves
//   - [github.com/cwbudde/algo-rnd/rnd/fourier]: characteristic-function models and FFT pricing
//   - [github.com/cwbudde/algo-rnd/rnd/smooth]: kernel smoothing of sampled densities
//   - [github.com/cwbudde/algo-rnd/rnd/density]: Breeden-Litzenberger style density estimators
//   - [github.com/cwbudde/algo-rnd/rnd/synth]: synthetic chains priced with Fourier models
//   - [github.com/cwbudde/algo-rnd/rnd/report], [github.com/cwbudde/algo-rnd/rnd/chart]: outputs
package rnd

// Version is the toolkit release.
const Version = "0.1.2"
