// Package density recovers risk-neutral densities of the terminal
// underlying price from option chains.
//
// Every estimator ends in the Breeden-Litzenberger relation
//
//	f(K) = exp(rT) * d2C/dK2
//
// and differs only in how it obtains a smooth call-price curve C(K):
//
//   - [Direct] differentiates the out-of-the-money call curve of the chain
//     as quoted. It is fast and assumption free but amplifies quote noise.
//   - [Smile] fits a curve to Black-76 implied volatilities (natural
//     spline, PCHIP, or Shimko's quadratic), reprices calls on a uniform
//     grid and differentiates those.
//   - [Mixture] fits a two-component lognormal mixture to the call prices
//     and returns its analytic density.
//   - [Fourier] inverts the characteristic function of a model directly
//     and ignores the quotes; it serves as ground truth for synthetic data.
//
// Estimators are stateless after construction and safe for concurrent use.
// [EstimateAll] runs one over several expiries in parallel.
package density
