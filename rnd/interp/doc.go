// Package interp provides the interpolation curves used to fit volatility
// smiles and to resample uniform pricing grids.
//
// Available curves, from least to most flexible:
//
//   - [NewLinear]:        piecewise linear
//   - [FitPolynomial]:    least-squares polynomial (degree 2 is the Shimko smile)
//   - [NewPCHIP]:         monotone piecewise cubic Hermite (no overshoot)
//   - [NewNaturalSpline]: natural cubic spline (C2, may overshoot)
//
// Every curve implements [Curve] and extrapolates flat outside its domain.
// [Hermite4] and [LagrangeInterpolator] work on uniformly spaced samples.
package interp
