// Package distribution summarises a probability density sampled on a grid.
//
// The density is given as abscissae x (strictly increasing, not necessarily
// uniform) and values pdf. All integrals use the trapezoidal rule, so the
// results are exact for piecewise-linear densities. Densities that do not
// integrate to one are treated as unnormalised: moments and quantiles are
// computed relative to the total mass, which is reported separately.
package distribution
