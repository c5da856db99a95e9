// Package smooth applies symmetric kernel smoothing to sampled curves such
// as finite-difference densities, which amplify quote noise.
//
// Kernels are normalised to unit sum so that smoothing preserves the total
// mass of a uniformly sampled density. Short kernels are applied by direct
// convolution; kernels of [FFTThreshold] taps or more go through one
// zero-padded FFT product.
package smooth
