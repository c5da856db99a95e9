// Package fourier prices European calls and recovers terminal densities from
// characteristic functions with a single complex FFT.
//
// Pricing follows Carr and Madan (1999): the damped call transform is
// sampled on a uniform frequency grid with Simpson weights and transformed
// onto a uniform log-strike grid centred on the log forward. Densities use
// the same layout on the undamped characteristic function.
//
// The log-strike spacing is fixed by the FFT size and the frequency step:
//
//	lambda = 2*pi / (N*eta)
//
// so finer strike grids need either more points or a coarser eta.
package fourier
