package smooth

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-rnd/rnd/core"
)

// FFTThreshold is the kernel width from which Apply switches to FFT convolution.
const FFTThreshold = 32

// Apply smooths data with a kernel of the given shape and odd width and
// returns a new slice of the same length. The signal is mirror-padded at
// both ends before convolution.
func Apply(data []float64, s Shape, width int) ([]float64, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	taps, err := Kernel(s, width)
	if err != nil {
		return nil, err
	}
	if width == 1 {
		return append([]float64(nil), data...), nil
	}
	return Convolve(data, taps)
}

// Convolve returns the same-length convolution of data with an odd-length
// kernel under mirror padding.
func Convolve(data, taps []float64) ([]float64, error) {
	return ConvolveInto(nil, data, taps)
}

// ConvolveInto is Convolve writing into dst, which is reused when its
// capacity suffices. dst must not alias data.
func ConvolveInto(dst, data, taps []float64) ([]float64, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	if len(taps)%2 == 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, len(taps))
	}

	padded := mirrorPad(data, len(taps)/2)
	dst = core.EnsureLen(dst, len(data))
	if len(taps) >= FFTThreshold {
		return convolveFFT(dst, padded, taps)
	}
	return convolveDirect(dst, padded, taps), nil
}

func mirrorIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}

func mirrorPad(data []float64, pad int) []float64 {
	n := len(data)
	out := make([]float64, n+2*pad)
	for i := range out {
		out[i] = data[mirrorIndex(i-pad, n)]
	}
	return out
}

func convolveDirect(out, padded, taps []float64) []float64 {
	m := len(taps)
	for i := range out {
		var acc float64
		for j := 0; j < m; j++ {
			acc += padded[i+m-1-j] * taps[j]
		}
		out[i] = acc
	}
	return out
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func convolveFFT(out, padded, taps []float64) ([]float64, error) {
	m := len(taps)
	fftSize := nextPowerOf2(len(padded) + m - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("smooth: failed to create FFT plan: %w", err)
	}

	signalPadded := make([]complex128, fftSize)
	kernelPadded := make([]complex128, fftSize)
	for i, v := range padded {
		signalPadded[i] = complex(v, 0)
	}
	for i, v := range taps {
		kernelPadded[i] = complex(v, 0)
	}

	signalFreq := make([]complex128, fftSize)
	kernelFreq := make([]complex128, fftSize)
	if err := plan.Forward(signalFreq, signalPadded); err != nil {
		return nil, err
	}
	if err := plan.Forward(kernelFreq, kernelPadded); err != nil {
		return nil, err
	}

	for i := range signalFreq {
		signalFreq[i] *= kernelFreq[i]
	}

	full := make([]complex128, fftSize)
	if err := plan.Inverse(full, signalFreq); err != nil {
		return nil, err
	}

	for i := range out {
		out[i] = real(full[i+m-1])
	}
	return out, nil
}
