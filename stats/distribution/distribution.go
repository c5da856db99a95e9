package distribution

import (
	"math"
	"sort"

	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Summary holds the statistics of a sampled density.
type Summary struct {
	Points   int
	Mass     float64 // integral of pdf
	Mean     float64
	Variance float64
	StdDev   float64
	Skewness float64
	Kurtosis float64 // excess kurtosis
	Mode     float64
	ModePos  int
	Median   float64
	Q05      float64
	Q25      float64
	Q75      float64
	Q95      float64
	Entropy  float64 // differential entropy in nats
}

func emptySummary(n int) Summary {
	nan := math.NaN()
	return Summary{
		Points:   n,
		Mean:     nan,
		Variance: nan,
		StdDev:   nan,
		Skewness: nan,
		Kurtosis: nan,
		Mode:     nan,
		ModePos:  -1,
		Median:   nan,
		Q05:      nan,
		Q25:      nan,
		Q75:      nan,
		Q95:      nan,
		Entropy:  nan,
	}
}

// weights returns the trapezoidal quadrature weights of the grid x.
func weights(x []float64) []float64 {
	n := len(x)
	w := make([]float64, n)
	if n < 2 {
		return w
	}
	for i := 0; i < n-1; i++ {
		h := 0.5 * (x[i+1] - x[i])
		w[i] += h
		w[i+1] += h
	}
	return w
}

func valid(x, pdf []float64) bool {
	return len(x) >= 2 && len(x) == len(pdf)
}

// CDF returns the cumulative distribution on the grid, normalised to end at
// one. A density with non-positive mass yields the unnormalised running
// integral. Invalid input yields nil.
func CDF(x, pdf []float64) []float64 {
	if !valid(x, pdf) {
		return nil
	}

	out := make([]float64, len(x))
	for i := 1; i < len(x); i++ {
		out[i] = out[i-1] + 0.5*(pdf[i]+pdf[i-1])*(x[i]-x[i-1])
	}

	mass := out[len(out)-1]
	if mass > 0 {
		floats.Scale(1/mass, out)
	}
	return out
}

// Quantile inverts a cumulative distribution by linear interpolation.
// p is clamped to [0, 1]; flat stretches of the CDF resolve to their first
// abscissa. A CDF that dips, as it does under a density with negative
// lobes, is replaced by its running maximum so the result stays monotone in
// p. Invalid input yields NaN.
func Quantile(x, cdf []float64, p float64) float64 {
	n := len(x)
	if n == 0 || n != len(cdf) || math.IsNaN(p) {
		return math.NaN()
	}
	p = math.Max(0, math.Min(1, p))
	cdf = runningMax(cdf)

	i := sort.SearchFloat64s(cdf, p)
	switch {
	case i == 0:
		return x[0]
	case i >= n:
		return x[n-1]
	}

	c0, c1 := cdf[i-1], cdf[i]
	if c1 == c0 {
		return x[i-1]
	}
	t := (p - c0) / (c1 - c0)
	return x[i-1] + t*(x[i]-x[i-1])
}

// runningMax returns cdf unchanged when it is non-decreasing and a
// monotone copy otherwise.
func runningMax(cdf []float64) []float64 {
	if sort.Float64sAreSorted(cdf) {
		return cdf
	}
	out := make([]float64, len(cdf))
	peak := math.Inf(-1)
	for i, c := range cdf {
		peak = math.Max(peak, c)
		out[i] = peak
	}
	return out
}

// Moments returns the mass and the normalised mean, variance, skewness and
// excess kurtosis of the density. Moments are NaN when the mass is not
// positive.
func Moments(x, pdf []float64) (mass, mean, variance, skewness, kurtosis float64) {
	nan := math.NaN()
	if !valid(x, pdf) {
		return 0, nan, nan, nan, nan
	}

	wf := make([]float64, len(x))
	vecmath.MulBlock(wf, weights(x), pdf)

	mass = floats.Sum(wf)
	if !(mass > 0) {
		return mass, nan, nan, nan, nan
	}
	mean = floats.Dot(wf, x) / mass

	d := append([]float64(nil), x...)
	floats.AddConst(-mean, d)

	dk := make([]float64, len(x))
	vecmath.MulBlock(dk, d, d)
	variance = floats.Dot(wf, dk) / mass

	vecmath.MulBlockInPlace(dk, d)
	m3 := floats.Dot(wf, dk) / mass

	vecmath.MulBlockInPlace(dk, d)
	m4 := floats.Dot(wf, dk) / mass

	if variance > 0 {
		skewness = m3 / (variance * math.Sqrt(variance))
		kurtosis = m4/(variance*variance) - 3
	}
	return mass, mean, variance, skewness, kurtosis
}

// Entropy returns the differential entropy -int f ln f of the normalised
// density. Non-positive values contribute nothing.
func Entropy(x, pdf []float64) float64 {
	if !valid(x, pdf) {
		return math.NaN()
	}

	w := weights(x)
	var mass, h float64
	for i, f := range pdf {
		if f > 0 {
			mass += w[i] * f
			h -= w[i] * f * math.Log(f)
		}
	}
	if !(mass > 0) {
		return math.NaN()
	}
	// Entropy of f/mass = (h/mass) + ln(mass).
	return h/mass + math.Log(mass)
}

// Summarize computes every statistic of the density in one call.
func Summarize(x, pdf []float64) Summary {
	if !valid(x, pdf) {
		return emptySummary(len(pdf))
	}

	mass, mean, variance, skew, kurt := Moments(x, pdf)
	if !(mass > 0) {
		s := emptySummary(len(x))
		s.Mass = mass
		return s
	}

	modePos := floats.MaxIdx(pdf)
	cdf := CDF(x, pdf)

	return Summary{
		Points:   len(x),
		Mass:     mass,
		Mean:     mean,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Skewness: skew,
		Kurtosis: kurt,
		Mode:     x[modePos],
		ModePos:  modePos,
		Median:   Quantile(x, cdf, 0.5),
		Q05:      Quantile(x, cdf, 0.05),
		Q25:      Quantile(x, cdf, 0.25),
		Q75:      Quantile(x, cdf, 0.75),
		Q95:      Quantile(x, cdf, 0.95),
		Entropy:  Entropy(x, pdf),
	}
}
