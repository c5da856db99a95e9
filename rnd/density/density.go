package density

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-rnd/rnd/core"
	"github.com/cwbudde/algo-rnd/stats/distribution"
)

// Density is a risk-neutral density of the terminal price sampled on a
// strictly increasing strike grid.
type Density struct {
	Method   string    `json:"method"`
	Strikes  []float64 `json:"strikes"`
	PDF      []float64 `json:"pdf"`
	Forward  float64   `json:"forward"`
	Discount float64   `json:"discount"`
}

// Len returns the number of grid points.
func (d *Density) Len() int { return len(d.Strikes) }

// Clone returns a copy that shares no slices with d.
func (d *Density) Clone() *Density {
	out := *d
	out.Strikes = append([]float64(nil), d.Strikes...)
	out.PDF = append([]float64(nil), d.PDF...)
	return &out
}

// Mass returns the integral of the density over its grid.
func (d *Density) Mass() float64 {
	return core.Trapezoid(d.Strikes, d.PDF)
}

// CDF returns the cumulative distribution on the grid, normalised to end at one.
func (d *Density) CDF() []float64 {
	return distribution.CDF(d.Strikes, d.PDF)
}

// Mean returns the expected terminal price under the density.
func (d *Density) Mean() float64 {
	_, mean, _, _, _ := distribution.Moments(d.Strikes, d.PDF)
	return mean
}

// Quantile returns the p-quantile of the normalised density.
func (d *Density) Quantile(p float64) float64 {
	return distribution.Quantile(d.Strikes, d.CDF(), p)
}

// Summary returns the moments and quantiles of the density.
func (d *Density) Summary() distribution.Summary {
	return distribution.Summarize(d.Strikes, d.PDF)
}

// At interpolates the density linearly; it is zero outside the grid.
func (d *Density) At(K float64) float64 {
	n := len(d.Strikes)
	if n == 0 || K < d.Strikes[0] || K > d.Strikes[n-1] {
		return 0
	}
	i := sort.SearchFloat64s(d.Strikes, K)
	if d.Strikes[i] == K {
		return d.PDF[i]
	}
	x0, x1 := d.Strikes[i-1], d.Strikes[i]
	t := (K - x0) / (x1 - x0)
	return d.PDF[i-1] + t*(d.PDF[i]-d.PDF[i-1])
}

// ClipNegative sets negative values to zero and returns how many were clipped.
func (d *Density) ClipNegative() int {
	n := 0
	for i, v := range d.PDF {
		if v < 0 || math.IsNaN(v) {
			d.PDF[i] = 0
			n++
		}
	}
	return n
}

// Normalize scales the density to unit mass.
func (d *Density) Normalize() error {
	mass := d.Mass()
	if !(mass > 0) || math.IsInf(mass, 0) {
		return fmt.Errorf("%w: mass %v", ErrZeroMass, mass)
	}
	for i := range d.PDF {
		d.PDF[i] /= mass
	}
	return nil
}

// expectation integrates payoff*f over the grid with the kink at K inserted
// as an extra node.
func (d *Density) expectation(K float64, payoff func(x float64) float64) float64 {
	xs := make([]float64, 0, len(d.Strikes)+1)
	ys := make([]float64, 0, len(d.Strikes)+1)
	for i, x := range d.Strikes {
		if i > 0 && d.Strikes[i-1] < K && K < x {
			xs = append(xs, K)
			ys = append(ys, 0)
		}
		xs = append(xs, x)
		ys = append(ys, payoff(x)*d.PDF[i])
	}
	return core.Trapezoid(xs, ys)
}

// CallPrice reprices a European call from the density.
func (d *Density) CallPrice(K float64) float64 {
	return d.Discount * d.expectation(K, func(x float64) float64 { return math.Max(x-K, 0) })
}

// PutPrice reprices a European put from the density.
func (d *Density) PutPrice(K float64) float64 {
	return d.Discount * d.expectation(K, func(x float64) float64 { return math.Max(K-x, 0) })
}
