package interp

import (
	"github.com/cwbudde/algo-rnd/rnd/core"
	"gonum.org/v1/gonum/mat"
)

// Polynomial is a least-squares polynomial in the scaled variable
// u = (x-center)/scale, which keeps the normal equations well conditioned
// for strike-sized abscissae.
type Polynomial struct {
	coeffs        []float64 // ascending powers of u
	center, scale float64
	lo, hi        float64
}

// FitPolynomial fits a polynomial of the given degree by least squares.
// It needs more points than the degree.
func FitPolynomial(x, y []float64, degree int) (*Polynomial, error) {
	if degree < 0 {
		return nil, ErrDegree
	}
	if err := validate(x, y, degree+1); err != nil {
		return nil, err
	}

	lo, hi := core.Span(x)
	p := &Polynomial{center: 0.5 * (lo + hi), scale: 0.5 * (hi - lo), lo: lo, hi: hi}
	if p.scale == 0 {
		p.scale = 1
	}

	n := len(x)
	a := mat.NewDense(n, degree+1, nil)
	for i, v := range x {
		u := (v - p.center) / p.scale
		pow := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, pow)
			pow *= u
		}
	}

	var c mat.VecDense
	if err := c.SolveVec(a, mat.NewVecDense(n, clone(y))); err != nil {
		return nil, err
	}

	p.coeffs = make([]float64, degree+1)
	for j := range p.coeffs {
		p.coeffs[j] = c.AtVec(j)
	}
	return p, nil
}

// Coefficients returns the fitted coefficients in the scaled variable.
func (p *Polynomial) Coefficients() []float64 { return clone(p.coeffs) }

// Domain returns the fitted abscissa range.
func (p *Polynomial) Domain() (lo, hi float64) { return p.lo, p.hi }

func (p *Polynomial) horner(c []float64, u float64) float64 {
	var acc float64
	for j := len(c) - 1; j >= 0; j-- {
		acc = acc*u + c[j]
	}
	return acc
}

func (p *Polynomial) derivCoeffs(c []float64) []float64 {
	if len(c) <= 1 {
		return nil
	}
	out := make([]float64, len(c)-1)
	for j := 1; j < len(c); j++ {
		out[j-1] = float64(j) * c[j]
	}
	return out
}

// Eval returns the polynomial value, held flat outside the domain.
func (p *Polynomial) Eval(x float64) float64 {
	x = core.Clamp(x, p.lo, p.hi)
	return p.horner(p.coeffs, (x-p.center)/p.scale)
}

// Deriv returns the first derivative.
func (p *Polynomial) Deriv(x float64) float64 {
	if x < p.lo || x > p.hi {
		return 0
	}
	return p.horner(p.derivCoeffs(p.coeffs), (x-p.center)/p.scale) / p.scale
}

// Deriv2 returns the second derivative.
func (p *Polynomial) Deriv2(x float64) float64 {
	if x < p.lo || x > p.hi {
		return 0
	}
	d2 := p.derivCoeffs(p.derivCoeffs(p.coeffs))
	return p.horner(d2, (x-p.center)/p.scale) / (p.scale * p.scale)
}
