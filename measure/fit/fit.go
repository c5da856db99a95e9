package fit

import (
	"errors"
	"math"
)

// Errors returned by fit analysis.
var (
	ErrEmpty          = errors.New("fit: no strikes to compare")
	ErrLengthMismatch = errors.New("fit: strikes and prices must have the same length")
)

// Pricer reprices European calls, as a density does.
type Pricer interface {
	CallPrice(K float64) float64
}

// Metrics holds repricing error statistics.
type Metrics struct {
	RMSE         float64 `json:"rmse" yaml:"rmse" toml:"rmse"`
	MAE          float64 `json:"mae" yaml:"mae" toml:"mae"`
	MaxAbs       float64 `json:"max_abs" yaml:"max_abs" toml:"max_abs"`
	MaxAbsStrike float64 `json:"max_abs_strike" yaml:"max_abs_strike" toml:"max_abs_strike"`
	N            int     `json:"n" yaml:"n" toml:"n"`
}

// Analyzer compares repriced and market calls. Strikes outside
// [MinStrike, MaxStrike] are skipped; a zero bound is open.
type Analyzer struct {
	MinStrike float64
	MaxStrike float64
}

// NewAnalyzer creates an analyzer over all strikes.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) inRange(K float64) bool {
	if a.MinStrike > 0 && K < a.MinStrike {
		return false
	}
	if a.MaxStrike > 0 && K > a.MaxStrike {
		return false
	}
	return true
}

// Residuals returns model minus market price at every strike in range,
// together with those strikes.
func (a *Analyzer) Residuals(p Pricer, strikes, calls []float64) (ks, res []float64, err error) {
	if len(strikes) != len(calls) {
		return nil, nil, ErrLengthMismatch
	}
	for i, K := range strikes {
		if !a.inRange(K) {
			continue
		}
		ks = append(ks, K)
		res = append(res, p.CallPrice(K)-calls[i])
	}
	if len(ks) == 0 {
		return nil, nil, ErrEmpty
	}
	return ks, res, nil
}

// Analyze computes the error metrics of p against market calls.
func (a *Analyzer) Analyze(p Pricer, strikes, calls []float64) (Metrics, error) {
	ks, res, err := a.Residuals(p, strikes, calls)
	if err != nil {
		return Metrics{}, err
	}

	var m Metrics
	var sumSq, sumAbs float64
	for i, r := range res {
		abs := math.Abs(r)
		sumSq += r * r
		sumAbs += abs
		if abs > m.MaxAbs {
			m.MaxAbs = abs
			m.MaxAbsStrike = ks[i]
		}
	}

	n := float64(len(res))
	m.N = len(res)
	m.RMSE = math.Sqrt(sumSq / n)
	m.MAE = sumAbs / n
	if m.MaxAbs == 0 {
		m.MaxAbsStrike = ks[0]
	}
	return m, nil
}
