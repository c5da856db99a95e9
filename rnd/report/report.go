// Package report assembles the results of one density estimate into a
// serialisable document and writes it as JSON, TOML or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-rnd/measure/arbitrage"
	"github.com/cwbudde/algo-rnd/measure/fit"
	"github.com/cwbudde/algo-rnd/rnd"
	"github.com/cwbudde/algo-rnd/rnd/chain"
	"github.com/cwbudde/algo-rnd/rnd/core"
	"github.com/cwbudde/algo-rnd/rnd/density"
	"github.com/cwbudde/algo-rnd/stats/distribution"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("report: unknown format")

// Format is an output encoding.
type Format string

const (
	JSON Format = "json"
	TOML Format = "toml"
	YAML Format = "yaml"
)

// ParseFormat resolves a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "json":
		return JSON, nil
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// Point is one grid sample of the density.
type Point struct {
	Strike float64 `json:"strike" toml:"strike" yaml:"strike"`
	PDF    float64 `json:"pdf" toml:"pdf" yaml:"pdf"`
	CDF    float64 `json:"cdf" toml:"cdf" yaml:"cdf"`
}

// Stats mirrors distribution.Summary with undefined values encoded as zero.
type Stats struct {
	Mass     float64 `json:"mass" toml:"mass" yaml:"mass"`
	Mean     float64 `json:"mean" toml:"mean" yaml:"mean"`
	StdDev   float64 `json:"std_dev" toml:"std_dev" yaml:"std_dev"`
	Skewness float64 `json:"skewness" toml:"skewness" yaml:"skewness"`
	Kurtosis float64 `json:"kurtosis" toml:"kurtosis" yaml:"kurtosis"`
	Mode     float64 `json:"mode" toml:"mode" yaml:"mode"`
	Median   float64 `json:"median" toml:"median" yaml:"median"`
	Q05      float64 `json:"q05" toml:"q05" yaml:"q05"`
	Q25      float64 `json:"q25" toml:"q25" yaml:"q25"`
	Q75      float64 `json:"q75" toml:"q75" yaml:"q75"`
	Q95      float64 `json:"q95" toml:"q95" yaml:"q95"`
	Entropy  float64 `json:"entropy" toml:"entropy" yaml:"entropy"`
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func statsFrom(s distribution.Summary) Stats {
	return Stats{
		Mass:     finite(s.Mass),
		Mean:     finite(s.Mean),
		StdDev:   finite(s.StdDev),
		Skewness: finite(s.Skewness),
		Kurtosis: finite(s.Kurtosis),
		Mode:     finite(s.Mode),
		Median:   finite(s.Median),
		Q05:      finite(s.Q05),
		Q25:      finite(s.Q25),
		Q75:      finite(s.Q75),
		Q95:      finite(s.Q95),
		Entropy:  finite(s.Entropy),
	}
}

// Report is the serialisable result of one estimate.
type Report struct {
	ID          string                `json:"id" toml:"id" yaml:"id"`
	CreatedAt   time.Time             `json:"created_at" toml:"created_at" yaml:"created_at"`
	Version     string                `json:"version" toml:"version" yaml:"version"`
	Method      string                `json:"method" toml:"method" yaml:"method"`
	Underlying  string                `json:"underlying" toml:"underlying" yaml:"underlying"`
	Fingerprint string                `json:"fingerprint" toml:"fingerprint" yaml:"fingerprint"`
	Market      core.Market           `json:"market" toml:"market" yaml:"market"`
	Forward     float64               `json:"forward" toml:"forward" yaml:"forward"`
	Discount    float64               `json:"discount" toml:"discount" yaml:"discount"`
	Summary     Stats                 `json:"summary" toml:"summary" yaml:"summary"`
	Fit         *fit.Metrics          `json:"fit,omitempty" toml:"fit,omitempty" yaml:"fit,omitempty"`
	Violations  []arbitrage.Violation `json:"violations" toml:"violations" yaml:"violations"`
	Grid        []Point               `json:"grid" toml:"grid" yaml:"grid"`
}

// Input collects what New needs. Chain, Fit and Violations are optional.
type Input struct {
	Density    *density.Density
	Chain      *chain.Chain
	Fit        *fit.Metrics
	Violations []arbitrage.Violation
}

// New builds a report with a fresh random ID.
func New(in Input) (*Report, error) {
	d := in.Density
	if d == nil {
		return nil, errors.New("report: nil density")
	}

	r := &Report{
		ID:         uuid.New().String(),
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
		Version:    rnd.Version,
		Method:     d.Method,
		Forward:    d.Forward,
		Discount:   d.Discount,
		Summary:    statsFrom(d.Summary()),
		Fit:        in.Fit,
		Violations: in.Violations,
	}
	if r.Violations == nil {
		r.Violations = []arbitrage.Violation{}
	}
	if c := in.Chain; c != nil {
		r.Underlying = c.Underlying
		r.Market = c.Market
		r.Fingerprint = fmt.Sprintf("%016x", c.Fingerprint())
	}

	cdf := d.CDF()
	r.Grid = make([]Point, d.Len())
	for i := range r.Grid {
		r.Grid[i] = Point{Strike: d.Strikes[i], PDF: finite(d.PDF[i])}
		if cdf != nil {
			r.Grid[i].CDF = finite(cdf[i])
		}
	}
	return r, nil
}

// Encode writes r to w in the given format.
func Encode(w io.Writer, r *Report, f Format) error {
	var err error
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(r)
	case TOML:
		err = toml.NewEncoder(w).Encode(r)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(r); err == nil {
			err = enc.Close()
		}
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", string(f))
	}
	return errors.Wrapf(err, "report: encode %s", f)
}

// Decode reads a report written by Encode.
func Decode(r io.Reader, f Format) (*Report, error) {
	out := &Report{}
	var err error
	switch f {
	case JSON:
		err = json.NewDecoder(r).Decode(out)
	case TOML:
		err = toml.NewDecoder(r).Decode(out)
	case YAML:
		err = yaml.NewDecoder(r).Decode(out)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", string(f))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "report: decode %s", f)
	}
	return out, nil
}
