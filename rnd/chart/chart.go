// Package chart renders densities and volatility smiles with gonum/plot.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/cwbudde/algo-rnd/rnd/density"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("chart: no data")

// Default canvas size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

// Option configures a chart.
type Option func(*config)

type config struct {
	title       string
	showForward bool
}

// WithTitle sets the plot title.
func WithTitle(title string) Option {
	return func(c *config) { c.title = title }
}

// WithForward draws a dashed vertical line at the forward of the first density.
func WithForward(show bool) Option {
	return func(c *config) { c.showForward = show }
}

func applyOptions(opts []Option) config {
	cfg := config{showForward: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func dashed(l *plotter.Line) {
	l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	l.LineStyle.Color = color.Gray{Y: 96}
}

// Density plots one or more densities on shared axes, each named in the
// legend by its method.
func Density(ds []*density.Density, opts ...Option) (*plot.Plot, error) {
	cfg := applyOptions(opts)

	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = "Strike"
	p.Y.Label.Text = "Density"
	p.Legend.Top = true

	peak := 0.0
	drawn := 0
	for i, d := range ds {
		if d == nil || d.Len() == 0 {
			continue
		}
		pts := make(plotter.XYs, d.Len())
		for j := range pts {
			pts[j].X, pts[j].Y = d.Strikes[j], d.PDF[j]
			if d.PDF[j] > peak {
				peak = d.PDF[j]
			}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "chart: density %q", d.Method)
		}
		line.LineStyle.Color = plotutil.Color(i)
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(d.Method, line)
		drawn++
	}
	if drawn == 0 {
		return nil, ErrNoData
	}

	if cfg.showForward && peak > 0 {
		for _, d := range ds {
			if d == nil || !(d.Forward > 0) {
				continue
			}
			fwd, err := plotter.NewLine(plotter.XYs{{X: d.Forward, Y: 0}, {X: d.Forward, Y: peak}})
			if err != nil {
				return nil, errors.Wrap(err, "chart: forward marker")
			}
			dashed(fwd)
			p.Add(fwd)
			p.Legend.Add("forward", fwd)
			break
		}
	}
	return p, nil
}

// Smile plots market implied volatilities as points and a fitted curve
// evaluated at n strikes across the same range.
func Smile(strikes, vols []float64, fitted func(K float64) float64, n int, opts ...Option) (*plot.Plot, error) {
	if len(strikes) == 0 || len(strikes) != len(vols) {
		return nil, ErrNoData
	}
	cfg := applyOptions(opts)

	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = "Strike"
	p.Y.Label.Text = "Implied volatility"
	p.Legend.Top = true

	market := make(plotter.XYs, len(strikes))
	for i := range market {
		market[i].X, market[i].Y = strikes[i], vols[i]
	}
	sc, err := plotter.NewScatter(market)
	if err != nil {
		return nil, errors.Wrap(err, "chart: market smile")
	}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Color = plotutil.Color(0)
	p.Add(sc)
	p.Legend.Add("market", sc)

	if fitted != nil && n >= 2 {
		lo, hi := strikes[0], strikes[len(strikes)-1]
		curve := make(plotter.XYs, n)
		for i := range curve {
			K := lo + (hi-lo)*float64(i)/float64(n-1)
			curve[i].X, curve[i].Y = K, fitted(K)
		}
		line, err := plotter.NewLine(curve)
		if err != nil {
			return nil, errors.Wrap(err, "chart: fitted smile")
		}
		line.LineStyle.Color = plotutil.Color(1)
		p.Add(line)
		p.Legend.Add("fit", line)
	}
	return p, nil
}

// Save writes p to path; the extension (png, svg, pdf, ...) selects the format.
func Save(p *plot.Plot, path string) error {
	return errors.Wrapf(p.Save(DefaultWidth, DefaultHeight, path), "chart: save %s", path)
}

// WriteTo renders p to w in the given format, such as "png" or "svg".
func WriteTo(p *plot.Plot, w io.Writer, format string) error {
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, format)
	if err != nil {
		return errors.Wrapf(err, "chart: %s writer", format)
	}
	_, err = wt.WriteTo(w)
	return errors.Wrap(err, "chart: render")
}

// BaseName returns a file stem for a chart of the given kind and expiry,
// such as "spx_density_30d". Characters outside [a-z0-9._-] become '-'.
func BaseName(underlying, kind string, maturity float64) string {
	name := sanitize(strings.ToLower(strings.TrimSpace(underlying)))
	if name == "" {
		name = "chain"
	}
	days := int(maturity*365 + 0.5)
	return fmt.Sprintf("%s_%s_%dd", name, sanitize(kind), days)
}

// FileName is BaseName with the format as extension, such as
// "spx_density_30d.png".
func FileName(underlying, kind string, maturity float64, format string) string {
	return BaseName(underlying, kind, maturity) + "." + strings.TrimPrefix(format, ".")
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		default:
			return '-'
		}
	}, s)
}
