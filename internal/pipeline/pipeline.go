// Package pipeline runs the estimate workflow of the rnd command: filter
// each expiry, estimate its density concurrently, run the diagnostics and
// write the results.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/cwbudde/algo-rnd/internal/config"
	"github.com/cwbudde/algo-rnd/internal/logger"
	"github.com/cwbudde/algo-rnd/internal/telemetry"
	"github.com/cwbudde/algo-rnd/measure/arbitrage"
	"github.com/cwbudde/algo-rnd/measure/fit"
	"github.com/cwbudde/algo-rnd/rnd/chain"
	"github.com/cwbudde/algo-rnd/rnd/chart"
	"github.com/cwbudde/algo-rnd/rnd/density"
	"github.com/cwbudde/algo-rnd/rnd/report"
)

// minStrikes is the fewest distinct strikes an expiry needs to be estimated.
const minStrikes = 3

// ErrNoChains is returned when no expiry survives filtering.
var ErrNoChains = errors.New("pipeline: no chain with enough strikes")

// Result is the outcome for one expiry.
type Result struct {
	Chain   *chain.Chain
	Density *density.Density
	Report  *report.Report
}

// Run estimates one density per chain with the configured method. Chains
// left with fewer than three strikes after filtering are skipped with a
// warning; results keep the order of the remaining chains.
func Run(ctx context.Context, cfg *config.Config, lggr logger.Logger, chains []*chain.Chain) ([]Result, error) {
	lggr = lggr.Named("pipeline")

	opts, err := cfg.DensityOptions()
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: estimator options")
	}
	est, err := density.New(cfg.Estimator.Method, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: estimator")
	}
	est = telemetry.WrapEstimator(est)

	filterOpts := cfg.FilterOptions()
	kept := make([]*chain.Chain, 0, len(chains))
	for _, c := range chains {
		f := c.Filter(filterOpts...)
		lggr.Debugw("filtered chain",
			"underlying", c.Underlying, "maturity", c.Market.Maturity,
			"quotesBefore", c.Quotes(), "quotesAfter", f.Quotes())
		if f.Len() < minStrikes {
			lggr.Warnw("skipping chain", "underlying", c.Underlying,
				"maturity", c.Market.Maturity, "strikes", f.Len())
			continue
		}
		kept = append(kept, f)
	}
	if len(kept) == 0 {
		return nil, ErrNoChains
	}

	lggr.Infow("estimating", "method", est.Name(), "chains", len(kept), "workers", cfg.Workers)
	densities, err := density.EstimateAll(ctx, kept, est, cfg.Workers)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: estimate")
	}

	analyzer := fit.NewAnalyzer()
	results := make([]Result, len(kept))
	for i, c := range kept {
		d := densities[i]
		ks, calls := c.OTMCalls(d.Forward, d.Discount)

		violations, err := arbitrage.Check(ks, calls, d.Discount)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline: arbitrage check for maturity %v", c.Market.Maturity)
		}
		in := report.Input{Density: d, Chain: c, Violations: violations}
		if m, err := analyzer.Analyze(d, ks, calls); err == nil {
			in.Fit = &m
		} else {
			lggr.Debugw("fit metrics unavailable", "maturity", c.Market.Maturity, "err", err)
		}

		r, err := report.New(in)
		if err != nil {
			return nil, errors.Wrap(err, "pipeline: report")
		}
		results[i] = Result{Chain: c, Density: d, Report: r}

		s := r.Summary
		lggr.Infow("estimated density",
			"underlying", c.Underlying, "maturity", c.Market.Maturity, "method", d.Method,
			"mass", s.Mass, "mean", s.Mean, "stdDev", s.StdDev,
			"violations", len(violations))
		if len(violations) > 0 {
			lggr.Warnw("arbitrage violations in quotes",
				"maturity", c.Market.Maturity,
				"monotonicity", arbitrage.Count(violations, arbitrage.Monotonicity),
				"slope", arbitrage.Count(violations, arbitrage.Slope),
				"convexity", arbitrage.Count(violations, arbitrage.Convexity))
		}
	}
	return results, nil
}

// WriteOutputs writes a report per result into cfg.Output.Dir, plus the
// density grid as CSV and a chart when enabled. It returns the written paths.
func WriteOutputs(results []Result, cfg *config.Config, lggr logger.Logger) ([]string, error) {
	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	dir := cfg.Output.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "pipeline: create %s", dir)
	}

	var paths []string
	seen := make(map[string]int, len(results))
	for _, res := range results {
		stem := chart.BaseName(res.Chain.Underlying, res.Density.Method, res.Chain.Market.Maturity)
		seen[stem]++
		if k := seen[stem]; k > 1 {
			stem = fmt.Sprintf("%s_%d", stem, k)
		}
		name := func(ext string) string {
			return filepath.Join(dir, stem+"."+strings.TrimPrefix(ext, "."))
		}

		path := name(string(format))
		if err := writeFile(path, func(f *os.File) error { return report.Encode(f, res.Report, format) }); err != nil {
			return paths, err
		}
		paths = append(paths, path)

		if cfg.Output.CSV {
			path := name("csv")
			if err := writeFile(path, func(f *os.File) error { return report.WriteDensityCSV(f, res.Density) }); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}

		if cfg.Output.Plot {
			title := fmt.Sprintf("%s %s, T=%.3g", res.Chain.Underlying, res.Density.Method, res.Chain.Market.Maturity)
			p, err := chart.Density([]*density.Density{res.Density}, chart.WithTitle(title))
			if err != nil {
				return paths, err
			}
			path := name(cfg.Output.PlotFormat)
			if err := chart.Save(p, path); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	lggr.Infow("wrote outputs", "dir", dir, "files", len(paths))
	return paths, nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "pipeline: create %s", path)
	}
	if err := fn(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "pipeline: write %s", path)
	}
	return errors.Wrapf(f.Close(), "pipeline: close %s", path)
}
