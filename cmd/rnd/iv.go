package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-rnd/rnd/chain"
	"github.com/cwbudde/algo-rnd/rnd/chart"
	"github.com/cwbudde/algo-rnd/rnd/density"
	"github.com/cwbudde/algo-rnd/rnd/interp"
)

func (a *app) newIVCmd() *cobra.Command {
	var (
		input  string
		plot   bool
		out    string
		market marketFlags
	)

	cmd := &cobra.Command{
		Use:   "iv",
		Short: "Print the implied volatility smile of every expiry in a chain file",
		Long: `iv infers each expiry's forward and discount factor from put-call
parity and prints Black-76 implied volatilities of the out-of-the-money
call curve.`,
		Example: "  rnd iv --input chain.csv",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chains, err := loadChains(input, market.apply(cmd, a.cfg.CoreMarket()))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			for _, c := range chains {
				F, df, err := c.ImpliedForward()
				if err != nil {
					a.lggr.Warnw("parity failed, using market forward", "maturity", c.Market.Maturity, "err", err)
					F, df = c.Market.Forward(), c.Market.Discount()
				}
				ks, calls := c.OTMCalls(F, df)
				ivs, vols := density.ImpliedVols(ks, calls, F, df, c.Market.Maturity)

				fmt.Fprintf(tw, "%s T=%.4f F=%.4f DF=%.6f\t\t\t\n", c.Underlying, c.Market.Maturity, F, df)
				fmt.Fprintln(tw, "STRIKE\tK/F\tIV\t")
				for i, K := range ivs {
					fmt.Fprintf(tw, "%.4f\t%.4f\t%.4f\t\n", K, K/F, vols[i])
				}
				fmt.Fprintln(tw, "\t\t\t")
				if dropped := len(ks) - len(ivs); dropped > 0 {
					a.lggr.Debugw("strikes without implied vol", "maturity", c.Market.Maturity, "count", dropped)
				}

				if plot {
					path, err := a.plotSmile(cmd, c, out)
					if err != nil {
						return err
					}
					a.lggr.Infow("wrote smile chart", "path", path)
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "chain file (.csv or .json)")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().BoolVar(&plot, "plot", false, "render the smile with a fitted spline per expiry")
	cmd.Flags().StringVarP(&out, "out", "o", "", "chart directory (defaults to the configured output dir)")
	market.register(cmd, true)
	return cmd
}

// plotSmile fits a spline smile to c and renders it next to the market vols.
func (a *app) plotSmile(cmd *cobra.Command, c *chain.Chain, dir string) (string, error) {
	if dir == "" {
		dir = a.cfg.Output.Dir
	}
	est, err := density.NewSmile(interp.KindSpline)
	if err != nil {
		return "", err
	}
	sf, err := est.Fit(cmd.Context(), c)
	if err != nil {
		return "", errors.Wrapf(err, "smile fit for maturity %v", c.Market.Maturity)
	}

	title := fmt.Sprintf("%s smile, T=%.3g", c.Underlying, c.Market.Maturity)
	p, err := chart.Smile(sf.Strikes, sf.Vols, sf.Vol, 200, chart.WithTitle(title))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create %s", dir)
	}
	path := filepath.Join(dir, chart.FileName(c.Underlying, "smile", c.Market.Maturity, a.cfg.Output.PlotFormat))
	return path, chart.Save(p, path)
}
