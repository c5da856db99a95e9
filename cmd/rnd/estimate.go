package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-rnd/internal/pipeline"
)

func (a *app) newEstimateCmd() *cobra.Command {
	var (
		input  string
		market marketFlags
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the risk-neutral density of every expiry in a chain file",
		Example: `  rnd estimate --input chain.csv
  rnd estimate --input chain.json --method mixture --format yaml --out results --plot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			flags := cmd.Flags()
			if flags.Changed("method") {
				cfg.Estimator.Method, _ = flags.GetString("method")
			}
			if flags.Changed("format") {
				cfg.Output.Format, _ = flags.GetString("format")
			}
			if flags.Changed("out") {
				cfg.Output.Dir, _ = flags.GetString("out")
			}
			if flags.Changed("plot") {
				cfg.Output.Plot, _ = flags.GetBool("plot")
			}
			if flags.Changed("workers") {
				cfg.Workers, _ = flags.GetInt("workers")
			}
			m := market.apply(cmd, cfg.CoreMarket())
			cfg.Market.Spot, cfg.Market.Rate = m.Spot, m.Rate
			cfg.Market.DividendYield, cfg.Market.Maturity = m.DividendYield, m.Maturity
			if err := cfg.Validate(); err != nil {
				return err
			}

			chains, err := loadChains(input, m)
			if err != nil {
				return err
			}
			a.lggr.Infow("loaded chains", "input", input, "expiries", len(chains))

			results, err := pipeline.Run(cmd.Context(), cfg, a.lggr, chains)
			if err != nil {
				return err
			}
			paths, err := pipeline.WriteOutputs(results, cfg, a.lggr)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MATURITY\tMETHOD\tFORWARD\tMASS\tMEAN\tSTDDEV\tSKEW\tQ05\tQ95\tVIOLATIONS")
			for _, res := range results {
				s := res.Report.Summary
				fmt.Fprintf(tw, "%.4f\t%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.3f\t%.4f\t%.4f\t%d\n",
					res.Chain.Market.Maturity, res.Density.Method, res.Density.Forward,
					s.Mass, s.Mean, s.StdDev, s.Skewness, s.Q05, s.Q95, len(res.Report.Violations))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), "wrote", p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "chain file (.csv or .json)")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().StringP("method", "m", "", "estimator (see 'rnd methods')")
	cmd.Flags().StringP("format", "f", "", "report format: json, toml or yaml")
	cmd.Flags().StringP("out", "o", "", "output directory")
	cmd.Flags().Bool("plot", false, "render a density chart per expiry")
	cmd.Flags().Int("workers", 0, "concurrent estimates (0 = GOMAXPROCS)")
	market.register(cmd, true)
	return cmd
}
