package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-rnd/rnd/chain"
	"github.com/cwbudde/algo-rnd/rnd/synth"
)

func (a *app) newSynthCmd() *cobra.Command {
	var (
		model      string
		out        string
		underlying string
		maturities []float64
		noise      float64
		spread     float64
		strikes    int
		seed       int64
		market     marketFlags
	)

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write a synthetic option chain priced with a Fourier model",
		Long: fmt.Sprintf(`synth prices calls and puts with a characteristic-function model
and writes them as a chain CSV, one block per maturity. Models: %s.`,
			strings.Join(synth.ModelNames(), ", ")),
		Example: `  rnd synth --model heston --maturities 0.25,1 --out chain.csv
  rnd synth --model merton --noise 0.05 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base := market.apply(cmd, a.cfg.CoreMarket())

			var chains []*chain.Chain
			for _, T := range maturities {
				m := base
				m.Maturity = T
				mdl, err := synth.NewModel(model, m)
				if err != nil {
					return err
				}
				c, err := synth.Generate(mdl, m,
					synth.WithUnderlying(underlying),
					synth.WithNoise(noise),
					synth.WithSpread(spread),
					synth.WithStrikes(0.5, 1.6, strikes),
					synth.WithSeed(seed),
				)
				if err != nil {
					return errors.Wrapf(err, "synth: maturity %v", T)
				}
				a.lggr.Debugw("generated chain", "model", model, "maturity", T, "quotes", c.Quotes())
				chains = append(chains, c)
			}

			if out == "" || out == "-" {
				return chain.WriteCSV(cmd.OutOrStdout(), chains)
			}
			f, err := os.Create(out)
			if err != nil {
				return errors.Wrapf(err, "create %s", out)
			}
			if err := chain.WriteCSV(f, chains); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.lggr.Infow("wrote synthetic chain", "path", out, "model", model, "expiries", len(chains))
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", synth.ModelBlackScholes, "pricing model: "+strings.Join(synth.ModelNames(), ", "))
	cmd.Flags().StringVarP(&out, "out", "o", "", "output CSV file (stdout when empty)")
	cmd.Flags().StringVar(&underlying, "underlying", "SYNTH", "underlying name")
	cmd.Flags().Float64SliceVar(&maturities, "maturities", []float64{0.25}, "maturities in years")
	cmd.Flags().Float64Var(&noise, "noise", 0, "random bid/ask widening relative to price")
	cmd.Flags().Float64Var(&spread, "spread", 0.02, "relative half spread")
	cmd.Flags().IntVar(&strikes, "strikes", 45, "number of strikes between 0.5F and 1.6F")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	market.register(cmd, false)
	return cmd
}
