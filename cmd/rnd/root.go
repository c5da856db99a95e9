package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-rnd/internal/config"
	"github.com/cwbudde/algo-rnd/internal/logger"
	"github.com/cwbudde/algo-rnd/rnd/chain"
	"github.com/cwbudde/algo-rnd/rnd/core"
)

// app carries state shared by every subcommand once the root has run.
type app struct {
	configPath string
	logLevel   string

	cfg  *config.Config
	lggr logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "rnd",
		Short: "Risk-neutral density estimation tools",
		Long: `rnd recovers risk-neutral densities from option chains with
Breeden-Litzenberger style estimators, checks the quotes for static
arbitrage and writes reports and charts.

Settings come from an optional config file and RND_* environment
variables; command flags override both.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.lggr != nil {
				_ = a.lggr.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (yaml, toml or json)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		a.newEstimateCmd(),
		a.newIVCmd(),
		newMethodsCmd(),
		a.newSynthCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	lvl, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	lggr, err := logger.NewCLI(lvl)
	if err != nil {
		return err
	}

	a.cfg, a.lggr = cfg, lggr
	a.lggr.Debugw("loaded config", "path", a.configPath, "method", cfg.Estimator.Method)
	return nil
}

// marketFlags registers overrides for the config's market section.
type marketFlags struct {
	spot, rate, dividend, maturity float64
}

func (mf *marketFlags) register(cmd *cobra.Command, withMaturity bool) {
	cmd.Flags().Float64Var(&mf.spot, "spot", 0, "spot price (overrides config)")
	cmd.Flags().Float64Var(&mf.rate, "rate", 0, "continuously compounded rate (overrides config)")
	cmd.Flags().Float64Var(&mf.dividend, "dividend", 0, "dividend yield (overrides config)")
	if withMaturity {
		cmd.Flags().Float64Var(&mf.maturity, "maturity", 0, "maturity in years for inputs without one (overrides config)")
	}
}

func (mf *marketFlags) apply(cmd *cobra.Command, m core.Market) core.Market {
	if cmd.Flags().Changed("spot") {
		m.Spot = mf.spot
	}
	if cmd.Flags().Changed("rate") {
		m.Rate = mf.rate
	}
	if cmd.Flags().Changed("dividend") {
		m.DividendYield = mf.dividend
	}
	if cmd.Flags().Changed("maturity") {
		m.Maturity = mf.maturity
	}
	return m
}

// loadChains reads a CSV or JSON chain file; the extension decides.
func loadChains(path string, m core.Market) ([]*chain.Chain, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
		return chain.ReadJSON(data, m, chain.DefaultJSONPaths())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return chain.ReadCSV(f, m)
}
