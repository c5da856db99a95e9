// Package config loads the settings of the rnd command from an optional
// YAML, TOML or JSON file and RND_* environment variables.
package config

import (
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-rnd/internal/logger"
	"github.com/cwbudde/algo-rnd/rnd/chain"
	"github.com/cwbudde/algo-rnd/rnd/core"
	"github.com/cwbudde/algo-rnd/rnd/density"
	"github.com/cwbudde/algo-rnd/rnd/report"
	"github.com/cwbudde/algo-rnd/rnd/smooth"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

type MarketConfig struct {
	Spot          float64 `mapstructure:"spot" yaml:"spot"`
	Rate          float64 `mapstructure:"rate" yaml:"rate"`
	DividendYield float64 `mapstructure:"dividend_yield" yaml:"dividend_yield"`
	Maturity      float64 `mapstructure:"maturity" yaml:"maturity"` // Years; used when the input has no maturity column
}

type SmoothingConfig struct {
	Kernel string `mapstructure:"kernel" yaml:"kernel"` // gaussian, hann, triangle or epanechnikov
	Width  int    `mapstructure:"width" yaml:"width"`   // Odd tap count; 1 disables smoothing
}

type EstimatorConfig struct {
	Method        string          `mapstructure:"method" yaml:"method"`
	GridPoints    int             `mapstructure:"grid_points" yaml:"grid_points"`
	Extrapolation float64         `mapstructure:"extrapolation" yaml:"extrapolation"`
	Smoothing     SmoothingConfig `mapstructure:"smoothing" yaml:"smoothing"`
	ClipNegative  bool            `mapstructure:"clip_negative" yaml:"clip_negative"`
	Normalize     bool            `mapstructure:"normalize" yaml:"normalize"`
}

type FilterConfig struct {
	MinVolume       int64   `mapstructure:"min_volume" yaml:"min_volume"`
	MinOpenInterest int64   `mapstructure:"min_open_interest" yaml:"min_open_interest"`
	MaxSpread       float64 `mapstructure:"max_spread" yaml:"max_spread"`         // Relative bid/ask spread; 0 keeps all
	MoneynessLow    float64 `mapstructure:"moneyness_low" yaml:"moneyness_low"`   // K/F lower bound
	MoneynessHigh   float64 `mapstructure:"moneyness_high" yaml:"moneyness_high"` // K/F upper bound; 0 keeps all
	DropZeroBid     bool    `mapstructure:"drop_zero_bid" yaml:"drop_zero_bid"`
}

type OutputConfig struct {
	Format     string `mapstructure:"format" yaml:"format"` // json, toml or yaml
	Dir        string `mapstructure:"dir" yaml:"dir"`
	CSV        bool   `mapstructure:"csv" yaml:"csv"`                 // Also write the density grid as CSV
	Plot       bool   `mapstructure:"plot" yaml:"plot"`               // Also render the density chart
	PlotFormat string `mapstructure:"plot_format" yaml:"plot_format"` // png or svg
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

type Config struct {
	Market    MarketConfig    `mapstructure:"market" yaml:"market"`
	Estimator EstimatorConfig `mapstructure:"estimator" yaml:"estimator"`
	Filter    FilterConfig    `mapstructure:"filter" yaml:"filter"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Workers   int             `mapstructure:"workers" yaml:"workers"` // Concurrent estimates; 0 means GOMAXPROCS
}

var defaults = map[string]any{
	"market.spot":                100.0,
	"market.rate":                0.0,
	"market.dividend_yield":      0.0,
	"market.maturity":            1.0,
	"estimator.method":           "spline",
	"estimator.grid_points":      401,
	"estimator.extrapolation":    0.5,
	"estimator.smoothing.kernel": "gaussian",
	"estimator.smoothing.width":  1,
	"estimator.clip_negative":    true,
	"estimator.normalize":        false,
	"filter.min_volume":          0,
	"filter.min_open_interest":   0,
	"filter.max_spread":          0.0,
	"filter.moneyness_low":       0.0,
	"filter.moneyness_high":      0.0,
	"filter.drop_zero_bid":       false,
	"output.format":              "json",
	"output.dir":                 ".",
	"output.csv":                 true,
	"output.plot":                false,
	"output.plot_format":         "png",
	"log.level":                  "info",
	"workers":                    0,
}

// Keys readable from more than their RND_* variable.
var envBindings = map[string][]string{
	"log.level": {"RND_LOG_LEVEL", "LOG_LEVEL"},
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := load(newViper())
	if err != nil {
		panic(err)
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	return v
}

func bindEnvs(v *viper.Viper) error {
	v.SetEnvPrefix("RND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range envBindings {
		inputs := slices.Insert(slices.Clone(envs), 0, key)
		if err := v.BindEnv(inputs...); err != nil {
			return errors.Wrapf(err, "config: bind %s", key)
		}
	}
	return nil
}

func load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "config: decode")
	}
	return cfg, nil
}

// Load reads filePath when it exists, then applies environment overrides
// over the defaults. An empty filePath skips the file.
func Load(filePath string) (*Config, error) {
	v := newViper()
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	if filePath != "" {
		v.SetConfigFile(filePath)
		if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(err, "config: read %s", filePath)
			}
		}
	}

	cfg, err := load(v)
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Validate checks that every setting names something the toolkit supports.
func (c *Config) Validate() error {
	if err := c.CoreMarket().Validate(); err != nil {
		return errors.Wrapf(ErrInvalid, "market: %v", err)
	}
	if _, err := density.Lookup(c.Estimator.Method); err != nil {
		return errors.Wrapf(ErrInvalid, "estimator.method: %v", err)
	}
	if _, err := c.DensityOptions(); err != nil {
		return errors.Wrapf(ErrInvalid, "estimator: %v", err)
	}
	if f := c.Filter; f.MinVolume < 0 || f.MinOpenInterest < 0 || f.MaxSpread < 0 ||
		f.MoneynessLow < 0 || (f.MoneynessHigh > 0 && f.MoneynessHigh <= f.MoneynessLow) {
		return errors.Wrap(ErrInvalid, "filter: bounds must be non-negative and moneyness_high > moneyness_low")
	}
	if _, err := report.ParseFormat(c.Output.Format); err != nil {
		return errors.Wrapf(ErrInvalid, "output.format: %v", err)
	}
	switch strings.ToLower(c.Output.PlotFormat) {
	case "png", "svg", "pdf":
	default:
		return errors.Wrapf(ErrInvalid, "output.plot_format: %q", c.Output.PlotFormat)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(ErrInvalid, "log.level: %v", err)
	}
	if c.Workers < 0 {
		return errors.Wrapf(ErrInvalid, "workers: %d", c.Workers)
	}
	return nil
}

// CoreMarket converts the market section.
func (c *Config) CoreMarket() core.Market {
	return core.Market{
		Spot:          c.Market.Spot,
		Rate:          c.Market.Rate,
		DividendYield: c.Market.DividendYield,
		Maturity:      c.Market.Maturity,
	}
}

// DensityOptions converts the estimator section.
func (c *Config) DensityOptions() ([]density.Option, error) {
	e := c.Estimator
	opts := []density.Option{
		density.WithGridPoints(e.GridPoints),
		density.WithExtrapolation(e.Extrapolation),
		density.WithClipNegative(e.ClipNegative),
		density.WithNormalize(e.Normalize),
	}
	if e.Smoothing.Width > 1 {
		shape, err := smooth.ParseShape(e.Smoothing.Kernel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, density.WithSmoothing(shape, e.Smoothing.Width))
	}
	// Probe the options so errors surface at load time.
	if _, err := density.New(e.Method, opts...); err != nil {
		return nil, err
	}
	return opts, nil
}

// FilterOptions converts the filter section.
func (c *Config) FilterOptions() []chain.FilterOption {
	f := c.Filter
	opts := []chain.FilterOption{
		chain.WithMinVolume(f.MinVolume),
		chain.WithMinOpenInterest(f.MinOpenInterest),
		chain.WithMaxRelativeSpread(f.MaxSpread),
	}
	if f.MoneynessHigh > 0 {
		opts = append(opts, chain.WithMoneyness(f.MoneynessLow, f.MoneynessHigh))
	}
	if f.DropZeroBid {
		opts = append(opts, chain.WithDropZeroBid())
	}
	return opts
}
