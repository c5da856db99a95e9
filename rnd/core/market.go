package core

import (
	"errors"
	"math"
)

// Errors returned by market validation.
var (
	ErrInvalidSpot     = errors.New("core: spot must be positive and finite")
	ErrInvalidMaturity = errors.New("core: maturity must be positive and finite")
	ErrInvalidRate     = errors.New("core: rates must be finite")
)

// Market holds the pricing inputs shared by every option of one expiry.
// Rates are continuously compounded; Maturity is in years.
type Market struct {
	Spot          float64 `json:"spot" toml:"spot" yaml:"spot"`
	Rate          float64 `json:"rate" toml:"rate" yaml:"rate"`
	DividendYield float64 `json:"dividend_yield" toml:"dividend_yield" yaml:"dividend_yield"`
	Maturity      float64 `json:"maturity" toml:"maturity" yaml:"maturity"`
}

// MarketOption mutates a Market.
type MarketOption func(*Market)

// DefaultMarket returns a unit-maturity, zero-rate market with spot 100.
func DefaultMarket() Market {
	return Market{
		Spot:     100,
		Maturity: 1,
	}
}

// WithSpot sets the underlying spot price.
func WithSpot(spot float64) MarketOption {
	return func(m *Market) {
		if spot > 0 && IsFinite(spot) {
			m.Spot = spot
		}
	}
}

// WithRate sets the risk-free rate.
func WithRate(rate float64) MarketOption {
	return func(m *Market) {
		if IsFinite(rate) {
			m.Rate = rate
		}
	}
}

// WithDividendYield sets the continuous dividend (or carry) yield.
func WithDividendYield(q float64) MarketOption {
	return func(m *Market) {
		if IsFinite(q) {
			m.DividendYield = q
		}
	}
}

// WithMaturity sets the time to expiry in years.
func WithMaturity(years float64) MarketOption {
	return func(m *Market) {
		if years > 0 && IsFinite(years) {
			m.Maturity = years
		}
	}
}

// ApplyMarketOptions applies zero or more options to the default market.
func ApplyMarketOptions(opts ...MarketOption) Market {
	m := DefaultMarket()
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Forward returns the forward price S*exp((r-q)T).
func (m Market) Forward() float64 {
	return m.Spot * math.Exp((m.Rate-m.DividendYield)*m.Maturity)
}

// Discount returns the discount factor exp(-rT).
func (m Market) Discount() float64 {
	return math.Exp(-m.Rate * m.Maturity)
}

// Validate reports the first invalid field.
func (m Market) Validate() error {
	if !(m.Spot > 0) || !IsFinite(m.Spot) {
		return ErrInvalidSpot
	}
	if !(m.Maturity > 0) || !IsFinite(m.Maturity) {
		return ErrInvalidMaturity
	}
	if !IsFinite(m.Rate) || !IsFinite(m.DividendYield) {
		return ErrInvalidRate
	}
	return nil
}
