package bsm

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Kind is the option right.
type Kind int

const (
	Call Kind = iota
	Put
)

// String returns "call" or "put".
func (k Kind) String() string {
	switch k {
	case Call:
		return "call"
	case Put:
		return "put"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts c/call/p/put in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "call", "calls":
		return Call, nil
	case "p", "put", "puts":
		return Put, nil
	default:
		return 0, fmt.Errorf("bsm: unknown option kind %q", s)
	}
}

func ncdf(x float64) float64 { return distuv.UnitNormal.CDF(x) }
func npdf(x float64) float64 { return distuv.UnitNormal.Prob(x) }

// Black prices a European option on a forward F with discount factor df.
// Zero volatility or maturity returns the discounted intrinsic value.
func Black(kind Kind, F, K, T, df, sigma float64) float64 {
	if K <= 0 {
		if kind == Call {
			return df * F
		}
		return 0
	}

	sd := sigma * math.Sqrt(T)
	if sd <= 0 || math.IsNaN(sd) {
		if kind == Call {
			return df * math.Max(F-K, 0)
		}
		return df * math.Max(K-F, 0)
	}

	d1 := (math.Log(F/K) + 0.5*sd*sd) / sd
	d2 := d1 - sd

	if kind == Call {
		return df * (F*ncdf(d1) - K*ncdf(d2))
	}
	return df * (K*ncdf(-d2) - F*ncdf(-d1))
}

// Price prices a European option under Black-Scholes-Merton.
func Price(kind Kind, S, K, T, r, q, sigma float64) float64 {
	F := S * math.Exp((r-q)*T)
	return Black(kind, F, K, T, math.Exp(-r*T), sigma)
}

func d1d2(S, K, T, r, q, sigma float64) (d1, d2, sd float64) {
	sd = sigma * math.Sqrt(T)
	d1 = (math.Log(S/K) + (r-q)*T + 0.5*sd*sd) / sd
	return d1, d1 - sd, sd
}

// Delta returns dV/dS.
func Delta(kind Kind, S, K, T, r, q, sigma float64) float64 {
	d1, _, _ := d1d2(S, K, T, r, q, sigma)
	if kind == Call {
		return math.Exp(-q*T) * ncdf(d1)
	}
	return -math.Exp(-q*T) * ncdf(-d1)
}

// Gamma returns d2V/dS2, identical for calls and puts.
func Gamma(S, K, T, r, q, sigma float64) float64 {
	d1, _, sd := d1d2(S, K, T, r, q, sigma)
	return math.Exp(-q*T) * npdf(d1) / (S * sd)
}

// Vega returns dV/dsigma, identical for calls and puts.
func Vega(S, K, T, r, q, sigma float64) float64 {
	d1, _, _ := d1d2(S, K, T, r, q, sigma)
	return S * math.Exp(-q*T) * npdf(d1) * math.Sqrt(T)
}

// BlackVega returns dBlack/dsigma.
func BlackVega(F, K, T, df, sigma float64) float64 {
	sd := sigma * math.Sqrt(T)
	if sd <= 0 {
		return 0
	}
	d1 := (math.Log(F/K) + 0.5*sd*sd) / sd
	return df * F * npdf(d1) * math.Sqrt(T)
}

// DigitalCall returns the discounted risk-neutral probability that the
// underlying ends above K: df*N(d2).
func DigitalCall(F, K, T, df, sigma float64) float64 {
	sd := sigma * math.Sqrt(T)
	if sd <= 0 {
		if F > K {
			return df
		}
		return 0
	}
	d2 := (math.Log(F/K) - 0.5*sd*sd) / sd
	return df * ncdf(d2)
}
