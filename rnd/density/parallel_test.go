package density

import (
	"context"
	"errors"
	"testing"

	"github.com/cwbudde/algo-rnd/rnd/bsm"
	"github.com/cwbudde/algo-rnd/rnd/chain"
	"github.com/cwbudde/algo-rnd/rnd/core"
	"github.com/cwbudde/algo-rnd/rnd/interp"
)

func TestEstimateAllPreservesOrder(t *testing.T) {
	maturities := []float64{2, 0.25, 1, 0.5}
	chains := make([]*chain.Chain, len(maturities))
	for i, T := range maturities {
		chains[i], _ = lognormalChain(t, T)
	}

	est, err := NewSmile(interp.KindSpline, WithGridPoints(201))
	if err != nil {
		t.Fatal(err)
	}
	out, err := EstimateAll(context.Background(), chains, est, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(chains) {
		t.Fatalf("got %d densities", len(out))
	}

	// Spread grows with maturity, so each result must match its own expiry.
	sd := func(i int) float64 { return out[i].Summary().StdDev }
	if !(sd(1) < sd(3) && sd(3) < sd(2) && sd(2) < sd(0)) {
		t.Fatalf("std devs out of order: %v %v %v %v", sd(0), sd(1), sd(2), sd(3))
	}
}

func TestEstimateAllFailure(t *testing.T) {
	good, _ := lognormalChain(t, 1)
	bad := chain.New("BAD", core.DefaultMarket())
	_ = bad.Add(chain.Quote{Kind: bsm.Call, Strike: 100, Bid: 1, Ask: 2})

	est, _ := NewDirect()
	_, err := EstimateAll(context.Background(), []*chain.Chain{good, bad, good}, est, 0)
	if !errors.Is(err, ErrTooFewStrikes) {
		t.Fatalf("err = %v, want ErrTooFewStrikes", err)
	}
}

func TestEstimateAllCancelled(t *testing.T) {
	c, _ := lognormalChain(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	est, _ := NewDirect()
	if _, err := EstimateAll(ctx, []*chain.Chain{c, c}, est, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, err := EstimateAll(context.Background(), []*chain.Chain{c}, nil, 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestEstimateAllEmpty(t *testing.T) {
	est, _ := NewDirect()
	out, err := EstimateAll(context.Background(), nil, est, 4)
	if err != nil || len(out) != 0 {
		t.Fatalf("out=%v err=%v", out, err)
	}
}
