package density

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-rnd/rnd/chain"
)

// EstimateAll runs est over every chain with at most workers concurrent
// estimates (GOMAXPROCS when workers <= 0). Results keep the input order.
// The first failure cancels the remaining work and is returned.
func EstimateAll(ctx context.Context, chains []*chain.Chain, est Estimator, workers int) ([]*Density, error) {
	if est == nil {
		return nil, fmt.Errorf("%w: nil estimator", ErrInvalidInput)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]*Density, len(chains))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range chains {
		g.Go(func() error {
			d, err := est.Estimate(gctx, c)
			if err != nil {
				return fmt.Errorf("density: %s: chain %d: %w", est.Name(), i, err)
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
