package estimator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/msto63/mcpi/internal/buffon/model"
	"github.com/msto63/mcpi/internal/buffon/sampler"
)

// Parallel splits the work into NumTasks chunks and runs them on a pool of
// NumThreads workers
type Parallel struct {
	opts options
}

// NewParallel creates a parallel estimator
func NewParallel(opts ...Option) *Parallel {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Parallel{opts: o}
}

// Kind returns KindParallel
func (p *Parallel) Kind() string {
	return KindParallel
}

// Estimate runs every chunk, waits for all of them and aggregates the hits.
// Chunk i always draws from stream i of the base seed, so the estimate for a
// fixed seed does not depend on NumThreads or on completion order. The first
// failing chunk fails the call; chunks not yet started are skipped and
// running ones are awaited before returning.
func (p *Parallel) Estimate(cfg model.SimulationConfig) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	const op = "estimator.Parallel.Estimate"
	base := p.opts.baseSeed()
	chunks := Partition(cfg.TotalPoints, cfg.NumTasks)
	hits := make([]int64, len(chunks))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(cfg.NumThreads)

	for i, n := range chunks {
		i, n := i, n
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			h, err := countChunk(p.opts, sampler.DeriveSeed(base, i), n, i, op)
			if err != nil {
				return err
			}
			hits[i] = h
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return Ratio(Sum(hits), cfg.TotalPoints), nil
}
