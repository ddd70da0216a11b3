package estimator

import (
	"github.com/msto63/mcpi/internal/buffon/model"
	"github.com/msto63/mcpi/internal/buffon/sampler"
)

// Sequential estimates π on the calling goroutine
type Sequential struct {
	opts options
}

// NewSequential creates a sequential estimator
func NewSequential(opts ...Option) *Sequential {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Sequential{opts: o}
}

// Kind returns KindSequential
func (s *Sequential) Kind() string {
	return KindSequential
}

// Estimate draws cfg.TotalPoints points from a single stream. NumTasks and
// NumThreads are validated but otherwise ignored.
func (s *Sequential) Estimate(cfg model.SimulationConfig) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	seed := sampler.DeriveSeed(s.opts.baseSeed(), 0)
	hits, err := countChunk(s.opts, seed, cfg.TotalPoints, 0, "estimator.Sequential.Estimate")
	if err != nil {
		return 0, err
	}
	return Ratio(hits, cfg.TotalPoints), nil
}
