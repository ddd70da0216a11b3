// ============================================================================
// mcpi - Monte-Carlo-Pi Benchmark
// ============================================================================
//
// Package:     estimator
// Description: Sequential and parallel Monte Carlo π estimators
// Author:      Mike Stoffels
// Created:     2026-09-26
// License:     MIT
// ============================================================================

package estimator

import (
	"fmt"

	mcerror "github.com/msto63/mcpi/foundation/core/error"
	"github.com/msto63/mcpi/internal/buffon/model"
	"github.com/msto63/mcpi/internal/buffon/sampler"
)

// Estimator produces a π estimate for a configuration
type Estimator interface {
	Estimate(cfg model.SimulationConfig) (float64, error)
}

// Kinds reported by the built-in estimators
const (
	KindSequential = "sequential"
	KindParallel   = "parallel"
)

// KindOf returns the kind of e, or "custom" for estimators that do not report one
func KindOf(e Estimator) string {
	if k, ok := e.(interface{ Kind() string }); ok {
		return k.Kind()
	}
	return "custom"
}

// Option configures an estimator
type Option func(*options)

type options struct {
	seed    uint64
	domain  model.Domain
	factory sampler.Factory
}

func defaultOptions() options {
	return options{
		domain:  model.UnitSquare,
		factory: sampler.NewHitCounter,
	}
}

// WithSeed fixes the base seed. Zero draws a fresh base seed per call.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithDomain sets the sampling domain
func WithDomain(d model.Domain) Option {
	return func(o *options) {
		o.domain = d
	}
}

// WithSampler replaces the hit counter factory
func WithSampler(f sampler.Factory) Option {
	return func(o *options) {
		if f != nil {
			o.factory = f
		}
	}
}

func (o options) baseSeed() uint64 {
	if o.seed != 0 {
		return o.seed
	}
	return sampler.RandomSeed()
}

// countChunk runs one hit counter, converting errors and panics into
// CodeEstimationFailed
func countChunk(o options, seed uint64, n int64, chunk int, op string) (hits int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = mcerror.Newf("sampler panicked: %v", r).
				WithCode(mcerror.CodeEstimationFailed).
				WithOperation(op).
				WithDetail("chunk", chunk)
		}
	}()

	hits, err = o.factory(seed, o.domain).CountHits(n)
	if err != nil {
		return 0, mcerror.Wrap(err, fmt.Sprintf("chunk %d failed", chunk)).
			WithCode(mcerror.CodeEstimationFailed).
			WithOperation(op).
			WithDetail("chunk", chunk).
			WithDetail("points", n)
	}
	if hits < 0 || hits > n {
		return 0, mcerror.Newf("chunk %d reported %d hits for %d points", chunk, hits, n).
			WithCode(mcerror.CodeEstimationFailed).
			WithOperation(op).
			WithDetail("chunk", chunk)
	}
	return hits, nil
}
