// ============================================================================
// mcpi - Monte-Carlo-Pi Benchmark
// ============================================================================
//
// Package:     sampler
// Description: Private-stream coordinate sampler and hit counter
// Author:      Mike Stoffels
// Created:     2026-09-25
// License:     MIT
// ============================================================================

package sampler

import (
	"math/rand/v2"

	mcerror "github.com/msto63/mcpi/foundation/core/error"
	"github.com/msto63/mcpi/internal/buffon/model"
)

// HitCounter draws n points and returns how many fall inside the circle
type HitCounter interface {
	CountHits(n int64) (int64, error)
}

// Factory creates a HitCounter owning the stream for seed
type Factory func(seed uint64, domain model.Domain) HitCounter

// Sampler draws points from a private PCG stream. A Sampler must not be
// shared between goroutines.
type Sampler struct {
	rng    *rand.Rand
	domain model.Domain
}

// New creates a sampler whose stream is fully determined by seed
func New(seed uint64, domain model.Domain) *Sampler {
	return &Sampler{
		rng:    rand.New(rand.NewPCG(seed, mix(seed^0xda942042e4dd58b5))),
		domain: domain,
	}
}

// NewHitCounter is the default Factory
func NewHitCounter(seed uint64, domain model.Domain) HitCounter {
	return New(seed, domain)
}

// Next draws one point
func (s *Sampler) Next() model.PointSample {
	x, y := s.domain.Map(s.rng.Float64(), s.rng.Float64())
	return model.PointSample{X: x, Y: y, InsideCircle: model.Inside(x, y)}
}

// CountHits draws n points and counts those inside the circle
func (s *Sampler) CountHits(n int64) (int64, error) {
	if n < 0 {
		return 0, mcerror.Newf("cannot draw %d points", n).
			WithCode(mcerror.CodeInvalidInput).
			WithOperation("sampler.CountHits")
	}

	var hits int64
	for i := int64(0); i < n; i++ {
		x, y := s.domain.Map(s.rng.Float64(), s.rng.Float64())
		if x*x+y*y <= 1.0 {
			hits++
		}
	}
	return hits, nil
}

// DeriveSeed returns the seed of the stream-th worker stream for base.
// Distinct streams of one base map to distinct seeds.
func DeriveSeed(base uint64, stream int) uint64 {
	return mix(base + uint64(stream+1)*0x9e3779b97f4a7c15)
}

// RandomSeed returns a fresh base seed from the runtime's entropy source
func RandomSeed() uint64 {
	return rand.Uint64()
}

// mix is the splitmix64 finalizer
func mix(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
