// ============================================================================
// mcpi - Monte-Carlo-Pi Benchmark
// ============================================================================
//
// Package:     visual
// Description: Observable, cancellable estimation run for visualization
// Author:      Mike Stoffels
// Created:     2026-09-29
// License:     MIT
// ============================================================================

package visual

import (
	"context"
	"strings"
	"time"

	mcerror "github.com/msto63/mcpi/foundation/core/error"
	"github.com/msto63/mcpi/internal/buffon/estimator"
	"github.com/msto63/mcpi/internal/buffon/model"
	"github.com/msto63/mcpi/internal/buffon/sampler"
)

// Mode selects single-stream or multi-worker sampling
type Mode int

const (
	Sequential Mode = iota
	Parallel
)

// String returns the mode name
func (m Mode) String() string {
	if m == Parallel {
		return "parallel"
	}
	return "sequential"
}

// ParseMode parses "sequential" or "parallel"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sequential", "seq":
		return Sequential, nil
	case "parallel", "par":
		return Parallel, nil
	default:
		return Sequential, mcerror.Newf("unknown mode %q", s).
			WithCode(mcerror.CodeInvalidConfig).
			WithOperation("visual.ParseMode")
	}
}

const (
	checkInterval    = 1024
	progressInterval = 1000

	// sample every point below this many points in sequential mode
	seqFullSampleLimit = 10_000
	// target number of emitted samples in parallel mode
	parSampleTarget = 5_000

	seqPaceLimit = 5_000
	parPaceLimit = 20_000
)

// Options configures a run
type Options struct {
	TotalPoints int64
	Mode        Mode
	Threads     int
	Seed        uint64        // zero draws a random seed
	Pace        time.Duration // delay after each emitted sample on small runs
}

// Progress is a snapshot of a running estimate
type Progress struct {
	Processed int64
	Total     int64
	Inside    int64
	Estimate  float64
}

// Fraction returns the completed share in [0, 1]
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Processed) / float64(p.Total)
}

// Observer receives emitted samples on the goroutine that called Run
type Observer func(model.PointSample)

// ProgressFunc receives progress snapshots on the goroutine that called Run
type ProgressFunc func(Progress)

// Outcome is the final state of a run
type Outcome struct {
	Processed int64
	Inside    int64
	Estimate  float64
}

// SampleRate returns every how many points a sample is emitted
func SampleRate(total int64, mode Mode) int64 {
	if mode == Parallel {
		return max(1, total/parSampleTarget)
	}
	if total < seqFullSampleLimit {
		return 1
	}
	return total / seqFullSampleLimit
}

// Paced reports whether emitted samples are followed by the pace delay
func Paced(total int64, mode Mode) bool {
	if mode == Parallel {
		return total <= parPaceLimit
	}
	return total <= seqPaceLimit
}

func (o Options) validate() error {
	if o.TotalPoints <= 0 {
		return invalid("totalPoints must be > 0", o)
	}
	if o.Mode == Parallel && o.Threads < 1 {
		return invalid("threads must be >= 1", o)
	}
	if o.Pace < 0 {
		return invalid("pace must not be negative", o)
	}
	return nil
}

func invalid(msg string, o Options) error {
	return mcerror.New(msg).
		WithCode(mcerror.CodeInvalidConfig).
		WithOperation("visual.Run").
		WithDetail("totalPoints", o.TotalPoints).
		WithDetail("threads", o.Threads).
		WithDetail("mode", o.Mode.String())
}

// Run samples points on [-1,1)² and reports samples and progress to the
// optional callbacks, always on the calling goroutine. The estimate depends
// only on the options and seed, not on whether callbacks are attached. When
// ctx is cancelled Run stops within checkInterval points per worker and
// returns the partial outcome with a CodeCancelled error.
func Run(ctx context.Context, opts Options, observe Observer, progress ProgressFunc) (Outcome, error) {
	if err := opts.validate(); err != nil {
		return Outcome{}, err
	}
	if opts.Seed == 0 {
		opts.Seed = sampler.RandomSeed()
	}

	var out Outcome
	if opts.Mode == Parallel {
		out = runParallel(ctx, opts, observe, progress)
	} else {
		out = runSequential(ctx, opts, observe, progress)
	}

	if out.Processed > 0 {
		out.Estimate = estimator.Ratio(out.Inside, out.Processed)
	}
	if out.Processed < opts.TotalPoints {
		cause := context.Cause(ctx)
		if cause == nil {
			cause = context.Canceled
		}
		return out, mcerror.Wrap(cause, "visual run cancelled").
			WithCode(mcerror.CodeCancelled).
			WithOperation("visual.Run").
			WithDetail("processed", out.Processed)
	}
	return out, nil
}

func runSequential(ctx context.Context, opts Options, observe Observer, progress ProgressFunc) Outcome {
	s := sampler.New(sampler.DeriveSeed(opts.Seed, 0), model.CenteredSquare)
	rate := SampleRate(opts.TotalPoints, Sequential)
	paced := opts.Pace > 0 && Paced(opts.TotalPoints, Sequential)

	var out Outcome
	for i := int64(0); i < opts.TotalPoints; i++ {
		if i%checkInterval == 0 && ctx.Err() != nil {
			return out
		}

		p := s.Next()
		if p.InsideCircle {
			out.Inside++
		}
		out.Processed++

		if observe != nil && i%rate == 0 {
			observe(p)
			if paced {
				sleep(ctx, opts.Pace)
			}
		}
		if progress != nil && i%progressInterval == 0 {
			progress(snapshot(out, opts.TotalPoints))
		}
	}

	if progress != nil {
		progress(snapshot(out, opts.TotalPoints))
	}
	return out
}

func snapshot(o Outcome, total int64) Progress {
	return Progress{
		Processed: o.Processed,
		Total:     total,
		Inside:    o.Inside,
		Estimate:  estimator.Ratio(o.Inside, o.Processed),
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
