package visual

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/msto63/mcpi/internal/buffon/estimator"
	"github.com/msto63/mcpi/internal/buffon/model"
	"github.com/msto63/mcpi/internal/buffon/sampler"
)

// event carries either a sample or a progress delta from a worker
type event struct {
	sample    model.PointSample
	hasSample bool
	processed int64
	inside    int64
}

// runParallel gives each worker one chunk and a private stream. Workers
// funnel samples and progress deltas through a channel that the calling
// goroutine drains until every worker has returned.
func runParallel(ctx context.Context, opts Options, observe Observer, progress ProgressFunc) Outcome {
	chunks := estimator.Partition(opts.TotalPoints, opts.Threads)
	rate := SampleRate(opts.TotalPoints, Parallel)
	paced := opts.Pace > 0 && Paced(opts.TotalPoints, Parallel)
	report := observe != nil || progress != nil

	processed := make([]int64, len(chunks))
	inside := make([]int64, len(chunks))
	events := make(chan event, 4*opts.Threads)

	var g errgroup.Group
	for w, n := range chunks {
		w, n := w, n
		g.Go(func() error {
			s := sampler.New(sampler.DeriveSeed(opts.Seed, w), model.CenteredSquare)
			var pendingProcessed, pendingInside int64

			for i := int64(0); i < n; i++ {
				if i%checkInterval == 0 && ctx.Err() != nil {
					break
				}

				p := s.Next()
				processed[w]++
				pendingProcessed++
				if p.InsideCircle {
					inside[w]++
					pendingInside++
				}

				if !report {
					continue
				}
				if observe != nil && i%rate == 0 {
					events <- event{sample: p, hasSample: true}
				}
				if pendingProcessed == progressInterval {
					events <- event{processed: pendingProcessed, inside: pendingInside}
					pendingProcessed, pendingInside = 0, 0
				}
			}

			if report && pendingProcessed > 0 {
				events <- event{processed: pendingProcessed, inside: pendingInside}
			}
			return nil
		})
	}

	go func() {
		g.Wait()
		close(events)
	}()

	var seen Outcome
	for ev := range events {
		if ev.hasSample {
			observe(ev.sample)
			if paced {
				sleep(ctx, opts.Pace)
			}
			continue
		}
		seen.Processed += ev.processed
		seen.Inside += ev.inside
		if progress != nil {
			progress(snapshot(seen, opts.TotalPoints))
		}
	}

	return Outcome{
		Processed: estimator.Sum(processed),
		Inside:    estimator.Sum(inside),
	}
}
