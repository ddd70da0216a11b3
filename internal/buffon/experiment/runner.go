package experiment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	mcerror "github.com/msto63/mcpi/foundation/core/error"
	mclog "github.com/msto63/mcpi/foundation/core/log"
	"github.com/msto63/mcpi/internal/buffon/estimator"
	"github.com/msto63/mcpi/internal/buffon/model"
	"github.com/msto63/mcpi/pkg/core/metrics"
)

const tracerName = "github.com/msto63/mcpi/internal/buffon/experiment"

// Runner times estimators and wraps their output into Results. A Runner
// does not run experiments concurrently; each method blocks the caller.
type Runner struct {
	logger         *mclog.Logger
	metrics        *metrics.Collector
	tracer         trace.Tracer
	now            func() time.Time
	sessionID      uuid.UUID
	tasksPerThread int
	sequential     estimator.Estimator
	parallel       estimator.Estimator
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the logger
func WithLogger(l *mclog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records every run on c
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runner) {
		r.metrics = c
	}
}

// WithTracerProvider sets the provider for runner spans
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Runner) {
		if tp != nil {
			r.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithClock replaces the wall clock used for timing
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithTasksPerThread sets how many chunks a parallel matrix cell uses per
// worker. Values below 1 are ignored.
func WithTasksPerThread(n int) Option {
	return func(r *Runner) {
		if n >= 1 {
			r.tasksPerThread = n
		}
	}
}

// WithEstimators replaces the estimators used by RunMatrix
func WithEstimators(sequential, parallel estimator.Estimator) Option {
	return func(r *Runner) {
		if sequential != nil {
			r.sequential = sequential
		}
		if parallel != nil {
			r.parallel = parallel
		}
	}
}

// NewRunner creates a runner
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger:         mclog.Discard(),
		tracer:         otel.Tracer(tracerName),
		now:            time.Now,
		sessionID:      uuid.New(),
		tasksPerThread: 2,
		sequential:     estimator.NewSequential(),
		parallel:       estimator.NewParallel(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithCorrelationID(r.sessionID.String())
	return r
}

// SessionID identifies the runner in logs
func (r *Runner) SessionID() uuid.UUID {
	return r.sessionID
}

// RunOnce times a single estimate
func (r *Runner) RunOnce(ctx context.Context, est estimator.Estimator, cfg model.SimulationConfig, label string) (*Result, error) {
	ctx, span := r.tracer.Start(ctx, "experiment.Runner.RunOnce",
		trace.WithAttributes(
			attribute.String("label", label),
			attribute.Int64("points", cfg.TotalPoints),
			attribute.Int("tasks", cfg.NumTasks),
			attribute.Int("threads", cfg.NumThreads),
		),
	)
	defer span.End()

	if err := checkContext(ctx, "experiment.Runner.RunOnce"); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancelled")
		return nil, err
	}

	kind := estimator.KindOf(est)
	start := r.now()
	estimate, err := est.Estimate(cfg)
	elapsed := r.now().Sub(start)

	if err != nil {
		wrapped := mcerror.Wrap(err, "run "+label+" failed").
			WithOperation("experiment.Runner.RunOnce").
			WithDetail("label", label)
		r.logger.LogError(wrapped, mclog.Fields{"config": cfg.String()})
		r.metrics.ObserveFailure(string(mcerror.GetCode(wrapped)))
		span.RecordError(wrapped)
		span.SetStatus(codes.Error, "estimate failed")
		return nil, wrapped
	}

	result := NewResult(cfg, estimate, elapsed.Milliseconds(), label)
	r.metrics.ObserveRun(kind, cfg.TotalPoints, elapsed, result.AbsoluteError)

	r.logger.Debug("run completed", mclog.Fields{
		"label":       label,
		"kind":        kind,
		"points":      cfg.TotalPoints,
		"tasks":       cfg.NumTasks,
		"threads":     cfg.NumThreads,
		"pi_estimate": estimate,
		"runtime_ms":  result.RuntimeMs,
	})

	span.SetAttributes(
		attribute.Float64("pi_estimate", estimate),
		attribute.Int64("runtime_ms", result.RuntimeMs),
	)
	span.SetStatus(codes.Ok, "")
	return result, nil
}

// RunTrials runs est n times in sequence and aggregates the results. The
// aggregate carries the mean estimate, the mean runtime truncated to whole
// milliseconds, the mean absolute error as AverageError and the individual
// trials in order. Any failing trial fails the whole series.
func (r *Runner) RunTrials(ctx context.Context, est estimator.Estimator, cfg model.SimulationConfig, label string, n int) (*Result, error) {
	const op = "experiment.Runner.RunTrials"

	if n < 1 {
		return nil, mcerror.Newf("trial count must be >= 1, got %d", n).
			WithCode(mcerror.CodeInvalidConfig).
			WithOperation(op).
			WithDetail("trials", n)
	}

	ctx, span := r.tracer.Start(ctx, "experiment.Runner.RunTrials",
		trace.WithAttributes(
			attribute.String("label", label),
			attribute.Int("trials", n),
		),
	)
	defer span.End()

	timer := r.logger.StartTimer("trials").WithField("label", label).WithField("trials", n)

	trials := make([]*Result, 0, n)
	for i := 1; i <= n; i++ {
		res, err := r.RunOnce(ctx, est, cfg, TrialLabel(label, i))
		if err != nil {
			wrapped := mcerror.Wrap(err, "trial series aborted").
				WithOperation(op).
				WithDetail("trial", i)
			timer.StopWithError(wrapped)
			span.RecordError(wrapped)
			span.SetStatus(codes.Error, "trial failed")
			return nil, wrapped
		}
		trials = append(trials, res)
	}

	sum := Summarize(trials)
	avg := NewResult(cfg, sum.MeanEstimate, sum.MeanRuntimeMs, AverageLabel(label))
	if err := avg.SetAverageError(sum.MeanAbsError); err != nil {
		return nil, err
	}
	if err := avg.SetTrialResults(trials); err != nil {
		return nil, err
	}

	timer.Stop()
	r.logger.Info("trials completed", mclog.Fields{
		"label":           label,
		"trials":          n,
		"avg_pi_estimate": sum.MeanEstimate,
		"avg_error":       sum.MeanAbsError,
		"avg_runtime_ms":  sum.MeanRuntimeMs,
	})

	span.SetStatus(codes.Ok, "")
	return avg, nil
}

// RunMatrix runs, per point count, a sequential baseline {n, 1, 1} followed
// by one parallel run {n, tasksPerThread*t, t} per thread count t. Parallel
// results carry their speedup over the baseline unless a runtime was zero.
// Results are ordered baseline first, then parallel variants in input order.
// Empty inputs yield an empty result list. On failure, the results completed
// so far are returned together with the error.
func (r *Runner) RunMatrix(ctx context.Context, pointCounts []int64, threadCounts []int) ([]*Result, error) {
	const op = "experiment.Runner.RunMatrix"

	for _, n := range pointCounts {
		if n <= 0 {
			return nil, mcerror.Newf("point count must be > 0, got %d", n).
				WithCode(mcerror.CodeInvalidConfig).
				WithOperation(op).
				WithDetail("points", n)
		}
	}
	for _, t := range threadCounts {
		if t <= 0 {
			return nil, mcerror.Newf("thread count must be > 0, got %d", t).
				WithCode(mcerror.CodeInvalidConfig).
				WithOperation(op).
				WithDetail("threads", t)
		}
	}

	ctx, span := r.tracer.Start(ctx, "experiment.Runner.RunMatrix",
		trace.WithAttributes(
			attribute.Int64Slice("points", pointCounts),
			attribute.IntSlice("threads", threadCounts),
		),
	)
	defer span.End()

	results := make([]*Result, 0, len(pointCounts)*(len(threadCounts)+1))
	fail := func(err error) ([]*Result, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "matrix cell failed")
		return results, err
	}

	for _, n := range pointCounts {
		baseline, err := r.RunOnce(ctx, r.sequential, model.SequentialConfig(n), SequentialLabel)
		if err != nil {
			return fail(err)
		}
		results = append(results, baseline)

		for _, t := range threadCounts {
			cfg := model.SimulationConfig{TotalPoints: n, NumTasks: r.tasksPerThread * t, NumThreads: t}
			res, err := r.RunOnce(ctx, r.parallel, cfg, ParallelLabel(t))
			if err != nil {
				return fail(err)
			}

			if sp, ok := Speedup(baseline.RuntimeMs, res.RuntimeMs); ok {
				if err := res.SetSpeedup(sp); err != nil {
					return fail(err)
				}
				r.metrics.ObserveSpeedup(t, sp)
			}
			results = append(results, res)
		}
	}

	r.logger.Info("matrix completed", mclog.Fields{
		"point_counts":  len(pointCounts),
		"thread_counts": len(threadCounts),
		"results":       len(results),
	})
	span.SetStatus(codes.Ok, "")
	return results, nil
}

func checkContext(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return mcerror.Wrap(err, "experiment cancelled").
			WithCode(mcerror.CodeCancelled).
			WithOperation(op)
	}
	return nil
}
