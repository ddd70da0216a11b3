package experiment

import (
	"bytes"
	"context"
	"errors"
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mcerror "github.com/msto63/mcpi/foundation/core/error"
	mclog "github.com/msto63/mcpi/foundation/core/log"
	"github.com/msto63/mcpi/internal/buffon/estimator"
	"github.com/msto63/mcpi/internal/buffon/model"
	"github.com/msto63/mcpi/pkg/core/metrics"
)

// scriptedClock advances by the next scripted duration on every second call,
// so each RunOnce measures exactly one step
type scriptedClock struct {
	t     time.Time
	steps []time.Duration
	calls int
}

func newScriptedClock(steps ...time.Duration) *scriptedClock {
	return &scriptedClock{t: time.Date(2026, 9, 27, 12, 0, 0, 0, time.UTC), steps: steps}
}

func (c *scriptedClock) Now() time.Time {
	if c.calls%2 == 1 {
		c.t = c.t.Add(c.steps[(c.calls/2)%len(c.steps)])
	}
	c.calls++
	return c.t
}

// stubEstimator returns scripted values and fails on call failAt (1-based)
type stubEstimator struct {
	values []float64
	calls  int
	failAt int
	err    error
	seen   []model.SimulationConfig
}

func (s *stubEstimator) Estimate(cfg model.SimulationConfig) (float64, error) {
	s.calls++
	s.seen = append(s.seen, cfg)
	if s.failAt > 0 && s.calls == s.failAt {
		return 0, s.err
	}
	return s.values[(s.calls-1)%len(s.values)], nil
}

func TestResult_OptionalFieldsSetOnce(t *testing.T) {
	r := NewResult(model.SequentialConfig(100), 3.2, 5, "Sequential")

	if _, ok := r.Speedup(); ok {
		t.Error("Speedup() should be unset on a new result")
	}
	if _, ok := r.AverageError(); ok {
		t.Error("AverageError() should be unset on a new result")
	}
	if r.TrialResults() != nil {
		t.Error("TrialResults() should be nil on a new result")
	}

	if err := r.SetSpeedup(2.5); err != nil {
		t.Fatalf("SetSpeedup() error = %v", err)
	}
	if err := r.SetSpeedup(3.0); !mcerror.HasCode(err, mcerror.CodeInvalidOperation) {
		t.Errorf("second SetSpeedup() error = %v, want %s", err, mcerror.CodeInvalidOperation)
	}
	if v, _ := r.Speedup(); v != 2.5 {
		t.Errorf("Speedup() = %v, want 2.5", v)
	}

	if err := r.SetAverageError(0.1); err != nil {
		t.Fatalf("SetAverageError() error = %v", err)
	}
	if err := r.SetAverageError(0.2); !mcerror.HasCode(err, mcerror.CodeInvalidOperation) {
		t.Errorf("second SetAverageError() error = %v, want %s", err, mcerror.CodeInvalidOperation)
	}

	trials := []*Result{NewResult(model.SequentialConfig(1), 4, 0, "a")}
	if err := r.SetTrialResults(trials); err != nil {
		t.Fatalf("SetTrialResults() error = %v", err)
	}
	if err := r.SetTrialResults(trials); !mcerror.HasCode(err, mcerror.CodeInvalidOperation) {
		t.Errorf("second SetTrialResults() error = %v, want %s", err, mcerror.CodeInvalidOperation)
	}

	trials[0] = nil
	got := r.TrialResults()
	got[0] = nil
	if r.TrialResults()[0] == nil {
		t.Error("TrialResults() should not alias caller slices")
	}
}

func TestNewResult(t *testing.T) {
	est := 3.144
	r := NewResult(model.SequentialConfig(1000), est, -3, "Sequential")

	if r.RuntimeMs != 0 {
		t.Errorf("RuntimeMs = %d, want 0 for negative input", r.RuntimeMs)
	}
	if want := math.Abs(est - math.Pi); r.AbsoluteError != want {
		t.Errorf("AbsoluteError = %v, want %v", r.AbsoluteError, want)
	}

	want := "Sequential | Config[points=1,000, tasks=1, threads=1] | π ≈ 3.144000 | Error: 0.002407 | Time: 0 ms"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSpeedup(t *testing.T) {
	tests := []struct {
		name       string
		baseline   int64
		parallel   int64
		want       float64
		wantExists bool
	}{
		{"four times faster", 1000, 250, 4.0, true},
		{"slower", 100, 200, 0.5, true},
		{"zero parallel runtime", 1000, 0, 0, false},
		{"zero baseline runtime", 0, 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Speedup(tt.baseline, tt.parallel)
			if ok != tt.wantExists || got != tt.want {
				t.Errorf("Speedup(%d, %d) = %v, %v; want %v, %v", tt.baseline, tt.parallel, got, ok, tt.want, tt.wantExists)
			}
		})
	}
}

func TestLabels(t *testing.T) {
	if got := ParallelLabel(4); got != "Parallel(4 threads)" {
		t.Errorf("ParallelLabel(4) = %q", got)
	}
	if got := TrialLabel("Parallel(4 threads)", 2); got != "Parallel(4 threads) [Trial 2]" {
		t.Errorf("TrialLabel() = %q", got)
	}
	if got := AverageLabel("Sequential"); got != "Sequential (avg)" {
		t.Errorf("AverageLabel() = %q", got)
	}
}

func TestRunner_RunOnce(t *testing.T) {
	clock := newScriptedClock(42 * time.Millisecond)
	runner := NewRunner(WithClock(clock.Now))
	cfg := model.SimulationConfig{TotalPoints: 1000, NumTasks: 4, NumThreads: 2}

	res, err := runner.RunOnce(context.Background(), &stubEstimator{values: []float64{3.2}}, cfg, "Parallel(2 threads)")
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	if res.RuntimeMs != 42 {
		t.Errorf("RuntimeMs = %d, want 42", res.RuntimeMs)
	}
	if res.PiEstimate != 3.2 || res.Config != cfg || res.Label != "Parallel(2 threads)" {
		t.Errorf("RunOnce() = %+v", res)
	}
	if _, ok := res.Speedup(); ok {
		t.Error("RunOnce() must not set a speedup")
	}
}

func TestRunner_RunOnceErrors(t *testing.T) {
	runner := NewRunner()

	failing := &stubEstimator{
		values: []float64{0},
		failAt: 1,
		err:    mcerror.New("worker exploded").WithCode(mcerror.CodeEstimationFailed),
	}
	_, err := runner.RunOnce(context.Background(), failing, model.SequentialConfig(10), "x")
	if !mcerror.HasCode(err, mcerror.CodeEstimationFailed) {
		t.Errorf("RunOnce() error = %v, want %s", err, mcerror.CodeEstimationFailed)
	}

	_, err = runner.RunOnce(context.Background(), estimator.NewSequential(), model.SimulationConfig{TotalPoints: 0, NumTasks: 1, NumThreads: 1}, "x")
	if !mcerror.HasCode(err, mcerror.CodeInvalidConfig) {
		t.Errorf("RunOnce() error = %v, want %s", err, mcerror.CodeInvalidConfig)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	est := &stubEstimator{values: []float64{3}}
	_, err = runner.RunOnce(ctx, est, model.SequentialConfig(10), "x")
	if !mcerror.HasCode(err, mcerror.CodeCancelled) {
		t.Errorf("RunOnce() on cancelled context error = %v, want %s", err, mcerror.CodeCancelled)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("RunOnce() error should wrap context.Canceled")
	}
	if est.calls != 0 {
		t.Errorf("estimator called %d times after cancellation", est.calls)
	}
}

func TestRunner_RunTrials(t *testing.T) {
	clock := newScriptedClock(10*time.Millisecond, 11*time.Millisecond, 11*time.Millisecond)
	runner := NewRunner(WithClock(clock.Now))
	est := &stubEstimator{values: []float64{3.10, 3.14, 3.18}}
	cfg := model.SimulationConfig{TotalPoints: 1_000_000, NumTasks: 8, NumThreads: 4}

	avg, err := runner.RunTrials(context.Background(), est, cfg, "Parallel(4 threads)", 3)
	if err != nil {
		t.Fatalf("RunTrials() error = %v", err)
	}

	if math.Abs(avg.PiEstimate-3.14) > 1e-12 {
		t.Errorf("PiEstimate = %v, want 3.14", avg.PiEstimate)
	}
	if avg.RuntimeMs != 10 {
		t.Errorf("RuntimeMs = %d, want 10 (32/3 truncated)", avg.RuntimeMs)
	}
	if avg.Label != "Parallel(4 threads) (avg)" {
		t.Errorf("Label = %q", avg.Label)
	}

	wantErr := (math.Abs(3.10-math.Pi) + math.Abs(3.14-math.Pi) + math.Abs(3.18-math.Pi)) / 3
	gotErr, ok := avg.AverageError()
	if !ok || math.Abs(gotErr-wantErr) > 1e-12 {
		t.Errorf("AverageError() = %v, %v; want %v", gotErr, ok, wantErr)
	}
	if math.Abs(avg.AbsoluteError-math.Abs(3.14-math.Pi)) > 1e-12 {
		t.Errorf("AbsoluteError = %v, want |mean - π|", avg.AbsoluteError)
	}

	trials := avg.TrialResults()
	if len(trials) != 3 {
		t.Fatalf("len(TrialResults()) = %d, want 3", len(trials))
	}
	for i, tr := range trials {
		if want := TrialLabel("Parallel(4 threads)", i+1); tr.Label != want {
			t.Errorf("trial %d label = %q, want %q", i, tr.Label, want)
		}
		if tr.PiEstimate != est.values[i] {
			t.Errorf("trial %d estimate = %v, want %v", i, tr.PiEstimate, est.values[i])
		}
		if tr.Config != cfg {
			t.Errorf("trial %d config = %v, want %v", i, tr.Config, cfg)
		}
	}
}

func TestRunner_RunTrialsErrors(t *testing.T) {
	runner := NewRunner()
	cfg := model.SequentialConfig(10)

	for _, n := range []int{0, -1} {
		_, err := runner.RunTrials(context.Background(), &stubEstimator{values: []float64{3}}, cfg, "x", n)
		if !mcerror.HasCode(err, mcerror.CodeInvalidConfig) {
			t.Errorf("RunTrials(n=%d) error = %v, want %s", n, err, mcerror.CodeInvalidConfig)
		}
	}

	est := &stubEstimator{
		values: []float64{3},
		failAt: 2,
		err:    mcerror.New("boom").WithCode(mcerror.CodeEstimationFailed),
	}
	avg, err := runner.RunTrials(context.Background(), est, cfg, "x", 4)
	if avg != nil || !mcerror.HasCode(err, mcerror.CodeEstimationFailed) {
		t.Errorf("RunTrials() = %v, %v; want nil, %s", avg, err, mcerror.CodeEstimationFailed)
	}
	if est.calls != 2 {
		t.Errorf("estimator called %d times, want 2 (no retries, no further trials)", est.calls)
	}
}

func TestRunner_RunMatrix(t *testing.T) {
	// per point count: baseline 1000ms, 2 threads 250ms, 4 threads 0ms
	clock := newScriptedClock(1000*time.Millisecond, 250*time.Millisecond, 0)
	seq := &stubEstimator{values: []float64{3.1}}
	par := &stubEstimator{values: []float64{3.2}}
	runner := NewRunner(WithClock(clock.Now), WithEstimators(seq, par))

	results, err := runner.RunMatrix(context.Background(), []int64{100, 1000}, []int{2, 4})
	if err != nil {
		t.Fatalf("RunMatrix() error = %v", err)
	}

	want := []struct {
		label   string
		cfg     model.SimulationConfig
		speedup float64
		has     bool
	}{
		{"Sequential", model.SimulationConfig{TotalPoints: 100, NumTasks: 1, NumThreads: 1}, 0, false},
		{"Parallel(2 threads)", model.SimulationConfig{TotalPoints: 100, NumTasks: 4, NumThreads: 2}, 4.0, true},
		{"Parallel(4 threads)", model.SimulationConfig{TotalPoints: 100, NumTasks: 8, NumThreads: 4}, 0, false},
		{"Sequential", model.SimulationConfig{TotalPoints: 1000, NumTasks: 1, NumThreads: 1}, 0, false},
		{"Parallel(2 threads)", model.SimulationConfig{TotalPoints: 1000, NumTasks: 4, NumThreads: 2}, 4.0, true},
		{"Parallel(4 threads)", model.SimulationConfig{TotalPoints: 1000, NumTasks: 8, NumThreads: 4}, 0, false},
	}

	if len(results) != len(want) {
		t.Fatalf("len(RunMatrix()) = %d, want %d", len(results), len(want))
	}
	for i, w := range want {
		r := results[i]
		if r.Label != w.label || r.Config != w.cfg {
			t.Errorf("result %d = %s %v, want %s %v", i, r.Label, r.Config, w.label, w.cfg)
		}
		sp, ok := r.Speedup()
		if ok != w.has || sp != w.speedup {
			t.Errorf("result %d speedup = %v, %v; want %v, %v", i, sp, ok, w.speedup, w.has)
		}
	}

	if seq.calls != 2 || par.calls != 4 {
		t.Errorf("calls = seq %d, par %d; want 2, 4", seq.calls, par.calls)
	}
}

func TestRunner_RunMatrixEdgeCases(t *testing.T) {
	runner := NewRunner(WithEstimators(&stubEstimator{values: []float64{3}}, &stubEstimator{values: []float64{3}}))

	results, err := runner.RunMatrix(context.Background(), nil, []int{2})
	if err != nil || len(results) != 0 {
		t.Errorf("RunMatrix(no points) = %v, %v; want empty, nil", results, err)
	}

	results, err = runner.RunMatrix(context.Background(), []int64{10, 20}, nil)
	if err != nil || len(results) != 2 {
		t.Fatalf("RunMatrix(no threads) = %d results, %v; want 2 baselines", len(results), err)
	}
	for _, r := range results {
		if r.Label != SequentialLabel {
			t.Errorf("label = %q, want %q", r.Label, SequentialLabel)
		}
	}

	if _, err := runner.RunMatrix(context.Background(), []int64{10, 0}, []int{2}); !mcerror.HasCode(err, mcerror.CodeInvalidConfig) {
		t.Errorf("RunMatrix(zero points) error = %v, want %s", err, mcerror.CodeInvalidConfig)
	}
	if _, err := runner.RunMatrix(context.Background(), []int64{10}, []int{-2}); !mcerror.HasCode(err, mcerror.CodeInvalidConfig) {
		t.Errorf("RunMatrix(negative threads) error = %v, want %s", err, mcerror.CodeInvalidConfig)
	}

	failing := NewRunner(WithEstimators(
		&stubEstimator{values: []float64{3}},
		&stubEstimator{values: []float64{3}, failAt: 2, err: mcerror.New("x").WithCode(mcerror.CodeEstimationFailed)},
	))
	partial, err := failing.RunMatrix(context.Background(), []int64{10}, []int{1, 2, 3})
	if !mcerror.HasCode(err, mcerror.CodeEstimationFailed) {
		t.Errorf("RunMatrix() error = %v, want %s", err, mcerror.CodeEstimationFailed)
	}
	if len(partial) != 2 {
		t.Errorf("len(partial) = %d, want 2", len(partial))
	}
}

func TestRunner_TasksPerThread(t *testing.T) {
	par := &stubEstimator{values: []float64{3}}
	runner := NewRunner(WithTasksPerThread(3), WithEstimators(&stubEstimator{values: []float64{3}}, par))

	if _, err := runner.RunMatrix(context.Background(), []int64{100}, []int{4}); err != nil {
		t.Fatalf("RunMatrix() error = %v", err)
	}
	if got := par.seen[0].NumTasks; got != 12 {
		t.Errorf("NumTasks = %d, want 12", got)
	}
}

func TestRunner_RealEstimators(t *testing.T) {
	runner := NewRunner(WithEstimators(
		estimator.NewSequential(estimator.WithSeed(5)),
		estimator.NewParallel(estimator.WithSeed(5)),
	))

	results, err := runner.RunMatrix(context.Background(), []int64{10_000, 20_000}, []int{2, 4})
	if err != nil {
		t.Fatalf("RunMatrix() error = %v", err)
	}
	if len(results) != 6 {
		t.Fatalf("len(RunMatrix()) = %d, want 6", len(results))
	}
	for _, r := range results {
		if r.PiEstimate < 0 || r.PiEstimate > 4 || r.RuntimeMs < 0 {
			t.Errorf("implausible result %s", r)
		}
	}
}

func TestRunner_MetricsAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := mclog.NewWithConfig(mclog.Config{Level: mclog.LevelDebug, Format: mclog.FormatText, Output: &buf})
	collector := metrics.NewCollector()

	runner := NewRunner(
		WithLogger(logger),
		WithMetrics(collector),
		WithEstimators(estimator.NewSequential(), estimator.NewParallel()),
	)

	if _, err := runner.RunMatrix(context.Background(), []int64{1000}, []int{2}); err != nil {
		t.Fatalf("RunMatrix() error = %v", err)
	}

	logs := buf.String()
	for _, want := range []string{"run completed", "label=Sequential", "label=Parallel(2 threads)", "matrix completed"} {
		if !strings.Contains(logs, want) {
			t.Errorf("logs missing %q:\n%s", want, logs)
		}
	}

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`mcpi_runs_total{kind="sequential"} 1`,
		`mcpi_runs_total{kind="parallel"} 1`,
		`mcpi_samples_total{kind="parallel"} 1000`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
