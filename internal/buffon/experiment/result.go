// ============================================================================
// mcpi - Monte-Carlo-Pi Benchmark
// ============================================================================
//
// Package:     experiment
// Description: Experiment results and the runner producing them
// Author:      Mike Stoffels
// Created:     2026-09-27
// License:     MIT
// ============================================================================

package experiment

import (
	"math"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	mcerror "github.com/msto63/mcpi/foundation/core/error"
	"github.com/msto63/mcpi/internal/buffon/model"
)

var printer = message.NewPrinter(language.English)

// Result is the outcome of one run or of an aggregated series of trials.
// Speedup, AverageError and TrialResults are optional and can each be set
// exactly once.
type Result struct {
	ID            uuid.UUID
	Config        model.SimulationConfig
	PiEstimate    float64
	RuntimeMs     int64
	AbsoluteError float64
	Label         string

	speedup      *float64
	averageError *float64
	trialResults []*Result
}

// NewResult creates a result. AbsoluteError is derived from the estimate and
// negative runtimes are clamped to zero.
func NewResult(cfg model.SimulationConfig, estimate float64, runtimeMs int64, label string) *Result {
	if runtimeMs < 0 {
		runtimeMs = 0
	}
	return &Result{
		ID:            uuid.New(),
		Config:        cfg,
		PiEstimate:    estimate,
		RuntimeMs:     runtimeMs,
		AbsoluteError: math.Abs(estimate - math.Pi),
		Label:         label,
	}
}

// Speedup returns the speedup over the sequential baseline, if set
func (r *Result) Speedup() (float64, bool) {
	if r.speedup == nil {
		return 0, false
	}
	return *r.speedup, true
}

// AverageError returns the mean absolute error over trials, if set
func (r *Result) AverageError() (float64, bool) {
	if r.averageError == nil {
		return 0, false
	}
	return *r.averageError, true
}

// TrialResults returns the individual trials in execution order, or nil
func (r *Result) TrialResults() []*Result {
	if r.trialResults == nil {
		return nil
	}
	out := make([]*Result, len(r.trialResults))
	copy(out, r.trialResults)
	return out
}

// SetSpeedup records the speedup; fails with CodeInvalidOperation when
// already set
func (r *Result) SetSpeedup(v float64) error {
	if r.speedup != nil {
		return alreadySet("speedup", r.Label)
	}
	r.speedup = &v
	return nil
}

// SetAverageError records the mean absolute error; fails with
// CodeInvalidOperation when already set
func (r *Result) SetAverageError(v float64) error {
	if r.averageError != nil {
		return alreadySet("averageError", r.Label)
	}
	r.averageError = &v
	return nil
}

// SetTrialResults records the trials; fails with CodeInvalidOperation when
// already set
func (r *Result) SetTrialResults(trials []*Result) error {
	if r.trialResults != nil {
		return alreadySet("trialResults", r.Label)
	}
	r.trialResults = make([]*Result, len(trials))
	copy(r.trialResults, trials)
	return nil
}

// String renders the one-line summary,
// e.g. "Sequential | Config[points=1,000, tasks=1, threads=1] | π ≈ 3.144000 | Error: 0.002407 | Time: 3 ms"
func (r *Result) String() string {
	return printer.Sprintf("%s | %s | π ≈ %.6f | Error: %.6f | Time: %d ms",
		r.Label, r.Config.String(), r.PiEstimate, r.AbsoluteError, r.RuntimeMs)
}

func alreadySet(field, label string) error {
	return mcerror.Newf("%s already set", field).
		WithCode(mcerror.CodeInvalidOperation).
		WithOperation("experiment.Result.Set").
		WithDetail("field", field).
		WithDetail("label", label)
}
