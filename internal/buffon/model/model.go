// ============================================================================
// mcpi - Monte-Carlo-Pi Benchmark
// ============================================================================
//
// Package:     model
// Description: Value types shared by estimators, runner and visualizer
// Author:      Mike Stoffels
// Created:     2026-09-25
// License:     MIT
// ============================================================================

package model

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	mcerror "github.com/msto63/mcpi/foundation/core/error"
)

var printer = message.NewPrinter(language.English)

// SimulationConfig describes one estimation run. It is a value type and is
// never modified after construction.
type SimulationConfig struct {
	TotalPoints int64
	NumTasks    int
	NumThreads  int
}

// NewSimulationConfig creates a validated config
func NewSimulationConfig(totalPoints int64, numTasks, numThreads int) (SimulationConfig, error) {
	cfg := SimulationConfig{TotalPoints: totalPoints, NumTasks: numTasks, NumThreads: numThreads}
	if err := cfg.Validate(); err != nil {
		return SimulationConfig{}, err
	}
	return cfg, nil
}

// SequentialConfig returns the single-task, single-worker config for n points
func SequentialConfig(n int64) SimulationConfig {
	return SimulationConfig{TotalPoints: n, NumTasks: 1, NumThreads: 1}
}

// Validate rejects non-positive fields with CodeInvalidConfig
func (c SimulationConfig) Validate() error {
	var msg string
	switch {
	case c.TotalPoints <= 0:
		msg = "totalPoints must be > 0"
	case c.NumTasks < 1:
		msg = "numTasks must be >= 1"
	case c.NumThreads < 1:
		msg = "numThreads must be >= 1"
	default:
		return nil
	}

	return mcerror.New(msg).
		WithCode(mcerror.CodeInvalidConfig).
		WithOperation("model.SimulationConfig.Validate").
		WithDetails(map[string]interface{}{
			"totalPoints": c.TotalPoints,
			"numTasks":    c.NumTasks,
			"numThreads":  c.NumThreads,
		})
}

// String renders the config with grouped digits,
// e.g. "Config[points=1,000,000, tasks=8, threads=4]"
func (c SimulationConfig) String() string {
	return printer.Sprintf("Config[points=%d, tasks=%d, threads=%d]", c.TotalPoints, c.NumTasks, c.NumThreads)
}

// PointSample is one drawn coordinate, used only for visualization
type PointSample struct {
	X            float64
	Y            float64
	InsideCircle bool
}

// Domain is the sampling region
type Domain int

const (
	// UnitSquare samples [0,1)² and tests against the quarter circle
	UnitSquare Domain = iota

	// CenteredSquare samples [-1,1)² and tests against the full unit circle
	CenteredSquare
)

// String returns the domain name
func (d Domain) String() string {
	switch d {
	case UnitSquare:
		return "unit-square"
	case CenteredSquare:
		return "centered-square"
	default:
		return "unknown"
	}
}

// Map transforms uniform [0,1) draws into the domain
func (d Domain) Map(u, v float64) (x, y float64) {
	if d == CenteredSquare {
		return u*2 - 1, v*2 - 1
	}
	return u, v
}

// Inside reports whether (x, y) lies in the closed unit disk
func Inside(x, y float64) bool {
	return x*x+y*y <= 1.0
}
