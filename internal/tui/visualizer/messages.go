// ============================================================================
// mcpi - Monte-Carlo-Pi Benchmark
// ============================================================================
//
// Package:     visualizer
// Description: Message types passed from a running estimate to the model
// Author:      Mike Stoffels
// Created:     2026-09-30
// License:     MIT
// ============================================================================

package visualizer

import (
	"time"

	"github.com/msto63/mcpi/internal/buffon/model"
	"github.com/msto63/mcpi/internal/buffon/visual"
)

// batchMsg carries samples emitted since the last progress snapshot
type batchMsg struct {
	runID    int
	samples  []model.PointSample
	progress visual.Progress
}

// doneMsg is sent once when a run returns
type doneMsg struct {
	runID   int
	outcome visual.Outcome
	err     error
}

// tickMsg refreshes the elapsed time while a run is active
type tickMsg time.Time

// run connects one visual.Run goroutine with the model
type run struct {
	id      int
	updates chan batchMsg
	done    chan doneMsg
}

func newRun(id int) *run {
	return &run{
		id:      id,
		updates: make(chan batchMsg, 16),
		done:    make(chan doneMsg, 1),
	}
}
