// ============================================================================
// mcpi - Monte-Carlo-Pi Benchmark
// ============================================================================
//
// Package:     report
// Description: Plain, styled and YAML renderings of experiment results
// Author:      Mike Stoffels
// Created:     2026-09-28
// License:     MIT
// ============================================================================

package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/msto63/mcpi/internal/buffon/experiment"
)

var printer = message.NewPrinter(language.English)

// Column headers of the summary table
var Headers = []string{"Estimator", "Points", "π Estimate", "Error", "Time (ms)", "Speedup"}

const ruleWidth = 105

// FormatSpeedup renders the speedup as "<v>x" with two decimals, or "-"
// when unset
func FormatSpeedup(r *experiment.Result) string {
	sp, ok := r.Speedup()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.2fx", sp)
}

// Group renders n with thousands separators
func Group(n int64) string {
	return printer.Sprintf("%d", n)
}

// Row returns the table cells of r in header order
func Row(r *experiment.Result) []string {
	return []string{
		r.Label,
		Group(r.Config.TotalPoints),
		fmt.Sprintf("%.10f", r.PiEstimate),
		fmt.Sprintf("%.10f", r.AbsoluteError),
		Group(r.RuntimeMs),
		FormatSpeedup(r),
	}
}

// WriteSummary writes the fixed-column summary table
func WriteSummary(w io.Writer, results []*experiment.Result) error {
	var b strings.Builder

	b.WriteString("\n=== Experiment Summary ===\n")
	fmt.Fprintf(&b, "%-25s | %-15s | %-12s | %-12s | %-10s | %-8s\n",
		Headers[0], Headers[1], Headers[2], Headers[3], Headers[4], Headers[5])
	b.WriteString(strings.Repeat("-", ruleWidth))
	b.WriteByte('\n')

	for _, r := range results {
		c := Row(r)
		fmt.Fprintf(&b, "%-25s | %15s | %s | %s | %10s | %-8s\n",
			c[0], c[1], c[2], c[3], c[4], c[5])
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteTrials writes the per-trial lines and the AVG line of an aggregate
// produced by RunTrials
func WriteTrials(w io.Writer, avg *experiment.Result) error {
	var b strings.Builder
	trials := avg.TrialResults()
	label := strings.TrimSuffix(avg.Label, " (avg)")

	fmt.Fprintf(&b, "---- Trials (%d) for %s | N=%s | Threads=%d ----\n",
		len(trials), label, Group(avg.Config.TotalPoints), avg.Config.NumThreads)

	for i, tr := range trials {
		fmt.Fprintf(&b, "Trial %d | π = %.6f | Error = %.6f | Time = %d ms\n",
			i+1, tr.PiEstimate, tr.AbsoluteError, tr.RuntimeMs)
	}

	avgErr, _ := avg.AverageError()
	fmt.Fprintf(&b, "AVG | π = %.6f | Avg Error = %.6f | Avg Time = %d ms\n",
		avg.PiEstimate, avgErr, avg.RuntimeMs)

	_, err := io.WriteString(w, b.String())
	return err
}
