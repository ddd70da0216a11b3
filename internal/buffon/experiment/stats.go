package experiment

import (
	"fmt"
)

// Labels used by the runner
const SequentialLabel = "Sequential"

// ParallelLabel returns the label of a parallel run with threads workers
func ParallelLabel(threads int) string {
	return fmt.Sprintf("Parallel(%d threads)", threads)
}

// TrialLabel returns the label of the i-th trial (1-based) of label
func TrialLabel(label string, i int) string {
	return fmt.Sprintf("%s [Trial %d]", label, i)
}

// AverageLabel returns the label of the aggregate over trials of label
func AverageLabel(label string) string {
	return label + " (avg)"
}

// Speedup returns baselineMs / parallelMs. ok is false when either runtime
// is zero.
func Speedup(baselineMs, parallelMs int64) (speedup float64, ok bool) {
	if baselineMs <= 0 || parallelMs <= 0 {
		return 0, false
	}
	return float64(baselineMs) / float64(parallelMs), true
}

// Summary aggregates a series of trials
type Summary struct {
	MeanEstimate  float64
	MeanAbsError  float64
	MeanRuntimeMs int64
}

// Summarize computes means over trials; the mean runtime is truncated to
// whole milliseconds. An empty series yields the zero Summary.
func Summarize(trials []*Result) Summary {
	if len(trials) == 0 {
		return Summary{}
	}

	var sumPi, sumErr float64
	var sumMs int64
	for _, r := range trials {
		sumPi += r.PiEstimate
		sumErr += r.AbsoluteError
		sumMs += r.RuntimeMs
	}

	n := len(trials)
	return Summary{
		MeanEstimate:  sumPi / float64(n),
		MeanAbsError:  sumErr / float64(n),
		MeanRuntimeMs: sumMs / int64(n),
	}
}
