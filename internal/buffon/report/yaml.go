package report

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/msto63/mcpi/internal/buffon/experiment"
)

// Record is the exported form of a Result
type Record struct {
	ID            string   `yaml:"id"`
	Label         string   `yaml:"label"`
	TotalPoints   int64    `yaml:"total_points"`
	NumTasks      int      `yaml:"num_tasks"`
	NumThreads    int      `yaml:"num_threads"`
	PiEstimate    float64  `yaml:"pi_estimate"`
	AbsoluteError float64  `yaml:"absolute_error"`
	RuntimeMs     int64    `yaml:"runtime_ms"`
	Speedup       *float64 `yaml:"speedup,omitempty"`
	AverageError  *float64 `yaml:"average_error,omitempty"`
	Trials        []Record `yaml:"trials,omitempty"`
}

// NewRecord converts r, including its trials
func NewRecord(r *experiment.Result) Record {
	rec := Record{
		ID:            r.ID.String(),
		Label:         r.Label,
		TotalPoints:   r.Config.TotalPoints,
		NumTasks:      r.Config.NumTasks,
		NumThreads:    r.Config.NumThreads,
		PiEstimate:    r.PiEstimate,
		AbsoluteError: r.AbsoluteError,
		RuntimeMs:     r.RuntimeMs,
	}
	if v, ok := r.Speedup(); ok {
		rec.Speedup = &v
	}
	if v, ok := r.AverageError(); ok {
		rec.AverageError = &v
	}
	for _, tr := range r.TrialResults() {
		rec.Trials = append(rec.Trials, NewRecord(tr))
	}
	return rec
}

// WriteYAML writes results as a YAML sequence of records
func WriteYAML(w io.Writer, results []*experiment.Result) error {
	records := make([]Record, 0, len(results))
	for _, r := range results {
		records = append(records, NewRecord(r))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}
