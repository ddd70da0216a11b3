package report

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/msto63/mcpi/internal/buffon/experiment"
	"github.com/msto63/mcpi/internal/buffon/model"
)

func sampleResults(t *testing.T) []*experiment.Result {
	t.Helper()

	base := experiment.NewResult(model.SequentialConfig(1_000_000), 3.1418, 1000, experiment.SequentialLabel)
	par := experiment.NewResult(model.SimulationConfig{TotalPoints: 1_000_000, NumTasks: 8, NumThreads: 4}, 3.1412, 250, experiment.ParallelLabel(4))
	if err := par.SetSpeedup(4.0); err != nil {
		t.Fatalf("SetSpeedup() error = %v", err)
	}
	return []*experiment.Result{base, par}
}

func TestFormatSpeedup(t *testing.T) {
	results := sampleResults(t)

	tests := []struct {
		name string
		r    *experiment.Result
		want string
	}{
		{"unset", results[0], "-"},
		{"set", results[1], "4.00x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSpeedup(tt.r); got != tt.want {
				t.Errorf("FormatSpeedup() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGroup(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{100_000, "100,000"},
		{10_000_000, "10,000,000"},
	}

	for _, tt := range tests {
		if got := Group(tt.n); got != tt.want {
			t.Errorf("Group(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, sampleResults(t)); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), buf.String())
	}

	if lines[0] != "=== Experiment Summary ===" {
		t.Errorf("title = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Estimator                 | Points          | π Estimate") {
		t.Errorf("header = %q", lines[1])
	}
	if lines[2] != strings.Repeat("-", 105) {
		t.Errorf("rule = %q", lines[2])
	}

	wantBase := "Sequential                |       1,000,000 | 3.1418000000 | 0.0002073464 |      1,000 | -       "
	if lines[3] != wantBase {
		t.Errorf("baseline row =\n%q\nwant\n%q", lines[3], wantBase)
	}
	if !strings.HasSuffix(lines[4], "|        250 | 4.00x") {
		t.Errorf("parallel row = %q", lines[4])
	}
}

func TestWriteTrials(t *testing.T) {
	cfg := model.SimulationConfig{TotalPoints: 1_000_000, NumTasks: 8, NumThreads: 4}
	label := experiment.ParallelLabel(4)

	var trials []*experiment.Result
	for i, v := range []float64{3.10, 3.18} {
		trials = append(trials, experiment.NewResult(cfg, v, int64(10+i), experiment.TrialLabel(label, i+1)))
	}
	avg := experiment.NewResult(cfg, 3.14, 10, experiment.AverageLabel(label))
	avg.SetAverageError(0.04)
	avg.SetTrialResults(trials)

	var buf bytes.Buffer
	if err := WriteTrials(&buf, avg); err != nil {
		t.Fatalf("WriteTrials() error = %v", err)
	}

	want := strings.Join([]string{
		"---- Trials (2) for Parallel(4 threads) | N=1,000,000 | Threads=4 ----",
		"Trial 1 | π = 3.100000 | Error = 0.041593 | Time = 10 ms",
		"Trial 2 | π = 3.180000 | Error = 0.038407 | Time = 11 ms",
		"AVG | π = 3.140000 | Avg Error = 0.040000 | Avg Time = 10 ms",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("WriteTrials() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestRenderStyled(t *testing.T) {
	out := RenderStyled(sampleResults(t))

	for _, want := range []string{"Experiment Summary", "Estimator", "Parallel(4 threads)", "1,000,000", "4.00x"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderStyled() missing %q:\n%s", want, out)
		}
	}
}

func TestWriteYAML(t *testing.T) {
	results := sampleResults(t)

	var buf bytes.Buffer
	if err := WriteYAML(&buf, results); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}

	var records []Record
	if err := yaml.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Speedup != nil {
		t.Errorf("baseline speedup = %v, want omitted", *records[0].Speedup)
	}
	if records[1].Speedup == nil || *records[1].Speedup != 4.0 {
		t.Errorf("parallel speedup = %v, want 4", records[1].Speedup)
	}
	if records[1].NumTasks != 8 || records[1].ID != results[1].ID.String() {
		t.Errorf("record = %+v", records[1])
	}
	if strings.Contains(buf.String(), "trials:") {
		t.Error("results without trials should omit the trials key")
	}
}
