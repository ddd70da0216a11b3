package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	mcerror "github.com/msto63/mcpi/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"milliseconds", "1ms", time.Millisecond, false},
		{"microseconds", "500us", 500 * time.Microsecond, false},
		{"seconds", "2s", 2 * time.Second, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	wantPoints := []int64{100_000, 1_000_000, 10_000_000}
	if len(cfg.Experiment.PointCounts) != len(wantPoints) {
		t.Fatalf("PointCounts = %v, want %v", cfg.Experiment.PointCounts, wantPoints)
	}
	for i, n := range wantPoints {
		if cfg.Experiment.PointCounts[i] != n {
			t.Errorf("PointCounts[%d] = %d, want %d", i, cfg.Experiment.PointCounts[i], n)
		}
	}

	wantThreads := []int{2, 4, 8}
	for i, n := range wantThreads {
		if cfg.Experiment.ThreadCounts[i] != n {
			t.Errorf("ThreadCounts[%d] = %d, want %d", i, cfg.Experiment.ThreadCounts[i], n)
		}
	}

	if cfg.Experiment.TasksPerThread != 2 {
		t.Errorf("TasksPerThread = %d, want 2", cfg.Experiment.TasksPerThread)
	}
	if cfg.Experiment.Trials != 4 || cfg.Experiment.TrialPoints != 1_000_000 || cfg.Experiment.TrialThreads != 4 {
		t.Errorf("trial defaults = %+v", cfg.Experiment)
	}
	if cfg.Visualizer.Pace.Duration != time.Millisecond {
		t.Errorf("Visualizer.Pace = %v, want 1ms", cfg.Visualizer.Pace)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoad_TOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "mcpi.toml")

	content := `
[general]
log_level = "debug"

[experiment]
point_counts = [1000, 2000]
thread_counts = [1, 2]
seed = 42

[visualizer]
mode = "parallel"
pace = "0s"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogLevel != "debug" {
		t.Errorf("General.LogLevel = %v, want debug", cfg.General.LogLevel)
	}
	if len(cfg.Experiment.PointCounts) != 2 || cfg.Experiment.PointCounts[1] != 2000 {
		t.Errorf("Experiment.PointCounts = %v, want [1000 2000]", cfg.Experiment.PointCounts)
	}
	if cfg.Experiment.Seed != 42 {
		t.Errorf("Experiment.Seed = %d, want 42", cfg.Experiment.Seed)
	}
	if cfg.Visualizer.Mode != "parallel" {
		t.Errorf("Visualizer.Mode = %v, want parallel", cfg.Visualizer.Mode)
	}
	// "0s" is indistinguishable from unset and falls back to the default
	if cfg.Visualizer.Pace.Duration != time.Millisecond {
		t.Errorf("Visualizer.Pace = %v, want 1ms", cfg.Visualizer.Pace)
	}
	if cfg.Experiment.TasksPerThread != 2 {
		t.Errorf("Experiment.TasksPerThread = %d, want default 2", cfg.Experiment.TasksPerThread)
	}
}

func TestLoad_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "mcpi.yaml")

	content := `
general:
  log_format: json
experiment:
  thread_counts: [4]
  tasks_per_thread: 3
visualizer:
  points: 5000
  pace: 2ms
metrics:
  enabled: true
  address: ":${MCPI_TEST_PORT}"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	t.Setenv("MCPI_TEST_PORT", "9999")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogFormat != "json" {
		t.Errorf("General.LogFormat = %v, want json", cfg.General.LogFormat)
	}
	if cfg.Experiment.TasksPerThread != 3 {
		t.Errorf("Experiment.TasksPerThread = %d, want 3", cfg.Experiment.TasksPerThread)
	}
	if cfg.Visualizer.Points != 5000 {
		t.Errorf("Visualizer.Points = %d, want 5000", cfg.Visualizer.Points)
	}
	if cfg.Visualizer.Pace.Duration != 2*time.Millisecond {
		t.Errorf("Visualizer.Pace = %v, want 2ms", cfg.Visualizer.Pace)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Address != ":9999" {
		t.Errorf("Metrics = %+v, want enabled on :9999", cfg.Metrics)
	}
}

func TestLoad_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, content string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
		code mcerror.Code
	}{
		{"missing file", filepath.Join(tmpDir, "nope.toml"), mcerror.CodeMissingConfig},
		{"bad toml", write("bad.toml", "[general\nname="), mcerror.CodeConfigError},
		{"unknown extension", write("cfg.ini", "x=1"), mcerror.CodeConfigError},
		{"negative points", write("neg.toml", "[experiment]\npoint_counts = [-5]\n"), mcerror.CodeInvalidConfig},
		{"zero thread count", write("zero.yaml", "experiment:\n  thread_counts: [2, 0]\n"), mcerror.CodeInvalidConfig},
		{"bad mode", write("mode.toml", "[visualizer]\nmode = \"gpu\"\n"), mcerror.CodeInvalidConfig},
		{"too many visual threads", write("vt.toml", "[visualizer]\nthreads = 64\n"), mcerror.CodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !mcerror.HasCode(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "env.toml")
	if err := os.WriteFile(configPath, []byte("[experiment]\ntrials = 7\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	t.Setenv("MCPI_CONFIG", configPath)
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Experiment.Trials != 7 {
		t.Errorf("Experiment.Trials = %d, want 7", cfg.Experiment.Trials)
	}

	t.Setenv("MCPI_CONFIG", "")
	t.Setenv("HOME", tmpDir)
	t.Chdir(tmpDir)
	cfg, err = LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() without file error = %v", err)
	}
	if cfg.Experiment.Trials != 4 {
		t.Errorf("fallback Experiment.Trials = %d, want 4", cfg.Experiment.Trials)
	}
}

func TestLoad_ShippedConfigMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "..", "configs", "mcpi.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("configs/mcpi.toml = %+v, want defaults %+v", cfg, Default())
	}
}
