// ============================================================================
// mcpi - Monte-Carlo-Pi Benchmark
// ============================================================================
//
// Package:     cmd
// Description: CLI command running the sequential vs. parallel benchmark
// Author:      Mike Stoffels
// Created:     2026-10-01
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/msto63/mcpi/internal/buffon/estimator"
	"github.com/msto63/mcpi/internal/buffon/experiment"
	"github.com/msto63/mcpi/internal/buffon/model"
	"github.com/msto63/mcpi/internal/buffon/report"
)

type benchOptions struct {
	points         []int64
	threads        []int
	tasksPerThread int
	seed           uint64
	trialsDemo     bool
	styled         bool
	yaml           bool
}

func newBenchCmd(a *app) *cobra.Command {
	opts := &benchOptions{}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Runs the sequential vs. parallel benchmark matrix",
		Long: `Runs the benchmark matrix: for every point count a sequential
baseline followed by one parallel run per thread count, then prints the
summary table with accuracy, runtime and speedup over the baseline.

With --trials-demo (default) a repeated-trials example follows.

Examples:
  mcpi bench
  mcpi bench --points 1000000,10000000 --threads 2,4,8,16
  mcpi bench --styled --trials-demo=false
  mcpi bench --yaml > results.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBench(cmd, opts)
		},
	}

	f := benchCmd.Flags()
	f.Int64SliceVar(&opts.points, "points", nil, "Point counts (default from config)")
	f.IntSliceVar(&opts.threads, "threads", nil, "Thread counts (default from config)")
	f.IntVar(&opts.tasksPerThread, "tasks-per-thread", 0, "Chunks per worker in parallel runs (default from config)")
	f.Uint64Var(&opts.seed, "seed", 0, "Base seed; 0 draws a random seed (default from config)")
	f.BoolVar(&opts.trialsDemo, "trials-demo", true, "Run the repeated-trials example after the matrix")
	f.BoolVar(&opts.styled, "styled", false, "Render the summary as a styled table")
	f.BoolVar(&opts.yaml, "yaml", false, "Write results as YAML")

	return benchCmd
}

func (a *app) runBench(cmd *cobra.Command, opts *benchOptions) error {
	exp := a.cfg.Experiment
	flags := cmd.Flags()
	if flags.Changed("points") {
		exp.PointCounts = opts.points
	}
	if flags.Changed("threads") {
		exp.ThreadCounts = opts.threads
	}
	if flags.Changed("tasks-per-thread") {
		exp.TasksPerThread = opts.tasksPerThread
	}
	if flags.Changed("seed") {
		exp.Seed = opts.seed
	}

	checked := *a.cfg
	checked.Experiment = exp
	if err := checked.Validate(); err != nil {
		return printError(cmd.ErrOrStderr(), "invalid benchmark configuration", err)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	runner := a.newRunner(exp.Seed, exp.TasksPerThread)

	results, runErr := runner.RunMatrix(ctx, exp.PointCounts, exp.ThreadCounts)
	if runErr != nil && len(results) == 0 {
		return printError(cmd.ErrOrStderr(), "benchmark failed", runErr)
	}

	var avg *experiment.Result
	if runErr == nil && opts.trialsDemo {
		var err error
		avg, err = runTrialsDemo(cmd, runner, exp.TrialPoints, exp.TrialThreads, exp.TasksPerThread, exp.Trials, exp.Seed)
		if err != nil {
			return err
		}
	}

	if opts.yaml {
		if avg != nil {
			results = append(results, avg)
		}
		if err := report.WriteYAML(out, results); err != nil {
			return err
		}
	} else if err := writeBench(out, results, avg, opts.styled); err != nil {
		return err
	}

	if runErr != nil {
		return printError(cmd.ErrOrStderr(), "benchmark aborted", runErr)
	}
	return nil
}

func runTrialsDemo(cmd *cobra.Command, runner *experiment.Runner, points int64, threads, tasksPerThread, trials int, seed uint64) (*experiment.Result, error) {
	cfg, err := model.NewSimulationConfig(points, threads*tasksPerThread, threads)
	if err != nil {
		return nil, printError(cmd.ErrOrStderr(), "trials example", err)
	}

	est := estimator.NewParallel(estimator.WithSeed(seed))
	avg, err := runner.RunTrials(cmd.Context(), est, cfg, experiment.ParallelLabel(threads), trials)
	if err != nil {
		return nil, printError(cmd.ErrOrStderr(), "trials example", err)
	}
	return avg, nil
}

func writeBench(w io.Writer, results []*experiment.Result, avg *experiment.Result, styled bool) error {
	if styled {
		if _, err := fmt.Fprintf(w, "\n=== Experiment Summary ===\n%s\n", report.RenderStyled(results)); err != nil {
			return err
		}
	} else if err := report.WriteSummary(w, results); err != nil {
		return err
	}

	if avg == nil {
		return nil
	}
	if _, err := io.WriteString(w, "\n=== BONUS: Trials Example ===\n\n"); err != nil {
		return err
	}
	if err := report.WriteTrials(w, avg); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "\nActual π value:", math.Pi)
	return err
}
