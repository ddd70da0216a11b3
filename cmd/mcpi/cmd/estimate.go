package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/msto63/mcpi/internal/buffon/estimator"
	"github.com/msto63/mcpi/internal/buffon/experiment"
	"github.com/msto63/mcpi/internal/buffon/model"
)

type estimateOptions struct {
	points  int64
	threads int
	tasks   int
	seed    uint64
}

func newEstimateCmd(a *app) *cobra.Command {
	opts := &estimateOptions{}

	estimateCmd := &cobra.Command{
		Use:   "estimate",
		Short: "Runs a single estimate and prints the result line",
		Long: `Runs one estimate of π. Without --threads the sequential estimator
is used; with --threads N the parallel estimator runs N workers.

Examples:
  mcpi estimate --points 10000000
  mcpi estimate --points 10000000 --threads 8 --tasks 32`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEstimate(cmd, opts)
		},
	}

	f := estimateCmd.Flags()
	f.Int64Var(&opts.points, "points", 1_000_000, "Number of points")
	f.IntVar(&opts.threads, "threads", 0, "Worker threads; 0 runs sequentially")
	f.IntVar(&opts.tasks, "tasks", 0, "Chunks (default threads * tasks_per_thread)")
	f.Uint64Var(&opts.seed, "seed", 0, "Base seed; 0 draws a random seed (default from config)")

	return estimateCmd
}

func (a *app) runEstimate(cmd *cobra.Command, opts *estimateOptions) error {
	seed := a.cfg.Experiment.Seed
	if cmd.Flags().Changed("seed") {
		seed = opts.seed
	}

	var (
		cfg   model.SimulationConfig
		est   estimator.Estimator
		label string
		err   error
	)
	if opts.threads == 0 {
		cfg = model.SequentialConfig(opts.points)
		err = cfg.Validate()
		est = estimator.NewSequential(estimator.WithSeed(seed))
		label = experiment.SequentialLabel
	} else {
		tasks := opts.tasks
		if tasks == 0 {
			tasks = opts.threads * a.cfg.Experiment.TasksPerThread
		}
		cfg, err = model.NewSimulationConfig(opts.points, tasks, opts.threads)
		est = estimator.NewParallel(estimator.WithSeed(seed))
		label = experiment.ParallelLabel(opts.threads)
	}
	if err != nil {
		return printError(cmd.ErrOrStderr(), "invalid configuration", err)
	}

	res, err := a.newRunner(seed, a.cfg.Experiment.TasksPerThread).RunOnce(cmd.Context(), est, cfg, label)
	if err != nil {
		return printError(cmd.ErrOrStderr(), "estimate failed", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.String())
	fmt.Fprintln(out, "Actual π value:", math.Pi)
	return nil
}
