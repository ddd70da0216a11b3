package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/mcpi/internal/buffon/estimator"
	"github.com/msto63/mcpi/internal/buffon/experiment"
	"github.com/msto63/mcpi/internal/buffon/model"
	"github.com/msto63/mcpi/internal/buffon/report"
)

type trialsOptions struct {
	points     int64
	threads    int
	tasks      int
	trials     int
	sequential bool
	seed       uint64
}

func newTrialsCmd(a *app) *cobra.Command {
	opts := &trialsOptions{}

	trialsCmd := &cobra.Command{
		Use:   "trials",
		Short: "Repeats one estimate and reports per-trial and average results",
		Long: `Runs the same estimator configuration several times and prints one
line per trial followed by the average estimate, error and runtime.

Examples:
  mcpi trials
  mcpi trials --trials 10 --points 5000000 --threads 8
  mcpi trials --sequential --points 1000000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTrials(cmd, opts)
		},
	}

	f := trialsCmd.Flags()
	f.Int64Var(&opts.points, "points", 0, "Points per trial (default from config)")
	f.IntVar(&opts.threads, "threads", 0, "Worker threads (default from config)")
	f.IntVar(&opts.tasks, "tasks", 0, "Chunks per trial (default threads * tasks_per_thread)")
	f.IntVar(&opts.trials, "trials", 0, "Number of trials (default from config)")
	f.BoolVar(&opts.sequential, "sequential", false, "Use the sequential estimator")
	f.Uint64Var(&opts.seed, "seed", 0, "Base seed; 0 draws a random seed (default from config)")

	return trialsCmd
}

func (a *app) runTrials(cmd *cobra.Command, opts *trialsOptions) error {
	exp := a.cfg.Experiment
	flags := cmd.Flags()

	points := exp.TrialPoints
	if flags.Changed("points") {
		points = opts.points
	}
	threads := exp.TrialThreads
	if flags.Changed("threads") {
		threads = opts.threads
	}
	trials := exp.Trials
	if flags.Changed("trials") {
		trials = opts.trials
	}
	seed := exp.Seed
	if flags.Changed("seed") {
		seed = opts.seed
	}
	tasks := threads * exp.TasksPerThread
	if flags.Changed("tasks") {
		tasks = opts.tasks
	}

	var (
		cfg   model.SimulationConfig
		est   estimator.Estimator
		label string
		err   error
	)
	if opts.sequential {
		cfg = model.SequentialConfig(points)
		err = cfg.Validate()
		est = estimator.NewSequential(estimator.WithSeed(seed))
		label = experiment.SequentialLabel
	} else {
		cfg, err = model.NewSimulationConfig(points, tasks, threads)
		est = estimator.NewParallel(estimator.WithSeed(seed))
		label = experiment.ParallelLabel(threads)
	}
	if err != nil {
		return printError(cmd.ErrOrStderr(), "invalid trial configuration", err)
	}

	avg, err := a.newRunner(seed, exp.TasksPerThread).RunTrials(cmd.Context(), est, cfg, label, trials)
	if err != nil {
		return printError(cmd.ErrOrStderr(), "trials failed", err)
	}
	return report.WriteTrials(cmd.OutOrStdout(), avg)
}
