// ============================================================================
// mcpi - Monte-Carlo-Pi Benchmark
// ============================================================================
//
// Package:     cmd
// Description: CLI command for the terminal visualizer
// Author:      Mike Stoffels
// Created:     2026-10-02
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	mcerror "github.com/msto63/mcpi/foundation/core/error"
	"github.com/msto63/mcpi/internal/buffon/visual"
	"github.com/msto63/mcpi/internal/tui/visualizer"
	"github.com/msto63/mcpi/pkg/core/config"
)

type visualizeOptions struct {
	points  int64
	threads int
	mode    string
	pace    time.Duration
	seed    uint64
	logFile string
}

func newVisualizeCmd(a *app) *cobra.Command {
	opts := &visualizeOptions{}

	visualizeCmd := &cobra.Command{
		Use:     "visualize",
		Aliases: []string{"viz", "tui"},
		Short:   "Starts the terminal visualizer",
		Long: `Starts the interactive terminal visualizer.

Random points on [-1,1]² are plotted as they are sampled; points inside the
unit circle and outside it are drawn in different colors. The side panel
shows the running estimate, its error, progress and elapsed time.

Keys:
  s       Start
  x       Stop
  c       Clear
  m       Toggle sequential / parallel
  + / -   More / fewer threads
  q       Quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVisualize(cmd, opts)
		},
	}

	bindVisualizeFlags(visualizeCmd.Flags(), opts)

	return visualizeCmd
}

func bindVisualizeFlags(f *pflag.FlagSet, opts *visualizeOptions) {
	f.Int64Var(&opts.points, "points", 0, fmt.Sprintf("Points per run, %d..%d (default from config)", config.MinVisualPoints, config.MaxVisualPoints))
	f.IntVar(&opts.threads, "threads", 0, fmt.Sprintf("Threads in parallel mode, 1..%d (default from config)", config.MaxVisualThreads))
	f.StringVar(&opts.mode, "mode", "", "sequential or parallel (default from config)")
	f.DurationVar(&opts.pace, "pace", 0, "Delay per plotted point on small runs (default from config)")
	f.Uint64Var(&opts.seed, "seed", 0, "Base seed; 0 draws a random seed per run")
	f.StringVar(&opts.logFile, "log-file", "", "Write logs to this file while the visualizer runs")
}

func (a *app) runVisualize(cmd *cobra.Command, opts *visualizeOptions) error {
	vc, err := a.visualizerConfig(cmd, opts)
	if err != nil {
		return printError(cmd.ErrOrStderr(), "invalid visualizer configuration", err)
	}

	// stderr output would corrupt the alternate screen
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return printError(cmd.ErrOrStderr(), "opening log file", err)
		}
		defer f.Close()
		vc.Logger = a.logger.WithOutput(f)
	}

	return visualizer.Run(vc)
}

func (a *app) visualizerConfig(cmd *cobra.Command, opts *visualizeOptions) (visualizer.Config, error) {
	v := a.cfg.Visualizer
	flags := cmd.Flags()

	points := v.Points
	if flags.Changed("points") {
		points = opts.points
	}
	threads := v.Threads
	if flags.Changed("threads") {
		threads = opts.threads
	}
	modeName := v.Mode
	if flags.Changed("mode") {
		modeName = opts.mode
	}
	pace := v.Pace.Duration
	if flags.Changed("pace") {
		pace = opts.pace
	}

	mode, err := visual.ParseMode(modeName)
	if err != nil {
		return visualizer.Config{}, err
	}
	if points < config.MinVisualPoints || points > config.MaxVisualPoints {
		return visualizer.Config{}, mcerror.Newf("points must be in [%d, %d], got %d",
			config.MinVisualPoints, config.MaxVisualPoints, points).
			WithCode(mcerror.CodeInvalidConfig).
			WithOperation("cmd.visualize")
	}
	if threads < 1 || threads > config.MaxVisualThreads {
		return visualizer.Config{}, mcerror.Newf("threads must be in [1, %d], got %d",
			config.MaxVisualThreads, threads).
			WithCode(mcerror.CodeInvalidConfig).
			WithOperation("cmd.visualize")
	}
	if pace < 0 {
		return visualizer.Config{}, mcerror.New("pace must not be negative").
			WithCode(mcerror.CodeInvalidConfig).
			WithOperation("cmd.visualize")
	}

	return visualizer.Config{
		Points:     points,
		Threads:    threads,
		Mode:       mode,
		Pace:       pace,
		Seed:       opts.seed,
		MaxThreads: config.MaxVisualThreads,
	}, nil
}
