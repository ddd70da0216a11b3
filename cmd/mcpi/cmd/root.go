package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	mclog "github.com/msto63/mcpi/foundation/core/log"
	"github.com/msto63/mcpi/internal/buffon/estimator"
	"github.com/msto63/mcpi/internal/buffon/experiment"
	"github.com/msto63/mcpi/pkg/core/config"
	"github.com/msto63/mcpi/pkg/core/logging"
	"github.com/msto63/mcpi/pkg/core/metrics"
)

// app holds state shared by all subcommands of one invocation
type app struct {
	cfgFile     string
	verbose     bool
	logLevel    string
	logFormat   string
	metricsAddr string

	cfg     *config.Config
	logger  *mclog.Logger
	metrics *metrics.Collector
	server  *metricsServer
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mcpi",
		Short: "Monte-Carlo-Pi - estimate π and benchmark parallel speedup",
		Long: `mcpi estimates π by sampling random points in the unit square and
counting those inside the quarter circle.

It compares a sequential estimator against a parallel estimator with a
bounded worker pool, reports accuracy, runtime and speedup, and ships a
terminal visualizer of the sampling process.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file, TOML or YAML (default: $MCPI_CONFIG or ./configs/mcpi.toml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text, json, logfmt")
	rootCmd.PersistentFlags().StringVar(&a.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	rootCmd.AddCommand(
		newBenchCmd(a),
		newTrialsCmd(a),
		newEstimateCmd(a),
		newVisualizeCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI until completion or interrupt
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{}
	defer a.shutdown()

	return executeRoot(ctx, newRootCmd(a))
}

// executeRoot runs root and prints errors no command has reported, such
// as unknown flags or commands
func executeRoot(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	var reported *reportedError
	if err != nil && !errors.As(err, &reported) {
		printError(root.ErrOrStderr(), "mcpi", err)
	}
	return err
}

// setup loads the configuration, applies flag overrides and builds the
// logger and the metrics collector
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(a.cfgFile)
	if err != nil {
		return printError(cmd.ErrOrStderr(), "loading config", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.General.LogLevel = a.logLevel
	}
	if a.verbose {
		cfg.General.LogLevel = "debug"
	}
	if flags.Changed("log-format") {
		cfg.General.LogFormat = a.logFormat
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Address = a.metricsAddr
	}

	a.cfg = cfg
	a.logger = logging.NewLogger(logging.LoggerConfig{
		ServiceName: cfg.General.Name,
		Level:       cfg.General.LogLevel,
		Format:      cfg.General.LogFormat,
		Output:      cmd.ErrOrStderr(),
	})
	a.metrics = metrics.NewCollector()

	if cfg.Metrics.Enabled {
		srv, err := startMetricsServer(cfg.Metrics.Address, a.metrics, a.logger)
		if err != nil {
			return printError(cmd.ErrOrStderr(), "starting metrics server", err)
		}
		a.server = srv
	}

	a.logger.Debug("configuration loaded", mclog.Fields{
		"config":  a.cfgFile,
		"metrics": cfg.Metrics.Enabled,
	})
	return nil
}

func (a *app) shutdown() {
	if a.server != nil {
		a.server.Close()
		a.server = nil
	}
}

// newRunner builds an experiment runner whose estimators share seed
func (a *app) newRunner(seed uint64, tasksPerThread int) *experiment.Runner {
	return experiment.NewRunner(
		experiment.WithLogger(a.logger),
		experiment.WithMetrics(a.metrics),
		experiment.WithTasksPerThread(tasksPerThread),
		experiment.WithEstimators(
			estimator.NewSequential(estimator.WithSeed(seed)),
			estimator.NewParallel(estimator.WithSeed(seed)),
		),
	)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

// reportedError marks an error that has already been printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// printError writes err to w and returns it marked as reported
func printError(w io.Writer, msg string, err error) error {
	fmt.Fprintf(w, "Error: %s: %v\n", msg, err)
	return &reportedError{err: err}
}
