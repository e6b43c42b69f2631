// Command tabkit cleans and inspects train/test CSV datasets.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tabkit/config"
	"tabkit/dataset"
	"tabkit/loader"
)

// app holds the global flags and the logger shared by every command.
type app struct {
	verbose    bool
	configPath string
	journal    string
	logger     *zap.Logger
	// opened lists the datasets loaded by the running command. Commands
	// close them when they return.
	opened []*dataset.Dataset
}

func newRootCmd() *cobra.Command {
	return (&app{logger: zap.NewNop()}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tabkit",
		Short: "Clean and inspect train/test CSV datasets",
		Long: `tabkit loads a train CSV file and an optional test CSV file and keeps
their columns in step while pruning, deduplicating, dropping and encoding.

Most commands take the train file and, optionally, the test file:

  tabkit prune --columns 0.5 train.csv test.csv --out cleaned
  tabkit missing train.csv test.csv`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML file with option overrides")
	root.PersistentFlags().StringVar(&a.journal, "journal", "", "Record transformations in <journal_dir>/<name>.txt")

	root.AddCommand(
		a.splitCmd(),
		a.pruneCmd(),
		a.dedupeCmd(),
		a.dropCmd(),
		a.missingCmd(),
		a.describeCmd(),
		a.groupbyCmd(),
		a.encodeCmd(),
		a.optionsCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.configPath != "" {
		if err := config.Default.Load(a.configPath); err != nil {
			return err
		}
	}
	level, err := zapcore.ParseLevel(config.Default.String(config.LogLevel))
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	if a.verbose {
		level = zapcore.DebugLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := cfg.Build()
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	a.logger = logger
	return nil
}

// open loads args[0] as the train frame and args[1], when given, as the
// test frame.
func (a *app) open(args []string, opts ...dataset.Option) (*dataset.Dataset, error) {
	train, err := loader.ReadCSVFile(args[0])
	if err != nil {
		return nil, err
	}
	opts = append(opts, dataset.WithLogger(a.logger))
	if len(args) > 1 {
		test, err := loader.ReadCSVFile(args[1])
		if err != nil {
			return nil, err
		}
		opts = append(opts, dataset.WithTest(test))
	}
	if a.journal != "" {
		opts = append(opts, dataset.WithJournal(a.journal))
	}
	d, err := dataset.New(train, opts...)
	if err != nil {
		return nil, err
	}
	a.opened = append(a.opened, d)
	a.logger.Debug("loaded dataset",
		zap.String("train", args[0]),
		zap.Int("rows", train.Nrow()),
		zap.Bool("test", d.HasTest()))
	return d, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
