// cmd/dqvalidate/root.go
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/David-Botos/dq-validation/pkg/config"
	"github.com/David-Botos/dq-validation/pkg/logging"
	"github.com/David-Botos/dq-validation/pkg/pipeline"
)

// flagEnv binds each command-line flag to the environment variable it overrides
var flagEnv = []struct {
	flag  string
	env   string
	usage string
}{
	{"database-url", "DATABASE_URL", "PostgreSQL connection string"},
	{"source", "DQ_SOURCE_TYPE", "data source type (postgres or snowflake)"},
	{"tables", "DQ_TABLES", "comma-separated alias=table pairs"},
	{"results-dir", "RESULTS_DIR", "directory receiving the history and dashboard CSVs"},
	{"reports-dir", "REPORTS_DIR", "directory receiving the HTML report"},
	{"data-dir", "DATA_DIR", "mirror directory for the CSVs, empty disables it"},
	{"history-table", "HISTORY_TABLE", "PostgreSQL table also receiving every run's metrics"},
	{"log-level", "LOG_LEVEL", "log level (debug, info, warn, error)"},
	{"log-format", "LOG_FORMAT", "log format (console or json)"},
}

// exitError carries a process exit status out of a cobra command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// newRootCmd creates the root command, which performs one validation run
func newRootCmd(stdout io.Writer) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:           "dqvalidate",
		Short:         "Validate hospital datasets against the data-quality rule catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidation(cmd, stdout)
		},
	}

	flags := cmd.Flags()
	for _, f := range flagEnv {
		flags.String(f.flag, "", f.usage+" (env "+f.env+")")
	}
	flags.BoolVar(&strict, "strict", false, "exit with status 2 when tables or rules were skipped (env DQ_STRICT)")

	cmd.AddCommand(newRulesCmd(stdout))
	return cmd
}

// applyFlags copies explicitly set flags over their environment variables so
// config.LoadConfig sees a single source of truth
func applyFlags(flags *pflag.FlagSet) error {
	for _, f := range flagEnv {
		if !flags.Changed(f.flag) {
			continue
		}
		value, err := flags.GetString(f.flag)
		if err != nil {
			return err
		}
		if err := os.Setenv(f.env, value); err != nil {
			return err
		}
	}
	if flags.Changed("strict") {
		strict, err := flags.GetBool("strict")
		if err != nil {
			return err
		}
		return os.Setenv("DQ_STRICT", fmt.Sprintf("%t", strict))
	}
	return nil
}

func runValidation(cmd *cobra.Command, stdout io.Writer) error {
	if err := applyFlags(cmd.Flags()); err != nil {
		return &exitError{code: pipeline.ExitFatal, err: err}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return &exitError{code: pipeline.ExitFatal, err: fmt.Errorf("failed to load configuration: %w", err)}
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return &exitError{code: pipeline.ExitFatal, err: err}
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("source", cfg.SourceType),
		zap.Int("tables", len(cfg.Tables)),
		zap.String("results_dir", cfg.ResultsDir),
		zap.String("reports_dir", cfg.ReportsDir),
		zap.String("data_dir", cfg.DataDir),
		zap.Bool("strict", cfg.Strict))

	res, err := pipeline.New(cfg, logger, pipeline.WithOutput(stdout)).Run(cmd.Context())
	if err != nil {
		logger.Error("Validation run failed", zap.Error(err))
	} else if res.Run.Partial() {
		logger.Warn("Validation completed with skipped checks",
			zap.Int("tables_failed", len(res.Run.FailedTables)),
			zap.Int("rules_skipped", res.Run.RulesSkipped))
	}

	if code := pipeline.ExitCode(res, err, cfg.Strict); code != pipeline.ExitOK {
		return &exitError{code: code, err: err}
	}
	return nil
}

// execute runs the CLI and returns the process exit status
func execute(args []string) int {
	// A missing .env file is normal in containers
	_ = godotenv.Load()

	return runCommand(newRootCmd(os.Stdout), args, os.Stderr)
}

// runCommand executes cmd and maps its outcome to an exit status. A panic
// escaping the command is reported with its stack trace as a fatal error.
func runCommand(cmd *cobra.Command, args []string, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "ERREUR CRITIQUE : %v\n%s", r, debug.Stack())
			code = pipeline.ExitFatal
		}
	}()

	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return pipeline.ExitOK
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintf(stderr, "ERREUR CRITIQUE : %+v\n", exit.err)
		}
		return exit.code
	}
	fmt.Fprintln(stderr, err)
	return pipeline.ExitFatal
}
