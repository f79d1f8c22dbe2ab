// Package cli implements the margins command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/margins/internal/config"
	"github.com/mesh-intelligence/margins/internal/logging"
	"github.com/mesh-intelligence/margins/internal/paths"
	"github.com/mesh-intelligence/margins/internal/sqlite"
	"github.com/mesh-intelligence/margins/internal/tablefile"
	"github.com/mesh-intelligence/margins/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: exitUserError, err: err}
}

func sysError(err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: exitSysError, err: err}
}

// userSentinels are errors caused by the input or the flags rather than the
// environment.
var userSentinels = []error{
	types.ErrShapeMismatch, types.ErrDuplicateKey, types.ErrRaggedKey,
	types.ErrEmptyTable, types.ErrInvalidDirection, types.ErrLevelNotFound,
	types.ErrInvalidLevel, types.ErrDuplicateAggregate, types.ErrBaselineNotFound,
	types.ErrUnknownReducer, types.ErrLabelEmpty, types.ErrLabelCollision,
	types.ErrBaseUnitInvalid, config.ErrInvalidLogLevel,
	tablefile.ErrMalformed, sqlite.ErrColumnCount, sqlite.ErrNotNumeric,
	sqlite.ErrTableNotSaved, sqlite.ErrInvalidName, os.ErrNotExist,
}

// exitCode maps err to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	for _, s := range userSentinels {
		if errors.Is(err, s) {
			return exitUserError
		}
	}
	return exitSysError
}

// app holds global flag values and the state built before a command runs.
type app struct {
	configDir string
	jsonMode  bool
	sqlite    string
	input     inputFlags

	cfg config.File
	log *zap.Logger
}

// NewRootCmd creates the top-level "margins" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	d := config.Default()

	root := &cobra.Command{
		Use:   "margins",
		Short: "Totals, subtotals and percentages for tables",
		Long: "margins adds grand totals, subtotals and percentage views to tables read\n" +
			"from JSON documents or SQLite queries, keeping track of which rows and\n" +
			"columns are aggregates so that chained runs never count them twice.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.log.Sync() },
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return userError(err) })

	pf := root.PersistentFlags()
	pf.StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.BoolVar(&a.jsonMode, "json", false, "write the result as a JSON table document")
	pf.StringVar(&a.sqlite, "sqlite", "", "SQLite database for --query, --table and --save")
	pf.String("log-level", d.LogLevel, "log level: none, normal or debug")

	// Aggregation settings; read through config.Load.
	pf.String("totals-label", d.TotalsLabel, "label of grand totals")
	pf.String("subtotals-label", d.SubtotalsLabel, "label of subtotals")
	pf.String("fill", d.Fill, "label for the unused levels of aggregate keys")
	pf.Int("ndigits", d.NDigits, "digits to round percentages to (negative: no rounding)")
	pf.Float64("base-unit", d.BaseUnit, "percentage scale, 100 for percent points")
	pf.String("label-n", d.LabelN, "label of the value block in add mode")
	pf.String("label-pct", d.LabelPct, "label of the percentage block in add mode")
	pf.Bool("skip-single-rows", d.SkipSingleRows, "skip subtotals of one-row groups")
	pf.Bool("interleaf", d.Interleaf, "place each percentage column after its value column")

	a.input.register(root)

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newTotalsCmd(a))
	root.AddCommand(newSubtotalsCmd(a))
	root.AddCommand(newAggCmd(a))
	root.AddCommand(newPercentagesCmd(a))
	root.AddCommand(newDropCmd(a))
	root.AddCommand(newLevelCmd(a))
	root.AddCommand(newTablesCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// setup resolves the configuration directory, loads the configuration and
// builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	dir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = dir

	cfg, err := config.Load(dir, cmd.Flags())
	if err != nil {
		return userError(err)
	}
	a.cfg = cfg

	log, err := logging.New(cfg.LogLevel, zapcore.AddSync(cmd.ErrOrStderr()))
	if err != nil {
		return userError(err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	a.log = log.With(zap.String("run_id", id.String()))
	a.log.Debug("Configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("config_dir", dir),
		zap.String("totals_label", cfg.TotalsLabel),
		zap.String("subtotals_label", cfg.SubtotalsLabel),
		zap.Int("ndigits", cfg.NDigits))
	return nil
}

// database returns the SQLite path from --sqlite, config.yaml or the
// environment.
func (a *app) database() (string, error) {
	path, err := paths.ResolveDatabase(a.sqlite, a.cfg.SQLite)
	if err != nil {
		return "", sysError(fmt.Errorf("resolve database: %w", err))
	}
	if path == "" {
		return "", userError(errors.New("no SQLite database: set --sqlite, sqlite in config.yaml or " + paths.EnvDatabase))
	}
	return path, nil
}

// stdout returns the command's output writer.
func stdout(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
