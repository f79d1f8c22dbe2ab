package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/margins/internal/sqlite"
	"github.com/mesh-intelligence/margins/internal/tablefile"
	"github.com/mesh-intelligence/margins/pkg/aggregate"
	"github.com/mesh-intelligence/margins/pkg/types"
)

// inputFlags selects where a command reads its table from and where the
// result goes.
type inputFlags struct {
	in        string
	cells     string
	query     string
	table     string
	rowLevels int
	colLevels int
	out       string
	save      string
}

func (f *inputFlags) register(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.StringVar(&f.in, "in", "", "JSON table document to read (- for stdin)")
	pf.StringVar(&f.cells, "cells", "", "JSONL file of {row, col, value} cells to pivot")
	pf.StringVar(&f.query, "query", "", "SQL query returning row key, column key and value columns")
	pf.StringVar(&f.table, "table", "", "table saved earlier with --save")
	pf.IntVar(&f.rowLevels, "row-levels", 1, "number of leading query columns forming the row key")
	pf.IntVar(&f.colLevels, "col-levels", 1, "number of query columns forming the column key")
	pf.StringVar(&f.out, "out", "", "write the result to this JSON file")
	pf.StringVar(&f.save, "save", "", "save the result in the SQLite database under this name")
}

var errNoInput = errors.New("no input: use --in, --cells, --query or --table")

// loadTable reads the input table selected by the flags.
func (a *app) loadTable(cmd *cobra.Command) (*types.Table, error) {
	f := a.input
	sources := 0
	for _, s := range []string{f.in, f.cells, f.query, f.table} {
		if s != "" {
			sources++
		}
	}
	switch {
	case sources == 0:
		return nil, userError(errNoInput)
	case sources > 1:
		return nil, userError(errors.New("--in, --cells, --query and --table are exclusive"))
	}

	var (
		t      *types.Table
		err    error
		source string
	)
	switch {
	case f.in == "-":
		source = "stdin"
		t, err = tablefile.Read(cmd.InOrStdin())
	case f.in != "":
		source = f.in
		t, err = tablefile.ReadFile(f.in)
	case f.cells != "":
		source = f.cells
		t, err = a.loadCells(f.cells)
	default:
		source = "sqlite"
		t, err = a.loadFromStore(cmd.Context())
	}
	if err != nil {
		return nil, err
	}
	a.log.Info("Loaded table",
		zap.String("source", source),
		zap.Int("rows", t.Rows.Len()),
		zap.Int("cols", t.Cols.Len()))
	return t, nil
}

func (a *app) loadCells(path string) (*types.Table, error) {
	cells, skipped, err := tablefile.ReadCellsFile(path)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		a.log.Warn("Skipped malformed cells", zap.String("path", path), zap.Int("skipped", skipped))
	}
	return tablefile.Pivot(nil, nil, cells)
}

func (a *app) loadFromStore(ctx context.Context) (t *types.Table, err error) {
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, store.Close()) }()

	if a.input.table != "" {
		return store.LoadTable(ctx, a.input.table)
	}
	return store.Load(ctx, a.input.query, a.input.rowLevels, a.input.colLevels)
}

func (a *app) openStore(ctx context.Context) (*sqlite.Store, error) {
	path, err := a.database()
	if err != nil {
		return nil, err
	}
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, sysError(err)
	}
	a.log.Debug("Opened database", zap.String("path", path))
	return store, nil
}

// writeResult writes t to --out and --save when given, and to standard
// output otherwise.
func (a *app) writeResult(cmd *cobra.Command, t *types.Table) error {
	f := a.input
	if f.out != "" {
		if err := tablefile.WriteFile(f.out, t); err != nil {
			return sysError(err)
		}
		a.log.Info("Wrote table", zap.String("path", f.out))
	}
	if f.save != "" {
		store, err := a.openStore(cmd.Context())
		if err != nil {
			return err
		}
		saveErr := store.Save(cmd.Context(), f.save, t)
		if cerr := multierr.Append(saveErr, store.Close()); cerr != nil {
			if errors.Is(saveErr, sqlite.ErrInvalidName) {
				return userError(cerr)
			}
			return sysError(fmt.Errorf("save %s: %w", f.save, cerr))
		}
		a.log.Info("Saved table", zap.String("name", f.save), zap.String("database", store.Path()))
	}
	if f.out != "" || f.save != "" {
		return nil
	}
	if a.jsonMode {
		return tablefile.Write(stdout(cmd), t)
	}
	return renderText(stdout(cmd), t)
}

// run loads the input, applies the steps to a pipeline over it and writes
// the result. steps may inspect the input table to resolve flags such as
// level names.
func (a *app) run(cmd *cobra.Command, steps func(*types.Table, *aggregate.Pipeline) error) error {
	t, err := a.loadTable(cmd)
	if err != nil {
		return err
	}
	p := aggregate.NewPipeline(t, a.cfg.AggregationConfig, aggregate.WithLogger(a.log))
	if err := steps(t, p); err != nil {
		return userError(err)
	}
	out, chain, err := p.Result()
	if err != nil {
		return userError(err)
	}
	a.log.Debug("Chain state", zap.Strings("ignored", chain.All().Sorted()))
	return a.writeResult(cmd, out)
}
