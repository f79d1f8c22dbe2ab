// Package sqlite provides the public API for reading tables from SQLite
// databases and saving aggregated tables back, while keeping the
// implementation internal.
package sqlite

import (
	"context"

	"go.uber.org/multierr"

	"github.com/mesh-intelligence/margins/internal/sqlite"
	"github.com/mesh-intelligence/margins/pkg/types"
)

// Store is an open database. See Open.
type Store = sqlite.Store

// Errors returned by Store methods.
var (
	ErrColumnCount   = sqlite.ErrColumnCount
	ErrNotNumeric    = sqlite.ErrNotNumeric
	ErrTableNotSaved = sqlite.ErrTableNotSaved
	ErrInvalidName   = sqlite.ErrInvalidName
)

// Open opens the database at path, creating it if needed. The caller must
// Close the store.
//
// Example:
//
//	store, err := sqlite.Open(ctx, "sales.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	t, err := store.Load(ctx, "SELECT region, year, SUM(units) FROM sales GROUP BY 1, 2", 1, 1)
func Open(ctx context.Context, path string) (*Store, error) {
	return sqlite.Open(ctx, path)
}

// LoadQuery opens the database at path, pivots the result of query into a
// table and closes the database. The first rowLevels result columns form
// the row key, the next colLevels the column key and the last column holds
// the value.
func LoadQuery(ctx context.Context, path, query string, rowLevels, colLevels int, args ...any) (t *types.Table, err error) {
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, store.Close()) }()
	return store.Load(ctx, query, rowLevels, colLevels, args...)
}
