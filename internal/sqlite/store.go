// Package sqlite reads long-format query results from SQLite databases into
// tables and saves aggregated tables back in the same long format.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/margins/internal/tablefile"
	"github.com/mesh-intelligence/margins/pkg/types"
)

// Errors returned by the store.
var (
	ErrColumnCount   = errors.New("query returned the wrong number of columns")
	ErrNotNumeric    = errors.New("value column is not numeric")
	ErrTableNotSaved = errors.New("table not saved in database")
	ErrInvalidName   = errors.New("invalid table name")
)

// Store is an open SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the database at path, creating it if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Cells runs query and returns its result as long-format cells. The first
// rowLevels result columns form the row key, the next colLevels form the
// column key and the last column holds the value. With colLevels zero the
// column key is the value column's name. The row and column level names
// are the result column names.
func (s *Store) Cells(ctx context.Context, query string, rowLevels, colLevels int, args ...any) (rowNames, colNames []string, cells []tablefile.Cell, err error) {
	if rowLevels < 1 || colLevels < 0 {
		return nil, nil, nil, fmt.Errorf("%w: need at least one row level, got %d row and %d column levels",
			ErrColumnCount, rowLevels, colLevels)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("running query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading columns: %w", err)
	}
	if len(columns) != rowLevels+colLevels+1 {
		return nil, nil, nil, fmt.Errorf("%w: got %d, want %d row + %d column + 1 value",
			ErrColumnCount, len(columns), rowLevels, colLevels)
	}
	rowNames = columns[:rowLevels]
	colNames = columns[rowLevels : rowLevels+colLevels]
	valueName := columns[len(columns)-1]

	raw := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, nil, fmt.Errorf("scanning row: %w", err)
		}
		cell := tablefile.Cell{
			Row: labelsOf(raw[:rowLevels]),
			Col: labelsOf(raw[rowLevels : rowLevels+colLevels]),
		}
		if colLevels == 0 {
			cell.Col = tablefile.Labels{valueName}
		}
		if cell.Value, err = valueOf(raw[len(raw)-1]); err != nil {
			return nil, nil, nil, fmt.Errorf("row %s: %w", types.Key(cell.Row), err)
		}
		cells = append(cells, cell)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("iterating rows: %w", err)
	}
	if colLevels == 0 {
		colNames = nil
	}
	return rowNames, colNames, cells, nil
}

// Load runs query and pivots its long-format result into a table. See Cells
// for the expected result columns.
func (s *Store) Load(ctx context.Context, query string, rowLevels, colLevels int, args ...any) (*types.Table, error) {
	rowNames, colNames, cells, err := s.Cells(ctx, query, rowLevels, colLevels, args...)
	if err != nil {
		return nil, err
	}
	return tablefile.Pivot(rowNames, colNames, cells)
}

func labelsOf(values []any) tablefile.Labels {
	out := make(tablefile.Labels, len(values))
	for i, v := range values {
		out[i] = labelOf(v)
	}
	return out
}

// labelOf renders a key column value. NULL becomes the empty label.
func labelOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

func valueOf(v any) (*float64, error) {
	var f float64
	switch x := v.(type) {
	case nil:
		return nil, nil
	case int64:
		f = float64(x)
	case float64:
		f = x
	case string, []byte:
		s := strings.TrimSpace(labelOf(x))
		if s == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrNotNumeric, s)
		}
		f = parsed
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
	return &f, nil
}
