package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mesh-intelligence/margins/pkg/types"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const valueColumn = "value"

// Save writes t to the database table name in long format: one row per
// cell with the row key components, the column key components and the
// value. An existing table of the same name is replaced. The table shape and
// chain state are recorded in the catalog so LoadTable can rebuild t.
// Saving is transactional: on error the database is unchanged.
func (s *Store) Save(ctx context.Context, name string, t *types.Table) error {
	if err := checkName(name); err != nil {
		return err
	}
	rowCols, colCols := columnNames(t)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	for _, ddl := range catalogDDL {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating catalog: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM margins_tables WHERE name = ?", name); err != nil {
		return fmt.Errorf("clearing catalog entry: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(name)); err != nil {
		return fmt.Errorf("dropping %s: %w", name, err)
	}

	all := append(append(append([]string(nil), rowCols...), colCols...), valueColumn)
	defs := make([]string, len(all))
	for i, c := range all {
		defs[i] = quote(c) + " TEXT NOT NULL"
	}
	defs[len(defs)-1] = quote(valueColumn) + " REAL"
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", quote(name), strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO margins_tables (name, row_levels, col_levels, row_names_set, col_names_set, saved_at) VALUES (?, ?, ?, ?, ?, ?)",
		name, t.Rows.Levels, t.Cols.Levels, len(t.Rows.Names) > 0, len(t.Cols.Names) > 0,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("recording %s in catalog: %w", name, err)
	}

	if err := insertCells(ctx, tx, name, all, t); err != nil {
		return err
	}
	for _, component := range sortedComponents(t.Chain) {
		for _, label := range t.Chain.Labels(component).Sorted() {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO margins_chain (table_name, component, label) VALUES (?, ?, ?)",
				name, component, label); err != nil {
				return fmt.Errorf("recording chain state: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}

func insertCells(ctx context.Context, tx *sql.Tx, name string, columns []string, t *types.Table) error {
	placeholders := make([]string, len(columns))
	quoted := make([]string, len(columns))
	for i, c := range columns {
		placeholders[i] = "?"
		quoted[i] = quote(c)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(name), strings.Join(quoted, ", "), strings.Join(placeholders, ", ")))
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", name, err)
	}
	defer stmt.Close()

	args := make([]any, len(columns))
	for r, rowKey := range t.Rows.Keys {
		n := 0
		for _, l := range types.ToComponents(rowKey) {
			args[n] = l
			n++
		}
		for c, colKey := range t.Cols.Keys {
			m := n
			for _, l := range types.ToComponents(colKey) {
				args[m] = l
				m++
			}
			if v := t.At(r, c); types.IsMissing(v) {
				args[m] = nil
			} else {
				args[m] = v
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("inserting cell %s x %s: %w", rowKey, colKey, err)
			}
		}
	}
	return nil
}

// LoadTable reads back a table written by Save.
func (s *Store) LoadTable(ctx context.Context, name string) (*types.Table, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	for _, ddl := range catalogDDL {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("creating catalog: %w", err)
		}
	}

	var (
		rowLevels, colLevels     int
		rowNamesSet, colNamesSet bool
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT row_levels, col_levels, row_names_set, col_names_set FROM margins_tables WHERE name = ?", name).
		Scan(&rowLevels, &colLevels, &rowNamesSet, &colNamesSet)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotSaved, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	t, err := s.Load(ctx, "SELECT * FROM "+quote(name)+" ORDER BY rowid", rowLevels, colLevels)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	if !rowNamesSet {
		t.Rows.Names = nil
	}
	if !colNamesSet {
		t.Cols.Names = nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT component, label FROM margins_chain WHERE table_name = ? ORDER BY component, label", name)
	if err != nil {
		return nil, fmt.Errorf("reading chain state: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var component, label string
		if err := rows.Scan(&component, &label); err != nil {
			return nil, fmt.Errorf("scanning chain state: %w", err)
		}
		t.Chain = t.Chain.Merge(component, types.NewLabelSet(label))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chain state: %w", err)
	}
	return t, nil
}

// SavedTables returns the names of the tables written by Save.
func (s *Store) SavedTables(ctx context.Context) ([]string, error) {
	for _, ddl := range catalogDDL {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("creating catalog: %w", err)
		}
	}
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM margins_tables ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing saved tables: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func checkName(name string) error {
	if !identPattern.MatchString(name) || strings.HasPrefix(strings.ToLower(name), "margins_") ||
		strings.HasPrefix(strings.ToLower(name), "sqlite_") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// columnNames picks the long-format column names. Level names are used when
// every one is set and distinct; otherwise row_1.. and col_1.. are used.
func columnNames(t *types.Table) (rowCols, colCols []string) {
	rowCols = generated("row", t.Rows.Levels)
	colCols = generated("col", t.Cols.Levels)
	if len(t.Rows.Names) == t.Rows.Levels && len(t.Cols.Names) == t.Cols.Levels {
		seen := map[string]bool{valueColumn: true}
		ok := true
		for _, n := range append(append([]string(nil), t.Rows.Names...), t.Cols.Names...) {
			key := strings.ToLower(n)
			if n == "" || seen[key] {
				ok = false
				break
			}
			seen[key] = true
		}
		if ok {
			return t.Rows.Names, t.Cols.Names
		}
	}
	return rowCols, colCols
}

func generated(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s_%d", prefix, i+1)
	}
	return out
}

func sortedComponents(c types.ChainState) []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	return types.NewLabelSet(out...).Sorted()
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
