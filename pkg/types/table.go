package types

import (
	"fmt"
	"math"
)

// Table is a two-dimensional grid of values addressed by a row axis and a
// column axis. Values is row-major. Missing cells hold NaN.
//
// Chain carries the labels later operations must ignore; it is copied by
// Clone and Transpose and by every engine operation, and starts empty on a
// table built with NewTable.
type Table struct {
	Rows   Axis
	Cols   Axis
	Values [][]float64
	Chain  ChainState
}

// Missing returns the value used for a missing cell.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v is a missing cell.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// NewTable validates the shape of values against the axes and returns a
// table that owns deep copies of all three.
// Returns ErrShapeMismatch if the value grid does not match the axes.
func NewTable(rows, cols Axis, values [][]float64) (*Table, error) {
	if len(values) != rows.Len() {
		return nil, fmt.Errorf("%w: %d value rows for %d row keys",
			ErrShapeMismatch, len(values), rows.Len())
	}
	for i, r := range values {
		if len(r) != cols.Len() {
			return nil, fmt.Errorf("%w: row %d has %d values for %d column keys",
				ErrShapeMismatch, i, len(r), cols.Len())
		}
	}
	return &Table{
		Rows:   rows.Clone(),
		Cols:   cols.Clone(),
		Values: cloneGrid(values),
		Chain:  ChainState{},
	}, nil
}

// At returns the value at row r, column c.
func (t *Table) At(r, c int) float64 { return t.Values[r][c] }

// Lookup returns the value addressed by a row key and a column key.
func (t *Table) Lookup(row, col Key) (float64, bool) {
	r, c := t.Rows.Index(row), t.Cols.Index(col)
	if r < 0 || c < 0 {
		return 0, false
	}
	return t.Values[r][c], true
}

// Row returns a copy of row r.
func (t *Table) Row(r int) []float64 {
	return append([]float64(nil), t.Values[r]...)
}

// Column returns a copy of column c.
func (t *Table) Column(c int) []float64 {
	out := make([]float64, len(t.Values))
	for r := range t.Values {
		out[r] = t.Values[r][c]
	}
	return out
}

// Clone returns a deep copy including the chain state.
func (t *Table) Clone() *Table {
	return &Table{
		Rows:   t.Rows.Clone(),
		Cols:   t.Cols.Clone(),
		Values: cloneGrid(t.Values),
		Chain:  t.Chain.Clone(),
	}
}

// Transpose returns a new table with rows and columns swapped.
func (t *Table) Transpose() *Table {
	values := make([][]float64, t.Cols.Len())
	for c := range values {
		values[c] = t.Column(c)
	}
	return &Table{
		Rows:   t.Cols.Clone(),
		Cols:   t.Rows.Clone(),
		Values: values,
		Chain:  t.Chain.Clone(),
	}
}

// SelectRows returns a new table holding the rows whose mask entry is true,
// in their original order.
func (t *Table) SelectRows(mask []bool) *Table {
	out := &Table{
		Rows:  Axis{Names: t.Rows.Clone().Names, Levels: t.Rows.Levels},
		Cols:  t.Cols.Clone(),
		Chain: t.Chain.Clone(),
	}
	for i, keep := range mask {
		if keep {
			out.Rows.Keys = append(out.Rows.Keys, Key(ToComponents(t.Rows.Keys[i])))
			out.Values = append(out.Values, t.Row(i))
		}
	}
	return out
}

// AppendRow adds a row at the end. The caller is responsible for key
// uniqueness; use Axis.NewAggregateKey to build checked keys.
func (t *Table) AppendRow(key Key, values []float64) {
	t.Rows.Keys = append(t.Rows.Keys, key)
	t.Values = append(t.Values, values)
}

func cloneGrid(values [][]float64) [][]float64 {
	out := make([][]float64, len(values))
	for i, r := range values {
		out[i] = append([]float64(nil), r...)
	}
	return out
}
