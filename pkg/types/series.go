package types

import "fmt"

// Series is the one-dimensional shape: a single column of values addressed
// by an index axis.
type Series struct {
	Name   string
	Index  Axis
	Values []float64
	Chain  ChainState
}

// NewSeries validates that values match the index and returns an owned copy.
func NewSeries(name string, index Axis, values []float64) (*Series, error) {
	if len(values) != index.Len() {
		return nil, fmt.Errorf("%w: %d values for %d index keys",
			ErrShapeMismatch, len(values), index.Len())
	}
	return &Series{
		Name:   name,
		Index:  index.Clone(),
		Values: append([]float64(nil), values...),
		Chain:  ChainState{},
	}, nil
}

// ToTable returns the series as a one-column table whose column key is the
// series name.
func (s *Series) ToTable() *Table {
	values := make([][]float64, len(s.Values))
	for i, v := range s.Values {
		values[i] = []float64{v}
	}
	return &Table{
		Rows:   s.Index.Clone(),
		Cols:   Axis{Keys: []Key{K(s.Name)}, Levels: 1},
		Values: values,
		Chain:  s.Chain.Clone(),
	}
}

// SeriesFromColumn extracts column c of t as a series.
func SeriesFromColumn(t *Table, c int) *Series {
	return &Series{
		Name:   t.Cols.Keys[c].String(),
		Index:  t.Rows.Clone(),
		Values: t.Column(c),
		Chain:  t.Chain.Clone(),
	}
}
