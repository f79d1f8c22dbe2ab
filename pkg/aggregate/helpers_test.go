package aggregate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/margins/pkg/types"
)

// newTable builds a table with the given row keys and flat column labels.
func newTable(t *testing.T, rows []types.Key, cols []string, values [][]float64) *types.Table {
	t.Helper()
	ra, err := types.NewAxis(nil, rows...)
	require.NoError(t, err)
	ca, err := types.FlatAxis("", cols...)
	require.NoError(t, err)
	tbl, err := types.NewTable(ra, ca, values)
	require.NoError(t, err)
	return tbl
}

// newGrid builds a table with arbitrary row and column keys.
func newGrid(t *testing.T, rows, cols []types.Key, values [][]float64) *types.Table {
	t.Helper()
	ra, err := types.NewAxis(nil, rows...)
	require.NoError(t, err)
	ca, err := types.NewAxis(nil, cols...)
	require.NoError(t, err)
	tbl, err := types.NewTable(ra, ca, values)
	require.NoError(t, err)
	return tbl
}

func flat(labels ...string) []types.Key {
	keys := make([]types.Key, len(labels))
	for i, l := range labels {
		keys[i] = types.K(l)
	}
	return keys
}

// rowOf returns the values of the row with key, failing if it is absent.
func rowOf(t *testing.T, tbl *types.Table, key types.Key) []float64 {
	t.Helper()
	i := tbl.Rows.Index(key)
	require.GreaterOrEqual(t, i, 0, "row %s not found in %v", key, tbl.Rows.Keys)
	return tbl.Row(i)
}

// colOf returns the values of the column with key, failing if it is absent.
func colOf(t *testing.T, tbl *types.Table, key types.Key) []float64 {
	t.Helper()
	i := tbl.Cols.Index(key)
	require.GreaterOrEqual(t, i, 0, "column %s not found in %v", key, tbl.Cols.Keys)
	return tbl.Column(i)
}
