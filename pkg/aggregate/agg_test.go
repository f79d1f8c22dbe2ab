package aggregate

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/margins/pkg/types"
)

func TestAddAggTotalsRow(t *testing.T) {
	tbl := newTable(t, flat("a", "b", "c"), []string{"x", "y"}, [][]float64{
		{1, 2},
		{3, 4},
		{5, 6},
	})

	out, err := AddAgg(tbl, Sum, AggOptions{Label: "Totals"})
	require.NoError(t, err)

	assert.Equal(t, 4, out.Rows.Len())
	assert.Equal(t, types.K("Totals"), out.Rows.Keys[3])
	assert.Equal(t, []float64{9, 12}, out.Row(3))
	assert.Equal(t, 3, tbl.Rows.Len(), "input must not change")
}

func TestAddAggDefaultsLabelToReducerName(t *testing.T) {
	tbl := newTable(t, flat("a", "b"), []string{"x"}, [][]float64{{1}, {3}})

	out, err := AddAgg(tbl, Mean, AggOptions{})
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, rowOf(t, out, types.K("mean")))
	assert.True(t, out.Chain.Labels(types.ComponentTotals).Has("mean"))
}

func TestAddAggColumns(t *testing.T) {
	tbl := newTable(t, flat("a", "b"), []string{"x", "y"}, [][]float64{{1, 2}, {3, 4}})

	out, err := AddAgg(tbl, Sum, AggOptions{Direction: types.Columns, Label: "Totals"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Rows.Len())
	assert.Equal(t, []float64{3, 7}, colOf(t, out, types.K("Totals")))
}

func TestAddAggBothCornerAgrees(t *testing.T) {
	tbl := newTable(t, flat("a", "b", "c"), []string{"x", "y"}, [][]float64{
		{1, 2},
		{3, 4},
		{5, 6},
	})

	out, err := AddAgg(tbl, Sum, AggOptions{Direction: types.Both, Label: "Totals"})
	require.NoError(t, err)

	rowTotals := rowOf(t, out, types.K("Totals"))
	colTotals := colOf(t, out, types.K("Totals"))
	corner := rowTotals[len(rowTotals)-1]

	assert.Equal(t, 21.0, corner)
	assert.Equal(t, Sum.Reduce(rowTotals[:len(rowTotals)-1]), corner)
	assert.Equal(t, Sum.Reduce(colTotals[:len(colTotals)-1]), corner)
}

func TestAddAggTwiceIsDuplicate(t *testing.T) {
	tbl := newTable(t, flat("a", "b"), []string{"x"}, [][]float64{{1}, {2}})

	once, err := AddAgg(tbl, Sum, AggOptions{Label: "Totals"})
	require.NoError(t, err)

	_, err = AddAgg(once, Sum, AggOptions{Label: "Totals"})
	if !errors.Is(err, types.ErrDuplicateAggregate) {
		t.Fatalf("expected ErrDuplicateAggregate, got %v", err)
	}
}

func TestAddAggPadsHierarchicalKey(t *testing.T) {
	tbl := newTable(t, []types.Key{
		types.K("A", "x", "1"),
		types.K("A", "y", "2"),
	}, []string{"v"}, [][]float64{{1}, {2}})

	out, err := AddAgg(tbl, Sum, AggOptions{Label: "Totals", Fill: "-"})
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, rowOf(t, out, types.K("Totals", "-", "-")))
}

func TestAddAggInvalidDirection(t *testing.T) {
	tbl := newTable(t, flat("a"), []string{"x"}, [][]float64{{1}})
	_, err := AddAgg(tbl, Sum, AggOptions{Direction: types.Direction(9)})
	assert.ErrorIs(t, err, types.ErrInvalidDirection)
}

// randomTable builds a two-level table where roughly one row in four is a
// previously inserted subtotal and some cells are missing.
func randomTable(t *testing.T, rng *rand.Rand) *types.Table {
	t.Helper()
	nrows, ncols := 1+rng.IntN(8), 1+rng.IntN(4)
	keys := make([]types.Key, nrows)
	values := make([][]float64, nrows)
	for i := range keys {
		group := fmt.Sprintf("g%d", rng.IntN(3))
		if rng.IntN(4) == 0 {
			keys[i] = types.K(group, fmt.Sprintf("Subtotals-%d", i), "Subtotals")
		} else {
			keys[i] = types.K(group, fmt.Sprintf("r%d", i), "")
		}
		values[i] = make([]float64, ncols)
		for c := range values[i] {
			if rng.IntN(10) == 0 {
				values[i][c] = math.NaN()
			} else {
				values[i][c] = math.Round(rng.Float64()*1000) / 10
			}
		}
	}
	cols := make([]string, ncols)
	for c := range cols {
		cols[c] = fmt.Sprintf("c%d", c)
	}
	return newTable(t, keys, cols, values)
}

func TestAddAggSumInvariant(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	ignore := types.NewLabelSet("Subtotals")

	for trial := 0; trial < 100; trial++ {
		tbl := randomTable(t, rng)
		out, err := AddAgg(tbl, Sum, AggOptions{Label: "Totals", Ignore: ignore})
		require.NoError(t, err)

		last := out.Rows.Len() - 1
		require.Equal(t, types.K("Totals", "", ""), out.Rows.Keys[last])
		require.Len(t, out.Rows.Keys[last], out.Rows.Levels)

		for c := 0; c < tbl.Cols.Len(); c++ {
			want := 0.0
			for r, k := range tbl.Rows.Keys {
				if k.HasAny(ignore) || types.IsMissing(tbl.At(r, c)) {
					continue
				}
				want += tbl.At(r, c)
			}
			assert.InDelta(t, want, out.At(last, c), 1e-9, "trial %d column %d", trial, c)
		}
	}
}
