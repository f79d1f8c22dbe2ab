package aggregate

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/margins/pkg/types"
)

func groupedTable(t *testing.T) *types.Table {
	t.Helper()
	return newTable(t, []types.Key{
		types.K("A", "1"),
		types.K("A", "2"),
		types.K("A", "3"),
		types.K("B", "4"),
		types.K("B", "5"),
	}, []string{"v"}, [][]float64{{1}, {2}, {3}, {4}, {5}})
}

func TestAddSubAggGroups(t *testing.T) {
	out, err := AddSubAgg(groupedTable(t), Sum, SubAggOptions{
		Label:          "Subtotals",
		SkipSingleRows: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []types.Key{
		types.K("A", "1"),
		types.K("A", "2"),
		types.K("A", "3"),
		types.K("A", "Subtotals"),
		types.K("B", "4"),
		types.K("B", "5"),
		types.K("B", "Subtotals"),
	}, out.Rows.Keys)
	assert.Equal(t, []float64{6}, rowOf(t, out, types.K("A", "Subtotals")))
	assert.Equal(t, []float64{9}, rowOf(t, out, types.K("B", "Subtotals")))
}

func TestAddSubAggSkipSingleRows(t *testing.T) {
	tbl := newTable(t, []types.Key{
		types.K("A", "1"),
		types.K("A", "2"),
		types.K("B", "3"),
	}, []string{"v"}, [][]float64{{1}, {2}, {7}})

	tests := []struct {
		name     string
		skip     bool
		wantB    bool
		wantRows int
	}{
		{"skip single rows", true, false, 4},
		{"keep single rows", false, true, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := AddSubAgg(tbl, Sum, SubAggOptions{Label: "Subtotals", SkipSingleRows: tt.skip})
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, out.Rows.Len())
			assert.Equal(t, tt.wantB, out.Rows.Contains(types.K("B", "Subtotals")))
			if tt.wantB {
				assert.Equal(t, []float64{7}, rowOf(t, out, types.K("B", "Subtotals")))
			}
		})
	}
}

func TestAddSubAggInvalidLevels(t *testing.T) {
	flatTbl := newTable(t, flat("a", "b"), []string{"v"}, [][]float64{{1}, {2}})
	twoLevel := groupedTable(t)

	tests := []struct {
		name   string
		tbl    *types.Table
		levels []int
	}{
		{"flat axis", flatTbl, []int{0}},
		{"innermost level", twoLevel, []int{1}},
		{"negative innermost", twoLevel, []int{-1}},
		{"beyond axis", twoLevel, []int{5}},
		{"below axis", twoLevel, []int{-3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddSubAgg(tt.tbl, Sum, SubAggOptions{Label: "S", Levels: tt.levels})
			assert.ErrorIs(t, err, types.ErrInvalidLevel)
		})
	}

	t.Run("negative wraps to valid level", func(t *testing.T) {
		_, err := AddSubAgg(twoLevel, Sum, SubAggOptions{Label: "S", Levels: []int{-2}})
		assert.NoError(t, err)
	})
}

func threeLevelTable(t *testing.T) *types.Table {
	t.Helper()
	return newTable(t, []types.Key{
		types.K("A", "x", "1"),
		types.K("A", "x", "2"),
		types.K("A", "y", "3"),
		types.K("B", "z", "4"),
		types.K("B", "z", "5"),
	}, []string{"v"}, [][]float64{{1}, {2}, {3}, {4}, {5}})
}

func TestAddSubAggDeepestFirst(t *testing.T) {
	out, err := AddSubAgg(threeLevelTable(t), Sum, SubAggOptions{
		Label:  "S",
		Levels: []int{0, 1, 0},
	})
	require.NoError(t, err)

	assert.Equal(t, []types.Key{
		types.K("A", "x", "1"),
		types.K("A", "x", "2"),
		types.K("A", "x", "S"),
		types.K("A", "y", "3"),
		types.K("A", "y", "S"),
		types.K("A", "S", ""),
		types.K("B", "z", "4"),
		types.K("B", "z", "5"),
		types.K("B", "z", "S"),
		types.K("B", "S", ""),
	}, out.Rows.Keys)
	assert.Equal(t, []float64{6}, rowOf(t, out, types.K("A", "S", "")))
	assert.Equal(t, []float64{9}, rowOf(t, out, types.K("B", "S", "")))

	for _, k := range out.Rows.Keys {
		assert.Len(t, k, out.Rows.Levels)
	}
}

func TestAddSubAggLevelsCommute(t *testing.T) {
	tbl := threeLevelTable(t)
	opts := func(levels ...int) SubAggOptions {
		return SubAggOptions{Label: "S", Levels: levels}
	}

	deep, err := AddSubAgg(tbl, Sum, opts(1))
	require.NoError(t, err)
	sequential, err := AddSubAgg(deep, Sum, opts(0))
	require.NoError(t, err)

	together, err := AddSubAgg(tbl, Sum, opts(0, 1))
	require.NoError(t, err)
	assert.Equal(t, together.Rows.Keys, sequential.Rows.Keys)
	assert.Equal(t, together.Values, sequential.Values)

	shallow, err := AddSubAgg(tbl, Sum, opts(0))
	require.NoError(t, err)
	for _, key := range []types.Key{types.K("A", "S", ""), types.K("B", "S", "")} {
		assert.Equal(t, rowOf(t, shallow, key), rowOf(t, sequential, key))
	}
}

func TestAddSubAggIncludeLevelName(t *testing.T) {
	out, err := AddSubAgg(groupedTable(t), Sum, SubAggOptions{
		Label:            "Subtotals",
		IncludeLevelName: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{6}, rowOf(t, out, types.K("A", "Subtotals A")))
	assert.Equal(t, []float64{9}, rowOf(t, out, types.K("B", "Subtotals B")))
	recorded := out.Chain.Labels(types.ComponentTotals)
	assert.True(t, recorded.Has("Subtotals A"))
	assert.True(t, recorded.Has("Subtotals B"))
}

func TestAddSubAggLevelByName(t *testing.T) {
	tbl := threeLevelTable(t)
	tbl.Rows.Names = []string{"region", "city", "shop"}

	level, err := tbl.Rows.ResolveLevel("city")
	require.NoError(t, err)
	out, err := AddSubAgg(tbl, Sum, SubAggOptions{Label: "S", Levels: []int{level}})
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, rowOf(t, out, types.K("A", "x", "S")))
	assert.Equal(t, []string{"region", "city", "shop"}, out.Rows.Names)
}

func TestAddSubAggRandomGroupsSum(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for trial := 0; trial < 50; trial++ {
		tbl := randomTable(t, rng)
		ignore := types.NewLabelSet("Subtotals")
		out, err := AddSubAgg(tbl, Sum, SubAggOptions{Label: "S", Ignore: ignore})
		require.NoError(t, err)

		for i, k := range out.Rows.Keys {
			if k[1] != "S" {
				continue
			}
			want := 0.0
			for r, src := range tbl.Rows.Keys {
				if src[0] == k[0] && !src.HasAny(ignore) && !types.IsMissing(tbl.At(r, 0)) {
					want += tbl.At(r, 0)
				}
			}
			assert.InDelta(t, want, out.At(i, 0), 1e-9, "trial %d group %s", trial, k[0])
		}
	}
}

func TestAddSubAggAcrossAxes(t *testing.T) {
	rows := []types.Key{
		types.K("A", "a1"), types.K("A", "a2"), types.K("A", "a3"),
		types.K("B", "b1"), types.K("B", "b2"),
	}
	cols := []types.Key{
		types.K("X", "x1"), types.K("X", "x2"),
		types.K("Y", "y1"), types.K("Y", "y2"),
	}
	tbl := newGrid(t, rows, cols, [][]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{13, 14, 15, 16},
		{17, 18, 19, 20},
	})

	both := func(r Reducer, first, second types.Direction) *types.Table {
		out, err := AddSubAgg(tbl, r, SubAggOptions{Direction: first})
		require.NoError(t, err)
		out, err = AddSubAgg(out, r, SubAggOptions{Direction: second})
		require.NoError(t, err)
		return out
	}

	t.Run("sum commutes", func(t *testing.T) {
		rowsFirst := both(Sum, types.Rows, types.Columns)
		colsFirst := both(Sum, types.Columns, types.Rows)
		assert.Equal(t, rowsFirst.Rows.Keys, colsFirst.Rows.Keys)
		assert.Equal(t, rowsFirst.Cols.Keys, colsFirst.Cols.Keys)
		assert.Equal(t, rowsFirst.Values, colsFirst.Values)

		viaBoth, err := AddSubAgg(tbl, Sum, SubAggOptions{Direction: types.Both})
		require.NoError(t, err)
		assert.Equal(t, rowsFirst.Values, viaBoth.Values)
	})

	t.Run("count does not commute", func(t *testing.T) {
		rowsFirst := both(Count, types.Rows, types.Columns)
		colsFirst := both(Count, types.Columns, types.Rows)
		r, c := types.K("A", "count"), types.K("X", "count")

		v1, ok := rowsFirst.Lookup(r, c)
		require.True(t, ok)
		v2, ok := colsFirst.Lookup(r, c)
		require.True(t, ok)
		assert.Equal(t, 2.0, v1)
		assert.Equal(t, 3.0, v2)
	})
}
