package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/margins/pkg/types"
)

func TestReducers(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		reducer Reducer
		values  []float64
		want    float64
	}{
		{Sum, []float64{1, 2, nan, 3}, 6},
		{Sum, nil, 0},
		{Count, []float64{1, nan, 3}, 2},
		{Mean, []float64{1, nan, 3}, 2},
		{Min, []float64{4, -1, nan}, -1},
		{Max, []float64{4, -1, nan}, 4},
		{Median, []float64{5, 1, 3}, 3},
		{Median, []float64{4, 1, 3, 2}, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.reducer.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.reducer.Reduce(tt.values))
		})
	}
}

func TestReducersOfNothingAreMissing(t *testing.T) {
	for _, r := range []Reducer{Mean, Min, Max, Median} {
		if got := r.Reduce([]float64{math.NaN()}); !types.IsMissing(got) {
			t.Errorf("%s of missing values = %v, want missing", r.Name, got)
		}
	}
}

func TestReducerByName(t *testing.T) {
	r, err := ReducerByName(" Mean ")
	require.NoError(t, err)
	assert.Equal(t, "mean", r.Name)

	_, err = ReducerByName("mode")
	assert.ErrorIs(t, err, types.ErrUnknownReducer)

	assert.Equal(t, []string{"count", "max", "mean", "median", "min", "sum"}, ReducerNames())
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Median.Reduce(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}
