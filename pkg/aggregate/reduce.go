package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mesh-intelligence/margins/pkg/types"
)

// Reducer folds the values of one column (or row) into a single value.
// Name doubles as the default aggregate label.
type Reducer struct {
	Name   string
	Reduce func(values []float64) float64
}

// Built-in reducers. Missing values are skipped; Sum and Count of nothing
// are 0, the others return a missing value.
var (
	Sum    = Reducer{Name: "sum", Reduce: sum}
	Mean   = Reducer{Name: "mean", Reduce: mean}
	Count  = Reducer{Name: "count", Reduce: count}
	Min    = Reducer{Name: "min", Reduce: minimum}
	Max    = Reducer{Name: "max", Reduce: maximum}
	Median = Reducer{Name: "median", Reduce: median}
)

var reducers = map[string]Reducer{
	Sum.Name:    Sum,
	Mean.Name:   Mean,
	Count.Name:  Count,
	Min.Name:    Min,
	Max.Name:    Max,
	Median.Name: Median,
}

// ReducerByName returns the built-in reducer with the given name.
func ReducerByName(name string) (Reducer, error) {
	r, ok := reducers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Reducer{}, fmt.Errorf("%w: %q", types.ErrUnknownReducer, name)
	}
	return r, nil
}

// ReducerNames returns the names of the built-in reducers, sorted.
func ReducerNames() []string {
	names := make([]string, 0, len(reducers))
	for n := range reducers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !types.IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range present(values) {
		total += v
	}
	return total
}

func count(values []float64) float64 {
	return float64(len(present(values)))
}

func mean(values []float64) float64 {
	vs := present(values)
	if len(vs) == 0 {
		return types.Missing()
	}
	return sum(vs) / float64(len(vs))
}

func minimum(values []float64) float64 {
	vs := present(values)
	if len(vs) == 0 {
		return types.Missing()
	}
	m := vs[0]
	for _, v := range vs[1:] {
		m = math.Min(m, v)
	}
	return m
}

func maximum(values []float64) float64 {
	vs := present(values)
	if len(vs) == 0 {
		return types.Missing()
	}
	m := vs[0]
	for _, v := range vs[1:] {
		m = math.Max(m, v)
	}
	return m
}

func median(values []float64) float64 {
	vs := present(values)
	if len(vs) == 0 {
		return types.Missing()
	}
	sort.Float64s(vs)
	mid := len(vs) / 2
	if len(vs)%2 == 1 {
		return vs[mid]
	}
	return (vs[mid-1] + vs[mid]) / 2
}

// reduceRows applies r to each column of t over the given rows.
func reduceRows(t *types.Table, r Reducer, rows []int) []float64 {
	out := make([]float64, t.Cols.Len())
	buf := make([]float64, len(rows))
	for c := range out {
		for i, row := range rows {
			buf[i] = t.Values[row][c]
		}
		out[c] = r.Reduce(buf)
	}
	return out
}
