// Package aggregate adds totals, subtotals and percentages to tables.
//
// Every operation takes a *types.Table, clones it, and returns the new
// table; inputs are never modified. Aggregate rows and columns are found by
// label (see SelectDataRows), so operations can be chained: a totals row
// added by one call is masked out of the next call's computation instead of
// being summed again. The labels each call must skip are kept in the
// table's Chain and, for callers that rebuild tables between steps, threaded
// explicitly by Pipeline.
//
// The cfg-driven entry points (AddTotals, AddSubtotals, AsPercentages,
// AddPercentages) read their defaults from a types.AggregationConfig
// passed on every call. AddAgg and AddSubAgg are the lower-level forms that
// take an arbitrary Reducer.
package aggregate
