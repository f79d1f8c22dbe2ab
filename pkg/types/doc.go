// Package types defines the table model used by the margins engine: axis
// keys, axes, tables and series, the label sets that mark aggregate rows and
// columns, the per-table chaining state, the aggregation configuration, and
// the standard errors.
//
// The engine itself lives in package aggregate; types has no behaviour
// beyond construction, validation and copying.
package types
