package aggregate

import (
	"fmt"

	"github.com/mesh-intelligence/margins/pkg/types"
)

// BaselineRef locates the baseline of a percentage computation. For Rows
// it is a row (Col is -1), for Columns a column (Row is -1), for Both a
// single cell.
type BaselineRef struct {
	Direction types.Direction
	Row       int
	Col       int
}

// Baseline finds the totals row, column or cell of t. With a label, the
// first row or column whose key carries the label is used; otherwise the
// last one. Returns ErrBaselineNotFound if the label is absent and
// ErrEmptyTable when there is nothing to pick.
func Baseline(t *types.Table, dir types.Direction, label string) (BaselineRef, error) {
	ref := BaselineRef{Direction: dir, Row: -1, Col: -1}
	var err error
	switch dir {
	case types.Rows:
		ref.Row, err = baselineIndex(t.Rows, label)
	case types.Columns:
		ref.Col, err = baselineIndex(t.Cols, label)
	case types.Both:
		if ref.Row, err = baselineIndex(t.Rows, label); err == nil {
			ref.Col, err = baselineIndex(t.Cols, label)
		}
	default:
		err = fmt.Errorf("%w: %v", types.ErrInvalidDirection, dir)
	}
	if err != nil {
		return BaselineRef{}, err
	}
	return ref, nil
}

// Divisor returns the baseline value for the cell at r, c.
func (b BaselineRef) Divisor(t *types.Table, r, c int) float64 {
	switch b.Direction {
	case types.Rows:
		return t.Values[b.Row][c]
	case types.Columns:
		return t.Values[r][b.Col]
	default:
		return t.Values[b.Row][b.Col]
	}
}

func baselineIndex(a types.Axis, label string) (int, error) {
	if a.Len() == 0 {
		return 0, types.ErrEmptyTable
	}
	if label == "" {
		return a.Len() - 1, nil
	}
	set := types.NewLabelSet(label)
	for i, k := range a.Keys {
		if k.HasAny(set) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no key carries %q", types.ErrBaselineNotFound, label)
}
