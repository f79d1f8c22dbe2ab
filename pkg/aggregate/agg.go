package aggregate

import (
	"fmt"

	"github.com/mesh-intelligence/margins/pkg/types"
)

// AggOptions configures AddAgg.
type AggOptions struct {
	// Direction selects rows (append an aggregate row), columns (append an
	// aggregate column) or both, rows first.
	Direction types.Direction
	// Label names the aggregate. Empty means the reducer name.
	Label string
	// Ignore holds labels of rows or columns to leave out of the
	// computation. Label is always added.
	Ignore types.LabelSet
	// Fill pads the aggregate key on hierarchical axes.
	Fill string
}

// AddAgg appends one aggregate row or column computed by r over the data
// rows or columns of t. Rows and columns carrying an ignore label, or the
// aggregate's own label, are not part of the computation.
//
// It returns ErrDuplicateAggregate if the aggregate key is already on the
// axis. The label is recorded in the result's totals chain.
func AddAgg(t *types.Table, r Reducer, opts AggOptions) (*types.Table, error) {
	label := opts.Label
	if label == "" {
		label = r.Name
	}
	if label == "" {
		return nil, types.ErrLabelEmpty
	}
	ignore := opts.Ignore.With(label)

	out, err := alongDirection(t, opts.Direction, func(w *types.Table) (*types.Table, error) {
		return appendAggregate(w, r, label, ignore, opts.Fill)
	})
	if err != nil {
		return nil, err
	}
	out.Chain = out.Chain.Merge(types.ComponentTotals, types.NewLabelSet(label))
	return out, nil
}

// appendAggregate adds the aggregate row to w in place.
func appendAggregate(w *types.Table, r Reducer, label string, ignore types.LabelSet, fill string) (*types.Table, error) {
	key, err := w.Rows.NewAggregateKey(nil, label, fill)
	if err != nil {
		return nil, err
	}
	rows := SelectedIndices(SelectDataRows(w.Rows.Keys, ignore))
	w.AppendRow(key, reduceRows(w, r, rows))
	return w, nil
}

// alongDirection runs fn on a private copy of t laid out so that fn always
// works on rows. Columns are handled by transposing around fn; Both runs
// rows then columns. fn may modify the table it is given.
func alongDirection(t *types.Table, dir types.Direction, fn func(*types.Table) (*types.Table, error)) (*types.Table, error) {
	switch dir {
	case types.Rows:
		return fn(t.Clone())
	case types.Columns:
		out, err := fn(t.Transpose())
		if err != nil {
			return nil, err
		}
		return out.Transpose(), nil
	case types.Both:
		out, err := alongDirection(t, types.Rows, fn)
		if err != nil {
			return nil, err
		}
		return alongDirection(out, types.Columns, fn)
	default:
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidDirection, dir)
	}
}
