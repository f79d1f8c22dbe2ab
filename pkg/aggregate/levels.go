package aggregate

import (
	"github.com/mesh-intelligence/margins/pkg/types"
)

// AddLevel inserts value as a new component into every key along dir, at
// position (negative appends). When the axis has level names, name is
// inserted at the same position.
func AddLevel(t *types.Table, dir types.Direction, value string, position int, name string) (*types.Table, error) {
	return alongDirection(t, dir, func(w *types.Table) (*types.Table, error) {
		w.Rows = insertLevel(w.Rows, value, position, name)
		return w, nil
	})
}

func insertLevel(a types.Axis, value string, position int, name string) types.Axis {
	out := types.Axis{Levels: a.Levels + 1, Keys: make([]types.Key, len(a.Keys))}
	for i, k := range a.Keys {
		out.Keys[i] = types.InsertComponent(k, value, position)
	}
	if a.Names != nil || name != "" {
		names := a.Names
		if names == nil {
			names = make([]string, a.Levels)
		}
		out.Names = types.InsertComponent(types.Key(names), name, position)
	}
	return out
}

// DropAggregates removes the rows or columns along dir whose key carries
// any of labels.
func DropAggregates(t *types.Table, dir types.Direction, labels types.LabelSet) (*types.Table, error) {
	return alongDirection(t, dir, func(w *types.Table) (*types.Table, error) {
		return w.SelectRows(SelectDataRows(w.Rows.Keys, labels)), nil
	})
}
