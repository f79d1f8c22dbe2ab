package aggregate

import (
	"fmt"
	"sort"

	"github.com/mesh-intelligence/margins/pkg/types"
)

// SubAggOptions configures AddSubAgg.
type SubAggOptions struct {
	Direction types.Direction
	// Levels lists the grouping levels. A subtotal at level L sums each block
	// of keys sharing components 0..L and is keyed by that prefix followed
	// by the label. Negative levels count from the innermost level. Empty
	// means level 0.
	Levels []int
	// Label names the subtotals. Empty means the reducer name.
	Label  string
	Ignore types.LabelSet
	Fill   string
	// SkipSingleRows leaves out subtotals of groups with a single data row.
	// Groups with no data rows are always skipped.
	SkipSingleRows bool
	// IncludeLevelName appends the group's value at the grouping level to
	// the label, as in "Subtotals 2023".
	IncludeLevelName bool
}

// AddSubAgg inserts a subtotal computed by r after each group of keys at
// each requested level. Levels are processed deepest first so that a
// subtotal added at a deep level is masked out of a shallower one.
//
// The axis must be hierarchical and every level must satisfy
// 0 <= level < Levels-1 after wrapping, else ErrInvalidLevel.
func AddSubAgg(t *types.Table, r Reducer, opts SubAggOptions) (*types.Table, error) {
	label := opts.Label
	if label == "" {
		label = r.Name
	}
	if label == "" {
		return nil, types.ErrLabelEmpty
	}
	threshold := 0
	if opts.SkipSingleRows {
		threshold = 1
	}
	recorded := types.NewLabelSet(label)

	out, err := alongDirection(t, opts.Direction, func(w *types.Table) (*types.Table, error) {
		levels, err := subtotalLevels(w.Rows, opts.Levels)
		if err != nil {
			return nil, err
		}
		ignore := opts.Ignore.With(label)
		for _, level := range levels {
			var added types.LabelSet
			w, added, err = insertSubtotals(w, r, level, subtotalPass{
				label:     label,
				ignore:    ignore,
				fill:      opts.Fill,
				threshold: threshold,
				withName:  opts.IncludeLevelName,
			})
			if err != nil {
				return nil, err
			}
			ignore = ignore.Union(added)
			recorded = recorded.Union(added)
		}
		return w, nil
	})
	if err != nil {
		return nil, err
	}
	out.Chain = out.Chain.Merge(types.ComponentTotals, recorded)
	return out, nil
}

// subtotalLevels wraps, checks, de-duplicates and sorts levels deepest
// first.
func subtotalLevels(axis types.Axis, levels []int) ([]int, error) {
	if !axis.Hierarchical() {
		return nil, fmt.Errorf("%w: subtotals need a hierarchical axis", types.ErrInvalidLevel)
	}
	if len(levels) == 0 {
		levels = []int{0}
	}
	seen := make(map[int]bool, len(levels))
	out := make([]int, 0, len(levels))
	for _, l := range levels {
		abs, err := axis.AbsoluteLevel(l)
		if err != nil {
			return nil, err
		}
		if abs >= axis.Levels-1 {
			return nil, fmt.Errorf("%w: level %d is the innermost level of %d",
				types.ErrInvalidLevel, abs, axis.Levels)
		}
		if !seen[abs] {
			seen[abs] = true
			out = append(out, abs)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out, nil
}

type subtotalPass struct {
	label     string
	ignore    types.LabelSet
	fill      string
	threshold int
	withName  bool
}

type keyGroup struct {
	prefix []string
	rows   []int
}

// groupRows groups the rows of w by their first level+1 components, in the
// order each group is first encountered.
func groupRows(w *types.Table, level int) []*keyGroup {
	var order []*keyGroup
	byPrefix := make(map[string]*keyGroup)
	for i, k := range w.Rows.Keys {
		prefix := k[:level+1]
		id := prefix.ID()
		g, ok := byPrefix[id]
		if !ok {
			g = &keyGroup{prefix: types.ToComponents(prefix)}
			byPrefix[id] = g
			order = append(order, g)
		}
		g.rows = append(g.rows, i)
	}
	return order
}

// insertSubtotals runs one grouping pass at level and returns the new table
// along with the labels of the subtotals it inserted.
func insertSubtotals(w *types.Table, r Reducer, level int, p subtotalPass) (*types.Table, types.LabelSet, error) {
	out := &types.Table{
		Rows:  types.Axis{Names: w.Rows.Clone().Names, Levels: w.Rows.Levels},
		Cols:  w.Cols,
		Chain: w.Chain,
	}
	added := types.LabelSet{}
	for _, g := range groupRows(w, level) {
		for _, i := range g.rows {
			out.AppendRow(w.Rows.Keys[i], w.Values[i])
		}

		keys := make([]types.Key, len(g.rows))
		for j, i := range g.rows {
			keys[j] = w.Rows.Keys[i]
		}
		mask := SelectDataRows(keys, p.ignore)
		if CountSelected(mask) <= p.threshold {
			continue
		}

		label := p.label
		if p.withName {
			label = p.label + " " + g.prefix[level]
		}
		key, err := w.Rows.NewAggregateKey(g.prefix, label, p.fill)
		if err != nil {
			return nil, nil, err
		}
		data := make([]int, 0, len(g.rows))
		for j, ok := range mask {
			if ok {
				data = append(data, g.rows[j])
			}
		}
		out.AppendRow(key, reduceRows(w, r, data))
		added[label] = struct{}{}
	}
	return out, added, nil
}
