package aggregate

import "github.com/mesh-intelligence/margins/pkg/types"

// ExtendIgnoreSet returns the labels recorded on t for component, plus
// newLabel and any extra labels. t is not modified; callers write the
// result onto the table they return.
//
// A table whose chain state was lost yields just newLabel and extra, so a
// single call still masks what the caller asked for.
func ExtendIgnoreSet(t *types.Table, component, newLabel string, extra ...types.LabelSet) types.LabelSet {
	return t.Chain.Labels(component).With(newLabel).Union(extra...)
}

// totalsIgnore returns the labels a totals or subtotals call records in the
// totals chain (what was recorded before, both configured aggregate labels
// and the caller's labels) and the mask it computes with, which also covers
// the percentages chain.
func totalsIgnore(t *types.Table, cfg types.AggregationConfig, label string, extra types.LabelSet) (record, mask types.LabelSet) {
	record = ExtendIgnoreSet(t, types.ComponentTotals, label, extra, cfg.AggregateLabels())
	return record, record.Union(t.Chain.Labels(types.ComponentPercentages))
}
