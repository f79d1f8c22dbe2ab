package aggregate

import "github.com/mesh-intelligence/margins/pkg/types"

// TotalsOptions configures AddTotals.
type TotalsOptions struct {
	Direction types.Direction
	// Label overrides cfg.TotalsLabel.
	Label string
	// Ignore adds labels to the ones recorded on the table.
	Ignore types.LabelSet
}

// SubtotalsOptions configures AddSubtotals.
type SubtotalsOptions struct {
	Direction types.Direction
	Levels    []int
	// Label overrides cfg.SubtotalsLabel.
	Label            string
	Ignore           types.LabelSet
	IncludeLevelName bool
}

// AddTotals appends grand totals (sums) using the labels and fill from cfg.
// Rows and columns recorded in the table's chain state, and any carrying the
// configured totals or subtotals label, are left out.
func AddTotals(t *types.Table, cfg types.AggregationConfig, opts TotalsOptions) (*types.Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	label := opts.Label
	if label == "" {
		label = cfg.TotalsLabel
	}
	record, ignore := totalsIgnore(t, cfg, label, opts.Ignore)

	out, err := AddAgg(t, Sum, AggOptions{
		Direction: opts.Direction,
		Label:     label,
		Ignore:    ignore,
		Fill:      cfg.Fill,
	})
	if err != nil {
		return nil, err
	}
	out.Chain = out.Chain.Merge(types.ComponentTotals, record)
	return out, nil
}

// AddSubtotals inserts subtotals (sums) at the requested levels using the
// labels, fill and single-row policy from cfg.
func AddSubtotals(t *types.Table, cfg types.AggregationConfig, opts SubtotalsOptions) (*types.Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	label := opts.Label
	if label == "" {
		label = cfg.SubtotalsLabel
	}
	record, ignore := totalsIgnore(t, cfg, label, opts.Ignore)

	out, err := AddSubAgg(t, Sum, SubAggOptions{
		Direction:        opts.Direction,
		Levels:           opts.Levels,
		Label:            label,
		Ignore:           ignore,
		Fill:             cfg.Fill,
		SkipSingleRows:   cfg.SkipSingleRows,
		IncludeLevelName: opts.IncludeLevelName,
	})
	if err != nil {
		return nil, err
	}
	out.Chain = out.Chain.Merge(types.ComponentTotals, record)
	return out, nil
}
