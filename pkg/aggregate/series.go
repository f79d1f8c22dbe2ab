package aggregate

import "github.com/mesh-intelligence/margins/pkg/types"

// AddTotalsSeries appends the total of s as a last element.
func AddTotalsSeries(s *types.Series, cfg types.AggregationConfig, opts TotalsOptions) (*types.Series, error) {
	opts.Direction = types.Rows
	out, err := AddTotals(s.ToTable(), cfg, opts)
	if err != nil {
		return nil, err
	}
	return seriesResult(s, out), nil
}

// AddSubtotalsSeries inserts subtotals into a series with a hierarchical
// index.
func AddSubtotalsSeries(s *types.Series, cfg types.AggregationConfig, opts SubtotalsOptions) (*types.Series, error) {
	opts.Direction = types.Rows
	out, err := AddSubtotals(s.ToTable(), cfg, opts)
	if err != nil {
		return nil, err
	}
	return seriesResult(s, out), nil
}

// AsPercentagesSeries returns s as shares of its total, which is the last
// element unless opts.BaselineLabel names another.
func AsPercentagesSeries(s *types.Series, cfg types.AggregationConfig, opts PercentOptions) (*types.Series, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts.Direction = types.Rows
	work, err := seriesWork(s, cfg, opts)
	if err != nil {
		return nil, err
	}
	pct, err := percentagesOf(work, cfg, opts)
	if err != nil {
		return nil, err
	}
	if pct, err = dropBaseline(pct, cfg, opts); err != nil {
		return nil, err
	}
	return seriesResult(s, pct), nil
}

// AddPercentagesSeries returns a two-column table: the values of s under
// cfg.LabelN and their percentages under cfg.LabelPct.
func AddPercentagesSeries(s *types.Series, cfg types.AggregationConfig, opts PercentOptions) (*types.Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts.Direction = types.Rows
	work, err := seriesWork(s, cfg, opts)
	if err != nil {
		return nil, err
	}
	pct, err := percentagesOf(work, cfg, opts)
	if err != nil {
		return nil, err
	}
	if pct, err = dropBaseline(pct, cfg, opts); err != nil {
		return nil, err
	}
	if work, err = dropBaseline(work, cfg, opts); err != nil {
		return nil, err
	}

	var names []string
	if s.Name != "" {
		names = []string{s.Name}
	}
	cols, err := types.NewAxis(names, types.K(cfg.LabelN), types.K(cfg.LabelPct))
	if err != nil {
		return nil, err
	}
	values := make([][]float64, work.Rows.Len())
	for r := range values {
		values[r] = []float64{work.Values[r][0], pct.Values[r][0]}
	}
	return &types.Table{
		Rows:   work.Rows,
		Cols:   cols,
		Values: values,
		Chain:  work.Chain.Merge(types.ComponentPercentages, types.NewLabelSet(cfg.LabelPct)),
	}, nil
}

// seriesWork returns s as a one-column table. Unlike tables, a series is
// taken to end with its total, so totals are only added for subtotal
// baselines.
func seriesWork(s *types.Series, cfg types.AggregationConfig, opts PercentOptions) (*types.Table, error) {
	if opts.Within {
		return preparePercentages(s.ToTable(), cfg, opts)
	}
	return s.ToTable(), nil
}

func seriesResult(in *types.Series, t *types.Table) *types.Series {
	out := types.SeriesFromColumn(t, 0)
	out.Name = in.Name
	return out
}
