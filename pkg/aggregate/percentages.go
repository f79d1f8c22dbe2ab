package aggregate

import (
	"fmt"

	"github.com/mesh-intelligence/margins/pkg/types"
)

// PercentOptions configures AsPercentages and AddPercentages. Rounding
// digits, base unit and block labels come from the AggregationConfig.
type PercentOptions struct {
	// Direction picks the baseline: Rows divides every row by the totals
	// row (each column sums to the base unit), Columns divides every column
	// by the totals column, Both divides every cell by the corner cell.
	Direction types.Direction
	// BaselineLabel names the totals row or column to divide by. Empty means
	// the last one, after adding totals if the table has none.
	BaselineLabel string
	// Ignore marks extra rows or columns as aggregates. Aggregates are
	// divided like data but rounded on their own.
	Ignore types.LabelSet
	// NoApportion rounds every cell on its own. By default the data cells of
	// each baseline group are rounded together so that they add up to the
	// rounded total.
	NoApportion bool
	// Interleaf places each percentage column after its count column when
	// adding. cfg.Interleaf also enables it.
	Interleaf bool
	// LevelPosition is where the n/pct label goes in each column key when
	// adding. Negative appends.
	LevelPosition int
	// DropTotals removes the baseline rows or columns from the output.
	DropTotals bool
	// Within divides by the subtotals at Level instead of the grand totals.
	// With Both each cell is divided by the cell where its row subtotal and
	// column subtotal meet.
	Within bool
	Level  int
}

// DefaultPercentOptions returns options for whole-table percentages with
// apportioned rounding.
func DefaultPercentOptions() PercentOptions {
	return PercentOptions{Direction: types.Both}
}

// AsPercentages returns t with every value replaced by its share of the
// baseline times cfg.BaseUnit, rounded to cfg.NDigits. Division by a zero
// or missing baseline yields a missing value.
func AsPercentages(t *types.Table, cfg types.AggregationConfig, opts PercentOptions) (*types.Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	work, err := preparePercentages(t, cfg, opts)
	if err != nil {
		return nil, err
	}
	pct, err := percentagesOf(work, cfg, opts)
	if err != nil {
		return nil, err
	}
	return dropBaseline(pct, cfg, opts)
}

// AddPercentages returns the values of t next to their percentages. A new
// level is inserted into every column key: cfg.LabelN for the original
// values, cfg.LabelPct for the percentages. The LabelN block holds the
// input values unchanged, plus any totals that were added and kept.
func AddPercentages(t *types.Table, cfg types.AggregationConfig, opts PercentOptions) (*types.Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	work, err := preparePercentages(t, cfg, opts)
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
	n, err := dropBaseline(work, cfg, opts)
	if err != nil {
		return nil, err
	}

	out := joinBlocks(n, pct, cfg.LabelN, cfg.LabelPct, opts.LevelPosition, opts.Interleaf || cfg.Interleaf)
	out.Chain = out.Chain.Merge(types.ComponentPercentages, types.NewLabelSet(cfg.LabelPct))
	return out, nil
}

// preparePercentages returns a copy of t that has the baseline the options
// ask for, adding totals or subtotals when they are missing.
func preparePercentages(t *types.Table, cfg types.AggregationConfig, opts PercentOptions) (*types.Table, error) {
	if !opts.Direction.Valid() {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidDirection, opts.Direction)
	}
	if opts.Within {
		every := cfg
		every.SkipSingleRows = false
		out := t.Clone()
		for _, dir := range axesOf(opts.Direction) {
			labels, err := withinLabels(out, dir, cfg, opts)
			if err != nil {
				return nil, err
			}
			if len(labels) > 0 {
				continue
			}
			if out, err = AddSubtotals(out, every, SubtotalsOptions{
				Direction: dir,
				Levels:    []int{opts.Level},
				Label:     opts.BaselineLabel,
			}); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	if opts.BaselineLabel != "" {
		return t.Clone(), nil
	}
	out := t
	if opts.Direction != types.Columns && !t.Rows.ContainsLabel(cfg.TotalsLabel) {
		var err error
		if out, err = AddTotals(out, cfg, TotalsOptions{Direction: types.Rows}); err != nil {
			return nil, err
		}
	}
	if opts.Direction != types.Rows && !t.Cols.ContainsLabel(cfg.TotalsLabel) {
		var err error
		if out, err = AddTotals(out, cfg, TotalsOptions{Direction: types.Columns}); err != nil {
			return nil, err
		}
	}
	if out == t {
		return t.Clone(), nil
	}
	return out, nil
}

func subtotalBaselineLabel(cfg types.AggregationConfig, opts PercentOptions) string {
	if opts.BaselineLabel != "" {
		return opts.BaselineLabel
	}
	return cfg.SubtotalsLabel
}

func axesOf(dir types.Direction) []types.Direction {
	if dir == types.Both {
		return []types.Direction{types.Rows, types.Columns}
	}
	return []types.Direction{dir}
}

// withinLabels returns the subtotal labels present on the dir axis of t at
// the options' level, counting level-named labels such as "Subtotals A".
func withinLabels(t *types.Table, dir types.Direction, cfg types.AggregationConfig, opts PercentOptions) (types.LabelSet, error) {
	axis := t.Rows
	if dir == types.Columns {
		axis = t.Cols
	}
	levels, err := subtotalLevels(axis, []int{opts.Level})
	if err != nil {
		return nil, err
	}
	level, label := levels[0], subtotalBaselineLabel(cfg, opts)
	found := types.LabelSet{}
	for _, k := range axis.Keys {
		if c := k[level+1]; c == label || c == label+" "+k[level] {
			found[c] = struct{}{}
		}
	}
	return found, nil
}

// percentIgnore is the set of labels whose rows and columns are not data
// for rounding purposes.
func percentIgnore(t *types.Table, cfg types.AggregationConfig, opts PercentOptions) types.LabelSet {
	return t.Chain.All().
		Union(cfg.AggregateLabels(), opts.Ignore).
		With(opts.BaselineLabel)
}

func percentagesOf(work *types.Table, cfg types.AggregationConfig, opts PercentOptions) (*types.Table, error) {
	switch opts.Direction {
	case types.Rows:
		return rowPercentages(work, cfg, opts)
	case types.Columns:
		out, err := rowPercentages(work.Transpose(), cfg, opts)
		if err != nil {
			return nil, err
		}
		return out.Transpose(), nil
	default:
		if opts.Within {
			return withinTablePercentages(work, cfg, opts)
		}
		return tablePercentages(work, cfg, opts)
	}
}

// rowPercentages divides every row of w by its baseline row.
func rowPercentages(w *types.Table, cfg types.AggregationConfig, opts PercentOptions) (*types.Table, error) {
	bases, err := baselineRows(w, cfg, opts)
	if err != nil {
		return nil, err
	}

	out := w.Clone()
	for r, row := range out.Values {
		for c := range row {
			if bases[r] < 0 {
				row[c] = types.Missing()
				continue
			}
			row[c] = ratio(w.Values[r][c], w.Values[bases[r]][c], cfg.BaseUnit)
		}
	}

	var segments []segment
	if !opts.NoApportion {
		data := SelectedIndices(SelectDataRows(w.Rows.Keys, percentIgnore(w, cfg, opts)))
		for c := 0; c < w.Cols.Len(); c++ {
			segments = append(segments, groupSegments(data, bases, c)...)
		}
	}
	roundCells(out, cfg.NDigits, segments)
	return out, nil
}

// groupSegments splits the cells of column c in rows into one segment per
// baseline row, in order of first appearance.
func groupSegments(rows, bases []int, c int) []segment {
	var segments []segment
	byBase := make(map[int]int)
	for _, r := range rows {
		i, ok := byBase[bases[r]]
		if !ok {
			i = len(segments)
			byBase[bases[r]] = i
			segments = append(segments, segment{})
		}
		segments[i].cells = append(segments[i].cells, cell{r, c})
	}
	return segments
}

// baselineRows returns, for every row of w, the index of the row it is
// divided by, or -1 when it has none.
func baselineRows(w *types.Table, cfg types.AggregationConfig, opts PercentOptions) ([]int, error) {
	bases := make([]int, w.Rows.Len())
	if !opts.Within {
		ref, err := Baseline(w, types.Rows, opts.BaselineLabel)
		if err != nil {
			return nil, err
		}
		for r := range bases {
			bases[r] = ref.Row
		}
		return bases, nil
	}

	levels, err := subtotalLevels(w.Rows, []int{opts.Level})
	if err != nil {
		return nil, err
	}
	level, label := levels[0], subtotalBaselineLabel(cfg, opts)
	for _, g := range groupRows(w, level) {
		idx := -1
		for _, l := range []string{label, label + " " + g.prefix[level]} {
			key, err := types.BuildAggregateKey(g.prefix, l, cfg.Fill, w.Rows.Levels)
			if err != nil {
				return nil, err
			}
			if idx = w.Rows.Index(key); idx >= 0 {
				break
			}
		}
		for _, r := range g.rows {
			bases[r] = idx
		}
	}
	return bases, nil
}

// tablePercentages divides every cell of w by the corner cell.
func tablePercentages(w *types.Table, cfg types.AggregationConfig, opts PercentOptions) (*types.Table, error) {
	ref, err := Baseline(w, types.Both, opts.BaselineLabel)
	if err != nil {
		return nil, err
	}
	out := w.Clone()
	for r, row := range out.Values {
		for c := range row {
			row[c] = ratio(w.Values[r][c], ref.Divisor(w, r, c), cfg.BaseUnit)
		}
	}

	// The totals row is apportioned against the corner first, then each
	// data column against its cell in the totals row.
	var segments []segment
	if !opts.NoApportion {
		ignore := percentIgnore(w, cfg, opts)
		rowMask := SelectDataRows(w.Rows.Keys, ignore)
		colMask := SelectDataRows(w.Cols.Keys, ignore)
		rows, cols := SelectedIndices(rowMask), SelectedIndices(colMask)
		targeted := !rowMask[ref.Row] && !colMask[ref.Col]
		if targeted {
			totals := segment{target: &cell{ref.Row, ref.Col}}
			for _, c := range cols {
				totals.cells = append(totals.cells, cell{ref.Row, c})
			}
			segments = append(segments, totals)
		}
		for _, c := range cols {
			col := segment{}
			if targeted {
				col.target = &cell{ref.Row, c}
			}
			for _, r := range rows {
				col.cells = append(col.cells, cell{r, c})
			}
			segments = append(segments, col)
		}
	}
	roundCells(out, cfg.NDigits, segments)
	return out, nil
}

// withinTablePercentages divides every cell of w by the cell where the
// subtotal row and the subtotal column of its groups meet.
func withinTablePercentages(w *types.Table, cfg types.AggregationConfig, opts PercentOptions) (*types.Table, error) {
	rowBases, err := baselineRows(w, cfg, opts)
	if err != nil {
		return nil, err
	}
	colBases, err := baselineRows(w.Transpose(), cfg, opts)
	if err != nil {
		return nil, err
	}
	out := w.Clone()
	for r, row := range out.Values {
		for c := range row {
			if rowBases[r] < 0 || colBases[c] < 0 {
				row[c] = types.Missing()
				continue
			}
			row[c] = ratio(w.Values[r][c], w.Values[rowBases[r]][colBases[c]], cfg.BaseUnit)
		}
	}

	var segments []segment
	if !opts.NoApportion {
		ignore := percentIgnore(w, cfg, opts)
		rows := SelectedIndices(SelectDataRows(w.Rows.Keys, ignore))
		for _, c := range SelectedIndices(SelectDataRows(w.Cols.Keys, ignore)) {
			for _, seg := range groupSegments(rows, rowBases, c) {
				if base := rowBases[seg.cells[0].r]; base >= 0 {
					seg.target = &cell{base, c}
				}
				segments = append(segments, seg)
			}
		}
	}
	roundCells(out, cfg.NDigits, segments)
	return out, nil
}

func ratio(v, base, unit float64) float64 {
	if types.IsMissing(v) || types.IsMissing(base) || base == 0 {
		return types.Missing()
	}
	return v / base * unit
}

// dropBaseline removes the totals (or subtotals) the percentages were based
// on when the options ask for it.
func dropBaseline(t *types.Table, cfg types.AggregationConfig, opts PercentOptions) (*types.Table, error) {
	if !opts.DropTotals {
		return t, nil
	}
	if opts.Within {
		labels := types.LabelSet{}
		for _, dir := range axesOf(opts.Direction) {
			found, err := withinLabels(t, dir, cfg, opts)
			if err != nil {
				return nil, err
			}
			labels = labels.Union(found)
		}
		return DropAggregates(t, opts.Direction, labels)
	}
	label := cfg.TotalsLabel
	if opts.BaselineLabel != "" {
		label = opts.BaselineLabel
	}
	return DropAggregates(t, opts.Direction, types.NewLabelSet(label))
}

// joinBlocks places the columns of n and pct side by side, labelling each
// block with a new column level.
func joinBlocks(n, pct *types.Table, labelN, labelPct string, position int, interleaf bool) *types.Table {
	nCols := insertLevel(n.Cols, labelN, position, "")
	pCols := insertLevel(pct.Cols, labelPct, position, "")

	type source struct {
		block *types.Table
		col   int
	}
	var order []source
	cols := types.Axis{Names: nCols.Names, Levels: nCols.Levels}
	if interleaf {
		for c := range nCols.Keys {
			cols.Keys = append(cols.Keys, nCols.Keys[c], pCols.Keys[c])
			order = append(order, source{n, c}, source{pct, c})
		}
	} else {
		cols.Keys = append(append(cols.Keys, nCols.Keys...), pCols.Keys...)
		for c := range nCols.Keys {
			order = append(order, source{n, c})
		}
		for c := range pCols.Keys {
			order = append(order, source{pct, c})
		}
	}

	values := make([][]float64, n.Rows.Len())
	for r := range values {
		values[r] = make([]float64, len(order))
		for i, s := range order {
			values[r][i] = s.block.Values[r][s.col]
		}
	}
	return &types.Table{
		Rows:   n.Rows.Clone(),
		Cols:   cols,
		Values: values,
		Chain:  n.Chain.Clone(),
	}
}
