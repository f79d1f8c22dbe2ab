package aggregate

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/margins/pkg/types"
)

// RoundApportioned rounds values to ndigits decimals so that the rounded
// values add up to the rounded sum of the inputs. Each output is the
// difference between consecutive rounded running sums. Missing inputs stay
// missing and do not move the running sum. A negative ndigits returns the
// values unchanged.
//
// Arithmetic is done in decimal; halves round away from zero.
func RoundApportioned(values []float64, ndigits int) []float64 {
	out := make([]float64, len(values))
	if ndigits < 0 {
		copy(out, values)
		return out
	}
	places := int32(ndigits)
	cumulative := decimal.Zero
	previous := decimal.Zero
	for i, v := range values {
		if !finite(v) {
			out[i] = v
			continue
		}
		cumulative = cumulative.Add(decimal.NewFromFloat(v))
		rounded := cumulative.Round(places)
		out[i] = rounded.Sub(previous).InexactFloat64()
		previous = rounded
	}
	return out
}

// Round rounds v to ndigits decimals, halves away from zero. Missing and
// infinite values and a negative ndigits pass through.
func Round(v float64, ndigits int) float64 {
	if ndigits < 0 || !finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(int32(ndigits)).InexactFloat64()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// apportionTo rounds values like RoundApportioned, then moves whole units
// of the last place between elements until the rounded values add up to
// target. Units go to the elements furthest from their rounded value. A
// missing target or a negative ndigits leaves RoundApportioned's result.
func apportionTo(values []float64, ndigits int, target float64) []float64 {
	out := RoundApportioned(values, ndigits)
	if ndigits < 0 || !finite(target) {
		return out
	}
	places := int32(ndigits)
	unit := decimal.New(1, -places)
	sum := decimal.Zero
	var idx []int
	for i, v := range out {
		if finite(v) {
			sum = sum.Add(decimal.NewFromFloat(v))
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return out
	}
	steps := decimal.NewFromFloat(target).Round(places).Sub(sum).Div(unit).Round(0).IntPart()
	step := unit
	if steps < 0 {
		steps, step = -steps, unit.Neg()
	}
	for ; steps > 0; steps-- {
		best := idx[0]
		bestGap := decimal.Zero
		for n, i := range idx {
			gap := decimal.NewFromFloat(values[i]).Sub(decimal.NewFromFloat(out[i]))
			if step.IsNegative() {
				gap = gap.Neg()
			}
			if n == 0 || gap.GreaterThan(bestGap) {
				best, bestGap = i, gap
			}
		}
		out[best] = decimal.NewFromFloat(out[best]).Add(step).InexactFloat64()
	}
	return out
}

// segment is a group of cells rounded together. When target is set the
// cells are made to add up to the target cell's rounded value; otherwise to
// the rounded sum of the cells.
type segment struct {
	cells  []cell
	target *cell
}

// roundCells rounds every cell of t in place. Segments are rounded in order
// with apportionTo; all other cells are rounded on their own.
func roundCells(t *types.Table, ndigits int, segments []segment) {
	if ndigits < 0 {
		return
	}
	done := make(map[cell]bool)
	for _, seg := range segments {
		values := make([]float64, len(seg.cells))
		for i, c := range seg.cells {
			values[i] = t.Values[c.r][c.c]
		}
		target := types.Missing()
		if seg.target != nil {
			target = t.Values[seg.target.r][seg.target.c]
			if !done[*seg.target] {
				target = Round(target, ndigits)
			}
		}
		for i, v := range apportionTo(values, ndigits, target) {
			t.Values[seg.cells[i].r][seg.cells[i].c] = v
			done[seg.cells[i]] = true
		}
	}
	for r, row := range t.Values {
		for c, v := range row {
			if !done[cell{r, c}] {
				row[c] = Round(v, ndigits)
			}
		}
	}
}

type cell struct{ r, c int }
