package aggregate

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/margins/pkg/types"
)

func TestRoundApportionedKeepsTotal(t *testing.T) {
	got := RoundApportioned([]float64{33.3, 33.3, 33.4}, 0)

	assert.Equal(t, 100.0, got[0]+got[1]+got[2])
	for i, v := range got {
		if v != 33 && v != 34 {
			t.Errorf("got[%d] = %v, want 33 or 34", i, v)
		}
	}
}

func TestRoundApportioned(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name    string
		values  []float64
		ndigits int
		want    []float64
	}{
		{"no rounding", []float64{1.234, 5.678}, -1, []float64{1.234, 5.678}},
		{"thirds to whole numbers", []float64{33.3, 33.3, 33.4}, 0, []float64{33, 34, 33}},
		{"one decimal", []float64{0.25, 0.25, 0.25, 0.25}, 1, []float64{0.3, 0.2, 0.3, 0.2}},
		{"already round", []float64{10, 20, 70}, 0, []float64{10, 20, 70}},
		{"empty", nil, 2, []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundApportioned(tt.values, tt.ndigits))
		})
	}

	t.Run("missing stays missing", func(t *testing.T) {
		got := RoundApportioned([]float64{10.0, nan, 20.0}, 1)
		assert.Equal(t, 10.0, got[0])
		assert.True(t, types.IsMissing(got[1]), "got %v, want missing", got[1])
		assert.Equal(t, 20.0, got[2])
	})
}

func TestRoundApportionedSumProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.IntN(12)
		ndigits := rng.IntN(3)
		values := make([]float64, n)
		exact := 0.0
		for i := range values {
			values[i] = rng.Float64() * 100
			exact += values[i]
		}

		got := RoundApportioned(values, ndigits)
		total := 0.0
		for i, v := range got {
			total += v
			assert.InDelta(t, values[i], v, 1.5*math.Pow10(-ndigits), "trial %d index %d", trial, i)
		}
		assert.InDelta(t, Round(exact, ndigits), total, 1e-9, "trial %d", trial)
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 2.5, Round(2.45, 1))
	assert.Equal(t, -3.0, Round(-2.5, 0))
	assert.Equal(t, 1.23456, Round(1.23456, -1))
	assert.True(t, types.IsMissing(Round(math.NaN(), 2)))
	assert.True(t, math.IsInf(Round(math.Inf(1), 2), 1))
}

func TestRoundHalvesAwayFromZero(t *testing.T) {
	tests := []struct {
		v       float64
		ndigits int
		want    float64
	}{
		{0.5, 0, 1},
		{1.5, 0, 2},
		{2.5, 0, 3},
		{-0.5, 0, -1},
		{0.125, 2, 0.13},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.v, tt.ndigits), "Round(%v, %d)", tt.v, tt.ndigits)
	}

	assert.Equal(t, []float64{1, 0}, RoundApportioned([]float64{0.5, 0.5}, 0))
	assert.Equal(t, []float64{1, 0, 1, 0}, RoundApportioned([]float64{0.5, 0.5, 0.5, 0.5}, 0))
}

func TestApportionTo(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name   string
		values []float64
		target float64
		want   []float64
	}{
		{"already on target", []float64{33.3, 33.3, 33.4}, 100, []float64{33, 34, 33}},
		{"one unit up goes to the largest shortfall", []float64{11.1, 11.3, 11.2}, 35, []float64{11, 12, 12}},
		{"one unit down goes to the largest excess", []float64{0.6, 0.6, 0.6}, 1, []float64{0, 0, 1}},
		{"missing target keeps the running sum", []float64{0.6, 0.6, 0.6}, nan, []float64{1, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apportionTo(tt.values, 0, tt.target))
		})
	}
}
