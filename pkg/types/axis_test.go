package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAxis(t *testing.T) {
	tests := []struct {
		name       string
		names      []string
		keys       []Key
		wantLevels int
		wantErr    error
	}{
		{"levels from names", []string{"region", "city"}, []Key{K("A", "x")}, 2, nil},
		{"levels from first key", nil, []Key{K("A", "x", "1")}, 3, nil},
		{"empty axis is flat", nil, nil, 1, nil},
		{"ragged key", nil, []Key{K("A", "x"), K("B")}, 0, ErrRaggedKey},
		{"ragged against names", []string{"a"}, []Key{K("A", "x")}, 0, ErrRaggedKey},
		{"duplicate key", nil, []Key{K("A", "x"), K("A", "x")}, 0, ErrDuplicateKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAxis(tt.names, tt.keys...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevels, a.Levels)
			assert.Equal(t, len(tt.keys), a.Len())
		})
	}
}

func TestNewAxisCopiesKeys(t *testing.T) {
	k := K("A", "x")
	a, err := NewAxis(nil, k)
	require.NoError(t, err)
	k[0] = "changed"
	assert.Equal(t, K("A", "x"), a.Keys[0])
}

func TestAxisNewAggregateKey(t *testing.T) {
	a, err := NewAxis([]string{"g", "i"}, K("A", "x"), K("A", "y"), K("A", "Subtotals"))
	require.NoError(t, err)

	key, err := a.NewAggregateKey(nil, "Totals", "")
	require.NoError(t, err)
	assert.Equal(t, K("Totals", ""), key)

	_, err = a.NewAggregateKey([]string{"A"}, "Subtotals", "")
	assert.True(t, errors.Is(err, ErrKeyConflict))
	assert.True(t, errors.Is(err, ErrDuplicateAggregate))
}

func TestAxisResolveLevel(t *testing.T) {
	a, err := NewAxis([]string{"year", "month", "day"}, K("2024", "01", "01"))
	require.NoError(t, err)

	tests := []struct {
		level   string
		want    int
		wantErr error
	}{
		{"year", 0, nil},
		{"day", 2, nil},
		{"1", 1, nil},
		{"-1", 2, nil},
		{"-3", 0, nil},
		{"3", 0, ErrInvalidLevel},
		{"-4", 0, ErrInvalidLevel},
		{"week", 0, ErrLevelNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			got, err := a.ResolveLevel(tt.level)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAxisContainsLabel(t *testing.T) {
	a, err := NewAxis(nil, K("A", "x"), K("Totals", ""))
	require.NoError(t, err)
	assert.True(t, a.ContainsLabel("Totals"))
	assert.True(t, a.ContainsLabel("x"))
	assert.False(t, a.ContainsLabel("Subtotals"))
}

func TestFlatAxis(t *testing.T) {
	a, err := FlatAxis("fruit", "apple", "pear")
	require.NoError(t, err)
	assert.False(t, a.Hierarchical())
	assert.Equal(t, []string{"fruit"}, a.Names)
	assert.Equal(t, 1, a.Index(K("pear")))
	assert.Equal(t, -1, a.Index(K("plum")))
}
