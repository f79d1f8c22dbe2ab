package cli

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/margins/pkg/types"
)

func TestRenderTextHierarchicalColumns(t *testing.T) {
	rows, err := types.FlatAxis("city", "Oslo", "Rome")
	require.NoError(t, err)
	cols, err := types.NewAxis(nil, types.K("n", "units"), types.K("pct", "units"))
	require.NoError(t, err)
	tbl, err := types.NewTable(rows, cols, [][]float64{{3, 0.75}, {1, math.NaN()}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderText(&buf, tbl))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, []string{"n", "pct"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"city", "units", "units"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Oslo", "3", "0.75"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"Rome", "1"}, strings.Fields(lines[3]), "missing cells are blank")
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{math.NaN(), ""},
		{12, "12"},
		{0.125, "0.125"},
		{-3.5, "-3.5"},
		{1e7, "10000000"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
