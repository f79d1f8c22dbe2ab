package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/margins/pkg/types"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	got, err := Load(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
	assert.True(t, got.SkipSingleRows)
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
totals_label: Total
subtotals_label: Subtotal
ndigits: 1
base_unit: 100
interleaf: true
skip_single_rows: false
log_level: debug
sqlite: /data/sales.db
`)

	got, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "Total", got.TotalsLabel)
	assert.Equal(t, "Subtotal", got.SubtotalsLabel)
	assert.Equal(t, 1, got.NDigits)
	assert.Equal(t, 100.0, got.BaseUnit)
	assert.True(t, got.Interleaf)
	assert.False(t, got.SkipSingleRows)
	assert.Equal(t, "debug", got.LogLevel)
	assert.Equal(t, "/data/sales.db", got.SQLite)
	assert.Equal(t, types.DefaultLabelPct, got.LabelPct, "unset keys keep their defaults")
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "totals_label: FromFile\nndigits: 1\n")
	t.Setenv("MARGINS_TOTALS_LABEL", "FromEnv")
	t.Setenv("MARGINS_NDIGITS", "3")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("totals-label", "", "")
	fs.Int("ndigits", -1, "")
	require.NoError(t, fs.Parse([]string{"--totals-label", "FromFlag"}))

	got, err := Load(dir, fs)
	require.NoError(t, err)
	assert.Equal(t, "FromFlag", got.TotalsLabel, "flag wins over env and file")
	assert.Equal(t, 3, got.NDigits, "env wins over file when the flag is not set")
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"colliding labels", "totals_label: X\nsubtotals_label: X\n", types.ErrLabelCollision},
		{"zero base unit", "base_unit: 0\n", types.ErrBaseUnitInvalid},
		{"unknown log level", "log_level: loud\n", ErrInvalidLogLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, err := Load(dir, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "totals_label: [unterminated\n")
		_, err := Load(dir, nil)
		assert.Error(t, err)
	})
}

func TestWriteDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "margins")

	created, err := WriteDefault(dir)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "totals_label: Totals")
	assert.Contains(t, string(data), "log_level: normal")

	got, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), got)

	writeConfig(t, dir, "totals_label: Kept\n")
	created, err = WriteDefault(dir)
	require.NoError(t, err)
	assert.False(t, created, "existing config must not be overwritten")
	got, err = Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "Kept", got.TotalsLabel)
}
