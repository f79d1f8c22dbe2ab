package types

import "fmt"

// AggregationConfig holds the defaults the engine reads when a caller does
// not override them per call. It is passed explicitly to every cfg-driven
// operation; there is no package-level configuration.
type AggregationConfig struct {
	TotalsLabel    string  `json:"totals_label" yaml:"totals_label" mapstructure:"totals_label"`
	SubtotalsLabel string  `json:"subtotals_label" yaml:"subtotals_label" mapstructure:"subtotals_label"`
	Fill           string  `json:"fill" yaml:"fill" mapstructure:"fill"`
	NDigits        int     `json:"ndigits" yaml:"ndigits" mapstructure:"ndigits"`
	BaseUnit       float64 `json:"base_unit" yaml:"base_unit" mapstructure:"base_unit"`
	LabelN         string  `json:"label_n" yaml:"label_n" mapstructure:"label_n"`
	LabelPct       string  `json:"label_pct" yaml:"label_pct" mapstructure:"label_pct"`
	SkipSingleRows bool    `json:"skip_single_rows" yaml:"skip_single_rows" mapstructure:"skip_single_rows"`
	Interleaf      bool    `json:"interleaf" yaml:"interleaf" mapstructure:"interleaf"`
}

// Default configuration values.
const (
	DefaultTotalsLabel    = "Totals"
	DefaultSubtotalsLabel = "Subtotals"
	DefaultFill           = ""
	DefaultNDigits        = -1
	DefaultBaseUnit       = 1.0
	DefaultLabelN         = "n"
	DefaultLabelPct       = "pct"
)

// DefaultAggregationConfig returns the built-in defaults.
func DefaultAggregationConfig() AggregationConfig {
	return AggregationConfig{
		TotalsLabel:    DefaultTotalsLabel,
		SubtotalsLabel: DefaultSubtotalsLabel,
		Fill:           DefaultFill,
		NDigits:        DefaultNDigits,
		BaseUnit:       DefaultBaseUnit,
		LabelN:         DefaultLabelN,
		LabelPct:       DefaultLabelPct,
		SkipSingleRows: true,
	}
}

// Validate checks that the configuration is usable. It returns a sentinel
// error from this package on failure.
func (c AggregationConfig) Validate() error {
	for name, v := range map[string]string{
		"totals_label":    c.TotalsLabel,
		"subtotals_label": c.SubtotalsLabel,
		"label_n":         c.LabelN,
		"label_pct":       c.LabelPct,
	} {
		if v == "" {
			return fmt.Errorf("%w: %s", ErrLabelEmpty, name)
		}
	}
	if c.TotalsLabel == c.SubtotalsLabel {
		return fmt.Errorf("%w: totals and subtotals both %q", ErrLabelCollision, c.TotalsLabel)
	}
	if c.LabelN == c.LabelPct {
		return fmt.Errorf("%w: label_n and label_pct both %q", ErrLabelCollision, c.LabelN)
	}
	if !(c.BaseUnit > 0) {
		return ErrBaseUnitInvalid
	}
	return nil
}

// AggregateLabels returns the totals and subtotals labels as a set.
func (c AggregationConfig) AggregateLabels() LabelSet {
	return NewLabelSet(c.TotalsLabel, c.SubtotalsLabel)
}
