package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/margins/pkg/aggregate"
	"github.com/mesh-intelligence/margins/pkg/types"
)

func newTotalsCmd(a *app) *cobra.Command {
	var (
		direction string
		label     string
		ignore    []string
	)
	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Add grand totals",
		Long: "Append a totals row, a totals column or both. Rows and columns that are\n" +
			"already aggregates are left out of the sums.",
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := parseDirection(direction)
			if err != nil {
				return err
			}
			return a.run(cmd, func(_ *types.Table, p *aggregate.Pipeline) error {
				p.AddTotals(aggregate.TotalsOptions{
					Direction: dir,
					Label:     label,
					Ignore:    types.NewLabelSet(ignore...),
				})
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&direction, "direction", "d", "both", "rows, columns or both")
	cmd.Flags().StringVar(&label, "label", "", "totals label (default: totals_label)")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "extra labels to leave out of the sums")
	return cmd
}

func newSubtotalsCmd(a *app) *cobra.Command {
	var (
		direction        string
		levels           []string
		label            string
		ignore           []string
		includeLevelName bool
	)
	cmd := &cobra.Command{
		Use:   "subtotals",
		Short: "Add subtotals to a hierarchical axis",
		Long: "Insert a subtotal after each group of keys sharing their leading\n" +
			"components. --level takes level numbers or names and may repeat.",
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := parseDirection(direction)
			if err != nil {
				return err
			}
			return a.run(cmd, func(t *types.Table, p *aggregate.Pipeline) error {
				lv, err := resolveLevels(t, dir, levels)
				if err != nil {
					return err
				}
				p.AddSubtotals(aggregate.SubtotalsOptions{
					Direction:        dir,
					Levels:           lv,
					Label:            label,
					Ignore:           types.NewLabelSet(ignore...),
					IncludeLevelName: includeLevelName,
				})
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&direction, "direction", "d", "rows", "rows, columns or both")
	cmd.Flags().StringSliceVarP(&levels, "level", "l", nil, "grouping level number or name (default 0)")
	cmd.Flags().StringVar(&label, "label", "", "subtotals label (default: subtotals_label)")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "extra labels to leave out of the sums")
	cmd.Flags().BoolVar(&includeLevelName, "include-level-name", false, "append the group value to the label")
	return cmd
}
