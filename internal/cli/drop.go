package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/margins/pkg/aggregate"
	"github.com/mesh-intelligence/margins/pkg/types"
)

func newDropCmd(a *app) *cobra.Command {
	var (
		direction string
		labels    []string
	)
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Remove aggregate rows or columns",
		Long: "Remove rows or columns whose key carries one of --label. Without\n" +
			"--label, the configured totals and subtotals labels and every label\n" +
			"recorded in the table's chain state are removed.",
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := parseDirection(direction)
			if err != nil {
				return err
			}
			return a.run(cmd, func(t *types.Table, p *aggregate.Pipeline) error {
				set := types.NewLabelSet(labels...)
				if len(set) == 0 {
					set = a.cfg.AggregateLabels().Union(t.Chain.Labels(types.ComponentTotals))
				}
				p.Drop(dir, set)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&direction, "direction", "d", "both", "rows, columns or both")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "labels to remove")
	return cmd
}

func newLevelCmd(a *app) *cobra.Command {
	var (
		direction string
		position  int
		name      string
	)
	cmd := &cobra.Command{
		Use:   "add-level <value>",
		Short: "Insert a key level holding one value",
		Long: "Insert <value> as a new component into every key along --direction,\n" +
			"for example to label a table before joining it with another.",
		Args: func(cmd *cobra.Command, args []string) error {
			return userError(cobra.ExactArgs(1)(cmd, args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := parseDirection(direction)
			if err != nil {
				return err
			}
			if dir == types.Both {
				return userError(types.ErrInvalidDirection)
			}
			return a.run(cmd, func(_ *types.Table, p *aggregate.Pipeline) error {
				p.AddLevel(dir, args[0], position, name)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&direction, "direction", "d", "columns", "rows or columns")
	cmd.Flags().IntVar(&position, "position", 0, "position of the new level (negative appends)")
	cmd.Flags().StringVar(&name, "name", "", "name of the new level")
	return cmd
}
