package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/margins/pkg/aggregate"
	"github.com/mesh-intelligence/margins/pkg/types"
)

func newAggCmd(a *app) *cobra.Command {
	var (
		fn               string
		direction        string
		levels           []string
		label            string
		ignore           []string
		includeLevelName bool
	)
	cmd := &cobra.Command{
		Use:   "agg",
		Short: "Add an aggregate computed by a reducer",
		Long: "Append an aggregate row or column computed by --func (" +
			strings.Join(aggregate.ReducerNames(), ", ") + ").\n" +
			"With --level, insert one per group instead, as subtotals does.",
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := aggregate.ReducerByName(fn)
			if err != nil {
				return userError(err)
			}
			dir, err := parseDirection(direction)
			if err != nil {
				return err
			}
			fill := a.cfg.Fill
			return a.run(cmd, func(t *types.Table, p *aggregate.Pipeline) error {
				if len(levels) == 0 {
					p.AddAgg(r, aggregate.AggOptions{
						Direction: dir,
						Label:     label,
						Ignore:    types.NewLabelSet(ignore...),
						Fill:      fill,
					})
					return nil
				}
				lv, err := resolveLevels(t, dir, levels)
				if err != nil {
					return err
				}
				p.AddSubAgg(r, aggregate.SubAggOptions{
					Direction:        dir,
					Levels:           lv,
					Label:            label,
					Ignore:           types.NewLabelSet(ignore...),
					Fill:             fill,
					SkipSingleRows:   a.cfg.SkipSingleRows,
					IncludeLevelName: includeLevelName,
				})
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&fn, "func", "f", "sum", "reducer name")
	cmd.Flags().StringVarP(&direction, "direction", "d", "rows", "rows, columns or both")
	cmd.Flags().StringSliceVarP(&levels, "level", "l", nil, "group at these levels instead of the whole axis")
	cmd.Flags().StringVar(&label, "label", "", "aggregate label (default: the reducer name)")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "extra labels to leave out")
	cmd.Flags().BoolVar(&includeLevelName, "include-level-name", false, "append the group value to the label")
	return cmd
}
