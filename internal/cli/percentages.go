package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/margins/pkg/aggregate"
	"github.com/mesh-intelligence/margins/pkg/types"
)

// Percentage modes.
const (
	modeTransform = "transform"
	modeAdd       = "add"
)

func newPercentagesCmd(a *app) *cobra.Command {
	var (
		mode          string
		direction     string
		baseline      string
		ignore        []string
		within        string
		noApportion   bool
		levelPosition int
		dropTotals    bool
	)
	cmd := &cobra.Command{
		Use:     "percentages",
		Aliases: []string{"pct"},
		Short:   "Show values as shares of a baseline",
		Long: "Divide values by a baseline: the totals row (--direction rows), the\n" +
			"totals column (columns) or the grand total (both). Missing totals are\n" +
			"added first. --mode add keeps the values next to the percentages.\n" +
			"--within divides by the subtotals of a level instead.",
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if mode != modeTransform && mode != modeAdd {
				return userError(fmt.Errorf("--mode must be %s or %s, got %q", modeTransform, modeAdd, mode))
			}
			dir, err := parseDirection(direction)
			if err != nil {
				return err
			}
			return a.run(cmd, func(t *types.Table, p *aggregate.Pipeline) error {
				opts := aggregate.DefaultPercentOptions()
				opts.Direction = dir
				opts.BaselineLabel = baseline
				opts.Ignore = types.NewLabelSet(ignore...)
				opts.NoApportion = noApportion
				opts.LevelPosition = levelPosition
				opts.DropTotals = dropTotals
				if within != "" {
					lv, err := resolveLevels(t, dir, []string{within})
					if err != nil {
						return err
					}
					opts.Within = true
					opts.Level = lv[0]
				}
				if mode == modeAdd {
					p.AddPercentages(opts)
				} else {
					p.AsPercentages(opts)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", modeTransform, "transform or add")
	cmd.Flags().StringVarP(&direction, "direction", "d", "both", "rows, columns or both")
	cmd.Flags().StringVar(&baseline, "baseline", "", "label of the baseline row, column or cell (default: the totals)")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "extra aggregate labels")
	cmd.Flags().StringVar(&within, "within", "", "divide by the subtotals of this level number or name")
	cmd.Flags().BoolVar(&noApportion, "no-apportion", false, "round each cell on its own")
	cmd.Flags().IntVar(&levelPosition, "level-position", 0, "where add mode inserts the n/pct level (negative appends)")
	cmd.Flags().BoolVar(&dropTotals, "drop-totals", false, "remove the baseline totals from the output")
	return cmd
}
