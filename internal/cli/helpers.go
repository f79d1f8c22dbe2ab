package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/margins/pkg/types"
)

// noArgs rejects positional arguments as a user error.
func noArgs(cmd *cobra.Command, args []string) error {
	return userError(cobra.NoArgs(cmd, args))
}

func parseDirection(s string) (types.Direction, error) {
	d, err := types.ParseDirection(s)
	if err != nil {
		return 0, userError(err)
	}
	return d, nil
}

// resolveLevels turns level flags into level numbers. A number is passed
// through for the engine to check; a name is looked up on the axes dir
// works along, rows first.
func resolveLevels(t *types.Table, dir types.Direction, specs []string) ([]int, error) {
	out := make([]int, 0, len(specs))
	for _, s := range specs {
		if n, err := strconv.Atoi(s); err == nil {
			out = append(out, n)
			continue
		}
		level, err := levelByName(t, dir, s)
		if err != nil {
			return nil, err
		}
		out = append(out, level)
	}
	return out, nil
}

func levelByName(t *types.Table, dir types.Direction, name string) (int, error) {
	var axes []types.Axis
	if dir != types.Columns {
		axes = append(axes, t.Rows)
	}
	if dir != types.Rows {
		axes = append(axes, t.Cols)
	}
	for _, a := range axes {
		if level, err := a.ResolveLevel(name); err == nil {
			return level, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", types.ErrLevelNotFound, name)
}
