package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/margins/pkg/types"
)

// renderText writes t as an aligned text table. Column keys take one header
// line per level; the last header line also carries the row level names.
// Missing cells are blank. Values are printed as computed; rounding is the
// engine's job.
func renderText(w io.Writer, t *types.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	rowLevels := t.Rows.Levels
	for level := 0; level < t.Cols.Levels; level++ {
		cells := make([]string, 0, rowLevels+t.Cols.Len())
		for r := 0; r < rowLevels; r++ {
			name := ""
			if level == t.Cols.Levels-1 && r < len(t.Rows.Names) {
				name = t.Rows.Names[r]
			}
			cells = append(cells, name)
		}
		for _, k := range t.Cols.Keys {
			cells = append(cells, types.ToComponents(k)[level])
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t"); err != nil {
			return err
		}
	}

	for r, k := range t.Rows.Keys {
		cells := append([]string(nil), types.ToComponents(k)...)
		for c := range t.Cols.Keys {
			cells = append(cells, formatValue(t.At(r, c)))
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t"); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func formatValue(v float64) string {
	if types.IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
