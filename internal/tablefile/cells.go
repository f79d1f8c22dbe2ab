package tablefile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mesh-intelligence/margins/pkg/types"
)

// Cell is one value of a long-format table: the row key, the column key and
// the value.
type Cell struct {
	Row   Labels   `json:"row"`
	Col   Labels   `json:"col"`
	Value *float64 `json:"value"`
}

// Pivot builds a table from long-format cells. Rows and columns appear in
// the order their keys are first seen; cells that are never given are
// missing. A cell given twice returns ErrDuplicateKey.
func Pivot(rowNames, colNames []string, cells []Cell) (*types.Table, error) {
	rowIndex := make(map[string]int)
	colIndex := make(map[string]int)
	var rowKeys, colKeys []types.Key
	index := func(key []string, seen map[string]int, keys *[]types.Key) int {
		id := types.Key(key).ID()
		if i, ok := seen[id]; ok {
			return i
		}
		seen[id] = len(*keys)
		*keys = append(*keys, types.Key(types.ToComponents(key)))
		return seen[id]
	}

	type pos struct{ r, c int }
	values := make(map[pos]float64, len(cells))
	for _, cell := range cells {
		p := pos{index(cell.Row, rowIndex, &rowKeys), index(cell.Col, colIndex, &colKeys)}
		if _, dup := values[p]; dup {
			return nil, fmt.Errorf("%w: cell %s x %s given twice",
				types.ErrDuplicateKey, types.Key(cell.Row), types.Key(cell.Col))
		}
		if cell.Value == nil {
			values[p] = types.Missing()
		} else {
			values[p] = *cell.Value
		}
	}

	rows, err := types.NewAxis(rowNames, rowKeys...)
	if err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	cols, err := types.NewAxis(colNames, colKeys...)
	if err != nil {
		return nil, fmt.Errorf("cols: %w", err)
	}
	grid := make([][]float64, len(rowKeys))
	for r := range grid {
		grid[r] = make([]float64, len(colKeys))
		for c := range grid[r] {
			v, ok := values[pos{r, c}]
			if !ok {
				v = types.Missing()
			}
			grid[r][c] = v
		}
	}
	return types.NewTable(rows, cols, grid)
}

// ReadCells reads one JSON cell per line. Blank and malformed lines are
// skipped; it returns the cells and the number of lines skipped.
func ReadCells(r io.Reader) ([]Cell, int, error) {
	var (
		cells   []Cell
		skipped int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var c Cell
		if err := json.Unmarshal(line, &c); err != nil || len(c.Row) == 0 || len(c.Col) == 0 {
			skipped++
			continue
		}
		cells = append(cells, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("reading cells: %w", err)
	}
	return cells, skipped, nil
}

// ReadCellsFile reads cells from the JSONL file at path.
func ReadCellsFile(path string) ([]Cell, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadCells(f)
}
