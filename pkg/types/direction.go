package types

import (
	"fmt"
	"strings"
)

// Direction selects the axis an operation works along.
type Direction int

// Directions. Rows appends or groups rows (a totals row holds column
// totals), Columns does the same for columns, Both applies rows then columns.
const (
	Rows    Direction = 0
	Columns Direction = 1
	Both    Direction = 2
)

// directionAliases maps the accepted spellings to directions.
var directionAliases = map[string]Direction{
	"0":       Rows,
	"rows":    Rows,
	"row":     Rows,
	"index":   Rows,
	"idx":     Rows,
	"1":       Columns,
	"columns": Columns,
	"column":  Columns,
	"cols":    Columns,
	"2":       Both,
	"both":    Both,
	"all":     Both,
}

// ParseDirection converts a direction name or number to a Direction.
func ParseDirection(s string) (Direction, error) {
	d, ok := directionAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
	return d, nil
}

// Valid reports whether d is one of the defined directions.
func (d Direction) Valid() bool {
	return d == Rows || d == Columns || d == Both
}

func (d Direction) String() string {
	switch d {
	case Rows:
		return "rows"
	case Columns:
		return "columns"
	case Both:
		return "both"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}
