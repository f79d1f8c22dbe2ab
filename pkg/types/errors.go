package types

import "errors"

// Table model errors.
var (
	ErrShapeMismatch    = errors.New("values do not match axis lengths")
	ErrDuplicateKey     = errors.New("duplicate key on axis")
	ErrRaggedKey        = errors.New("key has wrong number of levels")
	ErrEmptyTable       = errors.New("table has no rows or columns")
	ErrInvalidDirection = errors.New("invalid axis direction")
	ErrLevelNotFound    = errors.New("level name not found on axis")
)

// Aggregation errors.
var (
	// ErrInvalidLevel is returned when a level is out of range for the axis,
	// or when an operation needs a hierarchical axis and gets a flat one.
	ErrInvalidLevel = errors.New("invalid level")

	// ErrDuplicateAggregate is returned when the key computed for a new
	// aggregate row or column already exists on the axis. Existing rows are
	// never overwritten.
	ErrDuplicateAggregate = errors.New("aggregate key already exists")

	// ErrKeyConflict is the key-model name for ErrDuplicateAggregate.
	ErrKeyConflict = ErrDuplicateAggregate

	// ErrBaselineNotFound is returned when a percentage baseline row,
	// column or cell cannot be located.
	ErrBaselineNotFound = errors.New("baseline not found")

	ErrUnknownReducer = errors.New("unknown reducer")
)

// Configuration validation errors.
var (
	ErrLabelEmpty      = errors.New("label must not be empty")
	ErrLabelCollision  = errors.New("labels must be distinct")
	ErrBaseUnitInvalid = errors.New("base unit must be positive")
)
