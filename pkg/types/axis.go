package types

import (
	"fmt"
	"strconv"
)

// Axis is the ordered, unique sequence of keys along the rows or the
// columns of a table. Every key has exactly Levels components. Names, when
// set, holds one name per level.
type Axis struct {
	Names  []string
	Keys   []Key
	Levels int
}

// NewAxis builds an axis from keys and optional level names. The number of
// levels is taken from names, else from the first key, else 1.
// Returns ErrRaggedKey if a key has the wrong length and ErrDuplicateKey if a
// key occurs twice.
func NewAxis(names []string, keys ...Key) (Axis, error) {
	levels := len(names)
	if levels == 0 {
		levels = 1
		if len(keys) > 0 {
			levels = len(keys[0])
		}
	}
	a := Axis{Levels: levels}
	if len(names) > 0 {
		a.Names = append([]string(nil), names...)
	}
	seen := make(map[string]bool, len(keys))
	a.Keys = make([]Key, 0, len(keys))
	for _, k := range keys {
		if len(k) != levels {
			return Axis{}, fmt.Errorf("%w: %s has %d components, axis has %d levels",
				ErrRaggedKey, k, len(k), levels)
		}
		if seen[k.ID()] {
			return Axis{}, fmt.Errorf("%w: %s", ErrDuplicateKey, k)
		}
		seen[k.ID()] = true
		a.Keys = append(a.Keys, Key(ToComponents(k)))
	}
	return a, nil
}

// FlatAxis builds a single-level axis from labels.
func FlatAxis(name string, labels ...string) (Axis, error) {
	keys := make([]Key, len(labels))
	for i, l := range labels {
		keys[i] = K(l)
	}
	var names []string
	if name != "" {
		names = []string{name}
	}
	return NewAxis(names, keys...)
}

// Len returns the number of keys.
func (a Axis) Len() int { return len(a.Keys) }

// Hierarchical reports whether the axis has more than one level.
func (a Axis) Hierarchical() bool { return a.Levels > 1 }

// Index returns the position of key, or -1.
func (a Axis) Index(key Key) int {
	for i, k := range a.Keys {
		if k.Equal(key) {
			return i
		}
	}
	return -1
}

// Contains reports whether key is on the axis.
func (a Axis) Contains(key Key) bool { return a.Index(key) >= 0 }

// ContainsLabel reports whether any key carries label as a component.
func (a Axis) ContainsLabel(label string) bool {
	set := NewLabelSet(label)
	for _, k := range a.Keys {
		if k.HasAny(set) {
			return true
		}
	}
	return false
}

// NewAggregateKey builds an aggregate key for this axis and checks that it
// is not already present. Returns ErrKeyConflict on collision.
func (a Axis) NewAggregateKey(prefix []string, label, fill string) (Key, error) {
	key, err := BuildAggregateKey(prefix, label, fill, a.Levels)
	if err != nil {
		return nil, err
	}
	if a.Contains(key) {
		return nil, fmt.Errorf("%w: %s", ErrKeyConflict, key)
	}
	return key, nil
}

// ResolveLevel returns the level number for a level name or an integer
// string. Negative numbers count from the innermost level.
func (a Axis) ResolveLevel(level string) (int, error) {
	for i, n := range a.Names {
		if n == level {
			return i, nil
		}
	}
	n, err := strconv.Atoi(level)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrLevelNotFound, level)
	}
	return a.AbsoluteLevel(n)
}

// AbsoluteLevel wraps a negative level and checks that it is in range.
func (a Axis) AbsoluteLevel(level int) (int, error) {
	if level < 0 {
		level += a.Levels
	}
	if level < 0 || level >= a.Levels {
		return 0, fmt.Errorf("%w: level %d out of range for axis with %d levels",
			ErrInvalidLevel, level, a.Levels)
	}
	return level, nil
}

// Clone returns a deep copy.
func (a Axis) Clone() Axis {
	out := Axis{Levels: a.Levels}
	if a.Names != nil {
		out.Names = append([]string(nil), a.Names...)
	}
	out.Keys = make([]Key, len(a.Keys))
	for i, k := range a.Keys {
		out.Keys[i] = Key(ToComponents(k))
	}
	return out
}
