package types

import (
	"fmt"
	"strings"
)

// Key addresses one row or column. It holds one label per hierarchy level,
// level 0 outermost. A flat (scalar) key is a Key with a single component.
type Key []string

// K builds a Key from its components.
func K(labels ...string) Key {
	return Key(labels)
}

// String renders the key for logs and error messages.
func (k Key) String() string {
	if len(k) == 1 {
		return k[0]
	}
	return "(" + strings.Join(k, ", ") + ")"
}

// Equal reports whether both keys have the same components.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// HasAny reports whether any component of the key is in labels. For a flat
// key this is exact equality with one of the labels.
func (k Key) HasAny(labels LabelSet) bool {
	for _, c := range k {
		if labels.Has(c) {
			return true
		}
	}
	return false
}

// ID returns a string usable as a map key. Components are separated by a
// unit separator so ("a b", "c") and ("a", "b c") stay distinct.
func (k Key) ID() string {
	return strings.Join(k, "\x1f")
}

// ToComponents returns a copy of the key's components.
func ToComponents(key Key) []string {
	out := make([]string, len(key))
	copy(out, key)
	return out
}

// InsertComponent returns a new key with value inserted at position.
// A negative position, or one past the end, appends.
func InsertComponent(key Key, value string, position int) Key {
	out := make(Key, 0, len(key)+1)
	if position < 0 || position >= len(key) {
		out = append(out, key...)
		return append(out, value)
	}
	out = append(out, key[:position]...)
	out = append(out, value)
	return append(out, key[position:]...)
}

// ReplaceComponent returns a new key with the component at position set to
// value. Negative positions count from the end. It panics if position is out
// of range, like an index expression.
func ReplaceComponent(key Key, value string, position int) Key {
	out := Key(ToComponents(key))
	if position < 0 {
		position += len(out)
	}
	out[position] = value
	return out
}

// BuildAggregateKey returns prefix + label + fill padding so that the key
// has exactly totalLevels components. It returns ErrInvalidLevel when the
// prefix leaves no room for the label.
func BuildAggregateKey(prefix []string, label, fill string, totalLevels int) (Key, error) {
	if len(prefix) >= totalLevels {
		return nil, fmt.Errorf("%w: prefix of %d components on axis with %d levels",
			ErrInvalidLevel, len(prefix), totalLevels)
	}
	key := make(Key, 0, totalLevels)
	key = append(key, prefix...)
	key = append(key, label)
	for len(key) < totalLevels {
		key = append(key, fill)
	}
	return key, nil
}
