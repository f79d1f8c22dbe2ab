package aggregate

import "github.com/mesh-intelligence/margins/pkg/types"

// SelectDataRows returns one entry per key: true when the key is real data,
// false when it carries any of the ignore labels. For hierarchical keys a
// label anywhere in the tuple excludes the key. The mask is computed fresh
// on every call.
func SelectDataRows(keys []types.Key, ignore types.LabelSet) []bool {
	mask := make([]bool, len(keys))
	for i, k := range keys {
		mask[i] = !k.HasAny(ignore)
	}
	return mask
}

// CountSelected returns the number of true entries in mask.
func CountSelected(mask []bool) int {
	n := 0
	for _, ok := range mask {
		if ok {
			n++
		}
	}
	return n
}

// SelectedIndices returns the positions of the true entries in mask.
func SelectedIndices(mask []bool) []int {
	out := make([]int, 0, len(mask))
	for i, ok := range mask {
		if ok {
			out = append(out, i)
		}
	}
	return out
}
