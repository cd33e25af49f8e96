package factor

import "slices"

// Table maps numbers to their factors. A worker builds a partial Table for
// the numbers assigned to it; the dispatcher merges partial tables into the
// aggregate one. Duplicate numbers collapse into a single entry.
type Table map[uint64]Factors

// NewTable factorizes every number in nums into a fresh table.
func NewTable(nums []uint64) Table {
	t := make(Table, len(nums))
	for _, n := range nums {
		t[n] = Factorize(n)
	}
	return t
}

// Merge copies every entry of other into t, overwriting equal keys.
// Merging tables with disjoint keys is commutative and associative, so
// partial tables can be merged in any order.
func (t Table) Merge(other Table) {
	for n, f := range other {
		t[n] = f
	}
}

// Equal reports whether both tables hold the same numbers with the same factors.
func (t Table) Equal(other Table) bool {
	if len(t) != len(other) {
		return false
	}
	for n, f := range t {
		g, ok := other[n]
		if !ok || !slices.Equal(f, g) {
			return false
		}
	}
	return true
}

// Keys returns the numbers held by t in ascending order.
func (t Table) Keys() []uint64 {
	keys := make([]uint64, 0, len(t))
	for n := range t {
		keys = append(keys, n)
	}
	slices.Sort(keys)
	return keys
}
