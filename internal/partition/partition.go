// Package partition splits a sequence of work items across a fixed number of
// workers. The explicit strategies produce one Assignment per worker; the
// pool-managed strategy produces none and leaves placement to the pool.
package partition

import (
	"fmt"
	"math/rand/v2"
)

// Assignment is the subset of the input one worker processes.
type Assignment struct {
	Worker int
	Items  []uint64
}

// Chunk splits items into p blocks of ceil(N/p) consecutive items.
// Trailing workers receive a short or empty block when N is not a multiple
// of p. The returned slices alias items.
func Chunk(items []uint64, p int) ([]Assignment, error) {
	if p < 1 {
		return nil, ErrInvalidWorkerCount
	}

	n := len(items)
	size := (n + p - 1) / p

	out := make([]Assignment, p)
	for i := range out {
		start := min(i*size, n)
		end := min(start+size, n)
		out[i] = Assignment{Worker: i, Items: items[start:end:end]}
	}
	return out, nil
}

// Stripe spreads items across p workers: worker i receives the items at
// indices i, i+p, i+2p, ...
func Stripe(items []uint64, p int) ([]Assignment, error) {
	if p < 1 {
		return nil, ErrInvalidWorkerCount
	}

	out := make([]Assignment, p)
	for i := range out {
		out[i] = Assignment{Worker: i, Items: make([]uint64, 0, (len(items)-i+p-1)/p)}
	}
	for j, item := range items {
		w := j % p
		out[w].Items = append(out[w].Items, item)
	}
	return out, nil
}

// Shuffle returns a shuffled copy of items; items itself is left untouched.
func Shuffle(items []uint64, rng *rand.Rand) []uint64 {
	out := make([]uint64, len(items))
	copy(out, items)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Plan computes the assignments of an explicit strategy. rng is only used by
// ShuffledContiguous and may be nil for the others.
func Plan(s Strategy, items []uint64, p int, rng *rand.Rand) ([]Assignment, error) {
	switch s {
	case Contiguous:
		return Chunk(items, p)
	case ShuffledContiguous:
		if rng == nil {
			return nil, fmt.Errorf("%s: no random source", s)
		}
		return Chunk(Shuffle(items, rng), p)
	case RoundRobin:
		return Stripe(items, p)
	case PoolManaged:
		return nil, fmt.Errorf("%s: %w", s, ErrNoPlan)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, s)
	}
}

// Range returns the items [0, n).
func Range(n int) []uint64 {
	items := make([]uint64, n)
	for i := range items {
		items[i] = uint64(i)
	}
	return items
}
