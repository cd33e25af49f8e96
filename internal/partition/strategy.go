package partition

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownStrategy is returned for a strategy outside the known set.
	ErrUnknownStrategy = errors.New("unrecognized strategy")
	// ErrInvalidWorkerCount is returned when fewer than one worker is requested.
	ErrInvalidWorkerCount = errors.New("worker count must be at least 1")
	// ErrNoPlan is returned by Plan for strategies that leave placement to the pool.
	ErrNoPlan = errors.New("strategy has no precomputed assignments")
)

// Strategy selects how the input is split across workers.
type Strategy int

const (
	// Contiguous gives worker i the i-th block of ceil(N/P) consecutive items.
	Contiguous Strategy = iota + 1
	// ShuffledContiguous shuffles a copy of the input, then splits it like Contiguous.
	ShuffledContiguous
	// RoundRobin gives worker i every item whose index j satisfies j % P == i.
	RoundRobin
	// PoolManaged submits every item on its own and lets idle pool workers pull them.
	PoolManaged
)

// All lists every strategy in command-line order.
var All = []Strategy{Contiguous, ShuffledContiguous, RoundRobin, PoolManaged}

var strategyNames = map[Strategy]string{
	Contiguous:         "contiguous",
	ShuffledContiguous: "shuffled",
	RoundRobin:         "round-robin",
	PoolManaged:        "pool",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	_, ok := strategyNames[s]
	return ok
}

// Explicit reports whether the strategy precomputes one assignment per worker.
func (s Strategy) Explicit() bool {
	return s == Contiguous || s == ShuffledContiguous || s == RoundRobin
}

// ParseStrategy accepts the numeric codes 1-4 and the strategy names
// (case-insensitive, "round_robin" and "roundrobin" included).
func ParseStrategy(v string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(v))
	switch key {
	case "1", "contiguous", "chunked":
		return Contiguous, nil
	case "2", "shuffled", "shuffled-contiguous":
		return ShuffledContiguous, nil
	case "3", "round-robin", "round_robin", "roundrobin", "striped":
		return RoundRobin, nil
	case "4", "pool", "pool-managed", "map":
		return PoolManaged, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, v)
}
