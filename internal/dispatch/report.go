package dispatch

import (
	"fmt"
	"time"

	"github.com/utkarsh5026/factorpool/internal/factor"
	"github.com/utkarsh5026/factorpool/internal/partition"
)

// WorkerLoad is the work one pool worker performed during a run.
type WorkerLoad struct {
	Worker int
	Units  int           // units of work executed
	Items  int           // numbers factorized
	Cost   int           // trial divisions performed
	Busy   time.Duration // time spent inside units
}

// Report is the outcome of a successful Run.
type Report struct {
	Strategy partition.Strategy
	Workers  int
	Items    int
	Units    int
	Table    factor.Table
	Elapsed  time.Duration
	Loads    []WorkerLoad
}

// WorkerError reports a unit of work that failed inside the pool.
type WorkerError struct {
	Strategy partition.Strategy
	// Unit is the worker index of the assignment for explicit strategies and
	// the chunk ordinal for PoolManaged.
	Unit int
	Err  error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("%s unit %d failed: %v", e.Strategy, e.Unit, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}

// unitResult is the partial table one unit produced plus its accounting.
type unitResult struct {
	table  factor.Table
	worker int
	items  int
	cost   int
	busy   time.Duration
}

// loadBook accumulates unit results into per-worker loads. Callers serialize
// access to it.
type loadBook []WorkerLoad

func newLoadBook(workers int) loadBook {
	b := make(loadBook, workers)
	for i := range b {
		b[i].Worker = i
	}
	return b
}

func (b loadBook) add(r unitResult) {
	if r.worker < 0 || r.worker >= len(b) {
		return
	}
	l := &b[r.worker]
	l.Units++
	l.Items += r.items
	l.Cost += r.cost
	l.Busy += r.busy
}
