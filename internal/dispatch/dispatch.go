// Package dispatch runs a factorization batch on a worker pool using one of
// the partition strategies and merges the partial results.
//
// Every Run acquires its own pool and tears it down before returning, on
// success and failure alike, so a Dispatcher can serve concurrent runs.
package dispatch

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/utkarsh5026/factorpool/internal/factor"
	"github.com/utkarsh5026/factorpool/internal/partition"
	"github.com/utkarsh5026/factorpool/pool"
)

// Dispatcher partitions work, submits it to a pool and merges the results.
type Dispatcher struct {
	logger        *zap.Logger
	seed          uint64
	seeded        bool
	chunkSize     int
	pinWorkers    bool
	ratePerSecond float64
	rateBurst     int
	progress      func(done, total int)

	// factorize is replaced in tests to inject failures.
	factorize func(n uint64) (factor.Factors, int)
}

// New creates a Dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger:    zap.NewNop(),
		chunkSize: 1,
		factorize: factor.FactorizeCost,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run factorizes every item using strategy s on a pool of p workers and
// returns the merged table. The strategy never changes the table, only how
// it is computed. The first failing unit aborts the run with a *WorkerError.
func (d *Dispatcher) Run(ctx context.Context, s partition.Strategy, items []uint64, p int) (*Report, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %s", partition.ErrUnknownStrategy, s)
	}
	if p < 1 {
		return nil, partition.ErrInvalidWorkerCount
	}

	d.logger.Info("run started",
		zap.Stringer("strategy", s),
		zap.Int("items", len(items)),
		zap.Int("workers", p))

	start := time.Now()

	var (
		report *Report
		err    error
	)
	if s.Explicit() {
		report, err = d.runAssignments(ctx, s, items, p)
	} else {
		report, err = d.runPoolManaged(ctx, items, p)
	}
	if err != nil {
		d.logger.Error("run failed", zap.Stringer("strategy", s), zap.Error(err))
		return nil, err
	}

	report.Strategy = s
	report.Workers = p
	report.Items = len(items)
	report.Elapsed = time.Since(start)

	d.logger.Info("run finished",
		zap.Stringer("strategy", s),
		zap.Int("units", report.Units),
		zap.Int("distinct", len(report.Table)),
		zap.Duration("elapsed", report.Elapsed))

	return report, nil
}

// Units returns how many units Run submits for n items on p workers.
func (d *Dispatcher) Units(s partition.Strategy, n, p int) int {
	if s.Explicit() {
		return p
	}
	size := max(d.chunkSize, 1)
	return (n + size - 1) / size
}

// runAssignments submits one unit per precomputed assignment. Unit i is
// routed to pool worker i, and completions are merged as they arrive.
func (d *Dispatcher) runAssignments(ctx context.Context, s partition.Strategy, items []uint64, p int) (*Report, error) {
	plan, err := partition.Plan(s, items, p, d.newRand())
	if err != nil {
		return nil, err
	}

	opts := append(d.poolOptions(p),
		pool.WithAffinity(func(a partition.Assignment) int { return a.Worker }),
	)
	sched := pool.NewScheduler[partition.Assignment, unitResult](opts...)
	if err := sched.Start(ctx, d.assignmentTask); err != nil {
		return nil, err
	}
	defer sched.Close()

	futures := make([]*pool.Future[unitResult, int64], 0, len(plan))
	units := make(map[*pool.Future[unitResult, int64]]int, len(plan))
	for _, a := range plan {
		f, err := sched.Submit(a)
		if err != nil {
			return nil, fmt.Errorf("submit unit %d: %w", a.Worker, err)
		}
		futures = append(futures, f)
		units[f] = a.Worker
	}

	table := make(factor.Table, len(items))
	loads := newLoadBook(p)
	done := 0

	for f := range pool.AsCompleted(ctx, futures) {
		res, _, err := f.Get()
		if err != nil {
			return nil, &WorkerError{Strategy: s, Unit: units[f], Err: err}
		}

		table.Merge(res.table)
		loads.add(res)
		done++

		d.logger.Debug("unit merged",
			zap.Int("unit", units[f]),
			zap.Int("worker", res.worker),
			zap.Int("items", res.items),
			zap.Duration("busy", res.busy))
		if d.progress != nil {
			d.progress(done, len(futures))
		}
	}

	if done < len(futures) {
		return nil, ctx.Err()
	}

	return &Report{Units: len(futures), Table: table, Loads: loads}, nil
}

// batch is a unit of PoolManaged dispatch: a run of consecutive items.
type batch struct {
	index int
	items []uint64
}

// runPoolManaged hands every item (or chunk of items) to the pool as its own
// unit. Idle workers keep pulling units from the shared queue until the
// input is exhausted, and each unit is merged as soon as it completes.
func (d *Dispatcher) runPoolManaged(ctx context.Context, items []uint64, p int) (*Report, error) {
	batches := d.batches(items)

	var (
		mu    sync.Mutex
		table = make(factor.Table, len(items))
		loads = newLoadBook(p)

		completed, failed atomic.Int64
	)
	failed.Store(-1)

	onEnd := func(b batch, res unitResult, err error) {
		if err != nil {
			failed.CompareAndSwap(-1, int64(b.index))
			return
		}

		mu.Lock()
		table.Merge(res.table)
		loads.add(res)
		mu.Unlock()

		n := int(completed.Add(1))
		d.logger.Debug("unit merged",
			zap.Int("unit", b.index),
			zap.Int("worker", res.worker),
			zap.Int("items", res.items),
			zap.Duration("busy", res.busy))
		if d.progress != nil {
			d.progress(n, len(batches))
		}
	}

	opts := append(d.poolOptions(p),
		pool.WithSchedulingStrategy(pool.SchedulingShared),
		pool.WithOnTaskEnd(onEnd),
	)
	wp := pool.NewWorkerPool[batch, unitResult](opts...)

	if _, err := wp.Process(ctx, batches, d.batchTask); err != nil {
		unit := int(failed.Load())
		if unit < 0 {
			return nil, err
		}
		return nil, &WorkerError{Strategy: partition.PoolManaged, Unit: unit, Err: err}
	}

	return &Report{Units: len(batches), Table: table, Loads: loads}, nil
}

func (d *Dispatcher) batches(items []uint64) []batch {
	size := max(d.chunkSize, 1)
	out := make([]batch, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, batch{index: len(out), items: items[start:end:end]})
	}
	return out
}

func (d *Dispatcher) assignmentTask(ctx context.Context, a partition.Assignment) (unitResult, error) {
	return d.factorizeAll(ctx, a.Items)
}

func (d *Dispatcher) batchTask(ctx context.Context, b batch) (unitResult, error) {
	return d.factorizeAll(ctx, b.items)
}

// factorizeAll is the worker side of every strategy: it builds the partial
// table of one unit.
func (d *Dispatcher) factorizeAll(ctx context.Context, items []uint64) (unitResult, error) {
	start := time.Now()
	worker, _ := pool.WorkerID(ctx)

	res := unitResult{
		table:  make(factor.Table, len(items)),
		worker: worker,
		items:  len(items),
	}
	for _, n := range items {
		f, cost := d.factorize(n)
		res.table[n] = f
		res.cost += cost
	}
	res.busy = time.Since(start)
	return res, nil
}

func (d *Dispatcher) poolOptions(p int) []pool.WorkerPoolOption {
	opts := []pool.WorkerPoolOption{
		pool.WithWorkerCount(p),
		pool.WithCPUAffinity(d.pinWorkers),
	}
	if d.ratePerSecond > 0 {
		opts = append(opts, pool.WithRateLimit(d.ratePerSecond, d.rateBurst))
	}
	return opts
}

func (d *Dispatcher) newRand() *rand.Rand {
	if d.seeded {
		return rand.New(rand.NewPCG(d.seed, d.seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
