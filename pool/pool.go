package pool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WorkerPool is a generic batch worker pool. Every Process call starts its
// own workers and tears them down before returning, so one WorkerPool value
// can be reused and shared between goroutines.
//
// Type parameters:
//   - T: The input task type
//   - R: The result type
type WorkerPool[T any, R any] struct {
	conf *processorConfig[T, R]
}

// NewWorkerPool creates a new worker pool with the given options.
//
// Default configuration:
//   - workerCount: runtime.GOMAXPROCS(0) (number of logical CPUs)
//   - taskBuffer: equal to workerCount
//   - scheduling: SchedulingShared
//
// Example:
//
//	pool := NewWorkerPool[int, string](
//	    WithWorkerCount(10),
//	    WithTaskBuffer(20),
//	)
func NewWorkerPool[T any, R any](opts ...WorkerPoolOption) *WorkerPool[T, R] {
	return &WorkerPool[T, R]{
		conf: createConfig[T, R](opts...),
	}
}

// WorkerCount returns the number of workers each Process call runs.
func (wp *WorkerPool[T, R]) WorkerCount() int {
	return wp.conf.workerCount
}

// Process executes a batch of tasks concurrently and returns the results in
// the same order as tasks. It uses fail-fast semantics: the first task error
// cancels the remaining work and is returned together with the partial
// results collected so far.
//
// Example:
//
//	tasks := []int{1, 2, 3, 4, 5}
//	results, err := pool.Process(ctx, tasks, func(ctx context.Context, n int) (string, error) {
//	    return fmt.Sprintf("processed %d", n), nil
//	})
func (wp *WorkerPool[T, R]) Process(
	ctx context.Context,
	tasks []T,
	processFn ProcessFunc[T, R],
) ([]R, error) {
	if len(tasks) == 0 {
		return []R{}, nil
	}

	strategy := createSchedulingStrategy(wp.conf)
	g, gctx := errgroup.WithContext(ctx)

	// Every task owns its slot, so workers write without locking.
	results := make([]R, len(tasks))
	handler := func(t *submittedTask[T, R], r *Result[R, int64]) {
		if r.Error == nil {
			results[t.id] = r.Value
		}
	}

	for i := range wp.conf.workerCount {
		g.Go(func() error {
			return wp.runBatchWorker(gctx, i, strategy, processFn, handler)
		})
	}

	g.Go(func() error {
		defer strategy.Shutdown()
		for idx, task := range tasks {
			st := &submittedTask[T, R]{task: task, id: int64(idx)}
			if err := strategy.Submit(gctx, st); err != nil {
				return err
			}
		}
		return nil
	})

	err := g.Wait()
	return results, err
}

// runBatchWorker wraps the strategy worker so that the first task error is
// returned to the errgroup, which cancels every other worker.
func (wp *WorkerPool[T, R]) runBatchWorker(
	ctx context.Context,
	workerID int,
	strategy schedulingStrategy[T, R],
	processFn ProcessFunc[T, R],
	handler resultHandler[T, R],
) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	h := func(t *submittedTask[T, R], r *Result[R, int64]) {
		handler(t, r)
		if r.Error != nil {
			cancel(r.Error)
		}
	}

	err := strategy.Worker(ctx, workerID, processFn, h)
	if cause := context.Cause(ctx); cause != nil && cause != context.Canceled {
		return cause
	}
	return err
}
