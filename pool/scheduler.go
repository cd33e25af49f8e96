package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrSchedulerStarted is returned by Start on a scheduler that is already running.
	ErrSchedulerStarted = errors.New("pool already started")
	// ErrSchedulerNotStarted is returned when a scheduler is used before Start.
	ErrSchedulerNotStarted = errors.New("pool not started")
	// ErrSchedulerShutdown is returned once Shutdown or Close has been called.
	ErrSchedulerShutdown = errors.New("pool shut down")
	// ErrShutdownTimeout is returned by Shutdown when the workers outlive its timeout.
	ErrShutdownTimeout = errors.New("error in shutting down: timeout reached")
)

// Scheduler is a long-running worker pool that is started once, accepts
// asynchronous task submissions and is torn down with Shutdown or Close.
//
// Type parameters:
//   - T: The input task type processed by workers
//   - R: The output/result type produced by processing tasks
type Scheduler[T, R any] struct {
	config *processorConfig[T, R]
	mu     sync.RWMutex
	state  *poolState[T, R]
}

// poolState holds the runtime state of a started Scheduler.
type poolState[T any, R any] struct {
	ctx           context.Context
	cancel        context.CancelFunc
	started       atomic.Bool
	shutdown      atomic.Bool
	taskIDCounter atomic.Int64
	inflight      sync.WaitGroup // Submit calls currently handing tasks to the strategy
	strategy      schedulingStrategy[T, R]
	done          chan struct{} // Closed when all workers have finished
}

// NewScheduler creates a new Scheduler instance with the specified configuration options.
// This does NOT start any workers immediately; use Start to begin processing tasks.
//
// Example:
//
//	sched := NewScheduler[int, string](WithWorkerCount(8), WithTaskBuffer(32))
//	_ = sched.Start(ctx, processFunc)
//	defer sched.Close()
//	future, _ := sched.Submit(5)
func NewScheduler[T, R any](opts ...WorkerPoolOption) *Scheduler[T, R] {
	return &Scheduler[T, R]{
		config: createConfig[T, R](opts...),
	}
}

// WorkerCount returns the number of workers the scheduler runs.
func (wp *Scheduler[T, R]) WorkerCount() int {
	return wp.config.workerCount
}

// Start launches the workers. Every submitted task is processed with processFn.
// A task error is delivered through its Future and does not stop the worker.
//
// Returns ErrSchedulerStarted if the scheduler was already started.
func (wp *Scheduler[T, R]) Start(ctx context.Context, processFn ProcessFunc[T, R]) error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.state != nil {
		return ErrSchedulerStarted
	}

	strategy := createSchedulingStrategy(wp.config)

	ctx, cancel := context.WithCancel(ctx)
	state := &poolState[T, R]{
		ctx:      ctx,
		cancel:   cancel,
		strategy: strategy,
		done:     make(chan struct{}),
	}

	wp.state = state
	state.started.Store(true)

	var resHandler resultHandler[T, R] = func(t *submittedTask[T, R], r *Result[R, int64]) {
		t.future.resolve(*r)
	}

	var g errgroup.Group
	for i := range wp.config.workerCount {
		g.Go(func() error {
			return strategy.Worker(ctx, i, processFn, resHandler)
		})
	}

	go func() {
		_ = g.Wait()
		close(state.done)
	}()

	return nil
}

// Submit submits a single task to the pool for asynchronous processing.
// It returns a Future that is resolved when the task completes.
//
// Returns ErrSchedulerNotStarted or ErrSchedulerShutdown when the pool cannot
// accept work, or the context error if the pool is being closed while Submit
// waits for queue space.
func (wp *Scheduler[T, R]) Submit(task T) (*Future[R, int64], error) {
	wp.mu.RLock()
	state := wp.state
	if state == nil || !state.started.Load() {
		wp.mu.RUnlock()
		return nil, ErrSchedulerNotStarted
	}
	if state.shutdown.Load() {
		wp.mu.RUnlock()
		return nil, ErrSchedulerShutdown
	}
	state.inflight.Add(1)
	wp.mu.RUnlock()
	defer state.inflight.Done()

	st := &submittedTask[T, R]{
		task:   task,
		id:     state.taskIDCounter.Add(1),
		future: newFuture[R, int64](),
	}

	if err := state.strategy.Submit(state.ctx, st); err != nil {
		return nil, err
	}
	return st.future, nil
}

// Shutdown gracefully shuts down the scheduler. Queued tasks still run, and
// Shutdown waits for the workers to drain and exit.
//
// Parameters:
//   - timeout: Maximum duration to wait for graceful shutdown (0 = wait forever)
func (wp *Scheduler[T, R]) Shutdown(timeout time.Duration) error {
	state, err := wp.beginShutdown()
	if err != nil {
		return err
	}

	state.inflight.Wait()
	state.strategy.Shutdown()

	err = waitUntil(state.done, timeout)
	state.cancel()
	return err
}

// Close stops the scheduler without running the tasks that are still queued.
// Tasks already executing run to completion; futures of tasks that never ran
// are resolved with context.Canceled. Close blocks until every worker has
// exited and is safe to call on a scheduler that was never started, or
// twice.
func (wp *Scheduler[T, R]) Close() {
	state, err := wp.beginShutdown()
	if err != nil {
		if state != nil {
			<-state.done
		}
		return
	}

	state.cancel()
	state.inflight.Wait()
	state.strategy.Shutdown()
	<-state.done

	state.strategy.drain(func(t *submittedTask[T, R]) {
		t.future.resolve(Result[R, int64]{Key: t.id, Error: context.Canceled})
	})
}

// beginShutdown flips the scheduler into the shut down state. It returns the
// state together with an error when the scheduler was never started or is
// already shut down.
func (wp *Scheduler[T, R]) beginShutdown() (*poolState[T, R], error) {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	state := wp.state
	if state == nil || !state.started.Load() {
		return nil, ErrSchedulerNotStarted
	}
	if !state.shutdown.CompareAndSwap(false, true) {
		return state, ErrSchedulerShutdown
	}
	return state, nil
}

// waitUntil blocks until either the done channel is closed or the timeout is reached.
func waitUntil(d <-chan struct{}, timeout time.Duration) error {
	if timeout <= 0 {
		<-d
		return nil
	}

	select {
	case <-d:
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}
