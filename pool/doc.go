// Package pool provides a small generic goroutine worker pool for CPU-bound
// task processing.
//
// Two entry points share one set of functional options:
//
//   - WorkerPool[T, R].Process runs a batch of tasks and returns the results
//     in input order, failing fast on the first task error.
//   - Scheduler[T, R] is started once, accepts tasks one at a time through
//     Submit and hands back a Future per task. AsCompleted yields futures in
//     completion order.
//
// Every task function receives a context carrying the index of the worker
// that runs it (see WorkerID). Panics inside a task are recovered and
// reported as *PanicError with the stack trace; the worker keeps running.
//
// # Basic Usage
//
//	ctx := context.Background()
//	tasks := []int{1, 2, 3, 4}
//	pool := NewWorkerPool[int, int](WithWorkerCount(4))
//	results, err := pool.Process(ctx, tasks, func(ctx context.Context, t int) (int, error) {
//	    return t * 2, nil
//	})
//
// # Scheduler
//
//	sched := NewScheduler[int, string](WithWorkerCount(8))
//	if err := sched.Start(ctx, processFn); err != nil {
//	    return err
//	}
//	defer sched.Close()
//
//	future, err := sched.Submit(42)
//	value, id, err := future.Get()
//
// Shutdown drains the queue before returning; Close abandons queued tasks and
// resolves their futures with context.Canceled.
//
// # Scheduling
//
// SchedulingShared (the default) feeds all workers from one queue, so an idle
// worker always takes the next task. SchedulingChannel gives every worker its
// own queue and places tasks round-robin, or by a key when WithAffinity is
// set:
//
//	sched := NewScheduler[Assignment, Result](
//	    WithWorkerCount(p),
//	    WithAffinity(func(a Assignment) int { return a.Worker }),
//	)
//
// # Rate Limiting
//
//	pool := NewWorkerPool[string, Response](
//	    WithWorkerCount(10),
//	    WithRateLimit(5.0, 10), // 5 tasks/sec, burst of 10
//	)
//
// # Configuration Options
//
//   - WithWorkerCount(n): Set number of concurrent workers (default: GOMAXPROCS)
//   - WithTaskBuffer(size): Set task queue capacity (default: worker count)
//   - WithSchedulingStrategy(s): Shared queue or per-worker channels
//   - WithAffinity(fn): Route each task to worker fn(task) % n
//   - WithCPUAffinity(true): Lock workers to OS threads pinned to CPU cores
//   - WithRateLimit(rate, burst): Throttle task starts
//   - WithBeforeTaskStart(fn), WithOnTaskEnd(fn): Per-task hooks
//
// Hook and affinity functions are checked against the pool's task and result
// types when the pool is built; a mismatch panics.
//
// Build with -tags debug to log every finished task to stderr.
package pool
