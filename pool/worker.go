package pool

import (
	"context"
	"fmt"
	"runtime"

	"github.com/utkarsh5026/factorpool/internal/cpu"
)

type workerIDKey struct{}

// WorkerID returns the index of the pool worker executing the task that
// received ctx. The second value is false outside of a pool worker.
func WorkerID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(workerIDKey{}).(int)
	return id, ok
}

func withWorkerID(ctx context.Context, workerID int) context.Context {
	return context.WithValue(ctx, workerIDKey{}, workerID)
}

// runWorker is the core worker loop shared by all strategies. It executes
// tasks from taskChan until the channel is closed or ctx is done. A failing
// task does not stop the worker; its error travels to the result handler.
func runWorker[T, R any](
	ctx context.Context,
	workerID int,
	taskChan <-chan *submittedTask[T, R],
	conf *processorConfig[T, R],
	executor ProcessFunc[T, R],
	h resultHandler[T, R],
) error {
	if conf.pinWorkers {
		release := cpu.SetupWorkerAffinity(workerID)
		defer release()
	}

	taskCtx := withWorkerID(ctx, workerID)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t, ok := <-taskChan:
			if !ok {
				return nil
			}
			result, err := executeTask(taskCtx, conf, t.task, executor)
			h(t, &Result[R, int64]{Value: result, Error: err, Key: t.id})
		}
	}
}

// executeTask encapsulates the common logic for executing a task with hooks, rate limiting, and processing.
func executeTask[T, R any](
	ctx context.Context,
	conf *processorConfig[T, R],
	task T,
	processFn ProcessFunc[T, R],
) (R, error) {
	if conf.rateLimiter != nil {
		if err := conf.rateLimiter.Wait(ctx); err != nil {
			var zero R
			// Rate limiter's error doesn't wrap context errors, so check context explicitly
			if ctxErr := ctx.Err(); ctxErr != nil {
				return zero, ctxErr
			}
			return zero, err
		}
	}

	if conf.beforeTaskStart != nil {
		conf.beforeTaskStart(task)
	}

	result, err := processWithRecovery(ctx, task, processFn)
	debugLog("task finished err=%v", err)

	if conf.onTaskEnd != nil {
		conf.onTaskEnd(task, result, err)
	}

	return result, err
}

// processWithRecovery executes a task with panic recovery.
// If a panic occurs, it's converted to an error to prevent crashing the worker.
func processWithRecovery[T, R any](
	ctx context.Context,
	task T,
	processFn ProcessFunc[T, R],
) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = &PanicError{Value: r, Stack: string(buf[:n])}
		}
	}()

	return processFn(ctx, task)
}

// PanicError is returned for a task whose process function panicked.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker panic: %v\nstack trace:\n%s", e.Value, e.Stack)
}
