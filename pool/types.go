package pool

import "context"

// ProcessFunc is a function type that defines how individual tasks are processed in the worker pool.
// It takes a context for cancellation control and a task of type T, returning a result of type R.
// The context carries the identity of the worker running the task, see WorkerID.
//
// Type parameters:
//   - T: The type of input task to be processed
//   - R: The type of result produced after processing
type ProcessFunc[T any, R any] func(ctx context.Context, task T) (R, error)

// Result represents the outcome of processing a single task in the worker pool.
// It encapsulates both successful results and errors, along with the key that
// identifies the task (its slice index or its submission id).
//
// Type parameters:
//   - R: The type of the result value
//   - K: The type of the task key
type Result[R any, K comparable] struct {
	Value R
	Error error
	Key   K
}

// submittedTask is a task travelling through a scheduling strategy together
// with the future that receives its outcome.
type submittedTask[T, R any] struct {
	task   T
	id     int64
	future *Future[R, int64]
}

// resultHandler receives the outcome of every task executed by a strategy worker.
type resultHandler[T, R any] func(task *submittedTask[T, R], result *Result[R, int64])
