package pool

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrFutureTimeout is returned by GetWithTimeout when the result did not arrive in time.
var ErrFutureTimeout = errors.New("future: timed out waiting for result")

// Future represents the pending result of a task submitted to a Scheduler.
// A Future is resolved exactly once; every Get after that returns the same result.
//
// Type parameters:
//   - R: The result type
//   - K: The key type identifying the task
type Future[R any, K comparable] struct {
	done   chan struct{}
	once   sync.Once
	result Result[R, K]
}

func newFuture[R any, K comparable]() *Future[R, K] {
	return &Future[R, K]{done: make(chan struct{})}
}

// resolve stores the result and wakes every waiter. Later calls are ignored.
func (f *Future[R, K]) resolve(r Result[R, K]) {
	f.once.Do(func() {
		f.result = r
		close(f.done)
	})
}

// Get blocks until the task completes and returns its value, key and error.
func (f *Future[R, K]) Get() (R, K, error) {
	<-f.done
	return f.result.Value, f.result.Key, f.result.Error
}

// GetWithContext is like Get but gives up when ctx is done.
func (f *Future[R, K]) GetWithContext(ctx context.Context) (R, K, error) {
	select {
	case <-f.done:
		return f.result.Value, f.result.Key, f.result.Error
	case <-ctx.Done():
		var zeroR R
		var zeroK K
		return zeroR, zeroK, ctx.Err()
	}
}

// GetWithTimeout is like Get but gives up after timeout with ErrFutureTimeout.
func (f *Future[R, K]) GetWithTimeout(timeout time.Duration) (R, K, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result.Value, f.result.Key, f.result.Error
	case <-timer.C:
		var zeroR R
		var zeroK K
		return zeroR, zeroK, ErrFutureTimeout
	}
}

// IsReady reports whether the result is available without blocking.
func (f *Future[R, K]) IsReady() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed once the future is resolved.
func (f *Future[R, K]) Done() <-chan struct{} {
	return f.done
}

// AsCompleted yields the given futures in the order they complete, which is
// generally not the order they were submitted in. The returned channel is
// closed after every future has been yielded, or as soon as ctx is done.
func AsCompleted[R any, K comparable](ctx context.Context, futures []*Future[R, K]) <-chan *Future[R, K] {
	out := make(chan *Future[R, K], len(futures))

	var wg sync.WaitGroup
	wg.Add(len(futures))
	for _, f := range futures {
		go func(f *Future[R, K]) {
			defer wg.Done()
			select {
			case <-f.done:
				out <- f
			case <-ctx.Done():
			}
		}(f)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
