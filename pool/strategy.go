package pool

import (
	"context"
	"sync"
	"sync/atomic"
)

// schedulingStrategy defines the behavior for distributing tasks to workers.
type schedulingStrategy[T any, R any] interface {
	// Submit hands a task to the strategy. It blocks while the target queue is
	// full and gives up when ctx is done.
	Submit(ctx context.Context, task *submittedTask[T, R]) error

	// Shutdown closes the queues. Workers finish what is queued and exit.
	// No Submit may be in flight or follow.
	Shutdown()

	// Worker runs the event loop of one worker until its queue is closed and
	// drained (nil) or ctx is done (ctx.Err()).
	Worker(ctx context.Context, workerID int, executor ProcessFunc[T, R], h resultHandler[T, R]) error

	// drain hands every still queued task to fn. Only valid after Shutdown.
	drain(fn func(*submittedTask[T, R]))
}

func createSchedulingStrategy[T, R any](conf *processorConfig[T, R]) schedulingStrategy[T, R] {
	switch conf.schedulingStrategy {
	case SchedulingChannel:
		return newChannelStrategy(conf)
	case SchedulingShared:
		fallthrough
	default:
		return newSharedQueueStrategy(conf)
	}
}

// sharedQueueStrategy feeds all workers from a single channel, so whichever
// worker is idle picks up the next task.
type sharedQueueStrategy[T any, R any] struct {
	conf      *processorConfig[T, R]
	taskChan  chan *submittedTask[T, R]
	closeOnce sync.Once
}

func newSharedQueueStrategy[T any, R any](conf *processorConfig[T, R]) *sharedQueueStrategy[T, R] {
	return &sharedQueueStrategy[T, R]{
		conf:     conf,
		taskChan: make(chan *submittedTask[T, R], conf.taskBuffer),
	}
}

func (s *sharedQueueStrategy[T, R]) Submit(ctx context.Context, task *submittedTask[T, R]) error {
	select {
	case s.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *sharedQueueStrategy[T, R]) Shutdown() {
	s.closeOnce.Do(func() {
		close(s.taskChan)
	})
}

func (s *sharedQueueStrategy[T, R]) Worker(ctx context.Context, workerID int, executor ProcessFunc[T, R], h resultHandler[T, R]) error {
	return runWorker(ctx, workerID, s.taskChan, s.conf, executor, h)
}

func (s *sharedQueueStrategy[T, R]) drain(fn func(*submittedTask[T, R])) {
	drainChannel(s.taskChan, fn)
}

// channelStrategy gives every worker a dedicated channel. Tasks are spread
// round-robin, or placed by the configured affinity function.
type channelStrategy[T any, R any] struct {
	conf      *processorConfig[T, R]
	taskChans []chan *submittedTask[T, R]
	counter   atomic.Int64
	closeOnce sync.Once
}

func newChannelStrategy[T any, R any](conf *processorConfig[T, R]) *channelStrategy[T, R] {
	c := &channelStrategy[T, R]{
		conf:      conf,
		taskChans: make([]chan *submittedTask[T, R], conf.workerCount),
	}

	for i := range c.taskChans {
		c.taskChans[i] = make(chan *submittedTask[T, R], conf.taskBuffer)
	}

	return c
}

func (s *channelStrategy[T, R]) Submit(ctx context.Context, task *submittedTask[T, R]) error {
	select {
	case s.taskChans[s.next(task)] <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *channelStrategy[T, R]) Shutdown() {
	s.closeOnce.Do(func() {
		for _, ch := range s.taskChans {
			close(ch)
		}
	})
}

func (s *channelStrategy[T, R]) Worker(ctx context.Context, workerID int, executor ProcessFunc[T, R], h resultHandler[T, R]) error {
	return runWorker(ctx, workerID, s.taskChans[workerID], s.conf, executor, h)
}

func (s *channelStrategy[T, R]) drain(fn func(*submittedTask[T, R])) {
	for _, ch := range s.taskChans {
		drainChannel(ch, fn)
	}
}

// next returns the index of the worker channel that receives t.
func (s *channelStrategy[T, R]) next(t *submittedTask[T, R]) int {
	n := len(s.taskChans)
	if s.conf.affinityFunc != nil {
		idx := s.conf.affinityFunc(t.task) % n
		if idx < 0 {
			idx += n
		}
		return idx
	}
	return int((s.counter.Add(1) - 1) % int64(n))
}

func drainChannel[T, R any](ch <-chan *submittedTask[T, R], fn func(*submittedTask[T, R])) {
	for {
		select {
		case t, ok := <-ch:
			if !ok {
				return
			}
			fn(t)
		default:
			return
		}
	}
}
