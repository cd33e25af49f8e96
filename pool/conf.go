package pool

import (
	"fmt"
	"runtime"

	"golang.org/x/time/rate"
)

// SchedulingStrategyType selects how submitted tasks reach the workers.
type SchedulingStrategyType int

const (
	// SchedulingShared feeds every worker from one shared queue. An idle
	// worker always pulls the next pending task, which balances uneven
	// task costs dynamically.
	SchedulingShared SchedulingStrategyType = iota

	// SchedulingChannel gives each worker its own channel. Tasks are
	// distributed round-robin, or by the affinity function when one is set,
	// so the placement of a task is decided at submission time.
	SchedulingChannel
)

func (s SchedulingStrategyType) String() string {
	switch s {
	case SchedulingShared:
		return "shared"
	case SchedulingChannel:
		return "channel"
	default:
		return fmt.Sprintf("SchedulingStrategyType(%d)", int(s))
	}
}

// WorkerPoolOption is a functional option for configuring the worker pool.
type WorkerPoolOption func(*workerPoolConfig)

type workerPoolConfig struct {
	workerCount        int
	taskBuffer         int
	rateLimiter        *rate.Limiter
	schedulingStrategy SchedulingStrategyType
	pinWorkers         bool

	affinityFunc func(any) int
	affinityType string

	beforeTaskStart     func(any)
	beforeTaskStartType string

	onTaskEnd           func(any, any, error)
	onTaskEndTaskType   string
	onTaskEndResultType string
}

// processorConfig is the typed view of workerPoolConfig shared by the
// strategies and workers of one pool.
type processorConfig[T, R any] struct {
	workerCount        int
	taskBuffer         int
	rateLimiter        *rate.Limiter
	schedulingStrategy SchedulingStrategyType
	pinWorkers         bool
	affinityFunc       func(T) int
	beforeTaskStart    func(T)
	onTaskEnd          func(T, R, error)
}

// WithWorkerCount sets the number of concurrent workers.
// If not specified, defaults to runtime.GOMAXPROCS(0).
func WithWorkerCount(count int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if count > 0 {
			cfg.workerCount = count
		}
	}
}

// WithTaskBuffer sets the buffer size for the task channel(s).
// A larger buffer can improve throughput but uses more memory.
// If not specified, defaults to the number of workers.
func WithTaskBuffer(size int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if size >= 0 {
			cfg.taskBuffer = size
		}
	}
}

// WithRateLimit sets a rate limiter for controlling task throughput.
// tasksPerSecond specifies the maximum number of tasks to start per second.
// burst specifies the maximum number of tasks that can start in a burst.
// If not specified, no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithSchedulingStrategy selects the task distribution strategy.
func WithSchedulingStrategy(strategy SchedulingStrategyType) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.schedulingStrategy = strategy
	}
}

// WithAffinity routes every task to the worker whose index is
// fn(task) modulo the worker count. It implies SchedulingChannel.
//
// Example:
//
//	WithAffinity(func(a Assignment) int { return a.Worker })
func WithAffinity[T any](fn func(T) int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if fn == nil {
			return
		}
		var zero T
		cfg.schedulingStrategy = SchedulingChannel
		cfg.affinityType = fmt.Sprintf("%T", zero)
		cfg.affinityFunc = func(task any) int {
			return fn(task.(T))
		}
	}
}

// WithCPUAffinity locks every worker goroutine to its own OS thread and,
// where the platform supports it, pins that thread to CPU core
// workerID % NumCPU.
func WithCPUAffinity(enabled bool) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.pinWorkers = enabled
	}
}

// WithBeforeTaskStart registers a hook called by the worker right before a task runs.
// The hook type must match the pool's task type, otherwise pool construction panics.
func WithBeforeTaskStart[T any](fn func(T)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if fn == nil {
			return
		}
		var zero T
		cfg.beforeTaskStartType = fmt.Sprintf("%T", zero)
		cfg.beforeTaskStart = func(task any) {
			fn(task.(T))
		}
	}
}

// WithOnTaskEnd registers a hook called after a task finishes, with its result and error.
// The hook types must match the pool's task and result types, otherwise pool construction panics.
func WithOnTaskEnd[T, R any](fn func(T, R, error)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if fn == nil {
			return
		}
		var zeroT T
		var zeroR R
		cfg.onTaskEndTaskType = fmt.Sprintf("%T", zeroT)
		cfg.onTaskEndResultType = fmt.Sprintf("%T", zeroR)
		cfg.onTaskEnd = func(task any, result any, err error) {
			fn(task.(T), result.(R), err)
		}
	}
}

func createConfig[T, R any](opts ...WorkerPoolOption) *processorConfig[T, R] {
	cfg := &workerPoolConfig{
		workerCount: runtime.GOMAXPROCS(0),
		taskBuffer:  0, // Will be set to workerCount if not specified
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.taskBuffer == 0 {
		cfg.taskBuffer = cfg.workerCount
	}

	var zeroT T
	var zeroR R
	expectedTaskType := fmt.Sprintf("%T", zeroT)
	expectedResultType := fmt.Sprintf("%T", zeroR)

	affinity, beforeTaskStart, onTaskEnd := checkfuncs[T, R](cfg, expectedTaskType, expectedResultType)

	return &processorConfig[T, R]{
		workerCount:        cfg.workerCount,
		taskBuffer:         cfg.taskBuffer,
		rateLimiter:        cfg.rateLimiter,
		schedulingStrategy: cfg.schedulingStrategy,
		pinWorkers:         cfg.pinWorkers,
		affinityFunc:       affinity,
		beforeTaskStart:    beforeTaskStart,
		onTaskEnd:          onTaskEnd,
	}
}

// checkfuncs validates user-supplied hook functions against the pool's task and
// result types and returns typed wrappers for use by the workers.
//
// Panics:
//
//	If any user-supplied function's type does not match the expected task/result types.
//	The panic message describes the type mismatch reason.
func checkfuncs[T any, R any](
	cfg *workerPoolConfig,
	expectedTaskType, expectedResultType string,
) (
	affinity func(T) int,
	beforeTaskStart func(T),
	onTaskEnd func(T, R, error),
) {
	if cfg.affinityFunc != nil {
		if cfg.affinityType != expectedTaskType {
			panic(fmt.Sprintf("WithAffinity expects task type %s, but pool processes type %s",
				cfg.affinityType, expectedTaskType))
		}
		affinity = func(task T) int {
			return cfg.affinityFunc(task)
		}
	}

	if cfg.beforeTaskStart != nil {
		if cfg.beforeTaskStartType != expectedTaskType {
			panic(fmt.Sprintf("WithBeforeTaskStart hook expects task type %s, but pool processes type %s",
				cfg.beforeTaskStartType, expectedTaskType))
		}
		beforeTaskStart = func(task T) {
			cfg.beforeTaskStart(task)
		}
	}

	if cfg.onTaskEnd != nil {
		if cfg.onTaskEndTaskType != expectedTaskType {
			panic(fmt.Sprintf("WithOnTaskEnd hook expects task type %s, but pool processes type %s",
				cfg.onTaskEndTaskType, expectedTaskType))
		}
		if cfg.onTaskEndResultType != expectedResultType {
			panic(fmt.Sprintf("WithOnTaskEnd hook expects result type %s, but pool produces type %s",
				cfg.onTaskEndResultType, expectedResultType))
		}
		onTaskEnd = func(task T, result R, err error) {
			cfg.onTaskEnd(task, result, err)
		}
	}

	return affinity, beforeTaskStart, onTaskEnd
}
