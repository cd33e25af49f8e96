package pool

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestWorkerPool_Process_BasicFunctionality(t *testing.T) {
	runStrategyTest(t, func(t *testing.T, s strategyConfig) {
		pool := NewWorkerPool[int, int](s.opts...)

		tasks := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		processFn := func(ctx context.Context, task int) (int, error) {
			return task * 2, nil
		}

		results, err := pool.Process(context.Background(), tasks, processFn)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(results) != len(tasks) {
			t.Fatalf("expected %d results, got %d", len(tasks), len(results))
		}

		for i, task := range tasks {
			expected := task * 2
			if results[i] != expected {
				t.Errorf("task %d: expected %d, got %d", i, expected, results[i])
			}
		}
	}, 4)
}

func TestWorkerPool_Process_EmptyTasks(t *testing.T) {
	pool := NewWorkerPool[int, int]()

	results, err := pool.Process(context.Background(), []int{}, func(ctx context.Context, task int) (int, error) {
		return task * 2, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

func TestWorkerPool_Process_PreservesOrder(t *testing.T) {
	runStrategyTest(t, func(t *testing.T, s strategyConfig) {
		pool := NewWorkerPool[int, int](s.opts...)

		tasks := make([]int, 1000)
		for i := range tasks {
			tasks[i] = i
		}

		results, err := pool.Process(context.Background(), tasks, func(ctx context.Context, task int) (int, error) {
			return task * task, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for i, r := range results {
			if r != i*i {
				t.Fatalf("result %d: expected %d, got %d", i, i*i, r)
			}
		}
	}, 8)
}

func TestWorkerPool_Process_ErrorHandling(t *testing.T) {
	runStrategyTest(t, func(t *testing.T, s strategyConfig) {
		pool := NewWorkerPool[int, int](s.opts...)
		errBoom := errors.New("boom")

		tasks := make([]int, 100)
		for i := range tasks {
			tasks[i] = i
		}

		_, err := pool.Process(context.Background(), tasks, func(ctx context.Context, task int) (int, error) {
			if task == 50 {
				return 0, errBoom
			}
			return task, nil
		})

		if !errors.Is(err, errBoom) {
			t.Fatalf("expected %v, got %v", errBoom, err)
		}
	}, 4)
}

func TestWorkerPool_Process_PanicRecovery(t *testing.T) {
	runStrategyTest(t, func(t *testing.T, s strategyConfig) {
		pool := NewWorkerPool[int, int](s.opts...)

		_, err := pool.Process(context.Background(), []int{1, 2, 3}, func(ctx context.Context, task int) (int, error) {
			if task == 2 {
				panic("task 2 exploded")
			}
			return task, nil
		})

		var perr *PanicError
		if !errors.As(err, &perr) {
			t.Fatalf("expected *PanicError, got %T: %v", err, err)
		}
		if perr.Value != "task 2 exploded" {
			t.Errorf("unexpected panic value %v", perr.Value)
		}
		if !strings.Contains(perr.Stack, "goroutine") {
			t.Errorf("expected a stack trace, got %q", perr.Stack)
		}
	}, 2)
}

func TestWorkerPool_Process_CancelledContext(t *testing.T) {
	runStrategyTest(t, func(t *testing.T, s strategyConfig) {
		pool := NewWorkerPool[int, int](s.opts...)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		tasks := make([]int, 1000)
		_, err := pool.Process(ctx, tasks, func(ctx context.Context, task int) (int, error) {
			return task, nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	}, 2)
}

func TestWorkerPool_Process_WorkerID(t *testing.T) {
	runStrategyTest(t, func(t *testing.T, s strategyConfig) {
		const workers = 3
		pool := NewWorkerPool[int, int](s.opts...)

		tasks := make([]int, 60)
		results, err := pool.Process(context.Background(), tasks, func(ctx context.Context, task int) (int, error) {
			id, ok := WorkerID(ctx)
			if !ok {
				return 0, errors.New("no worker id in task context")
			}
			return id, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for i, id := range results {
			if id < 0 || id >= workers {
				t.Errorf("task %d ran on worker %d, want [0, %d)", i, id, workers)
			}
		}
	}, 3)
}

func TestWorkerID_OutsidePool(t *testing.T) {
	if _, ok := WorkerID(context.Background()); ok {
		t.Error("expected no worker id outside of a pool")
	}
}

func TestWorkerPool_Process_Reusable(t *testing.T) {
	pool := NewWorkerPool[int, int](WithWorkerCount(4))
	processFn := func(ctx context.Context, task int) (int, error) {
		return task + 1, nil
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := pool.Process(context.Background(), []int{1, 2, 3}, processFn)
			if err != nil {
				errs <- err
				return
			}
			if results[2] != 4 {
				errs <- errors.New("wrong result")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestNewWorkerPool_Defaults(t *testing.T) {
	pool := NewWorkerPool[int, int](WithWorkerCount(6))
	if pool.WorkerCount() != 6 {
		t.Errorf("expected 6 workers, got %d", pool.WorkerCount())
	}
	if pool.conf.taskBuffer != 6 {
		t.Errorf("expected task buffer to default to worker count, got %d", pool.conf.taskBuffer)
	}
	if pool.conf.schedulingStrategy != SchedulingShared {
		t.Errorf("expected shared scheduling by default, got %s", pool.conf.schedulingStrategy)
	}

	ignored := NewWorkerPool[int, int](WithWorkerCount(0), WithTaskBuffer(-1))
	if ignored.WorkerCount() < 1 {
		t.Errorf("invalid worker count must be ignored, got %d", ignored.WorkerCount())
	}
}

func TestSchedulingStrategyType_String(t *testing.T) {
	tests := map[SchedulingStrategyType]string{
		SchedulingShared:           "shared",
		SchedulingChannel:          "channel",
		SchedulingStrategyType(42): "SchedulingStrategyType(42)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
