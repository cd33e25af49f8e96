package benchmarks

import (
	"context"
	"testing"

	"github.com/utkarsh5026/factorpool/internal/factor"
	"github.com/utkarsh5026/factorpool/pool"
)

// strategyConfig defines a benchmark configuration for a pool scheduling strategy
type strategyConfig struct {
	name string
	opts []pool.WorkerPoolOption
}

// getPoolStrategies returns the pool scheduling strategies for benchmarking
func getPoolStrategies(workerCount int) []strategyConfig {
	return []strategyConfig{
		{
			name: "Shared",
			opts: []pool.WorkerPoolOption{
				pool.WithWorkerCount(workerCount),
				pool.WithSchedulingStrategy(pool.SchedulingShared),
			},
		},
		{
			name: "Channel",
			opts: []pool.WorkerPoolOption{
				pool.WithWorkerCount(workerCount),
				pool.WithSchedulingStrategy(pool.SchedulingChannel),
			},
		},
		{
			name: "Channel_Pinned",
			opts: []pool.WorkerPoolOption{
				pool.WithWorkerCount(workerCount),
				pool.WithSchedulingStrategy(pool.SchedulingChannel),
				pool.WithCPUAffinity(true),
			},
		},
	}
}

func runStrategyBenchmark(b *testing.B, strategies []strategyConfig, benchFunc func(b *testing.B, s strategyConfig)) {
	for _, s := range strategies {
		b.Run(s.name, func(b *testing.B) {
			benchFunc(b, s)
		})
	}
}

// factorWork factorizes one number per task
func factorWork(_ context.Context, n uint64) ([]uint64, error) {
	return factor.Factorize(n), nil
}

// ascending returns [offset, offset+n); later numbers are costlier to factorize
func ascending(offset uint64, n int) []uint64 {
	items := make([]uint64, n)
	for i := range items {
		items[i] = offset + uint64(i)
	}
	return items
}
