package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/factorpool/internal/dispatch"
)

func TestSummarize_EvenLoads(t *testing.T) {
	loads := []dispatch.WorkerLoad{
		{Worker: 0, Items: 5, Cost: 100, Busy: time.Second},
		{Worker: 1, Items: 5, Cost: 100, Busy: time.Second},
	}

	b := Summarize(loads)

	assert.InDelta(t, 100, b.Cost.Mean, 1e-9)
	assert.InDelta(t, 0, b.Cost.StdDev, 1e-9)
	assert.InDelta(t, 1, b.Cost.Imbalance, 1e-9)
	assert.InDelta(t, 1, b.Busy.Imbalance, 1e-9)
	assert.InDelta(t, 5, b.Items.Max, 1e-9)
}

func TestSummarize_OneWorkerDidEverything(t *testing.T) {
	loads := []dispatch.WorkerLoad{
		{Worker: 0, Items: 12, Cost: 400},
		{Worker: 1},
		{Worker: 2},
		{Worker: 3},
	}

	b := Summarize(loads)

	assert.InDelta(t, 100, b.Cost.Mean, 1e-9)
	assert.InDelta(t, 400, b.Cost.Max, 1e-9)
	assert.InDelta(t, 4, b.Cost.Imbalance, 1e-9, "imbalance equals P when one worker carries the run")
	// population stddev of {400, 0, 0, 0}
	assert.InDelta(t, 173.205080, b.Cost.StdDev, 1e-5)
	// nothing was timed
	assert.Zero(t, b.Busy.Imbalance)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Balance{}, Summarize(nil))
}

func TestNewRow(t *testing.T) {
	runs := []*dispatch.Report{
		{Elapsed: 30 * time.Millisecond, Loads: []dispatch.WorkerLoad{{Cost: 1}, {Cost: 3}}},
		{Elapsed: 10 * time.Millisecond, Loads: []dispatch.WorkerLoad{{Cost: 2}, {Cost: 2}}},
		{Elapsed: 20 * time.Millisecond, Loads: []dispatch.WorkerLoad{{Cost: 4}, {Cost: 0}}},
	}

	row := NewRow("round-robin", runs)

	assert.Equal(t, "round-robin", row.Name)
	assert.Equal(t, 3, row.Runs)
	assert.Equal(t, 20*time.Millisecond, row.Mean)
	assert.Equal(t, 10*time.Millisecond, row.Best)
	require.Greater(t, row.StdDev, time.Duration(0))
	// balance comes from the fastest run
	assert.InDelta(t, 1, row.Balance.Cost.Imbalance, 1e-9)
}
