// Package report turns dispatcher runs into load-balance statistics and
// renders them as terminal tables.
package report

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/utkarsh5026/factorpool/internal/dispatch"
)

// Stat summarizes one per-worker quantity.
type Stat struct {
	Mean   float64
	StdDev float64 // population standard deviation across workers
	Max    float64
	// Imbalance is Max / Mean: 1 means perfectly even, P means one worker
	// did everything. Zero when nothing was measured.
	Imbalance float64
}

// Balance describes how evenly a run spread its work over the workers.
type Balance struct {
	Busy  Stat // seconds spent inside units
	Cost  Stat // trial divisions
	Items Stat // numbers factorized
}

// Summarize computes the balance statistics of a run's worker loads.
func Summarize(loads []dispatch.WorkerLoad) Balance {
	busy := make([]float64, len(loads))
	cost := make([]float64, len(loads))
	items := make([]float64, len(loads))
	for i, l := range loads {
		busy[i] = l.Busy.Seconds()
		cost[i] = float64(l.Cost)
		items[i] = float64(l.Items)
	}

	return Balance{
		Busy:  summarize(busy),
		Cost:  summarize(cost),
		Items: summarize(items),
	}
}

func summarize(xs []float64) Stat {
	if len(xs) == 0 {
		return Stat{}
	}

	mean, std := stat.PopMeanStdDev(xs, nil)
	s := Stat{Mean: mean, StdDev: std, Max: floats.Max(xs)}
	if mean > 0 {
		s.Imbalance = s.Max / mean
	}
	return s
}

// Row aggregates repeated runs of one strategy for the comparison table.
type Row struct {
	Name    string
	Runs    int
	Mean    time.Duration
	StdDev  time.Duration
	Best    time.Duration
	Balance Balance // of the fastest run
	Rank    int
}

// NewRow summarizes repeated runs of the same strategy. runs must not be empty.
func NewRow(name string, runs []*dispatch.Report) Row {
	elapsed := make([]float64, len(runs))
	best := 0
	for i, r := range runs {
		elapsed[i] = float64(r.Elapsed)
		if r.Elapsed < runs[best].Elapsed {
			best = i
		}
	}

	mean, std := stat.PopMeanStdDev(elapsed, nil)
	return Row{
		Name:    name,
		Runs:    len(runs),
		Mean:    time.Duration(mean),
		StdDev:  time.Duration(std),
		Best:    runs[best].Elapsed,
		Balance: Summarize(runs[best].Loads),
	}
}
