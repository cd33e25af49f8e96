package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/utkarsh5026/factorpool/internal/dispatch"
)

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
)

// RenderLoads prints one row per worker of a run followed by its balance.
func RenderLoads(w io.Writer, r *dispatch.Report) error {
	_, _ = bold.Fprintf(w, "%s: %d items, %d units, %d workers in %s\n",
		r.Strategy, r.Items, r.Units, r.Workers, r.Elapsed.Round(time.Microsecond))

	totalCost := 0
	for _, l := range r.Loads {
		totalCost += l.Cost
	}

	table := tablewriter.NewWriter(w)
	table.Header("Worker", "Units", "Items", "Trial Divisions", "Busy", "Share")
	for _, l := range r.Loads {
		share := 0.0
		if totalCost > 0 {
			share = float64(l.Cost) / float64(totalCost) * 100
		}
		if err := table.Append(
			strconv.Itoa(l.Worker),
			strconv.Itoa(l.Units),
			strconv.Itoa(l.Items),
			strconv.Itoa(l.Cost),
			l.Busy.Round(time.Microsecond).String(),
			fmt.Sprintf("%.1f%%", share),
		); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	b := Summarize(r.Loads)
	_, err := fmt.Fprintf(w, "cost imbalance %.2fx (stddev %.0f), busy imbalance %.2fx\n",
		b.Cost.Imbalance, b.Cost.StdDev, b.Busy.Imbalance)
	return err
}

// RenderComparison ranks the rows by mean elapsed time and prints them.
// Rows are sorted in place and their Rank is set.
func RenderComparison(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Mean < rows[j].Mean
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	_, _ = bold.Fprintln(w, "═══════════════════════════════════════════════════════════")
	_, _ = bold.Fprintln(w, "📊 STRATEGY COMPARISON")
	_, _ = bold.Fprintln(w, "═══════════════════════════════════════════════════════════")

	table := tablewriter.NewWriter(w)
	table.Header("Rank", "Strategy", "Mean", "± StdDev", "Best", "vs Fastest", "Cost Imbalance", "Busy Imbalance")

	fastest := rows[0].Mean.Seconds()
	last := len(rows)
	for _, r := range rows {
		rank := strconv.Itoa(r.Rank)
		switch r.Rank {
		case 1:
			rank = green.Sprint("🥇")
		case last:
			rank = red.Sprint(rank)
		}

		comparison := "baseline"
		if r.Rank > 1 && fastest > 0 {
			comparison = fmt.Sprintf("+%.1f%%", (r.Mean.Seconds()/fastest-1)*100)
		}

		if err := table.Append(
			rank,
			r.Name,
			r.Mean.Round(time.Microsecond).String(),
			r.StdDev.Round(time.Microsecond).String(),
			r.Best.Round(time.Microsecond).String(),
			comparison,
			fmt.Sprintf("%.2fx", r.Balance.Cost.Imbalance),
			fmt.Sprintf("%.2fx", r.Balance.Busy.Imbalance),
		); err != nil {
			return err
		}
	}
	return table.Render()
}
