package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/utkarsh5026/factorpool/internal/dispatch"
	"github.com/utkarsh5026/factorpool/internal/factor"
	"github.com/utkarsh5026/factorpool/internal/partition"
	"github.com/utkarsh5026/factorpool/internal/report"
)

// runCompare runs every strategy cmd.cfg.Repeat times over the same range,
// checks that they all agree on the table and prints a ranking.
func runCompare(ctx context.Context, cmd *command, logger *zap.Logger, stdout, stderr io.Writer) error {
	items := partition.Range(cmd.n)
	d := dispatch.New(dispatcherOptions(cmd.cfg, logger)...)

	bold := color.New(color.Bold)
	_, _ = bold.Fprintf(stdout, "Comparing %d strategies: N=%d, P=%d, %d runs each\n\n",
		len(partition.All), cmd.n, cmd.p, cmd.cfg.Repeat)

	bar := newProgressBar(stderr, len(partition.All)*cmd.cfg.Repeat, "comparing")

	var (
		reference factor.Table
		rows      = make([]report.Row, 0, len(partition.All))
	)
	for _, s := range partition.All {
		bar.Describe(fmt.Sprintf("running: %s", s))

		runs := make([]*dispatch.Report, 0, cmd.cfg.Repeat)
		for range cmd.cfg.Repeat {
			r, err := d.Run(ctx, s, items, cmd.p)
			if err != nil {
				_ = bar.Exit()
				return err
			}
			if reference == nil {
				reference = r.Table
			} else if !reference.Equal(r.Table) {
				_ = bar.Exit()
				return fmt.Errorf("strategy %s produced a different table", s)
			}
			runs = append(runs, r)
			_ = bar.Add(1)
		}
		rows = append(rows, report.NewRow(s.String(), runs))
	}
	_ = bar.Finish()
	fmt.Fprintln(stderr)

	if err := report.RenderComparison(stdout, rows); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(stdout, "✓ all strategies produced the same %d factorizations\n", len(reference))
	return nil
}
