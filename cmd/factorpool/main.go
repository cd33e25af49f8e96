// Command factorpool factorizes every integer in [0, N) on a pool of P
// workers, using one of four partitioning strategies, or compares all of
// them on the same range.
//
//	factorpool [flags] <strategy> <N> <P>
//	factorpool compare [flags] <N> <P>
//
// By default a run prints nothing and discards the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/utkarsh5026/factorpool/internal/config"
	"github.com/utkarsh5026/factorpool/internal/dispatch"
	"github.com/utkarsh5026/factorpool/internal/partition"
	"github.com/utkarsh5026/factorpool/internal/report"
)

const (
	exitOK    = 0
	exitRun   = 1
	exitUsage = 2

	stageArgs = "argument parsing"
	stageRun  = "worker execution"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger, err := newLogger(config.Default(), stderr)
	if err != nil {
		fmt.Fprintf(stderr, "factorpool: %v\n", err)
		return exitRun
	}

	cmd, err := parseCommand(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		logger.Error("invalid invocation", zap.String("stage", stageArgs), zap.Error(err))
		return exitUsage
	}

	if logger, err = newLogger(cmd.cfg, stderr); err != nil {
		fmt.Fprintf(stderr, "factorpool: %v\n", err)
		return exitUsage
	}
	defer func() { _ = logger.Sync() }()

	if cmd.compare {
		err = runCompare(ctx, cmd, logger, stdout, stderr)
	} else {
		err = runOnce(ctx, cmd, logger, stdout, stderr)
	}
	if err != nil {
		logger.Error("run failed", zap.String("stage", stageRun), zap.Error(err))
		return exitRun
	}
	return exitOK
}

func runOnce(ctx context.Context, cmd *command, logger *zap.Logger, stdout, stderr io.Writer) error {
	opts := dispatcherOptions(cmd.cfg, logger)

	var bar *progressbar.ProgressBar
	if cmd.cfg.Progress {
		total := dispatch.New(opts...).Units(cmd.strategy, cmd.n, cmd.p)
		bar = newProgressBar(stderr, total, cmd.strategy.String())
		opts = append(opts, dispatch.WithProgress(func(_, _ int) {
			_ = bar.Add(1)
		}))
	}

	r, err := dispatch.New(opts...).Run(ctx, cmd.strategy, partition.Range(cmd.n), cmd.p)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(stderr)
	}
	if err != nil {
		return err
	}

	if cmd.cfg.Report {
		return report.RenderLoads(stdout, r)
	}
	return nil
}

func dispatcherOptions(cfg config.Config, logger *zap.Logger) []dispatch.Option {
	opts := []dispatch.Option{
		dispatch.WithLogger(logger),
		dispatch.WithChunkSize(cfg.ChunkSize),
		dispatch.WithCPUPinning(cfg.PinWorkers),
		dispatch.WithRateLimit(cfg.Rate, cfg.RateBurst()),
	}
	if cfg.Seed != nil {
		opts = append(opts, dispatch.WithSeed(*cfg.Seed))
	}
	return opts
}

func newProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("units"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
	)
}

// newLogger builds a production zap logger at the configured level. Logs go
// to cfg.LogFile when set and to stderr otherwise.
func newLogger(cfg config.Config, stderr io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "t"
	zc.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	if cfg.LogFile != "" {
		zc.OutputPaths = []string{cfg.LogFile}
		zc.ErrorOutputPaths = []string{cfg.LogFile}
		return zc.Build()
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zc.EncoderConfig),
		zapcore.AddSync(stderr),
		zc.Level,
	)
	return zap.New(core, zap.AddCaller()), nil
}
