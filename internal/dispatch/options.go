package dispatch

import "go.uber.org/zap"

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithSeed fixes the seed of the shuffle used by ShuffledContiguous, making
// its assignments reproducible. Without it every run shuffles differently.
func WithSeed(seed uint64) Option {
	return func(d *Dispatcher) {
		d.seed = seed
		d.seeded = true
	}
}

// WithChunkSize groups that many consecutive items into one unit under
// PoolManaged dispatch. The default of 1 submits every item on its own.
func WithChunkSize(size int) Option {
	return func(d *Dispatcher) {
		if size > 0 {
			d.chunkSize = size
		}
	}
}

// WithCPUPinning pins every pool worker to its own CPU core where supported.
func WithCPUPinning(enabled bool) Option {
	return func(d *Dispatcher) {
		d.pinWorkers = enabled
	}
}

// WithRateLimit caps how many units per second the pool starts, with the
// given burst. Useful to make dispatch overhead visible in comparisons.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(d *Dispatcher) {
		if perSecond > 0 && burst > 0 {
			d.ratePerSecond = perSecond
			d.rateBurst = burst
		}
	}
}

// WithProgress registers a callback invoked once per completed unit with the
// number of completed units and the total. It may be called from several
// goroutines at once.
func WithProgress(fn func(done, total int)) Option {
	return func(d *Dispatcher) {
		d.progress = fn
	}
}
