package config

import "flag"

// Flags binds the configuration flags to a FlagSet. After the set is parsed,
// Resolve merges them with the file named by -config.
type Flags struct {
	fs     *flag.FlagSet
	path   string
	seed   uint64
	values Config
}

// RegisterFlags defines the configuration flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	def := Default()

	fs.StringVar(&f.path, "config", "", "path to a YAML config file")
	fs.StringVar(&f.values.LogLevel, "log-level", def.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&f.values.LogFile, "log-file", "", "write logs to this file instead of stderr")
	fs.Uint64Var(&f.seed, "seed", 0, "seed for the shuffled strategy (random when unset)")
	fs.IntVar(&f.values.ChunkSize, "chunk", def.ChunkSize, "items per unit for the pool strategy")
	fs.BoolVar(&f.values.PinWorkers, "pin", false, "pin every worker to its own CPU core")
	fs.Float64Var(&f.values.Rate, "rate", 0, "max units started per second (0 = unlimited)")
	fs.IntVar(&f.values.Burst, "burst", 0, "rate limiter burst")
	fs.BoolVar(&f.values.Progress, "progress", false, "show a progress bar")
	fs.BoolVar(&f.values.Report, "report", false, "print the per-worker load table")
	fs.IntVar(&f.values.Repeat, "repeat", def.Repeat, "runs per strategy in compare mode")

	return f
}

// Resolve loads the config file and overlays every flag that was set on the
// command line. Flags left at their default never override the file.
func (f *Flags) Resolve() (Config, error) {
	cfg, err := Load(f.path)
	if err != nil {
		return Config{}, err
	}

	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "log-level":
			cfg.LogLevel = f.values.LogLevel
		case "log-file":
			cfg.LogFile = f.values.LogFile
		case "seed":
			seed := f.seed
			cfg.Seed = &seed
		case "chunk":
			cfg.ChunkSize = f.values.ChunkSize
		case "pin":
			cfg.PinWorkers = f.values.PinWorkers
		case "rate":
			cfg.Rate = f.values.Rate
		case "burst":
			cfg.Burst = f.values.Burst
		case "progress":
			cfg.Progress = f.values.Progress
		case "report":
			cfg.Report = f.values.Report
		case "repeat":
			cfg.Repeat = f.values.Repeat
		}
	})

	return cfg, cfg.Validate()
}
