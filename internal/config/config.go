// Package config loads factorpool settings from an optional YAML file and
// overlays the command line flags the user set explicitly.
//
// Precedence, lowest first: built-in defaults, the YAML file, explicit flags.
package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidChunkSize = errors.New("chunk size must be at least 1")
	ErrInvalidRate      = errors.New("rate and burst must not be negative")
	ErrInvalidRepeat    = errors.New("repeat must be at least 1")
)

// Config holds the tunables of a run. Zero values in a YAML file leave the
// defaults in place.
type Config struct {
	LogLevel   string  `yaml:"log_level"`
	LogFile    string  `yaml:"log_file"`
	Seed       *uint64 `yaml:"seed"`
	ChunkSize  int     `yaml:"chunk_size"`
	PinWorkers bool    `yaml:"pin_workers"`
	Rate       float64 `yaml:"rate"`
	Burst      int     `yaml:"burst"`
	Progress   bool    `yaml:"progress"`
	Report     bool    `yaml:"report"`
	Repeat     int     `yaml:"repeat"`
}

// Default returns the configuration used when neither a file nor a flag
// says otherwise.
func Default() Config {
	return Config{
		LogLevel:  "warn",
		ChunkSize: 1,
		Repeat:    3,
	}
}

// Load reads the YAML file at path on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	setDefaults(&cfg)
	return cfg, nil
}

func setDefaults(cfg *Config) {
	def := Default()
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if cfg.Repeat == 0 {
		cfg.Repeat = def.Repeat
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.ChunkSize < 1 {
		return ErrInvalidChunkSize
	}
	if c.Rate < 0 || c.Burst < 0 {
		return ErrInvalidRate
	}
	if c.Repeat < 1 {
		return ErrInvalidRepeat
	}
	return nil
}

// RateBurst returns the limiter burst. A rate without an explicit burst
// gets a burst of 1.
func (c Config) RateBurst() int {
	if c.Rate > 0 && c.Burst == 0 {
		return 1
	}
	return c.Burst
}
