// Package config loads hull3d settings from a YAML file.
package config

import (
	"os"
	"time"

	"github.com/chazu/hull3d/pkg/hull"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the top-level settings document.
type Config struct {
	Hull   HullConfig   `yaml:"hull"`
	Engine EngineConfig `yaml:"engine"`
	Log    LogConfig    `yaml:"log"`
}

// HullConfig tunes the hull builder.
type HullConfig struct {
	Seed            uint64  `yaml:"seed"`
	Epsilon         float64 `yaml:"epsilon"`
	MaxSeedAttempts int     `yaml:"max_seed_attempts"`
	Validate        bool    `yaml:"validate"`
}

// EngineConfig tunes script evaluation.
type EngineConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig selects the logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Hull: HullConfig{
			Seed:            hull.DefaultSeed,
			MaxSeedAttempts: hull.DefaultMaxSeedAttempts,
		},
		Engine: EngineConfig{Timeout: 5 * time.Second},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: read")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "config: parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Validate rejects settings the builder or engine cannot use.
func (c *Config) Validate() error {
	if c.Hull.Epsilon < 0 {
		return errors.Errorf("hull.epsilon must be non-negative, got %g", c.Hull.Epsilon)
	}
	if c.Hull.MaxSeedAttempts < 0 {
		return errors.Errorf("hull.max_seed_attempts must be non-negative, got %d", c.Hull.MaxSeedAttempts)
	}
	if c.Engine.Timeout <= 0 {
		return errors.Errorf("engine.timeout must be positive, got %s", c.Engine.Timeout)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	return nil
}

// HullOptions converts the hull settings into builder options. The logger
// is passed through so the builder logs alongside its caller.
func (c *Config) HullOptions(log *zap.Logger) []hull.Option {
	return []hull.Option{
		hull.WithSeed(c.Hull.Seed),
		hull.WithEpsilon(c.Hull.Epsilon),
		hull.WithMaxSeedAttempts(c.Hull.MaxSeedAttempts),
		hull.WithValidation(c.Hull.Validate),
		hull.WithLogger(log),
	}
}

// Logger builds the configured zap logger.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrap(err, "config: log level")
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
