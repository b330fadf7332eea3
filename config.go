package reactorx

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/comalice/reactorx/internal/rtime"
)

// Config holds the recognized runtime options from spec §6. It is the
// serializable half of an environment's settings: the Observer hook, being a
// Go value rather than data, is wired separately via WithObserver.
type Config struct {
	ValidateRuntime        bool `yaml:"validate_runtime"`
	WorkerPoolSize         int  `yaml:"worker_pool_size"`
	FastForwardLogicalTime bool `yaml:"fast_forward_logical_time"`
	RunForever             bool `yaml:"run_forever"`
	Verbose                bool `yaml:"verbose"`
}

// DefaultConfig returns the zero-value-safe baseline: fully serial dispatch,
// physical-time waiting enabled, drain-and-exit termination.
func DefaultConfig() Config {
	return Config{WorkerPoolSize: 1}
}

// LoadConfig reads a Config from a reactorx.yaml-style file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reactorx: load config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("reactorx: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Marshal renders the config as YAML, the inverse of LoadConfig.
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("reactorx: marshal config: %w", err)
	}
	return data, nil
}

// Save writes the config to path as YAML.
func (c Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("reactorx: save config %s: %w", path, err)
	}
	return nil
}

// Option configures an Environment at construction, following the
// functional-options style used throughout this module.
type Option func(*Environment)

// WithWorkerPoolSize overrides Config.WorkerPoolSize.
func WithWorkerPoolSize(n int) Option {
	return func(e *Environment) { e.cfg.WorkerPoolSize = n }
}

// WithValidation toggles Config.ValidateRuntime.
func WithValidation(enabled bool) Option {
	return func(e *Environment) { e.cfg.ValidateRuntime = enabled }
}

// WithFastForward toggles Config.FastForwardLogicalTime.
func WithFastForward(enabled bool) Option {
	return func(e *Environment) { e.cfg.FastForwardLogicalTime = enabled }
}

// WithRunForever toggles Config.RunForever.
func WithRunForever(enabled bool) Option {
	return func(e *Environment) { e.cfg.RunForever = enabled }
}

// WithVerbose toggles Config.Verbose.
func WithVerbose(enabled bool) Option {
	return func(e *Environment) { e.cfg.Verbose = enabled }
}

// WithObserver installs a dispatch observer (see internal/scheduler.Observer).
func WithObserver(o Observer) Option {
	return func(e *Environment) { e.observer = o }
}

// WithClock overrides the physical clock, letting tests and demos inject a
// deterministic fake (rtime.NewFakeClock) instead of the wall clock.
func WithClock(clock rtime.Clock) Option {
	return func(e *Environment) { e.clock = clock }
}
