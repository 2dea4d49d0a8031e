// Package config provides configuration loading and access for the swarm.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned (wrapped) when a configuration value is out of range.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all swarm configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Particle   ParticleConfig   `yaml:"particle"`
	Screen     ScreenConfig     `yaml:"screen"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Audio      AudioConfig      `yaml:"audio"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimulationConfig holds the area-wide simulation parameters.
type SimulationConfig struct {
	NumberOfParticles int     `yaml:"number_of_particles"` // Initial random spawn count
	TickIntervalMS    float64 `yaml:"tick_interval_ms"`    // Milliseconds between ticks
	MaxScrambleForce  float64 `yaml:"max_scramble_force"`  // Force set by a scramble command
	ScrambleFalloff   float64 `yaml:"scramble_falloff"`    // Per-tick decay factor in (0, 1)
	ScrambleFloor     float64 `yaml:"scramble_floor"`      // Force snaps to 0 below this
	BufferDistance    float64 `yaml:"buffer_distance"`     // Proximity threshold
	MaxParticles      int     `yaml:"max_particles"`       // Spawn capacity (0 = unbounded)
}

// ParticleConfig holds per-particle tunables. Radius and colors are only
// read by renderers.
type ParticleConfig struct {
	Speed        float64 `yaml:"speed"`         // Distance per tick toward the target
	CrowdedLimit int     `yaml:"crowded_limit"` // Neighbor count where crowding saturates
	Radius       float64 `yaml:"radius"`
	ColorLonely  string  `yaml:"color_lonely"`
	ColorCrowded string  `yaml:"color_crowded"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// AudioConfig holds scramble sound parameters.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TickInterval   time.Duration // Simulation.TickIntervalMS as a duration
	TicksPerWindow int           // Telemetry.StatsWindow expressed in ticks
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults. Panics if they fail to parse or validate.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	s := c.Simulation
	switch {
	case s.NumberOfParticles < 0:
		return fmt.Errorf("%w: number_of_particles %d < 0", ErrInvalid, s.NumberOfParticles)
	case !positive(s.TickIntervalMS):
		return fmt.Errorf("%w: tick_interval_ms %v must be > 0", ErrInvalid, s.TickIntervalMS)
	case !finite(s.MaxScrambleForce) || s.MaxScrambleForce < 0:
		return fmt.Errorf("%w: max_scramble_force %v must be >= 0", ErrInvalid, s.MaxScrambleForce)
	case !(s.ScrambleFalloff > 0 && s.ScrambleFalloff < 1):
		return fmt.Errorf("%w: scramble_falloff %v must be in (0, 1)", ErrInvalid, s.ScrambleFalloff)
	case !positive(s.ScrambleFloor):
		return fmt.Errorf("%w: scramble_floor %v must be > 0", ErrInvalid, s.ScrambleFloor)
	case !finite(s.BufferDistance) || s.BufferDistance < 0:
		return fmt.Errorf("%w: buffer_distance %v must be >= 0", ErrInvalid, s.BufferDistance)
	case s.MaxParticles < 0:
		return fmt.Errorf("%w: max_particles %d < 0", ErrInvalid, s.MaxParticles)
	}

	p := c.Particle
	switch {
	case !finite(p.Speed) || p.Speed < 0:
		return fmt.Errorf("%w: particle speed %v must be >= 0", ErrInvalid, p.Speed)
	case p.CrowdedLimit < 1:
		return fmt.Errorf("%w: crowded_limit %d must be >= 1", ErrInvalid, p.CrowdedLimit)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TickInterval = time.Duration(c.Simulation.TickIntervalMS * float64(time.Millisecond))

	ticks := int(c.Telemetry.StatsWindow * 1000 / c.Simulation.TickIntervalMS)
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.TicksPerWindow = ticks
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return finite(v) && v > 0
}
