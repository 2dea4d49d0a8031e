package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Simulation.NumberOfParticles != 500 {
		t.Errorf("number_of_particles = %d, want 500", cfg.Simulation.NumberOfParticles)
	}
	if cfg.Simulation.MaxScrambleForce != 80 {
		t.Errorf("max_scramble_force = %v, want 80", cfg.Simulation.MaxScrambleForce)
	}
	if cfg.Simulation.ScrambleFalloff != 0.8 {
		t.Errorf("scramble_falloff = %v, want 0.8", cfg.Simulation.ScrambleFalloff)
	}
	if cfg.Simulation.BufferDistance != 20 {
		t.Errorf("buffer_distance = %v, want 20", cfg.Simulation.BufferDistance)
	}
	if cfg.Particle.CrowdedLimit != 8 {
		t.Errorf("crowded_limit = %d, want 8", cfg.Particle.CrowdedLimit)
	}

	// 41.666ms rounds into the 41ms range
	if d := cfg.Derived.TickInterval; d < 41*time.Millisecond || d > 42*time.Millisecond {
		t.Errorf("derived tick interval = %v, want ~41.6ms", d)
	}
	// 5s window at 24 ticks/s
	if cfg.Derived.TicksPerWindow != 120 {
		t.Errorf("ticks per window = %d, want 120", cfg.Derived.TicksPerWindow)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swarm.yaml")
	overlay := []byte("simulation:\n  buffer_distance: 35\nparticle:\n  speed: 2.5\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Simulation.BufferDistance != 35 {
		t.Errorf("buffer_distance = %v, want 35", cfg.Simulation.BufferDistance)
	}
	if cfg.Particle.Speed != 2.5 {
		t.Errorf("speed = %v, want 2.5", cfg.Particle.Speed)
	}
	// Untouched keys keep their defaults
	if cfg.Simulation.MaxScrambleForce != 80 {
		t.Errorf("max_scramble_force = %v, want default 80", cfg.Simulation.MaxScrambleForce)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"falloff zero", func(c *Config) { c.Simulation.ScrambleFalloff = 0 }},
		{"falloff one", func(c *Config) { c.Simulation.ScrambleFalloff = 1 }},
		{"falloff above one", func(c *Config) { c.Simulation.ScrambleFalloff = 1.5 }},
		{"negative buffer", func(c *Config) { c.Simulation.BufferDistance = -1 }},
		{"zero interval", func(c *Config) { c.Simulation.TickIntervalMS = 0 }},
		{"negative scramble", func(c *Config) { c.Simulation.MaxScrambleForce = -5 }},
		{"zero floor", func(c *Config) { c.Simulation.ScrambleFloor = 0 }},
		{"negative count", func(c *Config) { c.Simulation.NumberOfParticles = -1 }},
		{"negative capacity", func(c *Config) { c.Simulation.MaxParticles = -1 }},
		{"negative speed", func(c *Config) { c.Particle.Speed = -1 }},
		{"zero crowded limit", func(c *Config) { c.Particle.CrowdedLimit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadRejectsInvalidOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("simulation:\n  scramble_falloff: 1.2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() = %v, want ErrInvalid", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Simulation.BufferDistance = 42
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Simulation.BufferDistance != 42 {
		t.Errorf("buffer_distance = %v, want 42", loaded.Simulation.BufferDistance)
	}
}
