// Package config loads demo configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/louisbranch/largenumbers/internal/core/convergence"
)

// DieSides is the number of sides on the simulated die.
const DieSides = 6

// Config holds the settings shared by the demo commands. Flags registered
// by the command packages override these values.
type Config struct {
	// TargetFace is the face counted as a success.
	TargetFace int `env:"LARGENUMBERS_TARGET_FACE" envDefault:"6"`
	// Trials caps the run length; 0 keeps rolling until cancelled.
	Trials uint64 `env:"LARGENUMBERS_TRIALS" envDefault:"1000"`
	// Seed seeds the die roller; 0 derives a seed and logs it.
	Seed int64 `env:"LARGENUMBERS_SEED" envDefault:"0"`
	// FrameInterval is how often the display requests a new sample.
	FrameInterval time.Duration `env:"LARGENUMBERS_FRAME_INTERVAL" envDefault:"10ms"`
	// HTTPAddr is the listen address for the web display.
	HTTPAddr string `env:"LARGENUMBERS_HTTP_ADDR" envDefault:"localhost:8080"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings no run should start with.
func (c Config) Validate() error {
	if c.TargetFace < 1 || c.TargetFace > DieSides {
		return fmt.Errorf("target face %d: %w", c.TargetFace, convergence.ErrInvalidTargetFace)
	}
	if c.FrameInterval < 0 {
		return fmt.Errorf("frame interval must not be negative, got %s", c.FrameInterval)
	}
	return nil
}
