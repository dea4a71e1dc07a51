// Package config holds the tunable constants of the move engine. Values
// ship with working defaults; hosts override them from a YAML file or by
// mutating a Config before wiring the engine.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the engine tuning configuration
type Config struct {
	// SnapDistance is the maximum canvas-space distance at which a
	// neighbouring connection is considered a candidate
	SnapDistance float64 `yaml:"snap_distance"`
	// StepSize is the canvas-space distance of one unconstrained keyboard
	// step move
	StepSize float64 `yaml:"step_size"`
	// ThrottleIntervalMS is the minimum interval between pointer-move
	// evaluations in milliseconds
	ThrottleIntervalMS int `yaml:"throttle_interval_ms"`
	// WatchdogTimeoutMS is the maximum session duration in milliseconds
	// before the safety-net force cancel
	WatchdogTimeoutMS int `yaml:"watchdog_timeout_ms"`
	// DoubleTapWindowMS is the maximum gap between touch taps that still
	// counts as a double tap
	DoubleTapWindowMS int `yaml:"double_tap_window_ms"`
	// MovableRules maps node types to boolean move-policy expressions
	MovableRules map[string]string `yaml:"movable_rules,omitempty"`
	// HistoryPath is the session-history database location; empty
	// disables recording
	HistoryPath string `yaml:"history_path,omitempty"`
}

// Default returns the configuration the engine ships with
func Default() *Config {
	return &Config{
		SnapDistance:       10.0,
		StepSize:           20.0,
		ThrottleIntervalMS: 16,
		WatchdogTimeoutMS:  30000,
		DoubleTapWindowMS:  300,
	}
}

// Load reads a YAML config file and applies it over the defaults.
// Unset fields keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for unusable values
func (c *Config) Validate() error {
	if c.SnapDistance <= 0 {
		return fmt.Errorf("snap_distance must be positive, got %v", c.SnapDistance)
	}
	if c.StepSize <= 0 {
		return fmt.Errorf("step_size must be positive, got %v", c.StepSize)
	}
	if c.ThrottleIntervalMS < 0 {
		return fmt.Errorf("throttle_interval_ms cannot be negative, got %d", c.ThrottleIntervalMS)
	}
	if c.WatchdogTimeoutMS <= 0 {
		return fmt.Errorf("watchdog_timeout_ms must be positive, got %d", c.WatchdogTimeoutMS)
	}
	if c.DoubleTapWindowMS <= 0 {
		return fmt.Errorf("double_tap_window_ms must be positive, got %d", c.DoubleTapWindowMS)
	}
	return nil
}

// ThrottleInterval returns the pointer-move throttle window
func (c *Config) ThrottleInterval() time.Duration {
	return time.Duration(c.ThrottleIntervalMS) * time.Millisecond
}

// WatchdogTimeout returns the maximum session duration
func (c *Config) WatchdogTimeout() time.Duration {
	return time.Duration(c.WatchdogTimeoutMS) * time.Millisecond
}

// DoubleTapWindow returns the double-tap detection window
func (c *Config) DoubleTapWindow() time.Duration {
	return time.Duration(c.DoubleTapWindowMS) * time.Millisecond
}
