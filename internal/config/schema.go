// Package config provides the benchmark configuration: file loading,
// defaults and validation.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/wesleyorama2/burstbench/internal/burst"
)

// Config is the complete benchmark configuration.
type Config struct {
	// Name is shown in console headers and summaries
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Seed seeds the particle samplers (0 = time based)
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	Canvas   CanvasConfig   `json:"canvas" yaml:"canvas"`
	Trigger  TriggerConfig  `json:"trigger" yaml:"trigger"`
	Dispatch DispatchConfig `json:"dispatch" yaml:"dispatch"`
	Render   RenderConfig   `json:"render" yaml:"render"`
	Report   ReportConfig   `json:"report" yaml:"report"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// CanvasConfig is the area simulated clicks land in.
type CanvasConfig struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// TriggerConfig controls the simulated click streams.
type TriggerConfig struct {
	// Strategies to run, one click stream each. Accepts aliases
	// ("simd", "multithreading").
	Strategies []string `json:"strategies,omitempty" yaml:"strategies,omitempty"`

	// Bursts per strategy (0 = unlimited, requires Duration)
	Bursts int `json:"bursts" yaml:"bursts"`

	// Rate is bursts per second per strategy
	Rate float64 `json:"rate" yaml:"rate"`

	// Duration caps the run (0 = until Bursts are triggered)
	Duration Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// DispatchConfig selects how per-particle work units run.
type DispatchConfig struct {
	// Mode is "spawn", "pool" or "inline"
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`

	// Workers is the pool size (pool mode only)
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// Queue is the pool queue capacity (pool mode only)
	Queue int `json:"queue,omitempty" yaml:"queue,omitempty"`
}

// RenderConfig controls the headless renderer.
type RenderConfig struct {
	// Enabled turns frame pacing on. When off, trajectories are drained
	// without delay.
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// FrameDelay is the pause between two frames of a particle
	FrameDelay Duration `json:"frameDelay,omitempty" yaml:"frameDelay,omitempty"`
}

// ReportConfig controls console reporting and export.
type ReportConfig struct {
	// Interval between periodic average reports
	Interval Duration `json:"interval,omitempty" yaml:"interval,omitempty"`

	// CSV is a path that receives every burst record
	CSV string `json:"csv,omitempty" yaml:"csv,omitempty"`

	// JSON is a path that receives the final summary
	JSON string `json:"json,omitempty" yaml:"json,omitempty"`

	// HTML is a path that receives a standalone HTML report
	HTML string `json:"html,omitempty" yaml:"html,omitempty"`

	// Quiet suppresses per-burst and periodic lines
	Quiet bool `json:"quiet,omitempty" yaml:"quiet,omitempty"`
}

// LogConfig controls operational logging.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error"
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is "text" or "json"
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// RenderEnabled reports whether frames are paced.
func (c *Config) RenderEnabled() bool {
	return c.Render.Enabled == nil || *c.Render.Enabled
}

// Tags returns the configured strategies as tags.
func (c *Config) Tags() ([]burst.Tag, error) {
	tags := make([]burst.Tag, 0, len(c.Trigger.Strategies))
	for _, s := range c.Trigger.Strategies {
		tag, err := burst.ParseTag(s)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Duration is a time.Duration that can be unmarshaled from JSON/YAML strings.
type Duration time.Duration

// GetDuration returns the duration or a default if empty.
func (d Duration) GetDuration(defaultValue time.Duration) time.Duration {
	if d == 0 {
		return defaultValue
	}
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = 0
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}
