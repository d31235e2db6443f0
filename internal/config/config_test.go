package config

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/burstbench/internal/burst"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 300, cfg.Canvas.Width)
	assert.Equal(t, 300, cfg.Canvas.Height)
	assert.Equal(t, 10, cfg.Trigger.Bursts)
	assert.Equal(t, 2.0, cfg.Trigger.Rate)
	assert.True(t, cfg.RenderEnabled())
	assert.Equal(t, 10*time.Millisecond, cfg.FrameDelay())
	assert.Equal(t, 10*time.Second, time.Duration(cfg.Report.Interval))

	tags, err := cfg.Tags()
	require.NoError(t, err)
	assert.Equal(t, burst.Tags, tags)
}

func TestParse_YAML(t *testing.T) {
	data := []byte(`
name: fireworks
seed: 42
trigger:
  strategies: [simd, multithreading]
  bursts: 5
  rate: 4
dispatch:
  mode: pool
  workers: 8
render:
  enabled: false
report:
  interval: 2s
  csv: bursts.csv
log:
  level: debug
`)

	cfg, err := Parse(data, "bench.yaml")
	require.NoError(t, err)

	assert.Equal(t, "fireworks", cfg.Name)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 5, cfg.Trigger.Bursts)
	assert.Equal(t, 4.0, cfg.Trigger.Rate)
	assert.Equal(t, "pool", cfg.Dispatch.Mode)
	assert.Equal(t, 8, cfg.Dispatch.Workers)
	assert.False(t, cfg.RenderEnabled())
	assert.Zero(t, cfg.FrameDelay())
	assert.Equal(t, 2*time.Second, time.Duration(cfg.Report.Interval))
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	// Untouched sections keep their defaults.
	assert.Equal(t, 300, cfg.Canvas.Width)

	tags, err := cfg.Tags()
	require.NoError(t, err)
	assert.Equal(t, []burst.Tag{burst.Batch, burst.Concurrent}, tags)
}

func TestParse_JSON(t *testing.T) {
	data := []byte(`{
		"canvas": {"width": 640, "height": 480},
		"trigger": {"bursts": 0, "duration": "1m30s", "rate": 1.5},
		"render": {"frameDelay": "5ms"},
		"log": {"format": "json"}
	}`)

	cfg, err := Parse(data, "bench.JSON")
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Canvas.Width)
	assert.Equal(t, 90*time.Second, time.Duration(cfg.Trigger.Duration))
	assert.Equal(t, 5*time.Millisecond, cfg.FrameDelay())
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Len(t, cfg.Trigger.Strategies, 3)
}

func TestParse_EmptyYAMLUsesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""), "empty.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_SchemaErrors(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"Unknown top-level key", "colour: red\n", ""},
		{"Unknown nested key", "trigger:\n  clicks: 3\n", "trigger"},
		{"Wrong type", "canvas:\n  width: wide\n", "canvas.width"},
		{"Bad duration", "report:\n  interval: soon\n", "report.interval"},
		{"Fractional integer", "trigger:\n  bursts: 1.5\n", "trigger.bursts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "c.yaml")
			var verrs *ValidationErrors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			assert.Contains(t, verrs.Fields(), tt.field)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("trigger: [1, 2"), "c.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing config file")

	_, err = Parse([]byte(`{"name":`), "c.json")
	require.Error(t, err)
}

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		fields []string
	}{
		{
			name:   "Zero canvas",
			modify: func(c *Config) { c.Canvas.Width, c.Canvas.Height = 0, -1 },
			fields: []string{"canvas.width", "canvas.height"},
		},
		{
			name:   "No strategies",
			modify: func(c *Config) { c.Trigger.Strategies = nil },
			fields: []string{"trigger.strategies"},
		},
		{
			name:   "Unknown strategy",
			modify: func(c *Config) { c.Trigger.Strategies = []string{"sequential", "rocket"} },
			fields: []string{"trigger.strategies[1]"},
		},
		{
			name:   "Duplicate through alias",
			modify: func(c *Config) { c.Trigger.Strategies = []string{"batch", "simd"} },
			fields: []string{"trigger.strategies[1]"},
		},
		{
			name:   "Neither bursts nor duration",
			modify: func(c *Config) { c.Trigger.Bursts = 0 },
			fields: []string{"trigger.bursts"},
		},
		{
			name:   "Non-positive rate",
			modify: func(c *Config) { c.Trigger.Rate = 0 },
			fields: []string{"trigger.rate"},
		},
		{
			name:   "Unknown dispatch mode",
			modify: func(c *Config) { c.Dispatch.Mode = "threads" },
			fields: []string{"dispatch.mode"},
		},
		{
			name:   "Workers outside pool mode",
			modify: func(c *Config) { c.Dispatch.Workers = 4 },
			fields: []string{"dispatch.mode"},
		},
		{
			name:   "Negative frame delay",
			modify: func(c *Config) { c.Render.FrameDelay = Duration(-time.Millisecond) },
			fields: []string{"render.frameDelay"},
		},
		{
			name:   "Same export path",
			modify: func(c *Config) { c.Report.CSV, c.Report.JSON = "out", "out" },
			fields: []string{"report.json"},
		},
		{
			name:   "HTML overwrites JSON",
			modify: func(c *Config) { c.Report.JSON, c.Report.HTML = "out", "out" },
			fields: []string{"report.html"},
		},
		{
			name:   "Bad log settings",
			modify: func(c *Config) { c.Log.Level, c.Log.Format = "loud", "xml" },
			fields: []string{"log.level", "log.format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			var verrs *ValidationErrors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			assert.Equal(t, tt.fields, verrs.Fields())
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := &ValidationErrors{}
	assert.Equal(t, "no validation errors", errs.Error())

	errs.Add("trigger.rate", "must be positive")
	assert.Equal(t, "validation error on field 'trigger.rate': must be positive", errs.Error())

	errs.Add("", "something else")
	msg := errs.Error()
	assert.True(t, strings.HasPrefix(msg, "2 validation errors:"))
	assert.Contains(t, msg, "2. validation error: something else")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")

	path := filepath.Join(dir, "bench.yml")
	require.NoError(t, os.WriteFile(path, []byte("trigger:\n  rate: 8\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8.0, cfg.Trigger.Rate)
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Seed = 7
	cfg.Trigger.Duration = Duration(45 * time.Second)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDuration_Encoding(t *testing.T) {
	var holder struct {
		D Duration `json:"d" yaml:"d"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"d":"250ms"}`), &holder))
	assert.Equal(t, 250*time.Millisecond, time.Duration(holder.D))

	require.NoError(t, json.Unmarshal([]byte(`{"d":null}`), &holder))
	assert.Zero(t, holder.D)

	assert.Error(t, json.Unmarshal([]byte(`{"d":"fast"}`), &holder))

	require.NoError(t, yaml.Unmarshal([]byte("d: 3m\n"), &holder))
	assert.Equal(t, 3*time.Minute, time.Duration(holder.D))

	out, err := json.Marshal(holder)
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"3m0s"}`, string(out))

	assert.Equal(t, time.Second, Duration(0).GetDuration(time.Second))
	assert.Equal(t, "3m0s", holder.D.String())
}
