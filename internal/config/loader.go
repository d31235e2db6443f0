package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/burstbench/internal/burst"
	"github.com/wesleyorama2/burstbench/internal/dispatch"
	"github.com/wesleyorama2/burstbench/internal/render"
	"github.com/wesleyorama2/burstbench/internal/report"
	"github.com/wesleyorama2/burstbench/pkg/jsonschema"
)

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompile("burstbench.schema.json", schemaJSON)

// Defaults
const (
	DefaultCanvasSize = 300
	DefaultBursts     = 10
	DefaultRate       = 2.0
)

// Default returns the default configuration.
func Default() *Config {
	strategies := make([]string, len(burst.Tags))
	for i, tag := range burst.Tags {
		strategies[i] = string(tag)
	}

	return &Config{
		Name:   "burstbench",
		Canvas: CanvasConfig{Width: DefaultCanvasSize, Height: DefaultCanvasSize},
		Trigger: TriggerConfig{
			Strategies: strategies,
			Bursts:     DefaultBursts,
			Rate:       DefaultRate,
		},
		Dispatch: DispatchConfig{Mode: string(dispatch.ModeSpawn)},
		Render:   RenderConfig{FrameDelay: Duration(render.DefaultFrameDelay)},
		Report:   ReportConfig{Interval: Duration(report.DefaultInterval)},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads and validates a configuration file. The format is chosen by
// extension: .json is JSON, anything else is YAML.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes data on top of Default, checks it against the schema and
// validates the result. path only selects the format.
func Parse(data []byte, path string) (*Config, error) {
	isJSON := strings.EqualFold(filepath.Ext(path), ".json")

	doc, err := decodeGeneric(data, isJSON)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if vs := schema.ValidateValue(doc); len(vs) > 0 {
		errs := &ValidationErrors{}
		for _, v := range vs {
			errs.Add(pointerToField(v.Location), v.Message)
		}
		return nil, errs
	}

	cfg := Default()
	if isJSON {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeGeneric decodes data into JSON types for schema validation. YAML
// is round-tripped through JSON so numbers and maps take JSON shapes.
func decodeGeneric(data []byte, isJSON bool) (interface{}, error) {
	if !isJSON {
		var y interface{}
		if err := yaml.Unmarshal(data, &y); err != nil {
			return nil, err
		}
		if y == nil {
			return map[string]interface{}{}, nil
		}
		b, err := json.Marshal(y)
		if err != nil {
			return nil, err
		}
		data = b
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// pointerToField turns a JSON pointer into a dotted field path.
func pointerToField(ptr string) string {
	return strings.ReplaceAll(strings.TrimPrefix(ptr, "/"), "/", ".")
}

// FrameDelay returns the frame delay, zero when rendering is disabled.
func (c *Config) FrameDelay() time.Duration {
	if !c.RenderEnabled() {
		return 0
	}
	return time.Duration(c.Render.FrameDelay)
}

// WriteYAML saves the configuration as YAML.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
