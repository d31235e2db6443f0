package config

import (
	"fmt"
	"strings"

	"github.com/wesleyorama2/burstbench/internal/burst"
	"github.com/wesleyorama2/burstbench/internal/dispatch"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Fields returns the fields that failed, in order.
func (e *ValidationErrors) Fields() []string {
	fields := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		fields[i] = err.Field
	}
	return fields
}

// Validate validates the entire configuration.
//
// Returns nil if valid, or a ValidationErrors containing all validation errors.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	if c.Canvas.Width <= 0 {
		errs.Add("canvas.width", "must be positive")
	}
	if c.Canvas.Height <= 0 {
		errs.Add("canvas.height", "must be positive")
	}

	validateTrigger(&c.Trigger, errs)
	validateDispatch(&c.Dispatch, errs)

	if c.Render.FrameDelay < 0 {
		errs.Add("render.frameDelay", "cannot be negative")
	}
	if c.Report.Interval < 0 {
		errs.Add("report.interval", "cannot be negative")
	}
	if c.Report.CSV != "" && c.Report.CSV == c.Report.JSON {
		errs.Add("report.json", "must differ from report.csv")
	}
	if c.Report.HTML != "" && (c.Report.HTML == c.Report.CSV || c.Report.HTML == c.Report.JSON) {
		errs.Add("report.html", "must differ from report.csv and report.json")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs.Add("log.level", fmt.Sprintf("invalid level: %s", c.Log.Level))
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs.Add("log.format", fmt.Sprintf("invalid format: %s (must be text or json)", c.Log.Format))
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateTrigger(t *TriggerConfig, errs *ValidationErrors) {
	if len(t.Strategies) == 0 {
		errs.Add("trigger.strategies", "at least one strategy is required")
	}

	seen := make(map[burst.Tag]bool)
	for i, s := range t.Strategies {
		field := fmt.Sprintf("trigger.strategies[%d]", i)
		tag, err := burst.ParseTag(s)
		if err != nil {
			errs.Add(field, fmt.Sprintf("invalid strategy: %s", s))
			continue
		}
		if seen[tag] {
			errs.Add(field, fmt.Sprintf("duplicate strategy: %s", tag))
		}
		seen[tag] = true
	}

	if t.Bursts < 0 {
		errs.Add("trigger.bursts", "cannot be negative")
	}
	if t.Bursts == 0 && t.Duration <= 0 {
		errs.Add("trigger.bursts", "either bursts or duration must be set")
	}
	if t.Rate <= 0 {
		errs.Add("trigger.rate", "must be positive")
	}
	if t.Duration < 0 {
		errs.Add("trigger.duration", "cannot be negative")
	}
}

func validateDispatch(d *DispatchConfig, errs *ValidationErrors) {
	mode, err := dispatch.ParseMode(d.Mode)
	if err != nil {
		errs.Add("dispatch.mode", err.Error())
	}
	if d.Workers < 0 {
		errs.Add("dispatch.workers", "cannot be negative")
	}
	if d.Queue < 0 {
		errs.Add("dispatch.queue", "cannot be negative")
	}
	if mode != dispatch.ModePool && (d.Workers > 0 || d.Queue > 0) {
		errs.Add("dispatch.mode", "workers and queue only apply to pool mode")
	}
}
