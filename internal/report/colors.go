package report

import (
	"github.com/fatih/color"

	"github.com/wesleyorama2/burstbench/internal/burst"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Sequential *color.Color
	Batch      *color.Color
	Concurrent *color.Color
	Overall    *color.Color
	Value      *color.Color
	Timestamp  *color.Color
	Heading    *color.Color
	Rule       *color.Color
	Error      *color.Color
}

// DefaultColorScheme returns the default color scheme. Strategy colors
// follow the first color of each strategy's palette.
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Sequential: color.New(color.FgRed, color.Bold),
		Batch:      color.New(color.FgBlue, color.Bold),
		Concurrent: color.New(color.FgGreen, color.Bold),
		Overall:    color.New(color.FgMagenta, color.Bold),
		Value:      color.New(color.FgCyan),
		Timestamp:  color.New(color.Faint),
		Heading:    color.New(color.Bold),
		Rule:       color.New(color.FgCyan),
		Error:      color.New(color.FgRed),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	for _, c := range scheme.all() {
		c.DisableColor()
	}
	return scheme
}

// EnableColors forces colors on regardless of the terminal.
func (s *ColorScheme) EnableColors() {
	for _, c := range s.all() {
		c.EnableColor()
	}
}

func (s *ColorScheme) all() []*color.Color {
	return []*color.Color{
		s.Sequential, s.Batch, s.Concurrent, s.Overall,
		s.Value, s.Timestamp, s.Heading, s.Rule, s.Error,
	}
}

// Strategy returns the color for tag.
func (s *ColorScheme) Strategy(tag burst.Tag) *color.Color {
	switch tag {
	case burst.Sequential:
		return s.Sequential
	case burst.Batch:
		return s.Batch
	case burst.Concurrent:
		return s.Concurrent
	default:
		return s.Heading
	}
}
