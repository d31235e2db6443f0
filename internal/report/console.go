// Package report provides console output, periodic average reports and
// file export of burst timings.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/wesleyorama2/burstbench/internal/burst"
	"github.com/wesleyorama2/burstbench/internal/timing"
)

// TimeFormat is the layout of timestamps in report lines.
const TimeFormat = "2006-01-02 15:04:05"

const ruleWidth = 56

// Console writes human-facing benchmark output.
type Console struct {
	name      string
	writer    io.Writer
	useColors bool
	quiet     bool
	scheme    *ColorScheme

	mu sync.Mutex
}

// ConsoleConfig contains configuration for Console.
type ConsoleConfig struct {
	Name        string
	Writer      io.Writer
	Quiet       bool
	ForceColors bool
	NoColor     bool
}

// NewConsole creates a new console writer.
func NewConsole(config ConsoleConfig) *Console {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.Name == "" {
		config.Name = "burstbench"
	}

	useColors := !config.NoColor &&
		(config.ForceColors || (isTerminal(config.Writer) && supportsColors()))

	scheme := NoColorScheme()
	if useColors {
		scheme = DefaultColorScheme()
		scheme.EnableColors()
	}

	return &Console{
		name:      config.Name,
		writer:    config.Writer,
		useColors: useColors,
		quiet:     config.Quiet,
		scheme:    scheme,
	}
}

// Label returns the display name of a strategy.
func Label(tag burst.Tag) string {
	s := string(tag)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// PrintHeader prints the run header.
func (c *Console) PrintHeader(strategies []burst.Tag, details ...string) {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, len(strategies))
	for i, tag := range strategies {
		names[i] = c.scheme.Strategy(tag).Sprint(Label(tag))
	}

	line := strings.Repeat("━", ruleWidth)
	c.writeln(c.scheme.Rule.Sprint(line))
	c.writeln(c.scheme.Heading.Sprintf("%s - Running", c.name))
	c.writeln("Strategies: " + strings.Join(names, ", "))
	for _, d := range details {
		c.writeln(d)
	}
	c.writeln(c.scheme.Rule.Sprint(line))
	c.writeln("")
}

// PrintBurst prints one recorded burst and the strategy's running average.
func (c *Console) PrintBurst(rec timing.Record, average float64) {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	label := c.scheme.Strategy(rec.Strategy).Sprint(Label(rec.Strategy))
	c.writeln(fmt.Sprintf("%s method took %s seconds at %s",
		label,
		c.scheme.Value.Sprintf("%.4f", rec.ElapsedSeconds()),
		c.scheme.Timestamp.Sprint(rec.Timestamp.Format(TimeFormat))))
	c.writeln(fmt.Sprintf("%s average time: %s seconds",
		label,
		c.scheme.Value.Sprintf("%.4f", average)))
}

// PrintAverages prints the average of every strategy and the overall
// average, each stamped with the summary's timestamp.
func (c *Console) PrintAverages(sum *timing.Summary) {
	if c.quiet || sum == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ts := c.scheme.Timestamp.Sprint(sum.Timestamp.Format(TimeFormat))
	for _, ss := range sum.Strategies {
		c.writeln(fmt.Sprintf("%s average time: %s seconds at %s",
			c.scheme.Strategy(ss.Strategy).Sprint(Label(ss.Strategy)),
			c.scheme.Value.Sprintf("%.4f", ss.Average),
			ts))
	}
	c.writeln(fmt.Sprintf("%s average time: %s seconds at %s",
		c.scheme.Overall.Sprint("Overall"),
		c.scheme.Value.Sprintf("%.4f", sum.OverallAverage),
		ts))
}

// PrintSummary prints the final summary with per-strategy distributions.
func (c *Console) PrintSummary(sum *timing.Summary, elapsed time.Duration) {
	if sum == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.quiet {
		c.writeln(fmt.Sprintf("bursts=%d overall=%.4fs", sum.TotalBursts, sum.OverallAverage))
		return
	}

	line := strings.Repeat("━", ruleWidth)
	c.writeln("")
	c.writeln(c.scheme.Rule.Sprint(line))
	c.writeln(c.scheme.Heading.Sprintf("%s - Completed", c.name))
	c.writeln(c.scheme.Rule.Sprint(line))
	c.writeln("")

	if elapsed > 0 {
		c.writeln(fmt.Sprintf("Duration:      %s", c.scheme.Value.Sprint(formatDuration(elapsed))))
	}
	c.writeln(fmt.Sprintf("Total Bursts:  %s", c.scheme.Value.Sprint(formatNumber(int64(sum.TotalBursts)))))
	c.writeln(fmt.Sprintf("Overall Avg:   %s", c.scheme.Value.Sprint(formatSeconds(sum.OverallAverage))))
	c.writeln("")

	for _, ss := range sum.Strategies {
		c.writeln(c.scheme.Strategy(ss.Strategy).Sprintf("%s (%d bursts):", Label(ss.Strategy), ss.Count))
		if ss.Count == 0 {
			c.writeln("  no bursts recorded")
			c.writeln("")
			continue
		}
		c.writeln(fmt.Sprintf("  Avg:       %s", formatSeconds(ss.Average)))
		c.writeln(fmt.Sprintf("  Min:       %s", formatSeconds(ss.Min)))
		c.writeln(fmt.Sprintf("  P50:       %s", formatSeconds(ss.P50)))
		c.writeln(fmt.Sprintf("  P90:       %s", formatSeconds(ss.P90)))
		c.writeln(fmt.Sprintf("  P99:       %s", formatSeconds(ss.P99)))
		c.writeln(fmt.Sprintf("  Max:       %s", formatSeconds(ss.Max)))
		c.writeln("")
	}
}

// PrintError prints an error line. Errors are printed even in quiet mode.
func (c *Console) PrintError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeln(c.scheme.Error.Sprintf("error: %v", err))
}

// UseColors returns whether colored output is enabled.
func (c *Console) UseColors() bool {
	return c.useColors
}

// writeln writes to the output with a newline.
func (c *Console) writeln(s string) {
	fmt.Fprintln(c.writer, s)
}

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
}

// formatSeconds formats an initiation time given in seconds. Initiation
// times are usually well below a millisecond, so small values keep
// microsecond detail.
func formatSeconds(sec float64) string {
	d := time.Duration(sec * float64(time.Second))
	switch {
	case d <= 0:
		return "0µs"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.4fs", sec)
	}
}

// formatNumber formats a number with thousands separators.
func formatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	offset := len(str) % 3
	if offset > 0 {
		result.WriteString(str[:offset])
	}
	for i := offset; i < len(str); i += 3 {
		if result.Len() > 0 {
			result.WriteString(",")
		}
		result.WriteString(str[i : i+3])
	}
	return result.String()
}
