package report

import (
	"context"
	"time"

	"github.com/wesleyorama2/burstbench/internal/timing"
)

// DefaultInterval is the period of the averages report.
const DefaultInterval = 10 * time.Second

// Source provides summaries to report on.
type Source interface {
	Summary() *timing.Summary
}

// Reporter prints the averages of a Source at a fixed interval.
type Reporter struct {
	source   Source
	console  *Console
	interval time.Duration
}

// NewReporter creates a reporter. A non-positive interval uses
// DefaultInterval.
func NewReporter(source Source, console *Console, interval time.Duration) *Reporter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if console == nil {
		console = NewConsole(ConsoleConfig{})
	}
	return &Reporter{source: source, console: console, interval: interval}
}

// Interval returns the reporting period.
func (r *Reporter) Interval() time.Duration {
	return r.interval
}

// Run prints averages every interval until ctx is done. The first report
// is printed one interval after Run starts.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.ReportOnce()
		}
	}
}

// ReportOnce prints the current averages and returns the summary they were
// taken from.
func (r *Reporter) ReportOnce() *timing.Summary {
	sum := r.source.Summary()
	r.console.PrintAverages(sum)
	return sum
}

// Attach prints a line for every burst recorded by h, followed by the
// strategy's running average.
func Attach(h *timing.Harness, console *Console) {
	h.Observe(func(rec timing.Record) {
		avg, err := h.Average(rec.Strategy)
		if err != nil {
			console.PrintError(err)
			return
		}
		console.PrintBurst(rec, avg)
	})
}
