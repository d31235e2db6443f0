// Package timing provides the timing harness: a per-strategy history of burst
// initiation times with running averages and latency distributions.
package timing

import (
	"fmt"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/wesleyorama2/burstbench/internal/burst"
	"github.com/wesleyorama2/burstbench/internal/clock"
)

// Record is one burst's initiation time.
type Record struct {
	Strategy  burst.Tag     `json:"strategy"`
	Seq       int           `json:"seq"`
	Elapsed   time.Duration `json:"elapsed"`
	Timestamp time.Time     `json:"timestamp"`
}

// ElapsedSeconds returns the initiation time in seconds.
func (r Record) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

// Config contains histogram configuration.
type Config struct {
	// HistogramMin is the minimum recordable value in nanoseconds (default: 1)
	HistogramMin int64

	// HistogramMax is the maximum recordable value in nanoseconds (default: 1 minute)
	HistogramMax int64

	// HistogramSigFigs is the number of significant figures (default: 3)
	HistogramSigFigs int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		HistogramMin:     1,
		HistogramMax:     int64(time.Minute),
		HistogramSigFigs: 3,
	}
}

// Harness owns the timing history of every strategy.
//
// Histories are append-only and kept per strategy, in arrival order.
// Arithmetic means are computed from the exact recorded values; the HDR
// histograms only feed the percentile columns of a Summary.
//
// # Thread Safety
//
// Harness is safe for concurrent use. Appends and reads are serialized by
// a read/write mutex, so concurrent bursts never lose a record.
type Harness struct {
	mu         sync.RWMutex
	strategies []burst.Tag
	histories  map[burst.Tag][]Record
	sums       map[burst.Tag]time.Duration
	hists      map[burst.Tag]*hdrhistogram.Histogram

	observersMu sync.RWMutex
	observers   []func(Record)

	clock  clock.Clock
	config Config
}

// Option configures a Harness.
type Option func(*Harness)

// WithClock sets the clock used to timestamp records.
func WithClock(c clock.Clock) Option {
	return func(h *Harness) { h.clock = c }
}

// WithConfig sets the histogram configuration.
func WithConfig(c Config) Option {
	return func(h *Harness) { h.config = c }
}

// WithStrategies restricts the harness to the given strategies. The overall
// average weighs exactly these strategies.
func WithStrategies(tags ...burst.Tag) Option {
	return func(h *Harness) { h.strategies = append([]burst.Tag(nil), tags...) }
}

// NewHarness creates a harness tracking every known strategy.
func NewHarness(opts ...Option) *Harness {
	h := &Harness{
		strategies: append([]burst.Tag(nil), burst.Tags...),
		clock:      clock.Real{},
		config:     DefaultConfig(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.histories = make(map[burst.Tag][]Record, len(h.strategies))
	h.sums = make(map[burst.Tag]time.Duration, len(h.strategies))
	h.hists = make(map[burst.Tag]*hdrhistogram.Histogram, len(h.strategies))
	for _, tag := range h.strategies {
		h.histories[tag] = nil
		h.hists[tag] = hdrhistogram.New(h.config.HistogramMin, h.config.HistogramMax, h.config.HistogramSigFigs)
	}
	return h
}

// Strategies returns the tracked strategies in reporting order.
func (h *Harness) Strategies() []burst.Tag {
	return append([]burst.Tag(nil), h.strategies...)
}

// Observe registers fn to be called after every appended record.
// Observers run on the recording goroutine and must not block.
func (h *Harness) Observe(fn func(Record)) {
	h.observersMu.Lock()
	h.observers = append(h.observers, fn)
	h.observersMu.Unlock()
}

// Record appends a burst's initiation time to the strategy's history.
func (h *Harness) Record(tag burst.Tag, elapsed time.Duration) error {
	if elapsed < 0 {
		elapsed = 0
	}

	h.mu.Lock()
	history, ok := h.histories[tag]
	if !ok {
		h.mu.Unlock()
		return fmt.Errorf("%w: %q", burst.ErrInvalidStrategy, tag)
	}

	rec := Record{
		Strategy:  tag,
		Seq:       len(history),
		Elapsed:   elapsed,
		Timestamp: h.clock.Now(),
	}
	h.histories[tag] = append(history, rec)
	h.sums[tag] += elapsed

	// HDR histogram RecordValue is not thread-safe; it stays under mu.
	v := int64(elapsed)
	if v < h.config.HistogramMin {
		v = h.config.HistogramMin
	}
	if v > h.config.HistogramMax {
		v = h.config.HistogramMax
	}
	_ = h.hists[tag].RecordValue(v)
	h.mu.Unlock()

	h.observersMu.RLock()
	observers := h.observers
	h.observersMu.RUnlock()
	for _, fn := range observers {
		fn(rec)
	}
	return nil
}

// Average returns the mean initiation time of tag in seconds, or 0 when
// nothing has been recorded yet.
func (h *Harness) Average(tag burst.Tag) (float64, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	history, ok := h.histories[tag]
	if !ok {
		return 0, fmt.Errorf("%w: %q", burst.ErrInvalidStrategy, tag)
	}
	return average(h.sums[tag], len(history)), nil
}

// OverallAverage returns the mean of the per-strategy averages.
//
// Every strategy weighs the same regardless of how many bursts it has
// recorded; a strategy with no records contributes 0.
func (h *Harness) OverallAverage() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.strategies) == 0 {
		return 0
	}
	var total float64
	for _, tag := range h.strategies {
		total += average(h.sums[tag], len(h.histories[tag]))
	}
	return total / float64(len(h.strategies))
}

func average(sum time.Duration, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum.Seconds() / float64(n)
}

// Count returns the number of records for tag.
func (h *Harness) Count(tag burst.Tag) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.histories[tag])
}

// Records returns a copy of tag's history in arrival order.
func (h *Harness) Records(tag burst.Tag) []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]Record, len(h.histories[tag]))
	copy(result, h.histories[tag])
	return result
}

// AllRecords returns every record, grouped by strategy in reporting order.
func (h *Harness) AllRecords() []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var result []Record
	for _, tag := range h.strategies {
		result = append(result, h.histories[tag]...)
	}
	return result
}
