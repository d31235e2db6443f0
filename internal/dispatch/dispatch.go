// Package dispatch provides pluggable execution of per-particle work units.
//
// Three modes are available:
//   - spawn: one goroutine per unit, no cap (the default)
//   - pool: a fixed number of workers fed through a bounded queue
//   - inline: the unit runs on the submitting goroutine
//
// All modes recover panics raised by a unit so a misbehaving renderer in one
// burst never takes down units belonging to other bursts.
package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
)

// Mode identifies a dispatch discipline.
type Mode string

const (
	// ModeSpawn starts an unbounded goroutine per unit.
	ModeSpawn Mode = "spawn"

	// ModePool runs units on a bounded worker pool.
	ModePool Mode = "pool"

	// ModeInline runs units synchronously inside Submit.
	ModeInline Mode = "inline"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("dispatcher closed")

// Dispatcher executes work units.
type Dispatcher interface {
	// Mode returns the dispatch discipline.
	Mode() Mode

	// Submit hands a unit over for execution. Depending on the mode it
	// may return before the unit starts.
	Submit(task func()) error

	// Wait blocks until every submitted unit has finished.
	Wait()

	// Close stops accepting units and waits for the ones in flight.
	Close() error

	// Stats returns counters describing the dispatcher's work so far.
	Stats() Stats
}

// Stats contains dispatcher counters.
type Stats struct {
	Submitted int64 `json:"submitted"`
	Completed int64 `json:"completed"`
	Active    int64 `json:"active"`
	Panics    int64 `json:"panics"`
}

// Options configures a dispatcher.
type Options struct {
	// Workers is the pool size (pool mode only, default GOMAXPROCS).
	Workers int

	// Queue is the pool's queue capacity (pool mode only, default 4*Workers).
	// Submit blocks while the queue is full.
	Queue int

	// Logger receives recovered panics. Defaults to slog.Default().
	Logger *slog.Logger
}

// New creates a dispatcher for mode.
func New(mode Mode, opts Options) (Dispatcher, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	switch mode {
	case ModeSpawn, "":
		return NewSpawn(opts.Logger), nil
	case ModePool:
		return NewPool(opts), nil
	case ModeInline:
		return NewInline(opts.Logger), nil
	default:
		return nil, fmt.Errorf("unknown dispatch mode: %s", mode)
	}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeSpawn, ModePool, ModeInline:
		return m, nil
	case "":
		return ModeSpawn, nil
	default:
		return "", fmt.Errorf("unknown dispatch mode: %s", s)
	}
}

// tracker holds the counters and bookkeeping shared by every mode.
type tracker struct {
	logger *slog.Logger
	wg     sync.WaitGroup

	// mu orders admissions against Close so no unit is added to wg
	// after Close started waiting.
	mu     sync.RWMutex
	closed bool

	submitted atomic.Int64
	completed atomic.Int64
	active    atomic.Int64
	panics    atomic.Int64
}

// admit registers one unit, or fails once the dispatcher is closed.
// The caller must hold mu for reading.
func (t *tracker) admit() error {
	if t.closed {
		return ErrClosed
	}
	t.submitted.Add(1)
	t.wg.Add(1)
	return nil
}

// shut marks the dispatcher closed and reports whether it already was.
func (t *tracker) shut() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := t.closed
	t.closed = true
	return was
}

// run executes task, recovering and logging any panic.
func (t *tracker) run(task func()) {
	t.active.Add(1)
	defer func() {
		if r := recover(); r != nil {
			t.panics.Add(1)
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			t.logger.Error("work unit panicked", "panic", r, "stack", string(buf))
		}
		t.active.Add(-1)
		t.completed.Add(1)
		t.wg.Done()
	}()
	task()
}

func (t *tracker) stats() Stats {
	return Stats{
		Submitted: t.submitted.Load(),
		Completed: t.completed.Load(),
		Active:    t.active.Load(),
		Panics:    t.panics.Load(),
	}
}
