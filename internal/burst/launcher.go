package burst

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wesleyorama2/burstbench/internal/clock"
	"github.com/wesleyorama2/burstbench/internal/dispatch"
	"github.com/wesleyorama2/burstbench/internal/particle"
)

// Recorder receives the initiation time of every burst.
type Recorder interface {
	Record(tag Tag, elapsed time.Duration) error
}

// Renderer consumes the frames of one particle. It is called from the
// particle's own work unit and may block for as long as the animation lasts.
type Renderer interface {
	Render(tag Tag, t *particle.Trajectory)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(tag Tag, t *particle.Trajectory)

func (f RendererFunc) Render(tag Tag, t *particle.Trajectory) { f(tag, t) }

// drain consumes every frame without drawing anything.
var drain = RendererFunc(func(_ Tag, t *particle.Trajectory) {
	for range t.Frames() {
	}
})

// Launcher is the entry point for burst triggers.
//
// For every trigger it generates the burst with the selected strategy,
// hands each particle to the dispatcher, and reports the elapsed time to
// the Recorder.
//
// # Initiation time
//
// The recorded duration runs from the moment the trigger is received until
// every particle's work unit has been submitted. It does not include the
// stepping or rendering of those particles, which continue on their own
// units after the measurement ends.
//
// # Thread Safety
//
// Launcher is safe for concurrent use. Triggers are never cancelled; a new
// burst does not affect particles still animating from earlier ones.
type Launcher struct {
	recorder   Recorder
	strategies map[Tag]Strategy
	work       dispatch.Dispatcher
	renderer   Renderer
	clock      clock.Clock
	logger     *slog.Logger
	count      int

	// detached tracks the outer goroutines of Concurrent bursts.
	detached sync.WaitGroup

	triggered    atomic.Int64
	recorded     atomic.Int64
	particles    atomic.Int64
	submitErrors atomic.Int64
	failures     atomic.Int64
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithDispatcher sets the dispatcher for per-particle work units.
func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(l *Launcher) { l.work = d }
}

// WithRenderer sets the frame consumer.
func WithRenderer(r Renderer) Option {
	return func(l *Launcher) { l.renderer = r }
}

// WithClock sets the clock used to measure initiation time.
func WithClock(c clock.Clock) Option {
	return func(l *Launcher) { l.clock = c }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Launcher) { l.logger = logger }
}

// WithCount sets the number of particles per burst.
func WithCount(n int) Option {
	return func(l *Launcher) { l.count = n }
}

// WithStrategies replaces the strategies used for their tags.
func WithStrategies(s ...Strategy) Option {
	return func(l *Launcher) {
		for _, st := range s {
			l.strategies[st.Tag()] = st
		}
	}
}

// WithSeed builds all three strategies over a source seeded with seed.
// A zero seed selects a random seed.
func WithSeed(seed uint64) Option {
	return func(l *Launcher) {
		src := particle.NewSource(seed)
		for _, tag := range Tags {
			s, _ := NewStrategy(tag, src)
			l.strategies[tag] = s
		}
	}
}

// NewLauncher creates a launcher reporting to recorder.
//
// By default it uses the unbounded spawn dispatcher, a renderer that drains
// frames without drawing, the real clock, and DefaultCount particles.
func NewLauncher(recorder Recorder, opts ...Option) (*Launcher, error) {
	if recorder == nil {
		return nil, fmt.Errorf("launcher requires a recorder")
	}

	l := &Launcher{
		recorder:   recorder,
		strategies: make(map[Tag]Strategy, len(Tags)),
		count:      particle.DefaultCount,
	}
	WithSeed(0)(l)
	for _, opt := range opts {
		opt(l)
	}

	if l.count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, l.count)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.clock == nil {
		l.clock = clock.Real{}
	}
	if l.renderer == nil {
		l.renderer = drain
	}
	if l.work == nil {
		l.work = dispatch.NewSpawn(l.logger)
	}

	return l, nil
}

// OnBurstTriggered starts a burst of the configured size at origin.
//
// Invalid selectors are reported synchronously. For Concurrent bursts the
// call returns as soon as the detached goroutine is started and the
// record is appended from that goroutine later.
func (l *Launcher) OnBurstTriggered(origin particle.Point, tag Tag) error {
	return l.Launch(origin, tag, l.count)
}

// Launch starts a burst of count particles at origin.
func (l *Launcher) Launch(origin particle.Point, tag Tag, count int) error {
	start := l.clock.Now()

	s, ok := l.strategies[tag]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStrategy, tag)
	}
	if count < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	l.triggered.Add(1)

	if !s.Detached() {
		return l.initiate(s, origin, count, start)
	}

	l.detached.Add(1)
	go func() {
		defer l.detached.Done()
		if err := l.initiate(s, origin, count, start); err != nil {
			l.failures.Add(1)
			l.logger.Error("detached burst failed", "strategy", tag, "origin", origin.String(), "error", err)
		}
	}()
	return nil
}

// initiate generates the burst, submits one work unit per particle and
// records the elapsed time since start.
func (l *Launcher) initiate(s Strategy, origin particle.Point, count int, start time.Time) error {
	descs, err := s.Generate(origin, count)
	if err != nil {
		return fmt.Errorf("generating %s burst: %w", s.Tag(), err)
	}

	tag := s.Tag()
	for _, d := range descs {
		traj := particle.Step(d)
		if err := l.work.Submit(func() { l.renderer.Render(tag, traj) }); err != nil {
			l.submitErrors.Add(1)
			l.logger.Error("particle dispatch failed", "strategy", tag, "error", err)
			continue
		}
		l.particles.Add(1)
	}

	elapsed := l.clock.Since(start)
	if err := l.recorder.Record(tag, elapsed); err != nil {
		return fmt.Errorf("recording %s burst: %w", tag, err)
	}
	l.recorded.Add(1)

	l.logger.Debug("burst initiated",
		"strategy", tag,
		"origin", origin.String(),
		"particles", len(descs),
		"elapsed", elapsed,
	)
	return nil
}

// Wait blocks until every detached burst and every particle work unit has
// finished. It is meant for shutdown and tests; timing never waits.
func (l *Launcher) Wait() {
	l.detached.Wait()
	l.work.Wait()
}

// Dispatcher returns the dispatcher running particle work units.
func (l *Launcher) Dispatcher() dispatch.Dispatcher {
	return l.work
}

// Stats contains launcher counters.
type Stats struct {
	Triggered    int64          `json:"triggered"`
	Recorded     int64          `json:"recorded"`
	Particles    int64          `json:"particles"`
	SubmitErrors int64          `json:"submitErrors"`
	Failures     int64          `json:"failures"`
	Dispatch     dispatch.Stats `json:"dispatch"`
}

// Stats returns a snapshot of the launcher counters.
func (l *Launcher) Stats() Stats {
	return Stats{
		Triggered:    l.triggered.Load(),
		Recorded:     l.recorded.Load(),
		Particles:    l.particles.Load(),
		SubmitErrors: l.submitErrors.Load(),
		Failures:     l.failures.Load(),
		Dispatch:     l.work.Stats(),
	}
}
