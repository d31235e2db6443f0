// Package engine runs burst benchmarks.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/wesleyorama2/burstbench/internal/burst"
	"github.com/wesleyorama2/burstbench/internal/config"
	"github.com/wesleyorama2/burstbench/internal/dispatch"
	"github.com/wesleyorama2/burstbench/internal/particle"
	"github.com/wesleyorama2/burstbench/internal/rate"
	"github.com/wesleyorama2/burstbench/internal/render"
	"github.com/wesleyorama2/burstbench/internal/timing"
)

// Engine wires a timing harness, a launcher and its dispatcher from one
// configuration.
//
// It coordinates:
//   - one simulated click stream per configured strategy
//   - the dispatcher running particle work units
//   - the frame counter behind the renderer
//
// Example usage:
//
//	eng, err := engine.NewEngine(cfg, logger)
//	if err != nil { ... }
//	result, err := eng.Run(ctx)
type Engine struct {
	config   *config.Config
	logger   *slog.Logger
	tags     []burst.Tag
	harness  *timing.Harness
	launcher *burst.Launcher
	work     dispatch.Dispatcher
	counter  *render.Counter

	mu      sync.Mutex
	running bool
	closed  bool
}

// Result contains the outcome of a run.
type Result struct {
	Name      string              `json:"name"`
	StartTime time.Time           `json:"startTime"`
	EndTime   time.Time           `json:"endTime"`
	Duration  time.Duration       `json:"duration"`
	Summary   *timing.Summary     `json:"summary"`
	Stats     burst.Stats         `json:"stats"`
	Frames    map[burst.Tag]int64 `json:"frames"`
}

// NewEngine creates an engine for cfg. The configuration is validated
// first; a nil logger selects slog.Default().
func NewEngine(cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	tags, err := cfg.Tags()
	if err != nil {
		return nil, err
	}
	mode, err := dispatch.ParseMode(cfg.Dispatch.Mode)
	if err != nil {
		return nil, err
	}
	work, err := dispatch.New(mode, dispatch.Options{
		Workers: cfg.Dispatch.Workers,
		Queue:   cfg.Dispatch.Queue,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	harness := timing.NewHarness(timing.WithStrategies(tags...))
	counter := render.NewCounter()
	renderer := counter.Renderer(render.NewPaced(counter.Canvas(render.Discard), cfg.FrameDelay()))

	launcher, err := burst.NewLauncher(harness,
		burst.WithDispatcher(work),
		burst.WithRenderer(renderer),
		burst.WithLogger(logger),
		burst.WithSeed(cfg.Seed),
	)
	if err != nil {
		work.Close()
		return nil, err
	}

	return &Engine{
		config:   cfg,
		logger:   logger,
		tags:     tags,
		harness:  harness,
		launcher: launcher,
		work:     work,
		counter:  counter,
	}, nil
}

// Harness returns the timing harness the launcher records into. Observers
// should be registered before Run or Trigger.
func (e *Engine) Harness() *timing.Harness { return e.harness }

// Strategies returns the strategies the engine runs, in reporting order.
func (e *Engine) Strategies() []burst.Tag { return e.tags }

// Dispatcher returns the dispatcher running particle work units.
func (e *Engine) Dispatcher() dispatch.Dispatcher { return e.work }

// Trigger starts a single burst at origin.
func (e *Engine) Trigger(origin particle.Point, tag burst.Tag) error {
	return e.launcher.OnBurstTriggered(origin, tag)
}

// Run drives one click stream per strategy until every stream has
// triggered its bursts, the configured duration elapses, or ctx is done.
// It then waits for every particle and closes the engine.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, fmt.Errorf("engine is already running")
	}
	if e.closed {
		e.mu.Unlock()
		return nil, fmt.Errorf("engine is closed")
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	if d := time.Duration(e.config.Trigger.Duration); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	e.logger.Info("run started",
		"strategies", e.tags,
		"dispatch", e.work.Mode(),
		"bursts", e.config.Trigger.Bursts,
		"rate", e.config.Trigger.Rate,
		"duration", e.config.Trigger.Duration.String(),
	)

	start := time.Now()
	var wg sync.WaitGroup
	for i, tag := range e.tags {
		wg.Add(1)
		go func(i int, tag burst.Tag) {
			defer wg.Done()
			e.clicks(ctx, tag, streamSeed(e.config.Seed, i))
		}(i, tag)
	}
	wg.Wait()

	e.Close()

	result := &Result{
		Name:      e.config.Name,
		StartTime: start,
		EndTime:   time.Now(),
		Duration:  time.Since(start),
		Summary:   e.harness.Summary(),
		Stats:     e.launcher.Stats(),
		Frames:    e.counter.Stats().Frames,
	}
	e.logger.Info("run finished",
		"bursts", result.Summary.TotalBursts,
		"overallAverage", result.Summary.OverallAverage,
	)
	return result, nil
}

// clicks is one simulated click stream: bursts of tag at uniform random
// points of the canvas, spaced by a leaky bucket.
func (e *Engine) clicks(ctx context.Context, tag burst.Tag, seed uint64) {
	rng := rand.New(particle.NewSource(seed))
	bucket := rate.NewLeakyBucket(e.config.Trigger.Rate)
	w, h := float64(e.config.Canvas.Width), float64(e.config.Canvas.Height)
	bursts := e.config.Trigger.Bursts

	for n := 0; bursts == 0 || n < bursts; n++ {
		if err := bucket.Wait(ctx); err != nil {
			return
		}

		origin := particle.Point{X: rng.Float64() * w, Y: rng.Float64() * h}
		if err := e.launcher.OnBurstTriggered(origin, tag); err != nil {
			e.logger.Error("burst trigger failed", "strategy", tag, "origin", origin.String(), "error", err)
		}
	}
}

// Close waits for every particle to finish and closes the dispatcher.
// Calling Close more than once is a no-op.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.launcher.Wait()
	if err := e.work.Close(); err != nil {
		e.logger.Warn("closing dispatcher", "error", err)
	}

	stats := e.launcher.Stats()
	e.logger.Debug("engine closed",
		"triggered", stats.Triggered,
		"recorded", stats.Recorded,
		"particles", stats.Particles,
		"submitErrors", stats.SubmitErrors,
		"failures", stats.Failures,
		"panics", stats.Dispatch.Panics,
		"framesRendered", e.counter.Stats().Frames,
	)
}

// Stats returns the launcher counters.
func (e *Engine) Stats() burst.Stats { return e.launcher.Stats() }

// Frames returns the number of frames drawn for tag.
func (e *Engine) Frames(tag burst.Tag) int64 { return e.counter.Stats().Frames[tag] }

// streamSeed derives a per-stream seed. Zero stays zero so every stream
// is randomly seeded.
func streamSeed(seed uint64, i int) uint64 {
	if seed == 0 {
		return 0
	}
	return seed + uint64(i)*0x9e3779b97f4a7c15
}
