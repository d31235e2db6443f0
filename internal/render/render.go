// Package render provides headless frame consumers for particle
// trajectories. Drawing pixels is left to whatever Canvas is plugged in; the
// package owns only the pacing of frames and bookkeeping around them.
package render

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/wesleyorama2/burstbench/internal/burst"
	"github.com/wesleyorama2/burstbench/internal/particle"
)

// DefaultFrameDelay is the pause between two frames of one particle.
const DefaultFrameDelay = 10 * time.Millisecond

// Canvas draws a single frame.
type Canvas interface {
	Draw(tag burst.Tag, f particle.Frame)
}

// CanvasFunc adapts a function to Canvas.
type CanvasFunc func(tag burst.Tag, f particle.Frame)

func (fn CanvasFunc) Draw(tag burst.Tag, f particle.Frame) { fn(tag, f) }

// Discard drops every frame.
var Discard Canvas = CanvasFunc(func(burst.Tag, particle.Frame) {})

// Paced feeds a trajectory's frames to a canvas at a fixed cadence.
type Paced struct {
	canvas Canvas
	delay  time.Duration
}

// NewPaced creates a renderer drawing one frame every delay. A zero delay
// draws as fast as the canvas accepts frames.
func NewPaced(canvas Canvas, delay time.Duration) *Paced {
	if canvas == nil {
		canvas = Discard
	}
	return &Paced{canvas: canvas, delay: delay}
}

// Render draws every frame of t, pausing between frames. It returns once the
// particle has faded out.
func (p *Paced) Render(tag burst.Tag, t *particle.Trajectory) {
	limit := rate.Inf
	if p.delay > 0 {
		limit = rate.Every(p.delay)
	}
	lim := rate.NewLimiter(limit, 1)

	for f := range t.Frames() {
		// Particles are never cancelled, so the background context is used.
		_ = lim.Wait(context.Background())
		p.canvas.Draw(tag, f)
	}
}

// Counter tracks particles and frames per strategy. It sits around a
// renderer and in front of a canvas:
//
//	c := NewCounter()
//	r := c.Renderer(NewPaced(c.Canvas(Discard), DefaultFrameDelay))
type Counter struct {
	active    atomic.Int64
	particles atomic.Int64

	mu     sync.Mutex
	frames map[burst.Tag]int64
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{frames: make(map[burst.Tag]int64)}
}

// Renderer returns next wrapped with particle accounting.
func (c *Counter) Renderer(next burst.Renderer) burst.Renderer {
	return burst.RendererFunc(func(tag burst.Tag, t *particle.Trajectory) {
		c.active.Add(1)
		defer func() {
			c.active.Add(-1)
			c.particles.Add(1)
		}()
		next.Render(tag, t)
	})
}

// Canvas returns canvas wrapped with frame accounting.
func (c *Counter) Canvas(canvas Canvas) Canvas {
	return CanvasFunc(func(tag burst.Tag, f particle.Frame) {
		c.mu.Lock()
		c.frames[tag]++
		c.mu.Unlock()
		canvas.Draw(tag, f)
	})
}

// Stats contains renderer counters.
type Stats struct {
	Active    int64               `json:"active"`
	Particles int64               `json:"particles"`
	Frames    map[burst.Tag]int64 `json:"frames"`
}

// Stats returns a snapshot of the counters.
func (c *Counter) Stats() Stats {
	c.mu.Lock()
	frames := make(map[burst.Tag]int64, len(c.frames))
	for k, v := range c.frames {
		frames[k] = v
	}
	c.mu.Unlock()

	return Stats{
		Active:    c.active.Load(),
		Particles: c.particles.Load(),
		Frames:    frames,
	}
}
