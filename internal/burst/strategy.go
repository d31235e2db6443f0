// Package burst implements the three firework burst strategies and the
// launcher that times them.
package burst

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/wesleyorama2/burstbench/internal/particle"
)

// Tag identifies a burst strategy.
type Tag string

const (
	// Sequential draws each particle's initial conditions one at a time.
	Sequential Tag = "sequential"

	// Batch draws every particle's initial conditions as whole vectors.
	Batch Tag = "batch"

	// Concurrent runs the whole burst on its own goroutine, off the
	// caller's thread of control.
	Concurrent Tag = "concurrent"
)

// Tags lists every strategy in reporting order.
var Tags = []Tag{Sequential, Batch, Concurrent}

// ErrInvalidStrategy is returned for a tag outside the known set.
var ErrInvalidStrategy = errors.New("invalid strategy")

// ErrInvalidCount is returned for a negative particle count.
var ErrInvalidCount = particle.ErrInvalidCount

// Valid reports whether t is a known strategy.
func (t Tag) Valid() bool {
	switch t {
	case Sequential, Batch, Concurrent:
		return true
	}
	return false
}

// ParseTag converts a selector to a Tag. The historical names "simd" and
// "multithreading" are accepted for Batch and Concurrent.
func ParseTag(s string) (Tag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sequential":
		return Sequential, nil
	case "batch", "simd":
		return Batch, nil
	case "concurrent", "multithreading":
		return Concurrent, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStrategy, s)
	}
}

// Palettes holds the fixed colors of each strategy. They only make the
// strategies visually distinct.
var Palettes = map[Tag]particle.Palette{
	Sequential: {particle.Red, particle.Yellow, particle.Orange},
	Batch:      {particle.Blue, particle.Purple, particle.Cyan},
	Concurrent: {particle.Green, particle.Lime, particle.Magenta},
}

// Strategy generates the descriptors of one burst.
//
// Strategies control HOW a burst's particles are produced. All of them
// yield the same logical output; the launcher dispatches each descriptor
// to its own work unit afterwards.
type Strategy interface {
	// Tag returns the strategy tag.
	Tag() Tag

	// Palette returns the strategy's colors.
	Palette() particle.Palette

	// Generate produces count descriptors at origin.
	Generate(origin particle.Point, count int) ([]particle.Descriptor, error)

	// Detached reports whether the burst runs on its own goroutine so
	// that triggering returns to the caller immediately.
	Detached() bool
}

type strategy struct {
	tag      Tag
	sampler  particle.Sampler
	detached bool
}

func (s *strategy) Tag() Tag                  { return s.tag }
func (s *strategy) Palette() particle.Palette { return Palettes[s.tag] }
func (s *strategy) Detached() bool            { return s.detached }

func (s *strategy) Generate(origin particle.Point, count int) ([]particle.Descriptor, error) {
	return particle.Generate(s.sampler, origin, count, s.Palette())
}

// NewSequential creates the per-particle strategy.
func NewSequential(src rand.Source) Strategy {
	return &strategy{tag: Sequential, sampler: particle.NewScalarSampler(src)}
}

// NewBatch creates the vectorized strategy.
func NewBatch(src rand.Source) Strategy {
	return &strategy{tag: Batch, sampler: particle.NewBatchSampler(src)}
}

// NewConcurrent creates the detached strategy. Generation inside the
// detached goroutine is per-particle, like Sequential.
func NewConcurrent(src rand.Source) Strategy {
	return &strategy{tag: Concurrent, sampler: particle.NewScalarSampler(src), detached: true}
}

// NewStrategy creates the strategy for tag.
func NewStrategy(tag Tag, src rand.Source) (Strategy, error) {
	switch tag {
	case Sequential:
		return NewSequential(src), nil
	case Batch:
		return NewBatch(src), nil
	case Concurrent:
		return NewConcurrent(src), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStrategy, tag)
	}
}
