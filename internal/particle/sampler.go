package particle

import (
	"math"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Motion is one particle's sampled velocity and color.
type Motion struct {
	DX    float64
	DY    float64
	Color Color
}

// Sampler draws particle motions.
//
// Every implementation satisfies the same statistical contract: the angle is
// uniform over [0, 2π), the speed uniform over [MinSpeed, MaxSpeed) and the
// color uniform (with replacement) over the palette. Implementations differ
// only in how the draws are produced.
type Sampler interface {
	Sample(n int, palette Palette) []Motion
}

// lockedSource serializes access to a PCG source so one sampler can be shared
// by bursts triggered from different goroutines.
type lockedSource struct {
	mu  sync.Mutex
	src *rand.PCG
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	v := s.src.Uint64()
	s.mu.Unlock()
	return v
}

// NewSource returns a goroutine-safe random source. A zero seed selects a
// random seed.
func NewSource(seed uint64) rand.Source {
	if seed == 0 {
		return &lockedSource{src: rand.NewPCG(rand.Uint64(), rand.Uint64())}
	}
	return &lockedSource{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

// ScalarSampler draws one angle, one speed and one color per particle.
type ScalarSampler struct {
	rng *rand.Rand
}

// NewScalarSampler creates a per-particle sampler over src.
func NewScalarSampler(src rand.Source) *ScalarSampler {
	return &ScalarSampler{rng: rand.New(src)}
}

// Sample draws n motions one particle at a time.
func (s *ScalarSampler) Sample(n int, palette Palette) []Motion {
	out := make([]Motion, n)
	for i := range out {
		angle := s.rng.Float64() * 2 * math.Pi
		speed := MinSpeed + s.rng.Float64()*(MaxSpeed-MinSpeed)
		out[i] = Motion{
			DX:    speed * math.Cos(angle),
			DY:    speed * math.Sin(angle),
			Color: palette[s.rng.IntN(len(palette))],
		}
	}
	return out
}

// BatchSampler draws all angles, then all speeds, then all colors, and
// combines them with elementwise vector products.
type BatchSampler struct {
	angles distuv.Uniform
	speeds distuv.Uniform
	picks  distuv.Uniform
}

// NewBatchSampler creates a vectorized sampler over src.
func NewBatchSampler(src rand.Source) *BatchSampler {
	return &BatchSampler{
		angles: distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: src},
		speeds: distuv.Uniform{Min: MinSpeed, Max: MaxSpeed, Src: src},
		picks:  distuv.Uniform{Min: 0, Max: 1, Src: src},
	}
}

// Sample draws n motions as whole vectors.
func (s *BatchSampler) Sample(n int, palette Palette) []Motion {
	angles := fill(make([]float64, n), s.angles)
	speeds := fill(make([]float64, n), s.speeds)
	picks := fill(make([]float64, n), s.picks)

	cos := make([]float64, n)
	sin := make([]float64, n)
	for i, a := range angles {
		sin[i], cos[i] = math.Sincos(a)
	}

	dx := make([]float64, n)
	dy := make([]float64, n)
	floats.MulTo(dx, speeds, cos)
	floats.MulTo(dy, speeds, sin)
	floats.Scale(float64(len(palette)), picks)

	out := make([]Motion, n)
	for i := range out {
		idx := int(picks[i])
		if idx >= len(palette) {
			idx = len(palette) - 1
		}
		out[i] = Motion{DX: dx[i], DY: dy[i], Color: palette[idx]}
	}
	return out
}

func fill(dst []float64, dist distuv.Uniform) []float64 {
	for i := range dst {
		dst[i] = dist.Rand()
	}
	return dst
}
