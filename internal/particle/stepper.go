package particle

import "iter"

// Alpha returns the opacity of a particle at step i of lifespan.
//
// The fade is linear from 255 at step 0 down to 0 at the final step
// (lifespan-1). A single-step particle stays fully opaque.
func Alpha(i, lifespan int) uint8 {
	if lifespan <= 1 || i <= 0 {
		return 255
	}
	a := 255 - (255*i)/(lifespan-1)
	if a < 0 {
		return 0
	}
	return uint8(a)
}

// FrameAt returns the frame of d at step i. Motion is linear with no
// clamping to any surface bounds.
func FrameAt(d Descriptor, i int) Frame {
	fi := float64(i)
	return Frame{
		Step:     i,
		Position: d.Origin.Add(fi*d.DX, fi*d.DY),
		Alpha:    Alpha(i, d.Lifespan),
		Color:    d.Color,
	}
}

// Trajectory is a lazy, single-pass sequence of a particle's frames.
// It is not safe for concurrent use; each particle is consumed by one
// work unit.
type Trajectory struct {
	desc Descriptor
	next int
}

// Step returns the trajectory of d positioned at step 0.
func Step(d Descriptor) *Trajectory {
	return &Trajectory{desc: d}
}

// Descriptor returns the particle being stepped.
func (t *Trajectory) Descriptor() Descriptor {
	return t.desc
}

// Next produces the next frame. It returns false once the lifespan is
// exhausted; a finished trajectory cannot be restarted.
func (t *Trajectory) Next() (Frame, bool) {
	if t.next >= t.desc.Lifespan {
		return Frame{}, false
	}
	f := FrameAt(t.desc, t.next)
	t.next++
	return f, true
}

// Remaining returns the number of frames not yet produced.
func (t *Trajectory) Remaining() int {
	if r := t.desc.Lifespan - t.next; r > 0 {
		return r
	}
	return 0
}

// Frames yields the remaining frames, consuming the trajectory.
func (t *Trajectory) Frames() iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for {
			f, ok := t.Next()
			if !ok || !yield(f) {
				return
			}
		}
	}
}
