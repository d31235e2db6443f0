package particle

import (
	"testing"
)

func TestAlpha(t *testing.T) {
	tests := []struct {
		name     string
		step     int
		lifespan int
		want     uint8
	}{
		{name: "first step", step: 0, lifespan: 100, want: 255},
		{name: "midway", step: 33, lifespan: 100, want: 170},
		{name: "last step", step: 99, lifespan: 100, want: 0},
		{name: "past the end", step: 150, lifespan: 100, want: 0},
		{name: "two steps", step: 1, lifespan: 2, want: 0},
		{name: "single step", step: 0, lifespan: 1, want: 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Alpha(tt.step, tt.lifespan); got != tt.want {
				t.Errorf("Alpha(%d, %d) = %d, want %d", tt.step, tt.lifespan, got, tt.want)
			}
		})
	}
}

func TestStep_FrameCountAndFade(t *testing.T) {
	for _, lifespan := range []int{2, 3, 10, DefaultLifespan, 257} {
		d := Descriptor{Origin: Point{X: 10, Y: 20}, DX: 1.5, DY: -2, Color: Cyan, Lifespan: lifespan}

		var frames []Frame
		for f := range Step(d).Frames() {
			frames = append(frames, f)
		}

		if len(frames) != lifespan {
			t.Fatalf("lifespan %d: got %d frames", lifespan, len(frames))
		}
		if frames[0].Alpha != 255 {
			t.Errorf("lifespan %d: alpha(0) = %d, want 255", lifespan, frames[0].Alpha)
		}
		if last := frames[len(frames)-1].Alpha; last > 1 {
			t.Errorf("lifespan %d: final alpha = %d, want <= 1", lifespan, last)
		}
		for i := 1; i < len(frames); i++ {
			if frames[i].Alpha > frames[i-1].Alpha {
				t.Fatalf("lifespan %d: alpha increased at step %d", lifespan, i)
			}
		}
	}
}

func TestStep_LinearMotion(t *testing.T) {
	d := Descriptor{Origin: Point{X: 100, Y: 100}, DX: 3, DY: 4, Color: Red, Lifespan: 5}
	tr := Step(d)

	for i := 0; i < 5; i++ {
		f, ok := tr.Next()
		if !ok {
			t.Fatalf("Next() exhausted early at step %d", i)
		}
		want := Point{X: 100 + 3*float64(i), Y: 100 + 4*float64(i)}
		if f.Position != want {
			t.Errorf("step %d position = %v, want %v", i, f.Position, want)
		}
		if f.Step != i || f.Color != Red {
			t.Errorf("step %d frame = %+v", i, f)
		}
	}
}

func TestTrajectory_NotRestartable(t *testing.T) {
	tr := Step(Descriptor{DX: 1, Lifespan: 4})

	if _, ok := tr.Next(); !ok {
		t.Fatal("first Next() returned false")
	}
	if tr.Remaining() != 3 {
		t.Errorf("Remaining() = %d, want 3", tr.Remaining())
	}

	n := 0
	for range tr.Frames() {
		n++
	}
	if n != 3 {
		t.Errorf("Frames() yielded %d, want 3", n)
	}

	for range tr.Frames() {
		t.Fatal("exhausted trajectory yielded a frame")
	}
	if _, ok := tr.Next(); ok {
		t.Error("Next() on exhausted trajectory returned true")
	}
}

func TestTrajectory_EarlyBreak(t *testing.T) {
	tr := Step(Descriptor{Lifespan: 10})
	for f := range tr.Frames() {
		if f.Step == 2 {
			break
		}
	}
	if tr.Remaining() != 7 {
		t.Errorf("Remaining() = %d, want 7", tr.Remaining())
	}
}

func TestStep_ZeroLifespan(t *testing.T) {
	if _, ok := Step(Descriptor{}).Next(); ok {
		t.Error("zero-lifespan trajectory produced a frame")
	}
}
