// Package particle provides the particle model for a single firework burst:
// initial conditions, sampling of those conditions, and frame-by-frame
// stepping of a particle over its lifespan.
package particle

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

const (
	// DefaultCount is the number of particles in one burst.
	DefaultCount = 50

	// DefaultLifespan is the number of steps each particle lives for.
	DefaultLifespan = 100

	// MinSpeed and MaxSpeed bound the per-step speed of a particle.
	MinSpeed = 2.0
	MaxSpeed = 5.0
)

// ErrInvalidCount is returned when a negative particle count is requested.
var ErrInvalidCount = errors.New("invalid particle count")

// Point is a position on the drawing surface.
type Point struct {
	X float64 `json:"x" csv:"x"`
	Y float64 `json:"y" csv:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

// Color is a named particle color.
type Color string

const (
	Red     Color = "red"
	Yellow  Color = "yellow"
	Orange  Color = "orange"
	Blue    Color = "blue"
	Purple  Color = "purple"
	Cyan    Color = "cyan"
	Green   Color = "green"
	Lime    Color = "lime"
	Magenta Color = "magenta"
)

var rgba = map[Color]color.RGBA{
	Red:     {R: 0xff, A: 0xff},
	Yellow:  {R: 0xff, G: 0xff, A: 0xff},
	Orange:  {R: 0xff, G: 0xa5, A: 0xff},
	Blue:    {B: 0xff, A: 0xff},
	Purple:  {R: 0xa0, G: 0x20, B: 0xf0, A: 0xff},
	Cyan:    {G: 0xff, B: 0xff, A: 0xff},
	Green:   {G: 0xff, A: 0xff},
	Lime:    {R: 0x32, G: 0xcd, B: 0x32, A: 0xff},
	Magenta: {R: 0xff, B: 0xff, A: 0xff},
}

// RGBA returns the opaque RGBA value of the color. Unknown colors map to white.
func (c Color) RGBA() color.RGBA {
	if v, ok := rgba[c]; ok {
		return v
	}
	return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}

// Palette is the fixed set of colors a strategy draws from.
type Palette []Color

// Contains reports whether c belongs to the palette.
func (p Palette) Contains(c Color) bool {
	for _, pc := range p {
		if pc == c {
			return true
		}
	}
	return false
}

// Descriptor is the immutable initial state of one particle.
//
// Direction and speed are folded into DX/DY once at generation time;
// there is no acceleration model, so they never change afterwards.
type Descriptor struct {
	Origin   Point   `json:"origin"`
	DX       float64 `json:"dx"`
	DY       float64 `json:"dy"`
	Color    Color   `json:"color"`
	Lifespan int     `json:"lifespan"`
}

// Speed returns the distance travelled per step.
func (d Descriptor) Speed() float64 {
	return math.Hypot(d.DX, d.DY)
}

// Frame is the state of one particle at a single step.
type Frame struct {
	Step     int
	Position Point
	Alpha    uint8
	Color    Color
}
