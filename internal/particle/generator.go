package particle

import (
	"errors"
	"fmt"
)

// ErrEmptyPalette is returned when a burst is generated without colors.
var ErrEmptyPalette = errors.New("empty palette")

// Generate produces count descriptors radiating from origin.
//
// Every descriptor gets DefaultLifespan steps and a color from palette.
// A count of zero yields an empty, non-nil slice.
func Generate(s Sampler, origin Point, count int, palette Palette) ([]Descriptor, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}

	motions := s.Sample(count, palette)
	out := make([]Descriptor, len(motions))
	for i, m := range motions {
		out[i] = Descriptor{
			Origin:   origin,
			DX:       m.DX,
			DY:       m.DY,
			Color:    m.Color,
			Lifespan: DefaultLifespan,
		}
	}
	return out, nil
}
