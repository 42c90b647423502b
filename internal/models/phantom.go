package models

import (
	"math"
	"math/rand"

	"graphcutenergy/pkg/energy"
)

// PhantomOptions describes a synthetic seeded volume: a bright sphere on a
// dark background with a foreground seed ball at the centre and background
// seeds at the eight corners.
type PhantomOptions struct {
	Width, Height, Depth int

	// Radius of the sphere in voxels
	Radius float64

	// Inside and Outside are the grey levels of the sphere and background
	Inside, Outside float64

	// Noise is the amplitude of uniform noise added to every voxel
	Noise float64

	// Seed makes the noise reproducible
	Seed int64

	Foreground, Background uint8
}

// DefaultPhantomOptions returns a 32³ phantom with seed labels 1 and 2
func DefaultPhantomOptions() PhantomOptions {
	return PhantomOptions{
		Width:      32,
		Height:     32,
		Depth:      32,
		Radius:     10,
		Inside:     0.8,
		Outside:    0.2,
		Noise:      0.02,
		Seed:       1,
		Foreground: 1,
		Background: 2,
	}
}

// NewPhantom builds the seeded volume described by opts. Unlabeled voxels
// carry label 0, so neither seed label should be 0.
func NewPhantom(opts PhantomOptions) *Seeded[uint8, float64] {
	labels := NewVolume[uint8](opts.Width, opts.Height, opts.Depth)
	grey := NewVolume[float64](opts.Width, opts.Height, opts.Depth)
	rng := rand.New(rand.NewSource(opts.Seed))

	cx := float64(opts.Width-1) / 2
	cy := float64(opts.Height-1) / 2
	cz := float64(opts.Depth-1) / 2
	seedRadius := opts.Radius / 4

	for z := 0; z < opts.Depth; z++ {
		for y := 0; y < opts.Height; y++ {
			for x := 0; x < opts.Width; x++ {
				idx := energy.Index{X: x, Y: y, Z: z}
				dx, dy, dz := float64(x)-cx, float64(y)-cy, float64(z)-cz
				dist := math.Sqrt(dx*dx + dy*dy + dz*dz)

				value := opts.Outside
				if dist <= opts.Radius {
					value = opts.Inside
				}
				if opts.Noise > 0 {
					value += (rng.Float64()*2 - 1) * opts.Noise
				}
				grey.Set(idx, value)

				if dist <= seedRadius {
					labels.Set(idx, opts.Foreground)
				}
			}
		}
	}

	for _, z := range []int{0, opts.Depth - 1} {
		for _, y := range []int{0, opts.Height - 1} {
			for _, x := range []int{0, opts.Width - 1} {
				labels.Set(energy.Index{X: x, Y: y, Z: z}, opts.Background)
			}
		}
	}

	return &Seeded[uint8, float64]{
		Labels:     labels,
		Grey:       grey,
		Foreground: opts.Foreground,
		Background: opts.Background,
	}
}
