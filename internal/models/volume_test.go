package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphcutenergy/pkg/energy"
)

func TestNewVolume(t *testing.T) {
	v := NewVolume[float64](4, 3, 2)

	assert.Equal(t, 24, v.Len())
	assert.Len(t, v.Data, 24)
	assert.Equal(t, 1.0, v.VoxelSize.X)
	assert.Equal(t, 1.0, v.VoxelSize.Y)
	assert.Equal(t, 1.0, v.VoxelSize.Z)
}

func TestVolumeIndexing(t *testing.T) {
	v := NewVolume[int](4, 3, 2)

	// Row-major: x fastest, then y, then z
	assert.Equal(t, 0, v.IndexOf(energy.Index{}))
	assert.Equal(t, 1, v.IndexOf(energy.Index{X: 1}))
	assert.Equal(t, 4, v.IndexOf(energy.Index{Y: 1}))
	assert.Equal(t, 12, v.IndexOf(energy.Index{Z: 1}))

	for offset := 0; offset < v.Len(); offset++ {
		idx := v.IndexAt(offset)
		require.True(t, v.InBounds(idx))
		assert.Equal(t, offset, v.IndexOf(idx))
	}
}

func TestVolumeInBounds(t *testing.T) {
	v := NewVolume[int](4, 3, 2)

	assert.True(t, v.InBounds(energy.Index{X: 3, Y: 2, Z: 1}))
	assert.False(t, v.InBounds(energy.Index{X: 4}))
	assert.False(t, v.InBounds(energy.Index{Y: 3}))
	assert.False(t, v.InBounds(energy.Index{Z: 2}))
	assert.False(t, v.InBounds(energy.Index{X: -1}))
}

func TestVolumeSetAtFill(t *testing.T) {
	v := NewVolume[uint8](2, 2, 2)
	idx := energy.Index{X: 1, Y: 0, Z: 1}

	v.Set(idx, 9)
	assert.Equal(t, uint8(9), v.At(idx))
	assert.Equal(t, uint8(9), v.Data[5])

	v.Fill(3)
	for _, value := range v.Data {
		assert.Equal(t, uint8(3), value)
	}
}

func TestSeededInputs(t *testing.T) {
	s := &Seeded[uint8, float64]{
		Labels:     NewVolume[uint8](2, 2, 2),
		Grey:       NewVolume[float64](2, 3, 4),
		Foreground: 5,
		Background: 6,
	}

	assert.NotNil(t, s.LabelImage())
	assert.NotNil(t, s.GreyImage())
	assert.Equal(t, uint8(5), s.ForegroundLabel())
	assert.Equal(t, uint8(6), s.BackgroundLabel())

	w, h, d := s.Dims()
	assert.Equal(t, []int{2, 3, 4}, []int{w, h, d})

	s.Labels, s.Grey = nil, nil
	assert.Nil(t, s.LabelImage())
	assert.Nil(t, s.GreyImage())
}

func TestPhantom(t *testing.T) {
	opts := DefaultPhantomOptions()
	opts.Width, opts.Height, opts.Depth = 9, 9, 9
	opts.Radius = 3
	opts.Noise = 0

	p := NewPhantom(opts)
	center := energy.Index{X: 4, Y: 4, Z: 4}

	assert.Equal(t, opts.Inside, p.Grey.At(center))
	assert.Equal(t, opts.Outside, p.Grey.At(energy.Index{}))
	assert.Equal(t, opts.Foreground, p.Labels.At(center))
	assert.Equal(t, opts.Background, p.Labels.At(energy.Index{X: 8, Y: 8, Z: 8}))
	assert.Equal(t, opts.Background, p.Labels.At(energy.Index{X: 0, Y: 8, Z: 0}))

	counts := map[uint8]int{}
	for _, l := range p.Labels.Data {
		counts[l]++
	}
	assert.Equal(t, 1, counts[opts.Foreground])
	assert.Equal(t, 8, counts[opts.Background])
	assert.Equal(t, 9*9*9-9, counts[0])
}

func TestPhantomNoiseIsReproducible(t *testing.T) {
	opts := DefaultPhantomOptions()
	opts.Width, opts.Height, opts.Depth = 6, 6, 6

	a := NewPhantom(opts)
	b := NewPhantom(opts)
	assert.Equal(t, a.Grey.Data, b.Grey.Data)

	for _, v := range a.Grey.Data {
		assert.InDelta(t, 0.5, v, 0.3+opts.Noise)
	}
}
