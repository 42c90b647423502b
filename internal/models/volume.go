package models

import (
	"graphcutenergy/pkg/energy"
)

// Volume is an in-memory 3D raster of voxel values
type Volume[T any] struct {
	// Data is the 3D volume data as a 1D array in row-major order
	Data []T

	// Width is the width of the volume in voxels
	Width int

	// Height is the height of the volume in voxels
	Height int

	// Depth is the depth of the volume in voxels
	Depth int

	// VoxelSize is the physical size of each voxel in mm
	VoxelSize struct {
		X, Y, Z float64
	}
}

// NewVolume allocates a zero-valued volume with unit voxel size
func NewVolume[T any](width, height, depth int) *Volume[T] {
	v := &Volume[T]{
		Data:   make([]T, width*height*depth),
		Width:  width,
		Height: height,
		Depth:  depth,
	}
	v.VoxelSize.X, v.VoxelSize.Y, v.VoxelSize.Z = 1, 1, 1
	return v
}

// Len returns the number of voxels
func (v *Volume[T]) Len() int {
	return v.Width * v.Height * v.Depth
}

// IndexOf maps a voxel index to its offset in Data
func (v *Volume[T]) IndexOf(idx energy.Index) int {
	return idx.Z*v.Width*v.Height + idx.Y*v.Width + idx.X
}

// IndexAt maps an offset in Data back to a voxel index
func (v *Volume[T]) IndexAt(offset int) energy.Index {
	plane := v.Width * v.Height
	return energy.Index{
		X: offset % v.Width,
		Y: (offset % plane) / v.Width,
		Z: offset / plane,
	}
}

// InBounds reports whether idx lies inside the volume
func (v *Volume[T]) InBounds(idx energy.Index) bool {
	return idx.X >= 0 && idx.X < v.Width &&
		idx.Y >= 0 && idx.Y < v.Height &&
		idx.Z >= 0 && idx.Z < v.Depth
}

// At returns the voxel value at idx. idx must be in bounds.
func (v *Volume[T]) At(idx energy.Index) T {
	return v.Data[v.IndexOf(idx)]
}

// Set stores value at idx
func (v *Volume[T]) Set(idx energy.Index, value T) {
	v.Data[v.IndexOf(idx)] = value
}

// Fill sets every voxel to value
func (v *Volume[T]) Fill(value T) {
	for i := range v.Data {
		v.Data[i] = value
	}
}

// Seeded bundles a seed label volume and a grey volume with the two
// reserved seed labels. It is the input set of an energy.Calculator.
type Seeded[L comparable, G energy.Intensity] struct {
	Labels     *Volume[L]
	Grey       *Volume[G]
	Foreground L
	Background L
}

// LabelImage returns the seed label volume
func (s *Seeded[L, G]) LabelImage() energy.Image[L] {
	if s.Labels == nil {
		return nil
	}
	return s.Labels
}

// GreyImage returns the grey volume
func (s *Seeded[L, G]) GreyImage() energy.Image[G] {
	if s.Grey == nil {
		return nil
	}
	return s.Grey
}

// ForegroundLabel returns the foreground seed label
func (s *Seeded[L, G]) ForegroundLabel() L { return s.Foreground }

// BackgroundLabel returns the background seed label
func (s *Seeded[L, G]) BackgroundLabel() L { return s.Background }

// Dims returns the width, height and depth of the grey volume
func (s *Seeded[L, G]) Dims() (width, height, depth int) {
	return s.Grey.Width, s.Grey.Height, s.Grey.Depth
}
