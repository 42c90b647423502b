package energy

// Image gives read access to a raster. Implementations used from several
// goroutines must be safe for concurrent reads.
type Image[T any] interface {
	At(idx Index) T
}

// Inputs is what the surrounding segmentation pipeline supplies to a
// Calculator: the seed label image, the grey image and the two reserved
// seed label values. Any other label value is treated as unlabeled.
type Inputs[L comparable, G Intensity] interface {
	LabelImage() Image[L]
	GreyImage() Image[G]
	ForegroundLabel() L
	BackgroundLabel() L
}
