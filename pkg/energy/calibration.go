package energy

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// CalibrationRow is one sample of the boundary weight curve.
type CalibrationRow[W Weight] struct {
	Difference float64
	Affinity   float64
	Weight     W
}

// Calibrate samples the boundary weight at steps evenly spaced intensity
// differences in [0, maxDifference] using the current sigma. The table
// helps pick a sigma matching the contrast of an image.
func (c *Calculator[L, G, W]) Calibrate(maxDifference float64, steps int) ([]CalibrationRow[W], error) {
	if steps < 2 {
		return nil, fmt.Errorf("%w: need at least 2 steps, got %d", ErrInvalidCalibration, steps)
	}
	if !(maxDifference > 0) || math.IsInf(maxDifference, 1) {
		return nil, fmt.Errorf("%w: max difference %g", ErrInvalidCalibration, maxDifference)
	}

	sigma := c.Sigma()
	diffs := floats.Span(make([]float64, steps), 0, maxDifference)
	rows := make([]CalibrationRow[W], steps)
	for i, d := range diffs {
		affinity := Affinity(d, sigma)
		rows[i] = CalibrationRow[W]{
			Difference: d,
			Affinity:   affinity,
			Weight:     W(affinity * c.scaling),
		}
	}
	return rows, nil
}
