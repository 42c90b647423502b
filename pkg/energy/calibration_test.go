package energy_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"graphcutenergy/pkg/energy"
)

func TestCalibrate(t *testing.T) {
	calc := newUint16(t, newLine(0, 0))

	rows, err := calc.Calibrate(1, 11)
	require.NoError(t, err)
	require.Len(t, rows, 11)

	diffs := make([]float64, len(rows))
	for i, row := range rows {
		diffs[i] = row.Difference
		assert.Equal(t, calc.WeightFor(row.Difference), row.Weight, "difference %g", row.Difference)
		assert.InDelta(t, energy.Affinity(row.Difference, 0.1), row.Affinity, 1e-15)
	}
	assert.True(t, floats.EqualApprox(diffs, []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}, 1e-12))

	assert.Equal(t, 1.0, rows[0].Affinity)
	assert.Equal(t, uint16(10922), rows[0].Weight)
	assert.Equal(t, uint16(0), rows[10].Weight)
	assert.InDelta(t, math.Exp(-0.5), rows[1].Affinity, 1e-12)
}

func TestCalibrateFollowsSigma(t *testing.T) {
	calc := newUint16(t, newLine(0, 0))
	before, err := calc.Calibrate(0.5, 3)
	require.NoError(t, err)

	require.NoError(t, calc.SetSigma(0.5))
	after, err := calc.Calibrate(0.5, 3)
	require.NoError(t, err)

	assert.Greater(t, after[2].Weight, before[2].Weight)
}

func TestCalibrateRejectsBadRequests(t *testing.T) {
	calc := newUint16(t, newLine(0, 0))

	_, err := calc.Calibrate(1, 1)
	assert.True(t, errors.Is(err, energy.ErrInvalidCalibration))

	for _, max := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err = calc.Calibrate(max, 5)
		assert.True(t, errors.Is(err, energy.ErrInvalidCalibration), "max %g", max)
	}
}

func TestAffinity(t *testing.T) {
	assert.Equal(t, 1.0, energy.Affinity(0, 0.1))
	assert.Equal(t, energy.Affinity(0.3, 0.1), energy.Affinity(-0.3, 0.1))
	assert.InDelta(t, math.Exp(-50), energy.Affinity(1, 0.1), 1e-30)
}
