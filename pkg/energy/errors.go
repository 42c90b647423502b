package energy

import "errors"

var (
	// ErrInvalidSigma is returned when sigma is not a finite value greater than zero.
	ErrInvalidSigma = errors.New("energy: sigma must be finite and greater than zero")

	// ErrMissingInput is returned when the label or grey input is absent.
	// The calculator requires exactly two inputs.
	ErrMissingInput = errors.New("energy: label and grey inputs are both required")

	// ErrInvalidNeighborhood is returned for an unknown topology or a
	// non-positive number of neighbor directions.
	ErrInvalidNeighborhood = errors.New("energy: invalid neighborhood")

	// ErrWeightRange is returned when the weight type cannot hold a positive
	// boundary scaling for the requested neighborhood.
	ErrWeightRange = errors.New("energy: weight type range too small")

	// ErrInvalidCalibration is returned for a calibration table request with
	// fewer than two steps or a non-positive maximum difference.
	ErrInvalidCalibration = errors.New("energy: invalid calibration request")
)
