package energy

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Weight is the set of numeric types a graph edge weight may take.
type Weight interface {
	constraints.Integer | constraints.Float
}

// Intensity is the set of numeric types a grey voxel may take.
type Intensity interface {
	constraints.Integer | constraints.Float
}

// machineEpsilon is the spacing between 1.0 and the next float64.
const machineEpsilon = 0x1p-52

// Traits describes the numeric range of a weight type. Max is the largest
// representable weight and is used as the "infinite" regional cost of a
// seeded voxel. Epsilon is the decrement applied to the boundary scaling.
type Traits[W Weight] struct {
	// Name identifies the weight type in diagnostics and configuration
	Name string

	// Max is the largest representable weight
	Max W

	// Epsilon is the smallest increment of the weight type. Integer types
	// use the float64 machine epsilon since the cast truncates anyway.
	Epsilon float64
}

// Predefined traits for the usual weight types.
var (
	Uint8Traits   = Traits[uint8]{Name: "uint8", Max: math.MaxUint8, Epsilon: machineEpsilon}
	Uint16Traits  = Traits[uint16]{Name: "uint16", Max: math.MaxUint16, Epsilon: machineEpsilon}
	Uint32Traits  = Traits[uint32]{Name: "uint32", Max: math.MaxUint32, Epsilon: machineEpsilon}
	Int16Traits   = Traits[int16]{Name: "int16", Max: math.MaxInt16, Epsilon: machineEpsilon}
	Int32Traits   = Traits[int32]{Name: "int32", Max: math.MaxInt32, Epsilon: machineEpsilon}
	Int64Traits   = Traits[int64]{Name: "int64", Max: math.MaxInt64, Epsilon: machineEpsilon}
	Float32Traits = Traits[float32]{Name: "float32", Max: math.MaxFloat32, Epsilon: 0x1p-23}
	Float64Traits = Traits[float64]{Name: "float64", Max: math.MaxFloat64, Epsilon: machineEpsilon}
)

// WeightTypeNames lists the names of the predefined traits.
var WeightTypeNames = []string{"uint8", "uint16", "uint32", "int16", "int32", "int64", "float32", "float64"}

// CheckInvariant reports whether max > 1 + k*s, i.e. whether k maximal
// boundary weights of size s still leave a seed's regional weight max
// strictly dominant. The sum is also accumulated term by term, the way a
// consumer adds incident weights, since rounding can differ from k*s.
func CheckInvariant(max float64, k int, s float64) bool {
	var sum float64
	for i := 0; i < k; i++ {
		sum += s
	}
	return max > 1+float64(k)*s && max > 1+sum
}

// Scaling derives the boundary scaling constant S = (max-1)/k - epsilon.
//
// In float64 arithmetic the subtraction can vanish (large maxima, or an
// epsilon below the spacing of S), so S is stepped down until both S and
// its value cast to W satisfy CheckInvariant. The returned value is the
// largest such S reachable from the formula.
func Scaling[W Weight](traits Traits[W], k int) (float64, error) {
	if k < 1 {
		return 0, fmt.Errorf("%w: %d neighbor directions", ErrInvalidNeighborhood, k)
	}
	max := float64(traits.Max)
	if !(max > 1) || math.IsInf(max, 0) {
		return 0, fmt.Errorf("%w: max %g", ErrWeightRange, max)
	}
	if !(traits.Epsilon >= 0) {
		return 0, fmt.Errorf("%w: epsilon %g", ErrWeightRange, traits.Epsilon)
	}

	step := math.Max(traits.Epsilon, machineEpsilon)
	s := (max-1)/float64(k) - traits.Epsilon
	for s > 0 && !(CheckInvariant(max, k, s) && CheckInvariant(max, k, float64(W(s)))) {
		s *= 1 - 2*step
	}
	if !(s > 0) || float64(W(s)) <= 0 {
		return 0, fmt.Errorf("%w: max %g leaves no room for %d boundary terms", ErrWeightRange, max, k)
	}
	return s, nil
}
