// Package energy computes the regional and boundary terms of the graph-cut
// segmentation energy and scales them into a bounded edge weight type.
//
// A seeded voxel gets the maximum weight of the weight type as its regional
// term. Boundary terms are scaled by S = (max-1)/K - epsilon so that the sum
// of the K boundary weights incident on any voxel stays strictly below the
// seed weight, which keeps seeds from being cut away by the max-flow solver.
package energy

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// DefaultSigma is the boundary term sensitivity used when none is configured.
const DefaultSigma = 0.1

type settings struct {
	sigma        float64
	neighborhood Neighborhood
}

// Option configures a Calculator at construction.
type Option func(*settings)

// WithSigma sets the boundary term sensitivity. Smaller values discriminate
// intensity edges more sharply.
func WithSigma(sigma float64) Option {
	return func(s *settings) {
		s.sigma = sigma
	}
}

// WithNeighborhood selects the topology the boundary scaling is derived for.
func WithNeighborhood(n Neighborhood) Option {
	return func(s *settings) {
		s.neighborhood = n
	}
}

// Calculator evaluates the energy terms for one label image and one grey
// image. The term methods are safe for concurrent use; SetSigma may be
// called while they run.
type Calculator[L comparable, G Intensity, W Weight] struct {
	inputs       Inputs[L, G]
	labels       Image[L]
	grey         Image[G]
	traits       Traits[W]
	neighborhood Neighborhood
	scaling      float64

	mu    sync.RWMutex
	sigma float64
}

// New creates a calculator over inputs for the weight type described by
// traits. The boundary scaling is derived once here.
func New[L comparable, G Intensity, W Weight](inputs Inputs[L, G], traits Traits[W], opts ...Option) (*Calculator[L, G, W], error) {
	cfg := settings{sigma: DefaultSigma, neighborhood: Face6}
	for _, opt := range opts {
		opt(&cfg)
	}

	if inputs == nil {
		return nil, ErrMissingInput
	}
	labels, grey := inputs.LabelImage(), inputs.GreyImage()
	if labels == nil || grey == nil {
		return nil, ErrMissingInput
	}
	if err := ValidateSigma(cfg.sigma); err != nil {
		return nil, err
	}
	k := cfg.neighborhood.Size()
	if k == 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNeighborhood, cfg.neighborhood)
	}
	scaling, err := Scaling(traits, k)
	if err != nil {
		return nil, fmt.Errorf("deriving boundary scaling for %s: %w", traits.Name, err)
	}

	return &Calculator[L, G, W]{
		inputs:       inputs,
		labels:       labels,
		grey:         grey,
		traits:       traits,
		neighborhood: cfg.neighborhood,
		scaling:      scaling,
		sigma:        cfg.sigma,
	}, nil
}

// ValidateSigma returns ErrInvalidSigma unless sigma is finite and positive.
func ValidateSigma(sigma float64) error {
	if !(sigma > 0) || math.IsInf(sigma, 1) {
		return fmt.Errorf("%w: got %g", ErrInvalidSigma, sigma)
	}
	return nil
}

// Sigma returns the current boundary term sensitivity.
func (c *Calculator[L, G, W]) Sigma() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sigma
}

// SetSigma changes the boundary term sensitivity. An invalid value is
// rejected and the previous sigma is kept.
func (c *Calculator[L, G, W]) SetSigma(sigma float64) error {
	if err := ValidateSigma(sigma); err != nil {
		return err
	}
	c.mu.Lock()
	c.sigma = sigma
	c.mu.Unlock()
	return nil
}

// Scaling returns the boundary scaling constant S.
func (c *Calculator[L, G, W]) Scaling() float64 { return c.scaling }

// Neighborhood returns the topology S was derived for.
func (c *Calculator[L, G, W]) Neighborhood() Neighborhood { return c.neighborhood }

// WeightMax returns the regional weight of a seed, the maximum of W.
func (c *Calculator[L, G, W]) WeightMax() W { return c.traits.Max }

// Traits returns the weight traits the calculator was built with.
func (c *Calculator[L, G, W]) Traits() Traits[W] { return c.traits }

// ForegroundLabel returns the foreground seed label of the inputs.
func (c *Calculator[L, G, W]) ForegroundLabel() L { return c.inputs.ForegroundLabel() }

// BackgroundLabel returns the background seed label of the inputs.
func (c *Calculator[L, G, W]) BackgroundLabel() L { return c.inputs.BackgroundLabel() }

// RegionalTerm returns the cost of assigning candidate to the voxel at idx.
// A seeded voxel receives the maximum weight for its own label and zero for
// the other; an unlabeled voxel receives zero for both. idx must lie inside
// the label image.
func (c *Calculator[L, G, W]) RegionalTerm(idx Index, candidate L) W {
	value := c.labels.At(idx)
	fg, bg := c.inputs.ForegroundLabel(), c.inputs.BackgroundLabel()

	switch value {
	case fg:
		if candidate == fg {
			return c.traits.Max
		}
		return 0
	case bg:
		if candidate == bg {
			return c.traits.Max
		}
		return 0
	}
	// Unlabeled voxels carry no regional bias. A weighted regional model
	// (lambda * R) would be added here.
	return 0
}

// BoundaryTerm returns the weight of the edge between neighboring voxels a
// and b. Adjacency is not checked. The result is symmetric in a and b.
func (c *Calculator[L, G, W]) BoundaryTerm(a, b Index) W {
	va := float64(c.grey.At(a))
	vb := float64(c.grey.At(b))
	return c.WeightFor(va - vb)
}

// WeightFor returns the boundary weight for an intensity difference:
// exp(-d²/2σ²)·S truncated to W. A non-finite difference, which arises
// when either intensity is NaN or infinite, yields zero.
func (c *Calculator[L, G, W]) WeightFor(difference float64) W {
	if math.IsNaN(difference) || math.IsInf(difference, 0) {
		return 0
	}
	return W(Affinity(difference, c.Sigma()) * c.scaling)
}

// Affinity returns exp(-d²/2σ²), a value in (0, 1] that is 1 for identical
// intensities.
func Affinity(difference, sigma float64) float64 {
	return math.Exp(-(difference * difference) / (2 * sigma * sigma))
}

// Describe reports the configuration for logging.
func (c *Calculator[L, G, W]) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sigma:            %g\n", c.Sigma())
	fmt.Fprintf(&b, "Neighborhood:     %d\n", c.neighborhood.Size())
	fmt.Fprintf(&b, "WeightType:       %s\n", c.traits.Name)
	fmt.Fprintf(&b, "WeightMax:        %v\n", c.traits.Max)
	fmt.Fprintf(&b, "NumericalScaling: %.6f\n", c.scaling)
	return b.String()
}

// String implements fmt.Stringer.
func (c *Calculator[L, G, W]) String() string {
	return fmt.Sprintf("energy.Calculator{sigma=%g, k=%d, weight=%s, scaling=%.6f}",
		c.Sigma(), c.neighborhood.Size(), c.traits.Name, c.scaling)
}
