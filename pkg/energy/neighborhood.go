package energy

import (
	"fmt"
	"strings"
)

// Index addresses a voxel. Two-dimensional images use Z = 0.
type Index struct {
	X, Y, Z int
}

// Add returns the index displaced by offset o.
func (i Index) Add(o Index) Index {
	return Index{X: i.X + o.X, Y: i.Y + o.Y, Z: i.Z + o.Z}
}

// Neighborhood is a voxel connectivity topology.
type Neighborhood int

const (
	// Face6 connects voxels sharing a face in 3-D. This is the default.
	Face6 Neighborhood = iota
	// Edge4 connects pixels sharing an edge in 2-D.
	Edge4
	// Square8 connects pixels sharing an edge or a corner in 2-D.
	Square8
	// Full26 connects voxels sharing a face, an edge or a corner in 3-D.
	Full26
)

// ParseNeighborhood accepts the neighbor count ("4", "6", "8", "26") or the
// constant name, case-insensitively.
func ParseNeighborhood(s string) (Neighborhood, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "6", "face6":
		return Face6, nil
	case "4", "edge4":
		return Edge4, nil
	case "8", "square8":
		return Square8, nil
	case "26", "full26":
		return Full26, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidNeighborhood, s)
}

// Size returns K, the number of neighbor directions of a voxel.
func (n Neighborhood) Size() int {
	return len(n.Offsets())
}

// String returns the neighbor count as text.
func (n Neighborhood) String() string {
	switch n {
	case Face6, Edge4, Square8, Full26:
		return fmt.Sprintf("%d", n.Size())
	}
	return fmt.Sprintf("Neighborhood(%d)", int(n))
}

// Offsets returns all K neighbor offsets of the topology.
func (n Neighborhood) Offsets() []Index {
	forward := n.Forward()
	all := make([]Index, 0, 2*len(forward))
	for _, o := range forward {
		all = append(all, o, Index{X: -o.X, Y: -o.Y, Z: -o.Z})
	}
	return all
}

// Forward returns the half of the offsets that are lexicographically
// positive in (Z, Y, X). Visiting only these from every voxel enumerates
// each unordered neighbor pair exactly once.
func (n Neighborhood) Forward() []Index {
	var forward []Index
	minZ, maxZ := -1, 1
	switch n {
	case Face6, Full26:
	case Edge4, Square8:
		minZ, maxZ = 0, 0
	default:
		return nil
	}
	for dz := minZ; dz <= maxZ; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				o := Index{X: dx, Y: dy, Z: dz}
				if !positive(o) {
					continue
				}
				manhattan := abs(dx) + abs(dy) + abs(dz)
				if (n == Face6 || n == Edge4) && manhattan != 1 {
					continue
				}
				forward = append(forward, o)
			}
		}
	}
	return forward
}

func positive(o Index) bool {
	if o.Z != 0 {
		return o.Z > 0
	}
	if o.Y != 0 {
		return o.Y > 0
	}
	return o.X > 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
