// Package audit evaluates the energy terms over a whole volume and checks
// that the boundary weights incident on every voxel stay below the seed
// weight, the precondition a max-flow solver relies on.
package audit

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"graphcutenergy/pkg/energy"
)

// maxRecordedViolations bounds Report.Violations; ViolationCount is exact.
const maxRecordedViolations = 16

// Params holds the audit configuration.
type Params struct {
	// Width, Height and Depth of the volume the calculator reads
	Width, Height, Depth int

	// NumCores is the number of slabs evaluated concurrently.
	// Zero means runtime.NumCPU().
	NumCores int
}

// Report summarises the energy terms of a volume.
type Report struct {
	// Nodes is the number of voxels and Pairs the number of neighbor pairs
	Nodes int
	Pairs int

	// Limit is W_max - 1; every incident sum must stay strictly below it
	Limit float64

	// MaxIncidentSum is the largest sum of boundary weights on one voxel
	MaxIncidentSum float64

	// ViolationCount counts voxels whose incident sum reached Limit.
	// Violations holds the first few of them.
	ViolationCount int
	Violations     []energy.Index

	// Boundary weight statistics over all neighbor pairs
	Mean, StdDev, Min, Max float64

	// ZeroWeights counts pairs whose boundary weight truncated to zero
	ZeroWeights int

	// Seed counts derived from the regional terms
	Foreground, Background, Unlabeled int
}

// OK reports whether no voxel violated the seed dominance precondition.
func (r *Report) OK() bool {
	return r.ViolationCount == 0
}

type slabResult struct {
	z              int
	weights        []float64
	maxIncidentSum float64
	violations     []energy.Index
	violationCount int
	fg, bg, none   int
}

// Run evaluates every voxel of the volume, one z-slab per task, using
// params.NumCores workers. It stops early when ctx is cancelled.
func Run[L comparable, G energy.Intensity, W energy.Weight](ctx context.Context, calc *energy.Calculator[L, G, W], params Params) (*Report, error) {
	if params.Width <= 0 || params.Height <= 0 || params.Depth <= 0 {
		return nil, fmt.Errorf("audit: invalid volume dimensions %dx%dx%d", params.Width, params.Height, params.Depth)
	}
	numCores := params.NumCores
	if numCores <= 0 {
		numCores = runtime.NumCPU()
	}

	limit := float64(calc.WeightMax()) - 1
	tasks := make(chan int)
	results := make(chan slabResult, params.Depth)

	var wg sync.WaitGroup
	for w := 0; w < numCores; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for z := range tasks {
				results <- auditSlab(calc, params, z, limit)
			}
		}()
	}

	var cancelErr error
feed:
	for z := 0; z < params.Depth; z++ {
		if err := ctx.Err(); err != nil {
			cancelErr = err
			break
		}
		select {
		case <-ctx.Done():
			cancelErr = ctx.Err()
			break feed
		case tasks <- z:
		}
	}
	close(tasks)
	wg.Wait()
	close(results)

	if cancelErr != nil {
		return nil, fmt.Errorf("audit cancelled: %w", cancelErr)
	}

	// Merge in slab order so the report does not depend on scheduling
	slabs := make([]slabResult, params.Depth)
	for res := range results {
		slabs[res.z] = res
	}

	report := &Report{
		Nodes: params.Width * params.Height * params.Depth,
		Limit: limit,
	}
	var weights []float64
	for _, s := range slabs {
		weights = append(weights, s.weights...)
		report.MaxIncidentSum = math.Max(report.MaxIncidentSum, s.maxIncidentSum)
		report.ViolationCount += s.violationCount
		for _, v := range s.violations {
			if len(report.Violations) < maxRecordedViolations {
				report.Violations = append(report.Violations, v)
			}
		}
		report.Foreground += s.fg
		report.Background += s.bg
		report.Unlabeled += s.none
	}

	report.Pairs = len(weights)
	if len(weights) > 0 {
		report.Mean = stat.Mean(weights, nil)
		report.Min = floats.Min(weights)
		report.Max = floats.Max(weights)
		for _, w := range weights {
			if w == 0 {
				report.ZeroWeights++
			}
		}
	}
	if len(weights) > 1 {
		report.StdDev = stat.StdDev(weights, nil)
	}

	return report, nil
}

func auditSlab[L comparable, G energy.Intensity, W energy.Weight](calc *energy.Calculator[L, G, W], params Params, z int, limit float64) slabResult {
	res := slabResult{z: z}
	nb := calc.Neighborhood()
	forward := nb.Forward()
	all := nb.Offsets()
	fg, bg := calc.ForegroundLabel(), calc.BackgroundLabel()
	seedWeight := calc.WeightMax()

	inBounds := func(idx energy.Index) bool {
		return idx.X >= 0 && idx.X < params.Width &&
			idx.Y >= 0 && idx.Y < params.Height &&
			idx.Z >= 0 && idx.Z < params.Depth
	}

	for y := 0; y < params.Height; y++ {
		for x := 0; x < params.Width; x++ {
			p := energy.Index{X: x, Y: y, Z: z}

			switch {
			case calc.RegionalTerm(p, fg) == seedWeight:
				res.fg++
			case calc.RegionalTerm(p, bg) == seedWeight:
				res.bg++
			default:
				res.none++
			}

			for _, o := range forward {
				q := p.Add(o)
				if inBounds(q) {
					res.weights = append(res.weights, float64(calc.BoundaryTerm(p, q)))
				}
			}

			var sum float64
			for _, o := range all {
				q := p.Add(o)
				if inBounds(q) {
					sum += float64(calc.BoundaryTerm(p, q))
				}
			}
			res.maxIncidentSum = math.Max(res.maxIncidentSum, sum)
			if sum >= limit {
				res.violationCount++
				if len(res.violations) < maxRecordedViolations {
					res.violations = append(res.violations, p)
				}
			}
		}
	}
	return res
}
