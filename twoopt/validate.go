package twoopt

import (
	"fmt"
	"math"

	"github.com/katalvlaran/planar2opt/geom"
)

// validateOptions checks every field up front so the drivers never see an
// ill-posed policy. Errors wrap ErrBadOption and name the field.
func validateOptions(o *Options) error {
	switch {
	case o.MaxIterations <= 0:
		return fmt.Errorf("%w: MaxIterations must be positive, got %d", ErrBadOption, o.MaxIterations)
	case o.MinImprovement < 0 || math.IsNaN(o.MinImprovement):
		return fmt.Errorf("%w: MinImprovement must be >= 0, got %v", ErrBadOption, o.MinImprovement)
	case !(o.RadiusFactor > 0) || !(o.HybridRadiusFactor > 0):
		return fmt.Errorf("%w: radius factors must be positive", ErrBadOption)
	case o.MinRadius < 0 || o.HybridMinRadius < 0 || math.IsNaN(o.MinRadius) || math.IsNaN(o.HybridMinRadius):
		return fmt.Errorf("%w: minimum radii must be >= 0", ErrBadOption)
	case o.MinNeighbors < 0 || o.HybridMinNeighbors < 0:
		return fmt.Errorf("%w: minimum neighbour counts must be >= 0", ErrBadOption)
	case !(o.RadiusWiden >= 1):
		return fmt.Errorf("%w: RadiusWiden must be >= 1, got %v", ErrBadOption, o.RadiusWiden)
	case o.RebuildEvery < 1 || o.HybridRebuildEvery < 1:
		return fmt.Errorf("%w: rebuild periods must be >= 1", ErrBadOption)
	case o.ActivationRadius < 0 || o.HybridActivationRadius < 0:
		return fmt.Errorf("%w: activation radii must be >= 0", ErrBadOption)
	case o.RelaxBatch < 1 || o.HybridRelaxBatch < 1:
		return fmt.Errorf("%w: relax batches must be >= 1", ErrBadOption)
	case o.ProgressEvery < 0:
		return fmt.Errorf("%w: ProgressEvery must be >= 0", ErrBadOption)
	}

	return nil
}

// validatePoints rejects NaN and infinite coordinates.
func validatePoints(pts []geom.Point) error {
	var i int
	for i = range pts {
		if math.IsNaN(pts[i].X) || math.IsNaN(pts[i].Y) ||
			math.IsInf(pts[i].X, 0) || math.IsInf(pts[i].Y, 0) {
			return fmt.Errorf("%w: point %d", ErrNonFinitePoint, pts[i].ID)
		}
	}

	return nil
}
