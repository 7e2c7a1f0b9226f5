// Package instance builds problem instances and starting tours.
//
// Generators:
//   - Random:    n points uniform in the unit square.
//   - Clustered: n points drawn around k uniform centres in [0.1, 0.9]² with
//     Gaussian spread σ = 0.05, clamped to the unit square.
//   - LoadOSM:   tagged nodes of an OpenStreetMap extract, projected to Web
//     Mercator metres.
//
// Starting tours:
//   - NearestNeighborTour: greedy nearest unvisited point from one start,
//     answered by k-nearest queries on a kd-tree.
//   - BestNearestNeighborTour: the shortest of several such tours.
//
// Point identities are 0..n-1 in generation order. All generators are
// deterministic under a fixed seed.
package instance

import (
	"errors"
	"math"
	"math/rand"

	"github.com/katalvlaran/planar2opt/geom"
)

// Sentinel errors.
var (
	// ErrBadSize is returned for a negative point count.
	ErrBadSize = errors.New("instance: point count must be >= 0")

	// ErrBadClusters is returned when Clustered is asked for fewer than one cluster.
	ErrBadClusters = errors.New("instance: cluster count must be >= 1")

	// ErrStartOutOfRange is returned by NearestNeighborTour for a bad start index.
	ErrStartOutOfRange = errors.New("instance: start index out of range")

	// ErrNoPoints is returned by LoadOSM when nothing matched the filters.
	ErrNoPoints = errors.New("instance: no matching points")
)

const (
	clusterLo    = 0.1
	clusterHi    = 0.9
	clusterSigma = 0.05
)

// Random returns n points uniform in [0,1]².
func Random(n int, seed int64) ([]geom.Point, error) {
	if n < 0 {
		return nil, ErrBadSize
	}
	r := rand.New(rand.NewSource(seed))
	pts := make([]geom.Point, n)

	var i int
	for i = range pts {
		pts[i] = geom.Point{ID: i, X: r.Float64(), Y: r.Float64()}
	}

	return pts, nil
}

// Clustered returns n points grouped around k centres.
func Clustered(n, k int, seed int64) ([]geom.Point, error) {
	if n < 0 {
		return nil, ErrBadSize
	}
	if k < 1 {
		return nil, ErrBadClusters
	}
	r := rand.New(rand.NewSource(seed))

	centres := make([]geom.Point, k)
	var i int
	for i = range centres {
		centres[i] = geom.Point{
			X: clusterLo + (clusterHi-clusterLo)*r.Float64(),
			Y: clusterLo + (clusterHi-clusterLo)*r.Float64(),
		}
	}

	pts := make([]geom.Point, n)
	for i = range pts {
		c := centres[r.Intn(k)]
		pts[i] = geom.Point{
			ID: i,
			X:  clamp01(c.X + r.NormFloat64()*clusterSigma),
			Y:  clamp01(c.Y + r.NormFloat64()*clusterSigma),
		}
	}

	return pts, nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Summary describes the pairwise distances of an instance.
type Summary struct {
	N           int
	MinDistance float64
	MaxDistance float64
	AvgDistance float64
}

// Describe computes min/max/average pairwise distance. Fewer than two
// points yield zero distances.
//
// Complexity: O(n²).
func Describe(pts []geom.Point) Summary {
	s := Summary{N: len(pts)}
	if len(pts) < 2 {
		return s
	}

	var (
		i, j  int
		d     float64
		sum   float64
		pairs int
	)
	s.MinDistance = math.Inf(1)
	for i = 0; i < len(pts); i++ {
		for j = i + 1; j < len(pts); j++ {
			d = geom.Distance(pts[i], pts[j])
			s.MinDistance = math.Min(s.MinDistance, d)
			s.MaxDistance = math.Max(s.MaxDistance, d)
			sum += d
			pairs++
		}
	}
	s.AvgDistance = sum / float64(pairs)

	return s
}
