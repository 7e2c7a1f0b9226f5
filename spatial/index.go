// Package spatial - proximity indexes over planar points.
//
// The package exposes one query contract (Index) and two backends:
//
//   - KDTree — a balanced 2-d tree stored in an index-addressed arena,
//     split on x at even depth and on y at odd depth, built by median
//     selection. This is the default backend of the search drivers.
//   - RTree  — the same contract on top of github.com/tidwall/rtree.
//
// Both backends are snapshots: they index coordinates and point identities
// as they were at Build time. Callers that need positions (e.g. tour
// indices) must resolve every hit through their own identity lookup.
//
// Queries:
//   - FindNearest            — single nearest neighbour (zero Point if empty).
//   - FindKNearest           — k nearest, nearest-first.
//   - FindNeighbors          — fixed-radius near neighbours (FRNN), dist ≤ r.
//   - FindNeighborsAdaptive  — FRNN with geometric radius growth until a
//     minimum result count or the radius cap is reached.
//
// Diagnostics:
//   - Every traversal step increments a "nodes visited" counter. The
//     counter is reset by Build and by ResetNodesVisited only, so callers
//     can aggregate it over a batch of queries.
//
// Concurrency:
//   - Indexes are NOT goroutine-safe (the visit counter is mutated by
//     queries). Use one index per goroutine.
package spatial

import (
	"errors"
	"math"

	"github.com/katalvlaran/planar2opt/geom"
)

// AdaptiveGrowth is the factor applied to the radius between adaptive FRNN rounds.
const AdaptiveGrowth = 1.5

// ErrUnknownKind is returned by New for an unsupported backend kind.
var ErrUnknownKind = errors.New("spatial: unknown index kind")

// Index is the proximity-query contract consumed by the search drivers.
type Index interface {
	// Build discards any previous content and indexes a copy of points.
	Build(points []geom.Point)

	// Len reports the number of indexed points.
	Len() int

	// FindNearest returns the indexed point closest to q, or the zero Point
	// when the index is empty.
	FindNearest(q geom.Point) geom.Point

	// FindKNearest returns up to k indexed points ordered nearest-first.
	FindKNearest(q geom.Point, k int) []geom.Point

	// FindNeighbors returns every indexed point p with Distance(q,p) ≤ radius.
	FindNeighbors(q geom.Point, radius float64) []geom.Point

	// FindNeighborsAdaptive grows the radius from baseRadius by AdaptiveGrowth
	// until at least minNeighbors points are found or the index radius cap
	// (MaxRadius) is reached, and returns the last result set.
	FindNeighborsAdaptive(q geom.Point, baseRadius float64, minNeighbors int) []geom.Point

	// MaxRadius is the adaptive radius cap: the diagonal of the indexed
	// bounding box (0 for empty or single-location sets).
	MaxRadius() float64

	// NodesVisited returns the number of traversal steps since the last reset.
	NodesVisited() int

	// ResetNodesVisited zeroes the traversal counter.
	ResetNodesVisited()
}

// Kind selects an Index backend.
type Kind int

const (
	// KDTreeKind selects the arena-based 2-d tree.
	KDTreeKind Kind = iota

	// RTreeKind selects the tidwall/rtree backed index.
	RTreeKind
)

// String returns the flag-friendly name of k.
func (k Kind) String() string {
	switch k {
	case KDTreeKind:
		return "kdtree"
	case RTreeKind:
		return "rtree"
	default:
		return "unknown"
	}
}

// ParseKind maps "kdtree" / "rtree" to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "kdtree", "kd":
		return KDTreeKind, nil
	case "rtree":
		return RTreeKind, nil
	default:
		return 0, ErrUnknownKind
	}
}

// New returns an empty Index of the requested kind.
func New(kind Kind) (Index, error) {
	switch kind {
	case KDTreeKind:
		return NewKDTree(), nil
	case RTreeKind:
		return NewRTree(), nil
	default:
		return nil, ErrUnknownKind
	}
}

// adaptiveQuery implements the shared radius-growth loop of
// FindNeighborsAdaptive. find performs one FRNN query at radius r.
//
// Termination: the radius is clamped to limit, and the loop returns as soon
// as r ≥ limit. A non-positive starting radius jumps straight to limit.
func adaptiveQuery(find func(r float64) []geom.Point, base float64, minNeighbors int, limit float64) []geom.Point {
	var (
		r   = base
		res []geom.Point
	)
	if math.IsNaN(r) {
		r = 0
	}
	if limit < r {
		limit = r
	}
	for {
		res = find(r)
		if len(res) >= minNeighbors || r >= limit {
			return res
		}
		if r <= 0 {
			r = limit
			continue
		}
		r *= AdaptiveGrowth
		if r > limit {
			r = limit
		}
	}
}
