package spatial

import (
	"cmp"
	"math"
	"slices"

	"github.com/katalvlaran/planar2opt/geom"
	"github.com/tidwall/rtree"
)

// RTree adapts github.com/tidwall/rtree to the Index contract.
//
// Points are inserted as degenerate rectangles. FRNN is a box search of
// half-width r followed by an exact circle filter; k-nearest widens a
// square window until k hits fall inside its inscribed circle. The visit
// counter counts items yielded by box searches.
type RTree struct {
	tr        rtree.RTreeG[geom.Point]
	n         int
	maxRadius float64
	visited   int
}

var _ Index = (*RTree)(nil)

// NewRTree returns an empty rtree-backed index.
func NewRTree() *RTree { return &RTree{} }

// Build replaces the index content with points.
//
// Complexity: O(n log n).
func (t *RTree) Build(points []geom.Point) {
	t.tr = rtree.RTreeG[geom.Point]{}
	t.n = 0
	t.visited = 0
	t.maxRadius = 0

	var (
		i  int
		xy [2]float64
	)
	for i = range points {
		xy = [2]float64{points[i].X, points[i].Y}
		t.tr.Insert(xy, xy, points[i])
	}
	t.n = len(points)
	if b, ok := geom.BoundsOf(points); ok {
		t.maxRadius = b.Diagonal()
	}
}

// Len reports the number of indexed points.
func (t *RTree) Len() int { return t.n }

// MaxRadius returns the diagonal of the indexed bounding box.
func (t *RTree) MaxRadius() float64 { return t.maxRadius }

// NodesVisited returns the traversal counter.
func (t *RTree) NodesVisited() int { return t.visited }

// ResetNodesVisited zeroes the traversal counter.
func (t *RTree) ResetNodesVisited() { t.visited = 0 }

// box collects every point inside the square [q-h, q+h]².
func (t *RTree) box(q geom.Point, h float64, out []geom.Point) []geom.Point {
	var (
		lo = [2]float64{q.X - h, q.Y - h}
		hi = [2]float64{q.X + h, q.Y + h}
	)
	t.tr.Search(lo, hi, func(_, _ [2]float64, p geom.Point) bool {
		t.visited++
		out = append(out, p)
		return true
	})

	return out
}

// FindNeighbors returns all points within radius of q (inclusive).
func (t *RTree) FindNeighbors(q geom.Point, radius float64) []geom.Point {
	if radius < 0 || t.n == 0 {
		return nil
	}
	var (
		r2  = radius * radius
		hit = t.box(q, radius, nil)
		out = hit[:0]
		i   int
	)
	for i = range hit {
		if geom.DistanceSquared(hit[i], q) <= r2 {
			out = append(out, hit[i])
		}
	}
	if len(out) == 0 {
		return nil
	}

	return out
}

// FindKNearest returns up to k points nearest-first. Ties are broken by ID.
func (t *RTree) FindKNearest(q geom.Point, k int) []geom.Point {
	if k <= 0 || t.n == 0 {
		return nil
	}
	if k > t.n {
		k = t.n
	}

	// Initial half-width: the side of a square expected to hold k points
	// under a uniform spread over the bounding box.
	h := t.maxRadius * math.Sqrt(float64(k)/float64(t.n))
	if h <= 0 {
		h = 1
	}

	var hit []geom.Point
	for {
		hit = t.box(q, h, hit[:0])
		if len(hit) == t.n || countWithin(hit, q, h*h) >= k {
			break
		}
		h *= 2
	}

	slices.SortFunc(hit, func(a, b geom.Point) int {
		if c := cmp.Compare(geom.DistanceSquared(a, q), geom.DistanceSquared(b, q)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return hit[:k]
}

// countWithin counts points of pts within squared distance r2 of q.
func countWithin(pts []geom.Point, q geom.Point, r2 float64) int {
	var (
		c int
		i int
	)
	for i = range pts {
		if geom.DistanceSquared(pts[i], q) <= r2 {
			c++
		}
	}

	return c
}

// FindNearest returns the closest indexed point, or the zero Point if empty.
func (t *RTree) FindNearest(q geom.Point) geom.Point {
	best := t.FindKNearest(q, 1)
	if len(best) == 0 {
		return geom.Point{}
	}

	return best[0]
}

// FindNeighborsAdaptive grows the FRNN radius geometrically from baseRadius
// until minNeighbors points are found or MaxRadius is reached.
func (t *RTree) FindNeighborsAdaptive(q geom.Point, baseRadius float64, minNeighbors int) []geom.Point {
	if t.n == 0 {
		return nil
	}

	return adaptiveQuery(func(r float64) []geom.Point {
		return t.FindNeighbors(q, r)
	}, baseRadius, minNeighbors, t.maxRadius)
}
