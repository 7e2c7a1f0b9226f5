package spatial

import (
	"container/heap"

	"github.com/katalvlaran/planar2opt/geom"
)

// nilNode marks an absent child in the arena.
const nilNode int32 = -1

// kdNode is one arena slot. Children are arena indices; ownership is
// strictly parent → child (no back references, no sharing).
type kdNode struct {
	point geom.Point
	depth int   // split axis = depth & 1 (0 → X, 1 → Y)
	left  int32 // points with coord ≤ point's coord on the split axis
	right int32 // points with coord ≥ point's coord on the split axis
}

// KDTree is a balanced 2-d tree over a snapshot of points.
//
// The zero value is an empty, usable index.
type KDTree struct {
	nodes     []kdNode
	root      int32
	maxRadius float64
	visited   int
}

var _ Index = (*KDTree)(nil)

// NewKDTree returns an empty kd-tree.
func NewKDTree() *KDTree {
	return &KDTree{root: nilNode}
}

// Build indexes a copy of points, replacing the previous tree in full.
// The median of the depth-selected axis is found by three-way quickselect,
// giving O(n log n) expected build time and a height of ⌈log2(n+1)⌉.
//
// Complexity: O(n log n) expected time, O(n) space.
func (t *KDTree) Build(points []geom.Point) {
	t.nodes = nil
	t.root = nilNode
	t.visited = 0
	t.maxRadius = 0
	if len(points) == 0 {
		return
	}

	buf := make([]geom.Point, len(points))
	copy(buf, points)

	t.nodes = make([]kdNode, 0, len(buf))
	t.root = t.build(buf, 0)

	if b, ok := geom.BoundsOf(buf); ok {
		t.maxRadius = b.Diagonal()
	}
}

// build places the median of pts at a new arena slot and recurses on both halves.
func (t *KDTree) build(pts []geom.Point, depth int) int32 {
	if len(pts) == 0 {
		return nilNode
	}
	mid := len(pts) / 2
	selectNth(pts, mid, depth&1)

	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, kdNode{point: pts[mid], depth: depth, left: nilNode, right: nilNode})

	left := t.build(pts[:mid], depth+1)
	right := t.build(pts[mid+1:], depth+1)
	t.nodes[idx].left = left
	t.nodes[idx].right = right

	return idx
}

// Len reports the number of indexed points.
func (t *KDTree) Len() int { return len(t.nodes) }

// MaxRadius returns the diagonal of the indexed bounding box.
func (t *KDTree) MaxRadius() float64 { return t.maxRadius }

// NodesVisited returns the traversal counter.
func (t *KDTree) NodesVisited() int { return t.visited }

// ResetNodesVisited zeroes the traversal counter.
func (t *KDTree) ResetNodesVisited() { t.visited = 0 }

// Height returns the number of levels of the tree (0 when empty).
func (t *KDTree) Height() int {
	var (
		best int
		i    int
	)
	for i = range t.nodes {
		if d := t.nodes[i].depth + 1; d > best {
			best = d
		}
	}

	return best
}

// split returns the signed distance from q to the splitting hyperplane of
// node nd, and the near/far children in visiting order.
func (nd *kdNode) split(q geom.Point) (diff float64, near, far int32) {
	axis := nd.depth & 1
	diff = q.Coord(axis) - nd.point.Coord(axis)
	if diff <= 0 {
		return diff, nd.left, nd.right
	}

	return diff, nd.right, nd.left
}

// FindNearest performs branch-and-bound nearest-neighbour descent.
// The far child is skipped when its hyperplane distance cannot beat the
// current best squared distance. Returns the zero Point for an empty tree.
//
// Complexity: O(log n) expected, O(n) worst case.
func (t *KDTree) FindNearest(q geom.Point) geom.Point {
	if len(t.nodes) == 0 {
		return geom.Point{}
	}
	best := t.nodes[t.root].point
	bestD2 := geom.DistanceSquared(q, best)
	t.nearest(t.root, q, &best, &bestD2)

	return best
}

func (t *KDTree) nearest(idx int32, q geom.Point, best *geom.Point, bestD2 *float64) {
	if idx == nilNode {
		return
	}
	t.visited++
	nd := &t.nodes[idx]

	if d2 := geom.DistanceSquared(nd.point, q); d2 < *bestD2 {
		*bestD2 = d2
		*best = nd.point
	}

	diff, near, far := nd.split(q)
	t.nearest(near, q, best, bestD2)
	if diff*diff < *bestD2 {
		t.nearest(far, q, best, bestD2)
	}
}

// FindKNearest returns up to k points ordered nearest-first, using a
// bounded max-heap keyed by squared distance. k ≤ 0 or an empty tree
// yields nil.
//
// Complexity: O(k + log n · log k) expected.
func (t *KDTree) FindKNearest(q geom.Point, k int) []geom.Point {
	if k <= 0 || len(t.nodes) == 0 {
		return nil
	}
	h := make(maxHeap, 0, k)
	t.kNearest(t.root, q, k, &h)

	return h.drainNearestFirst()
}

func (t *KDTree) kNearest(idx int32, q geom.Point, k int, h *maxHeap) {
	if idx == nilNode {
		return
	}
	t.visited++
	nd := &t.nodes[idx]

	d2 := geom.DistanceSquared(nd.point, q)
	switch {
	case h.Len() < k:
		heap.Push(h, candidate{d2: d2, point: nd.point})
	case d2 < (*h)[0].d2:
		(*h)[0] = candidate{d2: d2, point: nd.point}
		heap.Fix(h, 0)
	}

	diff, near, far := nd.split(q)
	t.kNearest(near, q, k, h)
	if h.Len() < k || diff*diff < (*h)[0].d2 {
		t.kNearest(far, q, k, h)
	}
}

// FindNeighbors returns all points within radius of q (inclusive).
// A branch is descended only if its splitting hyperplane lies within radius.
// radius == 0 yields exact coordinate matches; radius < 0 yields nil.
//
// Complexity: O(√n + m) expected for m results.
func (t *KDTree) FindNeighbors(q geom.Point, radius float64) []geom.Point {
	if radius < 0 || len(t.nodes) == 0 {
		return nil
	}

	return t.frnn(t.root, q, radius*radius, nil)
}

func (t *KDTree) frnn(idx int32, q geom.Point, r2 float64, out []geom.Point) []geom.Point {
	if idx == nilNode {
		return out
	}
	t.visited++
	nd := &t.nodes[idx]

	if geom.DistanceSquared(nd.point, q) <= r2 {
		out = append(out, nd.point)
	}

	diff, near, far := nd.split(q)
	out = t.frnn(near, q, r2, out)
	if diff*diff <= r2 {
		out = t.frnn(far, q, r2, out)
	}

	return out
}

// FindNeighborsAdaptive grows the FRNN radius geometrically from baseRadius
// until minNeighbors points are found or MaxRadius is reached.
func (t *KDTree) FindNeighborsAdaptive(q geom.Point, baseRadius float64, minNeighbors int) []geom.Point {
	if len(t.nodes) == 0 {
		return nil
	}

	return adaptiveQuery(func(r float64) []geom.Point {
		return t.FindNeighbors(q, r)
	}, baseRadius, minNeighbors, t.maxRadius)
}

// selectNth rearranges pts so that pts[k] holds the element that would be
// at index k after sorting by the given axis, with pts[:k] ≤ pts[k] ≤ pts[k+1:].
// Three-way partitioning keeps duplicate-heavy inputs linear.
//
// Complexity: O(n) expected.
func selectNth(pts []geom.Point, k, axis int) {
	var (
		lo = 0
		hi = len(pts) - 1
	)
	for lo < hi {
		pivot := medianOfThree(pts, lo, hi, axis)

		var (
			lt = lo
			gt = hi
			i  = lo
			v  float64
		)
		for i <= gt {
			v = pts[i].Coord(axis)
			switch {
			case v < pivot:
				pts[lt], pts[i] = pts[i], pts[lt]
				lt++
				i++
			case v > pivot:
				pts[i], pts[gt] = pts[gt], pts[i]
				gt--
			default:
				i++
			}
		}
		// [lo,lt) < pivot, [lt,gt] == pivot, (gt,hi] > pivot.
		switch {
		case k < lt:
			hi = lt - 1
		case k > gt:
			lo = gt + 1
		default:
			return
		}
	}
}

// medianOfThree returns the median coordinate of pts[lo], pts[mid], pts[hi].
func medianOfThree(pts []geom.Point, lo, hi, axis int) float64 {
	var (
		a = pts[lo].Coord(axis)
		b = pts[lo+(hi-lo)/2].Coord(axis)
		c = pts[hi].Coord(axis)
	)
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		b = a
	}

	return b
}
