package spatial

import (
	"container/heap"

	"github.com/katalvlaran/planar2opt/geom"
)

// candidate is a k-nearest entry keyed by squared distance.
type candidate struct {
	d2    float64
	point geom.Point
}

// maxHeap keeps the current k best candidates with the worst on top,
// so a closer point replaces the root in O(log k).
type maxHeap []candidate

var _ heap.Interface = (*maxHeap)(nil)

func (h maxHeap) Len() int { return len(h) }

// Less orders by descending distance; equal distances put the larger ID on
// top so the drained result is deterministic.
func (h maxHeap) Less(i, j int) bool {
	if h[i].d2 != h[j].d2 {
		return h[i].d2 > h[j].d2
	}

	return h[i].point.ID > h[j].point.ID
}

func (h maxHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *maxHeap) Push(x any) { *h = append(*h, x.(candidate)) }

func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]

	return x
}

// drainNearestFirst empties the heap and returns its points nearest-first.
//
// Complexity: O(k log k).
func (h *maxHeap) drainNearestFirst() []geom.Point {
	out := make([]geom.Point, h.Len())

	var i int
	for i = len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(candidate).point
	}

	return out
}
