package instance

import (
	"github.com/katalvlaran/planar2opt/geom"
	"github.com/katalvlaran/planar2opt/spatial"
	"github.com/katalvlaran/planar2opt/tour"
)

// initialK is the first k tried when looking for the nearest unvisited point.
const initialK = 8

// NearestNeighborTour builds the greedy nearest-neighbour order starting at
// points[start].
//
// Each step asks the kd-tree for the k nearest points and doubles k until
// one of them is unvisited; once k reaches n every point is returned, so a
// step always succeeds.
//
// Complexity: O(n log n) typical, O(n² log n) worst case.
func NearestNeighborTour(points []geom.Point, start int) ([]geom.Point, error) {
	n := len(points)
	if n == 0 {
		return []geom.Point{}, nil
	}
	if start < 0 || start >= n {
		return nil, ErrStartOutOfRange
	}

	idx := spatial.NewKDTree()
	idx.Build(points)
	return nearestNeighborTour(idx, points, start), nil
}

func nearestNeighborTour(idx *spatial.KDTree, points []geom.Point, start int) []geom.Point {
	var (
		n       = len(points)
		order   = make([]geom.Point, 0, n)
		visited = make(map[int]bool, n)
		cur     = points[start]
		k       int
		next    geom.Point
		found   bool
	)
	order = append(order, cur)
	visited[cur.ID] = true

	for len(order) < n {
		found = false
		for k = initialK; !found; k *= 2 {
			for _, p := range idx.FindKNearest(cur, k) {
				if !visited[p.ID] {
					next, found = p, true
					break
				}
			}
			if k >= n {
				break
			}
		}
		if !found {
			// Duplicate identities make some points unreachable by ID.
			break
		}
		order = append(order, next)
		visited[next.ID] = true
		cur = next
	}

	return order
}

// BestNearestNeighborTour tries the first min(starts, n) points as start
// and returns the shortest tour. starts < 1 is treated as 1.
func BestNearestNeighborTour(points []geom.Point, starts int) ([]geom.Point, error) {
	n := len(points)
	if n == 0 {
		return []geom.Point{}, nil
	}
	if starts < 1 {
		starts = 1
	}
	if starts > n {
		starts = n
	}

	idx := spatial.NewKDTree()
	idx.Build(points)

	var (
		best    []geom.Point
		bestLen float64
		s       int
	)
	for s = 0; s < starts; s++ {
		cand := nearestNeighborTour(idx, points, s)
		if l := tour.Length(cand); best == nil || l < bestLen {
			best, bestLen = cand, l
		}
	}

	return best, nil
}
