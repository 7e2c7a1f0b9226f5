package spatial

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/planar2opt/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkPartition walks the arena and asserts the kd ordering invariant:
// left subtree coords ≤ node coord ≤ right subtree coords on the node's axis.
func checkPartition(t *testing.T, tr *KDTree, idx int32) {
	t.Helper()
	if idx == nilNode {
		return
	}
	nd := tr.nodes[idx]
	axis := nd.depth & 1
	split := nd.point.Coord(axis)

	var walk func(i int32, fn func(p geom.Point))
	walk = func(i int32, fn func(p geom.Point)) {
		if i == nilNode {
			return
		}
		fn(tr.nodes[i].point)
		walk(tr.nodes[i].left, fn)
		walk(tr.nodes[i].right, fn)
	}
	walk(nd.left, func(p geom.Point) {
		assert.LessOrEqual(t, p.Coord(axis), split)
	})
	walk(nd.right, func(p geom.Point) {
		assert.GreaterOrEqual(t, p.Coord(axis), split)
	})

	checkPartition(t, tr, nd.left)
	checkPartition(t, tr, nd.right)
}

func TestKDTree_BalancedAndPartitioned(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	pts := make([]geom.Point, 1000)
	for i := range pts {
		pts[i] = geom.Point{ID: i, X: r.Float64(), Y: r.Float64()}
	}

	tr := NewKDTree()
	tr.Build(pts)

	require.Equal(t, 1000, tr.Len())
	assert.Equal(t, int(math.Ceil(math.Log2(1001))), tr.Height())
	checkPartition(t, tr, tr.root)
}

func TestKDTree_ZeroValueIsEmpty(t *testing.T) {
	var tr KDTree

	assert.Equal(t, geom.Point{}, tr.FindNearest(geom.Point{X: 1}))
	assert.Nil(t, tr.FindNeighbors(geom.Point{}, 1))
	assert.Nil(t, tr.FindKNearest(geom.Point{}, 1))
	assert.Zero(t, tr.Height())
}

func TestSelectNth(t *testing.T) {
	cases := []struct {
		name string
		xs   []float64
	}{
		{"sorted", []float64{1, 2, 3, 4, 5, 6, 7}},
		{"reversed", []float64{7, 6, 5, 4, 3, 2, 1}},
		{"duplicates", []float64{2, 2, 2, 1, 1, 3, 3, 2}},
		{"single", []float64{4}},
		{"pair", []float64{9, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pts := make([]geom.Point, len(tc.xs))
			for i, x := range tc.xs {
				pts[i] = geom.Point{ID: i, X: x}
			}
			k := len(pts) / 2
			selectNth(pts, k, 0)
			for i := 0; i < k; i++ {
				assert.LessOrEqual(t, pts[i].X, pts[k].X)
			}
			for i := k + 1; i < len(pts); i++ {
				assert.GreaterOrEqual(t, pts[i].X, pts[k].X)
			}
		})
	}
}

func TestMedianOfThree(t *testing.T) {
	mk := func(a, b, c float64) []geom.Point {
		return []geom.Point{{Y: a}, {Y: b}, {Y: c}}
	}
	assert.Equal(t, 2.0, medianOfThree(mk(1, 2, 3), 0, 2, 1))
	assert.Equal(t, 2.0, medianOfThree(mk(3, 2, 1), 0, 2, 1))
	assert.Equal(t, 2.0, medianOfThree(mk(2, 3, 1), 0, 2, 1))
	assert.Equal(t, 2.0, medianOfThree(mk(1, 3, 2), 0, 2, 1))
	assert.Equal(t, 5.0, medianOfThree(mk(5, 5, 5), 0, 2, 1))
}
