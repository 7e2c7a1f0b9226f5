package geom_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/planar2opt/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	a := geom.Point{ID: 0, X: 0, Y: 0}
	b := geom.Point{ID: 1, X: 3, Y: 4}

	assert.InDelta(t, 5.0, geom.Distance(a, b), 1e-12)
	assert.InDelta(t, 25.0, geom.DistanceSquared(a, b), 1e-12)
	assert.Equal(t, geom.Distance(a, b), geom.Distance(b, a), "distance must be symmetric")
	assert.Zero(t, geom.Distance(a, a))
}

func TestCoord(t *testing.T) {
	p := geom.Point{ID: 7, X: 1.5, Y: -2}

	assert.Equal(t, 1.5, p.Coord(0))
	assert.Equal(t, -2.0, p.Coord(1))
	assert.Equal(t, "#7(1.500000, -2.000000)", p.String())
	assert.Equal(t, 1.5, p.Orb().X())
	assert.Equal(t, -2.0, p.Orb().Y())
}

func TestBoundsOf(t *testing.T) {
	_, ok := geom.BoundsOf(nil)
	assert.False(t, ok, "empty input has no bounds")

	b, ok := geom.BoundsOf([]geom.Point{{X: 1, Y: 2}, {X: -1, Y: 5}, {X: 3, Y: 0}})
	require.True(t, ok)
	assert.Equal(t, geom.Bounds{MinX: -1, MinY: 0, MaxX: 3, MaxY: 5}, b)
	assert.InDelta(t, math.Hypot(4, 5), b.Diagonal(), 1e-12)
}
