package instance_test

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/planar2opt/geom"
	"github.com/katalvlaran/planar2opt/instance"
	"github.com/katalvlaran/planar2opt/tour"
)

// -----------------------------------------------------------------------------
// Generators
// -----------------------------------------------------------------------------

func TestRandom(t *testing.T) {
	a, err := instance.Random(200, 42)
	require.NoError(t, err)
	b, err := instance.Random(200, 42)
	require.NoError(t, err)

	require.Len(t, a, 200)
	assert.Equal(t, a, b, "same seed, same instance")
	for i, p := range a {
		assert.Equal(t, i, p.ID)
		assert.True(t, p.X >= 0 && p.X < 1 && p.Y >= 0 && p.Y < 1)
	}

	empty, err := instance.Random(0, 1)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = instance.Random(-1, 1)
	assert.ErrorIs(t, err, instance.ErrBadSize)
}

func TestClustered(t *testing.T) {
	pts, err := instance.Clustered(500, 5, 7)
	require.NoError(t, err)
	require.Len(t, pts, 500)

	for _, p := range pts {
		assert.True(t, p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1, "clamped: %v", p)
	}

	again, err := instance.Clustered(500, 5, 7)
	require.NoError(t, err)
	assert.Equal(t, pts, again)

	// A single cluster stays within a few sigma of its centre.
	one, err := instance.Clustered(200, 1, 9)
	require.NoError(t, err)
	assert.Less(t, instance.Describe(one).MaxDistance, 0.6)

	_, err = instance.Clustered(10, 0, 1)
	assert.ErrorIs(t, err, instance.ErrBadClusters)
	_, err = instance.Clustered(-3, 2, 1)
	assert.ErrorIs(t, err, instance.ErrBadSize)
}

func TestDescribe(t *testing.T) {
	s := instance.Describe([]geom.Point{{ID: 0}, {ID: 1, X: 3}, {ID: 2, X: 3, Y: 4}})
	assert.Equal(t, 3, s.N)
	assert.InDelta(t, 3.0, s.MinDistance, 1e-12)
	assert.InDelta(t, 5.0, s.MaxDistance, 1e-12)
	assert.InDelta(t, 4.0, s.AvgDistance, 1e-12)

	assert.Zero(t, instance.Describe([]geom.Point{{ID: 0}}).MaxDistance)
}

// -----------------------------------------------------------------------------
// Nearest-neighbour tours
// -----------------------------------------------------------------------------

// bruteNN is the O(n²) greedy reference: strictly closer wins, so the first
// point in input order wins ties.
func bruteNN(pts []geom.Point, start int) []geom.Point {
	visited := make([]bool, len(pts))
	order := []geom.Point{pts[start]}
	visited[start] = true
	cur := start
	for len(order) < len(pts) {
		next, best := -1, math.Inf(1)
		for i := range pts {
			if !visited[i] {
				if d := geom.Distance(pts[cur], pts[i]); d < best {
					next, best = i, d
				}
			}
		}
		visited[next] = true
		order = append(order, pts[next])
		cur = next
	}

	return order
}

func TestNearestNeighborTour_MatchesBruteForce(t *testing.T) {
	pts, err := instance.Random(300, 5)
	require.NoError(t, err)

	for _, start := range []int{0, 17, 299} {
		got, err := instance.NearestNeighborTour(pts, start)
		require.NoError(t, err)
		assert.Equal(t, bruteNN(pts, start), got, "start %d", start)
		assert.True(t, tour.IsValidPermutation(got, pts))
	}
}

func TestNearestNeighborTour_Edges(t *testing.T) {
	got, err := instance.NearestNeighborTour(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	one := []geom.Point{{ID: 4, X: 1, Y: 1}}
	got, err = instance.NearestNeighborTour(one, 0)
	require.NoError(t, err)
	assert.Equal(t, one, got)

	_, err = instance.NearestNeighborTour(one, 1)
	assert.ErrorIs(t, err, instance.ErrStartOutOfRange)
}

func TestBestNearestNeighborTour(t *testing.T) {
	pts, err := instance.Clustered(150, 4, 3)
	require.NoError(t, err)

	best, err := instance.BestNearestNeighborTour(pts, 10)
	require.NoError(t, err)
	require.True(t, tour.IsValidPermutation(best, pts))

	for s := 0; s < 10; s++ {
		cand, err := instance.NearestNeighborTour(pts, s)
		require.NoError(t, err)
		assert.LessOrEqual(t, tour.Length(best), tour.Length(cand)+1e-12)
	}

	// More starts than points, and non-positive starts, are clamped.
	small := pts[:5]
	_, err = instance.BestNearestNeighborTour(small, 50)
	require.NoError(t, err)
	_, err = instance.BestNearestNeighborTour(small, 0)
	require.NoError(t, err)
}

// -----------------------------------------------------------------------------
// OSM loading (XML fixture; PBF shares the same filter path)
// -----------------------------------------------------------------------------

const osmFixture = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="10" lat="0" lon="0" version="1">
    <tag k="amenity" v="cafe"/>
  </node>
  <node id="11" lat="1" lon="1" version="1">
    <tag k="amenity" v="bench"/>
  </node>
  <node id="12" lat="2" lon="2" version="1"/>
  <node id="13" lat="45" lon="90" version="1">
    <tag k="amenity" v="cafe"/>
  </node>
  <way id="100" version="1">
    <nd ref="10"/>
    <nd ref="11"/>
    <tag k="amenity" v="cafe"/>
  </way>
</osm>`

func loadFixture(t *testing.T, opts instance.OSMOptions) ([]geom.Point, error) {
	t.Helper()
	opts.Format = instance.FormatXML

	return instance.LoadOSM(context.Background(), strings.NewReader(osmFixture), opts)
}

func TestLoadOSM_Filters(t *testing.T) {
	all, err := loadFixture(t, instance.OSMOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 4, "ways are ignored")

	tagged, err := loadFixture(t, instance.OSMOptions{Tag: "amenity"})
	require.NoError(t, err)
	assert.Len(t, tagged, 3)

	cafes, err := loadFixture(t, instance.OSMOptions{Tag: "amenity=cafe"})
	require.NoError(t, err)
	require.Len(t, cafes, 2)
	assert.Equal(t, 0, cafes[0].ID)
	assert.Equal(t, 1, cafes[1].ID)

	boxed, err := loadFixture(t, instance.OSMOptions{
		BBox: orb.Bound{Min: orb.Point{-0.5, -0.5}, Max: orb.Point{1.5, 1.5}},
	})
	require.NoError(t, err)
	assert.Len(t, boxed, 2)

	limited, err := loadFixture(t, instance.OSMOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = loadFixture(t, instance.OSMOptions{Tag: "shop"})
	assert.ErrorIs(t, err, instance.ErrNoPoints)
}

func TestLoadOSM_ProjectsToMercator(t *testing.T) {
	cafes, err := loadFixture(t, instance.OSMOptions{Tag: "amenity=cafe"})
	require.NoError(t, err)

	assert.InDelta(t, 0.0, cafes[0].X, 1e-6)
	assert.InDelta(t, 0.0, cafes[0].Y, 1e-6)

	// lon 90° is a quarter of the equator circumference east.
	assert.InDelta(t, 20037508.342789244/2, cafes[1].X, 1)
	assert.Greater(t, cafes[1].Y, 5e6)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, instance.FormatXML, instance.FormatFromPath("city.OSM"))
	assert.Equal(t, instance.FormatPBF, instance.FormatFromPath("city.osm.pbf"))
}
