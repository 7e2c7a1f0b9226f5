package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/planar2opt/bench"
	"github.com/katalvlaran/planar2opt/geom"
	"github.com/katalvlaran/planar2opt/instance"
	"github.com/katalvlaran/planar2opt/report"
	"github.com/katalvlaran/planar2opt/twoopt"
)

// fixture is a hand-built report: the unit square solved by two strategies.
func fixture() bench.Report {
	square := []geom.Point{
		{ID: 0, X: 0, Y: 0},
		{ID: 2, X: 1, Y: 0},
		{ID: 1, X: 1, Y: 1},
		{ID: 3, X: 0, Y: 1},
	}
	entry := func(s twoopt.Strategy, final float64, cmp int64, elapsed time.Duration) bench.Entry {
		return bench.Entry{Strategy: s, Result: twoopt.Result{
			Tour: square,
			Stats: twoopt.Stats{
				Strategy:      s,
				InitialLength: 5,
				FinalLength:   final,
				AcceptedMoves: 2,
				Iterations:    3,
				Comparisons:   cmp,
				Elapsed:       elapsed,
			},
		}}
	}

	return bench.Report{
		RunID:         "0b6b0f5e-5c56-4b43-9d0e-4f3a1c3e9a11",
		Points:        4,
		InitialLength: 5,
		Entries: []bench.Entry{
			entry(twoopt.Exhaustive, 4, 100, 2*time.Second),
			entry(twoopt.IndexPruned, 4.5, 25, time.Second),
		},
	}
}

// -----------------------------------------------------------------------------
// Text output
// -----------------------------------------------------------------------------

func TestWriteComparison(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteComparison(&buf, fixture()))
	out := buf.String()

	assert.Contains(t, out, "ALGORITHM")
	assert.Contains(t, out, "Exhaustive 2-opt")
	assert.Contains(t, out, "Index-pruned (FRNN)")
	assert.Contains(t, out, "20.00%")
	assert.Contains(t, out, "#best_algorithm: Exhaustive 2-opt (length: 4.000000)")
}

func TestWriteEfficiency(t *testing.T) {
	var buf bytes.Buffer
	report.WriteEfficiency(&buf, fixture())
	out := buf.String()

	assert.Contains(t, out, "#fastest_algorithm: Index-pruned (FRNN)")
	assert.Contains(t, out, "#index_speedup: 2.00x")
	assert.Contains(t, out, "#comparison_reduction_index: 75.0%")
	assert.NotContains(t, out, "activation")

	buf.Reset()
	report.WriteEfficiency(&buf, bench.Report{})
	assert.Empty(t, buf.String())
}

func TestWriteDetailedStats(t *testing.T) {
	var buf bytes.Buffer
	report.WriteDetailedStats(&buf, twoopt.Stats{Strategy: twoopt.Hybrid, ActiveNodes: 7})
	out := buf.String()

	assert.Contains(t, out, "#stat Hybrid (FRNN + activation) results:")
	assert.Contains(t, out, "#stat Improvement: 0.00%", "zero initial length reports zero improvement")
	assert.Contains(t, out, "#stat Active nodes: 7")
	assert.Contains(t, out, "#stat Moves per second: 0.00")
}

func TestWriteInstanceInfoAndSeparator(t *testing.T) {
	var buf bytes.Buffer
	report.Separator(&buf, "RESULTS")
	report.WriteInstanceInfo(&buf, instance.Summary{N: 3, MinDistance: 1, MaxDistance: 2, AvgDistance: 1.5}, 4.2)
	out := buf.String()

	assert.Contains(t, out, strings.Repeat("=", 70))
	assert.Contains(t, out, "RESULTS")
	assert.Contains(t, out, "- Points: 3")
	assert.Contains(t, out, "- Initial length (nearest neighbour): 4.200000")
}

// -----------------------------------------------------------------------------
// Files
// -----------------------------------------------------------------------------

func TestWriteResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsp_results.txt")
	require.NoError(t, report.WriteResults(path, fixture()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "TSP Optimization Results\n"))
	assert.Contains(t, out, "Points: 4\n")
	assert.Contains(t, out, "Best Tour Length: 4.000000\n")
	assert.Contains(t, out, "1: (1.000000, 0.000000) ID:2\n")
	assert.NoFileExists(t, path+".tmp")
}

func TestWriteResults_BadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.txt")
	assert.Error(t, report.WriteResults(path, fixture()))
}

func TestWriteGeoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tour.geojson")
	require.NoError(t, report.WriteGeoJSON(path, fixture()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 5)

	line, ok := fc.Features[0].Geometry.(orb.LineString)
	require.True(t, ok)
	require.Len(t, line, 5)
	assert.Equal(t, line[0], line[4], "ring is closed")
	assert.Equal(t, "exhaustive", fc.Features[0].Properties["strategy"])
	assert.InDelta(t, 4.0, fc.Features[0].Properties["final_length"], 1e-12)

	pt, ok := fc.Features[2].Geometry.(orb.Point)
	require.True(t, ok)
	assert.Equal(t, orb.Point{1, 0}, pt)
}

func TestWriteMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planar2opt.prom")
	require.NoError(t, report.WriteMetrics(path, fixture()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "# TYPE planar2opt_final_length gauge")
	assert.Contains(t, out, `planar2opt_final_length{strategy="exhaustive"} 4`)
	assert.Contains(t, out, `planar2opt_final_length{strategy="index"} 4.5`)
	assert.Contains(t, out, `planar2opt_comparisons{strategy="index"} 25`)
	assert.Contains(t, out, `planar2opt_improvement_ratio{strategy="exhaustive"} 0.2`)
}
