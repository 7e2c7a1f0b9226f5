package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/planar2opt/twoopt"
)

func smallConfig(dir string) runConfig {
	return runConfig{
		Points:     40,
		Seed:       7,
		Instance:   "random",
		Clusters:   5,
		Starts:     3,
		Strategies: []string{"exhaustive", "index", "activation", "hybrid"},
		Index:      "kdtree",
		MaxIters:   1000,
		Out:        filepath.Join(dir, "tsp_results.txt"),
		GeoJSON:    filepath.Join(dir, "tour.geojson"),
		Metrics:    filepath.Join(dir, "planar2opt.prom"),
	}
}

func TestRunBenchmark(t *testing.T) {
	dir := t.TempDir()
	c := smallConfig(dir)
	c.Verify = true

	var buf bytes.Buffer
	require.NoError(t, runBenchmark(context.Background(), &buf, c))
	out := buf.String()

	assert.Contains(t, out, "PLANAR 2-OPT")
	assert.Contains(t, out, "- Points: 40")
	assert.Contains(t, out, "#best_algorithm:")
	assert.Contains(t, out, "#fastest_algorithm:")
	assert.Contains(t, out, "#verify:")

	assert.FileExists(t, c.Out)
	assert.FileExists(t, c.GeoJSON)
	assert.FileExists(t, c.Metrics)
}

func TestRunBenchmark_ClusteredRTree(t *testing.T) {
	dir := t.TempDir()
	c := smallConfig(dir)
	c.Instance = "clustered"
	c.Index = "rtree"
	c.Strategies = []string{"hybrid"}
	c.GeoJSON, c.Metrics = "", ""

	var buf bytes.Buffer
	require.NoError(t, runBenchmark(context.Background(), &buf, c))
	assert.Contains(t, buf.String(), "Hybrid (FRNN + activation)")

	data, err := os.ReadFile(c.Out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Strategy: Hybrid (FRNN + activation)")
}

func TestRunBenchmark_Errors(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer

	c := smallConfig(dir)
	c.Strategies = []string{"simulated-annealing"}
	assert.ErrorIs(t, runBenchmark(context.Background(), &buf, c), twoopt.ErrUnknownStrategy)

	c = smallConfig(dir)
	c.Index = "quadtree"
	assert.Error(t, runBenchmark(context.Background(), &buf, c))

	c = smallConfig(dir)
	c.Instance = "osm"
	assert.Error(t, runBenchmark(context.Background(), &buf, c), "osm without a file")

	c = smallConfig(dir)
	c.Instance = "grid"
	assert.Error(t, runBenchmark(context.Background(), &buf, c))

	c = smallConfig(dir)
	c.MaxIters = 0
	assert.ErrorIs(t, runBenchmark(context.Background(), &buf, c), twoopt.ErrBadOption)
}

func TestRunBenchmark_OSM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stops.osm")
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6">
  <node id="1" lat="50.00" lon="30.00"><tag k="amenity" v="cafe"/></node>
  <node id="2" lat="50.01" lon="30.00"><tag k="amenity" v="cafe"/></node>
  <node id="3" lat="50.01" lon="30.01"><tag k="amenity" v="cafe"/></node>
  <node id="4" lat="50.00" lon="30.01"><tag k="amenity" v="cafe"/></node>
  <node id="5" lat="50.02" lon="30.02"/>
</osm>`
	require.NoError(t, os.WriteFile(path, []byte(xml), 0o644))

	c := smallConfig(dir)
	c.Instance = "osm"
	c.OSMFile = path
	c.OSMTag = "amenity=cafe"
	c.Strategies = []string{"exhaustive"}

	var buf bytes.Buffer
	require.NoError(t, runBenchmark(context.Background(), &buf, c))
	assert.Contains(t, buf.String(), "- Points: 4")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "planar2opt version "+version+"\n", buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("Debug").String())
	assert.Equal(t, "WARN", parseLevel("warn").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "INFO", parseLevel("bogus").String())
}
