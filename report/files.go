package report

import (
	"bytes"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/planar2opt/bench"
	"github.com/katalvlaran/planar2opt/geom"
	"github.com/katalvlaran/planar2opt/tour"
)

// writeAtomic writes data to a sibling temp file and renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("report: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("report: rename %s: %w", path, err)
	}

	return nil
}

// WriteResults saves the best tour of rep as a text listing:
//
//	TSP Optimization Results
//	Run ID: <uuid>
//	Strategy: <label>
//	Points: <n>
//	Best Tour Length: <length>
//
//	Best Tour Sequence:
//	<pos>: (<x>, <y>) ID:<id>
func WriteResults(path string, rep bench.Report) error {
	best := rep.Best()
	order := best.Result.Tour

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "TSP Optimization Results")
	fmt.Fprintf(&buf, "Run ID: %s\n", rep.RunID)
	fmt.Fprintf(&buf, "Strategy: %s\n", best.Strategy.Label())
	fmt.Fprintf(&buf, "Points: %d\n", rep.Points)
	fmt.Fprintf(&buf, "Best Tour Length: %.6f\n", tour.Length(order))
	fmt.Fprintln(&buf, "\nBest Tour Sequence:")
	for i, p := range order {
		fmt.Fprintf(&buf, "%d: (%.6f, %.6f) ID:%d\n", i, p.X, p.Y, p.ID)
	}

	return writeAtomic(path, buf.Bytes())
}

// closedLine returns the tour as a closed LineString.
func closedLine(order []geom.Point) orb.LineString {
	ls := make(orb.LineString, 0, len(order)+1)
	for _, p := range order {
		ls = append(ls, p.Orb())
	}
	if len(order) > 0 {
		ls = append(ls, order[0].Orb())
	}

	return ls
}

// WriteGeoJSON saves the best tour of rep as a FeatureCollection holding one
// closed LineString with the run statistics as properties, followed by one
// Point feature per stop.
func WriteGeoJSON(path string, rep bench.Report) error {
	best := rep.Best()
	st := best.Result.Stats

	fc := geojson.NewFeatureCollection()
	line := geojson.NewFeature(closedLine(best.Result.Tour))
	line.Properties["run_id"] = rep.RunID
	line.Properties["strategy"] = best.Strategy.String()
	line.Properties["termination"] = st.Termination.String()
	line.Properties["initial_length"] = st.InitialLength
	line.Properties["final_length"] = st.FinalLength
	line.Properties["accepted_moves"] = st.AcceptedMoves
	line.Properties["iterations"] = st.Iterations
	fc.Append(line)

	for i, p := range best.Result.Tour {
		f := geojson.NewFeature(p.Orb())
		f.ID = p.ID
		f.Properties["position"] = i
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("report: encode geojson: %w", err)
	}

	return writeAtomic(path, data)
}

// WriteMetrics exports per-strategy gauges in the Prometheus textfile format
// (for node_exporter's textfile collector). A private registry is used so
// the output holds only these series.
func WriteMetrics(path string, rep bench.Report) error {
	reg := prometheus.NewRegistry()
	gauge := func(name, help string) *prometheus.GaugeVec {
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "planar2opt",
			Name:      name,
			Help:      help,
		}, []string{"strategy"})
		reg.MustRegister(g)

		return g
	}

	var (
		initial     = gauge("initial_length", "Tour length before local search.")
		final       = gauge("final_length", "Tour length after local search.")
		improvement = gauge("improvement_ratio", "Relative length reduction.")
		moves       = gauge("accepted_moves", "Accepted 2-opt moves.")
		iterations  = gauge("iterations", "Search iterations.")
		comparisons = gauge("comparisons", "Gain evaluations.")
		visited     = gauge("index_nodes_visited", "Spatial index nodes visited.")
		elapsed     = gauge("elapsed_seconds", "Wall-clock run time.")
	)
	for _, e := range rep.Entries {
		s, st := e.Strategy.String(), e.Result.Stats
		initial.WithLabelValues(s).Set(st.InitialLength)
		final.WithLabelValues(s).Set(st.FinalLength)
		improvement.WithLabelValues(s).Set(st.Improvement())
		moves.WithLabelValues(s).Set(float64(st.AcceptedMoves))
		iterations.WithLabelValues(s).Set(float64(st.Iterations))
		comparisons.WithLabelValues(s).Set(float64(st.Comparisons))
		visited.WithLabelValues(s).Set(float64(st.IndexNodesVisited))
		elapsed.WithLabelValues(s).Set(st.Elapsed.Seconds())
	}

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("report: write metrics: %w", err)
	}

	return nil
}
