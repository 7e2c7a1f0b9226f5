package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/planar2opt/bench"
	"github.com/katalvlaran/planar2opt/geom"
	"github.com/katalvlaran/planar2opt/instance"
	"github.com/katalvlaran/planar2opt/report"
	"github.com/katalvlaran/planar2opt/spatial"
	"github.com/katalvlaran/planar2opt/tour"
	"github.com/katalvlaran/planar2opt/twoopt"
)

// describeLimit caps the O(n²) pairwise summary.
const describeLimit = 5000

var errInvalidInitialTour = errors.New("initial tour is not a permutation of the instance")

// runConfig holds the flags of the run command.
type runConfig struct {
	Points     int
	Seed       int64
	Instance   string
	OSMFile    string
	OSMTag     string
	OSMLimit   int
	Clusters   int
	Starts     int
	Strategies []string
	Index      string
	MaxIters   int
	Out        string
	GeoJSON    string
	Metrics    string
	Verify     bool
}

var cfg runConfig

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate an instance and compare 2-opt strategies",
	Long: `Builds an instance (random, clustered or OSM nodes), constructs the best
nearest-neighbour tour, improves it with each selected strategy on its own
copy, prints the comparison and saves the best tour.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBenchmark(cmd.Context(), cmd.OutOrStdout(), cfg)
	},
}

func init() {
	f := runCmd.Flags()
	f.IntVar(&cfg.Points, "points", 100, "Number of points (random/clustered)")
	f.Int64Var(&cfg.Seed, "seed", 42, "Random seed for instance and relaxation")
	f.StringVar(&cfg.Instance, "instance", "random", "Instance type: random, clustered, osm")
	f.StringVar(&cfg.OSMFile, "osm-file", "", "OSM extract (.osm.pbf or .osm) for --instance osm")
	f.StringVar(&cfg.OSMTag, "osm-tag", "", "Keep nodes with this tag (key or key=value)")
	f.IntVar(&cfg.OSMLimit, "osm-limit", 0, "Stop after this many OSM nodes (0 = all)")
	f.IntVar(&cfg.Clusters, "clusters", 5, "Cluster count for --instance clustered")
	f.IntVar(&cfg.Starts, "starts", 10, "Nearest-neighbour start points to try")
	f.StringSliceVar(&cfg.Strategies, "strategies", []string{"exhaustive", "index", "activation", "hybrid"},
		"Strategies to compare")
	f.StringVar(&cfg.Index, "index", "kdtree", "Spatial index: kdtree, rtree")
	f.IntVar(&cfg.MaxIters, "max-iters", 1000, "Iteration ceiling per strategy")
	f.StringVar(&cfg.Out, "out", "tsp_results.txt", "Results file (empty to skip)")
	f.StringVar(&cfg.GeoJSON, "geojson", "", "Write the best tour as GeoJSON to this path")
	f.StringVar(&cfg.Metrics, "metrics", "", "Write Prometheus textfile metrics to this path")
	f.BoolVar(&cfg.Verify, "verify", false, "Report improving moves left in the best tour")

	rootCmd.AddCommand(runCmd)
}

// loadPoints builds the instance selected by c.
func loadPoints(ctx context.Context, c runConfig) ([]geom.Point, error) {
	switch c.Instance {
	case "random":
		return instance.Random(c.Points, c.Seed)
	case "clustered":
		return instance.Clustered(c.Points, c.Clusters, c.Seed)
	case "osm":
		if c.OSMFile == "" {
			return nil, errors.New("--osm-file is required for --instance osm")
		}
		f, err := os.Open(c.OSMFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open osm file: %w", err)
		}
		defer f.Close()

		return instance.LoadOSM(ctx, f, instance.OSMOptions{
			Format: instance.FormatFromPath(c.OSMFile),
			Tag:    c.OSMTag,
			Limit:  c.OSMLimit,
		})
	default:
		return nil, fmt.Errorf("unknown instance type %q", c.Instance)
	}
}

// parseStrategies resolves strategy names, keeping order.
func parseStrategies(names []string) ([]twoopt.Strategy, error) {
	out := make([]twoopt.Strategy, 0, len(names))
	for _, name := range names {
		s, err := twoopt.ParseStrategy(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, name)
		}
		out = append(out, s)
	}

	return out, nil
}

func runBenchmark(ctx context.Context, w io.Writer, c runConfig) error {
	strategies, err := parseStrategies(c.Strategies)
	if err != nil {
		return err
	}
	kind, err := spatial.ParseKind(c.Index)
	if err != nil {
		return fmt.Errorf("%w: %q", err, c.Index)
	}

	slog.Info("Generating instance", "type", c.Instance, "points", c.Points, "seed", c.Seed)
	points, err := loadPoints(ctx, c)
	if err != nil {
		return err
	}

	initial, err := instance.BestNearestNeighborTour(points, c.Starts)
	if err != nil {
		return fmt.Errorf("failed to build initial tour: %w", err)
	}
	if !tour.IsValidPermutation(initial, points) {
		return errInvalidInitialTour
	}

	report.Separator(w, "PLANAR 2-OPT")
	summary := instance.Summary{N: len(points)}
	if len(points) <= describeLimit {
		summary = instance.Describe(points)
	}
	report.WriteInstanceInfo(w, summary, tour.Length(initial))

	opts := twoopt.DefaultOptions()
	opts.MaxIterations = c.MaxIters
	opts.IndexKind = kind
	opts.Seed = c.Seed
	opts.Logger = slog.Default()

	rep, err := bench.Compare(ctx, initial, strategies, opts)
	if err != nil {
		return err
	}
	slog.Info("Comparison finished", "run_id", rep.RunID, "strategies", len(rep.Entries))

	for _, e := range rep.Entries {
		report.Separator(w, e.Strategy.Label())
		report.WriteDetailedStats(w, e.Result.Stats)
	}
	report.Separator(w, "COMPARISON")
	if err := report.WriteComparison(w, rep); err != nil {
		return err
	}
	report.Separator(w, "EFFICIENCY")
	report.WriteEfficiency(w, rep)

	if c.Verify {
		best, err := tour.New(rep.Best().Result.Tour)
		if err != nil {
			return err
		}
		left := tour.Improvements(best, opts.MinImprovement)
		fmt.Fprintf(w, "#verify: %d improving 2-opt moves left in the best tour\n", len(left))
	}

	return saveOutputs(rep, c)
}

func saveOutputs(rep bench.Report, c runConfig) error {
	if c.Out != "" {
		if err := report.WriteResults(c.Out, rep); err != nil {
			return err
		}
		slog.Info("Results saved", "path", c.Out)
	}
	if c.GeoJSON != "" {
		if err := report.WriteGeoJSON(c.GeoJSON, rep); err != nil {
			return err
		}
		slog.Info("GeoJSON saved", "path", c.GeoJSON)
	}
	if c.Metrics != "" {
		if err := report.WriteMetrics(c.Metrics, rep); err != nil {
			return err
		}
		slog.Info("Metrics saved", "path", c.Metrics)
	}

	return nil
}
