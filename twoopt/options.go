package twoopt

import (
	"log/slog"
	"math/rand"

	"github.com/katalvlaran/planar2opt/spatial"
)

// Options configures a run. Start from DefaultOptions and adjust fields or
// pass functional Options to Run.
//
// Index-pruned radius policy:
//
//	r = max(RadiusFactor · avg(edge(i−1,i), edge(i,i+1)), MinRadius)
//	if |FRNN(r)| < MinNeighbors: r ·= RadiusWiden, query once more.
//
// Hybrid radius policy:
//
//	r = max(HybridRadiusFactor · edge(i,i+1), HybridMinRadius)
//	adaptive FRNN until HybridMinNeighbors or the index's MaxRadius.
type Options struct {
	MaxIterations  int     // iteration ceiling, > 0
	MinImprovement float64 // commit threshold on gain, ≥ 0

	RadiusFactor float64 // index-pruned
	MinRadius    float64
	MinNeighbors int
	RadiusWiden  float64
	RebuildEvery int // accepted moves between index rebuilds

	ActivationRadius int // activation-pruned focus window (±positions)
	RelaxBatch       int // positions activated per stall

	HybridRadiusFactor     float64
	HybridMinRadius        float64
	HybridMinNeighbors     int
	HybridActivationRadius int
	HybridRelaxBatch       int // effective batch is max(HybridRelaxBatch, n/4)
	HybridRebuildEvery     int

	IndexKind spatial.Kind

	Seed int64      // seeds Rand when Rand is nil
	Rand *rand.Rand // relaxation randomness; not shared across runs

	Logger        *slog.Logger // progress at Debug; nil discards
	ProgressEvery int          // iterations between progress lines, 0 disables
}

// DefaultOptions returns the tuned defaults.
func DefaultOptions() Options {
	return Options{
		MaxIterations:  1000,
		MinImprovement: 1e-9,

		RadiusFactor: 3,
		MinRadius:    0.1,
		MinNeighbors: 5,
		RadiusWiden:  2,
		RebuildEvery: 25,

		ActivationRadius: 2,
		RelaxBatch:       10,

		HybridRadiusFactor:     4,
		HybridMinRadius:        0.15,
		HybridMinNeighbors:     8,
		HybridActivationRadius: 4,
		HybridRelaxBatch:       15,
		HybridRebuildEvery:     30,

		IndexKind: spatial.KDTreeKind,
		Seed:      42,

		ProgressEvery: 100,
	}
}

// Option mutates Options.
type Option func(*Options)

// WithMaxIterations sets the iteration ceiling.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithMinImprovement sets the commit threshold.
func WithMinImprovement(eps float64) Option {
	return func(o *Options) { o.MinImprovement = eps }
}

// WithIndexKind selects the spatial index backend.
func WithIndexKind(k spatial.Kind) Option {
	return func(o *Options) { o.IndexKind = k }
}

// WithSeed seeds the relaxation RNG. Ignored when WithRand is also given.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithRand supplies the relaxation RNG directly.
func WithRand(r *rand.Rand) Option {
	return func(o *Options) { o.Rand = r }
}

// WithLogger enables progress logging at Debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithProgressEvery sets the progress logging period in iterations.
func WithProgressEvery(n int) Option {
	return func(o *Options) { o.ProgressEvery = n }
}

// WithRebuildEvery sets the rebuild period of both index-backed strategies.
func WithRebuildEvery(n int) Option {
	return func(o *Options) {
		o.RebuildEvery = n
		o.HybridRebuildEvery = n
	}
}

// WithActivation sets the focus radius and relaxation batch of the
// activation-pruned strategy.
func WithActivation(radius, batch int) Option {
	return func(o *Options) {
		o.ActivationRadius = radius
		o.RelaxBatch = batch
	}
}
