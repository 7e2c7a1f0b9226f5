// Package bench runs several 2-opt strategies on the same starting tour and
// collects their statistics for comparison.
//
// Every strategy receives its own copy of the tour and its own RNG stream
// derived from Options.Seed, so results do not depend on run order. Runs
// are sequential; the context is checked between runs only.
//
// Each run is wrapped in an OpenTelemetry span carrying its statistics as
// attributes. Without an installed TracerProvider the spans are no-ops.
package bench

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/planar2opt/activation"
	"github.com/katalvlaran/planar2opt/geom"
	"github.com/katalvlaran/planar2opt/tour"
	"github.com/katalvlaran/planar2opt/twoopt"
)

const tracerName = "planar2opt/bench"

// ErrNoStrategies is returned by Compare for an empty strategy list.
var ErrNoStrategies = errors.New("bench: no strategies to compare")

// Entry is the outcome of one strategy.
type Entry struct {
	Strategy twoopt.Strategy
	Result   twoopt.Result
}

// Report is the outcome of a comparison.
type Report struct {
	RunID         string
	Points        int
	InitialLength float64
	Entries       []Entry
}

// Best returns the entry with the shortest final tour; ties keep the
// earlier entry.
func (r Report) Best() Entry {
	return r.pick(func(a, b Entry) bool {
		return a.Result.Stats.FinalLength < b.Result.Stats.FinalLength
	})
}

// Fastest returns the entry with the smallest elapsed time.
func (r Report) Fastest() Entry {
	return r.pick(func(a, b Entry) bool {
		return a.Result.Stats.Elapsed < b.Result.Stats.Elapsed
	})
}

// MostMoves returns the entry with the most accepted moves.
func (r Report) MostMoves() Entry {
	return r.pick(func(a, b Entry) bool {
		return a.Result.Stats.AcceptedMoves > b.Result.Stats.AcceptedMoves
	})
}

// Lookup returns the entry of strategy s, if it was run.
func (r Report) Lookup(s twoopt.Strategy) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Strategy == s {
			return e, true
		}
	}

	return Entry{}, false
}

// pick returns the first entry no other entry beats under better.
func (r Report) pick(better func(a, b Entry) bool) Entry {
	if len(r.Entries) == 0 {
		return Entry{}
	}
	best := r.Entries[0]
	for _, e := range r.Entries[1:] {
		if better(e, best) {
			best = e
		}
	}

	return best
}

// Compare runs each strategy on its own copy of initial.
//
// Errors: ErrNoStrategies, the context error if ctx is done before a run,
// or the first twoopt.Run error (wrapped with the strategy name).
func Compare(ctx context.Context, initial []geom.Point, strategies []twoopt.Strategy, opts twoopt.Options) (Report, error) {
	if len(strategies) == 0 {
		return Report{}, ErrNoStrategies
	}

	rep := Report{
		RunID:         uuid.NewString(),
		Points:        len(initial),
		InitialLength: tour.Length(initial),
		Entries:       make([]Entry, 0, len(strategies)),
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "bench.Compare",
		trace.WithAttributes(
			attribute.String("run.id", rep.RunID),
			attribute.Int("points", rep.Points),
			attribute.Float64("initial_length", rep.InitialLength),
		),
	)
	defer span.End()

	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "canceled")

			return rep, err
		}

		o := opts
		o.Rand = activation.NewRand(activation.DeriveSeed(opts.Seed, uint64(s)))
		res, err := runOne(ctx, s, initial, o)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "strategy failed")

			return rep, fmt.Errorf("bench: %s: %w", s, err)
		}
		rep.Entries = append(rep.Entries, Entry{Strategy: s, Result: res})
	}

	best := rep.Best()
	span.SetAttributes(
		attribute.String("best.strategy", best.Strategy.String()),
		attribute.Float64("best.final_length", best.Result.Stats.FinalLength),
	)

	return rep, nil
}

// runOne executes a single strategy inside its own span.
func runOne(ctx context.Context, s twoopt.Strategy, initial []geom.Point, o twoopt.Options) (twoopt.Result, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "twoopt.Run",
		trace.WithAttributes(attribute.String("strategy", s.String())),
	)
	defer span.End()

	res, err := twoopt.RunWithOptions(s, initial, o)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return res, err
	}

	st := res.Stats
	span.SetAttributes(
		attribute.String("termination", st.Termination.String()),
		attribute.Float64("final_length", st.FinalLength),
		attribute.Float64("improvement", st.Improvement()),
		attribute.Int("accepted_moves", st.AcceptedMoves),
		attribute.Int("iterations", st.Iterations),
		attribute.Int64("comparisons", st.Comparisons),
		attribute.Int("index_nodes_visited", st.IndexNodesVisited),
		attribute.Int("active_nodes", st.ActiveNodes),
		attribute.Int64("elapsed_ns", st.Elapsed.Nanoseconds()),
	)

	return res, nil
}
