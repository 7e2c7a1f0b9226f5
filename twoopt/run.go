package twoopt

import (
	"io"
	"log/slog"
	"time"

	"github.com/katalvlaran/planar2opt/activation"
	"github.com/katalvlaran/planar2opt/geom"
	"github.com/katalvlaran/planar2opt/spatial"
	"github.com/katalvlaran/planar2opt/tour"
)

// driver is one candidate-generation strategy plugged into the shared loop.
type driver interface {
	// scan returns the best move with gain above MinImprovement, if any.
	scan() (tour.Move, bool)
	// accepted runs after the move has been applied.
	accepted(m tour.Move)
	// stalled runs when scan found nothing; false means converged.
	stalled() bool
}

// search is the per-run state shared by all drivers. It owns the tour, the
// spatial index and the activation tracker exclusively.
type search struct {
	t     *tour.Tour
	o     *Options
	stats *Stats

	idx          spatial.Index       // nil for strategies without an index
	act          *activation.Tracker // nil for strategies without activation
	rebuildEvery int
	sinceRebuild int
}

// Run improves initial with the given strategy and returns the final tour
// and statistics. initial is not modified.
//
// Errors: ErrUnknownStrategy, ErrBadOption (wrapped), ErrNonFinitePoint,
// tour.ErrDuplicateID, spatial.ErrUnknownKind, ErrCorruptTour.
func Run(s Strategy, initial []geom.Point, opts ...Option) (Result, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return RunWithOptions(s, initial, o)
}

// RunWithOptions is Run with a fully populated Options value.
func RunWithOptions(s Strategy, initial []geom.Point, o Options) (Result, error) {
	if !s.valid() {
		return Result{}, ErrUnknownStrategy
	}
	if err := validateOptions(&o); err != nil {
		return Result{}, err
	}
	if err := validatePoints(initial); err != nil {
		return Result{}, err
	}
	t, err := tour.New(initial)
	if err != nil {
		return Result{}, err
	}
	if o.Rand == nil {
		o.Rand = activation.NewRand(o.Seed)
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil)) // Go 1.21 equivalent of slog.DiscardHandler
	}

	start := time.Now()
	stats := Stats{
		Strategy:      s,
		Termination:   Converged,
		InitialLength: t.Length(),
		ActiveNodes:   t.Len(),
	}

	// Fewer than four points admit no valid move.
	if t.Len() >= 4 {
		sr := &search{t: t, o: &o, stats: &stats}
		d, err := sr.driverFor(s)
		if err != nil {
			return Result{}, err
		}
		err = sr.loop(d, logger)
		sr.finish()
		if err != nil {
			return Result{}, err
		}
	}

	stats.FinalLength = t.Length()
	stats.Elapsed = time.Since(start)
	if !t.IsValidPermutation(initial) {
		return Result{}, ErrCorruptTour
	}

	return Result{Tour: t.Points(), Stats: stats}, nil
}

// loop is the shared Scanning → Committing state machine.
func (sr *search) loop(d driver, logger *slog.Logger) error {
	var (
		m       tour.Move
		ok      bool
		current = sr.stats.InitialLength
	)
	for {
		if sr.stats.Iterations >= sr.o.MaxIterations {
			sr.stats.Termination = Exhausted

			return nil
		}
		sr.stats.Iterations++

		if m, ok = d.scan(); ok {
			if err := tour.ApplyMove(sr.t, m.I, m.J); err != nil {
				return err
			}
			current -= m.Gain
			sr.stats.AcceptedMoves++
			d.accepted(m)
		} else if !d.stalled() {
			sr.stats.Termination = Converged

			return nil
		}

		if sr.o.ProgressEvery > 0 && sr.stats.Iterations%sr.o.ProgressEvery == 0 {
			logger.Debug("2-opt progress",
				"strategy", sr.stats.Strategy.String(),
				"iteration", sr.stats.Iterations,
				"length", current,
				"accepted", sr.stats.AcceptedMoves,
				"comparisons", sr.stats.Comparisons,
			)
		}
	}
}

// driverFor wires the strategy-specific collaborators.
func (sr *search) driverFor(s Strategy) (driver, error) {
	switch s {
	case Exhaustive:
		return exhaustive{sr}, nil
	case IndexPruned:
		if err := sr.buildIndex(sr.o.RebuildEvery); err != nil {
			return nil, err
		}

		return indexPruned{sr}, nil
	case ActivationPruned:
		sr.act = activation.New(sr.t.Len(), sr.o.Rand)

		return activationPruned{sr}, nil
	case Hybrid:
		if err := sr.buildIndex(sr.o.HybridRebuildEvery); err != nil {
			return nil, err
		}
		sr.act = activation.New(sr.t.Len(), sr.o.Rand)

		return hybrid{sr}, nil
	default:
		return nil, ErrUnknownStrategy
	}
}

// consider evaluates (i, j) and records it in best when its gain is strictly
// larger, so the first of several equal gains wins.
func (sr *search) consider(i, j int, best *tour.Move) {
	a, b, ok := tour.ValidPair(i, j, sr.t.Len())
	if !ok {
		return
	}
	g := tour.EvaluateGain(sr.t, a, b)
	sr.stats.Comparisons++
	if g > best.Gain {
		*best = tour.Move{I: a, J: b, Gain: g}
	}
}

// noMove is the starting point of every scan: only gains above the
// threshold can replace it.
func (sr *search) noMove() tour.Move {
	return tour.Move{I: -1, J: -1, Gain: sr.o.MinImprovement}
}

func (sr *search) found(best tour.Move) bool {
	return best.I >= 0 && best.Gain > sr.o.MinImprovement
}

// buildIndex creates the index backend and indexes the current tour.
func (sr *search) buildIndex(every int) error {
	idx, err := spatial.New(sr.o.IndexKind)
	if err != nil {
		return err
	}
	sr.idx = idx
	sr.rebuildEvery = every
	sr.idx.Build(sr.t.Points())

	return nil
}

// harvest moves the index's visit counter into the run statistics.
func (sr *search) harvest() {
	if sr.idx == nil {
		return
	}
	sr.stats.IndexNodesVisited += sr.idx.NodesVisited()
	sr.idx.ResetNodesVisited()
}

// maybeRebuild rebuilds the whole index after every rebuildEvery accepted
// moves. Hits are always re-resolved through PositionOf, so a stale index
// only affects pruning, never correctness.
func (sr *search) maybeRebuild() {
	sr.sinceRebuild++
	if sr.sinceRebuild < sr.rebuildEvery {
		return
	}
	sr.harvest()
	sr.idx.Build(sr.t.Points())
	sr.stats.IndexRebuilds++
	sr.sinceRebuild = 0
}

// finish folds the remaining counters into the statistics.
func (sr *search) finish() {
	sr.harvest()
	if sr.act != nil {
		sr.stats.ActiveNodes = sr.act.Count()
	}
}
