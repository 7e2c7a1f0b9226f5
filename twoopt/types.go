// Package twoopt - 2-opt local search drivers over a planar tour.
//
// Four strategies share one state machine and differ only in how they
// generate candidate moves:
//
//   - Exhaustive:       every valid (i, j) pair; the best single 2-opt move
//     each iteration. O(n²) per iteration.
//   - IndexPruned:      for each position, the fixed-radius neighbours of its
//     point in a spatial index; radius derived from the incident edges.
//   - ActivationPruned: pairs of active positions only; the active set
//     collapses around each accepted move and grows back on stalls.
//   - Hybrid:           adaptive-radius neighbours of active positions whose
//     own position is active too.
//
// State machine (shared):
//
//	Scanning ──best gain > MinImprovement──▶ Committing ──▶ Scanning
//	    │                                                     │
//	    ├── no move, stall hook relaxes ──────────────────────┘
//	    ├── no move, nothing left to relax ──▶ Converged
//	    └── Iterations == MaxIterations ───▶ Exhausted
//
// Guarantees:
//   - Only moves with gain strictly above MinImprovement are committed, so the
//     final length never exceeds the initial length.
//   - Activation-based strategies declare convergence only after stalling
//     with every position active.
//   - Equal-gain candidates: the first one met in scan order wins.
//   - The input slice is never mutated; the final tour is checked to be a
//     permutation of the input before it is returned.
package twoopt

import (
	"errors"
	"strings"
	"time"

	"github.com/katalvlaran/planar2opt/geom"
)

// Sentinel errors.
var (
	// ErrUnknownStrategy is returned for a Strategy outside the defined set.
	ErrUnknownStrategy = errors.New("twoopt: unknown strategy")

	// ErrBadOption wraps every Options validation failure.
	ErrBadOption = errors.New("twoopt: invalid option")

	// ErrNonFinitePoint is returned when an input coordinate is NaN or ±Inf.
	ErrNonFinitePoint = errors.New("twoopt: non-finite point coordinate")

	// ErrCorruptTour is returned if the final tour is not a permutation of
	// the input. It indicates an internal bug, never a user error.
	ErrCorruptTour = errors.New("twoopt: final tour is not a permutation of the input")
)

// Strategy selects how candidate moves are generated.
type Strategy int

const (
	// Exhaustive scans every valid pair.
	Exhaustive Strategy = iota
	// IndexPruned scans spatial neighbours of every position.
	IndexPruned
	// ActivationPruned scans pairs of active positions.
	ActivationPruned
	// Hybrid scans spatial neighbours of active positions.
	Hybrid
)

// Strategies returns all strategies in comparison order.
func Strategies() []Strategy {
	return []Strategy{Exhaustive, IndexPruned, ActivationPruned, Hybrid}
}

// String returns the short name accepted by ParseStrategy.
func (s Strategy) String() string {
	switch s {
	case Exhaustive:
		return "exhaustive"
	case IndexPruned:
		return "index"
	case ActivationPruned:
		return "activation"
	case Hybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// Label returns a human-readable name for tables.
func (s Strategy) Label() string {
	switch s {
	case Exhaustive:
		return "Exhaustive 2-opt"
	case IndexPruned:
		return "Index-pruned (FRNN)"
	case ActivationPruned:
		return "Activation-pruned"
	case Hybrid:
		return "Hybrid (FRNN + activation)"
	default:
		return "Unknown"
	}
}

func (s Strategy) valid() bool { return s >= Exhaustive && s <= Hybrid }

// ParseStrategy maps a short name (case-insensitive) to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "exhaustive", "standard":
		return Exhaustive, nil
	case "index", "frnn":
		return IndexPruned, nil
	case "activation", "dlb":
		return ActivationPruned, nil
	case "hybrid":
		return Hybrid, nil
	default:
		return 0, ErrUnknownStrategy
	}
}

// Termination is the terminal state of a run.
type Termination int

const (
	// Converged means no qualifying move was left in the neighbourhood.
	Converged Termination = iota
	// Exhausted means the iteration ceiling was reached.
	Exhausted
)

func (t Termination) String() string {
	if t == Exhausted {
		return "exhausted"
	}

	return "converged"
}

// Stats holds the counters of one run. It is written only by the driver and
// returned once at termination.
type Stats struct {
	Strategy    Strategy
	Termination Termination

	InitialLength float64
	FinalLength   float64

	AcceptedMoves     int
	Iterations        int
	Comparisons       int64 // gain evaluations
	IndexNodesVisited int   // spatial index nodes touched, summed over rebuilds
	IndexRebuilds     int
	ActiveNodes       int // active positions at termination

	Elapsed time.Duration
}

// Improvement returns (initial − final) / initial, or 0 when the initial
// length is not positive.
func (s Stats) Improvement() float64 {
	if s.InitialLength <= 0 {
		return 0
	}

	return (s.InitialLength - s.FinalLength) / s.InitialLength
}

// Result is the outcome of Run: the improved visiting order and its stats.
type Result struct {
	Tour  []geom.Point
	Stats Stats
}
