package tour

import (
	"cmp"
	"slices"

	"github.com/katalvlaran/planar2opt/geom"
)

// Move is a candidate 2-opt exchange on positions I < J: edges (I,I+1) and
// (J,J+1) are replaced by (I,J) and (I+1,J+1).
type Move struct {
	I, J int
	Gain float64
}

// ValidPair normalizes (i, j) to i < j and reports whether it denotes a
// non-degenerate 2-opt move on a tour of n points: j > i+1 and not the
// full-wraparound pair (0, n-1).
//
// Complexity: O(1).
func ValidPair(i, j, n int) (int, int, bool) {
	if i > j {
		i, j = j, i
	}
	if i < 0 || j >= n || j <= i+1 || (i == 0 && j == n-1) {
		return i, j, false
	}

	return i, j, true
}

// EvaluateGain returns the tour-length reduction of the 2-opt move (i, j)
// without mutating t:
//
//	gain = d(a,b) + d(c,d) − d(a,c) − d(b,d),  a=T[i], b=T[i+1], c=T[j], d=T[j+1].
//
// Positive gain means improvement. Invalid or degenerate pairs return 0.
//
// Complexity: O(1).
func EvaluateGain(t *Tour, i, j int) float64 {
	n := len(t.pts)
	i, j, ok := ValidPair(i, j, n)
	if !ok {
		return 0
	}
	var (
		a = t.pts[i]
		b = t.pts[i+1]
		c = t.pts[j]
		d = t.pts[(j+1)%n]
	)

	return geom.Distance(a, b) + geom.Distance(c, d) - geom.Distance(a, c) - geom.Distance(b, d)
}

// EvaluateGainSquared is EvaluateGain over squared edge lengths. It saves
// four square roots per call but its values are only comparable with other
// EvaluateGainSquared results; never mix the two when ranking moves, and
// never use it to decide whether a move shortens the tour.
//
// Complexity: O(1).
func EvaluateGainSquared(t *Tour, i, j int) float64 {
	n := len(t.pts)
	i, j, ok := ValidPair(i, j, n)
	if !ok {
		return 0
	}
	var (
		a = t.pts[i]
		b = t.pts[i+1]
		c = t.pts[j]
		d = t.pts[(j+1)%n]
	)

	return geom.DistanceSquared(a, b) + geom.DistanceSquared(c, d) -
		geom.DistanceSquared(a, c) - geom.DistanceSquared(b, d)
}

// Improvements lists every valid move whose gain exceeds minGain, sorted by
// descending gain and then by (I, J). An empty result certifies t as a
// 2-opt local optimum at that threshold.
//
// Complexity: O(n²) time.
func Improvements(t *Tour, minGain float64) []Move {
	var (
		n    = len(t.pts)
		out  []Move
		i, j int
		g    float64
	)
	for i = 0; i < n-2; i++ {
		for j = i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if g = EvaluateGain(t, i, j); g > minGain {
				out = append(out, Move{I: i, J: j, Gain: g})
			}
		}
	}
	slices.SortStableFunc(out, func(a, b Move) int {
		return cmp.Compare(b.Gain, a.Gain)
	})

	return out
}
