// Package tour - cyclic tour state, move evaluation and move application.
//
// A Tour is an ordered cyclic sequence of N uniquely identified points,
// indexed 0..N-1 with successor/predecessor taken modulo N. It carries an
// identity → position index so that a point found by a spatial query can be
// resolved to its current position in O(1).
//
// Provided:
//   - New / Points / Clone / Len / At / PositionOf: construction and access.
//   - Length: total cycle length.
//   - IsValidPermutation: permutation check against reference points.
//   - EvaluateGain / EvaluateGainSquared: 2-opt delta without mutation.
//   - ApplyMove: commits a 2-opt move by reversing the shorter arc.
//   - Improvements: every improving move, best first (analysis helper).
//   - Canonical / SameCycle / DebugString: slice helpers for reporting/tests.
//
// Design:
//   - ApplyMove is the only mutator of a Tour; it keeps the identity index in
//     sync on every swap.
//   - No logging, no panics on user input - only sentinel errors.
//   - Invalid move indices evaluate to a zero gain rather than failing.
package tour

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/planar2opt/geom"
)

// Sentinel errors.
var (
	// ErrDuplicateID is returned by New when two points share an identity.
	ErrDuplicateID = errors.New("tour: duplicate point identity")

	// ErrInvalidMove is returned by ApplyMove for out-of-range, adjacent or
	// full-wraparound position pairs.
	ErrInvalidMove = errors.New("tour: invalid 2-opt move")
)

// Tour is a cyclic permutation of points with an identity → position index.
type Tour struct {
	pts []geom.Point
	pos map[int]int
}

// New builds a Tour from a caller-supplied visiting order. The input slice
// is copied; later changes to it do not affect the Tour.
//
// Complexity: O(n) time, O(n) space.
func New(order []geom.Point) (*Tour, error) {
	t := &Tour{
		pts: make([]geom.Point, len(order)),
		pos: make(map[int]int, len(order)),
	}
	copy(t.pts, order)

	var (
		i   int
		ok  bool
		pid int
	)
	for i = range t.pts {
		pid = t.pts[i].ID
		if _, ok = t.pos[pid]; ok {
			return nil, ErrDuplicateID
		}
		t.pos[pid] = i
	}

	return t, nil
}

// Len returns the number of points in the tour.
func (t *Tour) Len() int { return len(t.pts) }

// At returns the point at position i (taken modulo Len).
func (t *Tour) At(i int) geom.Point {
	n := len(t.pts)

	return t.pts[((i%n)+n)%n]
}

// PositionOf returns the current position of the point with identity id.
//
// Complexity: O(1).
func (t *Tour) PositionOf(id int) (int, bool) {
	p, ok := t.pos[id]

	return p, ok
}

// Points returns an independent copy of the visiting order.
func (t *Tour) Points() []geom.Point {
	out := make([]geom.Point, len(t.pts))
	copy(out, t.pts)

	return out
}

// Clone returns an independent deep copy of t.
func (t *Tour) Clone() *Tour {
	c := &Tour{
		pts: t.Points(),
		pos: make(map[int]int, len(t.pos)),
	}
	for id, p := range t.pos {
		c.pos[id] = p
	}

	return c
}

// Length returns the total length of the closed cycle. Tours with fewer
// than two points have length 0.
//
// Complexity: O(n).
func (t *Tour) Length() float64 {
	return Length(t.pts)
}

// Length returns the closed-cycle length of a visiting order.
//
// Complexity: O(n).
func Length(order []geom.Point) float64 {
	n := len(order)
	if n < 2 {
		return 0
	}

	var (
		sum float64
		i   int
	)
	for i = 0; i < n-1; i++ {
		sum += geom.Distance(order[i], order[i+1])
	}

	return sum + geom.Distance(order[n-1], order[0])
}

// EdgeLength returns the length of the edge (i, i+1 mod n).
func (t *Tour) EdgeLength(i int) float64 {
	return geom.Distance(t.At(i), t.At(i+1))
}

// IsValidPermutation reports whether t visits exactly the identities of
// reference, each once. It also cross-checks the identity index, so any
// index maintenance bug is reported as an invalid tour.
//
// Complexity: O(n) time, O(n) space.
func (t *Tour) IsValidPermutation(reference []geom.Point) bool {
	if !IsValidPermutation(t.pts, reference) || len(t.pos) != len(t.pts) {
		return false
	}

	var (
		i  int
		p  int
		ok bool
	)
	for i = range t.pts {
		if p, ok = t.pos[t.pts[i].ID]; !ok || p != i {
			return false
		}
	}

	return true
}

// IsValidPermutation reports whether order contains every identity of
// reference exactly once and nothing else.
//
// Complexity: O(n) time, O(n) space.
func IsValidPermutation(order, reference []geom.Point) bool {
	if len(order) != len(reference) {
		return false
	}
	seen := make(map[int]bool, len(order))

	var i int
	for i = range order {
		if seen[order[i].ID] {
			return false
		}
		seen[order[i].ID] = true
	}
	for i = range reference {
		if !seen[reference[i].ID] {
			return false
		}
	}

	return true
}

// Canonical returns a copy of order rotated so that the smallest identity
// comes first, oriented so that its right neighbour has the smaller
// identity of its two neighbours. Equal cycles yield equal slices.
//
// Complexity: O(n).
func Canonical(order []geom.Point) []geom.Point {
	n := len(order)
	out := make([]geom.Point, n)
	if n == 0 {
		return out
	}

	var (
		pivot int
		i     int
	)
	for i = 1; i < n; i++ {
		if order[i].ID < order[pivot].ID {
			pivot = i
		}
	}

	forward := n < 3 || order[(pivot+1)%n].ID <= order[(pivot+n-1)%n].ID
	for i = 0; i < n; i++ {
		if forward {
			out[i] = order[(pivot+i)%n]
		} else {
			out[i] = order[(pivot-i+n)%n]
		}
	}

	return out
}

// SameCycle reports whether a and b describe the same cycle, allowing
// rotation and reversal.
//
// Complexity: O(n).
func SameCycle(a, b []geom.Point) bool {
	if len(a) != len(b) {
		return false
	}
	ca, cb := Canonical(a), Canonical(b)

	var i int
	for i = range ca {
		if ca[i].ID != cb[i].ID {
			return false
		}
	}

	return true
}

// DebugString renders the identity sequence, e.g. "[0 3 1 2 | 0]" where the
// bar marks the closing edge back to the first point.
func DebugString(order []geom.Point) string {
	if len(order) == 0 {
		return "[]"
	}

	var (
		sb strings.Builder
		i  int
	)
	sb.WriteByte('[')
	for i = range order {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d", order[i].ID)
	}
	fmt.Fprintf(&sb, " | %d]", order[0].ID)

	return sb.String()
}
