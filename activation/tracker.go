// Package activation - the "promising positions" set used by the
// activation-pruned and hybrid 2-opt drivers.
//
// A Tracker keeps one bit per tour position. Positions whose bit is set are
// active: the drivers only generate candidate moves from them. After an
// accepted move the set collapses onto a small window around the two edited
// positions (Focus); after a fruitless iteration it grows by a random batch
// of inactive positions (Relax) until it covers the whole tour.
//
// Design:
//   - Flags live here, indexed by position, never on the points themselves.
//   - Randomness comes from a caller-supplied *rand.Rand so runs replay
//     exactly under a fixed seed.
//   - Relax on a full set is a no-op that reports false; drivers use that
//     signal to declare convergence.
//
// Complexity:
//   - Focus: O(n/64 + radius).
//   - Relax: O(n) to collect inactive positions, O(batch) to choose.
//   - Count/Full: O(n/64).
package activation

import (
	"math/rand"

	"github.com/bits-and-blooms/bitset"
)

// Tracker is the active-position set over a tour of fixed length.
type Tracker struct {
	set  *bitset.BitSet
	n    int
	rng  *rand.Rand
	pool []int // scratch buffer reused by Relax
}

// New returns a tracker over n positions with every position active.
// A nil rng is replaced by the default deterministic stream.
func New(n int, rng *rand.Rand) *Tracker {
	if n < 0 {
		n = 0
	}
	if rng == nil {
		rng = NewRand(0)
	}
	t := &Tracker{
		set: bitset.New(uint(n)),
		n:   n,
		rng: rng,
	}
	t.Reset()

	return t
}

// Reset marks every position active.
func (t *Tracker) Reset() {
	var i uint
	for i = 0; i < uint(t.n); i++ {
		t.set.Set(i)
	}
}

// Len returns the number of tracked positions.
func (t *Tracker) Len() int { return t.n }

// Active reports whether position i is active. Out-of-range positions are
// inactive.
func (t *Tracker) Active(i int) bool {
	if i < 0 || i >= t.n {
		return false
	}

	return t.set.Test(uint(i))
}

// Count returns the number of active positions.
func (t *Tracker) Count() int { return int(t.set.Count()) }

// Full reports whether every position is active.
func (t *Tracker) Full() bool { return t.Count() == t.n }

// Focus clears the set and re-activates the positions within radius of i
// and of j, wrapping modulo the tour length.
func (t *Tracker) Focus(i, j, radius int) {
	t.set.ClearAll()
	if t.n == 0 {
		return
	}
	if radius < 0 {
		radius = 0
	}
	t.window(i, radius)
	t.window(j, radius)
}

// window activates center±radius modulo n.
func (t *Tracker) window(center, radius int) {
	var (
		off int
		p   int
	)
	for off = -radius; off <= radius; off++ {
		p = ((center+off)%t.n + t.n) % t.n
		t.set.Set(uint(p))
	}
}

// Relax activates up to batch inactive positions chosen uniformly at
// random. It returns false, changing nothing, when the set is already full.
func (t *Tracker) Relax(batch int) bool {
	t.pool = t.pool[:0]

	var (
		i  uint
		ok bool
	)
	for i, ok = t.set.NextClear(0); ok && i < uint(t.n); i, ok = t.set.NextClear(i + 1) {
		t.pool = append(t.pool, int(i))
	}
	if len(t.pool) == 0 {
		return false
	}
	if batch < 1 {
		batch = 1
	}
	if batch > len(t.pool) {
		batch = len(t.pool)
	}

	// Partial Fisher-Yates: the first batch slots become a uniform sample.
	var k, r int
	for k = 0; k < batch; k++ {
		r = k + t.rng.Intn(len(t.pool)-k)
		t.pool[k], t.pool[r] = t.pool[r], t.pool[k]
		t.set.Set(uint(t.pool[k]))
	}

	return true
}

// Positions returns the active positions in ascending order.
func (t *Tracker) Positions() []int {
	out := make([]int, 0, t.Count())

	var (
		i  uint
		ok bool
	)
	for i, ok = t.set.NextSet(0); ok && i < uint(t.n); i, ok = t.set.NextSet(i + 1) {
		out = append(out, int(i))
	}

	return out
}
