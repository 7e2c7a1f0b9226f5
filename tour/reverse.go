package tour

// ApplyMove commits the 2-opt move (i, j) in place.
//
// The move reverses the arc of positions i+1..j (length j−i). Reversing the
// complementary cyclic arc j+1..i (length n−(j−i)) yields the same cycle
// traversed in the opposite direction over that arc, so the shorter of the
// two is reversed. Either way the resulting tour has the same length and
// the same undirected edge set.
//
// Contracts:
//   - (i, j) must satisfy ValidPair; otherwise ErrInvalidMove and t is untouched.
//   - The identity index is updated for every position that changes.
//
// Complexity: O(min(j−i, n−(j−i))) time, O(1) space.
func ApplyMove(t *Tour, i, j int) error {
	n := len(t.pts)
	i, j, ok := ValidPair(i, j, n)
	if !ok {
		return ErrInvalidMove
	}

	direct := j - i
	if direct <= n-direct {
		t.reverseArc(i+1, direct)
	} else {
		t.reverseArc((j+1)%n, n-direct)
	}

	return nil
}

// reverseArc reverses length consecutive positions starting at from,
// wrapping modulo n, with a two-pointer walk from both ends.
func (t *Tour) reverseArc(from, length int) {
	var (
		n = len(t.pts)
		l = from
		r = (from + length - 1) % n
		k int
	)
	for k = 0; k < length/2; k++ {
		t.swap(l, r)
		l++
		if l == n {
			l = 0
		}
		r--
		if r < 0 {
			r = n - 1
		}
	}
}

// swap exchanges positions a and b and keeps the identity index in sync.
func (t *Tour) swap(a, b int) {
	t.pts[a], t.pts[b] = t.pts[b], t.pts[a]
	t.pos[t.pts[a].ID] = a
	t.pos[t.pts[b].ID] = b
}
