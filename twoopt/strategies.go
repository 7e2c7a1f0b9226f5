package twoopt

import (
	"math"

	"github.com/katalvlaran/planar2opt/tour"
)

// -----------------------------------------------------------------------------
// Exhaustive: all valid (i, j), i ascending then j ascending.
// -----------------------------------------------------------------------------

type exhaustive struct{ *search }

func (d exhaustive) scan() (tour.Move, bool) {
	var (
		n    = d.t.Len()
		best = d.noMove()
		i, j int
	)
	for i = 0; i < n-2; i++ {
		for j = i + 2; j < n; j++ {
			d.consider(i, j, &best)
		}
	}

	return best, d.found(best)
}

func (exhaustive) accepted(tour.Move) {}
func (exhaustive) stalled() bool      { return false }

// -----------------------------------------------------------------------------
// IndexPruned: FRNN neighbours of every position, radius from incident edges.
// -----------------------------------------------------------------------------

type indexPruned struct{ *search }

func (d indexPruned) scan() (tour.Move, bool) {
	var (
		n      = d.t.Len()
		best   = d.noMove()
		i, j   int
		ok     bool
		radius float64
	)
	for i = 0; i < n; i++ {
		p := d.t.At(i)
		radius = math.Max(d.o.RadiusFactor*(d.t.EdgeLength(i-1)+d.t.EdgeLength(i))/2, d.o.MinRadius)

		hits := d.idx.FindNeighbors(p, radius)
		if len(hits) < d.o.MinNeighbors {
			hits = d.idx.FindNeighbors(p, radius*d.o.RadiusWiden)
		}
		for _, h := range hits {
			if h.ID == p.ID {
				continue
			}
			if j, ok = d.t.PositionOf(h.ID); ok {
				d.consider(i, j, &best)
			}
		}
	}
	d.harvest()

	return best, d.found(best)
}

func (d indexPruned) accepted(tour.Move) { d.maybeRebuild() }
func (indexPruned) stalled() bool        { return false }

// -----------------------------------------------------------------------------
// ActivationPruned: pairs of active positions, ascending.
// -----------------------------------------------------------------------------

type activationPruned struct{ *search }

func (d activationPruned) scan() (tour.Move, bool) {
	var (
		active = d.act.Positions()
		best   = d.noMove()
		a, b   int
	)
	for a = 0; a < len(active); a++ {
		for b = a + 1; b < len(active); b++ {
			d.consider(active[a], active[b], &best)
		}
	}

	return best, d.found(best)
}

func (d activationPruned) accepted(m tour.Move) {
	d.act.Focus(m.I, m.J, d.o.ActivationRadius)
}

// stalled grows the active set; once it is full a stall is final, which
// makes the converged tour an exhaustive 2-opt local optimum.
func (d activationPruned) stalled() bool {
	return d.act.Relax(d.o.RelaxBatch)
}

// -----------------------------------------------------------------------------
// Hybrid: adaptive FRNN around active positions, both ends active.
// -----------------------------------------------------------------------------

type hybrid struct{ *search }

func (d hybrid) scan() (tour.Move, bool) {
	var (
		best   = d.noMove()
		j      int
		ok     bool
		radius float64
	)
	for _, i := range d.act.Positions() {
		p := d.t.At(i)
		radius = math.Max(d.o.HybridRadiusFactor*d.t.EdgeLength(i), d.o.HybridMinRadius)

		for _, h := range d.idx.FindNeighborsAdaptive(p, radius, d.o.HybridMinNeighbors) {
			if h.ID == p.ID {
				continue
			}
			if j, ok = d.t.PositionOf(h.ID); ok && d.act.Active(j) {
				d.consider(i, j, &best)
			}
		}
	}
	d.harvest()

	return best, d.found(best)
}

func (d hybrid) accepted(m tour.Move) {
	d.act.Focus(m.I, m.J, d.o.HybridActivationRadius)
	d.maybeRebuild()
}

func (d hybrid) stalled() bool {
	batch := d.o.HybridRelaxBatch
	if q := d.t.Len() / 4; q > batch {
		batch = q
	}

	return d.act.Relax(batch)
}
