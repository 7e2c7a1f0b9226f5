// Package planar2opt improves tours over planar Euclidean point sets with
// 2-opt local search and compares several ways of pruning the search.
//
// What is inside?
//
//	geom/       — Point and Euclidean distance
//	spatial/    — radius / k-nearest queries: arena kd-tree and R-tree backends
//	tour/       — Tour with identity→position index, gain evaluation, arc reversal
//	activation/ — bitset of positions still worth scanning, seeded relaxation
//	twoopt/     — the four strategies: exhaustive, index-pruned, activation-pruned, hybrid
//	instance/   — random and clustered generators, OSM loading, nearest-neighbour tours
//	bench/      — run every strategy on its own copy of one initial tour
//	report/     — text comparison, results file, GeoJSON and Prometheus textfile output
//	cmd/planar2opt — the CLI
//
// A 2-opt move removes edges (a,b) and (c,d) and reconnects the tour as
// (a,c),(b,d) by reversing the arc between them:
//
//	a──b           a  b
//	 ╲╱     ==>    │  │
//	 ╱╲            │  │
//	c──d           c  d
//
// Quick start:
//
//	pts, _ := instance.Random(1000, 42)
//	initial, _ := instance.BestNearestNeighborTour(pts, 10)
//	res, _ := twoopt.Run(twoopt.Hybrid, initial)
//	fmt.Println(res.Stats.FinalLength)
//
//	go run ./cmd/planar2opt run --points 1000 --strategies index,hybrid
package planar2opt
