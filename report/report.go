// Package report renders comparison results as text and persists the best
// tour in plain text and GeoJSON, plus Prometheus textfile metrics.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/katalvlaran/planar2opt/bench"
	"github.com/katalvlaran/planar2opt/instance"
	"github.com/katalvlaran/planar2opt/twoopt"
)

const ruleWidth = 70

// Separator writes a "=" rule with an optional centred title.
func Separator(w io.Writer, title string) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(w, "\n%s\n", rule)
	if title == "" {
		return
	}
	pad := (ruleWidth - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(w, "%s%s\n%s\n", strings.Repeat(" ", pad), title, rule)
}

// WriteInstanceInfo prints the instance summary and starting tour length.
func WriteInstanceInfo(w io.Writer, s instance.Summary, initialLength float64) {
	fmt.Fprintln(w, "Instance:")
	fmt.Fprintf(w, "- Points: %d\n", s.N)
	fmt.Fprintf(w, "- Initial length (nearest neighbour): %.6f\n", initialLength)
	fmt.Fprintf(w, "- Min pairwise distance: %.4f\n", s.MinDistance)
	fmt.Fprintf(w, "- Max pairwise distance: %.4f\n", s.MaxDistance)
	fmt.Fprintf(w, "- Avg pairwise distance: %.4f\n", s.AvgDistance)
}

// movesPerSecond guards against a zero elapsed time.
func movesPerSecond(st twoopt.Stats) float64 {
	sec := st.Elapsed.Seconds()
	if sec <= 0 {
		return 0
	}

	return float64(st.AcceptedMoves) / sec
}

// WriteDetailedStats prints the per-strategy statistics block.
func WriteDetailedStats(w io.Writer, st twoopt.Stats) {
	name := st.Strategy.Label()
	fmt.Fprintf(w, "\n#stat %s results:\n", name)
	fmt.Fprintf(w, "#stat Initial tour length: %.6f\n", st.InitialLength)
	fmt.Fprintf(w, "#stat Final tour length: %.6f\n", st.FinalLength)
	fmt.Fprintf(w, "#stat Improvement: %.2f%%\n", st.Improvement()*100)
	fmt.Fprintf(w, "#stat Termination: %s\n", st.Termination)
	fmt.Fprintf(w, "#stat Accepted moves: %d\n", st.AcceptedMoves)
	fmt.Fprintf(w, "#stat Iterations: %d\n", st.Iterations)
	fmt.Fprintf(w, "#stat Index nodes visited: %d\n", st.IndexNodesVisited)
	if st.IndexRebuilds > 0 {
		fmt.Fprintf(w, "#stat Index rebuilds: %d\n", st.IndexRebuilds)
	}
	fmt.Fprintf(w, "#stat Comparisons: %d\n", st.Comparisons)
	fmt.Fprintf(w, "#stat Elapsed: %.4f seconds\n", st.Elapsed.Seconds())
	if st.Strategy == twoopt.ActivationPruned || st.Strategy == twoopt.Hybrid {
		fmt.Fprintf(w, "#stat Active nodes: %d\n", st.ActiveNodes)
	}
	fmt.Fprintf(w, "#stat Moves per second: %.2f\n", movesPerSecond(st))
	fmt.Fprintf(w, "#stat Length reduction: %.6f\n", st.InitialLength-st.FinalLength)
}

// WriteComparison prints one row per strategy and names the best one.
func WriteComparison(w io.Writer, rep bench.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tFINAL LENGTH\tIMPROVEMENT\tMOVES\tTIME(S)\tMOVES/S\tCOMPARISONS")
	fmt.Fprintln(tw, "---------\t------------\t-----------\t-----\t-------\t-------\t-----------")
	for _, e := range rep.Entries {
		st := e.Result.Stats
		fmt.Fprintf(tw, "%s\t%.4f\t%.2f%%\t%d\t%.3f\t%.1f\t%d\n",
			e.Strategy.Label(),
			st.FinalLength,
			st.Improvement()*100,
			st.AcceptedMoves,
			st.Elapsed.Seconds(),
			movesPerSecond(st),
			st.Comparisons,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(rep.Entries) > 0 {
		best := rep.Best()
		fmt.Fprintf(w, "\n#best_algorithm: %s (length: %.6f)\n", best.Strategy.Label(), best.Result.Stats.FinalLength)
	}

	return nil
}

// WriteEfficiency prints the fastest strategy, the one with most moves, the
// index speedup over exhaustive search and the comparison reductions.
func WriteEfficiency(w io.Writer, rep bench.Report) {
	if len(rep.Entries) == 0 {
		return
	}
	fastest, most := rep.Fastest(), rep.MostMoves()
	fmt.Fprintf(w, "#fastest_algorithm: %s (%.3fs)\n", fastest.Strategy.Label(), fastest.Result.Stats.Elapsed.Seconds())
	fmt.Fprintf(w, "#most_moves: %s (%d moves)\n", most.Strategy.Label(), most.Result.Stats.AcceptedMoves)

	ex, ok := rep.Lookup(twoopt.Exhaustive)
	if !ok {
		return
	}
	if idx, ok := rep.Lookup(twoopt.IndexPruned); ok && idx.Result.Stats.Elapsed > 0 && ex.Result.Stats.Elapsed > 0 {
		fmt.Fprintf(w, "#index_speedup: %.2fx\n", ex.Result.Stats.Elapsed.Seconds()/idx.Result.Stats.Elapsed.Seconds())
	}
	base := ex.Result.Stats.Comparisons
	if base <= 0 {
		return
	}
	for _, s := range []twoopt.Strategy{twoopt.IndexPruned, twoopt.ActivationPruned, twoopt.Hybrid} {
		if e, ok := rep.Lookup(s); ok {
			red := (1 - float64(e.Result.Stats.Comparisons)/float64(base)) * 100
			fmt.Fprintf(w, "#comparison_reduction_%s: %.1f%%\n", s, red)
		}
	}
}
