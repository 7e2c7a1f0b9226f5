package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "planar2opt",
	Short: "2-opt local search for planar Euclidean TSP instances",
	Long: `planar2opt improves a nearest-neighbour tour with four 2-opt strategies
(exhaustive, index-pruned, activation-pruned, hybrid) and compares them.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		opts := &slog.HandlerOptions{Level: parseLevel(logLevel)}
		// stdout carries the report; logs go to stderr.
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
