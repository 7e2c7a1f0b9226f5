package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("planar2opt failed", "error", err)
		os.Exit(1)
	}
}
