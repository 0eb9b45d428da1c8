package main

import (
	"time"

	"github.com/masmgr/bugspots-go/internal/scoring"
)

// CalcScore computes a recency-weighted hotspot score for a single bugfix
// touching a file. The math lives in internal/scoring, which cmd/scan.go
// also drives for the CLI's legacy subcommand; this wrapper keeps the
// root package's historical entry point working.
func CalcScore(currentDate, oldestDate, fixDate time.Time) float64 {
	return scoring.LegacySigmoidScore(currentDate, oldestDate, fixDate)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
