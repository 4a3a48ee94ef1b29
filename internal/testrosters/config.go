package testrosters

import "time"

// Config holds configuration for roster generation.
type Config struct {
	Dir      string // Output directory for the three roster files
	Teams    int    // Archers per category, i.e. the number of teams
	ZeroRows int    // Extra zero-score rows per category, dropped by the loader
	Seed     uint64 // Fixed seed for reproducible rosters; 0 draws one
}

// Stats holds generation statistics.
type Stats struct {
	Files     []string
	Archers   int
	ZeroRows  int
	StartTime time.Time
	Duration  time.Duration
}
