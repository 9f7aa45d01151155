package runner

import (
	"strings"
	"time"
)

// Config holds configuration for one optimization run.
type Config struct {
	File      string        // Player pool CSV to upload
	Backends  []string      // Candidate optimization backends, primary first
	Lineups   int           // Number of lineups to request
	Sport     string        // Sport code sent with the request
	Objective string        // Objective label sent with the request
	Timeout   time.Duration // Bound on the optimization round trip
	Out       string        // Export destination; empty writes to stdout
	Index     int           // Lineup to export, 0-based
	LogFile   string        // Optional log file in addition to stderr
	Verbose   bool          // Enable debug logging
}

// Stats summarizes a finished run.
type Stats struct {
	PoolSize  int
	Skipped   int
	Warnings  int
	Requested int
	Returned  int
	Exported  int
	Target    string
	RequestID string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// BackendList is a flag.Value that accepts repeated or comma separated
// backend URLs.
type BackendList []string

func (b *BackendList) String() string { return strings.Join(*b, ",") }

// Set appends every non-empty URL in v.
func (b *BackendList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*b = append(*b, part)
		}
	}
	return nil
}
