package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/lineupdesk/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0o600
)

// SetupLogging configures logging to stderr and, when logFile is set, to
// that file as well. The returned function closes the file.
func SetupLogging(logFile string, verbose bool) (func(), error) {
	level := "info"
	if verbose {
		level = "debug"
	}
	var w io.Writer = os.Stderr
	closer := func() {}
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, file)
		closer = func() { _ = file.Close() }
	}
	if err := logger.Init(logger.WithWriter(w), logger.WithLevel(level)); err != nil {
		closer()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if logFile != "" {
		logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	}
	return closer, nil
}

// ShowHelp prints usage information for the lineup runner.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Lineup Runner
=============

Uploads a player pool to an optimization backend, waits for the lineups
and exports one of them as CSV.

Usage:
  go run ./cmd/lineup-run -file players.csv [options]

Options:
  -file string
        Player pool CSV (required)
  -backend string
        Optimization backend URL; repeat or comma separate for fallbacks
        (default "http://localhost:8000")
  -lineups int
        Number of lineups to request (default 20)
  -sport string
        Sport code (default "MLB")
  -objective string
        Objective label (default "maximize_points")
  -timeout duration
        Optimization timeout (default 2m0s)
  -out string
        Export file (default: stdout)
  -index int
        Lineup to export, 0-based (default 0)
  -log string
        Also write logs to this file
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Best lineup of a 20 lineup run
  go run ./cmd/lineup-run -file slate.csv -out best.csv

  # Fifth lineup of 150, against two backends
  go run ./cmd/lineup-run -file slate.csv -lineups 150 -index 4 \
      -backend http://opt-a:8000,http://opt-b:8000
`)
}
