package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/lineupdesk/internal/runner"
)

// Default configuration constants.
const (
	defaultLineups   = 20
	defaultTimeout   = 2 * time.Minute
	defaultBackend   = "http://localhost:8000"
	defaultObjective = "maximize_points"
)

func main() {
	var backends runner.BackendList
	var (
		file      = flag.String("file", "", "Player pool CSV to upload")
		lineups   = flag.Int("lineups", defaultLineups, "Number of lineups to request")
		sport     = flag.String("sport", "", "Sport code (default MLB)")
		objective = flag.String("objective", defaultObjective, "Objective label")
		timeout   = flag.Duration("timeout", defaultTimeout, "Optimization timeout")
		out       = flag.String("out", "", "Export file (default: stdout)")
		index     = flag.Int("index", 0, "Lineup to export, 0-based")
		logFile   = flag.String("log", "", "Also write logs to this file")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Var(&backends, "backend", "Optimization backend URL; repeat or comma separate for fallbacks")
	flag.Parse()

	if *help {
		runner.ShowHelp(os.Stdout)
		return
	}
	if len(backends) == 0 {
		backends = runner.BackendList{defaultBackend}
	}

	closeLog, err := runner.SetupLogging(*logFile, *verbose)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config := &runner.Config{
		File:      *file,
		Backends:  backends,
		Lineups:   *lineups,
		Sport:     *sport,
		Objective: *objective,
		Timeout:   *timeout,
		Out:       *out,
		Index:     *index,
		LogFile:   *logFile,
		Verbose:   *verbose,
	}

	if _, err := runner.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Run failed: " + err.Error() + "\n")
		closeLog()
		os.Exit(1)
	}
}
