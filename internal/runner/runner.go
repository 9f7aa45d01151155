// Package runner drives a single optimization from the command line:
// ingest a pool, submit it, pick a lineup and export it.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/okian/lineupdesk/internal/adapters/optimizer"
	app "github.com/okian/lineupdesk/internal/app"
	"github.com/okian/lineupdesk/internal/domain/constraints"
	"github.com/okian/lineupdesk/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	outputPermission    = 0o644
)

// ErrNoFile is returned when no pool file is configured.
var ErrNoFile = errors.New("runner: pool file is required")

// Run executes one optimization and writes the selected lineup to
// config.Out, or to stdout when Out is empty.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	return run(ctx, config, os.Stdout)
}

func run(ctx context.Context, config *Config, stdout io.Writer) (*Stats, error) {
	if config.File == "" {
		return nil, ErrNoFile
	}
	stats := &Stats{StartTime: time.Now(), Requested: config.Lineups}
	log := logger.Get()

	log.Info(ctx, "starting lineup run",
		logger.String("file", config.File),
		logger.Any("backends", config.Backends),
		logger.Int("lineups", config.Lineups),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("index", config.Index))

	// Step 1: Read the pool
	data, err := os.ReadFile(config.File)
	if err != nil {
		return nil, fmt.Errorf("read pool: %w", err)
	}

	client := optimizer.New(
		optimizer.WithTargets(config.Backends...),
		optimizer.WithLogger(log.Named("optimizer")),
	)
	opts := []app.Option{app.WithLogger(log), app.WithOptimizer(client)}
	if config.Objective != "" {
		opts = append(opts, app.WithObjective(config.Objective))
	}
	if config.Timeout > 0 {
		opts = append(opts, app.WithSubmitTimeout(config.Timeout))
	}
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	sess, err := svc.CreateSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	// Step 2: Ingest
	summary, err := sess.LoadPool(ctx, filepath.Base(config.File), data)
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}
	stats.PoolSize, stats.Skipped, stats.Warnings = summary.Players, summary.Skipped, len(summary.Warnings)
	for _, w := range summary.Warnings {
		log.Debug(ctx, "row skipped", logger.Int("line", w.Line), logger.String("reason", w.Reason))
	}

	settings := sess.Settings()
	if config.Lineups > 0 {
		settings.NumLineups = constraints.Number(strconv.Itoa(config.Lineups))
	}
	if config.Sport != "" {
		settings.Sport = config.Sport
	}
	if _, err := sess.UpdateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	// Step 3: Submit
	res, err := sess.Submit(ctx)
	if err != nil {
		return nil, fmt.Errorf("optimization failed: %w", err)
	}
	stats.Returned, stats.Target, stats.RequestID = res.Lineups, res.Run.Target, res.Run.RequestID

	// Step 4: Select
	view, err := sess.SelectLineup(config.Index)
	if err != nil {
		return nil, fmt.Errorf("select lineup: %w", err)
	}
	log.Info(ctx, "lineup selected",
		logger.Int("index", view.Index), logger.Int("of", view.Total),
		logger.Int("salary", view.Salary), logger.Float64("points", view.Points))

	// Step 5: Export
	csv, err := sess.Export()
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	if err := writeOutput(config.Out, csv, stdout); err != nil {
		return nil, err
	}
	stats.Exported = len(view.Lineup)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func writeOutput(path, csv string, stdout io.Writer) error {
	if path == "" {
		_, err := io.WriteString(stdout, csv)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(csv), outputPermission); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	logger.Get().Info(context.Background(), "lineup exported", logger.String("filename", path))
	return nil
}

// displayFinalStats logs the run summary.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("poolSize", stats.PoolSize),
		logger.Int("skipped", stats.Skipped),
		logger.Int("requested", stats.Requested),
		logger.Int("returned", stats.Returned),
		logger.Int("exportedPlayers", stats.Exported),
		logger.String("target", stats.Target),
		logger.String("requestID", stats.RequestID),
		logger.String("duration", stats.Duration.String()))
}
