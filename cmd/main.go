package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/lineupdesk/internal/adapters/archive"
	"github.com/okian/lineupdesk/internal/adapters/http/api"
	"github.com/okian/lineupdesk/internal/adapters/http/swagger"
	"github.com/okian/lineupdesk/internal/adapters/optimizer"
	app "github.com/okian/lineupdesk/internal/app"
	"github.com/okian/lineupdesk/internal/config"
	"github.com/okian/lineupdesk/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithLevel(cfg.LogLevel)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg, logger.Get()); err != nil {
		logger.Get().Error(ctx, "lineup desk stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	var store *archive.Archive
	if cfg.ArchiveEnabled() {
		a, err := archive.Open(ctx, cfg.ArchiveDriver, cfg.ArchiveDSN)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer func() {
			if err := a.Close(); err != nil {
				log.Warn(ctx, "archive close failed", logger.Error(err))
			}
		}()
		store = a
		log.Info(ctx, "saved lineup archive enabled", logger.String("driver", a.Driver()))
	}

	svc := newService(cfg, log, store)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		// Optimization requests can run up to the submit timeout.
		WriteTimeout: cfg.SubmitTimeout + readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr),
			logger.Any("backends", cfg.BackendURLs))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newService wires the optimizer client and the optional archive into a
// workbench service.
func newService(cfg *config.Config, log logger.Logger, store *archive.Archive) *app.Service {
	client := optimizer.New(
		optimizer.WithTargets(cfg.BackendURLs...),
		optimizer.WithFetchTimeout(cfg.FetchTimeout),
		optimizer.WithMaxResponseBytes(cfg.MaxResponseBytes),
		optimizer.WithLogger(log.Named("optimizer")),
	)
	opts := []app.Option{
		app.WithLogger(log),
		app.WithOptimizer(client),
		app.WithObjective(cfg.Objective),
		app.WithSubmitTimeout(cfg.SubmitTimeout),
		app.WithMaxInFlight(cfg.MaxInFlight),
		app.WithSessionTTL(cfg.SessionTTL),
		app.WithSweepInterval(cfg.SessionSweepInterval),
		app.WithMaxSessions(cfg.MaxSessions),
		app.WithPageSize(cfg.PageSize),
		app.WithBrowsePageSize(cfg.BrowsePageSize),
	}
	// A nil *archive.Archive must not become a non-nil interface.
	if store != nil {
		opts = append(opts, app.WithArchive(store))
	}
	return app.New(opts...)
}

func newMux(ctx context.Context, cfg *config.Config, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, api.WithMaxUploadBytes(cfg.MaxUploadBytes)).Register(ctx, mux)
	return mux
}
