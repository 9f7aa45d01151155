// Package service provides the workbench service that implements the
// dependencies required by the HTTP API and the command line runner.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/lineupdesk/internal/adapters/archive"
	"github.com/okian/lineupdesk/internal/adapters/optimizer"
	"github.com/okian/lineupdesk/internal/adapters/repository"
	"github.com/okian/lineupdesk/internal/domain/constraints"
	"github.com/okian/lineupdesk/internal/domain/export"
	"github.com/okian/lineupdesk/internal/domain/inflight"
	"github.com/okian/lineupdesk/internal/domain/query"
	"github.com/okian/lineupdesk/pkg/logger"
	"github.com/okian/lineupdesk/pkg/metrics"
)

// Client is the optimization backend as the service uses it.
type Client interface {
	Backend
	FetchPlayers(ctx context.Context, sport string) (optimizer.Players, error)
}

// Archive persists saved lineups.
type Archive interface {
	Save(ctx context.Context, r archive.Record) (archive.Record, error)
	List(ctx context.Context, limit int) ([]archive.Record, error)
	Get(ctx context.Context, id string) (archive.Record, error)
}

// BrowseResult is one page of a backend-provided player list.
type BrowseResult struct {
	query.Page
	Sport     string         `json:"sport"`
	Target    string         `json:"target"`
	Criteria  query.Criteria `json:"criteria"`
	Teams     []string       `json:"teams"`
	Positions []string       `json:"positions"`
}

// Service owns the session store and the orchestrator shared by all
// sessions.
type Service struct {
	mu sync.RWMutex

	// Core components
	client   Client
	archive  Archive
	orc      *Orchestrator
	sessions *repository.MemoryStore[*Session]

	// Configuration
	objective      string
	submitTimeout  time.Duration
	maxInFlight    int
	sessionTTL     time.Duration
	sweepInterval  time.Duration
	maxSessions    int
	pageSize       int
	browsePageSize int
	maxWarnings    int
	now            func() time.Time

	// State
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		objective:      constraints.DefaultObjective,
		submitTimeout:  DefaultSubmitTimeout,
		sessionTTL:     30 * time.Minute,
		sweepInterval:  time.Minute,
		maxSessions:    10_000,
		pageSize:       10,
		browsePageSize: 25,
		maxWarnings:    100,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the orchestrator and session store and starts the
// background collectors. Calling Start twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.client == nil {
		s.client = optimizer.New(optimizer.WithLogger(s.logger.Named("optimizer")))
	}

	s.logger.Info(ctx, "starting workbench service...")

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.orc = NewOrchestrator(s.client,
		WithOrchestratorTimeout(s.submitTimeout),
		WithRegistry(inflight.New(inflight.WithCapacity(s.maxInFlight))),
		WithOrchestratorLogger(s.logger.Named("orchestrator")),
	)
	orc := s.orc
	s.sessions = repository.NewMemoryStore[*Session](runCtx,
		repository.WithTTL(s.sessionTTL),
		repository.WithSweepInterval(s.sweepInterval),
		repository.WithMaxEntries(s.maxSessions),
		repository.WithClock(s.now),
		repository.WithEvictHook(func(id string) {
			if orc.Cancel(id) {
				s.logger.Info(runCtx, "cancelled request of expired session", logger.String("session", id))
			}
		}),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		metrics.RunRuntimeCollector(runCtx)
	}()

	s.started = true
	s.logger.Info(ctx, "workbench service started",
		logger.Duration("submitTimeout", s.submitTimeout),
		logger.Duration("sessionTTL", s.sessionTTL),
		logger.Int("maxSessions", s.maxSessions),
		logger.Bool("archive", s.archive != nil),
	)
	return nil
}

// Stop cancels background work and closes the session store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping workbench service...")

	s.cancel()
	_ = s.sessions.Close()
	s.wg.Wait()

	s.started = false
	s.logger.Info(context.Background(), "workbench service stopped")
}

func (s *Service) store() (*repository.MemoryStore[*Session], *Orchestrator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.sessions, s.orc, nil
}

// CreateSession opens a new session with default settings.
func (s *Service) CreateSession(ctx context.Context) (*Session, error) {
	const op = "service.create_session"
	store, orc, err := s.store()
	if err != nil {
		return nil, err
	}
	cfg := sessionConfig{pageSize: s.pageSize, objective: s.objective, maxWarnings: s.maxWarnings}
	sess := newSession(uuid.NewString(), orc, cfg, s.logger.Named("session"), s.now)
	if err := store.Put(ctx, sess.ID(), sess); err != nil {
		if errors.Is(err, repository.ErrFull) {
			return nil, fmt.Errorf("%s: %w", op, ErrTooManySessions)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Debug(ctx, "session created", logger.String("session", sess.ID()))
	return sess, nil
}

// Session returns a live session and refreshes its idle timer.
func (s *Service) Session(ctx context.Context, id string) (*Session, error) {
	store, _, err := s.store()
	if err != nil {
		return nil, err
	}
	sess, err := store.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	return sess, err
}

// DeleteSession cancels any outstanding request and drops the session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	store, orc, err := s.store()
	if err != nil {
		return err
	}
	orc.Cancel(id)
	if !store.Delete(ctx, id) {
		return ErrSessionNotFound
	}
	s.logger.Debug(ctx, "session deleted", logger.String("session", id))
	return nil
}

// BrowsePlayers fetches the backend's player list for sport and returns
// one filtered page of it. Nothing is stored.
func (s *Service) BrowsePlayers(ctx context.Context, sport string, c query.Criteria, page int) (BrowseResult, error) {
	if _, _, err := s.store(); err != nil {
		return BrowseResult{}, err
	}
	res, err := s.client.FetchPlayers(ctx, sport)
	if err != nil {
		return BrowseResult{}, err
	}
	c = c.Normalize()
	filtered := query.Filter(res.Players, c)
	page = query.ClampPage(page, len(filtered), s.browsePageSize)
	return BrowseResult{
		Page:      query.Paginate(filtered, page, s.browsePageSize),
		Sport:     res.Sport,
		Target:    res.Target,
		Criteria:  c,
		Teams:     query.Teams(res.Players),
		Positions: query.Positions(res.Sport),
	}, nil
}

// SaveLineup stores the session's current lineup in the archive.
func (s *Service) SaveLineup(ctx context.Context, id, label string) (archive.Record, error) {
	const op = "service.save_lineup"
	if s.archive == nil {
		return archive.Record{}, ErrArchiveDisabled
	}
	sess, err := s.Session(ctx, id)
	if err != nil {
		return archive.Record{}, err
	}
	view, err := sess.CurrentLineup()
	if err != nil {
		return archive.Record{}, err
	}
	rec, err := s.archive.Save(ctx, archive.Record{
		SessionID: id,
		Label:     label,
		Sport:     sess.sport(),
		Lineup:    view.Lineup,
	})
	if err != nil {
		metrics.RecordErrorByComponent("archive", "save")
		return archive.Record{}, fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordSave()
	s.logger.Info(ctx, "lineup saved",
		logger.String("session", id), logger.String("saved", rec.ID), logger.Int("index", view.Index))
	return rec, nil
}

// ListSaved returns the newest saved lineups.
func (s *Service) ListSaved(ctx context.Context, limit int) ([]archive.Record, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	list, err := s.archive.List(ctx, limit)
	if errors.Is(err, archive.ErrInvalidLimit) {
		return nil, fmt.Errorf("%w: %w", ErrUserInput, err)
	}
	return list, err
}

// GetSaved returns one saved lineup.
func (s *Service) GetSaved(ctx context.Context, id string) (archive.Record, error) {
	if s.archive == nil {
		return archive.Record{}, ErrArchiveDisabled
	}
	rec, err := s.archive.Get(ctx, id)
	if errors.Is(err, archive.ErrNotFound) {
		return archive.Record{}, ErrSavedNotFound
	}
	return rec, err
}

// ExportSaved renders a saved lineup as CSV.
func (s *Service) ExportSaved(ctx context.Context, id string) (string, error) {
	rec, err := s.GetSaved(ctx, id)
	if err != nil {
		return "", err
	}
	metrics.RecordExport()
	return export.CSV(rec.Lineup), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"objective":     s.objective,
		"submitTimeout": s.submitTimeout.String(),
		"sessionTTL":    s.sessionTTL.String(),
		"maxSessions":   s.maxSessions,
		"archive":       s.archive != nil,
	}
	if t, ok := s.client.(interface{ Targets() []string }); ok {
		stats["backends"] = t.Targets()
	}
	if s.started {
		sessions := s.sessions.Count(context.Background())
		stats["sessions"] = sessions
		stats["inFlight"] = s.orc.InFlight()
		metrics.UpdateActiveSessions(sessions)
	}
	return stats
}
