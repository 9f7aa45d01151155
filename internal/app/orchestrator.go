package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/lineupdesk/internal/adapters/optimizer"
	"github.com/okian/lineupdesk/internal/domain/constraints"
	"github.com/okian/lineupdesk/internal/domain/inflight"
	"github.com/okian/lineupdesk/pkg/logger"
	"github.com/okian/lineupdesk/pkg/metrics"
)

// DefaultSubmitTimeout bounds one optimization round trip.
const DefaultSubmitTimeout = 2 * time.Minute

// Backend is the optimization call the orchestrator depends on.
type Backend interface {
	OptimizeBatch(ctx context.Context, r optimizer.BatchRequest) (optimizer.Batch, error)
}

// Source is the uploaded pool file as it will be forwarded.
type Source struct {
	Filename string
	Data     []byte
}

// Empty reports whether no file is loaded.
func (s Source) Empty() bool { return len(s.Data) == 0 }

// Orchestrator submits generation requests with at most one outstanding
// request per key. A second submission for a busy key is rejected.
type Orchestrator struct {
	backend  Backend
	registry inflight.Registry
	timeout  time.Duration
	log      logger.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithOrchestratorTimeout bounds each submission; zero keeps the default.
func WithOrchestratorTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithRegistry replaces the in-flight registry.
func WithRegistry(r inflight.Registry) OrchestratorOption {
	return func(o *Orchestrator) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithOrchestratorLogger sets the orchestrator logger.
func WithOrchestratorLogger(l logger.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// NewOrchestrator builds an Orchestrator over backend.
func NewOrchestrator(backend Backend, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		backend:  backend,
		registry: inflight.New(),
		timeout:  DefaultSubmitTimeout,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit sends src with cfg's transmitted fields. It blocks until the
// backend answers, the timeout fires or Cancel is called for key. Every
// path leaves key idle again and nothing is retried.
func (o *Orchestrator) Submit(ctx context.Context, key string, src Source, cfg constraints.Config) (optimizer.Batch, error) {
	const op = "service.submit"
	start := time.Now()

	if src.Empty() {
		metrics.RecordSubmission(metrics.OutcomeUserInput, 0, 0)
		return optimizer.Batch{}, fmt.Errorf("%s: %w: import a CSV file first", op, ErrUserInput)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	if err := o.registry.Acquire(ctx, key, cancel); err != nil {
		if errors.Is(err, inflight.ErrPending) || errors.Is(err, inflight.ErrSaturated) {
			metrics.RecordSubmission(metrics.OutcomeBusy, 0, 0)
			return optimizer.Batch{}, fmt.Errorf("%s: %w", op, ErrBusy)
		}
		return optimizer.Batch{}, fmt.Errorf("%s: %w", op, err)
	}
	defer o.registry.Release(key)
	metrics.AddPending(1)
	defer metrics.AddPending(-1)

	wire := cfg.Wire()
	o.log.Debug(ctx, "submitting lineup request",
		logger.String("key", key), logger.String("file", src.Filename),
		logger.Int("numLineups", wire.NumLineups), logger.String("objective", wire.Objective))

	batch, err := o.backend.OptimizeBatch(ctx, optimizer.BatchRequest{
		File:     src.Data,
		Filename: src.Filename,
		Wire:     wire,
	})
	elapsed := time.Since(start)
	if err != nil {
		outcome := submitOutcome(err)
		metrics.RecordSubmission(outcome, elapsed, 0)
		metrics.RecordErrorByComponent("orchestrator", outcome)
		o.log.Warn(ctx, "lineup request failed",
			logger.String("key", key), logger.String("outcome", outcome),
			logger.Duration("elapsed", elapsed), logger.Error(err))
		return optimizer.Batch{}, err
	}

	metrics.RecordSubmission(metrics.OutcomeOK, elapsed, len(batch.Lineups))
	o.log.Info(ctx, "lineup request completed",
		logger.String("key", key), logger.Int("lineups", len(batch.Lineups)),
		logger.Duration("elapsed", elapsed))
	return batch, nil
}

// Cancel aborts the outstanding submission for key.
func (o *Orchestrator) Cancel(key string) bool {
	return o.registry.Cancel(key)
}

// Pending reports whether key has a submission outstanding.
func (o *Orchestrator) Pending(key string) bool {
	return o.registry.Pending(key)
}

// InFlight returns the number of outstanding submissions.
func (o *Orchestrator) InFlight() int64 {
	return o.registry.Size()
}

func submitOutcome(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeTimeout
	case errors.Is(err, context.Canceled):
		return metrics.OutcomeCancelled
	case errors.Is(err, optimizer.ErrContract):
		return metrics.OutcomeContract
	default:
		return metrics.OutcomeTransport
	}
}
