package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/lineupdesk/pkg/metrics"
)

type item[T any] struct {
	v        T
	lastSeen time.Time
}

var _ Store[int] = (*MemoryStore[int])(nil)

// MemoryStore is an in-memory Store with idle expiry.
type MemoryStore[T any] struct {
	mu    sync.Mutex
	items map[string]*item[T]
	cfg   storeConfig

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewMemoryStore constructs a store and starts its sweeper, which runs
// until ctx is done or Close is called.
func NewMemoryStore[T any](ctx context.Context, opts ...Option) *MemoryStore[T] {
	cfg := storeConfig{
		ttl:           30 * time.Minute,
		sweepInterval: time.Minute,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &MemoryStore[T]{
		items:    make(map[string]*item[T]),
		cfg:      cfg,
		stopChan: make(chan struct{}),
	}
	if cfg.ttl > 0 {
		s.startSweeper(ctx)
	}
	return s
}

func (s *MemoryStore[T]) startSweeper(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.cfg.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Close stops the sweeper. Values stay readable.
func (s *MemoryStore[T]) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *MemoryStore[T]) expired(it *item[T], now time.Time) bool {
	return s.cfg.ttl > 0 && now.Sub(it.lastSeen) > s.cfg.ttl
}

// Put adds v under id. A full store first drops its expired values, so
// idle sessions never hold capacity until the next sweep.
func (s *MemoryStore[T]) Put(_ context.Context, id string, v T) error {
	s.mu.Lock()
	var evicted []string
	if s.cfg.maxEntries > 0 && len(s.items) >= s.cfg.maxEntries {
		evicted = s.sweepLocked(s.cfg.now())
	}
	err := s.putLocked(id, v)
	s.mu.Unlock()

	s.notifyEvicted(evicted)
	return err
}

func (s *MemoryStore[T]) putLocked(id string, v T) error {
	if _, ok := s.items[id]; ok {
		return ErrExists
	}
	if s.cfg.maxEntries > 0 && len(s.items) >= s.cfg.maxEntries {
		return ErrFull
	}
	s.items[id] = &item[T]{v: v, lastSeen: s.cfg.now()}
	metrics.UpdateActiveSessions(len(s.items))
	return nil
}

func (s *MemoryStore[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	it, ok := s.items[id]
	if !ok {
		return zero, ErrNotFound
	}
	now := s.cfg.now()
	if s.expired(it, now) {
		return zero, ErrNotFound
	}
	it.lastSeen = now
	return it.v, nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	metrics.UpdateActiveSessions(len(s.items))
	return true
}

func (s *MemoryStore[T]) Count(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep removes expired values now and returns how many were removed.
func (s *MemoryStore[T]) Sweep() int {
	s.mu.Lock()
	evicted := s.sweepLocked(s.cfg.now())
	s.mu.Unlock()

	s.notifyEvicted(evicted)
	return len(evicted)
}

func (s *MemoryStore[T]) sweepLocked(now time.Time) []string {
	var evicted []string
	for id, it := range s.items {
		if s.expired(it, now) {
			delete(s.items, id)
			evicted = append(evicted, id)
		}
	}
	metrics.UpdateActiveSessions(len(s.items))
	return evicted
}

// notifyEvicted reports removed ids; it must run without the lock held.
func (s *MemoryStore[T]) notifyEvicted(ids []string) {
	if len(ids) == 0 {
		return
	}
	metrics.RecordSessionsExpired(len(ids))
	if s.cfg.onEvict != nil {
		for _, id := range ids {
			s.cfg.onEvict(id)
		}
	}
}
