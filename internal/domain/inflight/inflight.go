// Package inflight tracks which sessions have a generation request
// outstanding so that a second submission is rejected instead of queued.
package inflight

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrPending is returned when the key already has a request in flight.
	ErrPending = errors.New("inflight: request already pending")
	// ErrSaturated is returned when the registry is at capacity.
	ErrSaturated = errors.New("inflight: too many requests in flight")
)

// Registry records outstanding requests per key.
type Registry interface {
	// Acquire atomically marks key as pending. cancel is invoked by Cancel
	// while the entry is held. It fails with ErrPending if key is already
	// pending and ErrSaturated if the capacity is exhausted.
	Acquire(ctx context.Context, key string, cancel context.CancelFunc) error

	// Release clears key. It is called exactly once by the holder when the
	// request settles, whatever the outcome.
	Release(key string)

	// Cancel aborts the pending request for key. The entry stays held until
	// the holder releases it. It reports whether anything was pending.
	Cancel(key string) bool

	Pending(key string) bool
	Size() int64
}

type entry struct {
	cancel    context.CancelFunc
	cancelled bool
}

type registry struct {
	mu       sync.Mutex
	entries  map[string]*entry
	capacity int
	size     atomic.Int64
}

// New creates an in-memory registry.
func New(opts ...Option) Registry {
	r := &registry{entries: make(map[string]*entry)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *registry) Acquire(ctx context.Context, key string, cancel context.CancelFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[key]; ok {
		return ErrPending
	}
	if r.capacity > 0 && len(r.entries) >= r.capacity {
		return ErrSaturated
	}
	r.entries[key] = &entry{cancel: cancel}
	r.size.Add(1)
	return nil
}

func (r *registry) Release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[key]; ok {
		delete(r.entries, key)
		r.size.Add(-1)
	}
}

func (r *registry) Cancel(key string) bool {
	r.mu.Lock()
	e, ok := r.entries[key]
	if ok && !e.cancelled {
		e.cancelled = true
	} else {
		ok = false
	}
	r.mu.Unlock()

	if ok && e.cancel != nil {
		e.cancel()
	}
	return ok
}

func (r *registry) Pending(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[key]
	return ok
}

func (r *registry) Size() int64 {
	return r.size.Load()
}
