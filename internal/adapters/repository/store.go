// Package repository keeps live workbench sessions in memory.
package repository

import "context"

// Store holds values by id. Implementations expire values that have not
// been read for a configured idle period.
type Store[T any] interface {
	// Put adds v under id. It fails with ErrExists for a taken id and
	// ErrFull when the store is at capacity.
	Put(ctx context.Context, id string, v T) error

	// Get returns the value for id and refreshes its idle timer.
	// Returns ErrNotFound if id is unknown or expired.
	Get(ctx context.Context, id string) (T, error)

	// Delete removes id and reports whether it was present.
	Delete(ctx context.Context, id string) bool

	// Count returns the number of stored values, including any expired
	// ones not yet swept.
	Count(ctx context.Context) int

	Close() error
}
