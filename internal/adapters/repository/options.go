package repository

import "time"

type storeConfig struct {
	ttl           time.Duration
	sweepInterval time.Duration
	maxEntries    int
	now           func() time.Time
	onEvict       func(id string)
}

// Option applies a configuration option to a MemoryStore.
type Option func(*storeConfig)

// WithTTL sets how long a value may sit unread before it expires.
// Zero or negative disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(c *storeConfig) {
		c.ttl = ttl
	}
}

// WithSweepInterval sets how often expired values are removed.
func WithSweepInterval(interval time.Duration) Option {
	return func(c *storeConfig) {
		if interval > 0 {
			c.sweepInterval = interval
		}
	}
}

// WithMaxEntries caps the number of live values. n <= 0 means unbounded.
func WithMaxEntries(n int) Option {
	return func(c *storeConfig) {
		c.maxEntries = n
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *storeConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithEvictHook is called, outside the store lock, for each value removed
// by expiry.
func WithEvictHook(fn func(id string)) Option {
	return func(c *storeConfig) {
		c.onEvict = fn
	}
}
