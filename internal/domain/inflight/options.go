package inflight

// Option configures a Registry.
type Option func(*registry)

// WithCapacity bounds the number of keys pending at once across the
// registry. n <= 0 means unbounded.
func WithCapacity(n int) Option {
	return func(r *registry) {
		r.capacity = n
	}
}
