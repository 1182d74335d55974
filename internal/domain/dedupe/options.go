// Package dedupe remembers client request ids so a replayed submission is
// applied at most once.
package dedupe

const defaultMaxSize = 10_000

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets how many ids are remembered.
// If maxSize > 0: bounded, the oldest id is evicted first.
// If maxSize <= 0: unbounded.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
