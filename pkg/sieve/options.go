// Package sieve computes prime counts with a segmented sieve of
// Eratosthenes. Base primes up to sqrt(limit) are generated once with a
// single buffer; the remaining range is swept in fixed-size segments, each
// with its own transient buffer that is released before the next one is
// mapped, so peak memory is bounded by one segment regardless of the limit.
package sieve

import "log/slog"

type config struct {
	logger     *slog.Logger
	sampleSize int
	onSegment  func(SegmentReport)
}

// Option configures a sieve run.
type Option func(*config)

// WithLogger sets the logger for per-segment progress records.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSampleSize requests the first n primes found to be included in the
// run's Summary. Only the single-buffer path can extract a sample; the
// segmented path counts survivors without materializing them.
func WithSampleSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.sampleSize = n
		}
	}
}

// WithOnSegment registers a callback invoked after every segment is swept,
// with that segment's report. The callback runs on the sweep goroutine;
// the sweep blocks until it returns.
func WithOnSegment(fn func(SegmentReport)) Option {
	return func(c *config) {
		if fn != nil {
			c.onSegment = fn
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
