package sieve

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/primetide/primetide/pkg/sievebuf"
)

// Whole sieves [0, limit] with a single buffer. It is the right strategy
// whenever one buffer for the full range fits in memory; Segmented exists
// for the limits where it does not.
func Whole(limit uint64, opts ...Option) (*Summary, error) {
	cfg := newConfig(opts)
	started := time.Now()

	buf, err := sievebuf.New(0, limit)
	if err != nil {
		return nil, fmt.Errorf("whole sieve: %w", err)
	}

	buf.MarkComposite(0)
	buf.MarkComposite(1)

	for i := uint64(2); i*i <= limit; i++ {
		if !buf.Candidate(i) {
			continue
		}
		buf.Strike(i, i*i)
	}

	summary := &Summary{
		Limit:      limit,
		PrimeCount: buf.CountCandidates(),
	}
	if cfg.sampleSize > 0 {
		summary.Sample = buf.AppendCandidates(nil, cfg.sampleSize)
	}
	if err := buf.Release(); err != nil {
		return nil, fmt.Errorf("whole sieve: %w", err)
	}
	summary.Elapsed = time.Since(started)

	cfg.logger.Debug("[sieve]",
		slog.String("message", "whole-range sieve complete"),
		slog.Uint64("limit", limit),
		slog.Uint64("primes", summary.PrimeCount),
		slog.Duration("elapsed", summary.Elapsed))

	return summary, nil
}
