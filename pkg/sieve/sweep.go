package sieve

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/primetide/primetide/pkg/sievebuf"
)

// runState carries the mutable counters of one sweep. Only the sweep loop
// writes to it, in segment order; SegmentReports are derived snapshots.
type runState struct {
	started     time.Time
	totalPrimes uint64
}

// Segmented counts the primes in [0, limit] without ever holding the full
// range in memory. Base primes up to sqrt(limit) are generated first with a
// single small buffer; the rest of the range is then swept in segments of
// segmentSize integers. Each segment gets a fresh buffer, has the multiples
// of every base prime struck out of it, is counted, and is released before
// the next segment is mapped, so peak memory is one segment plus the base
// prime list.
//
// A segment buffer that cannot be mapped aborts the run: the partial total
// is never reported as a result. Shrinking segmentSize is the only remedy,
// so there is nothing to retry.
func Segmented(limit, segmentSize uint64, opts ...Option) (*Summary, error) {
	if segmentSize == 0 {
		return nil, fmt.Errorf("%w: segment size must be positive", sievebuf.ErrInvalidRange)
	}
	cfg := newConfig(opts)

	// +1 keeps the base range a strict superset of [2, sqrt(limit)] even
	// when the float square root rounds down.
	sqrtLimit := uint64(math.Sqrt(float64(limit))) + 1
	if sqrtLimit >= limit {
		// the base sieve alone would already cover the whole range; a
		// single buffer is the simpler and sufficient strategy
		return Whole(limit, opts...)
	}

	run := runState{started: time.Now()}

	basePrimes, err := BasePrimes(sqrtLimit)
	if err != nil {
		return nil, err
	}
	run.totalPrimes = uint64(len(basePrimes))

	totalSegments := int((limit-sqrtLimit)/segmentSize + 1)
	cfg.logger.Info("[sieve]",
		slog.String("message", "segmented sweep starting"),
		slog.Uint64("limit", limit),
		slog.Uint64("segment_size", segmentSize),
		slog.Int("segments", totalSegments),
		slog.Int("base_primes", len(basePrimes)))

	// low advances by accumulation rather than s*segmentSize: the product
	// wraps uint64 for large segment sizes, which would re-sweep and
	// re-count ranges already covered
	segments := 0
	low := sqrtLimit
	for s := 0; ; s++ {
		high := low + segmentSize - 1
		if high > limit || high < low {
			// clamp the final segment; the unclamped bound itself wraps
			// when segmentSize sits near the top of the uint64 range
			high = limit
		}

		found, elapsed, err := sweepSegment(low, high, basePrimes)
		if err != nil {
			return nil, fmt.Errorf("segment %d [%d, %d]: %w", s, low, high, err)
		}
		run.totalPrimes += found
		segments++

		report := SegmentReport{
			Index:          s,
			Segments:       totalSegments,
			Low:            low,
			High:           high,
			Found:          found,
			RunningTotal:   run.totalPrimes,
			SegmentElapsed: elapsed,
			RunElapsed:     time.Since(run.started),
		}
		progress := report.Progress(limit)
		cfg.logger.Debug("[sieve]",
			slog.String("message", "segment swept"),
			slog.Int("segment", report.Index),
			slog.Uint64("low", low),
			slog.Uint64("high", high),
			slog.Uint64("found", found),
			slog.Uint64("total", run.totalPrimes),
			slog.Float64("percent", progress.Percent))
		if cfg.onSegment != nil {
			cfg.onSegment(report)
		}

		if high == limit {
			break
		}
		low = high + 1
	}

	summary := &Summary{
		Limit:          limit,
		PrimeCount:     run.totalPrimes,
		BasePrimeCount: uint64(len(basePrimes)),
		Segments:       segments,
		Elapsed:        time.Since(run.started),
	}
	cfg.logger.Info("[sieve]",
		slog.String("message", "segmented sweep complete"),
		slog.Uint64("limit", limit),
		slog.Uint64("primes", summary.PrimeCount),
		slog.Int("segments", segments),
		slog.Duration("elapsed", summary.Elapsed))

	return summary, nil
}

// sweepSegment sieves the inclusive range [low, high] against the base
// primes and returns the number of primes inside it. The segment buffer
// never escapes this function: it is mapped, struck, counted, and released
// here, which is what keeps the sweep's peak memory flat.
func sweepSegment(low, high uint64, basePrimes []uint64) (uint64, time.Duration, error) {
	started := time.Now()

	buf, err := sievebuf.New(low, high)
	if err != nil {
		return 0, 0, err
	}

	for _, p := range basePrimes {
		// first multiple of p at or above low; when that is p itself the
		// strike removes a value already counted with the base primes
		first := ((low + p - 1) / p) * p
		if first > high {
			continue
		}
		buf.Strike(p, first-low)
	}

	found := buf.CountCandidates()
	if err := buf.Release(); err != nil {
		return 0, 0, err
	}
	return found, time.Since(started), nil
}
