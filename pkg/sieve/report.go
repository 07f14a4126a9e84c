package sieve

import "time"

// SegmentReport is a snapshot of the sweep's counters taken after one
// segment. It is advisory observability data; the correctness contract is
// the Summary's final count.
type SegmentReport struct {
	// Index is the zero-based segment number; Segments is the total the
	// sweep will process.
	Index    int
	Segments int

	// Low and High are the segment's inclusive integer bounds.
	Low  uint64
	High uint64

	// Found is the number of primes in [Low, High]; RunningTotal includes
	// the base primes and every earlier segment.
	Found        uint64
	RunningTotal uint64

	SegmentElapsed time.Duration
	RunElapsed     time.Duration
}

// Progress holds throughput figures derived from a SegmentReport.
type Progress struct {
	// Percent of the search space covered so far, in [0, 100].
	Percent float64

	// Rate is integers processed per second over the whole run so far.
	// Zero when no wall time has elapsed yet.
	Rate float64

	// ETA estimates the remaining wall time at the current rate. Only
	// meaningful when ETAValid is set; a degenerate rate (zero elapsed
	// time on a very fast segment) leaves it unset rather than dividing
	// by zero.
	ETA      time.Duration
	ETAValid bool
}

// Progress derives throughput figures for a run toward limit. It is a pure
// function of the report; calling it never mutates run state, so it is safe
// after every segment and again for a final summary.
func (r SegmentReport) Progress(limit uint64) Progress {
	p := Progress{Percent: 100}
	if limit > 0 {
		p.Percent = 100 * float64(r.High) / float64(limit)
	}
	if r.RunElapsed > 0 {
		p.Rate = float64(r.High) / r.RunElapsed.Seconds()
	}
	if p.Rate > 0 && limit >= r.High {
		remaining := float64(limit-r.High) / p.Rate
		p.ETA = time.Duration(remaining * float64(time.Second))
		p.ETAValid = true
	}
	return p
}

// Throughput returns integers processed per second within the segment
// itself, or zero when the segment completed in under the clock resolution.
func (r SegmentReport) Throughput() float64 {
	if r.SegmentElapsed <= 0 {
		return 0
	}
	return float64(r.High-r.Low+1) / r.SegmentElapsed.Seconds()
}

// Summary is the final result of a sieve run.
type Summary struct {
	Limit      uint64
	PrimeCount uint64

	// BasePrimeCount is the portion of PrimeCount found by the base sieve;
	// zero on the single-buffer path, which has no base phase.
	BasePrimeCount uint64

	// Segments is the number of segment buffers swept; zero on the
	// single-buffer path.
	Segments int

	Elapsed time.Duration

	// Sample holds the first primes found when requested via
	// WithSampleSize; nil otherwise.
	Sample []uint64
}

// AverageRate returns integers processed per second across the whole run,
// or zero when no wall time elapsed.
func (s *Summary) AverageRate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Limit) / s.Elapsed.Seconds()
}
