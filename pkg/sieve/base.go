package sieve

import (
	"fmt"

	"github.com/primetide/primetide/pkg/sievebuf"
)

// BasePrimes sieves [0, sqrtLimit] with a single buffer and returns the
// primes in ascending order. This list is sufficient to strike every
// composite in any range up to sqrtLimit squared, so a segmented sweep
// computes it once and shares it read-only across all segments.
func BasePrimes(sqrtLimit uint64) ([]uint64, error) {
	buf, err := sievebuf.New(0, sqrtLimit)
	if err != nil {
		return nil, fmt.Errorf("base sieve: %w", err)
	}

	buf.MarkComposite(0)
	buf.MarkComposite(1)

	for i := uint64(2); i*i <= sqrtLimit; i++ {
		if !buf.Candidate(i) {
			continue
		}
		// low is 0 here, so the local index of i*i is i*i itself
		buf.Strike(i, i*i)
	}

	primes := buf.AppendCandidates(nil, 0)
	if err := buf.Release(); err != nil {
		return nil, fmt.Errorf("base sieve: %w", err)
	}
	return primes, nil
}
