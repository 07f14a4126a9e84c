// primetide counts the primes up to a bound with a sieve of Eratosthenes.
// Bounds that fit one buffer run in a single pass; larger bounds are swept
// in fixed-size segments so peak memory stays bounded by --segment-size
// rather than by the bound itself.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/primetide/primetide/pkg/sieve"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		limit       uint64
		segmentSize uint64
		sample      int
		verbose     bool
	)

	flagSet := pflag.NewFlagSet("primetide", pflag.ContinueOnError)
	flagSet.Uint64Var(&limit, "limit", 1_000_000_000_000, "count every prime up to this bound (inclusive)")
	flagSet.Uint64Var(&segmentSize, "segment-size", 1_000_000_000, "integers per segment buffer; bounds peak memory")
	flagSet.IntVar(&sample, "sample", 0, "also print the first N primes (single-buffer mode only)")
	flagSet.BoolVar(&verbose, "verbose", false, "enable debug logging")
	help := flagSet.BoolP("help", "h", false, "show help")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if *help {
		fmt.Fprintf(os.Stderr, "usage: primetide [flags]\n\n")
		flagSet.PrintDefaults()
		return nil
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if limit <= segmentSize {
		return runWhole(limit, sample)
	}
	if sample > 0 {
		return fmt.Errorf("--sample needs the whole range in one buffer; raise --segment-size above --limit")
	}
	return runSegmented(limit, segmentSize)
}

func runWhole(limit uint64, sample int) error {
	summary, err := sieve.Whole(limit, sieve.WithSampleSize(sample))
	if err != nil {
		return err
	}
	if len(summary.Sample) > 0 {
		fmt.Printf("first %d primes: %v\n", len(summary.Sample), summary.Sample)
	}
	printSummary(summary)
	return nil
}

func runSegmented(limit, segmentSize uint64) error {
	summary, err := sieve.Segmented(limit, segmentSize, sieve.WithOnSegment(func(r sieve.SegmentReport) {
		p := r.Progress(limit)
		eta := "n/a"
		if p.ETAValid {
			eta = p.ETA.Round(time.Second).String()
		}
		fmt.Printf("segment %d/%d [%d, %d]  found=%d total=%d  %.1f%%  %.0f nums/sec  eta=%s\n",
			r.Index+1, r.Segments, r.Low, r.High, r.Found, r.RunningTotal,
			p.Percent, r.Throughput(), eta)
	}))
	if err != nil {
		return err
	}
	printSummary(summary)
	return nil
}

func printSummary(s *sieve.Summary) {
	fmt.Printf("%d primes up to %d in %s", s.PrimeCount, s.Limit, s.Elapsed.Round(time.Millisecond))
	if rate := s.AverageRate(); rate > 0 {
		fmt.Printf(" (%.0f nums/sec)", rate)
	}
	fmt.Println()
}
