package sievebuf

import (
	"errors"
	"fmt"

	"github.com/edsrzf/mmap-go"
)

var (
	ErrInvalidRange      = errors.New("invalid sieve range")
	ErrResourceExhausted = errors.New("sieve buffer allocation failed")
)

const maxInt = int(^uint(0) >> 1)

// Buffer is a candidacy map over the inclusive integer range [low, high].
// Byte k stands for the integer low+k. A zero byte means "not yet proven
// composite"; Strike and MarkComposite write 0x01 marks. Marks are always
// exactly 0x01 so the counting kernel can popcount eight flags per word.
//
// The backing store is an anonymous memory mapping rather than a Go slice:
// a fresh mapping is zero-filled by the kernel, which gives the all-candidate
// initial state without faulting a single page, the pages never enter the Go
// heap (multi-gigabyte segments would otherwise be scanned by the GC), and
// Release reclaims them deterministically with munmap instead of waiting on
// the collector.
type Buffer struct {
	low   uint64
	high  uint64
	marks mmap.MMap
}

// New maps a buffer covering [low, high]. The caller owns the mapping and
// must Release it; released memory is returned to the OS immediately.
func New(low, high uint64) (*Buffer, error) {
	if low > high {
		return nil, fmt.Errorf("%w: low %d > high %d", ErrInvalidRange, low, high)
	}
	span := high - low + 1
	if span == 0 || span > uint64(maxInt) {
		return nil, fmt.Errorf("%w: span of %d bytes is not addressable", ErrInvalidRange, span)
	}

	marks, err := mmap.MapRegion(nil, int(span), mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes: %v", ErrResourceExhausted, span, err)
	}

	return &Buffer{low: low, high: high, marks: marks}, nil
}

// Low returns the first integer covered by the buffer.
func (b *Buffer) Low() uint64 { return b.low }

// High returns the last integer covered by the buffer.
func (b *Buffer) High() uint64 { return b.high }

// Span returns the number of integers covered by the buffer.
func (b *Buffer) Span() uint64 { return b.high - b.low + 1 }

// Strike marks the arithmetic progression localStart, localStart+stride,
// localStart+2*stride, ... as composite, up to the end of the buffer.
// localStart is a buffer-local index, not an integer value: the caller has
// already aligned the first multiple to the buffer's coordinate system.
// Striking an already marked position is a no-op, so Strike is idempotent.
func (b *Buffer) Strike(stride, localStart uint64) {
	if b.marks == nil || stride == 0 || localStart >= uint64(len(b.marks)) {
		return
	}
	strikeKernel(b.marks, int(localStart), int(stride))
}

// MarkComposite force-marks a single integer value as composite. Used for 0
// and 1 in a base sieve, which no prime's progression would ever strike.
func (b *Buffer) MarkComposite(value uint64) {
	if b.marks == nil || value < b.low || value > b.high {
		return
	}
	b.marks[value-b.low] = 1
}

// Candidate reports whether the integer value is still unstruck. Values
// outside the buffer's range, or any value after Release, are not candidates.
func (b *Buffer) Candidate(value uint64) bool {
	if b.marks == nil || value < b.low || value > b.high {
		return false
	}
	return b.marks[value-b.low] == 0
}

// CountCandidates returns the number of unstruck integers in the buffer.
// A released buffer has no candidates.
func (b *Buffer) CountCandidates() uint64 {
	if b.marks == nil {
		return 0
	}
	return uint64(len(b.marks)) - countMarks(b.marks)
}

// AppendCandidates appends the unstruck integer values to dst in ascending
// order and returns the extended slice. max > 0 caps the number appended.
func (b *Buffer) AppendCandidates(dst []uint64, max int) []uint64 {
	if b.marks == nil {
		return dst
	}
	taken := 0
	for k, mark := range b.marks {
		if mark != 0 {
			continue
		}
		dst = append(dst, b.low+uint64(k))
		taken++
		if max > 0 && taken >= max {
			break
		}
	}
	return dst
}

// Release unmaps the buffer's memory. The reclamation is immediate, not
// deferred to the garbage collector: peak memory of a segmented sweep is
// bounded by a single segment only because each buffer is released before
// the next one is mapped. Release is idempotent; the buffer is unusable
// afterwards.
func (b *Buffer) Release() error {
	if b.marks == nil {
		return nil
	}
	marks := b.marks
	b.marks = nil
	if err := marks.Unmap(); err != nil {
		return fmt.Errorf("sieve buffer unmap: %w", err)
	}
	return nil
}

// Released reports whether the buffer's memory has been returned to the OS.
func (b *Buffer) Released() bool {
	return b.marks == nil
}
