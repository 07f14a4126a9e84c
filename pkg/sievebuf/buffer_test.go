package sievebuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidRange(t *testing.T) {
	_, err := New(10, 9)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNew_ResourceExhausted(t *testing.T) {
	// a span just below maxInt passes range validation but exceeds any
	// real address space, so the mapping itself must fail
	_, err := New(0, uint64(maxInt)-2)
	assert.ErrorIs(t, err, ErrResourceExhausted)
}

func TestBuffer_StartsAllCandidates(t *testing.T) {
	buf, err := New(10, 20)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, buf.Release())
	}()

	assert.Equal(t, uint64(10), buf.Low())
	assert.Equal(t, uint64(20), buf.High())
	assert.Equal(t, uint64(11), buf.Span())
	assert.Equal(t, uint64(11), buf.CountCandidates())

	for v := uint64(10); v <= 20; v++ {
		assert.True(t, buf.Candidate(v), "value %d should start as candidate", v)
	}
	assert.False(t, buf.Candidate(9))
	assert.False(t, buf.Candidate(21))
}

func TestBuffer_MarkComposite(t *testing.T) {
	buf, err := New(0, 9)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, buf.Release())
	}()

	buf.MarkComposite(0)
	buf.MarkComposite(1)
	// out of range, must be ignored
	buf.MarkComposite(10)

	assert.False(t, buf.Candidate(0))
	assert.False(t, buf.Candidate(1))
	assert.Equal(t, uint64(8), buf.CountCandidates())
}

func TestBuffer_StrikeProgression(t *testing.T) {
	buf, err := New(0, 30)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, buf.Release())
	}()

	buf.Strike(3, 6)

	for v := uint64(0); v <= 30; v++ {
		struck := v >= 6 && v%3 == 0
		assert.Equal(t, !struck, buf.Candidate(v), "value %d", v)
	}
	assert.Equal(t, uint64(31-9), buf.CountCandidates())
}

func TestBuffer_StrikeIdempotent(t *testing.T) {
	first, err := New(0, 100)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, first.Release())
	}()
	second, err := New(0, 100)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, second.Release())
	}()

	first.Strike(7, 14)
	second.Strike(7, 14)
	second.Strike(7, 14)

	assert.Equal(t, first.CountCandidates(), second.CountCandidates())
	assert.Equal(t, first.AppendCandidates(nil, 0), second.AppendCandidates(nil, 0))
}

func TestBuffer_StrikeOutOfRangeStart(t *testing.T) {
	buf, err := New(0, 15)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, buf.Release())
	}()

	buf.Strike(2, buf.Span())
	assert.Equal(t, buf.Span(), buf.CountCandidates())
}

func TestBuffer_StrikeZeroStrideIgnored(t *testing.T) {
	buf, err := New(0, 15)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, buf.Release())
	}()

	buf.Strike(0, 0)
	assert.Equal(t, buf.Span(), buf.CountCandidates())
}

func TestBuffer_AppendCandidates(t *testing.T) {
	buf, err := New(20, 29)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, buf.Release())
	}()

	buf.Strike(2, 0) // strikes every even value, 20 is local index 0

	assert.Equal(t, []uint64{21, 23, 25, 27, 29}, buf.AppendCandidates(nil, 0))
	assert.Equal(t, []uint64{21, 23}, buf.AppendCandidates(nil, 2))

	// appends to the destination rather than replacing it
	dst := []uint64{7}
	assert.Equal(t, []uint64{7, 21, 23}, buf.AppendCandidates(dst, 2))
}

func TestBuffer_Release(t *testing.T) {
	buf, err := New(0, 1023)
	require.NoError(t, err)

	assert.False(t, buf.Released())
	require.NoError(t, buf.Release())
	assert.True(t, buf.Released())

	// released buffers answer safely instead of touching unmapped memory
	assert.False(t, buf.Candidate(5))
	assert.Equal(t, uint64(0), buf.CountCandidates())
	assert.Empty(t, buf.AppendCandidates(nil, 0))
	buf.Strike(2, 0)
	buf.MarkComposite(3)

	// second release is a no-op
	assert.NoError(t, buf.Release())
}
