package sievebuf

import (
	"encoding/binary"
	"math/bits"

	"github.com/klauspost/cpuid/v2"
)

// strikeKernel writes composite marks at every stride-th byte from start.
// The unrolled variants issue independent stores so the CPU can retire them
// in parallel; the strided access pattern rules out real SIMD gathers, but
// wider store queues on AVX2-class cores absorb a deeper unroll.
var strikeKernel func(marks []byte, start, stride int) = strikeUnroll4

func init() {
	if cpuid.CPU.Supports(cpuid.AVX2) {
		strikeKernel = strikeUnroll8
	}
}

func strikeUnroll4(marks []byte, start, stride int) {
	i := start
	for ; i+3*stride < len(marks); i += 4 * stride {
		marks[i] = 1
		marks[i+stride] = 1
		marks[i+2*stride] = 1
		marks[i+3*stride] = 1
	}
	for ; i < len(marks); i += stride {
		marks[i] = 1
	}
}

func strikeUnroll8(marks []byte, start, stride int) {
	i := start
	for ; i+7*stride < len(marks); i += 8 * stride {
		marks[i] = 1
		marks[i+stride] = 1
		marks[i+2*stride] = 1
		marks[i+3*stride] = 1
		marks[i+4*stride] = 1
		marks[i+5*stride] = 1
		marks[i+6*stride] = 1
		marks[i+7*stride] = 1
	}
	for ; i < len(marks); i += stride {
		marks[i] = 1
	}
}

// countMarks sums the composite marks eight bytes at a time. Marks are
// always 0x01, so the popcount of a 64-bit word equals the number of marked
// flags inside it.
func countMarks(marks []byte) uint64 {
	var total uint64
	i := 0
	for ; i+32 <= len(marks); i += 32 {
		total += uint64(bits.OnesCount64(binary.LittleEndian.Uint64(marks[i:])))
		total += uint64(bits.OnesCount64(binary.LittleEndian.Uint64(marks[i+8:])))
		total += uint64(bits.OnesCount64(binary.LittleEndian.Uint64(marks[i+16:])))
		total += uint64(bits.OnesCount64(binary.LittleEndian.Uint64(marks[i+24:])))
	}
	for ; i+8 <= len(marks); i += 8 {
		total += uint64(bits.OnesCount64(binary.LittleEndian.Uint64(marks[i:])))
	}
	for ; i < len(marks); i++ {
		total += uint64(marks[i])
	}
	return total
}
