package bitcount

import (
	"math/bits"

	"github.com/cwbudde/algo-tuner/internal/cpu"
)

const (
	m1  = 0x5555555555555555
	m2  = 0x3333333333333333
	m4  = 0x0f0f0f0f0f0f0f0f
	h01 = 0x0101010101010101
)

// registerKernels adds every built-in kernel to r.
func registerKernels(r *Registry) {
	r.Register(Entry{Name: "portable", Level: cpu.LevelNone, Priority: 0, Count: countPortable})
	r.Register(Entry{Name: "popcnt", Level: cpu.LevelPOPCNT, Priority: 10, Count: countIntrinsic})
	r.Register(Entry{Name: "asimd", Level: cpu.LevelASIMD, Priority: 10, Count: countIntrinsic})
}

// countIntrinsic lowers to POPCNT on amd64 and CNT on arm64.
func countIntrinsic(v uint64) int {
	return bits.OnesCount64(v)
}

// countPortable is the branch-free SWAR population count.
func countPortable(v uint64) int {
	v -= (v >> 1) & m1
	v = (v & m2) + ((v >> 2) & m2)
	v = (v + (v >> 4)) & m4

	return int((v * h01) >> 56)
}
