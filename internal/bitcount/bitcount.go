package bitcount

import (
	"sync/atomic"

	"github.com/cwbudde/algo-tuner/internal/cpu"
)

var active atomic.Pointer[Entry]

func init() {
	registerKernels(Global)
	Select(cpu.DetectFeatures())
}

// Count returns the number of one bits in v using the selected kernel.
func Count(v uint64) int {
	return active.Load().Count(v)
}

// Active returns the name of the selected kernel.
func Active() string {
	return active.Load().Name
}

// Select re-resolves the kernel for the given features and returns its name.
// Unsupported feature sets fall back to the portable kernel.
func Select(features cpu.Features) string {
	entry := Global.Lookup(features)
	if entry == nil {
		entry = &Entry{Name: "portable", Level: cpu.LevelNone, Count: countPortable}
	}

	active.Store(entry)

	return entry.Name
}
