// Package cpu provides CPU feature detection for bit-counting kernel selection.
//
// This package detects the population-count instructions (x86 POPCNT, ARM
// Advanced SIMD CNT) available on the current processor and caches the results
// for efficient querying.
//
// Detection is performed lazily on the first call to DetectFeatures() and the
// results are cached for subsequent calls using sync.Once for thread-safety.
package cpu

import (
	"sync"
)

// Level represents an instruction set extension a kernel depends on.
type Level int

const (
	// LevelNone indicates no hardware requirement (pure Go fallback).
	LevelNone Level = iota

	// LevelPOPCNT indicates the x86-64 POPCNT instruction.
	LevelPOPCNT

	// LevelASIMD indicates ARM Advanced SIMD, which carries the CNT instruction.
	LevelASIMD
)

// String returns a human-readable name for the level.
func (l Level) String() string {
	switch l {
	case LevelNone:
		return "None"
	case LevelPOPCNT:
		return "POPCNT"
	case LevelASIMD:
		return "ASIMD"
	default:
		return "Unknown"
	}
}

// Features describes CPU capabilities relevant to kernel selection.
type Features struct {
	HasPOPCNT bool // x86 population count instruction
	HasASIMD  bool // ARM Advanced SIMD (NEON)

	// Control flags
	ForceGeneric bool // Disable all hardware kernels (for testing/debugging)

	// Runtime information
	Architecture string // runtime.GOARCH (e.g., "amd64", "arm64")
}

var (
	// detectedFeatures holds the cached CPU features detected on this system.
	detectedFeatures Features

	// detectOnce ensures feature detection runs exactly once, thread-safely.
	detectOnce sync.Once

	// detectMutex serializes access to detectOnce/detectedFeatures.
	detectMutex sync.Mutex

	// forcedFeatures allows overriding actual hardware detection for testing.
	forcedFeatures *Features

	// forcedMutex protects forcedFeatures from concurrent access during testing.
	forcedMutex sync.RWMutex
)

// DetectFeatures returns the CPU features available on the current system.
//
// Detection is performed once on the first call and cached for subsequent calls.
// This function is thread-safe and can be called concurrently from multiple goroutines.
func DetectFeatures() Features {
	forcedMutex.RLock()
	forced := forcedFeatures
	forcedMutex.RUnlock()

	if forced != nil {
		return *forced
	}

	detectMutex.Lock()
	detectOnce.Do(func() {
		detectedFeatures = detectFeaturesImpl()
	})
	features := detectedFeatures
	detectMutex.Unlock()

	return features
}

// HasPOPCNT returns true if the CPU supports the x86 POPCNT instruction.
func HasPOPCNT() bool {
	return DetectFeatures().HasPOPCNT
}

// HasASIMD returns true if the CPU supports ARM Advanced SIMD instructions.
func HasASIMD() bool {
	return DetectFeatures().HasASIMD
}

// SetForcedFeatures overrides CPU feature detection with the specified features.
// This is intended for testing purposes only.
func SetForcedFeatures(f Features) {
	forcedMutex.Lock()
	defer forcedMutex.Unlock()
	forced := f
	forcedFeatures = &forced
}

// ResetDetection clears any forced features and the detection cache.
// This is intended for testing purposes.
func ResetDetection() {
	forcedMutex.Lock()
	forcedFeatures = nil
	forcedMutex.Unlock()

	detectMutex.Lock()
	detectOnce = sync.Once{}
	detectedFeatures = Features{}
	detectMutex.Unlock()
}

// Supports returns true if the given CPU features support the specified level.
// This function is used by the bitcount registry to determine kernel compatibility.
func Supports(features Features, level Level) bool {
	if features.ForceGeneric {
		return level == LevelNone
	}

	switch level {
	case LevelNone:
		return true
	case LevelPOPCNT:
		return features.HasPOPCNT
	case LevelASIMD:
		return features.HasASIMD
	default:
		return false
	}
}
