// Package bitcount provides population-count kernels for bit-packed signals.
//
// The registry-based dispatch mirrors the vector math kernels: several
// implementation variants (hardware intrinsic, portable SWAR) coexist, and the
// best one for the current CPU is selected at package initialization.
// All variants return identical results.
package bitcount

import (
	"sync"

	"github.com/cwbudde/algo-tuner/internal/cpu"
)

// Entry represents a registered population-count implementation.
type Entry struct {
	// Name is a human-readable identifier for this implementation (e.g., "popcnt", "portable").
	Name string

	// Level indicates the instruction set required for this implementation.
	Level cpu.Level

	// Priority determines selection order when multiple compatible implementations exist.
	// Higher priority implementations are preferred. Suggested priorities:
	//   - Portable (LevelNone): 0
	//   - POPCNT/ASIMD: 10
	Priority int

	// Count returns the number of one bits in v.
	Count func(v uint64) int
}

// Registry manages the registration and lookup of population-count kernels.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	sorted  bool // true if entries are sorted by priority (descending)
}

// Global is the default registry instance used by Count.
var Global = &Registry{}

// Register adds an implementation variant to the registry.
//
// All registrations should complete before the first call to Lookup().
func (r *Registry) Register(entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	r.sorted = false
}

// Lookup finds the best implementation variant for the given CPU features.
//
// Returns the highest-priority entry compatible with the CPU, or nil when no
// compatible entry is registered.
func (r *Registry) Lookup(features cpu.Features) *Entry {
	r.mu.Lock()
	r.sortLocked()
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		entry := &r.entries[i]
		if cpu.Supports(features, entry.Level) {
			return entry
		}
	}

	return nil
}

// sortLocked sorts entries by priority in descending order.
// Must be called with r.mu held (write lock).
func (r *Registry) sortLocked() {
	if r.sorted {
		return
	}

	// Insertion sort keeps registration order among equal priorities.
	for i := 1; i < len(r.entries); i++ {
		key := r.entries[i]
		j := i - 1
		for j >= 0 && r.entries[j].Priority < key.Priority {
			r.entries[j+1] = r.entries[j]
			j--
		}
		r.entries[j+1] = key
	}

	r.sorted = true
}

// ListEntries returns a copy of all registered entries, sorted by priority.
func (r *Registry) ListEntries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sortLocked()

	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)

	return entries
}

// Reset clears all registered entries.
// This function is intended for testing purposes only.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.sorted = false
}
