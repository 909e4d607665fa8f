package buffer

// Buffer wraps an int16 PCM slice with reuse-friendly semantics.
// Analysis functions accept raw []int16; use Samples() to bridge.
type Buffer struct {
	samples []int16
}

// New returns a zero-filled Buffer of the given length.
func New(length int) *Buffer {
	if length < 0 {
		length = 0
	}
	return &Buffer{samples: make([]int16, length)}
}

// Samples returns the underlying slice.
func (b *Buffer) Samples() []int16 {
	return b.samples
}

// Len returns the current number of samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Cap returns the current capacity of the backing slice.
func (b *Buffer) Cap() int {
	return cap(b.samples)
}

// Grow ensures capacity is at least n, preserving existing data.
// If the current capacity is already >= n this is a no-op.
func (b *Buffer) Grow(n int) {
	if n <= cap(b.samples) {
		return
	}
	grown := make([]int16, len(b.samples), n)
	copy(grown, b.samples)
	b.samples = grown
}

// Resize sets the length to n, reusing existing capacity when possible.
// New elements beyond the previous length are zeroed.
func (b *Buffer) Resize(n int) {
	if n < 0 {
		n = 0
	}
	oldLen := len(b.samples)
	if n <= cap(b.samples) {
		b.samples = b.samples[:n]
	} else {
		s := make([]int16, n)
		copy(s, b.samples)
		b.samples = s
	}
	// Newly exposed elements may hold stale data from earlier use.
	if n > oldLen {
		clear(b.samples[oldLen:])
	}
}

// Append adds samples to the end, growing the backing slice as needed.
func (b *Buffer) Append(p ...int16) {
	b.samples = append(b.samples, p...)
}

// Discard removes the first n samples, keeping capacity.
// n is clamped to [0, Len()].
func (b *Buffer) Discard(n int) {
	n = max(0, min(n, len(b.samples)))
	kept := copy(b.samples, b.samples[n:])
	b.samples = b.samples[:kept]
}

// Zero sets all samples to 0.
func (b *Buffer) Zero() {
	clear(b.samples)
}
