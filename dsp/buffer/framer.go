package buffer

import (
	"errors"
	"fmt"
)

// ErrInvalidFrame is returned for unusable window or hop sizes.
var ErrInvalidFrame = errors.New("buffer: invalid frame geometry")

// Framer cuts a sample stream into windows of a fixed length whose start
// positions advance by hop samples. A hop larger than the window skips the
// samples in between.
type Framer struct {
	buf     *Buffer
	window  int
	hop     int
	pending int // samples still to drop before the next window
	frames  int
}

// NewFramer creates a framer for the given window and hop lengths.
func NewFramer(window, hop int) (*Framer, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: window must be > 0: %d", ErrInvalidFrame, window)
	}
	if hop <= 0 {
		return nil, fmt.Errorf("%w: hop must be > 0: %d", ErrInvalidFrame, hop)
	}

	b := New(0)
	b.Grow(window + hop)

	return &Framer{buf: b, window: window, hop: hop}, nil
}

// Window returns the window length.
func (f *Framer) Window() int { return f.window }

// Hop returns the hop length.
func (f *Framer) Hop() int { return f.hop }

// Write appends samples to the stream. Windows previously returned by Next
// become invalid.
func (f *Framer) Write(p []int16) {
	f.settle()

	if f.pending > 0 {
		n := min(f.pending, len(p))
		p = p[n:]
		f.pending -= n
	}

	f.buf.Append(p...)
}

// Next returns the next complete window, or false when more samples are
// needed. The window aliases internal storage and stays valid until the next
// call to Next, Write or Reset.
func (f *Framer) Next() ([]int16, bool) {
	f.settle()

	if f.pending > 0 || f.buf.Len() < f.window {
		return nil, false
	}

	f.pending = f.hop
	f.frames++

	return f.buf.Samples()[:f.window], true
}

// settle drops the samples the last window advanced past.
func (f *Framer) settle() {
	if f.pending == 0 {
		return
	}

	n := min(f.pending, f.buf.Len())
	f.buf.Discard(n)
	f.pending -= n
}

// Buffered returns how many received samples are still waiting to be part
// of a future window.
func (f *Framer) Buffered() int {
	return max(0, f.buf.Len()-f.pending)
}

// Frames returns the number of windows returned since creation or Reset.
func (f *Framer) Frames() int { return f.frames }

// Offset returns the stream position of the most recently returned window,
// or -1 before the first one.
func (f *Framer) Offset() int {
	if f.frames == 0 {
		return -1
	}
	return (f.frames - 1) * f.hop
}

// Reset discards all buffered samples and restarts the stream at offset 0.
func (f *Framer) Reset() {
	f.buf.Resize(0)
	f.pending = 0
	f.frames = 0
}
