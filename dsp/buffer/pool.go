package buffer

import "sync"

// Pool recycles int16 scratch buffers, such as the read chunks that feed a
// Framer, so a long stream does not allocate one per read.
type Pool struct {
	buffers sync.Pool
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	p := &Pool{}
	p.buffers.New = func() any { return new(Buffer) }
	return p
}

// Get returns a zeroed buffer of length samples. Hand it back with Put.
func (p *Pool) Get(length int) *Buffer {
	b := p.buffers.Get().(*Buffer)
	b.Resize(length)
	b.Zero()
	return b
}

// Put recycles b. A nil buffer is ignored; b must not be used afterwards.
func (p *Pool) Put(b *Buffer) {
	if b != nil {
		p.buffers.Put(b)
	}
}
