package bitstream

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/internal/bitcount"
)

// ErrInvalidSize is returned when a bitstream capacity cannot be packed.
var ErrInvalidSize = errors.New("bitstream: invalid size")

// MinWords is the smallest number of words a bitstream can hold. The
// correlation compares the first Words()/2-1 words, which must not be empty.
const MinWords = 4

// Word is the set of unsigned integer types bits can be packed into.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// Bitstream is a packed bit vector of a fixed power-of-two length.
// Bit i lives in word i/W at position i%W, least significant bit first.
type Bitstream[T Word] struct {
	words    []T
	nbits    int
	wordBits int
}

// New creates a cleared bitstream holding nbits bits.
func New[T Word](nbits int) (*Bitstream[T], error) {
	w := WordBits[T]()

	if !core.IsPowerOfTwo(nbits) {
		return nil, fmt.Errorf("%w: length must be a power of two: %d", ErrInvalidSize, nbits)
	}

	if nbits < MinWords*w {
		return nil, fmt.Errorf("%w: length must hold at least %d words of %d bits: %d",
			ErrInvalidSize, MinWords, w, nbits)
	}

	return &Bitstream[T]{
		words:    make([]T, nbits/w),
		nbits:    nbits,
		wordBits: w,
	}, nil
}

// WordBits returns the width in bits of word type T.
func WordBits[T Word]() int {
	var zero T
	return bits.Len64(uint64(^zero))
}

// Len returns the capacity in bits.
func (b *Bitstream[T]) Len() int { return b.nbits }

// WordBits returns the width of one storage word.
func (b *Bitstream[T]) WordBits() int { return b.wordBits }

// Words returns the number of storage words.
func (b *Bitstream[T]) Words() int { return len(b.words) }

// OverlapBits returns the number of bit pairs compared by Distance.
func (b *Bitstream[T]) OverlapBits() int {
	return (len(b.words)/2 - 1) * b.wordBits
}

// Clear sets every bit to zero.
func (b *Bitstream[T]) Clear() {
	clear(b.words)
}

// Set assigns bit i.
func (b *Bitstream[T]) Set(i int, v bool) {
	mask := T(1) << uint(i%b.wordBits)
	if v {
		b.words[i/b.wordBits] |= mask
	} else {
		b.words[i/b.wordBits] &^= mask
	}
}

// Get reports bit i.
func (b *Bitstream[T]) Get(i int) bool {
	return b.words[i/b.wordBits]>>uint(i%b.wordBits)&1 == 1
}

// PopCount returns the number of one bits in w.
func (b *Bitstream[T]) PopCount(w T) int {
	return bitcount.Count(uint64(w))
}

// Distance returns the Hamming distance between the first OverlapBits() bits
// and the same number of bits starting lag bits later.
// lag must lie in [0, Len()/2).
func (b *Bitstream[T]) Distance(lag int) int {
	if lag < 0 || lag >= b.nbits/2 {
		panic(fmt.Sprintf("bitstream: lag %d out of range [0, %d)", lag, b.nbits/2))
	}

	mid := len(b.words)/2 - 1
	index := lag / b.wordBits
	shift := uint(lag % b.wordBits)

	head := b.words[:mid]
	tail := b.words[index : index+mid+1]
	count := 0

	if shift == 0 {
		for i, w := range head {
			count += bitcount.Count(uint64(w ^ tail[i]))
		}

		return count
	}

	shift2 := uint(b.wordBits) - shift
	for i, w := range head {
		shifted := tail[i]>>shift | tail[i+1]<<shift2
		count += bitcount.Count(uint64(w ^ shifted))
	}

	return count
}

// AutoCorrelate calls f with the distance of every lag in [1, Len()/2),
// in ascending order.
func (b *Bitstream[T]) AutoCorrelate(f func(lag, distance int)) {
	b.Correlate(1, b.nbits/2-1, f)
}

// Correlate calls f with the distance of every lag in [minLag, maxLag],
// in ascending order. The range is clamped to [1, Len()/2).
func (b *Bitstream[T]) Correlate(minLag, maxLag int, f func(lag, distance int)) {
	minLag = max(minLag, 1)
	maxLag = min(maxLag, b.nbits/2-1)

	for lag := minLag; lag <= maxLag; lag++ {
		f(lag, b.Distance(lag))
	}
}
