package core

import "math"

// CentsPerOctave is the size of an octave on the cents scale.
const CentsPerOctave = 1200

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// IsFinitePositive reports whether v is a finite number greater than zero.
func IsFinitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Cents returns the signed interval from ref to freq: 1200*log2(freq/ref).
// Returns NaN unless both frequencies are positive.
func Cents(freq, ref float64) float64 {
	if freq <= 0 || ref <= 0 {
		return math.NaN()
	}

	return CentsPerOctave * math.Log2(freq/ref)
}

// FromCents returns the frequency that lies cents above ref.
func FromCents(ref, cents float64) float64 {
	return ref * math.Exp2(cents/CentsPerOctave)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}
