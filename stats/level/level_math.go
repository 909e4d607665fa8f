//go:build !fastmath

package level

import (
	"math"

	"github.com/cwbudde/algo-tuner/dsp/core"
)

// ampToDB converts a non-negative amplitude to dB, -Inf for zero.
func ampToDB(a float64) float64 {
	return core.LinearToDB(a)
}

// mathSqrt computes sqrt(x) using standard library math.
func mathSqrt(x float64) float64 {
	return math.Sqrt(x)
}
