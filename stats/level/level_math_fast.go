//go:build fastmath

package level

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// ln10 is the natural logarithm of 10.
const ln10 = 2.30258509299404568401799145468

// ampToDB converts a non-negative amplitude to dB using fast approximation,
// -Inf for zero.
func ampToDB(a float64) float64 {
	if a == 0 {
		return math.Inf(-1)
	}
	return 20 * approx.FastLog(a) / ln10
}

// mathSqrt computes sqrt(x) using fast approximation.
func mathSqrt(x float64) float64 {
	return approx.FastSqrt(x)
}
