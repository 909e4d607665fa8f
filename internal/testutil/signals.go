package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// PCMSine generates a sine at full-scale amplitude in (0, 1] as 16-bit PCM.
func PCMSine(freqHz, sampleRate, amplitude float64, length int) []int16 {
	return toPCM(DeterministicSine(freqHz, sampleRate, amplitude, length))
}

// PCMNoise generates seeded white noise in [-amplitude, amplitude] as 16-bit PCM.
func PCMNoise(seed int64, amplitude float64, length int) []int16 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return toPCM(out)
}

// PCMConst generates a constant-valued PCM signal.
func PCMConst(value int16, length int) []int16 {
	out := make([]int16, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Concat joins PCM segments into one signal.
func Concat(parts ...[]int16) []int16 {
	n := 0
	for _, p := range parts {
		n += len(p)
	}

	out := make([]int16, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func toPCM(x []float64) []int16 {
	out := make([]int16, len(x))
	for i, v := range x {
		s := math.Round(v * math.MaxInt16)
		out[i] = int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, s)))
	}
	return out
}
