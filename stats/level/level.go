// Package level measures the loudness of 16-bit PCM frames relative to full
// scale.
package level

import "math"

// fullScale maps int16 samples onto [-1, 1).
const fullScale = 32768

// Level holds the amplitude statistics of a block of samples. Amplitudes are
// relative to full scale; dB values are dBFS.
//
//nolint:revive
type Level struct {
	Length         int
	DC             float64 // mean
	RMS            float64
	RMS_dB         float64
	Peak           float64 // max |sample|
	Peak_dB        float64
	CrestFactor_dB float64 // 0 for silence
	ZeroCrossings  int
	Clipped        int // samples at either rail
}

func emptyLevel() Level {
	return Level{
		RMS_dB:  math.Inf(-1),
		Peak_dB: math.Inf(-1),
	}
}

// Measure computes the level of one frame.
func Measure(frame []int16) Level {
	var m Meter
	m.Update(frame)

	return m.Result()
}

// RMS returns the root-mean-square of frame relative to full scale.
func RMS(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}

	var sumSq float64
	for _, s := range frame {
		x := float64(s)
		sumSq += x * x
	}

	return mathSqrt(sumSq/float64(len(frame))) / fullScale
}

// Peak returns the largest absolute sample of frame relative to full scale.
func Peak(frame []int16) float64 {
	peak := 0
	for _, s := range frame {
		peak = max(peak, abs(int(s)))
	}

	return float64(peak) / fullScale
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Meter accumulates levels across consecutive blocks. Feeding a signal in
// pieces gives the same result as measuring it at once.
type Meter struct {
	n             int
	sum           int64
	sumSq         float64
	peak          int
	zeroCrossings int
	clipped       int
	last          int16
}

// NewMeter creates an empty meter.
func NewMeter() *Meter {
	return &Meter{}
}

// Update adds a block of samples.
func (m *Meter) Update(frame []int16) {
	for _, s := range frame {
		x := float64(s)

		m.sum += int64(s)
		m.sumSq += x * x
		m.peak = max(m.peak, abs(int(s)))

		if s == math.MaxInt16 || s == math.MinInt16 {
			m.clipped++
		}

		if m.n > 0 && (m.last < 0 && s > 0 || m.last > 0 && s < 0) {
			m.zeroCrossings++
		}

		m.last = s
		m.n++
	}
}

// Result returns the statistics of everything added since creation or Reset.
func (m *Meter) Result() Level {
	if m.n == 0 {
		return emptyLevel()
	}

	nf := float64(m.n)
	rms := mathSqrt(m.sumSq/nf) / fullScale
	peak := float64(m.peak) / fullScale

	var crestdB float64
	if rms > 0 {
		crestdB = ampToDB(peak / rms)
	}

	return Level{
		Length:         m.n,
		DC:             float64(m.sum) / nf / fullScale,
		RMS:            rms,
		RMS_dB:         ampToDB(rms),
		Peak:           peak,
		Peak_dB:        ampToDB(peak),
		CrestFactor_dB: crestdB,
		ZeroCrossings:  m.zeroCrossings,
		Clipped:        m.clipped,
	}
}

// Reset clears the meter.
func (m *Meter) Reset() {
	*m = Meter{}
}
