package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tuner/dsp/bitstream"
)

// A window needs at least this many rising edges, and this many transitions
// inside the correlation overlap, to carry a period.
const (
	minRisingEdges = 2
	minEdges       = 2
)

// correlator is the word-width independent view of a bitstream.
type correlator interface {
	Len() int
	OverlapBits() int
	Clear()
	Set(i int, v bool)
	Distance(lag int) int
	Correlate(minLag, maxLag int, f func(lag, distance int))
}

// Estimate describes the outcome of one detection.
type Estimate struct {
	Frequency float64 // Hz, 0 when no pitch was found
	Lag       int     // best lag in samples, 0 when the scan did not run
	Distance  int     // Hamming distance at Lag
	Edges     int     // level changes inside the correlation overlap
	Harmonic  int     // divisor applied to Lag by octave correction, 0 when rejected
}

// Detector estimates the fundamental frequency of one analysis window.
type Detector struct {
	cfg    Config
	minLag int
	maxLag int

	bits  correlator
	zc    ZeroCross
	visit func(lag, distance int)

	bestLag      int
	bestDistance int
}

// NewDetector creates a detector. Tracker-only options are accepted and ignored.
func NewDetector(opts ...Option) (*Detector, error) {
	cfg := applyOptions(opts)
	if err := cfg.validateDetector(); err != nil {
		return nil, err
	}

	return newDetector(cfg)
}

func newDetector(cfg Config) (*Detector, error) {
	bits, err := newCorrelator(cfg.WordBits, cfg.WindowSize)
	if err != nil {
		return nil, err
	}

	d := &Detector{cfg: cfg, bits: bits}
	d.minLag, d.maxLag = cfg.lags()
	d.visit = d.observe

	return d, nil
}

func newCorrelator(wordBits, n int) (correlator, error) {
	switch wordBits {
	case 8:
		return newBitstream[uint8](n)
	case 16:
		return newBitstream[uint16](n)
	case 32:
		return newBitstream[uint32](n)
	case 64:
		return newBitstream[uint64](n)
	default:
		return newBitstream[uint](n)
	}
}

func newBitstream[T bitstream.Word](n int) (correlator, error) {
	b, err := bitstream.New[T](n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return b, nil
}

// DetectFrequency estimates the pitch of one window with the default band.
func DetectFrequency(samples []int16, sampleRate float64, windowSize int) (float64, error) {
	d, err := NewDetector(WithSampleRate(sampleRate), WithWindowSize(windowSize))
	if err != nil {
		return 0, err
	}

	return d.Detect(samples), nil
}

// Config returns the detector settings.
func (d *Detector) Config() Config { return d.cfg }

// MinLag returns the shortest period searched, in samples.
func (d *Detector) MinLag() int { return d.minLag }

// MaxLag returns the longest period searched, in samples.
func (d *Detector) MaxLag() int { return d.maxLag }

// Detect returns the fundamental frequency of the first WindowSize samples,
// or 0 when no pitch can be determined.
func (d *Detector) Detect(samples []int16) float64 {
	return d.Analyze(samples).Frequency
}

// Analyze runs a detection and reports the intermediate results.
// Lag and Distance describe the best match even when it was rejected.
func (d *Detector) Analyze(samples []int16) Estimate {
	n := d.cfg.WindowSize
	if len(samples) < n {
		return Estimate{}
	}

	if d.binarize(samples[:n]) < minRisingEdges {
		return Estimate{}
	}

	// Every level change costs one bit at lag 1.
	edges := d.bits.Distance(1)
	if edges < minEdges {
		return Estimate{Edges: edges}
	}

	d.bestLag, d.bestDistance = 0, math.MaxInt
	d.bits.Correlate(d.minLag, d.maxLag, d.visit)

	est := Estimate{Lag: d.bestLag, Distance: d.bestDistance, Edges: edges}
	if est.Lag == 0 || est.Distance > edges {
		return est
	}

	est.Harmonic = 1
	if d.cfg.OctaveCorrection {
		est.Harmonic = d.harmonic(est.Lag, est.Distance, edges)
	}

	est.Frequency = d.cfg.SampleRate * float64(est.Harmonic) / float64(est.Lag)

	return est
}

func (d *Detector) binarize(window []int16) int {
	d.zc.Reset()
	d.bits.Clear()

	rising := 0
	for i, s := range window {
		prev := d.zc.Level()
		if d.zc.Next(s) {
			d.bits.Set(i, true)
			if !prev {
				rising++
			}
		}
	}

	return rising
}

// observe keeps the first lag of the smallest distance.
func (d *Detector) observe(lag, distance int) {
	if distance < d.bestDistance {
		d.bestDistance = distance
		d.bestLag = lag
	}
}

// harmonic returns the largest k for which lag/k, and for k > 2 also
// 2*lag/k, match within distance+edges/2. It returns 1 when no k qualifies.
func (d *Detector) harmonic(lag, distance, edges int) int {
	limit := distance + edges/2

	for k := lag / d.minLag; k >= 2; k-- {
		ok := d.matches(lag/k, limit)
		if ok && k > 2 {
			ok = d.matches(2*lag/k, limit)
		}

		if ok {
			return k
		}
	}

	return 1
}

// matches reports whether the lag l or l+1 stays within limit.
func (d *Detector) matches(l, limit int) bool {
	for _, c := range [2]int{l, l + 1} {
		if c >= d.minLag && c <= d.maxLag && d.bits.Distance(c) <= limit {
			return true
		}
	}

	return false
}
