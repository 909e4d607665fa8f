package pitch

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/dsp/note"
)

// ErrInvalidConfig is returned when a Detector or Tracker cannot be built
// from the given options.
var ErrInvalidConfig = errors.New("pitch: invalid configuration")

// Config holds the detector and tracker settings.
type Config struct {
	SampleRate   float64 // Hz
	WindowSize   int     // samples per analysis window, power of two
	WordBits     int     // bitstream word width: 0 (native), 8, 16, 32 or 64
	MinFrequency float64 // lowest detectable fundamental, Hz
	MaxFrequency float64 // highest detectable fundamental, Hz

	// OctaveCorrection promotes a lag to the fundamental it is a multiple of
	// when the shorter period matches nearly as well.
	OctaveCorrection bool

	ToleranceCents   float64 // in-tune and continuity window
	HysteresisMargin float64 // extra cents granted while already in tune
	MinStableFrames  int     // consecutive continuous frames before lock
	CooldownFrames   int     // frozen frames after a jump
	JumpCents        float64 // frame-to-frame change treated as a glitch
	ReanchorFrames   int     // drop the anchor after this many consecutive jumps, 0 = never
	ConcertPitch     float64 // A4 in Hz, for note naming
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the settings of a 16 kHz guitar and bass tuner.
func DefaultConfig() Config {
	proc := core.DefaultProcessorConfig()

	return Config{
		SampleRate:       proc.SampleRate,
		WindowSize:       proc.BlockSize,
		MinFrequency:     80,
		MaxFrequency:     1100,
		OctaveCorrection: true,
		ToleranceCents:   5,
		HysteresisMargin: 2,
		MinStableFrames:  3,
		CooldownFrames:   3,
		JumpCents:        150,
		ConcertPitch:     note.DefaultA4,
	}
}

// WithSampleRate sets the capture sample rate in Hz.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) { cfg.SampleRate = sampleRate }
}

// WithWindowSize sets the analysis window length in samples.
func WithWindowSize(n int) Option {
	return func(cfg *Config) { cfg.WindowSize = n }
}

// WithWordBits selects the bitstream word width. 0 uses the native word.
func WithWordBits(bits int) Option {
	return func(cfg *Config) { cfg.WordBits = bits }
}

// WithFrequencyRange sets the detectable fundamental band in Hz.
func WithFrequencyRange(minHz, maxHz float64) Option {
	return func(cfg *Config) {
		cfg.MinFrequency = minHz
		cfg.MaxFrequency = maxHz
	}
}

// WithOctaveCorrection enables or disables subharmonic correction.
func WithOctaveCorrection(enabled bool) Option {
	return func(cfg *Config) { cfg.OctaveCorrection = enabled }
}

// WithTolerance sets the in-tune tolerance in cents.
func WithTolerance(cents float64) Option {
	return func(cfg *Config) { cfg.ToleranceCents = cents }
}

// WithHysteresisMargin sets the in-tune hysteresis margin in cents.
func WithHysteresisMargin(cents float64) Option {
	return func(cfg *Config) { cfg.HysteresisMargin = cents }
}

// WithMinStableFrames sets how many continuous frames are needed for lock.
func WithMinStableFrames(n int) Option {
	return func(cfg *Config) { cfg.MinStableFrames = n }
}

// WithCooldownFrames sets how many frames stay frozen after a jump.
func WithCooldownFrames(n int) Option {
	return func(cfg *Config) { cfg.CooldownFrames = n }
}

// WithJumpThreshold sets the frame-to-frame change, in cents, treated as a glitch.
func WithJumpThreshold(cents float64) Option {
	return func(cfg *Config) { cfg.JumpCents = cents }
}

// WithReanchorFrames lets the tracker follow a new note after n consecutive
// rejected jumps. 0 keeps the anchor until a continuous estimate arrives.
func WithReanchorFrames(n int) Option {
	return func(cfg *Config) { cfg.ReanchorFrames = n }
}

// WithConcertPitch sets the frequency of A4 used for note naming.
func WithConcertPitch(a4 float64) Option {
	return func(cfg *Config) { cfg.ConcertPitch = a4 }
}

func applyOptions(opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// lags returns the lag range for the frequency band.
func (c Config) lags() (minLag, maxLag int) {
	return int(c.SampleRate / c.MaxFrequency), int(c.SampleRate / c.MinFrequency)
}

func (c Config) validateDetector() error {
	if !core.IsFinitePositive(c.SampleRate) {
		return fmt.Errorf("%w: sample rate must be positive and finite: %f", ErrInvalidConfig, c.SampleRate)
	}

	if !core.IsPowerOfTwo(c.WindowSize) {
		return fmt.Errorf("%w: window size must be a power of two: %d", ErrInvalidConfig, c.WindowSize)
	}

	switch c.WordBits {
	case 0, 8, 16, 32, 64:
	default:
		return fmt.Errorf("%w: word bits must be 0, 8, 16, 32 or 64: %d", ErrInvalidConfig, c.WordBits)
	}

	if !core.IsFinitePositive(c.MinFrequency) || !core.IsFinitePositive(c.MaxFrequency) ||
		c.MinFrequency >= c.MaxFrequency {
		return fmt.Errorf("%w: frequency range must satisfy 0 < min < max: [%f, %f]",
			ErrInvalidConfig, c.MinFrequency, c.MaxFrequency)
	}

	// Compare in float64 so a tiny min frequency cannot overflow the lag.
	if c.SampleRate/c.MinFrequency >= float64(c.WindowSize/2) {
		return fmt.Errorf("%w: max lag %.0f must be below half the window size %d (raise min frequency or window size)",
			ErrInvalidConfig, math.Floor(c.SampleRate/c.MinFrequency), c.WindowSize/2)
	}

	minLag, maxLag := c.lags()
	if minLag < 1 {
		return fmt.Errorf("%w: max frequency %f must not exceed the sample rate %f",
			ErrInvalidConfig, c.MaxFrequency, c.SampleRate)
	}

	if minLag > maxLag {
		return fmt.Errorf("%w: lag range is empty: [%d, %d]", ErrInvalidConfig, minLag, maxLag)
	}

	return nil
}

func (c Config) validateTracker() error {
	if err := c.validateDetector(); err != nil {
		return err
	}

	if !isFiniteNonNegative(c.ToleranceCents) {
		return fmt.Errorf("%w: tolerance must be non-negative and finite: %f", ErrInvalidConfig, c.ToleranceCents)
	}

	if !isFiniteNonNegative(c.HysteresisMargin) {
		return fmt.Errorf("%w: hysteresis margin must be non-negative and finite: %f", ErrInvalidConfig, c.HysteresisMargin)
	}

	if c.MinStableFrames < 1 {
		return fmt.Errorf("%w: min stable frames must be >= 1: %d", ErrInvalidConfig, c.MinStableFrames)
	}

	if c.CooldownFrames < 0 {
		return fmt.Errorf("%w: cooldown frames must be >= 0: %d", ErrInvalidConfig, c.CooldownFrames)
	}

	if !core.IsFinitePositive(c.JumpCents) {
		return fmt.Errorf("%w: jump threshold must be positive and finite: %f", ErrInvalidConfig, c.JumpCents)
	}

	if c.ReanchorFrames < 0 {
		return fmt.Errorf("%w: reanchor frames must be >= 0: %d", ErrInvalidConfig, c.ReanchorFrames)
	}

	if !core.IsFinitePositive(c.ConcertPitch) {
		return fmt.Errorf("%w: concert pitch must be positive and finite: %f", ErrInvalidConfig, c.ConcertPitch)
	}

	return nil
}

func isFiniteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
