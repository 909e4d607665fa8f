package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Generator creates deterministic test signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: 1,
	}
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := NewGenerator(coreOpts...)
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave starting at phase zero.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Pluck generates a plucked-string tone: harmonics 1..n at amplitude 1/h,
// normalized to the given peak and shaped by an exponential decay with time
// constant decaySeconds. Harmonics at or above Nyquist are skipped.
func (g *Generator) Pluck(freqHz, amplitude float64, samples, harmonics int, decaySeconds float64) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("pluck samples must be > 0: %d", samples)
	}
	if harmonics < 1 {
		return nil, fmt.Errorf("pluck harmonics must be >= 1: %d", harmonics)
	}
	if !core.IsFinitePositive(decaySeconds) {
		return nil, fmt.Errorf("pluck decay must be positive and finite: %f", decaySeconds)
	}
	if !core.IsFinitePositive(freqHz) || freqHz >= g.cfg.SampleRate/2 {
		return nil, fmt.Errorf("pluck frequency must be in (0, %f): %f", g.cfg.SampleRate/2, freqHz)
	}

	partials := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for h := 1; h <= harmonics && float64(h)*freqHz < g.cfg.SampleRate/2; h++ {
		gain := 1 / float64(h)
		hs := step * float64(h)
		for i := range partials {
			partials[i] += gain * math.Sin(hs*float64(i))
		}
	}

	out, err := Normalize(partials, amplitude)
	if err != nil {
		return nil, err
	}

	env := make([]float64, samples)
	tau := decaySeconds * g.cfg.SampleRate
	for i := range env {
		env[i] = math.Exp(-float64(i) / tau)
	}
	vecmath.MulBlockInPlace(out, env)

	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}

// ToPCM16 converts full-scale float samples to signed 16-bit PCM, rounding
// half away from zero and clipping at the integer range.
func ToPCM16(data []float64) []int16 {
	return ToPCM16Into(nil, data)
}

// ToPCM16Into is ToPCM16 writing into dst, which is reused when its capacity
// allows. The returned slice has len(data) samples.
func ToPCM16Into(dst []int16, data []float64) []int16 {
	dst = core.EnsureLen(dst, len(data))
	for i, v := range data {
		dst[i] = int16(core.Clamp(math.Round(v*math.MaxInt16), math.MinInt16, math.MaxInt16))
	}
	return dst
}
