package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/dsp/note"
	"github.com/cwbudde/algo-tuner/dsp/signal"
	"github.com/cwbudde/algo-tuner/internal/wavio"
)

func runTone(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("tone", flag.ContinueOnError)
	name := fs.String("note", "", "note name (A2); overrides -freq")
	freq := fs.Float64("freq", 110, "frequency in Hz")
	a4 := fs.Float64("a4", envFloat("TUNER_A4", note.DefaultA4), "concert pitch in Hz")
	rate := fs.Int("rate", 16000, "sample rate in Hz")
	seconds := fs.Float64("seconds", 2, "duration in seconds")
	amp := fs.Float64("amp", 0.5, "peak amplitude relative to full scale")
	pluck := fs.Bool("pluck", false, "plucked string instead of a sine")
	harmonics := fs.Int("harmonics", 8, "harmonics of a plucked string")
	decay := fs.Float64("decay", 1, "decay time constant of a plucked string in seconds")
	lead := fs.Float64("lead", 0, "leading silence in seconds")
	noise := fs.Float64("noise", 0, "white noise amplitude mixed into the tone")
	seed := fs.Int64("seed", 1, "noise seed")
	verbose := fs.Bool("v", false, "debug logging")
	fs.SetOutput(stdout)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("tone expects exactly one output file")
	}

	logger := newLogger(os.Stderr, *verbose)

	hz := *freq
	if *name != "" {
		n, err := note.Parse(*name, *a4)
		if err != nil {
			return err
		}
		hz = n.Frequency
	}

	if *rate <= 0 || !core.IsFinitePositive(*seconds) || *lead < 0 {
		return fmt.Errorf("rate, duration and lead must be positive: %d %f %f", *rate, *seconds, *lead)
	}
	if *amp < 0 || *noise < 0 || *amp+*noise > 1 {
		return fmt.Errorf("amplitude plus noise must be in [0, 1]: %f + %f", *amp, *noise)
	}

	g := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(float64(*rate))},
		signal.WithSeed(*seed),
	)
	samples := int(*seconds * float64(*rate))

	var (
		x   []float64
		err error
	)
	if *pluck {
		x, err = g.Pluck(hz, *amp, samples, *harmonics, *decay)
	} else {
		x, err = g.Sine(hz, *amp, samples)
	}
	if err != nil {
		return err
	}

	if *noise > 0 {
		n, err := g.WhiteNoise(*noise, samples)
		if err != nil {
			return err
		}
		for i, v := range n {
			x[i] += v
		}
	}

	pcm := make([]int16, int(*lead*float64(*rate)), int(*lead*float64(*rate))+len(x))
	pcm = append(pcm, signal.ToPCM16(x)...)

	if err := wavio.WriteMono16(fs.Arg(0), pcm, *rate); err != nil {
		return err
	}

	logger.DebugContext(ctx, "wrote tone",
		slog.String("path", fs.Arg(0)),
		slog.Float64("frequency", hz),
		slog.Int("samples", len(pcm)),
		slog.Bool("pluck", *pluck),
		slog.Float64("noise", *noise),
	)

	fmt.Fprintf(stdout, "wrote %s: %.2f Hz, %d samples at %d Hz\n", fs.Arg(0), hz, len(pcm), *rate)

	return nil
}
