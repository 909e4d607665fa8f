package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-tuner/dsp/buffer"
	"github.com/cwbudde/algo-tuner/dsp/note"
	"github.com/cwbudde/algo-tuner/dsp/pitch"
	"github.com/cwbudde/algo-tuner/internal/bitcount"
	"github.com/cwbudde/algo-tuner/internal/wavio"
	"github.com/cwbudde/algo-tuner/stats/level"
)

const readChunk = 4096

type analyzeSummary struct {
	frames int
	stable int
	inTune int
	last   pitch.Reading
	input  level.Level
}

func runAnalyze(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	window := fs.Int("window", envInt("TUNER_WINDOW", 1024), "analysis window in samples (power of two)")
	hop := fs.Int("hop", envInt("TUNER_HOP", 256), "hop between windows in samples")
	ref := fs.String("ref", envString("TUNER_REFERENCE", "auto"), "target note (A2), frequency in Hz, or auto")
	tolerance := fs.Float64("tolerance", envFloat("TUNER_TOLERANCE", 5), "in-tune tolerance in cents")
	margin := fs.Float64("margin", envFloat("TUNER_MARGIN", 2), "in-tune hysteresis margin in cents")
	a4 := fs.Float64("a4", envFloat("TUNER_A4", note.DefaultA4), "concert pitch in Hz")
	minHz := fs.Float64("min", 80, "lowest detectable frequency in Hz")
	maxHz := fs.Float64("max", 1100, "highest detectable frequency in Hz")
	wordBits := fs.Int("word", 0, "bitstream word width: 8, 16, 32, 64 or 0 for native")
	reanchor := fs.Int("reanchor", 0, "follow a new note after this many rejected frames, 0 = never")
	summary := fs.Bool("summary", false, "print only the summary")
	verbose := fs.Bool("v", false, "debug logging")
	fs.SetOutput(stdout)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("analyze expects exactly one WAV file")
	}

	logger := newLogger(os.Stderr, *verbose)

	target, err := parseReference(*ref, *a4)
	if err != nil {
		return err
	}

	r, err := wavio.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer r.Close()

	logger.DebugContext(ctx, "opened input",
		slog.String("path", fs.Arg(0)),
		slog.Int("sampleRate", r.SampleRate()),
		slog.Int("channels", r.Channels()),
		slog.Int("bitDepth", r.BitDepth()),
		slog.String("popcount", bitcount.Active()),
	)

	tr, err := pitch.NewTracker(
		pitch.WithSampleRate(float64(r.SampleRate())),
		pitch.WithWindowSize(*window),
		pitch.WithWordBits(*wordBits),
		pitch.WithFrequencyRange(*minHz, *maxHz),
		pitch.WithTolerance(*tolerance),
		pitch.WithHysteresisMargin(*margin),
		pitch.WithReanchorFrames(*reanchor),
		pitch.WithConcertPitch(*a4),
	)
	if err != nil {
		return err
	}

	fr, err := buffer.NewFramer(*window, *hop)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	if !*summary {
		fmt.Fprintln(tw, "TIME\tLEVEL\tDETECTED\tPITCH\tNOTE\tCENTS\tSTATE\tIN TUNE")
	}

	sum, err := analyzeStream(r, fr, tr, target, func(offset int, frame []int16, rd pitch.Reading) {
		if *summary {
			return
		}
		writeFrame(tw, float64(offset)/float64(r.SampleRate()), level.Measure(frame), rd)
	})
	if err != nil {
		return err
	}

	logger.DebugContext(ctx, "analysis done",
		slog.Int("frames", sum.frames),
		slog.Int("stable", sum.stable),
		slog.Int("inTune", sum.inTune),
	)

	if !*summary {
		fmt.Fprintln(tw)
	}
	writeSummary(tw, sum)

	return tw.Flush()
}

// analyzeStream feeds the file through the framer and tracker, calling visit
// with every frame's reading.
func analyzeStream(r *wavio.Reader, fr *buffer.Framer, tr *pitch.Tracker, ref float64,
	visit func(offset int, frame []int16, rd pitch.Reading),
) (analyzeSummary, error) {
	var sum analyzeSummary

	pool := buffer.NewPool()
	chunk := pool.Get(readChunk)
	defer pool.Put(chunk)

	meter := level.NewMeter()

	for {
		n, err := r.Read(chunk.Samples())
		meter.Update(chunk.Samples()[:n])
		fr.Write(chunk.Samples()[:n])

		for {
			frame, ok := fr.Next()
			if !ok {
				break
			}

			tr.Update(frame)
			rd := tr.Reading(ref)

			sum.frames++
			if rd.Stable {
				sum.stable++
			}
			if rd.InTune {
				sum.inTune++
			}
			sum.last = rd

			visit(fr.Offset(), frame, rd)
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, err
		}
	}

	sum.input = meter.Result()

	return sum, nil
}

func writeFrame(w io.Writer, t float64, lvl level.Level, rd pitch.Reading) {
	name, cents := "-", "-"
	if rd.HasNote {
		name = rd.Note.String()
	}
	if rd.Frequency > 0 && rd.Reference > 0 {
		cents = fmt.Sprintf("%+.1f", rd.Cents)
	}

	fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\t%s\t%s\t%s\t%v\n",
		t, formatDB(lvl.RMS_dB), formatHz(rd.Detected), formatHz(rd.Frequency), name, cents, rd.State, rd.InTune)
}

func writeSummary(w io.Writer, sum analyzeSummary) {
	fmt.Fprintf(w, "Frames:\t%d\n", sum.frames)
	fmt.Fprintf(w, "Stable:\t%d\n", sum.stable)
	fmt.Fprintf(w, "In tune:\t%d\n", sum.inTune)
	fmt.Fprintf(w, "Input RMS:\t%s\n", formatDB(sum.input.RMS_dB))
	fmt.Fprintf(w, "Input peak:\t%s\n", formatDB(sum.input.Peak_dB))
	if sum.input.Clipped > 0 {
		fmt.Fprintf(w, "Clipped samples:\t%d\n", sum.input.Clipped)
	}

	if sum.last.Frequency > 0 {
		fmt.Fprintf(w, "Final pitch:\t%s\n", formatHz(sum.last.Frequency))
		if sum.last.HasNote {
			fmt.Fprintf(w, "Nearest note:\t%s (%+.1f cents)\n", sum.last.Note, sum.last.Note.Cents)
		}
		fmt.Fprintf(w, "Target:\t%s (%+.1f cents)\n", formatHz(sum.last.Reference), sum.last.Cents)
	} else {
		fmt.Fprintln(w, "Final pitch:\tnone")
	}
}

func formatHz(hz float64) string {
	if hz <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f Hz", hz)
}

func formatDB(db float64) string {
	if math.IsInf(db, -1) {
		return "-inf dBFS"
	}
	return fmt.Sprintf("%.1f dBFS", db)
}
