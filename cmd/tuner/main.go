// Command tuner runs the pitch tracker over WAV recordings and writes test
// tones.
//
// Usage:
//
//	tuner analyze [flags] file.wav
//	tuner tone [flags] file.wav
//	tuner notes [flags]
//
// Defaults for the analysis flags are read from the environment (and from a
// .env file in the working directory):
//
//	TUNER_WINDOW     analysis window in samples (1024)
//	TUNER_HOP        hop between windows in samples (256)
//	TUNER_REFERENCE  target note name, frequency in Hz, or "auto" (auto)
//	TUNER_TOLERANCE  in-tune tolerance in cents (5)
//	TUNER_MARGIN     in-tune hysteresis margin in cents (2)
//	TUNER_A4         concert pitch in Hz (440)
//
// Examples:
//
//	tuner tone -note A2 -pluck a2.wav
//	tuner tone -freq 196 -noise 0.01 g3-noisy.wav
//	tuner analyze -ref A2 a2.wav
//	tuner analyze -summary -tolerance 10 recording.wav
//	tuner notes -a4 442
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"
)

const usage = `Usage: tuner <command> [flags] [args]

Commands:
  analyze   track the pitch of a WAV file frame by frame
  tone      write a sine or plucked-string test tone to a WAV file
  notes     print the standard guitar tuning

Run "tuner <command> -h" for the flags of a command.
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	logger := newLogger(os.Stderr, false)

	err := run(ctx, os.Args[1], os.Args[2:], os.Stdout)
	if err != nil {
		err := xerrors.New(err)
		logger.ErrorContext(ctx, "tuner failed", slog.String("command", os.Args[1]), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string, stdout io.Writer) error {
	err := dispatch(ctx, cmd, args, stdout)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func dispatch(ctx context.Context, cmd string, args []string, stdout io.Writer) error {
	switch cmd {
	case "analyze":
		return runAnalyze(ctx, args, stdout)
	case "tone":
		return runTone(ctx, args, stdout)
	case "notes":
		return runNotes(args, stdout)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
