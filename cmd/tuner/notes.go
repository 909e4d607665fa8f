package main

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-tuner/dsp/note"
)

func runNotes(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("notes", flag.ContinueOnError)
	a4 := fs.Float64("a4", envFloat("TUNER_A4", note.DefaultA4), "concert pitch in Hz")
	fs.SetOutput(stdout)

	if err := fs.Parse(args); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRING\tNOTE\tMIDI\tFREQUENCY")

	open := note.GuitarStandard(*a4)
	for i, n := range open {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.2f Hz\n", len(open)-i, n, n.MIDI, n.Frequency)
	}

	return tw.Flush()
}
