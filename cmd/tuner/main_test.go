package main

import (
	"bytes"
	"context"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/cwbudde/algo-tuner/internal/wavio"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"auto", 0, false},
		{"", 0, false},
		{"AUTO", 0, false},
		{"110", 110, false},
		{"82.5", 82.5, false},
		{"A2", 110, false},
		{"a4", 440, false},
		{"E2", 82.4068892282175, false},
		{"-5", 0, true},
		{"0", 0, true},
		{"NaN", 0, true},
		{"H2", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseReference(tt.in, 440)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("TUNER_WINDOW", "2048")
	t.Setenv("TUNER_TOLERANCE", "7.5")
	t.Setenv("TUNER_HOP", "not a number")
	t.Setenv("TUNER_REFERENCE", "  E2 ")

	if got := envInt("TUNER_WINDOW", 1024); got != 2048 {
		t.Fatalf("envInt = %d", got)
	}
	if got := envInt("TUNER_HOP", 256); got != 256 {
		t.Fatalf("envInt with junk = %d", got)
	}
	if got := envFloat("TUNER_TOLERANCE", 5); got != 7.5 {
		t.Fatalf("envFloat = %v", got)
	}
	if got := envFloat("TUNER_UNSET_FOR_TEST", 3); got != 3 {
		t.Fatalf("envFloat unset = %v", got)
	}
	if got := envString("TUNER_REFERENCE", "auto"); got != "E2" {
		t.Fatalf("envString = %q", got)
	}
}

func TestToneThenAnalyze(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "a2.wav")

	var out bytes.Buffer
	if err := run(ctx, "tone", []string{"-note", "A2", "-seconds", "1", path}, &out); err != nil {
		t.Fatalf("tone: %v", err)
	}
	if !strings.Contains(out.String(), "110.00 Hz, 16000 samples") {
		t.Fatalf("tone output: %q", out.String())
	}

	out.Reset()
	err := run(ctx, "analyze", []string{"-summary", "-ref", "A2", "-tolerance", "10", "-word", "64", path}, &out)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Frames:", "Stable:", "In tune:", "Nearest note:  A2", "Target:"} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "TIME") {
		t.Fatalf("summary mode printed the frame table:\n%s", got)
	}
}

func TestAnalyzeFrameTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pluck.wav")

	if err := run(ctx, "tone", []string{"-freq", "196", "-pluck", "-lead", "0.1", "-seconds", "0.5", path}, &bytes.Buffer{}); err != nil {
		t.Fatalf("tone: %v", err)
	}

	var out bytes.Buffer
	if err := run(ctx, "analyze", []string{path}, &out); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	lines := strings.Split(out.String(), "\n")
	if !strings.HasPrefix(lines[0], "TIME") {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(out.String(), "G3") {
		t.Fatalf("no G3 frame in output:\n%s", out.String())
	}
}

func TestNoisyToneStillTracks(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	clean := filepath.Join(dir, "clean.wav")
	noisy := filepath.Join(dir, "noisy.wav")

	if err := run(ctx, "tone", []string{"-freq", "110", "-seconds", "1", clean}, &bytes.Buffer{}); err != nil {
		t.Fatalf("tone: %v", err)
	}
	if err := run(ctx, "tone", []string{"-freq", "110", "-seconds", "1", "-noise", "0.005", "-seed", "7", noisy}, &bytes.Buffer{}); err != nil {
		t.Fatalf("noisy tone: %v", err)
	}

	a, _, err := wavio.ReadMono16(clean)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := wavio.ReadMono16(noisy)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) || slices.Equal(a, b) {
		t.Fatalf("noise did not change the %d-sample tone", len(a))
	}

	var out bytes.Buffer
	if err := run(ctx, "analyze", []string{"-summary", "-ref", "110", "-tolerance", "10", noisy}, &out); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out.String(), "Nearest note:  A2") {
		t.Fatalf("noisy tone not tracked as A2:\n%s", out.String())
	}
}

func TestNotes(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), "notes", nil, &out); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"E2", "A2", "D3", "G3", "B3", "E4", "82.41 Hz", "329.63 Hz"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("notes output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	if err := run(ctx, "bogus", nil, &out); err == nil {
		t.Fatal("expected error for an unknown command")
	}
	if err := run(ctx, "analyze", nil, &out); err == nil {
		t.Fatal("expected error without an input file")
	}
	if err := run(ctx, "analyze", []string{filepath.Join(t.TempDir(), "missing.wav")}, &out); err == nil {
		t.Fatal("expected error for a missing file")
	}
	if err := run(ctx, "tone", []string{"-amp", "2", filepath.Join(t.TempDir(), "x.wav")}, &out); err == nil {
		t.Fatal("expected error for amplitude above full scale")
	}
	if err := run(ctx, "tone", []string{"-amp", "0.9", "-noise", "0.2", filepath.Join(t.TempDir(), "y.wav")}, &out); err == nil {
		t.Fatal("expected error for tone plus noise above full scale")
	}
	if err := run(ctx, "analyze", []string{"-h"}, &out); err != nil {
		t.Fatalf("-h returned %v", err)
	}
}
