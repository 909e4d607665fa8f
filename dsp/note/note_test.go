package note

import (
	"errors"
	"math"
	"testing"
)

func TestNearest(t *testing.T) {
	tests := []struct {
		name   string
		freq   float64
		want   string
		cents  float64
		target float64
	}{
		{name: "A4", freq: 440, want: "A4", cents: 0, target: 440},
		{name: "A2 sharp", freq: 110.345, want: "A2", cents: 5.42, target: 110},
		{name: "A2 flat", freq: 109.589, want: "A2", cents: -6.48, target: 110},
		{name: "low E", freq: 82.5, want: "E2", cents: 1.96, target: 82.4069},
		{name: "middle C", freq: 261.63, want: "C4", cents: 0.03, target: 261.6256},
		{name: "G#", freq: 415.3, want: "G#4", cents: -0.02, target: 415.3047},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := Nearest(tt.freq, DefaultA4)
			if !ok {
				t.Fatal("Nearest returned ok=false")
			}

			if n.String() != tt.want {
				t.Fatalf("note=%s, want %s", n, tt.want)
			}

			if math.Abs(n.Cents-tt.cents) > 0.01 {
				t.Fatalf("cents=%.3f, want %.2f", n.Cents, tt.cents)
			}

			if math.Abs(n.Frequency-tt.target) > 1e-3 {
				t.Fatalf("frequency=%.4f, want %.4f", n.Frequency, tt.target)
			}
		})
	}
}

func TestNearestRejectsInvalid(t *testing.T) {
	for _, f := range []float64{0, -110, math.NaN(), math.Inf(1)} {
		if _, ok := Nearest(f, DefaultA4); ok {
			t.Errorf("Nearest(%v) ok=true", f)
		}
	}
}

func TestNearestConcertPitch(t *testing.T) {
	n, ok := Nearest(432, 432)
	if !ok || n.String() != "A4" || math.Abs(n.Cents) > 1e-9 {
		t.Fatalf("Nearest(432, 432)=%+v ok=%v", n, ok)
	}

	// Invalid concert pitch falls back to 440 Hz.
	n, _ = Nearest(440, -1)
	if n.String() != "A4" || math.Abs(n.Frequency-440) > 1e-9 {
		t.Fatalf("Nearest(440, -1)=%+v", n)
	}
}

func TestFromMIDI(t *testing.T) {
	tests := []struct {
		midi int
		want string
		freq float64
	}{
		{69, "A4", 440},
		{60, "C4", 261.6256},
		{45, "A2", 110},
		{0, "C-1", 8.1758},
		{-1, "B-2", 7.7169},
	}

	for _, tt := range tests {
		n := FromMIDI(tt.midi, DefaultA4)
		if n.String() != tt.want || math.Abs(n.Frequency-tt.freq) > 1e-3 {
			t.Errorf("FromMIDI(%d)=%s %.4f, want %s %.4f", tt.midi, n, n.Frequency, tt.want, tt.freq)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
		midi int
	}{
		{"A2", "A2", 45},
		{"e2", "E2", 40},
		{"C#4", "C#4", 61},
		{"Db4", "C#4", 61},
		{"Bb3", "A#3", 58},
		{"Cb4", "B3", 59},
		{" G3 ", "G3", 55},
		{"C-1", "C-1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, err := Parse(tt.in, DefaultA4)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}

			if n.String() != tt.want || n.MIDI != tt.midi {
				t.Fatalf("Parse(%q)=%s (%d), want %s (%d)", tt.in, n, n.MIDI, tt.want, tt.midi)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "A", "H2", "A#", "Ax2", "110"} {
		if _, err := Parse(in, DefaultA4); !errors.Is(err, ErrInvalidNote) {
			t.Errorf("Parse(%q) err=%v, want ErrInvalidNote", in, err)
		}
	}
}

func TestGuitarStandard(t *testing.T) {
	want := []string{"E2", "A2", "D3", "G3", "B3", "E4"}

	strings := GuitarStandard(DefaultA4)
	if len(strings) != len(want) {
		t.Fatalf("len=%d, want %d", len(strings), len(want))
	}

	for i, n := range strings {
		if n.String() != want[i] {
			t.Errorf("string %d=%s, want %s", i, n, want[i])
		}
	}

	if math.Abs(strings[1].Frequency-110) > 1e-9 {
		t.Fatalf("A string=%v Hz, want 110", strings[1].Frequency)
	}
}
