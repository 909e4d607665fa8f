// Package note maps frequencies to equal-tempered note names and back.
package note

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-tuner/dsp/core"
)

// DefaultA4 is the concert pitch used when none is given.
const DefaultA4 = 440.0

// midiA4 is the MIDI note number of A4.
const midiA4 = 69

// ErrInvalidNote is returned by Parse for malformed note names.
var ErrInvalidNote = errors.New("note: invalid note name")

var names = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var pitchClasses = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// Note is an equal-tempered note and the offset of a measured frequency from it.
type Note struct {
	Name      string  // e.g. "A", "C#"
	Octave    int     // scientific pitch notation, A4 = 440 Hz
	MIDI      int     // MIDI note number
	Frequency float64 // ideal frequency of the note in Hz
	Cents     float64 // offset of the measured frequency, in [-50, 50]
}

// String returns the note in scientific pitch notation, e.g. "E2".
func (n Note) String() string {
	return n.Name + strconv.Itoa(n.Octave)
}

// FromMIDI returns the note with the given MIDI number.
func FromMIDI(midi int, a4 float64) Note {
	a4 = concertPitch(a4)
	pc := ((midi % 12) + 12) % 12

	return Note{
		Name:      names[pc],
		Octave:    floorDiv(midi, 12) - 1,
		MIDI:      midi,
		Frequency: core.FromCents(a4, float64(100*(midi-midiA4))),
	}
}

// Nearest returns the note closest to freq. ok is false when freq is not a
// finite positive frequency.
func Nearest(freq, a4 float64) (Note, bool) {
	if !core.IsFinitePositive(freq) {
		return Note{}, false
	}

	a4 = concertPitch(a4)
	semitones := core.Cents(freq, a4) / 100
	n := FromMIDI(midiA4+int(math.Round(semitones)), a4)
	n.Cents = core.Cents(freq, n.Frequency)

	return n, true
}

// Parse reads a note name such as "A2", "C#4" or "Bb3".
func Parse(s string, a4 float64) (Note, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidNote, s)
	}

	pc, ok := pitchClasses[s[0]&^0x20]
	if !ok {
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidNote, s)
	}

	rest := s[1:]
	switch rest[0] {
	case '#':
		pc++
		rest = rest[1:]
	case 'b':
		pc--
		rest = rest[1:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidNote, s)
	}

	return FromMIDI((octave+1)*12+pc, a4), nil
}

// GuitarStandard returns the open strings of a guitar in standard tuning,
// lowest first.
func GuitarStandard(a4 float64) []Note {
	midi := [...]int{40, 45, 50, 55, 59, 64}

	out := make([]Note, len(midi))
	for i, m := range midi {
		out[i] = FromMIDI(m, a4)
	}

	return out
}

func concertPitch(a4 float64) float64 {
	if !core.IsFinitePositive(a4) {
		return DefaultA4
	}
	return a4
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
