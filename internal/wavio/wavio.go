// Package wavio reads and writes PCM WAV files as mono 16-bit samples, the
// format the pitch detector consumes.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-tuner/dsp/core"
)

// ErrUnsupported is returned for files that are not integer PCM at 8, 16,
// 24 or 32 bits.
var ErrUnsupported = errors.New("wavio: unsupported wav format")

// Reader streams a WAV file as mono int16, averaging the channels of each
// frame.
type Reader struct {
	f   *os.File
	dec *wav.Decoder
	buf audio.IntBuffer

	sampleRate int
	channels   int
	bitDepth   int
}

// Open opens path and validates its header.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("wavio: %s is not a valid wav file", path)
	}

	r := &Reader{
		f:          f,
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   int(dec.BitDepth),
	}

	if dec.WavAudioFormat != 1 || r.channels < 1 {
		f.Close()
		return nil, fmt.Errorf("%w: format %d with %d channels", ErrUnsupported, dec.WavAudioFormat, r.channels)
	}

	switch r.bitDepth {
	case 8, 16, 24, 32:
	default:
		f.Close()
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupported, r.bitDepth)
	}

	r.buf.Format = &audio.Format{NumChannels: r.channels, SampleRate: r.sampleRate}
	r.buf.SourceBitDepth = r.bitDepth

	return r, nil
}

// SampleRate returns the file sample rate in Hz.
func (r *Reader) SampleRate() int { return r.sampleRate }

// Channels returns the channel count of the file.
func (r *Reader) Channels() int { return r.channels }

// BitDepth returns the bits per sample of the file.
func (r *Reader) BitDepth() int { return r.bitDepth }

// Read fills dst with up to len(dst) mono samples. It returns io.EOF once the
// data chunk is exhausted.
func (r *Reader) Read(dst []int16) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	r.buf.Data = core.EnsureLen(r.buf.Data, len(dst)*r.channels)

	n, err := r.dec.PCMBuffer(&r.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("wavio: decode: %w", err)
	}

	frames := n / r.channels
	if frames == 0 {
		return 0, io.EOF
	}

	for i := range frames {
		sum := 0
		for _, v := range r.buf.Data[i*r.channels : (i+1)*r.channels] {
			sum += r.to16(v)
		}
		dst[i] = int16(sum / r.channels)
	}

	return frames, nil
}

func (r *Reader) to16(v int) int {
	switch r.bitDepth {
	case 8:
		return (v - 128) << 8
	case 24:
		return v >> 8
	case 32:
		return v >> 16
	default:
		return v
	}
}

// Close releases the underlying file.
func (r *Reader) Close() error { return r.f.Close() }

// ReadMono16 decodes the whole file at path and returns its samples and
// sample rate.
func ReadMono16(path string) ([]int16, int, error) {
	r, err := Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer r.Close()

	var out []int16
	chunk := make([]int16, 4096)

	for {
		n, err := r.Read(chunk)
		out = append(out, chunk[:n]...)

		if errors.Is(err, io.EOF) {
			return out, r.sampleRate, nil
		}
		if err != nil {
			return nil, 0, err
		}
	}
}

// WriteMono16 writes samples to path as a mono 16-bit PCM file.
func WriteMono16(path string, samples []int16, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("wavio: sample rate must be positive: %d", sampleRate)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("wavio: encode: %w", err)
	}

	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("wavio: finalize: %w", err)
	}

	return f.Close()
}
