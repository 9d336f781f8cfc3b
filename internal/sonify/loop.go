package sonify

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// ErrEmptyAudio is returned when a WAV decodes to no usable frames.
var ErrEmptyAudio = errors.New("sonify: audio has no samples")

// LoadLoop decodes the WAV at path, resampled to sampleRate, into a Loop of
// mono samples in [-1, 1).
func LoadLoop(sampleRate int, path string) (*Loop, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	stream, err := wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	decoded, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("reading decoded %q: %w", path, err)
	}
	l, err := NewLoop(DecodeStereo16(decoded))
	if err != nil {
		return nil, fmt.Errorf("wav %q: %w", path, err)
	}
	return l, nil
}

// DecodeStereo16 averages 16-bit little-endian stereo frames into mono.
// Trailing bytes that do not make a full frame are ignored.
func DecodeStereo16(pcm []byte) []float64 {
	frames := len(pcm) / 4
	out := make([]float64, frames)
	for i := range out {
		left := int16(binary.LittleEndian.Uint16(pcm[i*4:]))
		right := int16(binary.LittleEndian.Uint16(pcm[i*4+2:]))
		out[i] = (float64(left) + float64(right)) * (0.5 / 32768.0)
	}
	return out
}

// Loop replays a fixed sample buffer forever.
type Loop struct {
	samples []float64
	pos     int
}

// NewLoop wraps samples. It fails with ErrEmptyAudio when there are none.
func NewLoop(samples []float64) (*Loop, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyAudio
	}
	return &Loop{samples: samples}, nil
}

// Next returns the next sample, wrapping at the end.
func (l *Loop) Next() float64 {
	v := l.samples[l.pos]
	l.pos++
	if l.pos == len(l.samples) {
		l.pos = 0
	}
	return v
}

// Fill writes the next len(dst) samples into dst.
func (l *Loop) Fill(dst []float64) {
	for i := range dst {
		dst[i] = l.Next()
	}
}

// Len returns the loop length in samples.
func (l *Loop) Len() int { return len(l.samples) }
