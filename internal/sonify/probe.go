// Package sonify turns field samples into audio and audio into field drive.
//
// A Probe holds the most recent amplitude read from one cell. The simulation
// goroutine updates it after each step and an audio backend pulls from it on
// its own goroutine, either as an io.Reader of 16-bit stereo PCM (ebiten) or as
// a beep.Streamer.
package sonify

import (
	"encoding/binary"
	"sync"
)

// dcAlpha is the smoothing factor of the running DC estimate removed from
// every sample.
const dcAlpha = 0.001

const pcm16Max = 32767

// Probe is a sample-and-hold audio source fed from a field cell.
type Probe struct {
	mu     sync.Mutex
	sample float64
	dc     float64
	gain   float64
}

// NewProbe returns a probe with unity gain.
func NewProbe() *Probe {
	return &Probe{gain: 1}
}

// SetGain scales every sample handed to SetSample before clipping.
func (p *Probe) SetGain(g float64) {
	p.mu.Lock()
	p.gain = g
	p.mu.Unlock()
}

// SetSample records v, clipped to [-1, 1], with the slowly varying DC
// component subtracted.
func (p *Probe) SetSample(v float64) {
	p.mu.Lock()
	v *= p.gain
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	p.dc += dcAlpha * (v - p.dc)
	p.sample = v - p.dc
	p.mu.Unlock()
}

// Sample returns the held, DC-removed value.
func (p *Probe) Sample() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sample
}

// Read fills buf with whole 16-bit little-endian stereo frames of the held
// sample.
func (p *Probe) Read(buf []byte) (int, error) {
	frameBytes := len(buf) - len(buf)%4
	if frameBytes == 0 {
		return 0, nil
	}
	v := uint16(int16(p.Sample() * pcm16Max))
	for i := 0; i < frameBytes; i += 4 {
		binary.LittleEndian.PutUint16(buf[i:], v)
		binary.LittleEndian.PutUint16(buf[i+2:], v)
	}
	return frameBytes, nil
}

// Stream implements beep.Streamer. It never drains.
func (p *Probe) Stream(samples [][2]float64) (int, bool) {
	v := p.Sample()
	for i := range samples {
		samples[i] = [2]float64{v, v}
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (p *Probe) Err() error { return nil }

// Close implements io.Closer for audio players that expect one.
func (p *Probe) Close() error { return nil }
