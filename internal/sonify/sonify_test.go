package sonify_test

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavelab/internal/sonify"
)

var (
	_ beep.Streamer = (*sonify.Probe)(nil)
	_ io.ReadCloser = (*sonify.Probe)(nil)
)

func TestProbe_ClipsAndRemovesDC(t *testing.T) {
	p := sonify.NewProbe()
	p.SetSample(1)
	assert.InDelta(t, 0.999, p.Sample(), 1e-12)

	p.SetSample(2)
	assert.InDelta(t, 1-0.001999, p.Sample(), 1e-12)

	q := sonify.NewProbe()
	q.SetSample(-5)
	assert.InDelta(t, -0.999, q.Sample(), 1e-12)
}

func TestProbe_Gain(t *testing.T) {
	p := sonify.NewProbe()
	p.SetGain(0.5)
	p.SetSample(1)
	assert.InDelta(t, 0.5*0.999, p.Sample(), 1e-12)
}

func TestProbe_Read(t *testing.T) {
	p := sonify.NewProbe()
	p.SetSample(1)

	buf := make([]byte, 10)
	n, err := p.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 8, n, "only whole stereo frames")
	for i := 0; i < n; i += 2 {
		assert.Equal(t, int16(32734), int16(binary.LittleEndian.Uint16(buf[i:])))
	}

	n, err = p.Read(make([]byte, 3))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProbe_Stream(t *testing.T) {
	p := sonify.NewProbe()
	p.SetSample(-1)

	samples := make([][2]float64, 16)
	n, ok := p.Stream(samples)
	assert.True(t, ok)
	assert.Equal(t, len(samples), n)
	for _, s := range samples {
		assert.InDelta(t, -0.999, s[0], 1e-12)
		assert.Equal(t, s[0], s[1])
	}
	assert.NoError(t, p.Err())
}

func TestProbe_ConcurrentAccess(t *testing.T) {
	p := sonify.NewProbe()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			p.SetSample(float64(i%3) - 1)
		}
	}()
	go func() {
		defer wg.Done()
		buf := make([][2]float64, 64)
		for i := 0; i < 1000; i++ {
			p.Stream(buf)
		}
	}()
	wg.Wait()
	assert.LessOrEqual(t, p.Sample(), 1.0)
}

func TestDecodeStereo16(t *testing.T) {
	pcm := make([]byte, 9)
	binary.LittleEndian.PutUint16(pcm[0:], uint16(16384))
	binary.LittleEndian.PutUint16(pcm[2:], uint16(16384))
	neg := int16(-32768)
	binary.LittleEndian.PutUint16(pcm[4:], uint16(neg))
	binary.LittleEndian.PutUint16(pcm[6:], 0)

	out := sonify.DecodeStereo16(pcm)
	require.Len(t, out, 2)
	assert.InDelta(t, 0.5, out[0], 1e-12)
	assert.InDelta(t, -0.5, out[1], 1e-12)
}

func TestLoop(t *testing.T) {
	_, err := sonify.NewLoop(nil)
	assert.ErrorIs(t, err, sonify.ErrEmptyAudio)

	l, err := sonify.NewLoop([]float64{0.1, 0.2, 0.3})
	require.NoError(t, err)
	assert.Equal(t, 3, l.Len())

	dst := make([]float64, 7)
	l.Fill(dst)
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.1, 0.2, 0.3, 0.1}, dst)
	assert.Equal(t, 0.2, l.Next())
}

// writeWAV writes a canonical 16-bit stereo PCM file.
func writeWAV(t *testing.T, rate int, frames [][2]int16) string {
	t.Helper()
	data := make([]byte, 0, len(frames)*4)
	for _, f := range frames {
		data = binary.LittleEndian.AppendUint16(data, uint16(f[0]))
		data = binary.LittleEndian.AppendUint16(data, uint16(f[1]))
	}
	hdr := make([]byte, 0, 44)
	hdr = append(hdr, "RIFF"...)
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(36+len(data)))
	hdr = append(hdr, "WAVEfmt "...)
	hdr = binary.LittleEndian.AppendUint32(hdr, 16)
	hdr = binary.LittleEndian.AppendUint16(hdr, 1)
	hdr = binary.LittleEndian.AppendUint16(hdr, 2)
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(rate))
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(rate*4))
	hdr = binary.LittleEndian.AppendUint16(hdr, 4)
	hdr = binary.LittleEndian.AppendUint16(hdr, 16)
	hdr = append(hdr, "data"...)
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(len(data)))

	path := filepath.Join(t.TempDir(), "drive.wav")
	require.NoError(t, os.WriteFile(path, append(hdr, data...), 0o644))
	return path
}

func TestLoadLoop(t *testing.T) {
	const rate = 48000
	frames := make([][2]int16, 64)
	for i := range frames {
		frames[i] = [2]int16{16384, 16384}
	}
	l, err := sonify.LoadLoop(rate, writeWAV(t, rate, frames))
	require.NoError(t, err)
	assert.Equal(t, len(frames), l.Len())
	assert.InDelta(t, 0.5, l.Next(), 1e-12)
}

func TestLoadLoop_Errors(t *testing.T) {
	_, err := sonify.LoadLoop(48000, filepath.Join(t.TempDir(), "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.wav")
	require.NoError(t, os.WriteFile(bad, []byte("not a wav file at all"), 0o644))
	_, err = sonify.LoadLoop(48000, bad)
	assert.Error(t, err)
}
