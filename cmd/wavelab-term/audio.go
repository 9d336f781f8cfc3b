package main

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// audioOut plays one probe through beep's speaker.
type audioOut struct {
	ctrl *beep.Ctrl
}

// startAudio opens the speaker and starts streaming src at volume in (0, 1].
// A volume of zero or less starts muted.
func startAudio(src beep.Streamer, volume float64) (*audioOut, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, err
	}
	out := &audioOut{ctrl: &beep.Ctrl{Streamer: withVolume(src, volume)}}
	speaker.Play(out.ctrl)
	return out, nil
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(min(vol, 1))}
}

// ToggleMute pauses or resumes playback.
func (a *audioOut) ToggleMute() {
	speaker.Lock()
	a.ctrl.Paused = !a.ctrl.Paused
	speaker.Unlock()
}

func (a *audioOut) Close() {
	speaker.Clear()
	speaker.Close()
}
