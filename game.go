package main

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"wavelab/internal/codec"
	"wavelab/internal/fixed"
	"wavelab/internal/sim"
	"wavelab/internal/sonify"
)

// Game drives one simulation from ebiten's update loop and shows its buffer.
type Game struct {
	sim *sim.Simulation

	param         uint8
	grayscale     bool
	stepsPerFrame int
	paused        bool
	stepOnce      bool

	showPattern   bool
	patternPixels []byte

	lastSimDuration time.Duration
	lastLog         time.Time

	probe       *sonify.Probe
	drive       *sonify.Loop
	audioCtx    *audio.Context
	audioPlayer *audio.Player
}

// newGame wraps s with the viewer settings taken from the flags.
func newGame(s *sim.Simulation) (*Game, error) {
	g := &Game{
		sim:           s,
		param:         uint8(*paramFlag),
		grayscale:     *grayscaleFlag,
		stepsPerFrame: clampCoord(*stepsPerFrameFlag, minStepsPerFrame, maxStepsPerFrame),
		showPattern:   *testPatternFlag,
		probe:         sonify.NewProbe(),
	}
	pattern := s.TestPattern()
	g.patternPixels = make([]byte, len(pattern)*4)
	codec.EncodeRGBA(g.patternPixels, pattern)

	if *driveWAVFlag != "" {
		if s.Model() != sim.Classical {
			return nil, fmt.Errorf("-drive-wav: %w", sim.ErrUnsupported)
		}
		loop, err := sonify.LoadLoop(audioSampleRate, *driveWAVFlag)
		if err != nil {
			return nil, err
		}
		log.Printf("Driving center cell from %s (%d samples)", *driveWAVFlag, loop.Len())
		g.drive = loop
	}
	s.Render(g.grayscale)
	return g, nil
}

// Update handles input and advances the simulation by one frame's worth of
// steps.
func (g *Game) Update() error {
	if err := g.handleControls(); err != nil {
		return err
	}
	if err := g.applyBrush(); err != nil {
		return err
	}

	steps := g.stepsPerFrame
	if g.paused {
		steps = 0
		if g.stepOnce {
			steps = 1
			g.stepOnce = false
		}
	}
	simStart := time.Now()
	if err := g.advance(steps); err != nil {
		return err
	}
	g.lastSimDuration = time.Since(simStart)
	g.logStats()
	return nil
}

// advance runs steps simulation steps, feeding the drive loop before each one
// and the audio probe after the last.
func (g *Game) advance(steps int) error {
	row, col := g.center()
	for i := 0; i < steps; i++ {
		if g.drive != nil {
			amount := fixed.Amplitude(g.drive.Next() * driveGain)
			if _, err := g.sim.ApplyForce(row, col, amount); err != nil {
				return err
			}
		}
		if err := g.sim.Step(g.param, g.grayscale); err != nil {
			return err
		}
	}
	if steps > 0 {
		v, err := g.sim.Sample(row, col)
		if err != nil {
			return err
		}
		g.probe.SetSample(v)
	}
	return nil
}

// applyBrush paints the disc under the cursor while the left button is held.
func (g *Game) applyBrush() error {
	if g.showPattern || !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return nil
	}
	x, y := ebiten.CursorPosition()
	w, h := g.sim.Width(), g.sim.Height()
	return g.paint(clampCoord(y, 0, h-1), clampCoord(x, 0, w-1))
}

// paint injects deltas (quantum) or force (classical) over the brush footprint
// centered on (row, col).
func (g *Game) paint(row, col int) error {
	var err error
	brushCells(g.sim.Width(), g.sim.Height(), row, col, func(r, c int) {
		if err != nil {
			return
		}
		switch g.sim.Model() {
		case sim.Quantum:
			err = g.sim.InjectDelta(r, c)
		default:
			_, err = g.sim.ApplyForce(r, c, brushForce)
		}
	})
	if err != nil {
		return err
	}
	if g.paused {
		g.sim.Render(g.grayscale)
	}
	return nil
}

func (g *Game) center() (row, col int) {
	return g.sim.Height() / 2, g.sim.Width() / 2
}

// runHeadless advances frames frames without a window.
func (g *Game) runHeadless(frames int) error {
	start := time.Now()
	for f := 0; f < frames; f++ {
		if err := g.advance(g.stepsPerFrame); err != nil {
			return fmt.Errorf("frame %d: %w", f, err)
		}
		g.logStats()
	}
	log.Printf("Ran %d frames (%d steps) in %s", frames, g.sim.Steps(), time.Since(start).Round(time.Millisecond))
	return nil
}

// logStats periodically reports step count, norm and the probe sample.
func (g *Game) logStats() {
	if !*debugFlag {
		return
	}
	now := time.Now()
	if now.Sub(g.lastLog) < debugLogInterval {
		return
	}
	g.lastLog = now
	log.Printf("step %d norm %.6f probe %.4f sim %.2f ms",
		g.sim.Steps(), g.sim.Norm(), g.probe.Sample(), g.lastSimDuration.Seconds()*1000)
}

// Close stops audio playback.
func (g *Game) Close() {
	if g.audioPlayer != nil {
		_ = g.audioPlayer.Close()
		g.audioPlayer = nil
	}
}
