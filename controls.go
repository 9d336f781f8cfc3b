package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// handleControls processes keyboard shortcuts. It returns ebiten.Termination
// on Escape.
func (g *Game) handleControls() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) && g.paused {
		g.stepOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.grayscale = !g.grayscale
		g.sim.Render(g.grayscale)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.showPattern = !g.showPattern
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.sim.Reset(); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.adjustParam(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		g.adjustParam(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.adjustStepsPerFrame(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.adjustStepsPerFrame(1)
	}
	return nil
}

// adjustParam moves the damping or stability shift within [0, maxParam].
func (g *Game) adjustParam(delta int) {
	g.param = uint8(clampCoord(int(g.param)+delta, 0, maxParam))
}

// adjustStepsPerFrame clamps the per-frame batch size delta within bounds.
func (g *Game) adjustStepsPerFrame(delta int) {
	g.stepsPerFrame = clampCoord(g.stepsPerFrame+delta, minStepsPerFrame, maxStepsPerFrame)
}
