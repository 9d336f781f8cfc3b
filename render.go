package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var brushOutline = color.RGBA{255, 255, 255, 160}

// Draw copies the rendered field, or the calibration pattern, onto the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.showPattern {
		screen.WritePixels(g.patternPixels)
	} else {
		screen.WritePixels(g.sim.Pixels())
		x, y := ebiten.CursorPosition()
		vector.StrokeCircle(screen, float32(x)+0.5, float32(y)+0.5, brushRadius+0.5, 1, brushOutline, false)
	}
	if *debugFlag {
		ebitenutil.DebugPrint(screen, g.statusText())
	}
}

// Layout keeps one logical pixel per grid cell; the window scale is applied by
// ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return g.sim.Width(), g.sim.Height() }

func (g *Game) statusText() string {
	state := ""
	if g.paused {
		state = " [paused]"
	}
	return fmt.Sprintf("%s %dx%d on %s%s\nstep %d  param %d  steps/frame %d\nnorm %.6f  sim %.2f ms\nFPS %.1f  TPS %.1f",
		g.sim.Model(), g.sim.Width(), g.sim.Height(), g.sim.DeviceName(), state,
		g.sim.Steps(), g.param, g.stepsPerFrame,
		g.sim.Norm(), g.lastSimDuration.Seconds()*1000,
		ebiten.ActualFPS(), ebiten.ActualTPS())
}
