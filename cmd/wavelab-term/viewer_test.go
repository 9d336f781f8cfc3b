package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep/effects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavelab/internal/codec"
	"wavelab/internal/field"
	"wavelab/internal/sim"
)

func newTestViewer(t *testing.T, model sim.Model, cols, rows int) (*viewer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)

	cfg := sim.DefaultConfig()
	cfg.Model = model
	cfg.Field.Seed = field.SeedNone
	w, h := gridSize(cols, rows, 0, 0)
	s, err := sim.New(w, h, cfg)
	require.NoError(t, err)
	return newViewer(screen, s, defaultParam, 1, false), screen
}

func TestGridSize(t *testing.T) {
	w, h := gridSize(80, 25, 0, 0)
	assert.Equal(t, 80, w)
	assert.Equal(t, 48, h)

	w, h = gridSize(80, 25, 30, 20)
	assert.Equal(t, 30, w)
	assert.Equal(t, 20, h)
}

func TestCellColor(t *testing.T) {
	assert.Equal(t, tcell.ColorDefault, cellColor(codec.Transparent))
	assert.Equal(t, tcell.NewRGBColor(1, 2, 3), cellColor(codec.Pack(1, 2, 3)))
}

func TestViewer_Draw(t *testing.T) {
	v, screen := newTestViewer(t, sim.Classical, 12, 7)
	v.draw()

	r, _, style, _ := screen.GetContent(0, 0)
	assert.Equal(t, halfBlock, r)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, tcell.ColorDefault, fg, "boundary row is transparent")
	assert.Equal(t, tcell.ColorDefault, bg, "left column is boundary")

	r, _, _, _ = screen.GetContent(1, 6)
	assert.Equal(t, 'c', r, "status line starts with the model name")
}

func TestViewer_Keys(t *testing.T) {
	v, _ := newTestViewer(t, sim.Quantum, 12, 7)

	quit, err := v.handleKey(tcell.KeyRune, ' ')
	require.NoError(t, err)
	assert.False(t, quit)
	assert.True(t, v.paused)

	_, err = v.handleKey(tcell.KeyRune, ']')
	require.NoError(t, err)
	assert.Equal(t, uint8(defaultParam+1), v.param)

	_, err = v.handleKey(tcell.KeyRune, 'g')
	require.NoError(t, err)
	assert.True(t, v.grayscale)

	quit, err = v.handleKey(tcell.KeyRune, 'q')
	require.NoError(t, err)
	assert.True(t, quit)

	quit, err = v.handleKey(tcell.KeyEscape, 0)
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestViewer_MousePokes(t *testing.T) {
	v, _ := newTestViewer(t, sim.Quantum, 12, 7)

	require.NoError(t, v.handleMouse(5, 2, tcell.Button1))
	sample, err := v.sim.Sample(4, 5)
	require.NoError(t, err)
	assert.Greater(t, sample, 0.0)

	// Boundary cells are ignored.
	require.NoError(t, v.handleMouse(0, 0, tcell.Button1))
	require.NoError(t, v.handleMouse(3, 3, tcell.ButtonNone))
	sample, err = v.sim.Sample(6, 3)
	require.NoError(t, err)
	assert.Less(t, sample, 1e-6, "release does not poke")
}

func TestViewer_Advance(t *testing.T) {
	v, _ := newTestViewer(t, sim.Classical, 12, 7)
	v.steps = 3
	require.NoError(t, v.advance())
	assert.Equal(t, uint64(3), v.sim.Steps())
}

func TestWithVolume(t *testing.T) {
	silent, ok := withVolume(nil, 0).(*effects.Volume)
	require.True(t, ok)
	assert.True(t, silent.Silent)

	half, ok := withVolume(nil, 0.5).(*effects.Volume)
	require.True(t, ok)
	assert.InDelta(t, -1.0, half.Volume, 1e-12)
}
