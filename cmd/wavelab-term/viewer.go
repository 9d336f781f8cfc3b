package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"wavelab/internal/codec"
	"wavelab/internal/sim"
	"wavelab/internal/sonify"
)

const halfBlock = '▀'

type viewer struct {
	screen tcell.Screen
	sim    *sim.Simulation
	probe  *sonify.Probe
	audio  *audioOut

	param     uint8
	steps     int
	grayscale bool
	paused    bool
}

func newViewer(screen tcell.Screen, s *sim.Simulation, param uint8, steps int, grayscale bool) *viewer {
	return &viewer{
		screen:    screen,
		sim:       s,
		probe:     sonify.NewProbe(),
		param:     param,
		steps:     steps,
		grayscale: grayscale,
	}
}

// run polls terminal events on a separate goroutine and steps and draws on a
// ticker until the user quits.
func (v *viewer) run() error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	v.sim.Render(v.grayscale)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			quit, err := v.handle(ev)
			if err != nil || quit {
				return err
			}
		case <-ticker.C:
			if !v.paused {
				if err := v.advance(); err != nil {
					return err
				}
			}
			v.draw()
		}
	}
}

func (v *viewer) advance() error {
	for i := 0; i < v.steps; i++ {
		if err := v.sim.Step(v.param, v.grayscale); err != nil {
			return err
		}
	}
	sample, err := v.sim.Sample(v.sim.Height()/2, v.sim.Width()/2)
	if err != nil {
		return err
	}
	v.probe.SetSample(sample)
	return nil
}

// handle applies one event. It reports true when the viewer should exit.
func (v *viewer) handle(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		return false, v.handleMouse(x, y, ev.Buttons())
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return false, nil
}

func (v *viewer) handleKey(key tcell.Key, r rune) (bool, error) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true, nil
	case tcell.KeyRune:
		return v.handleRune(r)
	}
	return false, nil
}

// handleMouse pokes the grid under a primary click. Screen row y covers grid
// rows 2y and 2y+1; the upper one is used.
func (v *viewer) handleMouse(x, y int, buttons tcell.ButtonMask) error {
	if buttons&tcell.Button1 == 0 {
		return nil
	}
	return v.poke(2*y, x)
}

func (v *viewer) handleRune(r rune) (bool, error) {
	switch r {
	case 'q':
		return true, nil
	case ' ':
		v.paused = !v.paused
	case 'g':
		v.grayscale = !v.grayscale
		v.sim.Render(v.grayscale)
	case 'r':
		return false, v.sim.Reset()
	case '[':
		if v.param > 0 {
			v.param--
		}
	case ']':
		if v.param < maxParam {
			v.param++
		}
	case 'm':
		if v.audio != nil {
			v.audio.ToggleMute()
		}
	}
	return false, nil
}

// poke injects a delta (quantum) or a force (classical) at an interior cell.
func (v *viewer) poke(row, col int) error {
	if row <= 0 || row >= v.sim.Height()-1 || col <= 0 || col >= v.sim.Width()-1 {
		return nil
	}
	var err error
	if v.sim.Model() == sim.Quantum {
		err = v.sim.InjectDelta(row, col)
	} else {
		_, err = v.sim.ApplyForce(row, col, 1<<28)
	}
	if err == nil && v.paused {
		v.sim.Render(v.grayscale)
	}
	return err
}

func (v *viewer) draw() {
	buf := v.sim.Buffer()
	w, h := v.sim.Width(), v.sim.Height()
	cols, rows := v.screen.Size()
	for y := 0; 2*y < h && y < rows-statusRows; y++ {
		for x := 0; x < w && x < cols; x++ {
			top := buf[2*y*w+x]
			bottom := codec.Transparent
			if 2*y+1 < h {
				bottom = buf[(2*y+1)*w+x]
			}
			style := tcell.StyleDefault.Foreground(cellColor(top)).Background(cellColor(bottom))
			v.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
	v.drawStatus(rows - 1)
	v.screen.Show()
}

func (v *viewer) drawStatus(row int) {
	state := ""
	if v.paused {
		state = " paused"
	}
	line := fmt.Sprintf(" %s step %d param %d norm %.5f%s  [space] pause [g]ray [r]eset [m]ute [q]uit",
		v.sim.Model(), v.sim.Steps(), v.param, v.sim.Norm(), state)
	cols, _ := v.screen.Size()
	style := tcell.StyleDefault.Reverse(true)
	i := 0
	for _, r := range line {
		if i >= cols {
			break
		}
		v.screen.SetContent(i, row, r, nil, style)
		i++
	}
	for ; i < cols; i++ {
		v.screen.SetContent(i, row, ' ', nil, style)
	}
}

// cellColor maps a packed color to a terminal color. Transparent cells use the
// terminal's default.
func cellColor(c codec.Color) tcell.Color {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
