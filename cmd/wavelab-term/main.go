// Command wavelab-term runs a wave simulation in a truecolor terminal. Each
// terminal cell shows two grid rows with an upper half block.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"wavelab/internal/sim"
)

const (
	frameInterval        = 33 * time.Millisecond
	defaultStepsPerFrame = 2
	defaultParam         = 6
	maxParam             = 31
	defaultVolume        = 0.5
	statusRows           = 1
)

var (
	modelFlag     = flag.String("model", "quantum", "wave model: classical or quantum")
	widthFlag     = flag.Int("width", 0, "grid width in cells; 0 fits the terminal")
	heightFlag    = flag.Int("height", 0, "grid height in cells; 0 fits the terminal")
	paramFlag     = flag.Uint("param", defaultParam, "damping shift (classical) or stability shift (quantum), 0-31")
	stepsFlag     = flag.Int("steps-per-frame", defaultStepsPerFrame, "simulation steps per frame")
	seedFlag      = flag.String("seed", "packet", "quantum initial state: packet, delta or none")
	grayscaleFlag = flag.Bool("grayscale", false, "render the quantum magnitude only")
	audioFlag     = flag.Bool("audio", false, "play the center cell through the default audio device")
	volumeFlag    = flag.Float64("volume", defaultVolume, "audio volume, 0-1")
)

func main() {
	flag.Parse()
	summary, err := run()
	if err != nil {
		log.Fatalf("wavelab-term: %v", err)
	}
	fmt.Fprintln(os.Stderr, summary)
}

// run owns the terminal for the lifetime of the viewer and returns a one-line
// summary once the screen has been restored.
func run() (string, error) {
	cfg := sim.DefaultConfig()
	var err error
	if cfg.Model, err = sim.ParseModel(*modelFlag); err != nil {
		return "", err
	}
	if cfg.Field.Seed, err = sim.ParseSeed(*seedFlag); err != nil {
		return "", err
	}
	if *paramFlag > maxParam {
		return "", fmt.Errorf("-param %d out of range 0-%d", *paramFlag, maxParam)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return "", err
	}
	if err := screen.Init(); err != nil {
		return "", err
	}
	defer screen.Fini()
	screen.EnableMouse()

	cols, rows := screen.Size()
	w, h := gridSize(cols, rows, *widthFlag, *heightFlag)
	s, err := sim.New(w, h, cfg)
	if err != nil {
		return "", err
	}
	defer s.Close()

	v := newViewer(screen, s, uint8(*paramFlag), max(*stepsFlag, 1), *grayscaleFlag)
	if *audioFlag {
		out, err := startAudio(v.probe, *volumeFlag)
		if err != nil {
			return "", fmt.Errorf("starting audio: %w", err)
		}
		defer out.Close()
		v.audio = out
	}

	if err := v.run(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s model, %dx%d grid, %d steps", s.Model(), s.Width(), s.Height(), s.Steps()), nil
}

// gridSize picks the grid dimensions. Zero flags fit the terminal, leaving
// statusRows for the status line; each terminal row holds two grid rows.
func gridSize(cols, rows, width, height int) (int, int) {
	if width <= 0 {
		width = cols
	}
	if height <= 0 {
		height = 2 * (rows - statusRows)
	}
	return width, height
}
