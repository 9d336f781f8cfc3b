package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"wavelab/internal/sim"
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("wavelab: %v", err)
	}
}

// simConfigFromFlags translates the model flags into a driver configuration.
func simConfigFromFlags() (sim.Config, error) {
	cfg := sim.DefaultConfig()
	var err error
	if cfg.Model, err = sim.ParseModel(*modelFlag); err != nil {
		return cfg, err
	}
	if cfg.Accelerator, err = sim.ParseAccelerator(*acceleratorFlag); err != nil {
		return cfg, err
	}
	if cfg.Field.Seed, err = sim.ParseSeed(*seedFlag); err != nil {
		return cfg, err
	}
	if *paramFlag > maxParam {
		return cfg, fmt.Errorf("-param %d out of range 0-%d", *paramFlag, maxParam)
	}
	if *normTargetFlag < 0 {
		return cfg, fmt.Errorf("-norm-target must not be negative, got %g", *normTargetFlag)
	}
	cfg.Field.NormTarget = *normTargetFlag
	return cfg, nil
}

func run() error {
	cfg, err := simConfigFromFlags()
	if err != nil {
		return err
	}
	if *cpuProfileFlag != "" {
		stop, err := startCPUProfile(*cpuProfileFlag)
		if err != nil {
			return fmt.Errorf("starting CPU profile: %w", err)
		}
		defer stop()
		log.Printf("Writing CPU profile to %s", *cpuProfileFlag)
	}

	s, err := sim.New(*widthFlag, *heightFlag, cfg)
	if err != nil {
		return fmt.Errorf("creating simulation: %w", err)
	}
	defer s.Close()
	log.Printf("%s model on a %dx%d grid (device: %s)", s.Model(), s.Width(), s.Height(), s.DeviceName())

	g, err := newGame(s)
	if err != nil {
		return err
	}
	defer g.Close()

	if *headlessFlag {
		if err := g.runHeadless(*framesFlag); err != nil {
			return err
		}
	} else {
		if *enableAudioFlag {
			if err := g.startAudio(); err != nil {
				log.Printf("Audio disabled: %v", err)
			}
		}
		scale := max(*scaleFlag, 1)
		ebiten.SetWindowSize(s.Width()*scale, s.Height()*scale)
		ebiten.SetWindowTitle(fmt.Sprintf("wavelab: %s", s.Model()))
		ebiten.SetTPS(defaultTPS)
		if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
			return err
		}
	}

	if *snapshotFlag != "" {
		if err := writeSnapshot(*snapshotFlag, s.Width(), s.Height(), s.Pixels()); err != nil {
			return err
		}
		log.Printf("Wrote snapshot to %s", *snapshotFlag)
	}
	return nil
}
