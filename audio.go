package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// startAudio plays the center probe through ebiten's audio context.
func (g *Game) startAudio() error {
	ctx := audio.NewContext(audioSampleRate)
	player, err := ctx.NewPlayer(g.probe)
	if err != nil {
		return fmt.Errorf("creating audio player: %w", err)
	}
	player.SetBufferSize(audioBufferDuration)
	player.Play()
	g.audioCtx, g.audioPlayer = ctx, player
	log.Printf("Audio enabled (%d Hz, %s buffer)", audioSampleRate, audioBufferDuration)
	return nil
}
