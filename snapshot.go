package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// writeSnapshot encodes R,G,B,A pixel bytes of a width×height frame as PNG.
func writeSnapshot(path string, width, height int, pixels []byte) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if len(pixels) != len(img.Pix) {
		return fmt.Errorf("snapshot: have %d bytes for a %dx%d frame", len(pixels), width, height)
	}
	copy(img.Pix, pixels)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %q: %w", path, err)
	}
	return f.Close()
}
