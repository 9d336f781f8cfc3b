// Package codec turns cell amplitudes into packed 32-bit colors.
//
// A Color keeps red in bits [0:8), green in [8:16), blue in [16:24) and alpha
// in [24:32). Written little-endian that is R,G,B,A byte order, the layout
// ebiten's WritePixels and image.RGBA expect.
package codec

import (
	"encoding/binary"
	"math"

	"wavelab/internal/fixed"
)

// Color is a packed RGBA value.
type Color uint32

const (
	// Alpha is the fully opaque alpha mask.
	Alpha Color = 0xFF_00_00_00
	// Transparent is the color rendered for classical boundary cells.
	Transparent Color = 0
	// Black is opaque black.
	Black = Alpha
)

// scalarShift drops the low bits of a scalar amplitude so what remains fits a
// single 8-bit channel.
const scalarShift = 22

// Pack assembles an opaque color from its channels.
func Pack(r, g, b uint8) Color {
	return Alpha | Color(b)<<16 | Color(g)<<8 | Color(r)
}

// RGBA unpacks c into its channels.
func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

// clamp converts a float channel in [0, 255] to uint8, truncating.
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 || math.IsNaN(v) {
		return 0
	}
	return uint8(v)
}

// HSVToRGB converts hue in degrees and saturation and value in [0, 1] to 8-bit
// channels, following the chroma and sector construction. A negative hue, as
// produced by atan2, is shifted once by 360. Sector boundaries belong to the
// sector above them, and a hue of 360 or more falls through to black.
func HSVToRGB(hue, sat, val float64) (r, g, b uint8) {
	if hue < 0 {
		hue += 360
	}
	chroma := sat * val
	sector := hue / 60
	x := chroma * (1 - math.Abs(math.Mod(sector, 2)-1))

	var r1, g1, b1 float64
	switch {
	case sector < 1:
		r1, g1, b1 = chroma, x, 0
	case sector < 2:
		r1, g1, b1 = x, chroma, 0
	case sector < 3:
		r1, g1, b1 = 0, chroma, x
	case sector < 4:
		r1, g1, b1 = 0, x, chroma
	case sector < 5:
		r1, g1, b1 = x, 0, chroma
	case sector < 6:
		r1, g1, b1 = chroma, 0, x
	}
	m := val - chroma
	return clamp(255 * (r1 + m)), clamp(255 * (g1 + m)), clamp(255 * (b1 + m))
}

// ScalarToColor renders a real amplitude. Positive amplitudes light bits
// [8:16) and [16:24) equally; zero and negative amplitudes put their magnitude,
// capped at 255, in bits [0:8).
func ScalarToColor(a fixed.Amplitude) Color {
	val := int32(a) >> scalarShift
	if val > 0 {
		res := Color(min(val, 255))
		return res<<8 | res<<16 | Alpha
	}
	val = max(val, -255)
	return Color(-val) | Alpha
}

// ComplexToColor renders a complex amplitude with its magnitude as value and
// its phase as hue. With grayscale set the phase is dropped and the value is
// written to every channel.
func ComplexToColor(psi fixed.Complex, grayscale bool) Color {
	re, im := psi.Normalized()
	value := math.Hypot(re, im)
	if grayscale {
		v, _, _ := HSVToRGB(0, 1, value)
		return Pack(v, v, v)
	}
	hue := math.Atan2(im, re) * 180 / math.Pi
	r, g, b := HSVToRGB(hue, 1, value)
	return Pack(r, g, b)
}

// EncodeRGBA writes src into dst as R,G,B,A bytes. dst must hold at least
// 4*len(src) bytes.
func EncodeRGBA(dst []byte, src []Color) {
	for i, c := range src {
		binary.LittleEndian.PutUint32(dst[i*4:], uint32(c))
	}
}

// TestPattern renders the unit disk of the complex plane across a
// width×height image: column 0 maps to MinAmplitude on the real axis, row 0 to
// MinAmplitude on the imaginary axis, and points outside the disk are black.
// It shows the full hue wheel the codec can produce.
func TestPattern(width, height int) []Color {
	sample := func(i, n int) fixed.Amplitude {
		span := float64(fixed.MaxAmplitude) - float64(fixed.MinAmplitude)
		return fixed.Amplitude(int64(span*float64(i)/float64(n)) + int64(fixed.MinAmplitude))
	}
	out := make([]Color, width*height)
	for y := 0; y < height; y++ {
		im := sample(y, height)
		cy := -fixed.ToNormalized(im)
		for x := 0; x < width; x++ {
			re := sample(x, width)
			cx := fixed.ToNormalized(re)
			arc := math.Sqrt(1 - cx*cx)
			if -arc <= cy && cy < arc {
				out[y*width+x] = ComplexToColor(fixed.Complex{Re: re, Im: im}, false)
			} else {
				out[y*width+x] = Black
			}
		}
	}
	return out
}
