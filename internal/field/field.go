// Package field holds the two wave models evolved over a grid: a damped
// classical wave on scalar amplitudes and a leapfrog Schrödinger-like wave on
// complex amplitudes. Both step in saturating fixed point and render straight
// into a packed color buffer.
package field

import (
	"wavelab/internal/codec"
	"wavelab/internal/fixed"
)

// Field is one wave model borrowing a grid. Step advances the whole grid by one
// tick; param is the damping shift for the classical model and the stability
// shift for the quantum model. Render writes one color per cell into dst.
type Field interface {
	Step(param uint8)
	Render(dst []codec.Color, grayscale bool)
	// Sample returns the real amplitude at index in normalized units.
	Sample(index int) float64
}

// Seed selects how a quantum field is initialized.
type Seed int

const (
	// SeedPacket starts from a Gaussian-windowed plane wave.
	SeedPacket Seed = iota
	// SeedDelta starts from a single real spike at the grid center.
	SeedDelta
	// SeedNone starts from an all-zero field.
	SeedNone
)

func (s Seed) String() string {
	switch s {
	case SeedPacket:
		return "packet"
	case SeedDelta:
		return "delta"
	case SeedNone:
		return "none"
	}
	return "unknown"
}

// Config carries the numeric constants of both models.
type Config struct {
	// ForceDecayShift is how fast a classical external force fades each step.
	ForceDecayShift uint8
	// StimulusLevel is the displacement of the initial classical square.
	StimulusLevel fixed.Amplitude
	// StimulusLow and StimulusHigh bound the initial square as exclusive
	// fractions of width and height.
	StimulusLow, StimulusHigh float64

	// Seed picks the quantum initial state.
	Seed Seed
	// StabilityShift scales the bootstrap half-step of a packet seed.
	StabilityShift uint8
	// PacketPeak is the packet's envelope maximum in normalized units.
	PacketPeak float64
	// PacketWavenumber is the carrier phase advance across the grid width.
	PacketWavenumber float64
	// PacketWidthX and PacketWidthY are inverse envelope widths relative to
	// the grid dimensions.
	PacketWidthX, PacketWidthY float64
	// NormTarget rescales a packet so the sum of squared magnitudes equals it.
	// Zero leaves the packet at PacketPeak.
	NormTarget float64
	// DeltaAmplitude is the real value written by a delta seed or InjectDelta.
	DeltaAmplitude fixed.Amplitude
}

// DefaultConfig returns the constants the viewers run with.
func DefaultConfig() Config {
	return Config{
		ForceDecayShift:  4,
		StimulusLevel:    fixed.MaxAmplitude,
		StimulusLow:      0.25,
		StimulusHigh:     0.5,
		Seed:             SeedPacket,
		StabilityShift:   6,
		PacketPeak:       0.75,
		PacketWavenumber: 16,
		PacketWidthX:     16,
		PacketWidthY:     10,
		DeltaAmplitude:   1 << 28,
	}
}

// maxShift is the largest meaningful right shift of a 32-bit amplitude.
const maxShift = 31

func clampShift(s uint8) uint {
	if s > maxShift {
		return maxShift
	}
	return uint(s)
}
