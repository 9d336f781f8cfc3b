// Package fixed implements the saturating fixed-point amplitude both field
// models store per cell.
//
// An Amplitude is an int32 kept inside half of the native range, so any two
// amplitudes can be summed without overflow before the result is capped again.
// Intermediate arithmetic is done in int64 and folded back with Cap.
package fixed

import "math"

// Amplitude is a saturating fixed-point value in [MinAmplitude, MaxAmplitude].
type Amplitude int32

const (
	// MinAmplitude is the most negative storable amplitude (MinInt32 >> 1).
	MinAmplitude Amplitude = -1 << 30
	// MaxAmplitude is the most positive storable amplitude (MaxInt32 >> 1).
	MaxAmplitude Amplitude = 1<<30 - 1
)

// scale maps MaxAmplitude onto just under 1.0 in normalized units.
const scale = float64(MaxAmplitude) - 0.5

// Cap saturates v into [MinAmplitude, MaxAmplitude].
func Cap(v int64) Amplitude {
	if v < int64(MinAmplitude) {
		return MinAmplitude
	}
	if v > int64(MaxAmplitude) {
		return MaxAmplitude
	}
	return Amplitude(v)
}

// ToNormalized maps a onto roughly [-1, 1] as (a + 0.5) / (MaxAmplitude - 0.5).
func ToNormalized(a Amplitude) float64 {
	return (float64(a) + 0.5) / scale
}

// FromNormalized is the approximate inverse of ToNormalized. The result is
// truncated toward zero and capped, so a round trip through both functions
// is off by at most one least significant step rather than exact.
func FromNormalized(f float64) Amplitude {
	v := f*scale - 0.5
	switch {
	case math.IsNaN(v):
		return 0
	case v <= float64(MinAmplitude):
		return MinAmplitude
	case v >= float64(MaxAmplitude):
		return MaxAmplitude
	}
	return Amplitude(int64(v))
}

// Complex is a pair of amplitudes holding the real and imaginary parts of a
// complex cell value.
type Complex struct {
	Re, Im Amplitude
}

// CapComplex saturates both parts of a wide intermediate.
func CapComplex(re, im int64) Complex {
	return Complex{Re: Cap(re), Im: Cap(im)}
}

// Normalized returns both parts in normalized units.
func (c Complex) Normalized() (re, im float64) {
	return ToNormalized(c.Re), ToNormalized(c.Im)
}

// FromNormalizedComplex converts a normalized complex pair into amplitudes.
func FromNormalizedComplex(re, im float64) Complex {
	return Complex{Re: FromNormalized(re), Im: FromNormalized(im)}
}
