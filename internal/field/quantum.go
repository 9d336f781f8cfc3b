package field

import (
	"math"

	"wavelab/internal/codec"
	"wavelab/internal/fixed"
	"wavelab/internal/grid"
)

// Quantum is a complex wave integrated with a two-level leapfrog scheme. The
// i in the governing equation is applied by swapping real and imaginary parts
// of the Laplacian with a sign flip. Boundary cells are static reflectors.
type Quantum struct {
	grid *grid.Grid
	cfg  Config

	psi  []fixed.Complex
	prev []fixed.Complex
	next []fixed.Complex

	norm float64
}

// NewQuantum allocates a quantum field seeded according to cfg.Seed.
func NewQuantum(g *grid.Grid, cfg Config) *Quantum {
	n := g.Len()
	q := &Quantum{
		grid: g,
		cfg:  cfg,
		psi:  make([]fixed.Complex, n),
		prev: make([]fixed.Complex, n),
		next: make([]fixed.Complex, n),
	}
	switch cfg.Seed {
	case SeedPacket:
		q.seedPacket()
	case SeedDelta:
		q.psi[g.Center()] = fixed.Complex{Re: cfg.DeltaAmplitude}
		copy(q.prev, q.psi)
	}
	q.norm = q.measureNorm()
	return q
}

// packet evaluates the Gaussian-windowed plane wave at centered (x, y).
func (q *Quantum) packet(x, y int) complex128 {
	xf := float64(x) / float64(q.grid.Width())
	yf := float64(y) / float64(q.grid.Height())
	ex, ey := q.cfg.PacketWidthX*xf, q.cfg.PacketWidthY*yf
	envelope := q.cfg.PacketPeak * math.Exp(-ex*ex-ey*ey)
	phase := q.cfg.PacketWavenumber * xf
	return complex(envelope*math.Cos(phase), envelope*math.Sin(phase))
}

// seedPacket writes the packet into prev, optionally rescaled to NormTarget,
// and bootstraps psi with a half-step so the leapfrog has both levels.
func (q *Quantum) seedPacket() {
	w := q.grid.Width()
	amps := make([]complex128, q.grid.Len())
	var sum float64
	for _, sp := range q.grid.Spans() {
		for x := sp.Start; x <= sp.End; x++ {
			i := sp.Row*w + x
			amps[i] = q.packet(q.grid.ToCenteredCoords(i))
			sum += real(amps[i])*real(amps[i]) + imag(amps[i])*imag(amps[i])
		}
	}
	gain := 1.0
	if q.cfg.NormTarget > 0 && sum > 0 {
		gain = math.Sqrt(q.cfg.NormTarget / sum)
	}
	for i, a := range amps {
		if a == 0 {
			continue
		}
		q.prev[i] = fixed.FromNormalizedComplex(real(a)*gain, imag(a)*gain)
	}
	copy(q.psi, q.prev)
	q.advance(q.prev, clampShift(q.cfg.StabilityShift)+1)
	q.psi, q.next = q.next, q.psi
}

// advance evaluates the stencil on psi and writes from + correction into next.
// Boundary cells are carried over from psi untouched.
func (q *Quantum) advance(from []fixed.Complex, shift uint) {
	w := q.grid.Width()
	psi, next := q.psi, q.next
	for _, sp := range q.grid.Spans() {
		base := sp.Row * w
		for x := sp.Start; x <= sp.End; x++ {
			i := base + x
			c := psi[i]
			west, east, north, south := psi[i-1], psi[i+1], psi[i-w], psi[i+w]
			lapRe := int64(west.Re) + int64(east.Re) - 2*int64(c.Re) +
				int64(south.Re) + int64(north.Re) - 2*int64(c.Re)
			lapIm := int64(west.Im) + int64(east.Im) - 2*int64(c.Im) +
				int64(south.Im) + int64(north.Im) - 2*int64(c.Im)
			next[i] = fixed.CapComplex(
				int64(from[i].Re) - lapIm>>shift,
				int64(from[i].Im) + lapRe>>shift,
			)
		}
	}
	for _, i := range q.grid.BoundaryCells() {
		next[i] = psi[i]
	}
}

// Step advances one leapfrog tick: psi_new = psi_prev + i·Δ(psi) >> shift,
// then psi_prev takes the old psi and psi the new one.
func (q *Quantum) Step(stability uint8) {
	q.advance(q.prev, clampShift(stability))
	q.prev, q.psi, q.next = q.psi, q.next, q.prev
	q.norm = q.measureNorm()
}

// measureNorm sums squared normalized magnitudes over every cell.
func (q *Quantum) measureNorm() float64 {
	var sum float64
	for _, c := range q.psi {
		re, im := c.Normalized()
		sum += re*re + im*im
	}
	return sum
}

// Render writes every cell, boundary included, through the complex codec.
func (q *Quantum) Render(dst []codec.Color, grayscale bool) {
	for i, c := range q.psi {
		dst[i] = codec.ComplexToColor(c, grayscale)
	}
}

// Sample returns the real part of psi at index in normalized units.
func (q *Quantum) Sample(index int) float64 {
	return fixed.ToNormalized(q.psi[index].Re)
}

// Norm returns the sum of squared magnitudes measured after the last step.
func (q *Quantum) Norm() float64 { return q.norm }

// Psi returns the current amplitude at index.
func (q *Quantum) Psi(index int) fixed.Complex { return q.psi[index] }

// Prev returns the previous time level at index.
func (q *Quantum) Prev(index int) fixed.Complex { return q.prev[index] }

// SetAmplitude overwrites psi at index. The previous level is left alone.
func (q *Quantum) SetAmplitude(index int, c fixed.Complex) {
	q.psi[index] = c
}

// InjectDelta writes a real spike of DeltaAmplitude at index.
func (q *Quantum) InjectDelta(index int) {
	q.psi[index] = fixed.Complex{Re: q.cfg.DeltaAmplitude}
}
