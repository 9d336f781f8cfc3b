package field

import (
	"wavelab/internal/codec"
	"wavelab/internal/fixed"
	"wavelab/internal/grid"
)

// Classical is a damped scalar wave: displacement u, velocity v and a decaying
// external force per cell. Boundary cells stay at zero and act as a fixed wall.
type Classical struct {
	grid *grid.Grid
	cfg  Config

	u     []fixed.Amplitude
	v     []fixed.Amplitude
	force []fixed.Amplitude

	// modified is set whenever the host writes state outside Step so an
	// accelerator knows to upload it again.
	modified bool
}

// NewClassical allocates a classical field with the initial square stimulus.
func NewClassical(g *grid.Grid, cfg Config) *Classical {
	n := g.Len()
	c := &Classical{
		grid:     g,
		cfg:      cfg,
		u:        make([]fixed.Amplitude, n),
		v:        make([]fixed.Amplitude, n),
		force:    make([]fixed.Amplitude, n),
		modified: true,
	}
	c.seedSquare()
	return c
}

// seedSquare raises u inside the stimulus square, interior cells only.
func (c *Classical) seedSquare() {
	w, h := c.grid.Width(), c.grid.Height()
	lowX, highX := float64(w)*c.cfg.StimulusLow, float64(w)*c.cfg.StimulusHigh
	lowY, highY := float64(h)*c.cfg.StimulusLow, float64(h)*c.cfg.StimulusHigh
	for _, sp := range c.grid.Spans() {
		y := float64(sp.Row)
		if y <= lowY || y >= highY {
			continue
		}
		base := sp.Row * w
		for x := sp.Start; x <= sp.End; x++ {
			if fx := float64(x); fx > lowX && fx < highX {
				c.u[base+x] = c.cfg.StimulusLevel
			}
		}
	}
}

// Step runs the velocity pass over every interior cell and then the position
// pass. The velocity pass only reads displacement, and the position pass reads
// the velocities just written, so the order matters.
func (c *Classical) Step(damping uint8) {
	shift := clampShift(damping)
	w := c.grid.Width()
	u, v, force := c.u, c.v, c.force

	for _, sp := range c.grid.Spans() {
		base := sp.Row * w
		for x := sp.Start; x <= sp.End; x++ {
			i := base + x
			center := int64(u[i])
			uxx := (int64(u[i-1])+int64(u[i+1]))>>1 - center
			uyy := (int64(u[i-w])+int64(u[i+w]))>>1 - center
			vel := int64(v[i]) + uxx>>1 + uyy>>1
			if shift > 0 {
				vel -= vel >> shift
			}
			v[i] = fixed.Cap(vel)
		}
	}

	decay := clampShift(c.cfg.ForceDecayShift)
	for _, sp := range c.grid.Spans() {
		base := sp.Row * w
		for x := sp.Start; x <= sp.End; x++ {
			i := base + x
			f := int64(force[i])
			moved := fixed.Cap(int64(u[i]) + int64(v[i]))
			u[i] = fixed.Cap(f + int64(moved))
			f -= f >> decay
			force[i] = fixed.Cap(f)
		}
	}
}

// Render writes boundary cells as fully transparent and interior cells through
// the scalar codec.
func (c *Classical) Render(dst []codec.Color, _ bool) {
	for i, a := range c.u {
		if !c.grid.IsInterior(i) {
			dst[i] = codec.Transparent
			continue
		}
		dst[i] = codec.ScalarToColor(a)
	}
}

// Sample returns the displacement at index in normalized units.
func (c *Classical) Sample(index int) float64 {
	return fixed.ToNormalized(c.u[index])
}

// Push adds amount to the external force at an interior cell. It reports false
// for boundary cells, which never receive force.
func (c *Classical) Push(index int, amount fixed.Amplitude) bool {
	if !c.grid.IsInterior(index) {
		return false
	}
	c.force[index] = fixed.Cap(int64(c.force[index]) + int64(amount))
	c.modified = true
	return true
}

// Displacement returns u at index.
func (c *Classical) Displacement(index int) fixed.Amplitude { return c.u[index] }

// Velocity returns v at index.
func (c *Classical) Velocity(index int) fixed.Amplitude { return c.v[index] }

// Force returns the pending external force at index.
func (c *Classical) Force(index int) fixed.Amplitude { return c.force[index] }

func (c *Classical) wasModified() bool { return c.modified }

func (c *Classical) clearModified() { c.modified = false }
