// Package sim is the driver the viewers talk to. It owns the grid, one field
// model and the color buffer the model renders into.
package sim

import (
	"errors"
	"fmt"
	"strings"

	"wavelab/internal/codec"
	"wavelab/internal/field"
	"wavelab/internal/fixed"
	"wavelab/internal/grid"
)

var (
	// ErrUnsupported is returned when an operation does not apply to the
	// running model.
	ErrUnsupported = errors.New("sim: operation not supported by this model")
	// ErrAcceleratorUnavailable is returned when the requested accelerator
	// cannot run the requested model.
	ErrAcceleratorUnavailable = errors.New("sim: accelerator unavailable")
	// ErrUnknownValue is returned by the Parse helpers.
	ErrUnknownValue = errors.New("sim: unknown value")
)

// Model selects the wave equation.
type Model int

const (
	Classical Model = iota
	Quantum
)

func (m Model) String() string {
	switch m {
	case Classical:
		return "classical"
	case Quantum:
		return "quantum"
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// ParseModel accepts "classical" or "quantum", case-insensitively.
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classical":
		return Classical, nil
	case "quantum":
		return Quantum, nil
	}
	return 0, fmt.Errorf("%w: model %q", ErrUnknownValue, s)
}

// Accelerator selects where Step runs.
type Accelerator int

const (
	CPU Accelerator = iota
	OpenCL
)

func (a Accelerator) String() string {
	switch a {
	case CPU:
		return "cpu"
	case OpenCL:
		return "opencl"
	}
	return fmt.Sprintf("Accelerator(%d)", int(a))
}

// ParseAccelerator accepts "cpu" or "opencl", case-insensitively.
func ParseAccelerator(s string) (Accelerator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cpu":
		return CPU, nil
	case "opencl", "gpu":
		return OpenCL, nil
	}
	return 0, fmt.Errorf("%w: accelerator %q", ErrUnknownValue, s)
}

// ParseSeed accepts "packet", "delta" or "none".
func ParseSeed(s string) (field.Seed, error) {
	for _, seed := range []field.Seed{field.SeedPacket, field.SeedDelta, field.SeedNone} {
		if strings.EqualFold(strings.TrimSpace(s), seed.String()) {
			return seed, nil
		}
	}
	return 0, fmt.Errorf("%w: seed %q", ErrUnknownValue, s)
}

// Config selects the model, where it runs and its numeric constants.
type Config struct {
	Model       Model
	Accelerator Accelerator
	Field       field.Config
}

// DefaultConfig runs the classical model on the CPU.
func DefaultConfig() Config {
	return Config{
		Model:       Classical,
		Accelerator: CPU,
		Field:       field.DefaultConfig(),
	}
}

// stepper is what Step drives. The accelerated solver reports errors, the CPU
// models cannot fail.
type stepper interface {
	Step(param uint8) error
}

type cpuStepper struct{ f field.Field }

func (s cpuStepper) Step(param uint8) error {
	s.f.Step(param)
	return nil
}

// Simulation is a grid, one field model and its rendered color buffer. It is
// not safe for concurrent use.
type Simulation struct {
	cfg  Config
	grid *grid.Grid

	field     field.Field
	classical *field.Classical
	quantum   *field.Quantum
	stepper   stepper
	gpu       *field.OpenCLClassical

	buf       []codec.Color
	pixels    []byte
	grayscale bool
	steps     uint64
}

// New builds a width×height simulation and renders its initial state.
// Dimensions below 3 fail with an error wrapping grid.ErrGridTooSmall.
func New(width, height int, cfg Config) (*Simulation, error) {
	g, err := grid.New(width, height)
	if err != nil {
		return nil, err
	}
	if cfg.Model != Classical && cfg.Model != Quantum {
		return nil, fmt.Errorf("%w: model %s", ErrUnknownValue, cfg.Model)
	}
	if cfg.Accelerator == OpenCL && cfg.Model != Classical {
		return nil, fmt.Errorf("%w: %s model has no OpenCL solver", ErrAcceleratorUnavailable, cfg.Model)
	}
	s := &Simulation{
		cfg:    cfg,
		grid:   g,
		buf:    make([]codec.Color, g.Len()),
		pixels: make([]byte, g.Len()*4),
	}
	if err := s.build(); err != nil {
		return nil, err
	}
	s.Render(false)
	return s, nil
}

func (s *Simulation) build() error {
	switch s.cfg.Model {
	case Classical:
		c := field.NewClassical(s.grid, s.cfg.Field)
		s.field, s.classical, s.quantum = c, c, nil
		s.stepper = cpuStepper{c}
		if s.cfg.Accelerator == OpenCL {
			gpu, err := field.NewOpenCLClassical(c)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrAcceleratorUnavailable, err)
			}
			s.gpu, s.stepper = gpu, gpu
		}
	case Quantum:
		q := field.NewQuantum(s.grid, s.cfg.Field)
		s.field, s.classical, s.quantum = q, nil, q
		s.stepper = cpuStepper{q}
	}
	return nil
}

// Step advances the model by one tick with param as the damping shift
// (classical) or stability shift (quantum) and re-renders the buffer.
func (s *Simulation) Step(param uint8, grayscale bool) error {
	if err := s.stepper.Step(param); err != nil {
		return fmt.Errorf("step %d: %w", s.steps, err)
	}
	s.steps++
	s.Render(grayscale)
	return nil
}

// Render redraws the buffer from the current state without stepping.
func (s *Simulation) Render(grayscale bool) {
	s.grayscale = grayscale
	s.field.Render(s.buf, grayscale)
}

// Buffer is the row-major rendered colors. Callers must not modify it.
func (s *Simulation) Buffer() []codec.Color { return s.buf }

// Pixels returns Buffer encoded as R,G,B,A bytes. The slice is reused across
// calls.
func (s *Simulation) Pixels() []byte {
	codec.EncodeRGBA(s.pixels, s.buf)
	return s.pixels
}

// TestPattern returns the codec calibration image at this grid's size.
func (s *Simulation) TestPattern() []codec.Color {
	return codec.TestPattern(s.grid.Width(), s.grid.Height())
}

func (s *Simulation) Width() int  { return s.grid.Width() }
func (s *Simulation) Height() int { return s.grid.Height() }

// Model reports the running model.
func (s *Simulation) Model() Model { return s.cfg.Model }

// Steps counts calls to Step since construction or the last Reset.
func (s *Simulation) Steps() uint64 { return s.steps }

// Grayscale reports the mode of the last render.
func (s *Simulation) Grayscale() bool { return s.grayscale }

// DeviceName names the OpenCL device, or "cpu".
func (s *Simulation) DeviceName() string {
	if s.gpu != nil {
		return s.gpu.DeviceName()
	}
	return CPU.String()
}

// SetAmplitude writes c into the quantum field at (row, col).
func (s *Simulation) SetAmplitude(row, col int, c fixed.Complex) error {
	if s.quantum == nil {
		return fmt.Errorf("%w: SetAmplitude on %s model", ErrUnsupported, s.cfg.Model)
	}
	i, err := s.grid.Index(row, col)
	if err != nil {
		return err
	}
	s.quantum.SetAmplitude(i, c)
	return nil
}

// InjectDelta writes a real spike into the quantum field at (row, col).
func (s *Simulation) InjectDelta(row, col int) error {
	if s.quantum == nil {
		return fmt.Errorf("%w: InjectDelta on %s model", ErrUnsupported, s.cfg.Model)
	}
	i, err := s.grid.Index(row, col)
	if err != nil {
		return err
	}
	s.quantum.InjectDelta(i)
	return nil
}

// ApplyForce pushes amount into the classical field at (row, col). Force on a
// boundary cell is dropped and reported as false.
func (s *Simulation) ApplyForce(row, col int, amount fixed.Amplitude) (bool, error) {
	if s.classical == nil {
		return false, fmt.Errorf("%w: ApplyForce on %s model", ErrUnsupported, s.cfg.Model)
	}
	i, err := s.grid.Index(row, col)
	if err != nil {
		return false, err
	}
	return s.classical.Push(i, amount), nil
}

// Sample reads the real amplitude at (row, col) in normalized units.
func (s *Simulation) Sample(row, col int) (float64, error) {
	i, err := s.grid.Index(row, col)
	if err != nil {
		return 0, err
	}
	return s.field.Sample(i), nil
}

// Norm is the quantum field's sum of squared magnitudes, or 0 for the
// classical model.
func (s *Simulation) Norm() float64 {
	if s.quantum == nil {
		return 0
	}
	return s.quantum.Norm()
}

// Reset rebuilds the field from its initial state.
func (s *Simulation) Reset() error {
	s.Close()
	if err := s.build(); err != nil {
		return err
	}
	s.steps = 0
	s.Render(s.grayscale)
	return nil
}

// Close releases accelerator resources. The simulation is unusable with an
// OpenCL accelerator afterwards until Reset.
func (s *Simulation) Close() {
	if s.gpu != nil {
		s.gpu.Close()
		s.gpu = nil
	}
}
