package sim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavelab/internal/codec"
	"wavelab/internal/field"
	"wavelab/internal/fixed"
	"wavelab/internal/grid"
	"wavelab/internal/sim"
)

func quantumConfig(seed field.Seed) sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Model = sim.Quantum
	cfg.Field.Seed = seed
	return cfg
}

func TestNew_Validation(t *testing.T) {
	cases := []struct {
		name   string
		w, h   int
		wantOK bool
	}{
		{"TooNarrow", 2, 10, false},
		{"TooShort", 10, 2, false},
		{"Zero", 0, 0, false},
		{"Minimal", 3, 3, true},
		{"Rectangular", 40, 20, true},
	}
	for _, tc := range cases {
		for _, model := range []sim.Model{sim.Classical, sim.Quantum} {
			t.Run(tc.name+"/"+model.String(), func(t *testing.T) {
				cfg := sim.DefaultConfig()
				cfg.Model = model
				s, err := sim.New(tc.w, tc.h, cfg)
				if !tc.wantOK {
					assert.ErrorIs(t, err, grid.ErrGridTooSmall)
					assert.Nil(t, s)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tc.w, s.Width())
				assert.Equal(t, tc.h, s.Height())
				assert.Len(t, s.Buffer(), tc.w*tc.h)
				assert.Len(t, s.Pixels(), tc.w*tc.h*4)
			})
		}
	}
}

func TestNew_RendersInitialState(t *testing.T) {
	s, err := sim.New(5, 5, sim.DefaultConfig())
	require.NoError(t, err)
	buf := s.Buffer()
	assert.Equal(t, codec.Transparent, buf[0])
	assert.Equal(t, codec.ScalarToColor(fixed.MaxAmplitude), buf[12])
	assert.Zero(t, s.Steps())
}

func TestClassical_BoundaryRendersTransparent(t *testing.T) {
	s, err := sim.New(12, 9, sim.DefaultConfig())
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		require.NoError(t, s.Step(0, false))
	}
	buf := s.Buffer()
	for row := 0; row < s.Height(); row++ {
		for col := 0; col < s.Width(); col++ {
			c := buf[row*s.Width()+col]
			edge := row == 0 || col == 0 || row == s.Height()-1 || col == s.Width()-1
			if edge {
				assert.Equal(t, codec.Transparent, c, "(%d,%d)", row, col)
			} else {
				assert.NotEqual(t, codec.Transparent, c, "(%d,%d)", row, col)
			}
		}
	}
	assert.Equal(t, uint64(50), s.Steps())
}

func TestQuantumOnlyOperations(t *testing.T) {
	s, err := sim.New(8, 8, sim.DefaultConfig())
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetAmplitude(3, 3, fixed.Complex{Re: 1}), sim.ErrUnsupported)
	assert.ErrorIs(t, s.InjectDelta(3, 3), sim.ErrUnsupported)
	assert.Zero(t, s.Norm())
}

func TestClassicalOnlyOperations(t *testing.T) {
	s, err := sim.New(8, 8, quantumConfig(field.SeedNone))
	require.NoError(t, err)

	_, err = s.ApplyForce(3, 3, 100)
	assert.ErrorIs(t, err, sim.ErrUnsupported)
}

func TestOutOfRange(t *testing.T) {
	q, err := sim.New(8, 6, quantumConfig(field.SeedNone))
	require.NoError(t, err)
	c, err := sim.New(8, 6, sim.DefaultConfig())
	require.NoError(t, err)

	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {6, 0}, {0, 8}} {
		assert.ErrorIs(t, q.SetAmplitude(rc[0], rc[1], fixed.Complex{}), grid.ErrOutOfRange)
		assert.ErrorIs(t, q.InjectDelta(rc[0], rc[1]), grid.ErrOutOfRange)
		_, err := c.ApplyForce(rc[0], rc[1], 1)
		assert.ErrorIs(t, err, grid.ErrOutOfRange)
		_, err = c.Sample(rc[0], rc[1])
		assert.ErrorIs(t, err, grid.ErrOutOfRange)
	}
}

func TestQuantum_DeltaSpreadThroughDriver(t *testing.T) {
	const d = 1 << 28
	s, err := sim.New(5, 5, quantumConfig(field.SeedNone))
	require.NoError(t, err)
	require.NoError(t, s.SetAmplitude(2, 2, fixed.Complex{Re: d}))
	require.NoError(t, s.Step(2, false))

	var lit int
	for i, c := range s.Buffer() {
		if c != codec.Black {
			lit++
			row, col := i/5, i%5
			assert.True(t, (row == 2 && col >= 1 && col <= 3) || (col == 2 && row >= 1 && row <= 3),
				"unexpected lit cell (%d,%d)", row, col)
		}
	}
	assert.Greater(t, lit, 0)
	assert.Greater(t, s.Norm(), 0.0)
}

func TestApplyForce(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Field.StimulusLevel = 0
	s, err := sim.New(7, 7, cfg)
	require.NoError(t, err)

	ok, err := s.ApplyForce(0, 3, fixed.MaxAmplitude)
	require.NoError(t, err)
	assert.False(t, ok, "boundary drops force")

	ok, err = s.ApplyForce(3, 3, fixed.MaxAmplitude/2)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Step(0, false))
	v, err := s.Sample(3, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v, 1e-6)
}

func TestGrayscaleRender(t *testing.T) {
	s, err := sim.New(16, 16, quantumConfig(field.SeedPacket))
	require.NoError(t, err)
	require.NoError(t, s.Step(6, true))
	assert.True(t, s.Grayscale())
	for _, c := range s.Buffer() {
		r, g, b, a := c.RGBA()
		assert.Equal(t, r, g)
		assert.Equal(t, g, b)
		assert.Equal(t, uint8(0xFF), a)
	}
}

func TestReset(t *testing.T) {
	s, err := sim.New(10, 10, quantumConfig(field.SeedPacket))
	require.NoError(t, err)
	initial := append([]codec.Color(nil), s.Buffer()...)
	for i := 0; i < 20; i++ {
		require.NoError(t, s.Step(6, false))
	}
	require.NoError(t, s.Reset())
	assert.Zero(t, s.Steps())
	assert.Equal(t, initial, s.Buffer())
}

func TestAccelerator(t *testing.T) {
	cfg := quantumConfig(field.SeedPacket)
	cfg.Accelerator = sim.OpenCL
	_, err := sim.New(8, 8, cfg)
	assert.ErrorIs(t, err, sim.ErrAcceleratorUnavailable)

	cpu, err := sim.New(8, 8, sim.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "cpu", cpu.DeviceName())
	assert.Equal(t, sim.Classical, cpu.Model())
	cpu.Close()
}

func TestParse(t *testing.T) {
	m, err := sim.ParseModel("Quantum")
	require.NoError(t, err)
	assert.Equal(t, sim.Quantum, m)
	_, err = sim.ParseModel("relativistic")
	assert.ErrorIs(t, err, sim.ErrUnknownValue)

	a, err := sim.ParseAccelerator("opencl")
	require.NoError(t, err)
	assert.Equal(t, sim.OpenCL, a)
	_, err = sim.ParseAccelerator("tpu")
	assert.ErrorIs(t, err, sim.ErrUnknownValue)

	seed, err := sim.ParseSeed("delta")
	require.NoError(t, err)
	assert.Equal(t, field.SeedDelta, seed)
	_, err = sim.ParseSeed("random")
	assert.ErrorIs(t, err, sim.ErrUnknownValue)
}

func TestTestPattern(t *testing.T) {
	s, err := sim.New(9, 7, sim.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, codec.TestPattern(9, 7), s.TestPattern())
}
