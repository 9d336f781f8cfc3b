//go:build !opencl

package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wavelab/internal/field"
)

func TestOpenCLClassical_DisabledBuild(t *testing.T) {
	c := field.NewClassical(newGrid(t, 4, 4), field.DefaultConfig())
	s, err := field.NewOpenCLClassical(c)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, field.ErrNoOpenCL)
}
