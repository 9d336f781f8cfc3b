//go:build !opencl

package field

import "errors"

// ErrNoOpenCL is returned by NewOpenCLClassical in builds without the opencl tag.
var ErrNoOpenCL = errors.New("field: OpenCL support is not enabled; rebuild with -tags opencl")

// OpenCLClassical is unavailable in this build.
type OpenCLClassical struct{ field *Classical }

func NewOpenCLClassical(_ *Classical) (*OpenCLClassical, error) { return nil, ErrNoOpenCL }

func (s *OpenCLClassical) Step(uint8) error { return ErrNoOpenCL }

func (s *OpenCLClassical) Field() *Classical { return s.field }

func (s *OpenCLClassical) DeviceName() string { return "" }

func (s *OpenCLClassical) Close() {}
