//go:build opencl

package field

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"

	"wavelab/internal/fixed"
)

// OpenCLClassical steps a Classical field on an OpenCL device. The host copy is
// read back after every Step so Render, Sample and the accessors stay valid.
type OpenCLClassical struct {
	field *Classical

	context        *cl.Context
	queue          *cl.CommandQueue
	program        *cl.Program
	velocityKernel *cl.Kernel
	positionKernel *cl.Kernel
	uBuf           *cl.MemObject
	vBuf           *cl.MemObject
	forceBuf       *cl.MemObject
	byteSize       int
	deviceName     string
}

const classicalKernelSource = `
inline int cap_amp(long v) {
    if (v < -1073741824L) return -1073741824;
    if (v > 1073741823L) return 1073741823;
    return (int)v;
}

__kernel void velocity_step(
    const int width,
    const int height,
    const int damping,
    __global const int* u,
    __global int* v)
{
    int idx = get_global_id(0);
    if (idx >= width * height) {
        return;
    }
    int x = idx % width;
    int y = idx / width;
    if (x <= 0 || x >= width - 1 || y <= 0 || y >= height - 1) {
        return;
    }
    long center = u[idx];
    long uxx = (((long)u[idx - 1] + (long)u[idx + 1]) >> 1) - center;
    long uyy = (((long)u[idx - width] + (long)u[idx + width]) >> 1) - center;
    long vel = (long)v[idx] + (uxx >> 1) + (uyy >> 1);
    if (damping > 0) {
        vel -= vel >> damping;
    }
    v[idx] = cap_amp(vel);
}

__kernel void position_step(
    const int width,
    const int height,
    const int decay,
    __global int* u,
    __global const int* v,
    __global int* force)
{
    int idx = get_global_id(0);
    if (idx >= width * height) {
        return;
    }
    int x = idx % width;
    int y = idx / width;
    if (x <= 0 || x >= width - 1 || y <= 0 || y >= height - 1) {
        return;
    }
    long f = force[idx];
    int moved = cap_amp((long)u[idx] + (long)v[idx]);
    u[idx] = cap_amp(f + (long)moved);
    f -= f >> decay;
    force[idx] = cap_amp(f);
}`

// NewOpenCLClassical picks the first GPU device, falling back to a CPU device,
// and compiles the classical kernels for it.
func NewOpenCLClassical(c *Classical) (*OpenCLClassical, error) {
	device, err := pickDevice()
	if err != nil {
		return nil, err
	}

	s := &OpenCLClassical{field: c, deviceName: device.Name()}
	s.context, err = cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	if s.queue, err = s.context.CreateCommandQueue(device, 0); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if s.program, err = s.context.CreateProgramWithSource([]string{classicalKernelSource}); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := s.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		s.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	if s.velocityKernel, err = s.program.CreateKernel("velocity_step"); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating velocity kernel: %w", err)
	}
	if s.positionKernel, err = s.program.CreateKernel("position_step"); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating position kernel: %w", err)
	}

	s.byteSize = c.grid.Len() * int(unsafe.Sizeof(int32(0)))
	for _, buf := range []**cl.MemObject{&s.uBuf, &s.vBuf, &s.forceBuf} {
		if *buf, err = s.context.CreateEmptyBuffer(cl.MemReadWrite, s.byteSize); err != nil {
			s.Close()
			return nil, fmt.Errorf("allocating field buffer: %w", err)
		}
	}

	w, h := int32(c.grid.Width()), int32(c.grid.Height())
	if err := s.velocityKernel.SetArgs(w, h, int32(0), s.uBuf, s.vBuf); err != nil {
		s.Close()
		return nil, fmt.Errorf("setting velocity kernel arguments: %w", err)
	}
	decay := int32(clampShift(c.cfg.ForceDecayShift))
	if err := s.positionKernel.SetArgs(w, h, decay, s.uBuf, s.vBuf, s.forceBuf); err != nil {
		s.Close()
		return nil, fmt.Errorf("setting position kernel arguments: %w", err)
	}
	return s, nil
}

func pickDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available")
	}
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}
	return nil, errors.New("no suitable OpenCL devices found")
}

type binding struct {
	buf  *cl.MemObject
	data []fixed.Amplitude
}

func (s *OpenCLClassical) bindings() [3]binding {
	return [3]binding{{s.uBuf, s.field.u}, {s.vBuf, s.field.v}, {s.forceBuf, s.field.force}}
}

func (s *OpenCLClassical) upload() error {
	for _, b := range s.bindings() {
		if _, err := s.queue.EnqueueWriteBuffer(b.buf, false, 0, s.byteSize, unsafe.Pointer(&b.data[0]), nil); err != nil {
			return fmt.Errorf("writing field buffer: %w", err)
		}
	}
	s.field.clearModified()
	return nil
}

// Step runs one classical step on the device. Host-side writes made since the
// previous step, such as Push, are uploaded first.
func (s *OpenCLClassical) Step(damping uint8) error {
	if s.field.wasModified() {
		if err := s.upload(); err != nil {
			return err
		}
	}
	if err := s.velocityKernel.SetArgInt32(2, int32(clampShift(damping))); err != nil {
		return fmt.Errorf("setting damping: %w", err)
	}
	global := []int{s.field.grid.Len()}
	if _, err := s.queue.EnqueueNDRangeKernel(s.velocityKernel, nil, global, nil, nil); err != nil {
		return fmt.Errorf("enqueueing velocity kernel: %w", err)
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.positionKernel, nil, global, nil, nil); err != nil {
		return fmt.Errorf("enqueueing position kernel: %w", err)
	}
	for _, b := range s.bindings() {
		if _, err := s.queue.EnqueueReadBuffer(b.buf, true, 0, s.byteSize, unsafe.Pointer(&b.data[0]), nil); err != nil {
			return fmt.Errorf("reading field buffer: %w", err)
		}
	}
	return nil
}

// Field returns the host copy the solver keeps in sync.
func (s *OpenCLClassical) Field() *Classical { return s.field }

// DeviceName reports the device the kernels run on.
func (s *OpenCLClassical) DeviceName() string { return s.deviceName }

// Close releases every device object. It is safe to call more than once.
func (s *OpenCLClassical) Close() {
	for _, buf := range []**cl.MemObject{&s.forceBuf, &s.vBuf, &s.uBuf} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
	if s.positionKernel != nil {
		s.positionKernel.Release()
		s.positionKernel = nil
	}
	if s.velocityKernel != nil {
		s.velocityKernel.Release()
		s.velocityKernel = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
}
