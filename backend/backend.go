package backend

import (
	"errors"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
	"github.com/gogpu/gpucontext"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or cannot run in this process.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNoContext is returned when a backend needs a host-provided context
	// and the Config carries none.
	ErrNoContext = errors.New("backend: no graphics context provided")
)

// Backend names.
const (
	OpenGL    = "opengl"
	WGPU      = "wgpu"
	WebGL     = "webgl"
	Recording = "recording"
)

// Config carries what a factory needs to open a device on an existing
// context. Window and context creation belong to the host.
type Config struct {
	// Caps overrides the reported capabilities. Only the recording backend
	// honors it.
	Caps *gpucore.Caps

	// Provider supplies a WebGPU device created by the host.
	Provider gpucontext.DeviceProvider

	// Canvas is the host's WebGL2 rendering context (a js.Value).
	Canvas any

	// Backbuffer is the surface size for backends that cannot query it.
	Backbuffer image.Size

	// Debug enables native error checks inside the backend.
	Debug bool
}

// Factory opens a device on the context described by cfg.
type Factory func(cfg Config) (gpucore.Device, error)
