package g3d

import "errors"

// Driver errors. The render core itself only logs; these are returned at
// the Driver boundary so callers can choose a fallback.
var (
	// ErrNoDevice is returned when a Driver is created without a device.
	ErrNoDevice = errors.New("g3d: no device")

	// ErrClosed is returned by operations on a closed Driver.
	ErrClosed = errors.New("g3d: driver closed")

	// ErrInvalidImage is returned for nil, empty or inconsistent images.
	ErrInvalidImage = errors.New("g3d: invalid image")

	// ErrUnsupportedFormat is returned when the backend cannot store a
	// format and no fallback applies.
	ErrUnsupportedFormat = errors.New("g3d: unsupported format")

	// ErrBackendMismatch is returned when a resource from another backend
	// is handed to this Driver.
	ErrBackendMismatch = errors.New("g3d: resource belongs to another backend")

	// ErrNotFound is returned when a texture, render target or material
	// is not owned by this Driver.
	ErrNotFound = errors.New("g3d: not found")

	// ErrNotSupported is returned when the backend lacks a capability.
	ErrNotSupported = errors.New("g3d: not supported by backend")

	// ErrLocked is returned when the state cache is locked.
	ErrLocked = errors.New("g3d: state cache locked")
)
