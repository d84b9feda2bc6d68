// Package recording provides an in-memory gpucore.Device.
//
// The recording device keeps textures, framebuffers and programs as plain
// byte slices and counts every call by operation name. It emulates the
// bind-to-edit model of the GL family closely enough to drive the render
// state cache without a GPU: uploads land in the bound texture, attachments
// land in the bound framebuffer, and color clears and read-backs operate on
// the stored pixels.
//
// # Inspection
//
// Tests assert on call counts and emulated state:
//
//	dev := recording.NewDefault()
//	cache := render.NewStateCache(dev, render.Options{})
//	cache.SetBlend(true)
//	cache.SetBlend(true)
//	fmt.Println(dev.Calls("SetBlendEnabled")) // 1
//
// # Traces
//
// With SetTracing enabled every call is also appended to a trace that
// WriteTrace encodes as msgpack for offline inspection:
//
//	dev.SetTracing(true)
//	// ... render ...
//	err := dev.WriteTrace(f)
//
// Importing the package registers the "recording" backend.
package recording
