// Package gpucore defines the backend capability interface the render core is
// written against.
//
// A backend implements [Device] once. The render package layers the state
// cache, textures and render targets on top of it without ever touching a
// native graphics API directly:
//
//	               +-----------------+
//	               |     render      |
//	               | (StateCache,    |
//	               |  Texture, RT)   |
//	               +--------+--------+
//	                        |
//	                  gpucore.Device
//	                        |
//	    +----------+--------+---------+-----------+
//	    |          |                  |           |
//	 opengl      webgl              wgpu      recording
//	 (go-gl)   (syscall/js)    (gogpu/wgpu)   (in memory)
//
// # Resource Management
//
// Native objects are referred to by opaque handles ([TextureHandle],
// [FramebufferHandle], [ProgramHandle]). The zero value [InvalidID] is the
// null object: binding it unbinds, attaching it detaches. Backends map
// handles to their own resources.
//
// # Bind-to-edit
//
// Like OpenGL, texture uploads and sampler parameters apply to the texture
// bound to the active unit, and attachments apply to the bound framebuffer.
// Backends without that model track the bindings themselves.
//
// # Capabilities
//
// [Caps] is queried once when the state cache is created and treated as
// immutable for the lifetime of the device.
package gpucore
