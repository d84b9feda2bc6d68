// Package wgpu implements gpucore.Device on a WebGPU device supplied by the
// host through gpucontext.DeviceProvider.
//
// The provider must expose the HAL objects:
//
//	type halProvider interface {
//	    HalDevice() any // hal.Device
//	    HalQueue() any  // hal.Queue
//	}
//
// WebGPU has no immediate-mode state. Blend, depth, cull and color-mask
// calls are accumulated into a pipeline key; Draw looks the key up in a
// pipeline cache, creating the render pipeline on first use, and encodes
// one render pass on the bound framebuffer. Programs are WGSL compiled to
// SPIR-V with naga and must provide vs_main and fs_main entry points that
// draw from the vertex index alone.
//
// The backbuffer belongs to the host surface: Clear and Draw with no
// framebuffer bound are dropped. Frame read-back and mip generation are not
// available; Caps reports both.
//
// The backend registers itself as "wgpu" when this package is imported:
//
//	import _ "github.com/gogpu/g3d/backend/wgpu"
package wgpu
