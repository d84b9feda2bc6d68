// Package webgl implements gpucore.Device on a WebGL 2 rendering context
// when compiled for js/wasm.
//
// The host creates the canvas and its "webgl2" context and passes the
// context as backend.Config.Canvas. WebGL has no BGRA upload, so A8R8G8B8
// pixels are swizzled on upload and read-back. Per-attachment blending and
// color masks are only reported when OES_draw_buffers_indexed is present.
package webgl
