// Package opengl implements gpucore.Device on OpenGL 4.1 core through
// go-gl.
//
// The host creates the window and makes a 4.1 core context current on the
// calling thread before opening the device; the device never changes the
// current context. Fixed-function texture stages, lighting and fog are
// emulated by a built-in program that is in use whenever the program
// handle is zero.
//
// Importing the package registers the "opengl" backend. Build with the
// nogl tag to leave it out, for example on machines without a GL driver
// or cgo toolchain.
package opengl
