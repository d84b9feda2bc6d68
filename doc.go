// Package g3d is the render-state core of a 3D engine: textures, render
// targets, a redundant-call-suppressing state cache and the material
// renderers that configure it, generic over the graphics backend.
//
// # Overview
//
// A [Driver] wraps one [gpucore.Device]. Everything that reaches the device
// goes through a [render.StateCache], which mirrors the native pipeline and
// drops calls that would not change it. Backends register themselves in
// package backend; import the ones you need for their side effects.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/g3d"
//	    _ "github.com/gogpu/g3d/backend/opengl"
//	)
//
//	d, err := g3d.Open(g3d.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer d.Close()
//
//	tex, err := d.AddTexture("wall", img)
//	m := material.Default()
//	m.SetTexture(0, tex)
//	d.SetMaterial(m)
//	d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 36)
//
// # Materials
//
// Materials are compared by value. A draw re-applies the material only when
// it differs from the last one applied or after [Driver.ResetMaterial].
// Shader materials are added with [Driver.AddShaderMaterial].
//
// # Logging
//
// g3d is silent by default. [SetLogger] enables structured logging for the
// driver, the render core and the material renderers.
package g3d
