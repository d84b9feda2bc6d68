// Package material describes how primitives are shaded and applies that
// description to a render.StateCache.
//
// A [Material] is a plain comparable value. Each [Type] names a [Renderer],
// a stateless technique that configures texture stages, blending and the
// active program when its material becomes current. The Driver in the root
// package calls the renderer protocol:
//
//	r.OnSetMaterial(&m, &last, reset, services) // when m != last or reset
//	r.OnRender(services)                        // every draw
//	r.OnUnsetMaterial(services)                 // before another renderer takes over
//
// Renderers are flyweights: one instance serves every draw of its type and
// keeps nothing between calls. Shader materials are created at run time with
// [NewShaderRenderer] and registered in a [Registry].
package material
