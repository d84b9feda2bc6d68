package g3d

import (
	"fmt"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/material"
	"github.com/gogpu/g3d/render"
	"github.com/gogpu/gputypes"
)

// SetMaterial sets the material of the following draws. Nothing is issued
// until the next draw.
func (d *Driver) SetMaterial(m material.Material) { d.pending = m }

// Material returns the material of the following draws.
func (d *Driver) Material() material.Material { return d.pending }

// ResetMaterial forces the next draw to re-apply the whole material, for
// use after foreign code touched the native state. The state cache forgets
// everything it knew.
func (d *Driver) ResetMaterial() {
	d.cache.Invalidate()
	d.resetPending = true
}

// MaterialRenderer returns the renderer of t, or nil.
func (d *Driver) MaterialRenderer(t material.Type) material.Renderer {
	return d.materials.Get(t)
}

// MaterialRendererCount returns the number of registered material types.
func (d *Driver) MaterialRendererCount() int { return d.materials.Len() }

// AddShaderMaterial compiles src and registers a material type that runs
// it. Blending and transparency come from the base type; cb sets the
// program constants before every draw.
func (d *Driver) AddShaderMaterial(src gpucore.ShaderSource, cb material.ShaderCallback, base material.Type, userData int) (material.Type, error) {
	if d.closed {
		return 0, ErrClosed
	}
	b := d.materials.Get(base)
	if b == nil {
		return 0, fmt.Errorf("%w: base material %v", ErrNotFound, base)
	}
	r, err := material.NewShaderRenderer(d.cache, src, cb, b, userData)
	if err != nil {
		return 0, fmt.Errorf("g3d: %w", err)
	}
	name := src.Label
	if name == "" {
		name = fmt.Sprintf("shader%d", d.materials.Len()-int(material.BuiltinCount))
	}
	return d.materials.Add(name, r), nil
}

// DrawPrimitives applies the pending material and draws count vertices
// starting at first. It reports whether anything was submitted.
func (d *Driver) DrawPrimitives(prim gputypes.PrimitiveTopology, first, count int) bool {
	if d.closed || count <= 0 {
		return false
	}
	r := d.applyMaterial()
	if r == nil || !r.OnRender(d.services) {
		return false
	}
	d.dev.Draw(prim, first, count)
	return true
}

// applyMaterial runs the renderer protocol for the pending material and
// returns the renderer to draw with.
func (d *Driver) applyMaterial() material.Renderer {
	m := &d.pending
	r := d.materials.Get(m.Type)
	if r == nil {
		slogger().Warn("g3d: unknown material type, drawing solid", "type", m.Type)
		m.Type = material.Solid
		r = d.materials.Get(material.Solid)
	}
	if d.hasApplied && *m == d.applied && !d.resetPending {
		return r
	}

	var last *material.Material
	if d.hasApplied {
		last = &d.applied
	}
	if d.active != nil && (last == nil || last.Type != m.Type) {
		d.active.OnUnsetMaterial(d.services)
	}
	d.active = r
	r.OnSetMaterial(m, last, d.resetPending || last == nil, d.services)

	d.applied = *m
	d.hasApplied = true
	d.resetPending = false
	return r
}

// forgetTexture clears every layer of m referring to t.
func forgetTexture(m *material.Material, t *render.Texture) {
	for i := range m.Layers {
		if m.Layers[i].Texture == t {
			m.Layers[i].Texture = nil
		}
	}
}
