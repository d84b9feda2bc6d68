// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
)

// RenderTarget is a framebuffer object with color and depth-stencil texture
// attachments. Attachment changes are recorded and applied on the next
// Update or Bind.
//
// Attached textures are held: each slot owns one reference for as long as
// the texture is attached.
type RenderTarget struct {
	cache   *StateCache
	backend gpucore.BackendType
	fb      gpucore.FramebufferHandle
	refs    refCounter

	colors       []*Texture
	depthStencil *Texture

	texturesDirty bool
	depthDirty    bool

	// What the native framebuffer currently has attached.
	attached        []gpucore.TextureHandle
	attachedDepth   gpucore.TextureHandle
	attachedStencil gpucore.TextureHandle
	drawBuffers     int

	destroyed bool
	onRelease func(*RenderTarget)
}

// NewRenderTarget creates an empty render target. onRelease, if set, is
// called once on destruction.
func (c *StateCache) NewRenderTarget(onRelease func(*RenderTarget)) *RenderTarget {
	rt := &RenderTarget{
		cache:       c,
		backend:     c.backend,
		refs:        newRefCounter(),
		attached:    make([]gpucore.TextureHandle, c.caps.MaxColorAttachments),
		drawBuffers: -1,
		onRelease:   onRelease,
	}
	fb, err := c.dev.CreateFramebuffer()
	c.check("CreateFramebuffer")
	if err != nil {
		slogger().Error("render: create framebuffer failed", "err", err)
		return rt
	}
	rt.fb = fb
	return rt
}

// SetTexture attaches a single color texture and a depth-stencil texture.
func (rt *RenderTarget) SetTexture(color, depthStencil *Texture) {
	var colors []*Texture
	if color != nil {
		colors = []*Texture{color}
	}
	rt.SetTextures(colors, depthStencil)
}

// SetTextures replaces the full attachment set.
//
// Textures beyond the backend's attachment limit are ignored with a warning.
// Textures from another backend are treated as nil and logged as errors.
// A depth-format color texture is rejected with a warning. A depth-stencil
// texture without a depth format is dropped. Assigning the attachments
// already held changes nothing.
func (rt *RenderTarget) SetTextures(colors []*Texture, depthStencil *Texture) {
	c := rt.cache
	if limit := c.caps.MaxColorAttachments; len(colors) > limit {
		slogger().Warn("render: too many color attachments, extra textures ignored",
			"requested", len(colors), "max", limit)
		colors = colors[:limit]
	}

	next := make([]*Texture, len(colors))
	for i, t := range colors {
		switch {
		case t == nil:
		case t.backend != rt.backend:
			slogger().Error("render: attachment belongs to another backend",
				"texture", t.name, "backend", t.backend, "want", rt.backend)
		case t.format.IsDepth():
			slogger().Warn("render: depth format texture cannot be a color attachment",
				"texture", t.name, "format", t.format, "index", i)
		default:
			next[i] = t
		}
	}

	if depthStencil != nil {
		switch {
		case depthStencil.backend != rt.backend:
			slogger().Error("render: depth attachment belongs to another backend",
				"texture", depthStencil.name, "backend", depthStencil.backend, "want", rt.backend)
			depthStencil = nil
		case !depthStencil.format.IsDepth():
			slogger().Debug("render: depth attachment without depth format dropped",
				"texture", depthStencil.name, "format", depthStencil.format)
			depthStencil = nil
		}
	}

	if !sameAttachments(rt.colors, next) {
		for _, t := range next {
			if t != nil {
				t.refs.grab()
			}
		}
		old := rt.colors
		rt.colors = trimNil(next)
		for _, t := range old {
			if t != nil {
				t.Drop()
			}
		}
		rt.texturesDirty = true
	}

	if depthStencil != rt.depthStencil {
		if depthStencil != nil {
			depthStencil.refs.grab()
		}
		old := rt.depthStencil
		rt.depthStencil = depthStencil
		if old != nil {
			old.Drop()
		}
		rt.depthDirty = true
	}
}

// sameAttachments compares slot by slot, treating missing slots as nil.
func sameAttachments(a, b []*Texture) bool {
	for i := 0; i < max(len(a), len(b)); i++ {
		var x, y *Texture
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x != y {
			return false
		}
	}
	return true
}

func trimNil(ts []*Texture) []*Texture {
	n := len(ts)
	for n > 0 && ts[n-1] == nil {
		n--
	}
	return ts[:n]
}

// Detach removes t from every attachment slot. The change is applied on the
// next Update.
func (rt *RenderTarget) Detach(t *Texture) {
	if t == nil {
		return
	}
	dropped := 0
	for i, c := range rt.colors {
		if c == t {
			rt.colors[i] = nil
			rt.texturesDirty = true
			dropped++
		}
	}
	rt.colors = trimNil(rt.colors)
	if rt.depthStencil == t {
		rt.depthStencil = nil
		rt.depthDirty = true
		dropped++
	}
	for ; dropped > 0; dropped-- {
		t.Drop()
	}
}

// Dirty reports whether attachment changes are pending.
func (rt *RenderTarget) Dirty() bool { return rt.texturesDirty || rt.depthDirty }

// Bind makes the render target current and applies pending attachment
// changes. It returns false while the cache is locked.
func (rt *RenderTarget) Bind() bool {
	if rt.cache.locked || !rt.Valid() {
		return false
	}
	rt.cache.bindFramebuffer(rt.fb)
	rt.Update()
	return true
}

// Update applies pending attachment changes to the native framebuffer,
// binding it if needed. Only attachment points whose texture changed are
// touched; a clean render target issues no calls.
func (rt *RenderTarget) Update() {
	if !rt.Dirty() || !rt.Valid() {
		return
	}
	c := rt.cache
	c.bindFramebuffer(rt.fb)

	if rt.texturesDirty || rt.drawBuffers < 0 {
		highest := 0
		for i := range rt.attached {
			var want gpucore.TextureHandle
			if i < len(rt.colors) && rt.colors[i] != nil {
				want = rt.colors[i].handle
				highest = i + 1
			}
			if rt.attached[i] != want {
				c.dev.AttachColor(i, want)
				c.check("AttachColor")
				rt.attached[i] = want
			}
		}
		// Zero draw buffers disables color output explicitly.
		if rt.drawBuffers != highest {
			c.dev.DrawBuffers(highest)
			c.check("DrawBuffers")
			rt.drawBuffers = highest
		}
	}

	if rt.depthDirty {
		var want gpucore.TextureHandle
		packed := false
		if ds := rt.depthStencil; ds != nil {
			want = ds.handle
			packed = ds.format.HasStencil() && c.caps.PackedDepthStencil
		}
		if packed {
			if rt.attachedDepth != want || rt.attachedStencil != want {
				c.dev.AttachDepthStencil(want)
				c.check("AttachDepthStencil")
				rt.attachedDepth, rt.attachedStencil = want, want
			}
		} else {
			if rt.attachedDepth != want {
				c.dev.AttachDepth(want)
				c.check("AttachDepth")
				rt.attachedDepth = want
			}
			if rt.attachedStencil != gpucore.InvalidID {
				c.dev.AttachStencil(gpucore.InvalidID)
				c.check("AttachStencil")
				rt.attachedStencil = gpucore.InvalidID
			}
		}
	}

	rt.texturesDirty, rt.depthDirty = false, false

	if c.debug {
		if s := c.dev.CheckFramebuffer(); s != gpucore.FramebufferComplete {
			slogger().Error("render: framebuffer incomplete", "framebuffer", rt.fb, "reason", s.String())
		}
	}
}

// Size returns the output size: the first color attachment's size, else the
// depth attachment's, else the backbuffer size.
func (rt *RenderTarget) Size() image.Size {
	for _, t := range rt.colors {
		if t != nil {
			return t.size
		}
	}
	if rt.depthStencil != nil {
		return rt.depthStencil.size
	}
	return rt.cache.caps.Backbuffer
}

// Textures returns the color attachments. The slice must not be modified.
func (rt *RenderTarget) Textures() []*Texture { return rt.colors }

// Texture returns color attachment i, or nil.
func (rt *RenderTarget) Texture(i int) *Texture {
	if i < 0 || i >= len(rt.colors) {
		return nil
	}
	return rt.colors[i]
}

// DepthStencil returns the depth-stencil attachment, or nil.
func (rt *RenderTarget) DepthStencil() *Texture { return rt.depthStencil }

// Handle returns the native framebuffer.
func (rt *RenderTarget) Handle() gpucore.FramebufferHandle { return rt.fb }

// Backend returns the tag of the backend that created the render target.
func (rt *RenderTarget) Backend() gpucore.BackendType { return rt.backend }

// Valid reports whether the native framebuffer exists.
func (rt *RenderTarget) Valid() bool { return rt.fb != gpucore.InvalidID }

// Grab adds a reference.
func (rt *RenderTarget) Grab() { rt.refs.grab() }

// Drop releases a reference. The last Drop destroys the render target and
// reports true.
func (rt *RenderTarget) Drop() bool {
	if !rt.refs.drop() {
		return false
	}
	rt.destroy()
	return true
}

// RefCount returns the number of holders.
func (rt *RenderTarget) RefCount() int { return rt.refs.count() }

func (rt *RenderTarget) destroy() {
	if rt.destroyed {
		return
	}
	rt.destroyed = true
	c := rt.cache
	if rt.fb != gpucore.InvalidID {
		if c.framebuffer == rt.fb {
			c.bindFramebuffer(gpucore.InvalidID)
		}
		c.dev.DeleteFramebuffer(rt.fb)
		c.check("DeleteFramebuffer")
		c.forgetFramebuffer(rt.fb)
		rt.fb = gpucore.InvalidID
	}
	colors, ds := rt.colors, rt.depthStencil
	rt.colors, rt.depthStencil = nil, nil
	for _, t := range colors {
		if t != nil {
			t.Drop()
		}
	}
	if ds != nil {
		ds.Drop()
	}
	if rt.onRelease != nil {
		rt.onRelease(rt)
	}
}
