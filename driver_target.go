package g3d

import (
	"fmt"
	"slices"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/render"
	"github.com/gogpu/gputypes"
)

// AddRenderTarget creates an empty render target owned by the Driver.
func (d *Driver) AddRenderTarget() (*render.RenderTarget, error) {
	if d.closed {
		return nil, ErrClosed
	}
	rt := d.cache.NewRenderTarget(d.unregisterRenderTarget)
	if !rt.Valid() {
		rt.Drop()
		return nil, fmt.Errorf("%w: framebuffer objects", ErrNotSupported)
	}
	d.targets = append(d.targets, rt)
	return rt, nil
}

// RenderTargetCount returns the number of render targets owned by the Driver.
func (d *Driver) RenderTargetCount() int { return len(d.targets) }

// RemoveRenderTarget releases the Driver's render target. If it is
// current, the backbuffer becomes current.
func (d *Driver) RemoveRenderTarget(rt *render.RenderTarget) error {
	i := slices.Index(d.targets, rt)
	if i < 0 {
		return fmt.Errorf("%w: render target", ErrNotFound)
	}
	if d.target == rt {
		d.target = nil
		d.cache.SetFramebuffer(gpucore.InvalidID)
		d.cache.SetViewport(d.backbufferRect())
	}
	d.targets = slices.Delete(d.targets, i, i+1)
	rt.Drop()
	return nil
}

// unregisterRenderTarget forgets a destroyed render target. The render
// target has already unbound its framebuffer.
func (d *Driver) unregisterRenderTarget(rt *render.RenderTarget) {
	if i := slices.Index(d.targets, rt); i >= 0 {
		d.targets = slices.Delete(d.targets, i, i+1)
	}
	if d.target == rt {
		d.target = nil
		if !d.closed {
			d.cache.SetViewport(d.backbufferRect())
		}
	}
}

// RenderTarget returns the current render target, or nil for the
// backbuffer.
func (d *Driver) RenderTarget() *render.RenderTarget { return d.target }

// SetRenderTarget makes rt current, nil selecting the backbuffer, applies
// pending attachment changes, sets the viewport to the target size and
// clears the buffers named by clear.
func (d *Driver) SetRenderTarget(rt *render.RenderTarget, clear gpucore.ClearFlags, color gputypes.Color) error {
	if d.closed {
		return ErrClosed
	}
	if d.cache.Locked() {
		return ErrLocked
	}
	if rt == nil {
		d.cache.SetFramebuffer(gpucore.InvalidID)
		d.cache.SetViewport(d.backbufferRect())
	} else {
		if rt.Backend() != d.Backend() {
			slogger().Error("g3d: render target belongs to another backend",
				"backend", rt.Backend(), "want", d.Backend())
			return fmt.Errorf("%w: render target is %v", ErrBackendMismatch, rt.Backend())
		}
		if !rt.Bind() {
			return fmt.Errorf("%w: render target has no framebuffer", ErrNotSupported)
		}
		size := rt.Size()
		d.cache.SetViewport(gpucore.Rect{Width: size.Width, Height: size.Height})
	}
	d.target = rt

	if clear != 0 {
		d.clear(clear, color)
	}
	return nil
}

// clear makes sure the write masks allow the requested clears.
func (d *Driver) clear(flags gpucore.ClearFlags, color gputypes.Color) {
	if flags&gpucore.ClearColor != 0 {
		d.cache.SetColorMask(gputypes.ColorWriteMaskAll)
	}
	if flags&gpucore.ClearDepth != 0 {
		d.cache.SetDepthMask(true)
	}
	d.dev.Clear(flags, color, 1, 0)
	// The masks may no longer match the applied material.
	d.resetPending = true
}

func (d *Driver) backbufferRect() gpucore.Rect {
	bb := d.cache.Caps().Backbuffer
	return gpucore.Rect{Width: bb.Width, Height: bb.Height}
}
