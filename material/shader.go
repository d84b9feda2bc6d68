package material

import (
	"errors"
	"fmt"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/render"
)

// ErrProgram is returned when a shader material's program cannot be built.
var ErrProgram = errors.New("material: shader program")

// ShaderCallback sets program constants. OnSetConstants runs before every
// draw with the program in use.
type ShaderCallback interface {
	OnSetConstants(s Services, userData int)
}

// ShaderCallbackFunc adapts a function to ShaderCallback.
type ShaderCallbackFunc func(s Services, userData int)

// OnSetConstants calls f.
func (f ShaderCallbackFunc) OnSetConstants(s Services, userData int) { f(s, userData) }

// MaterialObserver is implemented by callbacks that want to see the
// material each time it is applied.
type MaterialObserver interface {
	OnSetMaterial(m *Material)
}

// ShaderRenderer runs a user program. Blending and transparency are
// borrowed from a built-in base technique; constants come from the
// callback.
type ShaderRenderer struct {
	cache    *render.StateCache
	program  gpucore.ProgramHandle
	callback ShaderCallback
	base     blender
	userData int
}

// NewShaderRenderer compiles src on the cache's device. base may be nil or
// any built-in renderer; other renderers are treated as solid.
func NewShaderRenderer(c *render.StateCache, src gpucore.ShaderSource, cb ShaderCallback, base Renderer, userData int) (*ShaderRenderer, error) {
	p, err := c.Device().CreateProgram(src)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrProgram, src.Label, err)
	}
	if p == gpucore.InvalidID {
		return nil, fmt.Errorf("%w %q: backend returned no program", ErrProgram, src.Label)
	}
	r := &ShaderRenderer{cache: c, program: p, callback: cb, userData: userData}
	if b, ok := base.(blender); ok {
		r.base = b
	} else if base != nil {
		slogger().Warn("material: shader base is not a built-in technique, blending disabled",
			"shader", src.Label)
	}
	slogger().Debug("material: shader program created", "shader", src.Label, "program", p)
	return r, nil
}

// Program returns the native program.
func (r *ShaderRenderer) Program() gpucore.ProgramHandle { return r.program }

func (r *ShaderRenderer) OnSetMaterial(m, last *Material, reset bool, s Services) {
	c := s.Cache()
	c.SetProgram(r.program)
	s.SetBasicRenderStates(m, last, reset)
	if r.base != nil {
		r.base.applyBlend(c, m)
	} else {
		c.SetBlend(false)
	}
	if o, ok := r.callback.(MaterialObserver); ok {
		o.OnSetMaterial(m)
	}
}

// OnRender hands the constants to the callback. It reports false once the
// program was released.
func (r *ShaderRenderer) OnRender(s Services) bool {
	if r.program == gpucore.InvalidID {
		return false
	}
	if r.callback != nil {
		r.callback.OnSetConstants(s, r.userData)
	}
	return true
}

func (r *ShaderRenderer) OnUnsetMaterial(s Services) {
	c := s.Cache()
	if r.base != nil {
		r.base.unsetBlend(c)
	}
	c.SetProgram(gpucore.InvalidID)
}

func (r *ShaderRenderer) IsTransparent() bool {
	return r.base != nil && r.base.IsTransparent()
}

// Release deletes the program. The renderer refuses to draw afterwards.
func (r *ShaderRenderer) Release() {
	if r.program == gpucore.InvalidID {
		return
	}
	r.cache.DeleteProgram(r.program)
	r.program = gpucore.InvalidID
}
