package g3d

import (
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/material"
	"github.com/gogpu/g3d/render"
	"github.com/gogpu/gputypes"
)

// services is the view of the Driver handed to material renderers.
type services struct {
	d *Driver
}

var _ material.Services = (*services)(nil)

func (s *services) Cache() *render.StateCache { return s.d.cache }

func (s *services) Constants() *gpucore.FrameConstants { return &s.d.constants }

func (s *services) PushConstants() {
	s.d.dev.SetFrameConstants(&s.d.constants)
}

func (s *services) SetUniform(name string, values ...float32) bool {
	return s.d.dev.SetUniform(name, values)
}

// SetBasicRenderStates binds the layer textures with their samplers and
// applies depth, culling and color mask. The cache drops what is already
// in place.
func (s *services) SetBasicRenderStates(m, last *material.Material, reset bool) {
	d := s.d
	c := d.cache

	units := min(material.MaxLayers, c.Units().Len())
	for i := 0; i < units; i++ {
		l := m.Layers[i]
		if l.Texture != nil && l.Texture.Valid() {
			l.Texture.ApplySampler(i, l.Sampler())
		} else {
			c.Units().Set(i, nil)
		}
	}

	if m.DepthFunc == gputypes.CompareFunctionUndefined {
		c.SetDepthTest(false)
	} else {
		c.SetDepthTest(true)
		c.SetDepthFunc(m.DepthFunc)
	}
	write := m.DepthWrite
	if d.active != nil && d.active.IsTransparent() && !d.opts.depthWriteOnTransparent {
		write = false
	}
	c.SetDepthMask(write)

	mode, on := m.CullMode()
	c.SetCull(on)
	if on {
		c.SetCullFace(mode)
	}

	c.SetColorMask(m.ColorMask)

	d.constants.Lighting = m.Lighting
	d.constants.FogEnabled = m.Fog
	d.constants.AlphaRef = 0
}
