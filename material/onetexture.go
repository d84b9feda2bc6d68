package material

import (
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/render"
	"github.com/gogpu/gputypes"
)

// oneTextureBlend blends a single texture with factors packed in
// Material.Param.
type oneTextureBlend struct{}

func (b oneTextureBlend) OnSetMaterial(m, last *Material, reset bool, s Services) {
	s.SetBasicRenderStates(m, last, reset)
	c := s.Cache()
	_, _, mod, alpha := UnpackBlend(m.Param)

	st := withScale(texModDiffuse, mod.scale())
	switch alpha {
	case AlphaSourceVertexColor:
		st = withAlpha(st, gpucore.CombineReplace, gpucore.SourceDiffuse, gpucore.SourceDiffuse)
	case AlphaSourceTexture, AlphaSourceNone:
		st = withAlpha(st, gpucore.CombineReplace, gpucore.SourceTexture, gpucore.SourceTexture)
	}
	c.SetCombiner(0, st)
	if c.Units().Len() > 1 {
		c.SetCombiner(1, gpucore.DisabledCombiner)
	}
	b.applyBlend(c, m)
}

func (b oneTextureBlend) OnRender(s Services) bool {
	s.PushConstants()
	return true
}

func (b oneTextureBlend) OnUnsetMaterial(s Services) {
	b.unsetBlend(s.Cache())
}

// IsTransparent is true for every factor combination: the technique always
// reads the framebuffer.
func (oneTextureBlend) IsTransparent() bool { return true }

func (oneTextureBlend) applyBlend(c *render.StateCache, m *Material) {
	src, dst, _, _ := UnpackBlend(m.Param)
	if src == gputypes.BlendFactorUndefined || dst == gputypes.BlendFactorUndefined {
		slogger().Warn("material: one-texture blend without blend factors, using src-alpha",
			"param", m.Param)
		src, dst = gputypes.BlendFactorSrcAlpha, gputypes.BlendFactorOneMinusSrcAlpha
	}
	c.SetBlendFunc(gpucore.NewBlendFunc(src, dst))
	c.SetBlendEquation(blendOp(m))
	c.SetBlend(true)
}

func (oneTextureBlend) unsetBlend(c *render.StateCache) { c.SetBlend(false) }

func (oneTextureBlend) String() string { return "onetexture_blend" }
