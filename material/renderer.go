package material

import (
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/render"
	"github.com/gogpu/gputypes"
)

// Services is what the driver offers a renderer while it is active.
type Services interface {
	// Cache returns the state cache every pipeline change goes through.
	Cache() *render.StateCache

	// SetBasicRenderStates applies the technique-independent part of m:
	// layer textures and samplers, depth, culling, color mask, and the
	// lighting and fog switches of the frame constants.
	SetBasicRenderStates(m, last *Material, reset bool)

	// Constants returns the per-draw constants. Renderers may adjust them
	// in OnSetMaterial.
	Constants() *gpucore.FrameConstants

	// PushConstants sends the per-draw constants to the built-in program.
	PushConstants()

	// SetUniform writes a uniform of the program in use.
	SetUniform(name string, values ...float32) bool
}

// Renderer is a shading technique.
//
// OnSetMaterial runs when the requested material differs from the last one
// applied or when reset is true; last is nil on the first material.
// OnRender runs before every draw and reports whether drawing may proceed.
// OnUnsetMaterial runs when another renderer takes over. IsTransparent must
// not depend on any call having happened.
type Renderer interface {
	OnSetMaterial(m, last *Material, reset bool, s Services)
	OnRender(s Services) bool
	OnUnsetMaterial(s Services)
	IsTransparent() bool
}

// blender is implemented by built-in renderers so shader materials can
// borrow their blending.
type blender interface {
	applyBlend(c *render.StateCache, m *Material)
	unsetBlend(c *render.StateCache)
	IsTransparent() bool
}

// stage builds a combiner whose color and alpha use the same operation.
func stage(op gpucore.CombineOp, a1, a2 gpucore.CombineSource) gpucore.Combiner {
	return gpucore.Combiner{
		Color: op, ColorArg1: a1, ColorArg2: a2,
		Alpha: op, AlphaArg1: a1, AlphaArg2: a2,
		Scale: 1,
	}
}

var (
	texModDiffuse = stage(gpucore.CombineModulate, gpucore.SourceTexture, gpucore.SourceDiffuse)
	texReplace    = stage(gpucore.CombineReplace, gpucore.SourceTexture, gpucore.SourceTexture)
	texModPrev    = stage(gpucore.CombineModulate, gpucore.SourceTexture, gpucore.SourcePrevious)
)

func withScale(c gpucore.Combiner, s uint8) gpucore.Combiner {
	c.Scale = s
	return c
}

func withAlpha(c gpucore.Combiner, op gpucore.CombineOp, a1, a2 gpucore.CombineSource) gpucore.Combiner {
	c.Alpha, c.AlphaArg1, c.AlphaArg2 = op, a1, a2
	return c
}

// fixedStages is the number of texture stages fixed techniques configure.
// Stages a technique does not use are disabled.
const fixedStages = 2

// fixed is a technique expressed as texture stages plus a blend mode.
type fixed struct {
	name        string
	stages      [fixedStages]gpucore.Combiner
	blending    bool
	blendFunc   gpucore.BlendFunc
	transparent bool
	alphaRef    bool
}

func (f *fixed) OnSetMaterial(m, last *Material, reset bool, s Services) {
	s.SetBasicRenderStates(m, last, reset)
	c := s.Cache()
	for i, st := range f.stages {
		if i < c.Units().Len() {
			c.SetCombiner(i, st)
		}
	}
	f.applyBlend(c, m)
	if f.alphaRef {
		s.Constants().AlphaRef = alphaRef(m.Param)
	}
}

func (f *fixed) OnRender(s Services) bool {
	s.PushConstants()
	return true
}

func (f *fixed) OnUnsetMaterial(s Services) {
	c := s.Cache()
	f.unsetBlend(c)
	if f.alphaRef {
		s.Constants().AlphaRef = 0
	}
	for i := 1; i < fixedStages && i < c.Units().Len(); i++ {
		c.SetCombiner(i, gpucore.DisabledCombiner)
	}
}

func (f *fixed) IsTransparent() bool { return f.transparent }

func (f *fixed) applyBlend(c *render.StateCache, m *Material) {
	if !f.blending {
		c.SetBlend(false)
		return
	}
	c.SetBlendFunc(f.blendFunc)
	c.SetBlendEquation(blendOp(m))
	c.SetBlend(true)
}

func (f *fixed) unsetBlend(c *render.StateCache) {
	if f.blending {
		c.SetBlend(false)
	}
}

func (f *fixed) String() string { return f.name }

func blendOp(m *Material) gputypes.BlendOperation {
	if m.BlendOperation == gputypes.BlendOperationUndefined {
		return gputypes.BlendOperationAdd
	}
	return m.BlendOperation
}

// DefaultAlphaRef is the alpha reference of TransparentAlphaChannelRef when
// the material does not set one.
const DefaultAlphaRef = 0.5

func alphaRef(p float32) float32 {
	if p > 0 && p <= 1 {
		return p
	}
	return DefaultAlphaRef
}

var alphaBlend = gpucore.NewBlendFunc(gputypes.BlendFactorSrcAlpha, gputypes.BlendFactorOneMinusSrcAlpha)

func lightmap(name string, second gpucore.Combiner, lit bool) *fixed {
	first := texReplace
	if lit {
		first = texModDiffuse
	}
	return &fixed{name: name, stages: [fixedStages]gpucore.Combiner{first, second}}
}

// builtins returns one fresh instance of every fixed technique, indexed by
// Type. OneTextureBlend is filled in by the caller.
func builtins() [BuiltinCount]Renderer {
	disabled := gpucore.DisabledCombiner
	var r [BuiltinCount]Renderer

	r[Solid] = &fixed{name: "solid", stages: [fixedStages]gpucore.Combiner{texModDiffuse, disabled}}
	r[Solid2Layer] = &fixed{name: "solid_2layer", stages: [fixedStages]gpucore.Combiner{
		texReplace,
		stage(gpucore.CombineBlendDiffuseAlpha, gpucore.SourceTexture, gpucore.SourcePrevious),
	}}

	r[Lightmap] = lightmap("lightmap", texModPrev, false)
	r[LightmapAdd] = lightmap("lightmap_add",
		stage(gpucore.CombineAdd, gpucore.SourceTexture, gpucore.SourcePrevious), false)
	r[LightmapM2] = lightmap("lightmap_m2", withScale(texModPrev, 2), false)
	r[LightmapM4] = lightmap("lightmap_m4", withScale(texModPrev, 4), false)
	r[LightmapLighting] = lightmap("lightmap_light", texModPrev, true)
	r[LightmapLightingM2] = lightmap("lightmap_light_m2", withScale(texModPrev, 2), true)
	r[LightmapLightingM4] = lightmap("lightmap_light_m4", withScale(texModPrev, 4), true)

	r[DetailMap] = &fixed{name: "detail_map", stages: [fixedStages]gpucore.Combiner{
		texReplace,
		stage(gpucore.CombineAddSigned, gpucore.SourceTexture, gpucore.SourcePrevious),
	}}

	sphere := texModDiffuse
	sphere.SphereMap = true
	r[SphereMap] = &fixed{name: "sphere_map", stages: [fixedStages]gpucore.Combiner{sphere, disabled}}

	reflect := texModPrev
	reflect.Reflection = true
	r[Reflection2Layer] = &fixed{name: "reflection_2layer", stages: [fixedStages]gpucore.Combiner{texModDiffuse, reflect}}

	r[TransparentAddColor] = &fixed{
		name:        "trans_add",
		stages:      [fixedStages]gpucore.Combiner{texModDiffuse, disabled},
		blending:    true,
		blendFunc:   gpucore.NewBlendFunc(gputypes.BlendFactorOne, gputypes.BlendFactorOneMinusSrc),
		transparent: true,
	}

	alphaFromTexture := withAlpha(texModDiffuse, gpucore.CombineReplace, gpucore.SourceTexture, gpucore.SourceTexture)
	r[TransparentAlphaChannel] = &fixed{
		name:        "trans_alphach",
		stages:      [fixedStages]gpucore.Combiner{alphaFromTexture, disabled},
		blending:    true,
		blendFunc:   alphaBlend,
		transparent: true,
	}
	r[TransparentAlphaChannelRef] = &fixed{
		name:     "trans_alphach_ref",
		stages:   [fixedStages]gpucore.Combiner{alphaFromTexture, disabled},
		alphaRef: true,
	}

	alphaFromVertex := withAlpha(texModDiffuse, gpucore.CombineReplace, gpucore.SourceDiffuse, gpucore.SourceDiffuse)
	r[TransparentVertexAlpha] = &fixed{
		name:        "trans_vertex_alpha",
		stages:      [fixedStages]gpucore.Combiner{alphaFromVertex, disabled},
		blending:    true,
		blendFunc:   alphaBlend,
		transparent: true,
	}
	r[TransparentReflection2Layer] = &fixed{
		name: "trans_reflection_2layer",
		stages: [fixedStages]gpucore.Combiner{
			alphaFromVertex,
			withAlpha(reflect, gpucore.CombineReplace, gpucore.SourcePrevious, gpucore.SourcePrevious),
		},
		blending:    true,
		blendFunc:   alphaBlend,
		transparent: true,
	}

	r[OneTextureBlend] = oneTextureBlend{}
	return r
}
