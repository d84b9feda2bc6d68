package material

import (
	"fmt"

	"github.com/gogpu/g3d/render"
	"github.com/gogpu/gputypes"
)

// Type selects the renderer of a material. Values below BuiltinCount name
// the built-in techniques; shader materials get the following values in
// registration order.
type Type uint32

// Built-in material types.
const (
	// Solid modulates the first texture with the vertex color.
	Solid Type = iota
	// Solid2Layer blends two textures by vertex alpha.
	Solid2Layer
	// Lightmap multiplies the first texture with the lightmap in layer 1.
	Lightmap
	// LightmapAdd adds the lightmap instead of multiplying.
	LightmapAdd
	// LightmapM2 multiplies and brightens by two.
	LightmapM2
	// LightmapM4 multiplies and brightens by four.
	LightmapM4
	// LightmapLighting is Lightmap combined with dynamic lighting.
	LightmapLighting
	LightmapLightingM2
	LightmapLightingM4
	// DetailMap adds layer 1 as a signed detail texture.
	DetailMap
	// SphereMap generates coordinates from the view-space normal.
	SphereMap
	// Reflection2Layer adds a reflection-mapped second layer.
	Reflection2Layer
	// TransparentAddColor adds the texture color to the framebuffer.
	TransparentAddColor
	// TransparentAlphaChannel blends with the texture alpha channel.
	TransparentAlphaChannel
	// TransparentAlphaChannelRef discards fragments below an alpha
	// reference. It does not blend.
	TransparentAlphaChannelRef
	// TransparentVertexAlpha blends with the vertex alpha.
	TransparentVertexAlpha
	// TransparentReflection2Layer is Reflection2Layer blended by vertex alpha.
	TransparentReflection2Layer
	// OneTextureBlend uses the blend factors packed into Param.
	OneTextureBlend

	// BuiltinCount is the number of built-in types.
	BuiltinCount
)

var typeNames = [BuiltinCount]string{
	Solid:                       "solid",
	Solid2Layer:                 "solid_2layer",
	Lightmap:                    "lightmap",
	LightmapAdd:                 "lightmap_add",
	LightmapM2:                  "lightmap_m2",
	LightmapM4:                  "lightmap_m4",
	LightmapLighting:            "lightmap_light",
	LightmapLightingM2:          "lightmap_light_m2",
	LightmapLightingM4:          "lightmap_light_m4",
	DetailMap:                   "detail_map",
	SphereMap:                   "sphere_map",
	Reflection2Layer:            "reflection_2layer",
	TransparentAddColor:         "trans_add",
	TransparentAlphaChannel:     "trans_alphach",
	TransparentAlphaChannelRef:  "trans_alphach_ref",
	TransparentVertexAlpha:      "trans_vertex_alpha",
	TransparentReflection2Layer: "trans_reflection_2layer",
	OneTextureBlend:             "onetexture_blend",
}

func (t Type) String() string {
	if t < BuiltinCount {
		return typeNames[t]
	}
	return fmt.Sprintf("shader(%d)", uint32(t-BuiltinCount))
}

// MaxLayers is the number of texture layers a material carries.
const MaxLayers = 4

// Layer is one texture slot of a material with its sampling setup.
type Layer struct {
	Texture *render.Texture

	WrapU, WrapV, WrapW gputypes.AddressMode
	Bilinear            bool
	Trilinear           bool
	Anisotropy          int
	LODBias             float32
}

// DefaultLayer repeats with bilinear filtering and has no texture.
var DefaultLayer = Layer{
	WrapU:      gputypes.AddressModeRepeat,
	WrapV:      gputypes.AddressModeRepeat,
	WrapW:      gputypes.AddressModeRepeat,
	Bilinear:   true,
	Anisotropy: 1,
}

// Sampler returns the sampling setup of the layer.
func (l Layer) Sampler() render.SamplerState {
	return render.SamplerState{
		WrapU:      l.WrapU,
		WrapV:      l.WrapV,
		WrapW:      l.WrapW,
		Bilinear:   l.Bilinear,
		Trilinear:  l.Trilinear,
		Anisotropy: l.Anisotropy,
		LODBias:    l.LODBias,
	}
}

// Material is the shading description handed to the driver per draw batch.
// Materials are compared by value to detect changes.
type Material struct {
	Type   Type
	Layers [MaxLayers]Layer

	// DepthFunc is the depth comparison. CompareFunctionUndefined disables
	// the depth test.
	DepthFunc gputypes.CompareFunction
	// DepthWrite enables depth writes. Transparent techniques never write
	// depth.
	DepthWrite bool

	BackfaceCulling  bool
	FrontfaceCulling bool

	ColorMask gputypes.ColorWriteMask

	Lighting bool
	Fog      bool

	// Param and Param2 are technique specific. TransparentAlphaChannelRef
	// reads the alpha reference from Param, OneTextureBlend the packed
	// blend factors (see PackBlend).
	Param  float32
	Param2 float32

	// BlendOperation overrides the blend equation of blending techniques.
	// BlendOperationUndefined keeps the technique's own equation.
	BlendOperation gputypes.BlendOperation
}

// Default returns a lit solid material with depth testing and back-face
// culling.
func Default() Material {
	m := Material{
		Type:            Solid,
		DepthFunc:       gputypes.CompareFunctionLessEqual,
		DepthWrite:      true,
		BackfaceCulling: true,
		ColorMask:       gputypes.ColorWriteMaskAll,
		Lighting:        true,
	}
	for i := range m.Layers {
		m.Layers[i] = DefaultLayer
	}
	return m
}

// Texture returns the texture of layer i, or nil.
func (m *Material) Texture(i int) *render.Texture {
	if i < 0 || i >= MaxLayers {
		return nil
	}
	return m.Layers[i].Texture
}

// SetTexture sets the texture of layer i.
func (m *Material) SetTexture(i int, t *render.Texture) {
	if i >= 0 && i < MaxLayers {
		m.Layers[i].Texture = t
	}
}

// CullMode returns the face culling the material asks for and whether
// culling is enabled at all. Back-face culling wins when both flags are set.
func (m *Material) CullMode() (gputypes.CullMode, bool) {
	switch {
	case m.BackfaceCulling:
		return gputypes.CullModeBack, true
	case m.FrontfaceCulling:
		return gputypes.CullModeFront, true
	default:
		return gputypes.CullModeNone, false
	}
}
