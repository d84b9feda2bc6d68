package glsl

import (
	"fmt"

	"github.com/gogpu/g3d/gpucore"
)

// Uniform is one value of the built-in program. Exactly one of Ints and
// Floats is set; Matrix marks Floats as column-major 4x4 matrices.
type Uniform struct {
	Name   string
	Ints   []int32
	Floats []float32
	Matrix bool
}

// Texgen modes of a stage.
const (
	TexgenNone = iota
	TexgenSphere
	TexgenReflection
)

// Stage packs a combiner into the ivec4 of its stage: color op and
// arguments, alpha op and arguments, scale, texgen mode.
func Stage(c gpucore.Combiner) [4]int32 {
	scale := int32(c.Scale)
	if scale == 0 {
		scale = 1
	}
	texgen := int32(TexgenNone)
	switch {
	case c.SphereMap:
		texgen = TexgenSphere
	case c.Reflection:
		texgen = TexgenReflection
	}
	return [4]int32{
		int32(c.Color) | int32(c.ColorArg1)<<4 | int32(c.ColorArg2)<<8,
		int32(c.Alpha) | int32(c.AlphaArg1)<<4 | int32(c.AlphaArg2)<<8,
		scale,
		texgen,
	}
}

// StageUniform returns the uniform of one texture stage.
func StageUniform(stage int, c gpucore.Combiner) Uniform {
	s := Stage(c)
	return Uniform{Name: fmt.Sprintf("uStage[%d]", stage), Ints: s[:]}
}

// SamplerUniforms binds sampler i to texture unit i.
func SamplerUniforms() []Uniform {
	out := make([]Uniform, MaxStages)
	for i := range out {
		out[i] = Uniform{Name: fmt.Sprintf("uTexture[%d]", i), Ints: []int32{int32(i)}}
	}
	return out
}

func boolInt(b bool) []int32 {
	if b {
		return []int32{1}
	}
	return []int32{0}
}

// Constants packs the frame constants into uniforms. Lights beyond
// MaxLights are ignored.
func Constants(fc *gpucore.FrameConstants) []Uniform {
	lights := fc.Lights
	if len(lights) > MaxLights {
		lights = lights[:MaxLights]
	}
	pos := make([]float32, 0, 4*MaxLights)
	dir := make([]float32, 0, 4*MaxLights)
	diffuse := make([]float32, 0, 4*MaxLights)
	ambient := make([]float32, 0, 4*MaxLights)
	atten := make([]float32, 0, 4*MaxLights)
	for _, l := range lights {
		pos = append(pos, l.Position[0], l.Position[1], l.Position[2], float32(l.Kind))
		dir = append(dir, l.Direction[0], l.Direction[1], l.Direction[2], 0)
		diffuse = append(diffuse, float32(l.Diffuse.R), float32(l.Diffuse.G), float32(l.Diffuse.B), float32(l.Diffuse.A))
		ambient = append(ambient, float32(l.Ambient.R), float32(l.Ambient.G), float32(l.Ambient.B), float32(l.Ambient.A))
		atten = append(atten, l.Attenuation[0], l.Attenuation[1], l.Attenuation[2], l.Radius)
	}
	f := fc.Fog
	out := []Uniform{
		{Name: "uWorld", Floats: fc.World[:], Matrix: true},
		{Name: "uView", Floats: fc.View[:], Matrix: true},
		{Name: "uProjection", Floats: fc.Projection[:], Matrix: true},
		{Name: "uLighting", Ints: boolInt(fc.Lighting)},
		{Name: "uLightCount", Ints: []int32{int32(len(lights))}},
		{Name: "uFogEnabled", Ints: boolInt(fc.FogEnabled)},
		{Name: "uFog", Floats: []float32{float32(f.Mode), f.Start, f.End, f.Density}},
		{Name: "uFogColor", Floats: []float32{float32(f.Color.R), float32(f.Color.G), float32(f.Color.B), float32(f.Color.A)}},
		{Name: "uAlphaRef", Floats: []float32{fc.AlphaRef}},
	}
	if len(lights) > 0 {
		out = append(out,
			Uniform{Name: "uLightPosition[0]", Floats: pos},
			Uniform{Name: "uLightDirection[0]", Floats: dir},
			Uniform{Name: "uLightDiffuse[0]", Floats: diffuse},
			Uniform{Name: "uLightAmbient[0]", Floats: ambient},
			Uniform{Name: "uLightAttenuation[0]", Floats: atten},
		)
	}
	return out
}
