package material

import "github.com/gogpu/gputypes"

// Modulate scales the texture stage result of OneTextureBlend.
type Modulate uint8

// Modulation factors.
const (
	Modulate1X Modulate = 1
	Modulate2X Modulate = 2
	Modulate4X Modulate = 4
)

// scale returns the combiner scale, treating unknown values as 1.
func (m Modulate) scale() uint8 {
	switch m {
	case Modulate2X, Modulate4X:
		return uint8(m)
	default:
		return 1
	}
}

// AlphaSource selects where OneTextureBlend takes fragment alpha from.
type AlphaSource uint8

// Alpha sources. AlphaSourceVertexColor and AlphaSourceTexture combine.
const (
	AlphaSourceNone        AlphaSource = 0
	AlphaSourceVertexColor AlphaSource = 1
	AlphaSourceTexture     AlphaSource = 2
)

// PackBlend encodes blend factors, modulation and alpha source into a
// material parameter for OneTextureBlend.
//
// Layout, low to high: destination factor (4 bits), source factor (4 bits),
// modulation (4 bits), alpha source (4 bits). The value is exact in a
// float32.
func PackBlend(src, dst gputypes.BlendFactor, mod Modulate, alpha AlphaSource) float32 {
	v := uint32(alpha&0xF)<<12 | uint32(mod&0xF)<<8 | uint32(src&0xF)<<4 | uint32(dst&0xF)
	return float32(v)
}

// UnpackBlend decodes a parameter written by PackBlend. Negative or
// non-finite values decode as zero factors.
func UnpackBlend(p float32) (src, dst gputypes.BlendFactor, mod Modulate, alpha AlphaSource) {
	if !(p >= 0 && p < 1<<16) {
		return
	}
	v := uint32(p)
	dst = gputypes.BlendFactor(v & 0xF)
	src = gputypes.BlendFactor(v >> 4 & 0xF)
	mod = Modulate(v >> 8 & 0xF)
	alpha = AlphaSource(v >> 12 & 0xF)
	return
}

