// Package glformat maps semantic image formats and render state to the enum
// values shared by OpenGL core, OpenGL ES 2 and WebGL.
package glformat

import (
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
)

// Triple returns the (internal format, pixel format, pixel type) for f on the
// given GL flavor, plus the byte converter to run before upload.
//
// It returns false when the flavor or the reported capabilities cannot store
// the format. Callers fall back to A8R8G8B8.
func Triple(f image.Format, flavor gpucore.BackendType, caps gpucore.Caps) (gpucore.Triple, bool) {
	es2 := flavor == gpucore.BackendGLES2
	desktop := flavor == gpucore.BackendOpenGL

	switch f {
	case image.FormatA1R5G5B5:
		t := gpucore.Triple{Internal: RGB5A1, Pixel: RGBA, Type: UnsignedShort5551,
			Convert: image.A1R5G5B5ToR5G5B5A1, Revert: image.R5G5B5A1ToA1R5G5B5,
			Target: image.FormatA1R5G5B5}
		if es2 {
			t.Internal = RGBA
		}
		return t, true

	case image.FormatR5G6B5:
		t := gpucore.Triple{Internal: RGB565, Pixel: RGB, Type: UnsignedShort565}
		if es2 {
			t.Internal = RGB
		}
		return t, true

	case image.FormatR8G8B8:
		t := gpucore.Triple{Internal: RGB8, Pixel: RGB, Type: UnsignedByte}
		if es2 {
			t.Internal = RGB
		}
		return t, true

	case image.FormatA8R8G8B8:
		if desktop {
			return gpucore.Triple{Internal: RGBA8, Pixel: BGRA, Type: UnsignedByte}, true
		}
		t := gpucore.Triple{Internal: RGBA8, Pixel: RGBA, Type: UnsignedByte,
			Convert: image.SwapRB32, Revert: image.SwapRB32, Target: image.FormatA8R8G8B8}
		if es2 {
			t.Internal = RGBA
		}
		return t, true

	case image.FormatR8:
		if es2 || !caps.RGTextures {
			return gpucore.Triple{}, false
		}
		return gpucore.Triple{Internal: R8, Pixel: Red, Type: UnsignedByte}, true

	case image.FormatR8G8:
		if es2 || !caps.RGTextures {
			return gpucore.Triple{}, false
		}
		return gpucore.Triple{Internal: RG8, Pixel: RG, Type: UnsignedByte}, true

	case image.FormatR16F, image.FormatG16R16F, image.FormatA16B16G16R16F,
		image.FormatR32F, image.FormatG32R32F, image.FormatA32B32G32R32F:
		return floatTriple(f, es2, caps)

	case image.FormatDXT1, image.FormatDXT3, image.FormatDXT5:
		if !caps.S3TC {
			return gpucore.Triple{}, false
		}
		internal := map[image.Format]uint32{
			image.FormatDXT1: CompressedRGBAS3TCDXT1,
			image.FormatDXT3: CompressedRGBAS3TCDXT3,
			image.FormatDXT5: CompressedRGBAS3TCDXT5,
		}[f]
		return gpucore.Triple{Internal: internal, Pixel: RGBA, Type: UnsignedByte}, true

	case image.FormatD16, image.FormatD24, image.FormatD32:
		if !caps.DepthTextures {
			return gpucore.Triple{}, false
		}
		switch {
		case f == image.FormatD16:
			t := gpucore.Triple{Internal: DepthComponent16, Pixel: DepthComponent, Type: UnsignedShort}
			if es2 {
				t.Internal = DepthComponent
			}
			return t, true
		case f == image.FormatD24:
			t := gpucore.Triple{Internal: DepthComponent24, Pixel: DepthComponent, Type: UnsignedInt}
			if es2 {
				t.Internal = DepthComponent
			}
			return t, true
		case es2:
			return gpucore.Triple{}, false
		default:
			return gpucore.Triple{Internal: DepthComponent32F, Pixel: DepthComponent, Type: Float}, true
		}

	case image.FormatD24S8:
		if !caps.DepthTextures || !caps.PackedDepthStencil {
			return gpucore.Triple{}, false
		}
		t := gpucore.Triple{Internal: Depth24Stencil8, Pixel: DepthStencil, Type: UnsignedInt248}
		if es2 {
			t.Internal = DepthStencil
		}
		return t, true
	}
	return gpucore.Triple{}, false
}

func floatTriple(f image.Format, es2 bool, caps gpucore.Caps) (gpucore.Triple, bool) {
	if !caps.FloatTextures {
		return gpucore.Triple{}, false
	}
	half := uint32(HalfFloat)
	if es2 {
		half = HalfFloatOES
	}
	var t gpucore.Triple
	switch f {
	case image.FormatR16F:
		t = gpucore.Triple{Internal: R16F, Pixel: Red, Type: half}
	case image.FormatG16R16F:
		t = gpucore.Triple{Internal: RG16F, Pixel: RG, Type: half}
	case image.FormatA16B16G16R16F:
		t = gpucore.Triple{Internal: RGBA16F, Pixel: RGBA, Type: half}
	case image.FormatR32F:
		t = gpucore.Triple{Internal: R32F, Pixel: Red, Type: Float}
	case image.FormatG32R32F:
		t = gpucore.Triple{Internal: RG32F, Pixel: RG, Type: Float}
	case image.FormatA32B32G32R32F:
		t = gpucore.Triple{Internal: RGBA32F, Pixel: RGBA, Type: Float}
	}
	if t.Pixel != RGBA && !caps.RGTextures {
		return gpucore.Triple{}, false
	}
	if es2 {
		// ES 2 takes the unsized pixel format as internal format.
		if t.Pixel != RGBA {
			return gpucore.Triple{}, false
		}
		t.Internal = RGBA
	}
	return t, true
}
