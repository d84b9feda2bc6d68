package wgpu

import (
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
	"github.com/gogpu/gputypes"
)

// formatTriple maps a semantic format to its WebGPU texture format.
// 16-bit and 24-bit color formats have no WebGPU equivalent and are
// expanded to BGRA8 on upload.
func formatTriple(f image.Format, caps gpucore.Caps) (gpucore.Triple, bool) {
	switch f {
	case image.FormatA8R8G8B8:
		return gpucore.Triple{Native: gputypes.TextureFormatBGRA8Unorm}, true
	case image.FormatA1R5G5B5:
		return expanded(image.A1R5G5B5ToA8R8G8B8, image.A8R8G8B8ToA1R5G5B5), true
	case image.FormatR5G6B5:
		return expanded(image.R5G6B5ToA8R8G8B8, image.A8R8G8B8ToR5G6B5), true
	case image.FormatR8G8B8:
		return expanded(image.R8G8B8ToA8R8G8B8, image.A8R8G8B8ToR8G8B8), true
	case image.FormatR8:
		return gpucore.Triple{Native: gputypes.TextureFormatR8Unorm}, true
	case image.FormatR8G8:
		return gpucore.Triple{Native: gputypes.TextureFormatRG8Unorm}, true
	}

	native, ok := map[image.Format]gputypes.TextureFormat{
		image.FormatR16F:          gputypes.TextureFormatR16Float,
		image.FormatG16R16F:       gputypes.TextureFormatRG16Float,
		image.FormatA16B16G16R16F: gputypes.TextureFormatRGBA16Float,
		image.FormatR32F:          gputypes.TextureFormatR32Float,
		image.FormatG32R32F:       gputypes.TextureFormatRG32Float,
		image.FormatA32B32G32R32F: gputypes.TextureFormatRGBA32Float,
		image.FormatDXT1:          gputypes.TextureFormatBC1RGBAUnorm,
		image.FormatDXT3:          gputypes.TextureFormatBC2RGBAUnorm,
		image.FormatDXT5:          gputypes.TextureFormatBC3RGBAUnorm,
		image.FormatD16:           gputypes.TextureFormatDepth16Unorm,
		image.FormatD24:           gputypes.TextureFormatDepth24Plus,
		image.FormatD32:           gputypes.TextureFormatDepth32Float,
		image.FormatD24S8:         gputypes.TextureFormatDepth24PlusStencil8,
	}[f]
	switch {
	case !ok:
		return gpucore.Triple{}, false
	case f.IsCompressed() && !caps.S3TC:
		return gpucore.Triple{}, false
	case f.IsFloat() && !caps.FloatTextures:
		return gpucore.Triple{}, false
	}
	return gpucore.Triple{Native: native}, true
}

func expanded(convert, revert image.ConvertFunc) gpucore.Triple {
	return gpucore.Triple{
		Native:  gputypes.TextureFormatBGRA8Unorm,
		Convert: convert,
		Revert:  revert,
		Target:  image.FormatA8R8G8B8,
	}
}

func filterMode(m gputypes.FilterMode) gputypes.FilterMode {
	if m == gputypes.FilterModeUndefined {
		return gputypes.FilterModeNearest
	}
	return m
}

// mipFilter converts a mip filter to the sampler's filter mode. Undefined
// means the sampler must stay on level 0.
func mipFilter(m gputypes.MipmapFilterMode) (gputypes.FilterMode, bool) {
	switch m {
	case gputypes.MipmapFilterModeLinear:
		return gputypes.FilterModeLinear, true
	case gputypes.MipmapFilterModeNearest:
		return gputypes.FilterModeNearest, true
	default:
		return gputypes.FilterModeNearest, false
	}
}
