package glformat

import (
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/gputypes"
)

// BlendFactor maps a blend factor to its GL enum.
func BlendFactor(f gputypes.BlendFactor) uint32 {
	switch f {
	case gputypes.BlendFactorZero:
		return 0
	case gputypes.BlendFactorOne:
		return 1
	case gputypes.BlendFactorSrc:
		return 0x0300
	case gputypes.BlendFactorOneMinusSrc:
		return 0x0301
	case gputypes.BlendFactorSrcAlpha:
		return 0x0302
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return 0x0303
	case gputypes.BlendFactorDstAlpha:
		return 0x0304
	case gputypes.BlendFactorOneMinusDstAlpha:
		return 0x0305
	case gputypes.BlendFactorDst:
		return 0x0306
	case gputypes.BlendFactorOneMinusDst:
		return 0x0307
	case gputypes.BlendFactorSrcAlphaSaturated:
		return 0x0308
	case gputypes.BlendFactorConstant:
		return 0x8001
	case gputypes.BlendFactorOneMinusConstant:
		return 0x8002
	default:
		return 1
	}
}

// BlendEquation maps a blend operation to its GL enum.
func BlendEquation(op gputypes.BlendOperation) uint32 {
	switch op {
	case gputypes.BlendOperationSubtract:
		return 0x800A
	case gputypes.BlendOperationReverseSubtract:
		return 0x800B
	case gputypes.BlendOperationMin:
		return 0x8007
	case gputypes.BlendOperationMax:
		return 0x8008
	default:
		return 0x8006
	}
}

// CompareFunc maps a depth compare function to its GL enum.
func CompareFunc(f gputypes.CompareFunction) uint32 {
	switch f {
	case gputypes.CompareFunctionNever:
		return 0x0200
	case gputypes.CompareFunctionEqual:
		return 0x0202
	case gputypes.CompareFunctionLessEqual:
		return 0x0203
	case gputypes.CompareFunctionGreater:
		return 0x0204
	case gputypes.CompareFunctionNotEqual:
		return 0x0205
	case gputypes.CompareFunctionGreaterEqual:
		return 0x0206
	case gputypes.CompareFunctionAlways:
		return 0x0207
	default:
		return 0x0201
	}
}

// CullFace maps a cull mode to the glCullFace argument.
// CullModeNone has no face; callers disable culling instead.
func CullFace(m gputypes.CullMode) uint32 {
	if m == gputypes.CullModeFront {
		return Front
	}
	return Back
}

// Wrap maps an address mode to its GL enum.
func Wrap(m gputypes.AddressMode) int32 {
	switch m {
	case gputypes.AddressModeClampToEdge:
		return ClampToEdge
	case gputypes.AddressModeMirrorRepeat:
		return MirroredRepeat
	default:
		return Repeat
	}
}

// Filter returns the GL minification and magnification filters.
func Filter(f gpucore.SamplerFilter) (minFilter, magFilter int32) {
	magFilter = Nearest
	if f.Mag == gputypes.FilterModeLinear {
		magFilter = Linear
	}
	linear := f.Min == gputypes.FilterModeLinear
	switch f.Mip {
	case gputypes.MipmapFilterModeNearest:
		if linear {
			return LinearMipmapNearest, magFilter
		}
		return NearestMipmapNearest, magFilter
	case gputypes.MipmapFilterModeLinear:
		if linear {
			return LinearMipmapLinear, magFilter
		}
		return NearestMipmapLinear, magFilter
	}
	if linear {
		return Linear, magFilter
	}
	return Nearest, magFilter
}

// Primitive maps a topology to its GL draw mode.
func Primitive(p gputypes.PrimitiveTopology) uint32 {
	switch p {
	case gputypes.PrimitiveTopologyPointList:
		return Points
	case gputypes.PrimitiveTopologyLineList:
		return Lines
	case gputypes.PrimitiveTopologyLineStrip:
		return LineStrip
	case gputypes.PrimitiveTopologyTriangleStrip:
		return TriangleStrip
	default:
		return Triangles
	}
}

// TextureTarget returns the binding target of a texture kind.
func TextureTarget(k gpucore.TextureKind) uint32 {
	if k == gpucore.TextureKindCube {
		return TextureCubeMap
	}
	return Texture2D
}

// ImageTarget returns the upload target of one face.
func ImageTarget(k gpucore.TextureKind, face int) uint32 {
	if k == gpucore.TextureKindCube {
		return TextureCubeMapPosX + uint32(face)
	}
	return Texture2D
}

// FramebufferStatus categorizes a glCheckFramebufferStatus result.
func FramebufferStatus(status uint32) gpucore.FramebufferStatus {
	switch status {
	case FramebufferComplete:
		return gpucore.FramebufferComplete
	case FramebufferIncompleteAtt:
		return gpucore.FramebufferIncompleteAttachment
	case FramebufferMissingAtt:
		return gpucore.FramebufferMissingAttachment
	case FramebufferIncompleteDim:
		return gpucore.FramebufferIncompleteDimensions
	case FramebufferUnsupported:
		return gpucore.FramebufferUnsupported
	default:
		return gpucore.FramebufferUnknown
	}
}

// ClearMask maps clear flags to a glClear bitfield.
func ClearMask(f gpucore.ClearFlags) uint32 {
	var m uint32
	if f&gpucore.ClearColor != 0 {
		m |= ColorBufferBit
	}
	if f&gpucore.ClearDepth != 0 {
		m |= DepthBufferBit
	}
	if f&gpucore.ClearStencil != 0 {
		m |= StencilBufferBit
	}
	return m
}

// ColorMask splits a write mask into GL booleans.
func ColorMask(m gputypes.ColorWriteMask) (r, g, b, a bool) {
	return m&gputypes.ColorWriteMaskRed != 0,
		m&gputypes.ColorWriteMaskGreen != 0,
		m&gputypes.ColorWriteMaskBlue != 0,
		m&gputypes.ColorWriteMaskAlpha != 0
}
