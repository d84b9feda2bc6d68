package gpucore

import (
	"fmt"

	"github.com/gogpu/g3d/image"
	"github.com/gogpu/gputypes"
)

// Resource handles
//
// These opaque IDs represent native objects. Each backend maintains a mapping
// between IDs and actual resources.

// TextureHandle is an opaque handle to a native texture.
type TextureHandle uint64

// FramebufferHandle is an opaque handle to a native framebuffer object.
// The zero value is the default framebuffer (the backbuffer).
type FramebufferHandle uint64

// ProgramHandle is an opaque handle to a linked shader program.
// The zero value selects the backend's built-in fixed-function emulation.
type ProgramHandle uint64

// InvalidID is the zero value, representing the null resource.
const InvalidID = 0

// BackendType tags every resource with the backend that created it.
// Resources are never shared across backend types.
type BackendType uint8

// Backend types.
const (
	BackendUnknown BackendType = iota
	BackendRecording
	BackendOpenGL
	BackendGLES2
	BackendWebGL
	BackendWGPU
)

func (b BackendType) String() string {
	switch b {
	case BackendRecording:
		return "recording"
	case BackendOpenGL:
		return "opengl"
	case BackendGLES2:
		return "gles2"
	case BackendWebGL:
		return "webgl"
	case BackendWGPU:
		return "wgpu"
	default:
		return "unknown"
	}
}

// TextureKind is the texture binding target.
type TextureKind uint8

// Texture kinds.
const (
	TextureKind2D TextureKind = iota
	TextureKindCube
)

func (k TextureKind) String() string {
	if k == TextureKindCube {
		return "cube"
	}
	return "2d"
}

// Faces returns the number of image layers of the kind.
func (k TextureKind) Faces() int {
	if k == TextureKindCube {
		return 6
	}
	return 1
}

// MipmapMode selects how a backend generates mip levels automatically.
type MipmapMode uint8

// Mipmap modes.
const (
	// MipmapNone means the backend cannot generate mip levels. Textures
	// without explicit mip data keep only level 0.
	MipmapNone MipmapMode = iota

	// MipmapLegacy sets a texture parameter before level 0 is uploaded and
	// the driver regenerates levels on every upload.
	MipmapLegacy

	// MipmapModern issues an explicit generate call after level 0 is
	// uploaded.
	MipmapModern
)

func (m MipmapMode) String() string {
	switch m {
	case MipmapLegacy:
		return "legacy"
	case MipmapModern:
		return "modern"
	default:
		return "none"
	}
}

// Caps are the backend capabilities every sizing and format decision
// depends on.
type Caps struct {
	MaxTextureSize      int
	MaxTextureUnits     int
	MaxColorAttachments int

	// NPOT reports non-power-of-two texture support.
	NPOT bool

	// MipmapMode is decided once when the device is created.
	MipmapMode MipmapMode

	// IndependentBlend reports per-attachment blend state.
	IndependentBlend bool

	// IndexedColorMask reports per-attachment color write masks.
	IndexedColorMask bool

	// MaxAnisotropy is 1 when anisotropic filtering is unavailable.
	MaxAnisotropy int

	// MaxLockLevel is the highest mip level a texture lock may address.
	MaxLockLevel int

	// ReadPixels reports whether framebuffer contents can be read back.
	ReadPixels bool

	PackedDepthStencil bool
	FloatTextures      bool
	RGTextures         bool
	S3TC               bool
	DepthTextures      bool

	Backbuffer       image.Size
	BackbufferFormat image.Format
}

// AutoMipmap reports whether the backend can generate mip levels itself.
func (c Caps) AutoMipmap() bool {
	return c.MipmapMode != MipmapNone
}

// Triple is a native format description for a semantic image format.
//
// Internal, Pixel and Type carry the GL-family enums. Native is the WebGPU
// format for backends that speak gputypes. Convert, when set, must be applied
// to the source pixels before upload, producing pixels of the Target format.
// Revert undoes Convert on read-back.
type Triple struct {
	Internal uint32
	Pixel    uint32
	Type     uint32
	Native   gputypes.TextureFormat
	Convert  image.ConvertFunc
	Revert   image.ConvertFunc
	Target   image.Format
}

// UploadFormat returns the format of the bytes the backend receives.
func (t Triple) UploadFormat(src image.Format) image.Format {
	if t.Convert != nil && t.Target != image.FormatUnknown {
		return t.Target
	}
	return src
}

func (t Triple) String() string {
	return fmt.Sprintf("{internal=%#x pixel=%#x type=%#x native=%d conv=%v}",
		t.Internal, t.Pixel, t.Type, t.Native, t.Convert != nil)
}

// TextureDesc describes native storage to allocate.
type TextureDesc struct {
	Label        string
	Kind         TextureKind
	Size         image.Size
	Format       image.Format
	Triple       Triple
	MipLevels    int
	RenderTarget bool
}

// Rect is a pixel rectangle with the origin at the top left.
type Rect struct {
	X, Y, Width, Height int
}

// Size returns the rectangle dimensions.
func (r Rect) Size() image.Size {
	return image.Size{Width: r.Width, Height: r.Height}
}

// BlendFunc holds separate color and alpha blend factors.
type BlendFunc struct {
	SrcRGB   gputypes.BlendFactor
	DstRGB   gputypes.BlendFactor
	SrcAlpha gputypes.BlendFactor
	DstAlpha gputypes.BlendFactor
}

// NewBlendFunc returns a BlendFunc using the same factors for color and alpha.
func NewBlendFunc(src, dst gputypes.BlendFactor) BlendFunc {
	return BlendFunc{SrcRGB: src, DstRGB: dst, SrcAlpha: src, DstAlpha: dst}
}

// ClearFlags select the buffers Clear touches.
type ClearFlags uint8

// Clear flags.
const (
	ClearColor ClearFlags = 1 << iota
	ClearDepth
	ClearStencil

	ClearAll = ClearColor | ClearDepth | ClearStencil
)

// FramebufferStatus is the result of a completeness check.
type FramebufferStatus uint8

// Framebuffer completeness results.
const (
	FramebufferComplete FramebufferStatus = iota
	FramebufferIncompleteAttachment
	FramebufferMissingAttachment
	FramebufferIncompleteDimensions
	FramebufferUnsupported
	FramebufferUnknown
)

func (s FramebufferStatus) String() string {
	switch s {
	case FramebufferComplete:
		return "complete"
	case FramebufferIncompleteAttachment:
		return "incomplete attachment"
	case FramebufferMissingAttachment:
		return "missing attachment"
	case FramebufferIncompleteDimensions:
		return "mismatched dimensions"
	case FramebufferUnsupported:
		return "unsupported format combination"
	default:
		return "unknown"
	}
}

// SamplerFilter is the minification/magnification setup of a texture.
type SamplerFilter struct {
	Min gputypes.FilterMode
	Mag gputypes.FilterMode

	// Mip is MipmapFilterModeUndefined when mip levels are not sampled.
	Mip gputypes.MipmapFilterMode
}

// CombineOp is a fixed-function texture stage operation.
type CombineOp uint8

// Combine operations.
const (
	CombineDisable CombineOp = iota
	CombineReplace
	CombineModulate
	CombineAdd
	CombineAddSigned
	CombineBlendTextureAlpha
	CombineBlendDiffuseAlpha
	CombineDot3
)

// CombineSource is an input of a texture stage.
type CombineSource uint8

// Combine sources.
const (
	SourceTexture CombineSource = iota
	SourcePrevious
	SourceDiffuse
	SourceConstant
)

// Combiner configures one fixed-function texture stage.
// Shader backends translate it into uniforms of their built-in program.
type Combiner struct {
	Color     CombineOp
	ColorArg1 CombineSource
	ColorArg2 CombineSource
	Alpha     CombineOp
	AlphaArg1 CombineSource
	AlphaArg2 CombineSource

	// Scale multiplies the color result (1, 2 or 4).
	Scale uint8

	// SphereMap generates texture coordinates from the view-space normal.
	SphereMap bool
	// Reflection generates coordinates from the reflected view vector.
	Reflection bool
}

// DisabledCombiner turns a stage off.
var DisabledCombiner = Combiner{Color: CombineDisable, Alpha: CombineDisable, Scale: 1}

// Matrix is a column-major 4x4 matrix.
type Matrix [16]float32

// Identity is the identity matrix.
var Identity = Matrix{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// LightKind distinguishes light sources.
type LightKind uint8

// Light kinds.
const (
	LightPoint LightKind = iota
	LightDirectional
	LightSpot
)

// Light is a dynamic light pushed per draw.
type Light struct {
	Kind        LightKind
	Position    [3]float32
	Direction   [3]float32
	Diffuse     gputypes.Color
	Specular    gputypes.Color
	Ambient     gputypes.Color
	Attenuation [3]float32
	Radius      float32
}

// FogMode selects the fog equation.
type FogMode uint8

// Fog modes.
const (
	FogLinear FogMode = iota
	FogExp
	FogExp2
)

// Fog parameters.
type Fog struct {
	Mode    FogMode
	Color   gputypes.Color
	Start   float32
	End     float32
	Density float32
}

// FrameConstants are the per-draw values the built-in programs consume.
type FrameConstants struct {
	World      Matrix
	View       Matrix
	Projection Matrix
	Lighting   bool
	Lights     []Light
	FogEnabled bool
	Fog        Fog
	AlphaRef   float32
}

// ShaderSource holds program sources. GL-family backends use Vertex and
// Fragment GLSL; the WebGPU backend uses WGSL.
type ShaderSource struct {
	Label    string
	Vertex   string
	Fragment string
	WGSL     string
}
