package gpucore

import (
	"github.com/gogpu/g3d/image"
	"github.com/gogpu/gputypes"
)

// Device is the native graphics API as seen by the render core.
//
// Every method maps to one native call (or the minimal sequence the API
// needs). Methods never validate against cached state: deduplication is the
// caller's job. A Device is bound to one thread, like the context behind it.
type Device interface {
	// Type returns the backend tag stamped on every resource.
	Type() BackendType

	// Caps returns the device capabilities. The result must not change.
	Caps() Caps

	// FormatTriple maps a semantic format to native upload parameters.
	// It returns false when the backend cannot store the format.
	FormatTriple(f image.Format) (Triple, bool)

	// Error returns and clears the first pending native error.
	Error() error

	CreateTexture(desc TextureDesc) (TextureHandle, error)
	DeleteTexture(h TextureHandle)

	// ActiveTexture selects the unit BindTexture and sampler calls affect.
	ActiveTexture(unit int)
	BindTexture(kind TextureKind, h TextureHandle)

	// UploadTexture writes one level of one face of the texture bound to
	// the active unit. data is already in the triple's target layout.
	UploadTexture(kind TextureKind, face, level int, size image.Size, t Triple, data []byte) error
	UploadCompressedTexture(kind TextureKind, face, level int, size image.Size, t Triple, data []byte) error

	// GenerateMipmaps regenerates levels 1..N of the bound texture.
	GenerateMipmaps(kind TextureKind)

	// SetAutoMipmap toggles legacy automatic generation on the bound texture.
	SetAutoMipmap(kind TextureKind, on bool)

	SetTextureWrap(kind TextureKind, u, v, w gputypes.AddressMode)
	SetTextureFilter(kind TextureKind, f SamplerFilter)
	SetTextureAnisotropy(kind TextureKind, level int)
	SetTextureLODBias(kind TextureKind, bias float32)

	CreateFramebuffer() (FramebufferHandle, error)
	DeleteFramebuffer(h FramebufferHandle)
	BindFramebuffer(h FramebufferHandle)

	// Attachment calls apply to the bound framebuffer. InvalidID detaches.
	AttachColor(index int, tex TextureHandle)
	AttachDepth(tex TextureHandle)
	AttachStencil(tex TextureHandle)
	AttachDepthStencil(tex TextureHandle)

	// DrawBuffers enables color attachments 0..n-1. Zero disables color
	// output on the bound framebuffer.
	DrawBuffers(n int)
	CheckFramebuffer() FramebufferStatus

	// ReadPixels copies a rectangle of the bound framebuffer's first color
	// attachment into dst, rows top-down, in the triple's target layout.
	ReadPixels(r Rect, t Triple, dst []byte) error

	CreateProgram(src ShaderSource) (ProgramHandle, error)
	DeleteProgram(h ProgramHandle)
	UseProgram(h ProgramHandle)

	// SetUniform writes a float uniform of the program in use. It reports
	// whether the program has such a uniform.
	SetUniform(name string, values []float32) bool

	SetBlendEnabled(on bool)
	SetBlendEnabledIndexed(index int, on bool)
	SetBlendEquation(op gputypes.BlendOperation)
	SetBlendEquationIndexed(index int, op gputypes.BlendOperation)
	SetBlendFunc(f BlendFunc)
	SetBlendFuncIndexed(index int, f BlendFunc)

	SetDepthFunc(f gputypes.CompareFunction)
	SetDepthMask(on bool)
	SetDepthTest(on bool)

	SetCullFace(m gputypes.CullMode)
	SetCullEnabled(on bool)

	SetColorMask(m gputypes.ColorWriteMask)
	SetColorMaskIndexed(index int, m gputypes.ColorWriteMask)

	SetViewport(r Rect)

	// SetCombiner configures a fixed-function texture stage.
	SetCombiner(stage int, c Combiner)

	// SetFrameConstants pushes transforms, lights and fog to the built-in
	// program.
	SetFrameConstants(c *FrameConstants)

	Clear(flags ClearFlags, color gputypes.Color, depth float32, stencil int)
	Draw(prim gputypes.PrimitiveTopology, first, count int)
}
