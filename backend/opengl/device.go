//go:build !nogl

package opengl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/g3d/backend"
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
	"github.com/gogpu/g3d/internal/glformat"
	"github.com/gogpu/g3d/internal/glsl"
	"github.com/gogpu/gputypes"
)

// ErrNoContext is returned when no usable GL context is current.
var ErrNoContext = errors.New("opengl: no current 4.1 core context")

type textureInfo struct {
	kind   gpucore.TextureKind
	size   image.Size
	format image.Format
}

// Device drives the GL context current on the calling thread.
type Device struct {
	caps  gpucore.Caps
	debug bool

	textures map[gpucore.TextureHandle]textureInfo
	// First color attachment per framebuffer, for viewport flipping and
	// read-back.
	color0      map[gpucore.FramebufferHandle]gpucore.TextureHandle
	framebuffer gpucore.FramebufferHandle

	builtin  *program
	programs map[gpucore.ProgramHandle]*program
	current  *program

	vao uint32
}

func init() {
	backend.Register(backend.OpenGL, func(cfg backend.Config) (gpucore.Device, error) {
		return New(cfg.Debug)
	})
}

// New loads the GL entry points, queries the capabilities of the current
// context and compiles the built-in program.
func New(debug bool) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoContext, err)
	}
	var major int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	if major < 4 {
		return nil, fmt.Errorf("%w: version %s", ErrNoContext, gl.GoStr(gl.GetString(gl.VERSION)))
	}

	d := &Device{
		caps:     queryCaps(),
		debug:    debug,
		textures: make(map[gpucore.TextureHandle]textureInfo),
		color0:   make(map[gpucore.FramebufferHandle]gpucore.TextureHandle),
		programs: make(map[gpucore.ProgramHandle]*program),
	}

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	builtin, err := link(glsl.Source(glsl.Desktop))
	if err != nil {
		return nil, fmt.Errorf("opengl: built-in program: %w", err)
	}
	d.builtin = builtin
	for _, u := range glsl.SamplerUniforms() {
		d.builtin.set(u)
	}
	for i := 0; i < glsl.MaxStages; i++ {
		d.builtin.set(glsl.StageUniform(i, gpucore.DisabledCombiner))
	}
	d.current = builtin
	gl.UseProgram(builtin.id)

	backend.Logger().Info("opengl: device opened",
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"version", gl.GoStr(gl.GetString(gl.VERSION)))
	return d, nil
}

func queryCaps() gpucore.Caps {
	geti := func(pname uint32) int {
		var v int32
		gl.GetIntegerv(pname, &v)
		return int(v)
	}
	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	ext := make(map[string]bool, n)
	for i := int32(0); i < n; i++ {
		ext[gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i)))] = true
	}

	aniso := 1
	if ext["GL_EXT_texture_filter_anisotropic"] || ext["GL_ARB_texture_filter_anisotropic"] {
		var f float32
		gl.GetFloatv(gl.MAX_TEXTURE_MAX_ANISOTROPY, &f)
		aniso = max(int(f), 1)
	}

	var vp [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &vp[0])

	return gpucore.Caps{
		MaxTextureSize:      geti(gl.MAX_TEXTURE_SIZE),
		MaxTextureUnits:     min(geti(gl.MAX_TEXTURE_IMAGE_UNITS), 32),
		MaxColorAttachments: min(geti(gl.MAX_COLOR_ATTACHMENTS), geti(gl.MAX_DRAW_BUFFERS)),
		NPOT:                true,
		MipmapMode:          gpucore.MipmapModern,
		IndependentBlend:    true,
		IndexedColorMask:    true,
		MaxAnisotropy:       aniso,
		MaxLockLevel:        15,
		ReadPixels:          true,
		PackedDepthStencil:  true,
		FloatTextures:       true,
		RGTextures:          true,
		S3TC:                ext["GL_EXT_texture_compression_s3tc"],
		DepthTextures:       true,
		Backbuffer:          image.Size{Width: int(vp[2]), Height: int(vp[3])},
		BackbufferFormat:    image.FormatA8R8G8B8,
	}
}

// Type implements gpucore.Device.
func (d *Device) Type() gpucore.BackendType { return gpucore.BackendOpenGL }

// Caps implements gpucore.Device.
func (d *Device) Caps() gpucore.Caps { return d.caps }

// FormatTriple implements gpucore.Device.
func (d *Device) FormatTriple(f image.Format) (gpucore.Triple, bool) {
	return glformat.Triple(f, gpucore.BackendOpenGL, d.caps)
}

// Error implements gpucore.Device.
func (d *Device) Error() error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("opengl: error %#x", code)
	}
	return nil
}

// check logs native errors after a call when debug checks are on.
func (d *Device) check(op string) {
	if !d.debug {
		return
	}
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		backend.Logger().Error("opengl: call failed", "op", op, "code", fmt.Sprintf("%#x", code))
	}
}

// CreateTexture implements gpucore.Device. Storage is allocated by the
// first upload of each level.
func (d *Device) CreateTexture(desc gpucore.TextureDesc) (gpucore.TextureHandle, error) {
	if desc.Size.Empty() {
		return gpucore.InvalidID, fmt.Errorf("opengl: create texture %q: %w", desc.Label, image.ErrInvalidDimensions)
	}
	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return gpucore.InvalidID, fmt.Errorf("opengl: create texture %q failed", desc.Label)
	}
	h := gpucore.TextureHandle(id)
	d.textures[h] = textureInfo{kind: desc.Kind, size: desc.Size, format: desc.Format}
	return h, nil
}

// DeleteTexture implements gpucore.Device.
func (d *Device) DeleteTexture(h gpucore.TextureHandle) {
	id := uint32(h)
	gl.DeleteTextures(1, &id)
	delete(d.textures, h)
	for fb, t := range d.color0 {
		if t == h {
			d.color0[fb] = gpucore.InvalidID
		}
	}
	d.check("DeleteTexture")
}

// ActiveTexture implements gpucore.Device.
func (d *Device) ActiveTexture(unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
}

// BindTexture implements gpucore.Device.
func (d *Device) BindTexture(kind gpucore.TextureKind, h gpucore.TextureHandle) {
	gl.BindTexture(glformat.TextureTarget(kind), uint32(h))
}

// UploadTexture implements gpucore.Device.
func (d *Device) UploadTexture(kind gpucore.TextureKind, face, level int, size image.Size, t gpucore.Triple, data []byte) error {
	var ptr any
	if len(data) > 0 {
		ptr = &data[0]
	}
	gl.TexImage2D(glformat.ImageTarget(kind, face), int32(level), int32(t.Internal),
		int32(size.Width), int32(size.Height), 0, t.Pixel, t.Type, gl.Ptr(ptr))
	return d.Error()
}

// UploadCompressedTexture implements gpucore.Device.
func (d *Device) UploadCompressedTexture(kind gpucore.TextureKind, face, level int, size image.Size, t gpucore.Triple, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("opengl: compressed upload without data")
	}
	gl.CompressedTexImage2D(glformat.ImageTarget(kind, face), int32(level), t.Internal,
		int32(size.Width), int32(size.Height), 0, int32(len(data)), gl.Ptr(&data[0]))
	return d.Error()
}

// GenerateMipmaps implements gpucore.Device.
func (d *Device) GenerateMipmaps(kind gpucore.TextureKind) {
	gl.GenerateMipmap(glformat.TextureTarget(kind))
	d.check("GenerateMipmaps")
}

// SetAutoMipmap implements gpucore.Device. Core profiles have no automatic
// generation; the capability reports MipmapModern so it is never asked.
func (d *Device) SetAutoMipmap(gpucore.TextureKind, bool) {}

// SetTextureWrap implements gpucore.Device.
func (d *Device) SetTextureWrap(kind gpucore.TextureKind, u, v, w gputypes.AddressMode) {
	target := glformat.TextureTarget(kind)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, glformat.Wrap(u))
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, glformat.Wrap(v))
	gl.TexParameteri(target, gl.TEXTURE_WRAP_R, glformat.Wrap(w))
}

// SetTextureFilter implements gpucore.Device.
func (d *Device) SetTextureFilter(kind gpucore.TextureKind, f gpucore.SamplerFilter) {
	target := glformat.TextureTarget(kind)
	minFilter, magFilter := glformat.Filter(f)
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, magFilter)
}

// SetTextureAnisotropy implements gpucore.Device.
func (d *Device) SetTextureAnisotropy(kind gpucore.TextureKind, level int) {
	gl.TexParameterf(glformat.TextureTarget(kind), gl.TEXTURE_MAX_ANISOTROPY, float32(max(level, 1)))
	d.check("SetTextureAnisotropy")
}

// SetTextureLODBias implements gpucore.Device.
func (d *Device) SetTextureLODBias(kind gpucore.TextureKind, bias float32) {
	gl.TexParameterf(glformat.TextureTarget(kind), gl.TEXTURE_LOD_BIAS, bias)
}

// CreateFramebuffer implements gpucore.Device.
func (d *Device) CreateFramebuffer() (gpucore.FramebufferHandle, error) {
	var id uint32
	gl.GenFramebuffers(1, &id)
	if id == 0 {
		return gpucore.InvalidID, errors.New("opengl: create framebuffer failed")
	}
	return gpucore.FramebufferHandle(id), nil
}

// DeleteFramebuffer implements gpucore.Device.
func (d *Device) DeleteFramebuffer(h gpucore.FramebufferHandle) {
	id := uint32(h)
	gl.DeleteFramebuffers(1, &id)
	delete(d.color0, h)
	if d.framebuffer == h {
		d.framebuffer = gpucore.InvalidID
	}
	d.check("DeleteFramebuffer")
}

// BindFramebuffer implements gpucore.Device.
func (d *Device) BindFramebuffer(h gpucore.FramebufferHandle) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(h))
	d.framebuffer = h
}

func (d *Device) attach(point uint32, tex gpucore.TextureHandle) {
	target := uint32(gl.TEXTURE_2D)
	if info, ok := d.textures[tex]; ok && info.kind == gpucore.TextureKindCube {
		target = glformat.ImageTarget(gpucore.TextureKindCube, 0)
	}
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, point, target, uint32(tex), 0)
}

// AttachColor implements gpucore.Device.
func (d *Device) AttachColor(index int, tex gpucore.TextureHandle) {
	d.attach(gl.COLOR_ATTACHMENT0+uint32(index), tex)
	if index == 0 {
		d.color0[d.framebuffer] = tex
	}
	d.check("AttachColor")
}

// AttachDepth implements gpucore.Device.
func (d *Device) AttachDepth(tex gpucore.TextureHandle) {
	d.attach(gl.DEPTH_ATTACHMENT, tex)
	d.check("AttachDepth")
}

// AttachStencil implements gpucore.Device.
func (d *Device) AttachStencil(tex gpucore.TextureHandle) {
	d.attach(gl.STENCIL_ATTACHMENT, tex)
	d.check("AttachStencil")
}

// AttachDepthStencil implements gpucore.Device.
func (d *Device) AttachDepthStencil(tex gpucore.TextureHandle) {
	d.attach(gl.DEPTH_STENCIL_ATTACHMENT, tex)
	d.check("AttachDepthStencil")
}

// DrawBuffers implements gpucore.Device.
func (d *Device) DrawBuffers(n int) {
	if n == 0 {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
		return
	}
	bufs := make([]uint32, n)
	for i := range bufs {
		bufs[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
	}
	gl.DrawBuffers(int32(n), &bufs[0])
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	d.check("DrawBuffers")
}

// CheckFramebuffer implements gpucore.Device.
func (d *Device) CheckFramebuffer() gpucore.FramebufferStatus {
	return glformat.FramebufferStatus(gl.CheckFramebufferStatus(gl.FRAMEBUFFER))
}

// targetHeight is the height of the bound framebuffer, used to move the
// origin to the top left.
func (d *Device) targetHeight() int {
	if d.framebuffer != gpucore.InvalidID {
		if info, ok := d.textures[d.color0[d.framebuffer]]; ok {
			return info.size.Height
		}
	}
	return d.caps.Backbuffer.Height
}

// ReadPixels implements gpucore.Device. GL rows run bottom-up; they are
// flipped into dst.
func (d *Device) ReadPixels(r gpucore.Rect, t gpucore.Triple, dst []byte) error {
	format := d.caps.BackbufferFormat
	if d.framebuffer != gpucore.InvalidID {
		info, ok := d.textures[d.color0[d.framebuffer]]
		if !ok {
			return errors.New("opengl: read-back without color attachment")
		}
		format = info.format
	}
	row := r.Width * t.UploadFormat(format).BytesPerPixel()
	if len(dst) < row*r.Height {
		return image.ErrDataTooSmall
	}
	y := d.targetHeight() - r.Y - r.Height
	gl.ReadPixels(int32(r.X), int32(y), int32(r.Width), int32(r.Height), t.Pixel, t.Type, gl.Ptr(&dst[0]))
	flipRows(dst[:row*r.Height], row)
	return d.Error()
}

// CreateProgram implements gpucore.Device. Sources without a #version line
// get the GLSL 4.10 header.
func (d *Device) CreateProgram(src gpucore.ShaderSource) (gpucore.ProgramHandle, error) {
	if strings.TrimSpace(src.Vertex) == "" || strings.TrimSpace(src.Fragment) == "" {
		return gpucore.InvalidID, fmt.Errorf("opengl: program %q needs vertex and fragment sources", src.Label)
	}
	p, err := link(glsl.UserSource(glsl.Desktop, src))
	if err != nil {
		return gpucore.InvalidID, err
	}
	h := gpucore.ProgramHandle(p.id)
	d.programs[h] = p
	return h, nil
}

// Close deletes the built-in program, every user program and the vertex
// array. Textures and framebuffers are left to the render core.
func (d *Device) Close() error {
	for h := range d.programs {
		d.DeleteProgram(h)
	}
	gl.UseProgram(0)
	if d.builtin != nil {
		gl.DeleteProgram(d.builtin.id)
		d.builtin, d.current = nil, nil
	}
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
	return nil
}

// DeleteProgram implements gpucore.Device.
func (d *Device) DeleteProgram(h gpucore.ProgramHandle) {
	p, ok := d.programs[h]
	if !ok {
		return
	}
	if d.current == p {
		d.UseProgram(gpucore.InvalidID)
	}
	gl.DeleteProgram(p.id)
	delete(d.programs, h)
}

// UseProgram implements gpucore.Device. InvalidID selects the built-in
// program.
func (d *Device) UseProgram(h gpucore.ProgramHandle) {
	p := d.builtin
	if h != gpucore.InvalidID {
		if p = d.programs[h]; p == nil {
			backend.Logger().Error("opengl: unknown program", "program", h)
			return
		}
	}
	gl.UseProgram(p.id)
	d.current = p
}

// SetUniform implements gpucore.Device.
func (d *Device) SetUniform(name string, values []float32) bool {
	return d.current.set(glsl.Uniform{Name: name, Floats: values})
}

// SetBlendEnabled implements gpucore.Device.
func (d *Device) SetBlendEnabled(on bool) { enable(gl.BLEND, on) }

// SetBlendEnabledIndexed implements gpucore.Device.
func (d *Device) SetBlendEnabledIndexed(index int, on bool) {
	if on {
		gl.Enablei(gl.BLEND, uint32(index))
	} else {
		gl.Disablei(gl.BLEND, uint32(index))
	}
}

// SetBlendEquation implements gpucore.Device.
func (d *Device) SetBlendEquation(op gputypes.BlendOperation) {
	gl.BlendEquation(glformat.BlendEquation(op))
}

// SetBlendEquationIndexed implements gpucore.Device.
func (d *Device) SetBlendEquationIndexed(index int, op gputypes.BlendOperation) {
	gl.BlendEquationi(uint32(index), glformat.BlendEquation(op))
}

// SetBlendFunc implements gpucore.Device.
func (d *Device) SetBlendFunc(f gpucore.BlendFunc) {
	gl.BlendFuncSeparate(glformat.BlendFactor(f.SrcRGB), glformat.BlendFactor(f.DstRGB),
		glformat.BlendFactor(f.SrcAlpha), glformat.BlendFactor(f.DstAlpha))
}

// SetBlendFuncIndexed implements gpucore.Device.
func (d *Device) SetBlendFuncIndexed(index int, f gpucore.BlendFunc) {
	gl.BlendFuncSeparatei(uint32(index), glformat.BlendFactor(f.SrcRGB), glformat.BlendFactor(f.DstRGB),
		glformat.BlendFactor(f.SrcAlpha), glformat.BlendFactor(f.DstAlpha))
}

// SetDepthFunc implements gpucore.Device.
func (d *Device) SetDepthFunc(f gputypes.CompareFunction) { gl.DepthFunc(glformat.CompareFunc(f)) }

// SetDepthMask implements gpucore.Device.
func (d *Device) SetDepthMask(on bool) { gl.DepthMask(on) }

// SetDepthTest implements gpucore.Device.
func (d *Device) SetDepthTest(on bool) { enable(gl.DEPTH_TEST, on) }

// SetCullFace implements gpucore.Device.
func (d *Device) SetCullFace(m gputypes.CullMode) { gl.CullFace(glformat.CullFace(m)) }

// SetCullEnabled implements gpucore.Device.
func (d *Device) SetCullEnabled(on bool) { enable(gl.CULL_FACE, on) }

// SetColorMask implements gpucore.Device.
func (d *Device) SetColorMask(m gputypes.ColorWriteMask) {
	gl.ColorMask(glformat.ColorMask(m))
}

// SetColorMaskIndexed implements gpucore.Device.
func (d *Device) SetColorMaskIndexed(index int, m gputypes.ColorWriteMask) {
	r, g, b, a := glformat.ColorMask(m)
	gl.ColorMaski(uint32(index), r, g, b, a)
}

// SetViewport implements gpucore.Device.
func (d *Device) SetViewport(r gpucore.Rect) {
	y := d.targetHeight() - r.Y - r.Height
	gl.Viewport(int32(r.X), int32(y), int32(r.Width), int32(r.Height))
}

// SetCombiner implements gpucore.Device. Stages beyond the built-in
// program's are ignored.
func (d *Device) SetCombiner(stage int, c gpucore.Combiner) {
	if stage < 0 || stage >= glsl.MaxStages {
		return
	}
	d.builtin.set(glsl.StageUniform(stage, c))
}

// SetFrameConstants implements gpucore.Device.
func (d *Device) SetFrameConstants(c *gpucore.FrameConstants) {
	for _, u := range glsl.Constants(c) {
		d.builtin.set(u)
	}
}

// Clear implements gpucore.Device.
func (d *Device) Clear(flags gpucore.ClearFlags, color gputypes.Color, depth float32, stencil int) {
	gl.ClearColor(float32(color.R), float32(color.G), float32(color.B), float32(color.A))
	gl.ClearDepth(float64(depth))
	gl.ClearStencil(int32(stencil))
	gl.Clear(glformat.ClearMask(flags))
	d.check("Clear")
}

// Draw implements gpucore.Device. The host binds the vertex arrays.
func (d *Device) Draw(prim gputypes.PrimitiveTopology, first, count int) {
	gl.DrawArrays(glformat.Primitive(prim), int32(first), int32(count))
	d.check("Draw")
}

func enable(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}
