//go:build js && wasm

package webgl

import (
	"errors"
	"fmt"
	"strings"
	"syscall/js"
	"unsafe"

	"github.com/gogpu/g3d/backend"
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
	"github.com/gogpu/g3d/internal/glformat"
	"github.com/gogpu/g3d/internal/glsl"
	"github.com/gogpu/gputypes"
)

// WebGL 2 enums not shared with the desktop profile.
const (
	glMaxTextureSize       = 0x0D33
	glMaxTextureImageUnits = 0x8872
	glMaxColorAttachments  = 0x8CDF
	glMaxDrawBuffers       = 0x8824
	glMaxAnisotropy        = 0x84FF
	glUnpackAlignment      = 0x0CF5
	glPackAlignment        = 0x0D05
	glVertexShader         = 0x8B31
	glFragmentShader       = 0x8B30
	glCompileStatus        = 0x8B81
	glLinkStatus           = 0x8B82
	glActiveUniforms       = 0x8B86
)

type textureInfo struct {
	obj    js.Value
	kind   gpucore.TextureKind
	size   image.Size
	format image.Format
}

type program struct {
	obj   js.Value
	slots map[string]glsl.Slot
	locs  map[string]js.Value
}

// Device drives one WebGL 2 context.
type Device struct {
	gl    js.Value
	caps  gpucore.Caps
	debug bool

	indexed js.Value // OES_draw_buffers_indexed, or undefined

	nextID       uint64
	textures     map[gpucore.TextureHandle]*textureInfo
	framebuffers map[gpucore.FramebufferHandle]js.Value
	color0       map[gpucore.FramebufferHandle]gpucore.TextureHandle
	framebuffer  gpucore.FramebufferHandle

	builtin  *program
	programs map[gpucore.ProgramHandle]*program
	current  *program
}

func init() {
	backend.Register(backend.WebGL, func(cfg backend.Config) (gpucore.Device, error) {
		ctx, ok := cfg.Canvas.(js.Value)
		if !ok {
			return nil, backend.ErrNoContext
		}
		return New(ctx, cfg.Debug)
	})
}

// New wraps a WebGL 2 rendering context.
func New(ctx js.Value, debug bool) (*Device, error) {
	if ctx.IsUndefined() || ctx.IsNull() || ctx.Get("texStorage2D").IsUndefined() {
		return nil, fmt.Errorf("%w: canvas has no webgl2 context", backend.ErrNoContext)
	}
	d := &Device{
		gl:           ctx,
		debug:        debug,
		textures:     make(map[gpucore.TextureHandle]*textureInfo),
		framebuffers: make(map[gpucore.FramebufferHandle]js.Value),
		color0:       make(map[gpucore.FramebufferHandle]gpucore.TextureHandle),
		programs:     make(map[gpucore.ProgramHandle]*program),
	}
	d.caps = d.queryCaps()
	ctx.Call("pixelStorei", glUnpackAlignment, 1)
	ctx.Call("pixelStorei", glPackAlignment, 1)

	p, err := d.link(glsl.Source(glsl.ES))
	if err != nil {
		return nil, fmt.Errorf("webgl: built-in program: %w", err)
	}
	d.builtin, d.current = p, p
	ctx.Call("useProgram", p.obj)
	for _, u := range glsl.SamplerUniforms() {
		d.set(p, u)
	}
	for i := 0; i < glsl.MaxStages; i++ {
		d.set(p, glsl.StageUniform(i, gpucore.DisabledCombiner))
	}
	backend.Logger().Info("webgl: device opened", "maxTextureSize", d.caps.MaxTextureSize)
	return d, nil
}

func (d *Device) queryCaps() gpucore.Caps {
	geti := func(pname int) int { return d.gl.Call("getParameter", pname).Int() }
	ext := func(name string) js.Value { return d.gl.Call("getExtension", name) }
	has := func(name string) bool {
		v := ext(name)
		return !v.IsNull() && !v.IsUndefined()
	}

	aniso := 1
	if has("EXT_texture_filter_anisotropic") {
		aniso = max(geti(glMaxAnisotropy), 1)
	}
	d.indexed = ext("OES_draw_buffers_indexed")
	indexed := !d.indexed.IsNull() && !d.indexed.IsUndefined()
	float := has("EXT_color_buffer_float")

	canvas := d.gl.Get("canvas")
	return gpucore.Caps{
		MaxTextureSize:      geti(glMaxTextureSize),
		MaxTextureUnits:     min(geti(glMaxTextureImageUnits), 32),
		MaxColorAttachments: min(geti(glMaxColorAttachments), geti(glMaxDrawBuffers)),
		NPOT:                true,
		MipmapMode:          gpucore.MipmapModern,
		IndependentBlend:    indexed,
		IndexedColorMask:    indexed,
		MaxAnisotropy:       aniso,
		MaxLockLevel:        15,
		ReadPixels:          true,
		PackedDepthStencil:  true,
		FloatTextures:       float,
		RGTextures:          true,
		S3TC:                has("WEBGL_compressed_texture_s3tc"),
		DepthTextures:       true,
		Backbuffer:          image.Size{Width: canvas.Get("width").Int(), Height: canvas.Get("height").Int()},
		BackbufferFormat:    image.FormatA8R8G8B8,
	}
}

func (d *Device) allocID() uint64 {
	d.nextID++
	return d.nextID
}

// Type implements gpucore.Device.
func (d *Device) Type() gpucore.BackendType { return gpucore.BackendWebGL }

// Caps implements gpucore.Device.
func (d *Device) Caps() gpucore.Caps { return d.caps }

// FormatTriple implements gpucore.Device.
func (d *Device) FormatTriple(f image.Format) (gpucore.Triple, bool) {
	return glformat.Triple(f, gpucore.BackendWebGL, d.caps)
}

// Error implements gpucore.Device.
func (d *Device) Error() error {
	if code := d.gl.Call("getError").Int(); code != glformat.NoError {
		return fmt.Errorf("webgl: error %#x", code)
	}
	return nil
}

func (d *Device) check(op string) {
	if !d.debug {
		return
	}
	for code := d.gl.Call("getError").Int(); code != glformat.NoError; code = d.gl.Call("getError").Int() {
		backend.Logger().Error("webgl: call failed", "op", op, "code", fmt.Sprintf("%#x", code))
	}
}

// bytesToJS copies data into a new Uint8Array.
func bytesToJS(data []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(arr, data)
	return arr
}

func floatsToJS(v []float32) js.Value {
	if len(v) == 0 {
		return js.Global().Get("Float32Array").New(0)
	}
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
	return js.Global().Get("Float32Array").New(bytesToJS(raw).Get("buffer"))
}

func intsToJS(v []int32) js.Value {
	if len(v) == 0 {
		return js.Global().Get("Int32Array").New(0)
	}
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
	return js.Global().Get("Int32Array").New(bytesToJS(raw).Get("buffer"))
}

// CreateTexture implements gpucore.Device.
func (d *Device) CreateTexture(desc gpucore.TextureDesc) (gpucore.TextureHandle, error) {
	if desc.Size.Empty() {
		return gpucore.InvalidID, fmt.Errorf("webgl: create texture %q: %w", desc.Label, image.ErrInvalidDimensions)
	}
	obj := d.gl.Call("createTexture")
	if obj.IsNull() {
		return gpucore.InvalidID, fmt.Errorf("webgl: create texture %q failed", desc.Label)
	}
	h := gpucore.TextureHandle(d.allocID())
	d.textures[h] = &textureInfo{obj: obj, kind: desc.Kind, size: desc.Size, format: desc.Format}
	return h, nil
}

// DeleteTexture implements gpucore.Device.
func (d *Device) DeleteTexture(h gpucore.TextureHandle) {
	t, ok := d.textures[h]
	if !ok {
		return
	}
	d.gl.Call("deleteTexture", t.obj)
	delete(d.textures, h)
	for fb, c := range d.color0 {
		if c == h {
			d.color0[fb] = gpucore.InvalidID
		}
	}
}

func (d *Device) textureObj(h gpucore.TextureHandle) js.Value {
	if t, ok := d.textures[h]; ok {
		return t.obj
	}
	return js.Null()
}

// ActiveTexture implements gpucore.Device.
func (d *Device) ActiveTexture(unit int) {
	d.gl.Call("activeTexture", glformat.Texture0+unit)
}

// BindTexture implements gpucore.Device.
func (d *Device) BindTexture(kind gpucore.TextureKind, h gpucore.TextureHandle) {
	d.gl.Call("bindTexture", glformat.TextureTarget(kind), d.textureObj(h))
}

// UploadTexture implements gpucore.Device.
func (d *Device) UploadTexture(kind gpucore.TextureKind, face, level int, size image.Size, t gpucore.Triple, data []byte) error {
	pixels := js.Null()
	if len(data) > 0 {
		pixels = bytesToJS(data)
		switch t.Type {
		case glformat.Float:
			pixels = js.Global().Get("Float32Array").New(pixels.Get("buffer"))
		case glformat.HalfFloat, glformat.UnsignedShort, glformat.UnsignedShort565, glformat.UnsignedShort5551:
			pixels = js.Global().Get("Uint16Array").New(pixels.Get("buffer"))
		case glformat.UnsignedInt, glformat.UnsignedInt248:
			pixels = js.Global().Get("Uint32Array").New(pixels.Get("buffer"))
		}
	}
	d.gl.Call("texImage2D", glformat.ImageTarget(kind, face), level, t.Internal,
		size.Width, size.Height, 0, t.Pixel, t.Type, pixels)
	return d.Error()
}

// UploadCompressedTexture implements gpucore.Device.
func (d *Device) UploadCompressedTexture(kind gpucore.TextureKind, face, level int, size image.Size, t gpucore.Triple, data []byte) error {
	if len(data) == 0 {
		return errors.New("webgl: compressed upload without data")
	}
	d.gl.Call("compressedTexImage2D", glformat.ImageTarget(kind, face), level, t.Internal,
		size.Width, size.Height, 0, bytesToJS(data))
	return d.Error()
}

// GenerateMipmaps implements gpucore.Device.
func (d *Device) GenerateMipmaps(kind gpucore.TextureKind) {
	d.gl.Call("generateMipmap", glformat.TextureTarget(kind))
	d.check("GenerateMipmaps")
}

// SetAutoMipmap implements gpucore.Device. WebGL has no automatic
// generation.
func (d *Device) SetAutoMipmap(gpucore.TextureKind, bool) {}

// SetTextureWrap implements gpucore.Device.
func (d *Device) SetTextureWrap(kind gpucore.TextureKind, u, v, w gputypes.AddressMode) {
	target := glformat.TextureTarget(kind)
	d.gl.Call("texParameteri", target, glformat.TextureWrapS, glformat.Wrap(u))
	d.gl.Call("texParameteri", target, glformat.TextureWrapT, glformat.Wrap(v))
	d.gl.Call("texParameteri", target, glformat.TextureWrapR, glformat.Wrap(w))
}

// SetTextureFilter implements gpucore.Device.
func (d *Device) SetTextureFilter(kind gpucore.TextureKind, f gpucore.SamplerFilter) {
	target := glformat.TextureTarget(kind)
	minFilter, magFilter := glformat.Filter(f)
	d.gl.Call("texParameteri", target, glformat.TextureMinFilter, minFilter)
	d.gl.Call("texParameteri", target, glformat.TextureMagFilter, magFilter)
}

// SetTextureAnisotropy implements gpucore.Device.
func (d *Device) SetTextureAnisotropy(kind gpucore.TextureKind, level int) {
	if d.caps.MaxAnisotropy <= 1 {
		return
	}
	d.gl.Call("texParameterf", glformat.TextureTarget(kind), glformat.TextureMaxAnisotropy, float32(max(level, 1)))
}

// SetTextureLODBias implements gpucore.Device. WebGL has no LOD bias
// parameter.
func (d *Device) SetTextureLODBias(gpucore.TextureKind, float32) {}

// CreateFramebuffer implements gpucore.Device.
func (d *Device) CreateFramebuffer() (gpucore.FramebufferHandle, error) {
	obj := d.gl.Call("createFramebuffer")
	if obj.IsNull() {
		return gpucore.InvalidID, errors.New("webgl: create framebuffer failed")
	}
	h := gpucore.FramebufferHandle(d.allocID())
	d.framebuffers[h] = obj
	return h, nil
}

// DeleteFramebuffer implements gpucore.Device.
func (d *Device) DeleteFramebuffer(h gpucore.FramebufferHandle) {
	obj, ok := d.framebuffers[h]
	if !ok {
		return
	}
	d.gl.Call("deleteFramebuffer", obj)
	delete(d.framebuffers, h)
	delete(d.color0, h)
	if d.framebuffer == h {
		d.framebuffer = gpucore.InvalidID
	}
}

// BindFramebuffer implements gpucore.Device.
func (d *Device) BindFramebuffer(h gpucore.FramebufferHandle) {
	obj := js.Null()
	if h != gpucore.InvalidID {
		obj = d.framebuffers[h]
	}
	d.gl.Call("bindFramebuffer", glformat.Framebuffer, obj)
	d.framebuffer = h
}

func (d *Device) attach(point int, tex gpucore.TextureHandle) {
	target := glformat.Texture2D
	if t, ok := d.textures[tex]; ok && t.kind == gpucore.TextureKindCube {
		target = glformat.TextureCubeMapPosX
	}
	d.gl.Call("framebufferTexture2D", glformat.Framebuffer, point, target, d.textureObj(tex), 0)
}

// AttachColor implements gpucore.Device.
func (d *Device) AttachColor(index int, tex gpucore.TextureHandle) {
	d.attach(glformat.ColorAttachment0+index, tex)
	if index == 0 {
		d.color0[d.framebuffer] = tex
	}
	d.check("AttachColor")
}

// AttachDepth implements gpucore.Device.
func (d *Device) AttachDepth(tex gpucore.TextureHandle) { d.attach(glformat.DepthAttachment, tex) }

// AttachStencil implements gpucore.Device.
func (d *Device) AttachStencil(tex gpucore.TextureHandle) { d.attach(glformat.StencilAttachment, tex) }

// AttachDepthStencil implements gpucore.Device.
func (d *Device) AttachDepthStencil(tex gpucore.TextureHandle) {
	d.attach(glformat.DepthStencilAttachment, tex)
}

// DrawBuffers implements gpucore.Device.
func (d *Device) DrawBuffers(n int) {
	bufs := make([]any, max(n, 1))
	bufs[0] = glformat.None
	for i := 0; i < n; i++ {
		bufs[i] = glformat.ColorAttachment0 + i
	}
	d.gl.Call("drawBuffers", js.ValueOf(bufs))
	d.check("DrawBuffers")
}

// CheckFramebuffer implements gpucore.Device.
func (d *Device) CheckFramebuffer() gpucore.FramebufferStatus {
	return glformat.FramebufferStatus(uint32(d.gl.Call("checkFramebufferStatus", glformat.Framebuffer).Int()))
}

func (d *Device) targetHeight() int {
	if d.framebuffer != gpucore.InvalidID {
		if t, ok := d.textures[d.color0[d.framebuffer]]; ok {
			return t.size.Height
		}
	}
	return d.caps.Backbuffer.Height
}

// ReadPixels implements gpucore.Device.
func (d *Device) ReadPixels(r gpucore.Rect, t gpucore.Triple, dst []byte) error {
	format := d.caps.BackbufferFormat
	if d.framebuffer != gpucore.InvalidID {
		info, ok := d.textures[d.color0[d.framebuffer]]
		if !ok {
			return errors.New("webgl: read-back without color attachment")
		}
		format = info.format
	}
	row := r.Width * t.UploadFormat(format).BytesPerPixel()
	n := row * r.Height
	if len(dst) < n {
		return image.ErrDataTooSmall
	}
	buf := js.Global().Get("Uint8Array").New(n)
	y := d.targetHeight() - r.Y - r.Height
	d.gl.Call("readPixels", r.X, y, r.Width, r.Height, t.Pixel, t.Type, buf)
	js.CopyBytesToGo(dst[:n], buf)
	for top, bottom := 0, n-row; top < bottom; top, bottom = top+row, bottom-row {
		for i := 0; i < row; i++ {
			dst[top+i], dst[bottom+i] = dst[bottom+i], dst[top+i]
		}
	}
	return d.Error()
}

func (d *Device) compile(kind int, source string) (js.Value, error) {
	s := d.gl.Call("createShader", kind)
	d.gl.Call("shaderSource", s, source)
	d.gl.Call("compileShader", s)
	if !d.gl.Call("getShaderParameter", s, glCompileStatus).Bool() {
		log := d.gl.Call("getShaderInfoLog", s).String()
		d.gl.Call("deleteShader", s)
		return js.Null(), fmt.Errorf("compile: %s", log)
	}
	return s, nil
}

func (d *Device) link(src gpucore.ShaderSource) (*program, error) {
	vs, err := d.compile(glVertexShader, src.Vertex)
	if err != nil {
		return nil, fmt.Errorf("webgl: program %q vertex %w", src.Label, err)
	}
	defer d.gl.Call("deleteShader", vs)
	fs, err := d.compile(glFragmentShader, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("webgl: program %q fragment %w", src.Label, err)
	}
	defer d.gl.Call("deleteShader", fs)

	obj := d.gl.Call("createProgram")
	d.gl.Call("attachShader", obj, vs)
	d.gl.Call("attachShader", obj, fs)
	d.gl.Call("linkProgram", obj)
	if !d.gl.Call("getProgramParameter", obj, glLinkStatus).Bool() {
		log := d.gl.Call("getProgramInfoLog", obj).String()
		d.gl.Call("deleteProgram", obj)
		return nil, fmt.Errorf("webgl: program %q link: %s", src.Label, log)
	}

	p := &program{obj: obj, slots: make(map[string]glsl.Slot), locs: make(map[string]js.Value)}
	count := d.gl.Call("getProgramParameter", obj, glActiveUniforms).Int()
	for i := 0; i < count; i++ {
		info := d.gl.Call("getActiveUniform", obj, i)
		base, _ := glsl.SplitIndex(info.Get("name").String())
		p.slots[base] = glsl.Slot{Type: uint32(info.Get("type").Int()), Size: int32(info.Get("size").Int())}
	}
	return p, nil
}

// set uploads u to p, which must be in use.
func (d *Device) set(p *program, u glsl.Uniform) bool {
	base, index := glsl.SplitIndex(u.Name)
	slot, ok := p.slots[base]
	if !ok {
		return false
	}
	slot = slot.Element(index)
	loc, ok := p.locs[u.Name]
	if !ok {
		loc = d.gl.Call("getUniformLocation", p.obj, u.Name)
		p.locs[u.Name] = loc
	}
	if loc.IsNull() {
		return false
	}

	if u.Ints != nil {
		count := slot.Count(len(u.Ints))
		if count == 0 {
			return false
		}
		n, _ := glsl.Components(slot.Type)
		fn := map[int]string{1: "uniform1iv", 2: "uniform2iv", 3: "uniform3iv", 4: "uniform4iv"}[n]
		if fn == "" {
			return false
		}
		d.gl.Call(fn, loc, intsToJS(u.Ints[:int(count)*n]))
		return true
	}

	count := slot.Count(len(u.Floats))
	if count == 0 {
		return false
	}
	n, _ := glsl.Components(slot.Type)
	v := floatsToJS(u.Floats[:int(count)*n])
	switch slot.Type {
	case glsl.TypeFloat:
		d.gl.Call("uniform1fv", loc, v)
	case glsl.TypeFloatVec2:
		d.gl.Call("uniform2fv", loc, v)
	case glsl.TypeFloatVec3:
		d.gl.Call("uniform3fv", loc, v)
	case glsl.TypeFloatVec4:
		d.gl.Call("uniform4fv", loc, v)
	case glsl.TypeFloatMat3:
		d.gl.Call("uniformMatrix3fv", loc, false, v)
	case glsl.TypeFloatMat4:
		d.gl.Call("uniformMatrix4fv", loc, false, v)
	default:
		return false
	}
	return true
}

// withBuiltin runs fn with the built-in program in use, restoring the
// current program afterwards. WebGL has no program-addressed uniforms.
func (d *Device) withBuiltin(fn func()) {
	if d.current != d.builtin {
		d.gl.Call("useProgram", d.builtin.obj)
		defer d.gl.Call("useProgram", d.current.obj)
	}
	fn()
}

// CreateProgram implements gpucore.Device.
func (d *Device) CreateProgram(src gpucore.ShaderSource) (gpucore.ProgramHandle, error) {
	if strings.TrimSpace(src.Vertex) == "" || strings.TrimSpace(src.Fragment) == "" {
		return gpucore.InvalidID, fmt.Errorf("webgl: program %q needs vertex and fragment sources", src.Label)
	}
	p, err := d.link(glsl.UserSource(glsl.ES, src))
	if err != nil {
		return gpucore.InvalidID, err
	}
	h := gpucore.ProgramHandle(d.allocID())
	d.programs[h] = p
	return h, nil
}

// Close deletes the built-in program and every user program.
func (d *Device) Close() error {
	for h := range d.programs {
		d.DeleteProgram(h)
	}
	d.gl.Call("useProgram", js.Null())
	if d.builtin != nil {
		d.gl.Call("deleteProgram", d.builtin.obj)
		d.builtin, d.current = nil, nil
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
	d.gl.Call("deleteProgram", p.obj)
	delete(d.programs, h)
}

// UseProgram implements gpucore.Device.
func (d *Device) UseProgram(h gpucore.ProgramHandle) {
	p := d.builtin
	if h != gpucore.InvalidID {
		if p = d.programs[h]; p == nil {
			backend.Logger().Error("webgl: unknown program", "program", h)
			return
		}
	}
	d.gl.Call("useProgram", p.obj)
	d.current = p
}

// SetUniform implements gpucore.Device.
func (d *Device) SetUniform(name string, values []float32) bool {
	return d.set(d.current, glsl.Uniform{Name: name, Floats: values})
}

func (d *Device) enable(capability int, on bool) {
	if on {
		d.gl.Call("enable", capability)
	} else {
		d.gl.Call("disable", capability)
	}
}

// SetBlendEnabled implements gpucore.Device.
func (d *Device) SetBlendEnabled(on bool) { d.enable(glformat.CapBlend, on) }

// SetBlendEnabledIndexed implements gpucore.Device.
func (d *Device) SetBlendEnabledIndexed(index int, on bool) {
	if on {
		d.indexed.Call("enableiOES", glformat.CapBlend, index)
	} else {
		d.indexed.Call("disableiOES", glformat.CapBlend, index)
	}
}

// SetBlendEquation implements gpucore.Device.
func (d *Device) SetBlendEquation(op gputypes.BlendOperation) {
	d.gl.Call("blendEquation", glformat.BlendEquation(op))
}

// SetBlendEquationIndexed implements gpucore.Device.
func (d *Device) SetBlendEquationIndexed(index int, op gputypes.BlendOperation) {
	d.indexed.Call("blendEquationiOES", index, glformat.BlendEquation(op))
}

// SetBlendFunc implements gpucore.Device.
func (d *Device) SetBlendFunc(f gpucore.BlendFunc) {
	d.gl.Call("blendFuncSeparate", glformat.BlendFactor(f.SrcRGB), glformat.BlendFactor(f.DstRGB),
		glformat.BlendFactor(f.SrcAlpha), glformat.BlendFactor(f.DstAlpha))
}

// SetBlendFuncIndexed implements gpucore.Device.
func (d *Device) SetBlendFuncIndexed(index int, f gpucore.BlendFunc) {
	d.indexed.Call("blendFuncSeparateiOES", index, glformat.BlendFactor(f.SrcRGB), glformat.BlendFactor(f.DstRGB),
		glformat.BlendFactor(f.SrcAlpha), glformat.BlendFactor(f.DstAlpha))
}

// SetDepthFunc implements gpucore.Device.
func (d *Device) SetDepthFunc(f gputypes.CompareFunction) {
	d.gl.Call("depthFunc", glformat.CompareFunc(f))
}

// SetDepthMask implements gpucore.Device.
func (d *Device) SetDepthMask(on bool) { d.gl.Call("depthMask", on) }

// SetDepthTest implements gpucore.Device.
func (d *Device) SetDepthTest(on bool) { d.enable(glformat.CapDepthTest, on) }

// SetCullFace implements gpucore.Device.
func (d *Device) SetCullFace(m gputypes.CullMode) { d.gl.Call("cullFace", glformat.CullFace(m)) }

// SetCullEnabled implements gpucore.Device.
func (d *Device) SetCullEnabled(on bool) { d.enable(glformat.CapCullFace, on) }

// SetColorMask implements gpucore.Device.
func (d *Device) SetColorMask(m gputypes.ColorWriteMask) {
	r, g, b, a := glformat.ColorMask(m)
	d.gl.Call("colorMask", r, g, b, a)
}

// SetColorMaskIndexed implements gpucore.Device.
func (d *Device) SetColorMaskIndexed(index int, m gputypes.ColorWriteMask) {
	r, g, b, a := glformat.ColorMask(m)
	d.indexed.Call("colorMaskiOES", index, r, g, b, a)
}

// SetViewport implements gpucore.Device.
func (d *Device) SetViewport(r gpucore.Rect) {
	d.gl.Call("viewport", r.X, d.targetHeight()-r.Y-r.Height, r.Width, r.Height)
}

// SetCombiner implements gpucore.Device.
func (d *Device) SetCombiner(stage int, c gpucore.Combiner) {
	if stage < 0 || stage >= glsl.MaxStages {
		return
	}
	d.withBuiltin(func() { d.set(d.builtin, glsl.StageUniform(stage, c)) })
}

// SetFrameConstants implements gpucore.Device.
func (d *Device) SetFrameConstants(c *gpucore.FrameConstants) {
	d.withBuiltin(func() {
		for _, u := range glsl.Constants(c) {
			d.set(d.builtin, u)
		}
	})
}

// Clear implements gpucore.Device.
func (d *Device) Clear(flags gpucore.ClearFlags, color gputypes.Color, depth float32, stencil int) {
	d.gl.Call("clearColor", color.R, color.G, color.B, color.A)
	d.gl.Call("clearDepth", depth)
	d.gl.Call("clearStencil", stencil)
	d.gl.Call("clear", glformat.ClearMask(flags))
	d.check("Clear")
}

// Draw implements gpucore.Device.
func (d *Device) Draw(prim gputypes.PrimitiveTopology, first, count int) {
	d.gl.Call("drawArrays", glformat.Primitive(prim), first, count)
	d.check("Draw")
}
