package recording

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
	"github.com/gogpu/gputypes"
)

// Errors returned by the recording device.
var (
	ErrUnknownHandle = errors.New("recording: unknown handle")
	ErrNoTexture     = errors.New("recording: no texture bound")
	ErrBadUpload     = errors.New("recording: upload size mismatch")
	ErrNoReadback    = errors.New("recording: nothing to read back")
)

// texture is the emulated native texture.
type texture struct {
	desc gpucore.TextureDesc

	// levels[face][level] holds the uploaded bytes.
	levels  [6][][]byte
	autoMip bool
	wrap    [3]gputypes.AddressMode
	filter  gpucore.SamplerFilter
	aniso   int
	lodBias float32
	uploads int
}

type framebuffer struct {
	colors      []gpucore.TextureHandle
	depth       gpucore.TextureHandle
	stencil     gpucore.TextureHandle
	drawBuffers int
}

type program struct {
	src      gpucore.ShaderSource
	uniforms map[string][]float32
}

// State is a snapshot of the emulated pipeline state.
type State struct {
	ActiveUnit    int
	Framebuffer   gpucore.FramebufferHandle
	Program       gpucore.ProgramHandle
	BlendEnabled  []bool
	BlendEquation []gputypes.BlendOperation
	BlendFunc     []gpucore.BlendFunc
	ColorMask     []gputypes.ColorWriteMask
	DepthFunc     gputypes.CompareFunction
	DepthMask     bool
	DepthTest     bool
	CullFace      gputypes.CullMode
	CullEnabled   bool
	Viewport      gpucore.Rect
	Combiners     []gpucore.Combiner
	Constants     gpucore.FrameConstants
	Draws         int
}

// Device is a gpucore.Device that keeps every resource in memory and counts
// every call by operation name.
//
// It emulates the bind-to-edit model faithfully enough that the render core
// can be tested without a GPU, and it can read back framebuffer contents.
type Device struct {
	caps gpucore.Caps

	calls   map[string]int
	trace   []Call
	tracing bool

	pending []error
	nextID  uint64

	textures     map[gpucore.TextureHandle]*texture
	framebuffers map[gpucore.FramebufferHandle]*framebuffer
	programs     map[gpucore.ProgramHandle]*program

	// bound[unit][kind]
	bound      [][2]gpucore.TextureHandle
	backbuffer []byte
	state      State
}

// New creates a recording device with the given capabilities.
func New(caps gpucore.Caps) *Device {
	if caps.MaxTextureUnits <= 0 {
		caps.MaxTextureUnits = 1
	}
	if caps.MaxColorAttachments <= 0 {
		caps.MaxColorAttachments = 1
	}
	if caps.MaxAnisotropy <= 0 {
		caps.MaxAnisotropy = 1
	}
	if caps.BackbufferFormat == image.FormatUnknown {
		caps.BackbufferFormat = image.FormatA8R8G8B8
	}
	d := &Device{
		caps:         caps,
		calls:        make(map[string]int),
		textures:     make(map[gpucore.TextureHandle]*texture),
		framebuffers: make(map[gpucore.FramebufferHandle]*framebuffer),
		programs:     make(map[gpucore.ProgramHandle]*program),
		bound:        make([][2]gpucore.TextureHandle, caps.MaxTextureUnits),
		backbuffer:   make([]byte, caps.BackbufferFormat.DataSize(caps.Backbuffer.Width, caps.Backbuffer.Height)),
	}
	n := caps.MaxColorAttachments
	d.state = State{
		BlendEnabled:  make([]bool, n),
		BlendEquation: make([]gputypes.BlendOperation, n),
		BlendFunc:     make([]gpucore.BlendFunc, n),
		ColorMask:     make([]gputypes.ColorWriteMask, n),
		DepthFunc:     gputypes.CompareFunctionLess,
		DepthMask:     true,
		CullFace:      gputypes.CullModeBack,
		Viewport:      gpucore.Rect{Width: caps.Backbuffer.Width, Height: caps.Backbuffer.Height},
		Combiners:     make([]gpucore.Combiner, caps.MaxTextureUnits),
	}
	for i := 0; i < n; i++ {
		d.state.BlendEquation[i] = gputypes.BlendOperationAdd
		d.state.BlendFunc[i] = gpucore.NewBlendFunc(gputypes.BlendFactorOne, gputypes.BlendFactorZero)
		d.state.ColorMask[i] = gputypes.ColorWriteMaskAll
	}
	return d
}

// NewDefault creates a recording device with DefaultCaps.
func NewDefault() *Device {
	return New(DefaultCaps())
}

func (d *Device) record(op string, args ...any) {
	d.calls[op]++
	if d.tracing {
		d.trace = append(d.trace, Call{Seq: len(d.trace), Op: op, Args: fmt.Sprint(args...)})
	}
}

func (d *Device) fail(err error) {
	d.pending = append(d.pending, err)
}

func (d *Device) allocID() uint64 {
	d.nextID++
	return d.nextID
}

// Type implements gpucore.Device.
func (d *Device) Type() gpucore.BackendType { return gpucore.BackendRecording }

// Caps implements gpucore.Device.
func (d *Device) Caps() gpucore.Caps { return d.caps }

// FormatTriple implements gpucore.Device. Formats are stored as-is.
func (d *Device) FormatTriple(f image.Format) (gpucore.Triple, bool) {
	c := d.caps
	ok := true
	switch f {
	case image.FormatA1R5G5B5, image.FormatR5G6B5, image.FormatR8G8B8, image.FormatA8R8G8B8:
	case image.FormatR8, image.FormatR8G8:
		ok = c.RGTextures
	case image.FormatR16F, image.FormatR32F, image.FormatG16R16F, image.FormatG32R32F:
		ok = c.FloatTextures && c.RGTextures
	case image.FormatA16B16G16R16F, image.FormatA32B32G32R32F:
		ok = c.FloatTextures
	case image.FormatDXT1, image.FormatDXT3, image.FormatDXT5:
		ok = c.S3TC
	case image.FormatD16, image.FormatD24, image.FormatD32:
		ok = c.DepthTextures
	case image.FormatD24S8:
		ok = c.DepthTextures && c.PackedDepthStencil
	default:
		ok = false
	}
	if !ok {
		return gpucore.Triple{}, false
	}
	return gpucore.Triple{Internal: uint32(f), Target: f}, true
}

// Error implements gpucore.Device.
func (d *Device) Error() error {
	d.record("Error")
	if len(d.pending) == 0 {
		return nil
	}
	err := d.pending[0]
	d.pending = d.pending[1:]
	return err
}

// InjectError queues err to be returned by the next Error call.
func (d *Device) InjectError(err error) {
	d.pending = append(d.pending, err)
}

// CreateTexture implements gpucore.Device.
func (d *Device) CreateTexture(desc gpucore.TextureDesc) (gpucore.TextureHandle, error) {
	d.record("CreateTexture", desc.Label, desc.Size)
	if desc.Size.Empty() {
		return gpucore.InvalidID, fmt.Errorf("recording: create texture %q: %w", desc.Label, image.ErrInvalidDimensions)
	}
	h := gpucore.TextureHandle(d.allocID())
	t := &texture{desc: desc, aniso: 1}
	t.wrap = [3]gputypes.AddressMode{gputypes.AddressModeRepeat, gputypes.AddressModeRepeat, gputypes.AddressModeRepeat}
	t.filter = gpucore.SamplerFilter{Min: gputypes.FilterModeNearest, Mag: gputypes.FilterModeLinear, Mip: gputypes.MipmapFilterModeLinear}
	d.textures[h] = t
	return h, nil
}

// DeleteTexture implements gpucore.Device. Deleting a bound texture unbinds it.
func (d *Device) DeleteTexture(h gpucore.TextureHandle) {
	d.record("DeleteTexture", h)
	if _, ok := d.textures[h]; !ok {
		d.fail(fmt.Errorf("DeleteTexture(%d): %w", h, ErrUnknownHandle))
		return
	}
	delete(d.textures, h)
	for i := range d.bound {
		for k := range d.bound[i] {
			if d.bound[i][k] == h {
				d.bound[i][k] = gpucore.InvalidID
			}
		}
	}
}

// ActiveTexture implements gpucore.Device.
func (d *Device) ActiveTexture(unit int) {
	d.record("ActiveTexture", unit)
	if unit < 0 || unit >= len(d.bound) {
		d.fail(fmt.Errorf("ActiveTexture(%d): unit out of range", unit))
		return
	}
	d.state.ActiveUnit = unit
}

// BindTexture implements gpucore.Device.
func (d *Device) BindTexture(kind gpucore.TextureKind, h gpucore.TextureHandle) {
	d.record("BindTexture", kind, h)
	if h != gpucore.InvalidID {
		if _, ok := d.textures[h]; !ok {
			d.fail(fmt.Errorf("BindTexture(%d): %w", h, ErrUnknownHandle))
			return
		}
	}
	d.bound[d.state.ActiveUnit][kind] = h
}

func (d *Device) boundTexture(kind gpucore.TextureKind) *texture {
	return d.textures[d.bound[d.state.ActiveUnit][kind]]
}

// UploadTexture implements gpucore.Device.
func (d *Device) UploadTexture(kind gpucore.TextureKind, face, level int, size image.Size, t gpucore.Triple, data []byte) error {
	d.record("UploadTexture", kind, face, level, size)
	return d.upload(kind, face, level, size, t.UploadFormat(t.Target), data)
}

// UploadCompressedTexture implements gpucore.Device.
func (d *Device) UploadCompressedTexture(kind gpucore.TextureKind, face, level int, size image.Size, t gpucore.Triple, data []byte) error {
	d.record("UploadCompressedTexture", kind, face, level, size)
	return d.upload(kind, face, level, size, t.Target, data)
}

func (d *Device) upload(kind gpucore.TextureKind, face, level int, size image.Size, f image.Format, data []byte) error {
	tex := d.boundTexture(kind)
	if tex == nil {
		d.fail(ErrNoTexture)
		return ErrNoTexture
	}
	if f == image.FormatUnknown {
		f = tex.desc.Format
	}
	if want := f.DataSize(size.Width, size.Height); data != nil && len(data) < want {
		err := fmt.Errorf("%w: %d bytes for %v %v", ErrBadUpload, len(data), size, f)
		d.fail(err)
		return err
	}
	levels := tex.levels[face]
	for len(levels) <= level {
		levels = append(levels, nil)
	}
	buf := make([]byte, f.DataSize(size.Width, size.Height))
	copy(buf, data)
	levels[level] = buf
	tex.levels[face] = levels
	tex.uploads++
	if level == 0 && tex.autoMip {
		d.generate(tex)
	}
	return nil
}

// GenerateMipmaps implements gpucore.Device.
func (d *Device) GenerateMipmaps(kind gpucore.TextureKind) {
	d.record("GenerateMipmaps", kind)
	tex := d.boundTexture(kind)
	if tex == nil {
		d.fail(ErrNoTexture)
		return
	}
	d.generate(tex)
}

func (d *Device) generate(tex *texture) {
	if tex.desc.Format.IsCompressed() {
		return
	}
	for face := 0; face < tex.desc.Kind.Faces(); face++ {
		if len(tex.levels[face]) == 0 || tex.levels[face][0] == nil {
			continue
		}
		base, err := image.FromRaw(tex.levels[face][0], tex.desc.Size.Width, tex.desc.Size.Height, tex.desc.Format, 0)
		if err != nil {
			continue
		}
		chain := image.GenerateMipChain(base)
		levels := [][]byte{tex.levels[face][0]}
		for i := 1; i < chain.NumLevels(); i++ {
			levels = append(levels, chain.Level(i).Data())
		}
		tex.levels[face] = levels
	}
}

// SetAutoMipmap implements gpucore.Device.
func (d *Device) SetAutoMipmap(kind gpucore.TextureKind, on bool) {
	d.record("SetAutoMipmap", kind, on)
	if tex := d.boundTexture(kind); tex != nil {
		tex.autoMip = on
	}
}

// SetTextureWrap implements gpucore.Device.
func (d *Device) SetTextureWrap(kind gpucore.TextureKind, u, v, w gputypes.AddressMode) {
	d.record("SetTextureWrap", kind, u, v, w)
	if tex := d.boundTexture(kind); tex != nil {
		tex.wrap = [3]gputypes.AddressMode{u, v, w}
	}
}

// SetTextureFilter implements gpucore.Device.
func (d *Device) SetTextureFilter(kind gpucore.TextureKind, f gpucore.SamplerFilter) {
	d.record("SetTextureFilter", kind, f)
	if tex := d.boundTexture(kind); tex != nil {
		tex.filter = f
	}
}

// SetTextureAnisotropy implements gpucore.Device.
func (d *Device) SetTextureAnisotropy(kind gpucore.TextureKind, level int) {
	d.record("SetTextureAnisotropy", kind, level)
	if tex := d.boundTexture(kind); tex != nil {
		tex.aniso = level
	}
}

// SetTextureLODBias implements gpucore.Device.
func (d *Device) SetTextureLODBias(kind gpucore.TextureKind, bias float32) {
	d.record("SetTextureLODBias", kind, bias)
	if tex := d.boundTexture(kind); tex != nil {
		tex.lodBias = bias
	}
}

// CreateFramebuffer implements gpucore.Device.
func (d *Device) CreateFramebuffer() (gpucore.FramebufferHandle, error) {
	d.record("CreateFramebuffer")
	h := gpucore.FramebufferHandle(d.allocID())
	d.framebuffers[h] = &framebuffer{colors: make([]gpucore.TextureHandle, d.caps.MaxColorAttachments), drawBuffers: 1}
	return h, nil
}

// DeleteFramebuffer implements gpucore.Device. Deleting the bound
// framebuffer rebinds the backbuffer.
func (d *Device) DeleteFramebuffer(h gpucore.FramebufferHandle) {
	d.record("DeleteFramebuffer", h)
	if _, ok := d.framebuffers[h]; !ok {
		d.fail(fmt.Errorf("DeleteFramebuffer(%d): %w", h, ErrUnknownHandle))
		return
	}
	delete(d.framebuffers, h)
	if d.state.Framebuffer == h {
		d.state.Framebuffer = gpucore.InvalidID
	}
}

// BindFramebuffer implements gpucore.Device.
func (d *Device) BindFramebuffer(h gpucore.FramebufferHandle) {
	d.record("BindFramebuffer", h)
	if h != gpucore.InvalidID {
		if _, ok := d.framebuffers[h]; !ok {
			d.fail(fmt.Errorf("BindFramebuffer(%d): %w", h, ErrUnknownHandle))
			return
		}
	}
	d.state.Framebuffer = h
}

func (d *Device) boundFramebuffer(op string) *framebuffer {
	fb := d.framebuffers[d.state.Framebuffer]
	if fb == nil {
		d.fail(fmt.Errorf("%s: no framebuffer object bound", op))
	}
	return fb
}

// AttachColor implements gpucore.Device.
func (d *Device) AttachColor(index int, tex gpucore.TextureHandle) {
	d.record("AttachColor", index, tex)
	if fb := d.boundFramebuffer("AttachColor"); fb != nil && index < len(fb.colors) {
		fb.colors[index] = tex
	}
}

// AttachDepth implements gpucore.Device.
func (d *Device) AttachDepth(tex gpucore.TextureHandle) {
	d.record("AttachDepth", tex)
	if fb := d.boundFramebuffer("AttachDepth"); fb != nil {
		fb.depth = tex
	}
}

// AttachStencil implements gpucore.Device.
func (d *Device) AttachStencil(tex gpucore.TextureHandle) {
	d.record("AttachStencil", tex)
	if fb := d.boundFramebuffer("AttachStencil"); fb != nil {
		fb.stencil = tex
	}
}

// AttachDepthStencil implements gpucore.Device.
func (d *Device) AttachDepthStencil(tex gpucore.TextureHandle) {
	d.record("AttachDepthStencil", tex)
	if fb := d.boundFramebuffer("AttachDepthStencil"); fb != nil {
		fb.depth = tex
		fb.stencil = tex
	}
}

// DrawBuffers implements gpucore.Device.
func (d *Device) DrawBuffers(n int) {
	d.record("DrawBuffers", n)
	if fb := d.boundFramebuffer("DrawBuffers"); fb != nil {
		fb.drawBuffers = n
	}
}

// CheckFramebuffer implements gpucore.Device.
func (d *Device) CheckFramebuffer() gpucore.FramebufferStatus {
	d.record("CheckFramebuffer")
	fb := d.framebuffers[d.state.Framebuffer]
	if fb == nil {
		return gpucore.FramebufferComplete
	}

	var size image.Size
	seen := false
	check := func(h gpucore.TextureHandle, wantDepth bool) gpucore.FramebufferStatus {
		if h == gpucore.InvalidID {
			return gpucore.FramebufferComplete
		}
		t, ok := d.textures[h]
		if !ok {
			return gpucore.FramebufferIncompleteAttachment
		}
		if t.desc.Format.IsDepth() != wantDepth {
			return gpucore.FramebufferIncompleteAttachment
		}
		if seen && t.desc.Size != size {
			return gpucore.FramebufferIncompleteDimensions
		}
		size, seen = t.desc.Size, true
		return gpucore.FramebufferComplete
	}
	for _, c := range fb.colors {
		if s := check(c, false); s != gpucore.FramebufferComplete {
			return s
		}
	}
	if s := check(fb.depth, true); s != gpucore.FramebufferComplete {
		return s
	}
	if !seen {
		return gpucore.FramebufferMissingAttachment
	}
	return gpucore.FramebufferComplete
}

// ReadPixels implements gpucore.Device.
func (d *Device) ReadPixels(r gpucore.Rect, t gpucore.Triple, dst []byte) error {
	d.record("ReadPixels", r)
	if !d.caps.ReadPixels {
		return ErrNoReadback
	}

	src, size, format := d.backbuffer, d.caps.Backbuffer, d.caps.BackbufferFormat
	if fb := d.framebuffers[d.state.Framebuffer]; fb != nil {
		tex := d.textures[fb.colors[0]]
		if tex == nil || len(tex.levels[0]) == 0 {
			return ErrNoReadback
		}
		src, size, format = tex.levels[0][0], tex.desc.Size, tex.desc.Format
	}
	if r.X < 0 || r.Y < 0 || r.X+r.Width > size.Width || r.Y+r.Height > size.Height {
		return fmt.Errorf("recording: read %v outside %v", r, size)
	}
	bpp := format.BytesPerPixel()
	row := r.Width * bpp
	if len(dst) < row*r.Height {
		return image.ErrDataTooSmall
	}
	pitch := format.Pitch(size.Width)
	for y := 0; y < r.Height; y++ {
		s := (r.Y+y)*pitch + r.X*bpp
		copy(dst[y*row:(y+1)*row], src[s:s+row])
	}
	return nil
}

// CreateProgram implements gpucore.Device.
func (d *Device) CreateProgram(src gpucore.ShaderSource) (gpucore.ProgramHandle, error) {
	d.record("CreateProgram", src.Label)
	if src.Vertex == "" && src.Fragment == "" && src.WGSL == "" {
		return gpucore.InvalidID, errors.New("recording: empty shader source")
	}
	h := gpucore.ProgramHandle(d.allocID())
	d.programs[h] = &program{src: src, uniforms: make(map[string][]float32)}
	return h, nil
}

// DeleteProgram implements gpucore.Device.
func (d *Device) DeleteProgram(h gpucore.ProgramHandle) {
	d.record("DeleteProgram", h)
	delete(d.programs, h)
	if d.state.Program == h {
		d.state.Program = gpucore.InvalidID
	}
}

// UseProgram implements gpucore.Device.
func (d *Device) UseProgram(h gpucore.ProgramHandle) {
	d.record("UseProgram", h)
	d.state.Program = h
}

// SetUniform implements gpucore.Device.
func (d *Device) SetUniform(name string, values []float32) bool {
	d.record("SetUniform", name)
	p := d.programs[d.state.Program]
	if p == nil {
		return false
	}
	p.uniforms[name] = append([]float32(nil), values...)
	return true
}

// SetBlendEnabled implements gpucore.Device.
func (d *Device) SetBlendEnabled(on bool) {
	d.record("SetBlendEnabled", on)
	for i := range d.state.BlendEnabled {
		d.state.BlendEnabled[i] = on
	}
}

// SetBlendEnabledIndexed implements gpucore.Device.
func (d *Device) SetBlendEnabledIndexed(index int, on bool) {
	d.record("SetBlendEnabledIndexed", index, on)
	if index < len(d.state.BlendEnabled) {
		d.state.BlendEnabled[index] = on
	}
}

// SetBlendEquation implements gpucore.Device.
func (d *Device) SetBlendEquation(op gputypes.BlendOperation) {
	d.record("SetBlendEquation", op)
	for i := range d.state.BlendEquation {
		d.state.BlendEquation[i] = op
	}
}

// SetBlendEquationIndexed implements gpucore.Device.
func (d *Device) SetBlendEquationIndexed(index int, op gputypes.BlendOperation) {
	d.record("SetBlendEquationIndexed", index, op)
	if index < len(d.state.BlendEquation) {
		d.state.BlendEquation[index] = op
	}
}

// SetBlendFunc implements gpucore.Device.
func (d *Device) SetBlendFunc(f gpucore.BlendFunc) {
	d.record("SetBlendFunc", f)
	for i := range d.state.BlendFunc {
		d.state.BlendFunc[i] = f
	}
}

// SetBlendFuncIndexed implements gpucore.Device.
func (d *Device) SetBlendFuncIndexed(index int, f gpucore.BlendFunc) {
	d.record("SetBlendFuncIndexed", index, f)
	if index < len(d.state.BlendFunc) {
		d.state.BlendFunc[index] = f
	}
}

// SetDepthFunc implements gpucore.Device.
func (d *Device) SetDepthFunc(f gputypes.CompareFunction) {
	d.record("SetDepthFunc", f)
	d.state.DepthFunc = f
}

// SetDepthMask implements gpucore.Device.
func (d *Device) SetDepthMask(on bool) {
	d.record("SetDepthMask", on)
	d.state.DepthMask = on
}

// SetDepthTest implements gpucore.Device.
func (d *Device) SetDepthTest(on bool) {
	d.record("SetDepthTest", on)
	d.state.DepthTest = on
}

// SetCullFace implements gpucore.Device.
func (d *Device) SetCullFace(m gputypes.CullMode) {
	d.record("SetCullFace", m)
	d.state.CullFace = m
}

// SetCullEnabled implements gpucore.Device.
func (d *Device) SetCullEnabled(on bool) {
	d.record("SetCullEnabled", on)
	d.state.CullEnabled = on
}

// SetColorMask implements gpucore.Device.
func (d *Device) SetColorMask(m gputypes.ColorWriteMask) {
	d.record("SetColorMask", m)
	for i := range d.state.ColorMask {
		d.state.ColorMask[i] = m
	}
}

// SetColorMaskIndexed implements gpucore.Device.
func (d *Device) SetColorMaskIndexed(index int, m gputypes.ColorWriteMask) {
	d.record("SetColorMaskIndexed", index, m)
	if index < len(d.state.ColorMask) {
		d.state.ColorMask[index] = m
	}
}

// SetViewport implements gpucore.Device.
func (d *Device) SetViewport(r gpucore.Rect) {
	d.record("SetViewport", r)
	d.state.Viewport = r
}

// SetCombiner implements gpucore.Device.
func (d *Device) SetCombiner(stage int, c gpucore.Combiner) {
	d.record("SetCombiner", stage, c)
	if stage < len(d.state.Combiners) {
		d.state.Combiners[stage] = c
	}
}

// SetFrameConstants implements gpucore.Device.
func (d *Device) SetFrameConstants(c *gpucore.FrameConstants) {
	d.record("SetFrameConstants")
	d.state.Constants = *c
	d.state.Constants.Lights = append([]gpucore.Light(nil), c.Lights...)
}

// Clear implements gpucore.Device. Color clears fill A8R8G8B8 targets.
func (d *Device) Clear(flags gpucore.ClearFlags, color gputypes.Color, depth float32, stencil int) {
	d.record("Clear", flags)
	if flags&gpucore.ClearColor == 0 {
		return
	}
	px := []byte{unit8(color.B), unit8(color.G), unit8(color.R), unit8(color.A)}
	fill := func(data []byte, f image.Format) {
		if f != image.FormatA8R8G8B8 {
			clear(data)
			return
		}
		for i := 0; i+4 <= len(data); i += 4 {
			copy(data[i:], px)
		}
	}

	fb := d.framebuffers[d.state.Framebuffer]
	if fb == nil {
		fill(d.backbuffer, d.caps.BackbufferFormat)
		return
	}
	for i, h := range fb.colors {
		if i >= fb.drawBuffers {
			break
		}
		if t := d.textures[h]; t != nil {
			if len(t.levels[0]) == 0 {
				t.levels[0] = [][]byte{make([]byte, t.desc.Format.DataSize(t.desc.Size.Width, t.desc.Size.Height))}
			}
			fill(t.levels[0][0], t.desc.Format)
		}
	}
}

func unit8(v float64) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return byte(v*255 + 0.5)
	}
}

// Draw implements gpucore.Device.
func (d *Device) Draw(prim gputypes.PrimitiveTopology, first, count int) {
	d.record("Draw", prim, first, count)
	d.state.Draws++
}

// Inspection helpers used by tests and tooling.

// Calls returns how many times op was called.
func (d *Device) Calls(op string) int { return d.calls[op] }

// TotalCalls returns the number of native calls of any kind.
func (d *Device) TotalCalls() int {
	n := 0
	for _, c := range d.calls {
		n += c
	}
	return n
}

// CallCounts returns a copy of the per-operation counters, sorted by name
// when iterated with Ops.
func (d *Device) CallCounts() map[string]int {
	out := make(map[string]int, len(d.calls))
	for k, v := range d.calls {
		out[k] = v
	}
	return out
}

// Ops returns the names of all operations called so far, sorted.
func (d *Device) Ops() []string {
	ops := make([]string, 0, len(d.calls))
	for k := range d.calls {
		ops = append(ops, k)
	}
	sort.Strings(ops)
	return ops
}

// ResetCalls clears the counters and the trace.
func (d *Device) ResetCalls() {
	clear(d.calls)
	d.trace = d.trace[:0]
}

// State returns a snapshot of the emulated pipeline state.
func (d *Device) State() State {
	s := d.state
	s.BlendEnabled = append([]bool(nil), s.BlendEnabled...)
	s.BlendEquation = append([]gputypes.BlendOperation(nil), s.BlendEquation...)
	s.BlendFunc = append([]gpucore.BlendFunc(nil), s.BlendFunc...)
	s.ColorMask = append([]gputypes.ColorWriteMask(nil), s.ColorMask...)
	s.Combiners = append([]gpucore.Combiner(nil), s.Combiners...)
	return s
}

// Bound returns the texture bound to unit for kind.
func (d *Device) Bound(unit int, kind gpucore.TextureKind) gpucore.TextureHandle {
	if unit < 0 || unit >= len(d.bound) {
		return gpucore.InvalidID
	}
	return d.bound[unit][kind]
}

// LiveTextures returns the number of textures not yet deleted.
func (d *Device) LiveTextures() int { return len(d.textures) }

// LiveFramebuffers returns the number of framebuffers not yet deleted.
func (d *Device) LiveFramebuffers() int { return len(d.framebuffers) }

// HasTexture reports whether h names a live texture.
func (d *Device) HasTexture(h gpucore.TextureHandle) bool {
	_, ok := d.textures[h]
	return ok
}

// TextureLevel returns the stored bytes of one level of one face.
func (d *Device) TextureLevel(h gpucore.TextureHandle, face, level int) []byte {
	t := d.textures[h]
	if t == nil || level >= len(t.levels[face]) {
		return nil
	}
	return t.levels[face][level]
}

// TextureLevels returns how many levels of face 0 hold data.
func (d *Device) TextureLevels(h gpucore.TextureHandle) int {
	t := d.textures[h]
	if t == nil {
		return 0
	}
	return len(t.levels[0])
}

// Uploads returns how many level uploads the texture received.
func (d *Device) Uploads(h gpucore.TextureHandle) int {
	if t := d.textures[h]; t != nil {
		return t.uploads
	}
	return 0
}

// Attachments returns the attachments of a framebuffer.
func (d *Device) Attachments(h gpucore.FramebufferHandle) (colors []gpucore.TextureHandle, depth, stencil gpucore.TextureHandle, drawBuffers int) {
	fb := d.framebuffers[h]
	if fb == nil {
		return nil, 0, 0, 0
	}
	return append([]gpucore.TextureHandle(nil), fb.colors...), fb.depth, fb.stencil, fb.drawBuffers
}

// Uniform returns the last value written to a uniform of a program.
func (d *Device) Uniform(h gpucore.ProgramHandle, name string) []float32 {
	if p := d.programs[h]; p != nil {
		return p.uniforms[name]
	}
	return nil
}

var _ gpucore.Device = (*Device)(nil)
