//go:build !nogpu && !(js && wasm)

package wgpu

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/g3d/backend"
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

const (
	maxColorAttachments = 8
	maxTextureUnits     = 16
)

// ErrReadBack is returned by ReadPixels.
var ErrReadBack = errors.New("wgpu: frame read-back not available")

type texture struct {
	tex hal.Texture
	// view samples every level and face; target is level 0, layer 0 for
	// render passes. target is nil unless the texture can be attached.
	view   hal.TextureView
	target hal.TextureView

	kind    gpucore.TextureKind
	size    image.Size
	format  image.Format
	native  gputypes.TextureFormat
	levels  int
	sampler hal.SamplerDescriptor
}

type framebuffer struct {
	colors  [maxColorAttachments]gpucore.TextureHandle
	depth   gpucore.TextureHandle
	stencil gpucore.TextureHandle
	draw    int
}

type program struct {
	label  string
	module hal.ShaderModule
}

// Options configure a Device.
type Options struct {
	// Backbuffer is the host surface size reported in Caps.
	Backbuffer image.Size
	// S3TC reports that the device was opened with BC texture compression.
	S3TC  bool
	Debug bool
}

// Device drives a HAL device and queue owned by the host.
type Device struct {
	device hal.Device
	queue  hal.Queue
	caps   gpucore.Caps
	debug  bool

	nextID  uint64
	pending error

	textures     map[gpucore.TextureHandle]*texture
	framebuffers map[gpucore.FramebufferHandle]*framebuffer
	programs     map[gpucore.ProgramHandle]*program
	pipelines    map[pipelineKey]hal.RenderPipeline
	layout       hal.PipelineLayout

	unit        int
	units       [maxTextureUnits][2]gpucore.TextureHandle
	framebuffer gpucore.FramebufferHandle
	program     gpucore.ProgramHandle
	state       drawState
	viewport    gpucore.Rect
}

func init() {
	backend.Register(backend.WGPU, func(cfg backend.Config) (gpucore.Device, error) {
		if cfg.Provider == nil {
			return nil, backend.ErrNoContext
		}
		device, queue, err := halObjects(cfg.Provider)
		if err != nil {
			return nil, err
		}
		return New(device, queue, Options{Backbuffer: cfg.Backbuffer, Debug: cfg.Debug})
	})
}

// halObjects unwraps the HAL device and queue from a provider.
func halObjects(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, fmt.Errorf("%w: provider does not expose HAL types", backend.ErrNoContext)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", backend.ErrNoContext)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", backend.ErrNoContext)
	}
	return device, queue, nil
}

// New wraps a HAL device. The device and queue stay owned by the caller.
func New(device hal.Device, queue hal.Queue, opts Options) (*Device, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("wgpu: device and queue are required: %w", backend.ErrNoContext)
	}
	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{Label: "g3d_layout"})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}

	limits := gputypes.DefaultLimits()
	d := &Device{
		device: device,
		queue:  queue,
		debug:  opts.Debug,
		caps: gpucore.Caps{
			MaxTextureSize:      int(limits.MaxTextureDimension2D),
			MaxTextureUnits:     maxTextureUnits,
			MaxColorAttachments: maxColorAttachments,
			NPOT:                true,
			MipmapMode:          gpucore.MipmapNone,
			IndependentBlend:    true,
			IndexedColorMask:    true,
			MaxAnisotropy:       16,
			MaxLockLevel:        15,
			PackedDepthStencil:  true,
			FloatTextures:       true,
			RGTextures:          true,
			S3TC:                opts.S3TC,
			DepthTextures:       true,
			Backbuffer:          opts.Backbuffer,
			BackbufferFormat:    image.FormatA8R8G8B8,
		},
		textures:     make(map[gpucore.TextureHandle]*texture),
		framebuffers: make(map[gpucore.FramebufferHandle]*framebuffer),
		programs:     make(map[gpucore.ProgramHandle]*program),
		pipelines:    make(map[pipelineKey]hal.RenderPipeline),
		layout:       layout,
		state:        defaultDrawState(),
	}
	backend.Logger().Info("wgpu: device opened", "maxTextureSize", d.caps.MaxTextureSize)
	return d, nil
}

// Close destroys every object the device created. The HAL device itself
// is left to its owner.
func (d *Device) Close() error {
	for k, p := range d.pipelines {
		d.device.DestroyRenderPipeline(p)
		delete(d.pipelines, k)
	}
	for h := range d.programs {
		d.DeleteProgram(h)
	}
	for h := range d.textures {
		d.DeleteTexture(h)
	}
	if d.layout != nil {
		d.device.DestroyPipelineLayout(d.layout)
		d.layout = nil
	}
	return nil
}

func (d *Device) allocID() uint64 {
	d.nextID++
	return d.nextID
}

// fail records err as the pending error.
func (d *Device) fail(err error) {
	if d.debug {
		backend.Logger().Error("wgpu: call failed", "err", err)
	}
	if d.pending == nil {
		d.pending = err
	}
}

// Type implements gpucore.Device.
func (d *Device) Type() gpucore.BackendType { return gpucore.BackendWGPU }

// Caps implements gpucore.Device.
func (d *Device) Caps() gpucore.Caps { return d.caps }

// FormatTriple implements gpucore.Device.
func (d *Device) FormatTriple(f image.Format) (gpucore.Triple, bool) {
	return formatTriple(f, d.caps)
}

// Error implements gpucore.Device.
func (d *Device) Error() error {
	err := d.pending
	d.pending = nil
	return err
}

// CreateTexture implements gpucore.Device.
func (d *Device) CreateTexture(desc gpucore.TextureDesc) (gpucore.TextureHandle, error) {
	if desc.Size.Empty() {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create texture %q: %w", desc.Label, image.ErrInvalidDimensions)
	}
	native := desc.Triple.Native
	if native == gputypes.TextureFormatUndefined {
		t, ok := formatTriple(desc.Format, d.caps)
		if !ok {
			return gpucore.InvalidID, fmt.Errorf("wgpu: create texture %q: format %v not supported", desc.Label, desc.Format)
		}
		native = t.Native
	}

	attachable := desc.RenderTarget || desc.Format.IsDepth()
	usage := gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding
	if attachable {
		usage |= gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc
	}
	levels := max(desc.MipLevels, 1)
	faces := desc.Kind.Faces()

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              uint32(desc.Size.Width),
			Height:             uint32(desc.Size.Height),
			DepthOrArrayLayers: uint32(faces),
		},
		MipLevelCount: uint32(levels),
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        native,
		Usage:         usage,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create texture %q: %w", desc.Label, err)
	}

	t := &texture{
		tex:    tex,
		kind:   desc.Kind,
		size:   desc.Size,
		format: desc.Format,
		native: native,
		levels: levels,
		sampler: hal.SamplerDescriptor{
			Label:        desc.Label,
			AddressModeU: gputypes.AddressModeRepeat,
			AddressModeV: gputypes.AddressModeRepeat,
			AddressModeW: gputypes.AddressModeRepeat,
			MagFilter:    gputypes.FilterModeLinear,
			MinFilter:    gputypes.FilterModeLinear,
			MipmapFilter: gputypes.FilterModeNearest,
			LodMaxClamp:  float32(levels - 1),
			Anisotropy:   1,
		},
	}
	dim := gputypes.TextureViewDimension2D
	if desc.Kind == gpucore.TextureKindCube {
		dim = gputypes.TextureViewDimensionCube
	}
	if t.view, err = d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:     desc.Label,
		Dimension: dim,
		Aspect:    gputypes.TextureAspectAll,
	}); err != nil {
		d.device.DestroyTexture(tex)
		return gpucore.InvalidID, fmt.Errorf("wgpu: create view of %q: %w", desc.Label, err)
	}
	if attachable {
		if t.target, err = d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
			Label:           desc.Label + "_target",
			Dimension:       gputypes.TextureViewDimension2D,
			Aspect:          gputypes.TextureAspectAll,
			MipLevelCount:   1,
			ArrayLayerCount: 1,
		}); err != nil {
			d.device.DestroyTextureView(t.view)
			d.device.DestroyTexture(tex)
			return gpucore.InvalidID, fmt.Errorf("wgpu: create target view of %q: %w", desc.Label, err)
		}
	}

	h := gpucore.TextureHandle(d.allocID())
	d.textures[h] = t
	return h, nil
}

// DeleteTexture implements gpucore.Device.
func (d *Device) DeleteTexture(h gpucore.TextureHandle) {
	t, ok := d.textures[h]
	if !ok {
		return
	}
	if t.target != nil {
		d.device.DestroyTextureView(t.target)
	}
	d.device.DestroyTextureView(t.view)
	d.device.DestroyTexture(t.tex)
	delete(d.textures, h)
	for i := range d.units {
		for k := range d.units[i] {
			if d.units[i][k] == h {
				d.units[i][k] = gpucore.InvalidID
			}
		}
	}
}

// ActiveTexture implements gpucore.Device.
func (d *Device) ActiveTexture(unit int) {
	if unit < 0 || unit >= maxTextureUnits {
		d.fail(fmt.Errorf("wgpu: texture unit %d out of range", unit))
		return
	}
	d.unit = unit
}

// BindTexture implements gpucore.Device.
func (d *Device) BindTexture(kind gpucore.TextureKind, h gpucore.TextureHandle) {
	d.units[d.unit][kind] = h
}

func (d *Device) bound(kind gpucore.TextureKind) (*texture, error) {
	t, ok := d.textures[d.units[d.unit][kind]]
	if !ok {
		return nil, fmt.Errorf("wgpu: no %v texture bound to unit %d", kind, d.unit)
	}
	return t, nil
}

func (d *Device) write(kind gpucore.TextureKind, face, level int, size image.Size, format image.Format, data []byte) error {
	t, err := d.bound(kind)
	if err != nil {
		return err
	}
	if level >= t.levels || face >= kind.Faces() {
		return fmt.Errorf("wgpu: level %d face %d outside texture", level, face)
	}
	if len(data) == 0 {
		// Storage is allocated at creation; nothing to write.
		return nil
	}
	rows := size.Height
	if format.IsCompressed() {
		rows = (size.Height + 3) / 4
	}
	return d.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: uint32(level),
			Origin:   hal.Origin3D{Z: uint32(face)},
			Aspect:   gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{BytesPerRow: uint32(format.Pitch(size.Width)), RowsPerImage: uint32(rows)},
		&hal.Extent3D{Width: uint32(size.Width), Height: uint32(size.Height), DepthOrArrayLayers: 1},
	)
}

// UploadTexture implements gpucore.Device.
func (d *Device) UploadTexture(kind gpucore.TextureKind, face, level int, size image.Size, t gpucore.Triple, data []byte) error {
	tex, err := d.bound(kind)
	if err != nil {
		return err
	}
	return d.write(kind, face, level, size, t.UploadFormat(tex.format), data)
}

// UploadCompressedTexture implements gpucore.Device.
func (d *Device) UploadCompressedTexture(kind gpucore.TextureKind, face, level int, size image.Size, t gpucore.Triple, data []byte) error {
	tex, err := d.bound(kind)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New("wgpu: compressed upload without data")
	}
	return d.write(kind, face, level, size, tex.format, data)
}

// GenerateMipmaps implements gpucore.Device. Caps reports MipmapNone, so
// the render core never asks.
func (d *Device) GenerateMipmaps(gpucore.TextureKind) {}

// SetAutoMipmap implements gpucore.Device.
func (d *Device) SetAutoMipmap(gpucore.TextureKind, bool) {}

func (d *Device) samplerOf(kind gpucore.TextureKind) *hal.SamplerDescriptor {
	t, err := d.bound(kind)
	if err != nil {
		d.fail(err)
		return nil
	}
	return &t.sampler
}

// SetTextureWrap implements gpucore.Device.
func (d *Device) SetTextureWrap(kind gpucore.TextureKind, u, v, w gputypes.AddressMode) {
	if s := d.samplerOf(kind); s != nil {
		s.AddressModeU, s.AddressModeV, s.AddressModeW = u, v, w
	}
}

// SetTextureFilter implements gpucore.Device.
func (d *Device) SetTextureFilter(kind gpucore.TextureKind, f gpucore.SamplerFilter) {
	s := d.samplerOf(kind)
	if s == nil {
		return
	}
	s.MinFilter, s.MagFilter = filterMode(f.Min), filterMode(f.Mag)
	mip, sampled := mipFilter(f.Mip)
	s.MipmapFilter = mip
	if !sampled {
		s.LodMaxClamp = 0
	} else if t, err := d.bound(kind); err == nil {
		s.LodMaxClamp = float32(t.levels - 1)
	}
}

// SetTextureAnisotropy implements gpucore.Device.
func (d *Device) SetTextureAnisotropy(kind gpucore.TextureKind, level int) {
	if s := d.samplerOf(kind); s != nil {
		s.Anisotropy = uint16(min(max(level, 1), d.caps.MaxAnisotropy))
	}
}

// SetTextureLODBias implements gpucore.Device. WebGPU samplers have no
// LOD bias; the bias raises the minimum LOD clamp instead.
func (d *Device) SetTextureLODBias(kind gpucore.TextureKind, bias float32) {
	if s := d.samplerOf(kind); s != nil {
		s.LodMinClamp = max(bias, 0)
	}
}

// CreateFramebuffer implements gpucore.Device.
func (d *Device) CreateFramebuffer() (gpucore.FramebufferHandle, error) {
	h := gpucore.FramebufferHandle(d.allocID())
	d.framebuffers[h] = &framebuffer{}
	return h, nil
}

// DeleteFramebuffer implements gpucore.Device.
func (d *Device) DeleteFramebuffer(h gpucore.FramebufferHandle) {
	delete(d.framebuffers, h)
	if d.framebuffer == h {
		d.framebuffer = gpucore.InvalidID
	}
}

// BindFramebuffer implements gpucore.Device.
func (d *Device) BindFramebuffer(h gpucore.FramebufferHandle) { d.framebuffer = h }

func (d *Device) boundFramebuffer(op string) *framebuffer {
	fb, ok := d.framebuffers[d.framebuffer]
	if !ok {
		d.fail(fmt.Errorf("wgpu: %s without a framebuffer bound", op))
		return nil
	}
	return fb
}

// AttachColor implements gpucore.Device.
func (d *Device) AttachColor(index int, tex gpucore.TextureHandle) {
	if index < 0 || index >= maxColorAttachments {
		d.fail(fmt.Errorf("wgpu: color attachment %d out of range", index))
		return
	}
	if fb := d.boundFramebuffer("AttachColor"); fb != nil {
		fb.colors[index] = tex
	}
}

// AttachDepth implements gpucore.Device.
func (d *Device) AttachDepth(tex gpucore.TextureHandle) {
	if fb := d.boundFramebuffer("AttachDepth"); fb != nil {
		fb.depth = tex
	}
}

// AttachStencil implements gpucore.Device.
func (d *Device) AttachStencil(tex gpucore.TextureHandle) {
	if fb := d.boundFramebuffer("AttachStencil"); fb != nil {
		fb.stencil = tex
	}
}

// AttachDepthStencil implements gpucore.Device.
func (d *Device) AttachDepthStencil(tex gpucore.TextureHandle) {
	if fb := d.boundFramebuffer("AttachDepthStencil"); fb != nil {
		fb.depth, fb.stencil = tex, tex
	}
}

// DrawBuffers implements gpucore.Device.
func (d *Device) DrawBuffers(n int) {
	if fb := d.boundFramebuffer("DrawBuffers"); fb != nil {
		fb.draw = min(max(n, 0), maxColorAttachments)
	}
}

// CheckFramebuffer implements gpucore.Device.
func (d *Device) CheckFramebuffer() gpucore.FramebufferStatus {
	fb, ok := d.framebuffers[d.framebuffer]
	if !ok {
		return gpucore.FramebufferComplete
	}
	var size image.Size
	attached := 0
	check := func(h gpucore.TextureHandle, depth bool) gpucore.FramebufferStatus {
		if h == gpucore.InvalidID {
			return gpucore.FramebufferComplete
		}
		t, ok := d.textures[h]
		if !ok || t.target == nil || t.format.IsDepth() != depth {
			return gpucore.FramebufferIncompleteAttachment
		}
		if attached > 0 && t.size != size {
			return gpucore.FramebufferIncompleteDimensions
		}
		size = t.size
		attached++
		return gpucore.FramebufferComplete
	}
	for _, h := range fb.colors {
		if s := check(h, false); s != gpucore.FramebufferComplete {
			return s
		}
	}
	if s := check(fb.depth, true); s != gpucore.FramebufferComplete {
		return s
	}
	if fb.stencil != fb.depth {
		if s := check(fb.stencil, true); s != gpucore.FramebufferComplete {
			return s
		}
	}
	if attached == 0 {
		return gpucore.FramebufferMissingAttachment
	}
	return gpucore.FramebufferComplete
}

// ReadPixels implements gpucore.Device. Caps reports no read-back.
func (d *Device) ReadPixels(gpucore.Rect, gpucore.Triple, []byte) error {
	return ErrReadBack
}

// spirvWords reinterprets naga output as SPIR-V words.
func spirvWords(code []byte) []uint32 {
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	return words
}

// CreateProgram implements gpucore.Device. src.WGSL must define vs_main
// and fs_main.
func (d *Device) CreateProgram(src gpucore.ShaderSource) (gpucore.ProgramHandle, error) {
	if src.WGSL == "" {
		return gpucore.InvalidID, fmt.Errorf("wgpu: program %q has no WGSL source", src.Label)
	}
	code, err := naga.Compile(src.WGSL)
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: compile program %q: %w", src.Label, err)
	}
	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  src.Label,
		Source: hal.ShaderSource{SPIRV: spirvWords(code)},
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create shader module %q: %w", src.Label, err)
	}
	h := gpucore.ProgramHandle(d.allocID())
	d.programs[h] = &program{label: src.Label, module: module}
	return h, nil
}

// DeleteProgram implements gpucore.Device.
func (d *Device) DeleteProgram(h gpucore.ProgramHandle) {
	p, ok := d.programs[h]
	if !ok {
		return
	}
	for k, pipe := range d.pipelines {
		if k.program == h {
			d.device.DestroyRenderPipeline(pipe)
			delete(d.pipelines, k)
		}
	}
	d.device.DestroyShaderModule(p.module)
	delete(d.programs, h)
	if d.program == h {
		d.program = gpucore.InvalidID
	}
}

// UseProgram implements gpucore.Device.
func (d *Device) UseProgram(h gpucore.ProgramHandle) {
	if _, ok := d.programs[h]; !ok && h != gpucore.InvalidID {
		d.fail(fmt.Errorf("wgpu: unknown program %d", h))
		return
	}
	d.program = h
}

// SetUniform implements gpucore.Device. Programs run without resource
// bindings, so no uniform is ever found.
func (d *Device) SetUniform(string, []float32) bool { return false }

// SetViewport implements gpucore.Device.
func (d *Device) SetViewport(r gpucore.Rect) { d.viewport = r }

// SetCombiner implements gpucore.Device. The fixed-function stages have no
// WebGPU program; materials on this backend supply their own WGSL.
func (d *Device) SetCombiner(int, gpucore.Combiner) {}

// SetFrameConstants implements gpucore.Device.
func (d *Device) SetFrameConstants(*gpucore.FrameConstants) {}

// Clear implements gpucore.Device.
func (d *Device) Clear(flags gpucore.ClearFlags, color gputypes.Color, depth float32, stencil int) {
	fb, ok := d.framebuffers[d.framebuffer]
	if !ok {
		backend.Logger().Debug("wgpu: clear of host surface dropped")
		return
	}
	d.pass("g3d_clear", fb, &clearValues{flags: flags, color: color, depth: depth, stencil: uint32(stencil)}, nil)
}

// Draw implements gpucore.Device.
func (d *Device) Draw(prim gputypes.PrimitiveTopology, first, count int) {
	fb, ok := d.framebuffers[d.framebuffer]
	if !ok {
		backend.Logger().Debug("wgpu: draw to host surface dropped")
		return
	}
	if d.program == gpucore.InvalidID {
		backend.Logger().Debug("wgpu: draw without a program dropped")
		return
	}
	pipe, err := d.pipeline(d.key(prim, fb))
	if err != nil {
		d.fail(err)
		return
	}
	vp := d.viewport
	d.pass("g3d_draw", fb, nil, func(p hal.RenderPassEncoder) {
		p.SetPipeline(pipe)
		if vp.Width > 0 && vp.Height > 0 {
			p.SetViewport(float32(vp.X), float32(vp.Y), float32(vp.Width), float32(vp.Height), 0, 1)
		}
		p.Draw(uint32(count), 1, uint32(first), 0)
	})
}

type clearValues struct {
	flags   gpucore.ClearFlags
	color   gputypes.Color
	depth   float32
	stencil uint32
}

// pass encodes one render pass on fb, submits it and waits for the queue.
func (d *Device) pass(label string, fb *framebuffer, clear *clearValues, record func(hal.RenderPassEncoder)) {
	desc := &hal.RenderPassDescriptor{Label: label}
	for i := 0; i < fb.draw; i++ {
		t, ok := d.textures[fb.colors[i]]
		if !ok || t.target == nil {
			continue
		}
		att := hal.RenderPassColorAttachment{View: t.target, LoadOp: gputypes.LoadOpLoad, StoreOp: gputypes.StoreOpStore}
		if clear != nil && clear.flags&gpucore.ClearColor != 0 {
			att.LoadOp, att.ClearValue = gputypes.LoadOpClear, clear.color
		}
		desc.ColorAttachments = append(desc.ColorAttachments, att)
	}
	if t, ok := d.textures[fb.depth]; ok && t.target != nil {
		att := &hal.RenderPassDepthStencilAttachment{
			View:         t.target,
			DepthLoadOp:  gputypes.LoadOpLoad,
			DepthStoreOp: gputypes.StoreOpStore,
		}
		if t.format.HasStencil() {
			att.StencilLoadOp, att.StencilStoreOp = gputypes.LoadOpLoad, gputypes.StoreOpStore
		}
		if clear != nil {
			if clear.flags&gpucore.ClearDepth != 0 {
				att.DepthLoadOp, att.DepthClearValue = gputypes.LoadOpClear, clear.depth
			}
			if clear.flags&gpucore.ClearStencil != 0 && t.format.HasStencil() {
				att.StencilLoadOp, att.StencilClearValue = gputypes.LoadOpClear, clear.stencil
			}
		}
		desc.DepthStencilAttachment = att
	}
	if len(desc.ColorAttachments) == 0 && desc.DepthStencilAttachment == nil {
		return
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		d.fail(fmt.Errorf("wgpu: create command encoder: %w", err))
		return
	}
	defer encoder.Destroy()
	if err := encoder.BeginEncoding(label); err != nil {
		d.fail(fmt.Errorf("wgpu: begin encoding: %w", err))
		return
	}
	p := encoder.BeginRenderPass(desc)
	if record != nil {
		record(p)
	}
	p.End()
	cmd, err := encoder.EndEncoding()
	if err != nil {
		d.fail(fmt.Errorf("wgpu: end encoding: %w", err))
		return
	}
	defer d.device.FreeCommandBuffer(cmd)
	if _, err := d.queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		d.fail(fmt.Errorf("wgpu: submit: %w", err))
		return
	}
	if err := d.device.WaitIdle(); err != nil {
		d.fail(fmt.Errorf("wgpu: wait for GPU: %w", err))
	}
}
