//go:build !nogpu && !(js && wasm)

package wgpu

import (
	"fmt"

	"github.com/gogpu/g3d/backend"
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// attachmentState is the blend setup of one color attachment.
type attachmentState struct {
	blend    bool
	equation gputypes.BlendOperation
	fn       gpucore.BlendFunc
	mask     gputypes.ColorWriteMask
}

// drawState is the immediate-mode state a pipeline is built from.
type drawState struct {
	attachments [maxColorAttachments]attachmentState
	depthTest   bool
	depthWrite  bool
	depthFunc   gputypes.CompareFunction
	cull        bool
	cullMode    gputypes.CullMode
}

func defaultDrawState() drawState {
	s := drawState{
		depthWrite: true,
		depthFunc:  gputypes.CompareFunctionLess,
		cullMode:   gputypes.CullModeBack,
	}
	for i := range s.attachments {
		s.attachments[i] = attachmentState{
			equation: gputypes.BlendOperationAdd,
			fn:       gpucore.NewBlendFunc(gputypes.BlendFactorOne, gputypes.BlendFactorZero),
			mask:     gputypes.ColorWriteMaskAll,
		}
	}
	return s
}

type targetKey struct {
	format gputypes.TextureFormat
	attachmentState
}

// pipelineKey identifies a render pipeline. Two draws with equal keys share
// the pipeline.
type pipelineKey struct {
	program  gpucore.ProgramHandle
	topology gputypes.PrimitiveTopology
	targets  [maxColorAttachments]targetKey
	count    int

	depthFormat gputypes.TextureFormat
	depthTest   bool
	depthWrite  bool
	depthFunc   gputypes.CompareFunction
	cullMode    gputypes.CullMode
}

func (d *Device) key(prim gputypes.PrimitiveTopology, fb *framebuffer) pipelineKey {
	s := d.state
	k := pipelineKey{program: d.program, topology: prim}
	for i := 0; i < fb.draw; i++ {
		t, ok := d.textures[fb.colors[i]]
		if !ok || t.target == nil {
			continue
		}
		k.targets[k.count] = targetKey{format: t.native, attachmentState: s.attachments[i]}
		k.count++
	}
	if t, ok := d.textures[fb.depth]; ok && t.target != nil {
		k.depthFormat = t.native
		k.depthTest = s.depthTest
		k.depthWrite = s.depthTest && s.depthWrite
		k.depthFunc = s.depthFunc
	}
	if s.cull {
		k.cullMode = s.cullMode
	}
	return k
}

// pipeline returns the cached pipeline for k, creating it on first use.
func (d *Device) pipeline(k pipelineKey) (hal.RenderPipeline, error) {
	if p, ok := d.pipelines[k]; ok {
		return p, nil
	}
	prog, ok := d.programs[k.program]
	if !ok {
		return nil, fmt.Errorf("wgpu: unknown program %d", k.program)
	}

	targets := make([]gputypes.ColorTargetState, k.count)
	for i, t := range k.targets[:k.count] {
		targets[i] = gputypes.ColorTargetState{Format: t.format, WriteMask: t.mask}
		if t.blend {
			targets[i].Blend = &gputypes.BlendState{
				Color: gputypes.BlendComponent{SrcFactor: t.fn.SrcRGB, DstFactor: t.fn.DstRGB, Operation: t.equation},
				Alpha: gputypes.BlendComponent{SrcFactor: t.fn.SrcAlpha, DstFactor: t.fn.DstAlpha, Operation: t.equation},
			}
		}
	}

	desc := &hal.RenderPipelineDescriptor{
		Label:  prog.label,
		Layout: d.layout,
		Vertex: hal.VertexState{Module: prog.module, EntryPoint: "vs_main"},
		Primitive: gputypes.PrimitiveState{
			Topology:  k.topology,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  k.cullMode,
		},
		Multisample: gputypes.DefaultMultisampleState(),
		Fragment: &hal.FragmentState{
			Module:     prog.module,
			EntryPoint: "fs_main",
			Targets:    targets,
		},
	}
	if k.depthFormat != gputypes.TextureFormatUndefined {
		compare := gputypes.CompareFunctionAlways
		if k.depthTest {
			compare = k.depthFunc
		}
		desc.DepthStencil = &hal.DepthStencilState{
			Format:            k.depthFormat,
			DepthWriteEnabled: k.depthWrite,
			DepthCompare:      compare,
			StencilFront:      hal.StencilFaceState{Compare: gputypes.CompareFunctionAlways},
			StencilBack:       hal.StencilFaceState{Compare: gputypes.CompareFunctionAlways},
		}
	}

	p, err := d.device.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("wgpu: create pipeline for %q: %w", prog.label, err)
	}
	d.pipelines[k] = p
	backend.Logger().Debug("wgpu: pipeline created", "program", prog.label, "pipelines", len(d.pipelines))
	return p, nil
}

// Pipelines returns the number of cached render pipelines.
func (d *Device) Pipelines() int { return len(d.pipelines) }

// SetBlendEnabled implements gpucore.Device.
func (d *Device) SetBlendEnabled(on bool) {
	for i := range d.state.attachments {
		d.state.attachments[i].blend = on
	}
}

func (d *Device) attachment(index int) *attachmentState {
	if index < 0 || index >= maxColorAttachments {
		d.fail(fmt.Errorf("wgpu: color attachment %d out of range", index))
		return nil
	}
	return &d.state.attachments[index]
}

// SetBlendEnabledIndexed implements gpucore.Device.
func (d *Device) SetBlendEnabledIndexed(index int, on bool) {
	if a := d.attachment(index); a != nil {
		a.blend = on
	}
}

// SetBlendEquation implements gpucore.Device.
func (d *Device) SetBlendEquation(op gputypes.BlendOperation) {
	for i := range d.state.attachments {
		d.state.attachments[i].equation = op
	}
}

// SetBlendEquationIndexed implements gpucore.Device.
func (d *Device) SetBlendEquationIndexed(index int, op gputypes.BlendOperation) {
	if a := d.attachment(index); a != nil {
		a.equation = op
	}
}

// SetBlendFunc implements gpucore.Device.
func (d *Device) SetBlendFunc(f gpucore.BlendFunc) {
	for i := range d.state.attachments {
		d.state.attachments[i].fn = f
	}
}

// SetBlendFuncIndexed implements gpucore.Device.
func (d *Device) SetBlendFuncIndexed(index int, f gpucore.BlendFunc) {
	if a := d.attachment(index); a != nil {
		a.fn = f
	}
}

// SetColorMask implements gpucore.Device.
func (d *Device) SetColorMask(m gputypes.ColorWriteMask) {
	for i := range d.state.attachments {
		d.state.attachments[i].mask = m
	}
}

// SetColorMaskIndexed implements gpucore.Device.
func (d *Device) SetColorMaskIndexed(index int, m gputypes.ColorWriteMask) {
	if a := d.attachment(index); a != nil {
		a.mask = m
	}
}

// SetDepthFunc implements gpucore.Device.
func (d *Device) SetDepthFunc(f gputypes.CompareFunction) { d.state.depthFunc = f }

// SetDepthMask implements gpucore.Device.
func (d *Device) SetDepthMask(on bool) { d.state.depthWrite = on }

// SetDepthTest implements gpucore.Device.
func (d *Device) SetDepthTest(on bool) { d.state.depthTest = on }

// SetCullFace implements gpucore.Device.
func (d *Device) SetCullFace(m gputypes.CullMode) { d.state.cullMode = m }

// SetCullEnabled implements gpucore.Device.
func (d *Device) SetCullEnabled(on bool) { d.state.cull = on }
