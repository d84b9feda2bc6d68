// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
	"github.com/gogpu/gputypes"
)

// Category identifies one kind of mirrored native state.
type Category uint8

// State categories.
const (
	CategoryTexture Category = iota
	CategoryActiveUnit
	CategoryFramebuffer
	CategoryProgram
	CategoryBlendEnable
	CategoryBlendEquation
	CategoryBlendFunc
	CategoryDepthFunc
	CategoryDepthMask
	CategoryDepthTest
	CategoryCullFace
	CategoryCullEnable
	CategoryColorMask
	CategoryViewport
	CategoryCombiner

	// CategoryCount is the number of categories.
	CategoryCount
)

var categoryNames = [CategoryCount]string{
	"texture", "active unit", "framebuffer", "program",
	"blend enable", "blend equation", "blend func",
	"depth func", "depth mask", "depth test",
	"cull face", "cull enable", "color mask", "viewport", "combiner",
}

func (c Category) String() string {
	if c < CategoryCount {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// Stats counts native calls issued and skipped per category.
type Stats struct {
	Issued  [CategoryCount]int
	Skipped [CategoryCount]int
}

// TotalIssued returns the number of native state calls issued.
func (s Stats) TotalIssued() int {
	n := 0
	for _, v := range s.Issued {
		n += v
	}
	return n
}

// TotalSkipped returns the number of setter calls answered from the mirror.
func (s Stats) TotalSkipped() int {
	n := 0
	for _, v := range s.Skipped {
		n += v
	}
	return n
}

// Options configure a StateCache.
type Options struct {
	// Debug polls Device.Error after every issued native call and checks
	// framebuffer completeness after render-target updates.
	Debug bool

	// ScratchCacheSize bounds the read-back framebuffer cache.
	// Zero selects DefaultScratchCacheSize.
	ScratchCacheSize int

	// PoolSize bounds the lock buffers kept per (size, format).
	// Zero selects 4.
	PoolSize int
}

// maxIndexed bounds the per-index stale tracking of indexed categories.
const maxIndexed = 64

const allStale = ^uint64(0)

// StateCache mirrors native pipeline state and suppresses redundant calls.
//
// Every setter compares the requested value with the mirror and issues
// exactly one native call when they differ. The mirror changes if and only
// if that call is issued. The cache starts from the documented GL default
// state rather than querying the device.
type StateCache struct {
	dev     gpucore.Device
	caps    gpucore.Caps
	backend gpucore.BackendType
	debug   bool
	locked  bool

	activeUnit   int
	framebuffer  gpucore.FramebufferHandle
	program      gpucore.ProgramHandle
	blendEnabled []bool
	blendEq      []gputypes.BlendOperation
	blendFunc    []gpucore.BlendFunc
	colorMask    []gputypes.ColorWriteMask
	depthFunc    gputypes.CompareFunction
	depthMask    bool
	depthTest    bool
	cullFace     gputypes.CullMode
	cullEnabled  bool
	viewport     gpucore.Rect
	combiners    []gpucore.Combiner

	// stale[c] has bit i set when index i of category c is unknown and the
	// next setter must issue its call regardless of the mirror.
	stale [CategoryCount]uint64
	stats Stats

	// generation advances on Invalidate; texture sampler snapshots taken
	// under an older generation are discarded.
	generation uint64

	units   *TextureUnits
	pool    *image.Pool
	scratch *scratchCache
}

// NewStateCache creates the cache for dev. The device capabilities are
// queried once here and treated as immutable.
func NewStateCache(dev gpucore.Device, opts Options) *StateCache {
	caps := dev.Caps()
	caps.MaxTextureUnits = min(max(caps.MaxTextureUnits, 1), maxIndexed)
	caps.MaxColorAttachments = min(max(caps.MaxColorAttachments, 1), maxIndexed)
	caps.MaxAnisotropy = max(caps.MaxAnisotropy, 1)

	poolSize := opts.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}

	c := &StateCache{
		dev:     dev,
		caps:    caps,
		backend: dev.Type(),
		debug:   opts.Debug,
		pool:    image.NewPool(poolSize),
		scratch: newScratchCache(dev, opts.ScratchCacheSize),
	}
	c.seedDefaults()
	c.units = newTextureUnits(c, caps.MaxTextureUnits)

	slogger().Debug("render: state cache created",
		"backend", c.backend,
		"maxTextureSize", caps.MaxTextureSize,
		"units", caps.MaxTextureUnits,
		"colorAttachments", caps.MaxColorAttachments,
		"npot", caps.NPOT,
		"mipmaps", caps.MipmapMode)
	return c
}

// seedDefaults loads the GL initial state table.
func (c *StateCache) seedDefaults() {
	n := c.caps.MaxColorAttachments
	c.blendEnabled = make([]bool, n)
	c.blendEq = make([]gputypes.BlendOperation, n)
	c.blendFunc = make([]gpucore.BlendFunc, n)
	c.colorMask = make([]gputypes.ColorWriteMask, n)
	for i := 0; i < n; i++ {
		c.blendEq[i] = gputypes.BlendOperationAdd
		c.blendFunc[i] = gpucore.NewBlendFunc(gputypes.BlendFactorOne, gputypes.BlendFactorZero)
		c.colorMask[i] = gputypes.ColorWriteMaskAll
	}
	c.depthFunc = gputypes.CompareFunctionLess
	c.depthMask = true
	c.depthTest = false
	c.cullFace = gputypes.CullModeBack
	c.cullEnabled = false
	c.activeUnit = 0
	c.program = gpucore.InvalidID
	c.framebuffer = gpucore.InvalidID
	c.viewport = gpucore.Rect{Width: c.caps.Backbuffer.Width, Height: c.caps.Backbuffer.Height}

	c.combiners = make([]gpucore.Combiner, c.caps.MaxTextureUnits)
	for i := range c.combiners {
		c.combiners[i] = gpucore.DisabledCombiner
	}
	// Combiner stages have no documented default, so the first set always
	// reaches the device.
	c.stale[CategoryCombiner] = allStale
}

// Device returns the wrapped device.
func (c *StateCache) Device() gpucore.Device { return c.dev }

// Caps returns the capabilities captured at construction.
func (c *StateCache) Caps() gpucore.Caps { return c.caps }

// Backend returns the backend tag every resource of this cache carries.
func (c *StateCache) Backend() gpucore.BackendType { return c.backend }

// Units returns the texture-unit table.
func (c *StateCache) Units() *TextureUnits { return c.units }

// Pool returns the buffer pool used for texture locks.
func (c *StateCache) Pool() *image.Pool { return c.pool }

// Debug reports whether debug checks are enabled.
func (c *StateCache) Debug() bool { return c.debug }

// Stats returns the call counters.
func (c *StateCache) Stats() Stats { return c.stats }

// ResetStats zeroes the call counters.
func (c *StateCache) ResetStats() { c.stats = Stats{} }

// Lock suppresses every setter until Unlock. Locking is not nested.
func (c *StateCache) Lock() { c.locked = true }

// Unlock re-enables the setters.
func (c *StateCache) Unlock() { c.locked = false }

// Locked reports whether setters are suppressed.
func (c *StateCache) Locked() bool { return c.locked }

// Invalidate marks all mirrored state unknown. The next setter of every
// category issues its native call, and so does the next ApplySampler of
// every texture. Use it after foreign code has touched the context.
func (c *StateCache) Invalidate() {
	for i := range c.stale {
		c.stale[i] = allStale
	}
	c.generation++
}

// Close unbinds every texture unit and deletes the scratch framebuffers.
func (c *StateCache) Close() {
	c.units.clear()
	c.scratch.purge()
}

func (c *StateCache) isStale(cat Category, i int) bool {
	return c.stale[cat]&(1<<uint(i)) != 0
}

func (c *StateCache) skip(cat Category) { c.stats.Skipped[cat]++ }

// issued records a native call on index i of cat and runs the debug check.
func (c *StateCache) issued(cat Category, i int, call string) {
	c.stale[cat] &^= 1 << uint(i)
	c.stats.Issued[cat]++
	c.check(call)
}

// issuedAll records a global call covering every index of cat.
func (c *StateCache) issuedAll(cat Category, call string) {
	c.stale[cat] = 0
	c.stats.Issued[cat]++
	c.check(call)
}

// check polls the device error in debug mode. Failures are logged once and
// never retried.
func (c *StateCache) check(call string) {
	if !c.debug {
		return
	}
	if err := c.dev.Error(); err != nil {
		slogger().Error("render: native call failed", "call", call, "backend", c.backend, "err", err)
	}
}

func differs[T comparable](vals []T, v T, stale uint64) bool {
	for i, cur := range vals {
		if cur != v || stale&(1<<uint(i)) != 0 {
			return true
		}
	}
	return false
}

func fill[T any](vals []T, v T) {
	for i := range vals {
		vals[i] = v
	}
}

func (c *StateCache) validIndex(cat Category, i, n int) bool {
	if i < 0 || i >= n {
		slogger().Warn("render: state index out of range", "category", cat, "index", i, "limit", n)
		return false
	}
	return true
}

// ActiveUnit returns the selected texture unit.
func (c *StateCache) ActiveUnit() int { return c.activeUnit }

// SetActiveUnit selects a texture unit.
func (c *StateCache) SetActiveUnit(unit int) {
	if c.locked {
		return
	}
	c.setActiveUnit(unit)
}

func (c *StateCache) setActiveUnit(unit int) bool {
	if !c.validIndex(CategoryActiveUnit, unit, c.caps.MaxTextureUnits) {
		return false
	}
	if c.activeUnit == unit && !c.isStale(CategoryActiveUnit, 0) {
		c.skip(CategoryActiveUnit)
		return true
	}
	c.dev.ActiveTexture(unit)
	c.activeUnit = unit
	c.issued(CategoryActiveUnit, 0, "ActiveTexture")
	return true
}

// Framebuffer returns the bound framebuffer. Zero is the backbuffer.
func (c *StateCache) Framebuffer() gpucore.FramebufferHandle { return c.framebuffer }

// SetFramebuffer binds a framebuffer object.
func (c *StateCache) SetFramebuffer(fb gpucore.FramebufferHandle) {
	if c.locked {
		return
	}
	c.bindFramebuffer(fb)
}

func (c *StateCache) bindFramebuffer(fb gpucore.FramebufferHandle) {
	if c.framebuffer == fb && !c.isStale(CategoryFramebuffer, 0) {
		c.skip(CategoryFramebuffer)
		return
	}
	c.dev.BindFramebuffer(fb)
	c.framebuffer = fb
	c.issued(CategoryFramebuffer, 0, "BindFramebuffer")
}

// forgetFramebuffer resets the mirror after fb was deleted while bound.
// Deleting the bound framebuffer rebinds the backbuffer natively.
func (c *StateCache) forgetFramebuffer(fb gpucore.FramebufferHandle) {
	if c.framebuffer == fb {
		c.framebuffer = gpucore.InvalidID
	}
}

// Program returns the program in use.
func (c *StateCache) Program() gpucore.ProgramHandle { return c.program }

// SetProgram activates a program. Zero selects the built-in pipeline.
func (c *StateCache) SetProgram(p gpucore.ProgramHandle) {
	if c.locked {
		return
	}
	if c.program == p && !c.isStale(CategoryProgram, 0) {
		c.skip(CategoryProgram)
		return
	}
	c.dev.UseProgram(p)
	c.program = p
	c.issued(CategoryProgram, 0, "UseProgram")
}

// forgetProgram resets the mirror after p was deleted while in use.
func (c *StateCache) forgetProgram(p gpucore.ProgramHandle) {
	if c.program == p {
		c.program = gpucore.InvalidID
	}
}

// DeleteProgram deletes a native program and keeps the mirror truthful.
func (c *StateCache) DeleteProgram(p gpucore.ProgramHandle) {
	if p == gpucore.InvalidID {
		return
	}
	c.dev.DeleteProgram(p)
	c.forgetProgram(p)
}

// BlendEnabled reports whether blending is on for a color attachment.
func (c *StateCache) BlendEnabled(index int) bool {
	if index < 0 || index >= len(c.blendEnabled) {
		return false
	}
	return c.blendEnabled[index]
}

// SetBlend enables or disables blending on all color attachments.
func (c *StateCache) SetBlend(on bool) {
	if c.locked {
		return
	}
	if !differs(c.blendEnabled, on, c.stale[CategoryBlendEnable]) {
		c.skip(CategoryBlendEnable)
		return
	}
	c.dev.SetBlendEnabled(on)
	fill(c.blendEnabled, on)
	c.issuedAll(CategoryBlendEnable, "SetBlendEnabled")
}

// SetBlendIndexed enables or disables blending on one color attachment.
// Without independent blend support it sets all attachments.
func (c *StateCache) SetBlendIndexed(index int, on bool) {
	if c.locked || !c.validIndex(CategoryBlendEnable, index, len(c.blendEnabled)) {
		return
	}
	if !c.caps.IndependentBlend {
		c.SetBlend(on)
		return
	}
	if c.blendEnabled[index] == on && !c.isStale(CategoryBlendEnable, index) {
		c.skip(CategoryBlendEnable)
		return
	}
	c.dev.SetBlendEnabledIndexed(index, on)
	c.blendEnabled[index] = on
	c.issued(CategoryBlendEnable, index, "SetBlendEnabledIndexed")
}

// BlendEquation returns the blend operation of a color attachment.
func (c *StateCache) BlendEquation(index int) gputypes.BlendOperation {
	if index < 0 || index >= len(c.blendEq) {
		return gputypes.BlendOperationAdd
	}
	return c.blendEq[index]
}

// SetBlendEquation sets the blend operation of all color attachments.
func (c *StateCache) SetBlendEquation(op gputypes.BlendOperation) {
	if c.locked {
		return
	}
	if !differs(c.blendEq, op, c.stale[CategoryBlendEquation]) {
		c.skip(CategoryBlendEquation)
		return
	}
	c.dev.SetBlendEquation(op)
	fill(c.blendEq, op)
	c.issuedAll(CategoryBlendEquation, "SetBlendEquation")
}

// SetBlendEquationIndexed sets the blend operation of one color attachment.
func (c *StateCache) SetBlendEquationIndexed(index int, op gputypes.BlendOperation) {
	if c.locked || !c.validIndex(CategoryBlendEquation, index, len(c.blendEq)) {
		return
	}
	if !c.caps.IndependentBlend {
		c.SetBlendEquation(op)
		return
	}
	if c.blendEq[index] == op && !c.isStale(CategoryBlendEquation, index) {
		c.skip(CategoryBlendEquation)
		return
	}
	c.dev.SetBlendEquationIndexed(index, op)
	c.blendEq[index] = op
	c.issued(CategoryBlendEquation, index, "SetBlendEquationIndexed")
}

// BlendFunc returns the blend factors of a color attachment.
func (c *StateCache) BlendFunc(index int) gpucore.BlendFunc {
	if index < 0 || index >= len(c.blendFunc) {
		return gpucore.BlendFunc{}
	}
	return c.blendFunc[index]
}

// SetBlendFunc sets the blend factors of all color attachments.
func (c *StateCache) SetBlendFunc(f gpucore.BlendFunc) {
	if c.locked {
		return
	}
	if !differs(c.blendFunc, f, c.stale[CategoryBlendFunc]) {
		c.skip(CategoryBlendFunc)
		return
	}
	c.dev.SetBlendFunc(f)
	fill(c.blendFunc, f)
	c.issuedAll(CategoryBlendFunc, "SetBlendFunc")
}

// SetBlendFuncIndexed sets the blend factors of one color attachment.
func (c *StateCache) SetBlendFuncIndexed(index int, f gpucore.BlendFunc) {
	if c.locked || !c.validIndex(CategoryBlendFunc, index, len(c.blendFunc)) {
		return
	}
	if !c.caps.IndependentBlend {
		c.SetBlendFunc(f)
		return
	}
	if c.blendFunc[index] == f && !c.isStale(CategoryBlendFunc, index) {
		c.skip(CategoryBlendFunc)
		return
	}
	c.dev.SetBlendFuncIndexed(index, f)
	c.blendFunc[index] = f
	c.issued(CategoryBlendFunc, index, "SetBlendFuncIndexed")
}

// ColorMask returns the write mask of a color attachment.
func (c *StateCache) ColorMask(index int) gputypes.ColorWriteMask {
	if index < 0 || index >= len(c.colorMask) {
		return gputypes.ColorWriteMaskNone
	}
	return c.colorMask[index]
}

// SetColorMask sets the write mask of all color attachments.
func (c *StateCache) SetColorMask(m gputypes.ColorWriteMask) {
	if c.locked {
		return
	}
	if !differs(c.colorMask, m, c.stale[CategoryColorMask]) {
		c.skip(CategoryColorMask)
		return
	}
	c.dev.SetColorMask(m)
	fill(c.colorMask, m)
	c.issuedAll(CategoryColorMask, "SetColorMask")
}

// SetColorMaskIndexed sets the write mask of one color attachment.
func (c *StateCache) SetColorMaskIndexed(index int, m gputypes.ColorWriteMask) {
	if c.locked || !c.validIndex(CategoryColorMask, index, len(c.colorMask)) {
		return
	}
	if !c.caps.IndexedColorMask {
		c.SetColorMask(m)
		return
	}
	if c.colorMask[index] == m && !c.isStale(CategoryColorMask, index) {
		c.skip(CategoryColorMask)
		return
	}
	c.dev.SetColorMaskIndexed(index, m)
	c.colorMask[index] = m
	c.issued(CategoryColorMask, index, "SetColorMaskIndexed")
}

// DepthFunc returns the depth comparison.
func (c *StateCache) DepthFunc() gputypes.CompareFunction { return c.depthFunc }

// SetDepthFunc sets the depth comparison.
func (c *StateCache) SetDepthFunc(f gputypes.CompareFunction) {
	if c.locked {
		return
	}
	if c.depthFunc == f && !c.isStale(CategoryDepthFunc, 0) {
		c.skip(CategoryDepthFunc)
		return
	}
	c.dev.SetDepthFunc(f)
	c.depthFunc = f
	c.issued(CategoryDepthFunc, 0, "SetDepthFunc")
}

// DepthMask reports whether depth writes are on.
func (c *StateCache) DepthMask() bool { return c.depthMask }

// SetDepthMask turns depth writes on or off.
func (c *StateCache) SetDepthMask(on bool) {
	if c.locked {
		return
	}
	if c.depthMask == on && !c.isStale(CategoryDepthMask, 0) {
		c.skip(CategoryDepthMask)
		return
	}
	c.dev.SetDepthMask(on)
	c.depthMask = on
	c.issued(CategoryDepthMask, 0, "SetDepthMask")
}

// DepthTest reports whether the depth test is on.
func (c *StateCache) DepthTest() bool { return c.depthTest }

// SetDepthTest turns the depth test on or off.
func (c *StateCache) SetDepthTest(on bool) {
	if c.locked {
		return
	}
	if c.depthTest == on && !c.isStale(CategoryDepthTest, 0) {
		c.skip(CategoryDepthTest)
		return
	}
	c.dev.SetDepthTest(on)
	c.depthTest = on
	c.issued(CategoryDepthTest, 0, "SetDepthTest")
}

// CullFace returns the culled face.
func (c *StateCache) CullFace() gputypes.CullMode { return c.cullFace }

// SetCullFace selects the face culled when culling is enabled.
// CullModeNone is expressed with SetCull(false) and is ignored here.
func (c *StateCache) SetCullFace(m gputypes.CullMode) {
	if c.locked || m == gputypes.CullModeNone {
		return
	}
	if c.cullFace == m && !c.isStale(CategoryCullFace, 0) {
		c.skip(CategoryCullFace)
		return
	}
	c.dev.SetCullFace(m)
	c.cullFace = m
	c.issued(CategoryCullFace, 0, "SetCullFace")
}

// CullEnabled reports whether face culling is on.
func (c *StateCache) CullEnabled() bool { return c.cullEnabled }

// SetCull turns face culling on or off.
func (c *StateCache) SetCull(on bool) {
	if c.locked {
		return
	}
	if c.cullEnabled == on && !c.isStale(CategoryCullEnable, 0) {
		c.skip(CategoryCullEnable)
		return
	}
	c.dev.SetCullEnabled(on)
	c.cullEnabled = on
	c.issued(CategoryCullEnable, 0, "SetCullEnabled")
}

// Viewport returns the viewport rectangle.
func (c *StateCache) Viewport() gpucore.Rect { return c.viewport }

// SetViewport sets the viewport rectangle.
func (c *StateCache) SetViewport(r gpucore.Rect) {
	if c.locked {
		return
	}
	if c.viewport == r && !c.isStale(CategoryViewport, 0) {
		c.skip(CategoryViewport)
		return
	}
	c.dev.SetViewport(r)
	c.viewport = r
	c.issued(CategoryViewport, 0, "SetViewport")
}

// Combiner returns the fixed-function configuration of a texture stage.
func (c *StateCache) Combiner(stage int) gpucore.Combiner {
	if stage < 0 || stage >= len(c.combiners) {
		return gpucore.DisabledCombiner
	}
	return c.combiners[stage]
}

// SetCombiner configures a fixed-function texture stage.
func (c *StateCache) SetCombiner(stage int, cb gpucore.Combiner) {
	if c.locked || !c.validIndex(CategoryCombiner, stage, len(c.combiners)) {
		return
	}
	if c.combiners[stage] == cb && !c.isStale(CategoryCombiner, stage) {
		c.skip(CategoryCombiner)
		return
	}
	c.dev.SetCombiner(stage, cb)
	c.combiners[stage] = cb
	c.issued(CategoryCombiner, stage, "SetCombiner")
}
