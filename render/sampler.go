// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/gputypes"
)

// SamplerState is the sampling setup a material requests for a texture.
type SamplerState struct {
	WrapU, WrapV, WrapW gputypes.AddressMode
	Bilinear            bool
	Trilinear           bool
	Anisotropy          int
	LODBias             float32
}

// DefaultSampler repeats in all directions with bilinear filtering.
var DefaultSampler = SamplerState{
	WrapU:      gputypes.AddressModeRepeat,
	WrapV:      gputypes.AddressModeRepeat,
	WrapW:      gputypes.AddressModeRepeat,
	Bilinear:   true,
	Anisotropy: 1,
}

// sampler is the snapshot of parameters last applied to the native texture.
type sampler struct {
	wrap   [3]gputypes.AddressMode
	filter gpucore.SamplerFilter
	aniso  int
	bias   float32
	valid  bool
	gen    uint64
}

// filterFor maps the requested filtering onto min/mag/mip modes.
func filterFor(s SamplerState, mips bool) gpucore.SamplerFilter {
	f := gpucore.SamplerFilter{Min: gputypes.FilterModeNearest, Mag: gputypes.FilterModeNearest}
	if s.Bilinear || s.Trilinear {
		f.Min, f.Mag = gputypes.FilterModeLinear, gputypes.FilterModeLinear
	}
	if !mips {
		return f
	}
	f.Mip = gputypes.MipmapFilterModeNearest
	if s.Trilinear {
		f.Mip = gputypes.MipmapFilterModeLinear
	}
	return f
}

// ApplySampler binds t to unit and issues the sampler parameter calls whose
// values differ from the texture's applied snapshot. It reports false when
// the texture could not be bound.
func (t *Texture) ApplySampler(unit int, s SamplerState) bool {
	c := t.cache
	if !c.units.Set(unit, t) {
		return false
	}
	if !t.Valid() {
		return true
	}
	if !c.setActiveUnit(unit) {
		return false
	}

	applied := &t.sampler
	if applied.gen != c.generation {
		applied.valid = false
	}
	wrap := [3]gputypes.AddressMode{s.WrapU, s.WrapV, s.WrapW}
	if !applied.valid || applied.wrap != wrap {
		c.dev.SetTextureWrap(t.kind, s.WrapU, s.WrapV, s.WrapW)
		c.check("SetTextureWrap")
		applied.wrap = wrap
	}

	filter := filterFor(s, t.hasMips)
	if !applied.valid || applied.filter != filter {
		c.dev.SetTextureFilter(t.kind, filter)
		c.check("SetTextureFilter")
		applied.filter = filter
	}

	aniso := min(max(s.Anisotropy, 1), c.caps.MaxAnisotropy)
	if c.caps.MaxAnisotropy > 1 && (!applied.valid || applied.aniso != aniso) {
		c.dev.SetTextureAnisotropy(t.kind, aniso)
		c.check("SetTextureAnisotropy")
	}
	applied.aniso = aniso

	if !applied.valid || applied.bias != s.LODBias {
		c.dev.SetTextureLODBias(t.kind, s.LODBias)
		c.check("SetTextureLODBias")
		applied.bias = s.LODBias
	}

	applied.valid = true
	applied.gen = c.generation
	return true
}
