// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/gputypes"
)

func TestFilterFor(t *testing.T) {
	tests := []struct {
		name string
		s    SamplerState
		mips bool
		want gpucore.SamplerFilter
	}{
		{"point", SamplerState{}, false,
			gpucore.SamplerFilter{Min: gputypes.FilterModeNearest, Mag: gputypes.FilterModeNearest}},
		{"bilinear", SamplerState{Bilinear: true}, false,
			gpucore.SamplerFilter{Min: gputypes.FilterModeLinear, Mag: gputypes.FilterModeLinear}},
		{"bilinear mips", SamplerState{Bilinear: true}, true,
			gpucore.SamplerFilter{Min: gputypes.FilterModeLinear, Mag: gputypes.FilterModeLinear, Mip: gputypes.MipmapFilterModeNearest}},
		{"trilinear mips", SamplerState{Trilinear: true}, true,
			gpucore.SamplerFilter{Min: gputypes.FilterModeLinear, Mag: gputypes.FilterModeLinear, Mip: gputypes.MipmapFilterModeLinear}},
		{"point mips", SamplerState{}, true,
			gpucore.SamplerFilter{Min: gputypes.FilterModeNearest, Mag: gputypes.FilterModeNearest, Mip: gputypes.MipmapFilterModeNearest}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filterFor(tt.s, tt.mips); got != tt.want {
				t.Errorf("filterFor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApplySampler_OnlyDifferences(t *testing.T) {
	c, dev := newTestCache(t, nil)
	tex := newTestTexture(t, c, "s", 4, 4, TextureOptions{})
	dev.ResetCalls()

	s := DefaultSampler
	s.Anisotropy = 4
	tex.ApplySampler(0, s)
	tex.ApplySampler(0, s)

	for _, op := range []string{"SetTextureWrap", "SetTextureFilter", "SetTextureAnisotropy", "SetTextureLODBias"} {
		if got := dev.Calls(op); got != 1 {
			t.Errorf("%s calls = %d, want 1", op, got)
		}
	}

	dev.ResetCalls()
	s.WrapU = gputypes.AddressModeClampToEdge
	tex.ApplySampler(0, s)
	if got := dev.Calls("SetTextureWrap"); got != 1 {
		t.Errorf("SetTextureWrap calls = %d, want 1", got)
	}
	if got := dev.Calls("SetTextureFilter") + dev.Calls("SetTextureLODBias") + dev.Calls("SetTextureAnisotropy"); got != 0 {
		t.Errorf("unchanged parameters issued %d calls", got)
	}
}

func TestApplySampler_InvalidatedByUpload(t *testing.T) {
	c, dev := newTestCache(t, nil)
	tex := newTestTexture(t, c, "s", 4, 4, TextureOptions{RetainImage: true})
	tex.ApplySampler(1, DefaultSampler)

	tex.Lock(LockWriteOnly, 0, 0)
	tex.Unlock()
	dev.ResetCalls()

	tex.ApplySampler(1, DefaultSampler)
	if got := dev.Calls("SetTextureWrap"); got != 1 {
		t.Errorf("SetTextureWrap calls after unlock = %d, want 1", got)
	}
}

func TestApplySampler_InvalidatedByCache(t *testing.T) {
	c, dev := newTestCache(t, nil)
	tex := newTestTexture(t, c, "s", 4, 4, TextureOptions{})
	tex.ApplySampler(0, DefaultSampler)
	dev.ResetCalls()

	tex.ApplySampler(0, DefaultSampler)
	if got := dev.TotalCalls(); got != 0 {
		t.Fatalf("TotalCalls() before Invalidate = %d, want 0", got)
	}

	c.Invalidate()
	tex.ApplySampler(0, DefaultSampler)
	for _, op := range []string{"SetTextureWrap", "SetTextureFilter", "SetTextureLODBias"} {
		if got := dev.Calls(op); got != 1 {
			t.Errorf("%s calls after Invalidate = %d, want 1", op, got)
		}
	}

	dev.ResetCalls()
	tex.ApplySampler(0, DefaultSampler)
	if got := dev.Calls("SetTextureWrap"); got != 0 {
		t.Errorf("SetTextureWrap calls after reapply = %d, want 0", got)
	}
}

func TestApplySampler_ClampsAnisotropy(t *testing.T) {
	c, dev := newTestCache(t, func(caps *gpucore.Caps) { caps.MaxAnisotropy = 1 })
	tex := newTestTexture(t, c, "s", 4, 4, TextureOptions{})

	s := DefaultSampler
	s.Anisotropy = 16
	tex.ApplySampler(0, s)

	if got := dev.Calls("SetTextureAnisotropy"); got != 0 {
		t.Errorf("SetTextureAnisotropy calls = %d, want 0 without support", got)
	}
}
