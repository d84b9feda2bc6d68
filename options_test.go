package g3d

import (
	"testing"

	"github.com/gogpu/g3d/image"
	"github.com/gogpu/gputypes"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if !o.mipMaps {
		t.Error("mipMaps = false, want true by default")
	}
	if o.retainImages || o.debug || o.depthWriteOnTransparent {
		t.Errorf("defaultOptions() = %+v, want everything else off", o)
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		check func(options) bool
	}{
		{"retain images", []Option{WithRetainImages(true)}, func(o options) bool { return o.retainImages }},
		{"no mip maps", []Option{WithMipMaps(false)}, func(o options) bool { return !o.mipMaps }},
		{"debug", []Option{WithDebugChecks(true)}, func(o options) bool { return o.debug }},
		{"scratch cache", []Option{WithScratchCacheSize(3)}, func(o options) bool { return o.scratchCacheSize == 3 }},
		{"depth write", []Option{WithDepthWriteOnTransparent(true)}, func(o options) bool { return o.depthWriteOnTransparent }},
		{
			"config",
			[]Option{WithConfig(Config{RetainImages: true, DebugChecks: true, ScratchCacheSize: 2})},
			func(o options) bool { return o.retainImages && o.debug && !o.mipMaps && o.scratchCacheSize == 2 },
		},
		{
			"later option wins",
			[]Option{WithConfig(Config{MipMaps: false}), WithMipMaps(true)},
			func(o options) bool { return o.mipMaps },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			for _, opt := range tt.opts {
				opt(&o)
			}
			if !tt.check(o) {
				t.Errorf("options = %+v", o)
			}
		})
	}
}

func TestNewDriver_DebugChecks(t *testing.T) {
	d, dev := newTestDriver(t, nil, WithDebugChecks(true))
	tex, err := d.AddRenderTargetTexture(image.Size{Width: 16, Height: 16}, "c", image.FormatA8R8G8B8)
	if err != nil {
		t.Fatalf("AddRenderTargetTexture() error = %v", err)
	}
	rt, _ := d.AddRenderTarget()
	rt.SetTexture(tex, nil)
	dev.ResetCalls()
	d.SetRenderTarget(rt, 0, gputypes.Color{})
	if got := dev.Calls("CheckFramebuffer"); got != 1 {
		t.Errorf("CheckFramebuffer calls = %d, want 1 with debug checks", got)
	}
}
