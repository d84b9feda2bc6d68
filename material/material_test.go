package material

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestDefault(t *testing.T) {
	m := Default()
	if m.Type != Solid {
		t.Errorf("Type = %v, want solid", m.Type)
	}
	if m.DepthFunc != gputypes.CompareFunctionLessEqual || !m.DepthWrite {
		t.Errorf("depth = %v/%v, want less-equal with writes", m.DepthFunc, m.DepthWrite)
	}
	for i, l := range m.Layers {
		if l != DefaultLayer {
			t.Errorf("Layers[%d] = %+v, want DefaultLayer", i, l)
		}
	}
	if Default() != m {
		t.Error("Default() values are not comparable-equal")
	}
}

func TestMaterial_CullMode(t *testing.T) {
	tests := []struct {
		back, front bool
		want        gputypes.CullMode
		enabled     bool
	}{
		{false, false, gputypes.CullModeNone, false},
		{true, false, gputypes.CullModeBack, true},
		{false, true, gputypes.CullModeFront, true},
		{true, true, gputypes.CullModeBack, true},
	}
	for _, tt := range tests {
		m := Material{BackfaceCulling: tt.back, FrontfaceCulling: tt.front}
		got, on := m.CullMode()
		if got != tt.want || on != tt.enabled {
			t.Errorf("CullMode(back=%v, front=%v) = %v, %v, want %v, %v",
				tt.back, tt.front, got, on, tt.want, tt.enabled)
		}
	}
}

func TestMaterial_Texture(t *testing.T) {
	var m Material
	m.SetTexture(MaxLayers, nil)
	if m.Texture(-1) != nil || m.Texture(MaxLayers) != nil {
		t.Error("out-of-range layers returned a texture")
	}
}

func TestType_String(t *testing.T) {
	tests := []struct {
		t    Type
		want string
	}{
		{Solid, "solid"},
		{TransparentAlphaChannelRef, "trans_alphach_ref"},
		{OneTextureBlend, "onetexture_blend"},
		{BuiltinCount, "shader(0)"},
		{BuiltinCount + 3, "shader(3)"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("Type(%d).String() = %q, want %q", tt.t, got, tt.want)
		}
	}
}
