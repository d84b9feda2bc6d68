package material

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/gputypes"
)

func TestBuiltins_IsTransparent(t *testing.T) {
	want := map[Type]bool{
		TransparentAddColor:         true,
		TransparentAlphaChannel:     true,
		TransparentVertexAlpha:      true,
		TransparentReflection2Layer: true,
		OneTextureBlend:             true,
	}
	r := NewRegistry()
	for typ := Type(0); typ < BuiltinCount; typ++ {
		if got := r.Get(typ).IsTransparent(); got != want[typ] {
			t.Errorf("%v.IsTransparent() = %v, want %v", typ, got, want[typ])
		}
	}
}

func TestFixed_Solid(t *testing.T) {
	s, dev := newServices(t)
	m := Default()
	r := NewRegistry().Get(Solid)

	r.OnSetMaterial(&m, nil, true, s)

	st := dev.State()
	if st.Combiners[0] != texModDiffuse {
		t.Errorf("stage 0 = %+v, want texture*diffuse", st.Combiners[0])
	}
	if st.Combiners[1] != gpucore.DisabledCombiner {
		t.Errorf("stage 1 = %+v, want disabled", st.Combiners[1])
	}
	if st.BlendEnabled[0] {
		t.Error("blending enabled for solid")
	}
	if s.basic != 1 {
		t.Errorf("SetBasicRenderStates calls = %d, want 1", s.basic)
	}
}

func TestFixed_SecondSetIsFree(t *testing.T) {
	for typ := Type(0); typ < BuiltinCount; typ++ {
		t.Run(typ.String(), func(t *testing.T) {
			s, dev := newServices(t)
			m := Default()
			m.Type = typ
			m.Param = PackBlend(gputypes.BlendFactorOne, gputypes.BlendFactorOne, Modulate1X, AlphaSourceNone)
			r := NewRegistry().Get(typ)

			r.OnSetMaterial(&m, nil, true, s)
			dev.ResetCalls()
			last := m
			r.OnSetMaterial(&m, &last, true, s)

			if got := dev.TotalCalls(); got != 0 {
				t.Errorf("repeated OnSetMaterial issued %d calls (%v)", got, dev.Ops())
			}
		})
	}
}

func TestFixed_AlphaBlend(t *testing.T) {
	s, dev := newServices(t)
	m := Default()
	m.Type = TransparentAlphaChannel
	r := NewRegistry().Get(m.Type)

	r.OnSetMaterial(&m, nil, false, s)

	st := dev.State()
	if !st.BlendEnabled[0] {
		t.Fatal("blending disabled")
	}
	if st.BlendFunc[0] != alphaBlend {
		t.Errorf("blend func = %+v, want src-alpha/one-minus-src-alpha", st.BlendFunc[0])
	}
	if st.BlendEquation[0] != gputypes.BlendOperationAdd {
		t.Errorf("blend equation = %v, want add", st.BlendEquation[0])
	}
	if st.Combiners[0].Alpha != gpucore.CombineReplace || st.Combiners[0].AlphaArg1 != gpucore.SourceTexture {
		t.Errorf("stage 0 alpha = %+v, want texture alpha", st.Combiners[0])
	}

	r.OnUnsetMaterial(s)
	if dev.State().BlendEnabled[0] {
		t.Error("blending still enabled after OnUnsetMaterial")
	}
}

func TestFixed_BlendOperationOverride(t *testing.T) {
	s, dev := newServices(t)
	m := Default()
	m.Type = TransparentAddColor
	m.BlendOperation = gputypes.BlendOperationReverseSubtract

	NewRegistry().Get(m.Type).OnSetMaterial(&m, nil, false, s)

	if got := dev.State().BlendEquation[0]; got != gputypes.BlendOperationReverseSubtract {
		t.Errorf("blend equation = %v, want reverse-subtract", got)
	}
	want := gpucore.NewBlendFunc(gputypes.BlendFactorOne, gputypes.BlendFactorOneMinusSrc)
	if got := dev.State().BlendFunc[0]; got != want {
		t.Errorf("blend func = %+v, want %+v", got, want)
	}
}

func TestFixed_AlphaRef(t *testing.T) {
	tests := []struct {
		param float32
		want  float32
	}{
		{0, DefaultAlphaRef},
		{0.25, 0.25},
		{1, 1},
		{3, DefaultAlphaRef},
		{-1, DefaultAlphaRef},
	}
	r := NewRegistry().Get(TransparentAlphaChannelRef)
	for _, tt := range tests {
		s, dev := newServices(t)
		m := Default()
		m.Type = TransparentAlphaChannelRef
		m.Param = tt.param

		r.OnSetMaterial(&m, nil, false, s)
		if got := s.Constants().AlphaRef; got != tt.want {
			t.Errorf("Param %v: AlphaRef = %v, want %v", tt.param, got, tt.want)
		}
		if dev.State().BlendEnabled[0] {
			t.Errorf("Param %v: alpha-ref technique enabled blending", tt.param)
		}
		r.OnUnsetMaterial(s)
		if got := s.Constants().AlphaRef; got != 0 {
			t.Errorf("AlphaRef after unset = %v, want 0", got)
		}
	}
}

func TestFixed_LightmapScale(t *testing.T) {
	tests := []struct {
		typ   Type
		op    gpucore.CombineOp
		scale uint8
		lit   bool
	}{
		{Lightmap, gpucore.CombineModulate, 1, false},
		{LightmapAdd, gpucore.CombineAdd, 1, false},
		{LightmapM2, gpucore.CombineModulate, 2, false},
		{LightmapM4, gpucore.CombineModulate, 4, false},
		{LightmapLighting, gpucore.CombineModulate, 1, true},
		{LightmapLightingM4, gpucore.CombineModulate, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			s, dev := newServices(t)
			m := Default()
			m.Type = tt.typ
			NewRegistry().Get(tt.typ).OnSetMaterial(&m, nil, true, s)

			st := dev.State()
			if st.Combiners[1].Color != tt.op || st.Combiners[1].Scale != tt.scale {
				t.Errorf("stage 1 = %+v, want op %d scale %d", st.Combiners[1], tt.op, tt.scale)
			}
			wantFirst := texReplace
			if tt.lit {
				wantFirst = texModDiffuse
			}
			if st.Combiners[0] != wantFirst {
				t.Errorf("stage 0 = %+v, want %+v", st.Combiners[0], wantFirst)
			}
		})
	}
}

func TestFixed_UnsetDisablesSecondStage(t *testing.T) {
	s, dev := newServices(t)
	m := Default()
	m.Type = DetailMap
	r := NewRegistry().Get(m.Type)

	r.OnSetMaterial(&m, nil, true, s)
	r.OnUnsetMaterial(s)

	if got := dev.State().Combiners[1]; got != gpucore.DisabledCombiner {
		t.Errorf("stage 1 after unset = %+v, want disabled", got)
	}
}

func TestFixed_OnRenderPushesConstants(t *testing.T) {
	s, dev := newServices(t)
	r := NewRegistry().Get(Solid)
	for i := 0; i < 3; i++ {
		if !r.OnRender(s) {
			t.Fatal("OnRender() = false")
		}
	}
	if got := dev.Calls("SetFrameConstants"); got != 3 {
		t.Errorf("SetFrameConstants calls = %d, want 3", got)
	}
}

func TestOneTextureBlend(t *testing.T) {
	s, dev := newServices(t)
	m := Default()
	m.Type = OneTextureBlend
	m.Param = PackBlend(gputypes.BlendFactorOne, gputypes.BlendFactorOne, Modulate2X, AlphaSourceVertexColor)

	NewRegistry().Get(m.Type).OnSetMaterial(&m, nil, true, s)

	st := dev.State()
	if !st.BlendEnabled[0] {
		t.Fatal("blending disabled")
	}
	if want := gpucore.NewBlendFunc(gputypes.BlendFactorOne, gputypes.BlendFactorOne); st.BlendFunc[0] != want {
		t.Errorf("blend func = %+v, want one/one", st.BlendFunc[0])
	}
	if st.Combiners[0].Scale != 2 {
		t.Errorf("stage 0 scale = %d, want 2", st.Combiners[0].Scale)
	}
	if st.Combiners[0].AlphaArg1 != gpucore.SourceDiffuse {
		t.Errorf("stage 0 alpha source = %v, want diffuse", st.Combiners[0].AlphaArg1)
	}
}

func TestOneTextureBlend_MissingFactors(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	s, dev := newServices(t)
	m := Default()
	m.Type = OneTextureBlend

	NewRegistry().Get(m.Type).OnSetMaterial(&m, nil, true, s)

	if got := dev.State().BlendFunc[0]; got != alphaBlend {
		t.Errorf("blend func = %+v, want alpha blending fallback", got)
	}
	if !strings.Contains(buf.String(), "without blend factors") {
		t.Errorf("log = %q, want warning", buf.String())
	}
}
