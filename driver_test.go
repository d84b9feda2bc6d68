package g3d

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/g3d/backend"
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
	"github.com/gogpu/g3d/material"
	"github.com/gogpu/g3d/recording"
	"github.com/gogpu/g3d/render"
	"github.com/gogpu/gputypes"
)

func TestNewDriver_NoDevice(t *testing.T) {
	if _, err := NewDriver(nil); !errors.Is(err, ErrNoDevice) {
		t.Errorf("NewDriver(nil) error = %v, want ErrNoDevice", err)
	}
}

func TestOpen(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = backend.Recording
	cfg.Caps = &CapsConfig{MaxTextureSize: 256, MipmapMode: "legacy"}

	d, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer d.Close()

	if got := d.Caps().MaxTextureSize; got != 256 {
		t.Errorf("MaxTextureSize = %d, want 256", got)
	}
	if got := d.Caps().MipmapMode; got != gpucore.MipmapLegacy {
		t.Errorf("MipmapMode = %v, want legacy", got)
	}
	if d.Backend() != gpucore.BackendRecording {
		t.Errorf("Backend() = %v, want recording", d.Backend())
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "vulkan"
	if _, err := Open(cfg); !errors.Is(err, backend.ErrBackendNotAvailable) {
		t.Errorf("Open() error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestDriver_AddTexture(t *testing.T) {
	d, _ := newTestDriver(t, nil)

	if _, err := d.AddTexture("nil", nil); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("AddTexture(nil) error = %v, want ErrInvalidImage", err)
	}

	img := testImage(t, 16, 16, image.FormatA8R8G8B8)
	a, err := d.AddTexture("a", img)
	if err != nil {
		t.Fatalf("AddTexture() error = %v", err)
	}
	again, err := d.AddTexture("a", testImage(t, 4, 4, image.FormatA8R8G8B8))
	if err != nil || again != a {
		t.Errorf("AddTexture(existing) = %p, %v, want the existing texture", again, err)
	}
	if got := d.TextureCount(); got != 1 {
		t.Errorf("TextureCount() = %d, want 1", got)
	}
	if got, err := d.Texture("a"); err != nil || got != a {
		t.Errorf("Texture(a) = %p, %v", got, err)
	}
	if _, err := d.Texture("b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Texture(b) error = %v, want ErrNotFound", err)
	}
	if !a.HasMipMaps() {
		t.Error("HasMipMaps() = false, mip maps are on by default")
	}
}

func TestDriver_AddTexture_Options(t *testing.T) {
	d, dev := newTestDriver(t, nil, WithMipMaps(false), WithRetainImages(true))
	tex, err := d.AddTexture("plain", testImage(t, 8, 8, image.FormatA8R8G8B8))
	if err != nil {
		t.Fatalf("AddTexture() error = %v", err)
	}
	if tex.HasMipMaps() {
		t.Error("HasMipMaps() = true with WithMipMaps(false)")
	}
	dev.ResetCalls()
	if tex.Lock(render.LockReadOnly, 0, 0) == nil {
		t.Fatal("Lock() = nil")
	}
	tex.Unlock()
	if got := dev.Calls("ReadPixels"); got != 0 {
		t.Errorf("ReadPixels calls = %d, retained image should serve the lock", got)
	}
}

func TestDriver_AddTexture_Unsupported(t *testing.T) {
	d, _ := newTestDriver(t, func(c *gpucore.Caps) { c.S3TC = false })
	_, err := d.AddTexture("dxt", testImage(t, 8, 8, image.FormatDXT1))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("AddTexture(DXT1) error = %v, want ErrUnsupportedFormat", err)
	}
	if d.TextureCount() != 0 {
		t.Errorf("TextureCount() = %d, want 0", d.TextureCount())
	}
}

func TestDriver_AddCubeTexture(t *testing.T) {
	d, _ := newTestDriver(t, nil)
	faces := make([]*image.Buf, 6)
	for i := range faces {
		faces[i] = testImage(t, 8, 8, image.FormatA8R8G8B8)
	}
	if _, err := d.AddCubeTexture("short", faces[:5]); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("AddCubeTexture(5 faces) error = %v, want ErrInvalidImage", err)
	}
	cube, err := d.AddCubeTexture("sky", faces)
	if err != nil {
		t.Fatalf("AddCubeTexture() error = %v", err)
	}
	if cube.Kind() != gpucore.TextureKindCube {
		t.Errorf("Kind() = %v, want cube", cube.Kind())
	}
}

func TestDriver_RemoveTexture(t *testing.T) {
	d, dev := newTestDriver(t, nil)
	tex, err := d.AddRenderTargetTexture(image.Size{Width: 32, Height: 32}, "rtt", image.FormatUnknown)
	if err != nil {
		t.Fatalf("AddRenderTargetTexture() error = %v", err)
	}
	h := tex.Handle()
	rt, err := d.AddRenderTarget()
	if err != nil {
		t.Fatalf("AddRenderTarget() error = %v", err)
	}
	rt.SetTexture(tex, nil)
	if err := d.SetRenderTarget(rt, 0, gputypes.Color{}); err != nil {
		t.Fatalf("SetRenderTarget() error = %v", err)
	}
	m := material.Default()
	m.SetTexture(0, tex)
	d.SetMaterial(m)
	d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 3)
	if d.Cache().Units().Get(0) != tex {
		t.Fatal("texture not bound by the draw")
	}

	if err := d.RemoveTexture(tex); err != nil {
		t.Fatalf("RemoveTexture() error = %v", err)
	}

	if got := dev.Calls("DeleteTexture"); got != 1 {
		t.Errorf("DeleteTexture calls = %d, want 1", got)
	}
	if dev.HasTexture(h) {
		t.Error("native texture still alive")
	}
	if d.Cache().Units().Get(0) != nil {
		t.Error("unit 0 still holds the removed texture")
	}
	if rt.Texture(0) != nil {
		t.Error("render target still holds the removed texture")
	}
	if m := d.Material(); m.Texture(0) != nil {
		t.Error("pending material still refers to the removed texture")
	}
	if _, err := d.Texture("rtt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Texture(rtt) error = %v, want ErrNotFound", err)
	}

	// The next draw must not bind anything stale.
	if !d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 3) {
		t.Error("draw after removal failed")
	}
}

func TestDriver_DroppedTextureUnregisters(t *testing.T) {
	d, dev := newTestDriver(t, nil)
	tex, err := d.AddTexture("a", testImage(t, 4, 4, image.FormatA8R8G8B8))
	if err != nil {
		t.Fatalf("AddTexture() error = %v", err)
	}
	m := material.Default()
	m.SetTexture(0, tex)
	d.SetMaterial(m)

	if !tex.Drop() {
		t.Fatal("Drop() = false, the driver held the only reference")
	}
	if got := d.TextureCount(); got != 0 {
		t.Errorf("TextureCount() = %d, want 0", got)
	}
	if _, err := d.Texture("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Texture(a) error = %v, want ErrNotFound", err)
	}
	if m := d.Material(); m.Texture(0) != nil {
		t.Error("pending material still refers to the dropped texture")
	}

	again, err := d.AddTexture("a", testImage(t, 4, 4, image.FormatA8R8G8B8))
	if err != nil {
		t.Fatalf("second AddTexture() error = %v", err)
	}
	if again == tex || !again.Valid() {
		t.Errorf("second AddTexture() returned the destroyed texture (same=%v, valid=%v)", again == tex, again.Valid())
	}
	if got := dev.Calls("DeleteTexture"); got != 1 {
		t.Errorf("DeleteTexture calls = %d, want 1", got)
	}
}

func TestDriver_DroppedRenderTargetUnregisters(t *testing.T) {
	d, dev := newTestDriver(t, nil)
	rt, err := d.AddRenderTarget()
	if err != nil {
		t.Fatalf("AddRenderTarget() error = %v", err)
	}
	if err := d.SetRenderTarget(rt, 0, gputypes.Color{}); err != nil {
		t.Fatalf("SetRenderTarget() error = %v", err)
	}

	if !rt.Drop() {
		t.Fatal("Drop() = false, the driver held the only reference")
	}
	if got := d.RenderTargetCount(); got != 0 {
		t.Errorf("RenderTargetCount() = %d, want 0", got)
	}
	if d.RenderTarget() != nil {
		t.Error("RenderTarget() still returns the dropped render target")
	}
	if got := d.Cache().Framebuffer(); got != gpucore.InvalidID {
		t.Errorf("Framebuffer() = %d, want 0", got)
	}
	if got := dev.LiveFramebuffers(); got != 0 {
		t.Errorf("LiveFramebuffers() = %d, want 0", got)
	}
	if err := d.RemoveRenderTarget(rt); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveRenderTarget() error = %v, want ErrNotFound", err)
	}
}

func TestDriver_RemoveTexture_Errors(t *testing.T) {
	d, _ := newTestDriver(t, nil)
	other := render.NewStateCache(foreignDevice{recording.NewDefault()}, render.Options{})
	foreign := other.NewTexture("x", []*image.Buf{testImage(t, 4, 4, image.FormatA8R8G8B8)}, render.TextureOptions{})
	local := d.Cache().NewTexture("x", []*image.Buf{testImage(t, 4, 4, image.FormatA8R8G8B8)}, render.TextureOptions{})

	if err := d.RemoveTexture(foreign); !errors.Is(err, ErrBackendMismatch) {
		t.Errorf("RemoveTexture(foreign) error = %v, want ErrBackendMismatch", err)
	}
	if err := d.RemoveTexture(local); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveTexture(unowned) error = %v, want ErrNotFound", err)
	}
	if err := d.RemoveTexture(nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveTexture(nil) error = %v, want ErrNotFound", err)
	}
}

func TestDriver_MaterialProtocol(t *testing.T) {
	d, _ := newTestDriver(t, nil)
	a, b := &countingRenderer{}, &countingRenderer{}
	ta := d.materials.Add("a", a)
	tb := d.materials.Add("b", b)

	m := material.Default()
	m.Type = ta
	d.SetMaterial(m)
	for i := 0; i < 3; i++ {
		d.SetMaterial(m)
		d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 3)
	}
	if a.set != 1 || a.render != 3 {
		t.Errorf("same material: set=%d render=%d, want 1 and 3", a.set, a.render)
	}
	if !a.lastWasNil || a.resets != 1 {
		t.Errorf("first set: last nil=%v resets=%d, want true and 1", a.lastWasNil, a.resets)
	}

	m.Lighting = !m.Lighting
	d.SetMaterial(m)
	d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 3)
	if a.set != 2 || a.unset != 0 {
		t.Errorf("changed material: set=%d unset=%d, want 2 and 0", a.set, a.unset)
	}
	if a.lastWasNil {
		t.Error("second set received a nil last material")
	}

	m.Type = tb
	d.SetMaterial(m)
	d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 3)
	if a.unset != 1 || b.set != 1 {
		t.Errorf("type switch: a.unset=%d b.set=%d, want 1 and 1", a.unset, b.set)
	}

	d.ResetMaterial()
	d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 3)
	if b.set != 2 || b.resets != 1 {
		t.Errorf("after reset: set=%d resets=%d, want 2 and 1", b.set, b.resets)
	}
	if b.unset != 0 {
		t.Errorf("reset unset the active renderer %d times", b.unset)
	}
}

func TestDriver_DrawPrimitives(t *testing.T) {
	d, dev := newTestDriver(t, nil)
	tex, _ := d.AddTexture("t", testImage(t, 8, 8, image.FormatA8R8G8B8))
	m := material.Default()
	m.SetTexture(0, tex)
	d.SetMaterial(m)

	if d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 0) {
		t.Error("empty draw reported as submitted")
	}
	if !d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 3) {
		t.Fatal("DrawPrimitives() = false")
	}

	dev.ResetCalls()
	d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 3, 3)
	if got, want := dev.TotalCalls(), 2; got != want {
		t.Errorf("repeat draw issued %d calls (%v), want %d (constants + draw)", got, dev.Ops(), want)
	}
	if got := dev.State().Draws; got != 2 {
		t.Errorf("Draws = %d, want 2", got)
	}
}

func TestDriver_UnknownMaterialDrawsSolid(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { SetLogger(nil) })

	d, dev := newTestDriver(t, nil)
	m := material.Default()
	m.Type = material.Type(999)
	d.SetMaterial(m)

	if !d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 3) {
		t.Fatal("DrawPrimitives() = false")
	}
	if dev.State().Draws != 1 {
		t.Error("nothing drawn")
	}
	if !strings.Contains(buf.String(), "unknown material type") {
		t.Errorf("log = %q, want warning", buf.String())
	}
}

func TestDriver_TransparentDepthWrite(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		typ   material.Type
		write bool
	}{
		{"solid", nil, material.Solid, true},
		{"transparent", nil, material.TransparentAlphaChannel, false},
		{"transparent allowed", []Option{WithDepthWriteOnTransparent(true)}, material.TransparentAlphaChannel, true},
		{"alpha ref is opaque", nil, material.TransparentAlphaChannelRef, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, dev := newTestDriver(t, nil, tt.opts...)
			m := material.Default()
			m.Type = tt.typ
			d.SetMaterial(m)
			d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 3)

			if got := dev.State().DepthMask; got != tt.write {
				t.Errorf("DepthMask = %v, want %v", got, tt.write)
			}
		})
	}
}

func TestDriver_BasicRenderStates(t *testing.T) {
	d, dev := newTestDriver(t, nil)
	m := material.Default()
	m.DepthFunc = gputypes.CompareFunctionUndefined
	m.BackfaceCulling = false
	m.FrontfaceCulling = true
	m.ColorMask = gputypes.ColorWriteMaskRed
	m.Fog = true
	d.SetMaterial(m)
	d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 3)

	st := dev.State()
	if st.DepthTest {
		t.Error("depth test on for CompareFunctionUndefined")
	}
	if !st.CullEnabled || st.CullFace != gputypes.CullModeFront {
		t.Errorf("cull = %v/%v, want front", st.CullEnabled, st.CullFace)
	}
	if st.ColorMask[0] != gputypes.ColorWriteMaskRed {
		t.Errorf("color mask = %v, want red", st.ColorMask[0])
	}
	if !st.Constants.FogEnabled || !st.Constants.Lighting {
		t.Errorf("constants fog=%v lighting=%v, want both on", st.Constants.FogEnabled, st.Constants.Lighting)
	}
}

func TestDriver_SetRenderTarget(t *testing.T) {
	d, dev := newTestDriver(t, nil)
	tex, err := d.AddRenderTargetTexture(image.Size{Width: 64, Height: 32}, "color", image.FormatA8R8G8B8)
	if err != nil {
		t.Fatalf("AddRenderTargetTexture() error = %v", err)
	}
	rt, _ := d.AddRenderTarget()
	rt.SetTexture(tex, nil)

	red := gputypes.Color{R: 1, A: 1}
	if err := d.SetRenderTarget(rt, gpucore.ClearColor|gpucore.ClearDepth, red); err != nil {
		t.Fatalf("SetRenderTarget() error = %v", err)
	}
	if got := d.Cache().Viewport(); got != (gpucore.Rect{Width: 64, Height: 32}) {
		t.Errorf("Viewport() = %v, want 64x32", got)
	}
	if got := dev.TextureLevel(tex.Handle(), 0, 0)[:4]; !bytes.Equal(got, []byte{0, 0, 255, 255}) {
		t.Errorf("cleared pixel = %v, want red", got)
	}
	if d.RenderTarget() != rt {
		t.Error("RenderTarget() is not the bound target")
	}

	shot, err := d.Screenshot()
	if err != nil {
		t.Fatalf("Screenshot() error = %v", err)
	}
	if shot.Size() != tex.Size() {
		t.Errorf("Screenshot size = %v, want %v", shot.Size(), tex.Size())
	}

	if err := d.SetRenderTarget(nil, 0, gputypes.Color{}); err != nil {
		t.Fatalf("SetRenderTarget(nil) error = %v", err)
	}
	if d.Cache().Framebuffer() != gpucore.InvalidID {
		t.Error("backbuffer not bound")
	}
	if got := d.Cache().Viewport(); got != (gpucore.Rect{Width: 640, Height: 480}) {
		t.Errorf("Viewport() = %v, want backbuffer", got)
	}
}

func TestDriver_SetRenderTarget_Errors(t *testing.T) {
	d, _ := newTestDriver(t, nil)
	other := render.NewStateCache(foreignDevice{recording.NewDefault()}, render.Options{})
	foreign := other.NewRenderTarget(nil)
	if err := d.SetRenderTarget(foreign, 0, gputypes.Color{}); !errors.Is(err, ErrBackendMismatch) {
		t.Errorf("SetRenderTarget(foreign) error = %v, want ErrBackendMismatch", err)
	}

	d.Cache().Lock()
	defer d.Cache().Unlock()
	if err := d.SetRenderTarget(nil, 0, gputypes.Color{}); !errors.Is(err, ErrLocked) {
		t.Errorf("SetRenderTarget() while locked error = %v, want ErrLocked", err)
	}
}

func TestDriver_RemoveRenderTarget(t *testing.T) {
	d, dev := newTestDriver(t, nil)
	rt, _ := d.AddRenderTarget()
	d.SetRenderTarget(rt, 0, gputypes.Color{})

	if err := d.RemoveRenderTarget(rt); err != nil {
		t.Fatalf("RemoveRenderTarget() error = %v", err)
	}
	if d.RenderTarget() != nil || d.Cache().Framebuffer() != gpucore.InvalidID {
		t.Error("removed render target still current")
	}
	if got := dev.LiveFramebuffers(); got != 0 {
		t.Errorf("LiveFramebuffers() = %d, want 0", got)
	}
	if err := d.RemoveRenderTarget(rt); !errors.Is(err, ErrNotFound) {
		t.Errorf("second RemoveRenderTarget() error = %v, want ErrNotFound", err)
	}
}

func TestDriver_Screenshot(t *testing.T) {
	d, dev := newTestDriver(t, nil)
	dev.Clear(gpucore.ClearColor, gputypes.Color{G: 1, A: 1}, 1, 0)
	shot, err := d.Screenshot()
	if err != nil {
		t.Fatalf("Screenshot() error = %v", err)
	}
	if got := shot.Data()[:4]; !bytes.Equal(got, []byte{0, 255, 0, 255}) {
		t.Errorf("pixel = %v, want green", got)
	}

	d2, _ := newTestDriver(t, func(c *gpucore.Caps) { c.ReadPixels = false })
	if _, err := d2.Screenshot(); !errors.Is(err, ErrNotSupported) {
		t.Errorf("Screenshot() error = %v, want ErrNotSupported", err)
	}
}

func TestDriver_AddShaderMaterial(t *testing.T) {
	d, dev := newTestDriver(t, nil)
	src := gpucore.ShaderSource{Label: "glow", Vertex: "v", Fragment: "f"}

	if _, err := d.AddShaderMaterial(src, nil, material.Type(999), 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown base error = %v, want ErrNotFound", err)
	}
	if _, err := d.AddShaderMaterial(gpucore.ShaderSource{}, nil, material.Solid, 0); !errors.Is(err, material.ErrProgram) {
		t.Errorf("empty source error = %v, want ErrProgram", err)
	}

	var calls []int
	cb := material.ShaderCallbackFunc(func(s material.Services, userData int) {
		calls = append(calls, userData)
		w := s.Constants().World
		s.SetUniform("uWorld", w[:]...)
	})
	typ, err := d.AddShaderMaterial(src, cb, material.TransparentAddColor, 42)
	if err != nil {
		t.Fatalf("AddShaderMaterial() error = %v", err)
	}
	if typ != material.BuiltinCount {
		t.Errorf("type = %d, want %d", typ, material.BuiltinCount)
	}
	if !d.MaterialRenderer(typ).IsTransparent() {
		t.Error("shader material did not inherit transparency from its base")
	}

	m := material.Default()
	m.Type = typ
	d.SetMaterial(m)
	d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 3)

	prog := d.Cache().Program()
	if prog == gpucore.InvalidID {
		t.Fatal("shader program not in use")
	}
	if len(calls) != 1 || calls[0] != 42 {
		t.Errorf("callback user data = %v, want [42]", calls)
	}
	if got := dev.Uniform(prog, "uWorld"); len(got) != 16 || got[0] != 1 {
		t.Errorf("uWorld = %v, want identity", got)
	}

	d.SetMaterial(material.Default())
	d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 3)
	if d.Cache().Program() != gpucore.InvalidID {
		t.Error("program still in use after switching to a built-in material")
	}
}

func TestDriver_TransformsAndLights(t *testing.T) {
	d, dev := newTestDriver(t, nil)
	w := gpucore.Identity
	w[12] = 5
	d.SetTransform(TransformWorld, w)
	if d.Transform(TransformWorld) != w || d.Transform(TransformView) != gpucore.Identity {
		t.Error("Transform() does not return what was set")
	}

	for i := 0; i < MaxLights; i++ {
		if got := d.AddLight(gpucore.Light{Kind: gpucore.LightPoint}); got != i {
			t.Fatalf("AddLight() = %d, want %d", got, i)
		}
	}
	if got := d.AddLight(gpucore.Light{}); got != -1 {
		t.Errorf("AddLight() beyond MaxLights = %d, want -1", got)
	}
	d.SetFog(gpucore.Fog{Mode: gpucore.FogExp, Density: 0.5})

	d.DrawPrimitives(gputypes.PrimitiveTopologyTriangleList, 0, 3)
	c := dev.State().Constants
	if c.World != w || len(c.Lights) != MaxLights || c.Fog.Density != 0.5 {
		t.Errorf("pushed constants = world %v, %d lights, fog %+v", c.World, len(c.Lights), c.Fog)
	}

	d.ClearLights()
	if d.LightCount() != 0 {
		t.Errorf("LightCount() = %d after ClearLights", d.LightCount())
	}
}

func TestDriver_Close(t *testing.T) {
	dev := recording.NewDefault()
	d, err := NewDriver(dev)
	if err != nil {
		t.Fatal(err)
	}
	tex, _ := d.AddTexture("t", testImage(t, 8, 8, image.FormatA8R8G8B8))
	rt, _ := d.AddRenderTarget()
	rt.SetTexture(tex, nil)
	d.SetRenderTarget(rt, 0, gputypes.Color{})
	d.AddShaderMaterial(gpucore.ShaderSource{Vertex: "v"}, nil, material.Solid, 0)

	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := dev.LiveTextures(); got != 0 {
		t.Errorf("LiveTextures() = %d, want 0", got)
	}
	if got := dev.LiveFramebuffers(); got != 0 {
		t.Errorf("LiveFramebuffers() = %d, want 0", got)
	}
	if got := dev.Calls("DeleteProgram"); got != 1 {
		t.Errorf("DeleteProgram calls = %d, want 1", got)
	}
	if _, err := d.AddTexture("u", testImage(t, 4, 4, image.FormatA8R8G8B8)); !errors.Is(err, ErrClosed) {
		t.Errorf("AddTexture() after Close error = %v, want ErrClosed", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
