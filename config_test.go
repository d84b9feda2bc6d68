package g3d

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/recording"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(`
backend = "recording"
retain_images = true
scratch_cache_size = 2

[caps]
max_texture_size = 128
npot = false
mipmap_mode = "legacy"
`)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Backend != "recording" || !cfg.RetainImages || cfg.ScratchCacheSize != 2 {
		t.Errorf("ParseConfig() = %+v", cfg)
	}
	if !cfg.MipMaps {
		t.Error("MipMaps = false, unset keys keep their defaults")
	}
	if cfg.Caps == nil || cfg.Caps.MaxTextureSize != 128 || cfg.Caps.NPOT == nil || *cfg.Caps.NPOT {
		t.Errorf("Caps = %+v", cfg.Caps)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"syntax", `backend = `, "parse config"},
		{"mipmap mode", "[caps]\nmipmap_mode = \"sometimes\"", "unknown mipmap_mode"},
		{"negative cache", `scratch_cache_size = -1`, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(tt.text)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseConfig() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestParseConfig_UnknownKeys(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	if _, err := ParseConfig("backend = \"opengl\"\nvsync = true"); err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if !strings.Contains(buf.String(), "unknown config keys") || !strings.Contains(buf.String(), "vsync") {
		t.Errorf("log = %q, want unknown key warning", buf.String())
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g3d.toml")
	if err := os.WriteFile(path, []byte("debug_checks = true\nmipmaps = false\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.DebugChecks || cfg.MipMaps {
		t.Errorf("LoadConfig() = %+v", cfg)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadConfig(missing) error = nil")
	}
}

func TestConfig_Write(t *testing.T) {
	npot := true
	want := Config{
		Backend:      "recording",
		MipMaps:      true,
		RetainImages: true,
		Caps:         &CapsConfig{TextureUnits: 2, NPOT: &npot, MipmapMode: "none"},
	}
	var buf bytes.Buffer
	if err := want.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := ParseConfig(buf.String())
	if err != nil {
		t.Fatalf("ParseConfig(Write()) error = %v\n%s", err, buf.String())
	}
	if got.Backend != want.Backend || got.RetainImages != want.RetainImages || got.Caps == nil ||
		got.Caps.TextureUnits != 2 || got.Caps.MipmapMode != "none" || got.Caps.NPOT == nil || !*got.Caps.NPOT {
		t.Errorf("round trip = %+v (caps %+v), want %+v", got, got.Caps, want)
	}
}

func TestCapsConfig_Apply(t *testing.T) {
	base := recording.DefaultCaps()
	off := false

	tests := []struct {
		name  string
		cfg   *CapsConfig
		check func(gpucore.Caps) bool
	}{
		{"nil", nil, func(c gpucore.Caps) bool { return c == base }},
		{"zero", &CapsConfig{}, func(c gpucore.Caps) bool { return c.MaxTextureSize == base.MaxTextureSize }},
		{"size", &CapsConfig{MaxTextureSize: 64}, func(c gpucore.Caps) bool { return c.MaxTextureSize == 64 }},
		{"units", &CapsConfig{TextureUnits: 2}, func(c gpucore.Caps) bool { return c.MaxTextureUnits == 2 }},
		{"attachments", &CapsConfig{MaxColorAttachments: 1}, func(c gpucore.Caps) bool { return c.MaxColorAttachments == 1 }},
		{"npot", &CapsConfig{NPOT: &off}, func(c gpucore.Caps) bool { return !c.NPOT }},
		{"read pixels", &CapsConfig{ReadPixels: &off}, func(c gpucore.Caps) bool { return !c.ReadPixels }},
		{"mipmap none", &CapsConfig{MipmapMode: "None"}, func(c gpucore.Caps) bool { return c.MipmapMode == gpucore.MipmapNone }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Apply(base); !tt.check(got) {
				t.Errorf("Apply() = %+v", got)
			}
		})
	}
}
