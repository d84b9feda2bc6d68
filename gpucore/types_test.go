package gpucore

import (
	"testing"

	"github.com/gogpu/g3d/image"
)

func TestTriple_UploadFormat(t *testing.T) {
	tests := []struct {
		name   string
		triple Triple
		src    image.Format
		want   image.Format
	}{
		{"direct", Triple{}, image.FormatR5G6B5, image.FormatR5G6B5},
		{"converted", Triple{Convert: image.SwapRB32, Target: image.FormatA8R8G8B8}, image.FormatR8G8B8, image.FormatA8R8G8B8},
		{"converter without target", Triple{Convert: image.SwapRB32}, image.FormatA8R8G8B8, image.FormatA8R8G8B8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.triple.UploadFormat(tt.src); got != tt.want {
				t.Errorf("UploadFormat(%v) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestCaps_AutoMipmap(t *testing.T) {
	for _, m := range []MipmapMode{MipmapNone, MipmapLegacy, MipmapModern} {
		c := Caps{MipmapMode: m}
		if got, want := c.AutoMipmap(), m != MipmapNone; got != want {
			t.Errorf("Caps{MipmapMode: %v}.AutoMipmap() = %v, want %v", m, got, want)
		}
	}
}

func TestTextureKind_Faces(t *testing.T) {
	if got := TextureKind2D.Faces(); got != 1 {
		t.Errorf("TextureKind2D.Faces() = %d, want 1", got)
	}
	if got := TextureKindCube.Faces(); got != 6 {
		t.Errorf("TextureKindCube.Faces() = %d, want 6", got)
	}
}

func TestStrings(t *testing.T) {
	if got := BackendWGPU.String(); got != "wgpu" {
		t.Errorf("BackendWGPU.String() = %q", got)
	}
	if got := FramebufferIncompleteDimensions.String(); got != "mismatched dimensions" {
		t.Errorf("FramebufferIncompleteDimensions.String() = %q", got)
	}
	if got := MipmapLegacy.String(); got != "legacy" {
		t.Errorf("MipmapLegacy.String() = %q", got)
	}
}
