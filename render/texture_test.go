// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
	"github.com/gogpu/g3d/recording"
)

func TestImageSize(t *testing.T) {
	tests := []struct {
		name string
		orig image.Size
		max  int
		npot bool
		want image.Size
	}{
		{"fits", image.Size{Width: 64, Height: 32}, 256, true, image.Size{Width: 64, Height: 32}},
		{"wide clamp", image.Size{Width: 257, Height: 100}, 256, true, image.Size{Width: 256, Height: 99}},
		{"tall clamp", image.Size{Width: 100, Height: 257}, 256, true, image.Size{Width: 99, Height: 256}},
		{"square clamp", image.Size{Width: 1000, Height: 1000}, 256, true, image.Size{Width: 256, Height: 256}},
		{"wide clamp pot", image.Size{Width: 257, Height: 100}, 256, false, image.Size{Width: 256, Height: 128}},
		{"pot round up", image.Size{Width: 3, Height: 5}, 256, false, image.Size{Width: 4, Height: 8}},
		{"pot already", image.Size{Width: 64, Height: 1}, 256, false, image.Size{Width: 64, Height: 1}},
		{"pot odd max", image.Size{Width: 300, Height: 300}, 200, false, image.Size{Width: 128, Height: 128}},
		{"thin never zero", image.Size{Width: 4096, Height: 1}, 256, true, image.Size{Width: 256, Height: 1}},
		{"no limit", image.Size{Width: 5000, Height: 3}, 0, true, image.Size{Width: 5000, Height: 3}},
		{"empty", image.Size{Width: 0, Height: 10}, 256, true, image.Size{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := gpucore.Caps{MaxTextureSize: tt.max, NPOT: tt.npot}
			got := ImageSize(tt.orig, caps)
			if got != tt.want {
				t.Errorf("ImageSize(%v) = %v, want %v", tt.orig, got, tt.want)
			}
			if again := ImageSize(tt.orig, caps); again != got {
				t.Errorf("ImageSize(%v) not deterministic: %v then %v", tt.orig, got, again)
			}
		})
	}
}

func TestNewTexture_ClampsToMaxSize(t *testing.T) {
	c, dev := newTestCache(t, func(caps *gpucore.Caps) { caps.MaxTextureSize = 256 })

	tex := c.NewTexture("wide", []*image.Buf{patternImage(t, 257, 100, image.FormatA8R8G8B8)}, TextureOptions{})

	want := image.Size{Width: 256, Height: 100 * 256 / 257}
	if tex.Size() != want {
		t.Errorf("Size() = %v, want %v", tex.Size(), want)
	}
	if got := (image.Size{Width: 257, Height: 100}); tex.OriginalSize() != got {
		t.Errorf("OriginalSize() = %v, want %v", tex.OriginalSize(), got)
	}
	if got := len(dev.TextureLevel(tex.Handle(), 0, 0)); got != 256*99*4 {
		t.Errorf("uploaded level 0 = %d bytes, want %d", got, 256*99*4)
	}
	if tex.Pitch() != 256*4 {
		t.Errorf("Pitch() = %d, want %d", tex.Pitch(), 256*4)
	}
}

func TestNewTexture_InvalidInput(t *testing.T) {
	img := patternImage(t, 4, 4, image.FormatA8R8G8B8)
	small := patternImage(t, 2, 2, image.FormatA8R8G8B8)

	tests := []struct {
		name   string
		images []*image.Buf
	}{
		{"none", nil},
		{"nil image", []*image.Buf{nil}},
		{"three images", []*image.Buf{img, img, img}},
		{"cube size mismatch", []*image.Buf{img, img, img, small, img, img}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := captureLog(t)
			c, dev := newTestCache(t, nil)

			tex := c.NewTexture(tt.name, tt.images, TextureOptions{})

			if tex.Valid() {
				t.Error("Valid() = true for invalid input")
			}
			if !tex.Size().Empty() {
				t.Errorf("Size() = %v, want empty", tex.Size())
			}
			if got := dev.Calls("CreateTexture"); got != 0 {
				t.Errorf("CreateTexture calls = %d, want 0", got)
			}
			if got := strings.Count(log.String(), "invalid texture image"); got != 1 {
				t.Errorf("warnings = %d, want 1", got)
			}
			// An unusable texture is still a safe handle.
			if tex.Lock(LockReadOnly, 0, 0) != nil {
				t.Error("Lock() on unusable texture != nil")
			}
			tex.Drop()
		})
	}
}

func TestNewTexture_FormatFallback(t *testing.T) {
	log := captureLog(t)
	dev := refusingDevice{Device: recording.NewDefault(), refuse: image.FormatR5G6B5}
	c := NewStateCache(dev, Options{})

	tex := c.NewTexture("565", []*image.Buf{patternImage(t, 4, 4, image.FormatR5G6B5)}, TextureOptions{})

	if !tex.Valid() {
		t.Fatal("Valid() = false, want fallback texture")
	}
	if tex.Format() != image.FormatA8R8G8B8 {
		t.Errorf("Format() = %v, want A8R8G8B8", tex.Format())
	}
	if got := len(dev.TextureLevel(tex.Handle(), 0, 0)); got != 4*4*4 {
		t.Errorf("uploaded %d bytes, want %d", got, 4*4*4)
	}
	if !strings.Contains(log.String(), "converting to A8R8G8B8") {
		t.Errorf("log = %q, want fallback warning", log.String())
	}
}

func TestNewTexture_Converter(t *testing.T) {
	dev := swizzleDevice{recording.NewDefault()}
	c := NewStateCache(dev, Options{})
	img, _ := image.NewBuf(1, 1, image.FormatA8R8G8B8)
	copy(img.Data(), []byte{1, 2, 3, 4}) // B, G, R, A

	tex := c.NewTexture("px", []*image.Buf{img}, TextureOptions{})

	if got := dev.TextureLevel(tex.Handle(), 0, 0); !bytes.Equal(got, []byte{3, 2, 1, 4}) {
		t.Errorf("uploaded = %v, want R,G,B,A [3 2 1 4]", got)
	}
	if !bytes.Equal(img.Data(), []byte{1, 2, 3, 4}) {
		t.Errorf("source modified: %v", img.Data())
	}

	buf := tex.Lock(LockReadOnly, 0, 0)
	if buf == nil {
		t.Fatal("Lock() = nil")
	}
	if !bytes.Equal(buf.Data(), []byte{1, 2, 3, 4}) {
		t.Errorf("read back = %v, want [1 2 3 4]", buf.Data())
	}
	tex.Unlock()
}

func TestNewTexture_Mipmaps(t *testing.T) {
	tests := []struct {
		name       string
		mode       gpucore.MipmapMode
		wantMips   bool
		wantGen    int
		wantAuto   int
		wantLevels int
	}{
		{"modern", gpucore.MipmapModern, true, 1, 0, 4},
		{"legacy", gpucore.MipmapLegacy, true, 0, 1, 4},
		{"none", gpucore.MipmapNone, false, 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, dev := newTestCache(t, func(caps *gpucore.Caps) { caps.MipmapMode = tt.mode })

			tex := newTestTexture(t, c, "m", 8, 8, TextureOptions{MipMaps: true})

			if tex.HasMipMaps() != tt.wantMips {
				t.Errorf("HasMipMaps() = %v, want %v", tex.HasMipMaps(), tt.wantMips)
			}
			if got := dev.Calls("GenerateMipmaps"); got != tt.wantGen {
				t.Errorf("GenerateMipmaps calls = %d, want %d", got, tt.wantGen)
			}
			if got := dev.Calls("SetAutoMipmap"); got != tt.wantAuto {
				t.Errorf("SetAutoMipmap calls = %d, want %d", got, tt.wantAuto)
			}
			if got := dev.TextureLevels(tex.Handle()); got != tt.wantLevels {
				t.Errorf("device levels = %d, want %d", got, tt.wantLevels)
			}
		})
	}
}

func TestNewTexture_ExplicitMipData(t *testing.T) {
	c, dev := newTestCache(t, func(caps *gpucore.Caps) { caps.MipmapMode = gpucore.MipmapNone })
	img := patternImage(t, 8, 4, image.FormatA8R8G8B8)
	img.SetMipData(image.GenerateMipChain(img).Packed())

	tex := c.NewTexture("explicit", []*image.Buf{img}, TextureOptions{MipMaps: true})

	if !tex.HasMipMaps() {
		t.Fatal("HasMipMaps() = false with embedded mip data")
	}
	// 8x4, 4x2, 2x1, 1x1
	if got := dev.TextureLevels(tex.Handle()); got != 4 {
		t.Errorf("device levels = %d, want 4", got)
	}
	if got := dev.Calls("UploadTexture"); got != 4 {
		t.Errorf("UploadTexture calls = %d, want 4", got)
	}
}

func TestNewTexture_RestoresUnitZero(t *testing.T) {
	c, dev := newTestCache(t, nil)
	a := newTestTexture(t, c, "a", 4, 4, TextureOptions{})
	c.Units().Set(0, a)

	b := newTestTexture(t, c, "b", 4, 4, TextureOptions{})

	if c.Units().Get(0) != a {
		t.Error("unit 0 not restored after upload")
	}
	if got := dev.Bound(0, gpucore.TextureKind2D); got != a.Handle() {
		t.Errorf("device unit 0 = %d, want %d", got, a.Handle())
	}
	if a.RefCount() != 2 || b.RefCount() != 1 {
		t.Errorf("RefCount() = %d, %d, want 2, 1", a.RefCount(), b.RefCount())
	}
}

func TestNewTexture_UploadWhileLocked(t *testing.T) {
	c, dev := newTestCache(t, nil)
	c.Lock()
	defer c.Unlock()

	tex := newTestTexture(t, c, "locked", 4, 4, TextureOptions{})

	if got := dev.Uploads(tex.Handle()); got != 1 {
		t.Errorf("Uploads() = %d, want 1", got)
	}
	if got := dev.Bound(0, gpucore.TextureKind2D); got != gpucore.InvalidID {
		t.Errorf("device unit 0 = %d, want restored null binding", got)
	}
}

func TestNewTexture_Compressed(t *testing.T) {
	c, dev := newTestCache(t, func(caps *gpucore.Caps) { caps.MaxTextureSize = 8 })
	img := patternImage(t, 8, 8, image.FormatDXT1)

	tex := c.NewTexture("dxt", []*image.Buf{img}, TextureOptions{RetainImage: true, MipMaps: true})

	if !tex.IsCompressed() || !tex.Valid() {
		t.Fatalf("IsCompressed() = %v, Valid() = %v", tex.IsCompressed(), tex.Valid())
	}
	if tex.HasMipMaps() {
		t.Error("HasMipMaps() = true, compressed textures have no generated mips")
	}
	if tex.images != nil {
		t.Error("compressed texture retained its image")
	}
	if got := dev.Calls("UploadCompressedTexture"); got != 1 {
		t.Errorf("UploadCompressedTexture calls = %d, want 1", got)
	}

	big := c.NewTexture("big", []*image.Buf{patternImage(t, 16, 16, image.FormatDXT1)}, TextureOptions{})
	if big.Valid() {
		t.Error("oversized compressed texture is valid")
	}
}

func TestNewRenderTargetTexture(t *testing.T) {
	c, dev := newTestCache(t, func(caps *gpucore.Caps) { caps.NPOT = false })

	tex := c.NewRenderTargetTexture("rtt", image.Size{Width: 300, Height: 200}, image.FormatUnknown, nil)

	if !tex.IsRenderTarget() {
		t.Error("IsRenderTarget() = false")
	}
	if got := (image.Size{Width: 300, Height: 200}); tex.Size() != got {
		t.Errorf("Size() = %v, want %v (no power-of-two rounding)", tex.Size(), got)
	}
	if tex.Format() != image.FormatA8R8G8B8 {
		t.Errorf("Format() = %v, want backbuffer format", tex.Format())
	}
	if tex.HasMipMaps() {
		t.Error("HasMipMaps() = true")
	}
	if got := dev.Calls("CreateTexture"); got != 1 {
		t.Errorf("CreateTexture calls = %d, want 1", got)
	}
}

func TestTexture_DestroyOnce(t *testing.T) {
	c, dev := newTestCache(t, nil)
	released := 0
	tex := newTestTexture(t, c, "t", 4, 4, TextureOptions{OnRelease: func(*Texture) { released++ }})
	h := tex.Handle()

	tex.Grab()
	if tex.Drop() {
		t.Fatal("Drop() with two holders destroyed the texture")
	}
	if !tex.Drop() {
		t.Fatal("last Drop() did not destroy the texture")
	}
	tex.Drop()

	if dev.HasTexture(h) {
		t.Error("native texture still alive")
	}
	if got := dev.Calls("DeleteTexture"); got != 1 {
		t.Errorf("DeleteTexture calls = %d, want 1", got)
	}
	if released != 1 {
		t.Errorf("OnRelease calls = %d, want 1", released)
	}
	if tex.Valid() {
		t.Error("Valid() = true after destruction")
	}
}
