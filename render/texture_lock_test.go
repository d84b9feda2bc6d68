// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
	"github.com/gogpu/gputypes"
)

func TestTexture_WriteLockReuploadsAndRegenerates(t *testing.T) {
	c, dev := newTestCache(t, nil)
	tex := newTestTexture(t, c, "lockable", 8, 8, TextureOptions{RetainImage: true, MipMaps: true})
	h := tex.Handle()
	dev.ResetCalls()

	buf := tex.Lock(LockWriteOnly, 0, 0)
	if buf == nil {
		t.Fatal("Lock(write-only) = nil")
	}
	for i := range buf.Data() {
		buf.Data()[i] = 0xAB
	}
	tex.Unlock()

	if got := dev.Calls("UploadTexture"); got != 1 {
		t.Errorf("UploadTexture calls = %d, want 1", got)
	}
	if got := dev.Calls("GenerateMipmaps"); got != 1 {
		t.Errorf("GenerateMipmaps calls = %d, want 1", got)
	}
	if got := dev.TextureLevel(h, 0, 0); !bytes.Equal(got, buf.Data()) {
		t.Error("level 0 on device differs from written data")
	}
	if lvl1 := dev.TextureLevel(h, 0, 1); len(lvl1) == 0 || lvl1[0] != 0xAB {
		t.Errorf("level 1 not regenerated from new data: %v", lvl1)
	}

	dev.ResetCalls()
	again := tex.Lock(LockReadOnly, 0, 0)
	if again == nil {
		t.Fatal("Lock(read-only) = nil")
	}
	if !bytes.Equal(again.Data(), buf.Data()) {
		t.Error("read-only lock did not return the written data")
	}
	tex.Unlock()

	if got := dev.TotalCalls(); got != 0 {
		t.Errorf("read-only lock of retained image issued %d native calls (%v), want 0", got, dev.Ops())
	}
}

func TestTexture_LockReadBack(t *testing.T) {
	c, dev := newTestCache(t, nil)
	img := patternImage(t, 4, 2, image.FormatA8R8G8B8)
	tex := c.NewTexture("plain", []*image.Buf{img}, TextureOptions{})
	c.SetFramebuffer(gpucore.InvalidID)
	dev.ResetCalls()

	buf := tex.Lock(LockReadOnly, 0, 0)
	if buf == nil {
		t.Fatal("Lock(read-only) = nil")
	}
	if !bytes.Equal(buf.Data(), img.Data()) {
		t.Error("read-back data differs from uploaded image")
	}
	if got := dev.Calls("ReadPixels"); got != 1 {
		t.Errorf("ReadPixels calls = %d, want 1", got)
	}
	if c.Framebuffer() != gpucore.InvalidID {
		t.Errorf("Framebuffer() = %d after read-back, want restored 0", c.Framebuffer())
	}
	tex.Unlock()
	if got := dev.Calls("UploadTexture"); got != 0 {
		t.Errorf("read-only unlock uploaded %d times", got)
	}

	// A second read-back of the same size reuses the scratch framebuffer.
	tex.Lock(LockReadWrite, 0, 0)
	tex.Unlock()
	if got := dev.Calls("CreateFramebuffer"); got != 1 {
		t.Errorf("CreateFramebuffer calls = %d, want 1", got)
	}
	if got := dev.Calls("UploadTexture"); got != 1 {
		t.Errorf("read-write unlock uploads = %d, want 1", got)
	}
}

func TestTexture_LockRenderTarget(t *testing.T) {
	c, dev := newTestCache(t, nil)
	tex := c.NewRenderTargetTexture("rtt", image.Size{Width: 2, Height: 2}, image.FormatA8R8G8B8, nil)
	rt := c.NewRenderTarget(nil)
	rt.SetTexture(tex, nil)
	rt.Bind()
	dev.Clear(gpucore.ClearColor, gputypes.Color{R: 1, A: 1}, 1, 0)
	c.SetFramebuffer(gpucore.InvalidID)

	buf := tex.Lock(LockReadOnly, 0, 0)
	if buf == nil {
		t.Fatal("Lock() = nil")
	}
	// A8R8G8B8 red is B=0, G=0, R=255, A=255.
	if got := buf.Data()[:4]; !bytes.Equal(got, []byte{0, 0, 255, 255}) {
		t.Errorf("pixel 0 = %v, want [0 0 255 255]", got)
	}
	tex.Unlock()
}

func TestTexture_LegacyUnlockRegeneratesExplicitMips(t *testing.T) {
	c, dev := newTestCache(t, func(caps *gpucore.Caps) { caps.MipmapMode = gpucore.MipmapLegacy })
	img := patternImage(t, 4, 4, image.FormatA8R8G8B8)
	img.SetMipData(image.GenerateMipChain(img).Packed())
	tex := c.NewTexture("explicit", []*image.Buf{img}, TextureOptions{MipMaps: true})
	if !tex.Valid() || !tex.HasMipMaps() {
		t.Fatal("texture with explicit mips not created")
	}
	h := tex.Handle()
	before := append([]byte(nil), dev.TextureLevel(h, 0, 1)...)
	dev.ResetCalls()

	buf := tex.Lock(LockWriteOnly, 0, 0)
	if buf == nil {
		t.Fatal("Lock(write-only) = nil")
	}
	for i := range buf.Data() {
		buf.Data()[i] = 0xFF
	}
	tex.Unlock()

	if got := dev.Calls("SetAutoMipmap"); got != 1 {
		t.Errorf("SetAutoMipmap calls = %d, want 1", got)
	}
	lvl1 := dev.TextureLevel(h, 0, 1)
	if bytes.Equal(lvl1, before) || len(lvl1) == 0 || lvl1[0] != 0xFF {
		t.Errorf("level 1 not regenerated: %v", lvl1)
	}

	// The flag stays on: a second unlock does not set it again.
	dev.ResetCalls()
	tex.Lock(LockWriteOnly, 0, 0)
	tex.Unlock()
	if got := dev.Calls("SetAutoMipmap"); got != 0 {
		t.Errorf("second unlock SetAutoMipmap calls = %d, want 0", got)
	}
}

func TestTexture_LockFailures(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*gpucore.Caps)
		mode  LockMode
		level int
		layer int
	}{
		{"no read-back", func(c *gpucore.Caps) { c.ReadPixels = false }, LockReadOnly, 0, 0},
		{"level without mips", nil, LockWriteOnly, 1, 0},
		{"negative level", nil, LockReadWrite, -1, 0},
		{"layer", nil, LockReadWrite, 0, 1},
		{"above lock limit", func(c *gpucore.Caps) { c.MaxLockLevel = 0 }, LockWriteOnly, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCache(t, tt.edit)
			tex := newTestTexture(t, c, "t", 4, 4, TextureOptions{MipMaps: tt.name == "above lock limit"})

			if buf := tex.Lock(tt.mode, tt.level, tt.layer); buf != nil {
				t.Errorf("Lock(%v, %d, %d) != nil", tt.mode, tt.level, tt.layer)
			}
			if tex.Locked() {
				t.Error("Locked() = true after failed lock")
			}
		})
	}
}

func TestTexture_LockCompressed(t *testing.T) {
	log := captureLog(t)
	c, dev := newTestCache(t, nil)
	tex := c.NewTexture("dxt", []*image.Buf{patternImage(t, 8, 8, image.FormatDXT1)}, TextureOptions{})
	if !tex.Valid() {
		t.Fatal("compressed texture not created")
	}
	dev.ResetCalls()
	log.Reset()

	for i := 0; i < 3; i++ {
		if buf := tex.Lock(LockReadWrite, 0, 0); buf != nil {
			t.Fatal("Lock() on DXT1 != nil")
		}
	}

	if got := dev.TotalCalls(); got != 0 {
		t.Errorf("TotalCalls() = %d, want 0", got)
	}
	if got := strings.Count(log.String(), "level=WARN"); got != 1 {
		t.Errorf("warnings = %d, want 1:\n%s", got, log.String())
	}
}

func TestTexture_LockCube(t *testing.T) {
	c, _ := newTestCache(t, nil)
	faces := make([]*image.Buf, 6)
	for i := range faces {
		faces[i] = patternImage(t, 4, 4, image.FormatA8R8G8B8)
	}
	cube := c.NewTexture("cube", faces, TextureOptions{RetainImage: true})
	if cube.Lock(LockReadOnly, 0, 0) != nil {
		t.Error("Lock() on cube texture != nil")
	}
}

func TestTexture_LockMipLevel(t *testing.T) {
	c, dev := newTestCache(t, nil)
	tex := newTestTexture(t, c, "mips", 8, 8, TextureOptions{MipMaps: true})
	dev.ResetCalls()

	if tex.Lock(LockReadOnly, 1, 0) != nil {
		t.Error("read lock of level 1 != nil, only level 0 can be read back")
	}
	buf := tex.Lock(LockWriteOnly, 1, 0)
	if buf == nil {
		t.Fatal("write lock of level 1 = nil")
	}
	if got := buf.Size(); got != (image.Size{Width: 4, Height: 4}) {
		t.Errorf("level 1 size = %v, want 4x4", got)
	}
	tex.Unlock()

	if got := dev.Calls("UploadTexture"); got != 1 {
		t.Errorf("UploadTexture calls = %d, want 1", got)
	}
	if got := dev.Calls("GenerateMipmaps"); got != 0 {
		t.Errorf("GenerateMipmaps calls = %d, want 0 for level 1", got)
	}
}

func TestTexture_LockReturnsPooledBuffer(t *testing.T) {
	c, _ := newTestCache(t, nil)
	tex := newTestTexture(t, c, "pooled", 4, 4, TextureOptions{})

	before := c.Pool().Len()
	tex.Lock(LockWriteOnly, 0, 0)
	tex.Unlock()
	if got := c.Pool().Len(); got != before+1 {
		t.Errorf("Pool().Len() = %d, want %d", got, before+1)
	}
}

func TestTexture_RegenerateMipMapLevels(t *testing.T) {
	t.Run("backend generated", func(t *testing.T) {
		c, dev := newTestCache(t, nil)
		tex := newTestTexture(t, c, "m", 8, 8, TextureOptions{MipMaps: true})
		dev.ResetCalls()
		tex.RegenerateMipMapLevels(nil)
		if got := dev.Calls("GenerateMipmaps"); got != 1 {
			t.Errorf("GenerateMipmaps calls = %d, want 1", got)
		}
	})

	t.Run("explicit data", func(t *testing.T) {
		c, dev := newTestCache(t, nil)
		img := patternImage(t, 8, 8, image.FormatA8R8G8B8)
		tex := c.NewTexture("m", []*image.Buf{img}, TextureOptions{MipMaps: true})
		dev.ResetCalls()

		chain := image.GenerateMipChain(img).Packed()
		for i := range chain {
			chain[i] = 0x11
		}
		tex.RegenerateMipMapLevels(chain)

		// 4x4, 2x2, 1x1
		if got := dev.Calls("UploadTexture"); got != 3 {
			t.Errorf("UploadTexture calls = %d, want 3", got)
		}
		if got := dev.TextureLevel(tex.Handle(), 0, 3); !bytes.Equal(got, []byte{0x11, 0x11, 0x11, 0x11}) {
			t.Errorf("level 3 = %v", got)
		}
		if got := dev.Calls("GenerateMipmaps"); got != 0 {
			t.Errorf("GenerateMipmaps calls = %d, want 0", got)
		}
	})

	t.Run("legacy reuploads retained image", func(t *testing.T) {
		c, dev := newTestCache(t, func(caps *gpucore.Caps) { caps.MipmapMode = gpucore.MipmapLegacy })
		tex := newTestTexture(t, c, "m", 8, 8, TextureOptions{MipMaps: true, RetainImage: true})
		dev.ResetCalls()
		tex.RegenerateMipMapLevels(nil)
		if got := dev.Calls("SetAutoMipmap"); got != 1 {
			t.Errorf("SetAutoMipmap calls = %d, want 1", got)
		}
		if got := dev.Calls("UploadTexture"); got != 1 {
			t.Errorf("UploadTexture calls = %d, want 1", got)
		}
	})

	t.Run("no mip chain", func(t *testing.T) {
		c, dev := newTestCache(t, nil)
		tex := newTestTexture(t, c, "flat", 8, 8, TextureOptions{})
		dev.ResetCalls()
		tex.RegenerateMipMapLevels(nil)
		if got := dev.TotalCalls(); got != 0 {
			t.Errorf("TotalCalls() = %d, want 0", got)
		}
	})
}
