// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
)

// TextureOptions control texture creation.
type TextureOptions struct {
	// RetainImage keeps the uploaded level 0 on the CPU so that Lock does
	// not need a read-back. Compressed textures never retain their image.
	RetainImage bool

	// MipMaps requests a mip chain, from the image's embedded mip data or
	// generated by the backend.
	MipMaps bool

	// OnRelease is called once when the texture is destroyed, before the
	// native object is deleted. Owners use it to unregister the texture.
	OnRelease func(*Texture)
}

// Texture is a reference-counted native texture.
type Texture struct {
	name    string
	kind    gpucore.TextureKind
	backend gpucore.BackendType
	handle  gpucore.TextureHandle
	cache   *StateCache
	refs    refCounter

	origSize   image.Size
	size       image.Size
	format     image.Format
	triple     gpucore.Triple
	mipLevels  int
	hasMips    bool
	rt         bool
	compressed bool
	// autoMip is set once the legacy automatic generation flag is on.
	autoMip bool

	// images holds the retained level-0 image per face.
	images []*image.Buf

	sampler sampler
	lock    *lockState

	warnedLock bool
	destroyed  bool
	onRelease  func(*Texture)
}

// NewTexture creates a texture from one image (2D) or six images (cube
// faces in +X, -X, +Y, -Y, +Z, -Z order).
//
// NewTexture never fails hard. Invalid input is logged and yields an
// unusable texture with a zero size; check Valid before use. Formats the
// backend cannot store are converted to A8R8G8B8 with a warning.
func (c *StateCache) NewTexture(name string, images []*image.Buf, opts TextureOptions) *Texture {
	t := &Texture{
		name:      name,
		kind:      gpucore.TextureKind2D,
		backend:   c.backend,
		cache:     c,
		refs:      newRefCounter(),
		onRelease: opts.OnRelease,
	}
	if len(images) == 6 {
		t.kind = gpucore.TextureKindCube
	}

	if err := checkImages(images); err != "" {
		slogger().Warn("render: invalid texture image", "texture", name, "reason", err)
		return t
	}

	format := images[0].Format()
	triple, ok := c.dev.FormatTriple(format)
	if !ok {
		if format.IsCompressed() || format.IsDepth() {
			slogger().Warn("render: texture format unsupported by backend",
				"texture", name, "format", format, "backend", c.backend)
			return t
		}
		slogger().Warn("render: texture format unsupported, converting to A8R8G8B8",
			"texture", name, "format", format, "backend", c.backend)
		converted, ok := convertAll(images, image.FormatA8R8G8B8)
		if !ok {
			slogger().Warn("render: texture conversion failed", "texture", name, "format", format)
			return t
		}
		images = converted
		format = image.FormatA8R8G8B8
		if triple, ok = c.dev.FormatTriple(format); !ok {
			slogger().Warn("render: backend cannot store A8R8G8B8", "texture", name)
			return t
		}
	}
	t.format = format
	t.triple = triple
	t.compressed = format.IsCompressed()
	t.origSize = images[0].Size()

	mipData := images[0].MipData()
	if t.compressed {
		if m := c.caps.MaxTextureSize; m > 0 && (t.origSize.Width > m || t.origSize.Height > m) {
			slogger().Warn("render: compressed texture exceeds maximum size",
				"texture", name, "size", t.origSize, "max", m)
			return t
		}
		t.size = t.origSize
	} else {
		t.size = ImageSize(t.origSize, c.caps)
		if t.size != t.origSize {
			slogger().Debug("render: resampling texture", "texture", name, "from", t.origSize, "to", t.size)
			resized, ok := resampleAll(images, t.size)
			if !ok {
				slogger().Warn("render: texture resample failed", "texture", name)
				t.size = image.Size{}
				return t
			}
			images = resized
			// Embedded levels no longer match the new size.
			mipData = nil
		}
	}

	t.hasMips = opts.MipMaps && (mipData != nil || (c.caps.AutoMipmap() && !t.compressed))
	t.mipLevels = 1
	if t.hasMips {
		t.mipLevels = image.MipLevelCount(t.size)
	}

	h, err := c.dev.CreateTexture(gpucore.TextureDesc{
		Label:     name,
		Kind:      t.kind,
		Size:      t.size,
		Format:    format,
		Triple:    triple,
		MipLevels: t.mipLevels,
	})
	if err != nil {
		slogger().Error("render: create texture failed", "texture", name, "err", err)
		t.size = image.Size{}
		return t
	}
	t.handle = h

	c.units.holding(t, func() {
		t.uploadImages(images)
	})

	if opts.RetainImage && !t.compressed {
		t.images = make([]*image.Buf, len(images))
		for i, img := range images {
			t.images[i] = img.Clone()
			t.images[i].SetMipData(nil)
		}
	}

	slogger().Debug("render: texture created",
		"texture", name, "kind", t.kind, "size", t.size, "format", format, "mips", t.hasMips)
	return t
}

// NewRenderTargetTexture allocates empty storage of exactly size.
// FormatUnknown selects the backbuffer format. The size is only clamped to
// the maximum texture size; no power-of-two rounding is applied.
func (c *StateCache) NewRenderTargetTexture(name string, size image.Size, format image.Format, onRelease func(*Texture)) *Texture {
	t := &Texture{
		name:      name,
		kind:      gpucore.TextureKind2D,
		backend:   c.backend,
		cache:     c,
		refs:      newRefCounter(),
		rt:        true,
		onRelease: onRelease,
		mipLevels: 1,
	}
	if size.Empty() {
		slogger().Warn("render: invalid render target size", "texture", name, "size", size)
		return t
	}
	if format == image.FormatUnknown {
		format = c.caps.BackbufferFormat
	}
	triple, ok := c.dev.FormatTriple(format)
	if !ok || format.IsCompressed() {
		slogger().Warn("render: render target format unsupported, using A8R8G8B8",
			"texture", name, "format", format)
		format = image.FormatA8R8G8B8
		if triple, ok = c.dev.FormatTriple(format); !ok {
			return t
		}
	}
	if m := c.caps.MaxTextureSize; m > 0 {
		size = image.Size{Width: min(size.Width, m), Height: min(size.Height, m)}
	}

	t.origSize, t.size = size, size
	t.format, t.triple = format, triple

	h, err := c.dev.CreateTexture(gpucore.TextureDesc{
		Label:        name,
		Kind:         gpucore.TextureKind2D,
		Size:         size,
		Format:       format,
		Triple:       triple,
		MipLevels:    1,
		RenderTarget: true,
	})
	if err != nil {
		slogger().Error("render: create render target texture failed", "texture", name, "err", err)
		t.size = image.Size{}
		return t
	}
	t.handle = h

	c.units.holding(t, func() {
		t.uploadLevel(0, 0, size, nil)
	})
	return t
}

func checkImages(images []*image.Buf) string {
	if len(images) != 1 && len(images) != 6 {
		return "need 1 or 6 images"
	}
	first := images[0]
	for _, img := range images {
		if img == nil {
			return "nil image"
		}
		if img.Size().Empty() {
			return "zero-sized image"
		}
		if img.Size() != first.Size() || img.Format() != first.Format() {
			return "cube faces differ in size or format"
		}
	}
	return ""
}

func convertAll(images []*image.Buf, f image.Format) ([]*image.Buf, bool) {
	out := make([]*image.Buf, len(images))
	for i, img := range images {
		c, err := image.Convert(img, f)
		if err != nil {
			return nil, false
		}
		out[i] = c
	}
	return out, true
}

func resampleAll(images []*image.Buf, size image.Size) ([]*image.Buf, bool) {
	out := make([]*image.Buf, len(images))
	for i, img := range images {
		r, err := image.Resample(img, size.Width, size.Height)
		if err != nil {
			return nil, false
		}
		out[i] = r
	}
	return out, true
}

// uploadImages uploads level 0 of every face and then the mip chain.
// The texture must be bound to the active unit.
func (t *Texture) uploadImages(images []*image.Buf) {
	c := t.cache
	legacy := t.hasMips && c.caps.MipmapMode == gpucore.MipmapLegacy && images[0].MipData() == nil
	if legacy {
		// The flag must be set before level 0 arrives.
		c.dev.SetAutoMipmap(t.kind, true)
		c.check("SetAutoMipmap")
		t.autoMip = true
	}

	for face, img := range images {
		t.uploadLevel(face, 0, t.size, img.Packed())
	}

	if !t.hasMips {
		return
	}
	if images[0].MipData() != nil {
		for face, img := range images {
			t.uploadMipData(face, img.MipData())
		}
		return
	}
	t.generateMips(false)
}

// uploadLevel sends one level of one face, running the format converter.
// A nil data allocates storage without contents.
func (t *Texture) uploadLevel(face, level int, size image.Size, data []byte) {
	c := t.cache
	var err error
	if t.compressed {
		err = c.dev.UploadCompressedTexture(t.kind, face, level, size, t.triple, data)
		c.check("UploadCompressedTexture")
	} else {
		if data != nil && t.triple.Convert != nil {
			n := size.Width * size.Height
			dst := make([]byte, n*t.triple.UploadFormat(t.format).BytesPerPixel())
			t.triple.Convert(data, n, dst)
			data = dst
		}
		err = c.dev.UploadTexture(t.kind, face, level, size, t.triple, data)
		c.check("UploadTexture")
	}
	if err != nil {
		slogger().Error("render: texture upload failed",
			"texture", t.name, "face", face, "level", level, "err", err)
	}
	t.sampler.valid = false
}

// uploadMipData uploads a packed level 1..N chain for one face.
func (t *Texture) uploadMipData(face int, data []byte) {
	for i, lv := range image.SplitMipData(data, t.size, t.format) {
		level := i + 1
		t.uploadLevel(face, level, image.MipLevelSize(t.size, level), lv)
	}
}

// Grab adds a reference.
func (t *Texture) Grab() { t.refs.grab() }

// Drop releases a reference. The last Drop destroys the texture and
// reports true.
func (t *Texture) Drop() bool {
	if !t.refs.drop() {
		return false
	}
	t.destroy()
	return true
}

// RefCount returns the number of holders.
func (t *Texture) RefCount() int { return t.refs.count() }

func (t *Texture) destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	c := t.cache
	c.units.Remove(t)
	if t.lock != nil {
		t.releaseLock()
	}
	if t.onRelease != nil {
		t.onRelease(t)
	}
	if t.handle != gpucore.InvalidID {
		c.dev.DeleteTexture(t.handle)
		c.check("DeleteTexture")
		t.handle = gpucore.InvalidID
	}
	t.images = nil
	slogger().Debug("render: texture destroyed", "texture", t.name)
}

// Name returns the texture name.
func (t *Texture) Name() string { return t.name }

// Kind returns the binding target.
func (t *Texture) Kind() gpucore.TextureKind { return t.kind }

// Size returns the GPU storage size. It is empty for unusable textures.
func (t *Texture) Size() image.Size { return t.size }

// OriginalSize returns the size of the source image.
func (t *Texture) OriginalSize() image.Size { return t.origSize }

// Pitch returns the row length in bytes of level 0.
func (t *Texture) Pitch() int { return t.format.Pitch(t.size.Width) }

// Format returns the semantic format of the stored pixels.
func (t *Texture) Format() image.Format { return t.format }

// HasMipMaps reports whether the texture has a mip chain.
func (t *Texture) HasMipMaps() bool { return t.hasMips }

// IsRenderTarget reports whether the texture was created as render target
// storage.
func (t *Texture) IsRenderTarget() bool { return t.rt }

// IsCompressed reports whether the texture holds block-compressed data.
func (t *Texture) IsCompressed() bool { return t.compressed }

// Backend returns the tag of the backend that created the texture.
func (t *Texture) Backend() gpucore.BackendType { return t.backend }

// Handle returns the native handle, zero when unusable or destroyed.
func (t *Texture) Handle() gpucore.TextureHandle { return t.handle }

// Valid reports whether the texture has native storage.
func (t *Texture) Valid() bool {
	return t.handle != gpucore.InvalidID && !t.size.Empty()
}
