// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/g3d/gpucore"

// RegenerateMipMapLevels rebuilds levels 1..N.
//
// With data, each level is uploaded from the packed chain; level sizes halve
// with a floor of 1 until both dimensions reach 1. Without data the backend
// generates the levels. On backends with MipmapNone this is a no-op and the
// texture keeps whatever levels it had; that is a documented degradation,
// not an error. Textures created without a mip chain ignore the call.
func (t *Texture) RegenerateMipMapLevels(data []byte) {
	if !t.hasMips || !t.Valid() {
		return
	}
	t.cache.units.holding(t, func() {
		if data != nil {
			if t.kind != gpucore.TextureKind2D {
				slogger().Debug("render: explicit mip data ignored for cube texture", "texture", t.name)
				return
			}
			t.uploadMipData(0, data)
			return
		}
		t.generateMips(true)
	})
	t.sampler.valid = false
}

// generateMips asks the backend for levels 1..N. reupload is set when level
// 0 was not just uploaded; legacy drivers only regenerate on an upload.
// The texture must be bound to the active unit.
func (t *Texture) generateMips(reupload bool) {
	c := t.cache
	if t.compressed {
		slogger().Debug("render: no automatic mip generation for compressed texture", "texture", t.name)
		return
	}
	switch c.caps.MipmapMode {
	case gpucore.MipmapModern:
		c.dev.GenerateMipmaps(t.kind)
		c.check("GenerateMipmaps")

	case gpucore.MipmapLegacy:
		if !reupload {
			return
		}
		c.dev.SetAutoMipmap(t.kind, true)
		c.check("SetAutoMipmap")
		t.autoMip = true
		if t.images == nil {
			slogger().Debug("render: legacy mip regeneration needs the retained image", "texture", t.name)
			return
		}
		for face, img := range t.images {
			t.uploadLevel(face, 0, t.size, img.Packed())
		}

	default:
		slogger().Debug("render: backend cannot generate mip levels", "texture", t.name)
	}
}

// armAutoMip turns on legacy automatic generation ahead of a level 0
// upload, for textures created from explicit mip data.
// The texture must be bound to the active unit.
func (t *Texture) armAutoMip() {
	c := t.cache
	if t.autoMip || !t.hasMips || t.compressed || c.caps.MipmapMode != gpucore.MipmapLegacy {
		return
	}
	c.dev.SetAutoMipmap(t.kind, true)
	c.check("SetAutoMipmap")
	t.autoMip = true
}
