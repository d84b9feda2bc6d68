// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render is the backend-neutral render-state core.
//
// A [StateCache] mirrors every piece of native pipeline state it sets and
// issues a native call only when a requested value differs from the mirror.
// It owns the per-unit texture binding table ([TextureUnits]), the scratch
// framebuffers used for read-back, and a pool of temporary lock buffers.
//
// [Texture] and [RenderTarget] are reference counted. A texture bound in a
// texture unit or attached to a render target is held by that slot; it is
// destroyed, and its native object deleted, when the last holder drops it.
//
// All types in this package assume that exactly one goroutine owns the
// native context. None of them are safe for concurrent use.
//
// Usage:
//
//	dev := recording.NewDefault()
//	cache := render.NewStateCache(dev, render.Options{})
//	defer cache.Close()
//
//	tex := cache.NewTexture("bricks", []*image.Buf{img}, render.TextureOptions{MipMaps: true})
//	if !tex.Valid() {
//	    // use a fallback texture
//	}
//	cache.Units().Set(0, tex)
package render
