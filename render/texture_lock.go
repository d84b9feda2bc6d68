// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
)

// LockMode states what the caller intends to do with a locked texture.
type LockMode uint8

// Lock modes.
const (
	LockReadWrite LockMode = iota
	LockReadOnly
	LockWriteOnly
)

func (m LockMode) String() string {
	switch m {
	case LockReadOnly:
		return "read-only"
	case LockWriteOnly:
		return "write-only"
	default:
		return "read-write"
	}
}

type lockState struct {
	mode     LockMode
	level    int
	buf      *image.Buf
	retained bool
}

// Lock returns a CPU buffer holding the given mip level.
//
// Level 0 of a texture that retains its image is returned directly. Any
// other lock uses a temporary buffer; unless the mode is write-only it is
// filled by reading the texture back through a scratch framebuffer, which
// stalls until the GPU has finished. Only level 0 can be read back.
//
// Lock returns nil for compressed textures (with one warning per texture),
// cube textures, levels above the backend's lock limit or beyond the
// texture's chain, and when read-back is unavailable. Locking a locked
// texture returns the existing buffer.
func (t *Texture) Lock(mode LockMode, level, layer int) *image.Buf {
	if t.lock != nil {
		return t.lock.buf
	}
	if t.compressed {
		if !t.warnedLock {
			slogger().Warn("render: compressed textures cannot be locked", "texture", t.name, "format", t.format)
			t.warnedLock = true
		}
		return nil
	}
	if !t.Valid() {
		return nil
	}
	if t.kind != gpucore.TextureKind2D || layer != 0 {
		slogger().Debug("render: lock supports 2D textures only", "texture", t.name, "kind", t.kind, "layer", layer)
		return nil
	}
	c := t.cache
	if level < 0 || level > c.caps.MaxLockLevel || level >= t.mipLevels {
		slogger().Debug("render: lock level out of range", "texture", t.name, "level", level, "levels", t.mipLevels)
		return nil
	}

	if level == 0 && t.images != nil {
		t.lock = &lockState{mode: mode, level: 0, buf: t.images[0], retained: true}
		return t.lock.buf
	}

	size := image.MipLevelSize(t.size, level)
	buf := c.pool.Get(size.Width, size.Height, t.format)
	if buf == nil {
		return nil
	}
	if mode != LockWriteOnly {
		if level != 0 {
			slogger().Debug("render: only level 0 can be read back", "texture", t.name, "level", level)
			c.pool.Put(buf)
			return nil
		}
		if !t.readBack(buf) {
			c.pool.Put(buf)
			return nil
		}
	}
	t.lock = &lockState{mode: mode, level: level, buf: buf}
	return buf
}

// Unlock ends a lock. Unless the lock was read-only the buffer is uploaded
// again, and unlocking level 0 rebuilds the mip chain.
func (t *Texture) Unlock() {
	l := t.lock
	if l == nil {
		return
	}
	if l.mode != LockReadOnly && t.Valid() {
		size := image.MipLevelSize(t.size, l.level)
		t.cache.units.holding(t, func() {
			if l.level == 0 {
				t.armAutoMip()
			}
			t.uploadLevel(0, l.level, size, l.buf.Packed())
			if l.level == 0 && t.hasMips {
				t.generateMips(false)
			}
		})
	}
	t.releaseLock()
}

// Locked reports whether the texture is locked.
func (t *Texture) Locked() bool { return t.lock != nil }

func (t *Texture) releaseLock() {
	if !t.lock.retained {
		t.cache.pool.Put(t.lock.buf)
	}
	t.lock = nil
}

// readBack fills buf with level 0 by attaching the texture to a scratch
// framebuffer and reading its pixels.
func (t *Texture) readBack(buf *image.Buf) bool {
	c := t.cache
	if !c.caps.ReadPixels {
		slogger().Debug("render: backend cannot read back textures", "texture", t.name, "backend", c.backend)
		return false
	}
	fb, err := c.scratch.framebuffer(t.size)
	if err != nil {
		slogger().Error("render: scratch framebuffer failed", "texture", t.name, "err", err)
		return false
	}

	prev := c.framebuffer
	c.bindFramebuffer(fb)
	c.dev.AttachColor(0, t.handle)
	c.check("AttachColor")

	n := t.size.Width * t.size.Height
	dst := buf.Data()
	if t.triple.Revert != nil {
		dst = make([]byte, n*t.triple.UploadFormat(t.format).BytesPerPixel())
	}
	err = c.dev.ReadPixels(gpucore.Rect{Width: t.size.Width, Height: t.size.Height}, t.triple, dst)
	c.check("ReadPixels")
	if err == nil && t.triple.Revert != nil {
		t.triple.Revert(dst, n, buf.Data())
	}

	c.dev.AttachColor(0, gpucore.InvalidID)
	c.bindFramebuffer(prev)

	if err != nil {
		slogger().Warn("render: texture read-back failed", "texture", t.name, "err", err)
		return false
	}
	slogger().Debug("render: texture read back from GPU", "texture", t.name, "size", t.size, "bytes", len(buf.Data()))
	return true
}
