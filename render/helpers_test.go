// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
	"github.com/gogpu/g3d/recording"
)

// newTestCache returns a cache over a recording device with default caps,
// adjusted by edit when non-nil.
func newTestCache(t *testing.T, edit func(*gpucore.Caps)) (*StateCache, *recording.Device) {
	t.Helper()
	caps := recording.DefaultCaps()
	if edit != nil {
		edit(&caps)
	}
	dev := recording.New(caps)
	return NewStateCache(dev, Options{}), dev
}

// patternImage returns an image filled with a position-dependent pattern.
func patternImage(t *testing.T, w, h int, f image.Format) *image.Buf {
	t.Helper()
	img, err := image.NewBuf(w, h, f)
	if err != nil {
		t.Fatalf("NewBuf(%d, %d, %v) error = %v", w, h, f, err)
	}
	for i := range img.Data() {
		img.Data()[i] = byte(i*7 + 3)
	}
	return img
}

func newTestTexture(t *testing.T, c *StateCache, name string, w, h int, opts TextureOptions) *Texture {
	t.Helper()
	tex := c.NewTexture(name, []*image.Buf{patternImage(t, w, h, image.FormatA8R8G8B8)}, opts)
	if !tex.Valid() {
		t.Fatalf("NewTexture(%q) not valid", name)
	}
	return tex
}

// captureLog routes package logs into a buffer for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

// foreignDevice reports another backend type so resources created through
// it are rejected by caches of the recording backend.
type foreignDevice struct {
	*recording.Device
}

func (foreignDevice) Type() gpucore.BackendType { return gpucore.BackendWebGL }

// swizzleDevice stores A8R8G8B8 as RGBA bytes, like GLES2 and WebGL.
type swizzleDevice struct {
	*recording.Device
}

func (d swizzleDevice) FormatTriple(f image.Format) (gpucore.Triple, bool) {
	if f == image.FormatA8R8G8B8 {
		return gpucore.Triple{Convert: image.SwapRB32, Revert: image.SwapRB32, Target: f}, true
	}
	return d.Device.FormatTriple(f)
}

// refusingDevice refuses one format.
type refusingDevice struct {
	*recording.Device
	refuse image.Format
}

func (d refusingDevice) FormatTriple(f image.Format) (gpucore.Triple, bool) {
	if f == d.refuse {
		return gpucore.Triple{}, false
	}
	return d.Device.FormatTriple(f)
}
