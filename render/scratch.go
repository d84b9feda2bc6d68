// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
)

// DefaultScratchCacheSize is the number of scratch framebuffers kept alive
// for read-back when Options.ScratchCacheSize is zero.
const DefaultScratchCacheSize = 4

// scratchCache keeps framebuffer objects used to read textures back, keyed
// by size. Evicted framebuffers are deleted natively.
type scratchCache struct {
	dev gpucore.Device
	fbs *lru.Cache[image.Size, gpucore.FramebufferHandle]
}

func newScratchCache(dev gpucore.Device, size int) *scratchCache {
	if size <= 0 {
		size = DefaultScratchCacheSize
	}
	s := &scratchCache{dev: dev}
	// NewWithEvict only fails for a non-positive size.
	s.fbs, _ = lru.NewWithEvict(size, func(key image.Size, fb gpucore.FramebufferHandle) {
		slogger().Debug("render: scratch framebuffer evicted", "size", key)
		dev.DeleteFramebuffer(fb)
	})
	return s
}

// framebuffer returns the scratch framebuffer for size, creating it on a miss.
func (s *scratchCache) framebuffer(size image.Size) (gpucore.FramebufferHandle, error) {
	if fb, ok := s.fbs.Get(size); ok {
		return fb, nil
	}
	fb, err := s.dev.CreateFramebuffer()
	if err != nil {
		return gpucore.InvalidID, err
	}
	s.fbs.Add(size, fb)
	return fb, nil
}

func (s *scratchCache) len() int { return s.fbs.Len() }

// purge deletes every cached framebuffer.
func (s *scratchCache) purge() { s.fbs.Purge() }
