// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math/bits"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
)

// ImageSize returns the GPU storage size for an image of size orig.
//
// The dominant dimension is clamped to caps.MaxTextureSize and the other one
// scaled by the same ratio, rounding down. When the backend lacks NPOT
// support both dimensions are then rounded up to the next power of two and
// clamped again. An empty size yields an empty size.
//
// ImageSize is a pure function of its inputs.
func ImageSize(orig image.Size, caps gpucore.Caps) image.Size {
	w, h := orig.Width, orig.Height
	if w <= 0 || h <= 0 {
		return image.Size{}
	}
	limit := caps.MaxTextureSize

	if limit > 0 {
		if w >= h {
			if w > limit {
				h = h * limit / w
				w = limit
			}
		} else if h > limit {
			w = w * limit / h
			h = limit
		}
		w, h = max(w, 1), max(h, 1)
	}

	if !caps.NPOT {
		w, h = nextPow2(w), nextPow2(h)
		if limit > 0 {
			p := prevPow2(limit)
			w, h = min(w, p), min(h, p)
		}
	}
	return image.Size{Width: w, Height: h}
}

func nextPow2(v int) int {
	if v <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(v-1))
}

func prevPow2(v int) int {
	if v <= 1 {
		return 1
	}
	return 1 << (bits.Len(uint(v)) - 1)
}
