package image

// MipChain holds downscaled versions of an image.
//
// Level 0 is the source image. Each following level halves both dimensions,
// rounding down and flooring at 1, until both reach 1.
type MipChain struct {
	levels []*Buf
}

// GenerateMipChain builds a full chain from src with a 2x2 box filter.
// The source becomes level 0 and is not copied.
//
// Returns nil for nil, empty or compressed sources.
func GenerateMipChain(src *Buf) *MipChain {
	if src == nil || src.Size().Empty() || src.format.IsCompressed() {
		return nil
	}

	n := MipLevelCount(src.Size())
	chain := &MipChain{levels: make([]*Buf, n)}
	chain.levels[0] = src
	for i := 1; i < n; i++ {
		chain.levels[i] = downsample(chain.levels[i-1])
	}
	return chain
}

// downsample creates a half-size version of src.
func downsample(src *Buf) *Buf {
	dstW := max(1, src.width/2)
	dstH := max(1, src.height/2)

	switch src.format {
	case FormatA1R5G5B5, FormatR5G6B5:
		wide, err := Convert(src, FormatA8R8G8B8)
		if err != nil {
			return nil
		}
		half, err := Convert(downsample(wide), src.format)
		if err != nil {
			return nil
		}
		return half
	}

	dst, err := NewBuf(dstW, dstH, src.format)
	if err != nil {
		return nil
	}
	bpp := src.format.BytesPerPixel()
	bytewise := !src.format.IsFloat() && !src.format.IsDepth()

	for dy := 0; dy < dstH; dy++ {
		sy0 := min(dy*2, src.height-1)
		sy1 := min(dy*2+1, src.height-1)
		for dx := 0; dx < dstW; dx++ {
			sx0 := min(dx*2, src.width-1)
			sx1 := min(dx*2+1, src.width-1)
			d := dst.data[dy*dst.pitch+dx*bpp:]

			p00 := src.data[sy0*src.pitch+sx0*bpp:]
			if !bytewise {
				copy(d[:bpp], p00[:bpp])
				continue
			}
			p01 := src.data[sy0*src.pitch+sx1*bpp:]
			p10 := src.data[sy1*src.pitch+sx0*bpp:]
			p11 := src.data[sy1*src.pitch+sx1*bpp:]
			for c := 0; c < bpp; c++ {
				sum := uint16(p00[c]) + uint16(p01[c]) + uint16(p10[c]) + uint16(p11[c])
				d[c] = byte(sum / 4)
			}
		}
	}
	return dst
}

// Level returns the image at level n, or nil when out of range.
func (m *MipChain) Level(n int) *Buf {
	if m == nil || n < 0 || n >= len(m.levels) {
		return nil
	}
	return m.levels[n]
}

// NumLevels returns the number of levels including level 0.
func (m *MipChain) NumLevels() int {
	if m == nil {
		return 0
	}
	return len(m.levels)
}

// Packed returns levels 1..N concatenated, the layout Buf.MipData uses.
func (m *MipChain) Packed() []byte {
	if m == nil {
		return nil
	}
	var out []byte
	for _, l := range m.levels[1:] {
		out = append(out, l.Packed()...)
	}
	return out
}

// SplitMipData cuts a packed level 1..N chain into per-level slices for a
// base size. It stops early when data runs short and returns what fit.
func SplitMipData(data []byte, base Size, format Format) [][]byte {
	var levels [][]byte
	size := base
	for len(data) > 0 && (size.Width > 1 || size.Height > 1) {
		size = MipLevelSize(size, 1)
		n := format.DataSize(size.Width, size.Height)
		if n == 0 || n > len(data) {
			break
		}
		levels = append(levels, data[:n])
		data = data[n:]
	}
	return levels
}
