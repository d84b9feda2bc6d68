package image

import (
	"encoding/binary"
	"errors"
)

// ErrUnsupportedConversion is returned by Convert for format pairs without a
// converter.
var ErrUnsupportedConversion = errors.New("image: unsupported conversion")

// ConvertFunc converts n pixels from src into dst. dst must hold n pixels of
// the destination format. src and dst may alias only when both formats have
// the same pixel size.
type ConvertFunc func(src []byte, n int, dst []byte)

func expand5(v uint16) byte { return byte(v<<3 | v>>2) }
func expand6(v uint16) byte { return byte(v<<2 | v>>4) }

// A1R5G5B5ToR5G5B5A1 moves the alpha bit from the top to the bottom of each
// 16-bit pixel, the layout GL calls UNSIGNED_SHORT_5_5_5_1.
func A1R5G5B5ToR5G5B5A1(src []byte, n int, dst []byte) {
	for i := 0; i < n; i++ {
		p := binary.LittleEndian.Uint16(src[i*2:])
		binary.LittleEndian.PutUint16(dst[i*2:], p<<1|p>>15)
	}
}

// R5G5B5A1ToA1R5G5B5 is the inverse of A1R5G5B5ToR5G5B5A1.
func R5G5B5A1ToA1R5G5B5(src []byte, n int, dst []byte) {
	for i := 0; i < n; i++ {
		p := binary.LittleEndian.Uint16(src[i*2:])
		binary.LittleEndian.PutUint16(dst[i*2:], p>>1|p<<15)
	}
}

// SwapRB32 exchanges bytes 0 and 2 of each 4-byte pixel (BGRA <-> RGBA).
func SwapRB32(src []byte, n int, dst []byte) {
	for i := 0; i < n; i++ {
		o := i * 4
		b, g, r, a := src[o], src[o+1], src[o+2], src[o+3]
		dst[o], dst[o+1], dst[o+2], dst[o+3] = r, g, b, a
	}
}

// SwapRB24 exchanges bytes 0 and 2 of each 3-byte pixel.
func SwapRB24(src []byte, n int, dst []byte) {
	for i := 0; i < n; i++ {
		o := i * 3
		x, g, y := src[o], src[o+1], src[o+2]
		dst[o], dst[o+1], dst[o+2] = y, g, x
	}
}

// R8G8B8ToR8G8B8A8 widens RGB bytes to RGBA with opaque alpha.
func R8G8B8ToR8G8B8A8(src []byte, n int, dst []byte) {
	for i := n - 1; i >= 0; i-- {
		s, d := i*3, i*4
		r, g, b := src[s], src[s+1], src[s+2]
		dst[d], dst[d+1], dst[d+2], dst[d+3] = r, g, b, 0xFF
	}
}

// R8G8B8A8ToR8G8B8 drops the alpha byte.
func R8G8B8A8ToR8G8B8(src []byte, n int, dst []byte) {
	for i := 0; i < n; i++ {
		s, d := i*4, i*3
		dst[d], dst[d+1], dst[d+2] = src[s], src[s+1], src[s+2]
	}
}

// A1R5G5B5ToA8R8G8B8 expands 1-5-5-5 pixels to 32-bit.
func A1R5G5B5ToA8R8G8B8(src []byte, n int, dst []byte) {
	for i := n - 1; i >= 0; i-- {
		p := binary.LittleEndian.Uint16(src[i*2:])
		d := i * 4
		dst[d] = expand5(p & 0x1F)
		dst[d+1] = expand5(p >> 5 & 0x1F)
		dst[d+2] = expand5(p >> 10 & 0x1F)
		if p&0x8000 != 0 {
			dst[d+3] = 0xFF
		} else {
			dst[d+3] = 0
		}
	}
}

// A8R8G8B8ToA1R5G5B5 truncates 32-bit pixels to 1-5-5-5.
func A8R8G8B8ToA1R5G5B5(src []byte, n int, dst []byte) {
	for i := 0; i < n; i++ {
		s := i * 4
		b, g, r, a := uint16(src[s]), uint16(src[s+1]), uint16(src[s+2]), uint16(src[s+3])
		p := (a>>7)<<15 | (r>>3)<<10 | (g>>3)<<5 | b>>3
		binary.LittleEndian.PutUint16(dst[i*2:], p)
	}
}

// R5G6B5ToA8R8G8B8 expands 5-6-5 pixels to opaque 32-bit.
func R5G6B5ToA8R8G8B8(src []byte, n int, dst []byte) {
	for i := n - 1; i >= 0; i-- {
		p := binary.LittleEndian.Uint16(src[i*2:])
		d := i * 4
		dst[d] = expand5(p & 0x1F)
		dst[d+1] = expand6(p >> 5 & 0x3F)
		dst[d+2] = expand5(p >> 11)
		dst[d+3] = 0xFF
	}
}

// A8R8G8B8ToR5G6B5 truncates 32-bit pixels to 5-6-5, dropping alpha.
func A8R8G8B8ToR5G6B5(src []byte, n int, dst []byte) {
	for i := 0; i < n; i++ {
		s := i * 4
		b, g, r := uint16(src[s]), uint16(src[s+1]), uint16(src[s+2])
		binary.LittleEndian.PutUint16(dst[i*2:], (r>>3)<<11|(g>>2)<<5|b>>3)
	}
}

// R8G8B8ToA8R8G8B8 converts RGB bytes to opaque 32-bit BGRA order.
func R8G8B8ToA8R8G8B8(src []byte, n int, dst []byte) {
	for i := n - 1; i >= 0; i-- {
		s, d := i*3, i*4
		r, g, b := src[s], src[s+1], src[s+2]
		dst[d], dst[d+1], dst[d+2], dst[d+3] = b, g, r, 0xFF
	}
}

// A8R8G8B8ToR8G8B8 converts 32-bit pixels to RGB bytes, dropping alpha.
func A8R8G8B8ToR8G8B8(src []byte, n int, dst []byte) {
	for i := 0; i < n; i++ {
		s, d := i*4, i*3
		b, g, r := src[s], src[s+1], src[s+2]
		dst[d], dst[d+1], dst[d+2] = r, g, b
	}
}

func copyPixels(src []byte, n int, dst []byte) {
	copy(dst, src[:len(dst)])
}

// toARGB and fromARGB route any pair of the four classic color formats
// through A8R8G8B8.
var (
	toARGB = map[Format]ConvertFunc{
		FormatA1R5G5B5: A1R5G5B5ToA8R8G8B8,
		FormatR5G6B5:   R5G6B5ToA8R8G8B8,
		FormatR8G8B8:   R8G8B8ToA8R8G8B8,
		FormatA8R8G8B8: copyPixels,
	}
	fromARGB = map[Format]ConvertFunc{
		FormatA1R5G5B5: A8R8G8B8ToA1R5G5B5,
		FormatR5G6B5:   A8R8G8B8ToR5G6B5,
		FormatR8G8B8:   A8R8G8B8ToR8G8B8,
		FormatA8R8G8B8: copyPixels,
	}
)

// CanConvert reports whether Convert supports the format pair.
func CanConvert(from, to Format) bool {
	_, ok1 := toARGB[from]
	_, ok2 := fromARGB[to]
	return ok1 && ok2
}

// Convert returns a copy of src in the dst format. The mip chain is not
// carried over.
func Convert(src *Buf, dst Format) (*Buf, error) {
	if src == nil {
		return nil, ErrInvalidDimensions
	}
	if src.format == dst {
		c := src.Clone()
		c.mips = nil
		return c, nil
	}
	if !CanConvert(src.format, dst) {
		return nil, ErrUnsupportedConversion
	}

	out, err := NewBuf(src.width, src.height, dst)
	if err != nil {
		return nil, err
	}
	row := make([]byte, src.width*4)
	srcRow := src.format.Pitch(src.width)
	for y := 0; y < src.height; y++ {
		s := src.data[y*src.pitch : y*src.pitch+srcRow]
		d := out.data[y*out.pitch : (y+1)*out.pitch]
		toARGB[src.format](s, src.width, row)
		fromARGB[dst](row, src.width, d)
	}
	return out, nil
}
