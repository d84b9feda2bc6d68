package image

import (
	"errors"
	"fmt"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrInvalidPitch is returned when pitch is less than minimum required.
	ErrInvalidPitch = errors.New("image: pitch too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrCompressed is returned by operations that need addressable pixels.
	ErrCompressed = errors.New("image: operation not supported on compressed format")
)

// Size is a width and height in pixels.
type Size struct {
	Width, Height int
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Buf is a CPU-side image as produced by a loader.
//
// Pixels are stored top-down in rows of Pitch bytes. A Buf may carry
// precomputed mip levels 1..N packed contiguously in MipData; level sizes halve
// each step, rounding down and floored at 1.
type Buf struct {
	data   []byte
	mips   []byte
	width  int
	height int
	pitch  int
	format Format
}

// NewBuf creates a zeroed image of the given size and format.
func NewBuf(width, height int, format Format) (*Buf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	return &Buf{
		data:   make([]byte, format.DataSize(width, height)),
		width:  width,
		height: height,
		pitch:  format.Pitch(width),
		format: format,
	}, nil
}

// FromRaw wraps existing pixel data without copying.
// Pitch must be at least format.Pitch(width); zero selects the minimum.
func FromRaw(data []byte, width, height int, format Format, pitch int) (*Buf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	minPitch := format.Pitch(width)
	if pitch == 0 {
		pitch = minPitch
	}
	if pitch < minPitch {
		return nil, ErrInvalidPitch
	}

	required := pitch * height
	if format.IsCompressed() {
		required = pitch * ((height + 3) / 4)
	}
	if len(data) < required {
		return nil, ErrDataTooSmall
	}
	return &Buf{
		data:   data[:required],
		width:  width,
		height: height,
		pitch:  pitch,
		format: format,
	}, nil
}

// Width returns the image width in pixels.
func (b *Buf) Width() int { return b.width }

// Height returns the image height in pixels.
func (b *Buf) Height() int { return b.height }

// Size returns the image dimensions.
func (b *Buf) Size() Size { return Size{Width: b.width, Height: b.height} }

// Pitch returns the number of bytes per row.
func (b *Buf) Pitch() int { return b.pitch }

// Format returns the pixel format.
func (b *Buf) Format() Format { return b.format }

// Data returns the level 0 pixel bytes. Modifications are visible to the Buf.
func (b *Buf) Data() []byte { return b.data }

// MipData returns the embedded mip chain, or nil.
func (b *Buf) MipData() []byte { return b.mips }

// SetMipData attaches a precomputed mip chain (levels 1..N, contiguous).
func (b *Buf) SetMipData(data []byte) { b.mips = data }

// Tight reports whether rows are packed without padding.
func (b *Buf) Tight() bool {
	return b.pitch == b.format.Pitch(b.width)
}

// Clone returns a deep copy, including the mip chain.
func (b *Buf) Clone() *Buf {
	c := *b
	c.data = append([]byte(nil), b.data...)
	if b.mips != nil {
		c.mips = append([]byte(nil), b.mips...)
	}
	return &c
}

// Packed returns the pixel bytes with any row padding removed.
// It returns the underlying slice when the image is already tight.
func (b *Buf) Packed() []byte {
	if b.Tight() || b.format.IsCompressed() {
		return b.data
	}
	row := b.format.Pitch(b.width)
	out := make([]byte, row*b.height)
	for y := 0; y < b.height; y++ {
		copy(out[y*row:(y+1)*row], b.data[y*b.pitch:y*b.pitch+row])
	}
	return out
}

// Clear zeroes all pixels and drops the mip chain.
func (b *Buf) Clear() {
	clear(b.data)
	b.mips = nil
}

// MipLevelSize returns the dimensions of the given level for a base size.
func MipLevelSize(base Size, level int) Size {
	w, h := base.Width, base.Height
	for i := 0; i < level; i++ {
		w = max(1, w/2)
		h = max(1, h/2)
	}
	return Size{Width: w, Height: h}
}

// MipLevelCount returns the number of levels, including level 0, in a full
// chain for the base size. Halving stops when both dimensions reach 1.
func MipLevelCount(base Size) int {
	if base.Empty() {
		return 0
	}
	n := 1
	w, h := base.Width, base.Height
	for w > 1 || h > 1 {
		w = max(1, w/2)
		h = max(1, h/2)
		n++
	}
	return n
}
