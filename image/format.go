// Package image provides the CPU-side images that the render core turns into
// GPU textures.
//
// Images are produced by loaders outside this module. The package defines the
// semantic color formats understood by every backend, byte-shuffling
// converters for formats a native API cannot ingest directly, re-sampling used
// when a backend clamps texture sizes, and a CPU mip chain generator.
package image

// Format is a semantic pixel format, independent of any native graphics API.
//
// Multi-byte packed formats are stored little-endian, so A8R8G8B8 is laid out
// in memory as B, G, R, A and A1R5G5B5 as a uint16 A<<15 | R<<10 | G<<5 | B.
type Format uint8

const (
	// FormatUnknown is the zero value. For render-target textures it selects
	// the backend's preferred format.
	FormatUnknown Format = iota

	// FormatA1R5G5B5 is 16-bit color with 1 bit of alpha.
	FormatA1R5G5B5

	// FormatR5G6B5 is 16-bit color without alpha.
	FormatR5G6B5

	// FormatR8G8B8 is 24-bit color stored as R, G, B bytes.
	FormatR8G8B8

	// FormatA8R8G8B8 is 32-bit color with alpha.
	FormatA8R8G8B8

	// FormatR8 is a single 8-bit channel.
	FormatR8

	// FormatR8G8 is two 8-bit channels.
	FormatR8G8

	// FormatR16F is a single 16-bit float channel.
	FormatR16F

	// FormatG16R16F is two 16-bit float channels.
	FormatG16R16F

	// FormatA16B16G16R16F is four 16-bit float channels.
	FormatA16B16G16R16F

	// FormatR32F is a single 32-bit float channel.
	FormatR32F

	// FormatG32R32F is two 32-bit float channels.
	FormatG32R32F

	// FormatA32B32G32R32F is four 32-bit float channels.
	FormatA32B32G32R32F

	// FormatDXT1 is BC1 block compression (8 bytes per 4x4 block).
	FormatDXT1

	// FormatDXT3 is BC2 block compression (16 bytes per 4x4 block).
	FormatDXT3

	// FormatDXT5 is BC3 block compression (16 bytes per 4x4 block).
	FormatDXT5

	// FormatD16 is a 16-bit depth buffer.
	FormatD16

	// FormatD24 is a 24-bit depth buffer stored in 32 bits.
	FormatD24

	// FormatD32 is a 32-bit depth buffer.
	FormatD32

	// FormatD24S8 is packed 24-bit depth with 8-bit stencil.
	FormatD24S8

	formatCount
)

// FormatInfo describes the storage of a Format.
type FormatInfo struct {
	Name string

	// BitsPerPixel is zero for block-compressed formats.
	BitsPerPixel int

	// BlockBytes is the size of one 4x4 block for compressed formats.
	BlockBytes int

	HasAlpha   bool
	Compressed bool
	Float      bool
	Depth      bool
	Stencil    bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatUnknown:       {Name: "Unknown"},
	FormatA1R5G5B5:      {Name: "A1R5G5B5", BitsPerPixel: 16, HasAlpha: true},
	FormatR5G6B5:        {Name: "R5G6B5", BitsPerPixel: 16},
	FormatR8G8B8:        {Name: "R8G8B8", BitsPerPixel: 24},
	FormatA8R8G8B8:      {Name: "A8R8G8B8", BitsPerPixel: 32, HasAlpha: true},
	FormatR8:            {Name: "R8", BitsPerPixel: 8},
	FormatR8G8:          {Name: "R8G8", BitsPerPixel: 16},
	FormatR16F:          {Name: "R16F", BitsPerPixel: 16, Float: true},
	FormatG16R16F:       {Name: "G16R16F", BitsPerPixel: 32, Float: true},
	FormatA16B16G16R16F: {Name: "A16B16G16R16F", BitsPerPixel: 64, Float: true, HasAlpha: true},
	FormatR32F:          {Name: "R32F", BitsPerPixel: 32, Float: true},
	FormatG32R32F:       {Name: "G32R32F", BitsPerPixel: 64, Float: true},
	FormatA32B32G32R32F: {Name: "A32B32G32R32F", BitsPerPixel: 128, Float: true, HasAlpha: true},
	FormatDXT1:          {Name: "DXT1", BlockBytes: 8, Compressed: true, HasAlpha: true},
	FormatDXT3:          {Name: "DXT3", BlockBytes: 16, Compressed: true, HasAlpha: true},
	FormatDXT5:          {Name: "DXT5", BlockBytes: 16, Compressed: true, HasAlpha: true},
	FormatD16:           {Name: "D16", BitsPerPixel: 16, Depth: true},
	FormatD24:           {Name: "D24", BitsPerPixel: 32, Depth: true},
	FormatD32:           {Name: "D32", BitsPerPixel: 32, Depth: true},
	FormatD24S8:         {Name: "D24S8", BitsPerPixel: 32, Depth: true, Stencil: true},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{Name: "Invalid"}
	}
	return formatInfoTable[f]
}

// String returns the format name.
func (f Format) String() string {
	return f.Info().Name
}

// IsValid reports whether f is a known, concrete format.
func (f Format) IsValid() bool {
	return f > FormatUnknown && f < formatCount
}

// BytesPerPixel returns the pixel size in bytes, or 0 for compressed formats.
func (f Format) BytesPerPixel() int {
	return f.Info().BitsPerPixel / 8
}

// HasAlpha reports whether the format carries an alpha channel.
func (f Format) HasAlpha() bool { return f.Info().HasAlpha }

// IsCompressed reports whether the format is block compressed.
func (f Format) IsCompressed() bool { return f.Info().Compressed }

// IsFloat reports whether the format stores floating point channels.
func (f Format) IsFloat() bool { return f.Info().Float }

// IsDepth reports whether the format is usable as a depth attachment.
func (f Format) IsDepth() bool { return f.Info().Depth }

// HasStencil reports whether the format carries a stencil channel.
func (f Format) HasStencil() bool { return f.Info().Stencil }

// Pitch returns the number of bytes in one row of the given width.
// For compressed formats it is the size of one row of 4x4 blocks.
func (f Format) Pitch(width int) int {
	info := f.Info()
	if info.Compressed {
		return ((width + 3) / 4) * info.BlockBytes
	}
	return width * info.BitsPerPixel / 8
}

// DataSize returns the number of bytes needed for an image of the given size.
func (f Format) DataSize(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	info := f.Info()
	if info.Compressed {
		return ((width + 3) / 4) * ((height + 3) / 4) * info.BlockBytes
	}
	return width * height * info.BitsPerPixel / 8
}
