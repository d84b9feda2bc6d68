package image

import (
	stdimage "image"

	"golang.org/x/image/draw"
)

// Resample returns src scaled to width x height in the same format.
//
// The four classic color formats are filtered bilinearly through
// x/image/draw. Other uncompressed formats are point sampled since their
// channels do not map onto color.Color. Compressed images return
// ErrCompressed.
func Resample(src *Buf, width, height int) (*Buf, error) {
	if src == nil || width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if src.format.IsCompressed() {
		return nil, ErrCompressed
	}
	if src.width == width && src.height == height {
		return src.Clone(), nil
	}
	if CanConvert(src.format, FormatA8R8G8B8) && CanConvert(FormatA8R8G8B8, src.format) {
		return resampleFiltered(src, width, height)
	}
	return resampleNearest(src, width, height)
}

func resampleFiltered(src *Buf, width, height int) (*Buf, error) {
	argb, err := Convert(src, FormatA8R8G8B8)
	if err != nil {
		return nil, err
	}

	in := stdimage.NewNRGBA(stdimage.Rect(0, 0, src.width, src.height))
	SwapRB32(argb.data, src.width*src.height, in.Pix)

	out := stdimage.NewNRGBA(stdimage.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), in, in.Bounds(), draw.Src, nil)

	scaled, err := NewBuf(width, height, FormatA8R8G8B8)
	if err != nil {
		return nil, err
	}
	SwapRB32(out.Pix, width*height, scaled.data)
	if src.format == FormatA8R8G8B8 {
		return scaled, nil
	}
	return Convert(scaled, src.format)
}

func resampleNearest(src *Buf, width, height int) (*Buf, error) {
	dst, err := NewBuf(width, height, src.format)
	if err != nil {
		return nil, err
	}
	bpp := src.format.BytesPerPixel()
	for y := 0; y < height; y++ {
		sy := y * src.height / height
		for x := 0; x < width; x++ {
			sx := x * src.width / width
			s := sy*src.pitch + sx*bpp
			copy(dst.data[y*dst.pitch+x*bpp:], src.data[s:s+bpp])
		}
	}
	return dst, nil
}
