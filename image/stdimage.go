package image

import (
	stdimage "image"

	"golang.org/x/image/draw"
)

// FromImage copies img into a new A8R8G8B8 buffer.
func FromImage(img stdimage.Image) (*Buf, error) {
	r := img.Bounds()
	if r.Empty() {
		return nil, ErrInvalidDimensions
	}
	w, h := r.Dx(), r.Dy()
	nrgba := stdimage.NewNRGBA(stdimage.Rect(0, 0, w, h))
	draw.Draw(nrgba, nrgba.Bounds(), img, r.Min, draw.Src)

	buf, err := NewBuf(w, h, FormatA8R8G8B8)
	if err != nil {
		return nil, err
	}
	SwapRB32(nrgba.Pix, w*h, buf.data)
	return buf, nil
}

// ToImage converts b to a standard library image.
func ToImage(b *Buf) (*stdimage.NRGBA, error) {
	argb := b
	if b.format != FormatA8R8G8B8 {
		var err error
		if argb, err = Convert(b, FormatA8R8G8B8); err != nil {
			return nil, err
		}
	}
	out := stdimage.NewNRGBA(stdimage.Rect(0, 0, b.width, b.height))
	SwapRB32(argb.Packed(), b.width*b.height, out.Pix)
	return out, nil
}
