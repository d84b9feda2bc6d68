package image

import (
	stdimage "image"
	"image/color"
	"testing"
)

func TestFromImage(t *testing.T) {
	src := stdimage.NewNRGBA(stdimage.Rect(10, 10, 12, 11))
	src.SetNRGBA(10, 10, color.NRGBA{R: 255, G: 128, B: 0, A: 255})
	src.SetNRGBA(11, 10, color.NRGBA{R: 0, G: 0, B: 255, A: 64})

	buf, err := FromImage(src)
	if err != nil {
		t.Fatalf("FromImage() error = %v", err)
	}
	if buf.Size() != (Size{Width: 2, Height: 1}) || buf.Format() != FormatA8R8G8B8 {
		t.Fatalf("FromImage() = %v %v, want 2x1 A8R8G8B8", buf.Size(), buf.Format())
	}
	want := []byte{0, 128, 255, 255, 255, 0, 0, 64}
	for i, b := range want {
		if buf.Data()[i] != b {
			t.Fatalf("Data() = %v, want %v", buf.Data(), want)
		}
	}

	if _, err := FromImage(stdimage.NewNRGBA(stdimage.Rectangle{})); err != ErrInvalidDimensions {
		t.Errorf("FromImage(empty) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestToImage(t *testing.T) {
	buf, _ := NewBuf(1, 1, FormatA8R8G8B8)
	copy(buf.Data(), []byte{10, 20, 30, 40})

	img, err := ToImage(buf)
	if err != nil {
		t.Fatalf("ToImage() error = %v", err)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{R: 30, G: 20, B: 10, A: 40}) {
		t.Errorf("pixel = %v, want {30 20 10 40}", got)
	}
}
