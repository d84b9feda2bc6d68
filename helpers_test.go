package g3d

import (
	"testing"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
	"github.com/gogpu/g3d/material"
	"github.com/gogpu/g3d/recording"
)

func newTestDriver(t *testing.T, edit func(*gpucore.Caps), opts ...Option) (*Driver, *recording.Device) {
	t.Helper()
	caps := recording.DefaultCaps()
	if edit != nil {
		edit(&caps)
	}
	dev := recording.New(caps)
	d, err := NewDriver(dev, opts...)
	if err != nil {
		t.Fatalf("NewDriver() error = %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d, dev
}

func testImage(t *testing.T, w, h int, f image.Format) *image.Buf {
	t.Helper()
	img, err := image.NewBuf(w, h, f)
	if err != nil {
		t.Fatalf("NewBuf() error = %v", err)
	}
	for i := range img.Data() {
		img.Data()[i] = byte(i)
	}
	return img
}

// foreignDevice reports another backend type.
type foreignDevice struct {
	*recording.Device
}

func (foreignDevice) Type() gpucore.BackendType { return gpucore.BackendWebGL }

// countingRenderer records the protocol calls it receives.
type countingRenderer struct {
	set, render, unset int
	resets             int
	lastWasNil         bool
	transparent        bool
}

func (r *countingRenderer) OnSetMaterial(m, last *material.Material, reset bool, s material.Services) {
	r.set++
	if reset {
		r.resets++
	}
	r.lastWasNil = last == nil
	s.SetBasicRenderStates(m, last, reset)
}

func (r *countingRenderer) OnRender(s material.Services) bool {
	r.render++
	return true
}

func (r *countingRenderer) OnUnsetMaterial(material.Services) { r.unset++ }

func (r *countingRenderer) IsTransparent() bool { return r.transparent }
