package material

import (
	"testing"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/recording"
	"github.com/gogpu/g3d/render"
)

// fakeServices applies nothing of its own so tests see only what the
// renderer issues.
type fakeServices struct {
	cache  *render.StateCache
	fc     gpucore.FrameConstants
	basic  int
	pushes int
}

func (s *fakeServices) Cache() *render.StateCache { return s.cache }

func (s *fakeServices) SetBasicRenderStates(m, last *Material, reset bool) { s.basic++ }

func (s *fakeServices) Constants() *gpucore.FrameConstants { return &s.fc }

func (s *fakeServices) PushConstants() {
	s.pushes++
	s.cache.Device().SetFrameConstants(&s.fc)
}

func (s *fakeServices) SetUniform(name string, values ...float32) bool {
	return s.cache.Device().SetUniform(name, values)
}

func newRecording() *recording.Device { return recording.NewDefault() }

func newServices(t *testing.T) (*fakeServices, *recording.Device) {
	t.Helper()
	dev := newRecording()
	return &fakeServices{cache: render.NewStateCache(dev, render.Options{})}, dev
}
