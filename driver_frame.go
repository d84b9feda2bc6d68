package g3d

import (
	"fmt"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
)

// TransformKind selects one of the per-draw matrices.
type TransformKind uint8

// Transform kinds.
const (
	TransformWorld TransformKind = iota
	TransformView
	TransformProjection
)

// MaxLights is the number of dynamic lights pushed per draw.
const MaxLights = 8

// SetTransform sets a per-draw matrix. It reaches the backend with the
// next draw.
func (d *Driver) SetTransform(kind TransformKind, m gpucore.Matrix) {
	switch kind {
	case TransformWorld:
		d.constants.World = m
	case TransformView:
		d.constants.View = m
	case TransformProjection:
		d.constants.Projection = m
	}
}

// Transform returns a per-draw matrix.
func (d *Driver) Transform(kind TransformKind) gpucore.Matrix {
	switch kind {
	case TransformView:
		return d.constants.View
	case TransformProjection:
		return d.constants.Projection
	default:
		return d.constants.World
	}
}

// AddLight adds a dynamic light and returns its index, or -1 when
// MaxLights are already active.
func (d *Driver) AddLight(l gpucore.Light) int {
	if len(d.constants.Lights) >= MaxLights {
		slogger().Warn("g3d: too many dynamic lights, light ignored", "max", MaxLights)
		return -1
	}
	d.constants.Lights = append(d.constants.Lights, l)
	return len(d.constants.Lights) - 1
}

// LightCount returns the number of dynamic lights.
func (d *Driver) LightCount() int { return len(d.constants.Lights) }

// ClearLights removes all dynamic lights.
func (d *Driver) ClearLights() { d.constants.Lights = d.constants.Lights[:0] }

// SetFog sets the fog used by materials with Fog enabled.
func (d *Driver) SetFog(f gpucore.Fog) { d.constants.Fog = f }

// Fog returns the fog parameters.
func (d *Driver) Fog() gpucore.Fog { return d.constants.Fog }

// Screenshot reads back the current render target's first color
// attachment, or the backbuffer. It stalls the pipeline.
func (d *Driver) Screenshot() (*image.Buf, error) {
	if d.closed {
		return nil, ErrClosed
	}
	caps := d.cache.Caps()
	if !caps.ReadPixels {
		return nil, fmt.Errorf("%w: read-back", ErrNotSupported)
	}

	size, format := caps.Backbuffer, caps.BackbufferFormat
	if rt := d.target; rt != nil {
		size = rt.Size()
		if t := rt.Texture(0); t != nil {
			format = t.Format()
		}
	}
	if size.Empty() {
		return nil, fmt.Errorf("%w: nothing to read, size %v", ErrInvalidImage, size)
	}
	triple, ok := d.dev.FormatTriple(format)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}

	raw, err := image.NewBuf(size.Width, size.Height, triple.UploadFormat(format))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	r := gpucore.Rect{Width: size.Width, Height: size.Height}
	if err := d.dev.ReadPixels(r, triple, raw.Data()); err != nil {
		return nil, fmt.Errorf("g3d: screenshot: %w", err)
	}
	if triple.Revert == nil {
		return raw, nil
	}
	out, err := image.NewBuf(size.Width, size.Height, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	triple.Revert(raw.Data(), size.Width*size.Height, out.Data())
	return out, nil
}
