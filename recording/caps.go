package recording

import (
	"github.com/gogpu/g3d/backend"
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/image"
)

// DefaultCaps describes a capable desktop-class device.
func DefaultCaps() gpucore.Caps {
	return gpucore.Caps{
		MaxTextureSize:      4096,
		MaxTextureUnits:     8,
		MaxColorAttachments: 4,
		NPOT:                true,
		MipmapMode:          gpucore.MipmapModern,
		IndependentBlend:    true,
		IndexedColorMask:    true,
		MaxAnisotropy:       16,
		MaxLockLevel:        15,
		ReadPixels:          true,
		PackedDepthStencil:  true,
		FloatTextures:       true,
		RGTextures:          true,
		S3TC:                true,
		DepthTextures:       true,
		Backbuffer:          image.Size{Width: 640, Height: 480},
		BackbufferFormat:    image.FormatA8R8G8B8,
	}
}

func init() {
	backend.Register(backend.Recording, func(cfg backend.Config) (gpucore.Device, error) {
		caps := DefaultCaps()
		if cfg.Caps != nil {
			caps = *cfg.Caps
		}
		return New(caps), nil
	})
}
