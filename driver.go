package g3d

import (
	"fmt"
	"io"

	"github.com/gogpu/g3d/backend"
	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/material"
	"github.com/gogpu/g3d/recording"
	"github.com/gogpu/g3d/render"
)

// Driver owns the state cache of one device together with the textures,
// render targets and material renderers created through it, and runs the
// set-material/draw protocol.
//
// A Driver is bound to the thread that owns the device context.
type Driver struct {
	dev   gpucore.Device
	cache *render.StateCache
	opts  options

	materials *material.Registry
	services  *services

	textures map[string]*render.Texture
	targets  []*render.RenderTarget
	target   *render.RenderTarget

	// pending is the material of the next draw; applied the one the
	// pipeline is configured for.
	pending      material.Material
	applied      material.Material
	hasApplied   bool
	resetPending bool
	active       material.Renderer

	constants gpucore.FrameConstants
	closed    bool

	// ownsDevice is set by Open; Close then closes the device too.
	ownsDevice bool
}

// NewDriver creates a Driver on dev. The device capabilities are read once.
func NewDriver(dev gpucore.Device, opts ...Option) (*Driver, error) {
	if dev == nil {
		return nil, ErrNoDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		SetLogger(o.logger)
	}

	d := &Driver{
		dev: dev,
		cache: render.NewStateCache(dev, render.Options{
			Debug:            o.debug,
			ScratchCacheSize: o.scratchCacheSize,
		}),
		opts:      o,
		materials: material.NewRegistry(),
		textures:  make(map[string]*render.Texture),
		pending:   material.Default(),
	}
	d.services = &services{d: d}
	d.constants.World = gpucore.Identity
	d.constants.View = gpucore.Identity
	d.constants.Projection = gpucore.Identity

	caps := d.cache.Caps()
	slogger().Info("g3d: driver created",
		"backend", dev.Type(),
		"maxTextureSize", caps.MaxTextureSize,
		"units", caps.MaxTextureUnits,
		"mipmaps", caps.MipmapMode)
	return d, nil
}

// Open opens the backend named by cfg.Backend, or the best available one,
// and creates a Driver on it. cfg is applied before opts.
func Open(cfg Config, opts ...Option) (*Driver, error) {
	host := defaultOptions()
	for _, opt := range opts {
		opt(&host)
	}
	bcfg := backend.Config{
		Debug:      cfg.DebugChecks,
		Provider:   host.provider,
		Canvas:     host.canvas,
		Backbuffer: host.backbuffer,
	}
	if cfg.Caps != nil {
		caps := cfg.Caps.Apply(recording.DefaultCaps())
		bcfg.Caps = &caps
	}

	var (
		dev  gpucore.Device
		name = cfg.Backend
		err  error
	)
	if name == "" {
		dev, name, err = backend.Default(bcfg)
	} else {
		dev, err = backend.Get(name, bcfg)
	}
	if err != nil {
		return nil, fmt.Errorf("g3d: open backend: %w", err)
	}
	slogger().Info("g3d: backend selected", "backend", name)
	d, err := NewDriver(dev, append([]Option{WithConfig(cfg)}, opts...)...)
	if err != nil {
		return nil, err
	}
	d.ownsDevice = true
	return d, nil
}

// Device returns the backend device.
func (d *Driver) Device() gpucore.Device { return d.dev }

// Cache returns the state cache.
func (d *Driver) Cache() *render.StateCache { return d.cache }

// Backend returns the backend tag.
func (d *Driver) Backend() gpucore.BackendType { return d.cache.Backend() }

// Caps returns the device capabilities as the cache sees them.
func (d *Driver) Caps() gpucore.Caps { return d.cache.Caps() }

// Stats returns the state cache counters.
func (d *Driver) Stats() render.Stats { return d.cache.Stats() }

// Close releases every render target, texture and shader program. The
// Driver must not be used afterwards.
func (d *Driver) Close() error {
	if d.closed {
		return nil
	}
	if d.active != nil {
		d.active.OnUnsetMaterial(d.services)
		d.active = nil
	}
	d.target = nil
	d.cache.SetFramebuffer(gpucore.InvalidID)
	targets := d.targets
	d.targets = nil
	for _, rt := range targets {
		rt.Drop()
	}
	d.RemoveAllTextures()
	d.materials.Release()
	d.cache.Close()
	d.closed = true
	if c, ok := d.dev.(io.Closer); ok && d.ownsDevice {
		if err := c.Close(); err != nil {
			return fmt.Errorf("g3d: close device: %w", err)
		}
	}
	slogger().Debug("g3d: driver closed", "backend", d.Backend())
	return nil
}
