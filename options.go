package g3d

import (
	"log/slog"

	"github.com/gogpu/g3d/image"
	"github.com/gogpu/gpucontext"
)

// Option configures a Driver during creation.
//
// Example:
//
//	d, err := g3d.NewDriver(dev,
//	    g3d.WithMipMaps(false),
//	    g3d.WithDebugChecks(true),
//	)
type Option func(*options)

type options struct {
	retainImages            bool
	mipMaps                 bool
	debug                   bool
	scratchCacheSize        int
	depthWriteOnTransparent bool
	logger                  *slog.Logger

	// Host context, consumed by Open only.
	provider   gpucontext.DeviceProvider
	canvas     any
	backbuffer image.Size
}

func defaultOptions() options {
	return options{mipMaps: true}
}

// WithRetainImages keeps a CPU copy of every texture image so locks of
// level 0 and legacy mip regeneration need no read-back.
func WithRetainImages(on bool) Option {
	return func(o *options) { o.retainImages = on }
}

// WithMipMaps controls whether new textures get a mip chain.
// The default is true.
func WithMipMaps(on bool) Option {
	return func(o *options) { o.mipMaps = on }
}

// WithDebugChecks polls the backend for errors after every issued call and
// checks framebuffer completeness. Expensive; meant for development.
func WithDebugChecks(on bool) Option {
	return func(o *options) { o.debug = on }
}

// WithScratchCacheSize bounds the number of read-back framebuffers kept
// alive for texture locks.
func WithScratchCacheSize(n int) Option {
	return func(o *options) { o.scratchCacheSize = n }
}

// WithDepthWriteOnTransparent lets transparent materials write depth when
// they ask for it. By default transparent techniques never write depth.
func WithDepthWriteOnTransparent(on bool) Option {
	return func(o *options) { o.depthWriteOnTransparent = on }
}

// WithLogger installs l as the package logger (see SetLogger).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithConfig applies the driver settings of cfg. Options after it
// override individual settings.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.retainImages = cfg.RetainImages
		o.mipMaps = cfg.MipMaps
		o.debug = cfg.DebugChecks
		o.scratchCacheSize = cfg.ScratchCacheSize
		o.depthWriteOnTransparent = cfg.DepthWriteOnTransparent
	}
}

// WithDeviceProvider hands a host-created WebGPU device to the wgpu backend
// when the driver is created with Open.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *options) { o.provider = p }
}

// WithCanvas hands the host's WebGL2 rendering context to the webgl
// backend when the driver is created with Open.
func WithCanvas(ctx any) Option {
	return func(o *options) { o.canvas = ctx }
}

// WithBackbuffer reports the surface size to backends that cannot query it.
func WithBackbuffer(width, height int) Option {
	return func(o *options) { o.backbuffer = image.Size{Width: width, Height: height} }
}
