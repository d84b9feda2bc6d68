package g3d

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/g3d/gpucore"
)

// Config is the file form of the driver settings.
//
//	backend = "recording"
//	retain_images = true
//	mipmaps = true
//
//	[caps]
//	max_texture_size = 256
//	npot = false
//	mipmap_mode = "legacy"
type Config struct {
	// Backend names the backend to open. Empty selects the best available.
	Backend string `toml:"backend"`

	RetainImages            bool `toml:"retain_images"`
	MipMaps                 bool `toml:"mipmaps"`
	DebugChecks             bool `toml:"debug_checks"`
	ScratchCacheSize        int  `toml:"scratch_cache_size"`
	DepthWriteOnTransparent bool `toml:"depth_write_on_transparent"`

	// Caps overrides capabilities of the recording backend.
	Caps *CapsConfig `toml:"caps"`
}

// CapsConfig overrides selected capabilities. Zero and nil fields keep the
// backend's value.
type CapsConfig struct {
	MaxTextureSize      int    `toml:"max_texture_size"`
	TextureUnits        int    `toml:"texture_units"`
	MaxColorAttachments int    `toml:"max_color_attachments"`
	NPOT                *bool  `toml:"npot"`
	ReadPixels          *bool  `toml:"read_pixels"`
	MipmapMode          string `toml:"mipmap_mode"`
}

// DefaultConfig returns the settings NewDriver uses without options.
func DefaultConfig() Config {
	return Config{MipMaps: true}
}

// LoadConfig reads a TOML file over DefaultConfig. Unknown keys are
// logged and ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("g3d: load config %s: %w", path, err)
	}
	checkUndecoded(md, path)
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("g3d: load config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML text over DefaultConfig.
func ParseConfig(text string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("g3d: parse config: %w", err)
	}
	checkUndecoded(md, "")
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("g3d: parse config: %w", err)
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData, path string) {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	slogger().Warn("g3d: unknown config keys ignored", "file", path, "keys", strings.Join(names, ","))
}

func (c Config) validate() error {
	if c.ScratchCacheSize < 0 {
		return fmt.Errorf("scratch_cache_size %d is negative", c.ScratchCacheSize)
	}
	if c.Caps != nil {
		if _, err := parseMipmapMode(c.Caps.MipmapMode); err != nil {
			return err
		}
	}
	return nil
}

// Write encodes the configuration as TOML.
func (c Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("g3d: write config: %w", err)
	}
	return nil
}

func parseMipmapMode(s string) (gpucore.MipmapMode, error) {
	switch strings.ToLower(s) {
	case "", "modern":
		return gpucore.MipmapModern, nil
	case "legacy":
		return gpucore.MipmapLegacy, nil
	case "none":
		return gpucore.MipmapNone, nil
	default:
		return gpucore.MipmapNone, fmt.Errorf("unknown mipmap_mode %q", s)
	}
}

// Apply returns base with the overrides applied.
func (c *CapsConfig) Apply(base gpucore.Caps) gpucore.Caps {
	if c == nil {
		return base
	}
	if c.MaxTextureSize > 0 {
		base.MaxTextureSize = c.MaxTextureSize
	}
	if c.TextureUnits > 0 {
		base.MaxTextureUnits = c.TextureUnits
	}
	if c.MaxColorAttachments > 0 {
		base.MaxColorAttachments = c.MaxColorAttachments
	}
	if c.NPOT != nil {
		base.NPOT = *c.NPOT
	}
	if c.ReadPixels != nil {
		base.ReadPixels = *c.ReadPixels
	}
	if c.MipmapMode != "" {
		if m, err := parseMipmapMode(c.MipmapMode); err == nil {
			base.MipmapMode = m
		}
	}
	return base
}
