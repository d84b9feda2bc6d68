package g3d

import (
	"fmt"
	"sort"

	"github.com/gogpu/g3d/image"
	"github.com/gogpu/g3d/render"
)

// AddTexture creates a 2D texture from img. A texture of the same name
// already owned by the Driver is returned unchanged.
func (d *Driver) AddTexture(name string, img *image.Buf) (*render.Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: texture %q has no image", ErrInvalidImage, name)
	}
	return d.addTexture(name, []*image.Buf{img})
}

// AddCubeTexture creates a cube texture from six faces in +X, -X, +Y, -Y,
// +Z, -Z order. All faces must share size and format.
func (d *Driver) AddCubeTexture(name string, faces []*image.Buf) (*render.Texture, error) {
	if len(faces) != 6 {
		return nil, fmt.Errorf("%w: cube texture %q needs 6 faces, got %d", ErrInvalidImage, name, len(faces))
	}
	return d.addTexture(name, faces)
}

func (d *Driver) addTexture(name string, images []*image.Buf) (*render.Texture, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if t, ok := d.textures[name]; ok {
		slogger().Debug("g3d: texture exists", "texture", name)
		return t, nil
	}
	for i, img := range images {
		if img == nil || img.Size().Empty() {
			return nil, fmt.Errorf("%w: texture %q image %d is empty", ErrInvalidImage, name, i)
		}
	}

	t := d.cache.NewTexture(name, images, render.TextureOptions{
		RetainImage: d.opts.retainImages,
		MipMaps:     d.opts.mipMaps,
		OnRelease:   d.unregisterTexture,
	})
	if !t.Valid() {
		t.Drop()
		return nil, fmt.Errorf("%w: texture %q (%v)", ErrUnsupportedFormat, name, images[0].Format())
	}
	d.textures[name] = t
	return t, nil
}

// AddRenderTargetTexture creates a texture that can be attached to a
// render target. FormatUnknown selects the backbuffer format.
func (d *Driver) AddRenderTargetTexture(size image.Size, name string, format image.Format) (*render.Texture, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if size.Empty() {
		return nil, fmt.Errorf("%w: render target texture %q has size %v", ErrInvalidImage, name, size)
	}
	if _, ok := d.textures[name]; ok {
		return nil, fmt.Errorf("g3d: texture %q already exists", name)
	}
	t := d.cache.NewRenderTargetTexture(name, size, format, d.unregisterTexture)
	if !t.Valid() {
		t.Drop()
		return nil, fmt.Errorf("%w: render target texture %q (%v)", ErrUnsupportedFormat, name, format)
	}
	d.textures[name] = t
	return t, nil
}

// Texture returns the texture registered under name.
func (d *Driver) Texture(name string) (*render.Texture, error) {
	t, ok := d.textures[name]
	if !ok {
		return nil, fmt.Errorf("%w: texture %q", ErrNotFound, name)
	}
	return t, nil
}

// TextureNames returns the names of all textures, sorted.
func (d *Driver) TextureNames() []string {
	names := make([]string, 0, len(d.textures))
	for name := range d.textures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TextureCount returns the number of textures owned by the Driver.
func (d *Driver) TextureCount() int { return len(d.textures) }

// RemoveTexture releases the Driver's texture t. Every texture unit and
// render target slot holding it is cleared, and materials stop referring
// to it. The native texture is deleted once no other holder remains.
func (d *Driver) RemoveTexture(t *render.Texture) error {
	if t == nil {
		return fmt.Errorf("%w: nil texture", ErrNotFound)
	}
	if t.Backend() != d.Backend() {
		return fmt.Errorf("%w: texture %q is %v, driver is %v", ErrBackendMismatch, t.Name(), t.Backend(), d.Backend())
	}
	owned, ok := d.textures[t.Name()]
	if !ok || owned != t {
		return fmt.Errorf("%w: texture %q", ErrNotFound, t.Name())
	}

	d.cache.Units().Remove(t)
	for _, rt := range d.targets {
		rt.Detach(t)
	}
	d.unregisterTexture(t)
	t.Drop()
	return nil
}

// unregisterTexture removes t from the registry and the materials. It runs
// from RemoveTexture and again when the last holder drops t.
func (d *Driver) unregisterTexture(t *render.Texture) {
	if d.textures[t.Name()] == t {
		delete(d.textures, t.Name())
	}
	forgetTexture(&d.pending, t)
	forgetTexture(&d.applied, t)
}

// RemoveAllTextures releases every texture owned by the Driver.
func (d *Driver) RemoveAllTextures() {
	for _, name := range d.TextureNames() {
		if err := d.RemoveTexture(d.textures[name]); err != nil {
			slogger().Warn("g3d: remove texture failed", "texture", name, "err", err)
		}
	}
}
