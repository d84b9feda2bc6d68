// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/g3d/gpucore"

// TextureUnits is the per-unit texture binding table of a StateCache.
//
// Every occupied slot holds one reference to its texture. Binding the
// texture already in a slot costs no native call.
type TextureUnits struct {
	cache *StateCache
	slots []*Texture
}

func newTextureUnits(c *StateCache, n int) *TextureUnits {
	return &TextureUnits{cache: c, slots: make([]*Texture, n)}
}

// Len returns the number of texture units.
func (u *TextureUnits) Len() int { return len(u.slots) }

// Get returns the texture bound to unit, or nil.
func (u *TextureUnits) Get(unit int) *Texture {
	if unit < 0 || unit >= len(u.slots) {
		return nil
	}
	return u.slots[unit]
}

// Set binds t to unit. A nil t unbinds the unit.
//
// Set returns true when t is bound afterwards, including when it already
// was. A texture from another backend is refused: the unit is unbound, an
// error is logged and Set returns false. Set is a no-op returning false
// while the cache is locked.
func (u *TextureUnits) Set(unit int, t *Texture) bool {
	if u.cache.locked {
		return false
	}
	return u.set(unit, t)
}

func (u *TextureUnits) set(unit int, t *Texture) bool {
	c := u.cache
	if !c.validIndex(CategoryTexture, unit, len(u.slots)) {
		return false
	}
	if t != nil && t.backend != c.backend {
		slogger().Error("render: texture belongs to another backend",
			"texture", t.name, "backend", t.backend, "want", c.backend, "unit", unit)
		u.set(unit, nil)
		return false
	}

	cur := u.slots[unit]
	if cur == t && !c.isStale(CategoryTexture, unit) {
		c.skip(CategoryTexture)
		return true
	}

	kind := gpucore.TextureKind2D
	handle := gpucore.TextureHandle(gpucore.InvalidID)
	switch {
	case t != nil:
		kind, handle = t.kind, t.handle
	case cur != nil:
		kind = cur.kind
	}

	if !c.setActiveUnit(unit) {
		return false
	}
	if cur != nil && t != nil && cur.kind != t.kind {
		// A unit keeps one binding per target; clear the old one.
		c.dev.BindTexture(cur.kind, gpucore.InvalidID)
		c.issued(CategoryTexture, unit, "BindTexture")
	}
	c.dev.BindTexture(kind, handle)
	c.issued(CategoryTexture, unit, "BindTexture")

	u.slots[unit] = t
	if t != nil {
		t.refs.grab()
	}
	if cur != nil {
		cur.Drop()
	}
	return true
}

// Remove evicts t from every unit it occupies, unbinding it natively and
// dropping the references those slots held. It ignores the cache lock.
func (u *TextureUnits) Remove(t *Texture) {
	if t == nil {
		return
	}
	var hits []int
	for i, s := range u.slots {
		if s == t {
			hits = append(hits, i)
		}
	}
	if len(hits) == 0 {
		return
	}
	c := u.cache
	for _, i := range hits {
		u.slots[i] = nil
		if c.setActiveUnit(i) {
			c.dev.BindTexture(t.kind, gpucore.InvalidID)
			c.issued(CategoryTexture, i, "BindTexture")
		}
	}
	for range hits {
		t.Drop()
	}
}

// Clear unbinds every unit. It ignores the cache lock.
func (u *TextureUnits) Clear() { u.clear() }

func (u *TextureUnits) clear() {
	for i, s := range u.slots {
		if s != nil {
			u.set(i, nil)
		}
	}
}

// holding binds t to unit 0 for the duration of fn and restores the previous
// occupant. Uploads use it so that texture creation and re-upload ignore the
// cache lock without leaving the mirror out of sync.
func (u *TextureUnits) holding(t *Texture, fn func()) {
	prev := u.slots[0]
	if prev != nil {
		prev.refs.grab()
	}
	u.set(0, t)
	fn()
	u.set(0, prev)
	if prev != nil {
		prev.Drop()
	}
}
