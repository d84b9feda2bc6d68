package material

import "sync"

// Releaser is implemented by renderers owning native objects.
type Releaser interface {
	Release()
}

type entry struct {
	name     string
	renderer Renderer
}

// Registry maps material types to renderers. Built-in techniques occupy
// the types below BuiltinCount; Add appends after them.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
}

// NewRegistry creates a registry holding the built-in techniques.
func NewRegistry() *Registry {
	b := builtins()
	r := &Registry{entries: make([]entry, 0, len(b)+4)}
	for t, rend := range b {
		r.entries = append(r.entries, entry{name: Type(t).String(), renderer: rend})
	}
	return r
}

// Add registers a renderer and returns its type.
func (r *Registry) Add(name string, rend Renderer) Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := Type(len(r.entries))
	r.entries = append(r.entries, entry{name: name, renderer: rend})
	slogger().Debug("material: renderer registered", "name", name, "type", uint32(t))
	return t
}

// Get returns the renderer of t, or nil when t is not registered.
func (r *Registry) Get(t Type) Renderer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(t) >= len(r.entries) {
		return nil
	}
	return r.entries[t].renderer
}

// Name returns the registered name of t, or "" when unknown.
func (r *Registry) Name(t Type) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(t) >= len(r.entries) {
		return ""
	}
	return r.entries[t].name
}

// Lookup finds a type by name.
func (r *Registry) Lookup(name string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i, e := range r.entries {
		if e.name == name {
			return Type(i), true
		}
	}
	return 0, false
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Release releases every renderer that owns native objects and drops all
// registrations after the built-ins.
func (r *Registry) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries[BuiltinCount:] {
		if rel, ok := e.renderer.(Releaser); ok {
			rel.Release()
		}
	}
	r.entries = r.entries[:BuiltinCount]
}
