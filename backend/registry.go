package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/g3d/gpucore"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	backendPriority = []string{OpenGL, WGPU, WebGL, Recording}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get opens a device on the named backend.
func Get(name string, cfg Config) (gpucore.Device, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (forgotten import?)", ErrBackendNotAvailable, name)
	}
	dev, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return dev, nil
}

// Default opens the best backend that accepts cfg.
// Priority order: opengl > wgpu > webgl > recording.
func Default(cfg Config) (gpucore.Device, string, error) {
	registryMu.RLock()
	order := make([]string, 0, len(backends))
	seen := make(map[string]bool)
	for _, name := range backendPriority {
		if _, ok := backends[name]; ok {
			order = append(order, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range backends {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	registryMu.RUnlock()
	sort.Strings(rest)
	order = append(order, rest...)

	var lastErr error = ErrBackendNotAvailable
	for _, name := range order {
		dev, err := Get(name, cfg)
		if err == nil {
			return dev, name, nil
		}
		lastErr = err
	}
	return nil, "", lastErr
}
