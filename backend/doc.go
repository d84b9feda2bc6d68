// Package backend is the registry of graphics backends.
//
// Each backend package registers a [Factory] from init(), following the
// database/sql driver pattern. Importing a backend for its side effect makes
// it available:
//
//	import _ "github.com/gogpu/g3d/backend/opengl"
//
// # Backend Selection
//
// Use Default to open the best backend that accepts the host's context, or
// Get to request one by name:
//
//	dev, name, err := backend.Default(backend.Config{Provider: host})
//
//	dev, err := backend.Get("recording", backend.Config{})
//
// Backends never create windows or contexts. The host passes what it owns
// through [Config].
package backend
