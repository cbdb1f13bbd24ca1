// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resolver

import (
	"maps"
	"slices"
	"sync"

	"github.com/z5labs/presets"
)

// Registry is an in-memory [Lookup]. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]presets.Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]presets.Factory),
	}
}

// Register stores f under the given module name, replacing any
// factory previously registered under it.
func (r *Registry) Register(module string, f presets.Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[module] = f
}

// RegisterPreset registers a preset which ignores preset arguments.
func (r *Registry) RegisterPreset(module string, p presets.Preset) {
	r.Register(module, presets.Static(p))
}

// Modules returns the sorted names of every registered module.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.factories))
}

// Lookup implements the [Lookup] interface.
func (r *Registry) Lookup(module string) (presets.Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factories[module]
	if !ok {
		return nil, NotFoundError{Module: module}
	}
	return f, nil
}
