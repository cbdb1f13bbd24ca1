// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package resolver provides presets.Resolver implementations.
//
// A presets.Resolver is built from two parts: a naming convention, which
// maps a preset name to a module name, and a [Lookup], which loads the
// presets.Factory for that module. [Namespaced] implements the convention
// by prefixing the preset name, "preset-" by default, while [Registry],
// [FS] and [HTTP] implement [Lookup] against an in-memory map, an fs.FS
// and a remote HTTP registry, respectively.
package resolver

import (
	"errors"
	"fmt"

	"github.com/z5labs/presets"
)

// DefaultPrefix is prepended to preset names by [Namespaced].
const DefaultPrefix = "preset-"

// Lookup loads the factory of a preset module.
type Lookup interface {
	Lookup(module string) (presets.Factory, error)
}

// LookupFunc is a functional implementation of the [Lookup] interface.
type LookupFunc func(string) (presets.Factory, error)

// Lookup implements the [Lookup] interface.
func (f LookupFunc) Lookup(module string) (presets.Factory, error) {
	return f(module)
}

// ErrNotFound is matched by every [NotFoundError].
var ErrNotFound = errors.New("preset module not found")

// NotFoundError occurs when a [Lookup] has no module with the requested name.
type NotFoundError struct {
	Module string
}

// Error implements the error interface.
func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotFound, e.Module)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Option configures [Namespaced].
type Option func(*namespaced)

// Prefix overrides [DefaultPrefix]. An empty prefix maps
// preset names to module names unchanged.
func Prefix(p string) Option {
	return func(n *namespaced) {
		n.prefix = p
	}
}

type namespaced struct {
	prefix string
	lookup Lookup
}

// Namespaced returns a presets.Resolver which maps a preset name to
// the module prefix+name and loads it with l exactly once per call.
func Namespaced(l Lookup, opts ...Option) presets.Resolver {
	n := &namespaced{
		prefix: DefaultPrefix,
		lookup: l,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Resolve implements the presets.Resolver interface.
func (n *namespaced) Resolve(name string) (presets.Factory, error) {
	return n.lookup.Lookup(n.prefix + name)
}

// Chain returns a [Lookup] which tries each lookup, in order, until one
// returns anything other than a [NotFoundError].
func Chain(lookups ...Lookup) Lookup {
	return LookupFunc(func(module string) (presets.Factory, error) {
		for _, l := range lookups {
			f, err := l.Lookup(module)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return f, err
		}
		return nil, NotFoundError{Module: module}
	})
}
