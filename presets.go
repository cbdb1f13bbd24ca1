// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package presets

import (
	"github.com/z5labs/presets/config"
)

// Props are the base properties shared by every preset of a pipeline.
type Props map[string]any

// Preset produces a configuration fragment from the base properties.
type Preset interface {
	Fragment(Props) (config.Map, error)
}

// PresetFunc is a functional implementation of the [Preset] interface.
type PresetFunc func(Props) (config.Map, error)

// Fragment implements the [Preset] interface.
func (f PresetFunc) Fragment(props Props) (config.Map, error) {
	return f(props)
}

// Factory builds a [Preset] from preset specific arguments.
type Factory interface {
	NewPreset(args Props) (Preset, error)
}

// FactoryFunc is a functional implementation of the [Factory] interface.
type FactoryFunc func(Props) (Preset, error)

// NewPreset implements the [Factory] interface.
func (f FactoryFunc) NewPreset(args Props) (Preset, error) {
	return f(args)
}

// Static returns a [Factory] which always returns p, ignoring any arguments.
func Static(p Preset) Factory {
	return FactoryFunc(func(Props) (Preset, error) {
		return p, nil
	})
}

// Resolver maps a preset name to the [Factory] implementing it.
type Resolver interface {
	Resolve(name string) (Factory, error)
}

// ResolverFunc is a functional implementation of the [Resolver] interface.
type ResolverFunc func(string) (Factory, error)

// Resolve implements the [Resolver] interface.
func (f ResolverFunc) Resolve(name string) (Factory, error) {
	return f(name)
}

// MergeFunc combines a fragment with the configuration accumulated so far.
type MergeFunc func(fragment, accumulated config.Map) (config.Map, error)

// Option configures a [Binder].
type Option func(*Binder)

// WithResolver registers the [Resolver] used for named references.
func WithResolver(r Resolver) Option {
	return func(b *Binder) {
		b.resolver = r
	}
}

// Binder holds the base properties of a pipeline.
type Binder struct {
	props    Props
	resolver Resolver
}

// Bind captures props for every preset normalized by the returned
// [Binder]. A nil props is treated as empty.
func Bind(props Props, opts ...Option) *Binder {
	if props == nil {
		props = Props{}
	}
	b := &Binder{
		props: props,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Props returns the base properties captured by the Binder.
func (b *Binder) Props() Props {
	return b.props
}

// Normalize resolves every reference, in order, into a [Preset].
//
// All references are validated before any of them is resolved. Each
// [NamedRef] is resolved exactly once and its [Factory] invoked exactly
// once with the reference's Args. Errors returned by the [Resolver]
// or a [Factory] are returned as is.
func (b *Binder) Normalize(refs ...Ref) (*Reducer, error) {
	for i, ref := range refs {
		_, err := checkRef(i, ref)
		if err != nil {
			return nil, err
		}
	}

	resolved := make([]Preset, 0, len(refs))
	for i, ref := range refs {
		p, err := b.resolve(i, ref)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, p)
	}

	r := &Reducer{
		props:   b.props,
		presets: resolved,
	}
	return r, nil
}

// NormalizeAny is like [Binder.Normalize] but accepts untyped references.
// See [ParseRef] for the accepted values.
func (b *Binder) NormalizeAny(vs ...any) (*Reducer, error) {
	refs := make([]Ref, 0, len(vs))
	for i, v := range vs {
		ref, err := ParseRef(v)
		if err != nil {
			return nil, withIndex(err, i)
		}
		refs = append(refs, ref)
	}
	return b.Normalize(refs...)
}

func (b *Binder) resolve(i int, ref Ref) (Preset, error) {
	switch x := ref.(type) {
	case FuncRef:
		return x.Preset, nil
	case NamedRef:
		if b.resolver == nil {
			return nil, UnresolvableError{Name: x.Name}
		}
		f, err := b.resolver.Resolve(x.Name)
		if err != nil {
			return nil, err
		}
		if isNilFactory(f) {
			return nil, InvalidPresetTypeError{Index: i, Value: ref, Cause: ErrNilFactory}
		}

		p, err := f.NewPreset(x.Args)
		if err != nil {
			return nil, err
		}
		if isNilPreset(p) {
			return nil, InvalidPresetTypeError{Index: i, Value: ref, Cause: ErrNilPreset}
		}
		return p, nil
	}
	panic("presets: unreachable")
}

func isNilFactory(f Factory) bool {
	if f == nil {
		return true
	}
	ff, ok := f.(FactoryFunc)
	return ok && ff == nil
}

func isNilPreset(p Preset) bool {
	if p == nil {
		return true
	}
	pf, ok := p.(PresetFunc)
	return ok && pf == nil
}

// ReduceOption configures a single [Reducer.Reduce] call.
type ReduceOption func(*reduceOptions)

type reduceOptions struct {
	seed config.Map
}

// WithSeed sets the initial accumulated configuration.
// By default, the fold starts from an empty config.Map.
func WithSeed(seed config.Map) ReduceOption {
	return func(ro *reduceOptions) {
		ro.seed = seed
	}
}

// Reducer folds the fragments of its normalized presets.
type Reducer struct {
	props   Props
	presets []Preset
}

// Len returns the number of normalized presets.
func (r *Reducer) Len() int {
	return len(r.presets)
}

// Reduce invokes every preset, in order, with the base properties and
// folds the fragments into the seed using merge.
//
// Each preset and merge are called exactly once per preset. The first
// error returned by either aborts the fold and is returned as is.
func (r *Reducer) Reduce(merge MergeFunc, opts ...ReduceOption) (config.Map, error) {
	if merge == nil {
		return nil, ErrNilMerge
	}

	ro := &reduceOptions{}
	for _, opt := range opts {
		opt(ro)
	}

	acc := ro.seed
	if acc == nil {
		acc = config.Map{}
	}
	for _, p := range r.presets {
		fragment, err := p.Fragment(r.props)
		if err != nil {
			return nil, err
		}

		acc, err = merge(fragment, acc)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
