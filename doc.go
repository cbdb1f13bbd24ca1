// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package presets composes configuration out of reusable presets.
//
// A preset is a small unit of configuration logic which, given some base
// properties, contributes a fragment to the final configuration. Presets
// are composed in three stages:
//
//   - [Bind] captures the base properties shared by every preset.
//   - [Binder.Normalize] resolves an ordered list of preset references
//     into presets. References are either names, which are looked up via
//     an injected [Resolver], or preset implementations.
//   - [Reducer.Reduce] invokes every preset, in order, and folds the
//     fragments into a single configuration using a [MergeFunc].
//
// # Basic Usage
//
//	r, err := presets.Bind(props, presets.WithResolver(res)).Normalize(
//	    presets.Use("base"),
//	    presets.UseWith("http", presets.Props{"port": 8080}),
//	    presets.Func(func(props presets.Props) (config.Map, error) {
//	        return config.Map{"name": props["name"]}, nil
//	    }),
//	)
//	if err != nil {
//	    return err
//	}
//	cfg, err := r.Reduce(merge.Deep, presets.WithSeed(defaults))
//
// # Named Presets
//
// Resolving a name is a two step process. The [Resolver] first maps the
// name to a [Factory], then the [Factory] is given the reference's
// preset specific arguments and returns the [Preset]. Both steps happen
// once, when the reference is normalized. See the resolver package for
// [Resolver] implementations backed by an in-memory registry, an fs.FS
// or a remote HTTP registry.
//
// # Errors
//
// Errors returned by a [Resolver], [Factory], [Preset] or [MergeFunc] are
// returned unmodified to the caller of the stage they occurred in.
package presets
