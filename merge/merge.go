// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package merge provides reference strategies for folding preset fragments.
//
// Every strategy has the signature of presets.MergeFunc, returns a fresh
// config.Map and never mutates either of its inputs.
package merge

import (
	"fmt"

	"github.com/z5labs/presets/config"

	"dario.cat/mergo"
)

// Deep recursively merges fragment into accumulated. Nested maps are
// merged key by key while any other value in fragment, including slices,
// replaces the accumulated value.
func Deep(fragment, accumulated config.Map) (config.Map, error) {
	out := clone(accumulated)
	deepInto(out, fragment)
	return config.Map(out), nil
}

func deepInto(dst, src map[string]any) {
	for k, v := range src {
		srcM, ok := asMap(v)
		if !ok {
			dst[k] = cloneValue(v)
			continue
		}

		dstM, ok := asMap(dst[k])
		if !ok {
			dst[k] = clone(srcM)
			continue
		}

		// dst[k] is already a private copy made by clone
		deepInto(dstM, srcM)
	}
}

// Shallow copies the top level keys of fragment over accumulated.
func Shallow(fragment, accumulated config.Map) (config.Map, error) {
	out := make(config.Map, len(accumulated)+len(fragment))
	for k, v := range accumulated {
		out[k] = cloneValue(v)
	}
	for k, v := range fragment {
		out[k] = cloneValue(v)
	}
	return out, nil
}

// Override discards accumulated and returns a copy of fragment,
// so the last preset in the fold wins entirely.
func Override(fragment, _ config.Map) (config.Map, error) {
	return config.Map(clone(fragment)), nil
}

// MergoError wraps a failure reported by mergo.
type MergoError struct {
	Cause error
}

// Error implements the error interface.
func (e MergoError) Error() string {
	return fmt.Sprintf("failed to merge fragment: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e MergoError) Unwrap() error {
	return e.Cause
}

// Mergo returns a strategy backed by mergo. Fragment values override
// accumulated values unless opts say otherwise, since mergo.WithOverride
// is always applied first.
func Mergo(opts ...func(*mergo.Config)) func(fragment, accumulated config.Map) (config.Map, error) {
	opts = append([]func(*mergo.Config){mergo.WithOverride}, opts...)

	return func(fragment, accumulated config.Map) (config.Map, error) {
		dst := clone(accumulated)
		err := mergo.Merge(&dst, clone(fragment), opts...)
		if err != nil {
			return nil, MergoError{Cause: err}
		}
		return config.Map(dst), nil
	}
}

func asMap(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case config.Map:
		return x, true
	default:
		return nil, false
	}
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return clone(x)
	case config.Map:
		return clone(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
