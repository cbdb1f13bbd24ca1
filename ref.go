// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package presets

import (
	"fmt"

	"github.com/z5labs/presets/config"

	"github.com/go-viper/mapstructure/v2"
)

// Ref references a preset either by name or directly. The only
// implementations are [NamedRef] and [FuncRef].
type Ref interface {
	isRef()
}

// NamedRef references a preset by name. The name is resolved by the
// [Resolver] given to [Bind] and Args are passed to the resulting [Factory].
type NamedRef struct {
	Name string
	Args Props
}

func (NamedRef) isRef() {}

// String implements the [fmt.Stringer] interface.
func (r NamedRef) String() string {
	return r.Name
}

// FuncRef references a preset implementation directly.
type FuncRef struct {
	Preset Preset
}

func (FuncRef) isRef() {}

// Use references the preset registered under name.
func Use(name string) Ref {
	return NamedRef{Name: name}
}

// UseWith references the preset registered under name and
// passes it the given preset specific arguments.
func UseWith(name string, args Props) Ref {
	return NamedRef{Name: name, Args: args}
}

// Func references f directly.
func Func(f func(Props) (config.Map, error)) Ref {
	if f == nil {
		return FuncRef{}
	}
	return FuncRef{Preset: PresetFunc(f)}
}

// Of references p directly.
func Of(p Preset) Ref {
	return FuncRef{Preset: p}
}

type refSpec struct {
	Name string         `config:"name"`
	Args map[string]any `config:"args"`
}

// ParseRef converts an untyped preset reference, as typically decoded
// from YAML, JSON or TOML, into a [Ref]. Accepted values are:
//
//   - a string, which is treated as a preset name
//   - a map with a "name" and optional "args" map
//   - a [Ref], [Preset], [PresetFunc] or func(Props) (config.Map, error)
//
// Any other value results in an [InvalidPresetTypeError].
func ParseRef(v any) (Ref, error) {
	switch x := v.(type) {
	case string:
		return checkRef(0, Use(x))
	case Ref:
		return checkRef(0, x)
	case Preset:
		return checkRef(0, Of(x))
	case func(Props) (config.Map, error):
		return checkRef(0, Func(x))
	case map[string]any:
		return parseRefSpec(x)
	case config.Map:
		return parseRefSpec(x)
	default:
		return nil, InvalidPresetTypeError{Value: v}
	}
}

func parseRefSpec(m map[string]any) (Ref, error) {
	var rs refSpec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "config",
		ErrorUnused: true,
		Result:      &rs,
	})
	if err != nil {
		return nil, err
	}
	err = dec.Decode(m)
	if err != nil {
		return nil, InvalidPresetTypeError{
			Value: m,
			Cause: fmt.Errorf("malformed preset reference: %w", err),
		}
	}
	return checkRef(0, UseWith(rs.Name, rs.Args))
}

func checkRef(i int, ref Ref) (Ref, error) {
	switch x := ref.(type) {
	case NamedRef:
		if x.Name == "" {
			return nil, InvalidPresetTypeError{Index: i, Value: ref}
		}
	case FuncRef:
		if isNilPreset(x.Preset) {
			return nil, InvalidPresetTypeError{Index: i, Value: ref}
		}
	default:
		return nil, InvalidPresetTypeError{Index: i, Value: ref}
	}
	return ref, nil
}
