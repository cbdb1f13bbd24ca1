// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resolver

import (
	"errors"
	"testing"

	"github.com/z5labs/presets"
	"github.com/z5labs/presets/config"

	"github.com/stretchr/testify/assert"
)

func staticFactory(m config.Map) presets.Factory {
	return presets.Static(presets.PresetFunc(func(presets.Props) (config.Map, error) {
		return m, nil
	}))
}

func TestNamespaced(t *testing.T) {
	t.Run("will look up the prefixed module name exactly once", func(t *testing.T) {
		var modules []string
		l := LookupFunc(func(module string) (presets.Factory, error) {
			modules = append(modules, module)
			return staticFactory(config.Map{}), nil
		})

		_, err := Namespaced(l).Resolve("web")
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, []string{"preset-web"}, modules) {
			return
		}
	})

	t.Run("will use the configured prefix", func(t *testing.T) {
		var modules []string
		l := LookupFunc(func(module string) (presets.Factory, error) {
			modules = append(modules, module)
			return staticFactory(config.Map{}), nil
		})

		res := Namespaced(l, Prefix("acme-"))
		for _, name := range []string{"web", "db"} {
			_, err := res.Resolve(name)
			if !assert.Nil(t, err) {
				return
			}
		}
		if !assert.Equal(t, []string{"acme-web", "acme-db"}, modules) {
			return
		}
	})

	t.Run("will return the lookup error unmodified", func(t *testing.T) {
		lookupErr := errors.New("boom")
		l := LookupFunc(func(string) (presets.Factory, error) {
			return nil, lookupErr
		})

		_, err := Namespaced(l).Resolve("web")
		if !assert.Equal(t, lookupErr, err) {
			return
		}
	})

	t.Run("will thread preset arguments through the resolved factory", func(t *testing.T) {
		var gotArgs, gotProps presets.Props
		reg := NewRegistry()
		reg.Register("preset-echo", presets.FactoryFunc(func(args presets.Props) (presets.Preset, error) {
			gotArgs = args
			return presets.PresetFunc(func(props presets.Props) (config.Map, error) {
				gotProps = props
				return config.Map{"foo": args["foo"]}, nil
			}), nil
		}))

		props := presets.Props{"input": "Hello world!"}
		r, err := presets.Bind(props, presets.WithResolver(Namespaced(reg))).
			Normalize(presets.UseWith("echo", presets.Props{"foo": "bar"}))
		if !assert.Nil(t, err) {
			return
		}

		cfg, err := r.Reduce(func(fragment, acc config.Map) (config.Map, error) {
			return fragment, nil
		})
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, presets.Props{"foo": "bar"}, gotArgs) {
			return
		}
		if !assert.Equal(t, props, gotProps) {
			return
		}
		if !assert.Equal(t, config.Map{"foo": "bar"}, cfg) {
			return
		}
	})
}

func TestChain(t *testing.T) {
	t.Run("will fall through lookups returning a NotFoundError", func(t *testing.T) {
		first := NewRegistry()
		second := NewRegistry()
		second.Register("preset-web", staticFactory(config.Map{"from": "second"}))

		f, err := Chain(first, second).Lookup("preset-web")
		if !assert.Nil(t, err) {
			return
		}

		p, err := f.NewPreset(nil)
		if !assert.Nil(t, err) {
			return
		}
		m, err := p.Fragment(nil)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, config.Map{"from": "second"}, m) {
			return
		}
	})

	t.Run("will stop at the first error other than a NotFoundError", func(t *testing.T) {
		lookupErr := errors.New("boom")
		called := false
		failing := LookupFunc(func(string) (presets.Factory, error) {
			return nil, lookupErr
		})
		never := LookupFunc(func(string) (presets.Factory, error) {
			called = true
			return nil, nil
		})

		_, err := Chain(failing, never).Lookup("preset-web")
		if !assert.Equal(t, lookupErr, err) {
			return
		}
		if !assert.False(t, called) {
			return
		}
	})

	t.Run("will return a NotFoundError", func(t *testing.T) {
		t.Run("if no lookup has the module", func(t *testing.T) {
			_, err := Chain(NewRegistry(), NewRegistry()).Lookup("preset-web")

			var nerr NotFoundError
			if !assert.ErrorAs(t, err, &nerr) {
				return
			}
			if !assert.Equal(t, "preset-web", nerr.Module) {
				return
			}
			if !assert.ErrorIs(t, err, ErrNotFound) {
				return
			}
		})
	})
}

func TestRegistry(t *testing.T) {
	t.Run("will list registered modules in sorted order", func(t *testing.T) {
		reg := NewRegistry()
		reg.RegisterPreset("preset-web", presets.PresetFunc(func(presets.Props) (config.Map, error) {
			return nil, nil
		}))
		reg.Register("preset-db", staticFactory(nil))

		if !assert.Equal(t, []string{"preset-db", "preset-web"}, reg.Modules()) {
			return
		}
	})

	t.Run("will fail normalization instead of panicking", func(t *testing.T) {
		t.Run("if a nil preset was registered", func(t *testing.T) {
			reg := NewRegistry()
			reg.RegisterPreset("preset-web", nil)

			_, err := presets.Bind(nil, presets.WithResolver(Namespaced(reg))).Normalize(presets.Use("web"))
			if !assert.ErrorIs(t, err, presets.ErrNilPreset) {
				return
			}
		})

		t.Run("if a nil factory was registered", func(t *testing.T) {
			reg := NewRegistry()
			reg.Register("preset-web", nil)

			_, err := presets.Bind(nil, presets.WithResolver(Namespaced(reg))).Normalize(presets.Use("web"))
			if !assert.ErrorIs(t, err, presets.ErrNilFactory) {
				return
			}
		})
	})

	t.Run("will return a NotFoundError", func(t *testing.T) {
		t.Run("if the module was never registered", func(t *testing.T) {
			_, err := NewRegistry().Lookup("preset-web")
			if !assert.ErrorIs(t, err, ErrNotFound) {
				return
			}
		})
	})
}
