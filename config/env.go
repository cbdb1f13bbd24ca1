// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"os"
	"strings"

	"github.com/z5labs/presets/config/key"
)

// EnvOption configures an Env source.
type EnvOption func(*Env)

// EnvPrefix restricts the source to variables starting with prefix.
// The prefix is stripped from the resulting keys.
func EnvPrefix(prefix string) EnvOption {
	return func(e *Env) {
		e.prefix = prefix
	}
}

// EnvNestingSeparator sets the separator used to split a variable
// name into nested keys. Defaults to "__", so APP_SERVER__PORT
// becomes server.port when prefixed by APP_.
func EnvNestingSeparator(sep string) EnvOption {
	return func(e *Env) {
		e.sep = sep
	}
}

// Env represents a Source where its underlying values
// are extracted from environment variables.
type Env struct {
	environ func() []string
	prefix  string
	sep     string
}

// FromEnv returns a Source which will apply its config
// from the environment variables available to the
// current process. Keys are lower cased.
func FromEnv(opts ...EnvOption) Env {
	e := Env{
		environ: os.Environ,
		sep:     "__",
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Apply implements the Source interface.
func (src Env) Apply(store Store) error {
	for _, pair := range src.environ() {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, ok := strings.CutPrefix(k, src.prefix)
		if !ok || name == "" {
			continue
		}

		chain := key.Split(strings.ToLower(name), src.sep)
		if len(chain) == 0 {
			continue
		}
		err := store.Set(chain, v)
		if err != nil {
			return err
		}
	}
	return nil
}
