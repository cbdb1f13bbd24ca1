// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/z5labs/presets"
	"github.com/z5labs/presets/config"
	"github.com/z5labs/presets/resolver"

	"gopkg.in/yaml.v3"
)

// PropEnvPrefix is the prefix of environment variables which
// override base properties, e.g. PRESETS_PROP_NAME=api.
const PropEnvPrefix = "PRESETS_PROP_"

type mapSource interface {
	config.Source

	Map() (config.Map, error)
}

func fileSource(path string) (mapSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	format, err := resolver.FormatOf(abs)
	if err != nil {
		return nil, err
	}

	r := config.NewFileReader(os.DirFS(filepath.Dir(abs)), filepath.Base(abs))
	switch format {
	case resolver.Json:
		return config.FromJson(r), nil
	case resolver.Toml:
		return config.FromToml(r), nil
	default:
		return config.FromYaml(r), nil
	}
}

func readMap(path string) (config.Map, error) {
	src, err := fileSource(path)
	if err != nil {
		return nil, err
	}
	return src.Map()
}

func readProps(paths []string) (presets.Props, error) {
	srcs := make([]config.Source, 0, len(paths)+1)
	for _, p := range paths {
		src, err := fileSource(p)
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, src)
	}
	srcs = append(srcs, config.FromEnv(config.EnvPrefix(PropEnvPrefix)))

	m, err := config.Read(srcs...)
	if err != nil {
		return nil, err
	}
	return presets.Props(m.Map()), nil
}

func propsGroup(props presets.Props) slog.Attr {
	return tableGroup("props", props)
}

// tableGroup logs nested tables as nested groups so every
// key, at any depth, is visible to the masking handler.
func tableGroup(name string, table map[string]any) slog.Attr {
	attrs := make([]any, 0, len(table))
	for _, k := range slices.Sorted(maps.Keys(table)) {
		sub, ok := table[k].(map[string]any)
		if ok {
			attrs = append(attrs, tableGroup(k, sub))
			continue
		}
		attrs = append(attrs, slog.Any(k, table[k]))
	}
	return slog.Group(name, attrs...)
}

// InvalidRefsFileError occurs when the refs file is not a list.
type InvalidRefsFileError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e InvalidRefsFileError) Error() string {
	return fmt.Sprintf("refs file must contain a list of preset references: %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidRefsFileError) Unwrap() error {
	return e.Cause
}

func readRefs(path string, args []string) ([]any, error) {
	var refs []any
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		err = yaml.Unmarshal(b, &refs)
		if err != nil {
			return nil, InvalidRefsFileError{Path: path, Cause: err}
		}
	}

	for _, arg := range args {
		ref, err := parseArgRef(arg)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// MalformedRefError occurs when a positional reference can not be parsed.
type MalformedRefError struct {
	Ref    string
	Reason string
}

// Error implements the error interface.
func (e MalformedRefError) Error() string {
	return fmt.Sprintf("malformed preset reference %q: %s", e.Ref, e.Reason)
}

// parseArgRef parses name or name:key=value,key=value. Values are
// decoded as YAML scalars so port=8080 yields an int.
func parseArgRef(s string) (presets.Ref, error) {
	name, rawArgs, hasArgs := strings.Cut(s, ":")
	if name == "" {
		return nil, MalformedRefError{Ref: s, Reason: "missing preset name"}
	}
	if !hasArgs {
		return presets.Use(name), nil
	}

	args := make(presets.Props)
	for _, pair := range strings.Split(rawArgs, ",") {
		if pair == "" {
			continue
		}
		k, raw, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, MalformedRefError{Ref: s, Reason: fmt.Sprintf("argument %q is not key=value", pair)}
		}

		var v any
		err := yaml.Unmarshal([]byte(raw), &v)
		if err != nil || v == nil {
			v = raw
		}
		args[k] = v
	}
	return presets.UseWith(name, args), nil
}
