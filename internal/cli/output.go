// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/z5labs/presets"
	"github.com/z5labs/presets/config"
	"github.com/z5labs/presets/merge"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// UnknownOptionError occurs when a flag is given a value outside
// of its supported set.
type UnknownOptionError struct {
	Flag  string
	Value string
}

// Error implements the error interface.
func (e UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown value for --%s: %q", e.Flag, e.Value)
}

func mergeFuncFor(name string) (presets.MergeFunc, error) {
	switch name {
	case "deep":
		return merge.Deep, nil
	case "shallow":
		return merge.Shallow, nil
	case "override":
		return merge.Override, nil
	case "mergo":
		return merge.Mergo(), nil
	default:
		return nil, UnknownOptionError{Flag: "merge", Value: name}
	}
}

type encodeFunc func(io.Writer, config.Map) error

func encoderFor(format string) (encodeFunc, error) {
	switch format {
	case "yaml":
		return func(w io.Writer, m config.Map) error {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			err := enc.Encode(map[string]any(m))
			if err != nil {
				return err
			}
			return enc.Close()
		}, nil
	case "json":
		return func(w io.Writer, m config.Map) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any(m))
		}, nil
	case "toml":
		return func(w io.Writer, m config.Map) error {
			return toml.NewEncoder(w).Encode(map[string]any(m))
		}, nil
	default:
		return nil, UnknownOptionError{Flag: "output", Value: format}
	}
}
