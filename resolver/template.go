// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resolver

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/z5labs/presets"
	"github.com/z5labs/presets/config"
	"github.com/z5labs/presets/config/configtmpl"
)

// Format identifies the encoding of a preset module.
type Format string

const (
	Yaml Format = "yaml"
	Json Format = "json"
	Toml Format = "toml"
)

// DefaultExtensions are the file extensions [FS] probes, in order.
var DefaultExtensions = []string{".yaml", ".yml", ".json", ".toml"}

// UnsupportedFormatError occurs when a preset module has an
// extension no [Format] is known for.
type UnsupportedFormatError struct {
	Ext string
}

// Error implements the error interface.
func (e UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported preset module format: %q", e.Ext)
}

// FormatOf returns the [Format] for the extension of the given path.
func FormatOf(p string) (Format, error) {
	ext := path.Ext(p)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return Yaml, nil
	case ".json":
		return Json, nil
	case ".toml":
		return Toml, nil
	default:
		return "", UnsupportedFormatError{Ext: ext}
	}
}

// TemplateData is what a preset module template is rendered against.
type TemplateData struct {
	// Props are the base properties of the pipeline.
	Props presets.Props

	// Args are the preset specific arguments of the reference.
	Args presets.Props
}

// Template returns a presets.Factory for a preset module whose
// contents are a text/template of a document in the given format.
//
// The template is rendered every time the preset is invoked, with
// [TemplateData] as data and the configtmpl functions available.
func Template(module string, f Format, src []byte) presets.Factory {
	return presets.FactoryFunc(func(args presets.Props) (presets.Preset, error) {
		if args == nil {
			args = presets.Props{}
		}
		p := &templatePreset{
			module: module,
			format: f,
			src:    src,
			args:   args,
		}
		return p, nil
	})
}

type templatePreset struct {
	module string
	format Format
	src    []byte
	args   presets.Props
}

// Fragment implements the presets.Preset interface.
func (p *templatePreset) Fragment(props presets.Props) (config.Map, error) {
	r := config.RenderTextTemplate(
		bytes.NewReader(p.src),
		config.TemplateName(p.module),
		config.TemplateFuncs(configtmpl.Funcs()),
		config.TemplateData(TemplateData{
			Props: props,
			Args:  p.args,
		}),
	)
	return parse(p.format, r)
}

func parse(f Format, r io.Reader) (config.Map, error) {
	switch f {
	case Yaml:
		return config.FromYaml(r).Map()
	case Json:
		return config.FromJson(r).Map()
	case Toml:
		return config.FromToml(r).Map()
	default:
		return nil, UnsupportedFormatError{Ext: string(f)}
	}
}
