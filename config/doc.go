// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config provides the configuration primitives presets are built on.
//
// A [Map] is both a configuration fragment and a [Source]. Sources are
// applied, in order, to a [Store] by [Read], with subsequent sources
// overriding values set by previous ones. The resulting [Manager] can hand
// the merged values back as a [Map] or decode them into a struct using the
// "config" struct tag.
//
// Fragments can be parsed from YAML, JSON and TOML via [FromYaml],
// [FromJson] and [FromToml], or collected from the process environment
// via [FromEnv]. Any of these may first be rendered as a text/template
// with [RenderTextTemplate].
package config
