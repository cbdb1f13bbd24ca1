// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package configtmpl provides template functions for use in preset templates.
package configtmpl

import (
	"fmt"
	"os"
	"reflect"
	"text/template"
)

// Funcs returns every helper in this package keyed by the name
// it should be registered under in a text/template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"env":      Env,
		"default":  Default,
		"required": Required,
	}
}

// Env returns the environment variable value for the given key
// or an empty string, if the environment variable does not exist.
//
// The environment is read on every call so presets rendered
// later observe updates made by earlier ones.
func Env(key string) string {
	v, _ := os.LookupEnv(key)
	return v
}

// Default returns the provided def value if v is either nil or the zero value for its type.
func Default(def, v any) any {
	if isEmpty(v) {
		return def
	}
	return v
}

// MissingValueError is returned by Required when the value is nil
// or the zero value for its type.
type MissingValueError struct {
	Name string
}

// Error implements the error interface.
func (e MissingValueError) Error() string {
	return fmt.Sprintf("required template value is missing: %s", e.Name)
}

// Required fails template execution if v is nil or the zero value
// for its type. The name is only used in the error message.
func Required(name string, v any) (any, error) {
	if isEmpty(v) {
		return nil, MissingValueError{Name: name}
	}
	return v, nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}
