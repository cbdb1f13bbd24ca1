// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/z5labs/presets/config/key"

	"github.com/stretchr/testify/assert"
)

type storeFunc func(key.Keyer, any) error

func (f storeFunc) Set(k key.Keyer, v any) error {
	return f(k, v)
}

type setCall struct {
	Key   string
	Value any
}

func recordSets(m Map) ([]setCall, error) {
	var calls []setCall
	err := m.Apply(storeFunc(func(k key.Keyer, v any) error {
		if _, ok := k.(key.Chain); !ok {
			return errors.New("Map must set values with a key.Chain")
		}
		calls = append(calls, setCall{Key: k.Key(), Value: v})
		return nil
	}))
	slices.SortFunc(calls, func(a, b setCall) int {
		return strings.Compare(a.Key, b.Key)
	})
	return calls, err
}

func TestMap_Apply(t *testing.T) {
	t.Run("will set every leaf of a preset fragment", func(t *testing.T) {
		fragment := Map{
			"name": "api",
			"http": map[string]any{
				"port": 8080,
				"tls": Map{
					"enabled": true,
				},
			},
			"hosts": []any{"a", "b"},
		}

		calls, err := recordSets(fragment)
		if !assert.Nil(t, err) {
			return
		}

		expected := []setCall{
			{Key: "hosts", Value: []any{"a", "b"}},
			{Key: "http.port", Value: 8080},
			{Key: "http.tls.enabled", Value: true},
			{Key: "name", Value: "api"},
		}
		if !assert.Equal(t, expected, calls) {
			return
		}
	})

	t.Run("will not chain keys of maps nested in slices", func(t *testing.T) {
		calls, err := recordSets(Map{
			"routes": []map[string]any{{"path": "/"}},
		})
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, []setCall{{Key: "routes", Value: []map[string]any{{"path": "/"}}}}, calls) {
			return
		}
	})

	t.Run("will set empty tables as values", func(t *testing.T) {
		calls, err := recordSets(Map{
			"features": map[string]any{},
			"limits":   Map{},
		})
		if !assert.Nil(t, err) {
			return
		}

		expected := []setCall{
			{Key: "features", Value: map[string]any{}},
			{Key: "limits", Value: map[string]any{}},
		}
		if !assert.Equal(t, expected, calls) {
			return
		}
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the Store fails to set a nested key", func(t *testing.T) {
			setErr := errors.New("failed to set key")
			store := storeFunc(func(key.Keyer, any) error {
				return setErr
			})

			err := Map{"db": map[string]any{"host": "localhost"}}.Apply(store)
			if !assert.ErrorIs(t, err, setErr) {
				return
			}
		})
	})
}
