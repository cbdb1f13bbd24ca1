// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"

	"github.com/z5labs/presets/config/key"
)

// UnknownKeyerError occurs when a Source sets a value using a
// key.Keyer implementation other than key.Name or key.Chain.
type UnknownKeyerError struct {
	key key.Keyer
}

// Error implements the error interface.
func (e UnknownKeyerError) Error() string {
	return fmt.Sprintf("config source tried setting config value with unknown key.Keyer: %s", e.key.Key())
}

// EmptyKeyChainError occurs when a value is set with a zero length key.Chain.
type EmptyKeyChainError struct {
	Value any
}

// Error implements the error interface.
func (e EmptyKeyChainError) Error() string {
	return fmt.Sprintf("attempted to set value to an empty key chain: %v", e.Value)
}

// inMemoryStore is the Store every Source passed to Read is applied to.
// A later Set always wins over an earlier one: a scalar replaces a
// table and a nested key replaces a scalar found along its path.
type inMemoryStore map[string]any

// Set implements the Store interface.
func (m inMemoryStore) Set(k key.Keyer, v any) error {
	switch x := k.(type) {
	case key.Name:
		assign(m, string(x), v)
		return nil
	case key.Chain:
		return m.setChain(x, v)
	default:
		return UnknownKeyerError{key: k}
	}
}

func (m inMemoryStore) setChain(chain key.Chain, v any) error {
	if len(chain) == 0 {
		return EmptyKeyChainError{Value: v}
	}

	table := map[string]any(m)
	for _, k := range chain[:len(chain)-1] {
		table = subTable(table, k.Key())
	}
	assign(table, chain[len(chain)-1].Key(), v)
	return nil
}

// subTable returns the table stored under name, replacing
// whatever non-table value was previously there.
func subTable(table map[string]any, name string) map[string]any {
	if sub, ok := table[name].(map[string]any); ok {
		return sub
	}
	sub := make(map[string]any)
	table[name] = sub
	return sub
}

// assign stores v under name. Tables are only ever set empty by
// Map.Apply, in which case an existing table is kept as is.
func assign(table map[string]any, name string, v any) {
	sub, ok := asTable(v)
	if !ok {
		table[name] = v
		return
	}
	if len(sub) > 0 {
		table[name] = copyNested(sub)
		return
	}
	if _, isTable := table[name].(map[string]any); isTable {
		return
	}
	table[name] = make(map[string]any)
}

func asTable(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case Map:
		return x, true
	default:
		return nil, false
	}
}
