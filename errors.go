// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package presets

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPresetType is matched by every [InvalidPresetTypeError].
	ErrInvalidPresetType = errors.New("wrong preset type: should be a name or a preset")

	// ErrNoResolver is matched by every [UnresolvableError].
	ErrNoResolver = errors.New("no resolver configured")

	// ErrNilFactory is the cause of an [InvalidPresetTypeError] when a
	// [Resolver] resolves a name to a nil [Factory].
	ErrNilFactory = errors.New("resolver returned a nil factory")

	// ErrNilPreset is the cause of an [InvalidPresetTypeError] when a
	// [Factory] builds a nil [Preset].
	ErrNilPreset = errors.New("factory returned a nil preset")

	// ErrNilMerge is returned by [Reducer.Reduce] when no merge func is given.
	ErrNilMerge = errors.New("merge func must not be nil")
)

// InvalidPresetTypeError occurs when a preset reference is neither a
// name nor a preset implementation.
type InvalidPresetTypeError struct {
	// Index of the reference in the list given to the Normalizer.
	Index int
	Value any
	Cause error
}

// Error implements the error interface.
func (e InvalidPresetTypeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid preset reference at index %d: %s", e.Index, e.Cause)
	}
	return fmt.Sprintf("invalid preset reference at index %d (%T): %s", e.Index, e.Value, ErrInvalidPresetType)
}

// Is reports whether target is [ErrInvalidPresetType].
func (e InvalidPresetTypeError) Is(target error) bool {
	return target == ErrInvalidPresetType
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidPresetTypeError) Unwrap() error {
	return e.Cause
}

func withIndex(err error, i int) error {
	var ierr InvalidPresetTypeError
	if !errors.As(err, &ierr) {
		return err
	}
	ierr.Index = i
	return ierr
}

// UnresolvableError occurs when a named reference is normalized by a
// Binder without a [Resolver].
type UnresolvableError struct {
	Name string
}

// Error implements the error interface.
func (e UnresolvableError) Error() string {
	return fmt.Sprintf("can not resolve preset %q: %s", e.Name, ErrNoResolver)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e UnresolvableError) Unwrap() error {
	return ErrNoResolver
}
