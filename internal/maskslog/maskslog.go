// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package maskslog provides a slog.Handler which hides the values
// of sensitive attributes, e.g. secret preset properties.
package maskslog

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// Masked replaces the value of every masked attribute.
const Masked = "****"

// Handler is an slog.Handler.
type Handler struct {
	slog slog.Handler
	keys map[string]struct{}
}

// NewHandler returns a Handler which masks attributes, at any group
// depth, whose key case-insensitively equals one of the given keys.
// Values of type map[string]any are logged as groups so their keys
// are masked too.
func NewHandler(h slog.Handler, keys ...string) *Handler {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[strings.ToLower(k)] = struct{}{}
	}
	return &Handler{
		slog: h,
		keys: m,
	}
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if len(h.keys) == 0 {
		return h.slog.Handle(ctx, record)
	}

	nr := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		nr.AddAttrs(h.mask(a))
		return true
	})
	return h.slog.Handle(ctx, nr)
}

func (h *Handler) mask(a slog.Attr) slog.Attr {
	if _, ok := h.keys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, Masked)
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		group := v.Group()
		attrs := make([]any, len(group))
		for i, ga := range group {
			attrs[i] = h.mask(ga)
		}
		return slog.Group(a.Key, attrs...)
	case slog.KindAny:
		m, ok := v.Any().(map[string]any)
		if !ok {
			return a
		}
		attrs := make([]any, 0, len(m))
		for _, k := range slices.Sorted(maps.Keys(m)) {
			attrs = append(attrs, h.mask(slog.Any(k, m[k])))
		}
		return slog.Group(a.Key, attrs...)
	default:
		return a
	}
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask(a)
	}
	return &Handler{
		slog: h.slog.WithAttrs(masked),
		keys: h.keys,
	}
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		slog: h.slog.WithGroup(name),
		keys: h.keys,
	}
}
